// Package auth authenticates the single site administrator.
//
// Admins log in with a username and password and receive an HS256 JWT. Write
// endpoints require "Authorization: Bearer <token>"; read endpoints accept an
// optional token that only decides whether drafts are visible.
//
// # Configuration
//
//	JWT_SECRET=<random string>     # Required in production
//	JWT_EXPIRATION=604800          # Token lifetime in seconds (7 days)
//	AUTH_MAX_LOGIN_ATTEMPTS=5      # Failed logins before lockout
//	AUTH_RATE_LIMIT_WINDOW=15m     # Window for counting failures
//	AUTH_LOCKOUT_DURATION=30m      # Lockout length
//	RATE_LIMIT_BACKEND=memory      # or "redis" to share lockouts between instances
//
// # Usage
//
//	tokens := auth.NewTokens(secret, cfg.Auth.JWTExpiration)
//	service := auth.NewService(adminRepo, tokens, attemptStore, cfg.Auth)
//	middleware := auth.NewMiddleware(service)
//
//	api.POST("/novels", middleware.RequireAdmin(), controller.Create)
//	api.GET("/novels", middleware.OptionalAdmin(), controller.List)
//
// Extract the identity in handlers:
//
//	identity, ok := auth.GetIdentity(c)
package auth
