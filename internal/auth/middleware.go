package auth

import (
	"github.com/gin-gonic/gin"
)

// ContextKeyIdentity is the gin context key holding the request Identity.
const ContextKeyIdentity = "auth_identity"

// Verifier checks an Authorization header.
type Verifier interface {
	VerifyRequest(header string) (Identity, error)
}

// Middleware guards routes with bearer tokens.
type Middleware struct {
	verifier Verifier
	onError  func(c *gin.Context, err error)
}

// NewMiddleware creates the middleware. onError writes the rejection for
// RequireAdmin; it must abort the request.
func NewMiddleware(verifier Verifier, onError func(c *gin.Context, err error)) *Middleware {
	return &Middleware{verifier: verifier, onError: onError}
}

// RequireAdmin rejects requests without a valid token.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := m.verifier.VerifyRequest(c.GetHeader("Authorization"))
		if err != nil {
			m.onError(c, err)
			c.Abort()
			return
		}
		c.Set(ContextKeyIdentity, identity)
		c.Next()
	}
}

// OptionalAdmin attaches the identity when a valid token is present and
// otherwise lets the request through anonymously.
func (m *Middleware) OptionalAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, err := m.verifier.VerifyRequest(c.GetHeader("Authorization")); err == nil {
			c.Set(ContextKeyIdentity, identity)
		}
		c.Next()
	}
}

// GetIdentity retrieves the authenticated admin from the context.
func GetIdentity(c *gin.Context) (Identity, bool) {
	if v, exists := c.Get(ContextKeyIdentity); exists {
		if identity, ok := v.(Identity); ok {
			return identity, true
		}
	}
	return Identity{}, false
}

// IsAdmin reports whether the request carries a valid admin token.
func IsAdmin(c *gin.Context) bool {
	_, ok := GetIdentity(c)
	return ok
}
