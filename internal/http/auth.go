package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/auth"
)

type AuthController struct {
	auth    Authenticator
	auditor Auditor
	respond *Responder
}

func NewAuthController(authenticator Authenticator, auditor Auditor, respond *Responder) *AuthController {
	return &AuthController{auth: authenticator, auditor: auditor, respond: respond}
}

// Login exchanges credentials for a bearer token.
// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var creds auth.Credentials
	if err := bindJSON(c, &creds); err != nil {
		ac.respond.Error(c, err)
		return
	}

	result, err := ac.auth.Login(c.Request.Context(), creds, c.ClientIP())
	if ac.auditor != nil && apperr.KindOf(err) != apperr.KindValidation {
		if err != nil {
			ac.auditor.LogAuth(nil, "login_failed", creds.Username, c.ClientIP(), c.Request.UserAgent(), false)
		} else {
			id := result.User.ID
			ac.auditor.LogAuth(&id, "login", creds.Username, c.ClientIP(), c.Request.UserAgent(), true)
		}
	}
	if err != nil {
		ac.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Register creates the first admin. Once an admin exists it answers 409.
// POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var creds auth.Credentials
	if err := bindJSON(c, &creds); err != nil {
		ac.respond.Error(c, err)
		return
	}

	admin, err := ac.auth.RegisterFirstAdmin(c.Request.Context(), creds)
	if ac.auditor != nil && err == nil {
		id := admin.ID
		ac.auditor.LogAuth(&id, "register", admin.Username, c.ClientIP(), c.Request.UserAgent(), true)
	}
	if err != nil {
		ac.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	identity, ok := auth.GetIdentity(c)
	if !ok {
		ac.respond.Error(c, apperr.Unauthorized())
		return
	}
	c.JSON(http.StatusOK, identity)
}
