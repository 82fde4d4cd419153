package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/session"
)

// Context keys set by RequireAuth
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

// LoginPath is where unauthenticated callers are sent.
const LoginPath = "/login"

type AuthMiddleware struct {
	sessions *session.Manager
}

func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// RequireAuth redirects to the login page unless the request carries a valid
// session, and otherwise stores the identity in the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.sessions.Load(c)
		if err != nil {
			if err != session.ErrNoSession {
				log.Ctx(c.Request.Context()).Debug().Err(err).Msg("Session rejected")
			}
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		identity := claims.Identity()
		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextUsername, identity.Username)
		c.Set(ContextRole, identity.Role)
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by RequireAuth, or nil.
func CurrentIdentity(c *gin.Context) *model.Identity {
	uid, ok := c.Get(ContextUserID)
	if !ok {
		return nil
	}
	id, _ := uid.(int64)
	return &model.Identity{
		UserID:   id,
		Username: c.GetString(ContextUsername),
		Role:     c.GetString(ContextRole),
	}
}
