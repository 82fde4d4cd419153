package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/dental-admin/internal/handler"
	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/session"
	"github.com/jwalitptl/dental-admin/pkg/errors"
)

// Authenticator checks login credentials.
type Authenticator interface {
	Login(ctx context.Context, form model.LoginForm) (*model.Identity, error)
}

type Handler struct {
	*handler.BaseHandler
	service  Authenticator
	sessions *session.Manager
	limit    gin.HandlerFunc
}

// NewHandler wires the login pages. limit guards POST /login and may be nil.
func NewHandler(base *handler.BaseHandler, service Authenticator, sessions *session.Manager, limit gin.HandlerFunc) *Handler {
	return &Handler{
		BaseHandler: base,
		service:     service,
		sessions:    sessions,
		limit:       limit,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	login := []gin.HandlerFunc{h.Login}
	if h.limit != nil {
		login = append([]gin.HandlerFunc{h.limit}, login...)
	}

	r.GET("/login", h.LoginPage)
	r.POST("/login", login...)
	r.GET("/logout", h.Logout)
}

func (h *Handler) LoginPage(c *gin.Context) {
	if _, err := h.sessions.Load(c); err == nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.Render(c, http.StatusOK, handler.View{Name: "login", Form: model.LoginForm{}})
}

func (h *Handler) Login(c *gin.Context) {
	var form model.LoginForm
	if !h.Bind(c, &form) {
		return
	}

	identity, err := h.service.Login(c.Request.Context(), form)
	if err != nil {
		if errors.Is(err, errors.ErrUnauthorized) {
			h.Render(c, http.StatusUnauthorized, handler.View{
				Name:  "login",
				Form:  model.LoginForm{Username: form.Username},
				Flash: &session.Flash{Category: session.FlashDanger, Message: "Invalid credentials"},
			})
			return
		}
		h.RenderForm(c, "login", model.LoginForm{Username: form.Username}, nil, err)
		return
	}

	if err := h.sessions.Start(c, identity); err != nil {
		h.RespondError(c, err)
		return
	}

	log.Ctx(c.Request.Context()).Info().
		Int64("user_id", identity.UserID).
		Str("username", identity.Username).
		Msg("User logged in")

	h.Redirect(c, "/dashboard", session.FlashSuccess, "Logged in successfully.")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.End(c); err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to revoke session")
	}
	h.Redirect(c, "/", session.FlashInfo, "Logged out")
}
