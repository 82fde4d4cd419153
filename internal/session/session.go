// Package session keeps the signed-in identity in an HttpOnly cookie and
// carries one-shot flash messages across redirects.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/pkg/auth"
)

var (
	ErrNoSession = errors.New("no session")
	ErrRevoked   = errors.New("session has been revoked")
)

type Config struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

type Manager struct {
	tokens      auth.JWTService
	revocations auth.RevocationStore
	cfg         Config
}

func NewManager(tokens auth.JWTService, revocations auth.RevocationStore, cfg Config) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = "dental_session"
	}
	return &Manager{
		tokens:      tokens,
		revocations: revocations,
		cfg:         cfg,
	}
}

// Start issues a session for identity and sets the cookie.
func (m *Manager) Start(c *gin.Context, identity *model.Identity) error {
	token, _, err := m.tokens.GenerateToken(identity)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, token, int(m.cfg.TTL.Seconds()), "/", "", m.cfg.Secure, true)
	return nil
}

// Load returns the claims of the current session. Missing, malformed,
// expired and revoked sessions all return an error.
func (m *Manager) Load(c *gin.Context) (*auth.Claims, error) {
	token, err := c.Cookie(m.cfg.CookieName)
	if err != nil || token == "" {
		return nil, ErrNoSession
	}

	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := m.revocations.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevoked
	}
	return claims, nil
}

// End revokes the current session, if any, and clears the cookie.
func (m *Manager) End(c *gin.Context) error {
	defer m.clear(c)

	claims, err := m.Load(c)
	if err != nil {
		return nil
	}
	return m.revocations.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time)
}

func (m *Manager) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, "", -1, "/", "", m.cfg.Secure, true)
}
