// Package app assembles the services, handlers and router over a store.
package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/dental-admin/internal/config"
	"github.com/jwalitptl/dental-admin/internal/handler"
	appointmenthandler "github.com/jwalitptl/dental-admin/internal/handler/appointment"
	authhandler "github.com/jwalitptl/dental-admin/internal/handler/auth"
	dashboardhandler "github.com/jwalitptl/dental-admin/internal/handler/dashboard"
	invoicehandler "github.com/jwalitptl/dental-admin/internal/handler/invoice"
	patienthandler "github.com/jwalitptl/dental-admin/internal/handler/patient"
	treatmenthandler "github.com/jwalitptl/dental-admin/internal/handler/treatment"
	"github.com/jwalitptl/dental-admin/internal/middleware"
	"github.com/jwalitptl/dental-admin/internal/repository"
	"github.com/jwalitptl/dental-admin/internal/router"
	"github.com/jwalitptl/dental-admin/internal/service/appointment"
	authservice "github.com/jwalitptl/dental-admin/internal/service/auth"
	"github.com/jwalitptl/dental-admin/internal/service/dashboard"
	"github.com/jwalitptl/dental-admin/internal/service/invoice"
	"github.com/jwalitptl/dental-admin/internal/service/patient"
	"github.com/jwalitptl/dental-admin/internal/service/treatment"
	"github.com/jwalitptl/dental-admin/internal/session"
	"github.com/jwalitptl/dental-admin/pkg/auth"
	"github.com/jwalitptl/dental-admin/pkg/metrics"
	"github.com/jwalitptl/dental-admin/pkg/security"
	"github.com/jwalitptl/dental-admin/pkg/validator"
)

const metricsNamespace = "dental"

type Options struct {
	// Revocations defaults to an in-process store.
	Revocations auth.RevocationStore
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Renderer   handler.Renderer
}

type App struct {
	Store   repository.Store
	Metrics *metrics.Metrics
	Auth    *authservice.Service
	Router  *router.Router
}

func New(cfg *config.Config, store repository.Store, opts Options) *App {
	if opts.Revocations == nil {
		opts.Revocations = auth.NewMemoryRevocationStore()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Renderer == nil {
		opts.Renderer = handler.NewJSONRenderer()
	}

	secret := cfg.Session.Secret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn().Msg("No session secret configured; sessions will not survive a restart")
	}

	m := metrics.New(metricsNamespace)
	v := validator.New()

	authSvc := authservice.NewService(store.Users(), security.NewBcryptHasher(opts.BcryptCost), v, m)
	patientSvc := patient.NewService(store, v, cfg.Patients.DeletePolicy)
	appointmentSvc := appointment.NewService(store, v, m)
	treatmentSvc := treatment.NewService(store, v)
	invoiceSvc := invoice.NewService(store, v)
	dashboardSvc := dashboard.NewService(store)

	sessions := session.NewManager(
		auth.NewJWTService(secret, cfg.Session.TTL),
		opts.Revocations,
		session.Config{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Session.Secure,
		},
	)

	base := handler.NewBaseHandler(opts.Renderer)
	loginLimit := router.NewLoginLimiter(middleware.RateLimiterConfig{
		RPS:   cfg.RateLimit.LoginRPS,
		Burst: cfg.RateLimit.LoginBurst,
	}, m)

	r := router.NewRouter(
		middleware.NewAuthMiddleware(sessions),
		handler.NewHandler(base, store),
		m,
		[]router.Handler{
			authhandler.NewHandler(base, authSvc, sessions, loginLimit),
		},
		[]router.Handler{
			dashboardhandler.NewHandler(base, dashboardSvc),
			patienthandler.NewHandler(base, patientSvc),
			appointmenthandler.NewHandler(base, appointmentSvc),
			treatmenthandler.NewHandler(base, treatmentSvc),
			invoicehandler.NewHandler(base, invoiceSvc),
		},
		router.Config{
			Security:       middleware.DefaultSecurityConfig(cfg.Session.Secure),
			RequestTimeout: cfg.Server.RequestTimeout,
			TrustedProxies: cfg.Server.TrustedProxies,
		},
	)
	r.Setup()

	return &App{
		Store:   store,
		Metrics: m,
		Auth:    authSvc,
		Router:  r,
	}
}

func (a *App) Handler() http.Handler {
	return a.Router.Engine()
}

// GinMode maps the configured server mode onto gin's.
func GinMode(mode string) string {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		return mode
	default:
		return gin.ReleaseMode
	}
}
