package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/dental-admin/internal/handler"
	"github.com/jwalitptl/dental-admin/internal/middleware"
	"github.com/jwalitptl/dental-admin/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	Security       middleware.SecurityConfig
	RequestTimeout time.Duration
	MaxBodySize    int64
	// TrustedProxies may set X-Forwarded-For. With none, the client IP
	// used by the login limiter is always the peer address.
	TrustedProxies []string
}

type Router struct {
	engine    *gin.Engine
	auth      *middleware.AuthMiddleware
	h         *handler.Handler
	metrics   *metrics.Metrics
	public    []Handler
	protected []Handler
}

// NewRouter builds the engine. public handlers are reachable without a
// session; protected ones sit behind RequireAuth.
func NewRouter(
	auth *middleware.AuthMiddleware,
	h *handler.Handler,
	m *metrics.Metrics,
	public []Handler,
	protected []Handler,
	config Config,
) *Router {
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = middleware.DefaultMaxBodySize
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(config.TrustedProxies); err != nil {
		log.Error().Err(err).Msg("Invalid trusted proxies; trusting none")
		_ = engine.SetTrustedProxies(nil)
	}

	r := &Router{
		engine:    engine,
		auth:      auth,
		h:         h,
		metrics:   m,
		public:    public,
		protected: protected,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		m.Middleware(),
		middleware.SecurityHeaders(config.Security),
		middleware.NoStore(),
		middleware.SizeLimit(config.MaxBodySize),
		middleware.Timeout(config.RequestTimeout),
	)

	return r
}

// NewLoginLimiter guards POST /login per client IP and counts rejections.
func NewLoginLimiter(config middleware.RateLimiterConfig, m *metrics.Metrics) gin.HandlerFunc {
	if config.Message == "" {
		config.Message = "Too many login attempts, try again later"
	}
	return middleware.NewRateLimiter(config).
		OnLimit(func(*gin.Context) {
			m.LoginAttempt(metrics.LoginRateLimited)
		}).
		RateLimit()
}

func (r *Router) Setup() {
	r.setupHealthCheck(r.engine.Group("/health"))
	r.engine.GET("/metrics", r.metrics.Handler())

	root := r.engine.Group("")
	r.setupPublicRoutes(root)

	protected := r.engine.Group("")
	protected.Use(r.auth.RequireAuth())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	rg.GET("/live", r.h.LivenessCheck)
	rg.GET("/ready", r.h.ReadinessCheck)
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/", r.h.Home)
	for _, h := range r.public {
		h.RegisterRoutes(rg)
	}
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	for _, h := range r.protected {
		h.RegisterRoutes(rg)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
