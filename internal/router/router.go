package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// HealthHandler registers its routes on any router so probes can live
// outside the versioned API.
type HealthHandler interface {
	RegisterRoutes(gin.IRouter)
}

// Handlers lists every resource handler mounted under /api/v1.
type Handlers struct {
	Health       HealthHandler
	Auth         Handler
	Users        Handler
	Appointments Handler
	Availability Handler
	Notes        Handler
	Services     Handler
	Locations    Handler
	Hours        Handler
	Messages     Handler
	Dashboard    Handler
}

type RouterConfig struct {
	ServiceName    string
	Mode           string
	RateLimit      float64
	RateBurst      int
	RequestTimeout time.Duration
	CORSConfig     middleware.CORSConfig
	SizeLimit      middleware.SizeLimitConfig
}

type Router struct {
	engine   *gin.Engine
	handlers Handlers
}

func NewRouter(
	resolver middleware.ActorResolver,
	handlers Handlers,
	m *metrics.Metrics,
	config RouterConfig,
) (*Router, error) {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}
	if err := middleware.RegisterValidators(); err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
	)
	if m != nil {
		engine.Use(middleware.Metrics(m))
	}
	engine.Use(
		otelgin.Middleware(config.ServiceName),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.SizeLimit(config.SizeLimit),
		middleware.CORS(config.CORSConfig),
	)
	if config.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}))
	}
	if config.RateLimit > 0 {
		engine.Use(middleware.NewRateLimiter(config.RateLimit, config.RateBurst).RateLimit())
	}
	engine.Use(middleware.Identify(resolver))

	return &Router{engine: engine, handlers: handlers}, nil
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	if r.handlers.Health != nil {
		r.handlers.Health.RegisterRoutes(api)
	}

	for _, h := range []Handler{
		r.handlers.Auth,
		r.handlers.Users,
		r.handlers.Appointments,
		r.handlers.Availability,
		r.handlers.Notes,
		r.handlers.Services,
		r.handlers.Locations,
		r.handlers.Hours,
		r.handlers.Messages,
		r.handlers.Dashboard,
	} {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
