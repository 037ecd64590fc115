package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/userhub/admin-api/internal/config"
	"github.com/userhub/admin-api/internal/middleware"
	"github.com/userhub/admin-api/pkg/metrics"
)

// Handler registers a route subtree on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine *gin.Engine
}

// New assembles the engine. publicHandlers get the bare /api/v1 group (the
// announcement banner endpoint is public by design); authedHandlers sit
// behind the identity requirement.
func New(
	cfg config.ServerConfig,
	m *metrics.Metrics,
	healthHandler Handler,
	publicHandlers []Handler,
	authedHandlers []Handler,
) *Router {
	engine := gin.New()

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.RateLimit),
		Burst: cfg.RateBurst,
	})

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(middleware.DefaultCORSConfig()),
		limiter.RateLimit(),
		middleware.Metrics(m),
		middleware.Identity(),
		middleware.ErrorHandler(),
	)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	root := engine.Group("")
	healthHandler.RegisterRoutes(root)

	api := engine.Group("/api/v1")
	for _, h := range publicHandlers {
		h.RegisterRoutes(api)
	}

	authed := api.Group("", middleware.RequireIdentity())
	for _, h := range authedHandlers {
		h.RegisterRoutes(authed)
	}

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
