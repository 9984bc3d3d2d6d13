package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"focus-backend/internal/services/health"
	"focus-backend/internal/shared/config"
	"focus-backend/internal/shared/metrics"
	"focus-backend/internal/shared/server/middleware"
	"focus-backend/internal/shared/server/respond"
)

// ServiceName identifies the API in traces.
const ServiceName = "focus-backend"

// RouteRegistrar attaches feature routes.
type RouteRegistrar interface {
	RegisterRoutes(rg gin.IRoutes)
}

// RouterDeps holds everything NewRouter wires.
type RouterDeps struct {
	Config   config.Config
	Handlers []RouteRegistrar
	Gatherer prometheus.Gatherer
	Health   *health.Service
	// UploadsDir is served under /uploads when set (local asset store).
	UploadsDir string
	Limiter    *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		otelgin.Middleware(ServiceName),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: middleware.MutationGroupFor,
			Limiter:  deps.Limiter,
			Rules: map[string]middleware.RateLimitRule{
				middleware.MutationGroup: {Rate: 2, Burst: 20},
			},
		}),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/health", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	r.GET("/metrics", metrics.Handler(deps.Gatherer))
	if dir := strings.TrimSpace(deps.UploadsDir); dir != "" {
		r.Static("/uploads", dir)
	}
	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(r)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})
	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3001"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
