package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"record-attachments/internal/documents"
	"record-attachments/internal/services/health"
	"record-attachments/internal/shared/config"
	"record-attachments/internal/shared/metrics"
	"record-attachments/internal/shared/server/middleware"
	"record-attachments/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	DocumentHandler *documents.Handler
	Health          *health.Service
	// Limiter overrides the rate limiter; tests inject a fixed clock.
	Limiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		payload, ok := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, payload)
	})

	secured := api.Group("")
	secured.Use(middleware.Auth(deps.Config.APIToken))
	if deps.Config.RateLimitPerSecond > 0 {
		secured.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Default: middleware.RateLimitRule{Rate: deps.Config.RateLimitPerSecond, Burst: deps.Config.RateLimitBurst},
			Upload:  middleware.RateLimitRule{Rate: deps.Config.RateLimitPerSecond / 2, Burst: deps.Config.RateLimitBurst},
			Limiter: deps.Limiter,
		}))
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(secured)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
