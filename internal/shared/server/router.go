package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

const authRateLimitGroup = "AUTH"

// RouterDeps carries handlers and middleware dependencies for NewRouter.
type RouterDeps struct {
	Config        config.Config
	UserHandler   *users.Handler
	ResumeHandler *resumes.Handler
	Auth          middleware.AuthConfig
	// Limiter backs the auth route rate limit; nil uses an in-process bucket.
	Limiter middleware.Limiter
	Health  *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	trustProxies(r, deps.Config.TrustedProxies)

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		metrics.Middleware(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    authRules(deps.Config),
			GroupFor: groupForRoute,
			Limiter:  deps.Limiter,
		}),
	)

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "Route not found", nil)
	})

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})

	gate := middleware.RequireUser(deps.Auth)
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api, gate)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api, gate)
	}

	return r
}

// trustProxies limits forwarding-header trust to the configured proxies.
// gin trusts every peer unless told otherwise.
func trustProxies(r *gin.Engine, proxies []string) {
	if len(proxies) == 0 {
		_ = r.SetTrustedProxies(nil)
		return
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		telemetry.Error("server.trusted_proxies_invalid", map[string]any{"proxies": proxies, "error": err})
		_ = r.SetTrustedProxies(nil)
	}
}

func groupForRoute(c *gin.Context) string {
	switch c.FullPath() {
	case "/api/register", "/api/login":
		return authRateLimitGroup
	}
	return ""
}

func authRules(cfg config.Config) map[string]middleware.RateLimitRule {
	if cfg.AuthRateLimitPerMin <= 0 {
		return nil
	}
	burst := cfg.AuthRateLimitBurst
	if burst <= 0 {
		burst = 1
	}
	return map[string]middleware.RateLimitRule{
		authRateLimitGroup: {
			Rate:  float64(cfg.AuthRateLimitPerMin) / 60.0,
			Burst: burst,
		},
	}
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
