package handlers

import (
	"net/http"
	"time"

	"github.com/SscSPs/vidtube_backend/cmd/docs"
	portssvc "github.com/SscSPs/vidtube_backend/internal/core/ports/services"
	"github.com/SscSPs/vidtube_backend/internal/middleware"
	"github.com/SscSPs/vidtube_backend/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

type routeOptions struct {
	authLimiter *limiter.Limiter
	staticDir   string
}

// RouteOption configures optional parts of the router.
type RouteOption func(*routeOptions)

// WithAuthLimiter rate limits register, login and refresh-token.
func WithAuthLimiter(l *limiter.Limiter) RouteOption {
	return func(o *routeOptions) {
		o.authLimiter = l
	}
}

// WithStaticDir serves dir under /static, used by the local media driver.
func WithStaticDir(dir string) RouteOption {
	return func(o *routeOptions) {
		o.staticDir = dir
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	opts ...RouteOption,
) {
	var o routeOptions
	for _, opt := range opts {
		opt(&o)
	}

	r.Use(corsMiddleware(cfg))

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if o.staticDir != "" {
		r.Static("/static", o.staticDir)
	}

	setupAPIV1Routes(r, cfg, services, o.authLimiter)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1/users group. Session routes are public,
// everything else sits behind the auth middleware.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	authLimiter *limiter.Limiter,
) {
	requireAuth := middleware.AuthMiddleware(services.Token, services.User)

	users := r.Group("/api/v1/users")
	registerAuthRoutes(users, cfg, services, authLimiter, requireAuth)

	protected := users.Group("", requireAuth)
	registerUserRoutes(protected, cfg, services.User)
}

// corsMiddleware allows the configured origins with credentials. A single "*"
// reflects the request origin, since browsers reject a literal "*" with cookies.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 || (len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*") {
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	return cors.New(corsCfg)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
