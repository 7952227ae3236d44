// api/router/router.go

package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/teamaccess/api/controller"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/metrics"
	"github.com/dev-mohitbeniwal/teamaccess/api/middleware"
	"github.com/dev-mohitbeniwal/teamaccess/api/service"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Options struct {
	// Redis backs the rate limiter; nil disables rate limiting.
	Redis             redis.Cmdable
	RateLimitRequests int
	RateLimitDuration time.Duration
	HealthChecks      map[string]HealthCheck
}

func SetupRouter(
	controllers *controller.Controllers,
	authService service.IAuthService,
	authorizer *middleware.Authorizer,
	m *metrics.Metrics,
	opts Options,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(m.Middleware())

	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/healthz", healthz(opts.HealthChecks))

	api := router.Group("/api")
	if limiter := rateLimiter(opts); limiter != nil {
		// keyed by client ip here, the actor is not known yet
		controllers.Auth.RegisterRoutes(api.Group("", limiter))
	} else {
		controllers.Auth.RegisterRoutes(api)
	}

	protected := api.Group("", middleware.Authenticate(authService))
	if limiter := rateLimiter(opts); limiter != nil {
		protected.Use(limiter)
	}

	guard := controller.Guard(authorizer.RequirePermission)
	controllers.Role.RegisterRoutes(protected, guard)
	controllers.User.RegisterRoutes(protected, guard)
	controllers.Team.RegisterRoutes(protected, guard)
	controllers.Audit.RegisterRoutes(protected, guard)
	controllers.Access.RegisterRoutes(protected)
	controllers.Catalog.RegisterRoutes(protected)

	return router
}

func rateLimiter(opts Options) gin.HandlerFunc {
	if opts.Redis == nil || opts.RateLimitRequests <= 0 {
		return nil
	}
	return middleware.RateLimiter(opts.Redis, opts.RateLimitRequests, opts.RateLimitDuration)
}

func healthz(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": results})
	}
}
