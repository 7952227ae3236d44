package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/teamaccess/api/audit"
	"github.com/dev-mohitbeniwal/teamaccess/api/config"
	"github.com/dev-mohitbeniwal/teamaccess/api/controller"
	"github.com/dev-mohitbeniwal/teamaccess/api/dao"
	"github.com/dev-mohitbeniwal/teamaccess/api/db"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/metrics"
	"github.com/dev-mohitbeniwal/teamaccess/api/middleware"
	"github.com/dev-mohitbeniwal/teamaccess/api/router"
	"github.com/dev-mohitbeniwal/teamaccess/api/seed"
	"github.com/dev-mohitbeniwal/teamaccess/api/service"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	cfg := config.GetConfig()

	// Initialize logger
	logger.InitLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	if len(cfg.Auth.JWTSecret) == 0 {
		logger.Fatal("auth.jwtSecret must be set")
	}

	healthChecks := map[string]router.HealthCheck{}

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()
	healthChecks["redis"] = func(ctx context.Context) error { return db.RedisClient.Ping(ctx).Err() }

	// Initialize the store
	var store dao.Store
	switch cfg.Store.Backend {
	case "memory":
		logger.Warn("Using the in-memory store; data is lost on restart")
		store = dao.NewMemoryStore()
	case "neo4j":
		if err := db.InitNeo4j(); err != nil {
			logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
		}
		defer db.CloseNeo4j()
		store = dao.NewNeo4jStore(db.Neo4jDriver)
		healthChecks["neo4j"] = db.Neo4jDriver.VerifyConnectivity
	default:
		logger.Fatal("Unknown store backend", zap.String("backend", cfg.Store.Backend))
	}

	var locker util.Locker
	switch cfg.Lock.Backend {
	case "local":
		locker = util.NewLocalLocker(cfg.Lock.Wait)
	default:
		locker = util.NewRedisLocker(db.RedisClient, cfg.Lock.TTL, cfg.Lock.Wait)
	}

	auditService, closeAudit := initAudit(cfg)
	defer closeAudit()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)
	util.NewNotificationService().Subscribe(eventBus)

	m := metrics.New()

	// Initialize services
	services := service.InitializeServices(
		service.Dependencies{
			Store:          store,
			Locker:         locker,
			Cache:          util.NewRedisCache(db.RedisClient, cfg.Redis.DefaultCacheTTL),
			ValidationUtil: util.NewValidationUtil(),
			EventBus:       eventBus,
			Metrics:        m,
		},
		auditService,
		service.AuthConfig{
			Secret:   []byte(cfg.Auth.JWTSecret),
			TokenTTL: cfg.Auth.TokenTTL,
			Issuer:   cfg.Auth.Issuer,
		},
		util.NewRedisTokenDenylist(db.RedisClient),
	)

	if cfg.Seed.File != "" {
		f, err := seed.Load(cfg.Seed.File)
		if err != nil {
			logger.Fatal("Failed to load seed file", zap.Error(err), zap.String("file", cfg.Seed.File))
		}
		if _, err := seed.NewSeeder(services).Apply(ctx, f); err != nil {
			logger.Fatal("Failed to apply seed file", zap.Error(err))
		}
	}

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(
		controller.InitializeControllers(services),
		services.Auth,
		middleware.NewAuthorizer(services.Access),
		m,
		router.Options{
			Redis:             db.RedisClient,
			RateLimitRequests: cfg.Server.RateLimit.Requests,
			RateLimitDuration: cfg.Server.RateLimit.Window,
			HealthChecks:      healthChecks,
		},
	)

	// Set up the server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	cancel()
	eventBus.Wait()
	logger.Info("Server exiting")
}

// initAudit builds the configured audit sink and returns a func releasing it.
func initAudit(cfg *config.Configuration) (audit.Service, func()) {
	switch cfg.Audit.Backend {
	case "memory":
		logger.Warn("Using the in-memory audit log; entries are lost on restart")
		return audit.NewService(audit.NewMemoryRepository()), func() {}
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			logger.Fatal("Failed to connect to Postgres", zap.Error(err))
		}
		repo := audit.NewPostgresRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatal("Failed to prepare audit schema", zap.Error(err))
		}
		return audit.NewService(repo), pool.Close
	default:
		repo, err := audit.NewElasticsearchRepository(cfg.Elasticsearch.URL, cfg.Elasticsearch.Index)
		if err != nil {
			logger.Fatal("Failed to initialize Elasticsearch audit repository", zap.Error(err))
		}
		return audit.NewService(repo), func() {}
	}
}
