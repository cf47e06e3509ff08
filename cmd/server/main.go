package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creatorstack/internal/rbac/adapter"
	"creatorstack/internal/rbac/auth"
	"creatorstack/internal/rbac/config"
	"creatorstack/internal/rbac/guard"
	"creatorstack/internal/rbac/handler"
	"creatorstack/internal/rbac/notify"
	"creatorstack/internal/rbac/policy"
	"creatorstack/internal/rbac/repository"
	"creatorstack/internal/rbac/router"
	"creatorstack/internal/rbac/service"
	"creatorstack/internal/rbac/util"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const tokenExpiry = 24 * time.Hour

func main() {
	// 0. Init Logger
	util.InitLogger()
	logger := util.GetLogger()

	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	util.InitLogger(cfg.LogLevel)
	logger = util.GetLogger()

	policyEngine, err := policy.NewEngine()
	if err != nil {
		logger.Error("Failed to load policies", "error", err)
		os.Exit(1)
	}

	// 2. Init store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		repo        repository.Repository
		mongoClient *mongo.Client
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		repo = repository.NewMemoryRepository()
	default:
		mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		repo = repository.NewMongoRepository(mongoClient.Database(cfg.DBName), repository.CollectionNames{
			Roles:         cfg.RolesCollection,
			Users:         cfg.UsersCollection,
			Submissions:   cfg.SubmissionsCollection,
			AuditLogs:     cfg.AuditLogsCollection,
			Categories:    cfg.CategoriesCollection,
			Notifications: cfg.NotificationsCollection,
		})
	}

	// Ensure Indexes
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure indexes", "error", err)
	}

	// 3. Optional Redis: principal cache and notification queue
	var (
		principals adapter.PrincipalAdapter = adapter.NewLocalPrincipalAdapter(repo)
		notifier   notify.Notifier          = notify.NewStoreNotifier(repo)
		closers    []func() error
	)
	if cfg.UseRedis() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable; cache reads will fall back to the store", "error", err)
		}
		principals = adapter.NewCachedPrincipalAdapter(principals, rdb, cfg.PrincipalCacheTTL)

		queue := notify.NewAsynqNotifier(asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		notifier = queue
		closers = append(closers, rdb.Close, queue.Close)
	}

	// 4. Init Layers
	svc := service.NewService(repo, principals, notifier)
	svc.BulkConcurrency = cfg.BulkConcurrency

	if cfg.SeedSystemRoles {
		n, err := svc.SeedSystemRoles(ctx, policyEngine.SystemRoles())
		if err != nil {
			logger.Error("Failed to seed system roles", "error", err)
			os.Exit(1)
		}
		logger.Info("System roles seeded", "inserted", n)
	}
	if cfg.BootstrapAdminID != "" {
		if _, err := svc.BootstrapAdmin(ctx, cfg.BootstrapAdminID, cfg.BootstrapAdminName, cfg.BootstrapAdminEmail); err != nil {
			logger.Error("Failed to bootstrap admin", "error", err)
			os.Exit(1)
		}
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, tokenExpiry)
	if err != nil {
		logger.Error("Failed to init token service", "error", err)
		os.Exit(1)
	}
	rbac := handler.NewRBACMiddleware(policyEngine, tokens, principals)
	h := handler.NewAdminHandler(svc, guard.New(policyEngine.Routes()))

	// 5. Init Echo & Routes
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"request_id", v.RequestID,
				"latency", v.Latency,
			)
			return nil
		},
	}))

	router.RegisterRoutes(e, h, rbac, cfg.CORSAllowOrigins)

	// 6. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "store", cfg.StoreDriver, "redis", cfg.UseRedis())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("shutting down the server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server Shutdown Failed", "error", err)
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Warn("Failed to close client", "error", err)
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			logger.Error("Failed to disconnect DB", "error", err)
		}
	}

	logger.Info("Server exited properly")
}
