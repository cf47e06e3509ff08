package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creatorstack/internal/rbac/config"
	"creatorstack/internal/rbac/notify"
	"creatorstack/internal/rbac/repository"
	"creatorstack/internal/rbac/util"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	util.InitLogger()
	logger := util.GetLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	util.InitLogger(cfg.LogLevel)
	logger = util.GetLogger()

	if !cfg.UseRedis() {
		logger.Error("REDIS_ADDR is required to run the notification worker")
		os.Exit(1)
	}
	if cfg.StoreDriver != config.StoreMongo {
		logger.Error("The notification worker needs the mongo store", "store", cfg.StoreDriver)
		os.Exit(1)
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	cancel()
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	repo := repository.NewMongoRepository(client.Database(cfg.DBName), repository.CollectionNames{
		Roles:         cfg.RolesCollection,
		Users:         cfg.UsersCollection,
		Submissions:   cfg.SubmissionsCollection,
		AuditLogs:     cfg.AuditLogsCollection,
		Categories:    cfg.CategoriesCollection,
		Notifications: cfg.NotificationsCollection,
	})

	worker, err := notify.NewWorker(notify.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword},
		Concurrency: cfg.WorkerConcurrency,
		Logger:      logger,
		Handler:     &notify.AuthorHandler{Repo: repo, Logger: logger},
	})
	if err != nil {
		logger.Error("Failed to build worker", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting notification worker", "concurrency", cfg.WorkerConcurrency)
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker exited properly")
}
