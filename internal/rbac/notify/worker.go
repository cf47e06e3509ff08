package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"creatorstack/internal/rbac/repository"

	"github.com/hibiken/asynq"
)

// AuthorHandler stores notification:author tasks.
type AuthorHandler struct {
	Repo   repository.NotificationRepository
	Logger *slog.Logger
}

// Handle processes TaskTypeNotifyAuthor tasks.
func (h *AuthorHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AuthorPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.ID == "" || payload.UserID == "" {
		return fmt.Errorf("payload missing id or user: %w", asynq.SkipRetry)
	}
	if err := persist(ctx, h.Repo, payload); err != nil {
		return err
	}
	if h.Logger != nil {
		h.Logger.Debug("notification stored", "user_id", payload.UserID, "type", payload.Type, "entity_id", payload.EntityID)
	}
	return nil
}

// Worker wraps the Asynq server consuming notification tasks.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

// WorkerConfig collects dependencies required to bootstrap the worker.
type WorkerConfig struct {
	RedisOpts   asynq.RedisConnOpt
	Concurrency int
	Logger      *slog.Logger
	Handler     *AuthorHandler
}

func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Handler == nil || cfg.Handler.Repo == nil {
		return nil, errors.New("notify worker: handler not configured")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      map[string]int{QueueDefault: 1},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeNotifyAuthor, cfg.Handler.Handle)
	return &Worker{server: srv, mux: mux, logger: cfg.Logger}, nil
}

// Run starts processing tasks until context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
