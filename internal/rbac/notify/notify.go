// Package notify tells submission authors about review outcomes. Delivery
// is polling only: a notification is a stored record the author reads later.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue notification tasks are enqueued on.
	QueueDefault = "default"
	// TaskTypeNotifyAuthor persists one author notification.
	TaskTypeNotifyAuthor = "notification:author"
)

// AuthorPayload describes one notification for a submission author. ID is
// fixed at enqueue time so a retried task stores the notification once.
type AuthorPayload struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	EntityID string    `json:"entity_id"`
	At       time.Time `json:"at"`
}

// Notifier is called after a committed state change. Errors are reported
// to the caller but never undo the change.
type Notifier interface {
	NotifyAuthor(ctx context.Context, payload AuthorPayload) error
}

// NewAuthorTask constructs an Asynq task.
func NewAuthorTask(payload AuthorPayload) (*asynq.Task, error) {
	if payload.ID == "" {
		payload.ID = uuid.NewString()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotifyAuthor, data), nil
}

// AsynqNotifier enqueues notifications for the worker.
type AsynqNotifier struct {
	client *asynq.Client
}

func NewAsynqNotifier(redisOpts asynq.RedisConnOpt) *AsynqNotifier {
	return &AsynqNotifier{client: asynq.NewClient(redisOpts)}
}

func (n *AsynqNotifier) NotifyAuthor(ctx context.Context, payload AuthorPayload) error {
	task, err := NewAuthorTask(payload)
	if err != nil {
		return err
	}
	_, err = n.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(5))
	return err
}

// Close releases client resources.
func (n *AsynqNotifier) Close() error {
	return n.client.Close()
}

// StoreNotifier writes notifications synchronously. Used when no queue is
// configured.
type StoreNotifier struct {
	repo repository.NotificationRepository
}

func NewStoreNotifier(repo repository.NotificationRepository) *StoreNotifier {
	return &StoreNotifier{repo: repo}
}

func (n *StoreNotifier) NotifyAuthor(ctx context.Context, payload AuthorPayload) error {
	if payload.ID == "" {
		payload.ID = uuid.NewString()
	}
	return persist(ctx, n.repo, payload)
}

func persist(ctx context.Context, repo repository.NotificationRepository, p AuthorPayload) error {
	at := p.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	err := repo.CreateNotification(ctx, &model.Notification{
		ID:        p.ID,
		UserID:    p.UserID,
		Type:      p.Type,
		Title:     p.Title,
		Message:   p.Message,
		EntityID:  p.EntityID,
		CreatedAt: at,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	return err
}
