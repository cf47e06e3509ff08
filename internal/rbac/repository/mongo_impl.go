package repository

import (
	"context"
	"errors"

	"creatorstack/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionNames configures the MongoDB collections used by the repository
type CollectionNames struct {
	Roles         string
	Users         string
	Submissions   string
	AuditLogs     string
	Categories    string
	Notifications string
}

type MongoRepository struct {
	Roles         *mongo.Collection
	Users         *mongo.Collection
	Submissions   *mongo.Collection
	AuditLogs     *mongo.Collection
	Categories    *mongo.Collection
	Notifications *mongo.Collection
	Client        *mongo.Client // For transactions
}

func NewMongoRepository(db *mongo.Database, names CollectionNames) *MongoRepository {
	return &MongoRepository{
		Roles:         db.Collection(names.Roles),
		Users:         db.Collection(names.Users),
		Submissions:   db.Collection(names.Submissions),
		AuditLogs:     db.Collection(names.AuditLogs),
		Categories:    db.Collection(names.Categories),
		Notifications: db.Collection(names.Notifications),
		Client:        db.Client(),
	}
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	// Roles: case-folded name is unique
	_, err := r.Roles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name_key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_role_name"),
	})
	if err != nil {
		return err
	}

	_, err = r.Users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "role_id", Value: 1}},
			Options: options.Index().SetName("idx_user_role"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_status"),
		},
	})
	if err != nil {
		return err
	}

	_, err = r.Submissions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_submission_status"),
		},
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_submission_author"),
		},
		{
			Keys:    bson.D{{Key: "category_id", Value: 1}},
			Options: options.Index().SetName("idx_submission_category"),
		},
	})
	if err != nil {
		return err
	}

	_, err = r.AuditLogs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
		{
			Keys:    bson.D{{Key: "admin_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_admin_query"),
		},
		{
			Keys:    bson.D{{Key: "entity_type", Value: 1}, {Key: "entity_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_entity_query"),
		},
		{
			Keys:    bson.D{{Key: "action", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_action_query"),
		},
	})
	if err != nil {
		return err
	}

	_, err = r.Categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name_key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_category_name"),
	})
	if err != nil {
		return err
	}

	_, err = r.Notifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "read", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_notification_user"),
	})
	return err
}

// withTransaction runs fn in a multi-document transaction. Errors returned by
// fn abort the transaction and are returned unchanged.
func (r *MongoRepository) withTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) error) error {
	session, err := r.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}

// mapWriteError converts duplicate key errors to ErrDuplicate
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func mapFindError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (r *MongoRepository) insertAudit(ctx context.Context, entry *model.AuditLogEntry) error {
	if entry == nil {
		return nil
	}
	_, err := r.AuditLogs.InsertOne(ctx, entry)
	return err
}
