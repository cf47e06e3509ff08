package repository

import (
	"context"
	"regexp"

	"creatorstack/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoRepository) CreateAuditLog(ctx context.Context, entry *model.AuditLogEntry) error {
	_, err := r.AuditLogs.InsertOne(ctx, entry)
	return mapWriteError(err)
}

func (r *MongoRepository) FindAuditLogs(ctx context.Context, f model.AuditLogFilter) ([]*model.AuditLogEntry, int64, error) {
	filter := auditFilter(f)

	total, err := r.AuditLogs.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(model.Skip(f.Page, f.Limit)).
		SetLimit(int64(f.Limit))
	cursor, err := r.AuditLogs.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	logs := []*model.AuditLogEntry{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// auditFilter combines every provided filter with AND
func auditFilter(f model.AuditLogFilter) bson.M {
	filter := bson.M{}
	if f.Action != "" {
		filter["action"] = f.Action
	}
	if f.EntityType != "" {
		filter["entity_type"] = f.EntityType
	}
	if f.AdminID != "" {
		filter["admin_id"] = f.AdminID
	}
	if f.Start != nil || f.End != nil {
		created := bson.M{}
		if f.Start != nil {
			created["$gte"] = *f.Start
		}
		if f.End != nil {
			created["$lte"] = *f.End
		}
		filter["created_at"] = created
	}
	if f.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"admin_name": pattern},
			bson.M{"entity_id": pattern},
			bson.M{"details.notes": pattern},
		}
	}
	return filter
}
