package repository

import (
	"context"
	"regexp"

	"creatorstack/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, mapFindError(err)
	}
	return &user, nil
}

func (r *MongoRepository) ListUsers(ctx context.Context, req model.ListUsersReq) ([]*model.User, int64, error) {
	filter := bson.M{}
	if req.RoleID != "" {
		filter["role_id"] = req.RoleID
	}
	if req.Status != "" {
		filter["status"] = req.Status
	}
	if req.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(req.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
		}
	}

	total, err := r.Users.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(model.Skip(req.Page, req.Limit)).
		SetLimit(int64(req.Limit))
	cursor, err := r.Users.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	users := []*model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *MongoRepository) CreateUser(ctx context.Context, user *model.User) error {
	_, err := r.Users.InsertOne(ctx, user)
	return mapWriteError(err)
}

func (r *MongoRepository) UpdateUserRole(ctx context.Context, userID, roleID string, audit *model.AuditLogEntry) error {
	return r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := r.lockRole(sessCtx, roleID); err != nil {
			return err
		}
		res, err := r.Users.UpdateOne(sessCtx,
			bson.M{"_id": userID},
			bson.M{"$set": bson.M{"role_id": roleID, "updated_at": now()}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return r.insertAudit(sessCtx, audit)
	})
}

func (r *MongoRepository) UpdateUserStatus(ctx context.Context, userID string, status model.PrincipalStatus, reason string, audit *model.AuditLogEntry) error {
	return r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		update := bson.M{"$set": bson.M{"status": status, "updated_at": now()}}
		if reason != "" {
			update["$set"].(bson.M)["status_reason"] = reason
		} else {
			update["$unset"] = bson.M{"status_reason": ""}
		}
		res, err := r.Users.UpdateOne(sessCtx, bson.M{"_id": userID}, update)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return r.insertAudit(sessCtx, audit)
	})
}
