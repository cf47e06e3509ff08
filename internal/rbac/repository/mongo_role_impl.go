package repository

import (
	"context"
	"errors"
	"sort"

	"creatorstack/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoRepository) ListRoles(ctx context.Context) ([]*model.Role, error) {
	cursor, err := r.Roles.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []*model.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}

	counts, err := r.userCountsByRole(ctx)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		role.UserCount = counts[role.ID]
	}

	sortRoles(roles)
	return roles, nil
}

func (r *MongoRepository) GetRole(ctx context.Context, id string) (*model.Role, error) {
	var role model.Role
	if err := r.Roles.FindOne(ctx, bson.M{"_id": id}).Decode(&role); err != nil {
		return nil, mapFindError(err)
	}
	count, err := r.Users.CountDocuments(ctx, bson.M{"role_id": id})
	if err != nil {
		return nil, err
	}
	role.UserCount = count
	return &role, nil
}

func (r *MongoRepository) CreateRole(ctx context.Context, role *model.Role, audit *model.AuditLogEntry) error {
	return r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := r.Roles.InsertOne(sessCtx, role); err != nil {
			return mapWriteError(err)
		}
		return r.insertAudit(sessCtx, audit)
	})
}

func (r *MongoRepository) UpdateRole(ctx context.Context, role *model.Role, audit *model.AuditLogEntry) error {
	return r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		update := bson.M{
			"$set": bson.M{
				"name":        role.Name,
				"name_key":    role.NameKey,
				"description": role.Description,
				"permissions": role.Permissions,
				"updated_at":  role.UpdatedAt,
			},
		}
		res, err := r.Roles.UpdateOne(sessCtx, bson.M{"_id": role.ID}, update)
		if err != nil {
			return mapWriteError(err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return r.insertAudit(sessCtx, audit)
	})
}

func (r *MongoRepository) DeleteRole(ctx context.Context, id, reassignTo string, audit *model.AuditLogEntry) error {
	return r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var role model.Role
		if err := r.Roles.FindOne(sessCtx, bson.M{"_id": id}).Decode(&role); err != nil {
			return mapFindError(err)
		}
		if role.IsSystem {
			return ErrProtected
		}
		if err := r.lockRole(sessCtx, id); err != nil {
			if errors.Is(err, ErrInvalidReference) {
				return ErrNotFound
			}
			return err
		}

		holders, err := r.Users.CountDocuments(sessCtx, bson.M{"role_id": id})
		if err != nil {
			return err
		}
		if holders > 0 {
			if reassignTo == "" {
				return ErrInUse
			}
			if err := r.lockRole(sessCtx, reassignTo); err != nil {
				return err
			}
			_, err = r.Users.UpdateMany(sessCtx,
				bson.M{"role_id": id},
				bson.M{"$set": bson.M{"role_id": reassignTo, "updated_at": now()}},
			)
			if err != nil {
				return err
			}
		}

		if _, err := r.Roles.DeleteOne(sessCtx, bson.M{"_id": id, "is_system": false}); err != nil {
			return err
		}
		return r.insertAudit(sessCtx, audit)
	})
}

func (r *MongoRepository) EnsureSystemRoles(ctx context.Context, roles []*model.Role) (int, error) {
	inserted := 0
	for _, role := range roles {
		res, err := r.Roles.UpdateOne(ctx,
			bson.M{"name_key": role.NameKey},
			bson.M{"$setOnInsert": role},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return inserted, mapWriteError(err)
		}
		if res.UpsertedCount > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func (r *MongoRepository) userCountsByRole(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$role_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.Users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		RoleID string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.RoleID] = row.Count
	}
	return counts, nil
}

// sortRoles orders system roles first, then by name
func sortRoles(roles []*model.Role) {
	sort.SliceStable(roles, func(i, j int) bool {
		if roles[i].IsSystem != roles[j].IsSystem {
			return roles[i].IsSystem
		}
		return roles[i].NameKey < roles[j].NameKey
	})
}

// lockRole writes to the role document so that concurrent transactions
// assigning users to it and deleting it conflict instead of both committing.
func (r *MongoRepository) lockRole(sessCtx mongo.SessionContext, roleID string) error {
	res, err := r.Roles.UpdateOne(sessCtx, bson.M{"_id": roleID}, bson.M{"$inc": bson.M{"lock_seq": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidReference
	}
	return nil
}
