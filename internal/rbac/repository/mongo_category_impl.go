package repository

import (
	"context"

	"creatorstack/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	cursor, err := r.Categories.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_key", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []*model.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}

	counts, err := r.websiteCountsByCategory(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		c.WebsiteCount = counts[c.ID]
	}
	return categories, nil
}

func (r *MongoRepository) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	if err := r.Categories.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapFindError(err)
	}
	count, err := r.Submissions.CountDocuments(ctx, bson.M{"category_id": id})
	if err != nil {
		return nil, err
	}
	c.WebsiteCount = count
	return &c, nil
}

func (r *MongoRepository) CreateCategory(ctx context.Context, c *model.Category, audit *model.AuditLogEntry) error {
	return r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := r.Categories.InsertOne(sessCtx, c); err != nil {
			return mapWriteError(err)
		}
		return r.insertAudit(sessCtx, audit)
	})
}

func (r *MongoRepository) UpdateCategory(ctx context.Context, c *model.Category, audit *model.AuditLogEntry) error {
	return r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		res, err := r.Categories.UpdateOne(sessCtx, bson.M{"_id": c.ID}, bson.M{
			"$set": bson.M{
				"name":        c.Name,
				"name_key":    c.NameKey,
				"description": c.Description,
				"updated_at":  c.UpdatedAt,
			},
		})
		if err != nil {
			return mapWriteError(err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return r.insertAudit(sessCtx, audit)
	})
}

func (r *MongoRepository) DeleteCategory(ctx context.Context, id, reassignTo string, audit *model.AuditLogEntry) error {
	return r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		n, err := r.Categories.CountDocuments(sessCtx, bson.M{"_id": id}, options.Count().SetLimit(1))
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}

		websites, err := r.Submissions.CountDocuments(sessCtx, bson.M{"category_id": id})
		if err != nil {
			return err
		}
		if websites > 0 {
			if reassignTo == "" {
				return ErrInUse
			}
			n, err := r.Categories.CountDocuments(sessCtx, bson.M{"_id": reassignTo}, options.Count().SetLimit(1))
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrInvalidReference
			}
			_, err = r.Submissions.UpdateMany(sessCtx,
				bson.M{"category_id": id},
				bson.M{"$set": bson.M{"category_id": reassignTo, "updated_at": now()}},
			)
			if err != nil {
				return err
			}
		}

		if _, err := r.Categories.DeleteOne(sessCtx, bson.M{"_id": id}); err != nil {
			return err
		}
		return r.insertAudit(sessCtx, audit)
	})
}

func (r *MongoRepository) websiteCountsByCategory(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.Submissions.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		CategoryID string `bson:"_id"`
		Count      int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	return counts, nil
}
