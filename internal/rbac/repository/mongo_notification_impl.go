package repository

import (
	"context"

	"creatorstack/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoRepository) CreateNotification(ctx context.Context, n *model.Notification) error {
	_, err := r.Notifications.InsertOne(ctx, n)
	return mapWriteError(err)
}

func (r *MongoRepository) ListNotifications(ctx context.Context, userID string, req model.ListNotificationsReq) ([]*model.Notification, int64, int64, error) {
	filter := bson.M{"user_id": userID}
	if req.UnreadOnly {
		filter["read"] = false
	}

	total, err := r.Notifications.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := r.Notifications.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
	if err != nil {
		return nil, 0, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(model.Skip(req.Page, req.Limit)).
		SetLimit(int64(req.Limit))
	cursor, err := r.Notifications.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, 0, err
	}
	defer cursor.Close(ctx)

	items := []*model.Notification{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, 0, err
	}
	return items, total, unread, nil
}

// MarkNotificationRead only matches notifications owned by userID
func (r *MongoRepository) MarkNotificationRead(ctx context.Context, userID, id string) error {
	res, err := r.Notifications.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
