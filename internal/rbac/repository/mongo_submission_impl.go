package repository

import (
	"context"
	"errors"
	"regexp"

	"creatorstack/internal/rbac/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoRepository) CreateSubmission(ctx context.Context, s *model.Submission) error {
	n, err := r.Categories.CountDocuments(ctx, bson.M{"_id": s.CategoryID}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidReference
	}
	_, err = r.Submissions.InsertOne(ctx, s)
	return mapWriteError(err)
}

func (r *MongoRepository) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	var s model.Submission
	if err := r.Submissions.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		return nil, mapFindError(err)
	}
	return &s, nil
}

func (r *MongoRepository) ListSubmissions(ctx context.Context, req model.ListSubmissionsReq) ([]*model.Submission, int64, error) {
	filter := bson.M{}
	if req.Status != "" {
		filter["status"] = req.Status
	}
	if req.AuthorID != "" {
		filter["author_id"] = req.AuthorID
	}
	if req.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(req.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"url": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}
	}

	total, err := r.Submissions.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(model.Skip(req.Page, req.Limit)).
		SetLimit(int64(req.Limit))
	cursor, err := r.Submissions.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := []*model.Submission{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// TransitionSubmission is a compare-and-set on the status field: the update
// only matches while the stored status equals from, so of two concurrent
// reviewers exactly one wins.
func (r *MongoRepository) TransitionSubmission(ctx context.Context, id string, from, to model.SubmissionStatus, event model.HistoryEvent, audit *model.AuditLogEntry) (*model.Submission, error) {
	var updated model.Submission
	err := r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		update := bson.M{
			"$set": bson.M{
				"status":      to,
				"updated_at":  event.At,
				"reviewed_by": event.ActorID,
				"reviewed_at": event.At,
			},
			"$push": bson.M{"history": event},
		}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err := r.Submissions.FindOneAndUpdate(sessCtx, bson.M{"_id": id, "status": from}, update, opts).Decode(&updated)
		if errors.Is(err, mongo.ErrNoDocuments) {
			n, cerr := r.Submissions.CountDocuments(sessCtx, bson.M{"_id": id}, options.Count().SetLimit(1))
			if cerr != nil {
				return cerr
			}
			if n == 0 {
				return ErrNotFound
			}
			return ErrStatusMismatch
		}
		if err != nil {
			return err
		}
		return r.insertAudit(sessCtx, audit)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
