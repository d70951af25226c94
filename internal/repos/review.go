package repos

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/platform/mongodb"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

type ReviewRepo interface {
	Create(ctx context.Context, review *types.Review) (*types.Review, error)
	GetByProductPaged(ctx context.Context, productID primitive.ObjectID, skip, limit int64) ([]*types.Review, error)
	GetByProduct(ctx context.Context, productID primitive.ObjectID) ([]*types.Review, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*types.Review, error)
	GetByUserAndProduct(ctx context.Context, userID, productID primitive.ObjectID) (*types.Review, error)
	GetByIDForUser(ctx context.Context, reviewID, userID primitive.ObjectID) (*types.Review, error)
	GetByID(ctx context.Context, reviewID primitive.ObjectID) (*types.Review, error)
	Update(ctx context.Context, review *types.Review) error
	DeleteByID(ctx context.Context, reviewID primitive.ObjectID) (*types.Review, error)
	DeleteByProduct(ctx context.Context, productID primitive.ObjectID) (int64, error)
}

type reviewRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewReviewRepo(db *mongodb.Service, baseLog *logger.Logger) ReviewRepo {
	repoLog := baseLog.With("repo", "ReviewRepo")
	return &reviewRepo{coll: db.Collection("reviews"), log: repoLog}
}

func (rr *reviewRepo) Create(ctx context.Context, review *types.Review) (*types.Review, error) {
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	if _, err := rr.coll.InsertOne(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// GetByProductPaged returns one page of a product's reviews, newest first.
func (rr *reviewRepo) GetByProductPaged(ctx context.Context, productID primitive.ObjectID, skip, limit int64) ([]*types.Review, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := rr.coll.Find(ctx, bson.M{"product": productID}, opts)
	if err != nil {
		return nil, err
	}
	results := []*types.Review{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetByProduct returns every review for a product, unbounded. Kept for the
// aggregate backfill path; request-time averages come from RatingAggRepo.
func (rr *reviewRepo) GetByProduct(ctx context.Context, productID primitive.ObjectID) ([]*types.Review, error) {
	cursor, err := rr.coll.Find(ctx, bson.M{"product": productID})
	if err != nil {
		return nil, err
	}
	results := []*types.Review{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *reviewRepo) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*types.Review, error) {
	cursor, err := rr.coll.Find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, err
	}
	results := []*types.Review{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *reviewRepo) GetByUserAndProduct(ctx context.Context, userID, productID primitive.ObjectID) (*types.Review, error) {
	var result types.Review
	err := rr.coll.FindOne(ctx, bson.M{"user": userID, "product": productID}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	return &result, nil
}

func (rr *reviewRepo) GetByIDForUser(ctx context.Context, reviewID, userID primitive.ObjectID) (*types.Review, error) {
	var result types.Review
	err := rr.coll.FindOne(ctx, bson.M{"_id": reviewID, "user": userID}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	return &result, nil
}

func (rr *reviewRepo) GetByID(ctx context.Context, reviewID primitive.ObjectID) (*types.Review, error) {
	var result types.Review
	err := rr.coll.FindOne(ctx, bson.M{"_id": reviewID}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	return &result, nil
}

func (rr *reviewRepo) Update(ctx context.Context, review *types.Review) error {
	res, err := rr.coll.ReplaceOne(ctx, bson.M{"_id": review.ID}, review)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}

func (rr *reviewRepo) DeleteByID(ctx context.Context, reviewID primitive.ObjectID) (*types.Review, error) {
	var deleted types.Review
	err := rr.coll.FindOneAndDelete(ctx, bson.M{"_id": reviewID}).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	return &deleted, nil
}

func (rr *reviewRepo) DeleteByProduct(ctx context.Context, productID primitive.ObjectID) (int64, error) {
	res, err := rr.coll.DeleteMany(ctx, bson.M{"product": productID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
