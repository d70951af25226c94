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

// RatingAggRepo maintains one (count, sum) document per product so the
// detail page never rescans the review collection. Every review write
// applies a matching delta; the numbers stay equal to a full rescan.
type RatingAggRepo interface {
	Get(ctx context.Context, productID primitive.ObjectID) (*types.RatingAggregate, error)
	Apply(ctx context.Context, productID primitive.ObjectID, countDelta, sumDelta int64) error
	DeleteByProduct(ctx context.Context, productID primitive.ObjectID) error
}

type ratingAggRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewRatingAggRepo(db *mongodb.Service, baseLog *logger.Logger) RatingAggRepo {
	repoLog := baseLog.With("repo", "RatingAggRepo")
	return &ratingAggRepo{coll: db.Collection("rating_aggregates"), log: repoLog}
}

// Get returns the aggregate, or a zero-valued one when no reviews exist yet.
func (rr *ratingAggRepo) Get(ctx context.Context, productID primitive.ObjectID) (*types.RatingAggregate, error) {
	var result types.RatingAggregate
	err := rr.coll.FindOne(ctx, bson.M{"_id": productID}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &types.RatingAggregate{ProductID: productID}, nil
		}
		return nil, err
	}
	return &result, nil
}

func (rr *ratingAggRepo) Apply(ctx context.Context, productID primitive.ObjectID, countDelta, sumDelta int64) error {
	update := bson.M{"$inc": bson.M{"count": countDelta, "sum": sumDelta}}
	opts := options.Update().SetUpsert(true)
	_, err := rr.coll.UpdateOne(ctx, bson.M{"_id": productID}, update, opts)
	return err
}

func (rr *ratingAggRepo) DeleteByProduct(ctx context.Context, productID primitive.ObjectID) error {
	_, err := rr.coll.DeleteOne(ctx, bson.M{"_id": productID})
	return err
}
