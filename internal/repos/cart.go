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

type CartRepo interface {
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*types.Cart, error)
	Upsert(ctx context.Context, cart *types.Cart) (*types.Cart, error)
	PullLineItem(ctx context.Context, ownerID, productID primitive.ObjectID) (*types.Cart, error)
	GetLineItem(ctx context.Context, ownerID, productID primitive.ObjectID) (*types.LineItem, error)
}

type cartRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewCartRepo(db *mongodb.Service, baseLog *logger.Logger) CartRepo {
	repoLog := baseLog.With("repo", "CartRepo")
	return &cartRepo{coll: db.Collection("carts"), log: repoLog}
}

func (cr *cartRepo) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*types.Cart, error) {
	var result types.Cart
	err := cr.coll.FindOne(ctx, bson.M{"user": ownerID}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	return &result, nil
}

// Upsert persists the full items array for the owner. Two concurrent
// upserts for the same owner race; the last save wins, which is the
// documented cart contract.
func (cr *cartRepo) Upsert(ctx context.Context, cart *types.Cart) (*types.Cart, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"items": cart.Items}}

	var saved types.Cart
	err := cr.coll.FindOneAndUpdate(ctx, bson.M{"user": cart.OwnerID}, update, opts).Decode(&saved)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// PullLineItem atomically removes the matching line item and returns the
// updated cart.
func (cr *cartRepo) PullLineItem(ctx context.Context, ownerID, productID primitive.ObjectID) (*types.Cart, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$pull": bson.M{"items": bson.M{"product": productID}}}

	var updated types.Cart
	err := cr.coll.FindOneAndUpdate(ctx, bson.M{"user": ownerID}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	return &updated, nil
}

// GetLineItem projects only the matching line item out of the owner's cart.
func (cr *cartRepo) GetLineItem(ctx context.Context, ownerID, productID primitive.ObjectID) (*types.LineItem, error) {
	filter := bson.M{"user": ownerID, "items.product": productID}
	opts := options.FindOne().SetProjection(bson.M{"items.$": 1})

	var result types.Cart
	err := cr.coll.FindOne(ctx, filter, opts).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, ErrNoDocument
	}
	return &result.Items[0], nil
}
