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

type ProductRepo interface {
	Create(ctx context.Context, product *types.Product) (*types.Product, error)
	GetByID(ctx context.Context, productID primitive.ObjectID) (*types.Product, error)
	GetByIDs(ctx context.Context, productIDs []primitive.ObjectID) ([]*types.Product, error)
	NameExists(ctx context.Context, name string, excludeID primitive.ObjectID) (bool, error)
	List(ctx context.Context) ([]*types.Product, error)
	Update(ctx context.Context, product *types.Product) error
	DeleteByID(ctx context.Context, productID primitive.ObjectID) (*types.Product, error)
	SearchByName(ctx context.Context, substring string) ([]*types.Product, error)
}

type productRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewProductRepo(db *mongodb.Service, baseLog *logger.Logger) ProductRepo {
	repoLog := baseLog.With("repo", "ProductRepo")
	return &productRepo{coll: db.Collection("products"), log: repoLog}
}

func (pr *productRepo) Create(ctx context.Context, product *types.Product) (*types.Product, error) {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if _, err := pr.coll.InsertOne(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (pr *productRepo) GetByID(ctx context.Context, productID primitive.ObjectID) (*types.Product, error) {
	var result types.Product
	err := pr.coll.FindOne(ctx, bson.M{"_id": productID}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	return &result, nil
}

func (pr *productRepo) GetByIDs(ctx context.Context, productIDs []primitive.ObjectID) ([]*types.Product, error) {
	results := []*types.Product{}
	if len(productIDs) == 0 {
		return results, nil
	}
	cursor, err := pr.coll.Find(ctx, bson.M{"_id": bson.M{"$in": productIDs}})
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// NameExists reports whether another product already uses name. Pass the
// zero ObjectID to check against every product.
func (pr *productRepo) NameExists(ctx context.Context, name string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"productName": name}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := pr.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (pr *productRepo) List(ctx context.Context) ([]*types.Product, error) {
	cursor, err := pr.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	results := []*types.Product{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *productRepo) Update(ctx context.Context, product *types.Product) error {
	res, err := pr.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}

func (pr *productRepo) DeleteByID(ctx context.Context, productID primitive.ObjectID) (*types.Product, error) {
	var deleted types.Product
	err := pr.coll.FindOneAndDelete(ctx, bson.M{"_id": productID}).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	return &deleted, nil
}

func (pr *productRepo) SearchByName(ctx context.Context, substring string) ([]*types.Product, error) {
	filter := bson.M{"productName": primitive.Regex{Pattern: substring, Options: "i"}}
	cursor, err := pr.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "productName", Value: 1}}))
	if err != nil {
		return nil, err
	}
	results := []*types.Product{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
