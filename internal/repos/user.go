package repos

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/platform/mongodb"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

// ErrNoDocument signals an absent record without leaking driver types into
// the service layer.
var ErrNoDocument = errors.New("no matching document")

type UserRepo interface {
	Create(ctx context.Context, user *types.User) (*types.User, error)
	GetByID(ctx context.Context, userID primitive.ObjectID) (*types.User, error)
	GetByIDs(ctx context.Context, userIDs []primitive.ObjectID) ([]*types.User, error)
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *types.User) error
}

type userRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewUserRepo(db *mongodb.Service, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{coll: db.Collection("users"), log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, user *types.User) (*types.User, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := ur.coll.InsertOne(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (ur *userRepo) GetByID(ctx context.Context, userID primitive.ObjectID) (*types.User, error) {
	var result types.User
	err := ur.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	return &result, nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, userIDs []primitive.ObjectID) ([]*types.User, error) {
	results := []*types.User{}
	if len(userIDs) == 0 {
		return results, nil
	}
	cursor, err := ur.coll.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	var result types.User
	err := ur.coll.FindOne(ctx, bson.M{"email": email}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	return &result, nil
}

func (ur *userRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := ur.coll.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) Update(ctx context.Context, user *types.User) error {
	res, err := ur.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}
