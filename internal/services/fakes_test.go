package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/repos"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init test logger: %v", err)
	}
	return log
}

// ---- users ----

type fakeUserRepo struct {
	users map[primitive.ObjectID]*types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*types.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *types.User) (*types.User, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	f.users[user.ID] = &cp
	return user, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, userID primitive.ObjectID) (*types.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, repos.ErrNoDocument
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, userIDs []primitive.ObjectID) ([]*types.User, error) {
	out := []*types.User{}
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repos.ErrNoDocument
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *types.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repos.ErrNoDocument
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

// ---- products ----

type fakeProductRepo struct {
	products map[primitive.ObjectID]*types.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[primitive.ObjectID]*types.Product{}}
}

func (f *fakeProductRepo) Create(ctx context.Context, product *types.Product) (*types.Product, error) {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	cp := *product
	f.products[product.ID] = &cp
	return product, nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, productID primitive.ObjectID) (*types.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, repos.ErrNoDocument
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, productIDs []primitive.ObjectID) ([]*types.Product, error) {
	out := []*types.Product{}
	for _, id := range productIDs {
		if p, ok := f.products[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) NameExists(ctx context.Context, name string, excludeID primitive.ObjectID) (bool, error) {
	for id, p := range f.products {
		if p.ProductName == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProductRepo) List(ctx context.Context) ([]*types.Product, error) {
	out := []*types.Product{}
	for _, p := range f.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *types.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return repos.ErrNoDocument
	}
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeProductRepo) DeleteByID(ctx context.Context, productID primitive.ObjectID) (*types.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, repos.ErrNoDocument
	}
	delete(f.products, productID)
	return p, nil
}

func (f *fakeProductRepo) SearchByName(ctx context.Context, substring string) ([]*types.Product, error) {
	out := []*types.Product{}
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.ProductName), strings.ToLower(substring)) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}

// ---- reviews ----

type fakeReviewRepo struct {
	reviews map[primitive.ObjectID]*types.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[primitive.ObjectID]*types.Review{}}
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *types.Review) (*types.Review, error) {
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	cp := *review
	f.reviews[review.ID] = &cp
	return review, nil
}

func (f *fakeReviewRepo) byProduct(productID primitive.ObjectID) []*types.Review {
	out := []*types.Review{}
	for _, r := range f.reviews {
		if r.ProductID == productID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeReviewRepo) GetByProductPaged(ctx context.Context, productID primitive.ObjectID, skip, limit int64) ([]*types.Review, error) {
	all := f.byProduct(productID)
	if skip >= int64(len(all)) {
		return []*types.Review{}, nil
	}
	end := skip + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[skip:end], nil
}

func (f *fakeReviewRepo) GetByProduct(ctx context.Context, productID primitive.ObjectID) ([]*types.Review, error) {
	return f.byProduct(productID), nil
}

func (f *fakeReviewRepo) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*types.Review, error) {
	out := []*types.Review{}
	for _, r := range f.reviews {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) GetByUserAndProduct(ctx context.Context, userID, productID primitive.ObjectID) (*types.Review, error) {
	for _, r := range f.reviews {
		if r.UserID == userID && r.ProductID == productID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repos.ErrNoDocument
}

func (f *fakeReviewRepo) GetByIDForUser(ctx context.Context, reviewID, userID primitive.ObjectID) (*types.Review, error) {
	r, ok := f.reviews[reviewID]
	if !ok || r.UserID != userID {
		return nil, repos.ErrNoDocument
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviewRepo) GetByID(ctx context.Context, reviewID primitive.ObjectID) (*types.Review, error) {
	r, ok := f.reviews[reviewID]
	if !ok {
		return nil, repos.ErrNoDocument
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviewRepo) Update(ctx context.Context, review *types.Review) error {
	if _, ok := f.reviews[review.ID]; !ok {
		return repos.ErrNoDocument
	}
	cp := *review
	f.reviews[review.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) DeleteByID(ctx context.Context, reviewID primitive.ObjectID) (*types.Review, error) {
	r, ok := f.reviews[reviewID]
	if !ok {
		return nil, repos.ErrNoDocument
	}
	delete(f.reviews, reviewID)
	return r, nil
}

func (f *fakeReviewRepo) DeleteByProduct(ctx context.Context, productID primitive.ObjectID) (int64, error) {
	var n int64
	for id, r := range f.reviews {
		if r.ProductID == productID {
			delete(f.reviews, id)
			n++
		}
	}
	return n, nil
}

// ---- carts ----

type fakeCartRepo struct {
	carts map[primitive.ObjectID]*types.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[primitive.ObjectID]*types.Cart{}}
}

func (f *fakeCartRepo) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*types.Cart, error) {
	c, ok := f.carts[ownerID]
	if !ok {
		return nil, repos.ErrNoDocument
	}
	cp := *c
	cp.Items = append([]types.LineItem(nil), c.Items...)
	return &cp, nil
}

func (f *fakeCartRepo) Upsert(ctx context.Context, cart *types.Cart) (*types.Cart, error) {
	stored, ok := f.carts[cart.OwnerID]
	if !ok {
		stored = &types.Cart{ID: primitive.NewObjectID(), OwnerID: cart.OwnerID}
		f.carts[cart.OwnerID] = stored
	}
	stored.Items = append([]types.LineItem(nil), cart.Items...)
	cp := *stored
	cp.Items = append([]types.LineItem(nil), stored.Items...)
	return &cp, nil
}

func (f *fakeCartRepo) PullLineItem(ctx context.Context, ownerID, productID primitive.ObjectID) (*types.Cart, error) {
	stored, ok := f.carts[ownerID]
	if !ok {
		return nil, repos.ErrNoDocument
	}
	kept := stored.Items[:0]
	for _, item := range stored.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	stored.Items = kept
	cp := *stored
	cp.Items = append([]types.LineItem(nil), stored.Items...)
	return &cp, nil
}

func (f *fakeCartRepo) GetLineItem(ctx context.Context, ownerID, productID primitive.ObjectID) (*types.LineItem, error) {
	stored, ok := f.carts[ownerID]
	if !ok {
		return nil, repos.ErrNoDocument
	}
	for _, item := range stored.Items {
		if item.ProductID == productID {
			cp := item
			return &cp, nil
		}
	}
	return nil, repos.ErrNoDocument
}

// ---- rating aggregates ----

type fakeRatingAggRepo struct {
	aggs map[primitive.ObjectID]*types.RatingAggregate
}

func newFakeRatingAggRepo() *fakeRatingAggRepo {
	return &fakeRatingAggRepo{aggs: map[primitive.ObjectID]*types.RatingAggregate{}}
}

func (f *fakeRatingAggRepo) Get(ctx context.Context, productID primitive.ObjectID) (*types.RatingAggregate, error) {
	a, ok := f.aggs[productID]
	if !ok {
		return &types.RatingAggregate{ProductID: productID}, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRatingAggRepo) Apply(ctx context.Context, productID primitive.ObjectID, countDelta, sumDelta int64) error {
	a, ok := f.aggs[productID]
	if !ok {
		a = &types.RatingAggregate{ProductID: productID}
		f.aggs[productID] = a
	}
	a.Count += countDelta
	a.Sum += sumDelta
	return nil
}

func (f *fakeRatingAggRepo) DeleteByProduct(ctx context.Context, productID primitive.ObjectID) error {
	delete(f.aggs, productID)
	return nil
}

// ---- media ----

type fakeMediaService struct {
	stored  []string
	removed []string
}

func (f *fakeMediaService) StoreImage(ctx context.Context, upload types.Upload) (string, error) {
	// The real store generates unique object names (see
	// TestSaveGeneratesUniqueNames); a counter keeps that invariant here.
	url := fmt.Sprintf("/uploads/%d-%s", len(f.stored), upload.Name)
	f.stored = append(f.stored, url)
	return url, nil
}

func (f *fakeMediaService) StoreImages(ctx context.Context, uploads []types.Upload) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		url, err := f.StoreImage(ctx, upload)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (f *fakeMediaService) RemoveByURL(ctx context.Context, url string) {
	f.removed = append(f.removed, url)
}
