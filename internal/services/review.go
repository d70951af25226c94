package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrkecom/mrkecom-backend/internal/platform/apierr"
	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/platform/rediscache"
	"github.com/mrkecom/mrkecom-backend/internal/repos"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

const (
	ratingMin = 1
	ratingMax = 5
)

type ReviewUpdateInput struct {
	Rating     *int    // nil keeps the current rating
	Comment    *string // nil keeps the current comment
	ReviewDate string  // always overwritten
}

// ReviewService gates review writes: one review per (user, product) pair,
// and only the author (or an admin) may change or delete one. Every write
// applies a matching delta to the product's rating aggregate.
type ReviewService interface {
	Add(ctx context.Context, userID, productID primitive.ObjectID, rating int, comment, reviewDate string) (*types.Review, error)
	Update(ctx context.Context, userID, reviewID primitive.ObjectID, input ReviewUpdateInput) (*types.Review, error)
	Delete(ctx context.Context, caller types.Identity, reviewID primitive.ObjectID) error
	RebuildAggregate(ctx context.Context, productID primitive.ObjectID) (*types.RatingAggregate, error)
}

type reviewService struct {
	log           *logger.Logger
	reviewRepo    repos.ReviewRepo
	productRepo   repos.ProductRepo
	ratingAggRepo repos.RatingAggRepo
	cache         rediscache.Cache // nil disables invalidation
}

func NewReviewService(
	log *logger.Logger,
	reviewRepo repos.ReviewRepo,
	productRepo repos.ProductRepo,
	ratingAggRepo repos.RatingAggRepo,
	cache rediscache.Cache,
) ReviewService {
	serviceLog := log.With("service", "ReviewService")
	return &reviewService{
		log:           serviceLog,
		reviewRepo:    reviewRepo,
		productRepo:   productRepo,
		ratingAggRepo: ratingAggRepo,
		cache:         cache,
	}
}

// Add creates exactly one review, rejecting a second review by the same
// user for the same product. The duplicate check scans the user's own
// review set; there is no compound unique index behind it.
func (rs *reviewService) Add(ctx context.Context, userID, productID primitive.ObjectID, rating int, comment, reviewDate string) (*types.Review, error) {
	if rating < ratingMin || rating > ratingMax {
		return nil, apierr.Validation("rating must be between %d and %d", ratingMin, ratingMax)
	}

	if _, err := rs.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return nil, apierr.NotFound("product not found")
		}
		return nil, apierr.Internal(err)
	}

	userReviews, err := rs.reviewRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	for _, existing := range userReviews {
		if existing.ProductID == productID {
			return nil, apierr.Conflict("you've already reviewed this item")
		}
	}

	review := &types.Review{
		ProductID:  productID,
		UserID:     userID,
		Rating:     rating,
		Comment:    comment,
		ReviewDate: reviewDate,
		CreatedAt:  time.Now(),
	}
	created, err := rs.reviewRepo.Create(ctx, review)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	if err := rs.ratingAggRepo.Apply(ctx, productID, 1, int64(rating)); err != nil {
		rs.log.Error("Rating aggregate increment failed", "product_id", productID.Hex(), "error", err)
	}
	rs.invalidateAggregate(ctx, productID)

	rs.log.Info("Added review", "review_id", created.ID.Hex(), "product_id", productID.Hex())
	return created, nil
}

// Update applies only the provided fields. The review must belong to the
// requesting user; anything else is NotFound, indistinguishable from a
// missing review.
func (rs *reviewService) Update(ctx context.Context, userID, reviewID primitive.ObjectID, input ReviewUpdateInput) (*types.Review, error) {
	review, err := rs.reviewRepo.GetByIDForUser(ctx, reviewID, userID)
	if err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return nil, apierr.NotFound("review not found")
		}
		return nil, apierr.Internal(err)
	}

	var ratingDelta int64
	if input.Rating != nil {
		newRating := *input.Rating
		if newRating < ratingMin || newRating > ratingMax {
			return nil, apierr.Validation("rating must be between %d and %d", ratingMin, ratingMax)
		}
		ratingDelta = int64(newRating - review.Rating)
		review.Rating = newRating
	}
	if input.Comment != nil {
		review.Comment = *input.Comment
	}
	review.ReviewDate = input.ReviewDate

	if err := rs.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return nil, apierr.NotFound("review not found")
		}
		return nil, apierr.Internal(err)
	}

	if ratingDelta != 0 {
		if err := rs.ratingAggRepo.Apply(ctx, review.ProductID, 0, ratingDelta); err != nil {
			rs.log.Error("Rating aggregate adjust failed", "product_id", review.ProductID.Hex(), "error", err)
		}
		rs.invalidateAggregate(ctx, review.ProductID)
	}

	rs.log.Info("Updated review", "review_id", review.ID.Hex())
	return review, nil
}

// Delete removes a review by id. Only the review's author or an admin may
// delete it.
func (rs *reviewService) Delete(ctx context.Context, caller types.Identity, reviewID primitive.ObjectID) error {
	review, err := rs.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return apierr.NotFound("review not found")
		}
		return apierr.Internal(err)
	}
	if review.UserID != caller.UserID && !caller.IsAdmin() {
		return apierr.Forbidden("cannot delete another user's review")
	}

	if _, err := rs.reviewRepo.DeleteByID(ctx, reviewID); err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return apierr.NotFound("review not found")
		}
		return apierr.Internal(err)
	}

	if err := rs.ratingAggRepo.Apply(ctx, review.ProductID, -1, -int64(review.Rating)); err != nil {
		rs.log.Error("Rating aggregate decrement failed", "product_id", review.ProductID.Hex(), "error", err)
	}
	rs.invalidateAggregate(ctx, review.ProductID)

	rs.log.Info("Deleted review", "review_id", reviewID.Hex())
	return nil
}

// RebuildAggregate recomputes (count, sum) from a full review scan and
// overwrites the maintained aggregate. Admin-only repair path for when a
// delta was lost to a partial failure.
func (rs *reviewService) RebuildAggregate(ctx context.Context, productID primitive.ObjectID) (*types.RatingAggregate, error) {
	reviews, err := rs.reviewRepo.GetByProduct(ctx, productID)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	var sum int64
	for _, review := range reviews {
		sum += int64(review.Rating)
	}

	current, err := rs.ratingAggRepo.Get(ctx, productID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	countDelta := int64(len(reviews)) - current.Count
	sumDelta := sum - current.Sum
	if countDelta != 0 || sumDelta != 0 {
		if err := rs.ratingAggRepo.Apply(ctx, productID, countDelta, sumDelta); err != nil {
			return nil, apierr.Internal(err)
		}
		rs.invalidateAggregate(ctx, productID)
	}

	rebuilt := &types.RatingAggregate{ProductID: productID, Count: int64(len(reviews)), Sum: sum}
	rs.log.Info("Rebuilt rating aggregate", "product_id", productID.Hex(), "count", rebuilt.Count)
	return rebuilt, nil
}

func (rs *reviewService) invalidateAggregate(ctx context.Context, productID primitive.ObjectID) {
	if rs.cache == nil {
		return
	}
	if err := rs.cache.Delete(ctx, ratingAggCacheKey(productID)); err != nil {
		rs.log.Warn("Rating aggregate cache invalidation failed", "product_id", productID.Hex(), "error", err)
	}
}
