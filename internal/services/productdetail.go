package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/mrkecom/mrkecom-backend/internal/platform/apierr"
	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/platform/rediscache"
	"github.com/mrkecom/mrkecom-backend/internal/repos"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

const ratingAggCacheTTL = 5 * time.Minute

// ProductDetail is the assembled view for a product page: the product
// itself, one page of reviews, the aggregate rating and the requesting
// user's cart quantity for this product.
type ProductDetail struct {
	Product         *types.Product     `json:"product"`
	ProductQuantity int                `json:"productQuantity"`
	Reviews         []types.ReviewView `json:"reviews"`
	AvgRating       float64            `json:"avgRating"`
	TotalReviews    int64              `json:"totalReviews"`
	Page            int64              `json:"page"`
	Limit           int64              `json:"limit"`
	HasMore         bool               `json:"hasMore"`
}

type ProductDetailService interface {
	Assemble(ctx context.Context, productID, userID primitive.ObjectID, page, limit int64) (*ProductDetail, error)
}

type productDetailService struct {
	log           *logger.Logger
	productRepo   repos.ProductRepo
	reviewRepo    repos.ReviewRepo
	userRepo      repos.UserRepo
	ratingAggRepo repos.RatingAggRepo
	cartService   CartService
	cache         rediscache.Cache // nil disables caching
}

func NewProductDetailService(
	log *logger.Logger,
	productRepo repos.ProductRepo,
	reviewRepo repos.ReviewRepo,
	userRepo repos.UserRepo,
	ratingAggRepo repos.RatingAggRepo,
	cartService CartService,
	cache rediscache.Cache,
) ProductDetailService {
	serviceLog := log.With("service", "ProductDetailService")
	return &productDetailService{
		log:           serviceLog,
		productRepo:   productRepo,
		reviewRepo:    reviewRepo,
		userRepo:      userRepo,
		ratingAggRepo: ratingAggRepo,
		cartService:   cartService,
		cache:         cache,
	}
}

// Assemble builds the product detail view. The review page, the rating
// aggregate and the cart quantity are independent reads and are fetched
// concurrently.
//
// A product with zero reviews reports an average of 0. HasMore is the
// historical heuristic len(page) == limit: it reads true when the last
// page happens to be exactly full, and clients depend on that reading.
func (ds *productDetailService) Assemble(ctx context.Context, productID, userID primitive.ObjectID, page, limit int64) (*ProductDetail, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	product, err := ds.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return nil, apierr.NotFound("product not found")
		}
		return nil, apierr.Internal(err)
	}

	var (
		pageReviews []*types.Review
		agg         *types.RatingAggregate
		cartQty     int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		skip := (page - 1) * limit
		reviews, rErr := ds.reviewRepo.GetByProductPaged(gctx, productID, skip, limit)
		if rErr != nil {
			return rErr
		}
		pageReviews = reviews
		return nil
	})
	g.Go(func() error {
		a, aErr := ds.ratingAggregate(gctx, productID)
		if aErr != nil {
			return aErr
		}
		agg = a
		return nil
	})
	g.Go(func() error {
		qty, qErr := ds.cartService.GetQuantity(gctx, userID, productID)
		if qErr != nil {
			return qErr
		}
		cartQty = qty
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, apierr.From(err)
	}

	reviewViews, err := ds.annotateReviews(ctx, pageReviews, agg)
	if err != nil {
		return nil, apierr.From(err)
	}

	return &ProductDetail{
		Product:         product,
		ProductQuantity: cartQty,
		Reviews:         reviewViews,
		AvgRating:       agg.Average(),
		TotalReviews:    agg.Count,
		Page:            page,
		Limit:           limit,
		HasMore:         int64(len(pageReviews)) == limit,
	}, nil
}

// ratingAggregate reads through the cache when one is wired.
func (ds *productDetailService) ratingAggregate(ctx context.Context, productID primitive.ObjectID) (*types.RatingAggregate, error) {
	key := ratingAggCacheKey(productID)
	if ds.cache != nil {
		var cached types.RatingAggregate
		err := ds.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, rediscache.ErrMiss) {
			ds.log.Warn("Rating aggregate cache read failed", "product_id", productID.Hex(), "error", err)
		}
	}

	agg, err := ds.ratingAggRepo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if ds.cache != nil {
		if err := ds.cache.SetJSON(ctx, key, agg, ratingAggCacheTTL); err != nil {
			ds.log.Warn("Rating aggregate cache write failed", "product_id", productID.Hex(), "error", err)
		}
	}
	return agg, nil
}

// annotateReviews joins reviewer name and avatar onto each review and
// stamps the snapshot average and total, the way the detail page renders
// them next to every entry.
func (ds *productDetailService) annotateReviews(ctx context.Context, reviews []*types.Review, agg *types.RatingAggregate) ([]types.ReviewView, error) {
	seen := make(map[primitive.ObjectID]bool, len(reviews))
	userIDs := make([]primitive.ObjectID, 0, len(reviews))
	for _, review := range reviews {
		if !seen[review.UserID] {
			seen[review.UserID] = true
			userIDs = append(userIDs, review.UserID)
		}
	}
	users, err := ds.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	usersByID := make(map[primitive.ObjectID]*types.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	avgDisplay := FormatRating(agg.Average())
	views := make([]types.ReviewView, 0, len(reviews))
	for _, review := range reviews {
		view := types.ReviewView{
			Review:       *review,
			AvgRating:    avgDisplay,
			TotalReviews: agg.Count,
		}
		if u, ok := usersByID[review.UserID]; ok {
			view.UserName = u.Name
			view.UserImage = u.UserImage
		}
		views = append(views, view)
	}
	return views, nil
}

// FormatRating renders an average to one decimal place for display.
func FormatRating(avg float64) string {
	return strconv.FormatFloat(avg, 'f', 1, 64)
}

func ratingAggCacheKey(productID primitive.ObjectID) string {
	return "ratingagg:" + productID.Hex()
}
