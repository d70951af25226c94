package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrkecom/mrkecom-backend/internal/platform/apierr"
	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/repos"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

const defaultRowsPerPage = 10

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Color       string
	Quantity    int
}

type ProductPage struct {
	Products     []*types.Product `json:"products"`
	TotalRecords int              `json:"totalRecords"`
}

type ProductService interface {
	Add(ctx context.Context, input ProductInput, images []types.Upload) (*types.Product, error)
	Get(ctx context.Context, productID primitive.ObjectID) (*types.Product, error)
	List(ctx context.Context, currentPage int) (*ProductPage, error)
	Update(ctx context.Context, productID primitive.ObjectID, input ProductInput, deletedImages []string, newImages []types.Upload) (*types.Product, error)
	Delete(ctx context.Context, productID primitive.ObjectID) ([]*types.Product, error)
	Search(ctx context.Context, nameSubstring string, currentPage, rowsPerPage int) (*ProductPage, error)
}

type productService struct {
	log           *logger.Logger
	productRepo   repos.ProductRepo
	reviewRepo    repos.ReviewRepo
	ratingAggRepo repos.RatingAggRepo
	mediaService  MediaService
}

func NewProductService(
	log *logger.Logger,
	productRepo repos.ProductRepo,
	reviewRepo repos.ReviewRepo,
	ratingAggRepo repos.RatingAggRepo,
	mediaService MediaService,
) ProductService {
	serviceLog := log.With("service", "ProductService")
	return &productService{
		log:           serviceLog,
		productRepo:   productRepo,
		reviewRepo:    reviewRepo,
		ratingAggRepo: ratingAggRepo,
		mediaService:  mediaService,
	}
}

func (ps *productService) Add(ctx context.Context, input ProductInput, images []types.Upload) (*types.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	if len(images) < types.ProductImageMin || len(images) > types.ProductImageMax {
		return nil, apierr.Validation("a product needs between %d and %d images", types.ProductImageMin, types.ProductImageMax)
	}

	exists, err := ps.productRepo.NameExists(ctx, input.Name, primitive.NilObjectID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if exists {
		return nil, apierr.Conflict("product already exists")
	}

	urls, err := ps.mediaService.StoreImages(ctx, images)
	if err != nil {
		return nil, err
	}

	product := &types.Product{
		ProductName:        input.Name,
		ProductDescription: input.Description,
		ProductPrice:       input.Price,
		ProductColor:       input.Color,
		ProductImages:      urls,
		ProductQuantity:    input.Quantity,
	}
	created, err := ps.productRepo.Create(ctx, product)
	if err != nil {
		for _, url := range urls {
			ps.mediaService.RemoveByURL(ctx, url)
		}
		return nil, apierr.Internal(err)
	}

	ps.log.Info("Created product", "product_id", created.ID.Hex(), "name", created.ProductName)
	return created, nil
}

func (ps *productService) Get(ctx context.Context, productID primitive.ObjectID) (*types.Product, error) {
	product, err := ps.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return nil, apierr.NotFound("product not found")
		}
		return nil, apierr.Internal(err)
	}
	return product, nil
}

// List pages through all products with a fixed page size; currentPage is
// zero-based, matching the storefront's table widget.
func (ps *productService) List(ctx context.Context, currentPage int) (*ProductPage, error) {
	products, err := ps.productRepo.List(ctx)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return slicePage(products, currentPage, defaultRowsPerPage), nil
}

func (ps *productService) Update(ctx context.Context, productID primitive.ObjectID, input ProductInput, deletedImages []string, newImages []types.Upload) (*types.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	exists, err := ps.productRepo.NameExists(ctx, input.Name, productID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if exists {
		return nil, apierr.Conflict("product name already exists for another product")
	}

	product, err := ps.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return nil, apierr.NotFound("product not found")
		}
		return nil, apierr.Internal(err)
	}

	deleted := make(map[string]bool, len(deletedImages))
	for _, url := range deletedImages {
		deleted[url] = true
	}
	remaining := make([]string, 0, len(product.ProductImages))
	for _, url := range product.ProductImages {
		if !deleted[url] {
			remaining = append(remaining, url)
		}
	}

	// Bounds are checked before anything is written so a bad request
	// cannot leave the product half-updated.
	total := len(remaining) + len(newImages)
	if total > types.ProductImageMax {
		return nil, apierr.Validation("you can upload a maximum of %d images per product", types.ProductImageMax)
	}
	if total < types.ProductImageMin {
		return nil, apierr.Validation("at least %d image is required for a product", types.ProductImageMin)
	}

	newURLs, err := ps.mediaService.StoreImages(ctx, newImages)
	if err != nil {
		return nil, err
	}

	for _, url := range deletedImages {
		ps.mediaService.RemoveByURL(ctx, url)
	}

	product.ProductName = input.Name
	product.ProductDescription = input.Description
	product.ProductPrice = input.Price
	product.ProductColor = input.Color
	product.ProductQuantity = input.Quantity
	product.ProductImages = append(remaining, newURLs...)

	if err := ps.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return nil, apierr.NotFound("product not found")
		}
		return nil, apierr.Internal(err)
	}

	ps.log.Info("Updated product", "product_id", product.ID.Hex())
	return product, nil
}

// Delete removes the product plus its media, reviews and rating aggregate,
// and returns the remaining catalog.
func (ps *productService) Delete(ctx context.Context, productID primitive.ObjectID) ([]*types.Product, error) {
	product, err := ps.productRepo.DeleteByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return nil, apierr.NotFound("product not found")
		}
		return nil, apierr.Internal(err)
	}

	for _, url := range product.ProductImages {
		ps.mediaService.RemoveByURL(ctx, url)
	}
	if _, err := ps.reviewRepo.DeleteByProduct(ctx, productID); err != nil {
		ps.log.Warn("Failed to delete reviews of removed product", "product_id", productID.Hex(), "error", err)
	}
	if err := ps.ratingAggRepo.DeleteByProduct(ctx, productID); err != nil {
		ps.log.Warn("Failed to delete rating aggregate of removed product", "product_id", productID.Hex(), "error", err)
	}

	remaining, err := ps.productRepo.List(ctx)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	ps.log.Info("Deleted product", "product_id", productID.Hex())
	return remaining, nil
}

func (ps *productService) Search(ctx context.Context, nameSubstring string, currentPage, rowsPerPage int) (*ProductPage, error) {
	if rowsPerPage <= 0 {
		rowsPerPage = defaultRowsPerPage
	}
	products, err := ps.productRepo.SearchByName(ctx, nameSubstring)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return slicePage(products, currentPage, rowsPerPage), nil
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.Color) == "" {
		return apierr.Validation("all fields are required")
	}
	if input.Price <= 0 {
		return apierr.Validation("product price must be positive")
	}
	if input.Quantity < 0 {
		return apierr.Validation("product quantity cannot be negative")
	}
	return nil
}

func slicePage(products []*types.Product, currentPage, rowsPerPage int) *ProductPage {
	total := len(products)
	start := currentPage * rowsPerPage
	if start < 0 || start > total {
		start = total
	}
	end := start + rowsPerPage
	if end > total {
		end = total
	}
	return &ProductPage{Products: products[start:end], TotalRecords: total}
}
