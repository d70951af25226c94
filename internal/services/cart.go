package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrkecom/mrkecom-backend/internal/platform/apierr"
	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/repos"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

// CartService owns per-user cart state. A cart holds at most one line item
// per product; adding an already-carted product replaces its quantity.
//
// UpsertItem is a load-modify-save cycle, so two concurrent upserts for the
// same owner race and the last save wins. The store-level save itself is a
// single atomic document write.
type CartService interface {
	UpsertItem(ctx context.Context, ownerID, productID primitive.ObjectID, quantity int) (*types.Cart, *types.LineItem, error)
	RemoveItem(ctx context.Context, ownerID, productID primitive.ObjectID) (*types.Cart, error)
	GetCart(ctx context.Context, ownerID primitive.ObjectID) ([]types.ResolvedLineItem, error)
	GetQuantity(ctx context.Context, ownerID, productID primitive.ObjectID) (int, error)
}

type cartService struct {
	log         *logger.Logger
	cartRepo    repos.CartRepo
	productRepo repos.ProductRepo
}

func NewCartService(log *logger.Logger, cartRepo repos.CartRepo, productRepo repos.ProductRepo) CartService {
	serviceLog := log.With("service", "CartService")
	return &cartService{
		log:         serviceLog,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// UpsertItem sets (not increments) the quantity for productID in the
// owner's cart, creating the cart on first add. It returns the persisted
// cart together with the single affected line item.
func (cs *cartService) UpsertItem(ctx context.Context, ownerID, productID primitive.ObjectID, quantity int) (*types.Cart, *types.LineItem, error) {
	if quantity <= 0 {
		return nil, nil, apierr.Validation("quantity must be a positive integer")
	}

	cart, err := cs.cartRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, repos.ErrNoDocument) {
			return nil, nil, apierr.Internal(err)
		}
		cart = &types.Cart{OwnerID: ownerID}
	}

	if idx := cart.FindItem(productID); idx >= 0 {
		cart.Items[idx].Quantity = quantity
	} else {
		cart.Items = append(cart.Items, types.LineItem{ProductID: productID, Quantity: quantity})
	}

	saved, err := cs.cartRepo.Upsert(ctx, cart)
	if err != nil {
		return nil, nil, apierr.Internal(err)
	}

	idx := saved.FindItem(productID)
	if idx < 0 {
		// The line was just written; its absence means a concurrent
		// remove won the race.
		return nil, nil, apierr.Internal(errors.New("line item missing after save"))
	}
	affected := saved.Items[idx]

	cs.log.Debug("Upserted cart line", "owner_user_id", ownerID.Hex(), "product_id", productID.Hex(), "quantity", quantity)
	return saved, &affected, nil
}

// RemoveItem pulls the product's line item out of the owner's cart. A user
// with no cart gets NotFound.
func (cs *cartService) RemoveItem(ctx context.Context, ownerID, productID primitive.ObjectID) (*types.Cart, error) {
	updated, err := cs.cartRepo.PullLineItem(ctx, ownerID, productID)
	if err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return nil, apierr.NotFound("cart not found")
		}
		return nil, apierr.Internal(err)
	}
	cs.log.Debug("Removed cart line", "owner_user_id", ownerID.Hex(), "product_id", productID.Hex())
	return updated, nil
}

// GetCart resolves every line item to its full product record, images
// included. Lines whose product has since been deleted are dropped from
// the response rather than failing the whole cart.
func (cs *cartService) GetCart(ctx context.Context, ownerID primitive.ObjectID) ([]types.ResolvedLineItem, error) {
	cart, err := cs.cartRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return nil, apierr.NotFound("cart not found")
		}
		return nil, apierr.Internal(err)
	}

	productIDs := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := cs.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	byID := make(map[primitive.ObjectID]*types.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	resolved := make([]types.ResolvedLineItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		resolved = append(resolved, types.ResolvedLineItem{
			Product:       *product,
			Quantity:      item.Quantity,
			ProductImages: product.ProductImages,
		})
	}
	return resolved, nil
}

// GetQuantity reports how many units of productID sit in the owner's cart.
// No cart or no matching line is 0, never an error.
func (cs *cartService) GetQuantity(ctx context.Context, ownerID, productID primitive.ObjectID) (int, error) {
	item, err := cs.cartRepo.GetLineItem(ctx, ownerID, productID)
	if err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return 0, nil
		}
		return 0, apierr.Internal(err)
	}
	return item.Quantity, nil
}
