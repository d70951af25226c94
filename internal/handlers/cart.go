package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mrkecom/mrkecom-backend/internal/services"
)

type CartHandler struct {
	cartService services.CartService
}

func NewCartHandler(cartService services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Add sets the quantity for a product in the caller's cart, creating the
// cart on first use.
func (ch *CartHandler) Add(c *gin.Context) {
	caller, err := callerIdentity(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	var req struct {
		ProductID string `json:"ProductId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, invalidBody())
		return
	}
	productID, err := objectIDFromHex(req.ProductID, "product id")
	if err != nil {
		RespondError(c, err)
		return
	}

	cart, singleItem, err := ch.cartService.UpsertItem(c.Request.Context(), caller.UserID, productID, req.Quantity)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"message": "Cart updated", "cart": cart, "singleItem": singleItem})
}

func (ch *CartHandler) Details(c *gin.Context) {
	caller, err := callerIdentity(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	items, err := ch.cartService.GetCart(c.Request.Context(), caller.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"cart": items})
}

func (ch *CartHandler) Delete(c *gin.Context) {
	caller, err := callerIdentity(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	var req struct {
		ProductID string `json:"ProductId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, invalidBody())
		return
	}
	productID, err := objectIDFromHex(req.ProductID, "product id")
	if err != nil {
		RespondError(c, err)
		return
	}

	cart, err := ch.cartService.RemoveItem(c.Request.Context(), caller.UserID, productID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Successfully removed from cart", "cart": cart})
}
