package types

import "go.mongodb.org/mongo-driver/bson/primitive"

// LineItem is one (product, quantity) pair inside a cart.
type LineItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart holds one user's line items. At most one line item exists per
// (owner, product) pair; repeated adds replace the quantity.
type Cart struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID primitive.ObjectID `bson:"user" json:"user"`
	Items   []LineItem         `bson:"items" json:"items"`
}

// FindItem returns the index of the line item for productID, or -1.
func (c *Cart) FindItem(productID primitive.ObjectID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// ResolvedLineItem is a line item joined with its product record,
// including images, for the cart detail page.
type ResolvedLineItem struct {
	Product       Product  `json:"product"`
	Quantity      int      `json:"quantity"`
	ProductImages []string `json:"productImages"`
}
