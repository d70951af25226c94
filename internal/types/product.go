package types

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	ProductImageMin = 1
	ProductImageMax = 5
)

type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductName        string             `bson:"productName" json:"productName"`
	ProductDescription string             `bson:"productDescription" json:"productDescription"`
	ProductPrice       float64            `bson:"productPrice" json:"productPrice"`
	ProductColor       string             `bson:"productColor" json:"productColor"`
	ProductImages      []string           `bson:"productImages" json:"productImages"`
	ProductQuantity    int                `bson:"productQuantity" json:"productQuantity"`
}
