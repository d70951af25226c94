package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is one user's rating of one product. Uniqueness of the
// (user, product) pair is enforced by the review service, not by an index.
type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID  primitive.ObjectID `bson:"product" json:"product"`
	UserID     primitive.ObjectID `bson:"user" json:"user"`
	Rating     int                `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment" json:"comment"`
	ReviewDate string             `bson:"reviewDate" json:"reviewDate"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// ReviewView is a review annotated for the product detail page.
type ReviewView struct {
	Review       `bson:",inline"`
	UserName     string `json:"userName"`
	UserImage    string `json:"userImage,omitempty"`
	AvgRating    string `json:"avgRating"`
	TotalReviews int64  `json:"totalReviews"`
}

// RatingAggregate is the incrementally maintained (count, sum) pair per
// product. Average = Sum/Count, always equal to a full rescan of reviews.
type RatingAggregate struct {
	ProductID primitive.ObjectID `bson:"_id" json:"productId"`
	Count     int64              `bson:"count" json:"count"`
	Sum       int64              `bson:"sum" json:"sum"`
}

func (ra RatingAggregate) Average() float64 {
	if ra.Count == 0 {
		return 0
	}
	return float64(ra.Sum) / float64(ra.Count)
}
