package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mrkecom/mrkecom-backend/internal/services"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (rh *ReviewHandler) Add(c *gin.Context) {
	caller, err := callerIdentity(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	var req struct {
		ProductID  string `json:"pid"`
		Rating     int    `json:"rating"`
		Comment    string `json:"comment"`
		ReviewDate string `json:"reviewDate"`
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

	review, err := rh.reviewService.Add(c.Request.Context(), caller.UserID, productID, req.Rating, req.Comment, req.ReviewDate)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Review added successfully", "review": review})
}

func (rh *ReviewHandler) Update(c *gin.Context) {
	caller, err := callerIdentity(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	reviewID, err := objectIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	var req struct {
		Rating     *int    `json:"rating"`
		Comment    *string `json:"comment"`
		ReviewDate string  `json:"reviewDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, invalidBody())
		return
	}

	review, err := rh.reviewService.Update(c.Request.Context(), caller.UserID, reviewID, services.ReviewUpdateInput{
		Rating:     req.Rating,
		Comment:    req.Comment,
		ReviewDate: req.ReviewDate,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Review updated successfully", "review": review})
}

func (rh *ReviewHandler) Delete(c *gin.Context) {
	caller, err := callerIdentity(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	reviewID, err := objectIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := rh.reviewService.Delete(c.Request.Context(), caller, reviewID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Review deleted"})
}

// RebuildAggregate is the admin repair path for a product's rating
// aggregate.
func (rh *ReviewHandler) RebuildAggregate(c *gin.Context) {
	productID, err := objectIDParam(c, "pid")
	if err != nil {
		RespondError(c, err)
		return
	}

	agg, err := rh.reviewService.RebuildAggregate(c.Request.Context(), productID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Rating aggregate rebuilt", "aggregate": agg})
}
