package services

import (
	"context"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrkecom/mrkecom-backend/internal/platform/apierr"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

type reviewFixture struct {
	svc         ReviewService
	reviewRepo  *fakeReviewRepo
	productRepo *fakeProductRepo
	aggRepo     *fakeRatingAggRepo
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	f := &reviewFixture{
		reviewRepo:  newFakeReviewRepo(),
		productRepo: newFakeProductRepo(),
		aggRepo:     newFakeRatingAggRepo(),
	}
	f.svc = NewReviewService(testLogger(t), f.reviewRepo, f.productRepo, f.aggRepo, nil)
	return f
}

func (f *reviewFixture) aggOf(t *testing.T, productID primitive.ObjectID) *types.RatingAggregate {
	t.Helper()
	agg, err := f.aggRepo.Get(context.Background(), productID)
	if err != nil {
		t.Fatalf("read aggregate: %v", err)
	}
	return agg
}

func TestAddReviewMaintainsAggregate(t *testing.T) {
	f := newReviewFixture(t)
	product := seedProduct(t, f.productRepo, "tablet")
	user := primitive.NewObjectID()

	review, err := f.svc.Add(context.Background(), user, product.ID, 4, "solid", "2026-08-28")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if review.ID.IsZero() {
		t.Error("created review has zero id")
	}
	agg := f.aggOf(t, product.ID)
	if agg.Count != 1 || agg.Sum != 4 {
		t.Errorf("aggregate = (%d, %d), want (1, 4)", agg.Count, agg.Sum)
	}
}

func TestAddReviewRejectsDuplicateWithNoSideEffects(t *testing.T) {
	f := newReviewFixture(t)
	product := seedProduct(t, f.productRepo, "speaker")
	user := primitive.NewObjectID()

	if _, err := f.svc.Add(context.Background(), user, product.ID, 5, "great", "2026-08-01"); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	_, err := f.svc.Add(context.Background(), user, product.ID, 2, "changed my mind", "2026-08-02")
	if !apierr.IsStatus(err, http.StatusConflict) {
		t.Fatalf("second Add err = %v, want 409", err)
	}

	reviews, _ := f.reviewRepo.GetByProduct(context.Background(), product.ID)
	if len(reviews) != 1 {
		t.Errorf("product has %d reviews after rejected duplicate, want 1", len(reviews))
	}
	agg := f.aggOf(t, product.ID)
	if agg.Count != 1 || agg.Sum != 5 {
		t.Errorf("aggregate = (%d, %d), want (1, 5) untouched", agg.Count, agg.Sum)
	}
}

func TestAddReviewAllowsSameUserOnOtherProduct(t *testing.T) {
	f := newReviewFixture(t)
	first := seedProduct(t, f.productRepo, "router")
	second := seedProduct(t, f.productRepo, "switch")
	user := primitive.NewObjectID()

	if _, err := f.svc.Add(context.Background(), user, first.ID, 3, "", "2026-08-01"); err != nil {
		t.Fatalf("Add first: %v", err)
	}
	if _, err := f.svc.Add(context.Background(), user, second.ID, 4, "", "2026-08-01"); err != nil {
		t.Errorf("Add second product: %v, want nil", err)
	}
}

func TestAddReviewValidatesRatingRange(t *testing.T) {
	f := newReviewFixture(t)
	product := seedProduct(t, f.productRepo, "cable")

	for _, rating := range []int{0, 6, -3} {
		_, err := f.svc.Add(context.Background(), primitive.NewObjectID(), product.ID, rating, "", "2026-08-28")
		if !apierr.IsStatus(err, http.StatusBadRequest) {
			t.Errorf("rating %d: err = %v, want 400", rating, err)
		}
	}
}

func TestAddReviewOnMissingProduct(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.svc.Add(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 4, "", "2026-08-28")
	if !apierr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("err = %v, want 404", err)
	}
}

func TestUpdateReviewPartialFields(t *testing.T) {
	f := newReviewFixture(t)
	product := seedProduct(t, f.productRepo, "printer")
	user := primitive.NewObjectID()

	created, err := f.svc.Add(context.Background(), user, product.ID, 2, "jams a lot", "2026-08-01")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Rating only. Comment survives, date is always overwritten.
	newRating := 4
	updated, err := f.svc.Update(context.Background(), user, created.ID, ReviewUpdateInput{
		Rating:     &newRating,
		ReviewDate: "2026-08-15",
	})
	if err != nil {
		t.Fatalf("Update rating: %v", err)
	}
	if updated.Rating != 4 || updated.Comment != "jams a lot" || updated.ReviewDate != "2026-08-15" {
		t.Errorf("after rating update: %+v", updated)
	}
	agg := f.aggOf(t, product.ID)
	if agg.Count != 1 || agg.Sum != 4 {
		t.Errorf("aggregate = (%d, %d), want (1, 4)", agg.Count, agg.Sum)
	}

	// Comment only. Rating and aggregate stay put.
	newComment := "fixed after firmware update"
	updated, err = f.svc.Update(context.Background(), user, created.ID, ReviewUpdateInput{
		Comment:    &newComment,
		ReviewDate: "2026-08-20",
	})
	if err != nil {
		t.Fatalf("Update comment: %v", err)
	}
	if updated.Rating != 4 || updated.Comment != newComment {
		t.Errorf("after comment update: %+v", updated)
	}
	agg = f.aggOf(t, product.ID)
	if agg.Sum != 4 {
		t.Errorf("aggregate sum = %d, want 4 unchanged", agg.Sum)
	}
}

func TestUpdateReviewOfAnotherUserIsNotFound(t *testing.T) {
	f := newReviewFixture(t)
	product := seedProduct(t, f.productRepo, "scanner")
	author := primitive.NewObjectID()

	created, err := f.svc.Add(context.Background(), author, product.ID, 5, "", "2026-08-01")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	newRating := 1
	_, err = f.svc.Update(context.Background(), primitive.NewObjectID(), created.ID, ReviewUpdateInput{
		Rating:     &newRating,
		ReviewDate: "2026-08-02",
	})
	if !apierr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("err = %v, want 404 for foreign review", err)
	}
}

func TestDeleteReviewOwnership(t *testing.T) {
	f := newReviewFixture(t)
	product := seedProduct(t, f.productRepo, "charger")
	author := primitive.NewObjectID()

	created, err := f.svc.Add(context.Background(), author, product.ID, 3, "", "2026-08-01")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	stranger := types.Identity{UserID: primitive.NewObjectID(), UserType: types.UserTypeUser}
	err = f.svc.Delete(context.Background(), stranger, created.ID)
	if !apierr.IsStatus(err, http.StatusForbidden) {
		t.Fatalf("stranger delete err = %v, want 403", err)
	}

	owner := types.Identity{UserID: author, UserType: types.UserTypeUser}
	if err := f.svc.Delete(context.Background(), owner, created.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	agg := f.aggOf(t, product.ID)
	if agg.Count != 0 || agg.Sum != 0 {
		t.Errorf("aggregate = (%d, %d), want (0, 0) after delete", agg.Count, agg.Sum)
	}
}

func TestDeleteReviewAsAdmin(t *testing.T) {
	f := newReviewFixture(t)
	product := seedProduct(t, f.productRepo, "dock")
	author := primitive.NewObjectID()

	created, err := f.svc.Add(context.Background(), author, product.ID, 3, "", "2026-08-01")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	admin := types.Identity{UserID: primitive.NewObjectID(), UserType: types.UserTypeAdmin}
	if err := f.svc.Delete(context.Background(), admin, created.ID); err != nil {
		t.Errorf("admin delete: %v, want nil", err)
	}
}

func TestDeleteMissingReviewIsNotFound(t *testing.T) {
	f := newReviewFixture(t)

	owner := types.Identity{UserID: primitive.NewObjectID(), UserType: types.UserTypeUser}
	err := f.svc.Delete(context.Background(), owner, primitive.NewObjectID())
	if !apierr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("err = %v, want 404", err)
	}
}

func TestRebuildAggregateCorrectsDrift(t *testing.T) {
	f := newReviewFixture(t)
	product := seedProduct(t, f.productRepo, "ssd")

	for _, rating := range []int{5, 3, 4} {
		if _, err := f.svc.Add(context.Background(), primitive.NewObjectID(), product.ID, rating, "", "2026-08-01"); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	// Simulate a lost delta.
	if err := f.aggRepo.Apply(context.Background(), product.ID, -1, -5); err != nil {
		t.Fatalf("corrupt aggregate: %v", err)
	}

	rebuilt, err := f.svc.RebuildAggregate(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("RebuildAggregate: %v", err)
	}
	if rebuilt.Count != 3 || rebuilt.Sum != 12 {
		t.Errorf("rebuilt = (%d, %d), want (3, 12)", rebuilt.Count, rebuilt.Sum)
	}
	stored := f.aggOf(t, product.ID)
	if stored.Count != 3 || stored.Sum != 12 {
		t.Errorf("stored aggregate = (%d, %d), want (3, 12)", stored.Count, stored.Sum)
	}
}
