package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/mrkecom/mrkecom-backend/internal/platform/apierr"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	svc := NewAuthService(testLogger(t), userRepo, nil, &fakeMediaService{}, "test-secret", time.Hour)
	return svc, userRepo
}

func TestRegisterAndParseTokenRoundtrip(t *testing.T) {
	svc, userRepo := newAuthFixture(t)

	token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ada Lovelace",
		Email:    "Ada@Example.COM",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	identity, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if identity.Name != "Ada Lovelace" {
		t.Errorf("Name = %q", identity.Name)
	}
	if identity.Email != "ada@example.com" {
		t.Errorf("Email = %q, want lowercased", identity.Email)
	}
	if identity.UserType != types.UserTypeUser {
		t.Errorf("UserType = %q, want %q", identity.UserType, types.UserTypeUser)
	}

	stored, err := userRepo.GetByID(context.Background(), identity.UserID)
	if err != nil {
		t.Fatalf("stored user: %v", err)
	}
	if stored.Password == "s3cret" {
		t.Error("password stored in plain text")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	input := RegisterInput{Name: "A", Email: "dup@example.com", Password: "pw"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(context.Background(), input)
	if !apierr.IsStatus(err, http.StatusConflict) {
		t.Errorf("err = %v, want 409", err)
	}
}

func TestRegisterRequiresAllFields(t *testing.T) {
	svc, _ := newAuthFixture(t)

	cases := []RegisterInput{
		{Name: "", Email: "x@example.com", Password: "pw"},
		{Name: "X", Email: "  ", Password: "pw"},
		{Name: "X", Email: "x@example.com", Password: ""},
	}
	for _, input := range cases {
		_, err := svc.Register(context.Background(), input)
		if !apierr.IsStatus(err, http.StatusBadRequest) {
			t.Errorf("input %+v: err = %v, want 400", input, err)
		}
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Grace",
		Email:    "grace@example.com",
		Password: "hopper",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := svc.Login(context.Background(), "grace@example.com", "hopper")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.ParseToken(token); err != nil {
		t.Errorf("ParseToken after login: %v", err)
	}

	// Wrong password and unknown user read the same to the caller.
	_, err = svc.Login(context.Background(), "grace@example.com", "wrong")
	if !apierr.IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("wrong password err = %v, want 401", err)
	}
	_, err = svc.Login(context.Background(), "nobody@example.com", "hopper")
	if !apierr.IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("unknown user err = %v, want 401", err)
	}
}

func TestParseTokenRejectsForgedAndExpired(t *testing.T) {
	svc, _ := newAuthFixture(t)

	if _, err := svc.ParseToken("not-a-token"); !apierr.IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("garbage token err = %v, want 401", err)
	}

	// Signed with a different secret.
	otherSvc := NewAuthService(testLogger(t), newFakeUserRepo(), nil, &fakeMediaService{}, "other-secret", time.Hour)
	forged, err := otherSvc.Register(context.Background(), RegisterInput{Name: "M", Email: "m@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Register on other service: %v", err)
	}
	if _, err := svc.ParseToken(forged); !apierr.IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("forged token err = %v, want 401", err)
	}

	// Negative TTL puts exp in the past.
	expiredSvc := NewAuthService(testLogger(t), newFakeUserRepo(), nil, &fakeMediaService{}, "test-secret", -time.Minute)
	expired, err := expiredSvc.Register(context.Background(), RegisterInput{Name: "E", Email: "e@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Register on expired service: %v", err)
	}
	if _, err := svc.ParseToken(expired); !apierr.IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("expired token err = %v, want 401", err)
	}
}

func TestRegisterStoresProvidedImage(t *testing.T) {
	userRepo := newFakeUserRepo()
	media := &fakeMediaService{}
	svc := NewAuthService(testLogger(t), userRepo, nil, media, "test-secret", time.Hour)

	token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Pic",
		Email:    "pic@example.com",
		Password: "pw",
		Image:    &types.Upload{Name: "me.png", Data: []byte{0x89}},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	identity, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	stored, err := userRepo.GetByID(context.Background(), identity.UserID)
	if err != nil {
		t.Fatalf("stored user: %v", err)
	}
	if stored.UserImage == "" || len(media.stored) != 1 {
		t.Errorf("UserImage = %q, stored uploads = %d, want image saved", stored.UserImage, len(media.stored))
	}
}
