package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrkecom/mrkecom-backend/internal/platform/apierr"
	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/repos"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

type UpdateProfileInput struct {
	Name     string
	Email    string
	Password string // optional; empty keeps the current hash
	Image    *types.Upload
}

type UserService interface {
	UpdateProfile(ctx context.Context, caller types.Identity, targetUserID primitive.ObjectID, input UpdateProfileInput) (string, error)
}

type userService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	authService  AuthService
	mediaService MediaService
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo, authService AuthService, mediaService MediaService) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		log:          serviceLog,
		userRepo:     userRepo,
		authService:  authService,
		mediaService: mediaService,
	}
}

// UpdateProfile applies the provided fields and returns a freshly signed
// identity token reflecting them.
func (us *userService) UpdateProfile(ctx context.Context, caller types.Identity, targetUserID primitive.ObjectID, input UpdateProfileInput) (string, error) {
	if caller.UserID != targetUserID && !caller.IsAdmin() {
		return "", apierr.Forbidden("cannot update another user's profile")
	}

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return "", apierr.Validation("name and email are required")
	}

	user, err := us.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return "", apierr.NotFound("user not found")
		}
		return "", apierr.Internal(err)
	}

	user.Name = name
	user.Email = email

	if input.Password != "" {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return "", apierr.Internal(hashErr)
		}
		user.Password = string(hashed)
	}

	if input.Image != nil {
		url, upErr := us.mediaService.StoreImage(ctx, *input.Image)
		if upErr != nil {
			return "", upErr
		}
		if user.UserImage != "" {
			us.mediaService.RemoveByURL(ctx, user.UserImage)
		}
		user.UserImage = url
	}

	if err := us.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return "", apierr.NotFound("user not found")
		}
		return "", apierr.Internal(err)
	}

	us.log.Info("Updated user profile", "user_id", user.ID.Hex())
	return us.authService.TokenForUser(user)
}
