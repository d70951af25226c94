package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrkecom/mrkecom-backend/internal/platform/apierr"
	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/repos"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	UserType string
	Image    *types.Upload
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(tokenString string) (types.Identity, error)
	TokenForUser(user *types.User) (string, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	log           *logger.Logger
	userRepo      repos.UserRepo
	avatarService AvatarService
	mediaService  MediaService
	jwtSecretKey  string
	accessTTL     time.Duration
}

func NewAuthService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	avatarService AvatarService,
	mediaService MediaService,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		log:           serviceLog,
		userRepo:      userRepo,
		avatarService: avatarService,
		mediaService:  mediaService,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
	}
}

func (as *authService) Register(ctx context.Context, input RegisterInput) (string, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return "", apierr.Validation("name, email and password are required")
	}

	exists, err := as.userRepo.EmailExists(ctx, email)
	if err != nil {
		return "", apierr.Internal(err)
	}
	if exists {
		return "", apierr.Conflict("user already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", apierr.Internal(err)
	}

	userType := input.UserType
	if userType == "" {
		userType = types.UserTypeUser
	}

	user := &types.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		UserType: userType,
	}

	if input.Image != nil {
		url, upErr := as.mediaService.StoreImage(ctx, *input.Image)
		if upErr != nil {
			return "", upErr
		}
		user.UserImage = url
	} else if as.avatarService != nil {
		url, avErr := as.avatarService.GenerateInitialsAvatar(ctx, name)
		if avErr != nil {
			as.log.Warn("Avatar generation failed, registering without image", "error", avErr)
		} else {
			user.UserImage = url
		}
	}

	created, err := as.userRepo.Create(ctx, user)
	if err != nil {
		return "", apierr.Internal(err)
	}

	as.log.Info("Registered user", "user_id", created.ID.Hex())
	return as.TokenForUser(created)
}

func (as *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", apierr.Validation("email and password are required")
	}

	user, err := as.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repos.ErrNoDocument) {
			return "", apierr.Unauthorized("invalid credentials")
		}
		return "", apierr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apierr.Unauthorized("invalid credentials")
	}

	return as.TokenForUser(user)
}

// TokenForUser signs the identity claims the frontend reads directly.
func (as *authService) TokenForUser(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":        user.ID.Hex(),
		"name":      user.Name,
		"email":     user.Email,
		"userImage": user.UserImage,
		"userType":  user.UserType,
		"iat":       now.Unix(),
		"exp":       now.Add(as.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", apierr.Internal(err)
	}
	return signed, nil
}

func (as *authService) ParseToken(tokenString string) (types.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return types.Identity{}, apierr.Unauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return types.Identity{}, apierr.Unauthorized("invalid token claims")
	}

	idHex, _ := claims["id"].(string)
	userID, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return types.Identity{}, apierr.Unauthorized("invalid user id in token")
	}

	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	userType, _ := claims["userType"].(string)
	return types.Identity{
		UserID:   userID,
		Name:     name,
		Email:    email,
		UserType: userType,
	}, nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
