package app

import (
	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/services"
)

type Services struct {
	Media         services.MediaService
	Avatar        services.AvatarService
	Auth          services.AuthService
	User          services.UserService
	Product       services.ProductService
	Cart          services.CartService
	ProductDetail services.ProductDetailService
	Review        services.ReviewService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, reposet Repos) Services {
	log.Info("Wiring services...")

	mediaService := services.NewMediaService(log, clients.Media)

	// The avatar service needs a font on disk; without one, users who
	// skip the profile image simply register without an avatar.
	avatarService, err := services.NewAvatarService(log, mediaService)
	if err != nil {
		log.Warn("Avatar service unavailable", "error", err)
		avatarService = nil
	}

	authService := services.NewAuthService(log, reposet.User, avatarService, mediaService, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	userService := services.NewUserService(log, reposet.User, authService, mediaService)
	productService := services.NewProductService(log, reposet.Product, reposet.Review, reposet.RatingAgg, mediaService)
	cartService := services.NewCartService(log, reposet.Cart, reposet.Product)
	detailService := services.NewProductDetailService(log, reposet.Product, reposet.Review, reposet.User, reposet.RatingAgg, cartService, clients.Cache)
	reviewService := services.NewReviewService(log, reposet.Review, reposet.Product, reposet.RatingAgg, clients.Cache)

	return Services{
		Media:         mediaService,
		Avatar:        avatarService,
		Auth:          authService,
		User:          userService,
		Product:       productService,
		Cart:          cartService,
		ProductDetail: detailService,
		Review:        reviewService,
	}
}
