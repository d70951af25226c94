package app

import (
	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/platform/mongodb"
	"github.com/mrkecom/mrkecom-backend/internal/repos"
)

type Repos struct {
	User      repos.UserRepo
	Product   repos.ProductRepo
	Review    repos.ReviewRepo
	Cart      repos.CartRepo
	RatingAgg repos.RatingAggRepo
}

func wireRepos(db *mongodb.Service, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		Product:   repos.NewProductRepo(db, log),
		Review:    repos.NewReviewRepo(db, log),
		Cart:      repos.NewCartRepo(db, log),
		RatingAgg: repos.NewRatingAggRepo(db, log),
	}
}
