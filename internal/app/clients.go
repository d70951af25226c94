package app

import (
	"fmt"

	"github.com/mrkecom/mrkecom-backend/internal/platform/localmedia"
	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
	"github.com/mrkecom/mrkecom-backend/internal/platform/mongodb"
	"github.com/mrkecom/mrkecom-backend/internal/platform/rediscache"
)

type Clients struct {
	Mongo *mongodb.Service
	Cache rediscache.Cache // nil when REDIS_ADDR is unset
	Media localmedia.Store
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	mongo, err := mongodb.New(log, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return Clients{}, fmt.Errorf("init mongo: %w", err)
	}

	var cache rediscache.Cache
	if cfg.RedisAddr != "" {
		c, cErr := rediscache.New(log, cfg.RedisAddr)
		if cErr != nil {
			return Clients{}, fmt.Errorf("init redis cache: %w", cErr)
		}
		cache = c
	}

	media, err := localmedia.New(log, cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		return Clients{}, fmt.Errorf("init media store: %w", err)
	}

	return Clients{Mongo: mongo, Cache: cache, Media: media}, nil
}
