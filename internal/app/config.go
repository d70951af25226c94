package app

import (
	"strings"
	"time"

	"github.com/mrkecom/mrkecom-backend/internal/platform/envutil"
	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
)

type Config struct {
	Port           string
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	MongoURI       string
	MongoDatabase  string
	RedisAddr      string
	MediaDir       string
	MediaBaseURL   string
	AllowOrigins   []string
	Environment    string
}

func LoadConfig(log *logger.Logger) Config {
	accessTokenTTLSeconds := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	origins := strings.Split(envutil.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173", log), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return Config{
		Port:           envutil.GetEnv("PORT", "5000", log),
		JWTSecretKey:   envutil.GetEnv("JWT_SECRET", "defaultsecret", log),
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		MongoURI:       envutil.GetEnv("MONGO_URL", "mongodb://localhost:27017", log),
		MongoDatabase:  envutil.GetEnv("MONGO_DATABASE", "mrkecom", log),
		RedisAddr:      envutil.GetEnv("REDIS_ADDR", "", nil),
		MediaDir:       envutil.GetEnv("MEDIA_DIR", "uploads", log),
		MediaBaseURL:   envutil.GetEnv("MEDIA_BASE_URL", "/uploads", log),
		AllowOrigins:   origins,
		Environment:    envutil.GetEnv("APP_ENV", "development", log),
	}
}
