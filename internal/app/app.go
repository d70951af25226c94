package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrkecom/mrkecom-backend/internal/observability"
	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Router   *gin.Engine
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services

	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "mrkecom-backend",
		Environment: cfg.Environment,
	})

	clientset, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(clientset.Mongo, log)
	serviceset := wireServices(log, cfg, clientset, reposet)
	handlerset := wireHandlers(log, serviceset)
	middlewareset := wireMiddleware(log, serviceset)
	router := wireRouter(cfg, handlerset, middlewareset)

	return &App{
		Log:          log,
		Router:       router,
		Cfg:          cfg,
		Clients:      clientset,
		Repos:        reposet,
		Services:     serviceset,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "port", a.Cfg.Port)
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Clients.Cache != nil {
		if err := a.Clients.Cache.Close(); err != nil {
			a.Log.Warn("redis close failed", "error", err)
		}
	}
	if a.Clients.Mongo != nil {
		if err := a.Clients.Mongo.Close(ctx); err != nil {
			a.Log.Warn("mongo disconnect failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
