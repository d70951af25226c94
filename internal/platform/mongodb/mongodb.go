package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
)

// Service owns the mongo client and hands out collections by name.
type Service struct {
	log    *logger.Logger
	client *mongo.Client
	dbName string
}

func New(log *logger.Logger, uri, dbName string) (*Service, error) {
	if uri == "" {
		return nil, fmt.Errorf("missing mongo uri")
	}
	if dbName == "" {
		return nil, fmt.Errorf("missing mongo database name")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	svcLog := log.With("platform", "MongoDB")
	svcLog.Info("Connected to mongo", "database", dbName)
	return &Service{log: svcLog, client: client, dbName: dbName}, nil
}

func (s *Service) Collection(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}

func (s *Service) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
