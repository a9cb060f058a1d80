package cmd

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/chrisdamba/menuar/internal/cache"
	"github.com/chrisdamba/menuar/internal/catalog"
	"github.com/chrisdamba/menuar/internal/docstore"
	"github.com/chrisdamba/menuar/internal/docstore/mongodb"
	"github.com/chrisdamba/menuar/internal/docstore/postgres"
	"github.com/chrisdamba/menuar/internal/events"
	"github.com/chrisdamba/menuar/internal/objectstore"
	"github.com/chrisdamba/menuar/internal/repositories/documents"
)

func openStore(ctx context.Context) (docstore.Store, error) {
	switch cfg.Store.Driver {
	case "", "memory":
		log.Warn("using the in-memory document store; nothing is persisted")
		return docstore.NewMemory(), nil
	case "postgres":
		s, err := postgres.New(ctx, cfg.Store.PostgresURL)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			s.Close(ctx)
			return nil, err
		}
		return s, nil
	case "mongo", "mongodb":
		return mongodb.New(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func newResolver(ctx context.Context) (objectstore.Resolver, error) {
	switch cfg.Storage.Provider {
	case "s3":
		client, err := objectstore.NewS3Client(ctx, cfg.Storage.Region)
		if err != nil {
			return nil, err
		}
		return objectstore.NewS3Resolver(client, cfg.Storage.BucketName, cfg.Storage.URLExpiry), nil
	case "public", "":
		return objectstore.PublicResolver{BaseURL: cfg.Storage.PublicBaseURL}, nil
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Storage.Provider)
	}
}

// newCatalogCache returns nil when Redis is disabled.
func newCatalogCache(ctx context.Context) (*cache.CatalogCache, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	return cache.NewCatalogCache(client, cfg.Redis.TTL), func() { client.Close() }, nil
}

func newPublisher() (events.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return events.NopPublisher{}, nil
	}
	return events.NewSaramaProducer(cfg.Kafka, log)
}

// newEngine builds the catalog engine; the cache is optional. Options in extra
// are applied last and override the configured ones.
func newEngine(ctx context.Context, store docstore.Store, c *cache.CatalogCache, extra ...catalog.Option) (*catalog.Engine, error) {
	resolver, err := newResolver(ctx)
	if err != nil {
		return nil, err
	}
	opts := []catalog.Option{
		catalog.WithResolver(resolver),
		catalog.WithCategoryOrder(cfg.Catalog.CategoryOrder),
	}
	if c != nil {
		opts = append(opts, catalog.WithCache(c))
	}
	opts = append(opts, extra...)
	return catalog.NewEngine(
		documents.NewRestaurantRepository(store),
		documents.NewCategoryRepository(store),
		documents.NewMenuItemRepository(store, log),
		log,
		opts...,
	), nil
}

// tenantIDs returns args, or every restaurant slug when args is empty.
func tenantIDs(ctx context.Context, store docstore.Store, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	restaurants, err := documents.NewRestaurantRepository(store).GetAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(restaurants))
	for _, r := range restaurants {
		ids = append(ids, r.RestaurantID)
	}
	return ids, nil
}
