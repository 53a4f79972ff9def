package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/foxxcyber/kargolojik/internal/cache"
	"github.com/foxxcyber/kargolojik/internal/config"
	"github.com/foxxcyber/kargolojik/internal/database"
	"github.com/foxxcyber/kargolojik/internal/memstore"
	"github.com/foxxcyber/kargolojik/internal/mongostore"
)

// OpenStore connects the branch store selected by STORE_DRIVER.
// PostgreSQL stores are migrated before they are returned.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (database.BranchStore, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		store, err := mongostore.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverMemory:
		return memstore.New(), nil
	default:
		db, err := database.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	}
}

// OpenCache returns the Redis cache, or no caching when Redis is not
// configured or cannot be reached
func OpenCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) cache.Cache {
	if !cfg.CacheEnabled() {
		return cache.Noop{}
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		return cache.Noop{}
	}
	logger.Info("redis cache enabled", zap.String("addr", cfg.RedisAddr))
	return cache.NewRedisCache(client, "kargolojik", logger)
}

// OpenStorage returns the sheet storage when S3 is enabled and its bucket is usable
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) *StorageService {
	if !cfg.S3Enabled {
		return nil
	}
	storage, err := NewStorageService(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
	if err != nil {
		logger.Warn("sheet storage unavailable", zap.Error(err))
		return nil
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		logger.Warn("sheet bucket unavailable", zap.String("bucket", cfg.S3Bucket), zap.Error(err))
		return nil
	}
	logger.Info("sheet storage enabled", zap.String("bucket", storage.GetBucketName()))
	return storage
}
