// Package bootstrap wires the process-wide runtime: database, Redis and the
// event publisher.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"glowup/internal/cache"
	"glowup/internal/config"
	"glowup/internal/database"
	"glowup/internal/middleware"
	"glowup/internal/notifications"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// ApplySchema runs the configured schema policy after connecting.
	ApplySchema bool
}

// Runtime holds the shared dependencies built at startup.
type Runtime struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Publisher notifications.Publisher
}

// InitRuntime connects to the database and Redis and builds the publisher.
// Redis is optional; a nil client disables caching.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.ApplySchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return nil, fmt.Errorf("schema setup failed: %w", err)
		}
	}

	rdb := cache.InitRedis(cfg.RedisURL)

	return &Runtime{
		DB:        db,
		Redis:     rdb,
		Publisher: NewPublisher(cfg, rdb),
	}, nil
}

// NewPublisher selects the event backend. An unavailable broker degrades to
// the no-op publisher so writes keep working.
func NewPublisher(cfg *config.Config, rdb *redis.Client) notifications.Publisher {
	switch cfg.EventsBackend {
	case config.EventsRedis:
		if rdb == nil {
			middleware.Logger.Warn("EVENTS_BACKEND=redis but Redis is unavailable; events disabled")
			return notifications.NopPublisher{}
		}
		return notifications.NewRedisPublisher(rdb)
	case config.EventsNATS:
		p, err := notifications.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			middleware.Logger.Warn("NATS unavailable; events disabled",
				slog.String("url", cfg.NATSURL),
				slog.String("error", err.Error()),
			)
			return notifications.NopPublisher{}
		}
		return p
	default:
		return notifications.NopPublisher{}
	}
}

// Close releases every runtime resource.
func (r *Runtime) Close() error {
	var errs []error
	if r.Publisher != nil {
		if err := r.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if r.DB != nil {
		if sqlDB, err := r.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close database: %w", err))
			}
		}
	}
	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
