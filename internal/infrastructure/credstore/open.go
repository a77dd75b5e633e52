// Package credstore selects and opens the backend that persists the
// credential pair.
package credstore

import (
	"context"
	"fmt"

	"github.com/campusprint/stationery-admin/internal/core/ports"
	"github.com/campusprint/stationery-admin/internal/infrastructure/db/mongo"
	"github.com/campusprint/stationery-admin/internal/infrastructure/db/redis"
	"github.com/campusprint/stationery-admin/internal/pkg/config"
)

// Store is a credential backend that can also report its health and release
// its connections.
type Store interface {
	ports.CredentialStore
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*File)(nil)
	_ Store = (*redis.CredentialStore)(nil)
	_ Store = (*mongo.CredentialStore)(nil)
)

// Open connects the backend named by cfg.Credentials.Backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Credentials.Backend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendFile:
		return NewFile(cfg.Credentials.File, cfg.Credentials.Profile), nil
	case config.BackendRedis:
		return redis.Open(ctx, redis.Config{
			Addr:    cfg.Redis.Addr,
			DB:      cfg.Redis.DB,
			Profile: cfg.Credentials.Profile,
		})
	case config.BackendMongo:
		return mongo.Open(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Profile:  cfg.Credentials.Profile,
		})
	default:
		return nil, fmt.Errorf("unknown credential backend %q", cfg.Credentials.Backend)
	}
}
