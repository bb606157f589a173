package repositories

import (
	"context"
	"errors"
	"fmt"

	"go-marketplace/config"
)

var (
	ErrNotFound      = errors.New("storage: key not found")
	ErrStorageClosed = errors.New("storage: closed")
)

// Storage is an asynchronous string key-value store. GetItem returns
// ErrNotFound when nothing is stored under the key; SetItem overwrites.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
	Close() error
}

func NewStorage(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "memory":
		return NewMemoryStorage(), nil
	case "file":
		return NewFileStorage(cfg.StorageDir)
	case "redis":
		return NewRedisStorage(ctx, cfg)
	case "postgres":
		return NewPostgresStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
