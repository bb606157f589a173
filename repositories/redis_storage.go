package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"go-marketplace/config"
)

type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(ctx context.Context, cfg *config.Config) (*RedisStorage, error) {
	var opt *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
	}

	storage := &RedisStorage{client: redis.NewClient(opt)}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := storage.Ping(pingCtx); err != nil {
		storage.client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	slog.Info("redis storage connected", slog.String("addr", opt.Addr))
	return storage, nil
}

func (r *RedisStorage) GetItem(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis GET %q: %w", key, err)
	}
	return value, nil
}

func (r *RedisStorage) SetItem(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %q: %w", key, err)
	}
	return nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
