package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound ключа нет в кэше или его TTL истёк
var ErrNotFound = errors.New("key not found in cache")

// Cache интерфейс для работы с кэшем
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}
