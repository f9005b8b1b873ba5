package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable - хранилище кэша не отвечает
var ErrUnavailable = errors.New("cache unavailable")

// Store - key-value хранилище с TTL, значения сериализуются в JSON.
// GetJSON возвращает false без ошибки, если ключа нет или он истек.
type Store interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
