package db

import (
	"context"
	"time"
)

// Store is the settings store facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces.
type Store interface {
	Pinger
	HashStore
	Counter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Counter hands out monotonically increasing ids.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
}
