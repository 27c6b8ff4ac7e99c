// Package store provides the durable key-value backends for rate-limit state.
// All backends are best-effort from the limiter's perspective: callers treat
// every method as fallible and never block admission on it.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/translay/translay/internal/config"
)

const (
	driverMemory = "memory"
	driverRedis  = "redis"
	driverLibsql = "libsql"
)

// StateStore is the durable get/put-with-TTL capability.
type StateStore interface {
	// Get returns the stored value for key, or nil when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key with the given TTL.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Ping reports backend reachability.
	Ping(ctx context.Context) error

	Close() error
}

// Open initializes a store backend from configuration.
func Open(ctx context.Context, cfg config.StoreConfig) (StateStore, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	driver := strings.TrimSpace(cfg.Driver)
	if driver == "" {
		driver = driverMemory
	}

	switch driver {
	case driverMemory:
		return NewMemoryStore(), nil
	case driverRedis:
		return openRedis(ctx, cfg)
	case driverLibsql:
		return openLibsql(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
}
