// Package cache provides a small JSON value cache with a redis backend, an
// in-process backend, and a singleflight read-through helper.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/abrezinsky/hackjudge/internal/logger"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache miss")

// Cacher defines the interface for cache operations.
type Cacher interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Noop never stores anything; every Get is a miss
type Noop struct{}

func (Noop) Get(context.Context, string, any) error                { return ErrMiss }
func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error               { return nil }

// FetchFunc loads a value on a cache miss
type FetchFunc[T any] func(ctx context.Context) (T, error)

// FindAndCache returns the cached value for key, or loads it with fn and
// stores it for ttl. Concurrent misses for the same key share one load.
// Cache failures are logged and treated as misses.
func FindAndCache[T any](
	ctx context.Context,
	c Cacher,
	sf *singleflight.Group,
	key string,
	ttl time.Duration,
	log logger.Logger,
	fn FetchFunc[T],
) (T, error) {
	var zero T

	var cached T
	err := c.Get(ctx, key, &cached)
	switch {
	case err == nil:
		log.Debug("cache hit", "key", key)
		return cached, nil
	case errors.Is(err, ErrMiss):
		log.Debug("cache miss", "key", key)
	default:
		log.Warn("cache get error (treating as miss)", "key", key, "error", err)
	}

	v, err, _ := sf.Do(key, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			return zero, err
		}
		if err := c.Set(ctx, key, value, ttl); err != nil {
			log.Warn("cache set failed", "key", key, "error", err)
		}
		return value, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("type mismatch for key %q", key)
	}
	return value, nil
}

var _ Cacher = Noop{}
