package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores JSON-encoded values in redis
type Redis struct {
	client *redis.Client
}

// Options configures the redis connection
type Options struct {
	Address  string
	Password string
	DB       int
}

// Option mutates Options
type Option func(*Options)

func WithAddress(addr string) Option {
	return func(o *Options) {
		o.Address = addr
	}
}

func WithPassword(pass string) Option {
	return func(o *Options) {
		o.Password = pass
	}
}

func WithDB(db int) Option {
	return func(o *Options) {
		o.DB = db
	}
}

// NewRedis connects to redis and pings it
func NewRedis(ctx context.Context, opts ...Option) (*Redis, error) {
	options := &Options{
		Address: "localhost:6379",
	}
	for _, opt := range opts {
		opt(options)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     options.Address,
		Password: options.Password,
		DB:       options.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, err
	}
	return &Redis{client: client}, nil
}

// NewRedisWithClient wraps an existing client
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (c *Redis) Get(ctx context.Context, key string, dest any) error {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

func (c *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close closes the redis connection
func (c *Redis) Close() error {
	return c.client.Close()
}

var _ Cacher = (*Redis)(nil)
