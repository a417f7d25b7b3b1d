package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/rueidis"
)

// RedisCache shares the last good quote through Redis so several wallet
// processes can reuse one fetch. Purely advisory, like the rate itself.
type RedisCache struct {
	client rueidis.Client
	config RedisCacheConfig
}

// RedisCacheConfig holds Redis cache configuration.
type RedisCacheConfig struct {
	// Addr is the Redis server address, e.g. "localhost:6379".
	Addr     string
	Username string
	Password string

	// Key under which the quote is stored.
	Key string

	// TTL for the stored quote. Defaults to the refresh interval.
	TTL time.Duration

	DialTimeout time.Duration
}

// DefaultRedisCacheConfig returns a default Redis cache configuration.
func DefaultRedisCacheConfig() RedisCacheConfig {
	return RedisCacheConfig{
		Addr:        "localhost:6379",
		Key:         "suipocket:rate:sui:ngn",
		TTL:         DefaultInterval,
		DialTimeout: 5 * time.Second,
	}
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
func NewRedisCache(config RedisCacheConfig) (*RedisCache, error) {
	if config.Addr == "" {
		return nil, fmt.Errorf("rate: no redis address configured")
	}
	if config.Key == "" {
		config.Key = DefaultRedisCacheConfig().Key
	}
	if config.TTL <= 0 {
		config.TTL = DefaultInterval
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = 5 * time.Second
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{config.Addr},
		Username:    config.Username,
		Password:    config.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("rate: failed to create redis client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DialTimeout)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("rate: failed to ping redis: %w", err)
	}

	return &RedisCache{client: client, config: config}, nil
}

// Load returns the cached quote.
func (r *RedisCache) Load(ctx context.Context) (float64, error) {
	cmd := r.client.B().Get().Key(r.config.Key).Build()
	resp := r.client.Do(ctx, cmd)

	if err := resp.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return 0, fmt.Errorf("rate: no cached quote")
		}
		return 0, fmt.Errorf("rate: redis get: %w", err)
	}

	raw, err := resp.ToString()
	if err != nil {
		return 0, fmt.Errorf("rate: redis get: %w", err)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("rate: malformed cached quote %q: %w", raw, err)
	}
	return value, nil
}

// Store writes the quote with the configured TTL.
func (r *RedisCache) Store(ctx context.Context, rate float64) error {
	value := strconv.FormatFloat(rate, 'f', -1, 64)
	cmd := r.client.B().Set().Key(r.config.Key).Value(value).Ex(r.config.TTL).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("rate: redis set: %w", err)
	}
	return nil
}

// Close releases the Redis client.
func (r *RedisCache) Close() error {
	r.client.Close()
	return nil
}
