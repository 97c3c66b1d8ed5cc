package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/medguard-server/internal/domain"
)

const profileKeyPrefix = "medguard:profile:"

// RedisCache is a shared profile cache. All Redis calls go through a
// circuit breaker: when Redis is down the breaker opens and every
// lookup becomes an immediate miss instead of a blocked request, so
// assessment latency never depends on a broken cache.
type RedisCache struct {
	redis      *redis.Client
	breaker    *gobreaker.CircuitBreaker
	defaultTTL time.Duration
	log        *logrus.Logger
}

// NewRedisCache creates a Redis-backed profile cache from configuration.
func NewRedisCache(config domain.CacheConfig, logger *logrus.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "profile-cache",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Profile cache circuit breaker state changed")
		},
	})

	return &RedisCache{
		redis:      client,
		breaker:    breaker,
		defaultTTL: config.DefaultTTL,
		log:        logger,
	}, nil
}

// Get returns the cached profile for a drug, if present. Any Redis
// failure, including an open breaker, is reported as a miss.
func (c *RedisCache) Get(ctx context.Context, drugID string) (*domain.DrugProfile, bool) {
	val, err := c.breaker.Execute(func() (interface{}, error) {
		res, err := c.redis.Get(ctx, profileKeyPrefix+drugID).Result()
		if err == redis.Nil {
			return nil, nil
		}
		return res, err
	})
	if err != nil {
		c.log.WithError(err).Debug("Profile cache read failed")
		return nil, false
	}
	raw, ok := val.(string)
	if !ok {
		return nil, false
	}

	var profile domain.DrugProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		// corrupted entry; drop it and treat as a miss
		c.redis.Del(ctx, profileKeyPrefix+drugID)
		return nil, false
	}
	return &profile, true
}

// Set stores a profile with the configured TTL. Failures are logged and
// swallowed: the next read just misses.
func (c *RedisCache) Set(ctx context.Context, drugID string, profile *domain.DrugProfile) {
	data, err := json.Marshal(profile)
	if err != nil {
		c.log.WithError(err).Warn("Failed to marshal profile for cache")
		return
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.redis.Set(ctx, profileKeyPrefix+drugID, data, c.defaultTTL).Err()
	})
	if err != nil {
		c.log.WithError(err).Debug("Profile cache write failed")
	}
}

// Close closes the underlying Redis client.
func (c *RedisCache) Close() error {
	return c.redis.Close()
}
