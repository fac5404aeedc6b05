package ratelimit

import (
	"context"
	"fmt"
	"time"

	apierrors "codeberg.org/devconnector/server/internal/errors"
	"codeberg.org/devconnector/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const keyPrefix = "devconnector_limiter"

// per-IP throttle for credential endpoints
type Limiter struct {
	instance *limiter.Limiter
	client   *redis.Client
}

// creates a limiter from a formatted rate ("10-M"); an empty redisURL keeps counters in memory
func New(rate string, redisURL string) (*Limiter, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", rate, err)
	}

	if redisURL == "" {
		store := memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          keyPrefix,
			CleanUpInterval: time.Minute,
		})

		return &Limiter{instance: limiter.New(store, parsed)}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewWithRedis(parsed, client)
}

// creates a limiter backed by an existing redis client
func NewWithRedis(rate limiter.Rate, client *redis.Client) (*Limiter, error) {
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   keyPrefix,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}

	logger.Info("rate limiter using redis store")

	return &Limiter{instance: limiter.New(store, rate), client: client}, nil
}

// returns gin middleware that answers 429 once the client IP exceeds the rate
func (l *Limiter) Middleware() gin.HandlerFunc {
	return mgin.NewMiddleware(l.instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			logger.FromContext(c.Request.Context()).Warn("rate limit exceeded",
				"ip", c.ClientIP(),
				"path", c.Request.URL.Path,
			)

			apierrors.TooManyRequests(c, "too many attempts, please try again later")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// a broken limiter store must not lock users out
			logger.ErrorErr(err, "rate limiter store failed", "path", c.Request.URL.Path)
			c.Next()
		}),
	)
}

// releases the redis connection if one was opened
func (l *Limiter) Close() error {
	if l.client == nil {
		return nil
	}

	return l.client.Close()
}

// checks the redis store; the memory store is always reachable
func (l *Limiter) Ping(ctx context.Context) error {
	if l.client == nil {
		return nil
	}

	return l.client.Ping(ctx).Err()
}
