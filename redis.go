package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// queueClient is the part of *redis.Client the worker uses.
type queueClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	Close() error
}

var newQueueClient = newRedisClient

func newRedisClient(opts *redis.Options) queueClient {
	return redis.NewClient(opts)
}

func parseRedisURL(raw string) (*redis.Options, error) {
	opts, err := redis.ParseURL(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return opts, nil
}

// popJob blocks for up to timeout waiting for a payload on queue. It returns
// an empty payload and no error when the wait times out.
func popJob(ctx context.Context, client queueClient, queue string, timeout time.Duration) (string, error) {
	res, err := client.BRPop(ctx, timeout, queue).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if len(res) != 2 {
		return "", fmt.Errorf("redis: unexpected BRPOP reply of %d elements", len(res))
	}
	return res[1], nil
}
