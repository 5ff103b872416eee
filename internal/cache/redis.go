// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickfire-games/mathrush/internal/lobby"
)

// DefaultQueueName is the Redis list completed rounds are pushed onto,
// drained by the historian binary.
const DefaultQueueName = "mathrush_rounds"

// Connect initializes a Redis client from environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func Connect() (*redis.Client, error) {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// RoundPublisher pushes completed round records onto the history queue.
// It implements lobby.RoundRecorder.
type RoundPublisher struct {
	rdb   *redis.Client
	queue string
}

// NewRoundPublisher wraps a connected client. The queue name comes from
// ROUNDS_QUEUE_NAME or the default.
func NewRoundPublisher(rdb *redis.Client) *RoundPublisher {
	return &RoundPublisher{
		rdb:   rdb,
		queue: getEnv("ROUNDS_QUEUE_NAME", DefaultQueueName),
	}
}

// RecordRound serializes the record to JSON and RPushes it onto the
// queue. A quick network send; the coordinator calls it off the action
// path.
func (p *RoundPublisher) RecordRound(ctx context.Context, rec lobby.RoundRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal RoundRecord: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list %q: %w", p.queue, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
