// cmd/historian/main.go is an asynchronous historian service that pops
// completed round records from the Redis queue and persists them to
// PostgreSQL. The live game server never blocks on this path.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/quickfire-games/mathrush/internal/database"
	"github.com/quickfire-games/mathrush/internal/lobby"
)

// HistorianService encapsulates the Redis + DB logic for persisting
// completed rounds.
type HistorianService struct {
	redisClient *redis.Client
	queueName   string
	batchSize   int
	flushDelay  time.Duration

	batchMu  sync.Mutex
	batch    []lobby.RoundRecord
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewHistorianService constructs a HistorianService from environment
// variables or defaults.
func NewHistorianService() *HistorianService {
	batchSize := getEnvInt("HISTORIAN_BATCH_SIZE", 20)
	flushMs := getEnvInt("HISTORIAN_FLUSH_MS", 500)

	rdb := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		DB:   getEnvInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &HistorianService{
		redisClient: rdb,
		queueName:   getEnv("ROUNDS_QUEUE_NAME", "mathrush_rounds"),
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		batch:       make([]lobby.RoundRecord, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run connects the database and starts the queue-draining loop.
func (hs *HistorianService) Run() {
	database.ConnectDB()

	go hs.readRedisLoop()

	log.Println("mathrush-historian service started.")
	<-hs.ctx.Done()
	hs.flushBatchToDB()
	log.Println("mathrush-historian shutting down.")
}

// readRedisLoop continuously uses BLPop to retrieve round records from
// the queue, batching inserts.
func (hs *HistorianService) readRedisLoop() {
	ticker := time.NewTicker(hs.flushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-hs.ctx.Done():
			return

		case <-ticker.C:
			hs.flushBatchToDB()

		default:
			// BLPop with a short timeout so context cancellation is handled.
			res, err := hs.redisClient.BLPop(hs.ctx, 3*time.Second, hs.queueName).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && hs.ctx.Err() == nil {
					log.Printf("[ERROR] BLPop: %v\n", err)
				}
				continue
			}
			if len(res) < 2 {
				continue
			}

			// res[0] is the queue name and res[1] the payload.
			var rec lobby.RoundRecord
			if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
				log.Printf("invalid round record: %v\n", err)
				continue
			}
			hs.appendToBatch(rec)
		}
	}
}

// appendToBatch adds a record and flushes once the threshold is reached.
func (hs *HistorianService) appendToBatch(rec lobby.RoundRecord) {
	hs.batchMu.Lock()
	defer hs.batchMu.Unlock()

	hs.batch = append(hs.batch, rec)
	if len(hs.batch) >= hs.batchSize {
		hs.flushLocked()
	}
}

// flushBatchToDB flushes the current batch in a single transaction.
func (hs *HistorianService) flushBatchToDB() {
	hs.batchMu.Lock()
	defer hs.batchMu.Unlock()
	hs.flushLocked()
}

func (hs *HistorianService) flushLocked() {
	if len(hs.batch) == 0 {
		return
	}
	batchCopy := make([]lobby.RoundRecord, len(hs.batch))
	copy(batchCopy, hs.batch)
	hs.batch = hs.batch[:0]

	ctx := context.Background()
	err := beginTxFunc(ctx, func(tx pgx.Tx) error {
		for _, rec := range batchCopy {
			if err := insertRoundTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertRoundTx: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] flushBatchToDB: %v\n", err)
	} else {
		log.Printf("Flushed %d rounds to DB.\n", len(batchCopy))
	}
}

// insertRoundTx inserts one round and its per-player standings.
func insertRoundTx(ctx context.Context, tx pgx.Tx, rec lobby.RoundRecord) error {
	settingsJSON, err := json.Marshal(rec.Settings)
	if err != nil {
		return err
	}

	var roundID int64
	insertRoundQ := `
		INSERT INTO rounds (lobby_code, settings, finished_at)
		VALUES ($1, $2, to_timestamp($3))
		RETURNING id
	`
	if err := tx.QueryRow(ctx, insertRoundQ, rec.LobbyCode, settingsJSON, rec.FinishedAt).Scan(&roundID); err != nil {
		return err
	}

	insertScoreQ := `
		INSERT INTO round_scores (round_id, rank, player_id, player_name, score)
		VALUES ($1, $2, $3, $4, $5)
	`
	for rank, s := range rec.Standings {
		if _, err := tx.Exec(ctx, insertScoreQ, roundID, rank+1, s.PlayerID, s.Name, s.Score); err != nil {
			return err
		}
	}
	return nil
}

// beginTxFunc starts a transaction on the shared pool, calls f, and
// commits or rolls back as needed.
func beginTxFunc(ctx context.Context, f func(tx pgx.Tx) error) error {
	tx, err := database.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	if err := f(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx rollback error: %v; original error: %w", rbErr, err)
		}
		return err
	}
	return tx.Commit(ctx)
}

// Stop gracefully stops the historian service.
func (hs *HistorianService) Stop() {
	hs.cancelFn()
}

func main() {
	hs := NewHistorianService()
	go hs.Run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	hs.Stop()
	log.Println("Historian shutdown complete.")
}

// getEnv retrieves an environment variable's value or returns a default.
func getEnv(key, defVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defVal
}

// getEnvInt retrieves an integer value from an environment variable or returns a default value.
func getEnvInt(key string, defVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defVal
	}
	return i
}
