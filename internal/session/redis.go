package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/stonefield-io/brickscan/internal/domain"
)

// =============================================================================
// RedisStore Implementation
// =============================================================================

// keyPrefix namespaces assessment records within a shared Redis instance.
const keyPrefix = "brickscan:assessment:"

// RedisConfig holds connection settings for the Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore is a Store backed by Redis. Records are JSON-encoded and
// expire via Redis key TTLs, so no sweeping is needed.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig, ttl time.Duration, logger *slog.Logger) (*RedisStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("initialized redis session store",
		"addr", cfg.Addr,
		"db", cfg.DB,
		"ttl", ttl,
	)

	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Put stores a record under its assessment ID with the store's TTL.
func (s *RedisStore) Put(ctx context.Context, record *domain.AssessmentRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode assessment record: %w", err)
	}

	if err := s.client.Set(ctx, recordKey(record.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store assessment record: %w", err)
	}

	return nil
}

// Get retrieves a record by assessment ID.
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*domain.AssessmentRecord, error) {
	data, err := s.client.Get(ctx, recordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch assessment record: %w", err)
	}

	var record domain.AssessmentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode assessment record: %w", err)
	}

	return &record, nil
}

// Close closes the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func recordKey(id uuid.UUID) string {
	return keyPrefix + id.String()
}
