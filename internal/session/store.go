// Package session provides ephemeral storage for completed assessment
// results. Records live only long enough for the client that uploaded the
// photos to fetch the result; there is no durable system of record.
//
// Two implementations are provided:
// - MemoryStore: in-process TTL map for development and single-node deploys
// - RedisStore: shared cache for multi-node deploys
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/stonefield-io/brickscan/internal/domain"
)

// ErrNotFound is returned when no record exists for the requested ID,
// either because it was never stored or because its TTL expired.
var ErrNotFound = errors.New("assessment record not found")

// Store defines the interface for ephemeral assessment result storage.
type Store interface {
	// Put stores a record under its assessment ID for the store's TTL.
	Put(ctx context.Context, record *domain.AssessmentRecord) error

	// Get retrieves a record by assessment ID.
	// Returns ErrNotFound if the record doesn't exist or has expired.
	Get(ctx context.Context, id uuid.UUID) (*domain.AssessmentRecord, error)

	// Close releases any resources held by the store.
	Close() error
}

// =============================================================================
// Store Constants
// =============================================================================

const (
	// ProviderMemory identifies the in-process store.
	ProviderMemory = "memory"

	// ProviderRedis identifies the Redis-backed store.
	ProviderRedis = "redis"

	// DefaultTTL is how long results remain retrievable after an assessment
	// completes.
	DefaultTTL = time.Hour
)
