package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stonefield-io/brickscan/internal/domain"
)

// =============================================================================
// MemoryStore Implementation
// =============================================================================

// MemoryStore is an in-process Store backed by a TTL map. A background
// janitor sweeps expired entries so abandoned results don't accumulate.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]memoryEntry
	ttl     time.Duration
	logger  *slog.Logger

	done     chan struct{}
	closeOne sync.Once
}

type memoryEntry struct {
	record    *domain.AssessmentRecord
	expiresAt time.Time
}

// NewMemoryStore creates a MemoryStore with the given TTL and starts its
// cleanup goroutine. Call Close to stop it.
func NewMemoryStore(ttl time.Duration, logger *slog.Logger) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := &MemoryStore{
		records: make(map[uuid.UUID]memoryEntry),
		ttl:     ttl,
		logger:  logger,
		done:    make(chan struct{}),
	}

	go s.janitor()

	return s
}

// Put stores a record under its assessment ID.
func (s *MemoryStore) Put(ctx context.Context, record *domain.AssessmentRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = memoryEntry{
		record:    record,
		expiresAt: time.Now().Add(s.ttl),
	}

	return nil
}

// Get retrieves a record by assessment ID.
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*domain.AssessmentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	entry, ok := s.records[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}

	return entry.record, nil
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.closeOne.Do(func() {
		close(s.done)
	})
	return nil
}

// janitor periodically removes expired entries.
func (s *MemoryStore) janitor() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	now := time.Now()

	s.mu.Lock()
	removed := 0
	for id, entry := range s.records {
		if now.After(entry.expiresAt) {
			delete(s.records, id)
			removed++
		}
	}
	remaining := len(s.records)
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Debug("swept expired assessment records",
			"removed", removed,
			"remaining", remaining,
		)
	}
}
