package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stonefield-io/brickscan/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord() *domain.AssessmentRecord {
	return &domain.AssessmentRecord{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Images: []domain.StoredImage{
			{
				ID:               uuid.New(),
				OriginalFilename: "front.jpg",
				ContentType:      "image/jpeg",
				SizeBytes:        2048,
				StorageKey:       "assessments/x/images/y.jpg",
			},
		},
		Assessment: &domain.RiskAssessment{
			OverallRiskLevel: domain.RiskLevelMedium,
			RiskScore:        5,
			ImagesAnalyzed:   1,
		},
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	store := NewMemoryStore(time.Minute, testLogger())
	defer store.Close()

	ctx := context.Background()
	record := testRecord()

	require.NoError(t, store.Put(ctx, record))

	got, err := store.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Assessment.OverallRiskLevel, got.Assessment.OverallRiskLevel)
}

func TestMemoryStoreMissing(t *testing.T) {
	store := NewMemoryStore(time.Minute, testLogger())
	defer store.Close()

	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(10*time.Millisecond, testLogger())
	defer store.Close()

	ctx := context.Background()
	record := testRecord()
	require.NoError(t, store.Put(ctx, record))

	time.Sleep(30 * time.Millisecond)

	_, err := store.Get(ctx, record.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCloseIdempotent(t *testing.T) {
	store := NewMemoryStore(time.Minute, testLogger())
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestRedisStorePutGet(t *testing.T) {
	mr := miniredis.RunT(t)

	ctx := context.Background()
	store, err := NewRedisStore(ctx, RedisConfig{Addr: mr.Addr()}, time.Minute, testLogger())
	require.NoError(t, err)
	defer store.Close()

	record := testRecord()
	require.NoError(t, store.Put(ctx, record))

	got, err := store.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.CreatedAt.Unix(), got.CreatedAt.Unix())
	require.Len(t, got.Images, 1)
	assert.Equal(t, "front.jpg", got.Images[0].OriginalFilename)
	require.NotNil(t, got.Assessment)
	assert.Equal(t, domain.Score(5), got.Assessment.RiskScore)
}

func TestRedisStoreMissing(t *testing.T) {
	mr := miniredis.RunT(t)

	ctx := context.Background()
	store, err := NewRedisStore(ctx, RedisConfig{Addr: mr.Addr()}, time.Minute, testLogger())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)

	ctx := context.Background()
	store, err := NewRedisStore(ctx, RedisConfig{Addr: mr.Addr()}, time.Minute, testLogger())
	require.NoError(t, err)
	defer store.Close()

	record := testRecord()
	require.NoError(t, store.Put(ctx, record))

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, record.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreConnectFailure(t *testing.T) {
	_, err := NewRedisStore(context.Background(), RedisConfig{Addr: "127.0.0.1:1"}, time.Minute, testLogger())
	assert.Error(t, err)
}
