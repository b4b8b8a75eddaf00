package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(LocalConfig{
		BasePath: t.TempDir(),
		BaseURL:  "http://localhost:8080/files",
	}, testLogger())
	require.NoError(t, err)
	return store
}

func TestLocalStoragePutGet(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	content := []byte("fake jpeg content")
	err := store.Put(ctx, "assessments/a/images/b.jpg", bytes.NewReader(content), PutOptions{
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)

	reader, info, err := store.Get(ctx, "assessments/a/images/b.jpg")
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, "image/jpeg", info.ContentType)
}

func TestLocalStorageGetMissing(t *testing.T) {
	store := newTestLocalStorage(t)

	_, _, err := store.Get(context.Background(), "nope.jpg")
	assert.True(t, IsNotFound(err))
}

func TestLocalStoragePutNoOverwrite(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "x.jpg", strings.NewReader("one"), PutOptions{}))

	err := store.Put(ctx, "x.jpg", strings.NewReader("two"), PutOptions{})
	assert.True(t, IsKeyExists(err))

	// Overwrite allowed when requested
	require.NoError(t, store.Put(ctx, "x.jpg", strings.NewReader("two"), PutOptions{Overwrite: true}))

	reader, _, err := store.Get(ctx, "x.jpg")
	require.NoError(t, err)
	defer reader.Close()
	got, _ := io.ReadAll(reader)
	assert.Equal(t, "two", string(got))
}

func TestLocalStoragePutMaxSize(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	err := store.Put(ctx, "big.jpg", strings.NewReader("0123456789"), PutOptions{MaxSize: 5})
	assert.True(t, IsTooLarge(err))

	// Oversized upload leaves nothing behind
	exists, err := store.Exists(ctx, "big.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorageDelete(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "x.jpg", strings.NewReader("data"), PutOptions{}))
	require.NoError(t, store.Delete(ctx, "x.jpg"))

	exists, err := store.Exists(ctx, "x.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting a missing key is not an error
	require.NoError(t, store.Delete(ctx, "x.jpg"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	for _, key := range []string{"", "../escape", "a/../../escape", "..\\escape"} {
		err := store.Put(ctx, key, strings.NewReader("x"), PutOptions{})
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestLocalStorageURL(t *testing.T) {
	store := newTestLocalStorage(t)

	url, err := store.URL(context.Background(), "assessments/a/images/b.jpg", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/assessments/a/images/b.jpg", url)
}

func TestAssessmentKeys(t *testing.T) {
	id := uuid.New()

	key := AssessmentImageKey(id, "photo.PNG")
	assert.True(t, strings.HasPrefix(key, "assessments/"+id.String()+"/images/"))
	assert.True(t, strings.HasSuffix(key, ".PNG"))

	thumb := AssessmentThumbnailKey(id)
	assert.True(t, strings.HasPrefix(thumb, "assessments/"+id.String()+"/thumbnails/"))
	assert.True(t, strings.HasSuffix(thumb, ".jpg"))
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", DetectContentType("image/jpeg", "x.bin", nil))
	assert.Equal(t, "image/png", DetectContentType("", "x.png", nil))
	assert.Equal(t, "application/octet-stream", DetectContentType("", "x.unknownext", nil))
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("image/jpeg"))
	assert.True(t, IsImage("IMAGE/PNG; charset=binary"))
	assert.False(t, IsImage("application/json"))
}
