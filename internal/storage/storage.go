// Package storage provides file storage abstraction for uploaded building
// images and their gallery thumbnails.
//
// Two implementations are provided:
// - LocalStorage: filesystem storage for development
// - S3Storage: any S3-compatible object store (AWS S3, Cloudflare R2, MinIO)
//
// Stored objects are session-scoped artifacts of an assessment; nothing here
// is a durable system of record.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Storage defines the interface for file storage operations.
// All methods are context-aware for timeout and cancellation support.
type Storage interface {
	// Put stores data at the specified key with the given options.
	// Returns an error if the operation fails or if the key already exists
	// (unless overwrite is enabled in opts).
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error

	// Get retrieves the data at the specified key.
	// Returns the data as an io.ReadCloser (caller must close), object
	// metadata, and an error. Returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Delete removes the object at the specified key.
	// This operation is idempotent - no error if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// URL returns a URL for accessing the object at the specified key.
	// For public objects, this is a permanent URL; for private objects, a
	// presigned URL valid for the specified duration.
	URL(ctx context.Context, key string, expires time.Duration) (string, error)

	// Exists checks if an object exists at the specified key.
	Exists(ctx context.Context, key string) (bool, error)
}

// =============================================================================
// Data Types
// =============================================================================

// PutOptions configures how an object is stored.
type PutOptions struct {
	// ContentType specifies the MIME type of the object.
	// If empty, it will be auto-detected from the file extension or content.
	ContentType string

	// MaxSize specifies the maximum allowed size in bytes.
	// If the data exceeds this size, ErrTooLarge is returned.
	// A value of 0 means no limit.
	MaxSize int64

	// Overwrite allows replacing an existing object at the same key.
	// If false and the key exists, ErrKeyExists is returned.
	Overwrite bool
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string    // Object key/path
	Size         int64     // Size in bytes
	ContentType  string    // MIME type
	LastModified time.Time // Last modification time
	ETag         string    // Entity tag (if available)
}

// =============================================================================
// Configuration Types
// =============================================================================

// LocalConfig holds configuration for local filesystem storage.
type LocalConfig struct {
	// BasePath is the root directory where files are stored.
	BasePath string

	// BaseURL is the public URL prefix for accessing files.
	// Example: "http://localhost:8080/files"
	BaseURL string
}

// S3Config holds configuration for S3-compatible object storage.
type S3Config struct {
	// Endpoint is the object store endpoint URL.
	Endpoint string

	// Region to use for request signing. S3-compatible stores that ignore
	// regions accept "auto".
	Region string

	AccessKeyID     string
	SecretAccessKey string
	BucketName      string

	// PublicURL is the public URL for the bucket (if using a custom domain).
	// If empty, presigned URLs are used for all access.
	PublicURL string
}

// =============================================================================
// Provider Constants
// =============================================================================

const (
	// ProviderLocal identifies the local filesystem storage provider.
	ProviderLocal = "local"

	// ProviderS3 identifies the S3-compatible storage provider.
	ProviderS3 = "s3"
)

// =============================================================================
// Key Generation Helpers
// =============================================================================

// AssessmentImageKey generates a storage key for an uploaded building image.
// Format: assessments/{assessmentID}/images/{uuid}.{ext}
func AssessmentImageKey(assessmentID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	imageID := uuid.New()
	return fmt.Sprintf("assessments/%s/images/%s%s", assessmentID, imageID, ext)
}

// AssessmentThumbnailKey generates a storage key for a gallery thumbnail.
// Format: assessments/{assessmentID}/thumbnails/{uuid}.jpg
//
// Thumbnails are always JPEG regardless of the source format.
func AssessmentThumbnailKey(assessmentID uuid.UUID) string {
	thumbnailID := uuid.New()
	return fmt.Sprintf("assessments/%s/thumbnails/%s.jpg", assessmentID, thumbnailID)
}
