// Package service contains the assessment orchestration logic: upload
// validation, image storage, AI analysis, and session caching of results.
package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stonefield-io/brickscan/internal/ai"
	"github.com/stonefield-io/brickscan/internal/domain"
	"github.com/stonefield-io/brickscan/internal/metrics"
	"github.com/stonefield-io/brickscan/internal/session"
	"github.com/stonefield-io/brickscan/internal/storage"
)

// AssessmentService orchestrates a building risk assessment: it validates
// the uploaded images, stores them with gallery thumbnails, runs the AI
// analysis, and caches the completed record for later retrieval.
type AssessmentService struct {
	provider   ai.Provider
	storage    storage.Storage
	store      session.Store
	thumbnails ThumbnailProcessor
	logger     *slog.Logger
}

// NewAssessmentService creates a new AssessmentService.
func NewAssessmentService(
	provider ai.Provider,
	store storage.Storage,
	sessions session.Store,
	thumbnails ThumbnailProcessor,
	logger *slog.Logger,
) *AssessmentService {
	return &AssessmentService{
		provider:   provider,
		storage:    store,
		store:      sessions,
		thumbnails: thumbnails,
		logger:     logger,
	}
}

// Analyze runs a complete assessment over the uploaded images.
//
// Validation happens entirely before the provider is called: the image count
// bound and per-image type and size checks all short-circuit with EINVALID or
// ETOOLARGE without spending an API call. Image storage is best-effort; a
// failed thumbnail or upload is logged and skipped, never fatal. A provider
// failure is returned as EUNAVAILABLE and nothing is cached.
func (s *AssessmentService) Analyze(ctx context.Context, images []domain.ImageInput) (*domain.AssessmentRecord, error) {
	const op = "assessment.analyze"

	if err := domain.ValidateImageCount(len(images)); err != nil {
		return nil, err
	}

	for _, img := range images {
		if !domain.IsValidImageContentType(img.ContentType) {
			metrics.ImagesUploaded.WithLabelValues("rejected").Inc()
			return nil, domain.Errorf(domain.EINVALID, op,
				"Unsupported image type %q for file %q. Supported types: JPEG, PNG, WebP",
				img.ContentType, img.OriginalFilename)
		}
		if err := domain.ValidateImageSize(img.SizeBytes); err != nil {
			metrics.ImagesUploaded.WithLabelValues("rejected").Inc()
			return nil, err
		}
	}

	assessmentID := uuid.New()
	logger := s.logger.With("assessment_id", assessmentID, "image_count", len(images))

	logger.Info("starting building risk assessment")

	stored := s.storeImages(ctx, assessmentID, images, logger)

	assessment, err := s.provider.AnalyzeBuilding(ctx, ai.AnalyzeParams{
		Images:       images,
		AssessmentID: assessmentID,
	})
	if err != nil {
		metrics.AssessmentsTotal.WithLabelValues("error").Inc()
		logger.Error("building analysis failed", "error", err)
		return nil, domain.Unavailable(err, op,
			"The AI analysis service is currently unavailable. Please try again later.")
	}

	record := &domain.AssessmentRecord{
		ID:         assessmentID,
		CreatedAt:  time.Now().UTC(),
		Images:     stored,
		Assessment: assessment,
	}

	if err := s.store.Put(ctx, record); err != nil {
		// The assessment itself succeeded; losing the cached copy only costs
		// the client the GET-by-ID view.
		logger.Warn("failed to cache assessment record", "error", err)
	}

	metrics.AssessmentsTotal.WithLabelValues("success").Inc()
	logger.Info("building risk assessment complete",
		"overall_risk_level", assessment.OverallRiskLevel,
		"risk_score", int(assessment.RiskScore),
		"fallback", assessment.IsFallback(),
	)

	return record, nil
}

// Result fetches a previously completed assessment by ID.
func (s *AssessmentService) Result(ctx context.Context, id uuid.UUID) (*domain.AssessmentRecord, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, domain.NotFound("assessment.result", "Assessment", id.String())
		}
		return nil, domain.Internal(err, "assessment.result", "Failed to load assessment")
	}
	return record, nil
}

// HealthCheck reports whether the AI provider is reachable.
func (s *AssessmentService) HealthCheck(ctx context.Context) bool {
	return s.provider.HealthCheck(ctx)
}

// storeImages persists originals and thumbnails for the session gallery.
// Failures are logged per image and do not abort the assessment.
func (s *AssessmentService) storeImages(ctx context.Context, assessmentID uuid.UUID, images []domain.ImageInput, logger *slog.Logger) []domain.StoredImage {
	stored := make([]domain.StoredImage, 0, len(images))

	for _, img := range images {
		key := storage.AssessmentImageKey(assessmentID, img.OriginalFilename)

		err := s.storage.Put(ctx, key, bytes.NewReader(img.Data), storage.PutOptions{
			ContentType: img.ContentType,
			MaxSize:     domain.MaxImageSize,
		})
		if err != nil {
			metrics.ImagesUploaded.WithLabelValues("error").Inc()
			logger.Warn("failed to store uploaded image",
				"filename", img.OriginalFilename,
				"error", err,
			)
			continue
		}
		metrics.ImagesUploaded.WithLabelValues("success").Inc()

		si := domain.StoredImage{
			ID:               uuid.New(),
			OriginalFilename: img.OriginalFilename,
			ContentType:      img.ContentType,
			SizeBytes:        img.SizeBytes,
			StorageKey:       key,
		}

		if url, err := s.storage.URL(ctx, key, 0); err == nil {
			si.URL = url
		}

		if thumbKey, thumbURL, err := s.storeThumbnail(ctx, assessmentID, img.Data); err != nil {
			logger.Warn("failed to generate thumbnail",
				"filename", img.OriginalFilename,
				"error", err,
			)
		} else {
			si.ThumbnailKey = thumbKey
			si.ThumbnailURL = thumbURL
		}

		stored = append(stored, si)
	}

	return stored
}

func (s *AssessmentService) storeThumbnail(ctx context.Context, assessmentID uuid.UUID, data []byte) (string, string, error) {
	thumb, err := s.thumbnails.Thumbnail(data)
	if err != nil {
		return "", "", err
	}

	key := storage.AssessmentThumbnailKey(assessmentID)
	err = s.storage.Put(ctx, key, bytes.NewReader(thumb), storage.PutOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return "", "", err
	}

	url, err := s.storage.URL(ctx, key, 0)
	if err != nil {
		return key, "", nil
	}

	return key, url, nil
}
