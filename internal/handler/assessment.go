package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/stonefield-io/brickscan/internal/domain"
	"github.com/stonefield-io/brickscan/internal/storage"
)

// maxUploadBytes bounds the whole multipart request body: every image at the
// per-image limit, plus form overhead.
const maxUploadBytes = domain.MaxImagesPerAssessment*domain.MaxImageSize + 1<<20

// AssessmentHandler serves the assessment API endpoints.
type AssessmentHandler struct {
	service AssessmentService
	logger  *slog.Logger
}

// AssessmentService is the orchestration surface the handler depends on.
type AssessmentService interface {
	Analyze(ctx context.Context, images []domain.ImageInput) (*domain.AssessmentRecord, error)
	Result(ctx context.Context, id uuid.UUID) (*domain.AssessmentRecord, error)
	HealthCheck(ctx context.Context) bool
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(service AssessmentService, logger *slog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		service: service,
		logger:  logger,
	}
}

// Create handles POST /api/assessments.
//
// Expects a multipart form with 1 to 10 files under the "images" field.
// Count and per-file validation happen here and in the service before any
// AI call is made.
func (h *AssessmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, h.logger, domain.Invalid("assessment.create",
			"Request must be multipart/form-data with building images under the \"images\" field"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["images"]
	if err := domain.ValidateImageCount(len(files)); err != nil {
		writeError(w, h.logger, err)
		return
	}

	images := make([]domain.ImageInput, 0, len(files))
	for _, fh := range files {
		file, err := fh.Open()
		if err != nil {
			writeError(w, h.logger, domain.Internal(err, "assessment.create", "Failed to read uploaded file"))
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, domain.MaxImageSize+1))
		file.Close()
		if err != nil {
			writeError(w, h.logger, domain.Internal(err, "assessment.create", "Failed to read uploaded file"))
			return
		}

		contentType := storage.DetectContentType(fh.Header.Get("Content-Type"), fh.Filename, nil)

		images = append(images, domain.ImageInput{
			Data:             data,
			ContentType:      contentType,
			OriginalFilename: fh.Filename,
			SizeBytes:        int64(len(data)),
		})
	}

	record, err := h.service.Analyze(r.Context(), images)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Get handles GET /api/assessments/{id}.
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, domain.Invalid("assessment.get",
			fmt.Sprintf("Invalid assessment ID %q", r.PathValue("id"))))
		return
	}

	record, err := h.service.Result(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}
