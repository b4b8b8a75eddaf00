// Package domain contains core business types and interfaces.
//
// This file defines the building risk assessment types: the contracted JSON
// shape returned by the vision model, the uploaded image inputs, and the
// validation rules applied at the upload boundary.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Risk Levels
// =============================================================================

// RiskLevel is the model-reported risk rating for the building overall or for
// a single category. Values outside the known set are passed through to the
// presentation layer unchanged, which renders them as a neutral indicator.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"

	// RiskLevelUnknown is used for display when the model omitted a level.
	RiskLevelUnknown RiskLevel = "UNKNOWN"
)

// String returns the string representation of the level.
func (l RiskLevel) String() string {
	return string(l)
}

// IsValid returns true if the level is one of the contracted values.
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	}
	return false
}

// =============================================================================
// Assessment Categories
// =============================================================================

// Keys of the detailed_assessment mapping. The prompt taxonomy describes six
// risk areas but the output schema contracts exactly these five; occupancy
// has no assessment slot.
const (
	CategoryFireSafety    = "fire_safety"
	CategoryStructural    = "structural"
	CategorySecurity      = "security"
	CategoryWaterDamage   = "water_damage"
	CategoryEnvironmental = "environmental"
)

// AssessmentCategories returns the contracted category keys in display order.
func AssessmentCategories() []string {
	return []string{
		CategoryFireSafety,
		CategoryStructural,
		CategorySecurity,
		CategoryWaterDamage,
		CategoryEnvironmental,
	}
}

// =============================================================================
// Risk Assessment Shape
// =============================================================================

// Score is the 1-10 risk score. Hosted models occasionally emit it as a
// float; decoding truncates instead of failing the whole assessment. The
// nominal range is not enforced — callers must tolerate out-of-range values.
type Score int

func (s *Score) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*s = Score(int(f))
	return nil
}

// CategoryAssessment is the per-category breakdown inside detailed_assessment.
type CategoryAssessment struct {
	RiskLevel    RiskLevel `json:"risk_level"`
	Observations []string  `json:"observations"`
	Concerns     []string  `json:"concerns"`
}

// RiskAssessment is the contracted output schema of a building analysis.
//
// The decoded value is passed through to the presentation layer without
// semantic validation: unrecognized risk levels, out-of-range scores, and
// missing fields all survive decoding and are handled defensively at render
// time. RawResponse is populated only when the model's text could not be
// decoded and the fallback shape was synthesized instead.
type RiskAssessment struct {
	OverallRiskLevel            RiskLevel                     `json:"overall_risk_level"`
	RiskScore                   Score                         `json:"risk_score"`
	ImagesAnalyzed              int                           `json:"images_analyzed"`
	KeyFindings                 []string                      `json:"key_findings"`
	DetailedAssessment          map[string]CategoryAssessment `json:"detailed_assessment"`
	Recommendations             []string                      `json:"recommendations"`
	AdditionalInformationNeeded []string                      `json:"additional_information_needed"`
	ImageAnalysisSummary        string                        `json:"image_analysis_summary"`
	RawResponse                 string                        `json:"raw_response,omitempty"`
}

// IsFallback returns true if this assessment was synthesized because the
// model's output could not be parsed.
func (a *RiskAssessment) IsFallback() bool {
	return a.RawResponse != ""
}

// =============================================================================
// Image Inputs
// =============================================================================

// ImageInput is one uploaded building photograph, held only for the duration
// of a single analysis call.
type ImageInput struct {
	Data             []byte // Raw encoded image bytes
	ContentType      string // MIME type (e.g., "image/jpeg")
	OriginalFilename string // Filename from the upload form
	SizeBytes        int64  // File size in bytes
}

// SupportedImageTypes maps accepted MIME types to their human-readable names.
var SupportedImageTypes = map[string]string{
	"image/jpeg": "JPEG",
	"image/png":  "PNG",
	"image/webp": "WebP",
}

const (
	// MinImagesPerAssessment is the minimum number of images per analysis.
	MinImagesPerAssessment = 1

	// MaxImagesPerAssessment is the maximum number of images per analysis.
	MaxImagesPerAssessment = 10

	// MaxImageSize is the maximum allowed size for uploaded images (20MB).
	MaxImageSize = 20 * 1024 * 1024

	// ThumbnailMaxWidth is the maximum width for generated thumbnails.
	ThumbnailMaxWidth = 320

	// ThumbnailMaxHeight is the maximum height for generated thumbnails.
	ThumbnailMaxHeight = 320

	// ThumbnailJPEGQuality is the JPEG quality for thumbnail generation (0-100).
	ThumbnailJPEGQuality = 85
)

// =============================================================================
// Validation Helpers
// =============================================================================

// ValidateImageCount enforces the 1-10 image bound at the upload boundary,
// before any provider call is made.
func ValidateImageCount(count int) error {
	if count < MinImagesPerAssessment {
		return Invalid("assessment.validate", "At least one building image is required")
	}
	if count > MaxImagesPerAssessment {
		return Errorf(EINVALID, "assessment.validate", "A maximum of %d images may be analyzed at once, got %d", MaxImagesPerAssessment, count)
	}
	return nil
}

// IsValidImageContentType checks if the content type is supported.
func IsValidImageContentType(contentType string) bool {
	_, ok := SupportedImageTypes[contentType]
	return ok
}

// ValidateImageSize checks if the file size is within limits.
func ValidateImageSize(size int64) error {
	if size > MaxImageSize {
		return Errorf(ETOOLARGE, "assessment.validate", "Image size %d bytes exceeds maximum of %d bytes (%.1fMB)", size, MaxImageSize, float64(MaxImageSize)/(1024*1024))
	}
	if size == 0 {
		return Invalid("assessment.validate", "Image file is empty")
	}
	return nil
}

// =============================================================================
// Assessment Records (session-scoped)
// =============================================================================

// StoredImage describes an uploaded image retained for the assessment
// session's gallery view.
type StoredImage struct {
	ID               uuid.UUID `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      string    `json:"content_type"`
	SizeBytes        int64     `json:"size_bytes"`
	StorageKey       string    `json:"storage_key"`
	ThumbnailKey     string    `json:"thumbnail_key,omitempty"`
	URL              string    `json:"url,omitempty"`
	ThumbnailURL     string    `json:"thumbnail_url,omitempty"`
}

// SizeMB returns the file size in megabytes.
func (i *StoredImage) SizeMB() float64 {
	return float64(i.SizeBytes) / (1024 * 1024)
}

// AssessmentRecord is one completed analysis, cached in ephemeral session
// state so the dashboard can re-render it. Records are never durably
// persisted; they expire with the session.
type AssessmentRecord struct {
	ID         uuid.UUID       `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	Images     []StoredImage   `json:"images"`
	Assessment *RiskAssessment `json:"assessment"`
}
