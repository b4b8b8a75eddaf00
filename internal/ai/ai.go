// Package ai defines the interface to the hosted vision model that performs
// building risk inference, along with the parsing and fallback behavior all
// providers share.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/stonefield-io/brickscan/internal/domain"
	"github.com/google/uuid"
)

// Provider defines the interface for AI-powered building risk assessment.
type Provider interface {
	// AnalyzeBuilding analyzes one or more photographs of the same building
	// and returns the structured risk assessment. A response that cannot be
	// parsed is absorbed into the fallback assessment, never an error; the
	// returned error covers transport and provider failures only.
	AnalyzeBuilding(ctx context.Context, params AnalyzeParams) (*domain.RiskAssessment, error)

	// HealthCheck probes provider connectivity. It never returns an error;
	// any failure degrades to false.
	HealthCheck(ctx context.Context) bool
}

// AnalyzeParams contains parameters for a building analysis call.
type AnalyzeParams struct {
	Images       []domain.ImageInput // Ordered photographs of the same building
	AssessmentID uuid.UUID           // Assessment ID for logging/tracking
}

// Error codes for AI provider operations
var (
	// EAIProvider indicates the provider explicitly reported an error.
	EAIProvider = errors.New("ai provider reported an error")

	// EAIEmptyResponse indicates the provider returned no usable text.
	EAIEmptyResponse = errors.New("ai provider returned no content")

	// EAIUnavailable indicates the provider could not be reached.
	EAIUnavailable = errors.New("ai service unavailable")

	// EAIUnauthorized indicates invalid API credentials.
	EAIUnauthorized = errors.New("ai provider authentication failed")

	// EAIRateLimit indicates the API rate limit has been exceeded.
	EAIRateLimit = errors.New("ai provider rate limit exceeded")
)

// WrapError wraps an error with context about the AI operation. This is the
// single error shape AnalyzeBuilding is permitted to return; the original
// cause stays reachable through errors.Is/As for diagnostics.
func WrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("ai %s: %w", operation, err)
}
