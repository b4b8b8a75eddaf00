// Package mock provides a canned ai.Provider for development and tests.
package mock

import (
	"context"
	"log/slog"

	"github.com/stonefield-io/brickscan/internal/ai"
	"github.com/stonefield-io/brickscan/internal/domain"
)

// Provider is a mock AI provider for testing and development.
type Provider struct {
	logger *slog.Logger

	// Configurable responses for testing
	AnalyzeBuildingResponse *domain.RiskAssessment
	AnalyzeBuildingError    error
	Healthy                 bool

	// Call tracking for testing
	AnalyzeBuildingCalls int
	HealthCheckCalls     int
}

// New creates a new mock AI provider.
func New(logger *slog.Logger) *Provider {
	return &Provider{
		logger:  logger,
		Healthy: true,
	}
}

// AnalyzeBuilding returns a canned risk assessment.
func (p *Provider) AnalyzeBuilding(ctx context.Context, params ai.AnalyzeParams) (*domain.RiskAssessment, error) {
	p.AnalyzeBuildingCalls++

	// If a custom response or error is set, use it
	if p.AnalyzeBuildingError != nil {
		return nil, p.AnalyzeBuildingError
	}
	if p.AnalyzeBuildingResponse != nil {
		return p.AnalyzeBuildingResponse, nil
	}

	// Default canned response
	return &domain.RiskAssessment{
		OverallRiskLevel: domain.RiskLevelMedium,
		RiskScore:        5,
		ImagesAnalyzed:   len(params.Images),
		KeyFindings: []string{
			"Multi-story masonry building in fair overall condition",
			"No visible fire suppression equipment at the entrances",
			"Downspouts discharge directly at the foundation line",
		},
		DetailedAssessment: map[string]domain.CategoryAssessment{
			domain.CategoryFireSafety: {
				RiskLevel:    domain.RiskLevelMedium,
				Observations: []string{"Two street-level exits visible", "No sprinkler heads visible through windows"},
				Concerns:     []string{"Egress width of the rear exit appears narrow"},
			},
			domain.CategoryStructural: {
				RiskLevel:    domain.RiskLevelLow,
				Observations: []string{"Brick facade with no visible step cracking", "Roof membrane appears recent"},
				Concerns:     []string{},
			},
			domain.CategorySecurity: {
				RiskLevel:    domain.RiskLevelMedium,
				Observations: []string{"Single camera covering the main entrance"},
				Concerns:     []string{"Side alley entrance is unlit"},
			},
			domain.CategoryWaterDamage: {
				RiskLevel:    domain.RiskLevelMedium,
				Observations: []string{"Gutters present on all visible elevations"},
				Concerns:     []string{"Downspout discharge pooling near foundation"},
			},
			domain.CategoryEnvironmental: {
				RiskLevel:    domain.RiskLevelLow,
				Observations: []string{"No adjacent industrial exposures visible"},
				Concerns:     []string{},
			},
		},
		Recommendations: []string{
			"Install extinguishers at each exit and document inspection dates",
			"Extend downspouts away from the foundation",
			"Add lighting and camera coverage to the side alley",
		},
		AdditionalInformationNeeded: []string{
			"Interior photographs of mechanical and electrical rooms",
			"Roof age and last inspection report",
		},
		ImageAnalysisSummary: "Exterior photographs show a fair-condition masonry building with moderate fire safety and water management concerns.",
	}, nil
}

// HealthCheck reports the configured health state.
func (p *Provider) HealthCheck(ctx context.Context) bool {
	p.HealthCheckCalls++
	return p.Healthy
}

// Reset clears call counters and custom responses for testing.
func (p *Provider) Reset() {
	p.AnalyzeBuildingCalls = 0
	p.HealthCheckCalls = 0
	p.AnalyzeBuildingResponse = nil
	p.AnalyzeBuildingError = nil
	p.Healthy = true
}
