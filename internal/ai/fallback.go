package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stonefield-io/brickscan/internal/domain"
)

// ExtractJSONSpan returns the substring from the first '{' through the last
// '}' of text. This is a permissive heuristic, not a JSON-aware scan: it
// assumes the model emits exactly one top-level object, possibly surrounded
// by prose. Multiple objects, or stray braces outside the intended object,
// corrupt the span. The second return value is false when no span exists.
func ExtractJSONSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// DecodeAssessment parses the model's response text into a RiskAssessment.
// The extracted JSON span is decoded as-is with no semantic validation. Any
// failure — no span, malformed JSON, or a body that does not fit the shape —
// produces the fallback assessment; this function never fails.
func DecodeAssessment(text string, imageCount int) *domain.RiskAssessment {
	span, ok := ExtractJSONSpan(text)
	if !ok {
		return FallbackAssessment(text, imageCount)
	}

	var assessment domain.RiskAssessment
	if err := json.Unmarshal([]byte(span), &assessment); err != nil {
		return FallbackAssessment(text, imageCount)
	}

	return &assessment
}

// FallbackAssessment builds the always-valid assessment returned when the
// model's output could not be parsed. The full unparsed text is carried in
// RawResponse for operator inspection.
func FallbackAssessment(raw string, imageCount int) *domain.RiskAssessment {
	categories := make(map[string]domain.CategoryAssessment, len(domain.AssessmentCategories()))
	for _, key := range domain.AssessmentCategories() {
		categories[key] = domain.CategoryAssessment{
			RiskLevel:    domain.RiskLevelMedium,
			Observations: []string{},
			Concerns:     []string{},
		}
	}

	plural := ""
	if imageCount > 1 {
		plural = "s"
	}

	return &domain.RiskAssessment{
		OverallRiskLevel:            domain.RiskLevelMedium,
		RiskScore:                   5,
		ImagesAnalyzed:              imageCount,
		KeyFindings:                 []string{"Analysis completed - see detailed response"},
		DetailedAssessment:          categories,
		Recommendations:             []string{"Review detailed analysis"},
		AdditionalInformationNeeded: []string{},
		ImageAnalysisSummary:        fmt.Sprintf("Analysis of %d building image%s completed", imageCount, plural),
		RawResponse:                 raw,
	}
}
