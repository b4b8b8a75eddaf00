package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stonefield-io/brickscan/internal/domain"
)

func TestExtractJSONSpan(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"prose around object", `Here is the result: {"a":1} as requested.`, `{"a":1}`, true},
		{"markdown fence", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"nested braces", `{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{"no braces", "no json here", "", false},
		{"only open brace", "start { no close", "", false},
		{"only close brace", "no open } end", "", false},
		{"close before open", "} then {", "", false},
		{"empty string", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONSpan(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeAssessmentPassthrough(t *testing.T) {
	text := `Here is my assessment:
{
  "overall_risk_level": "LOW",
  "risk_score": 2,
  "images_analyzed": 1,
  "key_findings": ["well maintained"],
  "detailed_assessment": {
    "structural": {"risk_level": "LOW", "observations": ["new roof"], "concerns": []}
  },
  "recommendations": ["none"],
  "additional_information_needed": [],
  "image_analysis_summary": "Single exterior view."
}`

	a := DecodeAssessment(text, 1)
	require.NotNil(t, a)

	assert.False(t, a.IsFallback())
	assert.Equal(t, domain.RiskLevelLow, a.OverallRiskLevel)
	assert.Equal(t, domain.Score(2), a.RiskScore)
	assert.Equal(t, 1, a.ImagesAnalyzed)
	assert.Equal(t, []string{"well maintained"}, a.KeyFindings)
	assert.Empty(t, a.RawResponse)
}

func TestDecodeAssessmentNoJSONFallsBack(t *testing.T) {
	text := "I cannot analyze these images."

	a := DecodeAssessment(text, 3)
	require.NotNil(t, a)

	assert.True(t, a.IsFallback())
	assert.Equal(t, text, a.RawResponse)
	assert.Equal(t, 3, a.ImagesAnalyzed)
}

func TestDecodeAssessmentMalformedJSONFallsBack(t *testing.T) {
	text := `{"overall_risk_level": "HIGH", "risk_score": }`

	a := DecodeAssessment(text, 2)
	require.NotNil(t, a)

	assert.True(t, a.IsFallback())
	// RawResponse carries the full original text, not the extracted span.
	assert.Equal(t, text, a.RawResponse)
}

func TestFallbackAssessmentShape(t *testing.T) {
	a := FallbackAssessment("raw model output", 4)

	assert.Equal(t, domain.RiskLevelMedium, a.OverallRiskLevel)
	assert.Equal(t, domain.Score(5), a.RiskScore)
	assert.Equal(t, 4, a.ImagesAnalyzed)
	assert.Equal(t, []string{"Analysis completed - see detailed response"}, a.KeyFindings)
	assert.Equal(t, []string{"Review detailed analysis"}, a.Recommendations)
	assert.NotNil(t, a.AdditionalInformationNeeded)
	assert.Empty(t, a.AdditionalInformationNeeded)
	assert.Equal(t, "Analysis of 4 building images completed", a.ImageAnalysisSummary)
	assert.Equal(t, "raw model output", a.RawResponse)

	// All five contracted categories present, all MEDIUM with empty lists.
	require.Len(t, a.DetailedAssessment, 5)
	for _, key := range domain.AssessmentCategories() {
		cat, ok := a.DetailedAssessment[key]
		require.True(t, ok, "missing category %s", key)
		assert.Equal(t, domain.RiskLevelMedium, cat.RiskLevel)
		assert.NotNil(t, cat.Observations)
		assert.Empty(t, cat.Observations)
		assert.NotNil(t, cat.Concerns)
		assert.Empty(t, cat.Concerns)
	}
}

func TestFallbackAssessmentSingularSummary(t *testing.T) {
	a := FallbackAssessment("x", 1)
	assert.Equal(t, "Analysis of 1 building image completed", a.ImageAnalysisSummary)
}
