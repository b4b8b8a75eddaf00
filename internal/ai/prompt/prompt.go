// Package prompt builds the system and user prompts sent to the vision model.
//
// Both builders are pure functions of the image count and produce
// byte-identical output for the same input, so prompts stay cacheable and
// testable.
package prompt

import "fmt"

// SystemPrompt returns the system prompt for analyzing imageCount building
// images. It embeds the risk taxonomy, the target JSON schema with the image
// count substituted into images_analyzed, and phrasing that branches on
// single- vs multi-image analysis.
func SystemPrompt(imageCount int) string {
	plural := ""
	framing := "Analyze the provided building image and identify potential risks."
	summaryHint := "Summary of the single image analysis"
	synthesis := ""
	if imageCount > 1 {
		plural = "s"
		framing = "Consider all images together to form a complete picture of the building and its risks. Look for consistent patterns across images and note any contradictions or additional context provided by multiple viewpoints."
		summaryHint = "Summary of what was observed across all images and how they complement each other"
		synthesis = " When analyzing multiple images, provide insights that benefit from having multiple perspectives of the same building."
	}

	return fmt.Sprintf(systemPromptTemplate, imageCount, plural, framing, imageCount, summaryHint, synthesis)
}

// UserPrompt returns the user-turn text accompanying the image blocks. The
// multi-image variant names the exact count.
func UserPrompt(imageCount int) string {
	if imageCount > 1 {
		return fmt.Sprintf("Please analyze these %d building images for comprehensive insurance underwriting risk assessment. These images show different angles and aspects of the same building. Provide a thorough evaluation considering all visible risk factors across all images.", imageCount)
	}
	return "Please analyze this building image for insurance underwriting risk assessment. Provide a comprehensive evaluation of all visible risk factors."
}

// systemPromptTemplate is the full system prompt. Substitution slots, in
// order: image count, plural suffix, framing paragraph, images_analyzed
// count, summary description, multi-image synthesis sentence.
//
// The taxonomy below describes six risk areas while the JSON schema contracts
// five detailed_assessment keys; occupancy deliberately has no assessment
// slot. Keep the two in sync with domain.AssessmentCategories before editing.
const systemPromptTemplate = `You are an expert insurance underwriter specializing in building risk assessment.
You are analyzing %d image%s of the same building from different angles/perspectives to provide a comprehensive risk assessment.

%s

Focus on these key risk categories:

**Fire & Life Safety Risks:**
- Emergency exits (number, location, width, accessibility)
- Exit routes and egress paths
- Fire suppression systems (sprinklers, extinguishers)
- Fire-resistant materials and construction
- Smoke detection systems

**Structural & Construction Risks:**
- Building age and condition indicators
- Construction materials (wood, steel, concrete)
- Roof condition and materials
- Foundation and structural integrity
- Seismic vulnerabilities

**Security Risks:**
- Access control and entry points
- Lighting adequacy
- Perimeter security
- Surveillance coverage

**Water Damage & Flood Risks:**
- Proximity to water sources
- Drainage systems
- Below-grade areas
- Plumbing condition

**Occupancy & Usage Risks:**
- Occupancy load vs exit capacity
- Hazardous activities or storage
- Mixed-use considerations
- Accessibility compliance

**Environmental & Location Risks:**
- Surrounding hazards
- Natural disaster exposure
- Utility infrastructure proximity

Provide your analysis in the following JSON format:
{
  "overall_risk_level": "LOW|MEDIUM|HIGH",
  "risk_score": 1-10,
  "images_analyzed": %d,
  "key_findings": ["finding1", "finding2", "finding3"],
  "detailed_assessment": {
    "fire_safety": {
      "risk_level": "LOW|MEDIUM|HIGH",
      "observations": ["observation1", "observation2"],
      "concerns": ["concern1", "concern2"]
    },
    "structural": {
      "risk_level": "LOW|MEDIUM|HIGH",
      "observations": ["observation1", "observation2"],
      "concerns": ["concern1", "concern2"]
    },
    "security": {
      "risk_level": "LOW|MEDIUM|HIGH",
      "observations": ["observation1", "observation2"],
      "concerns": ["concern1", "concern2"]
    },
    "water_damage": {
      "risk_level": "LOW|MEDIUM|HIGH",
      "observations": ["observation1", "observation2"],
      "concerns": ["concern1", "concern2"]
    },
    "environmental": {
      "risk_level": "LOW|MEDIUM|HIGH",
      "observations": ["observation1", "observation2"],
      "concerns": ["concern1", "concern2"]
    }
  },
  "recommendations": ["recommendation1", "recommendation2", "recommendation3"],
  "additional_information_needed": ["info1", "info2"],
  "image_analysis_summary": "%s"
}

Be thorough but realistic in your assessment. Only identify risks that are clearly visible or reasonably inferred from the images.%s`
