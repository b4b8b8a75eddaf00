package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemPromptDeterministic(t *testing.T) {
	assert.Equal(t, SystemPrompt(3), SystemPrompt(3))
	assert.Equal(t, SystemPrompt(1), SystemPrompt(1))
}

func TestSystemPromptEmbedsImageCount(t *testing.T) {
	for _, count := range []int{1, 2, 5, 10} {
		p := SystemPrompt(count)
		assert.Contains(t, p, fmt.Sprintf(`"images_analyzed": %d`, count))
		assert.Contains(t, p, fmt.Sprintf("analyzing %d image", count))
	}
}

func TestSystemPromptSingleVsMulti(t *testing.T) {
	single := SystemPrompt(1)
	multi := SystemPrompt(3)

	assert.Contains(t, single, "analyzing 1 image of the same building")
	assert.Contains(t, single, "Analyze the provided building image")
	assert.NotContains(t, single, "multiple perspectives")

	assert.Contains(t, multi, "analyzing 3 images of the same building")
	assert.Contains(t, multi, "Consider all images together")
	assert.Contains(t, multi, "multiple perspectives of the same building")
}

func TestSystemPromptContainsSchema(t *testing.T) {
	p := SystemPrompt(2)

	// All five contracted category keys appear in the schema block.
	for _, key := range []string{"fire_safety", "structural", "security", "water_damage", "environmental"} {
		assert.Contains(t, p, fmt.Sprintf("%q", key))
	}

	assert.Contains(t, p, `"overall_risk_level": "LOW|MEDIUM|HIGH"`)
	assert.Contains(t, p, `"risk_score": 1-10`)

	// No unresolved format verbs leak into the prompt.
	assert.NotContains(t, p, "%!")
	assert.False(t, strings.Contains(p, "%d"))
	assert.False(t, strings.Contains(p, "%s"))
}

func TestUserPrompt(t *testing.T) {
	single := UserPrompt(1)
	assert.Contains(t, single, "this building image")
	assert.NotContains(t, single, "these")

	multi := UserPrompt(4)
	assert.Contains(t, multi, "these 4 building images")
	assert.Contains(t, multi, "same building")
}
