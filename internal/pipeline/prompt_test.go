package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yellowpill/soulfeed/internal/poster"
)

func TestBuildPrompt(t *testing.T) {
	p, ok := poster.ByID("soft-landing")
	require.True(t, ok)
	pt := p.PostTypes[0]
	summary := "34, Lisbon. Restores furniture nobody asked them to restore. Afraid of running out of time."

	t.Run("system prompt carries persona and directives", func(t *testing.T) {
		prompt := BuildPrompt(p, pt, summary, nil)

		assert.Contains(t, prompt.System, p.SystemPrompt)
		assert.Contains(t, prompt.System, p.StyleGuide)
		assert.Contains(t, prompt.System, "Never use the reader's name")
		assert.Contains(t, prompt.System, "VOICE PROFILE")
	})

	t.Run("user prompt is complete", func(t *testing.T) {
		prompt := BuildPrompt(p, pt, summary, nil)

		assert.Contains(t, prompt.User, fmt.Sprintf("Maximum %d characters", pt.MaxLength))
		assert.Contains(t, prompt.User, pt.Description)
		assert.Contains(t, prompt.User, summary)
		assert.Contains(t, prompt.User, "No emojis")
		assert.Contains(t, prompt.User, "ONLY the post content")
	})

	t.Run("user prompt never leaks profile-reference phrasing", func(t *testing.T) {
		prompt := BuildPrompt(p, pt, summary, nil)
		assert.NotContains(t, prompt.User, "you mentioned")
	})

	t.Run("seed constraint is appended verbatim", func(t *testing.T) {
		seed := GenerateSeed(testRand(), "daily-dose", time.Now())
		require.NotNil(t, seed)

		prompt := BuildPrompt(p, pt, summary, seed)
		assert.Contains(t, prompt.User, seed.Constraint)
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		a := BuildPrompt(p, pt, summary, nil)
		b := BuildPrompt(p, pt, summary, nil)
		assert.Equal(t, a, b)
	})
}
