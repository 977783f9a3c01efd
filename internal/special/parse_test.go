package special

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCaptionAndPrompt(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantCaption string
		wantPrompt  string
	}{
		{
			name:        "both labels",
			input:       "CAPTION: a quiet morning\nIMAGE_PROMPT: fog over a lake, 35mm",
			wantCaption: "a quiet morning",
			wantPrompt:  "fog over a lake, 35mm",
		},
		{
			name:        "lowercase labels",
			input:       "caption: the long road\nimage_prompt: empty highway at dusk",
			wantCaption: "the long road",
			wantPrompt:  "empty highway at dusk",
		},
		{
			name:        "multiline image prompt",
			input:       "CAPTION: stillness\nIMAGE_PROMPT: a frozen pond,\nsoft overcast light",
			wantCaption: "stillness",
			wantPrompt:  "a frozen pond,\nsoft overcast light",
		},
		{
			name:        "no labels falls back to raw caption",
			input:       "  just some prose the model returned  ",
			wantCaption: "just some prose the model returned",
			wantPrompt:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCaptionAndPrompt(tt.input)
			assert.Equal(t, tt.wantCaption, got.Caption)
			assert.Equal(t, tt.wantPrompt, got.ImagePrompt)
		})
	}
}
