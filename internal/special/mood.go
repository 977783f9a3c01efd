package special

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/poster"
)

type moodReading struct {
	Tension  string `json:"tension"`
	Palette  string `json:"palette"`
	Movement string `json:"movement"`
}

var moodSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"tension":  map[string]any{"type": "string", "description": "the emotional tension currently dominant in this person's life, one phrase"},
		"palette":  map[string]any{"type": "string", "description": "3-4 colors expressing that tension"},
		"movement": map[string]any{"type": "string", "description": "a texture or movement quality: flowing, fractured, settling, rising"},
	},
	"required":             []string{"tension", "palette", "movement"},
	"additionalProperties": false,
}

// runMoodRing reads the profile's dominant emotional tension and renders it
// as an abstract image. The image prompt explicitly forbids representation:
// no people, faces, objects, or text.
func runMoodRing(ctx context.Context, r *Runner, p poster.Poster, pt poster.PostType, summary string) (*Result, error) {
	raw, err := r.client.CompleteStructured(ctx,
		"You translate a person's inner state into abstract visual qualities. You read between the lines of their context.",
		fmt.Sprintf("Person's context:\n%s\n\nDerive the mood reading.", summary),
		"mood_reading", moodSchema,
		llm.Options{Temperature: 0.6, MaxTokens: 300},
	)
	if err != nil {
		return nil, fmt.Errorf("derive mood: %w", err)
	}
	var mood moodReading
	if err := json.Unmarshal(raw, &mood); err != nil {
		return nil, fmt.Errorf("parse mood reading: %w", err)
	}

	imagePrompt := fmt.Sprintf(
		"Abstract non-representational art expressing %s. Color palette: %s. Quality of movement: %s. Purely abstract: no people, no faces, no objects, no text, no symbols. Painterly, large-format, gallery quality.",
		mood.Tension, mood.Palette, mood.Movement)

	caption, err := r.client.Complete(ctx,
		p.SystemPrompt+"\n\n"+p.StyleGuide,
		fmt.Sprintf("The mood: %s. Write a caption of AT MOST 5 evocative words. No punctuation needed. No emojis. Generate ONLY the caption.", mood.Tension),
		llm.Options{Model: llm.ModelGeneration, Temperature: 0.8, MaxTokens: 50},
	)
	if err != nil {
		return nil, fmt.Errorf("write caption: %w", err)
	}

	res := &Result{Content: strings.TrimSpace(caption)}
	url, imgErr := r.client.GenerateImage(ctx, imagePrompt)
	if imgErr != nil {
		slog.Warn("image generation failed, posting caption only", "poster", p.ID, "error", imgErr)
	} else {
		res.ImageURL = url
	}
	return res, nil
}
