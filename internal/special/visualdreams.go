package special

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/poster"
)

// runVisualDreams turns an aspiration from the profile into an image of an
// adjacent sensory scene. The literal goal is forbidden in the image: the
// point is atmosphere around the dream, not a rendering of it.
func runVisualDreams(ctx context.Context, r *Runner, p poster.Poster, pt poster.PostType, summary string) (*Result, error) {
	concept, err := r.client.Complete(ctx,
		"You free-associate from a person's aspirations to adjacent sensory scenes. You never depict the goal itself, only the textures, light, and places that orbit it. No people in the scene.",
		fmt.Sprintf("Person's context:\n%s\n\nPick one aspiration or dream from this context. Then describe, in 3-4 sentences, a sensory scene ADJACENT to it: not the achievement, but a moment nearby. A desk at dawn, a road at dusk, tools laid out. No people. Name the aspiration first, then the scene.", summary),
		llm.Options{Model: llm.ModelGeneration, Temperature: 0.9, MaxTokens: 400},
	)
	if err != nil {
		return nil, fmt.Errorf("free-associate scene: %w", err)
	}

	pair, err := completeCaptionAndPrompt(ctx, r.client,
		p.SystemPrompt+"\n\n"+p.StyleGuide,
		fmt.Sprintf(`Scene concept:
%s

Produce two things:
- caption: a short dreamy caption for the image, maximum %d characters, no emojis, never addressing the reader.
- image_prompt: a detailed prompt for an image generator rendering the scene. Atmospheric, cinematic, no people, no text in the image.`, concept, pt.MaxLength),
		llm.Options{Temperature: 0.8, MaxTokens: 500},
	)
	if err != nil {
		return nil, fmt.Errorf("caption and prompt: %w", err)
	}

	res := &Result{Content: strings.TrimSpace(pair.Caption)}
	if pair.ImagePrompt != "" {
		url, imgErr := r.client.GenerateImage(ctx, pair.ImagePrompt)
		if imgErr != nil {
			slog.Warn("image generation failed, posting caption only", "poster", p.ID, "error", imgErr)
		} else {
			res.ImageURL = url
		}
	}
	return res, nil
}
