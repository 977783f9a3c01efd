package special

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/poster"
)

var beautySubjects = []string{
	"a mountain ridge above a cloud layer",
	"rain on a city window at night",
	"a field of tall grass in wind",
	"sunlight through a forest canopy",
	"a quiet coastline with slow waves",
	"an empty desert road",
	"frost patterns on glass",
	"lanterns reflected in still water",
}

var beautyTimesOfDay = []string{
	"blue hour before sunrise",
	"first light",
	"high noon",
	"golden hour",
	"dusk",
	"deep night under stars",
}

// runPureBeauty generates a photographic image with a fixed film aesthetic.
// The subject and time of day come from fixed tables; the profile only
// lightly flavors the scene, never drives it. The caption stays near-silent.
func runPureBeauty(ctx context.Context, r *Runner, p poster.Poster, pt poster.PostType, summary string) (*Result, error) {
	subject := beautySubjects[r.rng.IntN(len(beautySubjects))]
	timeOfDay := beautyTimesOfDay[r.rng.IntN(len(beautyTimesOfDay))]

	flavor, err := r.client.Complete(ctx,
		"You suggest one small atmospheric detail for a landscape photograph, drawn loosely from a person's world. One short phrase only.",
		fmt.Sprintf("Person's context:\n%s\n\nScene: %s, %s. Suggest ONE small detail to add. One phrase, under 10 words. Generate ONLY the phrase.", summary, subject, timeOfDay),
		llm.Options{Model: llm.ModelGeneration, Temperature: 0.8, MaxTokens: 40},
	)
	if err != nil {
		return nil, fmt.Errorf("flavor detail: %w", err)
	}

	imagePrompt := fmt.Sprintf(
		"Photograph of %s at %s. %s. Shot on 35mm film, fine grain, natural light, muted tones, shallow depth of field, professional stock photography quality. No people, no text, no watermarks.",
		subject, timeOfDay, strings.TrimSpace(flavor))

	caption, err := r.client.Complete(ctx,
		p.SystemPrompt+"\n\n"+p.StyleGuide,
		fmt.Sprintf("The image: %s at %s. Write the caption: a single word, or just an em dash. Nothing more. Generate ONLY the caption.", subject, timeOfDay),
		llm.Options{Model: llm.ModelGeneration, Temperature: 0.7, MaxTokens: 20},
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
