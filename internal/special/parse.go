package special

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/yellowpill/soulfeed/internal/llm"
)

var (
	captionRe     = regexp.MustCompile(`(?i)CAPTION:\s*(.+)`)
	imagePromptRe = regexp.MustCompile(`(?i)IMAGE_PROMPT:\s*([\s\S]+)`)
)

type captionAndPrompt struct {
	Caption     string `json:"caption"`
	ImagePrompt string `json:"image_prompt"`
}

var captionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"caption":      map[string]any{"type": "string"},
		"image_prompt": map[string]any{"type": "string"},
	},
	"required":             []string{"caption", "image_prompt"},
	"additionalProperties": false,
}

// completeCaptionAndPrompt asks for a caption/image-prompt pair. It tries
// structured output first, then falls back to a labeled free-text format,
// and finally treats the whole reply as a caption: a post without an image
// beats no post at all.
func completeCaptionAndPrompt(ctx context.Context, c Client, system, user string, opts llm.Options) (captionAndPrompt, error) {
	raw, err := c.CompleteStructured(ctx, system, user, "caption_and_prompt", captionSchema, opts)
	if err == nil {
		var out captionAndPrompt
		if jsonErr := json.Unmarshal(raw, &out); jsonErr == nil && out.Caption != "" && out.ImagePrompt != "" {
			return out, nil
		}
	}

	labeled := user + "\n\nRespond in exactly this format:\nCAPTION: <the caption>\nIMAGE_PROMPT: <the image prompt>"
	text, err := c.Complete(ctx, system, labeled, opts)
	if err != nil {
		return captionAndPrompt{}, err
	}
	return parseCaptionAndPrompt(text), nil
}

// parseCaptionAndPrompt extracts CAPTION:/IMAGE_PROMPT: labels from free
// text. If the labels are missing the whole text becomes the caption and
// the image prompt stays empty.
func parseCaptionAndPrompt(text string) captionAndPrompt {
	out := captionAndPrompt{}
	if m := captionRe.FindStringSubmatch(text); m != nil {
		out.Caption = strings.TrimSpace(firstLine(m[1]))
	}
	if m := imagePromptRe.FindStringSubmatch(text); m != nil {
		out.ImagePrompt = strings.TrimSpace(m[1])
	}
	if out.Caption == "" {
		out.Caption = strings.TrimSpace(text)
		out.ImagePrompt = ""
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
