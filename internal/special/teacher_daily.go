package special

import (
	"context"
	"fmt"
	"strings"

	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/poster"
)

var teachingDecades = []string{
	"1900s", "1910s", "1920s", "1930s", "1940s", "1950s",
	"1960s", "1970s", "1980s", "1990s", "2000s", "2010s",
}

var teachingAngles = []string{
	"the origin story of something the person uses or loves",
	"the hidden mechanism behind something familiar",
	"a counterintuitive fact that reverses a common assumption",
	"a mental model from one field that transfers to the person's field",
	"a forgotten pioneer whose work quietly shaped the present",
}

// runDailyTeacher composes a random decade with a random teaching angle,
// grounds a matching real fact through live search, then writes a post
// that leads with the hook and lands on something the reader can use.
func runDailyTeacher(ctx context.Context, r *Runner, p poster.Poster, pt poster.PostType, summary string) (*Result, error) {
	decade := teachingDecades[r.rng.IntN(len(teachingDecades))]
	angle := teachingAngles[r.rng.IntN(len(teachingAngles))]

	search, err := r.client.LiveSearch(ctx,
		"You are a researcher who finds real, well-documented facts. Accuracy over drama: only state what sources support.",
		fmt.Sprintf("Person's interests:\n%s\n\nFind one real, verifiable fact from the %s matching this angle: %s. It should connect, even loosely, to the person's interests. Report the fact, its source context, and why it matters.", summary, decade, angle),
		llm.SearchOptions{
			Options:    llm.Options{Temperature: 0.4, MaxTokens: 700},
			MaxResults: 10,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("research fact: %w", err)
	}

	user := fmt.Sprintf(`Researched fact:
%s

Reader's context:
%s

Write the post. Requirements:
- Lead with the hook: the single most surprising sentence first.
- Teach the fact in plain, vivid language.
- End with one applicable takeaway the reader could actually use, stated lightly.
- Never address the reader directly or reference knowing their interests.
- Maximum %d characters. No emojis. No hashtags.

Generate ONLY the post content.`, search.Content, summary, pt.MaxLength)

	content, err := r.client.Complete(ctx, p.SystemPrompt+"\n\n"+p.StyleGuide, user,
		llm.Options{Model: llm.ModelGeneration, Temperature: 0.7, MaxTokens: 600})
	if err != nil {
		return nil, fmt.Errorf("write post: %w", err)
	}

	return &Result{Content: strings.TrimSpace(content), Citations: search.Citations}, nil
}
