package special

import (
	"context"
	"fmt"
	"strings"

	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/poster"
)

// runOnThisDay builds a historical-echo post in three steps: enumerate real
// events for today's date, pick the one that resonates with the reader's
// life, then write the post. Keeping enumeration at low temperature reduces
// invented dates.
func runOnThisDay(ctx context.Context, r *Runner, p poster.Poster, pt poster.PostType, summary string) (*Result, error) {
	today := r.now().Format("January 2")

	events, err := r.client.Complete(ctx,
		"You are a meticulous historian. You only state events you are highly confident actually happened on the given calendar date. Never invent dates or events.",
		fmt.Sprintf("List 5-7 notable historical events that happened on %s (any year). One per line, format: YEAR - what happened. Favor events about beginnings, discoveries, quiet turning points, and persistence over wars and disasters.", today),
		llm.Options{Model: llm.ModelGeneration, Temperature: 0.3, MaxTokens: 500},
	)
	if err != nil {
		return nil, fmt.Errorf("enumerate events: %w", err)
	}

	connection, err := r.client.Complete(ctx,
		"You find subtle thematic resonance between historical events and a person's life. You never force the connection.",
		fmt.Sprintf("Events that happened on %s:\n%s\n\nPerson's context:\n%s\n\nPick the ONE event with the most interesting, non-obvious resonance with this person's life. Explain the connection in 2-3 sentences. Do not pick the most famous event; pick the most resonant one.", today, events, summary),
		llm.Options{Model: llm.ModelReasoning, Temperature: 0.5, MaxTokens: 400},
	)
	if err != nil {
		return nil, fmt.Errorf("pick connection: %w", err)
	}

	user := fmt.Sprintf(`Chosen event and its resonance:
%s

Reader's context:
%s

Write the post. Requirements:
- Open with "On this day in [YEAR]" using the event's real year.
- Tell the event briefly, then let the connection to the reader's life surface on its own. Subtle, never spelled out as "just like you".
- Never address the reader directly or mention that you know anything about them.
- Maximum %d characters. No emojis. No hashtags.

Generate ONLY the post content.`, connection, summary, pt.MaxLength)

	content, err := r.client.Complete(ctx, p.SystemPrompt+"\n\n"+p.StyleGuide, user,
		llm.Options{Model: llm.ModelGeneration, Temperature: 0.6, MaxTokens: 600})
	if err != nil {
		return nil, fmt.Errorf("write post: %w", err)
	}

	return &Result{Content: strings.TrimSpace(content)}, nil
}
