package special

import (
	"context"
	"fmt"
	"strings"

	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/poster"
)

// runScout searches the live web for something recent and genuinely useful
// to this reader, then compresses the best finding into a post with the
// source link on its own line.
func runScout(ctx context.Context, r *Runner, p poster.Poster, pt poster.PostType, summary string) (*Result, error) {
	return scoutSearch(ctx, r, p, pt, summary, llm.SearchOptions{
		Options:    llm.Options{Temperature: 0.4, MaxTokens: 700},
		MaxResults: 10,
		Sources: []llm.SearchSource{
			{Type: "web"},
			{Type: "news"},
			{Type: "x"},
		},
	})
}

func scoutSearch(ctx context.Context, r *Runner, p poster.Poster, pt poster.PostType, summary string, opts llm.SearchOptions) (*Result, error) {
	focus := "something recent and genuinely useful for this person"
	if len(pt.SearchFocus) > 0 {
		focus = strings.Join(pt.SearchFocus, ", ")
	}

	search, err := r.client.LiveSearch(ctx,
		"You scout the web on behalf of one specific person. You only report real findings from real sources. Quality over recency when they conflict.",
		fmt.Sprintf("Person's interests and context:\n%s\n\nSearch focus: %s.\n\nFind the single best matching item. Report what it is, why this person specifically would care, and the source URL.", summary, focus),
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("live search: %w", err)
	}

	user := fmt.Sprintf(`Finding:
%s

Reader's context:
%s

Compress the finding into a post. Requirements:
- Lead with what it is and the one reason it matters.
- If a source URL is available, put it alone on the final line.
- Never address the reader directly or mention tailoring.
- Maximum %d characters including the link line. No emojis.

Generate ONLY the post content.`, search.Content, summary, pt.MaxLength)

	content, err := r.client.Complete(ctx, p.SystemPrompt+"\n\n"+p.StyleGuide, user,
		llm.Options{Model: llm.ModelGeneration, Temperature: 0.6, MaxTokens: 600})
	if err != nil {
		return nil, fmt.Errorf("write post: %w", err)
	}

	return &Result{Content: strings.TrimSpace(content), Citations: search.Citations}, nil
}
