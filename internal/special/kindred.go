package special

import (
	"context"
	"fmt"
	"strings"

	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/poster"
)

// runKindredSpirits surfaces a real historical or living figure whose life
// shares a structural parallel with the reader's situation. The search step
// is constrained to verifiable people; the writing step is constrained to
// never moralize the parallel.
func runKindredSpirits(ctx context.Context, r *Runner, p poster.Poster, pt poster.PostType, summary string) (*Result, error) {
	search, err := r.client.LiveSearch(ctx,
		"You research real, verifiable people. You only name figures whose lives are documented. Never invent a person or a biographical detail.",
		fmt.Sprintf("Person's situation:\n%s\n\nFind 2-3 real figures (historical or living, any field) whose lives contain a STRUCTURAL parallel to this situation: a late start, a sideways pivot, a long unglamorous middle, a tension between two callings. For each: name, the parallel, one concrete verifiable detail. Favor surprising picks over famous ones.", summary),
		llm.SearchOptions{
			Options:    llm.Options{Temperature: 0.4, MaxTokens: 700},
			MaxResults: 10,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("search kindred figures: %w", err)
	}

	user := fmt.Sprintf(`Researched figures and parallels:
%s

Reader's context:
%s

Pick the single most surprising figure and write the post about them. Requirements:
- Tell their story through the structural parallel, letting the reader recognize themselves without being told to.
- No moral. No "and so should you". No lesson statement. The parallel IS the post.
- Never address the reader directly.
- Maximum %d characters. No emojis.

Generate ONLY the post content.`, search.Content, summary, pt.MaxLength)

	content, err := r.client.Complete(ctx, p.SystemPrompt+"\n\n"+p.StyleGuide, user,
		llm.Options{Model: llm.ModelGeneration, Temperature: 0.7, MaxTokens: 600})
	if err != nil {
		return nil, fmt.Errorf("write post: %w", err)
	}

	return &Result{Content: strings.TrimSpace(content), Citations: search.Citations}, nil
}
