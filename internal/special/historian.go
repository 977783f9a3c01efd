package special

import (
	"context"

	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/poster"
)

// runHistorian is the scout restricted to a curated knowledge-base domain,
// so the citation points somewhere stable rather than at the news cycle.
func runHistorian(ctx context.Context, r *Runner, p poster.Poster, pt poster.PostType, summary string) (*Result, error) {
	return scoutSearch(ctx, r, p, pt, summary, llm.SearchOptions{
		Options:    llm.Options{Temperature: 0.4, MaxTokens: 700},
		MaxResults: 10,
		Sources: []llm.SearchSource{
			{Type: "web", AllowedWebsites: []string{r.historianDomain}},
		},
	})
}
