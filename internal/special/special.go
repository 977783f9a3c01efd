// Package special implements per-persona multi-step generation pipelines for
// posters whose content needs grounding beyond a single prompt: real dates,
// live search, abstract visuals, image generation.
package special

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/poster"
)

// Client is the slice of the completion service special handlers need.
type Client interface {
	Complete(ctx context.Context, system, user string, opts llm.Options) (string, error)
	CompleteStructured(ctx context.Context, system, user, schemaName string, schema map[string]any, opts llm.Options) (json.RawMessage, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	LiveSearch(ctx context.Context, system, query string, opts llm.SearchOptions) (*llm.SearchResult, error)
}

// Result is a special handler's output. ImageURL is empty when the persona
// produced no image or image generation failed (a soft failure). Citations
// hold source links for search-grounded personas.
type Result struct {
	Content   string
	ImageURL  string
	Citations []string
}

type handlerFunc func(ctx context.Context, r *Runner, p poster.Poster, pt poster.PostType, summary string) (*Result, error)

// Runner dispatches special-handled posters to their pipelines. Adding a
// persona means registering one more entry, not growing a switch.
type Runner struct {
	client          Client
	rng             *rand.Rand
	now             func() time.Time
	historianDomain string
	handlers        map[string]handlerFunc
}

// Config holds configuration for the runner.
type Config struct {
	Client          Client
	Rand            *rand.Rand
	Now             func() time.Time // Overridable for tests; defaults to time.Now.
	HistorianDomain string           // Preferred citation domain for the historian (default: en.wikipedia.org).
}

// NewRunner creates a runner with all shipped handlers registered.
func NewRunner(cfg Config) *Runner {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	domain := cfg.HistorianDomain
	if domain == "" {
		domain = "en.wikipedia.org"
	}

	r := &Runner{
		client:          cfg.Client,
		rng:             cfg.Rand,
		now:             now,
		historianDomain: domain,
	}
	r.handlers = map[string]handlerFunc{
		"on-this-day":     runOnThisDay,
		"visual-dreams":   runVisualDreams,
		"kindred-spirits": runKindredSpirits,
		"mood-ring":       runMoodRing,
		"daily-teacher":   runDailyTeacher,
		"scout":           runScout,
		"historian":       runHistorian,
		"pure-beauty":     runPureBeauty,
	}
	return r
}

// Has reports whether a poster id is special-handled.
func (r *Runner) Has(posterID string) bool {
	_, ok := r.handlers[posterID]
	return ok
}

// Run executes the pipeline registered for the poster.
func (r *Runner) Run(ctx context.Context, p poster.Poster, pt poster.PostType, summary string) (*Result, error) {
	handler, ok := r.handlers[p.ID]
	if !ok {
		return nil, fmt.Errorf("no special handler for poster %q", p.ID)
	}
	return handler(ctx, r, p, pt, summary)
}
