// Package pipeline runs the standard single-step generation path: seed,
// prompt composition, one completion call at elevated temperature.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/poster"
)

const (
	// generationTemperature favors lexical variety over determinism.
	generationTemperature = 0.85
	generationMaxTokens   = 600
)

// Completer is the slice of the completion client the generator needs.
type Completer interface {
	Complete(ctx context.Context, system, user string, opts llm.Options) (string, error)
}

// Step records one model call for the test bench.
type Step struct {
	Step     string
	Model    string
	Input    string
	Output   string
	Duration time.Duration
}

// Result is the outcome of one standard generation.
type Result struct {
	Content       string
	Seed          string // seed label, empty when no seed logic applies
	Steps         []Step
	TotalDuration time.Duration
}

// Generator is the default generation path for personas without special
// handlers.
type Generator struct {
	client Completer
	rng    *rand.Rand
	now    func() time.Time
}

// Config holds configuration for the generator.
type Config struct {
	Client Completer
	Rand   *rand.Rand
	Now    func() time.Time // Overridable for tests; defaults to time.Now.
}

// New creates a standard generator.
func New(cfg Config) *Generator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Generator{client: cfg.Client, rng: cfg.Rand, now: now}
}

// Run generates one post: seed, prompt, single completion. Completion errors
// propagate unchanged; there is no retry at this layer.
func (g *Generator) Run(ctx context.Context, p poster.Poster, pt poster.PostType, summary string) (*Result, error) {
	start := g.now()

	seed := GenerateSeed(g.rng, p.ID, g.now())
	if seed != nil {
		slog.Debug("generating with seed", "poster", p.ID, "post_type", pt.Type, "seed", seed.Value)
	} else {
		slog.Debug("generating", "poster", p.ID, "post_type", pt.Type)
	}

	prompt := BuildPrompt(p, pt, summary, seed)

	content, err := g.client.Complete(ctx, prompt.System, prompt.User, llm.Options{
		Model:       llm.ModelGeneration,
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	content = strings.TrimSpace(content)
	elapsed := g.now().Sub(start)

	result := &Result{
		Content:       content,
		TotalDuration: elapsed,
		Steps: []Step{{
			Step:     "generation",
			Model:    llm.ModelGeneration,
			Input:    truncate(prompt.User, 300),
			Output:   truncate(content, 300),
			Duration: elapsed,
		}},
	}
	if seed != nil {
		result.Seed = seed.Value
	}

	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
