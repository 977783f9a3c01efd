// Package orchestrator runs the feed generation batch: load the profile,
// ensure soul summaries exist, rotate through posters, dispatch standard or
// special generation, filter near-duplicates, and persist the surviving
// posts atomically.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/yellowpill/soulfeed/internal/db"
	"github.com/yellowpill/soulfeed/internal/dedup"
	"github.com/yellowpill/soulfeed/internal/manifest"
	"github.com/yellowpill/soulfeed/internal/pipeline"
	"github.com/yellowpill/soulfeed/internal/poster"
	"github.com/yellowpill/soulfeed/internal/soul"
	"github.com/yellowpill/soulfeed/internal/special"
)

// Store is the persistence surface the orchestrator needs.
type Store interface {
	GetManifest(ctx context.Context, userID string) (*manifest.SoulManifest, error)
	GetSoulSummaries(ctx context.Context, userID string) (*soul.Summaries, error)
	SaveSoulSummaries(ctx context.Context, userID string, s *soul.Summaries) error
	ListActivePosters(ctx context.Context) ([]poster.Poster, error)
	ListRecentPosts(ctx context.Context, userID string, limit int) ([]db.Post, error)
	InsertPosts(ctx context.Context, posts []db.Post) error
	InsertGenerationLog(ctx context.Context, userID string, generated, skipped int, duration time.Duration) error
}

// StandardGenerator produces a post through the single-prompt pipeline.
type StandardGenerator interface {
	Run(ctx context.Context, p poster.Poster, pt poster.PostType, summary string) (*pipeline.Result, error)
}

// SpecialRunner dispatches multi-step persona pipelines.
type SpecialRunner interface {
	Has(posterID string) bool
	Run(ctx context.Context, p poster.Poster, pt poster.PostType, summary string) (*special.Result, error)
}

// SummaryGenerator synthesizes soul summaries from a manifest.
type SummaryGenerator interface {
	GenerateAll(ctx context.Context, m *manifest.SoulManifest) (*soul.Summaries, error)
}

// Defaults for the knobs callers usually leave alone.
const (
	DefaultHistoryLimit       = 20
	DefaultRotationWindow     = 3
	DefaultMaxAttemptsPerPost = 3
)

// BatchResult summarizes one generation batch.
type BatchResult struct {
	Generated         int
	SkippedDuplicates int
	TotalDuration     time.Duration
}

// Orchestrator coordinates one user's feed generation.
type Orchestrator struct {
	store    Store
	pipeline StandardGenerator
	special  SpecialRunner
	souls    SummaryGenerator
	rng      *rand.Rand
	now      func() time.Time

	threshold          float64
	historyLimit       int
	rotationWindow     int
	maxAttemptsPerPost int
}

// Config holds configuration for the orchestrator.
type Config struct {
	Store    Store
	Pipeline StandardGenerator
	Special  SpecialRunner
	Souls    SummaryGenerator
	Rand     *rand.Rand
	Now      func() time.Time // Overridable for tests; defaults to time.Now.

	Threshold          float64 // Dedup similarity threshold; 0 means dedup.DefaultThreshold.
	HistoryLimit       int     // Recent posts loaded for dedup; 0 means DefaultHistoryLimit.
	RotationWindow     int     // Poster ids excluded from re-selection; 0 means DefaultRotationWindow.
	MaxAttemptsPerPost int     // Attempt budget multiplier; 0 means DefaultMaxAttemptsPerPost.
}

// New creates an orchestrator, applying defaults for zero-value knobs.
func New(cfg Config) *Orchestrator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	o := &Orchestrator{
		store:              cfg.Store,
		pipeline:           cfg.Pipeline,
		special:            cfg.Special,
		souls:              cfg.Souls,
		rng:                cfg.Rand,
		now:                now,
		threshold:          cfg.Threshold,
		historyLimit:       cfg.HistoryLimit,
		rotationWindow:     cfg.RotationWindow,
		maxAttemptsPerPost: cfg.MaxAttemptsPerPost,
	}
	if o.threshold == 0 {
		o.threshold = dedup.DefaultThreshold
	}
	if o.historyLimit == 0 {
		o.historyLimit = DefaultHistoryLimit
	}
	if o.rotationWindow == 0 {
		o.rotationWindow = DefaultRotationWindow
	}
	if o.maxAttemptsPerPost == 0 {
		o.maxAttemptsPerPost = DefaultMaxAttemptsPerPost
	}
	return o
}

// RunBatch generates up to target posts for the user. Completion and
// persistence failures abort the whole batch; duplicate rejections only
// consume attempts. On success all accepted posts land in one transaction.
func (o *Orchestrator) RunBatch(ctx context.Context, userID string, target int) (*BatchResult, error) {
	start := o.now()

	m, err := o.store.GetManifest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	summaries, err := o.ensureSummaries(ctx, m)
	if err != nil {
		return nil, err
	}

	posters, err := o.store.ListActivePosters(ctx)
	if err != nil {
		return nil, fmt.Errorf("load posters: %w", err)
	}
	posters = slices.DeleteFunc(posters, func(p poster.Poster) bool { return len(p.PostTypes) == 0 })
	if len(posters) == 0 {
		return nil, errors.New("no active posters with post types")
	}

	history, err := o.store.ListRecentPosts(ctx, userID, o.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	priors := make([]string, 0, len(history)+target)
	for _, p := range history {
		priors = append(priors, p.Content)
	}

	var (
		accepted []db.Post
		skipped  int
	)
	// Rotation spans batches: the newest persisted posters count against the
	// window too, so the first pick cannot reuse whoever just posted.
	// History is newest-first; recentIDs keeps newest last.
	recentIDs := make([]string, 0, o.rotationWindow+target)
	for i := min(o.rotationWindow, len(history)) - 1; i >= 0; i-- {
		recentIDs = append(recentIDs, history[i].PosterID)
	}
	maxAttempts := target * o.maxAttemptsPerPost

	for attempt := 0; attempt < maxAttempts && len(accepted) < target; attempt++ {
		p := o.pickPoster(posters, recentIDs)
		pt := p.PostTypes[o.rng.IntN(len(p.PostTypes))]
		sel := soul.PickRandom(o.rng, summaries)

		content, imageURL, citations, err := o.generate(ctx, p, pt, sel.Summary)
		if err != nil {
			return nil, fmt.Errorf("generate for poster %s: %w", p.ID, err)
		}

		// The poster rotates even when the candidate is rejected, so a
		// repetitive persona cannot monopolize the remaining attempts.
		recentIDs = append(recentIDs, p.ID)

		check := dedup.Check(content, priors, o.threshold)
		if check.IsDuplicate {
			skipped++
			slog.Info("skipping near-duplicate post",
				"user_id", userID,
				"poster", p.ID,
				"similarity", check.MaxSimilarity)
			continue
		}

		priors = append(priors, content)
		accepted = append(accepted, db.Post{
			ID:             uuid.NewString(),
			UserID:         userID,
			PosterID:       p.ID,
			PostType:       pt.Type,
			Content:        content,
			ImageURL:       imageURL,
			Citations:      citations,
			ManifestFields: pt.ManifestFields,
			CreatedAt:      o.now(),
		})
	}

	if err := o.store.InsertPosts(ctx, accepted); err != nil {
		return nil, fmt.Errorf("persist batch: %w", err)
	}

	duration := o.now().Sub(start)
	if err := o.store.InsertGenerationLog(ctx, userID, len(accepted), skipped, duration); err != nil {
		slog.Warn("recording generation log failed", "user_id", userID, "error", err)
	}

	slog.Info("batch complete",
		"user_id", userID,
		"generated", len(accepted),
		"skipped_duplicates", skipped,
		"duration", duration)

	return &BatchResult{
		Generated:         len(accepted),
		SkippedDuplicates: skipped,
		TotalDuration:     duration,
	}, nil
}

// RunSingle generates one post for a named poster without persisting it.
// postType selects one of the poster's post types; empty picks at random.
func (o *Orchestrator) RunSingle(ctx context.Context, userID, posterID, postType string) (*db.Post, error) {
	m, err := o.store.GetManifest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	summaries, err := o.ensureSummaries(ctx, m)
	if err != nil {
		return nil, err
	}

	posters, err := o.store.ListActivePosters(ctx)
	if err != nil {
		return nil, fmt.Errorf("load posters: %w", err)
	}
	idx := slices.IndexFunc(posters, func(p poster.Poster) bool { return p.ID == posterID })
	if idx < 0 {
		return nil, fmt.Errorf("poster %s: %w", posterID, db.ErrNotFound)
	}
	p := posters[idx]
	if len(p.PostTypes) == 0 {
		return nil, fmt.Errorf("poster %s has no post types", posterID)
	}
	pt := p.PostTypes[o.rng.IntN(len(p.PostTypes))]
	if postType != "" {
		ti := slices.IndexFunc(p.PostTypes, func(t poster.PostType) bool { return t.Type == postType })
		if ti < 0 {
			return nil, fmt.Errorf("poster %s has no post type %q", posterID, postType)
		}
		pt = p.PostTypes[ti]
	}
	sel := soul.PickRandom(o.rng, summaries)

	content, imageURL, citations, err := o.generate(ctx, p, pt, sel.Summary)
	if err != nil {
		return nil, fmt.Errorf("generate for poster %s: %w", p.ID, err)
	}

	return &db.Post{
		ID:             uuid.NewString(),
		UserID:         userID,
		PosterID:       p.ID,
		PostType:       pt.Type,
		Content:        content,
		ImageURL:       imageURL,
		Citations:      citations,
		ManifestFields: pt.ManifestFields,
		CreatedAt:      o.now(),
	}, nil
}

// ensureSummaries loads cached soul summaries, synthesizing and persisting
// them on first use. A missing manifest is the caller's error; a missing
// summary set is normal and repaired here.
func (o *Orchestrator) ensureSummaries(ctx context.Context, m *manifest.SoulManifest) (*soul.Summaries, error) {
	summaries, err := o.store.GetSoulSummaries(ctx, m.UserID)
	if err == nil {
		return summaries, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("load summaries: %w", err)
	}

	summaries, err = o.souls.GenerateAll(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("synthesize summaries: %w", err)
	}
	if err := o.store.SaveSoulSummaries(ctx, m.UserID, summaries); err != nil {
		return nil, fmt.Errorf("cache summaries: %w", err)
	}
	return summaries, nil
}

// pickPoster selects uniformly among posters not used in the last
// rotationWindow picks, falling back to the full pool when every poster is
// recent.
func (o *Orchestrator) pickPoster(posters []poster.Poster, recentIDs []string) poster.Poster {
	window := recentIDs
	if len(window) > o.rotationWindow {
		window = window[len(window)-o.rotationWindow:]
	}

	var fresh []poster.Poster
	for _, p := range posters {
		if !slices.Contains(window, p.ID) {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) == 0 {
		fresh = posters
	}
	return fresh[o.rng.IntN(len(fresh))]
}

func (o *Orchestrator) generate(ctx context.Context, p poster.Poster, pt poster.PostType, summary string) (content, imageURL string, citations []string, err error) {
	if o.special.Has(p.ID) {
		res, err := o.special.Run(ctx, p, pt, summary)
		if err != nil {
			return "", "", nil, err
		}
		return res.Content, res.ImageURL, res.Citations, nil
	}

	res, err := o.pipeline.Run(ctx, p, pt, summary)
	if err != nil {
		return "", "", nil, err
	}
	return res.Content, "", nil, nil
}
