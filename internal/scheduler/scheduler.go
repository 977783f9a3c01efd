// Package scheduler runs the periodic generation daemon: every interval it
// walks the onboarded users and fills their feeds, respecting a per-user
// daily batch cap.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/yellowpill/soulfeed/internal/config"
	"github.com/yellowpill/soulfeed/internal/orchestrator"
)

// Store is the persistence surface the scheduler needs.
type Store interface {
	ListOnboardedUsers(ctx context.Context) ([]string, error)
	CountPostsToday(ctx context.Context, userID string) (int64, error)
}

// BatchRunner generates one batch of posts for a user.
type BatchRunner interface {
	RunBatch(ctx context.Context, userID string, target int) (*orchestrator.BatchResult, error)
}

// Scheduler orchestrates the periodic generation cycles.
type Scheduler struct {
	cfg    *config.Config
	store  Store
	runner BatchRunner
	health *Health
}

// Config holds scheduler configuration.
type Config struct {
	Cfg    *config.Config
	Store  Store
	Runner BatchRunner
}

// New creates a new scheduler.
func New(cfg Config) *Scheduler {
	return &Scheduler{
		cfg:    cfg.Cfg,
		store:  cfg.Store,
		runner: cfg.Runner,
		health: NewHealth(),
	}
}

// Run starts the scheduler main loop.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("starting scheduler",
		"generate_interval", s.cfg.GenerateInterval,
		"posts_per_batch", s.cfg.PostsPerBatch,
		"max_batches_per_day", s.cfg.MaxBatchesPerDay,
	)

	ticker := time.NewTicker(s.cfg.GenerateInterval)
	defer ticker.Stop()

	// Run initial cycle
	s.runGenerateCycle(ctx)

	// Main loop
	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.runGenerateCycle(ctx)
		}
	}
}

// runGenerateCycle fills every eligible user's feed. Per-user failures are
// logged and the cycle moves on; only a user-list failure aborts the cycle.
func (s *Scheduler) runGenerateCycle(ctx context.Context) {
	slog.Debug("running generation cycle")

	users, err := s.store.ListOnboardedUsers(ctx)
	if err != nil {
		s.health.SetUnhealthy("generation", err)
		slog.Error("listing users failed", "error", err)
		return
	}
	if len(users) == 0 {
		slog.Debug("no onboarded users")
		return
	}

	dailyCap := int64(s.cfg.MaxBatchesPerDay * s.cfg.PostsPerBatch)
	var generated, skippedUsers int

	for _, userID := range users {
		if ctx.Err() != nil {
			return
		}

		postsToday, err := s.store.CountPostsToday(ctx, userID)
		if err != nil {
			slog.Error("counting today's posts failed", "user_id", userID, "error", err)
			continue
		}
		if postsToday >= dailyCap {
			slog.Debug("daily cap reached", "user_id", userID, "posts_today", postsToday)
			skippedUsers++
			continue
		}

		res, err := s.runner.RunBatch(ctx, userID, s.cfg.PostsPerBatch)
		if err != nil {
			s.health.SetUnhealthy("generation", err)
			slog.Error("batch failed", "user_id", userID, "error", err)
			continue
		}
		generated += res.Generated
	}

	s.health.SetHealthy("generation")
	slog.Info("generation cycle complete",
		"users", len(users),
		"capped_users", skippedUsers,
		"generated", generated,
	)
}

// Health returns the health tracker.
func (s *Scheduler) Health() *Health {
	return s.health
}
