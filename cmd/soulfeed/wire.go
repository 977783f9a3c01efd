package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/yellowpill/soulfeed/internal/config"
	"github.com/yellowpill/soulfeed/internal/db"
	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/orchestrator"
	"github.com/yellowpill/soulfeed/internal/pipeline"
	"github.com/yellowpill/soulfeed/internal/poster"
	"github.com/yellowpill/soulfeed/internal/soul"
	"github.com/yellowpill/soulfeed/internal/special"
)

// openStore connects, migrates, and seeds the poster roster.
func openStore(ctx context.Context, cfg *config.Config) (*db.Store, error) {
	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if err := store.SeedPosters(ctx, poster.DefaultRoster); err != nil {
		store.Close()
		return nil, fmt.Errorf("seed posters: %w", err)
	}
	return store, nil
}

func newRand() *rand.Rand {
	now := time.Now()
	return rand.New(rand.NewPCG(uint64(now.UnixNano()), uint64(now.Unix())))
}

// newOrchestrator wires the generation stack from configuration.
func newOrchestrator(cfg *config.Config, store orchestrator.Store) *orchestrator.Orchestrator {
	client := llm.New(llm.Config{
		APIKey:  cfg.XAIAPIKey,
		BaseURL: cfg.XAIBaseURL,
	})
	rng := newRand()

	return orchestrator.New(orchestrator.Config{
		Store:    store,
		Pipeline: pipeline.New(pipeline.Config{Client: client, Rand: rng}),
		Special: special.NewRunner(special.Config{
			Client:          client,
			Rand:            rng,
			HistorianDomain: cfg.HistorianDomain,
		}),
		Souls:              soul.NewGenerator(client),
		Rand:               rng,
		Threshold:          cfg.DedupThreshold,
		HistoryLimit:       cfg.HistoryLimit,
		RotationWindow:     cfg.RotationWindow,
		MaxAttemptsPerPost: cfg.MaxAttemptsPerPost,
	})
}
