package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/yellowpill/soulfeed/internal/config"
	"github.com/yellowpill/soulfeed/internal/db"
	"github.com/yellowpill/soulfeed/internal/orchestrator"
)

var (
	generateCount  int
	generateDryRun bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [user-id]",
	Short: "Generate a feed batch for a user",
	Long: `Generate a batch of posts for one user and persist them. With
--dry-run the batch runs end to end (including dedup) but the posts are
printed instead of stored.

Example:
  soulfeed generate user-123 --count 5`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVarP(&generateCount, "count", "c", 0, "posts to generate (default: POSTS_PER_BATCH)")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "print posts instead of persisting")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	userID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForGeneration(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	target := generateCount
	if target <= 0 {
		target = cfg.PostsPerBatch
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	slog.Info("generating batch", "user_id", userID, "target", target, "dry_run", generateDryRun)

	var orchStore orchestrator.Store = store
	var dry *dryRunStore
	if generateDryRun {
		dry = &dryRunStore{Store: store}
		orchStore = dry
	}

	res, err := newOrchestrator(cfg, orchStore).RunBatch(ctx, userID, target)
	if err != nil {
		return fmt.Errorf("run batch: %w", err)
	}

	if dry != nil {
		for i, p := range dry.posts {
			fmt.Printf("--- post %d [%s / %s] ---\n%s\n", i+1, p.PosterID, p.PostType, p.Content)
			if p.ImageURL != "" {
				fmt.Printf("Image: %s\n", p.ImageURL)
			}
		}
	}
	fmt.Printf("Generated %d posts (%d duplicates skipped) in %s\n",
		res.Generated, res.SkippedDuplicates, res.TotalDuration.Round(time.Millisecond))
	return nil
}

// dryRunStore reads through to the real store but swallows writes, so a
// dry-run batch exercises the full path without touching the feed.
type dryRunStore struct {
	orchestrator.Store
	posts []db.Post
}

func (d *dryRunStore) InsertPosts(_ context.Context, posts []db.Post) error {
	d.posts = posts
	return nil
}

func (d *dryRunStore) InsertGenerationLog(context.Context, string, int, int, time.Duration) error {
	return nil
}
