package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yellowpill/soulfeed/internal/config"
	"github.com/yellowpill/soulfeed/internal/preview"
)

var testgenType string

var testgenCmd = &cobra.Command{
	Use:   "testgen [user-id] [poster-id]",
	Short: "Generate one post without persisting it",
	Long: `Generate a single post from a named poster and print it. Nothing is
written to the feed; useful for iterating on persona prompts.

Example:
  soulfeed testgen user-123 visual-dreams --type dream_image`,
	Args: cobra.ExactArgs(2),
	RunE: runTestgen,
}

func init() {
	testgenCmd.Flags().StringVarP(&testgenType, "type", "t", "", "post type (default: random)")
	rootCmd.AddCommand(testgenCmd)
}

func runTestgen(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	userID, posterID := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForGeneration(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	post, err := newOrchestrator(cfg, store).RunSingle(ctx, userID, posterID, testgenType)
	if err != nil {
		return fmt.Errorf("generate post: %w", err)
	}

	fmt.Printf("Poster:    %s\n", post.PosterID)
	fmt.Printf("Post type: %s\n", post.PostType)
	fmt.Printf("\n%s\n", post.Content)
	if post.ImageURL != "" {
		fmt.Printf("\nImage: %s\n", post.ImageURL)
	}
	if len(post.Citations) > 0 {
		fetcher := preview.NewFetcher(preview.Config{TTL: cfg.PreviewCacheTTL})
		for _, c := range post.Citations {
			fmt.Printf("\nSource: %s\n", c)
			p, err := fetcher.Fetch(ctx, c)
			if err != nil {
				slog.Debug("link preview failed", "url", c, "error", err)
				continue
			}
			fmt.Printf("  %s", p.Title)
			if p.SiteName != "" {
				fmt.Printf(" — %s", p.SiteName)
			}
			fmt.Println()
			if p.Description != "" {
				fmt.Printf("  %s\n", p.Description)
			}
		}
	}
	return nil
}
