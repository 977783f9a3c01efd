package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yellowpill/soulfeed/internal/config"
	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/soul"
)

var summariesForce bool

var summariesCmd = &cobra.Command{
	Use:   "summaries [user-id]",
	Short: "Show or regenerate a user's soul summaries",
	Long: `Print the cached soul summaries for a user. With --force the four
angle summaries are regenerated from the manifest and re-cached.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummaries,
}

func init() {
	summariesCmd.Flags().BoolVar(&summariesForce, "force", false, "regenerate summaries from the manifest")
	rootCmd.AddCommand(summariesCmd)
}

func runSummaries(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	userID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if summariesForce {
		err = cfg.ValidateForGeneration()
	} else {
		err = cfg.Validate()
	}
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var summaries *soul.Summaries
	if summariesForce {
		m, err := store.GetManifest(ctx, userID)
		if err != nil {
			return fmt.Errorf("load manifest: %w", err)
		}
		client := llm.New(llm.Config{APIKey: cfg.XAIAPIKey, BaseURL: cfg.XAIBaseURL})
		summaries, err = soul.NewGenerator(client).GenerateAll(ctx, m)
		if err != nil {
			return fmt.Errorf("generate summaries: %w", err)
		}
		if err := store.SaveSoulSummaries(ctx, userID, summaries); err != nil {
			return fmt.Errorf("save summaries: %w", err)
		}
	} else {
		summaries, err = store.GetSoulSummaries(ctx, userID)
		if err != nil {
			return fmt.Errorf("load summaries: %w", err)
		}
	}

	fmt.Printf("Generated at: %s\n", summaries.GeneratedAt.Format("2006-01-02 15:04"))
	for _, info := range soul.Angles {
		text, ok := summaries.Summaries[info.Angle]
		if !ok {
			continue
		}
		fmt.Printf("\n=== %s ===\n%s\n", info.Name, text)
	}
	return nil
}
