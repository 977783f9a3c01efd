package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yellowpill/soulfeed/internal/config"
	"github.com/yellowpill/soulfeed/internal/intake"
	"github.com/yellowpill/soulfeed/internal/llm"
)

var intakeCmd = &cobra.Command{
	Use:   "intake [user-id] [answers.json]",
	Short: "Build a Soul Manifest from onboarding answers",
	Long: `Parse a JSON file of onboarding question/answer pairs into a Soul
Manifest and store it. The file maps questions to free-text answers:

  {"What do you love doing?": "Restoring old furniture...", ...}

Example:
  soulfeed intake user-123 answers.json`,
	Args: cobra.ExactArgs(2),
	RunE: runIntake,
}

func init() {
	rootCmd.AddCommand(intakeCmd)
}

func runIntake(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	userID, path := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForGeneration(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read answers file: %w", err)
	}
	var answers map[string]string
	if err := json.Unmarshal(raw, &answers); err != nil {
		return fmt.Errorf("parse answers file: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	client := llm.New(llm.Config{APIKey: cfg.XAIAPIKey, BaseURL: cfg.XAIBaseURL})
	parser := intake.NewParser(client)

	slog.Info("building manifest", "user_id", userID, "answers", len(answers))
	m, err := parser.ParseOnboarding(ctx, userID, answers)
	if err != nil {
		return fmt.Errorf("parse onboarding: %w", err)
	}

	if err := store.SaveManifest(ctx, m); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}

	fmt.Printf("Manifest %s created for user %s\n", m.ID, userID)
	return nil
}
