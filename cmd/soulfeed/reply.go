package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yellowpill/soulfeed/internal/config"
	"github.com/yellowpill/soulfeed/internal/llm"
	"github.com/yellowpill/soulfeed/internal/reply"
)

var replyCmd = &cobra.Command{
	Use:   "reply [user-id] [post-id] [message...]",
	Short: "Reply to a post and fold what you said into your profile",
	Long: `Send a message in response to one of your posts. The poster answers in
its own voice, and anything new you reveal about yourself is extracted
into your profile.

Example:
  soulfeed reply user-123 post-456 "actually it's Lisbon now, not Porto"`,
	Args: cobra.MinimumNArgs(3),
	RunE: runReply,
}

func init() {
	rootCmd.AddCommand(replyCmd)
}

func runReply(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	userID, postID := args[0], args[1]
	message := strings.Join(args[2:], " ")

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

	responder := reply.New(reply.Config{
		Store: store,
		Client: llm.New(llm.Config{
			APIKey:  cfg.XAIAPIKey,
			BaseURL: cfg.XAIBaseURL,
		}),
		Rand: newRand(),
	})

	out, err := responder.Respond(ctx, userID, postID, message)
	if err != nil {
		return fmt.Errorf("handle reply: %w", err)
	}

	fmt.Println(out.Reply)
	if out.ManifestNote != "" {
		fmt.Printf("\n%s\n", out.ManifestNote)
	}
	return nil
}
