package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yellowpill/soulfeed/internal/config"
)

var postersCmd = &cobra.Command{
	Use:   "posters",
	Short: "Manage the poster roster",
}

var postersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active posters",
	RunE:  runPostersList,
}

var postersDisableCmd = &cobra.Command{
	Use:   "disable [poster-id]",
	Short: "Deactivate a poster",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setPosterActive(args[0], false) },
}

var postersEnableCmd = &cobra.Command{
	Use:   "enable [poster-id]",
	Short: "Reactivate a poster",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setPosterActive(args[0], true) },
}

func init() {
	postersCmd.AddCommand(postersListCmd, postersDisableCmd, postersEnableCmd)
	rootCmd.AddCommand(postersCmd)
}

func runPostersList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	posters, err := store.ListActivePosters(ctx)
	if err != nil {
		return fmt.Errorf("list posters: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPES\tTAGLINE")
	for _, p := range posters {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.ID, p.Name, len(p.PostTypes), p.Tagline)
	}
	return w.Flush()
}

func setPosterActive(posterID string, active bool) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SetPosterActive(ctx, posterID, active); err != nil {
		return fmt.Errorf("update poster: %w", err)
	}

	state := "disabled"
	if active {
		state = "enabled"
	}
	fmt.Printf("Poster %s %s\n", posterID, state)
	return nil
}
