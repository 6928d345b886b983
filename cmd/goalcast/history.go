// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/goalcast/internal/history"
	"github.com/pdiddy/goalcast/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or export submitted predictions",
	Long: `History lists the most recent predictions submitted from this machine,
newest first. With --export the whole log is written to stdout as YAML,
oldest first.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	export, _ := cmd.Flags().GetBool("export")

	ctx := context.Background()
	store, err := history.Open(ctx, cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	if export {
		return store.ExportYAML(ctx, os.Stdout)
	}

	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No predictions recorded yet.")
		return nil
	}
	for _, e := range entries {
		var extras []string
		if e.GoalThreshold != "" {
			extras = append(extras, "threshold "+e.GoalThreshold)
		}
		if e.NeutralVenue {
			extras = append(extras, "neutral")
		}
		line := fmt.Sprintf("%4d  %s  %s vs %s", e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"),
			teamLabel(e.TeamAID, e.TeamAName), teamLabel(e.TeamBID, e.TeamBName))
		if len(extras) > 0 {
			line += " [" + strings.Join(extras, ", ") + "]"
		}
		if e.Outcome != "" {
			line += "  → " + e.Outcome
		}
		fmt.Println(line)
	}
	return nil
}

func teamLabel(id, name string) string {
	if name == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", name, id)
}

// recordSubmission appends one entry to the history log.
func recordSubmission(ctx context.Context, cfg types.HistoryConfig, e history.Entry) error {
	store, err := history.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	_, err = store.Record(ctx, e)
	return err
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of entries to list (0 for all)")
	historyCmd.Flags().Bool("export", false, "write the full log as YAML to stdout")

	rootCmd.AddCommand(historyCmd)
}
