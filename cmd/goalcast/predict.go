// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/goalcast/internal/history"
	"github.com/pdiddy/goalcast/internal/picker"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Submit a prediction for two team identifiers",
	Long: `Predict submits the prediction form without the interactive picker.
Team identifiers come from the search command. The goal threshold is
rounded to the nearest half goal, as in the form.`,
	RunE: runPredict,
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	teamA, _ := cmd.Flags().GetString("team-a")
	teamB, _ := cmd.Flags().GetString("team-b")
	threshold, _ := cmd.Flags().GetString("threshold")
	neutral, _ := cmd.Flags().GetBool("neutral")
	noHistory, _ := cmd.Flags().GetBool("no-history")
	asJSON, _ := cmd.Flags().GetBool("json")

	form, err := picker.New(picker.OptionsFromConfig(cfg.Picker))
	if err != nil {
		return err
	}
	form.SetValue(picker.SideA, teamA)
	form.SetValue(picker.SideB, teamB)
	form.SetThreshold(threshold)
	req, err := form.Request(neutral)
	if errors.Is(err, picker.ErrNotReady) {
		return fmt.Errorf("--team-a and --team-b are required: %w", err)
	}
	if err != nil {
		return err
	}

	log, err := openLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Close()

	client, err := newClient(cfg.Search)
	if err != nil {
		return err
	}

	ctx := context.Background()
	res, submitErr := client.Submit(ctx, req)
	log.Info("prediction submitted", "team_a", req.TeamAID, "team_b", req.TeamBID, "goal_threshold", req.GoalThreshold, "error", submitErr)

	if !noHistory {
		if err := recordSubmission(ctx, cfg.History, history.EntryFor(req, history.Outcome(res, submitErr))); err != nil {
			log.Warn("recording prediction", "error", err)
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
	if submitErr != nil {
		return submitErr
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResult(os.Stdout, res, req.GoalThreshold)
	return nil
}

func init() {
	predictCmd.Flags().String("team-a", "", "identifier of the first team")
	predictCmd.Flags().String("team-b", "", "identifier of the second team")
	predictCmd.Flags().String("threshold", "", "goal threshold, e.g. 2.5")
	predictCmd.Flags().Bool("neutral", false, "the match is played at a neutral venue")
	predictCmd.Flags().Bool("no-history", false, "do not record the submission")
	predictCmd.Flags().Bool("json", false, "output the prediction as JSON")

	rootCmd.AddCommand(predictCmd)
}
