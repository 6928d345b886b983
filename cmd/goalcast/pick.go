// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/goalcast/internal/history"
	"github.com/pdiddy/goalcast/internal/picker"
	"github.com/pdiddy/goalcast/internal/tui"
	"github.com/pdiddy/goalcast/pkg/types"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Open the interactive prediction form",
	Long: `Pick opens the prediction form in the terminal. Type at least three
characters in a team field to search; results appear once you stop typing.
Use the arrow keys and enter to choose a team, tab to move between fields,
and ctrl+s to submit once both teams are chosen.

With --restore the teams, threshold and venue of the last submission are
filled in.`,
	RunE: runPick,
}

func runPick(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if mode, _ := cmd.Flags().GetString("timer-mode"); mode != "" {
		cfg.Picker.TimerMode = types.TimerMode(mode)
	}
	restoreLast, _ := cmd.Flags().GetBool("restore")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	log, err := openLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Close()

	client, err := newClient(cfg.Search)
	if err != nil {
		return err
	}
	form, err := picker.New(picker.OptionsFromConfig(cfg.Picker))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	tcfg := tui.Config{
		Form:      form,
		Searcher:  client,
		Submitter: client,
		Logger:    log.Logger,
		Context:   ctx,
	}
	if !noHistory {
		store, err := history.Open(ctx, cfg.History)
		if err != nil {
			if restoreLast {
				return err
			}
			log.Warn("history unavailable", "error", err)
			fmt.Fprintf(os.Stderr, "warning: history disabled: %v\n", err)
		} else {
			defer store.Close()
			tcfg.Recorder = store
			if restoreLast {
				last, ok, err := store.Last(ctx)
				if err != nil {
					return err
				}
				if ok {
					req := last.Request()
					tcfg.Restore = &req
				} else {
					fmt.Fprintln(os.Stderr, "No previous prediction to restore.")
				}
			}
		}
	} else if restoreLast {
		return fmt.Errorf("--restore needs history; drop --no-history")
	}

	model, err := tui.New(tcfg)
	if err != nil {
		return err
	}
	log.Info("picker started", "base_url", cfg.Search.BaseURL, "timer_mode", string(form.Options().TimerMode))

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("running picker: %w", err)
	}
	if m, ok := final.(*tui.Model); ok {
		if res, ok := m.Result(); ok {
			printResult(os.Stdout, res, form.Threshold())
		}
	}
	return nil
}

func init() {
	pickCmd.Flags().Bool("restore", false, "pre-fill the form from the last submission")
	pickCmd.Flags().Bool("no-history", false, "do not record submissions")
	pickCmd.Flags().String("timer-mode", "", "debounce timers: per_side or shared (default from config)")

	rootCmd.AddCommand(pickCmd)
}
