// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/pdiddy/goalcast/pkg/types"
)

// printResult writes a plain-text prediction for the shell.
func printResult(w io.Writer, r types.PredictionResult, threshold string) {
	fmt.Fprintf(w, "%s vs %s\n", r.TeamAName, r.TeamBName)
	if r.MostLikelyScore != "" {
		fmt.Fprintf(w, "  expected goals:    %.2f - %.2f\n", r.TeamAExpectedGoals, r.TeamBExpectedGoals)
		fmt.Fprintf(w, "  most likely score: %s\n", r.MostLikelyScore)
		fmt.Fprintf(w, "  most likely total: %d\n", r.MostLikelyTotal)
		if threshold != "" {
			fmt.Fprintf(w, "  over %s goals:     %.2f%%\n", threshold, r.OverProbability)
		}
		for _, s := range r.Scores {
			fmt.Fprintf(w, "    %-6s %6.2f%%\n", s.Score, s.Probability)
		}
	}
	if r.Summary != "" {
		fmt.Fprintln(w, r.Summary)
	}
}
