package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var searchCmd = &cobra.Command{
	Use:   "search <team name>",
	Short: "Search teams by name",
	Long: `Search sends one team search to the prediction service and prints the
matches with their identifiers, in the order the service returned them.
The identifiers can be passed to predict --team-a/--team-b.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(args, " "))
	if minLen := cfg.Picker.MinQueryLength; utf8.RuneCountInString(query) < minLen {
		return fmt.Errorf("query must be at least %d characters", minLen)
	}

	client, err := newClient(cfg.Search)
	if err != nil {
		return err
	}
	teams, err := client.SearchTeams(context.Background(), query)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(teams)
	}
	if len(teams) == 0 {
		fmt.Println("No teams found.")
		return nil
	}
	for _, t := range teams {
		if t.Country != "" {
			fmt.Printf("%-8s %s (%s)\n", t.ID, t.Name, t.Country)
		} else {
			fmt.Printf("%-8s %s\n", t.ID, t.Name)
		}
	}
	return nil
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
