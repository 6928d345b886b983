// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package devserver

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/goalcast/pkg/types"
)

//go:embed default_fixtures.yaml
var defaultFixtures []byte

// CannedPrediction is a fixed answer for one pairing.
type CannedPrediction struct {
	TeamAID string                 `yaml:"team_a_id"`
	TeamBID string                 `yaml:"team_b_id"`
	Result  types.PredictionResult `yaml:"result"`
}

// Fixtures is the data served by the development server.
type Fixtures struct {
	// Latency delays every response, to make debouncing visible.
	Latency     time.Duration      `yaml:"latency"`
	Teams       []types.Team       `yaml:"teams"`
	Predictions []CannedPrediction `yaml:"predictions"`
}

// ParseFixtures decodes a fixture document.
func ParseFixtures(data []byte) (Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return Fixtures{}, fmt.Errorf("parsing fixtures: %w", err)
	}
	for i, t := range fx.Teams {
		if strings.TrimSpace(t.ID) == "" {
			return Fixtures{}, fmt.Errorf("fixture team %d (%q) has no id", i, t.Name)
		}
	}
	if fx.Latency < 0 {
		return Fixtures{}, fmt.Errorf("negative fixture latency %v", fx.Latency)
	}
	return fx, nil
}

// LoadFixtures reads fixtures from path. An empty path selects the
// built-in set.
func LoadFixtures(path string) (Fixtures, error) {
	if path == "" {
		return ParseFixtures(defaultFixtures)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("reading fixtures %s: %w", path, err)
	}
	return ParseFixtures(data)
}

// Team returns the fixture team with id.
func (fx Fixtures) Team(id string) (types.Team, bool) {
	for _, t := range fx.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return types.Team{}, false
}

// Search returns teams whose name contains query, ignoring case, in
// fixture order.
func (fx Fixtures) Search(query string) []types.Team {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []types.Team{}
	if q == "" {
		return out
	}
	for _, t := range fx.Teams {
		if strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, t)
		}
	}
	return out
}

// Prediction returns the canned result for the pairing, if any.
func (fx Fixtures) Prediction(teamA, teamB string) (types.PredictionResult, bool) {
	for _, p := range fx.Predictions {
		if p.TeamAID == teamA && p.TeamBID == teamB {
			return p.Result, true
		}
	}
	return types.PredictionResult{}, false
}
