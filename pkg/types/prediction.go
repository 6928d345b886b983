// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PredictionRequest is the form submitted to the prediction service once
// both teams are chosen.
type PredictionRequest struct {
	TeamAID   string `json:"team_a_id" yaml:"team_a_id"`
	TeamAName string `json:"team_a_name,omitempty" yaml:"team_a_name,omitempty"`
	TeamBID   string `json:"team_b_id" yaml:"team_b_id"`
	TeamBName string `json:"team_b_name,omitempty" yaml:"team_b_name,omitempty"`

	// GoalThreshold is the normalized over/under line ("" when unset).
	GoalThreshold string `json:"goal_threshold,omitempty" yaml:"goal_threshold,omitempty"`

	// NeutralVenue reports that neither team plays at home.
	NeutralVenue bool `json:"is_neutral_venue" yaml:"is_neutral_venue"`
}

// ScoreProbability is the chance of one exact final score.
type ScoreProbability struct {
	Score       string  `json:"score" yaml:"score"`
	Probability float64 `json:"probability" yaml:"probability"`
}

// PredictionResult is what the prediction service returned. JSON responses
// fill the structured fields; HTML responses only fill Summary.
type PredictionResult struct {
	TeamAName          string             `json:"team_a_name,omitempty" yaml:"team_a_name,omitempty"`
	TeamBName          string             `json:"team_b_name,omitempty" yaml:"team_b_name,omitempty"`
	TeamAExpectedGoals float64            `json:"team_a_expected_goals,omitempty" yaml:"team_a_expected_goals,omitempty"`
	TeamBExpectedGoals float64            `json:"team_b_expected_goals,omitempty" yaml:"team_b_expected_goals,omitempty"`
	MostLikelyScore    string             `json:"most_likely_score,omitempty" yaml:"most_likely_score,omitempty"`
	MostLikelyTotal    int                `json:"most_likely_total,omitempty" yaml:"most_likely_total,omitempty"`
	OverProbability    float64            `json:"over_probability,omitempty" yaml:"over_probability,omitempty"`
	Scores             []ScoreProbability `json:"scores,omitempty" yaml:"scores,omitempty"`
	Summary            string             `json:"summary,omitempty" yaml:"summary,omitempty"`
}
