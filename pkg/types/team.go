// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines data structures shared by the goalcast client,
// its collaborators, and the development server.
package types

// Team is a candidate returned by the team search endpoint.
type Team struct {
	// ID is the opaque team identifier submitted with the prediction form.
	ID string `json:"id" yaml:"id"`

	// Name is the display name shown in results and selection cards.
	Name string `json:"name" yaml:"name"`

	// Country is the team's area, when the endpoint provides one.
	Country string `json:"country,omitempty" yaml:"country,omitempty"`

	// Crest is a URL to the team's badge, when the endpoint provides one.
	Crest string `json:"crest,omitempty" yaml:"crest,omitempty"`
}
