// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package picker

import (
	"fmt"
	"strings"

	"github.com/pdiddy/goalcast/pkg/types"
)

// Side identifies one of the two symmetric team lanes of the form.
type Side int

const (
	SideA Side = iota
	SideB
)

// Sides lists both lanes in display order.
var Sides = [2]Side{SideA, SideB}

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Other returns the opposite lane.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// ParseSide accepts "a", "b", "A", "B" (and "team_a"/"team_b").
func ParseSide(v string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "a", "team_a":
		return SideA, nil
	case "b", "team_b":
		return SideB, nil
	}
	return 0, fmt.Errorf("unknown side %q", v)
}

func (s Side) valid() bool { return s == SideA || s == SideB }

// Selection is the committed team for a side.
type Selection struct {
	ID   string
	Name string

	// Manual is set when the identifier was typed directly rather than
	// chosen from search results.
	Manual bool
}

// IsZero reports whether nothing is selected.
func (s Selection) IsZero() bool { return s.ID == "" }

// ResultsState describes what a side's results area currently shows.
type ResultsState int

const (
	// ResultsHidden means the results area is empty.
	ResultsHidden ResultsState = iota

	// ResultsListed means the last delivered response is shown (possibly
	// with zero teams).
	ResultsListed

	// ResultsFailed means the last search failed and an error notice is shown.
	ResultsFailed
)

// SearchErrorNotice is the inline message shown when a search fails.
const SearchErrorNotice = "Error searching for teams"

// Results is the content of a side's results area.
type Results struct {
	State ResultsState
	Teams []types.Team

	// Notice is the visible error text when State is ResultsFailed.
	Notice string

	// Err is the underlying failure, kept for logging.
	Err error
}

// Visible reports whether the results area has anything to show.
func (r Results) Visible() bool { return r.State != ResultsHidden }

// Lane is a read-only snapshot of one side.
type Lane struct {
	Side      Side
	Query     string
	Results   Results
	Selection Selection

	// Value is the identifier that will be submitted for this side.
	Value string

	// Pending reports that a debounce timer is armed for this side.
	Pending bool

	// InFlight reports that a request was issued and not yet delivered.
	InFlight bool
}
