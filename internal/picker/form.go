// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package picker implements the two-sided team picker behind the prediction
// form: debounced search per side, result selection, and the readiness gate
// that enables submission.
//
// The Form performs no I/O and owns no clocks. Each operation returns the
// next step for the caller's event loop (arm a timer, issue a request) and
// the loop feeds the outcome back in (Fire, Deliver). A Form is not safe for
// concurrent use.
package picker

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/goalcast/pkg/types"
)

const (
	// DefaultDebounce is the quiet period before a query is sent.
	DefaultDebounce = 300 * time.Millisecond

	// DefaultMinQueryLength is the shortest trimmed query that is searched.
	DefaultMinQueryLength = 3
)

var (
	// ErrInvalidOptions is returned by New for unusable options.
	ErrInvalidOptions = errors.New("invalid picker options")

	// ErrNoResult is returned when committing a result that is not listed.
	ErrNoResult = errors.New("no such search result")

	// ErrEmptyTeamID is returned when committing a team without identifier.
	ErrEmptyTeamID = errors.New("team has no identifier")

	// ErrNotReady is returned by Request until both teams are selected.
	ErrNotReady = errors.New("both teams must be selected")
)

// Options configures a Form. Zero values take the defaults.
type Options struct {
	Debounce       time.Duration
	MinQueryLength int
	TimerMode      types.TimerMode
}

// OptionsFromConfig converts the picker section of the configuration.
func OptionsFromConfig(cfg types.PickerConfig) Options {
	return Options{
		Debounce:       cfg.Debounce,
		MinQueryLength: cfg.MinQueryLength,
		TimerMode:      cfg.TimerMode,
	}
}

// Timer is a debounce timer armed by Input. The caller waits Delay and then
// passes it back to Fire.
type Timer struct {
	Side  Side
	Tag   uint64
	Query string
	Delay time.Duration
}

// Step tells the event loop what to do after an input event.
type Step struct {
	// Timer is set when a search should fire after Timer.Delay.
	Timer *Timer

	// Cleared is set when the query was too short and the side's results
	// were cleared instead.
	Cleared bool
}

// Request is a search that should be sent to the search endpoint now.
type Request struct {
	Side       Side
	Query      string
	Generation uint64
}

// Response carries the outcome of a Request back into the Form.
type Response struct {
	Side       Side
	Generation uint64
	Teams      []types.Team
	Err        error
}

// Respond builds the Response for r.
func (r Request) Respond(teams []types.Team, err error) Response {
	return Response{Side: r.Side, Generation: r.Generation, Teams: teams, Err: err}
}

type lane struct {
	query     string
	results   Results
	selection Selection
	value     string

	// tag and armed track this side's own debounce timer (per-side mode).
	tag   uint64
	armed bool

	generation uint64
	inFlight   bool
}

// Form is the picker state for both sides plus the goal threshold.
type Form struct {
	opts  Options
	lanes [2]lane
	seq   uint64

	// Shared timer slot, used only in TimerShared mode.
	sharedTag   uint64
	sharedOwner Side
	sharedArmed bool

	threshold string
}

// New validates opts and returns an empty Form.
func New(opts Options) (*Form, error) {
	if opts.Debounce < 0 {
		return nil, fmt.Errorf("%w: negative debounce %v", ErrInvalidOptions, opts.Debounce)
	}
	if opts.MinQueryLength < 0 {
		return nil, fmt.Errorf("%w: negative minimum query length %d", ErrInvalidOptions, opts.MinQueryLength)
	}
	if opts.Debounce == 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinQueryLength == 0 {
		opts.MinQueryLength = DefaultMinQueryLength
	}
	switch opts.TimerMode {
	case "":
		opts.TimerMode = types.TimerPerSide
	case types.TimerPerSide, types.TimerShared:
	default:
		return nil, fmt.Errorf("%w: unknown timer mode %q", ErrInvalidOptions, opts.TimerMode)
	}
	return &Form{opts: opts}, nil
}

// Options returns the effective options after defaults.
func (f *Form) Options() Options { return f.opts }

func (f *Form) lane(side Side) *lane {
	if !side.valid() {
		panic(fmt.Sprintf("picker: invalid side %d", int(side)))
	}
	return &f.lanes[side]
}

// Input records raw text typed into side's search field. Any pending timer
// is cancelled first (in shared mode this is the single slot, whichever
// side armed it). Short queries clear the side's results; longer ones arm
// a new timer.
func (f *Form) Input(side Side, raw string) Step {
	l := f.lane(side)
	l.query = raw

	if f.opts.TimerMode == types.TimerShared {
		f.sharedArmed = false
	} else {
		l.armed = false
	}

	q := strings.TrimSpace(raw)
	if utf8.RuneCountInString(q) < f.opts.MinQueryLength {
		l.results = Results{}
		f.invalidate(side)
		return Step{Cleared: true}
	}

	f.seq++
	t := Timer{Side: side, Tag: f.seq, Query: q, Delay: f.opts.Debounce}
	if f.opts.TimerMode == types.TimerShared {
		f.sharedTag, f.sharedOwner, f.sharedArmed = t.Tag, side, true
	} else {
		l.tag, l.armed = t.Tag, true
	}
	return Step{Timer: &t}
}

// Fire is called when a timer's delay has elapsed. It reports false if the
// timer was cancelled or re-armed meanwhile; otherwise it returns the
// request to send and starts a new generation for the side.
func (f *Form) Fire(t Timer) (Request, bool) {
	if !t.Side.valid() || !f.timerCurrent(t) {
		return Request{}, false
	}
	f.cancelTimer(t.Side)

	l := f.lane(t.Side)
	l.generation++
	l.inFlight = true
	return Request{Side: t.Side, Query: t.Query, Generation: l.generation}, true
}

func (f *Form) timerCurrent(t Timer) bool {
	if f.opts.TimerMode == types.TimerShared {
		return f.sharedArmed && f.sharedTag == t.Tag && f.sharedOwner == t.Side
	}
	l := f.lane(t.Side)
	return l.armed && l.tag == t.Tag
}

// cancelTimer disarms side's own timer. In shared mode the slot is only
// touched when side owns it.
func (f *Form) cancelTimer(side Side) {
	if f.opts.TimerMode == types.TimerShared {
		if f.sharedOwner == side {
			f.sharedArmed = false
		}
		return
	}
	f.lane(side).armed = false
}

// invalidate makes any in-flight response for side stale.
func (f *Form) invalidate(side Side) {
	l := f.lane(side)
	l.generation++
	l.inFlight = false
}

// Deliver applies a search response. Responses from an older generation
// are discarded and Deliver reports false. A failed search replaces the
// results with an error notice.
func (f *Form) Deliver(r Response) bool {
	if !r.Side.valid() {
		return false
	}
	l := f.lane(r.Side)
	if !l.inFlight || r.Generation != l.generation {
		return false
	}
	l.inFlight = false

	if r.Err != nil {
		l.results = Results{State: ResultsFailed, Notice: SearchErrorNotice, Err: r.Err}
		return true
	}
	teams := make([]types.Team, len(r.Teams))
	copy(teams, r.Teams)
	l.results = Results{State: ResultsListed, Teams: teams}
	return true
}

// Commit makes team the selection for side: its identifier becomes the
// side's value, and the search text and results are cleared. The other
// side is never touched.
func (f *Form) Commit(side Side, team types.Team) error {
	if strings.TrimSpace(team.ID) == "" {
		return ErrEmptyTeamID
	}
	l := f.lane(side)
	l.value = team.ID
	l.selection = Selection{ID: team.ID, Name: team.Name}
	l.query = ""
	l.results = Results{}
	f.cancelTimer(side)
	f.invalidate(side)
	return nil
}

// CommitResult commits the index-th team currently listed for side.
func (f *Form) CommitResult(side Side, index int) (types.Team, error) {
	l := f.lane(side)
	if l.results.State != ResultsListed || index < 0 || index >= len(l.results.Teams) {
		return types.Team{}, fmt.Errorf("%w: side %s index %d", ErrNoResult, side, index)
	}
	team := l.results.Teams[index]
	if err := f.Commit(side, team); err != nil {
		return types.Team{}, err
	}
	return team, nil
}

// Clear removes side's selection and value, and reports readiness.
func (f *Form) Clear(side Side) bool {
	l := f.lane(side)
	l.value = ""
	l.selection = Selection{}
	return f.Ready()
}

// SetValue stores a directly typed identifier for side, bypassing search,
// and reports readiness. An empty value clears the selection.
func (f *Form) SetValue(side Side, v string) bool {
	l := f.lane(side)
	v = strings.TrimSpace(v)
	l.value = v
	if v == "" {
		l.selection = Selection{}
	} else {
		l.selection = Selection{ID: v, Manual: true}
	}
	return f.Ready()
}

// Zone is a focusable area of one side.
type Zone int

const (
	ZoneElsewhere Zone = iota
	ZoneSearch
	ZoneResults
)

// Focus is where the user's attention moved to.
type Focus struct {
	Side Side
	Zone Zone
}

// DismissOutside hides the results of every side whose search field or
// results list does not hold focus. Selections are left alone.
func (f *Form) DismissOutside(focus Focus) {
	for _, s := range Sides {
		if focus.Zone != ZoneElsewhere && focus.Side == s {
			continue
		}
		f.lane(s).results = Results{}
	}
}

// Ready reports whether both sides have a value, which enables submission.
func (f *Form) Ready() bool {
	return f.lanes[SideA].value != "" && f.lanes[SideB].value != ""
}

// Lane returns a snapshot of side.
func (f *Form) Lane(side Side) Lane {
	l := f.lane(side)
	pending := l.armed
	if f.opts.TimerMode == types.TimerShared {
		pending = f.sharedArmed && f.sharedOwner == side
	}
	return Lane{
		Side:      side,
		Query:     l.query,
		Results:   l.results,
		Selection: l.selection,
		Value:     l.value,
		Pending:   pending,
		InFlight:  l.inFlight,
	}
}

// SetThreshold normalizes raw and stores it as the goal threshold.
func (f *Form) SetThreshold(raw string) string {
	f.threshold = NormalizeThreshold(raw)
	return f.threshold
}

// Threshold returns the stored goal threshold.
func (f *Form) Threshold() string { return f.threshold }

// Request builds the submission for the current state. It fails when the
// form is not ready with ErrNotReady.
func (f *Form) Request(neutral bool) (types.PredictionRequest, error) {
	if !f.Ready() {
		return types.PredictionRequest{}, ErrNotReady
	}
	a, b := f.lanes[SideA], f.lanes[SideB]
	return types.PredictionRequest{
		TeamAID:       a.value,
		TeamAName:     a.selection.Name,
		TeamBID:       b.value,
		TeamBName:     b.selection.Name,
		GoalThreshold: f.threshold,
		NeutralVenue:  neutral,
	}, nil
}
