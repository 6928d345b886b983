// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package picker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/goalcast/pkg/types"
)

// --- helpers ---

func newForm(t *testing.T, opts Options) *Form {
	t.Helper()
	f, err := New(opts)
	require.NoError(t, err)
	return f
}

var (
	madrid    = types.Team{ID: "86", Name: "Real Madrid CF"}
	barcelona = types.Team{ID: "81", Name: "FC Barcelona"}
	palace    = types.Team{ID: "354", Name: "Crystal Palace FC"}
)

// search arms a timer for side, fires it, and delivers teams.
func search(t *testing.T, f *Form, side Side, query string, teams ...types.Team) {
	t.Helper()
	step := f.Input(side, query)
	require.NotNil(t, step.Timer)
	req, ok := f.Fire(*step.Timer)
	require.True(t, ok)
	require.True(t, f.Deliver(req.Respond(teams, nil)))
}

// --- construction ---

func TestNew_Defaults(t *testing.T) {
	f := newForm(t, Options{})
	opts := f.Options()
	assert.Equal(t, DefaultDebounce, opts.Debounce)
	assert.Equal(t, DefaultMinQueryLength, opts.MinQueryLength)
	assert.Equal(t, types.TimerPerSide, opts.TimerMode)
}

func TestNew_RejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative debounce", Options{Debounce: -time.Second}},
		{"negative min length", Options{MinQueryLength: -1}},
		{"unknown timer mode", Options{TimerMode: "global"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(types.PickerConfig{
		Debounce:       time.Second,
		MinQueryLength: 4,
		TimerMode:      types.TimerShared,
	})
	assert.Equal(t, Options{Debounce: time.Second, MinQueryLength: 4, TimerMode: types.TimerShared}, opts)
}

// --- debounced search driver ---

func TestInput_ShortQueryClearsWithoutRequest(t *testing.T) {
	for _, q := range []string{"", "a", "ab", "  ab  ", "\tr\n"} {
		t.Run(q, func(t *testing.T) {
			f := newForm(t, Options{})
			search(t, f, SideA, "real", madrid)
			require.True(t, f.Lane(SideA).Results.Visible())

			step := f.Input(SideA, q)
			assert.Nil(t, step.Timer)
			assert.True(t, step.Cleared)
			assert.False(t, f.Lane(SideA).Results.Visible())
			assert.False(t, f.Lane(SideA).Pending)
		})
	}
}

func TestInput_ArmsTimerWithTrimmedQuery(t *testing.T) {
	f := newForm(t, Options{})
	step := f.Input(SideA, "  real  ")
	require.NotNil(t, step.Timer)
	assert.Equal(t, "real", step.Timer.Query)
	assert.Equal(t, 300*time.Millisecond, step.Timer.Delay)
	assert.Equal(t, SideA, step.Timer.Side)
	assert.Equal(t, "  real  ", f.Lane(SideA).Query)
	assert.True(t, f.Lane(SideA).Pending)
}

func TestInput_CountsRunesNotBytes(t *testing.T) {
	f := newForm(t, Options{})
	step := f.Input(SideA, "éé")
	assert.Nil(t, step.Timer, "two runes are below the minimum even though they are four bytes")
}

func TestFire_OnlyLastKeystrokeFires(t *testing.T) {
	f := newForm(t, Options{})
	first := f.Input(SideA, "rea")
	second := f.Input(SideA, "real")

	_, ok := f.Fire(*first.Timer)
	assert.False(t, ok, "re-armed timer must not fire")

	req, ok := f.Fire(*second.Timer)
	require.True(t, ok)
	assert.Equal(t, "real", req.Query)
	assert.Equal(t, SideA, req.Side)

	_, ok = f.Fire(*second.Timer)
	assert.False(t, ok, "a timer fires at most once")
}

func TestFire_PerSideTimersAreIndependent(t *testing.T) {
	f := newForm(t, Options{})
	a := f.Input(SideA, "real")
	b := f.Input(SideB, "barc")

	reqA, ok := f.Fire(*a.Timer)
	require.True(t, ok)
	assert.Equal(t, "real", reqA.Query)

	reqB, ok := f.Fire(*b.Timer)
	require.True(t, ok)
	assert.Equal(t, "barc", reqB.Query)
}

func TestFire_SharedTimerCancelsOtherSide(t *testing.T) {
	f := newForm(t, Options{TimerMode: types.TimerShared})
	a := f.Input(SideA, "real")
	require.True(t, f.Lane(SideA).Pending)

	b := f.Input(SideB, "barc")
	assert.False(t, f.Lane(SideA).Pending)
	assert.True(t, f.Lane(SideB).Pending)

	_, ok := f.Fire(*a.Timer)
	assert.False(t, ok, "arming side B cancels side A's pending search")

	req, ok := f.Fire(*b.Timer)
	require.True(t, ok)
	assert.Equal(t, SideB, req.Side)
}

func TestFire_SharedTimerShortQueryCancelsOtherSide(t *testing.T) {
	f := newForm(t, Options{TimerMode: types.TimerShared})
	a := f.Input(SideA, "real")
	f.Input(SideB, "b")

	_, ok := f.Fire(*a.Timer)
	assert.False(t, ok)
}

func TestFire_PerSideShortQueryLeavesOtherSide(t *testing.T) {
	f := newForm(t, Options{})
	a := f.Input(SideA, "real")
	f.Input(SideB, "b")

	_, ok := f.Fire(*a.Timer)
	assert.True(t, ok)
}

func TestFire_RejectsInvalidSide(t *testing.T) {
	f := newForm(t, Options{})
	_, ok := f.Fire(Timer{Side: Side(7), Tag: 1})
	assert.False(t, ok)
}

// --- responses ---

func TestDeliver_ReplacesResultsInOrder(t *testing.T) {
	f := newForm(t, Options{})
	search(t, f, SideA, "club", palace, madrid, barcelona)

	res := f.Lane(SideA).Results
	assert.Equal(t, ResultsListed, res.State)
	assert.Equal(t, []types.Team{palace, madrid, barcelona}, res.Teams)
	assert.False(t, f.Lane(SideB).Results.Visible())
}

func TestDeliver_EmptyListIsStillListed(t *testing.T) {
	f := newForm(t, Options{})
	search(t, f, SideA, "zzzz")
	assert.Equal(t, ResultsListed, f.Lane(SideA).Results.State)
	assert.Empty(t, f.Lane(SideA).Results.Teams)
}

func TestDeliver_FailureShowsNotice(t *testing.T) {
	f := newForm(t, Options{})
	search(t, f, SideA, "real", madrid)

	step := f.Input(SideA, "reall")
	req, ok := f.Fire(*step.Timer)
	require.True(t, ok)

	boom := errors.New("connection refused")
	require.True(t, f.Deliver(req.Respond(nil, boom)))

	res := f.Lane(SideA).Results
	assert.Equal(t, ResultsFailed, res.State)
	assert.Equal(t, SearchErrorNotice, res.Notice)
	assert.ErrorIs(t, res.Err, boom)
	assert.True(t, res.Visible(), "a failure is never silently empty")
}

func TestDeliver_DiscardsStaleGeneration(t *testing.T) {
	f := newForm(t, Options{})
	first := f.Input(SideA, "real")
	oldReq, ok := f.Fire(*first.Timer)
	require.True(t, ok)

	second := f.Input(SideA, "barc")
	newReq, ok := f.Fire(*second.Timer)
	require.True(t, ok)
	require.Greater(t, newReq.Generation, oldReq.Generation)

	require.True(t, f.Deliver(newReq.Respond([]types.Team{barcelona}, nil)))
	assert.False(t, f.Deliver(oldReq.Respond([]types.Team{madrid}, nil)), "older response resolved late")
	assert.Equal(t, []types.Team{barcelona}, f.Lane(SideA).Results.Teams)
}

func TestDeliver_OldResponseBeforeNewOneIsDiscarded(t *testing.T) {
	f := newForm(t, Options{})
	first := f.Input(SideA, "real")
	oldReq, _ := f.Fire(*first.Timer)
	second := f.Input(SideA, "barc")
	newReq, _ := f.Fire(*second.Timer)

	assert.False(t, f.Deliver(oldReq.Respond([]types.Team{madrid}, nil)))
	assert.False(t, f.Lane(SideA).Results.Visible())
	assert.True(t, f.Lane(SideA).InFlight)
	assert.True(t, f.Deliver(newReq.Respond([]types.Team{barcelona}, nil)))
}

func TestDeliver_ShortQueryInvalidatesInFlight(t *testing.T) {
	f := newForm(t, Options{})
	step := f.Input(SideA, "real")
	req, _ := f.Fire(*step.Timer)

	f.Input(SideA, "re")
	assert.False(t, f.Deliver(req.Respond([]types.Team{madrid}, nil)))
	assert.False(t, f.Lane(SideA).Results.Visible())
}

func TestDeliver_SidesHaveSeparateGenerations(t *testing.T) {
	f := newForm(t, Options{})
	a := f.Input(SideA, "real")
	reqA, _ := f.Fire(*a.Timer)
	b := f.Input(SideB, "barc")
	reqB, _ := f.Fire(*b.Timer)

	assert.True(t, f.Deliver(reqB.Respond([]types.Team{barcelona}, nil)))
	assert.True(t, f.Deliver(reqA.Respond([]types.Team{madrid}, nil)))
	assert.Equal(t, []types.Team{madrid}, f.Lane(SideA).Results.Teams)
	assert.Equal(t, []types.Team{barcelona}, f.Lane(SideB).Results.Teams)
}

// --- selection manager ---

func TestCommitResult_SetsSelectionAndClearsSearch(t *testing.T) {
	f := newForm(t, Options{})
	search(t, f, SideB, "barc", barcelona)
	search(t, f, SideA, "real", palace, madrid)
	before := f.Lane(SideB)

	team, err := f.CommitResult(SideA, 1)
	require.NoError(t, err)
	assert.Equal(t, madrid, team)

	lane := f.Lane(SideA)
	assert.Equal(t, "86", lane.Value)
	assert.Equal(t, Selection{ID: "86", Name: "Real Madrid CF"}, lane.Selection)
	assert.Empty(t, lane.Query)
	assert.False(t, lane.Results.Visible())

	assert.Equal(t, before, f.Lane(SideB), "the other side is never mutated")
}

func TestCommitResult_OutOfRange(t *testing.T) {
	f := newForm(t, Options{})
	_, err := f.CommitResult(SideA, 0)
	assert.ErrorIs(t, err, ErrNoResult)

	search(t, f, SideA, "real", madrid)
	_, err = f.CommitResult(SideA, 1)
	assert.ErrorIs(t, err, ErrNoResult)
	_, err = f.CommitResult(SideA, -1)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestCommit_RejectsEmptyID(t *testing.T) {
	f := newForm(t, Options{})
	assert.ErrorIs(t, f.Commit(SideA, types.Team{Name: "Nameless"}), ErrEmptyTeamID)
	assert.Empty(t, f.Lane(SideA).Value)
}

func TestCommit_DropsLateResponseAndPendingTimer(t *testing.T) {
	f := newForm(t, Options{})
	search(t, f, SideA, "real", madrid)
	inflight := f.Input(SideA, "reala")
	req, _ := f.Fire(*inflight.Timer)
	pending := f.Input(SideA, "realm")

	_, err := f.CommitResult(SideA, 0)
	require.NoError(t, err)

	assert.False(t, f.Deliver(req.Respond([]types.Team{palace}, nil)))
	_, ok := f.Fire(*pending.Timer)
	assert.False(t, ok)
	assert.False(t, f.Lane(SideA).Results.Visible())
}

func TestCommit_SharedModeKeepsOtherSidesTimer(t *testing.T) {
	f := newForm(t, Options{TimerMode: types.TimerShared})
	search(t, f, SideA, "real", madrid)
	b := f.Input(SideB, "barc")

	_, err := f.CommitResult(SideA, 0)
	require.NoError(t, err)

	_, ok := f.Fire(*b.Timer)
	assert.True(t, ok)
}

func TestClear_EmptiesSelectionAndDisablesSubmit(t *testing.T) {
	f := newForm(t, Options{})
	require.NoError(t, f.Commit(SideA, madrid))
	require.NoError(t, f.Commit(SideB, barcelona))
	require.True(t, f.Ready())

	assert.False(t, f.Clear(SideA))
	lane := f.Lane(SideA)
	assert.Empty(t, lane.Value)
	assert.True(t, lane.Selection.IsZero())
	assert.Equal(t, "81", f.Lane(SideB).Value)

	assert.False(t, f.Clear(SideB))
	assert.False(t, f.Ready())
}

func TestDismissOutside(t *testing.T) {
	tests := []struct {
		name        string
		focus       Focus
		wantVisible [2]bool
	}{
		{"focus elsewhere hides both", Focus{Zone: ZoneElsewhere}, [2]bool{false, false}},
		{"focus on A search keeps A", Focus{Side: SideA, Zone: ZoneSearch}, [2]bool{true, false}},
		{"focus on A results keeps A", Focus{Side: SideA, Zone: ZoneResults}, [2]bool{true, false}},
		{"focus on B search keeps B", Focus{Side: SideB, Zone: ZoneSearch}, [2]bool{false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newForm(t, Options{})
			require.NoError(t, f.Commit(SideA, palace))
			search(t, f, SideA, "real", madrid)
			search(t, f, SideB, "barc", barcelona)

			f.DismissOutside(tt.focus)
			assert.Equal(t, tt.wantVisible[0], f.Lane(SideA).Results.Visible())
			assert.Equal(t, tt.wantVisible[1], f.Lane(SideB).Results.Visible())
			assert.Equal(t, "354", f.Lane(SideA).Value, "dismissal never changes a selection")
		})
	}
}

// --- readiness gate ---

func TestReady(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"both empty", "", "", false},
		{"only A", "42", "", false},
		{"only B", "", "7", false},
		{"both set", "42", "7", true},
		{"whitespace is empty", "42", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newForm(t, Options{})
			f.SetValue(SideA, tt.a)
			got := f.SetValue(SideB, tt.b)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, f.Ready())
		})
	}
}

func TestSetValue_ManualSelection(t *testing.T) {
	f := newForm(t, Options{})
	f.SetValue(SideA, " 42 ")
	assert.Equal(t, Selection{ID: "42", Manual: true}, f.Lane(SideA).Selection)
	assert.Equal(t, "42", f.Lane(SideA).Value)

	f.SetValue(SideA, "")
	assert.True(t, f.Lane(SideA).Selection.IsZero())
}

func TestRequest(t *testing.T) {
	f := newForm(t, Options{})
	_, err := f.Request(false)
	require.ErrorIs(t, err, ErrNotReady)

	require.NoError(t, f.Commit(SideA, madrid))
	_, err = f.Request(false)
	require.ErrorIs(t, err, ErrNotReady)

	f.SetValue(SideB, "81")
	f.SetThreshold("2.3")

	req, err := f.Request(true)
	require.NoError(t, err)
	assert.Equal(t, types.PredictionRequest{
		TeamAID:       "86",
		TeamAName:     "Real Madrid CF",
		TeamBID:       "81",
		GoalThreshold: "2.5",
		NeutralVenue:  true,
	}, req)
}

// --- sides ---

func TestParseSide(t *testing.T) {
	for in, want := range map[string]Side{"a": SideA, "B": SideB, "team_a": SideA, " b ": SideB} {
		got, err := ParseSide(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSide("c")
	assert.Error(t, err)
	assert.Equal(t, SideB, SideA.Other())
	assert.Equal(t, "B", SideB.String())
}
