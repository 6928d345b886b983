// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is the terminal front end for the prediction form. It hosts a
// picker.Form inside a bubbletea program: keystrokes feed the form, its
// debounce timers become tea.Tick commands, and searches and submissions
// run as commands whose results come back through Update.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/goalcast/internal/history"
	"github.com/pdiddy/goalcast/internal/picker"
	"github.com/pdiddy/goalcast/pkg/types"
)

// Searcher looks teams up by name.
type Searcher interface {
	SearchTeams(ctx context.Context, query string) ([]types.Team, error)
}

// Submitter sends a completed form.
type Submitter interface {
	Submit(ctx context.Context, req types.PredictionRequest) (types.PredictionResult, error)
}

// Recorder stores submitted predictions.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (int64, error)
}

// Config wires a Model.
type Config struct {
	Form      *picker.Form
	Searcher  Searcher
	Submitter Submitter

	// Recorder is optional; nil disables history.
	Recorder Recorder

	// Logger is optional; nil discards.
	Logger *slog.Logger

	// Restore pre-fills both teams, the threshold and the venue.
	Restore *types.PredictionRequest

	// Context bounds every request; it defaults to context.Background.
	Context context.Context
}

type field int

const (
	fieldTeamA field = iota
	fieldTeamB
	fieldThreshold
	fieldNeutral
	fieldSubmit
	fieldCount
)

func (f field) side() (picker.Side, bool) {
	switch f {
	case fieldTeamA:
		return picker.SideA, true
	case fieldTeamB:
		return picker.SideB, true
	}
	return 0, false
}

// Model is the bubbletea model for the prediction form.
type Model struct {
	ctx       context.Context
	form      *picker.Form
	searcher  Searcher
	submitter Submitter
	recorder  Recorder
	log       *slog.Logger

	inputs    [2]textinput.Model
	threshold textinput.Model
	neutral   bool
	focus     field

	// cursor is the highlighted result per side; -1 means the search
	// field itself.
	cursor  [2]int
	cancels [2]context.CancelFunc

	submitting bool
	result     *types.PredictionResult
	status     string
	statusErr  bool

	keys   keyMap
	help   help.Model
	styles styles
	width  int
}

// New builds a Model. Form, Searcher and Submitter are required.
func New(cfg Config) (*Model, error) {
	switch {
	case cfg.Form == nil:
		return nil, errors.New("tui: picker form is required")
	case cfg.Searcher == nil:
		return nil, errors.New("tui: searcher is required")
	case cfg.Submitter == nil:
		return nil, errors.New("tui: submitter is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}

	m := &Model{
		ctx:       cfg.Context,
		form:      cfg.Form,
		searcher:  cfg.Searcher,
		submitter: cfg.Submitter,
		recorder:  cfg.Recorder,
		log:       cfg.Logger,
		cursor:    [2]int{-1, -1},
		keys:      defaultKeyMap(),
		help:      help.New(),
		styles:    newStyles(),
	}
	for _, s := range picker.Sides {
		m.inputs[s] = newInput("Search team " + s.String() + "...")
	}
	m.threshold = newInput("e.g. 2.5")
	m.threshold.CharLimit = 8

	if r := cfg.Restore; r != nil {
		if err := m.restore(*r); err != nil {
			return nil, err
		}
	}
	m.inputs[picker.SideA].Focus()
	return m, nil
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (m *Model) restore(r types.PredictionRequest) error {
	for _, c := range []struct {
		side     picker.Side
		id, name string
	}{
		{picker.SideA, r.TeamAID, r.TeamAName},
		{picker.SideB, r.TeamBID, r.TeamBName},
	} {
		if c.id == "" {
			continue
		}
		if err := m.form.Commit(c.side, types.Team{ID: c.id, Name: c.name}); err != nil {
			return fmt.Errorf("restoring team %s: %w", c.side, err)
		}
	}
	m.threshold.SetValue(m.form.SetThreshold(r.GoalThreshold))
	m.neutral = r.NeutralVenue
	return nil
}

// Form exposes the underlying picker state.
func (m *Model) Form() *picker.Form { return m.form }

// Result returns the last prediction shown, if any.
func (m *Model) Result() (types.PredictionResult, bool) {
	if m.result == nil {
		return types.PredictionResult{}, false
	}
	return *m.result, true
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case debounceMsg:
		return m, m.fire(msg.timer)
	case searchResultMsg:
		m.deliver(msg.resp)
		return m, nil
	case predictionMsg:
		m.finishSubmit(msg)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) fire(t picker.Timer) tea.Cmd {
	req, ok := m.form.Fire(t)
	if !ok {
		m.log.Debug("debounce timer superseded", "side", t.Side.String(), "query", t.Query)
		return nil
	}
	m.cancelSearch(req.Side)
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancels[req.Side] = cancel
	m.log.Debug("searching teams", "side", req.Side.String(), "query", req.Query, "generation", req.Generation)
	return searchCmd(ctx, m.searcher, req)
}

func (m *Model) deliver(r picker.Response) {
	if !m.form.Deliver(r) {
		m.log.Debug("discarding stale search response", "side", r.Side.String(), "generation", r.Generation)
		return
	}
	m.cancelSearch(r.Side)
	m.cursor[r.Side] = -1
	if r.Err != nil {
		m.log.Warn("team search failed", "side", r.Side.String(), "error", r.Err)
		return
	}
	m.log.Debug("search results", "side", r.Side.String(), "count", len(r.Teams))
}

// cancelSearch aborts side's outstanding request, if any. A cancelled
// request still reports back, but its generation is stale by then.
func (m *Model) cancelSearch(side picker.Side) {
	if cancel := m.cancels[side]; cancel != nil {
		cancel()
		m.cancels[side] = nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		for _, s := range picker.Sides {
			m.cancelSearch(s)
		}
		return tea.Quit
	}

	if m.result != nil {
		if key.Matches(msg, m.keys.Dismiss) || key.Matches(msg, m.keys.Choose) {
			m.result = nil
			m.setStatus("", false)
		}
		return nil
	}
	if m.submitting {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		return m.setFocus((m.focus + 1) % fieldCount)
	case key.Matches(msg, m.keys.Prev):
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Dismiss):
		m.cursor = [2]int{-1, -1}
		m.form.DismissOutside(picker.Focus{Zone: picker.ZoneElsewhere})
		return nil
	}

	if side, ok := m.focus.side(); ok {
		return m.handleSearchKey(side, msg)
	}
	switch m.focus {
	case fieldThreshold:
		before := m.threshold.Value()
		var cmd tea.Cmd
		m.threshold, cmd = m.threshold.Update(msg)
		if v := m.threshold.Value(); v != before {
			m.threshold.SetValue(m.form.SetThreshold(v))
		}
		return cmd
	case fieldNeutral:
		if key.Matches(msg, m.keys.Toggle) || key.Matches(msg, m.keys.Choose) {
			m.neutral = !m.neutral
		}
	case fieldSubmit:
		if key.Matches(msg, m.keys.Choose) {
			return m.submit()
		}
	}
	return nil
}

func (m *Model) handleSearchKey(side picker.Side, msg tea.KeyMsg) tea.Cmd {
	lane := m.form.Lane(side)
	listed := lane.Results.State == picker.ResultsListed

	switch {
	case key.Matches(msg, m.keys.Up):
		if listed && m.cursor[side] >= 0 {
			m.cursor[side]--
		}
		return nil
	case key.Matches(msg, m.keys.Down):
		if listed && m.cursor[side] < len(lane.Results.Teams)-1 {
			m.cursor[side]++
		}
		return nil
	case key.Matches(msg, m.keys.Choose):
		if m.cursor[side] < 0 {
			return nil
		}
		team, err := m.form.CommitResult(side, m.cursor[side])
		if err != nil {
			m.setStatus(err.Error(), true)
			return nil
		}
		m.cancelSearch(side)
		m.cursor[side] = -1
		m.inputs[side].SetValue("")
		m.log.Info("team selected", "side", side.String(), "team_id", team.ID, "team", team.Name)
		m.setStatus(fmt.Sprintf("Team %s: %s", side, team.Name), false)
		return nil
	case key.Matches(msg, m.keys.Clear):
		m.form.Clear(side)
		m.setStatus(fmt.Sprintf("Team %s cleared", side), false)
		return nil
	case key.Matches(msg, m.keys.UseText):
		text := strings.TrimSpace(m.inputs[side].Value())
		m.form.SetValue(side, text)
		if text == "" {
			m.setStatus(fmt.Sprintf("Team %s cleared", side), false)
		} else {
			m.setStatus(fmt.Sprintf("Team %s id set to %s", side, text), false)
		}
		return nil
	}

	before := m.inputs[side].Value()
	var cmd tea.Cmd
	m.inputs[side], cmd = m.inputs[side].Update(msg)
	after := m.inputs[side].Value()
	if after == before {
		return cmd
	}

	step := m.form.Input(side, after)
	m.cursor[side] = -1
	if step.Cleared {
		m.cancelSearch(side)
	}
	if step.Timer != nil {
		return tea.Batch(cmd, debounce(*step.Timer))
	}
	return cmd
}

// pickerFocus translates the focused field into the form's focus zones.
func (m *Model) pickerFocus() picker.Focus {
	side, ok := m.focus.side()
	if !ok {
		return picker.Focus{Zone: picker.ZoneElsewhere}
	}
	if m.cursor[side] >= 0 {
		return picker.Focus{Side: side, Zone: picker.ZoneResults}
	}
	return picker.Focus{Side: side, Zone: picker.ZoneSearch}
}

func (m *Model) setFocus(f field) tea.Cmd {
	if m.focus == fieldThreshold && f != fieldThreshold {
		m.threshold.SetValue(m.form.SetThreshold(m.threshold.Value()))
	}
	if side, ok := m.focus.side(); ok {
		m.cursor[side] = -1
		m.inputs[side].Blur()
	}
	m.threshold.Blur()

	m.focus = f
	m.form.DismissOutside(m.pickerFocus())

	if side, ok := f.side(); ok {
		return m.inputs[side].Focus()
	}
	if f == fieldThreshold {
		return m.threshold.Focus()
	}
	return nil
}

func (m *Model) submit() tea.Cmd {
	if m.submitting {
		return nil
	}
	m.threshold.SetValue(m.form.SetThreshold(m.threshold.Value()))
	req, err := m.form.Request(m.neutral)
	if errors.Is(err, picker.ErrNotReady) {
		m.setStatus("Select both teams before predicting", true)
		return nil
	}
	if err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}
	m.submitting = true
	m.setStatus("Predicting...", false)
	m.log.Info("submitting prediction",
		"team_a", req.TeamAID, "team_b", req.TeamBID,
		"goal_threshold", req.GoalThreshold, "neutral_venue", req.NeutralVenue)
	return submitCmd(m.ctx, m.submitter, m.recorder, req)
}

func (m *Model) finishSubmit(msg predictionMsg) {
	m.submitting = false
	if msg.recordErr != nil {
		m.log.Warn("recording prediction", "error", msg.recordErr)
	}
	if msg.err != nil {
		m.log.Error("prediction failed", "error", msg.err)
		m.setStatus("Prediction failed: "+msg.err.Error(), true)
		return
	}
	res := msg.result
	m.result = &res
	m.setStatus("", false)
	m.log.Info("prediction received", "team_a", msg.req.TeamAID, "team_b", msg.req.TeamBID, "most_likely_score", res.MostLikelyScore)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}
