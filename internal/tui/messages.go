// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/goalcast/internal/history"
	"github.com/pdiddy/goalcast/internal/picker"
	"github.com/pdiddy/goalcast/pkg/types"
)

// debounceMsg is delivered when a side's quiet period has elapsed.
type debounceMsg struct {
	timer picker.Timer
}

// searchResultMsg carries a finished team search.
type searchResultMsg struct {
	resp picker.Response
}

// predictionMsg carries the outcome of a submission.
type predictionMsg struct {
	req       types.PredictionRequest
	result    types.PredictionResult
	err       error
	recordErr error
}

func debounce(t picker.Timer) tea.Cmd {
	return tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return debounceMsg{timer: t}
	})
}

func searchCmd(ctx context.Context, s Searcher, req picker.Request) tea.Cmd {
	return func() tea.Msg {
		teams, err := s.SearchTeams(ctx, req.Query)
		return searchResultMsg{resp: req.Respond(teams, err)}
	}
}

func submitCmd(ctx context.Context, s Submitter, r Recorder, req types.PredictionRequest) tea.Cmd {
	return func() tea.Msg {
		res, err := s.Submit(ctx, req)
		msg := predictionMsg{req: req, result: res, err: err}
		if r != nil {
			_, msg.recordErr = r.Record(ctx, history.EntryFor(req, history.Outcome(res, err)))
		}
		return msg
	}
}
