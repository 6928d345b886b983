// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/goalcast/internal/picker"
	"github.com/pdiddy/goalcast/pkg/types"
)

type styles struct {
	Title       lipgloss.Style
	Card        lipgloss.Style
	CardFocused lipgloss.Style
	Label       lipgloss.Style
	Selected    lipgloss.Style
	Dim         lipgloss.Style
	Result      lipgloss.Style
	ResultHigh  lipgloss.Style
	Notice      lipgloss.Style
	Button      lipgloss.Style
	ButtonFocus lipgloss.Style
	ButtonOff   lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Panel       lipgloss.Style
}

func newStyles() styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Padding(0, 1).
		Width(38)
	button := lipgloss.NewStyle().Padding(0, 2).Bold(true)
	return styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).MarginBottom(1),
		Card:        card,
		CardFocused: card.BorderForeground(lipgloss.Color("99")),
		Label:       lipgloss.NewStyle().Bold(true),
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
		Dim:         lipgloss.NewStyle().Faint(true),
		Result:      lipgloss.NewStyle().PaddingLeft(2),
		ResultHigh:  lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("226")).Bold(true),
		Notice:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Button:      button.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")),
		ButtonFocus: button.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("99")).Underline(true),
		ButtonOff:   button.Foreground(lipgloss.Color("245")).Background(lipgloss.Color("237")),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).MarginTop(1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(1, 2),
	}
}

const maxShownResults = 8

// View implements tea.Model.
func (m *Model) View() string {
	if m.result != nil {
		return m.resultView(*m.result)
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Match prediction"))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.sideView(picker.SideA), " ", m.sideView(picker.SideB)))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Label.Render("Goal threshold "))
	b.WriteString(m.threshold.View())
	b.WriteString("\n")

	box := "[ ]"
	if m.neutral {
		box = "[x]"
	}
	neutral := box + " Neutral venue"
	if m.focus == fieldNeutral {
		neutral = m.styles.ResultHigh.Render(neutral)
	}
	b.WriteString(neutral)
	b.WriteString("\n\n")
	b.WriteString(m.buttonView())

	if m.status != "" {
		style := m.styles.Status
		if m.statusErr {
			style = m.styles.StatusError
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) sideView(side picker.Side) string {
	lane := m.form.Lane(side)

	var b strings.Builder
	b.WriteString(m.styles.Label.Render("Team " + side.String()))
	b.WriteString("\n")
	b.WriteString(m.inputs[side].View())
	b.WriteString("\n")

	switch sel := lane.Selection; {
	case sel.IsZero():
		b.WriteString(m.styles.Dim.Render("No team selected"))
	case sel.Manual:
		b.WriteString(m.styles.Selected.Render("✓ id " + sel.ID))
	default:
		b.WriteString(m.styles.Selected.Render(fmt.Sprintf("✓ %s (%s)", sel.Name, sel.ID)))
	}

	switch {
	case lane.Pending || lane.InFlight:
		b.WriteString("\n")
		b.WriteString(m.styles.Dim.Render("searching..."))
	case lane.Results.State == picker.ResultsFailed:
		b.WriteString("\n")
		b.WriteString(m.styles.Notice.Render(lane.Results.Notice))
	case lane.Results.State == picker.ResultsListed:
		b.WriteString("\n")
		b.WriteString(m.resultsView(side, lane.Results.Teams))
	}

	style := m.styles.Card
	if s, ok := m.focus.side(); ok && s == side {
		style = m.styles.CardFocused
	}
	return style.Render(b.String())
}

func (m *Model) resultsView(side picker.Side, teams []types.Team) string {
	if len(teams) == 0 {
		return m.styles.Dim.Render("No teams found")
	}
	// Scroll so the cursor stays inside the window.
	start := 0
	if c := m.cursor[side]; c >= maxShownResults {
		start = c - maxShownResults + 1
	}
	end := min(start+maxShownResults, len(teams))

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		label := teams[i].Name
		if teams[i].Country != "" {
			label += " " + m.styles.Dim.Render(teams[i].Country)
		}
		if i == m.cursor[side] {
			lines = append(lines, m.styles.ResultHigh.Render("▸ "+label))
		} else {
			lines = append(lines, m.styles.Result.Render(label))
		}
	}
	if rest := len(teams) - end; rest > 0 {
		lines = append(lines, m.styles.Dim.Render(fmt.Sprintf("  +%d more", rest)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) buttonView() string {
	label := "Predict"
	switch {
	case m.submitting:
		return m.styles.ButtonOff.Render("Predicting...")
	case !m.form.Ready():
		return m.styles.ButtonOff.Render(label)
	case m.focus == fieldSubmit:
		return m.styles.ButtonFocus.Render(label)
	default:
		return m.styles.Button.Render(label)
	}
}

func (m *Model) resultView(r types.PredictionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s vs %s\n\n", r.TeamAName, r.TeamBName)
	if r.MostLikelyScore != "" {
		fmt.Fprintf(&b, "Expected goals    %.2f - %.2f\n", r.TeamAExpectedGoals, r.TeamBExpectedGoals)
		fmt.Fprintf(&b, "Most likely score %s\n", r.MostLikelyScore)
		fmt.Fprintf(&b, "Most likely total %d\n", r.MostLikelyTotal)
		if t := m.form.Threshold(); t != "" {
			fmt.Fprintf(&b, "Over %s goals     %.2f%%\n", t, r.OverProbability)
		}
		if len(r.Scores) > 0 {
			b.WriteString("\nScore probabilities\n")
			for _, s := range r.Scores {
				fmt.Fprintf(&b, "  %-6s %6.2f%%\n", s.Score, s.Probability)
			}
		}
	}
	if r.Summary != "" {
		if r.MostLikelyScore != "" {
			b.WriteString("\n")
		}
		b.WriteString(r.Summary)
		b.WriteString("\n")
	}
	return m.styles.Title.Render("Prediction") + "\n" +
		m.styles.Panel.Render(strings.TrimRight(b.String(), "\n")) + "\n\n" +
		m.styles.Dim.Render("esc back to form • ctrl+c quit")
}
