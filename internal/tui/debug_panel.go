package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/flourish/internal/scoring"
	"github.com/kingrea/flourish/internal/session"
)

const debugLogLines = 6

// debugPanel drives the override surface. It only exists when debug mode is
// enabled, so a normal run never holds an Overrides value.
type debugPanel struct {
	app       *App
	overrides *session.Overrides
	keys      debugKeyMap
	help      help.Model
	open      bool
	status    string
}

func newDebugPanel(app *App) *debugPanel {
	return &debugPanel{
		app:       app,
		overrides: app.session.Overrides(),
		keys:      defaultDebugKeyMap(),
		help:      help.New(),
	}
}

func (d *debugPanel) toggle() {
	d.open = !d.open
	if d.open {
		d.status = ""
	}
}

// Update handles a key while the panel is open. Every key is consumed so the
// session never sees input meant for the panel.
func (d *debugPanel) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, d.keys.Close):
		d.open = false
		return nil
	case key.Matches(msg, d.keys.Randomize):
		d.overrides.RandomizeAndSkipToDuo()
		d.status = "Randomized both partners, joint order frozen"
	case key.Matches(msg, d.keys.Jump):
		idx := int(msg.String()[0] - '1')
		d.overrides.JumpToDimension(idx)
		d.status = fmt.Sprintf("Jump to dimension %d", idx+1)
	case key.Matches(msg, d.keys.Lower):
		idx, _ := d.app.session.Position()
		d.overrides.SetDimensionIndex(idx - 1)
		d.status = "Dimension index lowered"
	case key.Matches(msg, d.keys.Raise):
		idx, _ := d.app.session.Position()
		d.overrides.SetDimensionIndex(idx + 1)
		d.status = "Dimension index raised"
	case key.Matches(msg, d.keys.Phase):
		next := d.app.session.Phase() + 1
		if !next.Valid() {
			next = session.PhaseOnboarding
		}
		d.overrides.SetPhase(next)
		d.status = fmt.Sprintf("Phase set to %s", next.FriendlyName())
	case key.Matches(msg, d.keys.Breath):
		d.overrides.TestBreath()
		d.status = "Breath test"
	case key.Matches(msg, d.keys.Snapshot):
		path, err := d.app.session.Snapshot().Save(d.app.snapshotDir())
		if err != nil {
			d.status = fmt.Sprintf("Snapshot failed: %v", err)
			d.app.logError("Debug · snapshot failed: %v", err)
			return nil
		}
		d.status = fmt.Sprintf("Snapshot written to %s", path)
		d.app.logInfo("Debug · snapshot written to %s", path)
		return nil
	default:
		return nil
	}
	return d.app.syncView()
}

func (d *debugPanel) View(width int) string {
	s := d.app.session
	st := s.State()
	head := lipgloss.NewStyle().Bold(true).Foreground(debugBorder).Render("DEBUG")
	lines := []string{
		head,
		detailStyle.Render(fmt.Sprintf("session %s", s.ID())),
		detailStyle.Render(fmt.Sprintf("%s · %s · dim %d · q %d · onboarding %d",
			st.Phase, st.SubStep, st.DimensionIndex, st.QuestionIndex, st.OnboardingStep)),
	}
	if st.Frozen() {
		lines = append(lines, detailStyle.Render("frozen: "+strings.Join(st.FrozenOrder, " → ")))
	}
	if len(st.Completed) > 0 {
		lines = append(lines, detailStyle.Render("completed: "+strings.Join(st.Completed, ", ")))
	}
	lines = append(lines, "", renderScoreTable(s.Scores(), d.app.formatter))
	if tail, total := d.app.logbook.Tail(debugLogLines); len(tail) > 0 {
		lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("log (%d lines)", total)))
		lines = append(lines, mutedStyle.Render(strings.Join(tail, "\n")))
	}
	if d.status != "" {
		lines = append(lines, "", focusStyle.Render(d.status))
	}
	lines = append(lines, "", d.help.View(d.keys))
	return boxStyle(debugBorder, width).Render(strings.Join(lines, "\n"))
}

func renderScoreTable(rows []scoring.Row, f scoring.Formatter) string {
	header := []string{"#", "id", "dimension", "p1", "p2", "sum"}
	widths := make([]int, len(header))
	table := [][]string{header}
	for _, row := range rows {
		table = append(table, f.Cells(row))
	}
	for _, cells := range table {
		for i, cell := range cells {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	var out []string
	for i, cells := range table {
		parts := make([]string, len(cells))
		for j, cell := range cells {
			parts[j] = cell + strings.Repeat(" ", widths[j]-lipgloss.Width(cell))
		}
		line := strings.Join(parts, "  ")
		switch {
		case i == 0:
			line = mutedStyle.Render(line)
		case rows[i-1].Focus:
			line = focusStyle.Render(line)
		default:
			line = bodyStyle.Render(line)
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
