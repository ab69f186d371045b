package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/flourish/internal/catalog"
	"github.com/kingrea/flourish/internal/session"
)

func (a *App) renderScreen(width int) string {
	s := a.session
	switch s.Phase() {
	case session.PhaseOnboarding:
		return a.renderOnboarding(width)
	case session.PhaseIntermission:
		return a.renderIntermission(width)
	case session.PhaseResolved:
		return a.renderResolution(width)
	}
	dim, ok := s.CurrentDimension()
	if !ok {
		return warnStyle.Render("No dimension at this position.")
	}
	switch s.SubStep() {
	case session.SubStepIntro:
		return a.renderIntro(dim, width)
	case session.SubStepGuiding:
		return a.renderGuiding(dim, width)
	case session.SubStepClosing:
		return a.renderClosing(dim, width)
	case session.SubStepBreath:
		return a.renderBreath(dim)
	case session.SubStepTitle:
		return a.renderJointTitle(width)
	case session.SubStepDisclaimer:
		return a.renderDisclaimer(width)
	case session.SubStepDiscussion:
		return a.renderDiscussion(dim, width)
	case session.SubStepReflection:
		return a.renderReflection(dim, width)
	}
	return mutedStyle.Render(s.SubStep().String())
}

func wrap(width int, text string) string {
	return lipgloss.NewStyle().Width(max(20, width)).Render(text)
}

func (a *App) renderOnboarding(width int) string {
	ob := a.catalog.Onboarding()
	step := a.session.OnboardingStep()
	lines := []string{titleStyle("").Render(ob.Title)}
	if ob.Subtitle != "" {
		lines = append(lines, detailStyle.Render(ob.Subtitle))
	}
	lines = append(lines, "")
	if step >= 0 && step < len(ob.Screens) {
		lines = append(lines, wrap(width, bodyStyle.Render(ob.Screens[step])))
	}
	if step == session.OnboardingSteps-1 && ob.Handoff != "" {
		lines = append(lines, "", wrap(width, detailStyle.Render(ob.Handoff)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderIntermission(width int) string {
	return strings.Join([]string{
		titleStyle("").Render("Thank you, Partner 1."),
		"",
		wrap(width, bodyStyle.Render("Hand the device to your partner. They will answer the same questions on their own.")),
		"",
		mutedStyle.Render("Press enter when Partner 2 is ready."),
	}, "\n")
}

func (a *App) renderIntro(dim catalog.Dimension, width int) string {
	lines := []string{titleStyle(dim.ThemeTag).Render(dim.Title)}
	if p, ok := a.session.Phase().Partner(); ok {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("Partner %d", int(p))))
	}
	lines = append(lines, "", wrap(width, bodyStyle.Render(dim.Description)))
	if dim.Goal != "" {
		lines = append(lines, "", wrap(width, detailStyle.Render(dim.Goal)))
	}
	if a.session.Phase() == session.PhaseJoint && dim.ActionIdea != "" {
		lines = append(lines, "", wrap(width, detailStyle.Render("Try: "+dim.ActionIdea)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderGuiding(dim catalog.Dimension, width int) string {
	q := a.session.QuestionIndex()
	if q < 0 || q >= len(dim.Guiding) {
		return mutedStyle.Render("No question at this position.")
	}
	question := dim.Guiding[q]
	lines := []string{
		titleStyle(dim.ThemeTag).Render(dim.Title),
		mutedStyle.Render(fmt.Sprintf("Question %d of %d", q+1, len(dim.Guiding))),
		"",
		wrap(width, bodyStyle.Bold(true).Render(question.Prompt)),
		"",
	}
	for i, opt := range question.Options {
		lines = append(lines, a.renderOption(i, fmt.Sprintf("%d · %s", opt.Value, opt.Label), dim.ThemeTag))
		lines = append(lines, wrap(width, detailStyle.PaddingLeft(4).Render(opt.Description)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderOption(i int, label, tag string) string {
	if i == a.cursor {
		return titleStyle(tag).Render(selectedMark + label)
	}
	return bodyStyle.Render("  " + label)
}

func (a *App) renderClosing(dim catalog.Dimension, width int) string {
	lines := []string{
		titleStyle(dim.ThemeTag).Render(dim.Title),
		mutedStyle.Render("Closing question"),
		"",
		wrap(width, bodyStyle.Bold(true).Render(dim.Closing.Prompt)),
		"",
	}
	if dim.Closing.Kind == catalog.ClosingChoice {
		for i, opt := range dim.Closing.Options {
			lines = append(lines, a.renderOption(i, opt, dim.ThemeTag))
		}
	} else {
		lines = append(lines, a.input.View())
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderBreath(dim catalog.Dimension) string {
	lines := []string{
		titleStyle(dim.ThemeTag).Render(dim.Theme),
		"",
		a.progress.ViewAs(a.breathFraction()),
		"",
		mutedStyle.Render("Breathe in… and out."),
	}
	if a.session.Phase() != session.PhaseJoint {
		return strings.Join(lines, "\n")
	}
	done := a.session.Completed()
	if len(done) == 0 {
		return strings.Join(lines, "\n")
	}
	lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("Explored together · %d of %d", len(done), a.catalog.Len())))
	for _, id := range done {
		if d, ok := a.catalog.ByID(id); ok {
			lines = append(lines, titleStyle(d.ThemeTag).Render(completedMark+d.Title))
		}
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderJointTitle(width int) string {
	lines := []string{
		titleStyle("").Render("Together"),
		"",
		wrap(width, bodyStyle.Render("You will explore the dimensions in this order, starting where your answers were lowest:")),
		"",
	}
	for i, dim := range a.session.Ranked() {
		lines = append(lines, titleStyle(dim.ThemeTag).Render(fmt.Sprintf("%d. %s", i+1, dim.Title)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderDisclaimer(width int) string {
	lines := []string{titleStyle("").Render("Before you begin"), ""}
	for _, line := range a.catalog.Disclaimer() {
		lines = append(lines, wrap(width, bodyStyle.Render(line)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderDiscussion(dim catalog.Dimension, width int) string {
	q := a.session.QuestionIndex()
	if q < 0 || q >= len(dim.Discussion) {
		return mutedStyle.Render("No question at this position.")
	}
	lines := []string{
		titleStyle(dim.ThemeTag).Render(dim.Title),
		mutedStyle.Render(fmt.Sprintf("Discuss %d of %d", q+1, len(dim.Discussion))),
		"",
		wrap(width, bodyStyle.Bold(true).Render(dim.Discussion[q])),
	}
	if a.session.CanSkipToReflection() {
		lines = append(lines, "", mutedStyle.Render("ctrl+r moves on to the reflection"))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderReflection(dim catalog.Dimension, width int) string {
	return strings.Join([]string{
		titleStyle(dim.ThemeTag).Render(dim.Title),
		"",
		wrap(width, bodyStyle.Italic(true).Render(dim.Reflection)),
	}, "\n")
}

func (a *App) renderResolution(width int) string {
	res := a.catalog.Resolution()
	lines := []string{
		titleStyle("").Render(res.Title),
		"",
		wrap(width, bodyStyle.Render(res.Body)),
		"",
		focusStyle.Render("Your focus areas"),
	}
	for _, dim := range a.session.TopFocus() {
		lines = append(lines, titleStyle(dim.ThemeTag).Render("• "+dim.Title))
		if dim.ActionIdea != "" {
			lines = append(lines, wrap(width, detailStyle.PaddingLeft(2).Render(dim.ActionIdea)))
		}
	}
	lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("Completed together: %d of %d", len(a.session.Completed()), a.catalog.Len())))
	if top := a.session.TopFocus(); len(top) > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("Lowest combined score: %s", a.formatter.Score(combinedFor(a.session, top[0].ID)))))
	}
	lines = append(lines, "", mutedStyle.Render("Press enter to close."))
	return strings.Join(lines, "\n")
}

func combinedFor(s *session.Session, id string) float64 {
	for _, row := range s.Scores() {
		if row.ID == id {
			return row.Combined
		}
	}
	return 0
}
