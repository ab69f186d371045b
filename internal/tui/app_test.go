package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/flourish/internal/catalog"
	"github.com/kingrea/flourish/internal/config"
	"github.com/kingrea/flourish/internal/ledger"
	"github.com/kingrea/flourish/internal/session"
)

func newTestApp(t *testing.T, opts ...AppOption) *App {
	t.Helper()
	projectDir := t.TempDir()
	if err := config.InitDir(projectDir); err != nil {
		t.Fatalf("init flourish dir: %v", err)
	}
	opts = append([]AppOption{WithSeed(3), WithBreathDuration(breathFrame), WithBreathPause(0)}, opts...)
	app, err := NewApp(projectDir, opts...)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return app
}

func press(t *testing.T, app *App, keys ...string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+d":
			msg = tea.KeyMsg{Type: tea.KeyCtrlD}
		case "ctrl+r":
			msg = tea.KeyMsg{Type: tea.KeyCtrlR}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		model, next := app.Update(msg)
		if model.(*App) != app {
			t.Fatalf("unexpected model %T", model)
		}
		cmd = next
	}
	return cmd
}

func TestEnterWalksOnboardingIntoGuiding(t *testing.T) {
	app := newTestApp(t)
	s := app.Session()
	press(t, app, "enter", "enter")
	if s.Phase() != session.PhaseOnboarding || s.OnboardingStep() != 2 {
		t.Fatalf("expected last onboarding screen, got %s step %d", s.Phase(), s.OnboardingStep())
	}
	if !strings.Contains(app.View(), "hand the device") {
		t.Fatalf("handoff copy missing from last onboarding screen")
	}
	press(t, app, "enter")
	if s.Phase() != session.PhaseSoloOne || s.SubStep() != session.SubStepIntro {
		t.Fatalf("expected solo intro, got %s/%s", s.Phase(), s.SubStep())
	}
	press(t, app, "enter")
	if s.SubStep() != session.SubStepGuiding {
		t.Fatalf("enter on intro should open guiding, got %s", s.SubStep())
	}
}

func TestDigitsAndCursorRecordOrdinals(t *testing.T) {
	app := newTestApp(t)
	s := app.Session()
	press(t, app, "enter", "enter", "enter", "enter")
	press(t, app, "3")
	press(t, app, "up", "enter")
	l := s.Ledger()
	first, _ := l.Get(ledger.PartnerOne, ledger.Key{DimensionID: "1", Slot: ledger.Guiding(0)})
	second, _ := l.Get(ledger.PartnerOne, ledger.Key{DimensionID: "1", Slot: ledger.Guiding(1)})
	if first.Ordinal != 3 || second.Ordinal != 1 {
		t.Fatalf("recorded %+v and %+v", first, second)
	}
	if s.QuestionIndex() != 2 {
		t.Fatalf("question index = %d", s.QuestionIndex())
	}
}

func TestClosingTextAnswerStartsBreath(t *testing.T) {
	app := newTestApp(t)
	s := app.Session()
	press(t, app, "enter", "enter", "enter", "enter", "1", "2", "3")
	if s.SubStep() != session.SubStepClosing {
		t.Fatalf("expected closing, got %s", s.SubStep())
	}
	press(t, app, "enter")
	if s.SubStep() != session.SubStepClosing || app.statusMsg == "" {
		t.Fatalf("blank answer should be refused with a hint")
	}
	press(t, app, "w", "e", " ", "t", "a", "l", "k")
	cmd := press(t, app, "enter")
	if s.SubStep() != session.SubStepBreath {
		t.Fatalf("expected breath, got %s", s.SubStep())
	}
	if cmd == nil {
		t.Fatalf("breath should schedule a tick")
	}
	v, _ := s.Ledger().Get(ledger.PartnerOne, ledger.Key{DimensionID: "1", Slot: ledger.Closing()})
	if v.Kind != ledger.KindText || v.Text != "we talk" {
		t.Fatalf("closing answer = %+v", v)
	}
}

func TestBreathTickCompletesOnlyCurrentBreath(t *testing.T) {
	app := newTestApp(t)
	s := app.Session()
	press(t, app, "enter", "enter", "enter", "enter", "tab", "tab", "tab", "tab")
	if s.SubStep() != session.SubStepBreath {
		t.Fatalf("expected breath, got %s", s.SubStep())
	}
	stale := app.breathSeq
	press(t, app, "enter")
	if s.SubStep() != session.SubStepBreath {
		t.Fatalf("enter must not end a breath")
	}
	press(t, app, "tab")
	if dim, _ := s.CurrentDimension(); dim.ID != "2" || s.SubStep() != session.SubStepIntro {
		t.Fatalf("skip should end the breath, got %s/%s", dim.ID, s.SubStep())
	}

	app.Update(breathTickMsg{seq: stale})
	if s.SubStep() != session.SubStepIntro {
		t.Fatalf("stale tick changed state to %s", s.SubStep())
	}

	press(t, app, "enter", "tab", "tab", "tab", "tab")
	if s.SubStep() != session.SubStepBreath {
		t.Fatalf("expected second breath, got %s", s.SubStep())
	}
	app.Update(breathTickMsg{seq: stale})
	if s.SubStep() != session.SubStepBreath {
		t.Fatalf("stale tick ended the second breath")
	}
	app.Update(breathTickMsg{seq: app.breathSeq})
	if dim, _ := s.CurrentDimension(); dim.ID != "3" || s.SubStep() != session.SubStepIntro {
		t.Fatalf("current tick should complete breath, got %s/%s", dim.ID, s.SubStep())
	}
}

func TestBreathHoldsForPause(t *testing.T) {
	app := newTestApp(t, WithBreathPause(2*breathFrame))
	s := app.Session()
	s.Overrides().TestBreath()
	if cmd := app.syncView(); cmd == nil {
		t.Fatalf("breath should schedule a tick")
	}
	for i := 0; i < 2; i++ {
		if cmd := app.handleBreathTick(breathTickMsg{seq: app.breathSeq}); cmd == nil {
			t.Fatalf("tick %d: breath ended during the pause", i+1)
		}
		if s.SubStep() != session.SubStepBreath {
			t.Fatalf("tick %d: left breath early for %s", i+1, s.SubStep())
		}
		if app.breathFraction() != 1 {
			t.Fatalf("tick %d: bar should be full during the pause, got %v", i+1, app.breathFraction())
		}
	}
	app.handleBreathTick(breathTickMsg{seq: app.breathSeq})
	if dim, _ := s.CurrentDimension(); dim.ID != "5" || s.SubStep() != session.SubStepIntro {
		t.Fatalf("expected dimension 5 intro after the pause, got %s/%s", dim.ID, s.SubStep())
	}
}

func TestInitResumesHandedOverBreath(t *testing.T) {
	projectDir := t.TempDir()
	if err := config.InitDir(projectDir); err != nil {
		t.Fatalf("init flourish dir: %v", err)
	}
	s, err := session.New(catalog.MustDefault(), session.WithSeed(3))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Overrides().TestBreath()
	app, err := NewApp(projectDir, WithSession(s), WithBreathDuration(breathFrame), WithBreathPause(0))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	cmd := app.Init()
	if cmd == nil {
		t.Fatalf("Init should schedule the breath tick")
	}
	msg, ok := cmd().(breathTickMsg)
	if !ok || msg.seq != app.breathSeq {
		t.Fatalf("Init returned %#v", msg)
	}
	app.Update(msg)
	if s.SubStep() != session.SubStepIntro {
		t.Fatalf("breath did not complete, got %s", s.SubStep())
	}
}

func TestJointBreathListsCompletedDimensions(t *testing.T) {
	app := newTestApp(t)
	s := app.Session()
	s.Overrides().TestBreath()
	app.syncView()
	if strings.Contains(app.View(), "Explored together") {
		t.Fatalf("solo breath should not list joint progress")
	}

	s.Overrides().RandomizeAndSkipToDuo()
	first, _ := s.Catalog().ByID(s.State().FrozenOrder[0])
	for s.SubStep() != session.SubStepBreath {
		s.Skip()
	}
	app.syncView()
	view := app.View()
	if !strings.Contains(view, "Explored together · 1 of 5") || !strings.Contains(view, completedMark+first.Title) {
		t.Fatalf("joint breath missing completed list:\n%s", view)
	}
}

func TestScoresFollowConfiguredLocale(t *testing.T) {
	t.Setenv("FLOURISH_LOCALE", "de")
	app := newTestApp(t)
	app.Session().Overrides().SetPhase(session.PhaseResolved)
	if !strings.Contains(app.View(), "Lowest combined score: 0,0") {
		t.Fatalf("expected German decimal comma:\n%s", app.View())
	}
}

func TestChoiceClosingUsesCursor(t *testing.T) {
	app := newTestApp(t)
	s := app.Session()
	press(t, app, "enter", "enter", "enter")
	// dimension 1 skipped through to dimension 2, which closes with a choice.
	press(t, app, "tab", "tab", "tab", "tab", "tab", "tab", "enter")
	dim, _ := s.CurrentDimension()
	if dim.ID != "2" || s.SubStep() != session.SubStepGuiding {
		t.Fatalf("expected dimension 2 guiding, got %s/%s", dim.ID, s.SubStep())
	}
	for range dim.Guiding {
		press(t, app, "2")
	}
	press(t, app, "down", "enter")
	v, _ := s.Ledger().Get(ledger.PartnerOne, ledger.Key{DimensionID: "2", Slot: ledger.Closing()})
	if v.Kind != ledger.KindChoice || v.Text != dim.Closing.Options[1] {
		t.Fatalf("choice answer = %+v", v)
	}
}

func TestSkipToReflectionKey(t *testing.T) {
	app := newTestApp(t)
	s := app.Session()
	s.Overrides().RandomizeAndSkipToDuo()
	app.syncView()
	press(t, app, "enter", "enter", "enter")
	if s.SubStep() != session.SubStepDiscussion {
		t.Fatalf("expected discussion, got %s", s.SubStep())
	}
	press(t, app, "ctrl+r")
	if s.SubStep() != session.SubStepDiscussion || app.statusMsg == "" {
		t.Fatalf("early skip to reflection should be refused")
	}
	press(t, app, "enter", "enter", "ctrl+r")
	if s.SubStep() != session.SubStepReflection {
		t.Fatalf("expected reflection, got %s", s.SubStep())
	}
}

func TestDebugPanelRequiresDebugMode(t *testing.T) {
	app := newTestApp(t, WithDebug(false))
	press(t, app, "ctrl+d", "r")
	if app.debug != nil || app.Session().Phase() != session.PhaseOnboarding {
		t.Fatalf("debug keys must be inert without debug mode")
	}

	app = newTestApp(t, WithDebug(true))
	press(t, app, "ctrl+d")
	if !app.debug.open {
		t.Fatalf("ctrl+d should open the debug panel")
	}
	press(t, app, "r")
	s := app.Session()
	if s.Phase() != session.PhaseJoint || s.SubStep() != session.SubStepTitle {
		t.Fatalf("randomize should land on joint title, got %s/%s", s.Phase(), s.SubStep())
	}
	if !strings.Contains(app.View(), "DEBUG") {
		t.Fatalf("debug panel not rendered")
	}
	press(t, app, "3")
	dim, _ := s.CurrentDimension()
	if dim.ID != "3" || s.SubStep() != session.SubStepIntro {
		t.Fatalf("jump landed on %s/%s", dim.ID, s.SubStep())
	}
	press(t, app, "s")
	entries, err := os.ReadDir(app.snapshotDir())
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one snapshot, got %v (%v)", entries, err)
	}
	if filepath.Ext(entries[0].Name()) != ".yaml" {
		t.Fatalf("snapshot name %s", entries[0].Name())
	}
	press(t, app, "esc")
	if app.debug.open {
		t.Fatalf("esc should close the panel")
	}
}

func TestResolvedEnterQuits(t *testing.T) {
	app := newTestApp(t, WithDebug(true))
	app.Session().Overrides().SetPhase(session.PhaseResolved)
	if !strings.Contains(app.View(), "focus areas") {
		t.Fatalf("resolution screen missing focus areas")
	}
	cmd := press(t, app, "enter")
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestJourneyLogRecordsSession(t *testing.T) {
	app := newTestApp(t)
	press(t, app, "enter", "enter", "enter")
	lines, _ := app.logbook.Tail(20)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Session opened") || !strings.Contains(joined, "solo-partner-1") {
		t.Fatalf("journey log missing entries:\n%s", joined)
	}
}
