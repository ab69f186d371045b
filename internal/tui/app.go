// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for flourish.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the App below, which wraps a reflection session
// 2. Update: turns keys and timer ticks into session intents
// 3. View: renders the session's current state
//
// The session owns every rule about what comes next. The TUI owns timing
// (the breath animation), layout and colour, and only ever changes the
// session through intents or, in debug mode, through its Overrides.

package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/flourish/internal/catalog"
	"github.com/kingrea/flourish/internal/config"
	"github.com/kingrea/flourish/internal/ledger"
	"github.com/kingrea/flourish/internal/logbook"
	"github.com/kingrea/flourish/internal/scoring"
	"github.com/kingrea/flourish/internal/session"
)

const breathFrame = 100 * time.Millisecond

// breathTickMsg advances the breath animation. seq ties a tick to the breath
// that scheduled it so ticks from a skipped breath are dropped.
type breathTickMsg struct {
	seq int
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithSession runs an existing session instead of starting a new one.
func WithSession(s *session.Session) AppOption {
	return func(a *App) {
		if s != nil {
			a.session = s
		}
	}
}

// WithDebug forces the debug panel on or off regardless of config.
func WithDebug(enabled bool) AppOption {
	return func(a *App) {
		a.debugEnabled = enabled
	}
}

// WithSeed overrides the configured random seed.
func WithSeed(seed int64) AppOption {
	return func(a *App) {
		if seed != 0 {
			a.seed = seed
		}
	}
}

// WithBreathDuration overrides the configured breath length.
func WithBreathDuration(d time.Duration) AppOption {
	return func(a *App) {
		if d > 0 {
			a.breathDuration = d
		}
	}
}

// WithBreathPause overrides how long the finished breath is held.
func WithBreathPause(d time.Duration) AppOption {
	return func(a *App) {
		if d >= 0 {
			a.breathPause = d
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	config  *config.Config
	catalog *catalog.Catalog
	session *session.Session
	logbook *logbook.Logbook

	debugEnabled   bool
	seed           int64
	breathDuration time.Duration
	breathPause    time.Duration
	formatter      scoring.Formatter

	// UI components
	keys     keyMap
	help     help.Model
	input    textinput.Model
	progress progress.Model
	debug    *debugPanel

	// cursor is the highlighted option on guiding and choice screens
	cursor    int
	statusMsg string

	// position is the last rendered session position; a change resets
	// per-screen widgets
	position string

	breathSeq     int
	breathElapsed time.Duration

	// initCmd is whatever the opening screen needs scheduled, e.g. the tick
	// of a breath the session was handed over in
	initCmd tea.Cmd

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// NewApp creates a new App instance rooted at projectDir.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	input := textinput.New()
	input.Placeholder = "Your answer"
	input.CharLimit = 280
	app := &App{
		config:         cfg,
		debugEnabled:   cfg.Debug(),
		seed:           cfg.Seed(),
		breathDuration: cfg.BreathDuration(),
		breathPause:    cfg.BreathPause(),
		formatter:      scoring.NewFormatter(cfg.Locale()),
		keys:           defaultKeyMap(),
		help:           help.New(),
		input:          input,
		progress:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}

	lb, err := logbook.Open(cfg.LogsDir())
	if err == nil {
		app.logbook = lb
	}

	if app.session == nil {
		cat, err := loadCatalog(cfg.CatalogPath())
		if err != nil {
			return nil, err
		}
		sess, err := session.New(cat, session.WithLogger(app.logbook), session.WithSeed(app.seed))
		if err != nil {
			return nil, err
		}
		app.session = sess
	}
	app.catalog = app.session.Catalog()
	app.logbook.SetSession(app.session.ID())
	app.logInfo("Session opened · %s · debug=%t", app.session.Phase().FriendlyName(), app.debugEnabled)

	if app.debugEnabled {
		app.keys.Debug.SetEnabled(true)
		app.debug = newDebugPanel(app)
	}
	app.initCmd = app.syncView()
	return app, nil
}

// loadCatalog returns the embedded catalog, or the override file when set.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return catalog.Default()
	}
	return catalog.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// Session exposes the running session.
func (a *App) Session() *session.Session {
	return a.session
}

func (a *App) snapshotDir() string {
	if a.config == nil {
		return filepath.Join(config.FlourishDir, "snapshots")
	}
	return a.config.SnapshotsDir()
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return a.initCmd
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.progress.Width = max(10, min(60, msg.Width-12))
		a.help.Width = msg.Width
		a.input.Width = max(20, msg.Width-12)
		return a, nil

	case breathTickMsg:
		return a, a.handleBreathTick(msg)

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			a.logInfo("Session closed · %s", a.session.Phase())
			return a, tea.Quit
		}
		if a.debug != nil {
			if key.Matches(msg, a.keys.Debug) && !a.debug.open {
				a.debug.toggle()
				return a, nil
			}
			if a.debug.open {
				return a, a.debug.Update(msg)
			}
		}
		return a, a.handleKey(msg)
	}

	if a.input.Focused() {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	s := a.session
	a.statusMsg = ""
	switch s.Phase() {
	case session.PhaseResolved:
		if key.Matches(msg, a.keys.Next) {
			a.logInfo("Session closed · resolved")
			return tea.Quit
		}
		return nil
	case session.PhaseOnboarding, session.PhaseIntermission:
		return a.handleNavigation(msg)
	}

	switch s.SubStep() {
	case session.SubStepGuiding:
		return a.handleGuiding(msg)
	case session.SubStepClosing:
		return a.handleClosing(msg)
	case session.SubStepBreath:
		if key.Matches(msg, a.keys.Skip) {
			s.Skip()
			return a.syncView()
		}
		a.statusMsg = "Breathe. Press tab to move on."
		return nil
	case session.SubStepDiscussion:
		if key.Matches(msg, a.keys.Reflect) {
			if !s.CanSkipToReflection() {
				a.statusMsg = "Take at least three questions before moving to the reflection."
				return nil
			}
			s.SkipToReflection()
			return a.syncView()
		}
	}
	return a.handleNavigation(msg)
}

func (a *App) handleNavigation(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Next):
		a.session.Advance()
	case key.Matches(msg, a.keys.Skip):
		a.session.Skip()
	default:
		return nil
	}
	return a.syncView()
}

func (a *App) handleGuiding(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.cursor = max(0, a.cursor-1)
		return nil
	case key.Matches(msg, a.keys.Down):
		a.cursor = min(2, a.cursor+1)
		return nil
	case key.Matches(msg, a.keys.Answer):
		a.session.Answer(ledger.Ordinal(int(msg.String()[0] - '0')))
	case key.Matches(msg, a.keys.Next):
		a.session.Answer(ledger.Ordinal(a.cursor + 1))
	case key.Matches(msg, a.keys.Skip):
		a.session.Skip()
	default:
		return nil
	}
	return a.syncView()
}

func (a *App) handleClosing(msg tea.KeyMsg) tea.Cmd {
	dim, ok := a.session.CurrentDimension()
	if !ok {
		return nil
	}
	if key.Matches(msg, a.keys.Skip) {
		a.session.Skip()
		return a.syncView()
	}
	if dim.Closing.Kind == catalog.ClosingChoice {
		last := len(dim.Closing.Options) - 1
		switch {
		case key.Matches(msg, a.keys.Up):
			a.cursor = max(0, a.cursor-1)
		case key.Matches(msg, a.keys.Down):
			a.cursor = min(last, a.cursor+1)
		case key.Matches(msg, a.keys.Next):
			if a.cursor >= 0 && a.cursor <= last {
				a.session.Answer(ledger.Choice(dim.Closing.Options[a.cursor]))
				return a.syncView()
			}
		}
		return nil
	}
	if key.Matches(msg, a.keys.Next) {
		text := strings.TrimSpace(a.input.Value())
		if text == "" {
			a.statusMsg = "Write a few words, or press tab to skip."
			return nil
		}
		a.session.Answer(ledger.Text(text))
		return a.syncView()
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return cmd
}

// syncView resets per-screen widgets when the session moved and starts the
// breath timer on entering a breath.
func (a *App) syncView() tea.Cmd {
	s := a.session
	idx, _ := s.Position()
	position := fmt.Sprintf("%s/%s/%d/%d/%d", s.Phase(), s.SubStep(), idx, s.QuestionIndex(), s.OnboardingStep())
	if position == a.position {
		return nil
	}
	a.position = position
	a.cursor = 1
	a.input.Reset()
	a.input.Blur()

	switch s.SubStep() {
	case session.SubStepBreath:
		a.breathSeq++
		a.breathElapsed = 0
		return a.scheduleBreathTick()
	case session.SubStepClosing:
		if dim, ok := s.CurrentDimension(); ok {
			if dim.Closing.Kind == catalog.ClosingChoice {
				a.cursor = 0
				return nil
			}
			return a.input.Focus()
		}
	}
	return nil
}

func (a *App) scheduleBreathTick() tea.Cmd {
	seq := a.breathSeq
	return tea.Tick(breathFrame, func(time.Time) tea.Msg {
		return breathTickMsg{seq: seq}
	})
}

func (a *App) handleBreathTick(msg breathTickMsg) tea.Cmd {
	if msg.seq != a.breathSeq || a.session.SubStep() != session.SubStepBreath {
		return nil
	}
	a.breathElapsed += breathFrame
	// The bar stays full for breathPause before the next screen.
	if a.breathElapsed < a.breathDuration+a.breathPause {
		return a.scheduleBreathTick()
	}
	a.session.CompleteBreath()
	return a.syncView()
}

func (a *App) breathFraction() float64 {
	if a.breathDuration <= 0 {
		return 1
	}
	return min(1, float64(a.breathElapsed)/float64(a.breathDuration))
}

// View renders the current screen.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	contentWidth := max(20, width-4)
	tag := ""
	if dim, ok := a.session.CurrentDimension(); ok {
		tag = dim.ThemeTag
	}
	border := panelBorder
	if tag != "" {
		border = accent(tag)
	}
	sections := []string{
		headerStyle.Render("✿ FLOURISH"),
		a.renderPhaseLine(),
		boxStyle(border, contentWidth).Render(a.renderScreen(contentWidth - 4)),
	}
	if a.debug != nil && a.debug.open {
		sections = append(sections, a.debug.View(contentWidth))
	}
	if a.statusMsg != "" {
		sections = append(sections, warnStyle.Render(a.statusMsg))
	}
	sections = append(sections, lipgloss.NewStyle().MarginTop(1).Render(a.help.View(a.keys)))
	return strings.Join(sections, "\n")
}

func (a *App) renderPhaseLine() string {
	s := a.session
	phase := s.Phase()
	line := phase.FriendlyName()
	switch {
	case phase.IsSolo(), phase == session.PhaseJoint:
		idx, total := s.Position()
		line = fmt.Sprintf("%s · dimension %d of %d", line, idx+1, total)
	case phase == session.PhaseOnboarding:
		line = fmt.Sprintf("%s · %d of %d", line, s.OnboardingStep()+1, session.OnboardingSteps)
	}
	if next := nextPhaseName(phase); next != "" {
		line = fmt.Sprintf("%s   Next: %s", line, next)
	}
	return mutedStyle.Render(line)
}

func nextPhaseName(p session.Phase) string {
	next := p + 1
	if p.IsTerminal() || !next.Valid() {
		return ""
	}
	return next.FriendlyName()
}
