// internal/session/session.go
//
// Session owns the current State and exposes the intent and query surface the
// presentation layer uses. All transitions go through Engine.Apply.

package session

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/kingrea/flourish/internal/catalog"
	"github.com/kingrea/flourish/internal/ledger"
	"github.com/kingrea/flourish/internal/scoring"
)

type options struct {
	log  Logger
	rand *rand.Rand
	id   string
}

// Option customises an Engine or Session.
type Option func(*options)

// WithLogger routes no-op warnings and phase changes to l.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithRand sets the random source used by debug randomize.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithSeed is WithRand with a fresh source seeded by seed. Zero keeps the
// default time-based source.
func WithSeed(seed int64) Option {
	return func(o *options) {
		if seed != 0 {
			o.rand = rand.New(rand.NewSource(seed))
		}
	}
}

// WithSessionID fixes the session identifier instead of generating one.
func WithSessionID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

func buildOptions(opts []Option) options {
	o := options{log: nopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Session is one run of the reflection flow.
type Session struct {
	engine *Engine
	state  State
	id     string
}

// New starts a session in onboarding.
func New(c *catalog.Catalog, opts ...Option) (*Session, error) {
	engine, err := NewEngine(c, opts...)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	id := o.id
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{engine: engine, state: engine.Initial(), id: id}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Catalog returns the catalog the session walks.
func (s *Session) Catalog() *catalog.Catalog {
	return s.engine.catalog
}

// Dispatch applies an intent to the current state.
func (s *Session) Dispatch(in Intent) {
	s.state = s.engine.Apply(s.state, in)
}

// Advance is the primary Next/Continue action without an answer.
func (s *Session) Advance() { s.Dispatch(Advance()) }

// Answer is the primary action carrying an answer.
func (s *Session) Answer(v ledger.Value) { s.Dispatch(Answer(v)) }

// Skip is the secondary action.
func (s *Session) Skip() { s.Dispatch(Skip()) }

// SkipToReflection leaves the joint discussion early when allowed.
func (s *Session) SkipToReflection() { s.Dispatch(SkipToReflection()) }

// CompleteBreath signals the end of the transition animation.
func (s *Session) CompleteBreath() { s.Dispatch(BreathComplete()) }

// State returns a copy of the current state.
func (s *Session) State() State {
	return s.state.Clone()
}

func (s *Session) Phase() Phase       { return s.state.Phase }
func (s *Session) SubStep() SubStep   { return s.state.SubStep }
func (s *Session) QuestionIndex() int { return s.state.QuestionIndex }
func (s *Session) OnboardingStep() int {
	return s.state.OnboardingStep
}

// CurrentDimension resolves the dimension pointer for the current phase.
func (s *Session) CurrentDimension() (catalog.Dimension, bool) {
	return s.engine.CurrentDimension(s.state)
}

// Position returns the dimension pointer and the number of dimensions in the
// current traversal, for progress display.
func (s *Session) Position() (int, int) {
	return s.state.DimensionIndex, s.engine.catalog.Len()
}

// Ranked returns the frozen joint order when present, else a live ranking.
func (s *Session) Ranked() []catalog.Dimension {
	return s.engine.Ranked(s.state)
}

// TopFocus returns the highest-priority dimensions for the resolution.
func (s *Session) TopFocus() []catalog.Dimension {
	return scoring.TopFocus(s.Ranked(), scoring.FocusCount)
}

// Scores returns the live score table.
func (s *Session) Scores() []scoring.Row {
	return scoring.Table(s.engine.catalog, s.state.Ledger)
}

// Completed returns the dimension ids that passed the joint reflection.
func (s *Session) Completed() []string {
	return cloneStrings(s.state.Completed)
}

// CanSkipToReflection reports whether the early discussion exit is open.
func (s *Session) CanSkipToReflection() bool {
	return s.state.CanSkipToReflection()
}

// Ledger returns a copy of both answer ledgers.
func (s *Session) Ledger() *ledger.Ledger {
	return s.state.Ledger.Clone()
}

// Snapshot exports the current state.
func (s *Session) Snapshot() Snapshot {
	return NewSnapshot(s.id, s.state)
}

// Overrides returns the debug capability for this session.
func (s *Session) Overrides() *Overrides {
	return &Overrides{s: s}
}
