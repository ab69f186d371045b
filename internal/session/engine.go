package session

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/kingrea/flourish/internal/catalog"
	"github.com/kingrea/flourish/internal/ledger"
	"github.com/kingrea/flourish/internal/scoring"
)

const (
	// OnboardingSteps is the number of welcome screens.
	OnboardingSteps = catalog.OnboardingScreens
	// DefaultOrdinal is recorded when a guiding question is skipped.
	DefaultOrdinal = 2
	// SkippedMarker is recorded when a closing question is skipped.
	SkippedMarker = "Skipped"
	// DebugSkippedMarker fills closing slots during a debug randomize.
	DebugSkippedMarker = "Skipped by Debug"

	minDiscussionShown = 3
)

// Logger receives notices about ignored intents and phase changes. The
// logbook satisfies it.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}

// Engine applies intents to states. Apply never mutates its input and never
// fails: an intent that makes no sense for the current state returns the
// state unchanged and logs a warning.
type Engine struct {
	catalog *catalog.Catalog
	log     Logger
	rand    *rand.Rand
}

// NewEngine wires an engine to a catalog.
func NewEngine(c *catalog.Catalog, opts ...Option) (*Engine, error) {
	if c == nil {
		return nil, fmt.Errorf("session: catalog is required")
	}
	o := buildOptions(opts)
	return &Engine{catalog: c, log: o.log, rand: o.rand}, nil
}

// Catalog returns the catalog the engine walks.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Initial returns a fresh session state in onboarding.
func (e *Engine) Initial() State {
	return State{
		Phase:   PhaseOnboarding,
		SubStep: SubStepNone,
		Ledger:  ledger.New(),
	}
}

// Apply returns the state that follows s once intent in is handled.
func (e *Engine) Apply(s State, in Intent) State {
	next := s.Clone()
	if next.Ledger == nil {
		next.Ledger = ledger.New()
	}
	before := next.Phase
	var ok bool
	switch next.Phase {
	case PhaseOnboarding:
		ok = e.applyOnboarding(&next, in)
	case PhaseSoloOne, PhaseSoloTwo:
		ok = e.applySolo(&next, in)
	case PhaseIntermission:
		ok = e.applyIntermission(&next, in)
	case PhaseJoint:
		ok = e.applyJoint(&next, in)
	case PhaseResolved:
		e.ignore(next, in, "session already resolved")
		return s
	default:
		e.ignore(next, in, "unknown phase")
		return s
	}
	if !ok {
		return s
	}
	if next.Phase != before {
		e.log.Info("Phase · %s → %s", before, next.Phase)
	}
	return next
}

func (e *Engine) applyOnboarding(s *State, in Intent) bool {
	switch in.Kind {
	case IntentAdvance, IntentSkip:
	default:
		e.ignore(*s, in, "onboarding only advances")
		return false
	}
	if s.OnboardingStep < OnboardingSteps-1 {
		s.OnboardingStep++
		return true
	}
	s.moveTo(PhaseSoloOne)
	return true
}

func (e *Engine) applyIntermission(s *State, in Intent) bool {
	switch in.Kind {
	case IntentAdvance, IntentSkip:
		s.moveTo(PhaseSoloTwo)
		return true
	}
	e.ignore(*s, in, "intermission only advances")
	return false
}

func (e *Engine) applySolo(s *State, in Intent) bool {
	dim, ok := e.catalog.At(s.DimensionIndex)
	if !ok {
		e.ignore(*s, in, fmt.Sprintf("no dimension at index %d", s.DimensionIndex))
		return false
	}
	partner, _ := s.Phase.Partner()
	switch s.SubStep {
	case SubStepIntro:
		switch in.Kind {
		case IntentAdvance, IntentSkip:
			s.SubStep = SubStepGuiding
			s.QuestionIndex = 0
			return true
		}
	case SubStepGuiding:
		var value ledger.Value
		switch in.Kind {
		case IntentAdvance:
			if !in.Payload.IsOrdinal() {
				e.ignore(*s, in, "guiding questions need a 1..3 answer")
				return false
			}
			value = in.Payload
		case IntentSkip:
			value = ledger.Ordinal(DefaultOrdinal)
		default:
			e.ignore(*s, in, "not valid while answering")
			return false
		}
		last := len(dim.Guiding) - 1
		if s.QuestionIndex > last {
			// Reachable only after a raw debug pointer change.
			e.log.Warn("Session · question %d beyond %s guiding count, moving to closing", s.QuestionIndex, dim.ID)
			s.SubStep = SubStepClosing
			return true
		}
		if !e.record(s, partner, ledger.Key{DimensionID: dim.ID, Slot: ledger.Guiding(s.QuestionIndex)}, value) {
			return false
		}
		if s.QuestionIndex < last {
			s.QuestionIndex++
		} else {
			s.SubStep = SubStepClosing
		}
		return true
	case SubStepClosing:
		var value ledger.Value
		switch in.Kind {
		case IntentAdvance:
			switch in.Payload.Kind {
			case ledger.KindText, ledger.KindChoice, ledger.KindSkipped:
				value = in.Payload
			default:
				e.ignore(*s, in, "closing questions need a text or choice answer")
				return false
			}
		case IntentSkip:
			value = ledger.Skipped(SkippedMarker)
		default:
			e.ignore(*s, in, "not valid while answering")
			return false
		}
		if !e.record(s, partner, ledger.Key{DimensionID: dim.ID, Slot: ledger.Closing()}, value) {
			return false
		}
		s.SubStep = SubStepBreath
		return true
	case SubStepBreath:
		switch in.Kind {
		case IntentSkip, IntentBreathComplete:
			e.finishSoloBreath(s)
			return true
		}
		e.ignore(*s, in, "breath only ends on completion")
		return false
	}
	e.ignore(*s, in, "not valid here")
	return false
}

func (e *Engine) finishSoloBreath(s *State) {
	if s.DimensionIndex < e.catalog.Len()-1 {
		s.DimensionIndex++
		s.SubStep = SubStepIntro
		s.QuestionIndex = 0
		return
	}
	switch s.Phase {
	case PhaseSoloOne:
		s.moveTo(PhaseIntermission)
	case PhaseSoloTwo:
		e.enterJoint(s)
	}
}

// enterJoint freezes the discussion order from the ledger as it is right now.
func (e *Engine) enterJoint(s *State) {
	s.moveTo(PhaseJoint)
	s.Completed = nil
	s.FrozenOrder = scoring.RankIDs(e.catalog, s.Ledger)
	e.log.Info("Session · joint order frozen: %v", s.FrozenOrder)
}

func (e *Engine) applyJoint(s *State, in Intent) bool {
	if !s.Frozen() {
		s.FrozenOrder = scoring.RankIDs(e.catalog, s.Ledger)
	}
	if s.DimensionIndex < 0 || s.DimensionIndex >= len(s.FrozenOrder) {
		e.ignore(*s, in, fmt.Sprintf("no joint dimension at position %d", s.DimensionIndex))
		return false
	}
	dim, _ := e.catalog.ByID(s.FrozenOrder[s.DimensionIndex])
	if in.Kind == IntentSkipToReflection {
		if !s.CanSkipToReflection() {
			e.ignore(*s, in, fmt.Sprintf("need %d discussion questions first", minDiscussionShown))
			return false
		}
		s.SubStep = SubStepReflection
		return true
	}
	if s.SubStep == SubStepBreath {
		switch in.Kind {
		case IntentSkip, IntentBreathComplete:
			e.finishJointBreath(s)
			return true
		}
		e.ignore(*s, in, "breath only ends on completion")
		return false
	}
	if in.Kind != IntentAdvance && in.Kind != IntentSkip {
		e.ignore(*s, in, "not valid here")
		return false
	}
	switch s.SubStep {
	case SubStepTitle:
		s.SubStep = SubStepDisclaimer
	case SubStepDisclaimer:
		s.SubStep = SubStepIntro
	case SubStepIntro:
		s.SubStep = SubStepDiscussion
		s.QuestionIndex = 0
	case SubStepDiscussion:
		if s.QuestionIndex < len(dim.Discussion)-1 {
			s.QuestionIndex++
		} else {
			s.SubStep = SubStepReflection
		}
	case SubStepReflection:
		s.markCompleted(dim.ID)
		s.SubStep = SubStepBreath
	default:
		e.ignore(*s, in, "not valid here")
		return false
	}
	return true
}

func (e *Engine) finishJointBreath(s *State) {
	if s.DimensionIndex < len(s.FrozenOrder)-1 {
		s.DimensionIndex++
		s.SubStep = SubStepIntro
		s.QuestionIndex = 0
		return
	}
	s.Phase = PhaseResolved
	s.SubStep = SubStepResolution
	s.QuestionIndex = 0
}

// CurrentDimension resolves the dimension pointer through canonical order in
// solo phases and through the frozen order in joint and resolved phases.
func (e *Engine) CurrentDimension(s State) (catalog.Dimension, bool) {
	switch {
	case s.Phase.IsSolo():
		return e.catalog.At(s.DimensionIndex)
	case s.Phase == PhaseJoint || s.Phase == PhaseResolved:
		order := s.FrozenOrder
		if len(order) == 0 {
			order = scoring.RankIDs(e.catalog, s.Ledger)
		}
		if s.DimensionIndex < 0 || s.DimensionIndex >= len(order) {
			return catalog.Dimension{}, false
		}
		return e.catalog.ByID(order[s.DimensionIndex])
	}
	return catalog.Dimension{}, false
}

// Ranked returns the frozen joint order when present, else a live ranking.
func (e *Engine) Ranked(s State) []catalog.Dimension {
	if !s.Frozen() {
		return scoring.Rank(e.catalog, s.Ledger)
	}
	out := make([]catalog.Dimension, 0, len(s.FrozenOrder))
	for _, id := range s.FrozenOrder {
		if dim, ok := e.catalog.ByID(id); ok {
			out = append(out, dim)
		}
	}
	return out
}

func (e *Engine) ignore(s State, in Intent, reason string) {
	e.log.Warn("Session · %s ignored in %s/%s: %s", in.Kind, s.Phase, s.SubStep, reason)
}

// record stores an answer. A refused write is logged and the intent becomes
// a no-op.
func (e *Engine) record(s *State, p ledger.Partner, key ledger.Key, v ledger.Value) bool {
	if err := s.Ledger.Record(p, key, v); err != nil {
		e.log.Warn("Session · answer for %s ignored in %s/%s: %v", key.DimensionID, s.Phase, s.SubStep, err)
		return false
	}
	return true
}

func (e *Engine) intn(n int) int {
	if e.rand == nil {
		e.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e.rand.Intn(n)
}
