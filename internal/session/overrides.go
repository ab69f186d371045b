package session

import (
	"github.com/kingrea/flourish/internal/ledger"
	"github.com/kingrea/flourish/internal/scoring"
)

// Overrides repositions a session outside the normal transitions. Only the
// debug panel holds one. Each operation leaves the state inside the defined
// state space, although not necessarily one reachable by intents alone.
type Overrides struct {
	s *Session
}

// JumpToDimension moves to the intro of the dimension at canonical index. In
// the joint phase the dimension is located in the frozen order. Out of range
// indices and other phases are ignored.
func (o *Overrides) JumpToDimension(canonical int) {
	st := o.s.state.Clone()
	c := o.s.engine.catalog
	dim, ok := c.At(canonical)
	if !ok {
		o.warn("jump to %d ignored: out of range", canonical)
		return
	}
	switch {
	case st.Phase.IsSolo():
		st.DimensionIndex = canonical
	case st.Phase == PhaseJoint:
		if !st.Frozen() {
			o.warn("jump to %s ignored: joint order not frozen", dim.ID)
			return
		}
		pos := -1
		for i, id := range st.FrozenOrder {
			if id == dim.ID {
				pos = i
				break
			}
		}
		if pos < 0 {
			o.warn("jump to %s ignored: not in joint order", dim.ID)
			return
		}
		st.DimensionIndex = pos
	default:
		o.warn("jump to %s ignored in %s", dim.ID, st.Phase)
		return
	}
	st.SubStep = SubStepIntro
	st.QuestionIndex = 0
	o.commit(st, "jump to dimension %s (position %d)", dim.ID, st.DimensionIndex)
}

// RandomizeAndSkipToDuo fills both ledgers with random ordinals and skipped
// closings, then starts the joint phase with an order frozen from them.
func (o *Overrides) RandomizeAndSkipToDuo() {
	st := o.s.state.Clone()
	e := o.s.engine
	for _, p := range []ledger.Partner{ledger.PartnerOne, ledger.PartnerTwo} {
		st.Ledger.Reset(p)
		for _, dim := range e.catalog.Dimensions() {
			for i := range dim.Guiding {
				if !e.record(&st, p, ledger.Key{DimensionID: dim.ID, Slot: ledger.Guiding(i)}, ledger.Ordinal(e.intn(3)+1)) {
					o.warn("randomize aborted")
					return
				}
			}
			if !e.record(&st, p, ledger.Key{DimensionID: dim.ID, Slot: ledger.Closing()}, ledger.Skipped(DebugSkippedMarker)) {
				o.warn("randomize aborted")
				return
			}
		}
	}
	e.enterJoint(&st)
	o.commit(st, "randomized both ledgers, joint order %v", st.FrozenOrder)
}

// SetDimensionIndex sets the raw dimension pointer, clamped to the catalog.
// Phase and sub-step are left alone.
func (o *Overrides) SetDimensionIndex(index int) {
	st := o.s.state.Clone()
	last := o.s.engine.catalog.Len() - 1
	switch {
	case index < 0:
		index = 0
	case index > last:
		index = last
	}
	st.DimensionIndex = index
	o.commit(st, "dimension index set to %d", index)
}

// SetPhase moves to the entry point of phase p. Entering the joint or
// resolved phase freezes the order if needed; going back before the joint
// phase clears it.
func (o *Overrides) SetPhase(p Phase) {
	if !p.Valid() {
		o.warn("set phase ignored: unknown phase %d", int(p))
		return
	}
	st := o.s.state.Clone()
	st.moveTo(p)
	switch {
	case p == PhaseJoint || p == PhaseResolved:
		if !st.Frozen() {
			st.FrozenOrder = scoring.RankIDs(o.s.engine.catalog, st.Ledger)
		}
	default:
		st.FrozenOrder = nil
		st.Completed = nil
	}
	if p == PhaseOnboarding {
		st.OnboardingStep = 0
	}
	o.commit(st, "phase set to %s", p)
}

// TestBreath jumps to the breath after the fourth dimension of partner one.
func (o *Overrides) TestBreath() {
	st := o.s.state.Clone()
	st.moveTo(PhaseSoloOne)
	st.DimensionIndex = 3
	st.SubStep = SubStepBreath
	st.FrozenOrder = nil
	st.Completed = nil
	o.commit(st, "breath test")
}

func (o *Overrides) commit(st State, format string, args ...any) {
	o.s.state = st
	o.s.engine.log.Info("Debug · "+format, args...)
}

func (o *Overrides) warn(format string, args ...any) {
	o.s.engine.log.Warn("Debug · "+format, args...)
}
