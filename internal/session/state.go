package session

import (
	"slices"

	"github.com/kingrea/flourish/internal/ledger"
)

// State is the full position of a session plus both answer ledgers. It is a
// plain value: the engine clones it before applying any transition.
type State struct {
	Phase          Phase
	SubStep        SubStep
	OnboardingStep int
	// DimensionIndex points into canonical catalog order during solo phases
	// and into FrozenOrder during the joint phase.
	DimensionIndex int
	QuestionIndex  int
	// Completed lists dimension ids that passed the joint reflection step.
	Completed []string
	// FrozenOrder is the joint traversal order, fixed when the joint phase
	// is entered. Nil before that.
	FrozenOrder []string
	Ledger      *ledger.Ledger
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Completed = cloneStrings(s.Completed)
	out.FrozenOrder = cloneStrings(s.FrozenOrder)
	out.Ledger = s.Ledger.Clone()
	return out
}

// Frozen reports whether the joint order has been fixed.
func (s State) Frozen() bool {
	return len(s.FrozenOrder) > 0
}

// IsCompleted reports whether a dimension passed the joint reflection.
func (s State) IsCompleted(id string) bool {
	return slices.Contains(s.Completed, id)
}

// CanSkipToReflection reports whether the early exit from the discussion
// is available: at least three discussion questions have been shown.
func (s State) CanSkipToReflection() bool {
	return s.Phase == PhaseJoint && s.SubStep == SubStepDiscussion && s.QuestionIndex >= minDiscussionShown-1
}

func (s *State) markCompleted(id string) {
	if id == "" || s.IsCompleted(id) {
		return
	}
	s.Completed = append(s.Completed, id)
}

func (s *State) moveTo(p Phase) {
	s.Phase = p
	s.SubStep = entrySubStep(p)
	s.DimensionIndex = 0
	s.QuestionIndex = 0
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
