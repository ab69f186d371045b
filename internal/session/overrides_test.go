package session

import (
	"slices"
	"strings"
	"testing"

	"github.com/kingrea/flourish/internal/catalog"
	"github.com/kingrea/flourish/internal/ledger"
)

func TestRandomizeFromOnboarding(t *testing.T) {
	s, _ := newTestSession(t)
	s.Overrides().RandomizeAndSkipToDuo()
	if s.Phase() != PhaseJoint || s.SubStep() != SubStepTitle {
		t.Fatalf("expected joint title, got %s/%s", s.Phase(), s.SubStep())
	}
	if idx, _ := s.Position(); idx != 0 {
		t.Fatalf("pointer = %d", idx)
	}
	l := s.Ledger()
	want := 0
	for _, dim := range s.Catalog().Dimensions() {
		want += len(dim.Guiding) + 1
	}
	for _, p := range []ledger.Partner{ledger.PartnerOne, ledger.PartnerTwo} {
		if got := l.Len(p); got != want {
			t.Fatalf("%s has %d entries, want %d", p, got, want)
		}
		for _, entry := range l.Entries(p) {
			switch entry.Key.Slot.Kind {
			case ledger.SlotGuiding:
				if !entry.Value.IsOrdinal() {
					t.Fatalf("guiding entry %+v not ordinal", entry)
				}
			case ledger.SlotClosing:
				if entry.Value.Text != DebugSkippedMarker {
					t.Fatalf("closing entry %+v", entry)
				}
			}
		}
	}
	if got := s.State().FrozenOrder; len(got) != catalog.Size {
		t.Fatalf("frozen order = %v", got)
	}
	if len(s.Completed()) != 0 {
		t.Fatalf("completed should be reset: %v", s.Completed())
	}
}

func TestRandomizeIsReproducibleWithSeed(t *testing.T) {
	a, _ := newTestSession(t, WithSeed(7))
	b, _ := newTestSession(t, WithSeed(7))
	a.Overrides().RandomizeAndSkipToDuo()
	b.Overrides().RandomizeAndSkipToDuo()
	if !slices.Equal(a.State().FrozenOrder, b.State().FrozenOrder) {
		t.Fatalf("frozen orders differ: %v vs %v", a.State().FrozenOrder, b.State().FrozenOrder)
	}
	if !slices.Equal(a.Ledger().Entries(ledger.PartnerTwo), b.Ledger().Entries(ledger.PartnerTwo)) {
		t.Fatalf("ledgers differ with the same seed")
	}
}

func TestRandomizeResetsCompleted(t *testing.T) {
	s, _ := newTestSession(t)
	s.Overrides().RandomizeAndSkipToDuo()
	walkJoint(t, s)
	if len(s.Completed()) != catalog.Size {
		t.Fatalf("completed = %v", s.Completed())
	}
	s.Overrides().RandomizeAndSkipToDuo()
	if s.Phase() != PhaseJoint || len(s.Completed()) != 0 {
		t.Fatalf("randomize should restart the joint phase: %s %v", s.Phase(), s.Completed())
	}
}

func TestJumpToDimensionInSolo(t *testing.T) {
	s, _ := newTestSession(t)
	finishOnboarding(s)
	s.Advance()
	s.Answer(ledger.Ordinal(3))
	s.Overrides().JumpToDimension(3)
	dim, _ := s.CurrentDimension()
	if dim.ID != "4" || s.SubStep() != SubStepIntro || s.QuestionIndex() != 0 {
		t.Fatalf("jump landed on %s/%s q%d", dim.ID, s.SubStep(), s.QuestionIndex())
	}
	if s.Ledger().Len(ledger.PartnerOne) != 1 {
		t.Fatalf("jump should keep recorded answers")
	}
}

func TestJumpToDimensionTranslatesInJoint(t *testing.T) {
	s, _ := newTestSession(t)
	s.Overrides().RandomizeAndSkipToDuo()
	frozen := s.State().FrozenOrder
	s.Overrides().JumpToDimension(0)
	want := slices.Index(frozen, "1")
	if idx, _ := s.Position(); idx != want {
		t.Fatalf("pointer = %d, want %d (frozen %v)", idx, want, frozen)
	}
	dim, _ := s.CurrentDimension()
	if dim.ID != "1" || s.SubStep() != SubStepIntro {
		t.Fatalf("jump landed on %s/%s", dim.ID, s.SubStep())
	}
}

func TestJumpToDimensionIgnoredCases(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*Session)
		index int
	}{
		{name: "onboarding", setup: func(*Session) {}, index: 1},
		{name: "out of range", setup: finishOnboarding, index: catalog.Size},
		{name: "negative", setup: finishOnboarding, index: -1},
		{name: "joint without order", setup: func(s *Session) {
			s.state.Phase = PhaseJoint
			s.state.SubStep = SubStepTitle
		}, index: 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, log := newTestSession(t)
			tc.setup(s)
			before := s.State()
			warns := len(log.warns)
			s.Overrides().JumpToDimension(tc.index)
			after := s.State()
			if after.Phase != before.Phase || after.SubStep != before.SubStep || after.DimensionIndex != before.DimensionIndex {
				t.Fatalf("state changed: %+v -> %+v", before, after)
			}
			if len(log.warns) != warns+1 {
				t.Fatalf("ignored jump was not logged")
			}
		})
	}
}

func TestSetDimensionIndexClamps(t *testing.T) {
	s, _ := newTestSession(t)
	finishOnboarding(s)
	s.Advance()
	for _, tc := range []struct{ in, want int }{{-3, 0}, {2, 2}, {9, 4}} {
		s.Overrides().SetDimensionIndex(tc.in)
		if idx, _ := s.Position(); idx != tc.want {
			t.Fatalf("SetDimensionIndex(%d) = %d, want %d", tc.in, idx, tc.want)
		}
		if s.Phase() != PhaseSoloOne || s.SubStep() != SubStepGuiding {
			t.Fatalf("phase or sub-step changed: %s/%s", s.Phase(), s.SubStep())
		}
	}
}

func TestSetPhaseFreezesAndClears(t *testing.T) {
	s, _ := newTestSession(t)
	s.Overrides().SetPhase(PhaseJoint)
	if s.SubStep() != SubStepTitle || !s.State().Frozen() {
		t.Fatalf("joint entry should freeze: %s %v", s.SubStep(), s.State().FrozenOrder)
	}
	if got := strings.Join(s.State().FrozenOrder, ","); got != "1,2,3,4,5" {
		t.Fatalf("empty ledger order = %s", got)
	}
	walkJoint(t, s)
	s.Overrides().SetPhase(PhaseSoloTwo)
	if s.Phase() != PhaseSoloTwo || s.SubStep() != SubStepIntro {
		t.Fatalf("expected solo-partner-2 intro, got %s/%s", s.Phase(), s.SubStep())
	}
	if s.State().Frozen() || len(s.Completed()) != 0 {
		t.Fatalf("leaving joint should clear order and completed")
	}
	s.Overrides().SetPhase(Phase(99))
	if s.Phase() != PhaseSoloTwo {
		t.Fatalf("unknown phase should be ignored")
	}
}

func TestSetPhaseKeepsExistingFreeze(t *testing.T) {
	s, _ := newTestSession(t)
	s.Overrides().RandomizeAndSkipToDuo()
	frozen := s.State().FrozenOrder
	s.Overrides().SetPhase(PhaseResolved)
	s.Overrides().SetPhase(PhaseJoint)
	if !slices.Equal(s.State().FrozenOrder, frozen) {
		t.Fatalf("frozen order changed: %v -> %v", frozen, s.State().FrozenOrder)
	}
}

func TestTestBreathLandsOnFourthDimension(t *testing.T) {
	s, _ := newTestSession(t)
	s.Overrides().TestBreath()
	if s.Phase() != PhaseSoloOne || s.SubStep() != SubStepBreath {
		t.Fatalf("expected solo breath, got %s/%s", s.Phase(), s.SubStep())
	}
	s.CompleteBreath()
	dim, _ := s.CurrentDimension()
	if dim.ID != "5" || s.SubStep() != SubStepIntro {
		t.Fatalf("breath completion landed on %s/%s", dim.ID, s.SubStep())
	}
}
