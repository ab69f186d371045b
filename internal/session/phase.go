// internal/session/phase.go
//
// Phases and sub-steps of a reflection session. A session moves forward
// through the phases in order; each phase walks its own sub-step sequence
// for every dimension.

package session

import "github.com/kingrea/flourish/internal/ledger"

// Phase represents a stage in the reflection flow
type Phase int

const (
	PhaseOnboarding Phase = iota
	PhaseSoloOne
	PhaseIntermission
	PhaseSoloTwo
	PhaseJoint
	PhaseResolved
)

var phaseNames = map[Phase]string{
	PhaseOnboarding:   "onboarding",
	PhaseSoloOne:      "solo-partner-1",
	PhaseIntermission: "intermission",
	PhaseSoloTwo:      "solo-partner-2",
	PhaseJoint:        "joint",
	PhaseResolved:     "resolved",
}

// String returns the stable identifier used in logs and snapshots
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// FriendlyName returns a short description suitable for display
func (p Phase) FriendlyName() string {
	switch p {
	case PhaseOnboarding:
		return "Welcome"
	case PhaseSoloOne:
		return "Partner 1 Reflection"
	case PhaseIntermission:
		return "Hand Over"
	case PhaseSoloTwo:
		return "Partner 2 Reflection"
	case PhaseJoint:
		return "Joint Reflection"
	case PhaseResolved:
		return "Resolution"
	default:
		return p.String()
	}
}

// Valid reports whether p is a defined phase.
func (p Phase) Valid() bool {
	_, ok := phaseNames[p]
	return ok
}

// IsSolo returns true for the two individual answering phases
func (p Phase) IsSolo() bool {
	return p == PhaseSoloOne || p == PhaseSoloTwo
}

// IsTerminal returns true once the session has reached its resolution
func (p Phase) IsTerminal() bool {
	return p == PhaseResolved
}

// Partner returns whose ledger a solo phase writes to.
func (p Phase) Partner() (ledger.Partner, bool) {
	switch p {
	case PhaseSoloOne:
		return ledger.PartnerOne, true
	case PhaseSoloTwo:
		return ledger.PartnerTwo, true
	}
	return 0, false
}

// SubStep is the position within a dimension.
type SubStep int

const (
	SubStepNone SubStep = iota
	SubStepIntro
	SubStepGuiding
	SubStepClosing
	SubStepBreath
	SubStepTitle
	SubStepDisclaimer
	SubStepDiscussion
	SubStepReflection
	SubStepResolution
)

var subStepNames = map[SubStep]string{
	SubStepNone:       "none",
	SubStepIntro:      "intro",
	SubStepGuiding:    "guiding",
	SubStepClosing:    "closing",
	SubStepBreath:     "breath",
	SubStepTitle:      "title",
	SubStepDisclaimer: "disclaimer",
	SubStepDiscussion: "discussion",
	SubStepReflection: "reflection",
	SubStepResolution: "resolution",
}

func (s SubStep) String() string {
	if name, ok := subStepNames[s]; ok {
		return name
	}
	return "unknown"
}

// entrySubStep is where a phase starts when entered.
func entrySubStep(p Phase) SubStep {
	switch p {
	case PhaseSoloOne, PhaseSoloTwo:
		return SubStepIntro
	case PhaseJoint:
		return SubStepTitle
	case PhaseResolved:
		return SubStepResolution
	default:
		return SubStepNone
	}
}
