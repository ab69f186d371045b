package session

import "github.com/kingrea/flourish/internal/ledger"

// IntentKind enumerates what the presentation layer can ask for.
type IntentKind int

const (
	// IntentAdvance is the primary Next/Continue action. Answer steps
	// expect a payload.
	IntentAdvance IntentKind = iota + 1
	// IntentSkip is the secondary action: default answers, skipped intros,
	// finished animations.
	IntentSkip
	// IntentSkipToReflection leaves the joint discussion early.
	IntentSkipToReflection
	// IntentBreathComplete is the signal that the transition animation ended.
	IntentBreathComplete
)

func (k IntentKind) String() string {
	switch k {
	case IntentAdvance:
		return "advance"
	case IntentSkip:
		return "skip"
	case IntentSkipToReflection:
		return "skip-to-reflection"
	case IntentBreathComplete:
		return "breath-complete"
	default:
		return "unknown"
	}
}

// Intent is one user action with an optional answer payload.
type Intent struct {
	Kind    IntentKind
	Payload ledger.Value
}

// Advance is the Next/Continue intent with no answer.
func Advance() Intent {
	return Intent{Kind: IntentAdvance}
}

// Answer is the Next/Continue intent carrying an answer.
func Answer(v ledger.Value) Intent {
	return Intent{Kind: IntentAdvance, Payload: v}
}

// Skip is the secondary intent.
func Skip() Intent {
	return Intent{Kind: IntentSkip}
}

// SkipToReflection is the early exit from the joint discussion.
func SkipToReflection() Intent {
	return Intent{Kind: IntentSkipToReflection}
}

// BreathComplete signals the end of the transition animation.
func BreathComplete() Intent {
	return Intent{Kind: IntentBreathComplete}
}
