package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/flourish/internal/ledger"
)

// AnswerRecord is one ledger entry in export form.
type AnswerRecord struct {
	Partner   int    `yaml:"partner"`
	Dimension string `yaml:"dimension"`
	Slot      string `yaml:"slot"`
	Value     string `yaml:"value"`
	Kind      string `yaml:"kind"`
}

// Snapshot is an export of a session for bug reports. It is never read back.
type Snapshot struct {
	SessionID      string         `yaml:"session_id"`
	TakenAt        time.Time      `yaml:"taken_at"`
	Phase          string         `yaml:"phase"`
	SubStep        string         `yaml:"sub_step"`
	OnboardingStep int            `yaml:"onboarding_step"`
	DimensionIndex int            `yaml:"dimension_index"`
	QuestionIndex  int            `yaml:"question_index"`
	Answers        []AnswerRecord `yaml:"answers"`
	Completed      []string       `yaml:"completed"`
	FrozenOrder    []string       `yaml:"frozen_order,omitempty"`
}

// NewSnapshot flattens a state. The frozen order is copied verbatim.
func NewSnapshot(id string, s State) Snapshot {
	snap := Snapshot{
		SessionID:      id,
		TakenAt:        time.Now().UTC(),
		Phase:          s.Phase.String(),
		SubStep:        s.SubStep.String(),
		OnboardingStep: s.OnboardingStep,
		DimensionIndex: s.DimensionIndex,
		QuestionIndex:  s.QuestionIndex,
		Completed:      cloneStrings(s.Completed),
		FrozenOrder:    cloneStrings(s.FrozenOrder),
	}
	if snap.Completed == nil {
		snap.Completed = []string{}
	}
	for _, p := range []ledger.Partner{ledger.PartnerOne, ledger.PartnerTwo} {
		for _, entry := range s.Ledger.Entries(p) {
			snap.Answers = append(snap.Answers, AnswerRecord{
				Partner:   int(entry.Partner),
				Dimension: entry.Key.DimensionID,
				Slot:      entry.Key.Slot.String(),
				Value:     entry.Value.String(),
				Kind:      string(entry.Value.Kind),
			})
		}
	}
	return snap
}

// Encode renders the snapshot as YAML.
func (s Snapshot) Encode() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	return data, nil
}

// Save writes the snapshot into dir and returns the file path.
func (s Snapshot) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("snapshot: create %s: %w", dir, err)
	}
	data, err := s.Encode()
	if err != nil {
		return "", err
	}
	short := s.SessionID
	if len(short) > 8 {
		short = short[:8]
	}
	name := fmt.Sprintf("snapshot-%s-%s.yaml", short, s.TakenAt.Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("snapshot: write %s: %w", path, err)
	}
	return path, nil
}
