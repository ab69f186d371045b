// internal/catalog/catalog.go
//
// The dimension catalog is the fixed reference data the whole session walks
// through: five dimensions in canonical order, each with guiding questions,
// a closing question, discussion prompts and a reflection sentence.
// Content lives in dimensions.yaml and is embedded into the binary.

package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

// Size is the number of dimensions every catalog must define.
const Size = 5

// OnboardingScreens is the number of welcome screens every catalog must define.
const OnboardingScreens = 3

// ErrInvalid wraps every catalog validation failure.
var ErrInvalid = errors.New("catalog: invalid")

//go:embed dimensions.yaml
var embeddedCatalog []byte

// ClosingKind distinguishes free-text closing questions from choice ones.
type ClosingKind string

const (
	ClosingText   ClosingKind = "text"
	ClosingChoice ClosingKind = "choice"
)

// RangeOption is one of the three labelled answers of a guiding question.
type RangeOption struct {
	Label       string `yaml:"label"`
	Value       int    `yaml:"value"`
	Description string `yaml:"description"`
}

// GuidingQuestion is answered on a 1..3 range.
type GuidingQuestion struct {
	Prompt  string        `yaml:"prompt"`
	Options []RangeOption `yaml:"options"`
}

// ClosingQuestion ends each solo dimension.
type ClosingQuestion struct {
	Kind    ClosingKind `yaml:"kind"`
	Prompt  string      `yaml:"prompt"`
	Options []string    `yaml:"options,omitempty"`
}

// Dimension is one of the five relationship-health categories.
type Dimension struct {
	ID          string            `yaml:"id"`
	Ordinal     int               `yaml:"-"`
	Title       string            `yaml:"title"`
	Theme       string            `yaml:"theme"`
	Description string            `yaml:"description"`
	Goal        string            `yaml:"goal"`
	ThemeTag    string            `yaml:"theme_tag"`
	Guiding     []GuidingQuestion `yaml:"guiding"`
	Closing     ClosingQuestion   `yaml:"closing"`
	ActionIdea  string            `yaml:"action_idea"`
	Discussion  []string          `yaml:"discussion"`
	Reflection  string            `yaml:"reflection"`
}

// Onboarding holds the three welcome screens.
type Onboarding struct {
	Title    string   `yaml:"title"`
	Subtitle string   `yaml:"subtitle"`
	Screens  []string `yaml:"screens"`
	Handoff  string   `yaml:"handoff"`
}

// Resolution is the copy shown once the joint phase ends.
type Resolution struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type catalogFile struct {
	Version    int         `yaml:"version"`
	Onboarding Onboarding  `yaml:"onboarding"`
	Disclaimer []string    `yaml:"disclaimer"`
	Resolution Resolution  `yaml:"resolution"`
	Dimensions []Dimension `yaml:"dimensions"`
}

// Catalog is the immutable, validated set of dimensions. Accessors hand out
// copies so callers cannot mutate shared content.
type Catalog struct {
	dimensions []Dimension
	byID       map[string]int
	onboarding Onboarding
	disclaimer []string
	resolution Resolution
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// MustDefault is Default for package init and tests; the embedded file is
// covered by tests so a failure here is a build defect.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads and validates a catalog file from fsys.
func Load(fsys fs.FS, path string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML catalog content and validates it.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	file.normalize()
	if err := file.validate(); err != nil {
		return nil, err
	}
	c := &Catalog{
		dimensions: file.Dimensions,
		byID:       make(map[string]int, len(file.Dimensions)),
		onboarding: file.Onboarding,
		disclaimer: file.Disclaimer,
		resolution: file.Resolution,
	}
	for i, dim := range c.dimensions {
		c.byID[dim.ID] = i
	}
	return c, nil
}

func (f *catalogFile) normalize() {
	for i := range f.Dimensions {
		dim := &f.Dimensions[i]
		dim.Ordinal = i
		dim.ID = strings.TrimSpace(dim.ID)
		dim.Title = strings.TrimSpace(dim.Title)
		dim.ThemeTag = strings.ToLower(strings.TrimSpace(dim.ThemeTag))
		dim.Closing.Kind = ClosingKind(strings.ToLower(strings.TrimSpace(string(dim.Closing.Kind))))
	}
}

func (f *catalogFile) validate() error {
	if len(f.Dimensions) != Size {
		return fmt.Errorf("%w: want %d dimensions, got %d", ErrInvalid, Size, len(f.Dimensions))
	}
	if len(f.Onboarding.Screens) != OnboardingScreens {
		return fmt.Errorf("%w: want %d onboarding screens, got %d", ErrInvalid, OnboardingScreens, len(f.Onboarding.Screens))
	}
	for i, screen := range f.Onboarding.Screens {
		if strings.TrimSpace(screen) == "" {
			return fmt.Errorf("%w: onboarding.screens[%d] is empty", ErrInvalid, i)
		}
	}
	seen := make(map[string]struct{}, len(f.Dimensions))
	for i, dim := range f.Dimensions {
		if err := dim.validate(); err != nil {
			return fmt.Errorf("%w: dimensions[%d]: %v", ErrInvalid, i, err)
		}
		if _, dup := seen[dim.ID]; dup {
			return fmt.Errorf("%w: duplicate dimension id %q", ErrInvalid, dim.ID)
		}
		seen[dim.ID] = struct{}{}
	}
	return nil
}

func (d Dimension) validate() error {
	if d.ID == "" {
		return fmt.Errorf("id is required")
	}
	if d.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len(d.Guiding) == 0 {
		return fmt.Errorf("at least one guiding question is required")
	}
	for qi, q := range d.Guiding {
		if strings.TrimSpace(q.Prompt) == "" {
			return fmt.Errorf("guiding[%d]: prompt is required", qi)
		}
		if len(q.Options) != 3 {
			return fmt.Errorf("guiding[%d]: want 3 options, got %d", qi, len(q.Options))
		}
		for oi, opt := range q.Options {
			if opt.Value != oi+1 {
				return fmt.Errorf("guiding[%d].options[%d]: value must be %d, got %d", qi, oi, oi+1, opt.Value)
			}
		}
	}
	switch d.Closing.Kind {
	case ClosingText:
	case ClosingChoice:
		if len(d.Closing.Options) == 0 {
			return fmt.Errorf("closing: choice questions need options")
		}
	default:
		return fmt.Errorf("closing: kind must be 'text' or 'choice'")
	}
	if len(d.Discussion) == 0 {
		return fmt.Errorf("at least one discussion question is required")
	}
	return nil
}

// Len returns the number of dimensions.
func (c *Catalog) Len() int {
	return len(c.dimensions)
}

// Dimensions returns the dimensions in canonical order.
func (c *Catalog) Dimensions() []Dimension {
	out := make([]Dimension, len(c.dimensions))
	for i, dim := range c.dimensions {
		out[i] = dim.clone()
	}
	return out
}

// At returns the dimension at a canonical index.
func (c *Catalog) At(index int) (Dimension, bool) {
	if index < 0 || index >= len(c.dimensions) {
		return Dimension{}, false
	}
	return c.dimensions[index].clone(), true
}

// ByID looks up a dimension by its stable identifier.
func (c *Catalog) ByID(id string) (Dimension, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Dimension{}, false
	}
	return c.dimensions[idx].clone(), true
}

// Onboarding returns the welcome copy.
func (c *Catalog) Onboarding() Onboarding {
	out := c.onboarding
	out.Screens = cloneStrings(c.onboarding.Screens)
	return out
}

// Disclaimer returns the lines shown before the joint discussion.
func (c *Catalog) Disclaimer() []string {
	return cloneStrings(c.disclaimer)
}

// Resolution returns the closing copy.
func (c *Catalog) Resolution() Resolution {
	return c.resolution
}

func (d Dimension) clone() Dimension {
	out := d
	out.Guiding = make([]GuidingQuestion, len(d.Guiding))
	for i, q := range d.Guiding {
		out.Guiding[i] = GuidingQuestion{
			Prompt:  q.Prompt,
			Options: append([]RangeOption(nil), q.Options...),
		}
	}
	out.Closing.Options = cloneStrings(d.Closing.Options)
	out.Discussion = cloneStrings(d.Discussion)
	return out
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
