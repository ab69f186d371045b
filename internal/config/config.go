// internal/config/config.go
//
// This package handles configuration and the .flourish directory structure.
// Every directory flourish runs in gets a .flourish/ folder holding the config
// file, the journey log and exported snapshots.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	// FlourishDir is the name of the directory we create in the working directory
	FlourishDir = ".flourish"

	defaultBreathDuration = 6 * time.Second
	defaultBreathPause    = 600 * time.Millisecond
	maxBreathDuration     = 2 * time.Minute
	defaultLocale         = "en"
)

const defaultProjectConfigYAML = `# flourish configuration
version: 1

# Shows the debug panel (score table, randomize, jump, snapshot).
debug: false

# Language used to format scores, as a BCP 47 tag (en, de, fr-CA, ...).
locale: en

# Transition animation between dimensions. The full bar is held for
# pause_between before the next dimension opens.
breath:
  duration: 6s
  pause_between: 600ms

# Optional catalog override. Leave empty to use the built-in questions.
catalog:
  path: ""

# Seed for the debug randomizer. 0 picks a new seed every run.
random:
  seed: 0
`

// BreathConfig tunes the transition animation.
type BreathConfig struct {
	Duration     time.Duration `yaml:"duration"`
	PauseBetween time.Duration `yaml:"pause_between"`
}

// CatalogConfig points at an optional catalog file.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// RandomConfig seeds the debug randomizer.
type RandomConfig struct {
	Seed int64 `yaml:"seed"`
}

// ProjectConfig models .flourish/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Debug   bool          `yaml:"debug"`
	Locale  string        `yaml:"locale"`
	Breath  BreathConfig  `yaml:"breath"`
	Catalog CatalogConfig `yaml:"catalog"`
	Random  RandomConfig  `yaml:"random"`
}

// envOverrides holds raw env values. Unset variables stay nil so they never
// clobber the file.
type envOverrides struct {
	Debug          *bool          `env:"FLOURISH_DEBUG"`
	BreathDuration *time.Duration `env:"FLOURISH_BREATH_DURATION"`
	BreathPause    *time.Duration `env:"FLOURISH_BREATH_PAUSE"`
	Locale         *string        `env:"FLOURISH_LOCALE"`
	Catalog        *string        `env:"FLOURISH_CATALOG"`
	Seed           *int64         `env:"FLOURISH_SEED"`
}

// Config holds the runtime configuration for flourish.
type Config struct {
	// ProjectDir is the directory where the user ran `flourish` from
	ProjectDir string

	// FlourishProjectDir is ProjectDir/.flourish
	FlourishProjectDir string

	Project ProjectConfig
}

// InitDir creates the .flourish directory structure in the given directory.
//
// Structure created:
// .flourish/
// ├── config.yaml
// ├── logs/       <- journey.log
// └── snapshots/  <- debug exports
func InitDir(projectDir string) error {
	root := filepath.Join(projectDir, FlourishDir)
	dirs := []string{
		filepath.Join(root, "logs"),
		filepath.Join(root, "snapshots"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return ensureProjectConfig(filepath.Join(root, "config.yaml"))
}

// NewConfig reads .flourish/config.yaml (if any) and applies environment
// overrides on top.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:         projectDir,
		FlourishProjectDir: filepath.Join(projectDir, FlourishDir),
		Project:            defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.FlourishProjectDir, "logs")
}

// SnapshotsDir returns the path where debug snapshots are written
func (c *Config) SnapshotsDir() string {
	return filepath.Join(c.FlourishProjectDir, "snapshots")
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.FlourishProjectDir, "config.yaml")
}

// Debug reports whether the debug panel is enabled.
func (c *Config) Debug() bool {
	return c.Project.Debug
}

// BreathDuration returns the length of one transition animation.
func (c *Config) BreathDuration() time.Duration {
	return c.Project.Breath.Duration
}

// BreathPause returns how long the finished animation is held.
func (c *Config) BreathPause() time.Duration {
	return c.Project.Breath.PauseBetween
}

// Locale returns the language used to format numbers. The value is checked
// on load, so a parse failure here falls back to English.
func (c *Config) Locale() language.Tag {
	tag, err := language.Parse(c.Project.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// CatalogPath returns the catalog override, or "" for the built-in catalog.
func (c *Config) CatalogPath() string {
	return c.Project.Catalog.Path
}

// Seed returns the configured random seed; 0 means time-based.
func (c *Config) Seed() int64 {
	return c.Project.Random.Seed
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func (c *Config) applyEnv() error {
	var raw envOverrides
	if err := env.Parse(&raw); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	if raw.Debug != nil {
		c.Project.Debug = *raw.Debug
	}
	if raw.BreathDuration != nil {
		c.Project.Breath.Duration = *raw.BreathDuration
	}
	if raw.BreathPause != nil {
		c.Project.Breath.PauseBetween = *raw.BreathPause
	}
	if raw.Locale != nil {
		c.Project.Locale = *raw.Locale
	}
	if raw.Catalog != nil {
		c.Project.Catalog.Path = *raw.Catalog
	}
	if raw.Seed != nil {
		c.Project.Random.Seed = *raw.Seed
	}
	c.Project.applyDefaults()
	c.Project.normalize(c.ProjectDir)
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: env: %w", err)
	}
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Locale:  defaultLocale,
		Breath: BreathConfig{
			Duration:     defaultBreathDuration,
			PauseBetween: defaultBreathPause,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Locale) == "" {
		pc.Locale = defaultLocale
	}
	if pc.Breath.Duration == 0 {
		pc.Breath.Duration = defaultBreathDuration
	}
	if pc.Breath.PauseBetween == 0 {
		pc.Breath.PauseBetween = defaultBreathPause
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Catalog.Path = resolvePath(base, pc.Catalog.Path)
	pc.Locale = strings.TrimSpace(pc.Locale)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Breath.Duration < 0 || pc.Breath.Duration > maxBreathDuration {
		return fmt.Errorf("breath.duration must be between 0 and %s", maxBreathDuration)
	}
	if pc.Breath.PauseBetween < 0 {
		return fmt.Errorf("breath.pause_between must not be negative")
	}
	if _, err := language.Parse(pc.Locale); err != nil {
		return fmt.Errorf("locale %q: %w", pc.Locale, err)
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
