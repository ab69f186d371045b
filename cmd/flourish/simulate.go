package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kingrea/flourish/internal/config"
	"github.com/kingrea/flourish/internal/logbook"
	"github.com/kingrea/flourish/internal/scoring"
	"github.com/kingrea/flourish/internal/session"
)

var (
	simulateSeed     int64
	simulateSnapshot bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Randomize both partners and walk the joint phase headlessly",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		if err := config.InitDir(cwd); err != nil {
			return err
		}
		cfg, err := config.NewConfig(cwd)
		if err != nil {
			return err
		}
		seed := cfg.Seed()
		if simulateSeed != 0 {
			seed = simulateSeed
		}
		c, err := loadCatalogFile(cfg.CatalogPath())
		if err != nil {
			return err
		}
		lb, err := logbook.Open(cfg.LogsDir())
		if err != nil {
			return err
		}
		s, err := session.New(c, session.WithLogger(lb), session.WithSeed(seed))
		if err != nil {
			return err
		}
		lb.SetSession(s.ID())
		lb.Info("Simulation started · seed %d", seed)
		if err := simulate(s); err != nil {
			lb.Error("Simulation failed: %v", err)
			return err
		}
		lb.Info("Simulation resolved · completed %s", strings.Join(s.Completed(), ","))
		return printSimulation(cmd.OutOrStdout(), s, scoring.NewFormatter(cfg.Locale()), simulateSnapshot)
	},
}

func init() {
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 0, "Seed for the randomizer (0 uses config or time)")
	simulateCmd.Flags().BoolVar(&simulateSnapshot, "snapshot", false, "Print the final session snapshot as YAML")
}

// simulate randomizes both ledgers and skips through the joint phase.
func simulate(s *session.Session) error {
	s.Overrides().RandomizeAndSkipToDuo()
	// Every joint step moves forward on Skip; the bound only guards against a
	// catalog that never resolves.
	for steps := 0; s.Phase() != session.PhaseResolved; steps++ {
		if steps > 1000 {
			return fmt.Errorf("simulate: joint phase did not resolve (stuck at %s/%s)", s.Phase(), s.SubStep())
		}
		s.Skip()
	}
	return nil
}

func printSimulation(w io.Writer, s *session.Session, f scoring.Formatter, withSnapshot bool) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "id", "dimension", "p1", "p2", "sum")
	for _, row := range s.Scores() {
		t.Row(f.Cells(row)...)
	}
	st := s.State()
	fmt.Fprintf(w, "session %s\n", s.ID())
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "joint order: %s\n", strings.Join(st.FrozenOrder, " → "))
	focus := scoring.TopFocus(s.Ranked(), scoring.FocusCount)
	titles := make([]string, len(focus))
	for i, dim := range focus {
		titles[i] = dim.Title
	}
	fmt.Fprintf(w, "focus areas: %s\n", strings.Join(titles, ", "))
	if !withSnapshot {
		return nil
	}
	data, err := s.Snapshot().Encode()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
