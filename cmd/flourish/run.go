package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/flourish/internal/config"
	"github.com/kingrea/flourish/internal/tui"
)

var (
	runDebug bool
	runSeed  int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the reflection in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	registerRunFlags(runCmd)
}

func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&runDebug, "debug", false, "Enable the debug panel (ctrl+d)")
	cmd.Flags().Int64Var(&runSeed, "seed", 0, "Seed for the debug randomizer (0 uses config or time)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The directory the user ran `flourish` from holds the .flourish folder
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	if err := config.InitDir(cwd); err != nil {
		return err
	}

	opts := []tui.AppOption{tui.WithSeed(runSeed)}
	if cmd.Flags().Changed("debug") {
		opts = append(opts, tui.WithDebug(runDebug))
	}
	app, err := tui.NewApp(cwd, opts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(), // Use alternate screen buffer (like vim does)
	)

	// Run blocks until the user quits
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
