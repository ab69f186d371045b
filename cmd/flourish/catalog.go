package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kingrea/flourish/internal/catalog"
)

var catalogFile string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate a question catalog and print a summary",
	Long: `Validate a question catalog and print a summary.

Without --file the built-in catalog is checked. Point --file at a YAML file
with the same layout to check an override before setting catalog.path.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalogFile(catalogFile)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderCatalogSummary(c))
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogFile, "file", "", "Catalog YAML file to validate")
}

func loadCatalogFile(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return catalog.Load(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
}

func renderCatalogSummary(c *catalog.Catalog) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("id", "dimension", "guiding", "closing", "discussion")
	for _, dim := range c.Dimensions() {
		t.Row(
			dim.ID,
			dim.Title,
			strconv.Itoa(len(dim.Guiding)),
			string(dim.Closing.Kind),
			strconv.Itoa(len(dim.Discussion)),
		)
	}
	return fmt.Sprintf("catalog ok · %d dimensions\n%s", c.Len(), t.Render())
}
