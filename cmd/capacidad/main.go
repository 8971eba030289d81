// Command capacidad explores the REE "Capacidad de Acceso" demand dataset:
// download it, validate it, query it, and diagnose individual nodes.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridatlas/capacidad/internal/config"
	"github.com/gridatlas/capacidad/internal/domain"
	"github.com/gridatlas/capacidad/internal/loader"
	"github.com/gridatlas/capacidad/internal/observability"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "capacidad",
	Short: "Explore the REE grid access-capacity dataset",
	Long: `capacidad loads the REE "Capacidad de Acceso" demand CSV into a typed
table and answers capacity questions about the Spanish transmission grid:
regional summaries, node rankings, per-node diagnostics, and blocked-node
listings.

Configuration comes from environment variables; see internal/config.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger = observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

func main() {
	rootCmd.AddCommand(
		fetchCmd,
		infoCmd,
		regionsCmd,
		topCmd,
		searchCmd,
		nodeCmd,
		reportCmd,
		blockedCmd,
		criteriaCmd,
		exportCmd,
		serveCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadTable reads the configured CSV with the standard schema.
func loadTable() (*domain.Table, error) {
	return loader.Load(cfg.CSVPath, domain.DefaultSchema(), logger)
}
