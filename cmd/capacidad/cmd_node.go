package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridatlas/capacidad/internal/domain"
	"github.com/gridatlas/capacidad/internal/report"
)

var nodeCmd = &cobra.Command{
	Use:   "node <name>",
	Short: "Show the structured diagnostic for one node",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		diag, err := domain.DiagnoseNode(t, strings.Join(args, " "))
		if err != nil {
			fmt.Fprint(os.Stderr, report.RenderError(err))
			os.Exit(1)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(diag)
		}

		fmt.Printf("%s (%s)\n", diag.Node, diag.Region)
		fmt.Printf("  Status:    %s\n", diag.Status)
		fmt.Printf("  Summary:   %s\n", diag.Summary)
		fmt.Printf("  CEP CH:    %.0f MW   CEP SH: %.0f MW   NO CEP: %.0f MW\n",
			diag.Available.CepCh, diag.Available.CepSh, diag.Available.NoCep)
		fmt.Printf("  Storage:   CEP %.0f MW   NO CEP %.0f MW\n",
			diag.Available.StorageCep, diag.Available.StorageNoCep)
		if diag.BindingCriteria.CepCh != "" {
			fmt.Printf("  Criterion: %s\n", diag.BindingCriteria.CepCh)
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <name>",
	Short: "Render the full capacity report for one node",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		diag, err := domain.DiagnoseNode(t, strings.Join(args, " "))
		if err != nil {
			fmt.Fprint(os.Stderr, report.RenderError(err))
			os.Exit(1)
		}

		text := report.Render(diag)
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			logger.Info("report written", "node", diag.Node, "path", out)
			return nil
		}
		fmt.Print(text)
		return nil
	},
}

func init() {
	nodeCmd.Flags().Bool("json", false, "emit the diagnostic as JSON")
	reportCmd.Flags().String("output", "", "write the report to a file instead of stdout")
}
