package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gridatlas/capacidad/internal/analysis"
	"github.com/gridatlas/capacidad/internal/domain"
	"github.com/gridatlas/capacidad/internal/loader"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Load the dataset and run its sanity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}

		var totalPrimary float64
		regions := make(map[string]struct{})
		for i := range t.Nodes {
			totalPrimary += t.Nodes[i].DispDemCepCh
			regions[t.Nodes[i].Region] = struct{}{}
		}
		fmt.Printf("Rows: %d   Raw columns: %d   Regions: %d   Total CEP CH: %.0f MW\n\n",
			t.Len(), t.RawColumnCount, len(regions), totalPrimary)

		checks := loader.Validate(t, cfg.Expectations)
		tw := newTable([]string{"Check", "Expected", "Actual", "Result"})
		for _, c := range checks {
			result := "PASS"
			if !c.OK {
				result = "FAIL"
			}
			tw.Append([]string{c.Name, trimFloat(c.Expected), trimFloat(c.Actual), result})
		}
		tw.Render()

		if !loader.AllOK(checks) {
			return fmt.Errorf("dataset validation failed")
		}
		return nil
	},
}

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Summarize available capacity by autonomous community",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		col, _ := cmd.Flags().GetString("column")
		summaries, err := analysis.SummaryByRegion(t, col)
		if err != nil {
			return err
		}

		tw := newTable([]string{"Region", "Nodes", "Total MW", "Avg MW", "With capacity", "Blocked", "Unresolved agr."})
		for _, s := range summaries {
			tw.Append([]string{
				s.Region,
				strconv.Itoa(s.Nodes),
				strconv.Itoa(s.TotalMW),
				strconv.Itoa(s.AvgMW),
				strconv.Itoa(s.NodesWithCapacity),
				strconv.Itoa(s.NodesBlocked),
				strconv.Itoa(s.UnresolvedAgreement),
			})
		}
		tw.Render()
		return nil
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank nodes by available capacity",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		n, _ := cmd.Flags().GetInt("n")
		col, _ := cmd.Flags().GetString("column")
		region, _ := cmd.Flags().GetString("region")

		if region != "" {
			nodes, err := analysis.FilterNodes(t, analysis.FilterOptions{Region: region, CapacityColumn: col})
			if err != nil {
				return err
			}
			t = &domain.Table{Nodes: nodes, Schema: t.Schema}
		}

		nodes, err := analysis.TopNodes(t, n, col)
		if err != nil {
			return err
		}
		printNodes(nodes, col)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find nodes by name substring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		nodes := analysis.SearchNodes(t, args[0], limit)
		if len(nodes) == 0 {
			fmt.Printf("No nodes match %q.\n", args[0])
			return nil
		}
		printNodes(nodes, "")
		return nil
	},
}

var blockedCmd = &cobra.Command{
	Use:   "blocked",
	Short: "List nodes with zero CEP CH capacity",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		reason, _ := cmd.Flags().GetString("reason")
		nodes, err := analysis.BlockedNodes(t, reason)
		if err != nil {
			return err
		}

		tw := newTable([]string{"Node", "Region", "Criterion", "Regulatory reason"})
		for i := range nodes {
			tw.Append([]string{
				nodes[i].Node,
				nodes[i].Region,
				nodes[i].CritDemCepCh,
				nodes[i].NonGrantableReason,
			})
		}
		tw.Render()
		fmt.Printf("%d blocked nodes\n", len(nodes))
		return nil
	},
}

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Show the distribution of binding criteria",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		col, _ := cmd.Flags().GetString("column")
		counts, err := analysis.CriteriaDistribution(t, col)
		if err != nil {
			return err
		}

		tw := newTable([]string{"Criterion", "Nodes"})
		for _, c := range counts {
			tw.Append([]string{c.Criterion, strconv.Itoa(c.Nodes)})
		}
		tw.Render()
		return nil
	},
}

func init() {
	regionsCmd.Flags().String("column", "", "capacity column to aggregate")
	topCmd.Flags().Int("n", 20, "number of nodes to show")
	topCmd.Flags().String("column", "", "capacity column to rank by")
	topCmd.Flags().String("region", "", "restrict to one autonomous community")
	searchCmd.Flags().Int("limit", 50, "maximum matches to show")
	blockedCmd.Flags().String("reason", "", "filter: technical or regulatory")
	criteriaCmd.Flags().String("column", "", "binding-criterion column to count")
}

func newTable(header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetAutoWrapText(false)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeader(header)
	return tw
}

func printNodes(nodes []domain.NodeRecord, capacityCol string) {
	if capacityCol == "" {
		capacityCol = domain.ColPrimaryCap
	}
	critCol, marginCol := alignedColumnsFor(capacityCol)

	tw := newTable([]string{"Node", "Region", "kV", "Available MW", "Margin MW", "Criterion"})
	for i := range nodes {
		val, _ := nodes[i].Capacity(capacityCol)
		margin, _ := nodes[i].Margin(marginCol)
		crit, _ := nodes[i].Criterion(critCol)
		tw.Append([]string{
			nodes[i].Node,
			nodes[i].Region,
			voltageString(&nodes[i]),
			trimFloat(val),
			trimFloat(margin),
			crit,
		})
	}
	tw.Render()
}

// alignedColumnsFor maps a capacity column to its binding-criterion and
// gross-margin columns; the three slices are index-aligned.
func alignedColumnsFor(capacityCol string) (critCol, marginCol string) {
	for i, c := range domain.AvailableCapacityColumns {
		if c == capacityCol {
			return domain.BindingCriteriaColumns[i], domain.MarginColumns[i]
		}
	}
	return domain.ColPrimaryCrit, domain.MarginColumns[0]
}

func voltageString(r *domain.NodeRecord) string {
	if r.VoltageKV == nil {
		return "-"
	}
	return trimFloat(*r.VoltageKV)
}

// trimFloat renders a float without trailing zeros.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
