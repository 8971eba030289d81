package loader

import "github.com/gridatlas/capacidad/internal/domain"

// Check is the outcome of one validation check. Expected and Actual are kept
// as floats so counts and MW totals share one shape.
type Check struct {
	Name     string  `json:"name"`
	Expected float64 `json:"expected"`
	Actual   float64 `json:"actual"`
	OK       bool    `json:"ok"`
}

// Validate runs the fixed battery of sanity checks for a loaded table against
// a dataset snapshot's known aggregates. Every check runs and is reported
// even when earlier ones fail: one bad check must not hide the others. This
// is a regression harness for a specific snapshot, not a schema validator.
func Validate(t *domain.Table, exp domain.Expectations) []Check {
	rows := float64(t.Len())

	var totalPrimary float64
	regionCounts := make(map[string]int)
	for i := range t.Nodes {
		totalPrimary += t.Nodes[i].DispDemCepCh
		regionCounts[t.Nodes[i].Region]++
	}

	diff := totalPrimary - exp.TotalPrimaryMW
	if diff < 0 {
		diff = -diff
	}

	return []Check{
		{
			Name:     "row_count",
			Expected: float64(exp.Rows),
			Actual:   rows,
			OK:       t.Len() == exp.Rows,
		},
		{
			Name:     "col_count",
			Expected: float64(exp.Cols),
			Actual:   float64(t.RawColumnCount),
			OK:       t.RawColumnCount >= exp.Cols,
		},
		{
			Name:     "total_cep_ch_mw",
			Expected: exp.TotalPrimaryMW,
			Actual:   totalPrimary,
			OK:       diff < exp.TotalToleranceMW,
		},
		{
			Name:     "reference_region_nodes",
			Expected: float64(exp.ReferenceRegionNodes),
			Actual:   float64(regionCounts[exp.ReferenceRegion]),
			OK:       regionCounts[exp.ReferenceRegion] == exp.ReferenceRegionNodes,
		},
		{
			Name:     "distinct_regions",
			Expected: float64(exp.DistinctRegions),
			Actual:   float64(len(regionCounts)),
			OK:       len(regionCounts) == exp.DistinctRegions,
		},
	}
}

// AllOK reports whether every check passed.
func AllOK(checks []Check) bool {
	for _, c := range checks {
		if !c.OK {
			return false
		}
	}
	return true
}
