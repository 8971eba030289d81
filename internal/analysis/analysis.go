// Package analysis provides the stateless filter, aggregation, ranking, and
// lookup queries over a loaded capacity table. Every function takes the table
// and returns fresh data; nothing here mutates its input, so one table can be
// queried from many goroutines.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gridatlas/capacidad/internal/domain"
)

// FilterOptions are the optional, AND-composed predicates of FilterNodes.
// Zero values disable their predicate.
type FilterOptions struct {
	// Region matches by case-insensitive substring containment, not
	// equality, so "castilla" hits both Castillas.
	Region string
	// MinMW keeps rows whose CapacityColumn value is at least this.
	MinMW float64
	// CapacityColumn selects which available-capacity column MinMW and
	// OnlyAvailable apply to. Empty means the primary column.
	CapacityColumn string
	// VoltageKV keeps rows with exactly this voltage. Rows with unknown
	// voltage never match.
	VoltageKV *float64
	// OnlyAvailable keeps rows with capacity > 0.
	OnlyAvailable bool
	// OnlyTender, when set, keeps rows whose tender flag equals the value.
	OnlyTender *bool
}

// capacityColumn validates a capacity column name, defaulting to the primary
// column when empty.
func capacityColumn(col string) (string, error) {
	if col == "" {
		return domain.ColPrimaryCap, nil
	}
	for _, c := range domain.AvailableCapacityColumns {
		if c == col {
			return col, nil
		}
	}
	return "", fmt.Errorf("unknown capacity column %q", col)
}

// FilterNodes returns the rows matching every set predicate, in table order.
func FilterNodes(t *domain.Table, opts FilterOptions) ([]domain.NodeRecord, error) {
	col, err := capacityColumn(opts.CapacityColumn)
	if err != nil {
		return nil, err
	}
	regionQuery := strings.ToLower(opts.Region)

	var out []domain.NodeRecord
	for i := range t.Nodes {
		rec := &t.Nodes[i]
		val, _ := rec.Capacity(col)

		if opts.Region != "" && !strings.Contains(strings.ToLower(rec.Region), regionQuery) {
			continue
		}
		if opts.MinMW > 0 && val < opts.MinMW {
			continue
		}
		if opts.VoltageKV != nil && (rec.VoltageKV == nil || *rec.VoltageKV != *opts.VoltageKV) {
			continue
		}
		if opts.OnlyAvailable && val <= 0 {
			continue
		}
		if opts.OnlyTender != nil && rec.IsTender != *opts.OnlyTender {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

// RegionSummary aggregates one region's capacity statistics.
type RegionSummary struct {
	Region              string  `json:"ccaa"`
	Nodes               int     `json:"nodes"`
	TotalMW             int     `json:"total_mw"`
	AvgMW               int     `json:"avg_mw"`
	NodesWithCapacity   int     `json:"nodes_with_capacity"`
	NodesBlocked        int     `json:"nodes_blocked"`
	UnresolvedAgreement int     `json:"unresolved_agreement"`
	totalExact          float64
}

// SummaryByRegion groups the table by autonomous community and aggregates the
// given capacity column: node count, total, mean (rounded to the nearest
// integer), nodes with and without capacity, and unresolved agreements.
// Groups come back sorted by total descending.
func SummaryByRegion(t *domain.Table, capacityCol string) ([]RegionSummary, error) {
	col, err := capacityColumn(capacityCol)
	if err != nil {
		return nil, err
	}

	byRegion := make(map[string]*RegionSummary)
	var order []string
	for i := range t.Nodes {
		rec := &t.Nodes[i]
		s, ok := byRegion[rec.Region]
		if !ok {
			s = &RegionSummary{Region: rec.Region}
			byRegion[rec.Region] = s
			order = append(order, rec.Region)
		}

		val, _ := rec.Capacity(col)
		s.Nodes++
		s.totalExact += val
		if val > 0 {
			s.NodesWithCapacity++
		} else {
			s.NodesBlocked++
		}
		if rec.AgreementStatus == domain.AgreementNotReached {
			s.UnresolvedAgreement++
		}
	}

	out := make([]RegionSummary, 0, len(order))
	for _, region := range order {
		s := byRegion[region]
		s.TotalMW = int(s.totalExact)
		s.AvgMW = int(math.Round(s.totalExact / float64(s.Nodes)))
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].totalExact > out[j].totalExact
	})
	return out, nil
}

// TopNodes ranks nodes by the given capacity column, keeping only rows with
// capacity > 0 and returning at most n. The sort is stable: ties keep the
// original row order.
func TopNodes(t *domain.Table, n int, capacityCol string) ([]domain.NodeRecord, error) {
	col, err := capacityColumn(capacityCol)
	if err != nil {
		return nil, err
	}

	var out []domain.NodeRecord
	for i := range t.Nodes {
		if val, _ := t.Nodes[i].Capacity(col); val > 0 {
			out = append(out, t.Nodes[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, _ := out[i].Capacity(col)
		cj, _ := out[j].Capacity(col)
		return ci > cj
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// SearchNodes matches node names by case-insensitive substring and returns at
// most limit rows in table order. No relevance ranking.
func SearchNodes(t *domain.Table, query string, limit int) []domain.NodeRecord {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []domain.NodeRecord
	for i := range t.Nodes {
		if limit >= 0 && len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(t.Nodes[i].Node), q) {
			out = append(out, t.Nodes[i])
		}
	}
	return out
}

// Block-reason filters accepted by BlockedNodes.
const (
	ReasonTechnical  = "technical"
	ReasonRegulatory = "regulatory"
)

// BlockedNodes lists rows with zero primary available capacity, sorted by
// region. A reason of "technical" or "regulatory" narrows to the matching
// derived flag; empty keeps all blocked rows.
func BlockedNodes(t *domain.Table, reason string) ([]domain.NodeRecord, error) {
	if reason != "" && reason != ReasonTechnical && reason != ReasonRegulatory {
		return nil, fmt.Errorf("unknown block reason %q", reason)
	}

	var out []domain.NodeRecord
	for i := range t.Nodes {
		rec := &t.Nodes[i]
		if rec.DispDemCepCh != 0 {
			continue
		}
		if reason == ReasonTechnical && !rec.IsBlockedTechnical {
			continue
		}
		if reason == ReasonRegulatory && !rec.IsBlockedRegulatory {
			continue
		}
		out = append(out, *rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Region < out[j].Region
	})
	return out, nil
}

// CriterionCount is one row of a binding-criteria distribution.
type CriterionCount struct {
	Criterion string `json:"criterion"`
	Nodes     int    `json:"nodes"`
}

// CriteriaDistribution counts distinct non-empty values of a binding-
// criterion column, descending by count (ties by criterion name for
// determinism).
func CriteriaDistribution(t *domain.Table, criteriaCol string) ([]CriterionCount, error) {
	if criteriaCol == "" {
		criteriaCol = domain.ColPrimaryCrit
	}
	valid := false
	for _, c := range domain.BindingCriteriaColumns {
		if c == criteriaCol {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("unknown criteria column %q", criteriaCol)
	}

	counts := make(map[string]int)
	for i := range t.Nodes {
		if v, _ := t.Nodes[i].Criterion(criteriaCol); v != "" {
			counts[v]++
		}
	}

	out := make([]CriterionCount, 0, len(counts))
	for crit, n := range counts {
		out = append(out, CriterionCount{Criterion: crit, Nodes: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Nodes != out[j].Nodes {
			return out[i].Nodes > out[j].Nodes
		}
		return out[i].Criterion < out[j].Criterion
	})
	return out, nil
}
