package domain

import "strings"

// CriterionCode is the closed set of binding-criterion codes the source data
// reports. Raw cells may combine several codes with "/"; ParseCriteria splits
// them.
type CriterionCode int

const (
	CriterionUnknown CriterionCode = iota
	CriterionWSCRNode
	CriterionWSCRZone
	CriterionEstDemNode
	CriterionEstDemZone
	CriterionEstAlmNode
	CriterionEstAlmZone
	CriterionDin1Zone
	CriterionDin2Zone
)

// CriterionFamily groups criterion codes by the underlying technical limit,
// which determines the margin field and remediation context that apply.
type CriterionFamily int

const (
	FamilyUnknown CriterionFamily = iota
	FamilyWSCR
	FamilyEstDem
	FamilyEstAlm
	FamilyDin1
	FamilyDin2
)

var criterionByRaw = map[string]CriterionCode{
	"WSCR_Nudo":    CriterionWSCRNode,
	"WSCR_Zona":    CriterionWSCRZone,
	"Est_Dem_Nudo": CriterionEstDemNode,
	"Est_Dem_Zona": CriterionEstDemZone,
	"Est_Alm_Nudo": CriterionEstAlmNode,
	"Est_Alm_Zona": CriterionEstAlmZone,
	"Din1_Zona":    CriterionDin1Zone,
	"Din2_Zona":    CriterionDin2Zone,
}

// Criterion is one parsed sub-code of a binding-criterion cell. Raw keeps
// the original code text so unrecognized codes still render verbatim.
type Criterion struct {
	Raw  string
	Code CriterionCode
}

// ParseCriteria splits a raw binding-criterion cell into its component
// criteria. Combined codes are joined by "/" in the source. An empty cell
// yields nil: no criterion reported.
func ParseCriteria(raw string) []Criterion {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "/")
	criteria := make([]Criterion, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		criteria = append(criteria, Criterion{Raw: p, Code: criterionByRaw[p]})
	}
	return criteria
}

// Family returns the technical-limit family of a code.
func (c CriterionCode) Family() CriterionFamily {
	switch c {
	case CriterionWSCRNode, CriterionWSCRZone:
		return FamilyWSCR
	case CriterionEstDemNode, CriterionEstDemZone:
		return FamilyEstDem
	case CriterionEstAlmNode, CriterionEstAlmZone:
		return FamilyEstAlm
	case CriterionDin1Zone:
		return FamilyDin1
	case CriterionDin2Zone:
		return FamilyDin2
	}
	return FamilyUnknown
}

// PlainName returns the plain-language description of a criterion code for
// report prose. Unknown codes have no name; render their raw text instead.
func (c CriterionCode) PlainName() string {
	switch c {
	case CriterionWSCRNode:
		return "WSCR (short-circuit ratio) at this node"
	case CriterionWSCRZone:
		return "WSCR (short-circuit ratio) in the surrounding zone"
	case CriterionEstDemNode:
		return "steady-state demand capacity at this node"
	case CriterionEstDemZone:
		return "steady-state demand capacity in the surrounding zone"
	case CriterionEstAlmNode:
		return "steady-state storage capacity at this node"
	case CriterionEstAlmZone:
		return "steady-state storage capacity in the surrounding zone"
	case CriterionDin1Zone:
		return "transient stability (dynamic criterion 1) in the zone"
	case CriterionDin2Zone:
		return "transient stability (dynamic criterion 2) in the zone"
	}
	return ""
}

// Remediation returns the plain-language context for what relieves a
// criterion family's limit.
func (f CriterionFamily) Remediation() string {
	switch f {
	case FamilyWSCR:
		return "The grid here is electrically weak for power-electronics load; relief typically requires synchronous compensation or grid reinforcement in the area."
	case FamilyEstDem:
		return "Thermal capacity for demand is exhausted; relief requires new transformation or line capacity, usually via the grid planning cycle."
	case FamilyEstAlm:
		return "Thermal capacity for storage injection is exhausted; relief requires new transformation or line capacity, usually via the grid planning cycle."
	case FamilyDin1:
		return "The zone fails transient-stability simulations for additional load; relief depends on reinforcement or changes in the generation mix nearby."
	case FamilyDin2:
		return "The zone fails the secondary dynamic-stability criterion; relief depends on reinforcement or changes in the generation mix nearby."
	}
	return ""
}

// Margins is the per-criterion MW headroom snapshot of one node, independent
// of which criterion currently binds.
type Margins struct {
	WSCRCapacity   float64 `json:"wscr_capacity"`
	WSCRMargin     float64 `json:"wscr_margin"`
	EstDemCapacity float64 `json:"est_dem_capacity"`
	EstDemMargin   float64 `json:"est_dem_margin"`
	EstAlmCapacity float64 `json:"est_alm_capacity"`
	EstAlmMargin   float64 `json:"est_alm_margin"`
	Din1Margin     float64 `json:"din1_margin"`
	Din2Margin     float64 `json:"din2_margin"`
}

// marginFor maps a criterion family to its margin field.
func (m Margins) marginFor(f CriterionFamily) (float64, bool) {
	switch f {
	case FamilyWSCR:
		return m.WSCRMargin, true
	case FamilyEstDem:
		return m.EstDemMargin, true
	case FamilyEstAlm:
		return m.EstAlmMargin, true
	case FamilyDin1:
		return m.Din1Margin, true
	case FamilyDin2:
		return m.Din2Margin, true
	}
	return 0, false
}

// MinMargin reports the tightest margin across the criteria referenced by a
// (possibly combined) binding-criterion code: the smallest headroom governs.
// The second return is false when no referenced criterion maps to a margin.
func MinMargin(m Margins, criteria []Criterion) (float64, bool) {
	min, found := 0.0, false
	for _, c := range criteria {
		v, ok := m.marginFor(c.Code.Family())
		if !ok {
			continue
		}
		if !found || v < min {
			min, found = v, true
		}
	}
	return min, found
}
