package domain

import (
	"fmt"
	"strings"
)

// Status classifies a node's availability for new CEP CH demand, the primary
// capacity category.
type Status string

const (
	StatusAvailable         Status = "AVAILABLE"
	StatusBlockedTechnical  Status = "BLOCKED_TECHNICAL"
	StatusBlockedRegulatory Status = "BLOCKED_REGULATORY"
	StatusBlockedUnknown    Status = "BLOCKED_UNKNOWN"
)

// Positions is the six physical connection-bay flags of one node.
type Positions struct {
	GenExisting  bool `json:"gen_E"`
	GenPlanned   bool `json:"gen_P"`
	ConExisting  bool `json:"con_E"`
	ConPlanned   bool `json:"con_P"`
	DistExisting bool `json:"dist_E"`
	DistPlanned  bool `json:"dist_P"`
}

// Any reports whether at least one bay flag is set.
func (p Positions) Any() bool {
	return p.GenExisting || p.GenPlanned || p.ConExisting ||
		p.ConPlanned || p.DistExisting || p.DistPlanned
}

// ByCategory holds one value per capacity category: demand/storage crossed
// with CEP compliance class.
type ByCategory[T any] struct {
	CepCh        T `json:"cep_ch"`
	CepSh        T `json:"cep_sh"`
	NoCep        T `json:"no_cep"`
	StorageCep   T `json:"storage_cep"`
	StorageNoCep T `json:"storage_no_cep"`
}

// Values returns the five category values in AvailableCapacityColumns order.
func (b ByCategory[T]) Values() []T {
	return []T{b.CepCh, b.CepSh, b.NoCep, b.StorageCep, b.StorageNoCep}
}

// Diagnostic is a structured snapshot of one node's fields grouped into
// semantic sections, plus the computed status. Constructed fresh on each
// query; never cached.
type Diagnostic struct {
	Node       string   `json:"nudo"`
	Region     string   `json:"ccaa"`
	Substation string   `json:"cod_subestacion"`
	VoltageKV  *float64 `json:"voltage_kv"`

	HasDemandBay bool      `json:"has_demand_bay"`
	Positions    Positions `json:"positions"`

	Margins           Margins             `json:"margins"`
	MarginsByCategory ByCategory[float64] `json:"margins_by_category"`
	Available         ByCategory[float64] `json:"available"`
	BindingCriteria   ByCategory[string]  `json:"binding_criteria"`
	NonGrantable      ByCategory[float64] `json:"non_grantable"`

	NonGrantableReason string `json:"motivo_no_otorgable"`

	ReferenceValue  float64 `json:"valor_referencia"`
	AgreementStatus string  `json:"estado_acuerdo"`

	GrantedDemand  float64 `json:"otorgada_dem_rdt"`
	GrantedStorage float64 `json:"otorgada_alm_rdt"`
	PendingDemand  float64 `json:"pendiente_dem_rdt"`
	PendingStorage float64 `json:"pendiente_alm_rdt"`

	WSCRSharedNode   string `json:"wscr_binudos"`
	WSCRAlert        string `json:"wscr_alertas"`
	ConfigLimitation string `json:"est_dem_limit_temp"`
	IsTender         bool   `json:"is_concurso"`

	Status  Status `json:"status"`
	Summary string `json:"summary"`
}

// DiagnoseNode resolves a node-name query against the table and builds its
// diagnostic record.
//
// Resolution is two-phase: case-insensitive full-string equality first, then
// case-insensitive substring containment. Zero fuzzy matches yield a
// *NotFoundError; several yield an *AmbiguousMatchError carrying the
// candidate names. Several exact matches also yield an *AmbiguousMatchError:
// duplicate node names are an upstream data fault, and guessing between them
// would silently diagnose the wrong node.
func DiagnoseNode(t *Table, nameQuery string) (*Diagnostic, error) {
	row, err := resolveNode(t, nameQuery)
	if err != nil {
		return nil, err
	}

	d := buildDiagnostic(row)
	d.Status, d.Summary = classify(row)
	return d, nil
}

func resolveNode(t *Table, nameQuery string) (*NodeRecord, error) {
	queryUpper := strings.ToUpper(strings.TrimSpace(nameQuery))

	var exact []*NodeRecord
	for i := range t.Nodes {
		if strings.ToUpper(t.Nodes[i].Node) == queryUpper {
			exact = append(exact, &t.Nodes[i])
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}
	if len(exact) > 1 {
		return nil, &AmbiguousMatchError{Query: nameQuery, Candidates: names(exact)}
	}

	var fuzzy []*NodeRecord
	for i := range t.Nodes {
		if strings.Contains(strings.ToUpper(t.Nodes[i].Node), queryUpper) {
			fuzzy = append(fuzzy, &t.Nodes[i])
		}
	}
	switch len(fuzzy) {
	case 0:
		return nil, &NotFoundError{What: fmt.Sprintf("node %q", nameQuery)}
	case 1:
		return fuzzy[0], nil
	default:
		return nil, &AmbiguousMatchError{Query: nameQuery, Candidates: names(fuzzy)}
	}
}

func names(rows []*NodeRecord) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Node
	}
	return out
}

func buildDiagnostic(row *NodeRecord) *Diagnostic {
	return &Diagnostic{
		Node:       row.Node,
		Region:     row.Region,
		Substation: row.Substation,
		VoltageKV:  row.VoltageKV,

		HasDemandBay: row.HasDemandBay,
		Positions: Positions{
			GenExisting:  row.PosGenE,
			GenPlanned:   row.PosGenP,
			ConExisting:  row.PosConE,
			ConPlanned:   row.PosConP,
			DistExisting: row.PosDistE,
			DistPlanned:  row.PosDistP,
		},

		Margins: Margins{
			WSCRCapacity:   row.WSCRCapNodal,
			WSCRMargin:     row.WSCRMargin,
			EstDemCapacity: row.EstDemCapNodal,
			EstDemMargin:   row.EstDemMargin,
			EstAlmCapacity: row.EstAlmCapNodal,
			EstAlmMargin:   row.EstAlmMargin,
			Din1Margin:     row.Din1Margin,
			Din2Margin:     row.Din2Margin,
		},
		MarginsByCategory: ByCategory[float64]{
			CepCh:        row.MarginDemCepCh,
			CepSh:        row.MarginDemCepSh,
			NoCep:        row.MarginDemNoCep,
			StorageCep:   row.MarginAlmCep,
			StorageNoCep: row.MarginAlmNoCep,
		},
		Available: ByCategory[float64]{
			CepCh:        row.DispDemCepCh,
			CepSh:        row.DispDemCepSh,
			NoCep:        row.DispDemNoCep,
			StorageCep:   row.DispAlmCep,
			StorageNoCep: row.DispAlmNoCep,
		},
		BindingCriteria: ByCategory[string]{
			CepCh:        row.CritDemCepCh,
			CepSh:        row.CritDemCepSh,
			NoCep:        row.CritDemNoCep,
			StorageCep:   row.CritAlmCep,
			StorageNoCep: row.CritAlmNoCep,
		},
		NonGrantable: ByCategory[float64]{
			CepCh:        row.NoGrantDemCepCh,
			CepSh:        row.NoGrantDemCepSh,
			NoCep:        row.NoGrantDemNoCep,
			StorageCep:   row.NoGrantAlmCep,
			StorageNoCep: row.NoGrantAlmNoCep,
		},

		NonGrantableReason: row.NonGrantableReason,

		ReferenceValue:  row.ReferenceValue,
		AgreementStatus: row.AgreementStatus,

		GrantedDemand:  row.GrantedDemRdT,
		GrantedStorage: row.GrantedAlmRdT,
		PendingDemand:  row.PendingDemRdT,
		PendingStorage: row.PendingAlmRdT,

		WSCRSharedNode:   row.WSCRSharedNode,
		WSCRAlert:        row.WSCRAlerts,
		ConfigLimitation: row.EstDemLimitTemp,
		IsTender:         row.IsTender,
	}
}

// classify derives the status tag and one-line summary from the primary
// capacity category. Priority order: available, technical block, regulatory
// block, unknown block. First match wins.
func classify(row *NodeRecord) (Status, string) {
	switch {
	case row.DispDemCepCh > 0:
		return StatusAvailable,
			fmt.Sprintf("%.0f MW available for CEP CH demand", row.DispDemCepCh)
	case row.CritDemCepCh != "":
		return StatusBlockedTechnical,
			fmt.Sprintf("Technically blocked by %s", row.CritDemCepCh)
	case row.NonGrantableReason != "":
		return StatusBlockedRegulatory,
			fmt.Sprintf("Regulatory block: %s", row.NonGrantableReason)
	default:
		return StatusBlockedUnknown,
			"Blocked — no criteria or regulatory reason reported"
	}
}
