package domain

// ColumnKind classifies how a raw CSV cell is converted into a typed value.
type ColumnKind int

const (
	// KindRaw cells pass through as unprocessed strings.
	KindRaw ColumnKind = iota
	// KindNumeric cells parse via ParseNumber (dot thousands separator).
	KindNumeric
	// KindString cells are trimmed; missing becomes the empty string.
	KindString
	// KindPositionFlag cells parse via ParseCheckmark.
	KindPositionFlag
)

// Column describes one source CSV column: its semantic name and how its
// cells are typed.
type Column struct {
	Name string
	Kind ColumnKind
}

// Schema is the ordered column registry for the REE capacity CSV. Columns
// are assigned positionally; a file with more raw columns than the schema
// defines keeps the extras as opaque strings.
type Schema struct {
	Columns []Column

	index map[string]int
}

// NewSchema builds a Schema from an ordered column list.
func NewSchema(columns []Column) *Schema {
	s := &Schema{
		Columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		s.index[c.Name] = i
	}
	return s
}

// Len returns the number of defined source columns.
func (s *Schema) Len() int { return len(s.Columns) }

// Position returns the positional index of a named column.
func (s *Schema) Position(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Kind returns the classification of a named column. Unknown names report
// KindRaw, matching the "unknown columns default to raw" rule.
func (s *Schema) Kind(name string) ColumnKind {
	if i, ok := s.index[name]; ok {
		return s.Columns[i].Kind
	}
	return KindRaw
}

// Column name constants for the fields referenced across packages. The full
// positional list lives in DefaultSchema.
const (
	ColNode           = "nudo"
	ColSubstation     = "cod_subestacion"
	ColRegion         = "ccaa"
	ColPrimaryCap     = "disp_dem_cep_ch"
	ColPrimaryCrit    = "limitante_dem_cep_ch"
	ColNonGrantReason = "motivo_no_otorgable"
)

// AvailableCapacityColumns lists the five available-capacity columns, one per
// demand/storage × compliance-class category. The first is the primary
// capacity column used by blocked-node queries and status classification.
var AvailableCapacityColumns = []string{
	"disp_dem_cep_ch",
	"disp_dem_cep_sh",
	"disp_dem_no_cep",
	"disp_alm_cep",
	"disp_alm_no_cep",
}

// BindingCriteriaColumns lists the binding-criterion columns, index-aligned
// with AvailableCapacityColumns.
var BindingCriteriaColumns = []string{
	"limitante_dem_cep_ch",
	"limitante_dem_cep_sh",
	"limitante_dem_no_cep",
	"limitante_alm_cep",
	"limitante_alm_no_cep",
}

// MarginColumns lists the gross-margin columns, index-aligned with
// AvailableCapacityColumns.
var MarginColumns = []string{
	"margen_dem_cep_ch",
	"margen_dem_cep_sh",
	"margen_dem_no_cep",
	"margen_alm_cep",
	"margen_alm_no_cep",
}

// CapacityLabels maps capacity column names to their user-facing labels.
var CapacityLabels = map[string]string{
	"disp_dem_cep_ch": "CEP CH Demand",
	"disp_dem_cep_sh": "CEP SH Demand",
	"disp_dem_no_cep": "NO CEP Demand",
	"disp_alm_cep":    "CEP Storage",
	"disp_alm_no_cep": "NO CEP Storage",
}

// Regions lists the autonomous communities present in the dataset.
var Regions = []string{
	"Andalucía", "Aragón", "Canarias", "Cantabria",
	"Castilla y León", "Castilla-La Mancha", "Cataluña",
	"Ceuta", "Comunidad de Madrid", "Comunidad Foral de Navarra",
	"Comunidad Valenciana", "Extremadura", "Galicia",
	"Islas Baleares", "La Rioja", "País Vasco",
	"Principado de Asturias", "Región de Murcia",
}

// Agreement status values as reported by the source.
const (
	AgreementReached       = "SI"
	AgreementNotReached    = "NO"
	AgreementNotApplicable = "N/A"
)

// Expectations holds the known aggregates of a specific dataset snapshot,
// used by the validator as a regression harness. Values are per snapshot,
// not universal: a newer REE publication needs its own set.
type Expectations struct {
	Rows                 int
	Cols                 int
	TotalPrimaryMW       float64
	TotalToleranceMW     float64
	ReferenceRegion      string
	ReferenceRegionNodes int
	DistinctRegions      int
}

// DefaultExpectations returns the reference aggregates for the
// 2026-02-20 GRT demanda snapshot.
func DefaultExpectations() Expectations {
	return Expectations{
		Rows:                 937,
		Cols:                 61,
		TotalPrimaryMW:       39643,
		TotalToleranceMW:     100,
		ReferenceRegion:      "Cataluña",
		ReferenceRegionNodes: 118,
		DistinctRegions:      18,
	}
}

// DefaultSchema returns the 61-column registry for the REE demand access
// capacity CSV, in source order.
func DefaultSchema() *Schema {
	return NewSchema([]Column{
		{"nudo", KindString},                    // node name + voltage suffix
		{"cod_subestacion", KindString},         // substation code
		{"ccaa", KindString},                    // autonomous community
		{"pos_gen_E", KindPositionFlag},         // existing generation/storage bay
		{"pos_gen_P", KindPositionFlag},         // planned generation/storage bay
		{"pos_con_E", KindPositionFlag},         // existing demand bay
		{"pos_con_P", KindPositionFlag},         // planned demand bay
		{"pos_dist_E", KindPositionFlag},        // existing distribution connection
		{"pos_dist_P", KindPositionFlag},        // planned distribution connection
		{"wscr_cap_nodal", KindNumeric},         // WSCR nodal capacity (MW)
		{"wscr_binudos", KindString},            // shared WSCR node
		{"wscr_alertas", KindString},            // WSCR security alerts
		{"wscr_margen", KindNumeric},            // WSCR margin (MW)
		{"est_dem_cap_nodal", KindNumeric},      // static demand nodal capacity (MW)
		{"est_dem_zona", KindString},            // shared capacity zone
		{"est_dem_margen", KindNumeric},         // static demand margin (MW)
		{"est_dem_limit_temp", KindString},      // substation config limitations
		{"est_alm_cap_nodal", KindNumeric},      // static storage nodal capacity (MW)
		{"est_alm_zona", KindString},            // shared storage zone
		{"est_alm_margen", KindNumeric},         // static storage margin (MW)
		{"din1_margen", KindNumeric},            // dynamic 1 margin (MW)
		{"din2_margen", KindNumeric},            // dynamic 2 margin (MW)
		{"valor_referencia", KindNumeric},       // reference value (MW)
		{"estado_acuerdo", KindString},          // agreement status
		{"otorgada_dem_adicional", KindNumeric}, // granted demand beyond reference
		{"otorgada_dem_cep_wscr", KindNumeric},  // granted CEP demand affecting WSCR
		{"otorgada_dem_rdt", KindNumeric},       // total granted demand RdT
		{"otorgada_dem_rdd", KindNumeric},       // demand with distribution acceptability
		{"otorgada_dem_rdd_no_ref", KindNumeric},
		{"otorgada_alm_adicional", KindNumeric}, // granted storage beyond reference
		{"otorgada_alm_rdt", KindNumeric},       // total granted storage RdT
		{"otorgada_alm_rdd", KindNumeric},
		{"otorgada_alm_rdd_no_ref", KindNumeric},
		{"otorgada_dem_ch_rdt", KindNumeric},
		{"otorgada_dem_sh_rdt", KindNumeric},
		{"otorgada_ch_rdd", KindNumeric},
		{"otorgada_sh_rdd", KindNumeric},
		{"pendiente_dem_rdt", KindNumeric}, // pending demand applications
		{"pendiente_alm_rdt", KindNumeric}, // pending storage applications
		{"margen_dem_cep_ch", KindNumeric},
		{"margen_dem_cep_sh", KindNumeric},
		{"margen_dem_no_cep", KindNumeric},
		{"margen_alm_cep", KindNumeric},
		{"margen_alm_no_cep", KindNumeric},
		{"limitante_dem_cep_ch", KindString},
		{"limitante_dem_cep_sh", KindString},
		{"limitante_dem_no_cep", KindString},
		{"limitante_alm_cep", KindString},
		{"limitante_alm_no_cep", KindString},
		{"no_otorg_dem_cep_ch", KindNumeric},
		{"no_otorg_dem_cep_sh", KindNumeric},
		{"no_otorg_dem_no_cep", KindNumeric},
		{"no_otorg_alm_cep", KindNumeric},
		{"no_otorg_alm_no_cep", KindNumeric},
		{"motivo_no_otorgable", KindString}, // reason non-grantable
		{"disp_dem_cep_ch", KindNumeric},    // available CEP CH demand (MW), primary
		{"disp_dem_cep_sh", KindNumeric},
		{"disp_dem_no_cep", KindNumeric},
		{"disp_alm_cep", KindNumeric},
		{"disp_alm_no_cep", KindNumeric},
		{"concurso", KindString}, // competitive tender flag
	})
}
