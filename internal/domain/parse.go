package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// voltageRe matches one or more trailing digits at the end of a node name,
// e.g. "ESCATRON 400" -> "400".
var voltageRe = regexp.MustCompile(`(\d+)\s*$`)

// Checkmark is the glyph REE uses for a set position flag.
const Checkmark = "✓"

// ParseNumber converts an REE numeric cell to a float64. Dots are thousands
// separators, never decimal points: "1.310" parses as 1310. Empty cells,
// "N/A", and anything unparseable degrade to 0; cell-level faults never
// abort a load.
func ParseNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "N/A" {
		return 0
	}
	raw = strings.ReplaceAll(raw, ".", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// NumberFallback reports whether a numeric cell degrades to zero without
// meaning zero: non-empty, not "N/A", and still unparseable after separator
// stripping. Loads count these cells so a corrupted file shows up in the
// logs and metrics instead of silently reading as zeros.
func NumberFallback(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "N/A" {
		return false
	}
	_, err := strconv.ParseFloat(strings.ReplaceAll(raw, ".", ""), 64)
	return err != nil
}

// ParseCheckmark converts a position-flag cell to a bool. Only the checkmark
// glyph counts as true.
func ParseCheckmark(raw string) bool {
	return strings.TrimSpace(raw) == Checkmark
}

// ParseVoltage extracts the voltage level in kV from the trailing digits of a
// node name. Returns nil when the name carries no trailing digits: an unknown
// voltage is distinct from 0 kV.
func ParseVoltage(nodeName string) *float64 {
	m := voltageRe.FindStringSubmatch(strings.TrimSpace(nodeName))
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

// rowReader gives typed, soft-failing access to one raw row's cells by
// schema column name. Missing cells read as empty strings.
type rowReader struct {
	schema *Schema
	cells  []string
}

func (r rowReader) raw(name string) string {
	i, ok := r.schema.Position(name)
	if !ok || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

func (r rowReader) str(name string) string  { return strings.TrimSpace(r.raw(name)) }
func (r rowReader) num(name string) float64 { return ParseNumber(r.raw(name)) }
func (r rowReader) flag(name string) bool   { return ParseCheckmark(r.raw(name)) }

// ParseRow converts one raw row of cells into a typed NodeRecord according to
// the schema's column kinds. Cells beyond the schema are kept verbatim in
// Extra. Derived columns are left zero; callers run DeriveRecord afterwards.
func ParseRow(s *Schema, cells []string) NodeRecord {
	r := rowReader{schema: s, cells: cells}

	rec := NodeRecord{
		Node:       r.str(ColNode),
		Substation: r.str(ColSubstation),
		Region:     r.str(ColRegion),

		PosGenE:  r.flag("pos_gen_E"),
		PosGenP:  r.flag("pos_gen_P"),
		PosConE:  r.flag("pos_con_E"),
		PosConP:  r.flag("pos_con_P"),
		PosDistE: r.flag("pos_dist_E"),
		PosDistP: r.flag("pos_dist_P"),

		WSCRCapNodal:   r.num("wscr_cap_nodal"),
		WSCRSharedNode: r.str("wscr_binudos"),
		WSCRAlerts:     r.str("wscr_alertas"),
		WSCRMargin:     r.num("wscr_margen"),

		EstDemCapNodal:  r.num("est_dem_cap_nodal"),
		EstDemZone:      r.str("est_dem_zona"),
		EstDemMargin:    r.num("est_dem_margen"),
		EstDemLimitTemp: r.str("est_dem_limit_temp"),

		EstAlmCapNodal: r.num("est_alm_cap_nodal"),
		EstAlmZone:     r.str("est_alm_zona"),
		EstAlmMargin:   r.num("est_alm_margen"),

		Din1Margin: r.num("din1_margen"),
		Din2Margin: r.num("din2_margen"),

		ReferenceValue:  r.num("valor_referencia"),
		AgreementStatus: r.str("estado_acuerdo"),

		GrantedDemAdditional: r.num("otorgada_dem_adicional"),
		GrantedDemCepWSCR:    r.num("otorgada_dem_cep_wscr"),
		GrantedDemRdT:        r.num("otorgada_dem_rdt"),
		GrantedDemRdD:        r.num("otorgada_dem_rdd"),
		GrantedDemRdDNoRef:   r.num("otorgada_dem_rdd_no_ref"),
		GrantedAlmAdditional: r.num("otorgada_alm_adicional"),
		GrantedAlmRdT:        r.num("otorgada_alm_rdt"),
		GrantedAlmRdD:        r.num("otorgada_alm_rdd"),
		GrantedAlmRdDNoRef:   r.num("otorgada_alm_rdd_no_ref"),
		GrantedDemChRdT:      r.num("otorgada_dem_ch_rdt"),
		GrantedDemShRdT:      r.num("otorgada_dem_sh_rdt"),
		GrantedChRdD:         r.num("otorgada_ch_rdd"),
		GrantedShRdD:         r.num("otorgada_sh_rdd"),

		PendingDemRdT: r.num("pendiente_dem_rdt"),
		PendingAlmRdT: r.num("pendiente_alm_rdt"),

		MarginDemCepCh: r.num("margen_dem_cep_ch"),
		MarginDemCepSh: r.num("margen_dem_cep_sh"),
		MarginDemNoCep: r.num("margen_dem_no_cep"),
		MarginAlmCep:   r.num("margen_alm_cep"),
		MarginAlmNoCep: r.num("margen_alm_no_cep"),

		CritDemCepCh: r.str("limitante_dem_cep_ch"),
		CritDemCepSh: r.str("limitante_dem_cep_sh"),
		CritDemNoCep: r.str("limitante_dem_no_cep"),
		CritAlmCep:   r.str("limitante_alm_cep"),
		CritAlmNoCep: r.str("limitante_alm_no_cep"),

		NoGrantDemCepCh: r.num("no_otorg_dem_cep_ch"),
		NoGrantDemCepSh: r.num("no_otorg_dem_cep_sh"),
		NoGrantDemNoCep: r.num("no_otorg_dem_no_cep"),
		NoGrantAlmCep:   r.num("no_otorg_alm_cep"),
		NoGrantAlmNoCep: r.num("no_otorg_alm_no_cep"),

		NonGrantableReason: r.str(ColNonGrantReason),

		DispDemCepCh: r.num("disp_dem_cep_ch"),
		DispDemCepSh: r.num("disp_dem_cep_sh"),
		DispDemNoCep: r.num("disp_dem_no_cep"),
		DispAlmCep:   r.num("disp_alm_cep"),
		DispAlmNoCep: r.num("disp_alm_no_cep"),

		Tender: r.str("concurso"),
	}

	if len(cells) > s.Len() {
		rec.Extra = append(rec.Extra, cells[s.Len():]...)
	}

	return rec
}

// DeriveRecord computes the classification columns from a parsed record.
// Run exactly once per row at load time; downstream queries consume the
// results rather than re-deriving them.
func DeriveRecord(rec NodeRecord) NodeRecord {
	rec.HasDemandBay = rec.PosConE || rec.PosConP
	rec.IsBlockedTechnical = rec.CritDemCepCh != "" && rec.DispDemCepCh == 0
	rec.IsBlockedRegulatory = rec.NonGrantableReason != ""
	rec.HasWSCRAlert = rec.WSCRAlerts != ""
	rec.IsTender = rec.Tender == "SI"
	rec.AgreementResolved = rec.AgreementStatus == AgreementReached
	rec.VoltageKV = ParseVoltage(rec.Node)
	return rec
}
