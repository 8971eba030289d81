package domain

// NodeRecord is one typed row of the capacity table: a single
// substation/voltage-level node with its connection bays, technical margins,
// granted and pending volumes, binding criteria, and available capacity per
// category. Field order mirrors the source column order; JSON tags keep the
// source column names so exports stay cross-checkable against the CSV.
type NodeRecord struct {
	Node       string `json:"nudo"`
	Substation string `json:"cod_subestacion"`
	Region     string `json:"ccaa"`

	// Physical connection-bay positions.
	PosGenE  bool `json:"pos_gen_E"`
	PosGenP  bool `json:"pos_gen_P"`
	PosConE  bool `json:"pos_con_E"`
	PosConP  bool `json:"pos_con_P"`
	PosDistE bool `json:"pos_dist_E"`
	PosDistP bool `json:"pos_dist_P"`

	// WSCR (weighted short-circuit ratio) criterion.
	WSCRCapNodal   float64 `json:"wscr_cap_nodal"`
	WSCRSharedNode string  `json:"wscr_binudos"`
	WSCRAlerts     string  `json:"wscr_alertas"`
	WSCRMargin     float64 `json:"wscr_margen"`

	// Static demand criterion.
	EstDemCapNodal  float64 `json:"est_dem_cap_nodal"`
	EstDemZone      string  `json:"est_dem_zona"`
	EstDemMargin    float64 `json:"est_dem_margen"`
	EstDemLimitTemp string  `json:"est_dem_limit_temp"`

	// Static storage criterion.
	EstAlmCapNodal float64 `json:"est_alm_cap_nodal"`
	EstAlmZone     string  `json:"est_alm_zona"`
	EstAlmMargin   float64 `json:"est_alm_margen"`

	// Dynamic (transient stability) criteria.
	Din1Margin float64 `json:"din1_margen"`
	Din2Margin float64 `json:"din2_margen"`

	// Reference-value agreement with the local distributor.
	ReferenceValue  float64 `json:"valor_referencia"`
	AgreementStatus string  `json:"estado_acuerdo"`

	// Granted volumes.
	GrantedDemAdditional float64 `json:"otorgada_dem_adicional"`
	GrantedDemCepWSCR    float64 `json:"otorgada_dem_cep_wscr"`
	GrantedDemRdT        float64 `json:"otorgada_dem_rdt"`
	GrantedDemRdD        float64 `json:"otorgada_dem_rdd"`
	GrantedDemRdDNoRef   float64 `json:"otorgada_dem_rdd_no_ref"`
	GrantedAlmAdditional float64 `json:"otorgada_alm_adicional"`
	GrantedAlmRdT        float64 `json:"otorgada_alm_rdt"`
	GrantedAlmRdD        float64 `json:"otorgada_alm_rdd"`
	GrantedAlmRdDNoRef   float64 `json:"otorgada_alm_rdd_no_ref"`
	GrantedDemChRdT      float64 `json:"otorgada_dem_ch_rdt"`
	GrantedDemShRdT      float64 `json:"otorgada_dem_sh_rdt"`
	GrantedChRdD         float64 `json:"otorgada_ch_rdd"`
	GrantedShRdD         float64 `json:"otorgada_sh_rdd"`

	// Pending applications.
	PendingDemRdT float64 `json:"pendiente_dem_rdt"`
	PendingAlmRdT float64 `json:"pendiente_alm_rdt"`

	// Gross margins per capacity category.
	MarginDemCepCh float64 `json:"margen_dem_cep_ch"`
	MarginDemCepSh float64 `json:"margen_dem_cep_sh"`
	MarginDemNoCep float64 `json:"margen_dem_no_cep"`
	MarginAlmCep   float64 `json:"margen_alm_cep"`
	MarginAlmNoCep float64 `json:"margen_alm_no_cep"`

	// Binding criterion per capacity category. Empty means "no criterion
	// reported", never null.
	CritDemCepCh string `json:"limitante_dem_cep_ch"`
	CritDemCepSh string `json:"limitante_dem_cep_sh"`
	CritDemNoCep string `json:"limitante_dem_no_cep"`
	CritAlmCep   string `json:"limitante_alm_cep"`
	CritAlmNoCep string `json:"limitante_alm_no_cep"`

	// Non-grantable volumes per capacity category.
	NoGrantDemCepCh float64 `json:"no_otorg_dem_cep_ch"`
	NoGrantDemCepSh float64 `json:"no_otorg_dem_cep_sh"`
	NoGrantDemNoCep float64 `json:"no_otorg_dem_no_cep"`
	NoGrantAlmCep   float64 `json:"no_otorg_alm_cep"`
	NoGrantAlmNoCep float64 `json:"no_otorg_alm_no_cep"`

	NonGrantableReason string `json:"motivo_no_otorgable"`

	// Available capacity per category (MW).
	DispDemCepCh float64 `json:"disp_dem_cep_ch"`
	DispDemCepSh float64 `json:"disp_dem_cep_sh"`
	DispDemNoCep float64 `json:"disp_dem_no_cep"`
	DispAlmCep   float64 `json:"disp_alm_cep"`
	DispAlmNoCep float64 `json:"disp_alm_no_cep"`

	Tender string `json:"concurso"`

	// Extra carries raw cells beyond the schema's 61 columns, unclassified.
	Extra []string `json:"-"`

	// Derived columns, computed once at load time by DeriveRecord.
	HasDemandBay        bool     `json:"has_demand_bay"`
	IsBlockedTechnical  bool     `json:"is_blocked_technical"`
	IsBlockedRegulatory bool     `json:"is_blocked_regulatory"`
	HasWSCRAlert        bool     `json:"has_wscr_alert"`
	IsTender            bool     `json:"is_concurso"`
	AgreementResolved   bool     `json:"acuerdo_resuelto"`
	VoltageKV           *float64 `json:"voltage_kv"`
}

// Capacity returns the available-capacity value for a named capacity column.
func (r *NodeRecord) Capacity(col string) (float64, bool) {
	switch col {
	case "disp_dem_cep_ch":
		return r.DispDemCepCh, true
	case "disp_dem_cep_sh":
		return r.DispDemCepSh, true
	case "disp_dem_no_cep":
		return r.DispDemNoCep, true
	case "disp_alm_cep":
		return r.DispAlmCep, true
	case "disp_alm_no_cep":
		return r.DispAlmNoCep, true
	}
	return 0, false
}

// Criterion returns the binding-criterion value for a named criteria column.
func (r *NodeRecord) Criterion(col string) (string, bool) {
	switch col {
	case "limitante_dem_cep_ch":
		return r.CritDemCepCh, true
	case "limitante_dem_cep_sh":
		return r.CritDemCepSh, true
	case "limitante_dem_no_cep":
		return r.CritDemNoCep, true
	case "limitante_alm_cep":
		return r.CritAlmCep, true
	case "limitante_alm_no_cep":
		return r.CritAlmNoCep, true
	}
	return "", false
}

// Margin returns the gross-margin value for a named margin column.
func (r *NodeRecord) Margin(col string) (float64, bool) {
	switch col {
	case "margen_dem_cep_ch":
		return r.MarginDemCepCh, true
	case "margen_dem_cep_sh":
		return r.MarginDemCepSh, true
	case "margen_dem_no_cep":
		return r.MarginDemNoCep, true
	case "margen_alm_cep":
		return r.MarginAlmCep, true
	case "margen_alm_no_cep":
		return r.MarginAlmNoCep, true
	}
	return 0, false
}

// Table is a fully parsed and derived capacity dataset. It is immutable by
// convention: queries return fresh slices and never mutate Nodes, so multiple
// goroutines may safely share one loaded table.
type Table struct {
	Nodes  []NodeRecord
	Schema *Schema

	// RawColumnCount is the widest raw row seen in the source file,
	// including columns beyond the schema.
	RawColumnCount int

	// ParseFaults counts numeric cells that degraded to zero without
	// representing an actual zero.
	ParseFaults int
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Nodes) }
