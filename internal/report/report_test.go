package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gridatlas/capacidad/internal/domain"
)

func availableDiag() *domain.Diagnostic {
	kv := 400.0
	return &domain.Diagnostic{
		Node:         "ABANILLAS 400",
		Region:       "Cantabria",
		Substation:   "SUB0001",
		VoltageKV:    &kv,
		HasDemandBay: true,
		Positions:    domain.Positions{ConExisting: true},
		Available: domain.ByCategory[float64]{
			CepCh: 753, CepSh: 753, NoCep: 900,
			StorageCep: 120, StorageNoCep: 120,
		},
		Margins: domain.Margins{EstDemMargin: 810, EstAlmMargin: 150},
		MarginsByCategory: domain.ByCategory[float64]{
			CepCh: 810, CepSh: 810, NoCep: 810,
			StorageCep: 150, StorageNoCep: 150,
		},
		AgreementStatus: domain.AgreementReached,
		ReferenceValue:  1200,
		GrantedDemand:   340,
		Status:          domain.StatusAvailable,
	}
}

func blockedDiag() *domain.Diagnostic {
	kv := 400.0
	return &domain.Diagnostic{
		Node:       "ESCATRON 400",
		Region:     "Aragón",
		Substation: "SUB0002",
		VoltageKV:  &kv,
		Available:  domain.ByCategory[float64]{NoCep: 210},
		BindingCriteria: domain.ByCategory[string]{
			CepCh: "Din1_Zona/Est_Dem_Nudo",
		},
		Margins: domain.Margins{Din1Margin: 30, EstDemMargin: 95},
		MarginsByCategory: domain.ByCategory[float64]{
			CepCh: 30, CepSh: 30, NoCep: 95,
		},
		AgreementStatus: domain.AgreementNotApplicable,
		Status:          domain.StatusBlockedTechnical,
	}
}

func TestRenderAvailableNode(t *testing.T) {
	out := Render(availableDiag())

	assert.Contains(t, out, "ABANILLAS 400 — Cantabria (400 kV)")
	assert.Contains(t, out, "Status: AVAILABLE")
	assert.Contains(t, out, "753 MW available for new power-electronics demand")
	assert.Contains(t, out, "## Available capacity")
	assert.Contains(t, out, "| CEP CH Demand | 753 |")
	assert.NotContains(t, out, "## Why this node is limited")
	assert.Contains(t, out, "granted demand (RdT): 340 MW")
	assert.Contains(t, out, "Reference value agreement reached (1,200 MW)")
	assert.NotContains(t, out, "## Alerts")
}

func TestRenderBlockedNodeExplainsCriteria(t *testing.T) {
	out := Render(blockedDiag())

	assert.Contains(t, out, "Status: BLOCKED_TECHNICAL")
	assert.Contains(t, out, "technically blocked")
	assert.Contains(t, out, "## Why this node is limited")
	assert.Contains(t, out, "transient stability (dynamic criterion 1) in the zone")
	assert.Contains(t, out, "steady-state demand capacity at this node")
	assert.Contains(t, out, "Governing margin across the reported criteria: 30 MW")
	assert.Contains(t, out, "210 MW remains available for conventional demand")
	assert.Contains(t, out, "no existing or planned demand bay")
	assert.Contains(t, out, "agreement not applicable")
}

func TestRenderTableUsesPerCategoryMargins(t *testing.T) {
	d := blockedDiag()
	d.BindingCriteria.CepCh = "WSCR_Nudo"
	d.Margins = domain.Margins{WSCRMargin: 7, EstDemMargin: 95}
	d.MarginsByCategory = domain.ByCategory[float64]{CepCh: 7, NoCep: 210}

	out := Render(d)

	assert.Contains(t, out, "| CEP CH Demand | 0 | WSCR_Nudo | 7 |",
		"the table shows the category's own gross margin")
	assert.NotContains(t, out, "| CEP CH Demand | 0 | WSCR_Nudo | 95 |",
		"a margin belonging to a different criterion must not leak in")
	assert.Contains(t, out, "| NO CEP Demand | 210 | - | 210 |")
	assert.Contains(t, out, "Governing margin across the reported criteria: 7 MW")
}

func TestRenderDeduplicatesRemediationByFamily(t *testing.T) {
	d := blockedDiag()
	d.BindingCriteria.CepCh = "Est_Dem_Nudo/Est_Dem_Zona"
	out := Render(d)

	remedy := domain.FamilyEstDem.Remediation()
	assert.Equal(t, 1, strings.Count(out, remedy),
		"one remediation context per criterion family")
}

func TestRenderUnknownCriterionFallsBackToRaw(t *testing.T) {
	d := blockedDiag()
	d.BindingCriteria.CepCh = "Nuevo_Criterio"
	out := Render(d)

	assert.Contains(t, out, "Nuevo_Criterio")
	assert.NotContains(t, out, "Governing margin", "unknown codes carry no margin")
}

func TestRenderAlertsSkipSentinels(t *testing.T) {
	d := availableDiag()
	d.WSCRAlert = "No"
	d.WSCRSharedNode = "N/A"
	assert.NotContains(t, Render(d), "## Alerts")

	d.WSCRAlert = "Sí"
	d.ConfigLimitation = "configuración en antena"
	out := Render(d)
	assert.Contains(t, out, "## Alerts")
	assert.Contains(t, out, "WSCR security alert: Sí")
	assert.Contains(t, out, "Substation configuration limitation: configuración en antena")
}

func TestRenderRegulatoryBlock(t *testing.T) {
	d := blockedDiag()
	d.Status = domain.StatusBlockedRegulatory
	d.BindingCriteria.CepCh = ""
	d.NonGrantableReason = "capacidad en concurso"
	d.NonGrantable = domain.ByCategory[float64]{CepCh: 500}
	d.IsTender = true

	out := Render(d)
	assert.Contains(t, out, "blocked for regulatory reasons: capacidad en concurso")
	assert.Contains(t, out, "Subject to competitive tender")
	assert.Contains(t, out, "Non-grantable capacity: 500 MW (capacidad en concurso)")
}

func TestRenderError(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		out := RenderError(&domain.NotFoundError{What: `node "X"`})
		assert.Contains(t, out, "Error:")
		assert.Contains(t, out, `node "X"`)
	})

	t.Run("ambiguous lists candidates", func(t *testing.T) {
		out := RenderError(&domain.AmbiguousMatchError{
			Query:      "MUDARRA",
			Candidates: []string{"MUDARRA 400", "MUDARRA 220"},
		})
		assert.Contains(t, out, "multiple matches")
		assert.Contains(t, out, "- MUDARRA 400")
		assert.Contains(t, out, "- MUDARRA 220")
	})
}
