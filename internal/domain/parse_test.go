package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"thousands separator", "1.310", 1310},
		{"double separator", "1.234.567", 1234567},
		{"plain integer", "753", 753},
		{"empty cell", "", 0},
		{"not applicable", "N/A", 0},
		{"padded not applicable", " N/A ", 0},
		{"whitespace only", "   ", 0},
		{"garbage degrades to zero", "abc", 0},
		{"zero", "0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.raw))
		})
	}
}

func TestNumberFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"garbage text", "abc", true},
		{"unit suffix", "12,5 MW", true},
		{"empty cell", "", false},
		{"not applicable", "N/A", false},
		{"padded not applicable", " N/A ", false},
		{"zero", "0", false},
		{"thousands separator", "1.310", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NumberFallback(tt.raw))
		})
	}
}

func TestParseCheckmark(t *testing.T) {
	assert.True(t, ParseCheckmark("✓"))
	assert.True(t, ParseCheckmark(" ✓ "))
	assert.False(t, ParseCheckmark(""))
	assert.False(t, ParseCheckmark("X"))
	assert.False(t, ParseCheckmark("SI"))
}

func TestParseVoltage(t *testing.T) {
	tests := []struct {
		name string
		node string
		want *float64
	}{
		{"400 kV suffix", "ESCATRON 400", ptr(400.0)},
		{"220 kV suffix", "ABANTO 220", ptr(220.0)},
		{"trailing space", "MORALEJA 66 ", ptr(66.0)},
		{"no digits", "SIN TENSION", nil},
		{"digits mid-name only", "T4 NORTE", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseVoltage(tt.node)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParseRowTypesCellsBySchema(t *testing.T) {
	schema := DefaultSchema()
	cells := make([]string, schema.Len())
	set := func(name, value string) {
		i, ok := schema.Position(name)
		require.True(t, ok, name)
		cells[i] = value
	}

	set(ColNode, "ABANILLAS 400")
	set(ColSubstation, "SUB0001")
	set(ColRegion, "Cantabria")
	set("pos_con_E", "✓")
	set("disp_dem_cep_ch", "1.310")
	set("est_dem_margen", "2.048")
	set("estado_acuerdo", "SI")
	set("concurso", "NO")

	rec := ParseRow(schema, cells)

	assert.Equal(t, "ABANILLAS 400", rec.Node)
	assert.Equal(t, "Cantabria", rec.Region)
	assert.True(t, rec.PosConE)
	assert.False(t, rec.PosConP)
	assert.Equal(t, 1310.0, rec.DispDemCepCh)
	assert.Equal(t, 2048.0, rec.EstDemMargin)
	assert.Equal(t, "SI", rec.AgreementStatus)
	assert.Empty(t, rec.Extra)
}

func TestParseRowKeepsExtraCells(t *testing.T) {
	schema := DefaultSchema()
	cells := make([]string, schema.Len(), schema.Len()+2)
	cells = append(cells, "extra1", "extra2")

	rec := ParseRow(schema, cells)
	assert.Equal(t, []string{"extra1", "extra2"}, rec.Extra)
}

func TestParseRowShortRowReadsMissingAsEmpty(t *testing.T) {
	schema := DefaultSchema()
	rec := ParseRow(schema, []string{"NODO 220", "SUB", "Galicia"})

	assert.Equal(t, "NODO 220", rec.Node)
	assert.Equal(t, 0.0, rec.DispDemCepCh)
	assert.Equal(t, "", rec.CritDemCepCh)
}

func TestDeriveRecord(t *testing.T) {
	t.Run("technical block needs criterion and zero capacity", func(t *testing.T) {
		rec := DeriveRecord(NodeRecord{
			Node:         "ESCATRON 400",
			CritDemCepCh: "Din1_Zona/Est_Dem_Nudo",
			DispDemCepCh: 0,
		})
		assert.True(t, rec.IsBlockedTechnical)
		assert.False(t, rec.IsBlockedRegulatory)
		require.NotNil(t, rec.VoltageKV)
		assert.Equal(t, 400.0, *rec.VoltageKV)
	})

	t.Run("criterion with capacity is not a block", func(t *testing.T) {
		rec := DeriveRecord(NodeRecord{
			CritDemCepCh: "Est_Dem_Zona",
			DispDemCepCh: 120,
		})
		assert.False(t, rec.IsBlockedTechnical)
	})

	t.Run("regulatory block from non-grantable reason", func(t *testing.T) {
		rec := DeriveRecord(NodeRecord{NonGrantableReason: "concurso en curso"})
		assert.True(t, rec.IsBlockedRegulatory)
	})

	t.Run("demand bay from either existing or planned", func(t *testing.T) {
		assert.True(t, DeriveRecord(NodeRecord{PosConE: true}).HasDemandBay)
		assert.True(t, DeriveRecord(NodeRecord{PosConP: true}).HasDemandBay)
		assert.False(t, DeriveRecord(NodeRecord{PosGenE: true}).HasDemandBay)
	})

	t.Run("tender and agreement flags", func(t *testing.T) {
		rec := DeriveRecord(NodeRecord{Tender: "SI", AgreementStatus: "SI"})
		assert.True(t, rec.IsTender)
		assert.True(t, rec.AgreementResolved)

		rec = DeriveRecord(NodeRecord{Tender: "NO", AgreementStatus: "N/A"})
		assert.False(t, rec.IsTender)
		assert.False(t, rec.AgreementResolved)
	})

	t.Run("wscr alert flag", func(t *testing.T) {
		assert.True(t, DeriveRecord(NodeRecord{WSCRAlerts: "Sí"}).HasWSCRAlert)
		assert.False(t, DeriveRecord(NodeRecord{}).HasWSCRAlert)
	})
}

func ptr(v float64) *float64 { return &v }
