package loader

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridatlas/capacidad/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixtureRow builds one semicolon-joined data line, setting the named cells
// and leaving the rest empty.
func fixtureRow(t *testing.T, schema *domain.Schema, values map[string]string) string {
	t.Helper()
	cells := make([]string, schema.Len())
	for name, v := range values {
		i, ok := schema.Position(name)
		require.True(t, ok, "unknown column %s", name)
		cells[i] = v
	}
	return strings.Join(cells, ";")
}

// writeFixture writes a CSV in the source shape: UTF-8 BOM, four header
// lines, then the given data rows.
func writeFixture(t *testing.T, rows ...string) string {
	t.Helper()
	var b strings.Builder
	b.Write([]byte{0xEF, 0xBB, 0xBF})
	b.WriteString("CAPACIDAD DE ACCESO DE DEMANDA;;;\n")
	b.WriteString("Red de Transporte;;;\n")
	b.WriteString(";;;\n")
	b.WriteString("nudo;cod_subestacion;ccaa\n")
	for _, r := range rows {
		b.WriteString(r + "\n")
	}

	path := filepath.Join(t.TempDir(), "demanda.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func fixturePath(t *testing.T) string {
	t.Helper()
	schema := domain.DefaultSchema()
	return writeFixture(t,
		fixtureRow(t, schema, map[string]string{
			"nudo":            "ABANILLAS 400",
			"cod_subestacion": "SUB0001",
			"ccaa":            "Cantabria",
			"pos_con_E":       "✓",
			"disp_dem_cep_ch": "753",
			"est_dem_margen":  "810",
			"estado_acuerdo":  "SI",
		}),
		fixtureRow(t, schema, map[string]string{
			"nudo":                 "ESCATRON 400",
			"cod_subestacion":      "SUB0002",
			"ccaa":                 "Aragón",
			"disp_dem_cep_ch":      "0",
			"limitante_dem_cep_ch": "Din1_Zona/Est_Dem_Nudo",
			"din1_margen":          "30",
			"est_dem_margen":       "95",
		}),
		fixtureRow(t, schema, map[string]string{
			"nudo":            "MESON 220",
			"cod_subestacion": "SUB0003",
			"ccaa":            "Galicia",
			"disp_dem_cep_ch": "1.310",
			"estado_acuerdo":  "NO",
		}),
		fixtureRow(t, schema, map[string]string{
			"nudo":                "PUENTES 400",
			"cod_subestacion":     "SUB0004",
			"ccaa":                "Galicia",
			"disp_dem_cep_ch":     "N/A",
			"motivo_no_otorgable": "concurso en curso",
		}),
	)
}

func TestLoadParsesFixture(t *testing.T) {
	table, err := Load(fixturePath(t), domain.DefaultSchema(), discardLogger())
	require.NoError(t, err)

	require.Equal(t, 4, table.Len())
	assert.Equal(t, domain.DefaultSchema().Len(), table.RawColumnCount)

	abanillas := table.Nodes[0]
	assert.Equal(t, "ABANILLAS 400", abanillas.Node)
	assert.Equal(t, 753.0, abanillas.DispDemCepCh)
	assert.True(t, abanillas.HasDemandBay)
	assert.True(t, abanillas.AgreementResolved)
	require.NotNil(t, abanillas.VoltageKV)
	assert.Equal(t, 400.0, *abanillas.VoltageKV)

	escatron := table.Nodes[1]
	assert.True(t, escatron.IsBlockedTechnical)
	assert.Equal(t, "Din1_Zona/Est_Dem_Nudo", escatron.CritDemCepCh)

	meson := table.Nodes[2]
	assert.Equal(t, 1310.0, meson.DispDemCepCh, "dot is a thousands separator")

	puentes := table.Nodes[3]
	assert.Equal(t, 0.0, puentes.DispDemCepCh)
	assert.True(t, puentes.IsBlockedRegulatory)
}

func TestLoadCountsParseFaults(t *testing.T) {
	schema := domain.DefaultSchema()

	t.Run("clean fixture has none", func(t *testing.T) {
		table, err := Load(fixturePath(t), schema, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, 0, table.ParseFaults)
	})

	t.Run("garbage numeric cells are counted", func(t *testing.T) {
		path := writeFixture(t,
			fixtureRow(t, schema, map[string]string{
				"nudo":              "NODO 220",
				"ccaa":              "La Rioja",
				"disp_dem_cep_ch":   "abc",
				"margen_dem_no_cep": "12,5 MW",
				"disp_dem_no_cep":   "1.310",
				"disp_alm_cep":      "N/A",
			}),
		)

		table, err := Load(path, schema, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, 2, table.ParseFaults, "empty, N/A, and valid numbers do not count")
		assert.Equal(t, 0.0, table.Nodes[0].DispDemCepCh, "faulty cells still degrade to zero")
	})
}

func TestLoadIsIdempotent(t *testing.T) {
	path := fixturePath(t)
	schema := domain.DefaultSchema()

	first, err := Load(path, schema, discardLogger())
	require.NoError(t, err)
	second, err := Load(path, schema, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, first.Len(), second.Len())
	assert.Equal(t, first.Nodes, second.Nodes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), domain.DefaultSchema(), discardLogger())

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, notFound.Error(), "capacidad fetch")
}

func TestLoadWithoutBOM(t *testing.T) {
	schema := domain.DefaultSchema()
	content := "a;;\nb;;\nc;;\nd;;\n" +
		fixtureRow(t, schema, map[string]string{"nudo": "NODO 220", "ccaa": "La Rioja"}) + "\n"
	path := filepath.Join(t.TempDir(), "plain.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := Load(path, schema, discardLogger())
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "NODO 220", table.Nodes[0].Node)
}

func TestLoadSkipsHeaderRows(t *testing.T) {
	table, err := Load(fixturePath(t), domain.DefaultSchema(), discardLogger())
	require.NoError(t, err)
	for i := range table.Nodes {
		assert.NotEqual(t, "nudo", table.Nodes[i].Node)
	}
}
