package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridatlas/capacidad/internal/domain"
)

func exportTable() *domain.Table {
	rows := []domain.NodeRecord{
		{Node: "MESON 220", Substation: "SUB0001", Region: "Galicia", DispDemCepCh: 1310, AgreementStatus: "NO"},
		{Node: "ESCATRON 400", Substation: "SUB0002", Region: "Aragón", CritDemCepCh: "Din1_Zona/Est_Dem_Nudo"},
		{Node: "ABANILLAS 400", Substation: "SUB0003", Region: "Cantabria", DispDemCepCh: 753, Tender: "SI"},
	}
	for i := range rows {
		rows[i] = domain.DeriveRecord(rows[i])
	}
	return &domain.Table{Nodes: rows, Schema: domain.DefaultSchema(), RawColumnCount: 61}
}

func primarySum(t *domain.Table) float64 {
	var sum float64
	for i := range t.Nodes {
		sum += t.Nodes[i].DispDemCepCh
	}
	return sum
}

func TestSQLiteRoundTrip(t *testing.T) {
	tbl := exportTable()
	path := filepath.Join(t.TempDir(), "capacidad.db")

	require.NoError(t, WriteSQLite(path, tbl))

	rows, total, err := SQLiteStats(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Len(), rows)
	assert.Equal(t, primarySum(tbl), total)
}

func TestSQLiteExportReplacesExisting(t *testing.T) {
	tbl := exportTable()
	path := filepath.Join(t.TempDir(), "capacidad.db")

	require.NoError(t, WriteSQLite(path, tbl))
	require.NoError(t, WriteSQLite(path, tbl), "re-export must replace, not append")

	rows, _, err := SQLiteStats(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Len(), rows)
}

func TestJSONRoundTrip(t *testing.T) {
	tbl := exportTable()
	path := filepath.Join(t.TempDir(), "capacidad.json")

	require.NoError(t, WriteJSON(path, tbl))

	got, err := ReadJSON(path)
	require.NoError(t, err)
	require.Equal(t, tbl.Len(), got.Len())
	assert.Equal(t, primarySum(tbl), primarySum(got))
	assert.Equal(t, "MESON 220", got.Nodes[0].Node)
	assert.True(t, got.Nodes[1].IsBlockedTechnical, "derived fields survive the round trip")
}

func TestParquetRoundTrip(t *testing.T) {
	tbl := exportTable()
	path := filepath.Join(t.TempDir(), "capacidad.parquet")

	require.NoError(t, WriteParquet(path, tbl))

	got, err := ReadParquet(path)
	require.NoError(t, err)
	require.Equal(t, tbl.Len(), got.Len())
	assert.Equal(t, primarySum(tbl), primarySum(got))
}

func TestSerializeToMessage(t *testing.T) {
	tbl := exportTable()
	msg, err := serializeToMessage(&tbl.Nodes[0], "2026-02-20T00:00:00Z")
	require.NoError(t, err)

	assert.Equal(t, []byte("MESON 220"), msg.Key)
	assert.Contains(t, string(msg.Value), `"disp_dem_cep_ch":1310`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "ccaa", msg.Headers[0].Key)
	assert.Equal(t, []byte("Galicia"), msg.Headers[0].Value)
	assert.Equal(t, "snapshot_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2026-02-20T00:00:00Z"), msg.Headers[1].Value)
}
