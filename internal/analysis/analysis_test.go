package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridatlas/capacidad/internal/domain"
)

func testTable() *domain.Table {
	rows := []domain.NodeRecord{
		{Node: "MESON 220", Region: "Galicia", DispDemCepCh: 1310, AgreementStatus: "NO"},
		{Node: "PUENTES 400", Region: "Galicia", DispDemCepCh: 0, NonGrantableReason: "concurso en curso"},
		{Node: "ABANILLAS 400", Region: "Cantabria", DispDemCepCh: 753, Tender: "SI"},
		{Node: "ESCATRON 400", Region: "Aragón", DispDemCepCh: 0, CritDemCepCh: "Din1_Zona/Est_Dem_Nudo"},
		{Node: "MAGALLON 220", Region: "Aragón", DispDemCepCh: 420, CritDemCepCh: "Est_Dem_Zona"},
		{Node: "LITORAL 400", Region: "Andalucía", DispDemCepCh: 753},
	}
	for i := range rows {
		rows[i] = domain.DeriveRecord(rows[i])
	}
	return &domain.Table{Nodes: rows, Schema: domain.DefaultSchema()}
}

func TestFilterNodes(t *testing.T) {
	tbl := testTable()

	t.Run("region substring is case-insensitive", func(t *testing.T) {
		nodes, err := FilterNodes(tbl, FilterOptions{Region: "galicia"})
		require.NoError(t, err)
		require.Len(t, nodes, 2)
		assert.Equal(t, "MESON 220", nodes[0].Node)
	})

	t.Run("minimum capacity", func(t *testing.T) {
		nodes, err := FilterNodes(tbl, FilterOptions{MinMW: 800})
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, "MESON 220", nodes[0].Node)
	})

	t.Run("voltage", func(t *testing.T) {
		kv := 220.0
		nodes, err := FilterNodes(tbl, FilterOptions{VoltageKV: &kv})
		require.NoError(t, err)
		require.Len(t, nodes, 2)
	})

	t.Run("only available", func(t *testing.T) {
		nodes, err := FilterNodes(tbl, FilterOptions{OnlyAvailable: true})
		require.NoError(t, err)
		assert.Len(t, nodes, 4)
	})

	t.Run("tender flag", func(t *testing.T) {
		tender := true
		nodes, err := FilterNodes(tbl, FilterOptions{OnlyTender: &tender})
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, "ABANILLAS 400", nodes[0].Node)
	})

	t.Run("predicates compose with AND", func(t *testing.T) {
		nodes, err := FilterNodes(tbl, FilterOptions{Region: "Aragón", OnlyAvailable: true})
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, "MAGALLON 220", nodes[0].Node)
	})

	t.Run("unknown capacity column", func(t *testing.T) {
		_, err := FilterNodes(tbl, FilterOptions{CapacityColumn: "no_such_column"})
		assert.Error(t, err)
	})
}

func TestSummaryByRegion(t *testing.T) {
	tbl := testTable()
	summaries, err := SummaryByRegion(tbl, "")
	require.NoError(t, err)

	require.Len(t, summaries, 4)

	var grandTotal int
	byRegion := make(map[string]RegionSummary)
	for _, s := range summaries {
		grandTotal += s.TotalMW
		byRegion[s.Region] = s
	}

	var tableTotal float64
	for i := range tbl.Nodes {
		tableTotal += tbl.Nodes[i].DispDemCepCh
	}
	assert.Equal(t, int(tableTotal), grandTotal, "regional totals must add up to the table total")

	galicia := byRegion["Galicia"]
	assert.Equal(t, 2, galicia.Nodes)
	assert.Equal(t, 1310, galicia.TotalMW)
	assert.Equal(t, 655, galicia.AvgMW)
	assert.Equal(t, 1, galicia.NodesWithCapacity)
	assert.Equal(t, 1, galicia.NodesBlocked)
	assert.Equal(t, 1, galicia.UnresolvedAgreement)

	for i := 1; i < len(summaries); i++ {
		assert.GreaterOrEqual(t, summaries[i-1].TotalMW, summaries[i].TotalMW,
			"summaries sort by total descending")
	}
}

func TestTopNodes(t *testing.T) {
	tbl := testTable()

	t.Run("ranking is non-increasing and capped at n", func(t *testing.T) {
		nodes, err := TopNodes(tbl, 3, "")
		require.NoError(t, err)
		require.Len(t, nodes, 3)
		for i := 1; i < len(nodes); i++ {
			assert.GreaterOrEqual(t, nodes[i-1].DispDemCepCh, nodes[i].DispDemCepCh)
		}
		assert.Equal(t, "MESON 220", nodes[0].Node)
	})

	t.Run("zero-capacity rows never rank", func(t *testing.T) {
		nodes, err := TopNodes(tbl, 100, "")
		require.NoError(t, err)
		assert.Len(t, nodes, 4, "only rows with capacity > 0")
	})

	t.Run("ties keep table order", func(t *testing.T) {
		nodes, err := TopNodes(tbl, 100, "")
		require.NoError(t, err)
		// ABANILLAS and LITORAL both have 753; ABANILLAS comes first in the table.
		assert.Equal(t, "ABANILLAS 400", nodes[1].Node)
		assert.Equal(t, "LITORAL 400", nodes[2].Node)
	})
}

func TestSearchNodes(t *testing.T) {
	tbl := testTable()

	nodes := SearchNodes(tbl, "on", 10)
	require.Len(t, nodes, 3) // MESON, ESCATRON, MAGALLON
	assert.Equal(t, "MESON 220", nodes[0].Node)

	assert.Len(t, SearchNodes(tbl, "on", 2), 2)
	assert.Empty(t, SearchNodes(tbl, "zzz", 10))
}

func TestBlockedNodes(t *testing.T) {
	tbl := testTable()

	t.Run("all blocked", func(t *testing.T) {
		nodes, err := BlockedNodes(tbl, "")
		require.NoError(t, err)
		require.Len(t, nodes, 2)
		assert.Equal(t, "Aragón", nodes[0].Region, "sorted by region")
	})

	t.Run("technical only", func(t *testing.T) {
		nodes, err := BlockedNodes(tbl, ReasonTechnical)
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, "ESCATRON 400", nodes[0].Node)
	})

	t.Run("regulatory only", func(t *testing.T) {
		nodes, err := BlockedNodes(tbl, ReasonRegulatory)
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, "PUENTES 400", nodes[0].Node)
	})

	t.Run("unknown reason", func(t *testing.T) {
		_, err := BlockedNodes(tbl, "astrological")
		assert.Error(t, err)
	})
}

func TestCriteriaDistribution(t *testing.T) {
	tbl := testTable()

	counts, err := CriteriaDistribution(tbl, "")
	require.NoError(t, err)
	require.Len(t, counts, 2)
	for _, c := range counts {
		assert.Equal(t, 1, c.Nodes)
	}
	// Equal counts fall back to name order.
	assert.Equal(t, "Din1_Zona/Est_Dem_Nudo", counts[0].Criterion)

	_, err = CriteriaDistribution(tbl, "nudo")
	assert.Error(t, err, "only binding-criterion columns are countable")
}
