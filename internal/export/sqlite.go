package export

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/gridatlas/capacidad/internal/domain"
)

const sqliteSchema = `
DROP TABLE IF EXISTS nodes;
CREATE TABLE nodes (
	nudo                 TEXT NOT NULL,
	cod_subestacion      TEXT NOT NULL,
	ccaa                 TEXT NOT NULL,
	voltage_kv           REAL,
	disp_dem_cep_ch      REAL NOT NULL,
	disp_dem_cep_sh      REAL NOT NULL,
	disp_dem_no_cep      REAL NOT NULL,
	disp_alm_cep         REAL NOT NULL,
	disp_alm_no_cep      REAL NOT NULL,
	limitante_dem_cep_ch TEXT NOT NULL,
	limitante_alm_cep    TEXT NOT NULL,
	motivo_no_otorgable  TEXT NOT NULL,
	valor_referencia     REAL NOT NULL,
	estado_acuerdo       TEXT NOT NULL,
	otorgada_dem_rdt     REAL NOT NULL,
	pendiente_dem_rdt    REAL NOT NULL,
	wscr_margen          REAL NOT NULL,
	est_dem_margen       REAL NOT NULL,
	est_alm_margen       REAL NOT NULL,
	has_demand_bay       INTEGER NOT NULL,
	is_blocked_technical INTEGER NOT NULL,
	is_blocked_regulatory INTEGER NOT NULL,
	has_wscr_alert       INTEGER NOT NULL,
	is_concurso          INTEGER NOT NULL
);
CREATE INDEX idx_nodes_ccaa ON nodes (ccaa);
CREATE INDEX idx_nodes_nudo ON nodes (nudo);
CREATE INDEX idx_nodes_disp ON nodes (disp_dem_cep_ch);
CREATE INDEX idx_nodes_voltage ON nodes (voltage_kv);
`

const sqliteInsert = `
INSERT INTO nodes VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`

// WriteSQLite writes the table into a SQLite database at path, replacing any
// existing nodes table. All inserts run in one transaction.
func WriteSQLite(path string, t *domain.Table) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("create nodes table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(sqliteInsert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range t.Nodes {
		r := &t.Nodes[i]
		var voltage any
		if r.VoltageKV != nil {
			voltage = *r.VoltageKV
		}
		_, err := stmt.Exec(
			r.Node, r.Substation, r.Region, voltage,
			r.DispDemCepCh, r.DispDemCepSh, r.DispDemNoCep,
			r.DispAlmCep, r.DispAlmNoCep,
			r.CritDemCepCh, r.CritAlmCep, r.NonGrantableReason,
			r.ReferenceValue, r.AgreementStatus,
			r.GrantedDemRdT, r.PendingDemRdT,
			r.WSCRMargin, r.EstDemMargin, r.EstAlmMargin,
			r.HasDemandBay, r.IsBlockedTechnical, r.IsBlockedRegulatory,
			r.HasWSCRAlert, r.IsTender,
		)
		if err != nil {
			return fmt.Errorf("insert node %s: %w", r.Node, err)
		}
	}

	return tx.Commit()
}

// SQLiteStats reads back the row count and the primary available-capacity sum
// from an exported database, for cross-checking against the source table.
func SQLiteStats(path string) (rows int, totalPrimaryMW float64, err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, 0, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer db.Close()

	row := db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(disp_dem_cep_ch), 0) FROM nodes`)
	if err := row.Scan(&rows, &totalPrimaryMW); err != nil {
		return 0, 0, fmt.Errorf("read export stats: %w", err)
	}
	return rows, totalPrimaryMW, nil
}
