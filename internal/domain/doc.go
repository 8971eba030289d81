// Package domain models Red Eléctrica (REE) demand access capacity data for
// the Spanish transmission grid.
//
// # Data Source
//
// REE publishes the "Capacidad de Acceso" dataset as a zipped CSV, one row per
// node, meaning a substation/voltage-level pair such as "ABANILLAS 400". The file is
// semicolon-delimited, UTF-8 with a byte-order mark, and opens with four merged
// title/header rows that carry no data. Column meaning is positional; the
// Schema defined in this package names all 61 source columns.
//
// # REE CSV Conventions
//
// Numeric cells:
//
//	"." is a thousands separator, never a decimal point: "1.310" means 1310 MW.
//	Empty cells and the literal "N/A" mean zero. Anything unparseable also
//	degrades to zero: the source data is known to contain sparse and
//	inconsistent cells, and a single bad cell must not abort a load.
//
// Boolean cells (connection-bay positions):
//
//	The checkmark glyph "✓" means true; any other value, including empty,
//	means false.
//
// Node names:
//
//	The trailing digits of the node name encode the voltage level in kV:
//	"ESCATRON 400" is the 400 kV level of the Escatrón substation. Names
//	without trailing digits have an unknown voltage, which is distinct from
//	zero.
//
// Binding criterion codes:
//
//	The constraint currently limiting capacity at a node is reported as a
//	short code: WSCR_Nudo, WSCR_Zona, Est_Dem_Nudo, Est_Dem_Zona,
//	Est_Alm_Nudo, Est_Alm_Zona, Din1_Zona or Din2_Zona. Several criteria can
//	bind at once, joined by "/": "Din1_Zona/Est_Dem_Nudo". See
//	[ParseCriteria].
//
// Agreement status:
//
//	"SI", "NO" or "N/A": whether the reference-value agreement with the
//	local distributor has been reached, not reached, or does not apply.
//
// # Derived Columns
//
// A single derivation pass at load time computes the boolean classification
// columns every downstream query depends on (has_demand_bay,
// is_blocked_technical, is_blocked_regulatory, has_wscr_alert, is_concurso,
// agreement_resolved) plus voltage_kv. See [DeriveRecord]. Queries never
// re-derive these ad hoc.
package domain
