// Package report renders a node diagnostic into human-readable markdown-ish
// text: a capacity table, a plain-language explanation of the binding
// constraint, and the administrative context an applicant needs.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gridatlas/capacidad/internal/domain"
)

// categoryRow pairs a capacity category's label with its three per-category
// values from the diagnostic.
type categoryRow struct {
	label     string
	available float64
	criterion string
	margin    float64
}

// categoryRows zips the diagnostic's per-category groups in
// domain.AvailableCapacityColumns order. Each row carries the category's own
// gross margin, not the margin of whichever criterion binds elsewhere.
func categoryRows(d *domain.Diagnostic) []categoryRow {
	available := d.Available.Values()
	criteria := d.BindingCriteria.Values()
	margins := d.MarginsByCategory.Values()

	rows := make([]categoryRow, len(domain.AvailableCapacityColumns))
	for i, col := range domain.AvailableCapacityColumns {
		rows[i] = categoryRow{
			label:     domain.CapacityLabels[col],
			available: available[i],
			criterion: criteria[i],
			margin:    margins[i],
		}
	}
	return rows
}

// Render turns a diagnostic into the narrative/structured report text.
// Section order is fixed and the output is fully deterministic: header,
// capacity table, why-blocked explanation, grid connection, granted/pending,
// administrative, alerts. Sections with nothing to say are omitted.
func Render(d *domain.Diagnostic) string {
	var b strings.Builder

	renderHeader(&b, d)
	renderAvailability(&b, d)
	renderCapacityTable(&b, d)
	renderWhyBlocked(&b, d)
	renderGridConnection(&b, d)
	renderGrantedPending(&b, d)
	renderAdministrative(&b, d)
	renderAlerts(&b, d)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// RenderError formats a lookup failure as a one-line error, with the
// candidate list when the match was ambiguous.
func RenderError(err error) string {
	var ambiguous *domain.AmbiguousMatchError
	if errors.As(err, &ambiguous) {
		var b strings.Builder
		fmt.Fprintf(&b, "Error: multiple matches for %q:\n", ambiguous.Query)
		for _, c := range ambiguous.Candidates {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
		return b.String()
	}
	return fmt.Sprintf("Error: %v\n", err)
}

func renderHeader(b *strings.Builder, d *domain.Diagnostic) {
	if d.VoltageKV != nil {
		fmt.Fprintf(b, "%s — %s (%.0f kV)\n", d.Node, d.Region, *d.VoltageKV)
	} else {
		fmt.Fprintf(b, "%s — %s\n", d.Node, d.Region)
	}
	fmt.Fprintf(b, "Substation %s · Status: %s\n\n", d.Substation, d.Status)
}

// renderAvailability writes the opening narrative paragraph keyed on status.
func renderAvailability(b *strings.Builder, d *domain.Diagnostic) {
	switch d.Status {
	case domain.StatusAvailable:
		fmt.Fprintf(b,
			"This node has %s available for new power-electronics demand (CEP CH) and %s for conventional demand.\n",
			mw(d.Available.CepCh), mw(d.Available.NoCep))
	case domain.StatusBlockedTechnical:
		b.WriteString("This node is technically blocked — no capacity is available for new power-electronics demand (CEP CH).\n")
		fmt.Fprintf(b, "The binding constraint is %s, which has reached its limit at this connection point.\n",
			criterionProse(d.BindingCriteria.CepCh))
		if d.Available.NoCep > 0 {
			fmt.Fprintf(b,
				"However, %s remains available for conventional demand (NO CEP), which is not subject to this constraint.\n",
				mw(d.Available.NoCep))
		}
	case domain.StatusBlockedRegulatory:
		fmt.Fprintf(b, "This node is blocked for regulatory reasons: %s.\n", d.NonGrantableReason)
	default:
		b.WriteString("This node is blocked. No technical criterion or regulatory reason has been reported for the block.\n")
	}
	b.WriteString("\n")
}

func renderCapacityTable(b *strings.Builder, d *domain.Diagnostic) {
	b.WriteString("## Available capacity\n\n")
	b.WriteString("| Category | Available (MW) | Binding criterion | Margin (MW) |\n")
	b.WriteString("|---|---:|---|---:|\n")
	for _, row := range categoryRows(d) {
		crit := row.criterion
		if crit == "" {
			crit = "-"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			row.label, group(row.available), crit, group(row.margin))
	}
	b.WriteString("\n")
}

// renderWhyBlocked explains the primary binding criterion in plain language.
// Combined codes are split, mapped independently, de-duplicated by family,
// and their remediation contexts concatenated. Emitted only when a criterion
// is reported.
func renderWhyBlocked(b *strings.Builder, d *domain.Diagnostic) {
	criteria := domain.ParseCriteria(d.BindingCriteria.CepCh)
	if len(criteria) == 0 {
		return
	}

	b.WriteString("## Why this node is limited\n\n")

	seen := make(map[domain.CriterionFamily]bool)
	for _, c := range criteria {
		name := c.Code.PlainName()
		if name == "" {
			name = c.Raw
		}
		fmt.Fprintf(b, "- %s (`%s`)\n", name, c.Raw)

		family := c.Code.Family()
		if seen[family] {
			continue
		}
		seen[family] = true
		if remedy := family.Remediation(); remedy != "" {
			fmt.Fprintf(b, "  %s\n", remedy)
		}
	}

	// The tightest margin across the referenced criteria governs.
	if min, ok := domain.MinMargin(d.Margins, criteria); ok {
		fmt.Fprintf(b, "\nGoverning margin across the reported criteria: %s.\n", mw(min))
	}
	b.WriteString("\n")
}

// renderGridConnection emits the bay bullets. Skipped only when no position
// flag is set and a demand bay exists, i.e. when there is nothing notable to
// say about the physical connection.
func renderGridConnection(b *strings.Builder, d *domain.Diagnostic) {
	if !d.Positions.Any() && d.HasDemandBay {
		return
	}

	b.WriteString("## Grid connection\n\n")
	bays := []struct {
		label string
		set   bool
	}{
		{"existing generation/storage bay", d.Positions.GenExisting},
		{"planned generation/storage bay", d.Positions.GenPlanned},
		{"existing demand bay", d.Positions.ConExisting},
		{"planned demand bay", d.Positions.ConPlanned},
		{"existing distribution connection", d.Positions.DistExisting},
		{"planned distribution connection", d.Positions.DistPlanned},
	}
	for _, bay := range bays {
		if bay.set {
			fmt.Fprintf(b, "- %s\n", bay.label)
		}
	}
	if !d.HasDemandBay {
		b.WriteString("- no existing or planned demand bay: a new bay would be required before connection\n")
	}
	b.WriteString("\n")
}

func renderGrantedPending(b *strings.Builder, d *domain.Diagnostic) {
	entries := []struct {
		label string
		value float64
	}{
		{"granted demand (RdT)", d.GrantedDemand},
		{"granted storage (RdT)", d.GrantedStorage},
		{"pending demand applications", d.PendingDemand},
		{"pending storage applications", d.PendingStorage},
	}

	any := false
	for _, e := range entries {
		if e.value > 0 {
			if !any {
				b.WriteString("## Granted and pending\n\n")
				any = true
			}
			fmt.Fprintf(b, "- %s: %s\n", e.label, mw(e.value))
		}
	}
	if !any {
		b.WriteString("No demand has been granted or is pending at this node.\n")
	}
	b.WriteString("\n")
}

func renderAdministrative(b *strings.Builder, d *domain.Diagnostic) {
	b.WriteString("## Administrative\n\n")

	switch d.AgreementStatus {
	case domain.AgreementReached:
		fmt.Fprintf(b, "- Reference value agreement reached (%s).\n", mw(d.ReferenceValue))
	case domain.AgreementNotReached:
		fmt.Fprintf(b, "- Reference value agreement NOT reached (%s reference value).\n", mw(d.ReferenceValue))
	default:
		b.WriteString("- Reference value agreement not applicable (no distribution interface).\n")
	}

	if d.IsTender {
		b.WriteString("- Subject to competitive tender (concurso).\n")
	} else {
		b.WriteString("- Not subject to competitive tender.\n")
	}

	if total := nonGrantableTotal(d); total > 0 {
		fmt.Fprintf(b, "- Non-grantable capacity: %s", mw(total))
		if d.NonGrantableReason != "" {
			fmt.Fprintf(b, " (%s)", d.NonGrantableReason)
		}
		b.WriteString(".\n")
	}
	b.WriteString("\n")
}

// renderAlerts emits the alert bullets, skipping absent values and the "not
// applicable" sentinels the source uses.
func renderAlerts(b *strings.Builder, d *domain.Diagnostic) {
	var alerts []string
	if present(d.WSCRAlert) {
		alerts = append(alerts, fmt.Sprintf("WSCR security alert: %s", d.WSCRAlert))
	}
	if present(d.WSCRSharedNode) {
		alerts = append(alerts, fmt.Sprintf("Shares WSCR capacity with: %s", d.WSCRSharedNode))
	}
	if present(d.ConfigLimitation) {
		alerts = append(alerts, fmt.Sprintf("Substation configuration limitation: %s", d.ConfigLimitation))
	}
	if len(alerts) == 0 {
		return
	}

	b.WriteString("## Alerts\n\n")
	for _, a := range alerts {
		fmt.Fprintf(b, "- %s\n", a)
	}
	b.WriteString("\n")
}

// present filters the sentinels the source uses for "nothing to report".
func present(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "No", "N/A":
		return false
	}
	return true
}

func nonGrantableTotal(d *domain.Diagnostic) float64 {
	return d.NonGrantable.CepCh + d.NonGrantable.CepSh + d.NonGrantable.NoCep +
		d.NonGrantable.StorageCep + d.NonGrantable.StorageNoCep
}

// criterionProse renders a (possibly combined) criterion code as prose, e.g.
// "Din1_Zona/Est_Dem_Nudo" -> "transient stability ... combined with
// steady-state demand capacity at this node".
func criterionProse(code string) string {
	criteria := domain.ParseCriteria(code)
	if len(criteria) == 0 {
		return "not reported"
	}
	parts := make([]string, len(criteria))
	for i, c := range criteria {
		if name := c.Code.PlainName(); name != "" {
			parts[i] = name
		} else {
			parts[i] = c.Raw
		}
	}
	return strings.Join(parts, " combined with ")
}

// mw formats a megawatt value with thousands separators, e.g. "1,310 MW".
func mw(v float64) string {
	return group(v) + " MW"
}

// group renders a non-negative float as an integer with comma grouping.
func group(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
