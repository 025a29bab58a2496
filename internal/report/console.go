package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/seenimoa/curvewatch/internal/analysis"
	"github.com/seenimoa/curvewatch/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Console Report — the human-readable daily output
// ════════════════════════════════════════════════════════════════════

// Console writes the daily report lines to a terminal-friendly stream.
// Diagnostics go through the structured logger; everything here is
// product output.
type Console struct {
	w io.Writer
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Banner prints the run header with the current timestamp.
func (c *Console) Banner(now time.Time) {
	fmt.Fprintln(c.w, "🏛️  DAILY TREASURY ANALYSIS")
	fmt.Fprintf(c.w, "📅 %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(c.w, strings.Repeat("=", 50))
}

// Fetching announces the start of the FRED fetch stage.
func (c *Console) Fetching() {
	fmt.Fprintln(c.w, "Fetching Treasury rates from FRED...")
}

// FetchOK marks one maturity as fetched.
func (c *Console) FetchOK(m models.Maturity) {
	fmt.Fprintf(c.w, "✓ %s\n", m)
}

// FetchFailed marks one maturity as failed with a truncated reason.
func (c *Console) FetchFailed(m models.Maturity, err error) {
	msg := err.Error()
	if len(msg) > 50 {
		msg = msg[:50]
	}
	fmt.Fprintf(c.w, "✗ %s: %s...\n", m, msg)
}

// NoData reports that every series failed.
func (c *Console) NoData() {
	fmt.Fprintln(c.w, "❌ No data retrieved. Check connection to fred.stlouisfed.org")
}

// MissingAPIKey reports the startup failure when no key is configured.
func (c *Console) MissingAPIKey() {
	fmt.Fprintln(c.w, "❌ FRED API key not set. Get a free key at https://fred.stlouisfed.org/docs/api/api_key.html")
}

// TableReady reports the assembled table dimensions.
func (c *Console) TableReady(rates, days int) {
	fmt.Fprintf(c.w, "✅ Got %d rates, %d days\n", rates, days)
}

// DataSaved reports the raw data archive path.
func (c *Console) DataSaved(name string) {
	fmt.Fprintf(c.w, "💾 Data saved to %s\n", name)
}

// SummarySaved reports the daily summary path.
func (c *Console) SummarySaved(name string) {
	fmt.Fprintf(c.w, "💾 Summary saved to %s\n", name)
}

// ChartSaved reports the interactive chart path.
func (c *Console) ChartSaved(name string) {
	fmt.Fprintf(c.w, "✅ Interactive chart saved as '%s'\n", name)
}

// StaticSaved reports the PNG export path.
func (c *Console) StaticSaved(name string) {
	fmt.Fprintf(c.w, "✅ Static chart saved as '%s'\n", name)
}

// StaticSkipped warns that the PNG export was skipped.
func (c *Console) StaticSkipped(err error) {
	fmt.Fprintf(c.w, "⚠️  Could not save PNG (install wkhtmltoimage or chromium for static images): %v\n", err)
}

// Snapshot prints the current curve, one line per maturity.
func (c *Console) Snapshot(snap *models.SnapshotStats) {
	if snap == nil || len(snap.Maturities) == 0 {
		return
	}
	fmt.Fprintf(c.w, "\n📊 YIELD CURVE SNAPSHOT (%s)\n", snap.Date.Format("2006-01-02"))
	fmt.Fprintln(c.w, strings.Repeat("=", 50))
	for _, m := range snap.Maturities {
		fmt.Fprintf(c.w, "%3s: %6.3f%%\n", m, snap.Stats[m].Current)
	}
}

// Spreads prints the key spread lines. Each line requires both of its
// legs; the section is skipped entirely when none are available.
func (c *Console) Spreads(snap *models.SnapshotStats) {
	primary, shape, hasPrimary := analysis.PrimarySpread(snap)
	s3m10y, has3m10y := analysis.SpreadBetween(snap, "10Y", "3M")
	s5y30y, has5y30y := analysis.SpreadBetween(snap, "30Y", "5Y")
	if !hasPrimary && !has3m10y && !has5y30y {
		return
	}

	fmt.Fprintln(c.w, "\n📈 KEY SPREADS")
	fmt.Fprintln(c.w, strings.Repeat("-", 20))
	if hasPrimary {
		fmt.Fprintf(c.w, "2Y-10Y: %+.3f%% %s\n", primary, shapeBadge(shape))
	}
	if has3m10y {
		fmt.Fprintf(c.w, "3M-10Y: %+.3f%%\n", s3m10y)
	}
	if has5y30y {
		fmt.Fprintf(c.w, "5Y-30Y: %+.3f%%\n", s5y30y)
	}
}

// Statistics prints the rolling statistics table.
func (c *Console) Statistics(snap *models.SnapshotStats) {
	if snap == nil || len(snap.Maturities) == 0 {
		return
	}
	fmt.Fprintf(c.w, "\n📋 %d-DAY STATISTICS\n", snap.Window)
	fmt.Fprintln(c.w, strings.Repeat("-", 60))

	headers := []string{
		"Current",
		fmt.Sprintf("%dD_Max", snap.Window),
		fmt.Sprintf("%dD_Min", snap.Window),
		fmt.Sprintf("%dD_Median", snap.Window),
		fmt.Sprintf("%dD_Mean", snap.Window),
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h) + 2
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-4s", ""))
	for i, h := range headers {
		sb.WriteString(fmt.Sprintf("%*s", widths[i], h))
	}
	fmt.Fprintln(c.w, sb.String())

	for _, m := range snap.Maturities {
		st := snap.Stats[m]
		values := []float64{st.Current, st.Max, st.Min, st.Median, st.Mean}
		sb.Reset()
		sb.WriteString(fmt.Sprintf("%-4s", m))
		for i, v := range values {
			sb.WriteString(fmt.Sprintf("%*.3f", widths[i], v))
		}
		fmt.Fprintln(c.w, sb.String())
	}
}

// Artifact pairs a generated file with its short description.
type Artifact struct {
	Path  string
	Label string
}

// Complete prints the completion banner and the generated file list.
func (c *Console) Complete(artifacts []Artifact) {
	fmt.Fprintln(c.w, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(c.w, "✅ DAILY TREASURY ANALYSIS COMPLETE")
	fmt.Fprintln(c.w, "📁 Files generated:")
	for _, a := range artifacts {
		fmt.Fprintf(c.w, "   - %s (%s)\n", a.Path, a.Label)
	}
}

func shapeBadge(s models.CurveShape) string {
	switch s {
	case models.ShapeInverted:
		return "(🔴 INVERTED)"
	case models.ShapeFlat:
		return "(🟡 FLAT)"
	case models.ShapeNormal:
		return "(🟢 NORMAL)"
	default:
		return ""
	}
}
