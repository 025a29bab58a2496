// Package report renders the daily treasury artifacts: the console report,
// CSV snapshots, the four-panel SVG/HTML chart document, and the optional
// static PNG export.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/seenimoa/curvewatch/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// SVG Chart Generator — Pure Go, Zero Dependencies
// ════════════════════════════════════════════════════════════════════

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int    // SVG width in pixels (default: 580)
	Height       int    // SVG height in pixels (default: 350)
	MarginTop    int    // top margin (default: 40)
	MarginRight  int    // right margin (default: 20)
	MarginBottom int    // bottom margin (default: 55)
	MarginLeft   int    // left margin (default: 60)
	BgColor      string // background color (default: "#ffffff")
	GridColor    string // grid line color (default: "lightgray")
	TextColor    string // axis label color (default: "#333333")
	FontSize     int    // axis label font size (default: 11)
	Title        string // chart title
	XTitle       string // x-axis title
	YTitle       string // y-axis title
}

// DefaultChartConfig returns sensible defaults for one panel of the figure.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        580,
		Height:       350,
		MarginTop:    40,
		MarginRight:  20,
		MarginBottom: 55,
		MarginLeft:   60,
		BgColor:      "#ffffff",
		GridColor:    "lightgray",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// trendSeries fixes the panel-2 maturities and their color assignment.
var trendSeries = []struct {
	maturity models.Maturity
	color    string
}{
	{"2Y", "red"},
	{"5Y", "green"},
	{"10Y", "blue"},
	{"30Y", "orange"},
}

// trendObservations is the trailing history length for panels 2 and 3.
const trendObservations = 252

// ════════════════════════════════════════════════════════════════════
// Panel 1 — Current Yield Curve
// ════════════════════════════════════════════════════════════════════

// CurrentCurveChart draws the current curve: one point per maturity in
// canonical order, connected line with markers and value labels.
func CurrentCurveChart(snap *models.SnapshotStats, cfg ChartConfig) string {
	if snap == nil || len(snap.Maturities) == 0 {
		return emptySVG(cfg, "No data available")
	}
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Current Yield Curve"
	}

	px, py, pw, ph := cfg.plotArea()

	maturities := models.SortByYears(snap.Maturities)
	values := make([]float64, len(maturities))
	for i, m := range maturities {
		values[i] = snap.Stats[m].Current
	}

	minVal, maxVal := valueRange(values)
	minVal, maxVal = padRange(minVal, maxVal, 0.10)
	vRange := maxVal - minVal

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(chartFrame(cfg))

	pointX := func(i int) float64 {
		if len(maturities) == 1 {
			return float64(px) + float64(pw)/2
		}
		return float64(px) + float64(i)*float64(pw)/float64(len(maturities)-1)
	}
	pointY := func(v float64) float64 {
		return float64(py+ph) - (v-minVal)/vRange*float64(ph)
	}

	writeYGrid(&sb, cfg, minVal, maxVal, "%.2f")

	// Connected line with markers and value labels.
	var pathParts []string
	for i, v := range values {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, pointX(i), pointY(v)))
	}
	sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="blue" stroke-width="3"/>`,
		strings.Join(pathParts, " ")))
	for i, v := range values {
		cx, cy := pointX(i), pointY(v)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="blue"/>`, cx, cy))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="10" fill="%s" text-anchor="middle">%.2f%%</text>`,
			cx, cy-10, cfg.TextColor, v))
	}

	// Maturity labels on the x-axis.
	for i, m := range maturities {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			pointX(i), py+ph+16, cfg.FontSize, cfg.TextColor, escapeXML(string(m))))
	}

	writeAxisTitles(&sb, cfg)
	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Panel 2 — Trailing Trends
// ════════════════════════════════════════════════════════════════════

// TrendChart draws the trailing 252-observation history for the four
// selected maturities, one line each with a fixed color by position.
func TrendChart(table *models.YieldTable, cfg ChartConfig) string {
	if table.IsEmpty() {
		return emptySVG(cfg, "No data available")
	}
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = fmt.Sprintf("%d Day Trends", trendObservations)
	}

	recent := table.Tail(trendObservations)
	px, py, pw, ph := cfg.plotArea()
	n := recent.Len()

	minVal, maxVal := math.MaxFloat64, -math.MaxFloat64
	drawn := 0
	for _, s := range trendSeries {
		col, ok := recent.Columns[s.maturity]
		if !ok {
			continue
		}
		drawn++
		for _, v := range col {
			if math.IsNaN(v) {
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if drawn == 0 || minVal > maxVal {
		return emptySVG(cfg, "No data points")
	}
	minVal, maxVal = padRange(minVal, maxVal, 0.05)
	vRange := maxVal - minVal

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(chartFrame(cfg))
	writeYGrid(&sb, cfg, minVal, maxVal, "%.2f")

	li := 0
	for _, s := range trendSeries {
		col, ok := recent.Columns[s.maturity]
		if !ok {
			continue
		}
		var pathParts []string
		for i, v := range col {
			if math.IsNaN(v) {
				continue
			}
			cx := float64(px) + float64(i)*float64(pw)/float64(n-1)
			cy := float64(py+ph) - (v-minVal)/vRange*float64(ph)
			cmd := "L"
			if len(pathParts) == 0 {
				cmd = "M"
			}
			pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, cx, cy))
		}
		if len(pathParts) > 1 {
			sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="2"/>`,
				strings.Join(pathParts, " "), s.color))
		}

		// Legend swatch
		ly := py + 10 + li*16
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`,
			px+10, ly, px+30, ly, s.color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">%s</text>`,
			px+35, ly+4, cfg.TextColor, escapeXML(string(s.maturity))))
		li++
	}

	writeDateLabels(&sb, cfg, recent.Dates)
	writeAxisTitles(&sb, cfg)
	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Panel 3 — Spread History
// ════════════════════════════════════════════════════════════════════

// SpreadChart draws the trailing 10Y-2Y spread as a filled area with a
// dashed zero reference line. The y-range always includes zero so the
// inversion boundary stays visible.
func SpreadChart(table *models.YieldTable, cfg ChartConfig) string {
	if table.IsEmpty() {
		return emptySVG(cfg, "No data available")
	}
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Yield Curve Spread"
	}

	longCol, okL := table.Columns[models.Maturity("10Y")]
	shortCol, okS := table.Columns[models.Maturity("2Y")]
	if !okL || !okS {
		return emptySVG(cfg, "Spread unavailable")
	}

	recent := table.Tail(trendObservations)
	offset := table.Len() - recent.Len()
	n := recent.Len()

	spreads := make([]float64, n)
	minVal, maxVal := math.MaxFloat64, -math.MaxFloat64
	for i := 0; i < n; i++ {
		l, s := longCol[offset+i], shortCol[offset+i]
		if math.IsNaN(l) || math.IsNaN(s) {
			spreads[i] = math.NaN()
			continue
		}
		spreads[i] = l - s
		if spreads[i] < minVal {
			minVal = spreads[i]
		}
		if spreads[i] > maxVal {
			maxVal = spreads[i]
		}
	}
	if minVal > maxVal {
		return emptySVG(cfg, "No data points")
	}
	// Keep zero in range for the reference line and the fill baseline.
	if minVal > 0 {
		minVal = 0
	}
	if maxVal < 0 {
		maxVal = 0
	}
	minVal, maxVal = padRange(minVal, maxVal, 0.05)
	vRange := maxVal - minVal

	px, py, pw, ph := cfg.plotArea()
	pointX := func(i int) float64 {
		if n == 1 {
			return float64(px) + float64(pw)/2
		}
		return float64(px) + float64(i)*float64(pw)/float64(n-1)
	}
	pointY := func(v float64) float64 {
		return float64(py+ph) - (v-minVal)/vRange*float64(ph)
	}
	zeroY := pointY(0)

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(chartFrame(cfg))
	writeYGrid(&sb, cfg, minVal, maxVal, "%.2f")

	var lineParts []string
	firstX, lastX := -1.0, -1.0
	for i, v := range spreads {
		if math.IsNaN(v) {
			continue
		}
		cx, cy := pointX(i), pointY(v)
		if firstX < 0 {
			firstX = cx
		}
		lastX = cx
		cmd := "L"
		if len(lineParts) == 0 {
			cmd = "M"
		}
		lineParts = append(lineParts, fmt.Sprintf("%s%.1f,%.1f", cmd, cx, cy))
	}
	if len(lineParts) > 1 {
		// Fill between the spread line and the zero axis.
		fill := fmt.Sprintf("%s L%.1f,%.1f L%.1f,%.1f Z",
			strings.Join(lineParts, " "), lastX, zeroY, firstX, zeroY)
		sb.WriteString(fmt.Sprintf(`<path d="%s" fill="rgba(255,0,0,0.3)" stroke="none"/>`, fill))
		sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="red" stroke-width="2"/>`,
			strings.Join(lineParts, " ")))
	}

	// Zero reference line.
	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="black" stroke-width="1" stroke-dasharray="4,4" opacity="0.7"/>`,
		px, zeroY, px+pw, zeroY))

	writeDateLabels(&sb, cfg, recent.Dates)
	writeAxisTitles(&sb, cfg)
	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Panel 4 — Current vs Window Range
// ════════════════════════════════════════════════════════════════════

// RangeChart draws Current against the trailing-window Min and Max,
// three marker lines across the maturity axis.
func RangeChart(snap *models.SnapshotStats, cfg ChartConfig) string {
	if snap == nil || len(snap.Maturities) == 0 {
		return emptySVG(cfg, "No data available")
	}
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = fmt.Sprintf("Current vs %dD Range", snap.Window)
	}

	px, py, pw, ph := cfg.plotArea()
	maturities := models.SortByYears(snap.Maturities)
	n := len(maturities)

	rangeSeries := []struct {
		name   string
		color  string
		width  int
		values []float64
	}{
		{fmt.Sprintf("%dD Min", snap.Window), "lightblue", 2, make([]float64, n)},
		{"Current", "blue", 3, make([]float64, n)},
		{fmt.Sprintf("%dD Max", snap.Window), "lightcoral", 2, make([]float64, n)},
	}
	for i, m := range maturities {
		st := snap.Stats[m]
		rangeSeries[0].values[i] = st.Min
		rangeSeries[1].values[i] = st.Current
		rangeSeries[2].values[i] = st.Max
	}

	minVal, maxVal := math.MaxFloat64, -math.MaxFloat64
	for _, s := range rangeSeries {
		lo, hi := valueRange(s.values)
		if lo < minVal {
			minVal = lo
		}
		if hi > maxVal {
			maxVal = hi
		}
	}
	minVal, maxVal = padRange(minVal, maxVal, 0.05)
	vRange := maxVal - minVal

	pointX := func(i int) float64 {
		if n == 1 {
			return float64(px) + float64(pw)/2
		}
		return float64(px) + float64(i)*float64(pw)/float64(n-1)
	}
	pointY := func(v float64) float64 {
		return float64(py+ph) - (v-minVal)/vRange*float64(ph)
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(chartFrame(cfg))
	writeYGrid(&sb, cfg, minVal, maxVal, "%.2f")

	for si, s := range rangeSeries {
		var pathParts []string
		for i, v := range s.values {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, pointX(i), pointY(v)))
		}
		if len(pathParts) > 1 {
			sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="%d" opacity="0.9"/>`,
				strings.Join(pathParts, " "), s.color, s.width))
		}
		for i, v := range s.values {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`,
				pointX(i), pointY(v), s.color))
		}

		// Legend swatch
		ly := py + 10 + si*16
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`,
			px+10, ly, px+30, ly, s.color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">%s</text>`,
			px+35, ly+4, cfg.TextColor, escapeXML(s.name)))
	}

	for i, m := range maturities {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			pointX(i), py+ph+16, cfg.FontSize, cfg.TextColor, escapeXML(string(m))))
	}

	writeAxisTitles(&sb, cfg)
	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

// chartFrame draws the background and title shared by every panel.
func chartFrame(cfg ChartConfig) string {
	return fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor) +
		fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
			cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title))
}

// writeYGrid draws dotted horizontal gridlines with value labels.
func writeYGrid(sb *strings.Builder, cfg ChartConfig, minVal, maxVal float64, format string) {
	px, py, pw, ph := cfg.plotArea()
	vRange := maxVal - minVal
	gridLines := 5
	for i := 0; i <= gridLines; i++ {
		val := minVal + vRange*float64(i)/float64(gridLines)
		y := py + ph - int(float64(ph)*float64(i)/float64(gridLines))
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">`+format+`</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, val))
	}
}

// writeDateLabels draws x-axis date labels at even intervals.
func writeDateLabels(sb *strings.Builder, cfg ChartConfig, dates []time.Time) {
	if len(dates) == 0 {
		return
	}
	px, py, pw, ph := cfg.plotArea()
	n := len(dates)
	interval := n / 6
	if interval < 1 {
		interval = 1
	}
	for i := 0; i < n; i += interval {
		cx := float64(px) + float64(i)*float64(pw)/float64(maxInt(n-1, 1))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			cx, py+ph+16, cfg.FontSize-1, cfg.TextColor, dates[i].Format("Jan 06")))
	}
}

// writeAxisTitles draws the x-axis title below the labels and the y-axis
// title rotated along the left edge.
func writeAxisTitles(sb *strings.Builder, cfg ChartConfig) {
	px, py, pw, ph := cfg.plotArea()
	if cfg.XTitle != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			px+pw/2, py+ph+38, cfg.FontSize+1, cfg.TextColor, escapeXML(cfg.XTitle)))
	}
	if cfg.YTitle != "" {
		sb.WriteString(fmt.Sprintf(`<text x="14" y="%d" font-size="%d" fill="%s" text-anchor="middle" transform="rotate(-90,14,%d)">%s</text>`,
			py+ph/2, cfg.FontSize+1, cfg.TextColor, py+ph/2, escapeXML(cfg.YTitle)))
	}
}

func valueRange(values []float64) (float64, float64) {
	min, max := math.MaxFloat64, -math.MaxFloat64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// padRange widens [min, max] by pct on both sides, guarding flat series.
func padRange(min, max, pct float64) (float64, float64) {
	r := max - min
	if r < 0.001 {
		r = 1
	}
	return min - r*pct, max + r*pct
}

func emptySVG(cfg ChartConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
