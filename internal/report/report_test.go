package report

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/curvewatch/internal/analysis"
	"github.com/seenimoa/curvewatch/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

// sampleTable builds n business-day-ish rows for the four trend
// maturities, with the 10Y sitting below the 2Y so the primary spread
// is inverted.
func sampleTable(n int) *models.YieldTable {
	bases := map[models.Maturity]float64{
		"2Y":  4.80,
		"5Y":  4.20,
		"10Y": 4.40,
		"30Y": 4.60,
	}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(map[models.Maturity][]models.SeriesPoint, len(bases))
	for m, base := range bases {
		points := make([]models.SeriesPoint, n)
		for i := range points {
			points[i] = models.SeriesPoint{
				Date:  start.AddDate(0, 0, i),
				Value: base + float64(i%5)*0.01,
			}
		}
		series[m] = points
	}
	return models.BuildYieldTable(series)
}

func sampleSnapshot(n int) *models.SnapshotStats {
	return analysis.Snapshot(sampleTable(n), 90)
}

// snapshotOf builds a single-row snapshot with the given current yields.
func snapshotOf(yields map[models.Maturity]float64) *models.SnapshotStats {
	series := make(map[models.Maturity][]models.SeriesPoint, len(yields))
	for m, v := range yields {
		series[m] = []models.SeriesPoint{
			{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Value: v},
		}
	}
	return analysis.Snapshot(models.BuildYieldTable(series), 90)
}

// ════════════════════════════════════════════════════════════════════
// Console
// ════════════════════════════════════════════════════════════════════

func TestConsoleBanner(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Banner(time.Date(2025, 6, 2, 7, 30, 0, 0, time.UTC))

	want := "🏛️  DAILY TREASURY ANALYSIS\n📅 2025-06-02 07:30:00\n" + strings.Repeat("=", 50) + "\n"
	if buf.String() != want {
		t.Errorf("banner:\ngot  %q\nwant %q", buf.String(), want)
	}
}

func TestConsoleFetchLines(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Fetching()
	c.FetchOK("10Y")
	c.FetchFailed("20Y", errors.New("timeout"))

	out := buf.String()
	if !strings.Contains(out, "Fetching Treasury rates from FRED...\n") {
		t.Error("missing fetch announcement")
	}
	if !strings.Contains(out, "✓ 10Y\n") {
		t.Errorf("missing success line, got %q", out)
	}
	if !strings.Contains(out, "✗ 20Y: timeout...\n") {
		t.Errorf("missing failure line, got %q", out)
	}
}

func TestConsoleFetchFailedTruncates(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	long := strings.Repeat("x", 80)
	c.FetchFailed("30Y", errors.New(long))

	want := "✗ 30Y: " + strings.Repeat("x", 50) + "...\n"
	if buf.String() != want {
		t.Errorf("truncated failure:\ngot  %q\nwant %q", buf.String(), want)
	}
}

func TestConsoleStatusLines(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.NoData()
	c.MissingAPIKey()
	c.TableReady(8, 500)
	c.DataSaved("treasury_data_20250602.csv")
	c.SummarySaved("treasury_summary_20250602.csv")
	c.ChartSaved("treasury_analysis_plotly.html")
	c.StaticSaved("treasury_analysis.png")
	c.StaticSkipped(errors.New("boom"))

	out := buf.String()
	wantLines := []string{
		"❌ No data retrieved. Check connection to fred.stlouisfed.org",
		"❌ FRED API key not set. Get a free key at https://fred.stlouisfed.org/docs/api/api_key.html",
		"✅ Got 8 rates, 500 days",
		"💾 Data saved to treasury_data_20250602.csv",
		"💾 Summary saved to treasury_summary_20250602.csv",
		"✅ Interactive chart saved as 'treasury_analysis_plotly.html'",
		"✅ Static chart saved as 'treasury_analysis.png'",
		"⚠️  Could not save PNG (install wkhtmltoimage or chromium for static images): boom",
	}
	for _, w := range wantLines {
		if !strings.Contains(out, w+"\n") {
			t.Errorf("missing line %q in output:\n%s", w, out)
		}
	}
}

func TestConsoleSnapshot(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Snapshot(snapshotOf(map[models.Maturity]float64{"2Y": 4.5, "10Y": 4.123}))

	out := buf.String()
	if !strings.Contains(out, "📊 YIELD CURVE SNAPSHOT (2025-06-02)") {
		t.Errorf("missing snapshot header, got %q", out)
	}
	if !strings.Contains(out, " 2Y:  4.500%\n") {
		t.Errorf("missing 2Y line, got %q", out)
	}
	if !strings.Contains(out, "10Y:  4.123%\n") {
		t.Errorf("missing 10Y line, got %q", out)
	}
}

func TestConsoleSnapshotEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).Snapshot(nil)
	if buf.Len() != 0 {
		t.Errorf("nil snapshot should print nothing, got %q", buf.String())
	}
}

func TestConsoleSpreadsInverted(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Spreads(snapshotOf(map[models.Maturity]float64{
		"2Y": 4.9, "5Y": 4.2, "10Y": 4.4, "30Y": 4.6,
	}))

	out := buf.String()
	if !strings.Contains(out, "📈 KEY SPREADS") {
		t.Errorf("missing section header, got %q", out)
	}
	if !strings.Contains(out, "2Y-10Y: -0.500% (🔴 INVERTED)\n") {
		t.Errorf("missing primary spread line, got %q", out)
	}
	if !strings.Contains(out, "5Y-30Y: +0.400%\n") {
		t.Errorf("missing 5Y-30Y line, got %q", out)
	}
	// 3M is not fetched, so its spread line is absent.
	if strings.Contains(out, "3M-10Y") {
		t.Errorf("3M-10Y should be absent without a 3M leg, got %q", out)
	}
}

func TestConsoleSpreadsBadges(t *testing.T) {
	tests := []struct {
		twoY  float64
		tenY  float64
		badge string
	}{
		{4.9, 4.4, "(🔴 INVERTED)"},
		{4.3, 4.5, "(🟡 FLAT)"},
		{3.8, 4.5, "(🟢 NORMAL)"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		NewConsole(&buf).Spreads(snapshotOf(map[models.Maturity]float64{
			"2Y": tt.twoY, "10Y": tt.tenY,
		}))
		if !strings.Contains(buf.String(), tt.badge) {
			t.Errorf("2Y=%.1f 10Y=%.1f: expected badge %s, got %q",
				tt.twoY, tt.tenY, tt.badge, buf.String())
		}
	}
}

func TestConsoleSpreadsSkippedWhenUnavailable(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).Spreads(snapshotOf(map[models.Maturity]float64{"7Y": 4.3}))
	if strings.Contains(buf.String(), "KEY SPREADS") {
		t.Errorf("section should be skipped with no computable spread, got %q", buf.String())
	}
}

func TestConsoleStatistics(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).Statistics(sampleSnapshot(120))

	out := buf.String()
	if !strings.Contains(out, "📋 90-DAY STATISTICS") {
		t.Errorf("missing section header, got %q", out)
	}
	for _, h := range []string{"Current", "90D_Max", "90D_Min", "90D_Median", "90D_Mean"} {
		if !strings.Contains(out, h) {
			t.Errorf("missing column header %q", h)
		}
	}
	for _, m := range []string{"2Y", "5Y", "10Y", "30Y"} {
		if !strings.Contains(out, m+" ") {
			t.Errorf("missing row for %s", m)
		}
	}
}

func TestConsoleComplete(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).Complete([]Artifact{
		{Path: "treasury_analysis_plotly.html", Label: "interactive chart"},
		{Path: "treasury_data_20250602.csv", Label: "raw data"},
	})

	out := buf.String()
	if !strings.Contains(out, "✅ DAILY TREASURY ANALYSIS COMPLETE") {
		t.Error("missing completion banner")
	}
	if !strings.Contains(out, "📁 Files generated:") {
		t.Error("missing file list header")
	}
	if !strings.Contains(out, "   - treasury_analysis_plotly.html (interactive chart)\n") {
		t.Errorf("missing chart artifact line, got %q", out)
	}
	if !strings.Contains(out, "   - treasury_data_20250602.csv (raw data)\n") {
		t.Errorf("missing data artifact line, got %q", out)
	}
}

// ════════════════════════════════════════════════════════════════════
// CSV Writers
// ════════════════════════════════════════════════════════════════════

func TestWriteDataCSV(t *testing.T) {
	d1 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	table := models.BuildYieldTable(map[models.Maturity][]models.SeriesPoint{
		"2Y":  {{Date: d1, Value: 4.5}, {Date: d2, Value: 4.55}},
		"10Y": {{Date: d2, Value: 4.4}},
	})

	path := filepath.Join(t.TempDir(), "data.csv")
	if err := WriteDataCSV(table, path); err != nil {
		t.Fatalf("WriteDataCSV: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "DATE,2Y,10Y" {
		t.Errorf("header: got %q", lines[0])
	}
	// Missing 10Y observation on day one stays an empty cell.
	if lines[1] != "2025-06-02,4.5," {
		t.Errorf("row 1: got %q", lines[1])
	}
	if lines[2] != "2025-06-03,4.55,4.4" {
		t.Errorf("row 2: got %q", lines[2])
	}
}

func TestWriteDataCSVDeterministic(t *testing.T) {
	table := sampleTable(30)
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.csv")
	p2 := filepath.Join(dir, "b.csv")

	if err := WriteDataCSV(table, p1); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteDataCSV(table, p2); err != nil {
		t.Fatalf("second write: %v", err)
	}

	b1, _ := os.ReadFile(p1)
	b2, _ := os.ReadFile(p2)
	if !bytes.Equal(b1, b2) {
		t.Error("repeated writes of the same table should be byte-identical")
	}
}

func TestWriteDataCSVEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := WriteDataCSV(&models.YieldTable{}, path); err == nil {
		t.Error("expected error for empty table")
	}
	if err := WriteDataCSV(nil, path); err == nil {
		t.Error("expected error for nil table")
	}
}

func TestWriteSummaryCSV(t *testing.T) {
	spread := -0.5
	rec := &models.SummaryRecord{
		Date:            time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		InversionStatus: models.ShapeInverted,
		Spread:          &spread,
		Yields: map[models.Maturity]float64{
			"2Y":  4.9,
			"10Y": 4.4,
		},
	}

	path := filepath.Join(t.TempDir(), "summary.csv")
	if err := WriteSummaryCSV(rec, path); err != nil {
		t.Fatalf("WriteSummaryCSV: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	wantHeader := "date,inversion_status,2Y_10Y_spread," +
		"1Y_yield,2Y_yield,3Y_yield,5Y_yield,7Y_yield,10Y_yield,20Y_yield,30Y_yield"
	if lines[0] != wantHeader {
		t.Errorf("header:\ngot  %q\nwant %q", lines[0], wantHeader)
	}
	if lines[1] != "2025-06-02,INVERTED,-0.5,,4.9,,,,4.4,," {
		t.Errorf("row: got %q", lines[1])
	}
}

func TestWriteSummaryCSVMissingSpread(t *testing.T) {
	rec := &models.SummaryRecord{
		Date:            time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		InversionStatus: models.ShapeUnknown,
		Yields:          map[models.Maturity]float64{"10Y": 4.4},
	}

	path := filepath.Join(t.TempDir(), "summary.csv")
	if err := WriteSummaryCSV(rec, path); err != nil {
		t.Fatalf("WriteSummaryCSV: %v", err)
	}

	content, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if lines[1] != "2025-06-02,N/A,,,,,,,4.4,," {
		t.Errorf("row: got %q", lines[1])
	}
	// The header never shrinks when values are missing.
	if got := len(strings.Split(lines[1], ",")); got != 11 {
		t.Errorf("expected 11 columns, got %d", got)
	}
}

func TestWriteSummaryCSVNilRecord(t *testing.T) {
	if err := WriteSummaryCSV(nil, filepath.Join(t.TempDir(), "s.csv")); err == nil {
		t.Error("expected error for nil record")
	}
}

func TestFormatYield(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{4.5, "4.5"},
		{4.123, "4.123"},
		{0, "0"},
		{-0.5, "-0.5"},
		{math.NaN(), ""},
	}
	for _, tt := range tests {
		if got := formatYield(tt.in); got != tt.want {
			t.Errorf("formatYield(%f) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ════════════════════════════════════════════════════════════════════
// SVG Charts
// ════════════════════════════════════════════════════════════════════

func TestCurrentCurveChart(t *testing.T) {
	svg := CurrentCurveChart(sampleSnapshot(30), DefaultChartConfig())
	if !strings.Contains(svg, "<svg") {
		t.Fatal("should produce SVG output")
	}
	if !strings.Contains(svg, "Current Yield Curve") {
		t.Error("should include the default title")
	}
	if !strings.Contains(svg, `stroke="blue" stroke-width="3"`) {
		t.Error("should draw the curve line in blue at width 3")
	}
	// Value labels and maturity labels.
	if !strings.Contains(svg, "%</text>") {
		t.Error("should label points with percentages")
	}
	for _, m := range []string{"2Y", "5Y", "10Y", "30Y"} {
		if !strings.Contains(svg, ">"+m+"<") {
			t.Errorf("should label the %s tick", m)
		}
	}
}

func TestCurrentCurveChartNoData(t *testing.T) {
	svg := CurrentCurveChart(nil, ChartConfig{})
	if !strings.Contains(svg, "No data") {
		t.Error("nil snapshot should render the empty placeholder")
	}
}

func TestTrendChart(t *testing.T) {
	svg := TrendChart(sampleTable(300), DefaultChartConfig())
	if !strings.Contains(svg, "252 Day Trends") {
		t.Error("should include the default title")
	}
	for _, color := range []string{"red", "green", "blue", "orange"} {
		if !strings.Contains(svg, `stroke="`+color+`" stroke-width="2"`) {
			t.Errorf("should draw a %s trend line", color)
		}
	}
	// Legend labels.
	for _, m := range []string{"2Y", "5Y", "10Y", "30Y"} {
		if !strings.Contains(svg, ">"+m+"<") {
			t.Errorf("should include %s in the legend", m)
		}
	}
}

func TestTrendChartEmpty(t *testing.T) {
	svg := TrendChart(&models.YieldTable{}, ChartConfig{})
	if !strings.Contains(svg, "No data") {
		t.Error("empty table should render the empty placeholder")
	}
}

func TestSpreadChart(t *testing.T) {
	svg := SpreadChart(sampleTable(300), DefaultChartConfig())
	if !strings.Contains(svg, "Yield Curve Spread") {
		t.Error("should include the default title")
	}
	if !strings.Contains(svg, "rgba(255,0,0,0.3)") {
		t.Error("should fill the area to the zero axis")
	}
	if !strings.Contains(svg, `stroke="red" stroke-width="2"`) {
		t.Error("should draw the spread line in red")
	}
	if !strings.Contains(svg, `stroke-dasharray="4,4"`) {
		t.Error("should draw the dashed zero reference line")
	}
}

func TestSpreadChartMissingLeg(t *testing.T) {
	table := models.BuildYieldTable(map[models.Maturity][]models.SeriesPoint{
		"10Y": {{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Value: 4.4}},
	})
	svg := SpreadChart(table, ChartConfig{})
	if !strings.Contains(svg, "Spread unavailable") {
		t.Errorf("missing 2Y leg should render the placeholder, got %q", svg)
	}
}

func TestRangeChart(t *testing.T) {
	svg := RangeChart(sampleSnapshot(120), DefaultChartConfig())
	if !strings.Contains(svg, "Current vs 90D Range") {
		t.Error("should include the default title")
	}
	for _, label := range []string{"90D Min", "Current", "90D Max"} {
		if !strings.Contains(svg, label) {
			t.Errorf("should include the %q legend entry", label)
		}
	}
	if !strings.Contains(svg, "lightblue") || !strings.Contains(svg, "lightcoral") {
		t.Error("should use the range band colors")
	}
}

func TestRangeChartNoData(t *testing.T) {
	svg := RangeChart(nil, ChartConfig{})
	if !strings.Contains(svg, "No data") {
		t.Error("nil snapshot should render the empty placeholder")
	}
}

func TestPadRangeFlatSeries(t *testing.T) {
	lo, hi := padRange(4.0, 4.0, 0.1)
	if lo >= hi {
		t.Errorf("flat series must still produce a usable range, got [%f, %f]", lo, hi)
	}
	if math.Abs(lo-3.9) > 1e-9 || math.Abs(hi-4.1) > 1e-9 {
		t.Errorf("expected [3.9, 4.1], got [%f, %f]", lo, hi)
	}
}

func TestEscapeXML(t *testing.T) {
	got := escapeXML(`<b>&"x"`)
	if strings.ContainsAny(got, `<>"`) && !strings.Contains(got, "&lt;") {
		t.Errorf("escapeXML left raw markup: %q", got)
	}
	if got != "&lt;b&gt;&amp;&quot;x&quot;" {
		t.Errorf("escapeXML = %q", got)
	}
}

// ════════════════════════════════════════════════════════════════════
// Figure HTML
// ════════════════════════════════════════════════════════════════════

func TestGenerateFigureHTML(t *testing.T) {
	table := sampleTable(300)
	snap := analysis.Snapshot(table, 90)
	cfg := DefaultFigureConfig()
	cfg.Date = time.Date(2025, 6, 2, 7, 30, 0, 0, time.UTC)

	html, err := GenerateFigureHTML(table, snap, cfg)
	if err != nil {
		t.Fatalf("GenerateFigureHTML: %v", err)
	}

	if !strings.Contains(html, "<!DOCTYPE html>") {
		t.Error("should be a complete HTML document")
	}
	if !strings.Contains(html, "US Treasury Analysis - 2025-06-02") {
		t.Error("should derive the title from the run date")
	}
	if !strings.Contains(html, "Generated 2025-06-02 07:30:00") {
		t.Error("should include the generation timestamp")
	}
	for _, title := range []string{
		"Current Yield Curve", "252 Day Trends", "Yield Curve Spread", "Current vs 90D Range",
	} {
		if !strings.Contains(html, title) {
			t.Errorf("should embed the %q panel", title)
		}
	}
	if got := strings.Count(html, "<svg"); got != 4 {
		t.Errorf("expected 4 embedded SVG panels, got %d", got)
	}
	if strings.Contains(html, "Market Headlines") {
		t.Error("headlines section should be absent without articles")
	}
	if !strings.Contains(html, "Federal Reserve Bank of St. Louis") {
		t.Error("should carry the data attribution footer")
	}
}

func TestGenerateFigureHTMLWithHeadlines(t *testing.T) {
	table := sampleTable(30)
	snap := analysis.Snapshot(table, 90)
	cfg := DefaultFigureConfig()
	cfg.Headlines = []models.NewsArticle{
		{
			Title:       "Treasury yields slip after auction",
			URL:         "https://example.com/a1",
			Source:      "MarketWatch",
			PublishedAt: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
		},
	}

	html, err := GenerateFigureHTML(table, snap, cfg)
	if err != nil {
		t.Fatalf("GenerateFigureHTML: %v", err)
	}
	if !strings.Contains(html, "Market Headlines") {
		t.Error("headlines section should be present")
	}
	if !strings.Contains(html, "Treasury yields slip after auction") {
		t.Error("should include the article title")
	}
	if !strings.Contains(html, `href="https://example.com/a1"`) {
		t.Error("should link to the article")
	}
	if !strings.Contains(html, "MarketWatch") {
		t.Error("should show the source badge")
	}
	if !strings.Contains(html, "02 Jun 2025") {
		t.Error("should show the published date")
	}
}

func TestGenerateFigureHTMLCustomTitle(t *testing.T) {
	table := sampleTable(30)
	cfg := DefaultFigureConfig()
	cfg.Title = "Morning Curve Check"

	html, err := GenerateFigureHTML(table, analysis.Snapshot(table, 90), cfg)
	if err != nil {
		t.Fatalf("GenerateFigureHTML: %v", err)
	}
	if !strings.Contains(html, "Morning Curve Check") {
		t.Error("custom title should override the default")
	}
}

func TestGenerateFigureHTMLEmptyInputs(t *testing.T) {
	if _, err := GenerateFigureHTML(&models.YieldTable{}, sampleSnapshot(10), DefaultFigureConfig()); err == nil {
		t.Error("expected error for empty table")
	}
	if _, err := GenerateFigureHTML(sampleTable(10), nil, DefaultFigureConfig()); err == nil {
		t.Error("expected error for nil snapshot")
	}
}

func TestFigureDocumentStructure(t *testing.T) {
	table := sampleTable(120)
	snap := analysis.Snapshot(table, 90)
	cfg := DefaultFigureConfig()
	cfg.Date = time.Date(2025, 6, 2, 7, 30, 0, 0, time.UTC)
	cfg.Headlines = []models.NewsArticle{
		{Title: "Curve steepens ahead of FOMC", URL: "https://example.com/h1", Source: "CNBC"},
		{Title: "Auction recap", URL: "https://example.com/h2", Source: "MarketWatch"},
	}

	html, err := GenerateFigureHTML(table, snap, cfg)
	if err != nil {
		t.Fatalf("GenerateFigureHTML: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing figure document: %v", err)
	}

	if got := doc.Find(".figure-grid .panel").Length(); got != 4 {
		t.Errorf("expected 4 panels in the grid, got %d", got)
	}
	if got := doc.Find(".panel svg").Length(); got != 4 {
		t.Errorf("expected one SVG per panel, got %d", got)
	}
	if got := doc.Find("h1").Text(); got != "US Treasury Analysis - 2025-06-02" {
		t.Errorf("page title: got %q", got)
	}
	if got := doc.Find(".muted").First().Text(); got != "Generated 2025-06-02 07:30:00" {
		t.Errorf("generated line: got %q", got)
	}
	if got := doc.Find(".headline").Length(); got != 2 {
		t.Errorf("expected 2 headline rows, got %d", got)
	}
	href, ok := doc.Find(".headline a").First().Attr("href")
	if !ok || href != "https://example.com/h1" {
		t.Errorf("first headline href: got %q", href)
	}
	if got := doc.Find(".footer").Length(); got != 1 {
		t.Errorf("expected one footer block, got %d", got)
	}
}

// ════════════════════════════════════════════════════════════════════
// PNG Export
// ════════════════════════════════════════════════════════════════════

func TestDefaultImageConfig(t *testing.T) {
	cfg := DefaultImageConfig()
	if cfg.Width != 1200 || cfg.Height != 800 || cfg.Scale != 2 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestDetectImageEngineNone(t *testing.T) {
	t.Setenv("PATH", "")
	if engine := DetectImageEngine(); engine != EngineNone {
		t.Errorf("expected no engine with empty PATH, got %s", engine)
	}
	if IsImageSupported() {
		t.Error("IsImageSupported should be false with empty PATH")
	}
}

func TestGeneratePNGNoEngine(t *testing.T) {
	t.Setenv("PATH", "")
	cfg := DefaultImageConfig()
	cfg.OutputPath = filepath.Join(t.TempDir(), "out.png")

	err := GeneratePNG("<html><body>x</body></html>", cfg)
	if !errors.Is(err, ErrNoEngine) {
		t.Errorf("expected ErrNoEngine, got %v", err)
	}
}

func TestGeneratePNGRequiresOutputPath(t *testing.T) {
	err := GeneratePNG("<html></html>", ImageConfig{})
	if err == nil || !strings.Contains(err.Error(), "output path") {
		t.Errorf("expected output path error, got %v", err)
	}
}

func TestGeneratePNGUnknownEngine(t *testing.T) {
	cfg := DefaultImageConfig()
	cfg.Engine = ImageEngine("magic")
	cfg.OutputPath = filepath.Join(t.TempDir(), "out.png")

	err := GeneratePNG("<html></html>", cfg)
	if err == nil || !strings.Contains(err.Error(), "unsupported image engine") {
		t.Errorf("expected unsupported engine error, got %v", err)
	}
}

func TestWriteTempHTML(t *testing.T) {
	path, err := writeTempHTML("<html><body>probe</body></html>")
	if err != nil {
		t.Fatalf("writeTempHTML: %v", err)
	}
	defer os.Remove(path)

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(content), "probe") {
		t.Error("temp file should contain the HTML")
	}
	if filepath.Ext(path) != ".html" {
		t.Errorf("expected .html extension, got %s", path)
	}
}
