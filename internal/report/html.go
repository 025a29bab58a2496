package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/seenimoa/curvewatch/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Figure Generator — Orchestrates chart + template rendering
// ════════════════════════════════════════════════════════════════════

// FigureConfig controls chart document generation.
type FigureConfig struct {
	Title     string               // custom figure title (optional)
	Date      time.Time            // run date used in the default title
	Headlines []models.NewsArticle // optional headlines section
	ChartCfg  ChartConfig          // per-panel rendering config
}

// DefaultFigureConfig returns sensible defaults.
func DefaultFigureConfig() FigureConfig {
	return FigureConfig{
		Date:     time.Now(),
		ChartCfg: DefaultChartConfig(),
	}
}

// FigureData is the template model for the analysis figure.
type FigureData struct {
	Title       string
	GeneratedAt string

	// Panels (embedded SVG strings)
	CurvePanel  template.HTML
	TrendPanel  template.HTML
	SpreadPanel template.HTML
	RangePanel  template.HTML

	Headlines []HeadlineRow
}

// HeadlineRow is a flattened article for template rendering.
type HeadlineRow struct {
	Source    string
	Title     string
	URL       string
	Published string
}

// GenerateFigureHTML renders the four-panel analysis document as HTML.
func GenerateFigureHTML(table *models.YieldTable, snap *models.SnapshotStats, cfg FigureConfig) (string, error) {
	if table == nil || table.IsEmpty() {
		return "", fmt.Errorf("yield table is empty")
	}
	if snap == nil {
		return "", fmt.Errorf("snapshot stats are nil")
	}

	data := buildFigureData(table, snap, cfg)

	tmpl, err := template.New("figure").Parse(FigureTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

// ════════════════════════════════════════════════════════════════════
// Internal — Build template data
// ════════════════════════════════════════════════════════════════════

func buildFigureData(table *models.YieldTable, snap *models.SnapshotStats, cfg FigureConfig) FigureData {
	date := cfg.Date
	if date.IsZero() {
		date = time.Now()
	}

	data := FigureData{
		Title:       cfg.Title,
		GeneratedAt: date.Format("2006-01-02 15:04:05"),
		Headlines:   flattenHeadlines(cfg.Headlines),
	}
	if data.Title == "" {
		data.Title = fmt.Sprintf("US Treasury Analysis - %s", date.Format("2006-01-02"))
	}

	base := cfg.ChartCfg
	if base.Width == 0 {
		base = DefaultChartConfig()
	}

	curveCfg := base
	curveCfg.Title = "Current Yield Curve"
	curveCfg.XTitle = "Maturity"
	curveCfg.YTitle = "Yield (%)"
	data.CurvePanel = template.HTML(CurrentCurveChart(snap, curveCfg))

	trendCfg := base
	trendCfg.Title = fmt.Sprintf("%d Day Trends", trendObservations)
	trendCfg.XTitle = "Date"
	trendCfg.YTitle = "Yield (%)"
	data.TrendPanel = template.HTML(TrendChart(table, trendCfg))

	spreadCfg := base
	spreadCfg.Title = "Yield Curve Spread"
	spreadCfg.XTitle = "Date"
	spreadCfg.YTitle = "10Y-2Y Spread (%)"
	data.SpreadPanel = template.HTML(SpreadChart(table, spreadCfg))

	rangeCfg := base
	rangeCfg.Title = fmt.Sprintf("Current vs %dD Range", snap.Window)
	rangeCfg.XTitle = "Maturity"
	rangeCfg.YTitle = "Yield (%)"
	data.RangePanel = template.HTML(RangeChart(snap, rangeCfg))

	return data
}

func flattenHeadlines(articles []models.NewsArticle) []HeadlineRow {
	if len(articles) == 0 {
		return nil
	}
	rows := make([]HeadlineRow, len(articles))
	for i, a := range articles {
		rows[i] = HeadlineRow{
			Source: a.Source,
			Title:  a.Title,
			URL:    a.URL,
		}
		if !a.PublishedAt.IsZero() {
			rows[i].Published = a.PublishedAt.Format("02 Jan 2006")
		}
	}
	return rows
}
