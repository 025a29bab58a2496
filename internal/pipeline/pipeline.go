// Package pipeline runs the daily treasury analysis end to end: fetch
// the FRED series, assemble the yield table, compute the snapshot,
// write the CSV archives, and render the chart document.
//
// Every stage runs strictly in sequence. A failed series or a missing
// optional artifact degrades the run; only startup and filesystem
// errors abort it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/seenimoa/curvewatch/internal/analysis"
	"github.com/seenimoa/curvewatch/internal/config"
	"github.com/seenimoa/curvewatch/internal/datasource"
	"github.com/seenimoa/curvewatch/internal/logger"
	"github.com/seenimoa/curvewatch/internal/providers/fred"
	"github.com/seenimoa/curvewatch/internal/report"
	"github.com/seenimoa/curvewatch/pkg/models"
)

// ErrNoData marks a run where no usable observations came back. Run
// reports it on the console and exits clean.
var ErrNoData = errors.New("no series data retrieved")

// artifactPaths holds the output file locations for one run.
type artifactPaths struct {
	DataCSV    string
	SummaryCSV string
	ChartHTML  string
	ChartPNG   string
}

// newArtifactPaths derives the dated output paths for a run.
func newArtifactPaths(outputDir string, now time.Time) artifactPaths {
	stamp := now.Format("20060102")
	return artifactPaths{
		DataCSV:    filepath.Join(outputDir, fmt.Sprintf("treasury_data_%s.csv", stamp)),
		SummaryCSV: filepath.Join(outputDir, fmt.Sprintf("treasury_summary_%s.csv", stamp)),
		ChartHTML:  filepath.Join(outputDir, "treasury_analysis_plotly.html"),
		ChartPNG:   filepath.Join(outputDir, "treasury_analysis.png"),
	}
}

// Runner executes the daily analysis.
type Runner struct {
	cfg       *config.Config
	provider  *fred.Provider
	headlines *datasource.Headlines
	console   *report.Console
	log       *logger.Entry
	now       func() time.Time
}

// New creates a Runner. Product output goes to out; diagnostics go
// through log.
func New(cfg *config.Config, provider *fred.Provider, out io.Writer, log *logger.Log) *Runner {
	if log == nil {
		log = logger.Default()
	}
	runID := uuid.New().String()[:8]

	r := &Runner{
		cfg:      cfg,
		provider: provider,
		console:  report.NewConsole(out),
		log:      log.WithComponent("pipeline").WithFields(logger.Fields{"run_id": runID}),
		now:      time.Now,
	}
	if cfg.News.Enabled {
		r.headlines = datasource.NewHeadlines(cfg.News, log)
	}
	return r
}

// Run executes the full daily analysis. A run with no retrievable data
// reports and returns nil; the caller treats that as success.
func (r *Runner) Run(ctx context.Context) error {
	if !r.provider.HasAPIKey() {
		r.console.MissingAPIKey()
		return fred.ErrNoAPIKey
	}

	started := r.now()
	r.console.Banner(started)
	r.log.WithFields(logger.Fields{
		"window":   r.cfg.Pipeline.Window,
		"lookback": r.cfg.Pipeline.LookbackYears,
	}).Info("daily analysis started")

	table, err := r.fetchStage(ctx, started)
	if errors.Is(err, ErrNoData) {
		return nil
	}
	if err != nil {
		return err
	}

	paths := newArtifactPaths(r.cfg.Pipeline.OutputDir, started)
	if err := os.MkdirAll(r.cfg.Pipeline.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := report.WriteDataCSV(table, paths.DataCSV); err != nil {
		return err
	}
	r.console.DataSaved(paths.DataCSV)

	snap, err := r.analyzeStage(table, paths)
	if err != nil {
		return err
	}

	artifacts, err := r.chartStage(ctx, table, snap, started, paths)
	if err != nil {
		return err
	}

	artifacts = append(artifacts,
		report.Artifact{Path: paths.DataCSV, Label: "raw data"},
		report.Artifact{Path: paths.SummaryCSV, Label: "daily summary"},
	)
	r.console.Complete(artifacts)
	r.log.WithFields(logger.Fields{
		"duration_ms": time.Since(started).Milliseconds(),
		"artifacts":   len(artifacts),
	}).Info("daily analysis complete")
	return nil
}

// fetchStage pulls the full curve one series at a time and assembles
// the yield table. Returns ErrNoData when nothing usable was retrieved.
func (r *Runner) fetchStage(ctx context.Context, now time.Time) (*models.YieldTable, error) {
	start := now.AddDate(0, 0, -365*r.cfg.Pipeline.LookbackYears)
	r.console.Fetching()

	series, failed, err := r.provider.FetchYieldCurve(ctx, start, now)
	if err != nil {
		return nil, err
	}
	for _, m := range models.CanonicalMaturities {
		if ferr, ok := failed[m]; ok {
			r.console.FetchFailed(m, ferr)
			r.log.WithError(ferr).WithFields(logger.Fields{"maturity": m}).Warn("series fetch failed")
			continue
		}
		if _, ok := series[m]; ok {
			r.console.FetchOK(m)
		}
	}

	if len(series) == 0 {
		r.console.NoData()
		r.log.Warn("no series retrieved")
		return nil, ErrNoData
	}

	table := models.BuildYieldTable(series)
	if table.IsEmpty() {
		r.console.NoData()
		r.log.Warn("yield table empty after dropping blank rows")
		return nil, ErrNoData
	}

	r.console.TableReady(len(table.Maturities), table.Len())
	return table, nil
}

// analyzeStage prints the snapshot sections and writes the summary CSV.
func (r *Runner) analyzeStage(table *models.YieldTable, paths artifactPaths) (*models.SnapshotStats, error) {
	snap := analysis.Snapshot(table, r.cfg.Pipeline.Window)
	if snap == nil {
		return nil, fmt.Errorf("snapshot unavailable for non-empty table")
	}

	r.console.Snapshot(snap)
	r.console.Spreads(snap)
	r.console.Statistics(snap)

	summary := analysis.BuildSummary(snap)
	if err := report.WriteSummaryCSV(summary, paths.SummaryCSV); err != nil {
		return nil, err
	}
	r.console.SummarySaved(paths.SummaryCSV)
	return snap, nil
}

// chartStage renders the figure HTML and attempts the PNG export.
func (r *Runner) chartStage(ctx context.Context, table *models.YieldTable, snap *models.SnapshotStats, now time.Time, paths artifactPaths) ([]report.Artifact, error) {
	figCfg := report.DefaultFigureConfig()
	figCfg.Date = now

	if r.headlines != nil {
		articles, err := r.headlines.Fetch(ctx, r.cfg.News.Limit)
		if err != nil {
			r.log.WithError(err).Warn("headlines unavailable")
		} else {
			figCfg.Headlines = articles
		}
	}

	html, err := report.GenerateFigureHTML(table, snap, figCfg)
	if err != nil {
		return nil, fmt.Errorf("building chart document: %w", err)
	}
	if err := os.WriteFile(paths.ChartHTML, []byte(html), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", paths.ChartHTML, err)
	}
	r.console.ChartSaved(paths.ChartHTML)

	artifacts := []report.Artifact{
		{Path: paths.ChartHTML, Label: "interactive chart"},
	}

	if r.cfg.Pipeline.NoStatic {
		r.log.Debug("static chart disabled")
		return artifacts, nil
	}

	imgCfg := report.DefaultImageConfig()
	imgCfg.OutputPath = paths.ChartPNG
	if err := report.GeneratePNG(html, imgCfg); err != nil {
		r.console.StaticSkipped(err)
		r.log.WithError(err).Warn("static chart skipped")
		return artifacts, nil
	}
	r.console.StaticSaved(paths.ChartPNG)
	artifacts = append(artifacts, report.Artifact{Path: paths.ChartPNG, Label: "static image"})
	return artifacts, nil
}
