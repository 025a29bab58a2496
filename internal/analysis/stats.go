// Package analysis computes the daily yield-curve numbers: trailing-window
// snapshot statistics per maturity, curve spreads, and shape classification.
// All functions operate on models.YieldTable rows.
package analysis

import (
	"math"
	"sort"

	"github.com/seenimoa/curvewatch/pkg/models"
)

// DefaultWindow is the trailing-window size in observations.
const DefaultWindow = 90

// flatThreshold separates a flat curve from a normal one, in percentage points.
const flatThreshold = 0.5

// SpreadLong and SpreadShort are the primary-spread legs (10Y minus 2Y).
const (
	SpreadLong  = models.Maturity("10Y")
	SpreadShort = models.Maturity("2Y")
)

// Snapshot computes per-maturity statistics over the last `window` rows.
// Default window is 90; a window larger than the table uses the whole table.
// The window always includes the current (last) row, so Current falls inside
// [Min, Max]. A maturity gets a record only when its current-row cell is
// present; window statistics skip missing cells.
func Snapshot(table *models.YieldTable, window int) *models.SnapshotStats {
	if window <= 0 {
		window = DefaultWindow
	}
	if table.IsEmpty() {
		return nil
	}

	recent := table.Tail(window)
	snap := &models.SnapshotStats{
		Date:   table.LastDate(),
		Window: window,
		Stats:  make(map[models.Maturity]*models.MaturityStats),
	}

	for _, m := range table.Maturities {
		current, ok := table.Current(m)
		if !ok {
			continue
		}
		values := presentValues(recent.Columns[m])
		if len(values) == 0 {
			continue
		}
		snap.Maturities = append(snap.Maturities, m)
		snap.Stats[m] = &models.MaturityStats{
			Current: current,
			Max:     maxOf(values),
			Min:     minOf(values),
			Median:  medianOf(values),
			Mean:    meanOf(values),
		}
	}

	return snap
}

// SpreadBetween returns the long-minus-short Current spread.
// ok is false when either leg has no snapshot record; no value is ever
// substituted for a missing leg.
func SpreadBetween(snap *models.SnapshotStats, long, short models.Maturity) (float64, bool) {
	l := snap.Get(long)
	s := snap.Get(short)
	if l == nil || s == nil {
		return 0, false
	}
	return l.Current - s.Current, true
}

// Classify maps a primary-spread value onto a curve shape.
func Classify(spread float64) models.CurveShape {
	switch {
	case spread < 0:
		return models.ShapeInverted
	case spread < flatThreshold:
		return models.ShapeFlat
	default:
		return models.ShapeNormal
	}
}

// PrimarySpread returns the 10Y-2Y spread and its classification.
// ok is false when either maturity is absent from the snapshot.
func PrimarySpread(snap *models.SnapshotStats) (float64, models.CurveShape, bool) {
	spread, ok := SpreadBetween(snap, SpreadLong, SpreadShort)
	if !ok {
		return 0, models.ShapeUnknown, false
	}
	return spread, Classify(spread), true
}

// BuildSummary constructs the one-row daily summary from a snapshot.
// When a primary-spread leg is missing the status records N/A and the spread
// stays nil, leaving its CSV cell empty.
func BuildSummary(snap *models.SnapshotStats) *models.SummaryRecord {
	rec := &models.SummaryRecord{
		Date:            snap.Date,
		InversionStatus: models.ShapeUnknown,
		Yields:          make(map[models.Maturity]float64, len(snap.Maturities)),
	}
	if spread, shape, ok := PrimarySpread(snap); ok {
		rec.InversionStatus = shape
		rec.Spread = &spread
	}
	for _, m := range snap.Maturities {
		rec.Yields[m] = snap.Stats[m].Current
	}
	return rec
}

// --- Helpers ---

// presentValues filters out missing (NaN) cells.
func presentValues(col []float64) []float64 {
	out := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func maxOf(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func minOf(values []float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
