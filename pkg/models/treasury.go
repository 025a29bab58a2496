package models

import (
	"math"
	"sort"
	"time"
)

// --- Treasury Yield Curve ---

// Maturity is a bond term label identifying one yield series ("2Y", "10Y", ...).
type Maturity string

// TreasurySeries maps each fetched Maturity to its FRED series code.
var TreasurySeries = map[Maturity]string{
	"1Y":  "DGS1",
	"2Y":  "DGS2",
	"3Y":  "DGS3",
	"5Y":  "DGS5",
	"7Y":  "DGS7",
	"10Y": "DGS10",
	"20Y": "DGS20",
	"30Y": "DGS30",
}

// CanonicalMaturities is the display and serialization order for the curve.
var CanonicalMaturities = []Maturity{"1Y", "2Y", "3Y", "5Y", "7Y", "10Y", "20Y", "30Y"}

// MaturityYears maps a Maturity to its year fraction for x-axis placement.
// Superset of the fetched maturities so short-end series can slot in.
var MaturityYears = map[Maturity]float64{
	"1M": 1.0 / 12.0, "3M": 0.25, "6M": 0.5,
	"1Y": 1, "2Y": 2, "3Y": 3, "5Y": 5, "7Y": 7,
	"10Y": 10, "20Y": 20, "30Y": 30,
}

// SortByYears returns the maturities ordered by year fraction, shortest
// first. Labels without a known year fraction keep their relative order
// at the end.
func SortByYears(ms []Maturity) []Maturity {
	out := make([]Maturity, len(ms))
	copy(out, ms)
	sort.SliceStable(out, func(i, j int) bool {
		yi, oki := MaturityYears[out[i]]
		yj, okj := MaturityYears[out[j]]
		if oki && okj {
			return yi < yj
		}
		return oki
	})
	return out
}

// SeriesPoint represents a single dated observation of one yield series.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// YieldTable is a date-indexed table of yields, one column per Maturity.
// Dates are sorted ascending, every column has len(Dates) cells, and a cell
// is NaN when the provider reported no value for that date. Rows where every
// cell is missing are dropped at construction.
type YieldTable struct {
	Dates      []time.Time            `json:"dates"`
	Maturities []Maturity             `json:"maturities"`
	Columns    map[Maturity][]float64 `json:"columns"`
}

// BuildYieldTable merges per-maturity series into a single table.
// Column order follows CanonicalMaturities; maturities outside the canonical
// set are appended after it for forward compatibility.
func BuildYieldTable(series map[Maturity][]SeriesPoint) *YieldTable {
	t := &YieldTable{Columns: make(map[Maturity][]float64)}
	if len(series) == 0 {
		return t
	}

	for _, m := range CanonicalMaturities {
		if _, ok := series[m]; ok {
			t.Maturities = append(t.Maturities, m)
		}
	}
	var extra []Maturity
	for m := range series {
		if !containsMaturity(t.Maturities, m) {
			extra = append(extra, m)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	t.Maturities = append(t.Maturities, SortByYears(extra)...)

	// Union of observation dates across all series.
	dateSet := make(map[time.Time]struct{})
	for _, pts := range series {
		for _, p := range pts {
			dateSet[dateOnly(p.Date)] = struct{}{}
		}
	}
	for d := range dateSet {
		t.Dates = append(t.Dates, d)
	}
	sort.Slice(t.Dates, func(i, j int) bool { return t.Dates[i].Before(t.Dates[j]) })

	index := make(map[time.Time]int, len(t.Dates))
	for i, d := range t.Dates {
		index[d] = i
	}
	for _, m := range t.Maturities {
		col := make([]float64, len(t.Dates))
		for i := range col {
			col[i] = math.NaN()
		}
		for _, p := range series[m] {
			col[index[dateOnly(p.Date)]] = p.Value
		}
		t.Columns[m] = col
	}

	return t.dropEmptyRows()
}

// dropEmptyRows removes rows where every maturity cell is missing.
func (t *YieldTable) dropEmptyRows() *YieldTable {
	keep := make([]int, 0, len(t.Dates))
	for i := range t.Dates {
		for _, m := range t.Maturities {
			if !math.IsNaN(t.Columns[m][i]) {
				keep = append(keep, i)
				break
			}
		}
	}
	if len(keep) == len(t.Dates) {
		return t
	}
	out := &YieldTable{
		Dates:      make([]time.Time, len(keep)),
		Maturities: t.Maturities,
		Columns:    make(map[Maturity][]float64, len(t.Maturities)),
	}
	for _, m := range t.Maturities {
		out.Columns[m] = make([]float64, len(keep))
	}
	for j, i := range keep {
		out.Dates[j] = t.Dates[i]
		for _, m := range t.Maturities {
			out.Columns[m][j] = t.Columns[m][i]
		}
	}
	return out
}

// Len returns the number of rows (dates) in the table.
func (t *YieldTable) Len() int { return len(t.Dates) }

// IsEmpty reports whether the table has no rows or no columns.
func (t *YieldTable) IsEmpty() bool { return t == nil || len(t.Dates) == 0 || len(t.Maturities) == 0 }

// LastDate returns the most recent observation date in the table.
func (t *YieldTable) LastDate() time.Time {
	if t.IsEmpty() {
		return time.Time{}
	}
	return t.Dates[len(t.Dates)-1]
}

// Value returns the cell for maturity m at row i, with ok=false when the
// column is absent or the cell is missing.
func (t *YieldTable) Value(m Maturity, i int) (float64, bool) {
	col, ok := t.Columns[m]
	if !ok || i < 0 || i >= len(col) || math.IsNaN(col[i]) {
		return 0, false
	}
	return col[i], true
}

// Current returns the last-row yield for maturity m.
func (t *YieldTable) Current(m Maturity) (float64, bool) {
	if t.IsEmpty() {
		return 0, false
	}
	return t.Value(m, len(t.Dates)-1)
}

// Tail returns a view over the last n rows (the whole table when n exceeds it).
func (t *YieldTable) Tail(n int) *YieldTable {
	if t.IsEmpty() || n >= len(t.Dates) {
		return t
	}
	if n < 1 {
		n = 1
	}
	start := len(t.Dates) - n
	out := &YieldTable{
		Dates:      t.Dates[start:],
		Maturities: t.Maturities,
		Columns:    make(map[Maturity][]float64, len(t.Maturities)),
	}
	for _, m := range t.Maturities {
		out.Columns[m] = t.Columns[m][start:]
	}
	return out
}

func containsMaturity(list []Maturity, m Maturity) bool {
	for _, x := range list {
		if x == m {
			return true
		}
	}
	return false
}

func dateOnly(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// --- Snapshot Statistics ---

// MaturityStats holds the trailing-window statistics for one maturity.
type MaturityStats struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
	Median  float64 `json:"median"`
	Mean    float64 `json:"mean"`
}

// SnapshotStats is the per-maturity statistics snapshot for one run.
// Stats maps each maturity to an optional record; a nil entry (or absent
// key) means the maturity was not present in the table.
type SnapshotStats struct {
	Date       time.Time                   `json:"date"`
	Window     int                         `json:"window"`
	Maturities []Maturity                  `json:"maturities"`
	Stats      map[Maturity]*MaturityStats `json:"stats"`
}

// Get returns the stats record for m, or nil when the maturity is absent.
func (s *SnapshotStats) Get(m Maturity) *MaturityStats {
	if s == nil {
		return nil
	}
	return s.Stats[m]
}

// --- Curve Shape ---

// CurveShape classifies the slope of the yield curve.
type CurveShape string

const (
	ShapeInverted CurveShape = "INVERTED" // primary spread below zero
	ShapeFlat     CurveShape = "FLAT"     // primary spread in [0, 0.5)
	ShapeNormal   CurveShape = "NORMAL"   // primary spread at or above 0.5
	ShapeUnknown  CurveShape = "N/A"      // a spread leg is missing
)

// SummaryRecord is the one-row daily summary written per run.
// Spread is nil when either primary-spread leg is absent; Yields holds only
// the maturities present in the snapshot.
type SummaryRecord struct {
	Date            time.Time            `json:"date"`
	InversionStatus CurveShape           `json:"inversion_status"`
	Spread          *float64             `json:"spread,omitempty"`
	Yields          map[Maturity]float64 `json:"yields"`
}
