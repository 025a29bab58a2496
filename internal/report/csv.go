package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/seenimoa/curvewatch/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// CSV Writers — daily data archive and one-row summary
// ════════════════════════════════════════════════════════════════════

// WriteDataCSV writes the full yield table: a DATE column followed by
// one column per maturity in table order. Missing observations are
// written as empty cells. Output is deterministic for a given table.
func WriteDataCSV(table *models.YieldTable, path string) error {
	if table == nil || table.IsEmpty() {
		return fmt.Errorf("yield table is empty")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, 0, len(table.Maturities)+1)
	header = append(header, "DATE")
	for _, m := range table.Maturities {
		header = append(header, string(m))
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, len(header))
	for i, date := range table.Dates {
		row[0] = date.Format("2006-01-02")
		for j, m := range table.Maturities {
			row[j+1] = formatYield(table.Columns[m][i])
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// WriteSummaryCSV writes the one-row daily summary with a fixed column
// layout: date, inversion_status, 2Y_10Y_spread, then one {m}_yield
// column per canonical maturity. Absent values are empty cells.
func WriteSummaryCSV(rec *models.SummaryRecord, path string) error {
	if rec == nil {
		return fmt.Errorf("summary record is nil")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, 0, len(models.CanonicalMaturities)+3)
	header = append(header, "date", "inversion_status", "2Y_10Y_spread")
	for _, m := range models.CanonicalMaturities {
		header = append(header, fmt.Sprintf("%s_yield", m))
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, 0, len(header))
	row = append(row, rec.Date.Format("2006-01-02"), string(rec.InversionStatus))
	if rec.Spread != nil {
		row = append(row, formatYield(*rec.Spread))
	} else {
		row = append(row, "")
	}
	for _, m := range models.CanonicalMaturities {
		if y, ok := rec.Yields[m]; ok {
			row = append(row, formatYield(y))
		} else {
			row = append(row, "")
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}

	w.Flush()
	return w.Error()
}

// formatYield renders a value with the shortest exact decimal form, or
// an empty cell for missing observations.
func formatYield(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
