package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/churnlab/churnscope/schema"
)

// SchemaError reports required input columns missing from the table header.
// It is fatal to the run: no partial analysis is produced.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Normalize validates the table header and coerces raw cells into typed
// customer records. Missing required columns fail the whole call with a
// SchemaError. Cells that fail numeric coercion default to zero and are
// reported as warnings rather than errors; messy spreadsheet input is
// expected. Negative feature values are clamped to zero the same way.
func Normalize(table schema.RawTable) ([]schema.CustomerRecord, []schema.CoercionWarning, error) {
	present := make(map[string]struct{}, len(table.Columns))
	for _, c := range table.Columns {
		present[c] = struct{}{}
	}

	var missing []string
	for _, c := range schema.RequiredColumns {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &SchemaError{Missing: missing}
	}

	records := make([]schema.CustomerRecord, 0, len(table.Rows))
	var warnings []schema.CoercionWarning

	for i, row := range table.Rows {
		rec := schema.CustomerRecord{Name: row[schema.ColumnName]}

		purchases, ok := coerceFloat(row[schema.ColumnPurchases])
		if !ok {
			warnings = append(warnings, warning(i, schema.ColumnPurchases, row))
		}
		totalValue, ok := coerceFloat(row[schema.ColumnTotalValue])
		if !ok {
			warnings = append(warnings, warning(i, schema.ColumnTotalValue, row))
		}
		visits, ok := coerceFloat(row[schema.ColumnVisits])
		if !ok {
			warnings = append(warnings, warning(i, schema.ColumnVisits, row))
		}

		if purchases < 0 {
			warnings = append(warnings, warning(i, schema.ColumnPurchases, row))
			purchases = 0
		}
		if totalValue < 0 {
			warnings = append(warnings, warning(i, schema.ColumnTotalValue, row))
			totalValue = 0
		}
		if visits < 0 {
			warnings = append(warnings, warning(i, schema.ColumnVisits, row))
			visits = 0
		}

		rec.Purchases = int(purchases)
		rec.TotalValue = totalValue
		rec.Visits = int(visits)
		records = append(records, rec)
	}

	return records, warnings, nil
}

// coerceFloat parses a cell leniently. Empty or unparseable cells yield 0
// with ok=false so the caller can record a warning.
func coerceFloat(cell string) (float64, bool) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func warning(row int, column string, cells map[string]string) schema.CoercionWarning {
	return schema.CoercionWarning{Row: row, Column: column, Value: cells[column]}
}
