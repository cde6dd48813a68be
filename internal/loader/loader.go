// Package loader reads customer tables from CSV files and generates sample data.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/churnlab/churnscope/schema"
)

// progressThresholdBytes is the input size above which a progress bar is shown.
const progressThresholdBytes = 1 << 20

// LoadCSV reads a customer table from a CSV file. The first row is the header;
// every cell stays a string so the normalizer can apply its lenient coercion.
// Files over a megabyte get a byte progress bar on stderr.
func LoadCSV(path string) (schema.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.RawTable{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var src io.Reader = f
	if info, err := f.Stat(); err == nil && info.Size() > progressThresholdBytes {
		bar := progressbar.DefaultBytes(info.Size(), "reading "+path)
		src = io.TeeReader(f, bar)
	}

	return ParseCSV(src)
}

// ParseCSV reads a customer table from CSV content. Rows shorter than the
// header are rejected by the csv reader; extra columns pass through untouched.
func ParseCSV(r io.Reader) (schema.RawTable, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return schema.RawTable{}, fmt.Errorf("input is empty")
	}
	if err != nil {
		return schema.RawTable{}, fmt.Errorf("failed to read header: %w", err)
	}

	table := schema.RawTable{Columns: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return schema.RawTable{}, fmt.Errorf("failed to read row %d: %w", len(table.Rows)+1, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
