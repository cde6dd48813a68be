package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/churnlab/churnscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseCSV reads a small table with extra columns and messy cells.
func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"Name,Purchases,Total_Value,Visits,Region",
		"Alice,5,1200.50,12,EU",
		"Bob,,abc,3,US",
	}, "\n")

	table, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Purchases", "Total_Value", "Visits", "Region"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Alice", table.Rows[0]["Name"])
	assert.Equal(t, "1200.50", table.Rows[0]["Total_Value"])
	assert.Equal(t, "abc", table.Rows[1]["Total_Value"])
	assert.Equal(t, "", table.Rows[1]["Purchases"])
}

// TestParseCSVEmpty rejects input without a header.
func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.ErrorContains(t, err, "input is empty")
}

// TestParseCSVRaggedRow rejects rows with the wrong field count.
func TestParseCSVRaggedRow(t *testing.T) {
	input := "Name,Purchases,Total_Value,Visits\nAlice,1,2\n"
	_, err := ParseCSV(strings.NewReader(input))
	assert.ErrorContains(t, err, "failed to read row 1")
}

// TestLoadCSV round-trips through a real file.
func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.csv")
	content := "Name,Purchases,Total_Value,Visits\nAlice,5,100,2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, schema.RequiredColumns, table.Columns)
	require.Len(t, table.Rows, 1)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorContains(t, err, "failed to open input file")
}

// TestWriteSample produces a parseable table with the required columns and
// values in the documented ranges; a fixed seed is reproducible.
func TestWriteSample(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, WriteSample(&first, 50, 42))
	require.NoError(t, WriteSample(&second, 50, 42))
	assert.Equal(t, first.String(), second.String())

	table, err := ParseCSV(&first)
	require.NoError(t, err)
	assert.Equal(t, schema.RequiredColumns, table.Columns)
	require.Len(t, table.Rows, 50)

	for _, row := range table.Rows {
		assert.Contains(t, row["Name"], "Customer ")
		assert.NotEmpty(t, row["Purchases"])
		assert.NotEmpty(t, row["Total_Value"])
		assert.NotEmpty(t, row["Visits"])
	}
}
