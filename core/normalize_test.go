package core

import (
	"testing"

	"github.com/churnlab/churnscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNormalizeMissingColumns ensures absent required columns fail the call.
func TestNormalizeMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		missing []string
	}{
		{
			name:    "no columns at all",
			columns: nil,
			missing: []string{"Name", "Purchases", "Total_Value", "Visits"},
		},
		{
			name:    "one missing",
			columns: []string{"Name", "Purchases", "Total_Value"},
			missing: []string{"Visits"},
		},
		{
			name:    "case mismatch is missing",
			columns: []string{"name", "purchases", "total_value", "visits"},
			missing: []string{"Name", "Purchases", "Total_Value", "Visits"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Normalize(schema.RawTable{Columns: tt.columns})
			require.Error(t, err)

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.missing, schemaErr.Missing)
		})
	}
}

// TestNormalizeCoercion checks lenient cell coercion and warning emission.
func TestNormalizeCoercion(t *testing.T) {
	table := schema.RawTable{
		Columns: []string{"Name", "Purchases", "Total_Value", "Visits", "Notes"},
		Rows: []map[string]string{
			{"Name": "Alice", "Purchases": "5", "Total_Value": "1200.50", "Visits": "12", "Notes": "vip"},
			{"Name": "Bob", "Purchases": "abc", "Total_Value": "", "Visits": " 3 "},
			{"Name": "Carol", "Purchases": "-2", "Total_Value": "-50", "Visits": "0"},
			{"Name": "Dan", "Purchases": "2.9", "Total_Value": "10", "Visits": "1"},
		},
	}

	records, warnings, err := Normalize(table)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, schema.CustomerRecord{Name: "Alice", Purchases: 5, TotalValue: 1200.50, Visits: 12}, records[0])

	// Unparseable and empty cells default to zero; padded numbers still parse.
	assert.Equal(t, 0, records[1].Purchases)
	assert.Equal(t, 0.0, records[1].TotalValue)
	assert.Equal(t, 3, records[1].Visits)

	// Negatives clamp to zero.
	assert.Equal(t, 0, records[2].Purchases)
	assert.Equal(t, 0.0, records[2].TotalValue)

	// Fractional purchase counts truncate.
	assert.Equal(t, 2, records[3].Purchases)

	assert.Equal(t, []schema.CoercionWarning{
		{Row: 1, Column: "Purchases", Value: "abc"},
		{Row: 1, Column: "Total_Value", Value: ""},
		{Row: 2, Column: "Purchases", Value: "-2"},
		{Row: 2, Column: "Total_Value", Value: "-50"},
	}, warnings)
}

// TestNormalizeEmptyTable ensures a valid header with no rows yields no records.
func TestNormalizeEmptyTable(t *testing.T) {
	records, warnings, err := Normalize(schema.RawTable{Columns: schema.RequiredColumns})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, warnings)
}
