package core

import (
	"testing"

	"github.com/churnlab/churnscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunEndToEnd exercises the full pipeline on a small messy dataset.
func TestRunEndToEnd(t *testing.T) {
	table := schema.RawTable{
		Columns: []string{"Name", "Purchases", "Total_Value", "Visits"},
		Rows: []map[string]string{
			{"Name": "Alice", "Purchases": "12", "Total_Value": "1500", "Visits": "40"},
			{"Name": "Bob", "Purchases": "0", "Total_Value": "0", "Visits": "0"},
			{"Name": "Carol", "Purchases": "oops", "Total_Value": "250", "Visits": "5"},
		},
	}

	result, err := Run(table, Options{
		Models:     ModelSet{Primary: &fixedModel{p: 0.8}},
		Thresholds: schema.DefaultThresholds(),
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 3)

	// Single present slot, so best mirrors the primary probability.
	for _, r := range result.Records {
		assert.InDelta(t, 80.0, r.ChurnProbabilityBest, 0.001)
		assert.NotEmpty(t, r.Segment)
		assert.NotEmpty(t, r.AdvancedSegment)
	}

	// Alice is VIP regardless of the high probability.
	assert.Equal(t, schema.SegmentVIP, result.Records[0].AdvancedSegment)
	assert.Equal(t, schema.SegmentAtHighRisk, result.Records[1].AdvancedSegment)

	assert.InDelta(t, 1750.0, result.Metrics.TotalRevenue, 0.001)
	assert.InDelta(t, 1750.0, result.Metrics.RevenueAtRisk, 0.001)

	// The whole population is high risk, so the risk alert fires first.
	require.NotEmpty(t, result.Alerts)
	assert.Equal(t, schema.AlertHighRiskShare, result.Alerts[0].Code)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, schema.CoercionWarning{Row: 2, Column: "Purchases", Value: "oops"}, result.Warnings[0])

	assert.Equal(t, schema.SlotServedProbability, result.Report.Primary.Status)
	assert.Equal(t, schema.SlotEnsembleMean, result.Report.Best.Status)
}

// TestRunSchemaFailure aborts without partial output.
func TestRunSchemaFailure(t *testing.T) {
	table := schema.RawTable{
		Columns: []string{"Name", "Purchases"},
		Rows:    []map[string]string{{"Name": "x", "Purchases": "1"}},
	}

	result, err := Run(table, Options{})
	assert.Nil(t, result)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"Total_Value", "Visits"}, schemaErr.Missing)
}

// TestRunEmptyDataset returns a usable zero result for a header-only table.
func TestRunEmptyDataset(t *testing.T) {
	result, err := Run(schema.RawTable{Columns: schema.RequiredColumns}, Options{
		Thresholds: schema.DefaultThresholds(),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Alerts)
	assert.Equal(t, schema.BusinessMetrics{}, result.Metrics)
}

// TestRunDefaultsLanguage falls back to English when no language is set.
func TestRunDefaultsLanguage(t *testing.T) {
	table := schema.RawTable{
		Columns: schema.RequiredColumns,
		Rows: []map[string]string{
			{"Name": "x", "Purchases": "0", "Total_Value": "100", "Visits": "0"},
		},
	}

	result, err := Run(table, Options{
		Models:     ModelSet{Primary: &fixedModel{p: 0.9}},
		Thresholds: schema.DefaultThresholds(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Alerts)
	assert.Equal(t, "High Percentage of At-Risk Customers", result.Alerts[0].Title)
}
