package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churnlab/churnscope/schema"
)

func testExportSnapshots() []schema.AnalysisSnapshot {
	return []schema.AnalysisSnapshot{
		{
			ID: 1, Owner: "weekly", CreatedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
			TotalCustomers: 2, HighRiskCount: 1, LowRiskCount: 1,
			AvgChurnProbability: 47.5, AvgCustomerValue: 600, AvgPurchases: 3,
			RevenueAtRisk: 200, PredictedFutureValue: 1068, RetentionRate: 50,
			Customers: []schema.CustomerRecord{
				{
					Name: "Alice", Purchases: 5, TotalValue: 1000, Visits: 12,
					ChurnProbabilityRF: 10, ChurnProbabilityXGB: 20, ChurnProbabilityBest: 15,
					Segment: schema.SegmentLoyal, AdvancedSegment: schema.SegmentLoyalHighValue,
					PredictedFutureValue: 1020,
				},
				{
					Name: "Bob", Purchases: 1, TotalValue: 200, Visits: 0,
					ChurnProbabilityRF: 80, ChurnProbabilityXGB: 80, ChurnProbabilityBest: 80,
					Segment: schema.SegmentAtRisk, AdvancedSegment: schema.SegmentAtHighRisk,
					PredictedFutureValue: 48,
				},
			},
		},
		// No owner, no detail rows (a list-query result).
		{
			ID: 2, CreatedAt: time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
			TotalCustomers: 1, LowRiskCount: 1, AvgChurnProbability: 12, RetentionRate: 100,
		},
	}
}

func TestSnapshotRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	pqSchema := parquet.SchemaOf(new(SnapshotRow))
	require.NotNil(t, pqSchema)

	expectedColumns := []string{
		"snapshot_id",
		"owner",
		"analysis_date",
		"total_customers",
		"high_risk_count",
		"medium_risk_count",
		"low_risk_count",
		"avg_churn_probability",
		"avg_customer_value",
		"avg_purchases",
		"revenue_at_risk",
		"predicted_future_value",
		"retention_rate",
	}

	for _, colName := range expectedColumns {
		col, ok := pqSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestCustomerRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	pqSchema := parquet.SchemaOf(new(CustomerRow))
	require.NotNil(t, pqSchema)

	expectedColumns := []string{
		"snapshot_id",
		"name",
		"purchases",
		"total_value",
		"visits",
		"churn_probability_rf",
		"churn_probability_xgb",
		"churn_probability_best",
		"segment",
		"advanced_segment",
		"predicted_future_value",
	}

	for _, colName := range expectedColumns {
		col, ok := pqSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteSnapshotsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "snapshots.parquet")

	data := ConvertSnapshots(testExportSnapshots())
	require.Len(t, data, 2)

	err := WriteSnapshotsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[SnapshotRow](file)
	defer reader.Close()

	readData := make([]SnapshotRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	assert.Equal(t, int64(1), readData[0].SnapshotID)
	require.NotNil(t, readData[0].Owner, "First snapshot has an owner")
	assert.Equal(t, "weekly", *readData[0].Owner)
	assert.WithinDuration(t, data[0].AnalysisDate, readData[0].AnalysisDate, time.Nanosecond)
	assert.InDelta(t, 47.5, readData[0].AvgChurnProbability, 0.001)

	assert.Equal(t, int64(2), readData[1].SnapshotID)
	assert.Nil(t, readData[1].Owner, "Ownerless snapshot should read back nil")
}

func TestWriteCustomersParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "customers.parquet")

	data := ConvertCustomers(testExportSnapshots())
	require.Len(t, data, 2, "Only the detailed snapshot contributes rows")

	err := WriteCustomersParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[CustomerRow](file)
	defer reader.Close()

	readData := make([]CustomerRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	assert.Equal(t, "Alice", readData[0].Name)
	assert.Equal(t, int64(1), readData[0].SnapshotID)
	assert.InDelta(t, 15, readData[0].ChurnProbabilityBest, 0.001)
	assert.Equal(t, string(schema.SegmentLoyalHighValue), readData[0].AdvancedSegment)

	assert.Equal(t, "Bob", readData[1].Name)
	assert.InDelta(t, 80, readData[1].ChurnProbabilityBest, 0.001)
}

func TestWriteSnapshotsParquet_EmptyData(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_snapshots.parquet")

	err := WriteSnapshotsParquet([]SnapshotRow{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteCustomersParquet_InvalidPath(t *testing.T) {
	data := ConvertCustomers(testExportSnapshots())
	err := WriteCustomersParquet(data, "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}

func TestConvertSnapshots(t *testing.T) {
	rows := ConvertSnapshots(testExportSnapshots())
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].Owner)
	assert.Equal(t, "weekly", *rows[0].Owner)
	assert.Equal(t, int32(2), rows[0].TotalCustomers)
	assert.Equal(t, int32(1), rows[0].HighRiskCount)

	assert.Nil(t, rows[1].Owner, "Empty owner maps to nil")
}

func TestConvertCustomers(t *testing.T) {
	rows := ConvertCustomers(testExportSnapshots())
	require.Len(t, rows, 2)

	for _, r := range rows {
		assert.Equal(t, int64(1), r.SnapshotID, "All detail rows come from snapshot 1")
	}
	assert.Equal(t, int32(5), rows[0].Purchases)
	assert.Equal(t, int32(0), rows[1].Visits)
}
