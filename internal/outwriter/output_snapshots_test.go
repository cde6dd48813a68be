package outwriter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churnlab/churnscope/schema"
)

func testSnapshots() []schema.AnalysisSnapshot {
	return []schema.AnalysisSnapshot{
		{
			ID: 2, Owner: "weekly", CreatedAt: time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
			TotalCustomers: 3, HighRiskCount: 1, MediumRiskCount: 1, LowRiskCount: 1,
			AvgChurnProbability: 48.3, RevenueAtRisk: 500, RetentionRate: 66.7,
		},
		{
			ID: 1, Owner: "weekly", CreatedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
			TotalCustomers: 2, LowRiskCount: 2, AvgChurnProbability: 12.0, RetentionRate: 100,
		},
	}
}

// TestWriteSnapshotTable renders the list with counts and headings.
func TestWriteSnapshotTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	require.NoError(t, writeSnapshotTable(&buf, testSnapshots(), cfg, fmtFloat, intFmt))
	out := buf.String()

	assert.Contains(t, out, "Saved Snapshots")
	assert.Contains(t, out, "weekly")
	assert.Contains(t, out, "2026-08-02 09:00")
	assert.Contains(t, out, "Showing 2 snapshots")
}

// TestWriteSnapshotCSV validates the summary CSV rows.
func TestWriteSnapshotCSV(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(1)

	require.NoError(t, writeSnapshotCSV(&buf, testSnapshots(), fmtFloat, intFmt))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, "48.3", rows[1][7])
}

// TestWriteSnapshotDetailText includes the summary block and customer rows.
func TestWriteSnapshotDetailText(t *testing.T) {
	snap := testSnapshots()[0]
	snap.Customers = []schema.CustomerRecord{
		{Name: "Bob", Purchases: 1, TotalValue: 200, ChurnProbabilityBest: 80,
			Segment: schema.SegmentAtRisk, AdvancedSegment: schema.SegmentAtHighRisk},
	}

	var buf bytes.Buffer
	cfg := testConfig()
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	require.NoError(t, writeSnapshotDetailText(&buf, snap, cfg, fmtFloat, intFmt))
	out := buf.String()

	assert.Contains(t, out, "Snapshot 2 (weekly)")
	assert.Contains(t, out, "3 customers: 1 high / 1 medium / 1 low risk")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "At High Risk")
}

// TestWriteStoreStatusText covers populated and empty stores.
func TestWriteStoreStatusText(t *testing.T) {
	var buf bytes.Buffer
	status := schema.StoreStatus{
		Backend: "sqlite", Connected: true, TotalSnapshots: 2,
		LastSnapshotID:     2,
		LastSnapshotTime:   time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
		OldestSnapshotTime: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		TableSizes:         map[string]int64{"analysis_summary": 2},
	}
	require.NoError(t, writeStoreStatusText(&buf, status))
	out := buf.String()

	assert.Contains(t, out, "Backend:   sqlite")
	assert.Contains(t, out, "Snapshots: 2")
	assert.Contains(t, out, "Last:      #2")
	assert.Contains(t, out, "Table analysis_summary: 2 rows")

	buf.Reset()
	require.NoError(t, writeStoreStatusText(&buf, schema.StoreStatus{Backend: "none"}))
	assert.NotContains(t, buf.String(), "Last:")
}
