package snapstore

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churnlab/churnscope/internal/contract"
	"github.com/churnlab/churnscope/schema"
)

func newTestStore(t *testing.T) contract.SnapshotStore {
	t.Helper()
	store, err := NewSnapshotStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testSnapshot(owner string, createdAt time.Time) schema.AnalysisSnapshot {
	return schema.AnalysisSnapshot{
		Owner:                owner,
		CreatedAt:            createdAt,
		TotalCustomers:       2,
		HighRiskCount:        1,
		LowRiskCount:         1,
		AvgChurnProbability:  47.5,
		AvgCustomerValue:     600,
		AvgPurchases:         3,
		RevenueAtRisk:        200,
		PredictedFutureValue: 1104,
		RetentionRate:        50,
		Customers: []schema.CustomerRecord{
			{
				Name: "Alice", Purchases: 5, TotalValue: 1000, Visits: 12,
				ChurnProbabilityRF: 10, ChurnProbabilityXGB: 20, ChurnProbabilityBest: 15,
				Segment: schema.SegmentLoyal, AdvancedSegment: schema.SegmentLoyalHighValue,
				PredictedFutureValue: 1020,
			},
			{
				Name: "Bob", Purchases: 1, TotalValue: 200, Visits: 0,
				ChurnProbabilityRF: 70, ChurnProbabilityXGB: 90, ChurnProbabilityBest: 80,
				Segment: schema.SegmentAtRisk, AdvancedSegment: schema.SegmentAtHighRisk,
				PredictedFutureValue: 48,
			},
		},
	}
}

// TestSaveAndGet round-trips a snapshot with customer details through SQLite.
func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	id, err := store.Save(testSnapshot("weekly", now))
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := store.Get(id)
	require.NoError(t, err)

	assert.Equal(t, "weekly", got.Owner)
	assert.True(t, got.CreatedAt.Equal(now))
	assert.Equal(t, 2, got.TotalCustomers)
	assert.InDelta(t, 47.5, got.AvgChurnProbability, 0.001)

	// Details come back ordered by best churn probability descending.
	require.Len(t, got.Customers, 2)
	assert.Equal(t, "Bob", got.Customers[0].Name)
	assert.Equal(t, "Alice", got.Customers[1].Name)
	assert.Equal(t, schema.SegmentAtHighRisk, got.Customers[0].AdvancedSegment)
	assert.InDelta(t, 80.0, got.Customers[0].ChurnProbabilityBest, 0.001)
}

// TestGetMissing fails on an unknown snapshot ID.
func TestGetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(999)
	assert.ErrorContains(t, err, "failed to get snapshot 999")
}

// TestList returns summaries newest first without customer details.
func TestList(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := store.Save(testSnapshot("run", base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	snaps, err := store.List("", 2)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	assert.True(t, snaps[0].CreatedAt.After(snaps[1].CreatedAt))
	assert.Empty(t, snaps[0].Customers)
}

// TestPrune keeps the most recent snapshots and removes detail rows with
// their summaries.
func TestPrune(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	var ids []int64
	for i := 0; i < 5; i++ {
		id, err := store.Save(testSnapshot("run", base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	removed, err := store.Prune("", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	snaps, err := store.List("", 10)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, ids[4], snaps[0].ID)
	assert.Equal(t, ids[3], snaps[1].ID)

	// Pruned snapshots lose their detail rows too.
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(2), status.TableSizes[summaryTable])
	assert.Equal(t, int64(4), status.TableSizes[customerTable])

	// Nothing left to prune.
	removed, err = store.Prune("", 2)
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = store.Prune("", 0)
	assert.ErrorContains(t, err, "keep must be at least 1")
}

// TestListOwnerScoped restricts the listing to one owner's snapshots.
func TestListOwnerScoped(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := store.Save(testSnapshot("alice", base))
	require.NoError(t, err)
	_, err = store.Save(testSnapshot("bob", base.Add(time.Hour)))
	require.NoError(t, err)

	snaps, err := store.List("alice", 10)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "alice", snaps[0].Owner)

	// Empty owner lists everyone.
	snaps, err = store.List("", 10)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

// TestPruneOwnerScoped never deletes another owner's snapshots.
func TestPruneOwnerScoped(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := store.Save(testSnapshot("alice", base))
	require.NoError(t, err)
	bobID, err := store.Save(testSnapshot("bob", base.Add(time.Hour)))
	require.NoError(t, err)

	// Bob has only one snapshot, so his prune removes nothing and leaves
	// Alice's history intact.
	removed, err := store.Prune("bob", 1)
	require.NoError(t, err)
	assert.Zero(t, removed)

	snaps, err := store.List("", 10)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	// A second run for Bob makes his first one prunable; Alice's still stays.
	_, err = store.Save(testSnapshot("bob", base.Add(2*time.Hour)))
	require.NoError(t, err)

	removed, err = store.Prune("bob", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	snaps, err = store.List("alice", 10)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)

	snaps, err = store.List("bob", 10)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.NotEqual(t, bobID, snaps[0].ID)
}

// TestClear removes everything.
func TestClear(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Save(testSnapshot("run", time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, store.Clear())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Zero(t, status.TotalSnapshots)
	assert.Zero(t, status.TableSizes[customerTable])
}

// TestGetStatus reports totals and the newest/oldest snapshot times.
func TestGetStatus(t *testing.T) {
	store := newTestStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalSnapshots)

	first := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	_, err = store.Save(testSnapshot("a", first))
	require.NoError(t, err)
	lastID, err := store.Save(testSnapshot("b", second))
	require.NoError(t, err)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(2), status.TotalSnapshots)
	assert.Equal(t, lastID, status.LastSnapshotID)
	assert.True(t, status.LastSnapshotTime.Equal(second))
	assert.True(t, status.OldestSnapshotTime.Equal(first))
}

// TestNoneBackend verifies the no-op store.
func TestNoneBackend(t *testing.T) {
	store, err := NewSnapshotStore(schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	id, err := store.Save(testSnapshot("x", time.Now()))
	require.NoError(t, err)
	assert.Zero(t, id)

	snaps, err := store.List("", 10)
	require.NoError(t, err)
	assert.Empty(t, snaps)

	_, err = store.Get(1)
	assert.ErrorContains(t, err, "disabled")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

// TestSaveRollsBackOnDetailFailure ensures a failed detail insert leaves no
// partial summary behind.
func TestSaveRollsBackOnDetailFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := newStoreWithDB(db, schema.SQLiteBackend)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "analysis_summary"`).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`INSERT INTO "analyzed_customers"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err = store.Save(testSnapshot("x", time.Now()))
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
