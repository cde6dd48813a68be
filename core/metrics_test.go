package core

import (
	"testing"
	"time"

	"github.com/churnlab/churnscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAggregateEmpty returns all-zero metrics without dividing by zero.
func TestAggregateEmpty(t *testing.T) {
	m := Aggregate(nil)
	assert.Equal(t, schema.BusinessMetrics{}, m)
}

// TestAggregateZeroPurchases keeps LTV at zero for a population that never bought.
func TestAggregateZeroPurchases(t *testing.T) {
	records := []schema.CustomerRecord{
		{Name: "a", Purchases: 0, TotalValue: 100},
		{Name: "b", Purchases: 0, TotalValue: 200},
	}
	m := Aggregate(records)

	assert.Equal(t, 0.0, m.LTV)
	assert.Equal(t, 0.0, m.RetentionRate)
	assert.Equal(t, 0.0, m.ConversionRate)
	assert.Equal(t, 300.0, m.TotalRevenue)
}

// TestAggregateRates pins retention and conversion definitions: retention
// counts repeat buyers, conversion counts anyone who bought at all.
func TestAggregateRates(t *testing.T) {
	records := []schema.CustomerRecord{
		{Purchases: 0},
		{Purchases: 1},
		{Purchases: 2},
		{Purchases: 5},
	}
	m := Aggregate(records)

	assert.InDelta(t, 50.0, m.RetentionRate, 0.001)
	assert.InDelta(t, 75.0, m.ConversionRate, 0.001)
	assert.GreaterOrEqual(t, m.RetentionRate, 0.0)
	assert.LessOrEqual(t, m.RetentionRate, 100.0)
}

// TestAggregateLTV checks the lifespan estimator on a concrete population.
func TestAggregateLTV(t *testing.T) {
	records := []schema.CustomerRecord{
		{Purchases: 2, TotalValue: 100},
		{Purchases: 4, TotalValue: 300},
	}
	m := Aggregate(records)

	// avg value 200 times 12 months.
	assert.InDelta(t, 2400.0, m.LTV, 0.001)
}

// TestAggregateFutureValueAndRisk fills per-record future value and sums the
// population projections, with revenue at risk restricted to high-risk customers.
func TestAggregateFutureValueAndRisk(t *testing.T) {
	records := []schema.CustomerRecord{
		{Purchases: 5, TotalValue: 1000, ChurnProbabilityBest: 10},
		{Purchases: 1, TotalValue: 500, ChurnProbabilityBest: 80},
		{Purchases: 2, TotalValue: 200, ChurnProbabilityBest: 70},
	}
	m := Aggregate(records)

	assert.InDelta(t, 1000*0.9*1.2, records[0].PredictedFutureValue, 0.001)
	assert.InDelta(t, 500*0.2*1.2, records[1].PredictedFutureValue, 0.001)
	assert.InDelta(t, 200*0.3*1.2, records[2].PredictedFutureValue, 0.001)

	expectedPFV := records[0].PredictedFutureValue + records[1].PredictedFutureValue + records[2].PredictedFutureValue
	assert.InDelta(t, expectedPFV, m.PredictedFutureValue, 0.001)

	// Only probability 80 is above the high-risk boundary; 70 sits on it.
	assert.InDelta(t, 500.0, m.RevenueAtRisk, 0.001)
	assert.InDelta(t, 1700.0, m.TotalRevenue, 0.001)
}

// TestBuildSnapshot verifies band counts, averages and the record copy.
func TestBuildSnapshot(t *testing.T) {
	records := []schema.CustomerRecord{
		{Name: "a", Purchases: 4, TotalValue: 1000, ChurnProbabilityBest: 10},
		{Name: "b", Purchases: 2, TotalValue: 500, ChurnProbabilityBest: 50},
		{Name: "c", Purchases: 0, TotalValue: 100, ChurnProbabilityBest: 90},
	}
	metrics := Aggregate(records)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	snap := BuildSnapshot(records, metrics, "weekly-run", now)

	assert.Equal(t, "weekly-run", snap.Owner)
	assert.Equal(t, now, snap.CreatedAt)
	assert.Equal(t, 3, snap.TotalCustomers)
	assert.Equal(t, 1, snap.HighRiskCount)
	assert.Equal(t, 1, snap.MediumRiskCount)
	assert.Equal(t, 1, snap.LowRiskCount)
	assert.InDelta(t, 50.0, snap.AvgChurnProbability, 0.001)
	assert.InDelta(t, 1600.0/3, snap.AvgCustomerValue, 0.001)
	assert.InDelta(t, 2.0, snap.AvgPurchases, 0.001)
	assert.Equal(t, metrics.RevenueAtRisk, snap.RevenueAtRisk)
	assert.Equal(t, metrics.RetentionRate, snap.RetentionRate)

	require.Len(t, snap.Customers, 3)
	snap.Customers[0].Name = "mutated"
	assert.Equal(t, "a", records[0].Name)
}

// TestBuildSnapshotEmpty tolerates an empty run.
func TestBuildSnapshotEmpty(t *testing.T) {
	snap := BuildSnapshot(nil, schema.BusinessMetrics{}, "", time.Now())
	assert.Zero(t, snap.TotalCustomers)
	assert.Zero(t, snap.AvgChurnProbability)
	assert.Empty(t, snap.Customers)
}
