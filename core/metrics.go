package core

import (
	"time"

	"github.com/churnlab/churnscope/schema"
)

const (
	// assumedLifespanMonths is the customer lifespan behind the LTV estimate.
	assumedLifespanMonths = 12

	// futureValueGrowthFactor scales retained value into predicted future value.
	futureValueGrowthFactor = 1.2
)

// Aggregate computes population metrics over the scored collection and fills
// each record's predicted future value, in place. Everything is recomputed
// from scratch on every call; an empty collection yields all-zero metrics.
func Aggregate(records []schema.CustomerRecord) schema.BusinessMetrics {
	var m schema.BusinessMetrics
	total := float64(len(records))
	if total == 0 {
		return m
	}

	var repeat, buyers int
	var sumPurchases, sumValue float64
	for _, r := range records {
		if r.Purchases > 1 {
			repeat++
		}
		if r.Purchases > 0 {
			buyers++
		}
		sumPurchases += float64(r.Purchases)
		sumValue += r.TotalValue
	}

	m.RetentionRate = float64(repeat) / total * 100
	m.ConversionRate = float64(buyers) / total * 100

	// LTV keeps the documented estimator: average purchase value times average
	// purchase frequency times assumed lifespan, guarded against a population
	// that never purchased anything.
	avgPurchases := sumPurchases / total
	avgValue := sumValue / total
	if avgPurchases > 0 {
		m.LTV = (avgValue / avgPurchases) * avgPurchases * assumedLifespanMonths
	}

	for i := range records {
		pfv := records[i].TotalValue * (1 - records[i].ChurnProbabilityBest/100) * futureValueGrowthFactor
		records[i].PredictedFutureValue = pfv
		m.PredictedFutureValue += pfv
		m.TotalRevenue += records[i].TotalValue
		if records[i].ChurnProbabilityBest > schema.MediumBandMax {
			m.RevenueAtRisk += records[i].TotalValue
		}
	}

	return m
}

// BuildSnapshot assembles the immutable persisted form of one analysis run:
// risk-band counts, population averages and a copy of every record.
func BuildSnapshot(records []schema.CustomerRecord, metrics schema.BusinessMetrics, owner string, now time.Time) schema.AnalysisSnapshot {
	snap := schema.AnalysisSnapshot{
		Owner:                owner,
		CreatedAt:            now,
		TotalCustomers:       len(records),
		RevenueAtRisk:        metrics.RevenueAtRisk,
		PredictedFutureValue: metrics.PredictedFutureValue,
		RetentionRate:        metrics.RetentionRate,
	}

	if len(records) == 0 {
		return snap
	}

	var sumChurn, sumValue, sumPurchases float64
	for _, r := range records {
		switch {
		case r.ChurnProbabilityBest > schema.MediumBandMax:
			snap.HighRiskCount++
		case r.ChurnProbabilityBest > schema.LoyalBandMax:
			snap.MediumRiskCount++
		default:
			snap.LowRiskCount++
		}
		sumChurn += r.ChurnProbabilityBest
		sumValue += r.TotalValue
		sumPurchases += float64(r.Purchases)
	}

	total := float64(len(records))
	snap.AvgChurnProbability = sumChurn / total
	snap.AvgCustomerValue = sumValue / total
	snap.AvgPurchases = sumPurchases / total

	snap.Customers = make([]schema.CustomerRecord, len(records))
	copy(snap.Customers, records)
	return snap
}
