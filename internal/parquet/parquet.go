// Package parquet provides data structures and functions for exporting churn
// analysis snapshots to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/churnlab/churnscope/schema"
)

// SnapshotRow represents one saved analysis run.
// This struct maps to the analysis_summary database table.
type SnapshotRow struct {
	// SnapshotID is the unique identifier for this snapshot
	SnapshotID int64 `parquet:"snapshot_id,snappy"`

	// Owner is the label the snapshot was saved under (nullable)
	Owner *string `parquet:"owner,optional,snappy"`

	// AnalysisDate is when the analysis ran (stored as TIMESTAMP with nanosecond precision)
	AnalysisDate time.Time `parquet:"analysis_date,snappy"`

	// TotalCustomers is the number of customers in the analyzed dataset
	TotalCustomers int32 `parquet:"total_customers,snappy"`

	// HighRiskCount is the number of customers above the high-risk boundary
	HighRiskCount int32 `parquet:"high_risk_count,snappy"`

	// MediumRiskCount is the number of customers in the medium band
	MediumRiskCount int32 `parquet:"medium_risk_count,snappy"`

	// LowRiskCount is the number of customers in the low band
	LowRiskCount int32 `parquet:"low_risk_count,snappy"`

	// AvgChurnProbability is the population mean of the best churn probability
	AvgChurnProbability float64 `parquet:"avg_churn_probability,snappy"`

	// AvgCustomerValue is the population mean of total customer value
	AvgCustomerValue float64 `parquet:"avg_customer_value,snappy"`

	// AvgPurchases is the population mean purchase count
	AvgPurchases float64 `parquet:"avg_purchases,snappy"`

	// RevenueAtRisk is the total value held by high-risk customers
	RevenueAtRisk float64 `parquet:"revenue_at_risk,snappy"`

	// PredictedFutureValue is the projected retained value of the population
	PredictedFutureValue float64 `parquet:"predicted_future_value,snappy"`

	// RetentionRate is the share of repeat buyers as a percentage
	RetentionRate float64 `parquet:"retention_rate,snappy"`
}

// CustomerRow represents one analyzed customer within a snapshot.
// This struct maps to the analyzed_customers database table.
type CustomerRow struct {
	// SnapshotID references the parent snapshot
	SnapshotID int64 `parquet:"snapshot_id,snappy"`

	// Name is the customer name from the input dataset
	Name string `parquet:"name,snappy"`

	// Purchases is the customer's purchase count
	Purchases int32 `parquet:"purchases,snappy"`

	// TotalValue is the customer's total monetary value
	TotalValue float64 `parquet:"total_value,snappy"`

	// Visits is the customer's visit count
	Visits int32 `parquet:"visits,snappy"`

	// ChurnProbabilityRF is the primary model slot probability (0-100)
	ChurnProbabilityRF float64 `parquet:"churn_probability_rf,snappy"`

	// ChurnProbabilityXGB is the secondary model slot probability (0-100)
	ChurnProbabilityXGB float64 `parquet:"churn_probability_xgb,snappy"`

	// ChurnProbabilityBest is the best slot or ensemble probability (0-100)
	ChurnProbabilityBest float64 `parquet:"churn_probability_best,snappy"`

	// Segment is the three-band risk label
	Segment string `parquet:"segment,snappy"`

	// AdvancedSegment is the five-value business segment label
	AdvancedSegment string `parquet:"advanced_segment,snappy"`

	// PredictedFutureValue is the projected retained value for this customer
	PredictedFutureValue float64 `parquet:"predicted_future_value,snappy"`
}

// WriteSnapshotsParquet writes a slice of SnapshotRow structs to a Parquet file.
func WriteSnapshotsParquet(data []SnapshotRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the SnapshotRow struct tags
	writer := parquet.NewGenericWriter[SnapshotRow](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteCustomersParquet writes a slice of CustomerRow structs to a Parquet file.
func WriteCustomersParquet(data []CustomerRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the CustomerRow struct tags
	writer := parquet.NewGenericWriter[CustomerRow](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertSnapshots converts schema.AnalysisSnapshot summaries to SnapshotRow
// values for Parquet export.
func ConvertSnapshots(snaps []schema.AnalysisSnapshot) []SnapshotRow {
	result := make([]SnapshotRow, len(snaps))
	for i, s := range snaps {
		var owner *string
		if s.Owner != "" {
			o := s.Owner
			owner = &o
		}
		result[i] = SnapshotRow{
			SnapshotID:           s.ID,
			Owner:                owner,
			AnalysisDate:         s.CreatedAt,
			TotalCustomers:       int32(s.TotalCustomers),
			HighRiskCount:        int32(s.HighRiskCount),
			MediumRiskCount:      int32(s.MediumRiskCount),
			LowRiskCount:         int32(s.LowRiskCount),
			AvgChurnProbability:  s.AvgChurnProbability,
			AvgCustomerValue:     s.AvgCustomerValue,
			AvgPurchases:         s.AvgPurchases,
			RevenueAtRisk:        s.RevenueAtRisk,
			PredictedFutureValue: s.PredictedFutureValue,
			RetentionRate:        s.RetentionRate,
		}
	}
	return result
}

// ConvertCustomers flattens every snapshot's customer rows into CustomerRow
// values for Parquet export.
func ConvertCustomers(snaps []schema.AnalysisSnapshot) []CustomerRow {
	var result []CustomerRow
	for _, s := range snaps {
		for _, c := range s.Customers {
			result = append(result, CustomerRow{
				SnapshotID:           s.ID,
				Name:                 c.Name,
				Purchases:            int32(c.Purchases),
				TotalValue:           c.TotalValue,
				Visits:               int32(c.Visits),
				ChurnProbabilityRF:   c.ChurnProbabilityRF,
				ChurnProbabilityXGB:  c.ChurnProbabilityXGB,
				ChurnProbabilityBest: c.ChurnProbabilityBest,
				Segment:              string(c.Segment),
				AdvancedSegment:      string(c.AdvancedSegment),
				PredictedFutureValue: c.PredictedFutureValue,
			})
		}
	}
	return result
}
