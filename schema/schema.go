// Package schema has the data model and shared constants for all parts of churnscope.
package schema

import "time"

// Required input columns, case-sensitive.
const (
	ColumnName       = "Name"
	ColumnPurchases  = "Purchases"
	ColumnTotalValue = "Total_Value"
	ColumnVisits     = "Visits"
)

// RequiredColumns lists the columns every input table must carry.
var RequiredColumns = []string{ColumnName, ColumnPurchases, ColumnTotalValue, ColumnVisits}

// RawTable is an unvalidated tabular input: a header plus string cells, exactly
// as read from a spreadsheet export. The normalizer turns it into CustomerRecords.
type RawTable struct {
	Columns []string
	Rows    []map[string]string
}

// CustomerRecord is one customer row, raw features plus everything the pipeline derives.
// Probability fields are percentages clamped to [0,100].
type CustomerRecord struct {
	Name                 string          `json:"name"`
	Purchases            int             `json:"purchases"`
	TotalValue           float64         `json:"total_value"`
	Visits               int             `json:"visits"`
	ChurnProbabilityRF   float64         `json:"churn_probability_rf"`   // primary model slot
	ChurnProbabilityXGB  float64         `json:"churn_probability_xgb"`  // secondary model slot
	ChurnProbabilityBest float64         `json:"churn_probability_best"` // best slot or ensemble mean
	Segment              Segment         `json:"segment"`
	AdvancedSegment      AdvancedSegment `json:"advanced_segment"`
	PredictedFutureValue float64         `json:"predicted_future_value"`
}

// Features holds the three model inputs for one customer.
type Features struct {
	Purchases  float64
	TotalValue float64
	Visits     float64
}

// FeaturesOf extracts the model inputs from a record.
func FeaturesOf(r CustomerRecord) Features {
	return Features{
		Purchases:  float64(r.Purchases),
		TotalValue: r.TotalValue,
		Visits:     float64(r.Visits),
	}
}

// BusinessMetrics is the population-level summary of one analysis run.
// It is created fresh per invocation and never merged across runs.
type BusinessMetrics struct {
	RetentionRate        float64 `json:"retention_rate"`  // % of customers with more than one purchase
	LTV                  float64 `json:"ltv"`             // estimated lifetime value over the assumed lifespan
	ConversionRate       float64 `json:"conversion_rate"` // % of customers with at least one purchase
	PredictedFutureValue float64 `json:"predicted_future_value"`
	RevenueAtRisk        float64 `json:"revenue_at_risk"` // total value held by high-risk customers
	TotalRevenue         float64 `json:"total_revenue"`
}

// Alert is one threshold-driven finding. Code identifies the check independent
// of display language; Title and Message are rendered from the language catalog
// at generation time.
type Alert struct {
	Code     AlertCode     `json:"code"`
	Type     AlertType     `json:"type"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Priority AlertPriority `json:"priority"`
}

// Thresholds configures the alert checks, each a percentage in [0,100].
// Passed explicitly into every call; there is no ambient threshold state.
type Thresholds struct {
	Risk        float64 `json:"risk"`
	Inactive    float64 `json:"inactive"`
	Revenue     float64 `json:"revenue"`
	NewCustomer float64 `json:"new_customer"`
}

// DefaultThresholds returns the standard alert thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Risk: 20, Inactive: 10, Revenue: 30, NewCustomer: 40}
}

// CoercionWarning records a cell that failed numeric coercion and was defaulted to zero.
type CoercionWarning struct {
	Row    int    `json:"row"` // zero-based data row index
	Column string `json:"column"`
	Value  string `json:"value"`
}

// SlotReport describes how one model slot was served.
type SlotReport struct {
	Slot   ModelSlot  `json:"slot"`
	Status SlotStatus `json:"status"`
	Detail string     `json:"detail,omitempty"` // underlying failure text for SlotFailed
}

// ScoreReport makes the scorer's fallback chain observable: one report per slot,
// so callers can tell users exactly which model tier served the result.
type ScoreReport struct {
	Primary   SlotReport `json:"primary"`
	Secondary SlotReport `json:"secondary"`
	Best      SlotReport `json:"best"`
}

// Degraded reports whether any slot fell short of a native probability output.
func (r ScoreReport) Degraded() bool {
	for _, s := range []SlotReport{r.Primary, r.Secondary, r.Best} {
		if s.Status != SlotServedProbability && s.Status != SlotEnsembleMean {
			return true
		}
	}
	return false
}

// Slots returns the per-slot reports in fixed order.
func (r ScoreReport) Slots() []SlotReport {
	return []SlotReport{r.Primary, r.Secondary, r.Best}
}

// AnalysisSnapshot is the immutable persisted result of one analysis run.
// Customers is populated on detail fetches and saves, empty on list queries.
type AnalysisSnapshot struct {
	ID                   int64            `json:"id"`
	Owner                string           `json:"owner"`
	CreatedAt            time.Time        `json:"created_at"`
	TotalCustomers       int              `json:"total_customers"`
	HighRiskCount        int              `json:"high_risk_count"`
	MediumRiskCount      int              `json:"medium_risk_count"`
	LowRiskCount         int              `json:"low_risk_count"`
	AvgChurnProbability  float64          `json:"avg_churn_probability"`
	AvgCustomerValue     float64          `json:"avg_customer_value"`
	AvgPurchases         float64          `json:"avg_purchases"`
	RevenueAtRisk        float64          `json:"revenue_at_risk"`
	PredictedFutureValue float64          `json:"predicted_future_value"`
	RetentionRate        float64          `json:"retention_rate"`
	Customers            []CustomerRecord `json:"customers,omitempty"`
}

// StoreStatus summarizes the snapshot store for diagnostics.
type StoreStatus struct {
	Backend            string           `json:"backend"`
	Connected          bool             `json:"connected"`
	TotalSnapshots     int64            `json:"total_snapshots"`
	LastSnapshotID     int64            `json:"last_snapshot_id"`
	LastSnapshotTime   time.Time        `json:"last_snapshot_time"`
	OldestSnapshotTime time.Time        `json:"oldest_snapshot_time"`
	TableSizes         map[string]int64 `json:"table_sizes"`
}
