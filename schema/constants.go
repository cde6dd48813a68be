package schema

// Custom string types for type safety.
type (
	// Segment is the three-band risk taxonomy driven by the best churn probability.
	Segment string

	// AdvancedSegment is the five-value taxonomy combining value, activity and risk.
	AdvancedSegment string

	// AlertType is the severity class of an alert.
	AlertType string

	// AlertPriority orders alerts for operational follow-up.
	AlertPriority string

	// AlertCode identifies an alert check independent of display language.
	AlertCode string

	// ModelSlot names a position in the scorer's model set.
	ModelSlot string

	// SlotStatus describes which tier served a model slot.
	SlotStatus string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for snapshot storage.
	DatabaseBackend string

	// Language selects the display-text catalog.
	Language string
)

// Risk band boundaries on the best churn probability. Boundary values belong
// to the lower band (x <= 30 is Loyal, x <= 70 is Medium).
const (
	LoyalBandMax  = 30.0
	MediumBandMax = 70.0
)

// All risk bands.
const (
	SegmentLoyal  Segment = "Loyal"
	SegmentMedium Segment = "Medium"
	SegmentAtRisk Segment = "At Risk"
)

// All advanced segments, in rule priority order.
const (
	SegmentVIP            AdvancedSegment = "VIP Customers"
	SegmentLoyalHighValue AdvancedSegment = "Loyal High-Value"
	SegmentAtHighRisk     AdvancedSegment = "At High Risk"
	SegmentInactiveNew    AdvancedSegment = "Inactive New"
	SegmentStandard       AdvancedSegment = "Standard"
)

// AllAdvancedSegments lists the advanced segments in rule priority order.
var AllAdvancedSegments = []AdvancedSegment{
	SegmentVIP,
	SegmentLoyalHighValue,
	SegmentAtHighRisk,
	SegmentInactiveNew,
	SegmentStandard,
}

// All alert types.
const (
	InfoAlert    AlertType = "info"
	WarningAlert AlertType = "warning"
	DangerAlert  AlertType = "danger"
)

// All alert priorities.
const (
	HighPriority   AlertPriority = "high"
	MediumPriority AlertPriority = "medium"
	LowPriority    AlertPriority = "low"
)

// All alert codes.
const (
	AlertHighRiskShare     AlertCode = "high_risk_share"
	AlertInactiveCustomers AlertCode = "inactive_customers"
	AlertRevenueAtRisk     AlertCode = "revenue_at_risk"
	AlertNewCustomerShare  AlertCode = "new_customer_share"
)

// All model slots. The primary slot fills ChurnProbabilityRF and the secondary
// slot fills ChurnProbabilityXGB; those column names are what downstream
// consumers of saved snapshots expect.
const (
	PrimarySlot   ModelSlot = "primary"
	SecondarySlot ModelSlot = "secondary"
	BestSlot      ModelSlot = "best"
)

// All slot statuses.
const (
	SlotServedProbability SlotStatus = "probability" // native probability output
	SlotServedLabel       SlotStatus = "label"       // hard labels expanded one-hot
	SlotFailed            SlotStatus = "failed"      // inference raised; zeros substituted
	SlotMissing           SlotStatus = "missing"     // no model loaded; zeros substituted
	SlotEnsembleMean      SlotStatus = "ensemble"    // best only: mean of present slots
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All snapshot backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All display languages supported.
const (
	English Language = "en" // default
	Arabic  Language = "ar"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidBackends lists all valid snapshot backends.
var ValidBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidLanguages lists all valid display languages.
var ValidLanguages = map[Language]struct{}{
	English: {},
	Arabic:  {},
}
