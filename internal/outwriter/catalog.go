package outwriter

import (
	"github.com/churnlab/churnscope/schema"
)

// sectionKey identifies one localized heading.
type sectionKey string

const (
	sectionCustomers sectionKey = "customers"
	sectionMetrics   sectionKey = "metrics"
	sectionAlerts    sectionKey = "alerts"
	sectionCampaigns sectionKey = "campaigns"
	sectionModels    sectionKey = "models"
	sectionSnapshots sectionKey = "snapshots"
)

// Section headings per language. Emoji prefixes are attached separately so
// --emoji=no stays clean.
var sectionCatalog = map[schema.Language]map[sectionKey]string{
	schema.English: {
		sectionCustomers: "Customers by Churn Risk",
		sectionMetrics:   "Business Metrics",
		sectionAlerts:    "Alerts",
		sectionCampaigns: "Campaign Projections",
		sectionModels:    "Model Slots",
		sectionSnapshots: "Saved Snapshots",
	},
	schema.Arabic: {
		sectionCustomers: "العملاء حسب خطر الرحيل",
		sectionMetrics:   "مؤشرات الأعمال",
		sectionAlerts:    "التنبيهات",
		sectionCampaigns: "توقعات الحملات",
		sectionModels:    "نماذج التقييم",
		sectionSnapshots: "اللقطات المحفوظة",
	},
}

// sectionEmojis prefix each heading when emojis are enabled.
var sectionEmojis = map[sectionKey]string{
	sectionCustomers: "👥",
	sectionMetrics:   "📊",
	sectionAlerts:    "🚨",
	sectionCampaigns: "🎯",
	sectionModels:    "🤖",
	sectionSnapshots: "💾",
}

// sectionTitle renders one heading for the configured language, falling back
// to English for unknown languages.
func sectionTitle(key sectionKey, lang schema.Language, useEmojis bool) string {
	catalog, ok := sectionCatalog[lang]
	if !ok {
		catalog = sectionCatalog[schema.English]
	}
	title := catalog[key]
	if useEmojis {
		return sectionEmojis[key] + " " + title
	}
	return title
}

// segmentDisplay localizes a risk band for table output.
var segmentDisplay = map[schema.Language]map[schema.Segment]string{
	schema.Arabic: {
		schema.SegmentLoyal:  "مخلص",
		schema.SegmentMedium: "متوسط",
		schema.SegmentAtRisk: "معرض للخطر",
	},
}

// displaySegment returns the localized risk band label, defaulting to the
// canonical English value.
func displaySegment(seg schema.Segment, lang schema.Language) string {
	if m, ok := segmentDisplay[lang]; ok {
		if s, ok := m[seg]; ok {
			return s
		}
	}
	return string(seg)
}
