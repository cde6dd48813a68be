package core

import (
	"fmt"
	"sort"

	"github.com/churnlab/churnscope/schema"
)

// alertText is the display template for one alert code in one language.
// Messages are fmt templates; the arguments per code are fixed.
type alertText struct {
	title   string
	message string
}

// alertCatalog keys display text by language then alert code, so the check
// logic itself never branches on language.
var alertCatalog = map[schema.Language]map[schema.AlertCode]alertText{
	schema.English: {
		schema.AlertHighRiskShare: {
			title:   "High Percentage of At-Risk Customers",
			message: "%.1f%% of customers are at risk (Threshold: %g%%)",
		},
		schema.AlertInactiveCustomers: {
			title:   "Large Number of Inactive Customers",
			message: "%d inactive customers (Threshold: %g%%)",
		},
		schema.AlertRevenueAtRisk: {
			title:   "High Revenue at Risk",
			message: "$%.2f revenue at risk (Threshold: %g%%)",
		},
		schema.AlertNewCustomerShare: {
			title:   "High Concentration of New Customers",
			message: "Opportunity to improve retention strategy (Threshold: %g%%)",
		},
	},
	schema.Arabic: {
		schema.AlertHighRiskShare: {
			title:   "نسبة عالية من العملاء المعرضين للخطر",
			message: "%.1f%% من العملاء معرضون للرحيل (الحد: %g%%)",
		},
		schema.AlertInactiveCustomers: {
			title:   "عدد كبير من العملاء غير النشطين",
			message: "%d عميل غير نشط (الحد: %g%%)",
		},
		schema.AlertRevenueAtRisk: {
			title:   "إيرادات عالية معرضة للخطر",
			message: "$%.2f من الإيرادات معرضة للخطر (الحد: %g%%)",
		},
		schema.AlertNewCustomerShare: {
			title:   "تركيز عالٍ على العملاء الجدد",
			message: "فرصة لتحسين استراتيجية الاحتفاظ (الحد: %g%%)",
		},
	},
}

// GenerateAlerts evaluates the four operational checks against the scored
// dataset and returns alerts sorted by priority descending, stable within
// equal priority. Empty input returns an empty list; guards keep every check
// division-safe.
func GenerateAlerts(records []schema.CustomerRecord, metrics schema.BusinessMetrics, th schema.Thresholds, lang schema.Language) []schema.Alert {
	alerts := []schema.Alert{}
	total := len(records)
	if total == 0 {
		return alerts
	}

	var highRisk, inactive, newCustomers int
	for _, r := range records {
		if r.ChurnProbabilityBest > schema.MediumBandMax {
			highRisk++
		}
		if r.Visits == 0 {
			inactive++
		}
		if r.Purchases <= 1 {
			newCustomers++
		}
	}

	highRiskPct := float64(highRisk) / float64(total) * 100
	if highRiskPct > th.Risk {
		alerts = append(alerts, newAlert(lang, schema.AlertHighRiskShare,
			schema.DangerAlert, schema.HighPriority, highRiskPct, th.Risk))
	}

	if float64(inactive) > float64(total)*th.Inactive/100 {
		alerts = append(alerts, newAlert(lang, schema.AlertInactiveCustomers,
			schema.WarningAlert, schema.MediumPriority, inactive, th.Inactive))
	}

	if metrics.TotalRevenue > 0 && metrics.RevenueAtRisk > metrics.TotalRevenue*th.Revenue/100 {
		alerts = append(alerts, newAlert(lang, schema.AlertRevenueAtRisk,
			schema.DangerAlert, schema.HighPriority, metrics.RevenueAtRisk, th.Revenue))
	}

	if float64(newCustomers) > float64(total)*th.NewCustomer/100 {
		alerts = append(alerts, newAlert(lang, schema.AlertNewCustomerShare,
			schema.InfoAlert, schema.MediumPriority, th.NewCustomer))
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return schema.PriorityRank(alerts[i].Priority) > schema.PriorityRank(alerts[j].Priority)
	})
	return alerts
}

func newAlert(lang schema.Language, code schema.AlertCode, typ schema.AlertType, priority schema.AlertPriority, args ...any) schema.Alert {
	catalog, ok := alertCatalog[lang]
	if !ok {
		catalog = alertCatalog[schema.English]
	}
	text := catalog[code]
	return schema.Alert{
		Code:     code,
		Type:     typ,
		Title:    text.title,
		Message:  fmt.Sprintf(text.message, args...),
		Priority: priority,
	}
}
