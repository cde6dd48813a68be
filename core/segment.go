package core

import (
	"github.com/churnlab/churnscope/schema"
)

// AssignSegments labels every record, in place, with its three-band risk
// segment and its advanced segment. Every record gets exactly one of each;
// empty input is a no-op.
func AssignSegments(records []schema.CustomerRecord) {
	for i := range records {
		records[i].Segment = schema.RiskBand(records[i].ChurnProbabilityBest)
		records[i].AdvancedSegment = advancedSegment(records[i])
	}
}

// advancedSegment evaluates the five rules in priority order; the first match
// wins. The order is load-bearing: a high-value, high-visit customer is VIP
// even at churn probability 80, and a zero-purchase customer only reaches the
// Inactive New rule when none of the earlier rules claimed it.
func advancedSegment(r schema.CustomerRecord) schema.AdvancedSegment {
	switch {
	case r.TotalValue > 500 && r.Visits > 20:
		return schema.SegmentVIP
	case r.TotalValue > 200 && r.ChurnProbabilityBest < 30:
		return schema.SegmentLoyalHighValue
	case r.ChurnProbabilityBest > 70:
		return schema.SegmentAtHighRisk
	case r.Purchases == 0:
		return schema.SegmentInactiveNew
	default:
		return schema.SegmentStandard
	}
}
