package core

import (
	"github.com/churnlab/churnscope/schema"
)

// Action is a retention play recommended for one customer.
type Action string

// All recommended actions, from most to least urgent.
const (
	ActionImmediateDiscount Action = "offer_35_discount"  // best probability > 75
	ActionRetentionCall     Action = "call_with_20_offer" // best probability > 50
	ActionUpsell            Action = "upsell"             // everyone else
)

// RecommendAction maps a customer's best churn probability to a retention play.
func RecommendAction(r schema.CustomerRecord) Action {
	switch {
	case r.ChurnProbabilityBest > 75:
		return ActionImmediateDiscount
	case r.ChurnProbabilityBest > 50:
		return ActionRetentionCall
	default:
		return ActionUpsell
	}
}

// RecommendActions returns one action per record, index-aligned with records.
func RecommendActions(records []schema.CustomerRecord) []Action {
	actions := make([]Action, len(records))
	for i, r := range records {
		actions[i] = RecommendAction(r)
	}
	return actions
}

// CampaignEstimate projects the outcome of targeting one advanced segment with
// a retention campaign.
type CampaignEstimate struct {
	Segment          schema.AdvancedSegment `json:"segment"`
	Customers        int                    `json:"customers"`
	ConversionRate   float64                `json:"conversion_rate"` // fraction in [0,1]
	ExpectedConverts float64                `json:"expected_converts"`
	AvgOrderValue    float64                `json:"avg_order_value"`
	ProjectedRevenue float64                `json:"projected_revenue"`
}

// Per-segment campaign assumptions. Segments without an entry use the
// standard baseline.
var (
	campaignConversion = map[schema.AdvancedSegment]float64{
		schema.SegmentVIP:            0.35,
		schema.SegmentLoyalHighValue: 0.25,
		schema.SegmentAtHighRisk:     0.15,
		schema.SegmentInactiveNew:    0.20,
	}
	campaignAOV = map[schema.AdvancedSegment]float64{
		schema.SegmentVIP:            500,
		schema.SegmentLoyalHighValue: 300,
		schema.SegmentAtHighRisk:     200,
		schema.SegmentInactiveNew:    150,
	}
)

const (
	baselineConversion = 0.15
	baselineAOV        = 200.0
)

// EstimateCampaigns projects campaign outcomes per advanced segment, in the
// fixed rule priority order. Segments with no customers are omitted.
func EstimateCampaigns(records []schema.CustomerRecord) []CampaignEstimate {
	counts := map[schema.AdvancedSegment]int{}
	for _, r := range records {
		counts[r.AdvancedSegment]++
	}

	estimates := []CampaignEstimate{}
	for _, seg := range schema.AllAdvancedSegments {
		n := counts[seg]
		if n == 0 {
			continue
		}
		conv, ok := campaignConversion[seg]
		if !ok {
			conv = baselineConversion
		}
		aov, ok := campaignAOV[seg]
		if !ok {
			aov = baselineAOV
		}
		converts := float64(n) * conv
		estimates = append(estimates, CampaignEstimate{
			Segment:          seg,
			Customers:        n,
			ConversionRate:   conv,
			ExpectedConverts: converts,
			AvgOrderValue:    aov,
			ProjectedRevenue: converts * aov,
		})
	}
	return estimates
}
