package schema

// PriorityRank maps an alert priority to a sortable weight (higher is more urgent).
func PriorityRank(p AlertPriority) int {
	switch p {
	case HighPriority:
		return 3
	case MediumPriority:
		return 2
	case LowPriority:
		return 1
	default:
		return 0
	}
}

// ClampPercent clamps a percentage to [0,100].
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// RiskBand maps a best churn probability to its three-band segment.
// Boundary values belong to the lower band.
func RiskBand(p float64) Segment {
	switch {
	case p <= LoyalBandMax:
		return SegmentLoyal
	case p <= MediumBandMax:
		return SegmentMedium
	default:
		return SegmentAtRisk
	}
}

// TruncateName shortens a customer name to fit a table column, keeping the
// leading runes and marking the cut with an ellipsis.
func TruncateName(name string, maxWidth int) string {
	if maxWidth <= 0 {
		return name
	}
	rr := []rune(name)
	if len(rr) <= maxWidth {
		return name
	}
	if maxWidth <= 3 {
		return string(rr[:maxWidth])
	}
	return string(rr[:maxWidth-3]) + "..."
}
