package ml

// Tier is the coarse risk bucket of a predicted claim cost.
type Tier string

const (
	TierLow    Tier = "LOW"
	TierMedium Tier = "MEDIUM"
	TierHigh   Tier = "HIGH"
)

const (
	HighCostThreshold   = 200000
	MediumCostThreshold = 80000
)

func TierFromCost(cost int) Tier {
	switch {
	case cost > HighCostThreshold:
		return TierHigh
	case cost > MediumCostThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

func (t Tier) String() string {
	return string(t)
}

// Advisory is the message shown next to the predicted cost.
func (t Tier) Advisory() string {
	switch t {
	case TierHigh:
		return "High claim cost risk. An in-depth expert review is recommended."
	case TierMedium:
		return "Medium claim cost to monitor."
	default:
		return "Standard claim cost estimated."
	}
}
