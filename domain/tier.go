package domain

// Tier is a named subscription level controlling the daily credit allowance
// and which intelligence modules an account may open.
type Tier string

const (
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// UnlimitedCredits is the sentinel limit for tiers without a daily quota.
const UnlimitedCredits = -1

// TierLimits describes the entitlement attached to a tier. The catalog is
// read-only at runtime; changing it is a deployment concern.
type TierLimits struct {
	DailyCredits   int    `json:"daily_credits"`
	DisplayCredits string `json:"display_credits"`
}

var tierCatalog = map[Tier]TierLimits{
	TierPro:        {DailyCredits: 100, DisplayCredits: "100/day"},
	TierEnterprise: {DailyCredits: UnlimitedCredits, DisplayCredits: "Unlimited"},
}

// tierOrder ranks tiers for module gating; later entries unlock more.
var tierOrder = []Tier{TierPro, TierEnterprise}

// Valid reports whether the tier belongs to the closed enumeration.
func (t Tier) Valid() bool {
	_, ok := tierCatalog[t]
	return ok
}

// Limits returns the catalog entry for the tier.
func (t Tier) Limits() (TierLimits, bool) {
	limits, ok := tierCatalog[t]
	return limits, ok
}

// Rank returns the tier's position in the upgrade ladder, or -1 for
// unknown tiers.
func (t Tier) Rank() int {
	for i, tier := range tierOrder {
		if tier == t {
			return i
		}
	}
	return -1
}

// Covers reports whether an account on tier t may use a feature requiring
// the given tier.
func (t Tier) Covers(required Tier) bool {
	tr, rr := t.Rank(), required.Rank()
	if tr < 0 || rr < 0 {
		return false
	}
	return tr >= rr
}

// Tiers returns the catalog in ladder order.
func Tiers() []Tier {
	out := make([]Tier, len(tierOrder))
	copy(out, tierOrder)
	return out
}
