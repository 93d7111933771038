package domain

// Tier is the derived urgency of a ticket. It is never stored.
type Tier string

const (
	TierNone   Tier = "none"
	TierYellow Tier = "yellow"
	TierOrange Tier = "orange"
	TierRed    Tier = "red"
	TierGreen  Tier = "green"
)

var tierColors = map[Tier]string{
	TierNone:   "",
	TierYellow: "#FBEE95",
	TierOrange: "#FFD0A7",
	TierRed:    "#F26665",
	TierGreen:  "#76BC43",
}

// Color returns the row colour the dashboard paints for the tier.
func (t Tier) Color() string {
	return tierColors[t]
}

// Severity orders tiers by age-driven urgency. Green sits outside the age
// scale and reports -1.
func (t Tier) Severity() int {
	switch t {
	case TierNone:
		return 0
	case TierYellow:
		return 1
	case TierOrange:
		return 2
	case TierRed:
		return 3
	default:
		return -1
	}
}
