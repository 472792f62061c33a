// Package intensity classifies bloom intensity percentages into display tiers.
package intensity

// Tier is the discrete severity band derived from a bloom intensity.
type Tier int

// Tiers in ascending order.
const (
	Low Tier = iota
	Medium
	High
	VeryHigh
)

// Inclusive lower bounds of each band (percent of peak bloom).
const (
	veryHighThreshold = 80
	highThreshold     = 60
	mediumThreshold   = 40
)

var tierNames = [...]string{"Low", "Medium", "High", "Very High"}

// Tiers returns every tier, highest first, in legend order.
func Tiers() []Tier {
	return []Tier{VeryHigh, High, Medium, Low}
}

func (t Tier) String() string {
	if t < Low || t > VeryHigh {
		return "Unknown"
	}
	return tierNames[t]
}

// MarshalText encodes the tier as its display name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Color is a canonical, palette-independent color token.
type Color string

// Canonical color tokens, one per tier.
const (
	ColorRed    Color = "red-500"
	ColorOrange Color = "orange-500"
	ColorYellow Color = "yellow-500"
	ColorGreen  Color = "green-500"
)

// Color returns the canonical color token of the tier.
func (t Tier) Color() Color {
	switch t {
	case VeryHigh:
		return ColorRed
	case High:
		return ColorOrange
	case Medium:
		return ColorYellow
	default:
		return ColorGreen
	}
}

// Classification is the result of classifying one intensity value.
type Classification struct {
	Tier  Tier  `json:"tier"`
	Color Color `json:"color"`
}

// TierOf returns the tier for an intensity. Values outside [0,100] extend the
// outer bands: anything >= 80 is VeryHigh and anything < 40 is Low.
func TierOf(intensity int) Tier {
	switch {
	case intensity >= veryHighThreshold:
		return VeryHigh
	case intensity >= highThreshold:
		return High
	case intensity >= mediumThreshold:
		return Medium
	default:
		return Low
	}
}

// Classify maps an intensity to its tier and color token.
func Classify(intensity int) Classification {
	t := TierOf(intensity)
	return Classification{Tier: t, Color: t.Color()}
}

// InRange reports whether an intensity lies in the expected [0,100] range.
func InRange(intensity int) bool {
	return intensity >= 0 && intensity <= 100
}
