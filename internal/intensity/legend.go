package intensity

import (
	"fmt"

	"golang.org/x/text/message"
)

// Band describes one legend entry. Max is -1 for the open-ended top band.
type Band struct {
	Tier  Tier   `json:"tier"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Color string `json:"color"`
	Label string `json:"label"`
}

// Legend returns the four intensity bands, highest first, rendered with the
// given palette and labelled through p (nil for English).
func Legend(palette Palette, p *message.Printer) []Band {
	bands := make([]Band, 0, len(tierNames))
	for _, t := range Tiers() {
		lo, hi := bounds(t)
		var rng string
		if hi < 0 {
			rng = fmt.Sprintf("%d%%+", lo)
		} else {
			rng = fmt.Sprintf("%d-%d%%", lo, hi)
		}
		bands = append(bands, Band{
			Tier:  t,
			Min:   lo,
			Max:   hi,
			Color: palette.Render(t.Color()),
			Label: fmt.Sprintf("%s (%s)", t.Label(p), rng),
		})
	}
	return bands
}

func bounds(t Tier) (lo, hi int) {
	switch t {
	case VeryHigh:
		return veryHighThreshold, -1
	case High:
		return highThreshold, veryHighThreshold - 1
	case Medium:
		return mediumThreshold, highThreshold - 1
	default:
		return 0, mediumThreshold - 1
	}
}
