// Package resonance turns a post's particle counters into the 0-100
// stability signal shown on the feed meter.
package resonance

// Labels for the three bands of the meter.
const (
	LabelStable   = "stable"
	LabelUnstable = "unstable"
	LabelNeutral  = "neutral"
)

// Reading is a scored snapshot of a post's counters.
type Reading struct {
	Ratio float64 `json:"ratio"`
	Label string  `json:"label"`
	Total int     `json:"total"`
}

// Score computes the stability ratio from proton and electron counts.
// Neutrons count toward Total but are abstentions: they never move the
// ratio. With no protons or electrons at all the meter sits at 50, the
// same as a perfectly balanced signal.
func Score(protons, electrons, neutrons int) Reading {
	reading := Reading{Total: protons + electrons + neutrons}

	denom := protons + electrons
	if denom == 0 {
		reading.Ratio = 50
	} else {
		reading.Ratio = float64(protons) / float64(denom) * 100
	}

	switch {
	case reading.Ratio > 60:
		reading.Label = LabelStable
	case reading.Ratio < 40:
		reading.Label = LabelUnstable
	default:
		reading.Label = LabelNeutral
	}
	return reading
}
