package resonance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		protons   int
		electrons int
		neutrons  int
		ratio     float64
		label     string
	}{
		{"no signal", 0, 0, 0, 50, LabelNeutral},
		{"all protons", 10, 0, 0, 100, LabelStable},
		{"all electrons", 0, 10, 0, 0, LabelUnstable},
		{"balanced", 5, 5, 0, 50, LabelNeutral},
		{"just above stable line", 61, 39, 0, 61, LabelStable},
		{"just below unstable line", 39, 61, 0, 39, LabelUnstable},
		{"exactly 60 stays neutral", 60, 40, 0, 60, LabelNeutral},
		{"exactly 40 stays neutral", 40, 60, 0, 40, LabelNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading := Score(tt.protons, tt.electrons, tt.neutrons)
			assert.InDelta(t, tt.ratio, reading.Ratio, 1e-9)
			assert.Equal(t, tt.label, reading.Label)
		})
	}
}

func TestScore_NeutronsAreAbstentions(t *testing.T) {
	with := Score(6, 4, 25)
	without := Score(6, 4, 0)

	assert.Equal(t, without.Ratio, with.Ratio, "neutrons never move the ratio")
	assert.Equal(t, without.Label, with.Label)
	assert.Equal(t, 35, with.Total, "neutrons do count toward the total")
}

func TestScore_OnlyNeutrons(t *testing.T) {
	reading := Score(0, 0, 9)
	assert.InDelta(t, 50.0, reading.Ratio, 1e-9)
	assert.Equal(t, LabelNeutral, reading.Label)
	assert.Equal(t, 9, reading.Total)
}
