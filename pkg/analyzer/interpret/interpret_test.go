package interpret

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Maikl76/Aplikace-data/pkg/models"
)

func TestSentence(t *testing.T) {
	tests := []struct {
		name      string
		metric    string
		current   float64
		reference float64
		want      string
	}{
		{
			name:   "comparable below threshold",
			metric: "Sila uchopu", current: 45.05, reference: 45,
			want: "For 'Sila uchopu' the current measurement is comparable to the reference value.",
		},
		{
			name:   "comparable ignores policy",
			metric: "Telesny tuk", current: 10, reference: 10.09,
			want: "For 'Telesny tuk' the current measurement is comparable to the reference value.",
		},
		{
			name:   "higher improvement",
			metric: "Sila uchopu", current: 48.5, reference: 45,
			want: "For 'Sila uchopu' the current measurement is 3.50 higher, indicating improvement.",
		},
		{
			name:   "higher need",
			metric: "Rychlost podani", current: 150, reference: 160,
			want: "For 'Rychlost podani' the current measurement is 10.00 lower, which may indicate a need for improvement.",
		},
		{
			name:   "lower improvement",
			metric: "Telesny tuk", current: 12, reference: 15,
			want: "For 'Telesny tuk' the current measurement is 3.00 lower, indicating improvement.",
		},
		{
			name:   "lower undesirable",
			metric: "Telesny tuk", current: 18, reference: 15,
			want: "For 'Telesny tuk' the current measurement is 3.00 higher, which may be undesirable.",
		},
		{
			name:   "optimal neutral",
			metric: models.RatioIRER210, current: 1.2, reference: 1.5,
			want: "For 'IR/ER (210°/s)' the current measurement differs from the reference value by 0.30.",
		},
		{
			name:   "unknown defaults to higher",
			metric: "Skok", current: 31, reference: 30,
			want: "For 'Skok' the current measurement is 1.00 higher, indicating improvement.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sentence(tt.metric, tt.current, tt.reference))
		})
	}
}

func TestInterpretJoinsWithSpace(t *testing.T) {
	text := Interpret(
		[]string{"Sila uchopu", "Rychlost podani"},
		[]float64{48.5, 150},
		[]float64{45, 150},
	)
	parts := strings.SplitAfter(text, ". ")
	assert.Len(t, parts, 2)
	assert.True(t, strings.HasPrefix(text, "For 'Sila uchopu' the current measurement is 3.50 higher"))
	assert.True(t, strings.HasSuffix(text, "comparable to the reference value."))
}

func TestInterpretNonFinite(t *testing.T) {
	text := Interpret([]string{models.RatioIRER210}, []float64{math.Inf(1)}, []float64{2})
	assert.Equal(t, "For 'IR/ER (210°/s)' the current measurement differs from the reference value by inf.", text)
}

func TestInterpretEmpty(t *testing.T) {
	assert.Equal(t, "", Interpret(nil, nil, nil))
}
