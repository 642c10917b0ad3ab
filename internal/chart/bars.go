package chart

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// barSeries draws one bar per category, shifted by offset from the category
// center so that several series can sit side by side.
type barSeries struct {
	name   string
	style  chart.Style
	values []float64
	offset float64
	width  float64
}

var _ chart.Series = barSeries{}

func (b barSeries) GetName() string { return b.name }

func (b barSeries) GetStyle() chart.Style { return b.style }

func (b barSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

func (b barSeries) center(i int) float64 { return float64(i) + b.offset }

func (b barSeries) height(i int) float64 { return plotted(b.values[i]) }

func (b barSeries) Validate() error {
	if len(b.values) == 0 {
		return fmt.Errorf("bar series %q has no values", b.name)
	}
	if b.width <= 0 {
		return fmt.Errorf("bar series %q has no width", b.name)
	}
	return nil
}

func (b barSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := b.style.InheritFrom(defaults)
	base := canvasBox.Bottom - yrange.Translate(0)
	for i := range b.values {
		left := canvasBox.Left + xrange.Translate(b.center(i)-b.width/2)
		right := canvasBox.Left + xrange.Translate(b.center(i)+b.width/2)
		top := canvasBox.Bottom - yrange.Translate(b.height(i))
		box := chart.Box{Left: left, Right: right, Top: min(top, base), Bottom: max(top, base)}
		if box.Bottom == box.Top {
			continue
		}
		chart.Draw.Box(r, box, style)
	}
}

// plotted maps non-finite values to zero; their labels still show the
// real value.
func plotted(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
