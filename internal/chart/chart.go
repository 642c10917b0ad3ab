// Package chart renders comparison charts of a subject's values against a
// reference as PNG images.
package chart

import (
	"bytes"
	"fmt"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"github.com/Maikl76/Aplikace-data/internal/cache"
	"github.com/Maikl76/Aplikace-data/pkg/models"
)

// Default canvas size, 3:2 like the report image slot.
const (
	DefaultWidth  = 900
	DefaultHeight = 600
	DefaultDPI    = 96
)

var (
	currentColor   = drawing.ColorFromHex("1f77b4")
	referenceColor = drawing.ColorFromHex("ff7f0e")
)

// Renderer draws comparison charts.
type Renderer struct {
	width  int
	height int
	dpi    float64
	cache  *cache.Cache
	logger *zap.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithDPI sets the rendering resolution.
func WithDPI(dpi float64) Option {
	return func(r *Renderer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

// WithCache reuses previously rendered images.
func WithCache(c *cache.Cache) Option {
	return func(r *Renderer) {
		r.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// New creates a renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		width:  DefaultWidth,
		height: DefaultHeight,
		dpi:    DefaultDPI,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws the chart and returns PNG bytes. An unknown style is logged
// and drawn as grouped bars.
func (r *Renderer) Render(req Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	style, ok := ParseStyle(req.Style)
	if !ok {
		r.logger.Warn("unknown chart style, using bar", zap.String("style", req.Style), zap.String("title", req.Title))
		style = StyleBar
	}

	key := r.cacheKey(style, req)
	if data, ok := r.cache.Get(key); ok {
		r.logger.Debug("chart cache hit", zap.String("title", req.Title))
		return data, nil
	}

	ch := r.build(style, req)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart %q: %w", req.Title, err)
	}
	data := buf.Bytes()
	r.logger.Debug("chart rendered",
		zap.String("title", req.Title),
		zap.String("style", string(style)),
		zap.Int("bytes", len(data)))

	if err := r.cache.Set(key, data); err != nil {
		r.logger.Warn("chart cache write failed", zap.Error(err))
	}
	return data, nil
}

func (r *Renderer) cacheKey(style Style, req Request) string {
	parts := []string{
		string(style), req.Title, req.CurrentLabel, req.ReferenceLabel,
		strconv.Itoa(r.width), strconv.Itoa(r.height), strconv.FormatFloat(r.dpi, 'g', -1, 64),
	}
	for i, l := range req.Labels {
		parts = append(parts, l,
			strconv.FormatFloat(req.Current[i], 'g', -1, 64),
			strconv.FormatFloat(req.Reference[i], 'g', -1, 64))
	}
	return cache.Key(parts...)
}

func (r *Renderer) build(style Style, req Request) chart.Chart {
	n := len(req.Labels)
	currentName := orDefault(req.CurrentLabel, "Current")
	referenceName := orDefault(req.ReferenceLabel, "Reference")

	var series []chart.Series
	var currentX, referenceX []float64
	switch style {
	case StyleLine, StyleScatter:
		xs := positions(n, 0)
		currentX, referenceX = xs, xs
		series = append(series,
			pointSeries(currentName, xs, req.Current, currentColor, style),
			pointSeries(referenceName, xs, req.Reference, referenceColor, style),
		)
	default:
		const width = 0.38
		currentX, referenceX = positions(n, -0.2), positions(n, 0.2)
		series = append(series,
			barSeries{name: currentName, values: req.Current, offset: -0.2, width: width, style: barStyle(currentColor)},
			barSeries{name: referenceName, values: req.Reference, offset: 0.2, width: width, style: barStyle(referenceColor)},
		)
	}
	series = append(series, annotations(currentX, req.Current), annotations(referenceX, req.Reference))

	// The x range follows the outermost ticks, so blank ticks pad both ends.
	ticks := make([]chart.Tick, 0, n+2)
	ticks = append(ticks, chart.Tick{Value: -0.6})
	for i, l := range req.Labels {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: l})
	}
	ticks = append(ticks, chart.Tick{Value: float64(n) - 0.4})

	lo, hi := valueRange(req.Current, req.Reference)
	ch := chart.Chart{
		Title:  req.Title,
		Width:  r.width,
		Height: r.height,
		DPI:    r.dpi,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Ticks:     ticks,
			Range:     &chart.ContinuousRange{Min: -0.6, Max: float64(n) - 0.4},
			TickStyle: chart.Style{TextRotationDegrees: 45},
		},
		YAxis: chart.YAxis{
			Name:  "Value",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

func barStyle(col drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   col.WithAlpha(220),
		StrokeColor: col,
		StrokeWidth: 1,
	}
}

func pointSeries(name string, xs, ys []float64, col drawing.Color, style Style) chart.ContinuousSeries {
	st := chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    4,
	}
	if style == StyleScatter {
		st.StrokeWidth = chart.Disabled
		st.DotWidth = 6
	}
	values := make([]float64, len(ys))
	for i, v := range ys {
		values[i] = plotted(v)
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: values, Style: st}
}

// annotations labels every point with its two-decimal value.
func annotations(xs, ys []float64) chart.AnnotationSeries {
	values := make([]chart.Value2, len(ys))
	for i, v := range ys {
		values[i] = chart.Value2{XValue: xs[i], YValue: plotted(v), Label: models.FormatFloat(v)}
	}
	return chart.AnnotationSeries{
		Annotations: values,
		Style:       chart.Style{FontSize: 8},
	}
}

func positions(n int, offset float64) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i) + offset
	}
	return xs
}

// valueRange spans zero and every finite value, with headroom for the
// value labels. A flat range is widened so the axis stays drawable.
func valueRange(series ...[]float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, s := range series {
		for _, v := range s {
			v = plotted(v)
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	span := hi - lo
	if span == 0 {
		return lo, lo + 1
	}
	pad := span * 0.15
	if lo < 0 {
		lo -= pad
	}
	return lo, hi + pad
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
