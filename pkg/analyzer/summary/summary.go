// Package summary computes per-metric population statistics: mean, median,
// best (max), worst (min) and a 95% empirical interval.
package summary

import (
	"math"

	"github.com/Maikl76/Aplikace-data/pkg/models"
	"github.com/Maikl76/Aplikace-data/pkg/stats"
)

// Interval percentiles.
const (
	LowPercentile  = 2.5
	HighPercentile = 97.5
)

// Summarize computes statistics for every metric of the selection that is a
// numeric column of t. A NaN anywhere in a column makes all of its
// statistics NaN. A column without values is skipped.
func Summarize(t *models.Table, metrics []string) *Summary {
	s := &Summary{}
	for _, m := range metrics {
		if !t.IsNumeric(m) {
			continue
		}
		values := t.Values(m)
		if len(values) == 0 {
			continue
		}
		s.Metrics = append(s.Metrics, Compute(m, values))
	}
	return s
}

// Compute summarizes a single series.
func Compute(metric string, values []float64) MetricStats {
	ms := MetricStats{Metric: metric, Count: len(values)}
	if stats.HasNaN(values) {
		nan := math.NaN()
		ms.Mean, ms.Median, ms.Best, ms.Worst, ms.CILow, ms.CIHigh = nan, nan, nan, nan, nan, nan
		return ms
	}
	sorted := stats.Sorted(values)
	ms.Mean = stats.Mean(values)
	ms.Median = stats.Percentile(sorted, 50)
	ms.Best = stats.Max(values)
	ms.Worst = stats.Min(values)
	ms.CILow = stats.Percentile(sorted, LowPercentile)
	ms.CIHigh = stats.Percentile(sorted, HighPercentile)
	return ms
}
