package summary

// MetricStats is the extended statistics row for one metric.
type MetricStats struct {
	Metric string  `json:"metric"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Best   float64 `json:"best"`
	Worst  float64 `json:"worst"`
	CILow  float64 `json:"ci_low"`
	CIHigh float64 `json:"ci_high"`
}

// Summary holds the statistics in selection order.
type Summary struct {
	Metrics []MetricStats `json:"metrics"`
}

// Lookup returns the statistics for metric.
func (s *Summary) Lookup(metric string) (MetricStats, bool) {
	for _, m := range s.Metrics {
		if m.Metric == metric {
			return m, true
		}
	}
	return MetricStats{}, false
}
