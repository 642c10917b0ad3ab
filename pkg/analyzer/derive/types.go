package derive

import "github.com/Maikl76/Aplikace-data/pkg/models"

// Ratio defines a derived metric as Numerator / Denominator.
type Ratio struct {
	Name        string `json:"name"`
	Numerator   string `json:"numerator"`
	Denominator string `json:"denominator"`
}

// Ratios are the derived metrics known to the pipeline.
var Ratios = []Ratio{
	{
		Name:        models.RatioIRER210,
		Numerator:   models.InternalRotationConcentric210,
		Denominator: models.ExternalRotationConcentric210,
	},
	{
		Name:        models.RatioIRER300,
		Numerator:   models.InternalRotationConcentric300,
		Denominator: models.ExternalRotationConcentric300,
	},
}

// RatioByName returns the definition of a derived metric.
func RatioByName(name string) (Ratio, bool) {
	for _, r := range Ratios {
		if r.Name == name {
			return r, true
		}
	}
	return Ratio{}, false
}

// IsDerived reports whether metric is computed rather than measured.
func IsDerived(metric string) bool {
	_, ok := RatioByName(metric)
	return ok
}

// Imputation records one missing value that was replaced by zero.
type Imputation struct {
	Row      int    `json:"row"`
	Identity string `json:"identity"`
	Metric   string `json:"metric"`
}
