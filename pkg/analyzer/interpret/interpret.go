// Package interpret turns paired current/reference values into short
// natural-language judgments driven by each metric's desired direction.
package interpret

import (
	"fmt"
	"math"
	"strings"

	"github.com/Maikl76/Aplikace-data/pkg/models"
)

// ComparableThreshold is the absolute difference below which two values are
// reported as comparable, whatever the metric's scale.
const ComparableThreshold = 0.1

// Sentence returns the judgment for a single metric.
func Sentence(metric string, current, reference float64) string {
	diff := current - reference
	if math.Abs(diff) < ComparableThreshold {
		return fmt.Sprintf("For '%s' the current measurement is comparable to the reference value.", metric)
	}

	abs := models.FormatFloat(math.Abs(diff))
	switch models.DirectionOf(metric) {
	case models.DirectionLower:
		if diff < 0 {
			return fmt.Sprintf("For '%s' the current measurement is %s lower, indicating improvement.", metric, abs)
		}
		return fmt.Sprintf("For '%s' the current measurement is %s higher, which may be undesirable.", metric, abs)
	case models.DirectionOptimal:
		return fmt.Sprintf("For '%s' the current measurement differs from the reference value by %s.", metric, abs)
	default:
		if diff > 0 {
			return fmt.Sprintf("For '%s' the current measurement is %s higher, indicating improvement.", metric, abs)
		}
		return fmt.Sprintf("For '%s' the current measurement is %s lower, which may indicate a need for improvement.", metric, abs)
	}
}

// Interpret judges every label against its reference and joins the
// sentences with single spaces. Labels without a matching value pair are
// ignored.
func Interpret(labels []string, current, reference []float64) string {
	n := min(len(labels), len(current), len(reference))
	sentences := make([]string, 0, n)
	for i := 0; i < n; i++ {
		sentences = append(sentences, Sentence(labels[i], current[i], reference[i]))
	}
	return strings.Join(sentences, " ")
}
