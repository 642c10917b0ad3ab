package models

// Raw isokinetic rotation metrics used by the derived ratios.
const (
	InternalRotationConcentric210 = "Vnitrni rotace koncentricka (210°/s)"
	ExternalRotationConcentric210 = "Vnejsi rotace koncentricka (210°/s)"
	InternalRotationEccentric210  = "Vnitrni rotace excentricka (210°/s)"
	ExternalRotationEccentric210  = "Vnejsi rotace excentricka (210°/s)"
	InternalRotationConcentric300 = "Vnitrni rotace koncentricka (300°/s)"
	ExternalRotationConcentric300 = "Vnejsi rotace koncentricka (300°/s)"
	InternalRotationEccentric300  = "Vnitrni rotace excentricka (300°/s)"
	ExternalRotationEccentric300  = "Vnejsi rotace excentricka (300°/s)"
)

// Derived ratio metrics.
const (
	RatioIRER210 = "IR/ER (210°/s)"
	RatioIRER300 = "IR/ER (300°/s)"
)

// Direction is the desired direction of change for a metric.
type Direction string

const (
	DirectionHigher  Direction = "higher"
	DirectionLower   Direction = "lower"
	DirectionOptimal Direction = "optimal" // closer to the reference is better
)

// String implements fmt.Stringer.
func (d Direction) String() string { return string(d) }

// MetricGroup is a fixed bundle of metrics sharing one chart and legend.
type MetricGroup struct {
	Name    string   `json:"name"`
	Metrics []string `json:"metrics"`
	// Chart is a stable slug for the group's chart (cache keys, HTML anchors).
	Chart string `json:"chart"`
}

// MetricGroups lists the predefined chart groups in report order.
var MetricGroups = []MetricGroup{
	{
		Name:    "IR/ER ratio",
		Metrics: []string{RatioIRER210, RatioIRER300},
		Chart:   "ir_er_ratio",
	},
	{
		Name: "Body composition",
		Metrics: []string{
			"Dominantni paze",
			"Dominantni paze - beztukova",
			"Dominantni noha",
			"Dominantni noha - beztukova",
			"Trupova hmotnost",
			"Trup - betukovy",
			"Beztukova hmota",
		},
		Chart: "body_composition",
	},
	{
		Name:    "Grip strength and serve speed",
		Metrics: []string{"Sila uchopu", "Rychlost podani"},
		Chart:   "grip_speed",
	},
	{
		Name: "Internal/external rotation (210°/s)",
		Metrics: []string{
			InternalRotationConcentric210,
			ExternalRotationConcentric210,
			InternalRotationEccentric210,
			ExternalRotationEccentric210,
		},
		Chart: "rotation_210",
	},
	{
		Name: "Internal/external rotation (300°/s)",
		Metrics: []string{
			InternalRotationConcentric300,
			ExternalRotationConcentric300,
			InternalRotationEccentric300,
			ExternalRotationEccentric300,
		},
		Chart: "rotation_300",
	},
}

// GroupByName looks up a predefined group.
func GroupByName(name string) (MetricGroup, bool) {
	for _, g := range MetricGroups {
		if g.Name == name {
			return g, true
		}
	}
	return MetricGroup{}, false
}

// GroupNames returns the names of all predefined groups in report order.
func GroupNames() []string {
	names := make([]string, len(MetricGroups))
	for i, g := range MetricGroups {
		names[i] = g.Name
	}
	return names
}

// Legends holds the static description printed under charts.
var Legends = map[string]string{
	RatioIRER210:                  "Ratio of internal to external shoulder rotation at 210°/s.",
	RatioIRER300:                  "Ratio of internal to external shoulder rotation at 300°/s.",
	"Dominantni paze":             "Strength/size of the dominant arm.",
	"Dominantni paze - beztukova": "Lean mass of the dominant arm.",
	"Dominantni noha":             "Strength/size of the dominant leg.",
	"Dominantni noha - beztukova": "Lean mass of the dominant leg.",
	"Trupova hmotnost":            "Total trunk mass.",
	"Trup - betukovy":             "Trunk mass without the fat component.",
	"Beztukova hmota":             "Total lean body mass.",
	"Sila uchopu":                 "Grip strength, important for racket control.",
	"Rychlost podani":             "Serve speed, key for match performance.",
	InternalRotationConcentric210: "Isokinetic strength of internal shoulder rotation, 210°/s.",
	ExternalRotationConcentric210: "Isokinetic strength of external shoulder rotation, 210°/s.",
	InternalRotationEccentric210:  "Isokinetic strength of internal shoulder rotation, 210°/s.",
	ExternalRotationEccentric210:  "Isokinetic strength of external shoulder rotation, 210°/s.",
	InternalRotationConcentric300: "Isokinetic strength of internal shoulder rotation, 300°/s.",
	ExternalRotationConcentric300: "Isokinetic strength of external shoulder rotation, 300°/s.",
	InternalRotationEccentric300:  "Isokinetic strength of internal shoulder rotation, 300°/s.",
	ExternalRotationEccentric300:  "Isokinetic strength of external shoulder rotation, 300°/s.",
}

// Directions is the desired-direction policy per metric.
var Directions = map[string]Direction{
	InternalRotationConcentric210: DirectionHigher,
	ExternalRotationConcentric210: DirectionHigher,
	InternalRotationEccentric210:  DirectionHigher,
	ExternalRotationEccentric210:  DirectionHigher,
	InternalRotationConcentric300: DirectionHigher,
	ExternalRotationConcentric300: DirectionHigher,
	InternalRotationEccentric300:  DirectionHigher,
	ExternalRotationEccentric300:  DirectionHigher,
	"Rychlost podani":             DirectionHigher,
	"Sila uchopu":                 DirectionHigher,
	"Dominantni paze":             DirectionHigher,
	"Dominantni noha":             DirectionHigher,
	"Trupova hmotnost":            DirectionOptimal,
	"Telesny tuk":                 DirectionLower,
	"Dominantni paze - beztukova": DirectionHigher,
	"Dominantni noha - beztukova": DirectionHigher,
	"Trup - betukovy":             DirectionOptimal,
	"Beztukova hmota":             DirectionHigher,
	RatioIRER210:                  DirectionOptimal,
	RatioIRER300:                  DirectionOptimal,
}

// DirectionOf returns the metric's policy, defaulting to DirectionHigher.
func DirectionOf(metric string) Direction {
	if d, ok := Directions[metric]; ok {
		return d
	}
	return DirectionHigher
}
