package model

// LineKind classifies a breakdown line
type LineKind string

const (
	LineBase         LineKind = "base"
	LineInsulation   LineKind = "insulation"
	LineInstallation LineKind = "installation"
	LineCombination  LineKind = "combination"
	LineRenewable    LineKind = "renewable"
	LineSolarBoiler  LineKind = "solar_boiler"
	LineSynergy      LineKind = "synergy"
	LineBonus        LineKind = "bonus"
)

// Line is one structured entry of the score breakdown
type Line struct {
	Kind   LineKind `json:"kind" bson:"kind"`
	Name   string   `json:"name" bson:"name"`
	Points int      `json:"points" bson:"points"`
	Factor float64  `json:"factor,omitempty" bson:"factor,omitempty"`
}

// Result is the outcome of one evaluation
type Result struct {
	Label     string   `json:"label" bson:"label"`
	Colour    string   `json:"colour,omitempty" bson:"colour,omitempty"`
	Score     int      `json:"score" bson:"score"`
	Details   []string `json:"details" bson:"details"`
	Breakdown []Line   `json:"breakdown" bson:"breakdown"`
}

// HasBonus reports whether any combination bonus was awarded
func (r *Result) HasBonus() bool {
	for _, l := range r.Breakdown {
		if l.Kind == LineBonus {
			return true
		}
	}
	return false
}
