package model

import (
	"errors"
	"fmt"
	"strings"
)

// ScoringConfig holds every constant the scoring engine uses. Questions are
// referenced by display text and resolved with the same fuzzy matching as
// visibility predicates.
type ScoringConfig struct {
	Roles          Roles             `json:"roles" yaml:"roles" bson:"roles"`
	ApartmentValue string            `json:"apartmentValue" yaml:"apartmentValue" bson:"apartmentValue"`
	Weights        Weights           `json:"weights" yaml:"weights" bson:"weights"`
	Combinations   []CombinationRule `json:"combinations" yaml:"combinations" bson:"combinations"`
	SolarBoiler    SolarBoiler       `json:"solarBoiler" yaml:"solarBoiler" bson:"solarBoiler"`
	Bonuses        []Bonus           `json:"bonuses" yaml:"bonuses" bson:"bonuses"`
	Bands          []Band            `json:"bands" yaml:"bands" bson:"bands"`
}

// Roles names the questions with a fixed part in the base score and the
// installation chain
type Roles struct {
	ConstructionYear string `json:"constructionYear" yaml:"constructionYear" bson:"constructionYear"`
	DwellingType     string `json:"dwellingType" yaml:"dwellingType" bson:"dwellingType"`
	ApartmentType    string `json:"apartmentType" yaml:"apartmentType" bson:"apartmentType"`
	Size             string `json:"size" yaml:"size" bson:"size"`
	Heating          string `json:"heating" yaml:"heating" bson:"heating"`
	Ventilation      string `json:"ventilation" yaml:"ventilation" bson:"ventilation"`
	WaterHeating     string `json:"waterHeating" yaml:"waterHeating" bson:"waterHeating"`
}

// Weights are the scalar multipliers of the four sub-scores
type Weights struct {
	Year           float64 `json:"year" yaml:"year" bson:"year"`
	Base           float64 `json:"base" yaml:"base" bson:"base"`
	Insulation     float64 `json:"insulation" yaml:"insulation" bson:"insulation"`
	Installation   float64 `json:"installation" yaml:"installation" bson:"installation"`
	Renewable      float64 `json:"renewable" yaml:"renewable" bson:"renewable"`
	InsulationNorm float64 `json:"insulationNorm" yaml:"insulationNorm" bson:"insulationNorm"`
}

// CombinationRule multiplies the installation sum when heating and
// ventilation match. An empty list matches any answer. Only the first
// matching rule applies.
type CombinationRule struct {
	Name             string   `json:"name" yaml:"name" bson:"name"`
	Heating          []string `json:"heating,omitempty" yaml:"heating,omitempty" bson:"heating,omitempty"`
	Ventilation      []string `json:"ventilation,omitempty" yaml:"ventilation,omitempty" bson:"ventilation,omitempty"`
	Factor           float64  `json:"factor" yaml:"factor" bson:"factor"`
	CoupleInsulation bool     `json:"coupleInsulation,omitempty" yaml:"coupleInsulation,omitempty" bson:"coupleInsulation,omitempty"`
}

// SolarBoiler is the flat renewable bonus for solar water heating
type SolarBoiler struct {
	Values         []string `json:"values" yaml:"values" bson:"values"`
	Points         float64  `json:"points" yaml:"points" bson:"points"`
	SynergyHeating []string `json:"synergyHeating,omitempty" yaml:"synergyHeating,omitempty" bson:"synergyHeating,omitempty"`
	SynergyFactor  float64  `json:"synergyFactor,omitempty" yaml:"synergyFactor,omitempty" bson:"synergyFactor,omitempty"`
}

// Condition holds when the named question's answer is one of In
type Condition struct {
	Question string   `json:"question" yaml:"question" bson:"question"`
	In       []string `json:"in" yaml:"in" bson:"in"`
}

// Bonus adds flat points when all its conditions hold and every bonus it
// requires has triggered
type Bonus struct {
	Name     string      `json:"name" yaml:"name" bson:"name"`
	Points   float64     `json:"points" yaml:"points" bson:"points"`
	When     []Condition `json:"when,omitempty" yaml:"when,omitempty" bson:"when,omitempty"`
	Requires []string    `json:"requires,omitempty" yaml:"requires,omitempty" bson:"requires,omitempty"`
}

// Band is one step of the label scale; a score of at least Min earns Label
type Band struct {
	Label  string  `json:"label" yaml:"label" bson:"label"`
	Min    float64 `json:"min" yaml:"min" bson:"min"`
	Colour string  `json:"colour,omitempty" yaml:"colour,omitempty" bson:"colour,omitempty"`
}

// Question texts of the bundled questionnaire
const (
	TextConstructionYear = "In welk jaar is uw woning gebouwd?"
	TextDwellingType     = "Wat voor soort woning heeft u?"
	TextApartmentType    = "Welk type appartement heeft u?"
	TextSize             = "Wat is de gebruiksoppervlakte van uw woning?"
	TextGlazing          = "Welk type glas heeft u?"
	TextRoof             = "Hoe is uw dak geïsoleerd?"
	TextWalls            = "Hoe zijn uw muren geïsoleerd?"
	TextFloor            = "Hoe is uw vloer geïsoleerd?"
	TextHeating          = "Welk type verwarming heeft u?"
	TextWaterHeating     = "Welk type warmwatervoorziening heeft u?"
	TextVentilation      = "Welk type ventilatiesysteem heeft u?"
	TextSolarPanels      = "Heeft u zonnepanelen?"
	TextExtraMeasures    = "Welke aanvullende maatregelen heeft u getroffen?"
	TextBattery          = "Heeft u een thuisbatterij?"
)

// LabelScale is the default label scale, worst to best
var LabelScale = []Band{
	{Label: "G", Min: 0, Colour: "#E64A19"},
	{Label: "F", Min: 100, Colour: "#FB8C00"},
	{Label: "E", Min: 200, Colour: "#FFB300"},
	{Label: "D", Min: 300, Colour: "#FDD835"},
	{Label: "C", Min: 400, Colour: "#9CCC65"},
	{Label: "B", Min: 500, Colour: "#7CB342"},
	{Label: "A", Min: 600, Colour: "#4CAF50"},
	{Label: "A+", Min: 800, Colour: "#43A047"},
	{Label: "A++", Min: 1000, Colour: "#388E3C"},
	{Label: "A+++", Min: 1200, Colour: "#2E7D32"},
	{Label: "A++++", Min: 1400, Colour: "#1B5E20"},
}

// DefaultScoring returns the scoring configuration of the bundled
// questionnaire. Documents that omit parts of the scoring section inherit
// these values.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		Roles: Roles{
			ConstructionYear: TextConstructionYear,
			DwellingType:     TextDwellingType,
			ApartmentType:    TextApartmentType,
			Size:             TextSize,
			Heating:          TextHeating,
			Ventilation:      TextVentilation,
			WaterHeating:     TextWaterHeating,
		},
		ApartmentValue: "Appartement",
		Weights: Weights{
			Year:           0.7,
			Base:           0.8,
			Insulation:     1.8,
			Installation:   1.6,
			Renewable:      1.2,
			InsulationNorm: 200,
		},
		Combinations: []CombinationRule{
			{
				Name:             "Warmtepomp met WTW-ventilatie",
				Heating:          []string{"Warmtepomp"},
				Ventilation:      []string{"Gebalanceerde ventilatie met WTW"},
				Factor:           1.4,
				CoupleInsulation: true,
			},
			{
				Name:             "Warmtepomp met gebalanceerde ventilatie",
				Heating:          []string{"Warmtepomp"},
				Ventilation:      []string{"Gebalanceerde ventilatie"},
				Factor:           1.25,
				CoupleInsulation: true,
			},
			{
				Name:             "Hybride warmtepomp",
				Heating:          []string{"Hybride warmtepomp"},
				Factor:           1.15,
				CoupleInsulation: true,
			},
		},
		SolarBoiler: SolarBoiler{
			Values:         []string{"Zonneboiler"},
			Points:         30,
			SynergyHeating: []string{"Warmtepomp", "Hybride warmtepomp"},
			SynergyFactor:  1.2,
		},
		Bonuses: []Bonus{
			{
				Name:   "Volledig geïsoleerd",
				Points: 50,
				When: []Condition{
					{Question: TextRoof, In: []string{"Goede isolatie"}},
					{Question: TextWalls, In: []string{"Goede isolatie"}},
					{Question: TextFloor, In: []string{"Goede isolatie"}},
				},
			},
			{
				Name:   "Warmtepomp met warmteterugwinning",
				Points: 50,
				When: []Condition{
					{Question: TextHeating, In: []string{"Warmtepomp"}},
					{Question: TextVentilation, In: []string{"Gebalanceerde ventilatie met WTW"}},
				},
			},
			{
				Name:   "Zonnepanelen met warmtepomp",
				Points: 40,
				When: []Condition{
					{Question: TextSolarPanels, In: []string{"Ja, 1 tot 5", "Ja, 6 tot 10", "Ja, 10 of meer"}},
					{Question: TextHeating, In: []string{"Warmtepomp", "Hybride warmtepomp"}},
				},
			},
			{
				Name:   "Modern glas in oudere woning",
				Points: 30,
				When: []Condition{
					{Question: TextGlazing, In: []string{"HR+ /++ /+++ glas"}},
					{Question: TextConstructionYear, In: []string{"Vóór 1945", "1945-1975"}},
				},
			},
			{
				Name:     "Compleet duurzaam pakket",
				Points:   75,
				Requires: []string{
					"Volledig geïsoleerd",
					"Warmtepomp met warmteterugwinning",
					"Zonnepanelen met warmtepomp",
					"Modern glas in oudere woning",
				},
			},
		},
		Bands: append([]Band(nil), LabelScale...),
	}
}

// Worst returns the lowest band, the label for scores below every threshold
func (c *ScoringConfig) Worst() Band {
	if len(c.Bands) == 0 {
		return Band{}
	}
	return c.Bands[0]
}

func (c *ScoringConfig) validate() []error {
	var errs []error
	if len(c.Bands) == 0 {
		errs = append(errs, errors.New("scoring: no label bands"))
	}
	for i, b := range c.Bands {
		if strings.TrimSpace(b.Label) == "" {
			errs = append(errs, fmt.Errorf("scoring: band %d has no label", i))
		}
		if i > 0 && b.Min <= c.Bands[i-1].Min {
			errs = append(errs, fmt.Errorf("scoring: band %q threshold %g not above %q", b.Label, b.Min, c.Bands[i-1].Label))
		}
	}
	for _, rule := range c.Combinations {
		if rule.Factor <= 0 {
			errs = append(errs, fmt.Errorf("scoring: combination %q has factor %g", rule.Name, rule.Factor))
		}
	}
	if c.Weights.InsulationNorm <= 0 {
		errs = append(errs, errors.New("scoring: insulationNorm must be positive"))
	}

	defined := make(map[string]bool, len(c.Bonuses))
	for _, b := range c.Bonuses {
		if b.Name == "" {
			errs = append(errs, errors.New("scoring: bonus without name"))
		}
		if len(b.When) == 0 && len(b.Requires) == 0 {
			errs = append(errs, fmt.Errorf("scoring: bonus %q has no conditions", b.Name))
		}
		for _, req := range b.Requires {
			if !defined[req] {
				errs = append(errs, fmt.Errorf("scoring: bonus %q requires %q, which is not defined before it", b.Name, req))
			}
		}
		defined[b.Name] = true
	}
	return errs
}
