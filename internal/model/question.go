package model

import "strings"

// InputKind defines how a question is answered
type InputKind string

const (
	InputText     InputKind = "text"     // Single-line free text
	InputNumber   InputKind = "number"   // Numeric, scored through ranges
	InputEmail    InputKind = "email"    // Contact field, never scored
	InputSelect   InputKind = "select"   // Single choice (dropdown)
	InputRadio    InputKind = "radio"    // Single choice (radio group)
	InputCheckbox InputKind = "checkbox" // Multi choice
)

// Normalized lower-cases the kind so "Select" and "select" compare equal
func (k InputKind) Normalized() InputKind {
	return InputKind(strings.ToLower(strings.TrimSpace(string(k))))
}

// Known reports whether the kind is one of the supported input kinds
func (k InputKind) Known() bool {
	switch k.Normalized() {
	case InputText, InputNumber, InputEmail, InputSelect, InputRadio, InputCheckbox:
		return true
	}
	return false
}

// IsChoice reports whether answers come from a fixed option list
func (k InputKind) IsChoice() bool {
	switch k.Normalized() {
	case InputSelect, InputRadio, InputCheckbox:
		return true
	}
	return false
}

// IsMulti reports whether the answer is a set of selected options
func (k InputKind) IsMulti() bool {
	return k.Normalized() == InputCheckbox
}

// Bucket tags a question as contributing to a scoring sub-score
type Bucket string

const (
	BucketInsulation   Bucket = "insulation"
	BucketInstallation Bucket = "installation"
	BucketRenewable    Bucket = "renewable"
)

// Question is one item of the ordered questionnaire.
// Text is the display string and the identity predicates refer to;
// ID is synthetic and assigned when the questionnaire is loaded.
type Question struct {
	ID          string        `json:"id,omitempty" yaml:"id,omitempty" bson:"id"`
	Text        string        `json:"question" yaml:"question" bson:"question"`
	Kind        InputKind     `json:"inputType" yaml:"inputType" bson:"inputType"`
	Placeholder string        `json:"placeholder,omitempty" yaml:"placeholder,omitempty" bson:"placeholder,omitempty"`
	Choices     []Choice      `json:"choices,omitempty" yaml:"choices,omitempty" bson:"choices,omitempty"`
	Answers     AnswerTable   `json:"answers,omitempty" yaml:"answers,omitempty" bson:"answers,omitempty"`
	Scoring     *RangeScoring `json:"scoring,omitempty" yaml:"scoring,omitempty" bson:"scoring,omitempty"`
	ShowIf      *Visibility   `json:"showIf,omitempty" yaml:"showIf,omitempty" bson:"showIf,omitempty"`
	Metadata    *Metadata     `json:"metadata,omitempty" yaml:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Bucket returns the scoring bucket the question belongs to, if any
func (q *Question) Bucket() Bucket {
	if q.Metadata == nil {
		return ""
	}
	return Bucket(strings.ToLower(strings.TrimSpace(q.Metadata.Category)))
}

// Share returns the question's weight inside its bucket (default 1)
func (q *Question) Share() float64 {
	if q.Metadata == nil || q.Metadata.Weight == nil {
		return 1
	}
	return *q.Metadata.Weight
}

// Ranges returns the numeric scoring ranges, nil when the question has none
func (q *Question) Ranges() []ScoringRange {
	if q.Scoring == nil {
		return nil
	}
	return q.Scoring.Ranges
}

// Choice is one selectable option. An option with ShowIf is only
// offered while its predicate holds.
type Choice struct {
	Value  string      `json:"value" yaml:"value" bson:"value"`
	ShowIf *Visibility `json:"showIf,omitempty" yaml:"showIf,omitempty" bson:"showIf,omitempty"`
}

// AnswerOption is one entry of an answer table: a label mapped to a
// stored value and an optional numeric weight.
type AnswerOption struct {
	Label     string      `json:"label" yaml:"label" bson:"label"`
	Value     string      `json:"value" yaml:"value" bson:"value"`
	Weight    float64     `json:"weight" yaml:"weight" bson:"weight"`
	HasWeight bool        `json:"hasWeight" yaml:"hasWeight" bson:"hasWeight"`
	ShowIf    *Visibility `json:"showIf,omitempty" yaml:"showIf,omitempty" bson:"showIf,omitempty"`
}

// AnswerTable maps option labels to values and weights, in document order
type AnswerTable []AnswerOption

// RangeScoring holds the ordered numeric ranges of a number question
type RangeScoring struct {
	Ranges []ScoringRange `json:"ranges" yaml:"ranges" bson:"ranges"`
}

// ScoringRange is a half-open [Min, Max) interval; a nil bound is unbounded.
// Taper, when set, scales the value down logarithmically towards Max.
type ScoringRange struct {
	Min   *float64 `json:"min,omitempty" yaml:"min,omitempty" bson:"min,omitempty"`
	Max   *float64 `json:"max,omitempty" yaml:"max,omitempty" bson:"max,omitempty"`
	Value float64  `json:"value" yaml:"value" bson:"value"`
	Taper float64  `json:"taper,omitempty" yaml:"taper,omitempty" bson:"taper,omitempty"`
}

// Contains reports whether x falls inside [Min, Max)
func (r ScoringRange) Contains(x float64) bool {
	if r.Min != nil && x < *r.Min {
		return false
	}
	if r.Max != nil && x >= *r.Max {
		return false
	}
	return true
}

// Visibility is the fixed-shape predicate deciding whether a question or
// choice is shown. Question names the controlling question by display text.
type Visibility struct {
	Question     string     `json:"question" yaml:"question" bson:"question"`
	Equals       *string    `json:"equals,omitempty" yaml:"equals,omitempty" bson:"equals,omitempty"`
	NotEquals    StringList `json:"notEquals,omitempty" yaml:"notEquals,omitempty" bson:"notEquals,omitempty"`
	Contains     *string    `json:"contains,omitempty" yaml:"contains,omitempty" bson:"contains,omitempty"`
	AndQuestion  string     `json:"andQuestion,omitempty" yaml:"andQuestion,omitempty" bson:"andQuestion,omitempty"`
	AndNotEquals StringList `json:"andNotEquals,omitempty" yaml:"andNotEquals,omitempty" bson:"andNotEquals,omitempty"`
}

// StringList accepts either a single string or a list of strings
type StringList []string

// Metadata carries scoring-only annotations
type Metadata struct {
	Category   string             `json:"category,omitempty" yaml:"category,omitempty" bson:"category,omitempty"`
	Weight     *float64           `json:"weight,omitempty" yaml:"weight,omitempty" bson:"weight,omitempty"`
	YearFactor map[string]float64 `json:"yearFactor,omitempty" yaml:"yearFactor,omitempty" bson:"yearFactor,omitempty"`
}

// Float returns a pointer to v, for building ranges and weights in code
func Float(v float64) *float64 { return &v }

// String returns a pointer to v, for building predicates in code
func String(v string) *string { return &v }
