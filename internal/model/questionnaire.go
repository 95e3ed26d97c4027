package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Questionnaire is a complete schema: the ordered questions plus the
// scoring configuration that turns answers into a label.
type Questionnaire struct {
	ID        string        `json:"id,omitempty" yaml:"id,omitempty" bson:"_id,omitempty"`
	HostID    string        `json:"hostId,omitempty" yaml:"-" bson:"hostId,omitempty"`
	Title     string        `json:"title,omitempty" yaml:"title,omitempty" bson:"title"`
	Questions []Question    `json:"questions" yaml:"questions" bson:"questions"`
	Scoring   ScoringConfig `json:"scoring" yaml:"scoring" bson:"scoring"`
	Revision  int           `json:"revision,omitempty" yaml:"-" bson:"revision"`
	CreatedAt time.Time     `json:"createdAt,omitempty" yaml:"-" bson:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt,omitempty" yaml:"-" bson:"updatedAt"`
}

// QuestionID returns the synthetic id of the question at position i
func QuestionID(i int) string {
	return fmt.Sprintf("question_%d", i)
}

// AssignIDs gives every question without an id its positional id
func (q *Questionnaire) AssignIDs() {
	for i := range q.Questions {
		if strings.TrimSpace(q.Questions[i].ID) == "" {
			q.Questions[i].ID = QuestionID(i)
		}
	}
}

// Clone returns a copy whose question slice can be modified independently
func (q *Questionnaire) Clone() *Questionnaire {
	out := *q
	out.Questions = append([]Question(nil), q.Questions...)
	return &out
}

// Validate reports every structural problem found in the questionnaire
func (q *Questionnaire) Validate() error {
	var errs []error
	if len(q.Questions) == 0 {
		errs = append(errs, errors.New("questionnaire has no questions"))
	}

	seen := make(map[string]int, len(q.Questions))
	for i := range q.Questions {
		question := &q.Questions[i]
		where := fmt.Sprintf("question %d", i)
		if question.ID != "" {
			if prev, dup := seen[question.ID]; dup {
				errs = append(errs, fmt.Errorf("%s: id %q already used by question %d", where, question.ID, prev))
			}
			seen[question.ID] = i
		}
		errs = append(errs, question.validate(where)...)
	}

	errs = append(errs, q.Scoring.validate()...)
	return errors.Join(errs...)
}

func (q *Question) validate(where string) []error {
	var errs []error
	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, fmt.Errorf("%s: missing question text", where))
	}
	if !q.Kind.Known() {
		errs = append(errs, fmt.Errorf("%s: unknown inputType %q", where, q.Kind))
	}
	if q.Kind.IsChoice() && len(q.Choices) == 0 && len(q.Answers) == 0 {
		errs = append(errs, fmt.Errorf("%s: choice question without choices or answers", where))
	}
	for j, r := range q.Ranges() {
		if r.Min != nil && r.Max != nil && *r.Min >= *r.Max {
			errs = append(errs, fmt.Errorf("%s: range %d is empty [%g, %g)", where, j, *r.Min, *r.Max))
		}
		if r.Taper < 0 || r.Taper > 1 {
			errs = append(errs, fmt.Errorf("%s: range %d taper %g outside [0, 1]", where, j, r.Taper))
		}
	}
	if q.ShowIf != nil {
		errs = append(errs, q.ShowIf.validate(where+": showIf")...)
	}
	for _, c := range q.Choices {
		if c.ShowIf != nil {
			errs = append(errs, c.ShowIf.validate(fmt.Sprintf("%s: choice %q showIf", where, c.Value))...)
		}
	}
	for _, opt := range q.Answers {
		if opt.ShowIf != nil {
			errs = append(errs, opt.ShowIf.validate(fmt.Sprintf("%s: answer %q showIf", where, opt.Label))...)
		}
	}
	if q.Metadata != nil {
		switch q.Bucket() {
		case "", BucketInsulation, BucketInstallation, BucketRenewable:
		default:
			errs = append(errs, fmt.Errorf("%s: unknown category %q", where, q.Metadata.Category))
		}
		if q.Metadata.Weight != nil && *q.Metadata.Weight < 0 {
			errs = append(errs, fmt.Errorf("%s: negative weight", where))
		}
	}
	return errs
}

func (v *Visibility) validate(where string) []error {
	var errs []error
	if strings.TrimSpace(v.Question) == "" {
		errs = append(errs, fmt.Errorf("%s: missing question", where))
	}
	if v.Equals == nil && len(v.NotEquals) == 0 && v.Contains == nil && v.AndQuestion == "" {
		errs = append(errs, fmt.Errorf("%s: no condition", where))
	}
	if v.AndQuestion != "" && len(v.AndNotEquals) == 0 {
		errs = append(errs, fmt.Errorf("%s: andQuestion without andNotEquals", where))
	}
	if v.AndQuestion == "" && len(v.AndNotEquals) > 0 {
		errs = append(errs, fmt.Errorf("%s: andNotEquals without andQuestion", where))
	}
	return errs
}
