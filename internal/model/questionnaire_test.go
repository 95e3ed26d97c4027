package model

import (
	"errors"
	"strings"
	"testing"
)

func validQuestionnaire() *Questionnaire {
	q := &Questionnaire{
		Title: "test",
		Questions: []Question{
			{Text: "Soort woning?", Kind: InputSelect, Answers: AnswerTable{{Label: "Appartement", Value: "Appartement", Weight: 30, HasWeight: true}}},
			{Text: "Oppervlakte?", Kind: InputNumber, Scoring: &RangeScoring{Ranges: []ScoringRange{{Max: Float(100), Value: 1}, {Min: Float(100), Value: 0.9}}}},
			{Text: "Type appartement?", Kind: InputRadio, Choices: []Choice{{Value: "Boven"}}, ShowIf: &Visibility{Question: "Soort woning?", Equals: String("Appartement")}},
		},
		Scoring: DefaultScoring(),
	}
	q.AssignIDs()
	return q
}

func TestAssignIDs(t *testing.T) {
	q := &Questionnaire{Questions: []Question{{Text: "a"}, {ID: "custom", Text: "b"}, {Text: "c"}}}
	q.AssignIDs()
	want := []string{"question_0", "custom", "question_2"}
	for i, id := range want {
		if q.Questions[i].ID != id {
			t.Errorf("question %d id = %q, want %q", i, q.Questions[i].ID, id)
		}
	}
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	if err := validQuestionnaire().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	q := validQuestionnaire()
	q.Questions[0].Kind = "slider"
	q.Questions[1].Scoring.Ranges[0] = ScoringRange{Min: Float(10), Max: Float(5)}
	q.Questions[2].ShowIf = &Visibility{Question: "Soort woning?"}
	q.Questions = append(q.Questions, Question{ID: "question_0", Text: "dup", Kind: InputText})
	q.Scoring.Bands = []Band{{Label: "B", Min: 10}, {Label: "A", Min: 5}}

	err := q.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{
		`unknown inputType "slider"`,
		"range 0 is empty",
		"showIf: no condition",
		`id "question_0" already used`,
		`band "A" threshold`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestValidateBonusRequiresEarlierBonus(t *testing.T) {
	q := validQuestionnaire()
	q.Scoring.Bonuses = []Bonus{
		{Name: "pakket", Points: 10, Requires: []string{"isolatie"}},
		{Name: "isolatie", Points: 5, When: []Condition{{Question: "Soort woning?", In: []string{"Appartement"}}}},
	}
	err := q.Validate()
	if err == nil || !strings.Contains(err.Error(), `requires "isolatie"`) {
		t.Fatalf("got %v, want forward reference error", err)
	}
}

func TestValidateEmpty(t *testing.T) {
	q := &Questionnaire{Scoring: DefaultScoring()}
	err := q.Validate()
	if err == nil || !strings.Contains(err.Error(), "no questions") {
		t.Fatalf("got %v", err)
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		t.Fatalf("expected a joined error, got %T", err)
	}
}

func TestRangeContainsIsHalfOpen(t *testing.T) {
	r := ScoringRange{Min: Float(0), Max: Float(100)}
	cases := []struct {
		x    float64
		want bool
	}{
		{-0.001, false},
		{0, true},
		{99.999, true},
		{100, false},
	}
	for _, c := range cases {
		if got := r.Contains(c.x); got != c.want {
			t.Errorf("Contains(%v) = %v, want %v", c.x, got, c.want)
		}
	}
	if !(ScoringRange{}).Contains(1e9) {
		t.Error("unbounded range should contain everything")
	}
}

func TestAnswerHelpers(t *testing.T) {
	sel := Selection("a", "b", "a")
	if len(sel.Values) != 2 {
		t.Errorf("duplicates not dropped: %v", sel.Values)
	}
	if sel.Scalar() != "" {
		t.Errorf("multi-entry selection scalar = %q", sel.Scalar())
	}
	if Selection("x").Scalar() != "x" {
		t.Error("single-entry selection should read as its entry")
	}
	if !Text("  ").IsEmpty() {
		t.Error("whitespace answer should be empty")
	}

	m := AnswerMap{"question_1": sel}
	c := m.Clone()
	c["question_1"].Values[0] = "changed"
	if m["question_1"].Values[0] != "a" {
		t.Error("clone shares selection storage with the original")
	}

	q := &Question{ID: "question_9", Text: "Tekst?"}
	byText := AnswerMap{"Tekst?": Text("ja")}
	if byText.Get(q).Value != "ja" {
		t.Error("lookup by canonical text failed")
	}
}
