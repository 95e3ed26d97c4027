package engine

import (
	"strings"

	"energylabel/internal/model"

	"golang.org/x/text/cases"
)

// index maps question text to position. Predicates refer to questions by
// display text, which drifts in case and punctuation from the canonical
// text, so three lookups are tried in order.
type index struct {
	exact      map[string]int // canonical text
	folded     map[string]int // case-folded canonical text
	normalized map[string]int // case-folded, normalized canonical text
	byID       map[string]int
}

func buildIndex(questions []model.Question) index {
	idx := index{
		exact:      make(map[string]int, len(questions)),
		folded:     make(map[string]int, len(questions)),
		normalized: make(map[string]int, len(questions)),
		byID:       make(map[string]int, len(questions)),
	}
	// First occurrence wins for duplicate texts
	put := func(m map[string]int, key string, i int) {
		if _, ok := m[key]; !ok {
			m[key] = i
		}
	}
	for i, q := range questions {
		put(idx.exact, q.Text, i)
		put(idx.folded, fold(q.Text), i)
		put(idx.normalized, fold(normalize(q.Text)), i)
		put(idx.byID, q.ID, i)
	}
	return idx
}

// normalize trims whitespace and one trailing colon
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ":")
	return strings.TrimSpace(s)
}

// fold returns the case-folded form of s. A Caser keeps state, so each
// call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

func (idx index) lookup(text string) (int, bool) {
	n := normalize(text)
	if i, ok := idx.exact[n]; ok {
		return i, true
	}
	f := fold(n)
	if i, ok := idx.folded[f]; ok {
		return i, true
	}
	if i, ok := idx.normalized[f]; ok {
		return i, true
	}
	return -1, false
}

// Resolve finds the question a predicate text refers to. Not finding one
// is not an error; callers treat the reference as satisfied.
func (e *Engine) Resolve(text string) (*model.Question, int, bool) {
	i, ok := e.idx.lookup(text)
	if !ok {
		return nil, -1, false
	}
	return &e.q.Questions[i], i, true
}

// ChoiceValue maps a label or stored value of q's answer table to the
// stored value. Input that matches nothing is returned unchanged.
func ChoiceValue(q *model.Question, labelOrValue string) string {
	if opt := findOption(q, labelOrValue); opt != nil {
		return opt.Value
	}
	return labelOrValue
}

// ChoiceValue is the method form of the package function
func (e *Engine) ChoiceValue(q *model.Question, labelOrValue string) string {
	return ChoiceValue(q, labelOrValue)
}

func findOption(q *model.Question, s string) *model.AnswerOption {
	if q == nil || len(q.Answers) == 0 {
		return nil
	}
	for i := range q.Answers {
		if q.Answers[i].Label == s || q.Answers[i].Value == s {
			return &q.Answers[i]
		}
	}
	f := fold(s)
	for i := range q.Answers {
		if fold(q.Answers[i].Label) == f {
			return &q.Answers[i]
		}
	}
	return nil
}
