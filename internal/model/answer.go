package model

import "strings"

// Answer is the value given to one question: a single string for text,
// number, email and single-choice questions, or a set of strings for
// multi-choice questions. The zero value is the unanswered state.
type Answer struct {
	Value  string   `bson:"value,omitempty"`
	Values []string `bson:"values,omitempty"`
	Multi  bool     `bson:"multi,omitempty"`
}

// Text builds a single-value answer
func Text(v string) Answer {
	return Answer{Value: v}
}

// Selection builds a multi-choice answer; duplicates are dropped
func Selection(values ...string) Answer {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return Answer{Values: out, Multi: true}
}

// IsEmpty reports whether the answer carries no value
func (a Answer) IsEmpty() bool {
	if a.Multi {
		return len(a.Values) == 0
	}
	return strings.TrimSpace(a.Value) == ""
}

// Scalar returns the single value of the answer. A selection with exactly
// one entry reads as that entry; any other selection reads as empty.
func (a Answer) Scalar() string {
	if !a.Multi {
		return a.Value
	}
	if len(a.Values) == 1 {
		return a.Values[0]
	}
	return ""
}

// Set returns the answer as a set of values; a non-empty scalar is a
// one-element set
func (a Answer) Set() []string {
	if a.Multi {
		return a.Values
	}
	if a.Value == "" {
		return nil
	}
	return []string{a.Value}
}

// Has reports whether v is one of the answer's values
func (a Answer) Has(v string) bool {
	for _, s := range a.Set() {
		if s == v {
			return true
		}
	}
	return false
}

// AnswerMap maps question id to answer. A missing key is the empty answer.
type AnswerMap map[string]Answer

// Get returns the answer for q, looking up its id first and its canonical
// text second
func (m AnswerMap) Get(q *Question) Answer {
	if m == nil || q == nil {
		return Answer{}
	}
	if q.ID != "" {
		if a, ok := m[q.ID]; ok {
			return a
		}
	}
	if a, ok := m[q.Text]; ok {
		return a
	}
	return Answer{}
}

// Clone returns a deep copy, used as the snapshot handed to the engine
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		if v.Values != nil {
			v.Values = append([]string(nil), v.Values...)
		}
		out[k] = v
	}
	return out
}
