// Package engine evaluates a questionnaire: which questions are live for a
// given answer snapshot, and which energy label those answers earn.
//
// An Engine is immutable once built and safe for concurrent use. Every
// method is a pure function of the questionnaire and the answer map it is
// given; nothing is cached between calls and no method returns an error.
package engine

import "energylabel/internal/model"

// Engine evaluates answers against one questionnaire
type Engine struct {
	q   *model.Questionnaire
	idx index
}

// New builds an engine for q. The questionnaire is copied, so later changes
// to q do not affect the engine.
func New(q *model.Questionnaire) *Engine {
	c := q.Clone()
	c.AssignIDs()
	return &Engine{q: c, idx: buildIndex(c.Questions)}
}

// Questionnaire returns the questionnaire the engine evaluates. Callers
// must not modify it.
func (e *Engine) Questionnaire() *model.Questionnaire {
	return e.q
}

// Question returns the question with the given id
func (e *Engine) Question(id string) (*model.Question, bool) {
	i, ok := e.idx.byID[id]
	if !ok {
		return nil, false
	}
	return &e.q.Questions[i], true
}

// Score evaluates answers against q in one call
func Score(answers model.AnswerMap, q *model.Questionnaire) model.Result {
	return New(q).CalculateLabel(answers)
}
