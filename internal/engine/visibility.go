package engine

import "energylabel/internal/model"

// IsQuestionActive reports whether q is live for the given answers. A
// question without a predicate is always live. Clauses whose controlling
// question cannot be resolved hold.
//
// A controlling question that is itself inactive reads as unanswered, so a
// stale answer left behind a hidden question steers nothing. Along a
// reference cycle the controller's raw answer is used instead.
func (e *Engine) IsQuestionActive(q *model.Question, answers model.AnswerMap) bool {
	if q == nil {
		return false
	}
	return e.active(q, answers, map[string]bool{})
}

func (e *Engine) active(q *model.Question, answers model.AnswerMap, visiting map[string]bool) bool {
	visiting[q.ID] = true
	defer delete(visiting, q.ID)
	return e.holds(q.ShowIf, answers, visiting)
}

// live returns the answer ctrl contributes to a predicate
func (e *Engine) live(ctrl *model.Question, answers model.AnswerMap, visiting map[string]bool) model.Answer {
	if !visiting[ctrl.ID] && !e.active(ctrl, answers, visiting) {
		return model.Answer{}
	}
	return answers.Get(ctrl)
}

func (e *Engine) holds(v *model.Visibility, answers model.AnswerMap, visiting map[string]bool) bool {
	if v == nil {
		return true
	}

	if ctrl, _, ok := e.Resolve(v.Question); ok {
		ans := e.live(ctrl, answers, visiting)
		if v.Equals != nil && ChoiceValue(ctrl, ans.Scalar()) != ChoiceValue(ctrl, *v.Equals) {
			return false
		}
		if len(v.NotEquals) > 0 && !notIn(ctrl, ans, v.NotEquals) {
			return false
		}
		if v.Contains != nil && !selected(ctrl, ans, ChoiceValue(ctrl, *v.Contains)) {
			return false
		}
	}

	if v.AndQuestion != "" {
		if ctrl, _, ok := e.Resolve(v.AndQuestion); ok {
			if !notIn(ctrl, e.live(ctrl, answers, visiting), v.AndNotEquals) {
				return false
			}
		}
	}
	return true
}

// notIn reports whether none of the answer's values is one of excluded.
// An unanswered question reads as the empty string.
func notIn(q *model.Question, ans model.Answer, excluded []string) bool {
	values := ans.Set()
	if len(values) == 0 {
		values = []string{""}
	}
	for _, x := range excluded {
		xv := ChoiceValue(q, x)
		for _, v := range values {
			if ChoiceValue(q, v) == xv {
				return false
			}
		}
	}
	return true
}

func selected(q *model.Question, ans model.Answer, value string) bool {
	for _, v := range ans.Set() {
		if ChoiceValue(q, v) == value {
			return true
		}
	}
	return false
}

// ActiveQuestions returns the live questions in document order
func (e *Engine) ActiveQuestions(answers model.AnswerMap) []*model.Question {
	var out []*model.Question
	for i := range e.q.Questions {
		if e.IsQuestionActive(&e.q.Questions[i], answers) {
			out = append(out, &e.q.Questions[i])
		}
	}
	return out
}

// ActiveChoices returns the options of q currently on offer. Options come
// from the choice list, or from the answer table when there is none.
func (e *Engine) ActiveChoices(q *model.Question, answers model.AnswerMap) []string {
	if q == nil {
		return nil
	}
	var out []string
	visiting := map[string]bool{q.ID: true}
	if len(q.Choices) > 0 {
		for _, c := range q.Choices {
			if e.holds(c.ShowIf, answers, visiting) {
				out = append(out, c.Value)
			}
		}
		return out
	}
	for _, opt := range q.Answers {
		if e.holds(opt.ShowIf, answers, visiting) {
			out = append(out, opt.Label)
		}
	}
	return out
}

// Visibility returns the live question ids and, for choice questions, the
// live options
func (e *Engine) Visibility(answers model.AnswerMap) model.VisibilityState {
	state := model.VisibilityState{
		ActiveQuestions: []string{},
		ActiveChoices:   map[string][]string{},
	}
	for _, q := range e.ActiveQuestions(answers) {
		state.ActiveQuestions = append(state.ActiveQuestions, q.ID)
		if q.Kind.IsChoice() {
			state.ActiveChoices[q.ID] = e.ActiveChoices(q, answers)
		}
	}
	return state
}

// optionOffered reports whether value, selected for q, is among the options
// currently on offer. Values without a conditional option always are.
func (e *Engine) optionOffered(q *model.Question, value string, answers model.AnswerMap) bool {
	visiting := map[string]bool{q.ID: true}
	for _, c := range q.Choices {
		if c.Value == value || ChoiceValue(q, c.Value) == ChoiceValue(q, value) {
			if !e.holds(c.ShowIf, answers, visiting) {
				return false
			}
			break
		}
	}
	if opt := findOption(q, value); opt != nil && !e.holds(opt.ShowIf, answers, visiting) {
		return false
	}
	return true
}
