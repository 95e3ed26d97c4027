package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"energylabel/internal/model"
)

// CalculateLabel scores the answers and classifies the total. Only live
// questions count; anything missing, unparsable or unresolvable
// contributes nothing.
func (e *Engine) CalculateLabel(answers model.AnswerMap) model.Result {
	s := &scorer{e: e, cfg: &e.q.Scoring, answers: answers}

	total := s.base()
	insulation := s.insulation()
	total += insulation
	total += s.installation(insulation)
	total += s.renewable()
	total += s.bonuses()

	score := math.Round(total)
	band := Classify(s.cfg.Bands, score)
	return model.Result{
		Label:     band.Label,
		Colour:    band.Colour,
		Score:     int(score),
		Details:   s.details,
		Breakdown: s.lines,
	}
}

type scorer struct {
	e       *Engine
	cfg     *model.ScoringConfig
	answers model.AnswerMap
	details []string
	lines   []model.Line
}

func (s *scorer) add(kind model.LineKind, name string, points float64, factor float64, detail string) {
	s.details = append(s.details, detail)
	s.lines = append(s.lines, model.Line{Kind: kind, Name: name, Points: round(points), Factor: factor})
}

// role resolves a configured question text; unknown roles are nil
func (s *scorer) role(text string) *model.Question {
	if text == "" {
		return nil
	}
	q, _, ok := s.e.Resolve(text)
	if !ok {
		return nil
	}
	return q
}

// answer returns q's answer, or the empty answer when q is absent or not live
func (s *scorer) answer(q *model.Question) model.Answer {
	if q == nil || !s.e.IsQuestionActive(q, s.answers) {
		return model.Answer{}
	}
	return s.answers.Get(q)
}

// value returns q's single answer mapped to its stored value
func (s *scorer) value(q *model.Question) string {
	return ChoiceValue(q, s.answer(q).Scalar())
}

// points returns what q's live answer is worth: the matching range value
// for numeric questions, otherwise the sum of the selected options' weights
func (s *scorer) points(q *model.Question) float64 {
	if q == nil {
		return 0
	}
	ans := s.answer(q)
	if ranges := q.Ranges(); len(ranges) > 0 {
		return RangeValue(ranges, ans.Scalar())
	}
	var sum float64
	for _, v := range ans.Set() {
		opt := findOption(q, v)
		if opt == nil || !opt.HasWeight || !s.e.optionOffered(q, v, s.answers) {
			continue
		}
		sum += opt.Weight
	}
	return sum
}

func (s *scorer) base() float64 {
	w := s.cfg.Weights
	dwelling := s.role(s.cfg.Roles.DwellingType)

	sum := w.Year*s.points(s.role(s.cfg.Roles.ConstructionYear)) + s.points(dwelling)
	if dwelling != nil && s.cfg.ApartmentValue != "" && s.value(dwelling) == ChoiceValue(dwelling, s.cfg.ApartmentValue) {
		sum += s.points(s.role(s.cfg.Roles.ApartmentType))
	}
	base := sum * s.points(s.role(s.cfg.Roles.Size)) * w.Base

	s.add(model.LineBase, "Basisscore", base, 0, fmt.Sprintf("Basisscore: %d punten", round(base)))
	return base
}

func (s *scorer) bucket(b model.Bucket) float64 {
	var sum float64
	for i := range s.e.q.Questions {
		q := &s.e.q.Questions[i]
		if q.Bucket() == b {
			sum += q.Share() * s.points(q)
		}
	}
	return sum
}

// yearFactor looks up the construction year answer in the year question's
// factor table. A missing table, question or entry is neutral.
func (s *scorer) yearFactor() float64 {
	q := s.role(s.cfg.Roles.ConstructionYear)
	if q == nil || q.Metadata == nil || len(q.Metadata.YearFactor) == 0 {
		return 1
	}
	raw := s.answer(q).Scalar()
	candidates := []string{raw, ChoiceValue(q, raw)}
	if opt := findOption(q, raw); opt != nil {
		candidates = append(candidates, opt.Label)
	}
	for _, c := range candidates {
		if f, ok := q.Metadata.YearFactor[c]; ok {
			return f
		}
	}
	return 1
}

func (s *scorer) insulation() float64 {
	score := s.bucket(model.BucketInsulation) * s.yearFactor() * s.cfg.Weights.Insulation
	s.add(model.LineInsulation, "Isolatiescore", score, 0, fmt.Sprintf("Isolatiescore: %d punten", round(score)))
	return score
}

func (s *scorer) installation(insulation float64) float64 {
	score := s.bucket(model.BucketInstallation)

	heating := s.role(s.cfg.Roles.Heating)
	ventilation := s.role(s.cfg.Roles.Ventilation)
	hv, vv := s.value(heating), s.value(ventilation)

	for _, rule := range s.cfg.Combinations {
		if !matches(heating, hv, rule.Heating) || !matches(ventilation, vv, rule.Ventilation) {
			continue
		}
		coupling := 1.0
		if rule.CoupleInsulation && s.cfg.Weights.InsulationNorm > 0 {
			coupling = 0.5 + insulation/s.cfg.Weights.InsulationNorm
		}
		factor := rule.Factor * coupling
		score *= factor
		pct := (rule.Factor - 1) * 100 * coupling
		s.add(model.LineCombination, rule.Name, 0, factor, fmt.Sprintf("Bonus: %s (%d%%)", rule.Name, round(pct)))
		break
	}

	score *= s.cfg.Weights.Installation
	s.add(model.LineInstallation, "Installatiescore", score, 0, fmt.Sprintf("Installatiescore: %d punten", round(score)))
	return score
}

func (s *scorer) renewable() float64 {
	score := s.bucket(model.BucketRenewable)

	boiler := s.cfg.SolarBoiler
	water := s.role(s.cfg.Roles.WaterHeating)
	if wv := s.value(water); water != nil && wv != "" && matches(water, wv, boiler.Values) && len(boiler.Values) > 0 {
		bonus := boiler.Points
		heating := s.role(s.cfg.Roles.Heating)
		if hv := s.value(heating); boiler.SynergyFactor > 0 && len(boiler.SynergyHeating) > 0 && hv != "" && matches(heating, hv, boiler.SynergyHeating) {
			bonus *= boiler.SynergyFactor
			pct := (boiler.SynergyFactor - 1) * 100
			s.add(model.LineSynergy, wv+" + "+hv, 0, boiler.SynergyFactor,
				fmt.Sprintf("Extra bonus: %s + %s synergie (%d%%)", wv, hv, round(pct)))
		}
		score += bonus
		s.add(model.LineSolarBoiler, wv, bonus, 0, fmt.Sprintf("Bonus: %s (%s punten)", wv, formatPoints(bonus)))
	}

	score *= s.cfg.Weights.Renewable
	s.add(model.LineRenewable, "Duurzame energiescore", score, 0, fmt.Sprintf("Duurzame energiescore: %d punten", round(score)))
	return score
}

// bonuses adds the flat combination bonuses in configuration order. A bonus
// may require bonuses listed before it.
func (s *scorer) bonuses() float64 {
	var total float64
	triggered := make(map[string]bool, len(s.cfg.Bonuses))
	for _, b := range s.cfg.Bonuses {
		if len(b.When) == 0 && len(b.Requires) == 0 {
			continue
		}
		ok := true
		for _, c := range b.When {
			if !s.condition(c) {
				ok = false
				break
			}
		}
		for _, req := range b.Requires {
			if !triggered[req] {
				ok = false
			}
		}
		if !ok {
			continue
		}
		triggered[b.Name] = true
		total += b.Points
		s.add(model.LineBonus, b.Name, b.Points, 0, fmt.Sprintf("Bonus: %s (+%s punten)", b.Name, formatPoints(b.Points)))
	}
	return total
}

// condition holds when any value of the live answer is listed in c.In
func (s *scorer) condition(c model.Condition) bool {
	q := s.role(c.Question)
	if q == nil {
		return false
	}
	for _, v := range s.answer(q).Set() {
		if matches(q, ChoiceValue(q, v), c.In) {
			return true
		}
	}
	return false
}

// matches reports whether value is one of list, comparing stored values.
// An empty list matches anything.
func matches(q *model.Question, value string, list []string) bool {
	if len(list) == 0 {
		return true
	}
	for _, item := range list {
		if ChoiceValue(q, item) == value {
			return true
		}
	}
	return false
}

// RangeValue returns the value of the first range containing the parsed
// number. Unparsable input and numbers outside every range score 0.
func RangeValue(ranges []model.ScoringRange, raw string) float64 {
	x, ok := parseNumber(raw)
	if !ok {
		return 0
	}
	for _, r := range ranges {
		if !r.Contains(x) {
			continue
		}
		v := r.Value
		if r.Taper > 0 && r.Max != nil && *r.Max > 1 && x > 0 {
			v *= 1 - math.Log(x)/math.Log(*r.Max)*r.Taper
		}
		return v
	}
	return 0
}

// parseNumber accepts a decimal comma as well as a decimal point
func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}
	x, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

func round(x float64) int {
	return int(math.Round(x))
}

func formatPoints(x float64) string {
	return strconv.FormatFloat(math.Round(x*100)/100, 'f', -1, 64)
}
