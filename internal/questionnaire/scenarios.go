package questionnaire

import "energylabel/internal/model"

// Scenario is a named reference answer set for the bundled questionnaire
type Scenario struct {
	Name    string
	Answers model.AnswerMap
	// Label is the label the bundled scoring configuration produces
	Label string
}

func answers(pairs map[int]string) model.AnswerMap {
	m := make(model.AnswerMap, len(pairs))
	for i, v := range pairs {
		m[model.QuestionID(i)] = model.Text(v)
	}
	return m
}

// Scenarios returns the reference dwellings used to sanity-check scoring
// changes, from most to least efficient
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:  "Modern efficient home",
			Label: "A++++",
			Answers: answers(map[int]string{
				0:  "2005-heden",
				1:  "Vrijstaande woning",
				3:  "150",
				4:  "HR+ /++ /+++ glas",
				5:  "Goede isolatie",
				6:  "Goede isolatie",
				7:  "Goede isolatie",
				8:  "Warmtepomp",
				9:  "Zonneboiler",
				10: "Gebalanceerde ventilatie met WTW",
				11: "Ja, 10 of meer",
			}),
		},
		{
			Name:  "Renovated old home",
			Label: "A++",
			Answers: answers(map[int]string{
				0:  "1945-1975",
				1:  "Hoekwoning",
				3:  "140",
				4:  "HR+ /++ /+++ glas",
				5:  "Goede isolatie",
				6:  "Goede isolatie",
				7:  "Goede isolatie",
				8:  "Hybride warmtepomp",
				9:  "Zonneboiler",
				10: "Gebalanceerde ventilatie",
				11: "Ja, 6 tot 10",
			}),
		},
		{
			Name:  "Average 90s home",
			Label: "D",
			Answers: answers(map[int]string{
				0:  "1990-2005",
				1:  "Tussenwoning",
				3:  "120",
				4:  "HR glas",
				5:  "Matige isolatie",
				6:  "Matige isolatie",
				7:  "Matige isolatie",
				8:  "CV-ketel 2000-2020",
				9:  "Combiketel",
				10: "Mechanische afzuiging",
				11: "Nee",
			}),
		},
		{
			Name:  "Basic 80s home",
			Label: "E",
			Answers: answers(map[int]string{
				0:  "1975-1990",
				1:  "Tussenwoning",
				3:  "110",
				4:  "Dubbelglas",
				5:  "Matige isolatie",
				6:  "Matige isolatie",
				7:  "Geen isolatie",
				8:  "CV-ketel 2000-2020",
				9:  "Combiketel",
				10: "Natuurlijke ventilatie",
				11: "Nee",
			}),
		},
		{
			Name:  "Old apartment",
			Label: "F",
			Answers: answers(map[int]string{
				0:  "Vóór 1945",
				1:  "Appartement",
				2:  "Tussenappartement zonder dak",
				3:  "75",
				4:  "Dubbelglas",
				6:  "Matige isolatie",
				7:  "Geen isolatie",
				8:  "CV-ketel voor 2000",
				9:  "Combiketel",
				10: "Natuurlijke ventilatie",
				11: "Nee",
			}),
		},
	}
}
