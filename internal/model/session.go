package model

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionSubmitted SessionStatus = "submitted"
)

// Session is the renderer's working copy of one questionnaire fill-in
type Session struct {
	ID              string        `json:"id"`
	QuestionnaireID string        `json:"questionnaireId"`
	Revision        int           `json:"revision"`
	Status          SessionStatus `json:"status"`
	Answers         AnswerMap     `json:"answers"`
	StartedAt       time.Time     `json:"startedAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	Result          *Result       `json:"result,omitempty"`
}

// Assessment is a submitted session, stored for reporting
type Assessment struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	QuestionnaireID string    `json:"questionnaireId" bson:"questionnaireId"`
	SessionID       string    `json:"sessionId" bson:"sessionId"`
	Answers         AnswerMap `json:"answers" bson:"answers"`
	Result          Result    `json:"result" bson:"result"`
	SubmittedAt     time.Time `json:"submittedAt" bson:"submittedAt"`
}

// LabelStats is the label distribution of one questionnaire
type LabelStats struct {
	QuestionnaireID string         `json:"questionnaireId" bson:"questionnaireId"`
	Counts          map[string]int `json:"counts" bson:"counts"`
	Total           int            `json:"total" bson:"total"`
	TakenAt         time.Time      `json:"takenAt" bson:"takenAt"`
}

// VisibilityState is the set of live questions and their live choices for one
// answer snapshot
type VisibilityState struct {
	ActiveQuestions []string            `json:"activeQuestions"`
	ActiveChoices   map[string][]string `json:"activeChoices"`
}
