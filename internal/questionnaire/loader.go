// Package questionnaire loads questionnaire documents and ships the bundled
// default questionnaire with its reference scenarios.
package questionnaire

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"energylabel/internal/model"

	"gopkg.in/yaml.v3"
)

// DefaultID is the id under which the bundled questionnaire is served
const DefaultID = "default"

var ErrEmptyDocument = errors.New("questionnaire document is empty")

//go:embed default.json
var defaultDocument []byte

// Default returns a fresh copy of the bundled questionnaire
func Default() *model.Questionnaire {
	q, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("bundled questionnaire: %v", err))
	}
	if q.ID == "" {
		q.ID = DefaultID
	}
	return q
}

// DefaultDocument returns the raw bundled document
func DefaultDocument() []byte {
	return append([]byte(nil), defaultDocument...)
}

// Parse decodes a JSON document. The document is either an object with a
// "questions" list and an optional "scoring" section, or a bare list of
// questions. Scoring settings the document leaves out keep their defaults.
func Parse(data []byte) (*model.Questionnaire, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	q := &model.Questionnaire{Scoring: model.DefaultScoring()}
	if data[0] == '[' {
		if err := json.Unmarshal(data, &q.Questions); err != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}
	} else if err := json.Unmarshal(data, q); err != nil {
		return nil, fmt.Errorf("decode questionnaire: %w", err)
	}

	q.AssignIDs()
	return q, nil
}

// ParseYAML decodes the same document shapes as Parse, written in YAML
func ParseYAML(data []byte) (*model.Questionnaire, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode questionnaire: %w", err)
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	q := &model.Questionnaire{Scoring: model.DefaultScoring()}
	if doc.Kind == yaml.SequenceNode {
		if err := doc.Decode(&q.Questions); err != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}
	} else if err := doc.Decode(q); err != nil {
		return nil, fmt.Errorf("decode questionnaire: %w", err)
	}

	q.AssignIDs()
	return q, nil
}

// LoadFile reads a questionnaire from disk, choosing the decoder by extension
func LoadFile(path string) (*model.Questionnaire, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var q *model.Questionnaire
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		q, err = ParseYAML(data)
	default:
		q, err = Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return q, nil
}

// LoadAnswers reads an answer map from a JSON or YAML file
func LoadAnswers(path string) (model.AnswerMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	answers := model.AnswerMap{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &answers)
	default:
		err = yaml.Unmarshal(data, &answers)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return answers, nil
}
