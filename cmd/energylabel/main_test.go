package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"energylabel/internal/model"
	"energylabel/internal/questionnaire"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func scenarioAnswers(t *testing.T, name string) string {
	t.Helper()
	for _, s := range questionnaire.Scenarios() {
		if s.Name == name {
			data, err := json.Marshal(s.Answers)
			if err != nil {
				t.Fatal(err)
			}
			return writeFile(t, "answers.json", data)
		}
	}
	t.Fatalf("no scenario %q", name)
	return ""
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var sb strings.Builder
	err := dispatch(args, &sb)
	return sb.String(), err
}

func TestHelpListsEveryCommand(t *testing.T) {
	for _, args := range [][]string{nil, {"-h"}, {"help"}} {
		out, err := run(t, args...)
		if err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		for _, cmd := range commands {
			if !strings.Contains(out, cmd.name) || !strings.Contains(out, cmd.short) {
				t.Errorf("%v: help missing %q", args, cmd.name)
			}
		}
	}
}

func TestCommandHelp(t *testing.T) {
	for _, cmd := range commands {
		out, _ := run(t, "help", cmd.name)
		if !strings.Contains(out, cmd.usage) {
			t.Errorf("help %s missing usage line", cmd.name)
		}
	}
	if out, _ := run(t, "help", "nope"); !strings.Contains(out, "unknown command") {
		t.Errorf("help for unknown command: %s", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := run(t, "frobnicate"); err == nil || !strings.Contains(err.Error(), "frobnicate") {
		t.Errorf("err = %v", err)
	}
}

func TestBadArgumentsPrintUsage(t *testing.T) {
	tests := [][]string{
		{"evaluate"},
		{"evaluate", "a.json", "b.json"},
		{"active", "a.json", "b.json"},
		{"validate"},
		{"scenarios", "extra"},
		{"evaluate", "-nope", "a.json"},
	}
	for _, args := range tests {
		if _, err := run(t, args...); err == nil || !strings.HasPrefix(err.Error(), "usage:") {
			t.Errorf("%v: err = %v", args, err)
		}
	}
}

func TestEvaluate(t *testing.T) {
	path := scenarioAnswers(t, "Modern efficient home")

	out, err := run(t, "evaluate", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "Label: A++++ (score 1634)\n") {
		t.Errorf("output:\n%s", out)
	}

	out, err = run(t, "evaluate", "-json", path)
	if err != nil {
		t.Fatal(err)
	}
	var result model.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Score != 1634 || len(result.Breakdown) == 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestEvaluateYAMLAnswers(t *testing.T) {
	path := writeFile(t, "answers.yaml", []byte("question_0: \"1945-1975\"\n"))
	out, err := run(t, "evaluate", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "Label: ") {
		t.Errorf("output:\n%s", out)
	}
}

func TestEvaluateMissingFile(t *testing.T) {
	if _, err := run(t, "evaluate", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing answer file")
	}
}

func TestActive(t *testing.T) {
	out, err := run(t, "active")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "question_2 ") {
		t.Error("apartment question shown without a dwelling type")
	}
	if !strings.Contains(out, "question_13") {
		t.Error("battery question hidden while solar panels are unanswered")
	}

	path := writeFile(t, "answers.json", []byte(`{"question_1": "Appartement"}`))
	out, err = run(t, "active", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "question_2 ") {
		t.Errorf("apartment question hidden:\n%s", out)
	}
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", writeFile(t, "default.json", questionnaire.DefaultDocument()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "14 questions") {
		t.Errorf("output: %s", out)
	}

	bad := writeFile(t, "bad.json", []byte(`{"questions": [{"question": "", "inputType": "radio"}]}`))
	if _, err := run(t, "validate", bad); err == nil {
		t.Error("expected invalid questionnaire to fail")
	}
}

func TestScenarios(t *testing.T) {
	out, err := run(t, "scenarios")
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	for _, s := range questionnaire.Scenarios() {
		if !strings.Contains(out, s.Name) {
			t.Errorf("scenario %q not reported", s.Name)
		}
	}
	if strings.Contains(out, "expected") {
		t.Errorf("mismatch reported:\n%s", out)
	}
}

func TestScenariosMismatch(t *testing.T) {
	doc := `
questions:
  - question: Naam?
    inputType: text
`
	out, err := run(t, "scenarios", "-schema", writeFile(t, "tiny.yaml", []byte(doc)))
	if !errors.Is(err, errScenarioMismatch) {
		t.Fatalf("err = %v\n%s", err, out)
	}
}
