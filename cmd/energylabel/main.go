package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"energylabel/internal/engine"
	"energylabel/internal/model"
	"energylabel/internal/questionnaire"
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(args []string, w io.Writer) error
}

var commands = []command{
	{
		name:  "evaluate",
		short: "Score an answer file and print the label",
		usage: "energylabel evaluate [-schema file] [-json] <answers>",
		long: `Score the answers in a JSON or YAML file and print the label, the
score and the breakdown.

Answers are keyed by question id (question_0, question_1, ...) or by the
question text. Without -schema the bundled questionnaire is used.
`,
		run: runEvaluate,
	},
	{
		name:  "active",
		short: "List the questions and choices shown for an answer file",
		usage: "energylabel active [-schema file] [answers]",
		long: `Print every question that is shown for the given answers, with the
choices it currently offers. Without an answer file nothing is answered.
`,
		run: runActive,
	},
	{
		name:  "validate",
		short: "Check a questionnaire document",
		usage: "energylabel validate <schema>",
		long: `Parse a questionnaire document (JSON, or YAML by extension) and report
every structural problem found in it.
`,
		run: runValidate,
	},
	{
		name:  "scenarios",
		short: "Score the reference dwellings",
		usage: "energylabel scenarios [-schema file]",
		long: `Score the reference dwellings against a questionnaire and compare each
label with the one the bundled scoring produces. Exits non-zero on a mismatch.
`,
		run: runScenarios,
	},
}

func main() {
	if err := dispatch(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "energylabel:", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "energylabel - estimate a home's energy label from questionnaire answers\n\n")
	fmt.Fprintf(w, "Usage:\n  energylabel <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nRun 'energylabel help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, name string) {
	for _, cmd := range commands {
		if cmd.name == name {
			fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
			return
		}
	}
	fmt.Fprintf(w, "energylabel: unknown command %q\n\nRun 'energylabel help' for usage.\n", name)
}

func dispatch(args []string, w io.Writer) error {
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printUsage(w)
		return nil
	}
	if args[0] == "help" {
		if len(args) >= 2 {
			printCommandHelp(w, args[1])
		} else {
			printUsage(w)
		}
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(args[1:], w)
		}
	}
	return fmt.Errorf("unknown command %q\n\nRun 'energylabel help' for usage.", args[0])
}

// flags parses the options shared by the commands that evaluate answers
type flags struct {
	schema string
	json   bool
}

func parseFlags(name string, args []string, withJSON bool) (*flags, []string, error) {
	f := &flags{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&f.schema, "schema", "", "questionnaire document")
	if withJSON {
		fs.BoolVar(&f.json, "json", false, "print the result as JSON")
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func (f *flags) engine() (*engine.Engine, error) {
	q := questionnaire.Default()
	if f.schema != "" {
		var err error
		if q, err = questionnaire.LoadFile(f.schema); err != nil {
			return nil, err
		}
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return engine.New(q), nil
}

// ---------------------------------------------------------------------------
// evaluate
// ---------------------------------------------------------------------------

func runEvaluate(args []string, w io.Writer) error {
	f, rest, err := parseFlags("evaluate", args, true)
	if err != nil || len(rest) != 1 {
		return fmt.Errorf("usage: energylabel evaluate [-schema file] [-json] <answers>")
	}
	e, err := f.engine()
	if err != nil {
		return err
	}
	answers, err := questionnaire.LoadAnswers(rest[0])
	if err != nil {
		return err
	}

	result := e.CalculateLabel(answers)
	if f.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(w, "Label: %s (score %d)\n", result.Label, result.Score)
	for _, line := range result.Details {
		fmt.Fprintf(w, "  %s\n", line)
	}
	return nil
}

// ---------------------------------------------------------------------------
// active
// ---------------------------------------------------------------------------

func runActive(args []string, w io.Writer) error {
	f, rest, err := parseFlags("active", args, false)
	if err != nil || len(rest) > 1 {
		return fmt.Errorf("usage: energylabel active [-schema file] [answers]")
	}
	e, err := f.engine()
	if err != nil {
		return err
	}
	answers := model.AnswerMap{}
	if len(rest) == 1 {
		if answers, err = questionnaire.LoadAnswers(rest[0]); err != nil {
			return err
		}
	}

	for _, q := range e.ActiveQuestions(answers) {
		fmt.Fprintf(w, "%-12s %s\n", q.ID, q.Text)
		if q.Kind.IsChoice() {
			fmt.Fprintf(w, "%-12s   [%s]\n", "", strings.Join(e.ActiveChoices(q, answers), ", "))
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// validate
// ---------------------------------------------------------------------------

func runValidate(args []string, w io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: energylabel validate <schema>")
	}
	q, err := questionnaire.LoadFile(args[0])
	if err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	fmt.Fprintf(w, "%s: %d questions, %d labels\n", args[0], len(q.Questions), len(q.Scoring.Bands))
	return nil
}

// ---------------------------------------------------------------------------
// scenarios
// ---------------------------------------------------------------------------

var errScenarioMismatch = errors.New("scenario labels differ")

func runScenarios(args []string, w io.Writer) error {
	f, rest, err := parseFlags("scenarios", args, false)
	if err != nil || len(rest) != 0 {
		return fmt.Errorf("usage: energylabel scenarios [-schema file]")
	}
	e, err := f.engine()
	if err != nil {
		return err
	}

	mismatch := false
	for _, s := range questionnaire.Scenarios() {
		result := e.CalculateLabel(s.Answers.Clone())
		mark := "ok"
		if result.Label != s.Label {
			mark = "expected " + s.Label
			mismatch = true
		}
		fmt.Fprintf(w, "%-24s %-6s %5d  %s\n", s.Name, result.Label, result.Score, mark)
	}
	if mismatch {
		return errScenarioMismatch
	}
	return nil
}
