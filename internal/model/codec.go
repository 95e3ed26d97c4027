package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Documents written by hand mix shapes freely: a choice is a bare string or
// a {value, showIf} record, an answer entry is a weight, a string or a
// record, and notEquals is a string or a list. The decoders below accept
// every shape in both JSON and YAML.

// UnmarshalJSON accepts "value" or {"value": ..., "showIf": ...}
func (c *Choice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Choice{}
		return nil
	}
	if data[0] != '{' {
		s, err := scalarJSON(data)
		if err != nil {
			return fmt.Errorf("choice: %w", err)
		}
		*c = Choice{Value: s}
		return nil
	}
	var raw struct {
		Value  json.RawMessage `json:"value"`
		ShowIf *Visibility     `json:"showIf"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("choice: %w", err)
	}
	s, err := scalarJSON(raw.Value)
	if err != nil {
		return fmt.Errorf("choice value: %w", err)
	}
	*c = Choice{Value: s, ShowIf: raw.ShowIf}
	return nil
}

// MarshalJSON writes unconditional choices back as plain strings
func (c Choice) MarshalJSON() ([]byte, error) {
	if c.ShowIf == nil {
		return json.Marshal(c.Value)
	}
	type plain Choice
	return json.Marshal(plain(c))
}

// UnmarshalYAML mirrors UnmarshalJSON
func (c *Choice) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = Choice{Value: node.Value}
		return nil
	}
	var raw struct {
		Value  string      `yaml:"value"`
		ShowIf *Visibility `yaml:"showIf"`
	}
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("choice: %w", err)
	}
	*c = Choice{Value: raw.Value, ShowIf: raw.ShowIf}
	return nil
}

// UnmarshalJSON reads an object keyed by option label, keeping key order
func (t *AnswerTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("answers: %w", err)
	}
	if tok == nil {
		*t = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("answers: expected object, got %v", tok)
	}

	table := AnswerTable{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("answers: %w", err)
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("answers: unexpected key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("answers[%q]: %w", label, err)
		}
		opt, err := answerOptionJSON(label, raw)
		if err != nil {
			return fmt.Errorf("answers[%q]: %w", label, err)
		}
		table = append(table, opt)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("answers: %w", err)
	}
	*t = table
	return nil
}

func answerOptionJSON(label string, raw json.RawMessage) (AnswerOption, error) {
	raw = bytes.TrimSpace(raw)
	opt := AnswerOption{Label: label, Value: label}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return opt, nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return opt, err
		}
		opt.Value = s
		return opt, nil
	case '{':
		var rec struct {
			Value  json.RawMessage `json:"value"`
			Weight *float64        `json:"weight"`
			ShowIf *Visibility     `json:"showIf"`
		}
		if err := json.Unmarshal(raw, &rec); err != nil {
			return opt, err
		}
		opt.ShowIf = rec.ShowIf
		if rec.Weight != nil {
			opt.Weight, opt.HasWeight = *rec.Weight, true
		}
		v := bytes.TrimSpace(rec.Value)
		switch {
		case len(v) == 0 || bytes.Equal(v, []byte("null")):
		case v[0] == '"':
			if err := json.Unmarshal(v, &opt.Value); err != nil {
				return opt, err
			}
		default:
			// A numeric value is the option's weight
			w, err := strconv.ParseFloat(string(v), 64)
			if err != nil {
				return opt, fmt.Errorf("value: %w", err)
			}
			if !opt.HasWeight {
				opt.Weight, opt.HasWeight = w, true
			}
		}
		return opt, nil
	case '[':
		return opt, fmt.Errorf("unexpected list")
	default:
		w, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return opt, fmt.Errorf("weight: %w", err)
		}
		opt.Weight, opt.HasWeight = w, true
		return opt, nil
	}
}

// MarshalJSON writes the table as an ordered object in its most compact shape
func (t AnswerTable) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(opt.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var val any
		switch {
		case opt.ShowIf == nil && opt.HasWeight && opt.Value == opt.Label:
			val = opt.Weight
		case opt.ShowIf == nil && !opt.HasWeight:
			val = opt.Value
		default:
			rec := map[string]any{"value": opt.Value}
			if opt.HasWeight {
				rec["weight"] = opt.Weight
			}
			if opt.ShowIf != nil {
				rec["showIf"] = opt.ShowIf
			}
			val = rec
		}
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML reads a mapping keyed by option label, keeping key order
func (t *AnswerTable) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("answers: expected mapping at line %d", node.Line)
	}
	table := make(AnswerTable, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		label := node.Content[i].Value
		opt, err := answerOptionYAML(label, node.Content[i+1])
		if err != nil {
			return fmt.Errorf("answers[%q]: %w", label, err)
		}
		table = append(table, opt)
	}
	*t = table
	return nil
}

func answerOptionYAML(label string, node *yaml.Node) (AnswerOption, error) {
	opt := AnswerOption{Label: label, Value: label}
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
		case "!!int", "!!float":
			w, err := strconv.ParseFloat(node.Value, 64)
			if err != nil {
				return opt, err
			}
			opt.Weight, opt.HasWeight = w, true
		default:
			opt.Value = node.Value
		}
		return opt, nil
	case yaml.MappingNode:
		var rec struct {
			Value  yaml.Node   `yaml:"value"`
			Weight *float64    `yaml:"weight"`
			ShowIf *Visibility `yaml:"showIf"`
		}
		if err := node.Decode(&rec); err != nil {
			return opt, err
		}
		opt.ShowIf = rec.ShowIf
		if rec.Weight != nil {
			opt.Weight, opt.HasWeight = *rec.Weight, true
		}
		if rec.Value.Kind == yaml.ScalarNode && rec.Value.Tag != "!!null" {
			if rec.Value.Tag == "!!int" || rec.Value.Tag == "!!float" {
				w, err := strconv.ParseFloat(rec.Value.Value, 64)
				if err != nil {
					return opt, err
				}
				if !opt.HasWeight {
					opt.Weight, opt.HasWeight = w, true
				}
			} else {
				opt.Value = rec.Value.Value
			}
		}
		return opt, nil
	}
	return opt, fmt.Errorf("unexpected node at line %d", node.Line)
}

// UnmarshalJSON accepts "a" or ["a", "b"]
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make(StringList, 0, len(items))
		for _, item := range items {
			s, err := scalarJSON(item)
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		*l = out
		return nil
	}
	s, err := scalarJSON(data)
	if err != nil {
		return err
	}
	*l = StringList{s}
	return nil
}

// UnmarshalYAML accepts a scalar or a sequence
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		out := make(StringList, 0, len(node.Content))
		for _, item := range node.Content {
			out = append(out, item.Value)
		}
		*l = out
		return nil
	}
	return fmt.Errorf("expected string or list at line %d", node.Line)
}

// UnmarshalJSON accepts a string, a number, a list of strings or null
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*a = Answer{}
	case data[0] == '[':
		var list StringList
		if err := list.UnmarshalJSON(data); err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		*a = Selection(list...)
	default:
		s, err := scalarJSON(data)
		if err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		*a = Text(s)
	}
	return nil
}

// MarshalJSON writes a selection as a list and everything else as a string
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Multi {
		values := a.Values
		if values == nil {
			values = []string{}
		}
		return json.Marshal(values)
	}
	return json.Marshal(a.Value)
}

// UnmarshalYAML mirrors UnmarshalJSON
func (a *Answer) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*a = Answer{}
			return nil
		}
		*a = Text(node.Value)
	case yaml.SequenceNode:
		values := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			values = append(values, item.Value)
		}
		*a = Selection(values...)
	default:
		return fmt.Errorf("answer: unexpected node at line %d", node.Line)
	}
	return nil
}

// scalarJSON renders a JSON string, number or bool as its text
func scalarJSON(data json.RawMessage) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		return s, err
	}
	if data[0] == '{' || data[0] == '[' {
		return "", fmt.Errorf("expected scalar, got %s", string(data))
	}
	return string(data), nil
}

// UnmarshalJSON decodes over the receiver, so sections the document leaves
// out keep their current values. The rule, bonus and band lists are replaced
// whole when present: a listed entry never inherits fields from the entry
// it replaces.
func (c *ScoringConfig) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}

	type plain ScoringConfig
	p := plain(*c)
	p.Combinations, p.Bonuses, p.Bands = nil, nil, nil
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	restoreLists((*ScoringConfig)(&p), c, func(key string) bool {
		_, ok := keys[key]
		return ok
	})
	*c = ScoringConfig(p)
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON
func (c *ScoringConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("scoring: expected mapping at line %d", node.Line)
	}
	keys := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys[node.Content[i].Value] = true
	}

	type plain ScoringConfig
	p := plain(*c)
	p.Combinations, p.Bonuses, p.Bands = nil, nil, nil
	if err := node.Decode(&p); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	restoreLists((*ScoringConfig)(&p), c, func(key string) bool { return keys[key] })
	*c = ScoringConfig(p)
	return nil
}

// restoreLists puts back the lists of prev the document did not mention
func restoreLists(decoded, prev *ScoringConfig, present func(string) bool) {
	if !present("combinations") {
		decoded.Combinations = prev.Combinations
	}
	if !present("bonuses") {
		decoded.Bonuses = prev.Bonuses
	}
	if !present("bands") {
		decoded.Bands = prev.Bands
	}
}
