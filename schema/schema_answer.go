package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Answer is a submitted value for one question. It is either a single token
// (or free text) held in Text, or an ordered collection held in Tokens.
type Answer struct {
	Text   string
	Tokens []string
	List   bool
}

// AnswerSet maps question keys to submitted answers.
type AnswerSet map[string]Answer

// Single builds a scalar answer.
func Single(text string) Answer {
	return Answer{Text: text}
}

// Multi builds a collection answer.
func Multi(tokens ...string) Answer {
	return Answer{Tokens: tokens, List: true}
}

// Choices returns the answer as a list of option tokens. Scalar answers are
// parsed as a JSON array (["A","B"]) or a comma-separated list (A,B).
func (a Answer) Choices() []string {
	if a.List {
		return a.Tokens
	}
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return nil
	}
	if strings.HasPrefix(text, "[") {
		var tokens []string
		if err := json.Unmarshal([]byte(text), &tokens); err == nil {
			return tokens
		}
	}
	var tokens []string
	for part := range strings.SplitSeq(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// String renders the answer for diagnostics.
func (a Answer) String() string {
	if a.List {
		return "[" + strings.Join(a.Tokens, ",") + "]"
	}
	return a.Text
}

// MarshalJSON encodes lists as arrays and everything else as a string.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.List {
		tokens := a.Tokens
		if tokens == nil {
			tokens = []string{}
		}
		return json.Marshal(tokens)
	}
	return json.Marshal(a.Text)
}

// UnmarshalJSON accepts a string, a scalar or an array of scalars.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return a.fromAny(raw)
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (a *Answer) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*a = Single(node.Value)
		return nil
	case yaml.SequenceNode:
		tokens := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: answer items must be scalars", item.Line)
			}
			tokens = append(tokens, item.Value)
		}
		*a = Multi(tokens...)
		return nil
	default:
		return fmt.Errorf("line %d: answer must be a scalar or a sequence", node.Line)
	}
}

// FromAny converts a decoded JSON value into an answer.
func FromAny(v any) (Answer, error) {
	var a Answer
	err := a.fromAny(v)
	return a, err
}

func (a *Answer) fromAny(v any) error {
	switch val := v.(type) {
	case string:
		*a = Single(val)
	case []any:
		tokens := make([]string, 0, len(val))
		for _, item := range val {
			switch item.(type) {
			case []any, map[string]any:
				return fmt.Errorf("answer items must be scalars (received %T)", item)
			}
			tokens = append(tokens, fmt.Sprint(item))
		}
		*a = Multi(tokens...)
	case []string:
		*a = Multi(val...)
	case nil:
		*a = Answer{}
	case map[string]any:
		return fmt.Errorf("answer must be a scalar or a list (received object)")
	default:
		*a = Single(fmt.Sprint(val))
	}
	return nil
}
