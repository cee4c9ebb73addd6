package rubric

import (
	"fmt"
	"os"

	"github.com/huangsam/maturity/schema"
	"gopkg.in/yaml.v3"
)

// LoadAnswers reads an answer set from a YAML or JSON file.
func LoadAnswers(path string) (schema.AnswerSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	return ParseAnswers(data)
}

// ParseAnswers decodes an answer set. Values are scalars or lists of scalars.
func ParseAnswers(data []byte) (schema.AnswerSet, error) {
	answers := schema.AnswerSet{}
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("malformed answers: %w", err)
	}
	return answers, nil
}

// AnswersFromMap converts a decoded JSON object into an answer set.
func AnswersFromMap(m map[string]any) (schema.AnswerSet, error) {
	answers := make(schema.AnswerSet, len(m))
	for key, raw := range m {
		a, err := schema.FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("answer %q: %w", key, err)
		}
		answers[key] = a
	}
	return answers, nil
}
