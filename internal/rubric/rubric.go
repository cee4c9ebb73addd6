// Package rubric loads scoring rubrics and answer sets from YAML or JSON files.
package rubric

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/huangsam/maturity/schema"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed rubric.schema.json
var rubricSchemaJSON []byte

const rubricSchemaURL = "https://maturity.schemas.local/rubric.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileErr     error
	compileOnce    sync.Once
)

// rubricSchema compiles the embedded JSON Schema once.
func rubricSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(rubricSchemaURL, bytes.NewReader(rubricSchemaJSON)); err != nil {
			compileErr = fmt.Errorf("rubric schema load failed: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(rubricSchemaURL)
	})
	return compiledSchema, compileErr
}

// rawRubric mirrors the file layout before bracket keys are normalized.
type rawRubric struct {
	Brackets map[string]schema.RuleSet `yaml:"brackets"`
}

// Load reads and validates the rubric at path.
func Load(path string) (schema.ScoringConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.ScoringConfig{}, fmt.Errorf("read rubric: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return schema.ScoringConfig{}, fmt.Errorf("rubric %s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates a YAML or JSON rubric document against the rubric schema
// and converts it into a typed scoring config.
func Parse(data []byte) (schema.ScoringConfig, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return schema.ScoringConfig{}, fmt.Errorf("malformed rubric: %w", err)
	}
	if err := validateDocument(&doc); err != nil {
		return schema.ScoringConfig{}, err
	}

	var raw rawRubric
	if err := doc.Decode(&raw); err != nil {
		return schema.ScoringConfig{}, fmt.Errorf("decode rubric: %w", err)
	}

	cfg := schema.ScoringConfig{Brackets: make(map[schema.Bracket]schema.RuleSet, len(raw.Brackets))}
	for key, rules := range raw.Brackets {
		b, err := NormalizeBracket(key)
		if err != nil {
			return schema.ScoringConfig{}, err
		}
		if _, dup := cfg.Brackets[b]; dup {
			return schema.ScoringConfig{}, fmt.Errorf("bracket %s is defined twice", b)
		}
		cfg.Brackets[b] = rules
	}
	if err := cfg.Validate(); err != nil {
		return schema.ScoringConfig{}, err
	}
	return cfg, nil
}

// NormalizeBracket turns keys such as "3" or "3.0" into a known bracket.
func NormalizeBracket(key string) (schema.Bracket, error) {
	v, err := strconv.ParseFloat(key, 64)
	if err != nil {
		return "", fmt.Errorf("unknown bracket %q", key)
	}
	b := schema.Bracket(strconv.FormatFloat(v, 'f', 1, 64))
	if _, ok := schema.ValidBrackets[b]; !ok {
		return "", fmt.Errorf("unknown bracket %q", key)
	}
	return b, nil
}

// validateDocument checks the YAML tree against the embedded JSON Schema.
func validateDocument(doc *yaml.Node) error {
	sch, err := rubricSchema()
	if err != nil {
		return err
	}
	generic, err := nodeToValue(doc)
	if err != nil {
		return err
	}

	// Round trip through JSON so numbers arrive as json.Number.
	buf, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("encode rubric: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("encode rubric: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("rubric schema validation failed: %w", err)
	}
	return nil
}

// nodeToValue converts a YAML tree into plain Go values with string map keys.
func nodeToValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeToValue(n.Content[0])
	case yaml.AliasNode:
		return nodeToValue(n.Alias)
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeToValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[n.Content[i].Value] = v
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := nodeToValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
}
