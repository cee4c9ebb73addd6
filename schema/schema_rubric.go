package schema

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Rule scores one question of a rubric.
type Rule struct {
	Key    string             `json:"key" yaml:"key"`
	Type   QuestionType       `json:"type" yaml:"type"`
	Weight float64            `json:"weight" yaml:"weight"`
	Values map[string]float64 `json:"values,omitempty" yaml:"values,omitempty"`
}

// IsChoice reports whether the rule maps option tokens to sub-scores.
func (r Rule) IsChoice() bool {
	return r.Type == SingleChoice || r.Type == MultiChoice
}

// Value returns the sub-score for a token and whether the token is mapped.
func (r Rule) Value(token string) (float64, bool) {
	v, ok := r.Values[token]
	return v, ok
}

// Validate checks a single rule in isolation.
func (r Rule) Validate() error {
	if r.Key == "" {
		return fmt.Errorf("rule key must not be empty")
	}
	if _, ok := ValidQuestionTypes[r.Type]; !ok {
		return fmt.Errorf("rule %q: unknown type %q. must be single_choice, multi_choice, free_text", r.Key, r.Type)
	}
	if r.Weight < 0 || math.IsNaN(r.Weight) || math.IsInf(r.Weight, 0) {
		return fmt.Errorf("rule %q: weight must be a non-negative number (received %v)", r.Key, r.Weight)
	}
	if r.Type == FreeText {
		if len(r.Values) > 0 {
			return fmt.Errorf("rule %q: free_text rules cannot carry values", r.Key)
		}
		return nil
	}
	if len(r.Values) == 0 {
		return fmt.Errorf("rule %q: %s rules need at least one value", r.Key, r.Type)
	}
	for option, v := range r.Values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("rule %q: value for option %q must be non-negative (received %v)", r.Key, option, v)
		}
	}
	return nil
}

// RuleSet is the ordered list of rules for one bracket.
type RuleSet []Rule

// Lookup returns the rule with the given key.
func (rs RuleSet) Lookup(key string) (Rule, bool) {
	for _, r := range rs {
		if r.Key == key {
			return r, true
		}
	}
	return Rule{}, false
}

// Validate checks every rule and the uniqueness of keys.
func (rs RuleSet) Validate() error {
	seen := make(map[string]struct{}, len(rs))
	for _, r := range rs {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := seen[r.Key]; dup {
			return fmt.Errorf("duplicate rule key %q", r.Key)
		}
		seen[r.Key] = struct{}{}
	}
	return nil
}

// TotalWeight sums the weights of all choice rules.
func (rs RuleSet) TotalWeight() float64 {
	var sum float64
	for _, r := range rs {
		if r.IsChoice() {
			sum += r.Weight
		}
	}
	return sum
}

// ScoringConfig maps each bracket to the rules used when a submission falls into it.
type ScoringConfig struct {
	Brackets map[Bracket]RuleSet `json:"brackets" yaml:"brackets"`
}

// RulesFor returns the rule set of a bracket.
func (c ScoringConfig) RulesFor(b Bracket) (RuleSet, bool) {
	rs, ok := c.Brackets[b]
	return rs, ok
}

// Validate checks that every bracket key is known and every rule set is well-formed.
func (c ScoringConfig) Validate() error {
	if len(c.Brackets) == 0 {
		return fmt.Errorf("scoring config has no brackets")
	}
	for _, b := range c.SortedBrackets() {
		if _, ok := ValidBrackets[b]; !ok {
			return fmt.Errorf("unknown bracket %q", b)
		}
		if err := c.Brackets[b].Validate(); err != nil {
			return fmt.Errorf("bracket %s: %w", b, err)
		}
	}
	return nil
}

// SortedBrackets returns the configured brackets in ascending order.
func (c ScoringConfig) SortedBrackets() []Bracket {
	out := make([]Bracket, 0, len(c.Brackets))
	for b := range c.Brackets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Floor() < out[j].Floor()
	})
	return out
}

// Floor returns the lower bound of the bracket, or 0 for unknown brackets.
func (b Bracket) Floor() float64 {
	if _, ok := ValidBrackets[b]; !ok {
		return 0
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0
	}
	return v
}
