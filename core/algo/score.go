package algo

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/huangsam/maturity/schema"
)

// ErrInvalidBracket is returned when the base score resolves to a bracket
// that the scoring config does not define.
var ErrInvalidBracket = errors.New("invalid score bracket")

// ComputeScore turns an answer set into a weighted composite score using the
// rules of the bracket selected from baseScore. Per-answer problems are
// recorded as issues and contribute zero; only a missing bracket fails.
func ComputeScore(answers schema.AnswerSet, baseScore float64, cfg schema.ScoringConfig) (schema.ScoreResult, error) {
	bracket := SelectBracket(baseScore)
	rules, ok := cfg.RulesFor(bracket)
	if !ok {
		return schema.ScoreResult{}, fmt.Errorf("%w: %s", ErrInvalidBracket, bracket)
	}

	result := schema.ScoreResult{Bracket: bracket}
	var weighted, totalWeight float64

	for _, key := range slices.Sorted(maps.Keys(answers)) {
		answer := answers[key]
		rule, found := rules.Lookup(key)
		if !found {
			result.Issues = append(result.Issues, schema.Issue{
				Key:    key,
				Kind:   schema.IssueUnmatchedKey,
				Detail: fmt.Sprintf("no rule in bracket %s", bracket),
			})
			continue
		}

		var (
			sub    float64
			issues []schema.Issue
		)
		switch rule.Type {
		case schema.SingleChoice:
			sub, issues = scoreSingle(rule, answer)
		case schema.MultiChoice:
			sub, issues = scoreMulti(rule, answer)
		default:
			continue
		}

		result.Issues = append(result.Issues, issues...)
		weighted += sub * rule.Weight
		totalWeight += rule.Weight
		result.Scored++
	}

	if totalWeight > 0 {
		result.Composite = weighted / totalWeight
	}
	result.Score = RoundHalf(result.Composite)
	return result, nil
}

// scoreSingle maps one token through the rule values.
func scoreSingle(rule schema.Rule, answer schema.Answer) (float64, []schema.Issue) {
	if answer.List {
		return 0, []schema.Issue{{
			Key:    rule.Key,
			Kind:   schema.IssueTypeMismatch,
			Detail: fmt.Sprintf("expected a single token, received %s", answer),
		}}
	}
	v, ok := rule.Value(answer.Text)
	if !ok {
		return 0, []schema.Issue{{
			Key:    rule.Key,
			Kind:   schema.IssueUnmappedValue,
			Detail: fmt.Sprintf("option %q has no value", answer.Text),
		}}
	}
	return v, nil
}

// scoreMulti averages the non-zero sub-scores of the selected tokens.
func scoreMulti(rule schema.Rule, answer schema.Answer) (float64, []schema.Issue) {
	var (
		sum    float64
		count  int
		issues []schema.Issue
	)
	for _, token := range answer.Choices() {
		v, ok := rule.Value(token)
		if !ok {
			issues = append(issues, schema.Issue{
				Key:    rule.Key,
				Kind:   schema.IssueUnmappedValue,
				Detail: fmt.Sprintf("option %q has no value", token),
			})
			continue
		}
		if v == 0 {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return 0, issues
	}
	return sum / float64(count), issues
}
