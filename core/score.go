package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/maturity/core/algo"
	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/internal/outwriter"
	"github.com/huangsam/maturity/internal/rubric"
	"github.com/huangsam/maturity/schema"
)

// ExecuteScore loads the rubric and answer files, scores them for the configured
// subject and records the result when a store is enabled.
func ExecuteScore(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.RubricPath == "" {
		return errors.New("--rubric is required")
	}
	if cfg.AnswersPath == "" {
		return errors.New("--answers is required")
	}

	scoring, err := rubric.Load(cfg.RubricPath)
	if err != nil {
		return err
	}
	answers, err := rubric.LoadAnswers(cfg.AnswersPath)
	if err != nil {
		return err
	}

	release, err := acquireLock(ctx, mgr, scoreLockPrefix+cfg.SubjectID, cfg.LockTTL)
	if err != nil {
		return err
	}
	defer release()

	report, err := GetScoreResult(ctx, cfg, answers, scoring)
	if err != nil {
		return err
	}
	report.RubricPath = cfg.RubricPath

	if mgr != nil {
		if store := mgr.GetAssessmentStore(); store != nil {
			id, err := store.RecordScore(ctx, toScoreRecord(report, len(answers)))
			if err != nil {
				contract.LogWarn("Failed to record score", err)
			} else {
				report.ScoreID = id
			}
		}
	}

	return outwriter.NewOutWriter().WriteScore(report, cfg)
}

// GetScoreResult scores an answer set against a rubric at the configured base score.
// It does not persist anything, so the CLI and the MCP server can share it.
func GetScoreResult(ctx context.Context, cfg *contract.Config, answers schema.AnswerSet, scoring schema.ScoringConfig) (schema.ScoreReport, error) {
	result, err := algo.ComputeScore(answers, cfg.BaseScore, scoring)
	if err != nil {
		return schema.ScoreReport{}, err
	}

	if !shouldSuppressIssues(ctx) {
		logIssues(cfg, result.Issues)
	}

	recordedAt := cfg.Now
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	return schema.ScoreReport{
		SubjectID:  cfg.SubjectID,
		BaseScore:  cfg.BaseScore,
		Label:      schema.GetPlainLabel(result.Score),
		RecordedAt: recordedAt,
		Result:     result,
	}, nil
}

// logIssues prints every issue in verbose mode and a one-line summary otherwise.
func logIssues(cfg *contract.Config, issues []schema.Issue) {
	if len(issues) == 0 {
		return
	}
	if cfg.Verbose {
		for _, issue := range issues {
			contract.LogIssue(issue)
		}
		return
	}
	contract.LogWarn("Scoring", fmt.Errorf("%d scoring issues recorded (use --verbose for details)", len(issues)))
}

func toScoreRecord(report schema.ScoreReport, answerCount int) schema.ScoreRecord {
	return schema.ScoreRecord{
		SubjectID:   report.SubjectID,
		BaseScore:   report.BaseScore,
		Score:       report.Result.Score,
		Composite:   report.Result.Composite,
		Bracket:     report.Result.Bracket,
		IssueCount:  len(report.Result.Issues),
		AnswerCount: answerCount,
		RubricPath:  report.RubricPath,
		RecordedAt:  report.RecordedAt,
	}
}

// ExecuteBrackets prints the bracket ladder and marks the bracket selected by
// the base score. With --rubric the rule counts of every bracket are included.
func ExecuteBrackets(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	var scoring schema.ScoringConfig
	if cfg.RubricPath != "" {
		var err error
		if scoring, err = rubric.Load(cfg.RubricPath); err != nil {
			return err
		}
	}
	rows := BuildBracketRows(cfg.BaseScore, scoring)
	return outwriter.NewOutWriter().WriteBrackets(rows, cfg.BaseScore, cfg)
}

// BuildBracketRows describes every bracket in ascending order.
func BuildBracketRows(base float64, scoring schema.ScoringConfig) []schema.BracketRow {
	selected := algo.SelectBracket(base)
	rows := make([]schema.BracketRow, 0, len(schema.AllBrackets))
	for _, b := range schema.AllBrackets {
		row := schema.BracketRow{
			Bracket:  b,
			Floor:    b.Floor(),
			Selected: b == selected,
		}
		if rules, ok := scoring.RulesFor(b); ok {
			row.Rules = len(rules)
			row.TotalWeight = rules.TotalWeight()
		}
		rows = append(rows, row)
	}
	return rows
}
