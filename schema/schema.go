// Package schema has configs, models and constants for all parts of maturity.
package schema

import "time"

// Issue is a recoverable problem found while scoring one answer.
// Issues are diagnostic only and never change whether scoring succeeds.
type Issue struct {
	Key    string    `json:"key"`
	Kind   IssueKind `json:"kind"`
	Detail string    `json:"detail,omitempty"`
}

// ScoreResult is the outcome of scoring one answer set.
type ScoreResult struct {
	Score     float64 `json:"score"`     // Composite rounded to the 0.5 grid
	Composite float64 `json:"composite"` // Unrounded weighted mean
	Bracket   Bracket `json:"bracket"`   // Bracket selected from the base score
	Scored    int     `json:"scored"`    // Number of answers that carried weight
	Issues    []Issue `json:"issues,omitempty"`
}

// ScoreRecord is a persisted score for one subject.
type ScoreRecord struct {
	ID          int64     `json:"id"`
	SubjectID   string    `json:"subject_id"`
	BaseScore   float64   `json:"base_score"`
	Score       float64   `json:"score"`
	Composite   float64   `json:"composite"`
	Bracket     Bracket   `json:"bracket"`
	IssueCount  int       `json:"issue_count"`
	RubricPath  string    `json:"rubric_path"`
	RecordedAt  time.Time `json:"recorded_at"`
	AnswerCount int       `json:"answer_count"`
}
