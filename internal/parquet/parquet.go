// Package parquet provides data structures and functions for exporting stored
// scores and levers to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/maturity/schema"
	"github.com/parquet-go/parquet-go"
)

// Score represents one recorded assessment score.
// This struct maps to the maturity_scores database table.
type Score struct {
	// ScoreID is the unique identifier for this score
	ScoreID int64 `parquet:"score_id,snappy"`

	// SubjectID identifies the assessed business
	SubjectID string `parquet:"subject_id,snappy,dict"`

	// BaseScore is the prior score used to pick the bracket
	BaseScore float64 `parquet:"base_score,snappy"`

	// Score is the composite rounded to the nearest half point
	Score float64 `parquet:"score,snappy"`

	// Composite is the unrounded weighted mean
	Composite float64 `parquet:"composite,snappy"`

	// Bracket is the rubric bracket that was applied
	Bracket string `parquet:"bracket,snappy,dict"`

	IssueCount  int32 `parquet:"issue_count,snappy"`
	AnswerCount int32 `parquet:"answer_count,snappy"`

	// RubricPath is the rubric file used, if recorded (nullable)
	RubricPath *string `parquet:"rubric_path,optional,snappy"`

	// RecordedAt is when the score was computed (stored as TIMESTAMP with nanosecond precision)
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// Lever represents one growth plan lever with its plan context.
// This struct maps to the maturity_levers table joined with maturity_plans.
type Lever struct {
	LeverID    string `parquet:"lever_id,snappy"`
	PlanID     string `parquet:"plan_id,snappy,dict"`
	SubjectID  string `parquet:"subject_id,snappy,dict"`
	PlanStatus string `parquet:"plan_status,snappy,dict"`
	Title      string `parquet:"title,snappy"`
	Priority   int32  `parquet:"priority,snappy"`

	Impact float64 `parquet:"impact,snappy"`
	Effort float64 `parquet:"effort,snappy"`

	// DueDate is the scheduled completion (nullable)
	DueDate *time.Time `parquet:"due_date,optional,snappy"`

	// BlockedAt is when the lever became blocked (nullable)
	BlockedAt *time.Time `parquet:"blocked_at,optional,snappy"`

	Completed bool `parquet:"completed,snappy"`

	// RiskReason is the rendered note and flags (nullable)
	RiskReason *string `parquet:"risk_reason,optional,snappy"`
}

// WriteScoresParquet writes a slice of Score structs to a Parquet file.
func WriteScoresParquet(data []Score, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteLeversParquet writes a slice of Lever structs to a Parquet file.
func WriteLeversParquet(data []Lever, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows using a schema derived from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer; the file is unreadable without it
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertScoreRecords converts schema.ScoreRecord to Score for Parquet export.
func ConvertScoreRecords(records []schema.ScoreRecord) []Score {
	result := make([]Score, len(records))
	for i, record := range records {
		result[i] = Score{
			ScoreID:     record.ID,
			SubjectID:   record.SubjectID,
			BaseScore:   record.BaseScore,
			Score:       record.Score,
			Composite:   record.Composite,
			Bracket:     string(record.Bracket),
			IssueCount:  int32(record.IssueCount),
			AnswerCount: int32(record.AnswerCount),
			RubricPath:  optionalString(record.RubricPath),
			RecordedAt:  record.RecordedAt,
		}
	}
	return result
}

// ConvertLeverRecords converts schema.LeverRecord to Lever for Parquet export.
func ConvertLeverRecords(records []schema.LeverRecord) []Lever {
	result := make([]Lever, len(records))
	for i, record := range records {
		result[i] = Lever{
			LeverID:    record.ID,
			PlanID:     record.PlanID,
			SubjectID:  record.SubjectID,
			PlanStatus: string(record.PlanStatus),
			Title:      record.Title,
			Priority:   int32(record.Priority),
			Impact:     record.Impact,
			Effort:     record.Effort,
			DueDate:    record.DueDate,
			BlockedAt:  record.BlockedAt,
			Completed:  record.Completed,
			RiskReason: optionalString(record.Risk.String()),
		}
	}
	return result
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
