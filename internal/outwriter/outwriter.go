// Package outwriter renders scores, brackets and growth plans as text tables, JSON or CSV.
package outwriter

import (
	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteScore prints a scoring report using the configured output format.
func (ow *OutWriter) WriteScore(report schema.ScoreReport, cfg *contract.Config) error {
	return WriteScoreReport(report, cfg)
}

// WritePlan prints a growth plan using the configured output format.
func (ow *OutWriter) WritePlan(report schema.PlanReport, cfg *contract.Config) error {
	return WritePlanReport(report, cfg)
}

// WriteBrackets prints the bracket ladder using the configured output format.
func (ow *OutWriter) WriteBrackets(rows []schema.BracketRow, base float64, cfg *contract.Config) error {
	return WriteBracketLadder(rows, base, cfg)
}

// WriteHistory prints the score history of a subject using the configured output format.
func (ow *OutWriter) WriteHistory(report schema.HistoryReport, cfg *contract.Config) error {
	return WriteHistoryReport(report, cfg)
}
