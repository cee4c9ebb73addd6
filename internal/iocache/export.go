package iocache

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/internal/parquet"
)

// ExecuteStoreExport exports stored scores and levers to Parquet files.
func ExecuteStoreExport(ctx context.Context, store contract.AssessmentStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("assessment store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalScores == 0 && status.TotalLevers == 0 {
		return errors.New("no assessment data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total scores: %d\n", status.TotalScores)
	fmt.Printf("Total levers: %d\n", status.TotalLevers)

	scores, err := store.ListScores(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve scores: %w", err)
	}
	levers, err := store.ListLevers(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve levers: %w", err)
	}

	scoresFile := outputFile + ".scores.parquet"
	scoreRows := parquet.ConvertScoreRecords(scores)
	if err := parquet.WriteScoresParquet(scoreRows, scoresFile); err != nil {
		return fmt.Errorf("failed to write scores: %w", err)
	}
	fmt.Printf("Exported %d scores to: %s\n", len(scoreRows), scoresFile)

	leversFile := outputFile + ".levers.parquet"
	leverRows := parquet.ConvertLeverRecords(levers)
	if err := parquet.WriteLeversParquet(leverRows, leversFile); err != nil {
		return fmt.Errorf("failed to write levers: %w", err)
	}
	fmt.Printf("Exported %d levers to: %s\n", len(leverRows), leversFile)

	return nil
}
