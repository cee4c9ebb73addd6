package core

import (
	"cmp"
	"context"
	"slices"

	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/internal/outwriter"
	"github.com/huangsam/maturity/schema"
)

// ExecuteHistory prints how the recorded score of the configured subject moved over time.
func ExecuteHistory(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	report, err := GetHistoryResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteHistory(report, cfg)
}

// GetHistoryResult collects the subject's scores recorded up to cfg.Now.
// The first point has a zero delta; cfg.Limit keeps only the newest points.
func GetHistoryResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.HistoryReport, error) {
	store, err := requireStore(mgr)
	if err != nil {
		return schema.HistoryReport{}, err
	}

	records, err := store.ListScores(ctx)
	if err != nil {
		return schema.HistoryReport{}, err
	}

	var mine []schema.ScoreRecord
	for _, r := range records {
		if r.SubjectID != cfg.SubjectID {
			continue
		}
		if !cfg.Now.IsZero() && r.RecordedAt.After(cfg.Now) {
			continue
		}
		mine = append(mine, r)
	}
	slices.SortStableFunc(mine, func(a, b schema.ScoreRecord) int {
		return cmp.Or(a.RecordedAt.Compare(b.RecordedAt), cmp.Compare(a.ID, b.ID))
	})

	points := make([]schema.HistoryPoint, len(mine))
	for i, r := range mine {
		points[i] = schema.HistoryPoint{ScoreRecord: r}
		if i > 0 {
			points[i].Delta = r.Score - mine[i-1].Score
		}
	}
	if cfg.Limit > 0 && len(points) > cfg.Limit {
		points = points[len(points)-cfg.Limit:]
	}

	return schema.HistoryReport{SubjectID: cfg.SubjectID, Points: points}, nil
}
