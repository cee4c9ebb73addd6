package schema

import "time"

// StoreStatus represents the status of the assessment store.
type StoreStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TotalScores    int              `json:"total_scores"`
	LastScoreID    int64            `json:"last_score_id"`
	LastScoreTime  time.Time        `json:"last_score_time"`
	TotalPlans     int              `json:"total_plans"`
	ActivePlans    int              `json:"active_plans"`
	TotalLevers    int              `json:"total_levers"`
	SizeBytes      int64            `json:"size_bytes"`
	TableSizes     map[string]int64 `json:"table_sizes"`
	OldestScoreAt  time.Time        `json:"oldest_score_time"`
	DatabaseTarget string           `json:"database_target,omitempty"`
}

// LeverRecord represents a row from the maturity_levers table joined with its plan.
type LeverRecord struct {
	Lever
	SubjectID  string
	PlanStatus PlanStatus
}
