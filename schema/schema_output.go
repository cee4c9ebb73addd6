package schema

import "time"

// EnrichedLever adds presentation data to a Lever.
type EnrichedLever struct {
	Lever
	Ratio   float64 `json:"ratio"`
	Blocked bool    `json:"blocked"`
}

// GetPlainLabel returns a plain text maturity label for a score on the 1-5 scale.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 4.5:
		return "Optimized"
	case score >= 3.5:
		return "Managed"
	case score >= 2.5:
		return "Defined"
	case score >= 1.5:
		return "Developing"
	default:
		return "Initial"
	}
}

// EnrichLevers adds the ratio and blocked marker to a list of levers.
func EnrichLevers(levers []Lever) []EnrichedLever {
	output := make([]EnrichedLever, len(levers))
	for i, l := range levers {
		output[i] = EnrichedLever{
			Lever:   l,
			Ratio:   l.Ratio(),
			Blocked: l.BlockedAt != nil,
		}
	}
	return output
}

// ScoreReport is the rendered outcome of one scoring run.
type ScoreReport struct {
	SubjectID  string      `json:"subject_id"`
	BaseScore  float64     `json:"base_score"`
	Label      string      `json:"label"`
	ScoreID    int64       `json:"score_id,omitempty"`
	RubricPath string      `json:"rubric_path,omitempty"`
	RecordedAt time.Time   `json:"recorded_at"`
	Result     ScoreResult `json:"result"`
}

// PlanReport is the rendered state of a growth plan at a reference instant.
type PlanReport struct {
	PlanID      string          `json:"plan_id"`
	SubjectID   string          `json:"subject_id"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Now         time.Time       `json:"now"`
	Replanned   bool            `json:"replanned"`
	Levers      []EnrichedLever `json:"levers"`
}

// BracketRow describes one bracket of the ladder.
type BracketRow struct {
	Bracket     Bracket `json:"bracket"`
	Floor       float64 `json:"floor"`
	Selected    bool    `json:"selected"`
	Rules       int     `json:"rules"`
	TotalWeight float64 `json:"total_weight"`
}

// HistoryPoint is one recorded score with its change from the previous one.
type HistoryPoint struct {
	ScoreRecord
	Delta float64 `json:"delta"`
}

// HistoryReport is the score trajectory of one subject, oldest first.
type HistoryReport struct {
	SubjectID string         `json:"subject_id"`
	Points    []HistoryPoint `json:"points"`
}

// Latest returns the newest point and whether there is one.
func (h HistoryReport) Latest() (HistoryPoint, bool) {
	if len(h.Points) == 0 {
		return HistoryPoint{}, false
	}
	return h.Points[len(h.Points)-1], true
}
