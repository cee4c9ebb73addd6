package algo

import (
	"time"

	"github.com/huangsam/maturity/schema"
)

const (
	// StaleBlockThreshold is how long a lever must be blocked before it is pushed back.
	StaleBlockThreshold = 7 * 24 * time.Hour

	// PushbackDays is the one-time nudge applied per run to a stale blocked lever.
	PushbackDays = 3
)

// Replan re-orders and reschedules the levers of one plan at instant now.
// It returns a new slice and leaves the input untouched. Every returned lever
// carries a dense priority and a due date clamped to [periodStart, periodEnd].
// The longest blocked lever past the threshold gets the replacement flag once.
func Replan(levers []schema.Lever, periodStart, periodEnd, now time.Time) []schema.Lever {
	out := make([]schema.Lever, len(levers))
	for i, l := range levers {
		out[i] = l.Clone()
	}
	if len(out) == 0 {
		return out
	}

	RankLevers(out, now)

	worst := -1
	for i := range out {
		l := &out[i]
		stale := isStale(*l, now)

		due := periodEnd
		if l.DueDate != nil {
			due = *l.DueDate
		}
		if stale {
			due = due.AddDate(0, 0, PushbackDays)
		}
		due = clamp(due, periodStart, periodEnd)
		l.DueDate = &due

		if stale && (worst < 0 || l.BlockedAt.Before(*out[worst].BlockedAt)) {
			worst = i
		}
	}

	if worst >= 0 {
		out[worst].Risk = out[worst].Risk.With(schema.FlagConsiderReplacement)
	}
	return out
}

// isStale reports whether the lever has been blocked for more than the threshold.
func isStale(l schema.Lever, now time.Time) bool {
	return l.BlockedAt != nil && l.BlockedFor(now) > StaleBlockThreshold
}

func clamp(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}
