package algo

import (
	"testing"
	"time"

	"github.com/huangsam/maturity/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	periodStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	replanNow   = time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC)
)

func daysAgo(days int) *time.Time {
	t := replanNow.AddDate(0, 0, -days)
	return &t
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func ids(levers []schema.Lever) []string {
	out := make([]string, len(levers))
	for i, l := range levers {
		out[i] = l.ID
	}
	return out
}

func TestReplanOrdering(t *testing.T) {
	levers := []schema.Lever{
		{ID: "L1", Impact: 3, Effort: 3, BlockedAt: daysAgo(10)},
		{ID: "L2", Impact: 5, Effort: 1},
		{ID: "L3", Impact: 2, Effort: 2, BlockedAt: daysAgo(2)},
	}

	out := Replan(levers, periodStart, periodEnd, replanNow)

	assert.Equal(t, []string{"L1", "L3", "L2"}, ids(out))
	for i, l := range out {
		assert.Equal(t, i+1, l.Priority)
	}
}

func TestReplanRatioTieBreak(t *testing.T) {
	levers := []schema.Lever{
		{ID: "low", Impact: 1, Effort: 4},
		{ID: "default"}, // 3/3
		{ID: "high", Impact: 4, Effort: 0.5},
		{ID: "same-as-default", Impact: 2, Effort: 2},
	}

	out := Replan(levers, periodStart, periodEnd, replanNow)

	assert.Equal(t, []string{"high", "default", "same-as-default", "low"}, ids(out), "stable for equal ratios")
}

func TestReplanDueDates(t *testing.T) {
	levers := []schema.Lever{
		{ID: "no-due"},
		{ID: "early", DueDate: date(2024, 12, 1)},
		{ID: "late", DueDate: date(2025, 5, 1)},
		{ID: "pushed", DueDate: date(2025, 3, 1), BlockedAt: daysAgo(8)},
		{ID: "pushed-past-end", DueDate: date(2025, 3, 30), BlockedAt: daysAgo(9)},
		{ID: "recently-blocked", DueDate: date(2025, 3, 1), BlockedAt: daysAgo(7)},
	}

	out := Replan(levers, periodStart, periodEnd, replanNow)
	due := map[string]time.Time{}
	for _, l := range out {
		require.NotNil(t, l.DueDate, l.ID)
		due[l.ID] = *l.DueDate
	}

	assert.Equal(t, periodEnd, due["no-due"])
	assert.Equal(t, periodStart, due["early"])
	assert.Equal(t, periodEnd, due["late"])
	assert.Equal(t, *date(2025, 3, 4), due["pushed"])
	assert.Equal(t, periodEnd, due["pushed-past-end"], "nudged date snaps to period end")
	assert.Equal(t, *date(2025, 3, 1), due["recently-blocked"], "exactly seven days is not stale")
}

func TestReplanRiskAnnotation(t *testing.T) {
	levers := []schema.Lever{
		{ID: "a", BlockedAt: daysAgo(9), Risk: schema.RiskReason{Note: "vendor"}},
		{ID: "b", BlockedAt: daysAgo(20)},
		{ID: "c", BlockedAt: daysAgo(3)},
		{ID: "d"},
	}

	out := Replan(levers, periodStart, periodEnd, replanNow)

	flagged := []string{}
	for _, l := range out {
		if l.Risk.Has(schema.FlagConsiderReplacement) {
			flagged = append(flagged, l.ID)
		}
	}
	assert.Equal(t, []string{"b"}, flagged)
	assert.Equal(t, "| consider replacement", out[0].Risk.String())
	assert.Equal(t, "vendor", out[1].Risk.String())
}

func TestReplanNoStaleLeverNoAnnotation(t *testing.T) {
	levers := []schema.Lever{
		{ID: "a", BlockedAt: daysAgo(1)},
		{ID: "b"},
	}

	for _, l := range Replan(levers, periodStart, periodEnd, replanNow) {
		assert.True(t, l.Risk.IsEmpty(), l.ID)
	}
}

func TestReplanRiskIsNotDuplicated(t *testing.T) {
	levers := []schema.Lever{{ID: "a", BlockedAt: daysAgo(30)}}

	first := Replan(levers, periodStart, periodEnd, replanNow)
	second := Replan(first, periodStart, periodEnd, replanNow)

	assert.Equal(t, []schema.RiskFlag{schema.FlagConsiderReplacement}, second[0].Risk.Flags)
	assert.Equal(t, "| consider replacement", second[0].Risk.String())
}

func TestReplanEmpty(t *testing.T) {
	assert.Empty(t, Replan(nil, periodStart, periodEnd, replanNow))
	assert.Empty(t, Replan([]schema.Lever{}, periodStart, periodEnd, replanNow))
}

func TestReplanDoesNotMutateInput(t *testing.T) {
	levers := []schema.Lever{
		{ID: "x", Impact: 1, Priority: 1, DueDate: date(2025, 3, 1), BlockedAt: daysAgo(1)},
		{ID: "y", Impact: 5, Priority: 2, DueDate: date(2025, 3, 2), BlockedAt: daysAgo(12)},
	}
	snapshot := []schema.Lever{levers[0].Clone(), levers[1].Clone()}

	out := Replan(levers, periodStart, periodEnd, replanNow)

	assert.Equal(t, snapshot, levers)
	assert.Equal(t, []string{"y", "x"}, ids(out))
}

func TestReplanIdempotentWhenNothingIsStale(t *testing.T) {
	levers := []schema.Lever{
		{ID: "a", Impact: 2, Effort: 5, DueDate: date(2025, 2, 1)},
		{ID: "b", Impact: 4, Effort: 1, BlockedAt: daysAgo(5)},
		{ID: "c", Impact: 4, Effort: 2},
	}

	first := Replan(levers, periodStart, periodEnd, replanNow)
	second := Replan(first, periodStart, periodEnd, replanNow)

	assert.Equal(t, first, second)
}

func TestReplanSameInputSameOutput(t *testing.T) {
	levers := []schema.Lever{
		{ID: "a", BlockedAt: daysAgo(10), DueDate: date(2025, 3, 1)},
		{ID: "b", Impact: 5},
	}

	assert.Equal(t,
		Replan(levers, periodStart, periodEnd, replanNow),
		Replan(levers, periodStart, periodEnd, replanNow))
}

func TestRankLevers(t *testing.T) {
	levers := []schema.Lever{
		{ID: "a", Priority: 7},
		{ID: "b", Priority: 3, BlockedAt: daysAgo(1)},
	}
	RankLevers(levers, replanNow)

	assert.Equal(t, []string{"b", "a"}, ids(levers))
	assert.Equal(t, 1, levers[0].Priority)
	assert.Equal(t, 2, levers[1].Priority)
}
