package algo

import (
	"sort"
	"time"

	"github.com/huangsam/maturity/schema"
)

// RankLevers sorts levers in place: longest blocked first, then by
// impact/effort ratio descending. The sort is stable so ties keep their
// prior relative order. Priorities are reassigned densely from 1.
func RankLevers(levers []schema.Lever, now time.Time) {
	sort.SliceStable(levers, func(i, j int) bool {
		bi, bj := levers[i].BlockedFor(now), levers[j].BlockedFor(now)
		if bi != bj {
			return bi > bj
		}
		return levers[i].Ratio() > levers[j].Ratio()
	})
	for i := range levers {
		levers[i].Priority = i + 1
	}
}
