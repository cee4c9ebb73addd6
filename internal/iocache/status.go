package iocache

import (
	"fmt"
	"maps"
	"slices"

	"github.com/huangsam/maturity/schema"
)

// PrintStoreStatus prints assessment store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	if status.DatabaseTarget != "" {
		fmt.Printf("Target: %s\n", status.DatabaseTarget)
	}
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Scores: %d\n", status.TotalScores)
	if status.TotalScores > 0 {
		fmt.Printf("Last Score ID: %d\n", status.LastScoreID)
		fmt.Printf("Last Score: %s\n", status.LastScoreTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Score: %s\n", status.OldestScoreAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Plans: %d (%d active)\n", status.TotalPlans, status.ActivePlans)
	fmt.Printf("Levers: %d\n", status.TotalLevers)
	fmt.Println("Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
	if status.SizeBytes > 0 {
		fmt.Printf("Size: %d bytes\n", status.SizeBytes)
	}
}
