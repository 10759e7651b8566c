package iostore

import (
	"fmt"

	"github.com/sitepulse/sitepulse/schema"
)

// PrintStoreStatus prints store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Reports: %d\n", status.TotalReports)
	fmt.Printf("Total History Points: %d\n", status.TotalPoints)
	fmt.Printf("Total Schedules: %d\n", status.TotalSchedules)
	if status.TotalReports > 0 {
		fmt.Printf("Last Report: %s\n", status.LastReportTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Report: %s\n", status.OldestReportTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Println("Table Sizes:")
	for table, size := range status.TableSizes {
		fmt.Printf("  %s: %d rows\n", table, size)
	}
}
