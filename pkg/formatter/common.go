package formatter

import (
	"fmt"
	"time"
)

// printTimestamp prints the scan timestamp and duration
func printTimestamp(scanStartTime time.Time, scanDuration time.Duration) {
	timeStr := scanStartTime.Format("2006-01-02 15:04:05")
	durationStr := fmt.Sprintf("%.2fs", scanDuration.Seconds())

	fmt.Printf("Scan completed at %s (took %s)\n", timeStr, durationStr)
}
