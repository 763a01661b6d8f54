package formatter

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"costpush/internal/models"
)

// monthOrder positions calendar month names for stable table output.
var monthOrder = map[string]int{
	"January": 1, "February": 2, "March": 3, "April": 4,
	"May": 5, "June": 6, "July": 7, "August": 8,
	"September": 9, "October": 10, "November": 11, "December": 12,
}

// PrintAccountCostTable prints the per-month unblended cost of one account
func PrintAccountCostTable(summary models.MonthlyCostSummary, accountID string, scanTime time.Time, scanDuration time.Duration) {
	if len(summary) == 0 {
		fmt.Printf("No cost data found for account %s.\n", accountID)
		return
	}

	months := make([]string, 0, len(summary))
	for month := range summary {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool {
		return monthOrder[months[i]] < monthOrder[months[j]]
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)

	fmt.Fprintf(w, "Account: %s\n", accountID)
	fmt.Fprintln(w, "MONTH\tUNBLENDED COST")

	var total float64
	for _, month := range months {
		fmt.Fprintf(w, "%s\t$%s\n", month, humanize.CommafWithDigits(summary[month], 2))
		total += summary[month]
	}

	fmt.Fprintf(w, "TOTAL\t$%s\n", humanize.CommafWithDigits(total, 2))

	w.Flush()
	printTimestamp(scanTime, scanDuration)
}
