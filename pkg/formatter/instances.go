package formatter

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"costpush/internal/models"
)

// PrintInstanceCostTable prints a formatted table of per-instance
// monthly cost estimates
func PrintInstanceCostTable(records []models.InstanceCostRecord, scanTime time.Time, scanDuration time.Duration) {
	if len(records) == 0 {
		fmt.Println("No instances found.")
		return
	}

	// Sort by monthly total (most expensive first)
	sort.Slice(records, func(i, j int) bool {
		return records[i].MonthlyTotalCost > records[j].MonthlyTotalCost
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)

	fmt.Fprintln(w, "INSTANCE ID\tTYPE\tREGION\tVOLUMES\tHOURLY\tCOMPUTE/MO\tSTORAGE/MO\tTOTAL/MO")

	for _, record := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t$%.4f\t$%.2f\t$%.2f\t$%.2f\n",
			record.InstanceID,
			record.InstanceType,
			record.Region,
			formatVolumes(record.Volumes),
			record.HourlyComputePrice,
			record.MonthlyComputeCost,
			record.MonthlyStorageCost,
			record.MonthlyTotalCost,
		)
	}

	printInstanceTotals(w, records)

	w.Flush()
	printTimestamp(scanTime, scanDuration)
}

// formatVolumes renders the attached volumes as "gp3:20,io1:100" or
// "-" when none are attached
func formatVolumes(volumes []models.VolumeShape) string {
	if len(volumes) == 0 {
		return "-"
	}

	parts := lo.Map(volumes, func(v models.VolumeShape, _ int) string {
		return fmt.Sprintf("%s:%d", v.VolumeType, v.SizeGiB)
	})
	return strings.Join(parts, ",")
}

// printInstanceTotals prints the summary line at the bottom of the table
func printInstanceTotals(w *tabwriter.Writer, records []models.InstanceCostRecord) {
	totalMonthly := lo.SumBy(records, func(r models.InstanceCostRecord) float64 {
		return r.MonthlyTotalCost
	})
	totalStorage := lo.SumBy(records, func(r models.InstanceCostRecord) float64 {
		return r.MonthlyStorageCost
	})

	fmt.Fprintf(w, "TOTAL: %s instances\t\t\t\t\t\t$%s\t$%s\n",
		humanize.Comma(int64(len(records))),
		humanize.CommafWithDigits(totalStorage, 2),
		humanize.CommafWithDigits(totalMonthly, 2),
	)
}
