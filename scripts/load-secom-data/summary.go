package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/secom-mes/mes-engine/pkg/repositories"
)

// printSummary reports what was loaded and how the analytics views now read.
func printSummary(ctx context.Context, w io.Writer, stats *LoadStats, analytics repositories.AnalyticsRepository) error {
	summary, err := analytics.ProductionSummary(ctx)
	if err != nil {
		return err
	}
	buckets, err := analytics.RiskDistribution(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Lots loaded\t%d\n", stats.Lots)
	fmt.Fprintf(tw, "Measurements loaded\t%d\n", stats.Measurements)
	fmt.Fprintf(tw, "Failed lots loaded\t%d\n", stats.Failures)
	fmt.Fprintf(tw, "Importance scores\t%d\n", stats.Importances)
	fmt.Fprintf(tw, "Total lots\t%d\n", summary.TotalLots)
	fmt.Fprintf(tw, "Fail rate\t%.2f%%\n", summary.FailRatePct)
	fmt.Fprintf(tw, "Average quality score\t%.2f\n", summary.AvgQualityScore)
	if summary.FirstProductionDate != nil && summary.LastProductionDate != nil {
		fmt.Fprintf(tw, "Production window\t%s to %s\n",
			summary.FirstProductionDate.Format("2006-01-02"), summary.LastProductionDate.Format("2006-01-02"))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Risk bucket\tLots\tActual failures")
	for _, b := range buckets {
		fmt.Fprintf(tw, "%.1f\t%d\t%d\n", b.RiskBucket, b.LotCount, b.ActualFailures)
	}
	return tw.Flush()
}
