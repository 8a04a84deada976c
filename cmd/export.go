package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jpignata/garmin-training-plan/internal/report"
)

var (
	exportDays    int
	exportOutput  string
	exportFormat  string
	exportContext string
	noAnalysis    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recent Garmin activities with splits for training analysis",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		days := cfg.Export.Days
		if cmd.Flags().Changed("days") {
			days = exportDays
		}
		format := strings.ToLower(exportFormat)
		if format != "markdown" && format != "parquet" {
			return fmt.Errorf("unsupported format %q (expected markdown|parquet)", exportFormat)
		}
		output := cfg.Export.Output
		if cmd.Flags().Changed("output") {
			output = exportOutput
		} else if format == "parquet" {
			output = "training_splits.parquet"
		}
		analysisContext := cfg.Export.Context
		if cmd.Flags().Changed("context") {
			analysisContext = exportContext
		}

		client, err := connectGarmin(ctx)
		if err != nil {
			return err
		}

		logger.Info("fetching activities", "days", days)
		activities, err := client.GetActivities(ctx, 0, report.FetchLimit)
		if err != nil {
			return fmt.Errorf("failed to fetch activities: %w", err)
		}

		now := time.Now()
		recent := report.FilterRecent(activities, now, days)
		if len(recent) == 0 {
			fmt.Println("No activities found in the specified time period")
			return nil
		}
		logger.Info("found activities", "count", len(recent))

		entries := make([]report.Entry, 0, len(recent))
		for i, a := range recent {
			logger.Info("processing activity", "n", i+1, "of", len(recent), "name", a.ActivityName)
			laps, err := client.GetSplits(ctx, a.ActivityID)
			if err != nil {
				logger.Warn("could not fetch splits", "activity_id", a.ActivityID, "error", err)
			}
			entries = append(entries, report.Entry{Activity: a, Laps: laps})
		}

		switch format {
		case "parquet":
			rows, err := report.WriteSplitsParquet(output, entries)
			if err != nil {
				return fmt.Errorf("write splits parquet: %w", err)
			}
			logger.Info("wrote splits", "rows", rows)
		default:
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			werr := report.WriteMarkdown(f, entries, report.Options{Now: now, Context: analysisContext, NoAnalysis: noAnalysis})
			if cerr := f.Close(); werr == nil {
				werr = cerr
			}
			if werr != nil {
				return fmt.Errorf("write %s: %w", output, werr)
			}
		}

		fmt.Printf("\n✅ Export complete: %s\n", output)
		fmt.Println(color.New(color.FgCyan).Sprint("\nNext steps:"))
		fmt.Printf("1. Review the file: %s\n", output)
		fmt.Println("2. Share it with your coach for training analysis")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().IntVar(&exportDays, "days", 15, "Number of days to look back")
	exportCmd.Flags().StringVar(&exportOutput, "output", "training_log.md", "Output filename")
	exportCmd.Flags().StringVar(&exportFormat, "format", "markdown", "Output format: markdown or parquet")
	exportCmd.Flags().StringVar(&exportContext, "context", "", "Context line appended to the analysis request")
	exportCmd.Flags().BoolVar(&noAnalysis, "no-analysis", false, "Leave the analysis request footer out of the markdown report")
}
