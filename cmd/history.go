package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jpignata/garmin-training-plan/internal/models"
	"github.com/jpignata/garmin-training-plan/internal/storage"
)

var (
	historyWeek int
	historyAll  bool
	historyRuns int
)

// historyCmd shows what the ledger remembers, grouped by plan week.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display uploaded workouts from the ledger, grouped by week, and the most recent batch runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := requireLedger()
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.ListUploads(ctx, storage.UploadFilter{Week: historyWeek, IncludeDeleted: historyAll})
		if err != nil {
			return fmt.Errorf("failed to retrieve uploads: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No uploads recorded.")
		}

		grouped := make(map[int][]models.UploadRecord)
		for _, r := range records {
			grouped[r.Week] = append(grouped[r.Week], r)
		}
		var weeks []int
		for w := range grouped {
			weeks = append(weeks, w)
		}
		sort.Ints(weeks)

		dim := color.New(color.FgHiBlack).SprintFunc()
		for _, w := range weeks {
			fmt.Println(color.New(color.FgGreen, color.Bold).Sprintf("Week %d", w))
			for _, r := range grouped[w] {
				status := color.GreenString("scheduled")
				if !r.Scheduled {
					status = color.YellowString("unscheduled")
				}
				if r.DeletedAt != nil {
					status = color.RedString("deleted %s", r.DeletedAt.Local().Format("2006-01-02"))
				}
				fmt.Printf("  %s  %-9s %-40s %s %s\n",
					r.ScheduledDate, r.Day, r.WorkoutName, status, dim(fmt.Sprintf("#%d", r.WorkoutID)))
			}
			fmt.Println()
		}

		if historyRuns <= 0 {
			return nil
		}
		runs, err := st.ListRuns(ctx, historyRuns)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return nil
		}
		fmt.Println(color.New(color.FgCyan, color.Bold).Sprint("Recent runs:"))
		for _, run := range runs {
			duration := "In progress"
			if run.FinishedAt != nil {
				duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
			}
			fmt.Printf("  %s  %-12s %d/%d succeeded, %d failed | Duration: %s\n",
				run.StartedAt.Local().Format("2006-01-02 15:04"),
				run.Command, run.Succeeded, run.Attempted, run.Failed, duration)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyWeek, "week", "w", 0, "Only show uploads for this plan week")
	historyCmd.Flags().BoolVarP(&historyAll, "all", "a", false, "Include workouts that were deleted")
	historyCmd.Flags().IntVar(&historyRuns, "runs", 5, "Number of recent batch runs to list (0 to hide)")
}
