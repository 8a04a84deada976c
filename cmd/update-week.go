package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	plansync "github.com/jpignata/garmin-training-plan/internal/sync"
)

var updateDryRun bool

var updateWeekCmd = &cobra.Command{
	Use:   "update-week <week>",
	Short: "Replace one week: delete its uploaded workouts and upload it again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid week number: %s", args[0])
		}

		return runBatch(cmd.Context(), "update-week", updateDryRun,
			func(ctx context.Context, s *plansync.Syncer) (plansync.Summary, error) {
				return s.UpdateWeek(ctx, week)
			})
	},
}

func init() {
	rootCmd.AddCommand(updateWeekCmd)
	updateWeekCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "Compile the week without contacting Garmin Connect")
}
