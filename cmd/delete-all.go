package cmd

import (
	"context"

	"github.com/spf13/cobra"

	plansync "github.com/jpignata/garmin-training-plan/internal/sync"
)

var deleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Delete every uploaded workout named after the plan's goal event",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd.Context(), "delete-all", false,
			func(ctx context.Context, s *plansync.Syncer) (plansync.Summary, error) {
				return s.DeleteAll(ctx), nil
			})
	},
}

func init() {
	rootCmd.AddCommand(deleteAllCmd)
}
