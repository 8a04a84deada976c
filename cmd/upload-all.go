package cmd

import (
	"context"

	"github.com/spf13/cobra"

	plansync "github.com/jpignata/garmin-training-plan/internal/sync"
)

var uploadDryRun bool

var uploadAllCmd = &cobra.Command{
	Use:   "upload-all",
	Short: "Upload and schedule every workout in the training plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd.Context(), "upload-all", uploadDryRun,
			func(ctx context.Context, s *plansync.Syncer) (plansync.Summary, error) {
				return s.UploadAll(ctx), nil
			})
	},
}

func init() {
	rootCmd.AddCommand(uploadAllCmd)
	uploadAllCmd.Flags().BoolVar(&uploadDryRun, "dry-run", false, "Compile every workout without contacting Garmin Connect")
}
