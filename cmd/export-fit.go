package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jpignata/garmin-training-plan/internal/fitfile"
	plansync "github.com/jpignata/garmin-training-plan/internal/sync"
	"github.com/jpignata/garmin-training-plan/internal/workout"
)

var (
	fitWeek   int
	fitOutDir string
)

var exportFitCmd = &cobra.Command{
	Use:   "export-fit",
	Short: "Write a week's workouts as FIT files for copying onto a watch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, _, err := loadPlan()
		if err != nil {
			return err
		}
		week, ok := plan.Week(fitWeek)
		if !ok {
			return fmt.Errorf("week %d not in plan, available weeks: %v", fitWeek, plan.WeekNumbers())
		}
		if err := os.MkdirAll(fitOutDir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", fitOutDir, err)
		}

		c := workout.NewCompiler(workout.Options{Paces: plan.Paces, Logger: logger})
		written := 0
		for _, day := range week.Days() {
			spec := week.Workouts[day]
			if spec.IsRest() {
				continue
			}

			w, err := c.Build(spec, plansync.WorkoutName(plan.GoalEvent.Name, fitWeek, day))
			if err != nil {
				logger.Error("workout failed", "day", day, "error", err)
				continue
			}

			path := filepath.Join(fitOutDir, fmt.Sprintf("week%02d_%s.fit", fitWeek, day))
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			werr := fitfile.Encode(f, w, fitfile.ShortName(fitWeek, day, spec.Type))
			if cerr := f.Close(); werr == nil {
				werr = cerr
			}
			if werr != nil {
				logger.Error("could not write fit file", "path", path, "error", werr)
				continue
			}
			logger.Info("wrote fit workout", "path", path)
			written++
		}

		fmt.Printf("✅ Wrote %d FIT workouts to %s\n", written, fitOutDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportFitCmd)
	exportFitCmd.Flags().IntVar(&fitWeek, "week", 0, "Plan week to export")
	exportFitCmd.Flags().StringVar(&fitOutDir, "out", ".", "Directory for the .fit files")
	_ = exportFitCmd.MarkFlagRequired("week")
}
