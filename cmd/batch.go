package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/jpignata/garmin-training-plan/internal/garmin"
	"github.com/jpignata/garmin-training-plan/internal/storage"
	plansync "github.com/jpignata/garmin-training-plan/internal/sync"
	"github.com/jpignata/garmin-training-plan/internal/workout"
)

var (
	_ plansync.Remote = (*garmin.Client)(nil)
	_ plansync.Ledger = (*storage.Storage)(nil)
)

type batchFunc func(ctx context.Context, s *plansync.Syncer) (plansync.Summary, error)

// runBatch wires a Syncer for command, runs fn and prints the summary.
// A dry run skips authentication and the ledger.
func runBatch(ctx context.Context, command string, dryRun bool, fn batchFunc) error {
	plan, cal, err := loadPlan()
	if err != nil {
		return err
	}

	s := &plansync.Syncer{
		Plan:     plan,
		Compiler: workout.NewCompiler(workout.Options{Paces: plan.Paces, Logger: logger}),
		Calendar: cal,
		Logger:   logger,
		DryRun:   dryRun,
	}

	if !dryRun {
		client, err := connectGarmin(ctx)
		if err != nil {
			return err
		}
		s.Remote = client

		st, err := openLedger()
		if err != nil {
			logger.Warn("ledger unavailable, continuing without it", "error", err)
		}
		if st != nil {
			defer st.Close()
			runID, err := st.StartRun(ctx, command)
			if err != nil {
				logger.Warn("could not start ledger run", "error", err)
			} else {
				s.Ledger = st
				s.RunID = runID
			}
		}
	}

	sum, runErr := fn(ctx, s)

	if st, ok := s.Ledger.(*storage.Storage); ok && s.RunID != "" {
		if err := st.FinishRun(ctx, s.RunID, sum.Attempted, sum.Succeeded, sum.Failed); err != nil {
			logger.Warn("could not finish ledger run", "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	printSummary(command, dryRun, sum)
	return nil
}

func printSummary(command string, dryRun bool, sum plansync.Summary) {
	title := command
	if dryRun {
		title += " (dry run)"
	}
	fmt.Println()
	printBoxedHeader(title)
	printMetric("Attempted", sum.Attempted)
	printMetric("Succeeded", sum.Succeeded)
	printMetric("Failed", sum.Failed)
	if sum.Skipped > 0 {
		printMetric("Skipped (rest days)", sum.Skipped)
	}
	if sum.Deleted > 0 {
		printMetric("Deleted", sum.Deleted)
	}
	if sum.Unscheduled > 0 {
		printMetric("Uploaded but not scheduled", sum.Unscheduled)
	}

	if len(sum.Failures) > 0 {
		red := color.New(color.FgRed, color.Bold).SprintFunc()
		fmt.Println()
		fmt.Println(red("Failures:"))
		for _, f := range sum.Failures {
			fmt.Printf("  • %s: %v\n", color.New(color.FgMagenta, color.Bold).Sprint(f.Item), f.Err)
		}
	}
	fmt.Println()

	if sum.Failed == 0 {
		fmt.Printf("✅ %s complete\n", command)
	}
}
