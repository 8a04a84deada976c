package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpignata/garmin-training-plan/internal/config"
	"github.com/jpignata/garmin-training-plan/internal/garmin"
	"github.com/jpignata/garmin-training-plan/internal/models"
	"github.com/jpignata/garmin-training-plan/internal/schedule"
	"github.com/jpignata/garmin-training-plan/internal/storage"
	"github.com/jpignata/garmin-training-plan/internal/utils"
)

var (
	planPath   string
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "garmin-plan",
	Short: "Sync a YAML marathon training plan to Garmin Connect",
	Long: `Compiles a YAML training plan into structured Garmin workouts, uploads
them to Garmin Connect and schedules them on the calendar.

Credentials are read from GARMIN_EMAIL and GARMIN_PASSWORD (an optional
.env file is loaded first).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		var err error
		if configPath != "" {
			cfg, err = config.LoadConfigFrom(configPath)
		} else {
			cfg, err = config.LoadConfig()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&planPath, "plan", "", "Path to training plan YAML file (default from config, plans/nyc_marathon_2026.yaml)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.config/garmin-plan/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// loadPlan reads the plan and builds its calendar. Plan values take
// precedence over the config file.
func loadPlan() (*models.PlanDocument, schedule.Calendar, error) {
	path := planPath
	if path == "" {
		path = cfg.Plan.Path
	}

	plan, err := utils.LoadPlan(path)
	if err != nil {
		return nil, schedule.Calendar{}, fmt.Errorf("failed to load plan: %w", err)
	}

	totalWeeks := cfg.Plan.TotalWeeks
	if plan.Plan.TotalWeeks > 0 {
		totalWeeks = plan.Plan.TotalWeeks
	}
	weekdayName := cfg.Plan.GoalWeekday
	if plan.Plan.GoalWeekday != "" {
		weekdayName = plan.Plan.GoalWeekday
	}
	goalWeekday, err := schedule.ParseWeekday(weekdayName)
	if err != nil {
		return nil, schedule.Calendar{}, fmt.Errorf("goal weekday: %w", err)
	}

	cal := schedule.NewCalendar(plan.GoalDate, totalWeeks, goalWeekday)
	if plan.GoalDate.Weekday() != goalWeekday {
		logger.Warn("goal date does not fall on the goal weekday",
			"date", plan.GoalEvent.Date, "weekday", goalWeekday)
	}

	logger.Info("loaded plan", "name", plan.Plan.Name)
	logger.Info("goal event", "name", plan.GoalEvent.Name, "date", plan.GoalEvent.Date)
	logger.Info("weeks", "count", len(plan.Weeks), "total_weeks", totalWeeks)
	return plan, cal, nil
}

func connectGarmin(ctx context.Context) (*garmin.Client, error) {
	logger.Info("authenticating with Garmin Connect")
	return garmin.Authenticate(ctx, config.Credentials(), garmin.Options{
		BaseURL:  cfg.Garmin.BaseURL,
		TokenDir: cfg.Garmin.TokenDir,
		Logger:   logger,
	})
}

// openLedger returns nil when no ledger is configured.
func openLedger() (*storage.Storage, error) {
	if cfg.Ledger.ConnectionString == "" {
		return nil, nil
	}
	return storage.NewStorage(cfg.Ledger.ConnectionString)
}

// requireLedger is openLedger for commands that only read the ledger.
func requireLedger() (*storage.Storage, error) {
	st, err := openLedger()
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("no ledger configured: set [ledger] connection_string in the config or DEV_MODE=true")
	}
	return st, nil
}
