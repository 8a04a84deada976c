package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jpignata/garmin-training-plan/internal/storage"
	"github.com/jpignata/garmin-training-plan/internal/utils"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where you are in the plan: current week, days to the goal, this week's workouts and what has been uploaded",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, cal, err := loadPlan()
		if err != nil {
			return err
		}

		today := utils.Today()
		current := cal.CurrentWeek(today)
		daysToGoal := int(math.Round(plan.GoalDate.Sub(today).Hours() / 24))

		printBoxedHeader("STATUS")
		printMetric("Plan", plan.Plan.Name)
		printMetric("Goal", fmt.Sprintf("%s on %s", plan.GoalEvent.Name, utils.FormatDay(plan.GoalDate)))
		switch {
		case current < 1:
			printMetric("Current week", fmt.Sprintf("plan starts %s", utils.FormatDay(cal.WeekStart(1))))
		case current > cal.TotalWeeks:
			printMetric("Current week", fmt.Sprintf("%d (after the goal event)", current))
		default:
			printMetric("Current week", fmt.Sprintf("%d of %d", current, cal.TotalWeeks))
		}
		if daysToGoal >= 0 {
			printMetric("Days to goal", daysToGoal)
		}
		printMetric("Weeks in plan", len(plan.Weeks))
		printMetric("Pace zones", len(plan.Paces))

		var uploaded map[string]bool
		st, err := openLedger()
		if err != nil {
			logger.Warn("ledger unavailable", "error", err)
		}
		if st != nil {
			defer st.Close()
			records, err := st.ListUploads(cmd.Context(), storage.UploadFilter{})
			if err != nil {
				return err
			}
			printMetric("Workouts uploaded", len(records))
			uploaded = make(map[string]bool)
			for _, r := range records {
				uploaded[fmt.Sprintf("%d/%s", r.Week, r.Day)] = true
			}
		}
		fmt.Println()

		week, ok := plan.Week(current)
		if !ok {
			return nil
		}

		header := color.New(color.FgGreen, color.Bold).Sprintf("Week %d (%s):", week.Week, week.Block)
		fmt.Println(header)
		for _, day := range week.Days() {
			spec := week.Workouts[day]
			date, err := cal.WorkoutDate(week.Week, day)
			if err != nil {
				continue
			}
			marker := " "
			if uploaded[fmt.Sprintf("%d/%s", week.Week, strings.ToLower(day))] {
				marker = color.GreenString("✓")
			}
			if utils.SameDay(date, today) {
				day = strings.ToUpper(day)
			}
			fmt.Printf("  %s %s %s: %s %s\n",
				marker,
				date.Format("Mon 02 Jan"),
				color.New(color.FgMagenta, color.Bold).Sprint(spec.Type),
				day,
				spec.Description,
			)
		}
		fmt.Println()

		return nil
	},
}

// printBoxedHeader prints the title in a Unicode box with a fixed width.
func printBoxedHeader(title string) {
	width := 40
	cyanBold := color.New(color.FgCyan, color.Bold).SprintFunc()
	border := strings.Repeat("═", width)
	fmt.Println(cyanBold("╔" + border + "╗"))
	fmt.Println(cyanBold("║" + padCenter(strings.ToUpper(title), width) + "║"))
	fmt.Println(cyanBold("╚" + border + "╝"))
}

func padCenter(s string, width int) string {
	if len(s) >= width {
		return s
	}
	padding := (width - len(s)) / 2
	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", width-len(s)-padding)
}

// printMetric prints a label and value using bold yellow for the label.
func printMetric(label string, value interface{}) {
	yellowBold := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Printf("  %s: %v\n", yellowBold(label), value)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
