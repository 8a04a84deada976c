package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jpignata/garmin-training-plan/internal/models"
	"github.com/jpignata/garmin-training-plan/internal/utils"
)

// details is a flag to print each planned workout below the grid.
var details bool

type plannedDay struct {
	week int
	day  string
	spec models.WorkoutSpec
}

// calendarCmd prints a month grid of the plan. Days with a workout are
// colored by workout type and the goal date is highlighted.
var calendarCmd = &cobra.Command{
	Use:   "calendar [month] [year]",
	Short: "Display a calendar of planned workouts with a legend mapping colors to workout types",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, cal, err := loadPlan()
		if err != nil {
			return err
		}

		// Default to the current month, or the goal month once the plan is over.
		now := time.Now()
		if now.After(plan.GoalDate) {
			now = plan.GoalDate
		}
		month := now.Month()
		year := now.Year()
		if len(args) >= 1 {
			m, err := strconv.Atoi(args[0])
			if err != nil || m < 1 || m > 12 {
				return fmt.Errorf("invalid month: %s", args[0])
			}
			month = time.Month(m)
		}
		if len(args) == 2 {
			y, err := strconv.Atoi(args[1])
			if err != nil || y < 1 {
				return fmt.Errorf("invalid year: %s", args[1])
			}
			year = y
		}

		firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
		lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

		// Place every plan workout that lands in this month.
		byDay := make(map[int]plannedDay)
		typeSet := make(map[string]bool)
		for _, w := range plan.Weeks {
			for _, day := range w.Days() {
				date, err := cal.WorkoutDate(w.Week, day)
				if err != nil {
					logger.Warn("skipping workout", "week", w.Week, "day", day, "error", err)
					continue
				}
				if date.Year() != year || date.Month() != month {
					continue
				}
				spec := w.Workouts[day]
				byDay[date.Day()] = plannedDay{week: w.Week, day: day, spec: spec}
				typeSet[spec.Type] = true
			}
		}

		var types []string
		for t := range typeSet {
			types = append(types, t)
		}
		sort.Strings(types)

		colorPalette := []color.Attribute{
			color.FgRed, color.FgGreen, color.FgYellow,
			color.FgBlue, color.FgMagenta, color.FgCyan,
		}
		typeColors := make(map[string]func(a ...interface{}) string)
		for i, t := range types {
			if t == models.WorkoutTypeRest {
				typeColors[t] = color.New(color.FgWhite).SprintFunc()
				continue
			}
			typeColors[t] = color.New(colorPalette[i%len(colorPalette)]).SprintFunc()
		}
		goalColor := color.New(color.BgRed, color.FgWhite, color.Bold).SprintFunc()

		header := fmt.Sprintf("%s %d", month.String(), year)
		fmt.Println(centerText(header, 20))
		fmt.Println("Mo Tu We Th Fr Sa Su")

		// Monday-first grid, like the plan weeks.
		weekday := (int(firstOfMonth.Weekday()) + 6) % 7
		for i := 0; i < weekday; i++ {
			fmt.Print("   ")
		}

		for day := 1; day <= lastOfMonth.Day(); day++ {
			dayStr := fmt.Sprintf("%2d", day)
			date := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
			if utils.SameDay(date, plan.GoalDate) {
				dayStr = goalColor(dayStr)
			} else if pd, ok := byDay[day]; ok {
				dayStr = typeColors[pd.spec.Type](dayStr)
			}
			fmt.Printf("%s ", dayStr)
			weekday++
			if weekday%7 == 0 {
				fmt.Println()
			}
		}
		fmt.Print("\n\n")

		fmt.Println("Legend:")
		for _, t := range types {
			fmt.Printf("  %s: %s\n", typeColors[t]("██"), t)
		}
		fmt.Printf("  %s: %s\n", goalColor("██"), plan.GoalEvent.Name)

		if details {
			fmt.Println("\nWorkouts:")
			var days []int
			for d := range byDay {
				days = append(days, d)
			}
			sort.Ints(days)
			for _, day := range days {
				pd := byDay[day]
				date := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
				fmt.Printf("  %s  week %-2d %-18s", date.Format("Mon, 02 Jan"), pd.week, pd.spec.Type)
				if pd.spec.Description != "" {
					fmt.Printf(" %s", pd.spec.Description)
				}
				fmt.Println()
			}
		}

		return nil
	},
}

// centerText centers the given string in a field of the specified width.
func centerText(s string, width int) string {
	if len(s) >= width {
		return s
	}
	padding := (width - len(s)) / 2
	return strings.Repeat(" ", padding) + s
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.Flags().BoolVarP(&details, "details", "d", false, "List each planned workout below the calendar")
}
