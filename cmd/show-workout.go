package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jpignata/garmin-training-plan/internal/models"
	plansync "github.com/jpignata/garmin-training-plan/internal/sync"
	"github.com/jpignata/garmin-training-plan/internal/utils"
	"github.com/jpignata/garmin-training-plan/internal/workout"
)

var showWorkoutCmd = &cobra.Command{
	Use:   "show-workout <week> <day>",
	Short: "Print the Garmin JSON a plan workout compiles to",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		weekNum, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid week number: %s", args[0])
		}
		day := strings.ToLower(args[1])

		plan, cal, err := loadPlan()
		if err != nil {
			return err
		}
		week, ok := plan.Week(weekNum)
		if !ok {
			return fmt.Errorf("week %d not in plan, available weeks: %v", weekNum, plan.WeekNumbers())
		}
		spec, ok := week.Workouts[day]
		if !ok {
			return fmt.Errorf("no workout on %s in week %d", day, weekNum)
		}
		date, err := cal.WorkoutDate(weekNum, day)
		if err != nil {
			return err
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s\n", cyan("Date:"), utils.FormatDay(date))
		fmt.Printf("%s %s\n", cyan("Type:"), spec.Type)
		fmt.Printf("%s %s\n\n", cyan("Description:"), spec.Description)

		if spec.IsRest() {
			fmt.Println(green("Rest day, nothing to upload."))
			return nil
		}

		c := workout.NewCompiler(workout.Options{Paces: plan.Paces, Logger: logger})
		w, err := c.Build(spec, plansync.WorkoutName(plan.GoalEvent.Name, weekNum, day))
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(w, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		fmt.Println()
		fmt.Println(green("Targets:"))
		printTargets(w.Steps(), "  ")
		return nil
	},
}

func printTargets(steps []models.Step, indent string) {
	for _, s := range steps {
		switch step := s.(type) {
		case *models.ExecutableStep:
			fmt.Printf("%sStep %d: %s, %s", indent, step.StepOrder, step.StepType.Key(), step.Target.Type.Key())
			if step.Target.HasRange() {
				fmt.Printf(" %.3f-%.3f m/s", step.Target.Low, step.Target.High)
			}
			fmt.Println()
		case *models.RepeatGroup:
			fmt.Printf("%sStep %d: repeat x%d\n", indent, step.StepOrder, step.Iterations)
			children := make([]models.Step, len(step.Steps))
			for i, c := range step.Steps {
				children[i] = c
			}
			printTargets(children, indent+"  ")
		}
	}
}

func init() {
	rootCmd.AddCommand(showWorkoutCmd)
}
