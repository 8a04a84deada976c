package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var inspectSave string

var inspectWorkoutCmd = &cobra.Command{
	Use:   "inspect-workout [workout-id]",
	Short: "Download a workout from Garmin Connect to see how it was stored",
	Long:  "Downloads a workout by id, or the first workout in the library when no id is given, and prints its JSON and step targets.",
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := connectGarmin(ctx)
		if err != nil {
			return err
		}

		var id int64
		if len(args) == 1 {
			id, err = strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid workout id: %s", args[0])
			}
		} else {
			workouts, err := client.ListWorkouts(ctx)
			if err != nil {
				return fmt.Errorf("failed to list workouts: %w", err)
			}
			if len(workouts) == 0 {
				fmt.Println("No workouts found!")
				return nil
			}
			id = workouts[0].WorkoutID
			fmt.Printf("Workout: %s\nID: %d\n", workouts[0].WorkoutName, id)
		}

		raw, err := client.GetWorkout(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to fetch workout %d: %w", id, err)
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, raw, "", "  "); err != nil {
			return err
		}
		fmt.Println(color.New(color.FgCyan, color.Bold).Sprint("\n=== FULL WORKOUT JSON ===\n"))
		fmt.Println(pretty.String())

		if inspectSave != "" {
			if err := os.WriteFile(inspectSave, pretty.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to save workout: %w", err)
			}
			fmt.Printf("\n✅ Saved to %s\n", inspectSave)
		}

		var doc struct {
			WorkoutSegments []struct {
				WorkoutSteps []map[string]any `json:"workoutSteps"`
			} `json:"workoutSegments"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to decode workout: %w", err)
		}

		fmt.Println(color.New(color.FgCyan, color.Bold).Sprint("\n=== TARGET INFO FROM GARMIN ==="))
		for _, seg := range doc.WorkoutSegments {
			for _, step := range seg.WorkoutSteps {
				if step["type"] != "ExecutableStepDTO" {
					continue
				}
				stepType, _ := step["stepType"].(map[string]any)
				fmt.Printf("\nStep %v: %v\n", step["stepOrder"], stepType["stepTypeKey"])
				fmt.Printf("  Target Type: %v\n", step["targetType"])
				if v, ok := step["targetValueOne"]; ok {
					fmt.Printf("  Target Value One: %v\n", v)
				}
				if v, ok := step["targetValueTwo"]; ok {
					fmt.Printf("  Target Value Two: %v\n", v)
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectWorkoutCmd)
	inspectWorkoutCmd.Flags().StringVar(&inspectSave, "save", "", "Also write the workout JSON to this file")
}
