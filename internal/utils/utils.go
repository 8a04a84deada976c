package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpignata/garmin-training-plan/internal/errs"
	"github.com/jpignata/garmin-training-plan/internal/models"
)

var goalDateLayouts = []string{time.DateOnly, time.RFC3339}

// LoadPlan reads and validates the plan document at path.
func LoadPlan(path string) (*models.PlanDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plan file: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan decodes a YAML plan. Missing required keys and bad week
// numbers are ValidationErrors; the caller should abort the run.
func ParsePlan(data []byte) (*models.PlanDocument, error) {
	var present map[string]yaml.Node
	if err := yaml.Unmarshal(data, &present); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	for _, key := range []string{"goal_event", "plan", "paces", "weeks"} {
		if _, ok := present[key]; !ok {
			return nil, errs.Validation(key, "missing required field")
		}
	}

	var plan models.PlanDocument
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}

	if strings.TrimSpace(plan.GoalEvent.Name) == "" {
		return nil, errs.Validation("goal_event.name", "missing required field")
	}
	if strings.TrimSpace(plan.GoalEvent.Date) == "" {
		return nil, errs.Validation("goal_event.date", "missing required field")
	}
	if strings.TrimSpace(plan.Plan.Name) == "" {
		return nil, errs.Validation("plan.name", "missing required field")
	}

	goal, err := parseGoalDate(plan.GoalEvent.Date)
	if err != nil {
		return nil, err
	}
	plan.GoalDate = goal

	seen := make(map[int]bool, len(plan.Weeks))
	for _, w := range plan.Weeks {
		if w.Week < 1 {
			return nil, errs.Validation("weeks", "week number must be at least 1, got %d", w.Week)
		}
		if seen[w.Week] {
			return nil, errs.Validation("weeks", "week %d appears more than once", w.Week)
		}
		seen[w.Week] = true
	}

	return &plan, nil
}

func parseGoalDate(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	for _, layout := range goalDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.Local), nil
		}
	}
	return time.Time{}, errs.Validation("goal_event.date", "unrecognized date %q, want YYYY-MM-DD", value)
}
