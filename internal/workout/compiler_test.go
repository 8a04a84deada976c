package workout

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpignata/garmin-training-plan/internal/errs"
	"github.com/jpignata/garmin-training-plan/internal/models"
	"github.com/jpignata/garmin-training-plan/internal/units"
)

var testPaces = map[string]string{
	"recovery":          "9:30",
	"general_aerobic":   "8:45",
	"endurance":         "8:15",
	"marathon_pace":     "7:02",
	"lactate_threshold": "6:30",
	"vo2max":            "6:00",
}

func intPtr(n int) *int { return &n }

func leaf(t *testing.T, s models.Step) *models.ExecutableStep {
	t.Helper()
	step, ok := s.(*models.ExecutableStep)
	require.True(t, ok, "expected executable step, got %T", s)
	return step
}

func group(t *testing.T, s models.Step) *models.RepeatGroup {
	t.Helper()
	g, ok := s.(*models.RepeatGroup)
	require.True(t, ok, "expected repeat group, got %T", s)
	return g
}

func TestResolveKnownZone(t *testing.T) {
	r := NewResolver(testPaces, nil)
	target, err := r.Resolve("lactate_threshold")
	require.NoError(t, err)

	speed, _ := units.PaceToSpeed("6:30")
	assert.Equal(t, models.TargetPaceZone, target.Type)
	assert.InDelta(t, speed*0.95, target.Low, 1e-12)
	assert.InDelta(t, speed*1.05, target.High, 1e-12)
}

func TestResolveUnknownZoneWarns(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	target, err := NewResolver(testPaces, log).Resolve("tempo")
	require.NoError(t, err)
	assert.Equal(t, models.TargetNone, target.Type)
	assert.Equal(t, 1, int(target.Type))
	assert.Contains(t, buf.String(), "unknown pace zone")
	assert.Contains(t, buf.String(), "tempo")
}

func TestResolveMalformedPace(t *testing.T) {
	_, err := NewResolver(map[string]string{"easy": "slow"}, nil).Resolve("easy")
	require.Error(t, err)
	assert.True(t, errs.IsParse(err))
}

func TestRestDayHasNoSteps(t *testing.T) {
	c := NewCompiler(Options{Paces: testPaces})
	steps, err := c.Steps(models.WorkoutSpec{Type: "rest", Distance: models.Q("5")})
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestLactateThresholdIntervals(t *testing.T) {
	c := NewCompiler(Options{Paces: map[string]string{"lactate_threshold": "6:30"}})
	spec := models.WorkoutSpec{
		Type: "lactate_threshold",
		Structure: &models.Structure{
			Intervals: &models.IntervalSpec{
				Work:   models.Phase{Duration: models.Q("20-25 min"), Pace: "lactate_threshold"},
				Rest:   models.RestSpec{Type: "jog"},
				Repeat: intPtr(3),
			},
		},
	}

	steps, err := c.Steps(spec)
	require.NoError(t, err)
	require.Len(t, steps, 1)

	g := group(t, steps[0])
	assert.Equal(t, 1, g.StepOrder)
	assert.Equal(t, 3, g.Iterations)
	require.Len(t, g.Steps, 2)

	work := g.Steps[0]
	assert.Equal(t, 1, work.StepOrder)
	assert.Equal(t, models.StepInterval, work.StepType)
	assert.Equal(t, models.EndTime, work.EndCondition)
	assert.Equal(t, 1500.0, work.EndConditionValue)
	assert.Equal(t, models.TargetPaceZone, work.Target.Type)

	rest := g.Steps[1]
	assert.Equal(t, 2, rest.StepOrder)
	assert.Equal(t, models.StepRecovery, rest.StepType)
	assert.Equal(t, models.EndTime, rest.EndCondition)
	assert.Equal(t, 150.0, rest.EndConditionValue)
	assert.Equal(t, models.TargetNone, rest.Target.Type)
}

func TestFullStructuredWorkoutOrdering(t *testing.T) {
	c := NewCompiler(Options{Paces: testPaces})
	spec := models.WorkoutSpec{
		Type: "vo2max",
		Structure: &models.Structure{
			Warmup: &models.Phase{Distance: models.Q("2-3")},
			Main:   &models.Phase{Distance: models.Q("4")}, // ignored next to intervals
			Intervals: &models.IntervalSpec{
				Work: models.Phase{Distance: models.Q("1000"), Unit: "meters"},
				Rest: models.RestSpec{Type: "jog", Duration: models.Q("2-3 min")},
				Repeat: intPtr(5),
			},
			Cooldown: &models.Phase{Pace: "recovery"},
		},
	}

	steps, err := c.Steps(spec)
	require.NoError(t, err)
	require.Len(t, steps, 3)

	warmup := leaf(t, steps[0])
	assert.Equal(t, 1, warmup.StepOrder)
	assert.Equal(t, models.StepWarmup, warmup.StepType)
	assert.Equal(t, models.EndDistance, warmup.EndCondition)
	assert.InDelta(t, 3*1609.34, warmup.EndConditionValue, 1e-9)
	assert.Equal(t, models.TargetPaceZone, warmup.Target.Type)

	g := group(t, steps[1])
	assert.Equal(t, 2, g.StepOrder)
	assert.Equal(t, 5, g.Iterations)
	assert.Equal(t, 1000.0, g.Steps[0].EndConditionValue)
	assert.Equal(t, models.EndDistance, g.Steps[0].EndCondition)
	vo2, _ := units.PaceToSpeed("6:00")
	assert.InDelta(t, vo2*0.95, g.Steps[0].Target.Low, 1e-12)
	assert.Equal(t, 180.0, g.Steps[1].EndConditionValue)

	cooldown := leaf(t, steps[2])
	assert.Equal(t, 3, cooldown.StepOrder)
	assert.Equal(t, models.StepCooldown, cooldown.StepType)
	assert.InDelta(t, 2*1609.34, cooldown.EndConditionValue, 1e-9)
	recovery, _ := units.PaceToSpeed("9:30")
	assert.InDelta(t, recovery*1.05, cooldown.Target.High, 1e-12)
}

func TestIntervalDefaults(t *testing.T) {
	c := NewCompiler(Options{Paces: testPaces})
	steps, err := c.Steps(models.WorkoutSpec{
		Type:      "vo2max",
		Structure: &models.Structure{Intervals: &models.IntervalSpec{}},
	})
	require.NoError(t, err)
	require.Len(t, steps, 1)

	g := group(t, steps[0])
	assert.Equal(t, 1, g.Iterations)
	require.Len(t, g.Steps, 1, "no recovery step without a jog rest")
	assert.Equal(t, 600.0, g.Steps[0].EndConditionValue)
	assert.Equal(t, models.EndDistance, g.Steps[0].EndCondition)
}

func TestIntervalDistanceInMiles(t *testing.T) {
	c := NewCompiler(Options{Paces: testPaces})
	steps, err := c.Steps(models.WorkoutSpec{
		Structure: &models.Structure{Intervals: &models.IntervalSpec{
			Work: models.Phase{Distance: models.Q("1")},
		}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 1609.34, group(t, steps[0]).Steps[0].EndConditionValue, 1e-9)
}

func TestIntervalsNeverUseHeartRateTargets(t *testing.T) {
	c := NewCompiler(Options{Paces: testPaces})
	for _, work := range []models.Phase{
		{Duration: models.Q("5 min")},
		{Distance: models.Q("800"), Unit: "m"},
		{Duration: models.Q("3 min"), Pace: "missing_zone"},
	} {
		steps, err := c.Steps(models.WorkoutSpec{Structure: &models.Structure{
			Intervals: &models.IntervalSpec{Work: work, Rest: models.RestSpec{Type: "jog"}, Repeat: intPtr(4)},
		}})
		require.NoError(t, err)
		require.Len(t, steps, 1)
		g := group(t, steps[0])
		assert.Equal(t, 4, g.Iterations)
		for _, s := range g.Steps {
			assert.NotEqual(t, models.TargetHeartRateZone, s.Target.Type)
		}
	}
}

func TestInvalidRepeat(t *testing.T) {
	c := NewCompiler(Options{Paces: testPaces})
	_, err := c.Steps(models.WorkoutSpec{Structure: &models.Structure{
		Intervals: &models.IntervalSpec{Repeat: intPtr(0)},
	}})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestMainPhase(t *testing.T) {
	c := NewCompiler(Options{Paces: testPaces})

	steps, err := c.Steps(models.WorkoutSpec{Structure: &models.Structure{
		Warmup: &models.Phase{},
		Main:   &models.Phase{Duration: models.Q("30 min")},
	}})
	require.NoError(t, err)
	require.Len(t, steps, 2)
	main := leaf(t, steps[1])
	assert.Equal(t, 2, main.StepOrder)
	assert.Equal(t, models.EndTime, main.EndCondition)
	assert.Equal(t, 1800.0, main.EndConditionValue)
	lt, _ := units.PaceToSpeed("6:30")
	assert.InDelta(t, lt*0.95, main.Target.Low, 1e-12)

	steps, err = c.Steps(models.WorkoutSpec{Structure: &models.Structure{
		Main:     &models.Phase{Distance: models.Q("8-10")},
		Cooldown: &models.Phase{Distance: models.Q("1")},
	}})
	require.NoError(t, err)
	require.Len(t, steps, 2)
	main = leaf(t, steps[0])
	assert.InDelta(t, 10*1609.34, main.EndConditionValue, 1e-9)
	mp, _ := units.PaceToSpeed("7:02")
	assert.InDelta(t, mp*1.05, main.Target.High, 1e-12)
	assert.Equal(t, 2, leaf(t, steps[1]).StepOrder)
}

func TestSimpleWorkoutZones(t *testing.T) {
	c := NewCompiler(Options{Paces: testPaces})
	tests := []struct {
		workoutType string
		zone        string
	}{
		{"recovery", "recovery"},
		{"general_aerobic", "general_aerobic"},
		{"endurance", "endurance"},
		{"medium_long_run", "endurance"},
		{"long_run", "endurance"},
		{"marathon_pace_run", "marathon_pace"},
		{"lactate_threshold", "lactate_threshold"},
		{"vo2max", "vo2max"},
		{"hill_sprints", "general_aerobic"},
	}
	for _, tt := range tests {
		steps, err := c.Steps(models.WorkoutSpec{Type: tt.workoutType, Distance: models.Q("11-12")})
		require.NoError(t, err, tt.workoutType)
		require.Len(t, steps, 1)

		step := leaf(t, steps[0])
		assert.Equal(t, 1, step.StepOrder)
		assert.Equal(t, models.StepInterval, step.StepType)
		assert.InDelta(t, 12*1609.34, step.EndConditionValue, 1e-9)

		speed, _ := units.PaceToSpeed(testPaces[tt.zone])
		assert.InDelta(t, speed*0.95, step.Target.Low, 1e-12, tt.workoutType)
	}
}

func TestSimpleWorkoutDefaultDistance(t *testing.T) {
	c := NewCompiler(Options{Paces: testPaces})
	steps, err := c.Steps(models.WorkoutSpec{Type: "recovery"})
	require.NoError(t, err)
	assert.InDelta(t, 5*1609.34, leaf(t, steps[0]).EndConditionValue, 1e-9)
}

func TestMalformedDurationPropagates(t *testing.T) {
	c := NewCompiler(Options{Paces: testPaces})
	_, err := c.Steps(models.WorkoutSpec{Structure: &models.Structure{
		Intervals: &models.IntervalSpec{Work: models.Phase{Duration: models.Q("a while")}},
	}})
	require.Error(t, err)
	assert.True(t, errs.IsParse(err))
}

func TestEstimateDuration(t *testing.T) {
	c := NewCompiler(Options{})

	secs, err := c.EstimateDuration(models.WorkoutSpec{Distance: models.Q("10")})
	require.NoError(t, err)
	assert.Equal(t, 5400, secs)

	secs, err = c.EstimateDuration(models.WorkoutSpec{Distance: models.Q("8-9")})
	require.NoError(t, err)
	assert.Equal(t, 4860, secs)

	secs, err = c.EstimateDuration(models.WorkoutSpec{})
	require.NoError(t, err)
	assert.Equal(t, 3600, secs)
}

func TestBuildDocumentShape(t *testing.T) {
	c := NewCompiler(Options{Paces: map[string]string{"lactate_threshold": "6:30"}})
	spec := models.WorkoutSpec{
		Type:        "lactate_threshold",
		Description: "LT 2x20",
		Distance:    models.Q("8"),
		Structure: &models.Structure{
			Warmup: &models.Phase{},
			Intervals: &models.IntervalSpec{
				Work:   models.Phase{Duration: models.Q("20 min")},
				Rest:   models.RestSpec{Type: "jog"},
				Repeat: intPtr(2),
			},
		},
	}

	w, err := c.Build(spec, "Race - Week 1 - Tuesday")
	require.NoError(t, err)

	data, err := json.Marshal(w)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Race - Week 1 - Tuesday", doc["workoutName"])
	assert.Equal(t, "LT 2x20", doc["description"])
	assert.Equal(t, 4320.0, doc["estimatedDurationInSecs"])
	assert.Equal(t, map[string]any{"sportTypeId": 1.0, "sportTypeKey": "running"}, doc["sportType"])

	segments := doc["workoutSegments"].([]any)
	require.Len(t, segments, 1)
	segment := segments[0].(map[string]any)
	assert.Equal(t, 1.0, segment["segmentOrder"])
	assert.Equal(t, 1.0, segment["sportType"].(map[string]any)["displayOrder"])

	steps := segment["workoutSteps"].([]any)
	require.Len(t, steps, 2)

	warmup := steps[0].(map[string]any)
	assert.Equal(t, "ExecutableStepDTO", warmup["type"])
	assert.Equal(t, 1.0, warmup["stepOrder"])
	assert.Equal(t, map[string]any{"stepTypeId": 1.0, "stepTypeKey": "warmup"}, warmup["stepType"])
	assert.Equal(t, map[string]any{"conditionTypeId": 3.0, "conditionTypeKey": "distance"}, warmup["endCondition"])
	// general_aerobic is not in this pace table.
	assert.Equal(t, map[string]any{"workoutTargetTypeId": 1.0, "workoutTargetTypeKey": "no.target"}, warmup["targetType"])
	assert.NotContains(t, warmup, "targetValueOne")

	repeat := steps[1].(map[string]any)
	assert.Equal(t, "RepeatGroupDTO", repeat["type"])
	assert.Equal(t, 2.0, repeat["stepOrder"])
	assert.Equal(t, 2.0, repeat["numberOfIterations"])

	children := repeat["workoutSteps"].([]any)
	require.Len(t, children, 2)
	work := children[0].(map[string]any)
	assert.Equal(t, map[string]any{"workoutTargetTypeId": 6.0, "workoutTargetTypeKey": "pace.zone"}, work["targetType"])
	assert.Contains(t, work, "targetValueOne")
	assert.Contains(t, work, "targetValueTwo")
	recovery := children[1].(map[string]any)
	assert.Equal(t, map[string]any{"stepTypeId": 4.0, "stepTypeKey": "recovery"}, recovery["stepType"])
	assert.Equal(t, map[string]any{"conditionTypeId": 2.0, "conditionTypeKey": "time"}, recovery["endCondition"])
	assert.Equal(t, 150.0, recovery["endConditionValue"])
}
