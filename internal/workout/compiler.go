package workout

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jpignata/garmin-training-plan/internal/errs"
	"github.com/jpignata/garmin-training-plan/internal/models"
	"github.com/jpignata/garmin-training-plan/internal/units"
)

const (
	defaultPhaseMiles    = "2"
	defaultSimpleMiles   = "5"
	defaultWorkMeters    = 600.0
	defaultRestSeconds   = 150
	defaultRepeat        = 1
	estimateMinPerMile   = 9
	fallbackEstimateSecs = 3600

	zoneGeneralAerobic   = "general_aerobic"
	zoneLactateThreshold = "lactate_threshold"
	zoneVO2Max           = "vo2max"
	zoneMarathonPace     = "marathon_pace"
)

// zoneForType picks the pace zone of a single-step workout.
var zoneForType = map[string]string{
	"recovery":          "recovery",
	"general_aerobic":   "general_aerobic",
	"endurance":         "endurance",
	"medium_long_run":   "endurance",
	"long_run":          "endurance",
	"marathon_pace_run": "marathon_pace",
	"lactate_threshold": "lactate_threshold",
	"vo2max":            "vo2max",
}

type Options struct {
	Paces  map[string]string
	Logger *slog.Logger
}

// Compiler builds Garmin workout documents from plan workouts.
type Compiler struct {
	resolver *Resolver
	log      *slog.Logger
}

func NewCompiler(opts Options) *Compiler {
	log := orDiscard(opts.Logger)
	return &Compiler{
		resolver: NewResolver(opts.Paces, log),
		log:      log,
	}
}

// Build compiles spec into a complete running workout named name.
func (c *Compiler) Build(spec models.WorkoutSpec, name string) (*models.Workout, error) {
	steps, err := c.Steps(spec)
	if err != nil {
		return nil, err
	}
	estimate, err := c.EstimateDuration(spec)
	if err != nil {
		return nil, err
	}

	segmentSport := models.SportRunning
	segmentSport.DisplayOrder = 1

	return &models.Workout{
		Name:                    name,
		Description:             spec.Description,
		SportType:               models.SportRunning,
		EstimatedDurationInSecs: estimate,
		Segments: []models.Segment{{
			SegmentOrder: 1,
			SportType:    segmentSport,
			Steps:        steps,
		}},
	}, nil
}

// Steps compiles the step tree of spec. Rest days have no steps.
func (c *Compiler) Steps(spec models.WorkoutSpec) ([]models.Step, error) {
	if spec.IsRest() {
		return nil, nil
	}
	if spec.Structure != nil {
		return c.structured(spec.Structure)
	}
	return c.simple(spec)
}

// EstimateDuration is a rough 9 min/mile guess from the workout distance,
// or an hour when there is none.
func (c *Compiler) EstimateDuration(spec models.WorkoutSpec) (int, error) {
	if spec.Distance == nil || spec.Distance.String() == "" {
		return fallbackEstimateSecs, nil
	}
	miles, err := units.ParseDistance(spec.Distance.String())
	if err != nil {
		return 0, err
	}
	return int(miles * estimateMinPerMile * 60), nil
}

func (c *Compiler) structured(s *models.Structure) ([]models.Step, error) {
	var steps []models.Step
	order := 1

	if s.Warmup != nil {
		step, err := c.distancePhase(order, models.StepWarmup, s.Warmup)
		if err != nil {
			return nil, fmt.Errorf("warmup: %w", err)
		}
		steps = append(steps, step)
		order++
	}

	switch {
	case s.Intervals != nil:
		group, err := c.intervals(order, s.Intervals)
		if err != nil {
			return nil, fmt.Errorf("intervals: %w", err)
		}
		steps = append(steps, group)
		order++
	case s.Main != nil:
		step, err := c.main(order, s.Main)
		if err != nil {
			return nil, fmt.Errorf("main: %w", err)
		}
		if step != nil {
			steps = append(steps, step)
			order++
		}
	}

	if s.Cooldown != nil {
		step, err := c.distancePhase(order, models.StepCooldown, s.Cooldown)
		if err != nil {
			return nil, fmt.Errorf("cooldown: %w", err)
		}
		steps = append(steps, step)
	}

	return steps, nil
}

// distancePhase builds a warmup or cooldown step.
func (c *Compiler) distancePhase(order int, stepType models.StepType, p *models.Phase) (*models.ExecutableStep, error) {
	distance := defaultPhaseMiles
	if p.Distance != nil {
		distance = p.Distance.String()
	}
	miles, err := units.ParseDistance(distance)
	if err != nil {
		return nil, err
	}
	return c.step(order, stepType, models.EndDistance, units.MilesToMeters(miles), zoneOr(p.Pace, zoneGeneralAerobic))
}

func (c *Compiler) intervals(order int, iv *models.IntervalSpec) (*models.RepeatGroup, error) {
	iterations := defaultRepeat
	if iv.Repeat != nil {
		iterations = *iv.Repeat
	}
	if iterations < 1 {
		return nil, errs.Validation("repeat", "must be at least 1, got %d", iterations)
	}

	work, err := c.work(&iv.Work)
	if err != nil {
		return nil, fmt.Errorf("work: %w", err)
	}
	group := &models.RepeatGroup{
		StepOrder:  order,
		Iterations: iterations,
		Steps:      []*models.ExecutableStep{work},
	}

	if strings.EqualFold(iv.Rest.Type, "jog") {
		seconds := defaultRestSeconds
		if iv.Rest.Duration != nil {
			seconds, err = units.ParseDuration(iv.Rest.Duration.String())
			if err != nil {
				return nil, fmt.Errorf("rest: %w", err)
			}
		}
		// Recovery jogs carry no target.
		group.Steps = append(group.Steps, &models.ExecutableStep{
			StepOrder:         2,
			StepType:          models.StepRecovery,
			EndCondition:      models.EndTime,
			EndConditionValue: float64(seconds),
			Target:            models.NoTarget(),
		})
	}

	return group, nil
}

// work builds the first step of an interval repeat.
func (c *Compiler) work(p *models.Phase) (*models.ExecutableStep, error) {
	if p.Duration != nil {
		seconds, err := units.ParseDuration(p.Duration.String())
		if err != nil {
			return nil, err
		}
		return c.step(1, models.StepInterval, models.EndTime, float64(seconds), zoneOr(p.Pace, zoneLactateThreshold))
	}

	meters := defaultWorkMeters
	if p.Distance != nil {
		value, err := units.ParseDistance(p.Distance.String())
		if err != nil {
			return nil, err
		}
		if isMeters(p.Unit) {
			meters = value
		} else {
			meters = units.MilesToMeters(value)
		}
	}
	return c.step(1, models.StepInterval, models.EndDistance, meters, zoneOr(p.Pace, zoneVO2Max))
}

// main builds the single work step of a non-interval workout. A main
// phase with neither duration nor distance produces nothing.
func (c *Compiler) main(order int, p *models.Phase) (*models.ExecutableStep, error) {
	switch {
	case p.Duration != nil:
		seconds, err := units.ParseDuration(p.Duration.String())
		if err != nil {
			return nil, err
		}
		return c.step(order, models.StepInterval, models.EndTime, float64(seconds), zoneOr(p.Pace, zoneLactateThreshold))
	case p.Distance != nil:
		miles, err := units.ParseDistance(p.Distance.String())
		if err != nil {
			return nil, err
		}
		return c.step(order, models.StepInterval, models.EndDistance, units.MilesToMeters(miles), zoneOr(p.Pace, zoneMarathonPace))
	}
	c.log.Warn("main phase has no duration or distance, skipping")
	return nil, nil
}

func (c *Compiler) simple(spec models.WorkoutSpec) ([]models.Step, error) {
	distance := defaultSimpleMiles
	if spec.Distance != nil && spec.Distance.String() != "" {
		distance = spec.Distance.String()
	}
	miles, err := units.ParseDistance(distance)
	if err != nil {
		return nil, err
	}

	zone, ok := zoneForType[spec.Type]
	if !ok {
		zone = zoneGeneralAerobic
	}

	step, err := c.step(1, models.StepInterval, models.EndDistance, units.MilesToMeters(miles), zone)
	if err != nil {
		return nil, err
	}
	return []models.Step{step}, nil
}

func (c *Compiler) step(order int, stepType models.StepType, end models.EndCondition, value float64, zone string) (*models.ExecutableStep, error) {
	target, err := c.resolver.Resolve(zone)
	if err != nil {
		return nil, err
	}
	return &models.ExecutableStep{
		StepOrder:         order,
		StepType:          stepType,
		EndCondition:      end,
		EndConditionValue: value,
		Target:            target,
	}, nil
}

func zoneOr(zone, fallback string) string {
	if zone == "" {
		return fallback
	}
	return zone
}

func isMeters(unit string) bool {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "m", "meter", "meters", "metre", "metres":
		return true
	}
	return false
}
