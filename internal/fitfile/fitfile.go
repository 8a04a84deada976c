// Package fitfile writes compiled workouts as FIT workout files that can
// be copied straight onto a watch.
package fitfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tormoder/fit"

	"github.com/jpignata/garmin-training-plan/internal/models"
)

// MaxNameLen is the longest workout name the FIT wkt_name field holds;
// the field is 16 bytes including the terminating NUL.
const MaxNameLen = 15

// ShortName is the on-watch name of a plan workout, e.g. "W01 Tue lactate".
func ShortName(week int, day, workoutType string) string {
	day = strings.ToLower(strings.TrimSpace(day))
	if len(day) > 3 {
		day = day[:3]
	}
	if day != "" {
		day = strings.ToUpper(day[:1]) + day[1:]
	}
	name := fmt.Sprintf("W%02d %s %s", week, day, workoutType)
	return truncateName(strings.TrimSpace(name))
}

// truncateName cuts s to MaxNameLen bytes without splitting a rune.
func truncateName(s string) string {
	if len(s) <= MaxNameLen {
		return s
	}
	cut := MaxNameLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}

// Encode writes w as a FIT workout file named name. Repeat groups are
// flattened into their child steps followed by a
// repeat-until-steps-complete step.
func Encode(out io.Writer, w *models.Workout, name string) error {
	file, err := Build(w, name)
	if err != nil {
		return err
	}
	if err := fit.Encode(out, file, binary.LittleEndian); err != nil {
		return fmt.Errorf("encode fit workout: %w", err)
	}
	return nil
}

// Build converts w into an in-memory FIT workout file. An empty name
// falls back to w.Name; either is cut to MaxNameLen.
func Build(w *models.Workout, name string) (*fit.File, error) {
	if name == "" {
		name = w.Name
	}

	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeWorkout, header)
	if err != nil {
		return nil, fmt.Errorf("new fit file: %w", err)
	}
	wf, err := file.Workout()
	if err != nil {
		return nil, fmt.Errorf("workout accessor: %w", err)
	}

	var steps []*fit.WorkoutStepMsg
	for _, s := range w.Steps() {
		switch step := s.(type) {
		case *models.ExecutableStep:
			steps = append(steps, leaf(len(steps), step))
		case *models.RepeatGroup:
			first := len(steps)
			for _, child := range step.Steps {
				steps = append(steps, leaf(len(steps), child))
			}
			repeat := fit.NewWorkoutStepMsg()
			repeat.MessageIndex = fit.MessageIndex(len(steps))
			repeat.DurationType = fit.WktStepDurationRepeatUntilStepsCmplt
			repeat.DurationValue = uint32(first)
			repeat.TargetValue = uint32(step.Iterations)
			steps = append(steps, repeat)
		default:
			return nil, fmt.Errorf("unsupported step %T", s)
		}
	}

	msg := fit.NewWorkoutMsg()
	msg.Sport = fit.SportRunning
	msg.WktName = truncateName(name)
	msg.NumValidSteps = uint16(len(steps))

	wf.Workout = msg
	wf.WorkoutSteps = steps
	return file, nil
}

func leaf(index int, s *models.ExecutableStep) *fit.WorkoutStepMsg {
	msg := fit.NewWorkoutStepMsg()
	msg.MessageIndex = fit.MessageIndex(index)
	msg.Intensity = intensity(s.StepType)

	switch s.EndCondition {
	case models.EndTime:
		msg.DurationType = fit.WktStepDurationTime
		msg.DurationValue = scaled(s.EndConditionValue)
	case models.EndDistance:
		msg.DurationType = fit.WktStepDurationDistance
		msg.DurationValue = uint32(math.Round(s.EndConditionValue * 100))
	default:
		msg.DurationType = fit.WktStepDurationOpen
	}

	if s.Target.Type == models.TargetPaceZone && s.Target.HasRange() {
		msg.TargetType = fit.WktStepTargetSpeed
		msg.TargetValue = 0
		msg.CustomTargetValueLow = scaled(s.Target.Low)
		msg.CustomTargetValueHigh = scaled(s.Target.High)
	} else {
		msg.TargetType = fit.WktStepTargetOpen
	}
	return msg
}

// scaled converts seconds to ms and m/s to mm/s.
func scaled(v float64) uint32 {
	return uint32(math.Round(v * 1000))
}

func intensity(t models.StepType) fit.Intensity {
	switch t {
	case models.StepWarmup:
		return fit.IntensityWarmup
	case models.StepCooldown:
		return fit.IntensityCooldown
	case models.StepRecovery:
		return fit.IntensityRest
	}
	return fit.IntensityActive
}
