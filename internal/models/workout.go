package models

import (
	"encoding/json"
	"fmt"
)

// StepType identifies the role of a workout step on Garmin Connect.
type StepType int

const (
	StepWarmup   StepType = 1
	StepCooldown StepType = 2
	StepInterval StepType = 3
	StepRecovery StepType = 4
)

func (t StepType) Key() string {
	switch t {
	case StepWarmup:
		return "warmup"
	case StepCooldown:
		return "cooldown"
	case StepInterval:
		return "interval"
	case StepRecovery:
		return "recovery"
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

func (t StepType) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID  int    `json:"stepTypeId"`
		Key string `json:"stepTypeKey"`
	}{int(t), t.Key()})
}

// EndCondition is what terminates a step.
type EndCondition int

const (
	EndLapButton EndCondition = 1
	EndTime      EndCondition = 2
	EndDistance  EndCondition = 3
)

func (c EndCondition) Key() string {
	switch c {
	case EndLapButton:
		return "lap.button"
	case EndTime:
		return "time"
	case EndDistance:
		return "distance"
	}
	return fmt.Sprintf("unknown(%d)", int(c))
}

func (c EndCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID  int    `json:"conditionTypeId"`
		Key string `json:"conditionTypeKey"`
	}{int(c), c.Key()})
}

// TargetType is the kind of intensity target attached to a step.
// Pace targets are TargetPaceZone (6). TargetHeartRateZone (4) is a
// different thing on the service and is never produced for pace zones.
type TargetType int

const (
	TargetNone          TargetType = 1
	TargetHeartRateZone TargetType = 4
	TargetPaceZone      TargetType = 6
)

func (t TargetType) Key() string {
	switch t {
	case TargetNone:
		return "no.target"
	case TargetHeartRateZone:
		return "heart.rate.zone"
	case TargetPaceZone:
		return "pace.zone"
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

func (t TargetType) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID  int    `json:"workoutTargetTypeId"`
		Key string `json:"workoutTargetTypeKey"`
	}{int(t), t.Key()})
}

// Target is a speed band in meters per second, or no target at all.
type Target struct {
	Type TargetType
	Low  float64
	High float64
}

func NoTarget() Target {
	return Target{Type: TargetNone}
}

func (t Target) HasRange() bool {
	return t.Type != TargetNone
}

// Step is either an *ExecutableStep or a *RepeatGroup.
type Step interface {
	Order() int
	isStep()
}

type ExecutableStep struct {
	StepOrder         int
	StepType          StepType
	EndCondition      EndCondition
	EndConditionValue float64 // seconds for EndTime, meters for EndDistance
	Target            Target
}

func (s *ExecutableStep) Order() int { return s.StepOrder }
func (*ExecutableStep) isStep()      {}

func (s *ExecutableStep) MarshalJSON() ([]byte, error) {
	out := struct {
		Type              string       `json:"type"`
		StepOrder         int          `json:"stepOrder"`
		StepType          StepType     `json:"stepType"`
		EndCondition      EndCondition `json:"endCondition"`
		EndConditionValue float64      `json:"endConditionValue"`
		TargetType        TargetType   `json:"targetType"`
		TargetValueOne    *float64     `json:"targetValueOne,omitempty"`
		TargetValueTwo    *float64     `json:"targetValueTwo,omitempty"`
	}{
		Type:              "ExecutableStepDTO",
		StepOrder:         s.StepOrder,
		StepType:          s.StepType,
		EndCondition:      s.EndCondition,
		EndConditionValue: s.EndConditionValue,
		TargetType:        s.Target.Type,
	}
	// Target values sit on the step, not inside targetType.
	if s.Target.HasRange() {
		low, high := s.Target.Low, s.Target.High
		out.TargetValueOne = &low
		out.TargetValueTwo = &high
	}
	return json.Marshal(out)
}

type RepeatGroup struct {
	StepOrder  int
	Iterations int
	Steps      []*ExecutableStep
}

func (g *RepeatGroup) Order() int { return g.StepOrder }
func (*RepeatGroup) isStep()      {}

func (g *RepeatGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string            `json:"type"`
		StepOrder  int               `json:"stepOrder"`
		Iterations int               `json:"numberOfIterations"`
		Steps      []*ExecutableStep `json:"workoutSteps"`
	}{"RepeatGroupDTO", g.StepOrder, g.Iterations, g.Steps})
}

type SportType struct {
	ID           int    `json:"sportTypeId"`
	Key          string `json:"sportTypeKey"`
	DisplayOrder int    `json:"displayOrder,omitempty"`
}

var SportRunning = SportType{ID: 1, Key: "running"}

type Segment struct {
	SegmentOrder int       `json:"segmentOrder"`
	SportType    SportType `json:"sportType"`
	Steps        []Step    `json:"workoutSteps"`
}

// Workout is the document uploaded to the workout service.
type Workout struct {
	Name                    string    `json:"workoutName"`
	Description             string    `json:"description"`
	SportType               SportType `json:"sportType"`
	EstimatedDurationInSecs int       `json:"estimatedDurationInSecs"`
	Segments                []Segment `json:"workoutSegments"`
}

// Steps returns the steps of the first segment.
func (w *Workout) Steps() []Step {
	if len(w.Segments) == 0 {
		return nil
	}
	return w.Segments[0].Steps
}

// WorkoutSummary is a workout as listed by the workout service.
type WorkoutSummary struct {
	WorkoutID   int64  `json:"workoutId"`
	WorkoutName string `json:"workoutName"`
}
