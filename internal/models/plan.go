package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const WorkoutTypeRest = "rest"

// Weekdays in plan order. A plan week runs Monday through Sunday.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

type PlanDocument struct {
	GoalEvent GoalEvent         `yaml:"goal_event"`
	Plan      PlanInfo          `yaml:"plan"`
	Paces     map[string]string `yaml:"paces"`
	Weeks     []WeekPlan        `yaml:"weeks"`

	GoalDate time.Time `yaml:"-"` // Parsed from GoalEvent.Date on load.
}

type GoalEvent struct {
	Name string `yaml:"name"`
	Date string `yaml:"date"`
}

type PlanInfo struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	TotalWeeks  int    `yaml:"total_weeks,omitempty"`
	GoalWeekday string `yaml:"goal_weekday,omitempty"`
}

type WeekPlan struct {
	Week     int                    `yaml:"week"`
	Block    string                 `yaml:"block"`
	Workouts map[string]WorkoutSpec `yaml:"workouts"`
}

type WorkoutSpec struct {
	Type        string     `yaml:"type"`
	Description string     `yaml:"description,omitempty"`
	Distance    *Quantity  `yaml:"distance,omitempty"`
	Structure   *Structure `yaml:"structure,omitempty"`
}

func (w WorkoutSpec) IsRest() bool {
	return w.Type == WorkoutTypeRest
}

type Structure struct {
	Warmup    *Phase        `yaml:"warmup,omitempty"`
	Main      *Phase        `yaml:"main,omitempty"`
	Intervals *IntervalSpec `yaml:"intervals,omitempty"`
	Cooldown  *Phase        `yaml:"cooldown,omitempty"`
}

type Phase struct {
	Distance *Quantity `yaml:"distance,omitempty"`
	Duration *Quantity `yaml:"duration,omitempty"`
	Pace     string    `yaml:"pace,omitempty"`
	Unit     string    `yaml:"unit,omitempty"` // "meters" or miles when empty
}

type IntervalSpec struct {
	Work   Phase    `yaml:"work"`
	Rest   RestSpec `yaml:"rest"`
	Repeat *int     `yaml:"repeat,omitempty"`
}

type RestSpec struct {
	Type     string    `yaml:"type,omitempty"` // "jog" adds a recovery step
	Duration *Quantity `yaml:"duration,omitempty"`
}

// Quantity keeps a scalar exactly as written, so "8-9" and 8 both survive
// until the unit parsers see them.
type Quantity string

func (q *Quantity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number or string, got a collection", node.Line)
	}
	*q = Quantity(node.Value)
	return nil
}

func (q *Quantity) String() string {
	if q == nil {
		return ""
	}
	return string(*q)
}

// Q is a convenience for building specs in code.
func Q(s string) *Quantity {
	q := Quantity(s)
	return &q
}

// Week returns the plan week with the given number.
func (p *PlanDocument) Week(n int) (*WeekPlan, bool) {
	for i := range p.Weeks {
		if p.Weeks[i].Week == n {
			return &p.Weeks[i], true
		}
	}
	return nil, false
}

func (p *PlanDocument) WeekNumbers() []int {
	out := make([]int, 0, len(p.Weeks))
	for _, w := range p.Weeks {
		out = append(out, w.Week)
	}
	return out
}

// Days returns the week's day names Monday first. Names that are not
// weekdays sort last so they still reach the scheduler and fail there.
func (w *WeekPlan) Days() []string {
	days := make([]string, 0, len(w.Workouts))
	for day := range w.Workouts {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		oi, oj := weekdayIndex(days[i]), weekdayIndex(days[j])
		if oi != oj {
			return oi < oj
		}
		return days[i] < days[j]
	})
	return days
}

func weekdayIndex(day string) int {
	for i, d := range Weekdays {
		if strings.EqualFold(d, day) {
			return i
		}
	}
	return len(Weekdays)
}
