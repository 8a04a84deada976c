package schedule

import (
	"strings"
	"time"

	"github.com/jpignata/garmin-training-plan/internal/errs"
	"github.com/jpignata/garmin-training-plan/internal/models"
)

const (
	DefaultTotalWeeks  = 19
	DefaultGoalWeekday = time.Sunday
)

// Calendar anchors plan weeks to the goal event. Week TotalWeeks is race
// week and ends on the goal date; every week starts on a Monday.
type Calendar struct {
	Goal        time.Time
	TotalWeeks  int
	GoalWeekday time.Weekday
}

func NewCalendar(goal time.Time, totalWeeks int, goalWeekday time.Weekday) Calendar {
	if totalWeeks <= 0 {
		totalWeeks = DefaultTotalWeeks
	}
	y, m, d := goal.Date()
	return Calendar{
		Goal:        time.Date(y, m, d, 0, 0, 0, 0, goal.Location()),
		TotalWeeks:  totalWeeks,
		GoalWeekday: goalWeekday,
	}
}

// WeekStart returns the Monday of the given plan week.
func (c Calendar) WeekStart(week int) time.Time {
	weeksBefore := c.TotalWeeks - week
	goalWeekEnd := c.Goal.AddDate(0, 0, -7*weeksBefore)
	return goalWeekEnd.AddDate(0, 0, -mondayOffset(c.GoalWeekday))
}

// WeekRange returns the first and last day of a plan week.
func (c Calendar) WeekRange(week int) (time.Time, time.Time) {
	start := c.WeekStart(week)
	return start, start.AddDate(0, 0, 6)
}

// WorkoutDate returns the calendar date of a named weekday in a plan week.
func (c Calendar) WorkoutDate(week int, day string) (time.Time, error) {
	offset, err := WeekdayOffset(day)
	if err != nil {
		return time.Time{}, err
	}
	return c.WeekStart(week).AddDate(0, 0, offset), nil
}

// CurrentWeek returns the plan week containing now. Dates before week 1
// give values below 1 and dates after race week give values above
// TotalWeeks.
func (c Calendar) CurrentWeek(now time.Time) int {
	days := daysBetween(c.WeekStart(1), now.In(c.Goal.Location()))
	week := days / 7
	if days < 0 && days%7 != 0 {
		week--
	}
	return week + 1
}

// daysBetween counts calendar days from a to b, ignoring clock time and DST.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// WeekdayOffset maps monday..sunday to 0..6.
func WeekdayOffset(day string) (int, error) {
	name := strings.ToLower(strings.TrimSpace(day))
	for i, d := range models.Weekdays {
		if d == name {
			return i, nil
		}
	}
	return 0, errs.Validation("weekday", "invalid day name %q", day)
}

// ParseWeekday parses a weekday name into a time.Weekday.
func ParseWeekday(day string) (time.Weekday, error) {
	offset, err := WeekdayOffset(day)
	if err != nil {
		return 0, err
	}
	return time.Weekday((offset + 1) % 7), nil
}

func mondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
