// Package sync pushes a compiled training plan to the workout service and
// removes it again. Batch operations never stop at the first bad workout:
// failures are logged, counted and reported in a Summary.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jpignata/garmin-training-plan/internal/errs"
	"github.com/jpignata/garmin-training-plan/internal/models"
	"github.com/jpignata/garmin-training-plan/internal/schedule"
	"github.com/jpignata/garmin-training-plan/internal/workout"
)

// Remote is the workout service.
type Remote interface {
	UploadWorkout(ctx context.Context, w *models.Workout) (int64, error)
	ScheduleWorkout(ctx context.Context, workoutID int64, date time.Time) error
	DeleteWorkout(ctx context.Context, workoutID int64) error
	ListWorkouts(ctx context.Context) ([]models.WorkoutSummary, error)
}

// Ledger remembers what was pushed. It is optional.
type Ledger interface {
	RecordUpload(ctx context.Context, rec models.UploadRecord) error
	MarkDeleted(ctx context.Context, workoutID int64) error
}

type Failure struct {
	Item string
	Err  error
}

// Summary counts the items a batch operation touched. Rest days are
// Skipped. Unscheduled counts uploads that succeeded but could not be
// put on the calendar; they are also counted as Succeeded.
type Summary struct {
	Attempted   int
	Succeeded   int
	Failed      int
	Skipped     int
	Unscheduled int
	Deleted     int
	Failures    []Failure
}

func (s *Summary) fail(item string, err error) {
	s.Failed++
	s.Failures = append(s.Failures, Failure{Item: item, Err: err})
}

type Syncer struct {
	Plan     *models.PlanDocument
	Compiler *workout.Compiler
	Calendar schedule.Calendar
	Remote   Remote
	Ledger   Ledger
	Logger   *slog.Logger
	RunID    string
	DryRun   bool
}

func (s *Syncer) log() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// WorkoutName is the name a plan workout is uploaded under.
func WorkoutName(event string, week int, day string) string {
	return fmt.Sprintf("%s - Week %d - %s", event, week, capitalize(day))
}

// planPrefix matches every workout of the plan.
func (s *Syncer) planPrefix() string {
	return s.Plan.GoalEvent.Name + " - "
}

// weekPrefix matches the workouts of one week. The trailing separator
// keeps week 1 from matching weeks 10 through 19.
func (s *Syncer) weekPrefix(week int) string {
	return fmt.Sprintf("%sWeek %d - ", s.planPrefix(), week)
}

// UploadAll compiles, uploads and schedules every non-rest workout.
func (s *Syncer) UploadAll(ctx context.Context) Summary {
	log := s.log()
	log.Info("uploading training plan", "plan", s.Plan.Plan.Name, "weeks", len(s.Plan.Weeks), "dry_run", s.DryRun)

	var sum Summary
	for i := range s.Plan.Weeks {
		s.uploadWeek(ctx, &s.Plan.Weeks[i], &sum)
	}

	log.Info("upload complete",
		"attempted", sum.Attempted,
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
		"skipped", sum.Skipped,
		"unscheduled", sum.Unscheduled,
	)
	return sum
}

// DeleteAll removes every workout named after the goal event.
func (s *Syncer) DeleteAll(ctx context.Context) Summary {
	var sum Summary
	s.deleteMatching(ctx, s.planPrefix(), &sum)
	s.log().Info("deletion complete", "found", sum.Attempted, "deleted", sum.Deleted, "failed", sum.Failed)
	return sum
}

// UpdateWeek replaces one week: its uploaded workouts are deleted, then
// the week is uploaded again. Only an unknown week is returned as an
// error; everything else is reported in the Summary.
func (s *Syncer) UpdateWeek(ctx context.Context, week int) (Summary, error) {
	wp, ok := s.Plan.Week(week)
	if !ok {
		return Summary{}, errs.Validation("week", "week %d not in plan, available weeks: %v", week, s.Plan.WeekNumbers())
	}

	start, end := s.Calendar.WeekRange(week)
	s.log().Info("updating week", "week", week, "from", start.Format(time.DateOnly), "to", end.Format(time.DateOnly))

	var sum Summary
	s.deleteMatching(ctx, s.weekPrefix(week), &sum)
	s.uploadWeek(ctx, wp, &sum)

	s.log().Info("update complete", "week", week, "deleted", sum.Deleted, "succeeded", sum.Succeeded, "failed", sum.Failed)
	return sum, nil
}

func (s *Syncer) uploadWeek(ctx context.Context, wp *models.WeekPlan, sum *Summary) {
	log := s.log().With("week", wp.Week)
	log.Info("processing week", "block", wp.Block)

	for _, day := range wp.Days() {
		spec := wp.Workouts[day]
		if spec.IsRest() {
			log.Debug("rest day, skipping", "day", day)
			sum.Skipped++
			continue
		}

		sum.Attempted++
		scheduled, err := s.uploadOne(ctx, wp.Week, day, spec)
		if err != nil {
			log.Error("workout failed", "day", day, "error", err)
			sum.fail(fmt.Sprintf("week %d %s", wp.Week, day), err)
			continue
		}
		sum.Succeeded++
		if !scheduled {
			sum.Unscheduled++
		}
	}
}

// uploadOne reports whether the uploaded workout made it onto the calendar.
func (s *Syncer) uploadOne(ctx context.Context, week int, day string, spec models.WorkoutSpec) (bool, error) {
	date, err := s.Calendar.WorkoutDate(week, day)
	if err != nil {
		return false, err
	}

	name := WorkoutName(s.Plan.GoalEvent.Name, week, day)
	w, err := s.Compiler.Build(spec, name)
	if err != nil {
		return false, fmt.Errorf("compile %s: %w", name, err)
	}

	log := s.log().With("workout", name, "date", date.Format(time.DateOnly))
	log.Info("workout compiled", "type", spec.Type, "steps", len(w.Steps()))

	if s.DryRun {
		return true, nil
	}

	id, err := s.Remote.UploadWorkout(ctx, w)
	if err != nil {
		return false, err
	}
	log = log.With("workout_id", id)
	log.Info("uploaded")

	scheduled := true
	if err := s.Remote.ScheduleWorkout(ctx, id, date); err != nil {
		log.Warn("upload succeeded but scheduling failed", "error", err)
		scheduled = false
	} else {
		log.Debug("scheduled")
	}

	if s.Ledger != nil {
		rec := models.UploadRecord{
			RunID:         s.RunID,
			WorkoutID:     id,
			WorkoutName:   name,
			Week:          week,
			Day:           strings.ToLower(day),
			ScheduledDate: date.Format(time.DateOnly),
			Scheduled:     scheduled,
		}
		if err := s.Ledger.RecordUpload(ctx, rec); err != nil {
			log.Warn("could not record upload in ledger", "error", err)
		}
	}

	return scheduled, nil
}

func (s *Syncer) deleteMatching(ctx context.Context, prefix string, sum *Summary) {
	log := s.log()
	if s.DryRun {
		log.Info("dry run, not deleting", "prefix", prefix)
		return
	}

	workouts, err := s.Remote.ListWorkouts(ctx)
	if err != nil {
		log.Error("could not list workouts", "error", err)
		sum.Attempted++
		sum.fail("list workouts", err)
		return
	}

	var matched []models.WorkoutSummary
	for _, w := range workouts {
		if strings.HasPrefix(w.WorkoutName, prefix) {
			matched = append(matched, w)
		}
	}
	log.Info("found workouts to delete", "prefix", strings.TrimSuffix(prefix, " - "), "count", len(matched))

	for _, w := range matched {
		sum.Attempted++
		if err := s.Remote.DeleteWorkout(ctx, w.WorkoutID); err != nil {
			log.Error("delete failed", "workout", w.WorkoutName, "workout_id", w.WorkoutID, "error", err)
			sum.fail(w.WorkoutName, err)
			continue
		}
		log.Info("deleted", "workout", w.WorkoutName, "workout_id", w.WorkoutID)
		sum.Succeeded++
		sum.Deleted++

		if s.Ledger != nil {
			if err := s.Ledger.MarkDeleted(ctx, w.WorkoutID); err != nil {
				log.Warn("could not mark deletion in ledger", "workout_id", w.WorkoutID, "error", err)
			}
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}
