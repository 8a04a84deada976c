package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpignata/garmin-training-plan/internal/errs"
	"github.com/jpignata/garmin-training-plan/internal/models"
	"github.com/jpignata/garmin-training-plan/internal/schedule"
	"github.com/jpignata/garmin-training-plan/internal/workout"
)

type fakeRemote struct {
	nextID      int64
	uploaded    []*models.Workout
	scheduled   map[int64]time.Time
	deleted     []int64
	workouts    []models.WorkoutSummary
	failUpload  map[string]bool
	failSchedul bool
	failDelete  map[int64]bool
	listErr     error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{nextID: 100, scheduled: map[int64]time.Time{}}
}

func (f *fakeRemote) UploadWorkout(_ context.Context, w *models.Workout) (int64, error) {
	if f.failUpload[w.Name] {
		return 0, &errs.RemoteError{Op: "upload workout", StatusCode: 500}
	}
	f.nextID++
	f.uploaded = append(f.uploaded, w)
	f.workouts = append(f.workouts, models.WorkoutSummary{WorkoutID: f.nextID, WorkoutName: w.Name})
	return f.nextID, nil
}

func (f *fakeRemote) ScheduleWorkout(_ context.Context, id int64, date time.Time) error {
	if f.failSchedul {
		return &errs.RemoteError{Op: "schedule workout", StatusCode: 400}
	}
	f.scheduled[id] = date
	return nil
}

func (f *fakeRemote) DeleteWorkout(_ context.Context, id int64) error {
	if f.failDelete[id] {
		return &errs.RemoteError{Op: "delete workout", StatusCode: 404}
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRemote) ListWorkouts(context.Context) ([]models.WorkoutSummary, error) {
	return f.workouts, f.listErr
}

type fakeLedger struct {
	records []models.UploadRecord
	deleted []int64
}

func (l *fakeLedger) RecordUpload(_ context.Context, rec models.UploadRecord) error {
	l.records = append(l.records, rec)
	return nil
}

func (l *fakeLedger) MarkDeleted(_ context.Context, id int64) error {
	l.deleted = append(l.deleted, id)
	return nil
}

func tempo(duration string) models.WorkoutSpec {
	return models.WorkoutSpec{
		Type: "lactate_threshold",
		Structure: &models.Structure{
			Intervals: &models.IntervalSpec{
				Work: models.Phase{Duration: models.Q(duration), Pace: "lactate_threshold"},
				Rest: models.RestSpec{Type: "jog"},
			},
		},
	}
}

func easy(miles string) models.WorkoutSpec {
	return models.WorkoutSpec{Type: "general_aerobic", Distance: models.Q(miles)}
}

func testPlan() *models.PlanDocument {
	return &models.PlanDocument{
		GoalEvent: models.GoalEvent{Name: "NYC Marathon 2026", Date: "2026-11-01"},
		Plan:      models.PlanInfo{Name: "18/55"},
		Paces:     map[string]string{"lactate_threshold": "6:30", "general_aerobic": "8:45"},
		Weeks: []models.WeekPlan{
			{Week: 1, Block: "endurance", Workouts: map[string]models.WorkoutSpec{
				"monday":    easy("5"),
				"tuesday":   tempo("20-25 min"),
				"wednesday": easy("8"),
				"thursday":  tempo("twenty minutes"),
				"friday":    easy("4"),
				"saturday":  easy("6"),
				"sunday":    easy("12"),
			}},
			{Week: 2, Block: "endurance", Workouts: map[string]models.WorkoutSpec{
				"monday":  {Type: models.WorkoutTypeRest},
				"tuesday": easy("7"),
			}},
		},
		GoalDate: time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newSyncer(plan *models.PlanDocument, remote Remote) *Syncer {
	return &Syncer{
		Plan:     plan,
		Compiler: workout.NewCompiler(workout.Options{Paces: plan.Paces}),
		Calendar: schedule.NewCalendar(plan.GoalDate, 19, time.Sunday),
		Remote:   remote,
	}
}

func TestUploadAllToleratesOneBadWorkout(t *testing.T) {
	plan := testPlan()
	plan.Weeks = plan.Weeks[:1]
	remote := newFakeRemote()

	sum := newSyncer(plan, remote).UploadAll(context.Background())

	assert.Equal(t, 7, sum.Attempted)
	assert.Equal(t, 6, sum.Succeeded)
	assert.Equal(t, 1, sum.Failed)
	require.Len(t, sum.Failures, 1)
	assert.Equal(t, "week 1 thursday", sum.Failures[0].Item)
	assert.True(t, errs.IsParse(sum.Failures[0].Err))
	assert.Len(t, remote.uploaded, 6)
}

func TestUploadAllSchedulesAndRecords(t *testing.T) {
	remote := newFakeRemote()
	ledger := &fakeLedger{}
	s := newSyncer(testPlan(), remote)
	s.Ledger = ledger
	s.RunID = "run-1"

	sum := s.UploadAll(context.Background())

	assert.Equal(t, 8, sum.Attempted)
	assert.Equal(t, 7, sum.Succeeded)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 0, sum.Unscheduled)

	assert.Equal(t, "NYC Marathon 2026 - Week 1 - Monday", remote.uploaded[0].Name)
	assert.Equal(t, time.Date(2026, time.June, 22, 0, 0, 0, 0, time.UTC), remote.scheduled[101])

	require.Len(t, ledger.records, 7)
	assert.Equal(t, "run-1", ledger.records[0].RunID)
	assert.Equal(t, "2026-06-22", ledger.records[0].ScheduledDate)
	assert.True(t, ledger.records[0].Scheduled)
}

func TestScheduleFailureStillCountsUpload(t *testing.T) {
	remote := newFakeRemote()
	remote.failSchedul = true
	plan := testPlan()
	plan.Weeks = plan.Weeks[1:]

	sum := newSyncer(plan, remote).UploadAll(context.Background())
	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 1, sum.Unscheduled)
	assert.Equal(t, 0, sum.Failed)
}

func TestUploadFailureIsCounted(t *testing.T) {
	remote := newFakeRemote()
	remote.failUpload = map[string]bool{"NYC Marathon 2026 - Week 2 - Tuesday": true}
	plan := testPlan()
	plan.Weeks = plan.Weeks[1:]

	sum := newSyncer(plan, remote).UploadAll(context.Background())
	assert.Equal(t, 1, sum.Failed)
	assert.True(t, errs.IsRemote(sum.Failures[0].Err))
}

func TestUnknownWeekdayFailsOnlyThatWorkout(t *testing.T) {
	plan := testPlan()
	plan.Weeks = []models.WeekPlan{{Week: 3, Workouts: map[string]models.WorkoutSpec{
		"monday": easy("5"),
		"funday": easy("5"),
	}}}

	sum := newSyncer(plan, newFakeRemote()).UploadAll(context.Background())
	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 1, sum.Failed)
	assert.True(t, errs.IsValidation(sum.Failures[0].Err))
}

func TestDryRunNeverCallsRemote(t *testing.T) {
	s := newSyncer(testPlan(), nil)
	s.DryRun = true

	sum := s.UploadAll(context.Background())
	assert.Equal(t, 7, sum.Succeeded)
	assert.Equal(t, 1, sum.Failed)

	del := s.DeleteAll(context.Background())
	assert.Equal(t, Summary{}, del)
}

func TestDeleteAllMatchesPlanPrefix(t *testing.T) {
	remote := newFakeRemote()
	remote.workouts = []models.WorkoutSummary{
		{WorkoutID: 1, WorkoutName: "NYC Marathon 2026 - Week 1 - Monday"},
		{WorkoutID: 2, WorkoutName: "Hill repeats"},
		{WorkoutID: 3, WorkoutName: "NYC Marathon 2026 - Week 19 - Sunday"},
		{WorkoutID: 4, WorkoutName: "NYC Marathon 2026 - Week 2 - Tuesday"},
	}
	remote.failDelete = map[int64]bool{4: true}
	ledger := &fakeLedger{}
	s := newSyncer(testPlan(), remote)
	s.Ledger = ledger

	sum := s.DeleteAll(context.Background())
	assert.Equal(t, 3, sum.Attempted)
	assert.Equal(t, 2, sum.Deleted)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, []int64{1, 3}, remote.deleted)
	assert.Equal(t, []int64{1, 3}, ledger.deleted)
}

func TestDeleteAllListFailure(t *testing.T) {
	remote := newFakeRemote()
	remote.listErr = errors.New("connection reset")

	sum := newSyncer(testPlan(), remote).DeleteAll(context.Background())
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, "list workouts", sum.Failures[0].Item)
}

func TestUpdateWeekReplacesOnlyThatWeek(t *testing.T) {
	remote := newFakeRemote()
	remote.workouts = []models.WorkoutSummary{
		{WorkoutID: 1, WorkoutName: "NYC Marathon 2026 - Week 1 - Monday"},
		{WorkoutID: 10, WorkoutName: "NYC Marathon 2026 - Week 10 - Monday"},
		{WorkoutID: 2, WorkoutName: "NYC Marathon 2026 - Week 2 - Tuesday"},
	}

	sum, err := newSyncer(testPlan(), remote).UpdateWeek(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, remote.deleted)
	assert.Equal(t, 1, sum.Deleted)
	require.Len(t, remote.uploaded, 1)
	assert.Equal(t, "NYC Marathon 2026 - Week 2 - Tuesday", remote.uploaded[0].Name)
	assert.Equal(t, 1, sum.Skipped)
}

func TestUpdateWeekUnknownWeek(t *testing.T) {
	_, err := newSyncer(testPlan(), newFakeRemote()).UpdateWeek(context.Background(), 30)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestWorkoutName(t *testing.T) {
	assert.Equal(t, "Fall 50K - Week 3 - Saturday", WorkoutName("Fall 50K", 3, "SATURDAY"))
}
