package store

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/missionctl/internal/models"
)

func seedScheduledTask(t *testing.T, db *sql.DB, task *models.ScheduledTask) *models.ScheduledTask {
	t.Helper()
	created, err := CreateScheduledTask(db, task)
	require.NoError(t, err)
	return created
}

func TestCreateScheduledTaskDefaultsActive(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	task, err := CreateScheduledTask(db, &models.ScheduledTask{
		Name:         "Nightly standup digest",
		ScheduleType: models.ScheduleTypeCron,
		Schedule:     "0 9 * * *",
		TaskType:     "standup",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ScheduledActive, task.Status)
	assert.NotEmpty(t, task.ID)

	_, err = CreateScheduledTask(db, &models.ScheduledTask{
		Name:         "bad",
		ScheduleType: "hourly-ish",
		Schedule:     "x",
		TaskType:     "sync",
	})
	assert.Error(t, err)
}

func TestListScheduledTasksByStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	seedScheduledTask(t, db, &models.ScheduledTask{
		Name: "A", ScheduleType: models.ScheduleTypeRecurring, Schedule: "daily", TaskType: "sync",
	})
	paused := seedScheduledTask(t, db, &models.ScheduledTask{
		Name: "B", ScheduleType: models.ScheduleTypeCron, Schedule: "0 * * * *", TaskType: "report",
		Status: models.ScheduledPaused,
	})

	all, err := ListScheduledTasks(db, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pausedOnly, err := ListScheduledTasks(db, models.ScheduledPaused)
	require.NoError(t, err)
	require.Len(t, pausedOnly, 1)
	assert.Equal(t, paused.ID, pausedOnly[0].ID)
}

func TestListWeekTasksRepeatingAlwaysVisible(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	weekStart := nowTestMs()
	weekEnd := weekStart + 7*24*60*60*1000

	// Active cron/recurring jobs show in every week, even with a
	// next_run outside the window.
	farFuture := weekEnd + 1
	cron := seedScheduledTask(t, db, &models.ScheduledTask{
		Name: "hourly sync", ScheduleType: models.ScheduleTypeCron, Schedule: "0 * * * *",
		TaskType: "sync", NextRun: &farFuture,
	})
	recurring := seedScheduledTask(t, db, &models.ScheduledTask{
		Name: "daily digest", ScheduleType: models.ScheduleTypeRecurring, Schedule: "daily",
		TaskType: "report",
	})

	// Paused repeating jobs only show via the next_run window.
	seedScheduledTask(t, db, &models.ScheduledTask{
		Name: "paused cron", ScheduleType: models.ScheduleTypeCron, Schedule: "0 * * * *",
		TaskType: "sync", Status: models.ScheduledPaused,
	})

	week, err := ListWeekTasks(db, weekStart, weekEnd)
	require.NoError(t, err)
	require.Len(t, week, 2)
	ids := []string{week[0].ID, week[1].ID}
	assert.Contains(t, ids, cron.ID)
	assert.Contains(t, ids, recurring.ID)
}

func TestListWeekTasksOneShotWindowed(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	weekStart := nowTestMs()
	weekEnd := weekStart + 7*24*60*60*1000

	inWeek := weekStart + 1000
	afterWeek := weekEnd + 1000
	inside := seedScheduledTask(t, db, &models.ScheduledTask{
		Name: "launch post", ScheduleType: models.ScheduleTypeOnce, Schedule: "once",
		TaskType: "publish", NextRun: &inWeek,
	})
	seedScheduledTask(t, db, &models.ScheduledTask{
		Name: "next month", ScheduleType: models.ScheduleTypeOnce, Schedule: "once",
		TaskType: "publish", NextRun: &afterWeek,
	})
	// One-shot with no next_run never shows.
	seedScheduledTask(t, db, &models.ScheduledTask{
		Name: "unscheduled", ScheduleType: models.ScheduleTypeOnce, Schedule: "once",
		TaskType: "publish",
	})

	week, err := ListWeekTasks(db, weekStart, weekEnd)
	require.NoError(t, err)
	require.Len(t, week, 1)
	assert.Equal(t, inside.ID, week[0].ID)

	// A paused one-shot inside the window still shows: the window test
	// applies regardless of status.
	pausedRun := weekStart + 2000
	seedScheduledTask(t, db, &models.ScheduledTask{
		Name: "paused one-shot", ScheduleType: models.ScheduleTypeOnce, Schedule: "once",
		TaskType: "publish", NextRun: &pausedRun, Status: models.ScheduledPaused,
	})
	week, err = ListWeekTasks(db, weekStart, weekEnd)
	require.NoError(t, err)
	assert.Len(t, week, 2)
}

func TestUpdateScheduledTaskStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	task := seedScheduledTask(t, db, &models.ScheduledTask{
		Name: "digest", ScheduleType: models.ScheduleTypeRecurring, Schedule: "daily", TaskType: "report",
	})

	require.NoError(t, UpdateScheduledTaskStatus(db, task.ID, models.ScheduledPaused))
	got, err := GetScheduledTask(db, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduledPaused, got.Status)

	err = UpdateScheduledTaskStatus(db, "sched_missing", models.ScheduledActive)
	var notFound *models.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDeleteScheduledTask(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	task := seedScheduledTask(t, db, &models.ScheduledTask{
		Name: "temp", ScheduleType: models.ScheduleTypeOnce, Schedule: "once", TaskType: "sync",
	})

	require.NoError(t, DeleteScheduledTask(db, task.ID))
	_, err := GetScheduledTask(db, task.ID)
	var notFound *models.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
