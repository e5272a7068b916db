package service

import (
	"testing"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/Pavel0504/crm-master-owl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTaskTest(t *testing.T) (*gorm.DB, *TaskService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.SeedTestUser(t, db, testUserID, "Мастер", "master@test.ru")
	repos := repository.NewRepositories(db)
	return db, NewTaskService(repos.Task, zap.NewNop())
}

func taskDates() (time.Time, time.Time) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 3)
}

func TestTaskCreateDefaults(t *testing.T) {
	_, svc := setupTaskTest(t)
	start, end := taskDates()

	task, err := svc.Create(testUserID, TaskRequest{
		Title:     "Закупить фурнитуру",
		StartDate: start,
		EndDate:   end,
		Checklist: []ChecklistItemRequest{
			{Title: "Составить список"},
			{Title: "Позвонить поставщику"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskPriorityMedium, task.Priority)
	assert.Equal(t, entity.TaskStatusActive, task.Status)
	assert.False(t, task.Completed)
	require.Len(t, task.Checklist, 2)
	assert.Equal(t, 0, task.Checklist[0].OrderIndex)
	assert.Equal(t, 1, task.Checklist[1].OrderIndex)
}

func TestTaskCreateValidation(t *testing.T) {
	_, svc := setupTaskTest(t)
	start, end := taskDates()
	var ve *apperr.ValidationError

	_, err := svc.Create(testUserID, TaskRequest{
		Title: "Наоборот", StartDate: end, EndDate: start,
	})
	require.ErrorAs(t, err, &ve)

	_, err = svc.Create(testUserID, TaskRequest{
		Title: "Срочно", StartDate: start, EndDate: end, Priority: "немедленная",
	})
	require.ErrorAs(t, err, &ve)
}

func TestTaskCompleteTicksChecklist(t *testing.T) {
	_, svc := setupTaskTest(t)
	start, end := taskDates()

	task, err := svc.Create(testUserID, TaskRequest{
		Title:     "Упаковка заказов",
		StartDate: start,
		EndDate:   end,
		Checklist: []ChecklistItemRequest{
			{Title: "Коробки"},
			{Title: "Наклейки"},
		},
	})
	require.NoError(t, err)

	done, err := svc.SetCompleted(testUserID, task.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, entity.TaskStatusDone, done.Status)
	for _, item := range done.Checklist {
		assert.True(t, item.Completed)
	}
}

func TestChecklistItemSyncsTaskBothWays(t *testing.T) {
	_, svc := setupTaskTest(t)
	start, end := taskDates()

	task, err := svc.Create(testUserID, TaskRequest{
		Title:     "Инвентаризация",
		StartDate: start,
		EndDate:   end,
		Checklist: []ChecklistItemRequest{
			{Title: "Склад", Completed: true},
			{Title: "Витрина"},
		},
	})
	require.NoError(t, err)
	require.False(t, task.Completed)

	// Ticking the last open item completes the task.
	updated, err := svc.SetChecklistItem(testUserID, task.Checklist[1].ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, entity.TaskStatusDone, updated.Status)

	// Unticking any item reopens it.
	updated, err = svc.SetChecklistItem(testUserID, task.Checklist[0].ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Completed)
	assert.Equal(t, entity.TaskStatusActive, updated.Status)
}

func TestTaskUpdateReplacesChecklist(t *testing.T) {
	_, svc := setupTaskTest(t)
	start, end := taskDates()

	task, err := svc.Create(testUserID, TaskRequest{
		Title:     "Фотосессия изделий",
		StartDate: start,
		EndDate:   end,
		Checklist: []ChecklistItemRequest{{Title: "Фон"}},
	})
	require.NoError(t, err)

	updated, err := svc.Update(testUserID, task.ID, TaskRequest{
		Title:     "Фотосессия изделий",
		StartDate: start,
		EndDate:   end,
		Priority:  entity.TaskPriorityHigh,
		Checklist: []ChecklistItemRequest{
			{Title: "Свет", Completed: true},
			{Title: "Обработка", Completed: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskPriorityHigh, updated.Priority)
	require.Len(t, updated.Checklist, 2)
	// All replacement items are done, so the task completes.
	assert.True(t, updated.Completed)
}

func TestTaskListRange(t *testing.T) {
	_, svc := setupTaskTest(t)
	start, end := taskDates()

	_, err := svc.Create(testUserID, TaskRequest{
		Title: "В диапазоне", StartDate: start, EndDate: end,
	})
	require.NoError(t, err)
	_, err = svc.Create(testUserID, TaskRequest{
		Title:     "Позже",
		StartDate: start.AddDate(0, 2, 0),
		EndDate:   end.AddDate(0, 2, 0),
	})
	require.NoError(t, err)

	tasks, err := svc.ListRange(testUserID, start.AddDate(0, 0, -1), end.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "В диапазоне", tasks[0].Title)
}
