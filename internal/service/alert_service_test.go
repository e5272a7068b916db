package service

import (
	"testing"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/Pavel0504/crm-master-owl/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var alertNow = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

func setupAlertTest(t *testing.T) (*gorm.DB, *AlertService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.SeedTestUser(t, db, testUserID, "Мастер", "master@test.ru")
	repos := repository.NewRepositories(db)
	svc := NewAlertService(repos.Material, repos.Order, repos.Task, repos.User, nil, "UTC", zap.NewNop())
	svc.SetClock(func() time.Time { return alertNow })
	return db, svc
}

func TestScanLowStockThresholds(t *testing.T) {
	db, svc := setupAlertTest(t)

	// 39.99% alerts, 40% and 0% do not.
	seedMaterial(t, db, "mat-low", 100, 100, 39.99)
	seedMaterial(t, db, "mat-edge", 100, 100, 40)
	seedMaterial(t, db, "mat-empty", 100, 100, 0)
	seedMaterial(t, db, "mat-full", 100, 100, 100)

	alerts, err := svc.ScanLowStock(testUserID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertKindLowStock, alerts[0].Kind)
	assert.Equal(t, "mat-low", alerts[0].EntityID)
}

func TestScanLowStockSkipsArchived(t *testing.T) {
	db, svc := setupAlertTest(t)

	seedMaterial(t, db, "mat-arch", 100, 100, 10)
	require.NoError(t, db.Model(&entity.Material{}).
		Where("id = ?", "mat-arch").Update("archived", true).Error)

	alerts, err := svc.ScanLowStock(testUserID)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func seedOrderWithDeadline(t *testing.T, db *gorm.DB, number int64, status string, deadline time.Time) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, db.Create(&entity.Order{
		ID:          id,
		UserID:      testUserID,
		OrderNumber: number,
		OrderDate:   alertNow,
		Deadline:    &deadline,
		Status:      status,
		BonusType:   entity.BonusTypeNone,
	}).Error)
	return id
}

func TestScanOrderDeadlineTiers(t *testing.T) {
	db, svc := setupAlertTest(t)

	today := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	seedOrderWithDeadline(t, db, 1, entity.OrderStatusInProgress, today)
	seedOrderWithDeadline(t, db, 2, entity.OrderStatusOnApproval, today.AddDate(0, 0, 1))
	seedOrderWithDeadline(t, db, 3, entity.OrderStatusInProgress, today.AddDate(0, 0, 2))
	// Outside the window or inactive: no alert.
	seedOrderWithDeadline(t, db, 4, entity.OrderStatusInProgress, today.AddDate(0, 0, 3))
	seedOrderWithDeadline(t, db, 5, entity.OrderStatusDone, today)
	seedOrderWithDeadline(t, db, 6, entity.OrderStatusCancelled, today)

	alerts, err := svc.ScanOrderDeadlines(testUserID)
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	byTier := map[int]string{}
	for _, a := range alerts {
		assert.Equal(t, AlertKindOrderDeadline, a.Kind)
		byTier[a.Tier] = a.Message
	}
	assert.Equal(t, "Заказ №1: срок истекает сегодня!", byTier[0])
	assert.Equal(t, "Заказ №2: остался 1 день", byTier[1])
	assert.Equal(t, "Заказ №3: осталось 2 дня", byTier[2])
}

func TestScanTaskDeadlines(t *testing.T) {
	db, svc := setupAlertTest(t)

	today := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	mk := func(title string, end time.Time, completed bool) {
		status := entity.TaskStatusActive
		if completed {
			status = entity.TaskStatusDone
		}
		require.NoError(t, db.Create(&entity.Task{
			ID:        uuid.NewString(),
			UserID:    testUserID,
			Title:     title,
			StartDate: today.AddDate(0, 0, -7),
			EndDate:   end,
			Priority:  entity.TaskPriorityMedium,
			Status:    status,
			Completed: completed,
		}).Error)
	}
	mk("Сегодня", today, false)
	mk("Завтра", today.AddDate(0, 0, 1), false)
	mk("Послезавтра", today.AddDate(0, 0, 2), false)
	mk("Сделана", today, true)

	alerts, err := svc.ScanTaskDeadlines(testUserID)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	messages := []string{alerts[0].Message, alerts[1].Message}
	assert.Contains(t, messages, "Задача «Сегодня» истекает сегодня")
	assert.Contains(t, messages, "Задача «Завтра» истекает завтра")
}

func TestScanIsIdempotentWithoutRedis(t *testing.T) {
	db, svc := setupAlertTest(t)
	seedMaterial(t, db, "mat-low", 100, 100, 20)

	first, err := svc.Scan(testUserID)
	require.NoError(t, err)
	second, err := svc.Scan(testUserID)
	require.NoError(t, err)

	// Direct reads always return the full current set.
	assert.Equal(t, first, second)
	require.Len(t, first, 1)
}
