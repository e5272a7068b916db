package service

import (
	"context"
	"testing"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/Pavel0504/crm-master-owl/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDashboardTest(t *testing.T) (*gorm.DB, *DashboardService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.SeedTestUser(t, db, testUserID, "Мастер", "master@test.ru")
	repos := repository.NewRepositories(db)
	return db, NewDashboardService(repos.Order, repos.Material, repos.Inventory, nil, zap.NewNop())
}

func seedOrderAt(t *testing.T, db *gorm.DB, number int64, status string, date time.Time, total float64) {
	t.Helper()
	require.NoError(t, db.Create(&entity.Order{
		ID:          uuid.NewString(),
		UserID:      testUserID,
		OrderNumber: number,
		OrderDate:   date,
		Status:      status,
		BonusType:   entity.BonusTypeNone,
		TotalPrice:  total,
	}).Error)
}

func TestSalesBucketsByMonthAndSkipsCancelled(t *testing.T) {
	db, svc := setupDashboardTest(t)

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	seedOrderAt(t, db, 1, entity.OrderStatusDone, jan, 1000)
	seedOrderAt(t, db, 2, entity.OrderStatusInProgress, jan, 500)
	seedOrderAt(t, db, 3, entity.OrderStatusDone, feb, 200)
	seedOrderAt(t, db, 4, entity.OrderStatusCancelled, feb, 9999)

	series, err := svc.Sales(context.Background(), testUserID, PeriodParams{})
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, SeriesPoint{Period: "2026-01", Total: 1500, Count: 2}, series[0])
	assert.Equal(t, SeriesPoint{Period: "2026-02", Total: 200, Count: 1}, series[1])
}

func TestBucketGroupings(t *testing.T) {
	ts := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-02", bucket(ts, GroupByDay))
	// 2026-01-02 falls into ISO week 1 of 2026.
	assert.Equal(t, "2026-W01", bucket(ts, GroupByWeek))
	assert.Equal(t, "2026-01", bucket(ts, GroupByMonth))
	assert.Equal(t, "2026", bucket(ts, GroupByYear))

	// 2027-01-01 is a Friday of ISO week 53 of 2026.
	nye := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-W53", bucket(nye, GroupByWeek))
}

func TestPeriodParamsValidation(t *testing.T) {
	_, svc := setupDashboardTest(t)
	var ve *apperr.ValidationError

	_, err := svc.Sales(context.Background(), testUserID, PeriodParams{GroupBy: "decade"})
	require.ErrorAs(t, err, &ve)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, -1, 0)
	_, err = svc.Sales(context.Background(), testUserID, PeriodParams{From: &from, To: &to})
	require.ErrorAs(t, err, &ve)
}

func TestExpensesSumPurchases(t *testing.T) {
	db, svc := setupDashboardTest(t)

	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&entity.Material{
		ID: uuid.NewString(), UserID: testUserID, Name: "Дуб",
		PurchasePrice: 300, InitialVolume: 10, RemainingVolume: 10,
		PurchaseDate: &jan,
	}).Error)
	require.NoError(t, db.Create(&entity.InventoryItem{
		ID: uuid.NewString(), UserID: testUserID, Name: "Рубанок",
		PurchasePrice: 700, WearPercentage: 100,
		PurchaseDate: &jan,
	}).Error)
	// No purchase date: not an expense.
	require.NoError(t, db.Create(&entity.Material{
		ID: uuid.NewString(), UserID: testUserID, Name: "Остаток",
		PurchasePrice: 50, InitialVolume: 1, RemainingVolume: 1,
	}).Error)

	series, err := svc.Expenses(context.Background(), testUserID, PeriodParams{})
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, SeriesPoint{Period: "2026-01", Total: 1000, Count: 2}, series[0])
}

func TestMaterialExpensesByCategory(t *testing.T) {
	db, svc := setupDashboardTest(t)

	catID := uuid.NewString()
	require.NoError(t, db.Create(&entity.MaterialCategory{
		ID: catID, UserID: testUserID, Name: "Дерево",
	}).Error)
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&entity.Material{
		ID: uuid.NewString(), UserID: testUserID, Name: "Дуб",
		CategoryID: &catID, PurchasePrice: 800, InitialVolume: 1, RemainingVolume: 1,
		PurchaseDate: &jan,
	}).Error)
	require.NoError(t, db.Create(&entity.Material{
		ID: uuid.NewString(), UserID: testUserID, Name: "Клей",
		PurchasePrice: 100, InitialVolume: 1, RemainingVolume: 1,
		PurchaseDate: &jan,
	}).Error)

	out, err := svc.MaterialExpenses(context.Background(), testUserID, PeriodParams{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	// Sorted by spend, largest first.
	assert.Equal(t, "Дерево", out[0].CategoryName)
	assert.Equal(t, 800.0, out[0].Total)
	assert.Equal(t, "Без категории", out[1].CategoryName)
	assert.Equal(t, 100.0, out[1].Total)
}

func TestProfitMergesSalesAndExpenses(t *testing.T) {
	db, svc := setupDashboardTest(t)

	jan := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)
	seedOrderAt(t, db, 1, entity.OrderStatusDone, jan, 2000)
	require.NoError(t, db.Create(&entity.Material{
		ID: uuid.NewString(), UserID: testUserID, Name: "Фанера",
		PurchasePrice: 600, InitialVolume: 1, RemainingVolume: 1,
		PurchaseDate: &jan,
	}).Error)
	require.NoError(t, db.Create(&entity.InventoryItem{
		ID: uuid.NewString(), UserID: testUserID, Name: "Лобзик",
		PurchasePrice: 400, WearPercentage: 100,
		PurchaseDate: &feb,
	}).Error)

	points, err := svc.Profit(context.Background(), testUserID, PeriodParams{})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, ProfitPoint{Period: "2026-01", Sales: 2000, Expenses: 600, Profit: 1400}, points[0])
	assert.Equal(t, ProfitPoint{Period: "2026-02", Sales: 0, Expenses: 400, Profit: -400}, points[1])
}
