package service

import (
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

func setupOrderTest(t *testing.T) (*gorm.DB, *repository.Repositories, *OrderService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.SeedTestUser(t, db, testUserID, "Мастер", "master@test.ru")
	repos := repository.NewRepositories(db)
	svc := NewOrderService(repos.Order, repos.Product, repos.Client, zap.NewNop())
	return db, repos, svc
}

func seedProduct(t *testing.T, db *gorm.DB, id string, remaining, price float64) {
	t.Helper()
	require.NoError(t, db.Create(&entity.Product{
		ID:                id,
		UserID:            testUserID,
		Name:              "Изделие " + id,
		QuantityCreated:   remaining,
		RemainingQuantity: remaining,
		SellingPrice:      price,
	}).Error)
}

func TestOrderCreateAssignsSequentialNumbers(t *testing.T) {
	db, _, svc := setupOrderTest(t)
	seedProduct(t, db, "prod-1", 100, 250)

	for want := int64(1); want <= 3; want++ {
		order, err := svc.Create(testUserID, CreateOrderRequest{
			Items: []OrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, want, order.OrderNumber)
	}
}

func TestOrderCreatePricesFromCurrentSellingPrice(t *testing.T) {
	db, _, svc := setupOrderTest(t)
	seedProduct(t, db, "prod-1", 10, 300)
	seedProduct(t, db, "prod-2", 10, 100)

	order, err := svc.Create(testUserID, CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: "prod-1", Quantity: 2},
			{ProductID: "prod-2", Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 700.0, order.TotalPrice, 0.0001)
	assert.Equal(t, entity.OrderStatusInProgress, order.Status)
	require.Len(t, order.Items, 2)

	// A later price change must not touch the fixed total.
	require.NoError(t, db.Model(&entity.Product{}).
		Where("id = ?", "prod-1").Update("selling_price", 999).Error)
	reread, err := svc.Get(testUserID, order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 700.0, reread.TotalPrice, 0.0001)
}

func TestOrderCreateBonusLineConsumesStockButCostsNothing(t *testing.T) {
	db, _, svc := setupOrderTest(t)
	seedProduct(t, db, "prod-1", 10, 400)

	order, err := svc.Create(testUserID, CreateOrderRequest{
		BonusType: entity.BonusTypeExtra,
		Items: []OrderItemRequest{
			{ProductID: "prod-1", Quantity: 2},
			{ProductID: "prod-1", Quantity: 1, IsBonus: true},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 800.0, order.TotalPrice, 0.0001)

	var product entity.Product
	require.NoError(t, db.First(&product, "id = ?", "prod-1").Error)
	assert.InDelta(t, 7.0, product.RemainingQuantity, 0.0001)
}

func TestOrderCreateInsufficientStockRollsBack(t *testing.T) {
	db, _, svc := setupOrderTest(t)
	seedProduct(t, db, "prod-1", 10, 100)
	seedProduct(t, db, "prod-2", 1, 100)

	_, err := svc.Create(testUserID, CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: "prod-1", Quantity: 5},
			{ProductID: "prod-2", Quantity: 3},
		},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsInsufficiency(err))

	var stock *apperr.InsufficientStock
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, "prod-2", stock.ProductID)
	assert.Equal(t, 1.0, stock.Available)
	assert.Equal(t, 3.0, stock.Required)

	// Both decrements roll back together with the order row.
	var first entity.Product
	require.NoError(t, db.First(&first, "id = ?", "prod-1").Error)
	assert.Equal(t, 10.0, first.RemainingQuantity)

	var count int64
	require.NoError(t, db.Model(&entity.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderCreateValidation(t *testing.T) {
	db, _, svc := setupOrderTest(t)
	seedProduct(t, db, "prod-1", 10, 100)
	var ve *apperr.ValidationError

	_, err := svc.Create(testUserID, CreateOrderRequest{
		Status: "Готов",
		Items:  []OrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
	})
	require.ErrorAs(t, err, &ve)

	_, err = svc.Create(testUserID, CreateOrderRequest{Items: nil})
	require.ErrorAs(t, err, &ve)

	_, err = svc.Create(testUserID, CreateOrderRequest{
		Items: []OrderItemRequest{{ProductID: "prod-1", Quantity: -1}},
	})
	require.ErrorAs(t, err, &ve)
}

func TestOrderCreateRejectsUnknownBonusAndDiscountTypes(t *testing.T) {
	db, _, svc := setupOrderTest(t)
	seedProduct(t, db, "prod-1", 10, 100)
	var ve *apperr.ValidationError

	_, err := svc.Create(testUserID, CreateOrderRequest{
		BonusType: "подарок",
		Items:     []OrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
	})
	require.ErrorAs(t, err, &ve)

	// A misspelled discount type would silently drop the discount from
	// the fixed total, so it is rejected up front.
	_, err = svc.Create(testUserID, CreateOrderRequest{
		BonusType:     entity.BonusTypeDiscount,
		DiscountType:  "проценты",
		DiscountValue: 50,
		Items:         []OrderItemRequest{{ProductID: "prod-1", Quantity: 2}},
	})
	require.ErrorAs(t, err, &ve)

	var count int64
	require.NoError(t, db.Model(&entity.Order{}).Count(&count).Error)
	assert.Zero(t, count)

	order, err := svc.Create(testUserID, CreateOrderRequest{
		BonusType:     entity.BonusTypeDiscount,
		DiscountType:  entity.DiscountTypePercent,
		DiscountValue: 50,
		Items:         []OrderItemRequest{{ProductID: "prod-1", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, order.TotalPrice, 0.0001)
}

func TestOrderUpdateTouchesOnlyMetadata(t *testing.T) {
	db, _, svc := setupOrderTest(t)
	seedProduct(t, db, "prod-1", 10, 100)

	clientID := uuid.NewString()
	require.NoError(t, db.Create(&entity.Client{
		ID: clientID, UserID: testUserID, FullName: "Анна",
	}).Error)

	order, err := svc.Create(testUserID, CreateOrderRequest{
		Items: []OrderItemRequest{{ProductID: "prod-1", Quantity: 2}},
	})
	require.NoError(t, err)

	status := entity.OrderStatusDone
	deadline := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	source := "ярмарка"
	updated, err := svc.Update(testUserID, order.ID, UpdateOrderRequest{
		ClientID: &clientID,
		Status:   &status,
		Deadline: &deadline,
		Source:   &source,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDone, updated.Status)
	require.NotNil(t, updated.ClientID)
	assert.Equal(t, clientID, *updated.ClientID)
	assert.Equal(t, "ярмарка", updated.Source)

	// Lines and the fixed total survive any metadata edit.
	assert.InDelta(t, order.TotalPrice, updated.TotalPrice, 0.0001)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 2.0, updated.Items[0].Quantity)
}

func TestOrderDeleteCascadesItemsWithoutReturningStock(t *testing.T) {
	db, _, svc := setupOrderTest(t)
	seedProduct(t, db, "prod-1", 10, 100)

	order, err := svc.Create(testUserID, CreateOrderRequest{
		Items: []OrderItemRequest{{ProductID: "prod-1", Quantity: 4}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(testUserID, order.ID))

	var items int64
	require.NoError(t, db.Model(&entity.OrderItem{}).
		Where("order_id = ?", order.ID).Count(&items).Error)
	assert.Zero(t, items)

	// Deleting an order is bookkeeping, not a stock return.
	var product entity.Product
	require.NoError(t, db.First(&product, "id = ?", "prod-1").Error)
	assert.Equal(t, 6.0, product.RemainingQuantity)
}
