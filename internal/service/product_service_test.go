package service

import (
	"testing"

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

func setupProductTest(t *testing.T) (*gorm.DB, *repository.Repositories, *ProductService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.SeedTestUser(t, db, testUserID, "Мастер", "master@test.ru")
	repos := repository.NewRepositories(db)
	costing := NewCostingEngine(repos.Material, repos.Product, repos.Inventory)
	svc := NewProductService(repos.Product, repos.Material, repos.Inventory, costing, zap.NewNop())
	return db, repos, svc
}

func TestProductCreateConsumesStockAndWear(t *testing.T) {
	db, _, svc := setupProductTest(t)

	seedMaterial(t, db, "mat-1", 1000, 100, 100)
	categoryID := "cat-1"
	seedCategoryWithTool(t, db, categoryID, "tool-1", 2, 1, 1500, 0.5)

	product, warnings, err := svc.Create(testUserID, CreateProductRequest{
		Name:            "Табурет",
		CategoryID:      &categoryID,
		QuantityCreated: 10,
		SellingPrice:    500,
		Materials: []MaterialConsumption{
			{MaterialID: "mat-1", VolumePerItem: 3},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 10.0, product.RemainingQuantity)
	// Material 3*10 per unit = 30, energy 3, wear 1500*0.5/100 = 7.5.
	assert.InDelta(t, 40.5, product.CostPricePerItem, 0.0001)

	var mat entity.Material
	require.NoError(t, db.First(&mat, "id = ?", "mat-1").Error)
	assert.InDelta(t, 70.0, mat.RemainingVolume, 0.0001)

	var tool entity.InventoryItem
	require.NoError(t, db.First(&tool, "id = ?", "tool-1").Error)
	assert.InDelta(t, 95.0, tool.WearPercentage, 0.0001)

	var links []entity.ProductMaterial
	require.NoError(t, db.Where("product_id = ?", product.ID).Find(&links).Error)
	require.Len(t, links, 1)
	assert.Equal(t, 3.0, links[0].VolumePerItem)
}

func TestProductCreateInsufficientMaterialRollsBack(t *testing.T) {
	db, _, svc := setupProductTest(t)

	seedMaterial(t, db, "mat-1", 1000, 100, 100)
	seedMaterial(t, db, "mat-2", 500, 50, 5)

	_, _, err := svc.Create(testUserID, CreateProductRequest{
		Name:            "Стол",
		QuantityCreated: 10,
		Materials: []MaterialConsumption{
			{MaterialID: "mat-1", VolumePerItem: 2},
			{MaterialID: "mat-2", VolumePerItem: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsInsufficiency(err))

	// The first material's decrement must have been rolled back too.
	var mat entity.Material
	require.NoError(t, db.First(&mat, "id = ?", "mat-1").Error)
	assert.Equal(t, 100.0, mat.RemainingVolume)

	var count int64
	require.NoError(t, db.Model(&entity.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductCreateInsufficientWearRollsBack(t *testing.T) {
	db, _, svc := setupProductTest(t)

	seedMaterial(t, db, "mat-1", 1000, 100, 100)
	categoryID := "cat-1"
	seedCategoryWithTool(t, db, categoryID, "tool-1", 0, 0, 1000, 30)
	require.NoError(t, db.Model(&entity.InventoryItem{}).
		Where("id = ?", "tool-1").
		Update("wear_percentage", 50).Error)

	_, _, err := svc.Create(testUserID, CreateProductRequest{
		Name:            "Комод",
		CategoryID:      &categoryID,
		QuantityCreated: 2,
		Materials: []MaterialConsumption{
			{MaterialID: "mat-1", VolumePerItem: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsInsufficiency(err))

	var mat entity.Material
	require.NoError(t, db.First(&mat, "id = ?", "mat-1").Error)
	assert.Equal(t, 100.0, mat.RemainingVolume)
}

func TestProductCreateRejectsDuplicateMaterial(t *testing.T) {
	db, _, svc := setupProductTest(t)
	seedMaterial(t, db, "mat-1", 1000, 100, 100)

	_, _, err := svc.Create(testUserID, CreateProductRequest{
		Name:            "Полка",
		QuantityCreated: 1,
		Materials: []MaterialConsumption{
			{MaterialID: "mat-1", VolumePerItem: 1},
			{MaterialID: "mat-1", VolumePerItem: 2},
		},
	})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestProductUpdateKeepsQuantitiesAndCost(t *testing.T) {
	db, _, svc := setupProductTest(t)
	seedMaterial(t, db, "mat-1", 1000, 100, 100)

	product, _, err := svc.Create(testUserID, CreateProductRequest{
		Name:            "Ваза",
		QuantityCreated: 4,
		SellingPrice:    300,
		Materials: []MaterialConsumption{
			{MaterialID: "mat-1", VolumePerItem: 5},
		},
	})
	require.NoError(t, err)

	newName := "Ваза большая"
	newPrice := 450.0
	updated, err := svc.Update(testUserID, product.ID, UpdateProductRequest{
		Name:         &newName,
		SellingPrice: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ваза большая", updated.Name)
	assert.Equal(t, 450.0, updated.SellingPrice)
	assert.Equal(t, product.QuantityCreated, updated.QuantityCreated)
	assert.Equal(t, product.RemainingQuantity, updated.RemainingQuantity)
	assert.Equal(t, product.CostPricePerItem, updated.CostPricePerItem)
}

func TestProductDeleteRestrictedByOrders(t *testing.T) {
	db, repos, svc := setupProductTest(t)
	seedMaterial(t, db, "mat-1", 100, 10, 10)

	product, _, err := svc.Create(testUserID, CreateProductRequest{
		Name:            "Кружка",
		QuantityCreated: 5,
		SellingPrice:    200,
		Materials: []MaterialConsumption{
			{MaterialID: "mat-1", VolumePerItem: 1},
		},
	})
	require.NoError(t, err)

	orders := NewOrderService(repos.Order, repos.Product, repos.Client, zap.NewNop())
	_, err = orders.Create(testUserID, CreateOrderRequest{
		Items: []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	err = svc.Delete(testUserID, product.ID)
	var conflict *apperr.Conflict
	require.ErrorAs(t, err, &conflict)
}

func TestProductCategoryDeleteUnlinksInventory(t *testing.T) {
	db, _, svc := setupProductTest(t)

	toolID := uuid.NewString()
	require.NoError(t, db.Create(&entity.InventoryItem{
		ID: toolID, UserID: testUserID, Name: "Пила", WearPercentage: 100,
	}).Error)

	category, err := svc.CreateCategory(testUserID, ProductCategoryRequest{
		Name:         "Мебель",
		InventoryIDs: []string{toolID},
	})
	require.NoError(t, err)

	linked, err := svc.ListCategoryInventory(testUserID, category.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{toolID}, linked)

	require.NoError(t, svc.DeleteCategory(testUserID, category.ID))

	var count int64
	require.NoError(t, db.Model(&entity.ProductCategoryInventory{}).
		Where("category_id = ?", category.ID).Count(&count).Error)
	assert.Zero(t, count)
}
