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
	"gorm.io/gorm"
)

const testUserID = "user-001"

func setupCostingTest(t *testing.T) (*gorm.DB, *repository.Repositories, *CostingEngine) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.SeedTestUser(t, db, testUserID, "Мастер", "master@test.ru")
	repos := repository.NewRepositories(db)
	engine := NewCostingEngine(repos.Material, repos.Product, repos.Inventory)
	return db, repos, engine
}

func seedMaterial(t *testing.T, db *gorm.DB, id string, price, initial, remaining float64) {
	t.Helper()
	err := db.Create(&entity.Material{
		ID:              id,
		UserID:          testUserID,
		Name:            "Материал " + id,
		PurchasePrice:   price,
		InitialVolume:   initial,
		RemainingVolume: remaining,
		Unit:            "м",
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}).Error
	require.NoError(t, err)
}

func seedCategoryWithTool(t *testing.T, db *gorm.DB, categoryID, toolID string, electricity, water, toolPrice, wearRate float64) {
	t.Helper()
	require.NoError(t, db.Create(&entity.ProductCategory{
		ID:                     categoryID,
		UserID:                 testUserID,
		Name:                   "Категория " + categoryID,
		EnergyCostsElectricity: electricity,
		EnergyCostsWater:       water,
	}).Error)
	require.NoError(t, db.Create(&entity.InventoryItem{
		ID:              toolID,
		UserID:          testUserID,
		Name:            "Инструмент " + toolID,
		PurchasePrice:   toolPrice,
		WearPercentage:  100,
		WearRatePerItem: wearRate,
	}).Error)
	require.NoError(t, db.Create(&entity.ProductCategoryInventory{
		CategoryID:  categoryID,
		InventoryID: toolID,
	}).Error)
}

func TestUnitCostFullBreakdown(t *testing.T) {
	db, _, engine := setupCostingTest(t)

	// 1000 for 100 units of volume: 10 per unit.
	seedMaterial(t, db, "mat-1", 1000, 100, 100)
	// Electricity 5 + water 3 per unit; tool 2000 wearing 1% per unit: 20.
	categoryID := "cat-1"
	seedCategoryWithTool(t, db, categoryID, "tool-1", 5, 3, 2000, 1)

	result, err := engine.UnitCost(db, testUserID, &categoryID, []MaterialConsumption{
		{MaterialID: "mat-1", VolumePerItem: 2},
	}, 10)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	// Per unit: material 2*10=20, energy 8, wear 20.
	assert.InDelta(t, 48.0, result.UnitCost, 0.0001)
}

func TestUnitCostRejectsNonPositiveQuantity(t *testing.T) {
	db, _, engine := setupCostingTest(t)

	_, err := engine.UnitCost(db, testUserID, nil, nil, 0)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = engine.UnitCost(db, testUserID, nil, nil, -3)
	require.ErrorAs(t, err, &ve)
}

func TestUnitCostWarnsOnMissingMaterial(t *testing.T) {
	db, _, engine := setupCostingTest(t)
	seedMaterial(t, db, "mat-1", 500, 50, 50)

	result, err := engine.UnitCost(db, testUserID, nil, []MaterialConsumption{
		{MaterialID: "mat-1", VolumePerItem: 1},
		{MaterialID: "mat-ghost", VolumePerItem: 1},
	}, 5)
	require.NoError(t, err)

	// The missing material contributes zero but is reported.
	require.Len(t, result.Warnings, 1)
	assert.InDelta(t, 10.0, result.UnitCost, 0.0001)
}

func TestUnitCostWarnsOnZeroInitialVolume(t *testing.T) {
	db, _, engine := setupCostingTest(t)
	seedMaterial(t, db, "mat-zero", 800, 0, 0)

	result, err := engine.UnitCost(db, testUserID, nil, []MaterialConsumption{
		{MaterialID: "mat-zero", VolumePerItem: 2},
	}, 4)
	require.NoError(t, err)

	// No derivable unit price: warning instead of Inf.
	require.Len(t, result.Warnings, 1)
	assert.Zero(t, result.UnitCost)
}

func TestUnitCostWarnsOnMissingCategory(t *testing.T) {
	db, _, engine := setupCostingTest(t)
	ghost := "cat-ghost"

	result, err := engine.UnitCost(db, testUserID, &ghost, nil, 2)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Zero(t, result.UnitCost)
}

func TestOrderTotal(t *testing.T) {
	lines := []PricedLine{
		{Price: 100, Quantity: 2},
		{Price: 50, Quantity: 1},
		{Price: 999, Quantity: 3, IsBonus: true},
	}

	tests := []struct {
		name          string
		bonusType     string
		discountType  string
		discountValue float64
		want          float64
	}{
		{"no bonus", entity.BonusTypeNone, "", 0, 250},
		{"bonus item costs nothing", entity.BonusTypeExtra, "", 0, 250},
		{"percent discount", entity.BonusTypeDiscount, entity.DiscountTypePercent, 10, 225},
		{"amount discount", entity.BonusTypeDiscount, entity.DiscountTypeAmount, 30, 220},
		{"discount never goes negative", entity.BonusTypeDiscount, entity.DiscountTypeAmount, 10000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrderTotal(lines, tt.bonusType, tt.discountType, tt.discountValue)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}
