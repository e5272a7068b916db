package service

import (
	"fmt"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"gorm.io/gorm"
)

// MaterialConsumption is one line of a product's recipe: how much of a
// material a single produced unit takes.
type MaterialConsumption struct {
	MaterialID    string  `json:"material_id" binding:"required"`
	VolumePerItem float64 `json:"volume_per_item" binding:"required,gt=0"`
}

// CostResult is a tagged costing outcome. Warnings carry every lookup
// that could not contribute to the cost, so a preview is never silently
// understated.
type CostResult struct {
	UnitCost float64  `json:"unit_cost"`
	Warnings []string `json:"warnings,omitempty"`
}

// CostingEngine derives a product's per-unit cost price from material
// consumption, category energy costs and linked tool wear.
type CostingEngine struct {
	materials *repository.MaterialRepository
	products  *repository.ProductRepository
	inventory *repository.InventoryRepository
}

func NewCostingEngine(materials *repository.MaterialRepository, products *repository.ProductRepository, inventory *repository.InventoryRepository) *CostingEngine {
	return &CostingEngine{materials: materials, products: products, inventory: inventory}
}

// UnitCost computes the batch cost and divides it by quantity. It reads
// through tx so that product creation prices the batch against the same
// snapshot it decrements. Lookup failures downgrade to warnings; labor
// hours are tracked for display and deliberately add nothing here.
func (e *CostingEngine) UnitCost(tx *gorm.DB, userID string, categoryID *string, consumption []MaterialConsumption, quantity float64) (CostResult, error) {
	if quantity <= 0 {
		return CostResult{}, apperr.Validation("quantity_created", "количество должно быть больше нуля")
	}

	var total float64
	var warnings []string

	for _, line := range consumption {
		mat, err := e.materials.GetByIDTx(tx, userID, line.MaterialID)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("материал %s не найден, не учтен в себестоимости", line.MaterialID))
			continue
		}
		pricePerUnit, ok := mat.PricePerUnit()
		if !ok {
			warnings = append(warnings, fmt.Sprintf("материал %q имеет нулевой начальный объем, не учтен в себестоимости", mat.Name))
			continue
		}
		total += pricePerUnit * line.VolumePerItem * quantity
	}

	if categoryID != nil && *categoryID != "" {
		category, err := e.products.GetCategoryByIDTx(tx, userID, *categoryID)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("категория %s не найдена, энергозатраты не учтены", *categoryID))
		} else {
			total += (category.EnergyCostsElectricity + category.EnergyCostsWater) * quantity
		}

		tools, err := e.inventory.ListByProductCategory(tx, userID, *categoryID)
		if err != nil {
			warnings = append(warnings, "инвентарь категории недоступен, износ не учтен")
		} else {
			for _, tool := range tools {
				total += tool.PurchasePrice * tool.WearRatePerItem / 100 * quantity
			}
		}
	}

	return CostResult{UnitCost: total / quantity, Warnings: warnings}, nil
}

// PricedLine is an order line with the product price resolved.
type PricedLine struct {
	Price    float64
	Quantity float64
	IsBonus  bool
}

// OrderTotal computes the order price from its lines. Bonus lines do not
// contribute; скидка applies the discount in percent or absolute mode;
// the result never drops below zero.
func OrderTotal(lines []PricedLine, bonusType, discountType string, discountValue float64) float64 {
	var base float64
	for _, line := range lines {
		if line.IsBonus {
			continue
		}
		base += line.Price * line.Quantity
	}

	total := base
	if bonusType == entity.BonusTypeDiscount && discountValue > 0 {
		switch discountType {
		case entity.DiscountTypePercent:
			total = base * (1 - discountValue/100)
		case entity.DiscountTypeAmount:
			total = base - discountValue
		}
	}

	if total < 0 {
		total = 0
	}
	return total
}
