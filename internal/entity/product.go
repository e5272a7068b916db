package entity

import (
	"time"
)

// Product is a manufactured batch. QuantityCreated and CostPricePerItem
// are fixed at creation; RemainingQuantity is only mutated by order
// creation and stays within [0, quantity_created].
type Product struct {
	ID                string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID            string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Name              string    `json:"name" gorm:"size:128;not null"`
	CategoryID        *string   `json:"category_id" gorm:"type:uuid;index"`
	Description       string    `json:"description" gorm:"type:text"`
	Composition       string    `json:"composition" gorm:"type:text"`
	QuantityCreated   float64   `json:"quantity_created" gorm:"type:decimal(12,4);not null"`
	RemainingQuantity float64   `json:"remaining_quantity" gorm:"type:decimal(12,4);not null"`
	LaborHoursPerItem float64   `json:"labor_hours_per_item" gorm:"type:decimal(8,2);default:0"`
	CostPricePerItem  float64   `json:"cost_price_per_item" gorm:"type:decimal(12,2);default:0"`
	SellingPrice      float64   `json:"selling_price" gorm:"type:decimal(12,2);default:0"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Category  *ProductCategory  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Materials []ProductMaterial `json:"materials,omitempty" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "ws_products"
}

// ProductMaterial records how much of a material one produced unit
// consumed. The rows are written once at product creation and never
// edited afterwards.
type ProductMaterial struct {
	ID            string  `json:"id" gorm:"primaryKey;type:uuid"`
	ProductID     string  `json:"product_id" gorm:"type:uuid;not null;index"`
	MaterialID    string  `json:"material_id" gorm:"type:uuid;not null;index"`
	VolumePerItem float64 `json:"volume_per_item" gorm:"type:decimal(12,4);not null"`
}

func (ProductMaterial) TableName() string {
	return "ws_product_materials"
}

// ProductCategory carries per-unit energy costs and links the tools the
// category's products are produced with.
type ProductCategory struct {
	ID                     string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID                 string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Name                   string    `json:"name" gorm:"size:128;not null"`
	ParentID               *string   `json:"parent_id" gorm:"type:uuid"`
	EnergyCostsElectricity float64   `json:"energy_costs_electricity" gorm:"type:decimal(10,2);default:0"`
	EnergyCostsWater       float64   `json:"energy_costs_water" gorm:"type:decimal(10,2);default:0"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func (ProductCategory) TableName() string {
	return "ws_product_categories"
}

// ProductCategoryInventory links a product category to an inventory item.
type ProductCategoryInventory struct {
	CategoryID  string `json:"category_id" gorm:"primaryKey;type:uuid"`
	InventoryID string `json:"inventory_id" gorm:"primaryKey;type:uuid"`
}

func (ProductCategoryInventory) TableName() string {
	return "ws_product_category_inventory"
}
