package entity

import (
	"time"
)

// InventoryItem is a reusable tool with a wear budget. WearPercentage
// starts at 100 and is decremented by wear_rate_per_item for every
// produced unit of a product whose category links the item.
type InventoryItem struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid"`
	UserID          string     `json:"user_id" gorm:"type:uuid;not null;index"`
	Name            string     `json:"name" gorm:"size:128;not null"`
	CategoryID      *string    `json:"category_id" gorm:"type:uuid;index"`
	PurchasePrice   float64    `json:"purchase_price" gorm:"type:decimal(12,2);default:0"`
	WearPercentage  float64    `json:"wear_percentage" gorm:"type:decimal(7,4);default:100"`
	WearRatePerItem float64    `json:"wear_rate_per_item" gorm:"type:decimal(7,4);default:0"`
	PurchaseDate    *time.Time `json:"purchase_date" gorm:"type:date"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Category *InventoryCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (InventoryItem) TableName() string {
	return "ws_inventory"
}

// RemainingValue is the current book value of the tool.
func (i *InventoryItem) RemainingValue() float64 {
	return i.WearPercentage / 100 * i.PurchasePrice
}

// InventoryCategory is a single-parent category tree node.
type InventoryCategory struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	ParentID  *string   `json:"parent_id" gorm:"type:uuid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InventoryCategory) TableName() string {
	return "ws_inventory_categories"
}
