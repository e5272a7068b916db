package entity

import (
	"time"
)

// Material is consumable stock measured in volume units. RemainingVolume
// is only mutated by product creation and by direct edits; the stock
// engine keeps 0 <= remaining_volume <= initial_volume.
type Material struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid"`
	UserID          string     `json:"user_id" gorm:"type:uuid;not null;index"`
	Name            string     `json:"name" gorm:"size:128;not null"`
	CategoryID      *string    `json:"category_id" gorm:"type:uuid;index"`
	Supplier        string     `json:"supplier" gorm:"size:128"`
	DeliveryMethod  string     `json:"delivery_method" gorm:"size:64"`
	PurchasePrice   float64    `json:"purchase_price" gorm:"type:decimal(12,2);default:0"`
	InitialVolume   float64    `json:"initial_volume" gorm:"type:decimal(12,4);default:0"`
	RemainingVolume float64    `json:"remaining_volume" gorm:"type:decimal(12,4);default:0"`
	Unit            string     `json:"unit_of_measurement" gorm:"size:20"`
	PurchaseDate    *time.Time `json:"purchase_date" gorm:"type:date"`
	Archived        bool       `json:"archived" gorm:"not null;default:false"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Category *MaterialCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Material) TableName() string {
	return "ws_materials"
}

// PricePerUnit returns purchase price per volume unit. The second return
// is false when the initial volume is zero and no price can be derived.
func (m *Material) PricePerUnit() (float64, bool) {
	if m.InitialVolume <= 0 {
		return 0, false
	}
	return m.PurchasePrice / m.InitialVolume, true
}

// StockPercentage returns remaining volume as a share of the initial one.
func (m *Material) StockPercentage() float64 {
	if m.InitialVolume <= 0 {
		return 0
	}
	return m.RemainingVolume / m.InitialVolume * 100
}

// MaterialCategory is a single-parent category tree node.
type MaterialCategory struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	ParentID  *string   `json:"parent_id" gorm:"type:uuid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MaterialCategory) TableName() string {
	return "ws_material_categories"
}
