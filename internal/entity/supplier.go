package entity

import (
	"time"
)

// Supplier is a vendor the workshop buys materials from.
type Supplier struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID         string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Name           string    `json:"name" gorm:"size:128;not null"`
	CategoryID     *string   `json:"category_id" gorm:"type:uuid;index"`
	DeliveryMethod string    `json:"delivery_method" gorm:"size:64"`
	DeliveryPrice  float64   `json:"delivery_price" gorm:"type:decimal(12,2);default:0"`
	Notes          string    `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Category *SupplierCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Supplier) TableName() string {
	return "ws_suppliers"
}

// SupplierCategory is a single-parent category tree node.
type SupplierCategory struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	ParentID  *string   `json:"parent_id" gorm:"type:uuid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SupplierCategory) TableName() string {
	return "ws_supplier_categories"
}
