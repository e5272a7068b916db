package entity

import (
	"time"
)

// PurchasePlan is a planned material purchase. MaterialID links the plan
// back to the low-stock material it was created from, when there is one.
type PurchasePlan struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID         string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Name           string    `json:"name" gorm:"size:128;not null"`
	Quantity       float64   `json:"quantity" gorm:"type:decimal(12,4);default:0"`
	Amount         float64   `json:"amount" gorm:"type:decimal(12,2);default:0"`
	DeliveryMethod string    `json:"delivery_method" gorm:"size:64"`
	Notes          string    `json:"notes" gorm:"type:text"`
	MaterialID     *string   `json:"material_id" gorm:"type:uuid;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (PurchasePlan) TableName() string {
	return "ws_purchase_plans"
}
