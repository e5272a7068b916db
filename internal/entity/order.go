package entity

import (
	"time"
)

// Order statuses. Stored verbatim; the UI renders them as-is.
const (
	OrderStatusInProgress = "В процессе"
	OrderStatusOnApproval = "На утверждении"
	OrderStatusDone       = "Выполнен"
	OrderStatusCancelled  = "Отменен"
)

// Bonus types.
const (
	BonusTypeNone     = "нет"
	BonusTypeDiscount = "скидка"
	BonusTypeExtra    = "доп.товар"
)

// Discount modes, applied only when bonus type is скидка.
const (
	DiscountTypePercent = "процент"
	DiscountTypeAmount  = "сумма"
)

// KnownOrderStatus reports whether s is one of the order statuses.
func KnownOrderStatus(s string) bool {
	switch s {
	case OrderStatusInProgress, OrderStatusOnApproval, OrderStatusDone, OrderStatusCancelled:
		return true
	}
	return false
}

// KnownBonusType reports whether b is one of the bonus types.
func KnownBonusType(b string) bool {
	return b == BonusTypeNone || b == BonusTypeDiscount || b == BonusTypeExtra
}

// KnownDiscountType reports whether d is one of the discount types.
func KnownDiscountType(d string) bool {
	return d == DiscountTypePercent || d == DiscountTypeAmount
}

// Order is a sale at a fixed total price. Items and TotalPrice are set at
// creation; later edits touch metadata only.
type Order struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid"`
	UserID        string     `json:"user_id" gorm:"type:uuid;not null;index"`
	OrderNumber   int64      `json:"order_number" gorm:"not null;index:idx_ws_orders_user_number,unique,composite:user_id"`
	ClientID      *string    `json:"client_id" gorm:"type:uuid;index"`
	OrderDate     time.Time  `json:"order_date" gorm:"type:date;not null"`
	Deadline      *time.Time `json:"deadline" gorm:"type:date"`
	Source        string     `json:"source" gorm:"size:64"`
	Delivery      string     `json:"delivery" gorm:"size:64"`
	Status        string     `json:"status" gorm:"size:32;not null"`
	BonusType     string     `json:"bonus_type" gorm:"size:32;not null"`
	DiscountType  string     `json:"discount_type" gorm:"size:32;not null"`
	DiscountValue float64    `json:"discount_value" gorm:"type:decimal(12,2);default:0"`
	TotalPrice    float64    `json:"total_price" gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Client *Client     `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Items  []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "ws_orders"
}

// Active reports whether the order still counts against deadlines.
func (o *Order) Active() bool {
	return o.Status == OrderStatusInProgress || o.Status == OrderStatusOnApproval
}

// OrderItem is one order line. Bonus lines contribute zero to the total
// price but still consume product stock.
type OrderItem struct {
	ID        string  `json:"id" gorm:"primaryKey;type:uuid"`
	OrderID   string  `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID string  `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  float64 `json:"quantity" gorm:"type:decimal(12,4);not null"`
	IsBonus   bool    `json:"is_bonus" gorm:"not null;default:false"`
}

func (OrderItem) TableName() string {
	return "ws_order_items"
}

// OrderCounter allocates sequential per-owner order numbers. The row is
// locked inside the order creation transaction so numbers never collide.
type OrderCounter struct {
	UserID     string `gorm:"primaryKey;type:uuid"`
	NextNumber int64  `gorm:"not null;default:1"`
}

func (OrderCounter) TableName() string {
	return "ws_order_counters"
}
