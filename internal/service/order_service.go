package service

import (
	"fmt"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService owns order lifecycle. Creating an order reserves product
// stock and assigns the next per-user order number inside one
// transaction.
type OrderService struct {
	orders   *repository.OrderRepository
	products *repository.ProductRepository
	clients  *repository.ClientRepository
	logger   *zap.Logger
}

func NewOrderService(orders *repository.OrderRepository, products *repository.ProductRepository, clients *repository.ClientRepository, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, products: products, clients: clients, logger: logger}
}

type OrderItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	IsBonus   bool    `json:"is_bonus"`
}

type CreateOrderRequest struct {
	ClientID      *string            `json:"client_id"`
	OrderDate     *time.Time         `json:"order_date"`
	Deadline      *time.Time         `json:"deadline"`
	Source        string             `json:"source"`
	Delivery      string             `json:"delivery"`
	Status        string             `json:"status"`
	BonusType     string             `json:"bonus_type"`
	DiscountType  string             `json:"discount_type"`
	DiscountValue float64            `json:"discount_value"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// Create reserves stock for every line, bonus lines included, with
// guarded decrements. On any refusal the whole order rolls back and the
// response names the product that ran short. The total is priced from
// the products' current selling prices and fixed on the order.
func (s *OrderService) Create(userID string, req CreateOrderRequest) (*entity.Order, error) {
	status := req.Status
	if status == "" {
		status = entity.OrderStatusInProgress
	}
	if !entity.KnownOrderStatus(status) {
		return nil, apperr.Validation("status", "неизвестный статус заказа")
	}
	bonusType := req.BonusType
	if bonusType == "" {
		bonusType = entity.BonusTypeNone
	}
	if !entity.KnownBonusType(bonusType) {
		return nil, apperr.Validation("bonus_type", "неизвестный тип бонуса")
	}
	if bonusType == entity.BonusTypeDiscount && !entity.KnownDiscountType(req.DiscountType) {
		return nil, apperr.Validation("discount_type", "неизвестный тип скидки")
	}
	if req.DiscountValue < 0 {
		return nil, apperr.Validation("discount_value", "скидка не может быть отрицательной")
	}
	if len(req.Items) == 0 {
		return nil, apperr.Validation("items", "заказ должен содержать хотя бы одну позицию")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperr.Validation("items", "количество в позиции должно быть больше нуля")
		}
	}
	if req.ClientID != nil && *req.ClientID != "" {
		if _, err := s.clients.GetByID(userID, *req.ClientID); err != nil {
			return nil, err
		}
	} else {
		req.ClientID = nil
	}
	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	var order *entity.Order
	err := s.orders.DB().Transaction(func(tx *gorm.DB) error {
		number, err := s.orders.NextOrderNumber(tx, userID)
		if err != nil {
			return fmt.Errorf("номер заказа: %w", err)
		}

		order = &entity.Order{
			ID:            uuid.New().String(),
			UserID:        userID,
			OrderNumber:   number,
			ClientID:      req.ClientID,
			OrderDate:     orderDate,
			Deadline:      req.Deadline,
			Source:        req.Source,
			Delivery:      req.Delivery,
			Status:        status,
			BonusType:     bonusType,
			DiscountType:  req.DiscountType,
			DiscountValue: req.DiscountValue,
		}

		var lines []PricedLine
		for _, item := range req.Items {
			product, err := s.products.GetByIDTx(tx, userID, item.ProductID)
			if err != nil {
				return err
			}
			ok, err := s.products.DecrementRemaining(tx, userID, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("резервирование изделия: %w", err)
			}
			if !ok {
				// Re-read for the current remainder after the refusal.
				available := 0.0
				if fresh, rerr := s.products.GetByIDTx(tx, userID, item.ProductID); rerr == nil {
					available = fresh.RemainingQuantity
				}
				return &apperr.InsufficientStock{
					ProductID: product.ID,
					Name:      product.Name,
					Available: available,
					Required:  item.Quantity,
				}
			}

			order.Items = append(order.Items, entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				IsBonus:   item.IsBonus,
			})
			lines = append(lines, PricedLine{
				Price:    product.SellingPrice,
				Quantity: item.Quantity,
				IsBonus:  item.IsBonus,
			})
		}

		order.TotalPrice = OrderTotal(lines, bonusType, req.DiscountType, req.DiscountValue)
		if err := s.orders.CreateTx(tx, order); err != nil {
			return fmt.Errorf("создание заказа: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int64("order_number", order.OrderNumber),
		zap.Float64("total", order.TotalPrice))
	return s.orders.GetByID(userID, order.ID)
}

func (s *OrderService) Get(userID, id string) (*entity.Order, error) {
	return s.orders.GetByID(userID, id)
}

func (s *OrderService) List(userID string, params repository.OrderListParams) ([]entity.Order, error) {
	return s.orders.List(userID, params)
}

// UpdateOrderRequest is metadata only. Items, quantities and the total
// price have no field here: changing composition means cancelling and
// re-creating the order, so reserved stock always matches the stored
// lines.
type UpdateOrderRequest struct {
	ClientID *string    `json:"client_id"`
	Status   *string    `json:"status"`
	Deadline *time.Time `json:"deadline"`
	Source   *string    `json:"source"`
	Delivery *string    `json:"delivery"`
}

func (s *OrderService) Update(userID, id string, req UpdateOrderRequest) (*entity.Order, error) {
	o, err := s.orders.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if req.Status != nil {
		if !entity.KnownOrderStatus(*req.Status) {
			return nil, apperr.Validation("status", "неизвестный статус заказа")
		}
		o.Status = *req.Status
	}
	if req.ClientID != nil {
		if *req.ClientID == "" {
			o.ClientID = nil
		} else {
			if _, err := s.clients.GetByID(userID, *req.ClientID); err != nil {
				return nil, err
			}
			o.ClientID = req.ClientID
		}
	}
	if req.Deadline != nil {
		o.Deadline = req.Deadline
	}
	if req.Source != nil {
		o.Source = *req.Source
	}
	if req.Delivery != nil {
		o.Delivery = *req.Delivery
	}
	o.Items = nil
	o.Client = nil
	if err := s.orders.Update(o); err != nil {
		return nil, fmt.Errorf("обновление заказа: %w", err)
	}
	return s.orders.GetByID(userID, id)
}

// Delete removes the order and its items. Reserved stock is not
// returned; cancellation records the loss rather than refilling shelves.
func (s *OrderService) Delete(userID, id string) error {
	if _, err := s.orders.GetByID(userID, id); err != nil {
		return err
	}
	return s.orders.Delete(userID, id)
}
