package repository

import (
	"errors"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// DB returns the underlying handle for transactions.
func (r *OrderRepository) DB() *gorm.DB {
	return r.db
}

// NextOrderNumber allocates the next sequential number for the owner.
// The counter row is taken under a row lock, so two transactions creating
// orders for the same owner serialize here and never share a number.
func (r *OrderRepository) NextOrderNumber(tx *gorm.DB, userID string) (int64, error) {
	var counter entity.OrderCounter
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		counter = entity.OrderCounter{UserID: userID, NextNumber: 1}
		if err := tx.Create(&counter).Error; err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	number := counter.NextNumber
	if err := tx.Model(&entity.OrderCounter{}).
		Where("user_id = ?", userID).
		Update("next_number", number+1).Error; err != nil {
		return 0, err
	}
	return number, nil
}

// CreateTx inserts the order and its items inside an open transaction.
func (r *OrderRepository) CreateTx(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) GetByID(userID, id string) (*entity.Order, error) {
	var o entity.Order
	err := r.db.Preload("Items").Preload("Client").
		Where("id = ? AND user_id = ?", id, userID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &o, err
}

func (r *OrderRepository) Update(o *entity.Order) error {
	return r.db.Save(o).Error
}

// Delete removes the order together with its item rows.
func (r *OrderRepository) Delete(userID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var o entity.Order
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&o).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&entity.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&o).Error
	})
}

type OrderListParams struct {
	Status   string
	ClientID string
	DateFrom *time.Time
	DateTo   *time.Time
}

func (r *OrderRepository) List(userID string, params OrderListParams) ([]entity.Order, error) {
	query := r.db.Where("user_id = ?", userID)
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.ClientID != "" {
		query = query.Where("client_id = ?", params.ClientID)
	}
	if params.DateFrom != nil {
		query = query.Where("order_date >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("order_date <= ?", *params.DateTo)
	}
	var orders []entity.Order
	err := query.Preload("Items").Preload("Client").
		Order("order_number DESC").Find(&orders).Error
	return orders, err
}

// ListForSales returns non-cancelled orders in the range, for the sales
// and profit dashboards.
func (r *OrderRepository) ListForSales(userID string, from, to *time.Time) ([]entity.Order, error) {
	query := r.db.Where("user_id = ? AND status <> ?", userID, entity.OrderStatusCancelled)
	if from != nil {
		query = query.Where("order_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("order_date <= ?", *to)
	}
	var orders []entity.Order
	err := query.Find(&orders).Error
	return orders, err
}

// ListActiveWithDeadline returns active orders whose deadline falls in
// [from, to], for the deadline scan.
func (r *OrderRepository) ListActiveWithDeadline(userID string, from, to time.Time) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.
		Where("user_id = ? AND status IN ? AND deadline >= ? AND deadline <= ?",
			userID,
			[]string{entity.OrderStatusInProgress, entity.OrderStatusOnApproval},
			from, to).
		Find(&orders).Error
	return orders, err
}

// ClientStats aggregates order count and total sum for one client.
func (r *OrderRepository) ClientStats(userID, clientID string) (int64, float64, error) {
	var row struct {
		Count int64
		Total float64
	}
	err := r.db.Model(&entity.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS total").
		Where("user_id = ? AND client_id = ?", userID, clientID).
		Scan(&row).Error
	return row.Count, row.Total, err
}
