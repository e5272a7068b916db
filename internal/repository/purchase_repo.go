package repository

import (
	"errors"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Create(p *entity.PurchasePlan) error {
	return r.db.Create(p).Error
}

func (r *PurchaseRepository) GetByID(userID, id string) (*entity.PurchasePlan, error) {
	var p entity.PurchasePlan
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &p, err
}

func (r *PurchaseRepository) Update(p *entity.PurchasePlan) error {
	return r.db.Save(p).Error
}

func (r *PurchaseRepository) Delete(userID, id string) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.PurchasePlan{}).Error
}

func (r *PurchaseRepository) List(userID string) ([]entity.PurchasePlan, error) {
	var plans []entity.PurchasePlan
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&plans).Error
	return plans, err
}
