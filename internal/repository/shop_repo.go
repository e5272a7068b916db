package repository

import (
	"errors"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

func (r *ShopRepository) GetByUser(userID string) (*entity.Shop, error) {
	var s entity.Shop
	err := r.db.Where("user_id = ?", userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &s, err
}

// Upsert creates the per-owner shop row or updates it in place.
func (r *ShopRepository) Upsert(s *entity.Shop) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "category", "social_networks", "owner", "updated_at"}),
	}).Create(s).Error
}

func (r *ShopRepository) Update(s *entity.Shop) error {
	return r.db.Save(s).Error
}
