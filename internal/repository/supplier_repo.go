package repository

import (
	"errors"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"gorm.io/gorm"
)

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) Create(s *entity.Supplier) error {
	return r.db.Create(s).Error
}

func (r *SupplierRepository) GetByID(userID, id string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &s, err
}

func (r *SupplierRepository) Update(s *entity.Supplier) error {
	return r.db.Save(s).Error
}

func (r *SupplierRepository) Delete(userID, id string) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Supplier{}).Error
}

type SupplierListParams struct {
	CategoryID string
	Keyword    string
}

func (r *SupplierRepository) List(userID string, params SupplierListParams) ([]entity.Supplier, error) {
	query := r.db.Where("user_id = ?", userID)
	if params.CategoryID != "" {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.Keyword != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+params.Keyword+"%")
	}
	var suppliers []entity.Supplier
	err := query.Order("created_at DESC").Find(&suppliers).Error
	return suppliers, err
}

// --- Categories ---

func (r *SupplierRepository) CreateCategory(c *entity.SupplierCategory) error {
	return r.db.Create(c).Error
}

func (r *SupplierRepository) ListCategories(userID string) ([]entity.SupplierCategory, error) {
	var categories []entity.SupplierCategory
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&categories).Error
	return categories, err
}

func (r *SupplierRepository) UpdateCategory(c *entity.SupplierCategory) error {
	return r.db.Save(c).Error
}

func (r *SupplierRepository) GetCategoryByID(userID, id string) (*entity.SupplierCategory, error) {
	var c entity.SupplierCategory
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &c, err
}

func (r *SupplierRepository) DeleteCategory(userID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.SupplierCategory{}).
			Where("parent_id = ? AND user_id = ?", id, userID).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Supplier{}).
			Where("category_id = ? AND user_id = ?", id, userID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).
			Delete(&entity.SupplierCategory{}).Error
	})
}
