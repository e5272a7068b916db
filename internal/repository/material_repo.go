package repository

import (
	"errors"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"gorm.io/gorm"
)

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// DB returns the underlying handle for transactions.
func (r *MaterialRepository) DB() *gorm.DB {
	return r.db
}

func (r *MaterialRepository) Create(m *entity.Material) error {
	return r.db.Create(m).Error
}

func (r *MaterialRepository) GetByID(userID, id string) (*entity.Material, error) {
	var m entity.Material
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &m, err
}

// GetByIDTx reads a material inside an open transaction.
func (r *MaterialRepository) GetByIDTx(tx *gorm.DB, userID, id string) (*entity.Material, error) {
	var m entity.Material
	err := tx.Where("id = ? AND user_id = ?", id, userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &m, err
}

func (r *MaterialRepository) Update(m *entity.Material) error {
	return r.db.Save(m).Error
}

func (r *MaterialRepository) Delete(userID, id string) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Material{}).Error
}

// SetArchived flips the archive flag; archived materials drop out of the
// low-stock scan.
func (r *MaterialRepository) SetArchived(userID, id string, archived bool) error {
	res := r.db.Model(&entity.Material{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("archived", archived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

type MaterialListParams struct {
	CategoryID string
	Keyword    string
	Archived   *bool
}

func (r *MaterialRepository) List(userID string, params MaterialListParams) ([]entity.Material, error) {
	query := r.db.Where("user_id = ?", userID)
	if params.CategoryID != "" {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.Keyword != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+params.Keyword+"%")
	}
	if params.Archived != nil {
		query = query.Where("archived = ?", *params.Archived)
	}
	var materials []entity.Material
	err := query.Order("created_at DESC").Find(&materials).Error
	return materials, err
}

// ConsumeVolume atomically decrements remaining_volume when enough stock
// is left. Returns false without touching the row when it would go
// negative; callers re-read for the shortfall message.
func (r *MaterialRepository) ConsumeVolume(tx *gorm.DB, userID, id string, amount float64) (bool, error) {
	res := tx.Model(&entity.Material{}).
		Where("id = ? AND user_id = ? AND remaining_volume >= ?", id, userID, amount).
		Update("remaining_volume", gorm.Expr("remaining_volume - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListPurchases returns materials purchased in the date range, for the
// expenses dashboard.
func (r *MaterialRepository) ListPurchases(userID string, from, to *time.Time) ([]entity.Material, error) {
	query := r.db.Preload("Category").Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("purchase_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("purchase_date <= ?", *to)
	}
	var materials []entity.Material
	err := query.Find(&materials).Error
	return materials, err
}

// CountProductRefs counts product consumption links referencing the
// material; a non-zero count blocks deletion.
func (r *MaterialRepository) CountProductRefs(id string) (int64, error) {
	var n int64
	err := r.db.Model(&entity.ProductMaterial{}).Where("material_id = ?", id).Count(&n).Error
	return n, err
}

// --- Categories ---

func (r *MaterialRepository) CreateCategory(c *entity.MaterialCategory) error {
	return r.db.Create(c).Error
}

func (r *MaterialRepository) ListCategories(userID string) ([]entity.MaterialCategory, error) {
	var categories []entity.MaterialCategory
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&categories).Error
	return categories, err
}

func (r *MaterialRepository) UpdateCategory(c *entity.MaterialCategory) error {
	return r.db.Save(c).Error
}

func (r *MaterialRepository) GetCategoryByID(userID, id string) (*entity.MaterialCategory, error) {
	var c entity.MaterialCategory
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &c, err
}

// DeleteCategory removes the node, detaches its children and clears the
// category from materials that used it.
func (r *MaterialRepository) DeleteCategory(userID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.MaterialCategory{}).
			Where("parent_id = ? AND user_id = ?", id, userID).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Material{}).
			Where("category_id = ? AND user_id = ?", id, userID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).
			Delete(&entity.MaterialCategory{}).Error
	})
}
