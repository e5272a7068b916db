package repository

import (
	"errors"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(item *entity.InventoryItem) error {
	return r.db.Create(item).Error
}

func (r *InventoryRepository) GetByID(userID, id string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &item, err
}

func (r *InventoryRepository) Update(item *entity.InventoryItem) error {
	return r.db.Save(item).Error
}

func (r *InventoryRepository) Delete(userID, id string) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.InventoryItem{}).Error
}

type InventoryListParams struct {
	CategoryID string
	Keyword    string
}

func (r *InventoryRepository) List(userID string, params InventoryListParams) ([]entity.InventoryItem, error) {
	query := r.db.Where("user_id = ?", userID)
	if params.CategoryID != "" {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.Keyword != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+params.Keyword+"%")
	}
	var items []entity.InventoryItem
	err := query.Order("created_at DESC").Find(&items).Error
	return items, err
}

// ListByProductCategory returns the inventory items linked to a product
// category, i.e. the tools its products are produced with.
func (r *InventoryRepository) ListByProductCategory(tx *gorm.DB, userID, categoryID string) ([]entity.InventoryItem, error) {
	var items []entity.InventoryItem
	err := tx.
		Joins("JOIN ws_product_category_inventory pci ON pci.inventory_id = ws_inventory.id").
		Where("pci.category_id = ? AND ws_inventory.user_id = ?", categoryID, userID).
		Find(&items).Error
	return items, err
}

// ConsumeWear atomically decrements the wear budget when enough of it is
// left; returns false without touching the row otherwise.
func (r *InventoryRepository) ConsumeWear(tx *gorm.DB, userID, id string, amount float64) (bool, error) {
	res := tx.Model(&entity.InventoryItem{}).
		Where("id = ? AND user_id = ? AND wear_percentage >= ?", id, userID, amount).
		Update("wear_percentage", gorm.Expr("wear_percentage - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListPurchases returns inventory purchased in the date range, for the
// expenses dashboard.
func (r *InventoryRepository) ListPurchases(userID string, from, to *time.Time) ([]entity.InventoryItem, error) {
	query := r.db.Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("purchase_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("purchase_date <= ?", *to)
	}
	var items []entity.InventoryItem
	err := query.Find(&items).Error
	return items, err
}

// CountCategoryLinks counts product categories still using the tool; a
// non-zero count blocks deletion.
func (r *InventoryRepository) CountCategoryLinks(id string) (int64, error) {
	var n int64
	err := r.db.Model(&entity.ProductCategoryInventory{}).Where("inventory_id = ?", id).Count(&n).Error
	return n, err
}

// --- Categories ---

func (r *InventoryRepository) CreateCategory(c *entity.InventoryCategory) error {
	return r.db.Create(c).Error
}

func (r *InventoryRepository) ListCategories(userID string) ([]entity.InventoryCategory, error) {
	var categories []entity.InventoryCategory
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&categories).Error
	return categories, err
}

func (r *InventoryRepository) UpdateCategory(c *entity.InventoryCategory) error {
	return r.db.Save(c).Error
}

func (r *InventoryRepository) GetCategoryByID(userID, id string) (*entity.InventoryCategory, error) {
	var c entity.InventoryCategory
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &c, err
}

func (r *InventoryRepository) DeleteCategory(userID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.InventoryCategory{}).
			Where("parent_id = ? AND user_id = ?", id, userID).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.InventoryItem{}).
			Where("category_id = ? AND user_id = ?", id, userID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).
			Delete(&entity.InventoryCategory{}).Error
	})
}
