package repository

import (
	"errors"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// DB returns the underlying handle for transactions.
func (r *ProductRepository) DB() *gorm.DB {
	return r.db
}

// CreateTx inserts the product and its consumption links inside an open
// transaction.
func (r *ProductRepository) CreateTx(tx *gorm.DB, p *entity.Product) error {
	return tx.Create(p).Error
}

func (r *ProductRepository) GetByID(userID, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.Preload("Materials").
		Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &p, err
}

// GetByIDTx reads a product inside an open transaction.
func (r *ProductRepository) GetByIDTx(tx *gorm.DB, userID, id string) (*entity.Product, error) {
	var p entity.Product
	err := tx.Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &p, err
}

func (r *ProductRepository) Update(p *entity.Product) error {
	return r.db.Save(p).Error
}

func (r *ProductRepository) Delete(userID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&entity.ProductMaterial{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Product{}).Error
	})
}

type ProductListParams struct {
	CategoryID string
	Keyword    string
	InStock    bool
}

func (r *ProductRepository) List(userID string, params ProductListParams) ([]entity.Product, error) {
	query := r.db.Where("user_id = ?", userID)
	if params.CategoryID != "" {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.Keyword != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+params.Keyword+"%")
	}
	if params.InStock {
		query = query.Where("remaining_quantity > 0")
	}
	var products []entity.Product
	err := query.Preload("Materials").Order("created_at DESC").Find(&products).Error
	return products, err
}

// DecrementRemaining atomically takes quantity off the remaining stock
// when enough is left; returns false without touching the row otherwise.
func (r *ProductRepository) DecrementRemaining(tx *gorm.DB, userID, id string, quantity float64) (bool, error) {
	res := tx.Model(&entity.Product{}).
		Where("id = ? AND user_id = ? AND remaining_quantity >= ?", id, userID, quantity).
		Update("remaining_quantity", gorm.Expr("remaining_quantity - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountOrderRefs counts order items referencing the product; a non-zero
// count blocks deletion.
func (r *ProductRepository) CountOrderRefs(id string) (int64, error) {
	var n int64
	err := r.db.Model(&entity.OrderItem{}).Where("product_id = ?", id).Count(&n).Error
	return n, err
}

// --- Product categories ---

func (r *ProductRepository) CreateCategory(c *entity.ProductCategory, inventoryIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return replaceCategoryInventory(tx, c.ID, inventoryIDs)
	})
}

func (r *ProductRepository) UpdateCategory(c *entity.ProductCategory, inventoryIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(c).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", c.ID).
			Delete(&entity.ProductCategoryInventory{}).Error; err != nil {
			return err
		}
		return replaceCategoryInventory(tx, c.ID, inventoryIDs)
	})
}

func replaceCategoryInventory(tx *gorm.DB, categoryID string, inventoryIDs []string) error {
	for _, invID := range inventoryIDs {
		link := entity.ProductCategoryInventory{CategoryID: categoryID, InventoryID: invID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepository) GetCategoryByID(userID, id string) (*entity.ProductCategory, error) {
	var c entity.ProductCategory
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &c, err
}

// GetCategoryByIDTx reads a product category inside an open transaction.
func (r *ProductRepository) GetCategoryByIDTx(tx *gorm.DB, userID, id string) (*entity.ProductCategory, error) {
	var c entity.ProductCategory
	err := tx.Where("id = ? AND user_id = ?", id, userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &c, err
}

func (r *ProductRepository) ListCategories(userID string) ([]entity.ProductCategory, error) {
	var categories []entity.ProductCategory
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&categories).Error
	return categories, err
}

// ListCategoryInventoryIDs returns ids of inventory items linked to the
// category.
func (r *ProductRepository) ListCategoryInventoryIDs(categoryID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&entity.ProductCategoryInventory{}).
		Where("category_id = ?", categoryID).
		Pluck("inventory_id", &ids).Error
	return ids, err
}

func (r *ProductRepository) DeleteCategory(userID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.ProductCategory{}).
			Where("parent_id = ? AND user_id = ?", id, userID).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Product{}).
			Where("category_id = ? AND user_id = ?", id, userID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).
			Delete(&entity.ProductCategoryInventory{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).
			Delete(&entity.ProductCategory{}).Error
	})
}
