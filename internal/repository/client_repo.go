package repository

import (
	"errors"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(c *entity.Client) error {
	return r.db.Create(c).Error
}

func (r *ClientRepository) GetByID(userID, id string) (*entity.Client, error) {
	var c entity.Client
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &c, err
}

func (r *ClientRepository) Update(c *entity.Client) error {
	return r.db.Save(c).Error
}

// Delete removes the client; orders keep their client_id cleared.
func (r *ClientRepository) Delete(userID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Order{}).
			Where("client_id = ? AND user_id = ?", id, userID).
			Update("client_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Client{}).Error
	})
}

type ClientListParams struct {
	Keyword string
	Tag     string
}

func (r *ClientRepository) List(userID string, params ClientListParams) ([]entity.Client, error) {
	query := r.db.Where("user_id = ?", userID)
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("LOWER(full_name) LIKE LOWER(?) OR phone LIKE ?", kw, kw)
	}
	if params.Tag != "" {
		query = query.Where("tag_name = ?", params.Tag)
	}
	var clients []entity.Client
	err := query.Order("created_at DESC").Find(&clients).Error
	return clients, err
}
