package service

import (
	"fmt"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SupplierService struct {
	suppliers *repository.SupplierRepository
	logger    *zap.Logger
}

func NewSupplierService(suppliers *repository.SupplierRepository, logger *zap.Logger) *SupplierService {
	return &SupplierService{suppliers: suppliers, logger: logger}
}

type SupplierRequest struct {
	Name           string  `json:"name" binding:"required"`
	CategoryID     *string `json:"category_id"`
	DeliveryMethod string  `json:"delivery_method"`
	DeliveryPrice  float64 `json:"delivery_price"`
	Notes          string  `json:"notes"`
}

func (s *SupplierService) Create(userID string, req SupplierRequest) (*entity.Supplier, error) {
	if req.DeliveryPrice < 0 {
		return nil, apperr.Validation("delivery_price", "стоимость доставки не может быть отрицательной")
	}
	sup := &entity.Supplier{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           req.Name,
		CategoryID:     req.CategoryID,
		DeliveryMethod: req.DeliveryMethod,
		DeliveryPrice:  req.DeliveryPrice,
		Notes:          req.Notes,
	}
	if err := s.suppliers.Create(sup); err != nil {
		return nil, fmt.Errorf("создание поставщика: %w", err)
	}
	s.logger.Info("supplier created", zap.String("supplier_id", sup.ID), zap.String("user_id", userID))
	return sup, nil
}

func (s *SupplierService) Get(userID, id string) (*entity.Supplier, error) {
	return s.suppliers.GetByID(userID, id)
}

func (s *SupplierService) List(userID string, params repository.SupplierListParams) ([]entity.Supplier, error) {
	return s.suppliers.List(userID, params)
}

func (s *SupplierService) Update(userID, id string, req SupplierRequest) (*entity.Supplier, error) {
	if req.DeliveryPrice < 0 {
		return nil, apperr.Validation("delivery_price", "стоимость доставки не может быть отрицательной")
	}
	sup, err := s.suppliers.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	sup.Name = req.Name
	sup.CategoryID = req.CategoryID
	sup.DeliveryMethod = req.DeliveryMethod
	sup.DeliveryPrice = req.DeliveryPrice
	sup.Notes = req.Notes
	if err := s.suppliers.Update(sup); err != nil {
		return nil, fmt.Errorf("обновление поставщика: %w", err)
	}
	return sup, nil
}

func (s *SupplierService) Delete(userID, id string) error {
	if _, err := s.suppliers.GetByID(userID, id); err != nil {
		return err
	}
	return s.suppliers.Delete(userID, id)
}

// --- Categories ---

func (s *SupplierService) CreateCategory(userID string, req CategoryRequest) (*entity.SupplierCategory, error) {
	if req.ParentID != nil && *req.ParentID != "" {
		if _, err := s.suppliers.GetCategoryByID(userID, *req.ParentID); err != nil {
			return nil, err
		}
	}
	c := &entity.SupplierCategory{
		ID:       uuid.New().String(),
		UserID:   userID,
		Name:     req.Name,
		ParentID: req.ParentID,
	}
	if err := s.suppliers.CreateCategory(c); err != nil {
		return nil, fmt.Errorf("создание категории поставщиков: %w", err)
	}
	return c, nil
}

func (s *SupplierService) UpdateCategory(userID, id string, req CategoryRequest) (*entity.SupplierCategory, error) {
	c, err := s.suppliers.GetCategoryByID(userID, id)
	if err != nil {
		return nil, err
	}
	if req.ParentID != nil && *req.ParentID == id {
		return nil, apperr.Validation("parent_id", "категория не может быть родителем самой себя")
	}
	c.Name = req.Name
	c.ParentID = req.ParentID
	if err := s.suppliers.UpdateCategory(c); err != nil {
		return nil, fmt.Errorf("обновление категории поставщиков: %w", err)
	}
	return c, nil
}

func (s *SupplierService) ListCategories(userID string) ([]entity.SupplierCategory, error) {
	return s.suppliers.ListCategories(userID)
}

func (s *SupplierService) DeleteCategory(userID, id string) error {
	if _, err := s.suppliers.GetCategoryByID(userID, id); err != nil {
		return err
	}
	return s.suppliers.DeleteCategory(userID, id)
}
