package service

import (
	"fmt"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MaterialService struct {
	materials *repository.MaterialRepository
	logger    *zap.Logger
}

func NewMaterialService(materials *repository.MaterialRepository, logger *zap.Logger) *MaterialService {
	return &MaterialService{materials: materials, logger: logger}
}

type MaterialRequest struct {
	Name            string     `json:"name" binding:"required"`
	CategoryID      *string    `json:"category_id"`
	Supplier        string     `json:"supplier"`
	DeliveryMethod  string     `json:"delivery_method"`
	PurchasePrice   float64    `json:"purchase_price"`
	InitialVolume   float64    `json:"initial_volume"`
	RemainingVolume *float64   `json:"remaining_volume"`
	Unit            string     `json:"unit_of_measurement"`
	PurchaseDate    *time.Time `json:"purchase_date"`
}

func (s *MaterialService) validate(req MaterialRequest) error {
	if req.PurchasePrice < 0 {
		return apperr.Validation("purchase_price", "цена закупки не может быть отрицательной")
	}
	if req.InitialVolume < 0 {
		return apperr.Validation("initial_volume", "начальный объем не может быть отрицательным")
	}
	if req.RemainingVolume != nil {
		if *req.RemainingVolume < 0 {
			return apperr.Validation("remaining_volume", "остаток не может быть отрицательным")
		}
		if *req.RemainingVolume > req.InitialVolume {
			return apperr.Validation("remaining_volume", "остаток не может превышать начальный объем")
		}
	}
	return nil
}

func (s *MaterialService) Create(userID string, req MaterialRequest) (*entity.Material, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	remaining := req.InitialVolume
	if req.RemainingVolume != nil {
		remaining = *req.RemainingVolume
	}
	m := &entity.Material{
		ID:              uuid.New().String(),
		UserID:          userID,
		Name:            req.Name,
		CategoryID:      req.CategoryID,
		Supplier:        req.Supplier,
		DeliveryMethod:  req.DeliveryMethod,
		PurchasePrice:   req.PurchasePrice,
		InitialVolume:   req.InitialVolume,
		RemainingVolume: remaining,
		Unit:            req.Unit,
		PurchaseDate:    req.PurchaseDate,
	}
	if err := s.materials.Create(m); err != nil {
		return nil, fmt.Errorf("создание материала: %w", err)
	}
	s.logger.Info("material created", zap.String("material_id", m.ID), zap.String("user_id", userID))
	return m, nil
}

func (s *MaterialService) Get(userID, id string) (*entity.Material, error) {
	return s.materials.GetByID(userID, id)
}

func (s *MaterialService) List(userID string, params repository.MaterialListParams) ([]entity.Material, error) {
	return s.materials.List(userID, params)
}

func (s *MaterialService) Update(userID, id string, req MaterialRequest) (*entity.Material, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	m, err := s.materials.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	m.Name = req.Name
	m.CategoryID = req.CategoryID
	m.Supplier = req.Supplier
	m.DeliveryMethod = req.DeliveryMethod
	m.PurchasePrice = req.PurchasePrice
	m.InitialVolume = req.InitialVolume
	if req.RemainingVolume != nil {
		m.RemainingVolume = *req.RemainingVolume
	} else if m.RemainingVolume > m.InitialVolume {
		m.RemainingVolume = m.InitialVolume
	}
	m.Unit = req.Unit
	m.PurchaseDate = req.PurchaseDate
	if err := s.materials.Update(m); err != nil {
		return nil, fmt.Errorf("обновление материала: %w", err)
	}
	return m, nil
}

func (s *MaterialService) SetArchived(userID, id string, archived bool) (*entity.Material, error) {
	if _, err := s.materials.GetByID(userID, id); err != nil {
		return nil, err
	}
	if err := s.materials.SetArchived(userID, id, archived); err != nil {
		return nil, fmt.Errorf("архивирование материала: %w", err)
	}
	return s.materials.GetByID(userID, id)
}

// Delete refuses when any product records consumption of the material,
// so historical cost breakdowns stay resolvable. Archive instead.
func (s *MaterialService) Delete(userID, id string) error {
	if _, err := s.materials.GetByID(userID, id); err != nil {
		return err
	}
	refs, err := s.materials.CountProductRefs(id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return &apperr.Conflict{Message: "материал используется в изделиях, переместите его в архив"}
	}
	return s.materials.Delete(userID, id)
}

// --- Categories ---

type CategoryRequest struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parent_id"`
}

func (s *MaterialService) CreateCategory(userID string, req CategoryRequest) (*entity.MaterialCategory, error) {
	if req.ParentID != nil && *req.ParentID != "" {
		if _, err := s.materials.GetCategoryByID(userID, *req.ParentID); err != nil {
			return nil, err
		}
	}
	c := &entity.MaterialCategory{
		ID:       uuid.New().String(),
		UserID:   userID,
		Name:     req.Name,
		ParentID: req.ParentID,
	}
	if err := s.materials.CreateCategory(c); err != nil {
		return nil, fmt.Errorf("создание категории материалов: %w", err)
	}
	return c, nil
}

func (s *MaterialService) UpdateCategory(userID, id string, req CategoryRequest) (*entity.MaterialCategory, error) {
	c, err := s.materials.GetCategoryByID(userID, id)
	if err != nil {
		return nil, err
	}
	if req.ParentID != nil && *req.ParentID == id {
		return nil, apperr.Validation("parent_id", "категория не может быть родителем самой себя")
	}
	c.Name = req.Name
	c.ParentID = req.ParentID
	if err := s.materials.UpdateCategory(c); err != nil {
		return nil, fmt.Errorf("обновление категории материалов: %w", err)
	}
	return c, nil
}

func (s *MaterialService) ListCategories(userID string) ([]entity.MaterialCategory, error) {
	return s.materials.ListCategories(userID)
}

// DeleteCategory detaches child categories and materials instead of
// deleting them.
func (s *MaterialService) DeleteCategory(userID, id string) error {
	if _, err := s.materials.GetCategoryByID(userID, id); err != nil {
		return err
	}
	return s.materials.DeleteCategory(userID, id)
}
