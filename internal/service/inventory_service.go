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

type InventoryService struct {
	inventory *repository.InventoryRepository
	logger    *zap.Logger
}

func NewInventoryService(inventory *repository.InventoryRepository, logger *zap.Logger) *InventoryService {
	return &InventoryService{inventory: inventory, logger: logger}
}

type InventoryItemRequest struct {
	Name            string     `json:"name" binding:"required"`
	CategoryID      *string    `json:"category_id"`
	PurchasePrice   float64    `json:"purchase_price"`
	WearPercentage  *float64   `json:"wear_percentage"`
	WearRatePerItem float64    `json:"wear_rate_per_item"`
	PurchaseDate    *time.Time `json:"purchase_date"`
}

func (s *InventoryService) validate(req InventoryItemRequest) error {
	if req.PurchasePrice < 0 {
		return apperr.Validation("purchase_price", "цена закупки не может быть отрицательной")
	}
	if req.WearRatePerItem < 0 {
		return apperr.Validation("wear_rate_per_item", "износ на единицу не может быть отрицательным")
	}
	if req.WearPercentage != nil && (*req.WearPercentage < 0 || *req.WearPercentage > 100) {
		return apperr.Validation("wear_percentage", "ресурс должен быть в пределах от 0 до 100")
	}
	return nil
}

func (s *InventoryService) Create(userID string, req InventoryItemRequest) (*entity.InventoryItem, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	wear := 100.0
	if req.WearPercentage != nil {
		wear = *req.WearPercentage
	}
	item := &entity.InventoryItem{
		ID:              uuid.New().String(),
		UserID:          userID,
		Name:            req.Name,
		CategoryID:      req.CategoryID,
		PurchasePrice:   req.PurchasePrice,
		WearPercentage:  wear,
		WearRatePerItem: req.WearRatePerItem,
		PurchaseDate:    req.PurchaseDate,
	}
	if err := s.inventory.Create(item); err != nil {
		return nil, fmt.Errorf("создание инвентаря: %w", err)
	}
	s.logger.Info("inventory item created", zap.String("inventory_id", item.ID), zap.String("user_id", userID))
	return item, nil
}

func (s *InventoryService) Get(userID, id string) (*entity.InventoryItem, error) {
	return s.inventory.GetByID(userID, id)
}

func (s *InventoryService) List(userID string, params repository.InventoryListParams) ([]entity.InventoryItem, error) {
	return s.inventory.List(userID, params)
}

func (s *InventoryService) Update(userID, id string, req InventoryItemRequest) (*entity.InventoryItem, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	item, err := s.inventory.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	item.Name = req.Name
	item.CategoryID = req.CategoryID
	item.PurchasePrice = req.PurchasePrice
	if req.WearPercentage != nil {
		item.WearPercentage = *req.WearPercentage
	}
	item.WearRatePerItem = req.WearRatePerItem
	item.PurchaseDate = req.PurchaseDate
	if err := s.inventory.Update(item); err != nil {
		return nil, fmt.Errorf("обновление инвентаря: %w", err)
	}
	return item, nil
}

// Delete refuses to remove tools wired into product categories; their
// wear rates feed batch costing for those categories.
func (s *InventoryService) Delete(userID, id string) error {
	if _, err := s.inventory.GetByID(userID, id); err != nil {
		return err
	}
	links, err := s.inventory.CountCategoryLinks(id)
	if err != nil {
		return err
	}
	if links > 0 {
		return &apperr.Conflict{Message: "инвентарь привязан к категориям изделий и не может быть удален"}
	}
	return s.inventory.Delete(userID, id)
}

// --- Categories ---

func (s *InventoryService) CreateCategory(userID string, req CategoryRequest) (*entity.InventoryCategory, error) {
	if req.ParentID != nil && *req.ParentID != "" {
		if _, err := s.inventory.GetCategoryByID(userID, *req.ParentID); err != nil {
			return nil, err
		}
	}
	c := &entity.InventoryCategory{
		ID:       uuid.New().String(),
		UserID:   userID,
		Name:     req.Name,
		ParentID: req.ParentID,
	}
	if err := s.inventory.CreateCategory(c); err != nil {
		return nil, fmt.Errorf("создание категории инвентаря: %w", err)
	}
	return c, nil
}

func (s *InventoryService) UpdateCategory(userID, id string, req CategoryRequest) (*entity.InventoryCategory, error) {
	c, err := s.inventory.GetCategoryByID(userID, id)
	if err != nil {
		return nil, err
	}
	if req.ParentID != nil && *req.ParentID == id {
		return nil, apperr.Validation("parent_id", "категория не может быть родителем самой себя")
	}
	c.Name = req.Name
	c.ParentID = req.ParentID
	if err := s.inventory.UpdateCategory(c); err != nil {
		return nil, fmt.Errorf("обновление категории инвентаря: %w", err)
	}
	return c, nil
}

func (s *InventoryService) ListCategories(userID string) ([]entity.InventoryCategory, error) {
	return s.inventory.ListCategories(userID)
}

func (s *InventoryService) DeleteCategory(userID, id string) error {
	if _, err := s.inventory.GetCategoryByID(userID, id); err != nil {
		return err
	}
	return s.inventory.DeleteCategory(userID, id)
}
