package service

import (
	"fmt"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductService creates product batches and keeps material volumes and
// tool wear budgets consistent with what was produced.
type ProductService struct {
	products  *repository.ProductRepository
	materials *repository.MaterialRepository
	inventory *repository.InventoryRepository
	costing   *CostingEngine
	logger    *zap.Logger
}

func NewProductService(products *repository.ProductRepository, materials *repository.MaterialRepository, inventory *repository.InventoryRepository, costing *CostingEngine, logger *zap.Logger) *ProductService {
	return &ProductService{
		products:  products,
		materials: materials,
		inventory: inventory,
		costing:   costing,
		logger:    logger,
	}
}

type CreateProductRequest struct {
	Name              string                `json:"name" binding:"required"`
	CategoryID        *string               `json:"category_id"`
	Description       string                `json:"description"`
	Composition       string                `json:"composition"`
	QuantityCreated   float64               `json:"quantity_created" binding:"required,gt=0"`
	LaborHoursPerItem float64               `json:"labor_hours_per_item"`
	SellingPrice      float64               `json:"selling_price"`
	Materials         []MaterialConsumption `json:"materials"`
}

// Create runs the whole check-then-consume sequence in one transaction.
// Every stock decrement is a guarded UPDATE, so two concurrent creations
// against the same material cannot both pass; any failure rolls the
// product, its links and all decrements back together.
func (s *ProductService) Create(userID string, req CreateProductRequest) (*entity.Product, []string, error) {
	if req.QuantityCreated <= 0 {
		return nil, nil, apperr.Validation("quantity_created", "количество должно быть больше нуля")
	}
	seen := make(map[string]struct{}, len(req.Materials))
	for _, line := range req.Materials {
		if line.VolumePerItem <= 0 {
			return nil, nil, apperr.Validation("volume_per_item", "расход материала должен быть больше нуля")
		}
		if _, dup := seen[line.MaterialID]; dup {
			return nil, nil, apperr.Validation("materials", "материал указан дважды")
		}
		seen[line.MaterialID] = struct{}{}
	}

	var product *entity.Product
	var warnings []string

	err := s.products.DB().Transaction(func(tx *gorm.DB) error {
		// Consume material volumes first. The guarded update both checks
		// and decrements, closing the read-then-write race.
		for _, line := range req.Materials {
			need := line.VolumePerItem * req.QuantityCreated
			ok, err := s.materials.ConsumeVolume(tx, userID, line.MaterialID, need)
			if err != nil {
				return fmt.Errorf("списание материала: %w", err)
			}
			if !ok {
				return s.materialShortfall(tx, userID, line.MaterialID, need)
			}
		}

		// Then the wear budget of every tool linked to the category.
		if req.CategoryID != nil && *req.CategoryID != "" {
			tools, err := s.inventory.ListByProductCategory(tx, userID, *req.CategoryID)
			if err != nil {
				return fmt.Errorf("инвентарь категории: %w", err)
			}
			for _, tool := range tools {
				need := tool.WearRatePerItem * req.QuantityCreated
				if need <= 0 {
					continue
				}
				ok, err := s.inventory.ConsumeWear(tx, userID, tool.ID, need)
				if err != nil {
					return fmt.Errorf("списание ресурса инвентаря: %w", err)
				}
				if !ok {
					return &apperr.InsufficientToolWear{
						InventoryID: tool.ID,
						Name:        tool.Name,
						Available:   tool.WearPercentage,
						Required:    need,
					}
				}
			}
		}

		// Batch costing against the same snapshot the decrements saw.
		cost, err := s.costing.UnitCost(tx, userID, req.CategoryID, req.Materials, req.QuantityCreated)
		if err != nil {
			return err
		}
		warnings = cost.Warnings

		now := time.Now()
		product = &entity.Product{
			ID:                uuid.New().String(),
			UserID:            userID,
			Name:              req.Name,
			CategoryID:        req.CategoryID,
			Description:       req.Description,
			Composition:       req.Composition,
			QuantityCreated:   req.QuantityCreated,
			RemainingQuantity: req.QuantityCreated,
			LaborHoursPerItem: req.LaborHoursPerItem,
			CostPricePerItem:  cost.UnitCost,
			SellingPrice:      req.SellingPrice,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		for _, line := range req.Materials {
			product.Materials = append(product.Materials, entity.ProductMaterial{
				ID:            uuid.New().String(),
				ProductID:     product.ID,
				MaterialID:    line.MaterialID,
				VolumePerItem: line.VolumePerItem,
			})
		}
		if err := s.products.CreateTx(tx, product); err != nil {
			return fmt.Errorf("создание изделия: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for _, w := range warnings {
		s.logger.Warn("product costing warning",
			zap.String("product_id", product.ID),
			zap.String("warning", w))
	}
	s.logger.Info("product created",
		zap.String("product_id", product.ID),
		zap.String("user_id", userID),
		zap.Float64("quantity", product.QuantityCreated),
		zap.Float64("cost_price", product.CostPricePerItem))
	return product, warnings, nil
}

// materialShortfall re-reads the material to report how much was
// actually available when the guarded decrement refused.
func (s *ProductService) materialShortfall(tx *gorm.DB, userID, materialID string, need float64) error {
	mat, err := s.materials.GetByIDTx(tx, userID, materialID)
	if err != nil {
		return &apperr.InsufficientMaterial{MaterialID: materialID, Name: materialID, Required: need}
	}
	return &apperr.InsufficientMaterial{
		MaterialID: mat.ID,
		Name:       mat.Name,
		Available:  mat.RemainingVolume,
		Required:   need,
	}
}

// CostPreview prices a prospective batch without creating anything.
func (s *ProductService) CostPreview(userID string, categoryID *string, consumption []MaterialConsumption, quantity float64) (CostResult, error) {
	return s.costing.UnitCost(s.products.DB(), userID, categoryID, consumption, quantity)
}

func (s *ProductService) Get(userID, id string) (*entity.Product, error) {
	return s.products.GetByID(userID, id)
}

func (s *ProductService) List(userID string, params repository.ProductListParams) ([]entity.Product, error) {
	return s.products.List(userID, params)
}

// UpdateProductRequest carries the metadata a product edit may touch.
// Quantities, consumption links and the cost price have no field here:
// composition of a created batch is immutable.
type UpdateProductRequest struct {
	Name              *string  `json:"name"`
	CategoryID        *string  `json:"category_id"`
	Description       *string  `json:"description"`
	Composition       *string  `json:"composition"`
	LaborHoursPerItem *float64 `json:"labor_hours_per_item"`
	SellingPrice      *float64 `json:"selling_price"`
}

func (s *ProductService) Update(userID, id string, req UpdateProductRequest) (*entity.Product, error) {
	p, err := s.products.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			p.CategoryID = nil
		} else {
			p.CategoryID = req.CategoryID
		}
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Composition != nil {
		p.Composition = *req.Composition
	}
	if req.LaborHoursPerItem != nil {
		p.LaborHoursPerItem = *req.LaborHoursPerItem
	}
	if req.SellingPrice != nil {
		p.SellingPrice = *req.SellingPrice
	}
	if err := s.products.Update(p); err != nil {
		return nil, fmt.Errorf("обновление изделия: %w", err)
	}
	return p, nil
}

// Delete refuses to remove a product that appears in any order, so order
// history never points at nothing. Consumed stock is not returned.
func (s *ProductService) Delete(userID, id string) error {
	if _, err := s.products.GetByID(userID, id); err != nil {
		return err
	}
	refs, err := s.products.CountOrderRefs(id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return &apperr.Conflict{Message: "изделие используется в заказах и не может быть удалено"}
	}
	return s.products.Delete(userID, id)
}

// --- Product categories ---

type ProductCategoryRequest struct {
	Name                   string   `json:"name" binding:"required"`
	ParentID               *string  `json:"parent_id"`
	EnergyCostsElectricity float64  `json:"energy_costs_electricity"`
	EnergyCostsWater       float64  `json:"energy_costs_water"`
	InventoryIDs           []string `json:"inventory_ids"`
}

func (s *ProductService) CreateCategory(userID string, req ProductCategoryRequest) (*entity.ProductCategory, error) {
	c := &entity.ProductCategory{
		ID:                     uuid.New().String(),
		UserID:                 userID,
		Name:                   req.Name,
		ParentID:               req.ParentID,
		EnergyCostsElectricity: req.EnergyCostsElectricity,
		EnergyCostsWater:       req.EnergyCostsWater,
	}
	if err := s.products.CreateCategory(c, req.InventoryIDs); err != nil {
		return nil, fmt.Errorf("создание категории изделий: %w", err)
	}
	return c, nil
}

func (s *ProductService) UpdateCategory(userID, id string, req ProductCategoryRequest) (*entity.ProductCategory, error) {
	c, err := s.products.GetCategoryByID(userID, id)
	if err != nil {
		return nil, err
	}
	c.Name = req.Name
	c.ParentID = req.ParentID
	c.EnergyCostsElectricity = req.EnergyCostsElectricity
	c.EnergyCostsWater = req.EnergyCostsWater
	if err := s.products.UpdateCategory(c, req.InventoryIDs); err != nil {
		return nil, fmt.Errorf("обновление категории изделий: %w", err)
	}
	return c, nil
}

func (s *ProductService) ListCategories(userID string) ([]entity.ProductCategory, error) {
	return s.products.ListCategories(userID)
}

func (s *ProductService) ListCategoryInventory(userID, categoryID string) ([]string, error) {
	if _, err := s.products.GetCategoryByID(userID, categoryID); err != nil {
		return nil, err
	}
	return s.products.ListCategoryInventoryIDs(categoryID)
}

func (s *ProductService) DeleteCategory(userID, id string) error {
	if _, err := s.products.GetCategoryByID(userID, id); err != nil {
		return err
	}
	return s.products.DeleteCategory(userID, id)
}
