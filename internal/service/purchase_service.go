package service

import (
	"fmt"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseService manages the purchase plan list and can seed plans from
// low-stock materials.
type PurchaseService struct {
	purchases *repository.PurchaseRepository
	materials *repository.MaterialRepository
	logger    *zap.Logger
}

func NewPurchaseService(purchases *repository.PurchaseRepository, materials *repository.MaterialRepository, logger *zap.Logger) *PurchaseService {
	return &PurchaseService{purchases: purchases, materials: materials, logger: logger}
}

type PurchasePlanRequest struct {
	Name           string  `json:"name" binding:"required"`
	Quantity       float64 `json:"quantity"`
	Amount         float64 `json:"amount"`
	DeliveryMethod string  `json:"delivery_method"`
	Notes          string  `json:"notes"`
	MaterialID     *string `json:"material_id"`
}

func (s *PurchaseService) Create(userID string, req PurchasePlanRequest) (*entity.PurchasePlan, error) {
	if req.Quantity < 0 {
		return nil, apperr.Validation("quantity", "количество не может быть отрицательным")
	}
	if req.Amount < 0 {
		return nil, apperr.Validation("amount", "сумма не может быть отрицательной")
	}
	if req.MaterialID != nil && *req.MaterialID != "" {
		if _, err := s.materials.GetByID(userID, *req.MaterialID); err != nil {
			return nil, err
		}
	} else {
		req.MaterialID = nil
	}
	p := &entity.PurchasePlan{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           req.Name,
		Quantity:       req.Quantity,
		Amount:         req.Amount,
		DeliveryMethod: req.DeliveryMethod,
		Notes:          req.Notes,
		MaterialID:     req.MaterialID,
	}
	if err := s.purchases.Create(p); err != nil {
		return nil, fmt.Errorf("создание плана закупки: %w", err)
	}
	s.logger.Info("purchase plan created", zap.String("plan_id", p.ID), zap.String("user_id", userID))
	return p, nil
}

// CreateFromMaterial seeds a plan from a tracked material, pre-filling
// name, supplier delivery method and a refill amount back to the
// initial volume.
func (s *PurchaseService) CreateFromMaterial(userID, materialID string) (*entity.PurchasePlan, error) {
	m, err := s.materials.GetByID(userID, materialID)
	if err != nil {
		return nil, err
	}
	missing := m.InitialVolume - m.RemainingVolume
	if missing < 0 {
		missing = 0
	}
	amount := 0.0
	if price, ok := m.PricePerUnit(); ok {
		amount = price * missing
	}
	p := &entity.PurchasePlan{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           m.Name,
		Quantity:       missing,
		Amount:         amount,
		DeliveryMethod: m.DeliveryMethod,
		MaterialID:     &m.ID,
	}
	if err := s.purchases.Create(p); err != nil {
		return nil, fmt.Errorf("создание плана закупки: %w", err)
	}
	return p, nil
}

func (s *PurchaseService) Get(userID, id string) (*entity.PurchasePlan, error) {
	return s.purchases.GetByID(userID, id)
}

func (s *PurchaseService) List(userID string) ([]entity.PurchasePlan, error) {
	return s.purchases.List(userID)
}

func (s *PurchaseService) Update(userID, id string, req PurchasePlanRequest) (*entity.PurchasePlan, error) {
	if req.Quantity < 0 {
		return nil, apperr.Validation("quantity", "количество не может быть отрицательным")
	}
	if req.Amount < 0 {
		return nil, apperr.Validation("amount", "сумма не может быть отрицательной")
	}
	p, err := s.purchases.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.Quantity = req.Quantity
	p.Amount = req.Amount
	p.DeliveryMethod = req.DeliveryMethod
	p.Notes = req.Notes
	if req.MaterialID != nil && *req.MaterialID != "" {
		if _, err := s.materials.GetByID(userID, *req.MaterialID); err != nil {
			return nil, err
		}
		p.MaterialID = req.MaterialID
	} else {
		p.MaterialID = nil
	}
	if err := s.purchases.Update(p); err != nil {
		return nil, fmt.Errorf("обновление плана закупки: %w", err)
	}
	return p, nil
}

func (s *PurchaseService) Delete(userID, id string) error {
	if _, err := s.purchases.GetByID(userID, id); err != nil {
		return err
	}
	return s.purchases.Delete(userID, id)
}
