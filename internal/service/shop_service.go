package service

import (
	"errors"
	"fmt"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShopService maintains the single workshop profile each owner has.
type ShopService struct {
	shops  *repository.ShopRepository
	logger *zap.Logger
}

func NewShopService(shops *repository.ShopRepository, logger *zap.Logger) *ShopService {
	return &ShopService{shops: shops, logger: logger}
}

type ShopRequest struct {
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	SocialNetworks map[string]string `json:"social_networks"`
	Owner          string            `json:"owner"`
}

// Get returns the profile, or an empty one when none was saved yet.
func (s *ShopService) Get(userID string) (*entity.Shop, error) {
	shop, err := s.shops.GetByUser(userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return &entity.Shop{UserID: userID, SocialNetworks: entity.JSONMap{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return shop, nil
}

// Save creates or replaces the profile in place.
func (s *ShopService) Save(userID string, req ShopRequest) (*entity.Shop, error) {
	shop := &entity.Shop{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           req.Name,
		Category:       req.Category,
		SocialNetworks: entity.JSONMap(req.SocialNetworks),
		Owner:          req.Owner,
	}
	if shop.SocialNetworks == nil {
		shop.SocialNetworks = entity.JSONMap{}
	}
	if err := s.shops.Upsert(shop); err != nil {
		return nil, fmt.Errorf("сохранение профиля мастерской: %w", err)
	}
	s.logger.Info("shop profile saved", zap.String("user_id", userID))
	return s.shops.GetByUser(userID)
}
