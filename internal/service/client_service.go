package service

import (
	"fmt"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ClientService struct {
	clients *repository.ClientRepository
	orders  *repository.OrderRepository
	logger  *zap.Logger
}

func NewClientService(clients *repository.ClientRepository, orders *repository.OrderRepository, logger *zap.Logger) *ClientService {
	return &ClientService{clients: clients, orders: orders, logger: logger}
}

type ClientRequest struct {
	FullName   string     `json:"full_name" binding:"required"`
	Phone      string     `json:"phone"`
	SocialLink string     `json:"social_link"`
	Address    string     `json:"address"`
	BirthDate  *time.Time `json:"birth_date"`
	TagName    string     `json:"tag_name"`
	TagColor   string     `json:"tag_color"`
}

func (s *ClientService) Create(userID string, req ClientRequest) (*entity.Client, error) {
	c := &entity.Client{
		ID:         uuid.New().String(),
		UserID:     userID,
		FullName:   req.FullName,
		Phone:      req.Phone,
		SocialLink: req.SocialLink,
		Address:    req.Address,
		BirthDate:  req.BirthDate,
		TagName:    req.TagName,
		TagColor:   req.TagColor,
	}
	if err := s.clients.Create(c); err != nil {
		return nil, fmt.Errorf("создание клиента: %w", err)
	}
	s.logger.Info("client created", zap.String("client_id", c.ID), zap.String("user_id", userID))
	return c, nil
}

func (s *ClientService) Get(userID, id string) (*entity.Client, error) {
	return s.clients.GetByID(userID, id)
}

func (s *ClientService) List(userID string, params repository.ClientListParams) ([]entity.Client, error) {
	return s.clients.List(userID, params)
}

func (s *ClientService) Update(userID, id string, req ClientRequest) (*entity.Client, error) {
	c, err := s.clients.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	c.FullName = req.FullName
	c.Phone = req.Phone
	c.SocialLink = req.SocialLink
	c.Address = req.Address
	c.BirthDate = req.BirthDate
	c.TagName = req.TagName
	c.TagColor = req.TagColor
	if err := s.clients.Update(c); err != nil {
		return nil, fmt.Errorf("обновление клиента: %w", err)
	}
	return c, nil
}

// Delete removes the client. Orders keep existing with the client
// reference cleared, so revenue history is untouched.
func (s *ClientService) Delete(userID, id string) error {
	if _, err := s.clients.GetByID(userID, id); err != nil {
		return err
	}
	return s.clients.Delete(userID, id)
}

// ClientStats is the aggregate an order history card shows.
type ClientStats struct {
	OrderCount  int64   `json:"order_count"`
	TotalAmount float64 `json:"total_amount"`
}

func (s *ClientService) Stats(userID, id string) (*ClientStats, error) {
	if _, err := s.clients.GetByID(userID, id); err != nil {
		return nil, err
	}
	count, total, err := s.orders.ClientStats(userID, id)
	if err != nil {
		return nil, err
	}
	return &ClientStats{OrderCount: count, TotalAmount: total}, nil
}
