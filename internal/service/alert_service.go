package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Alert kinds.
const (
	AlertKindLowStock      = "low_stock"
	AlertKindOrderDeadline = "order_deadline"
	AlertKindTaskDeadline  = "task_deadline"
)

const lowStockThreshold = 40.0

const alertDedupTTL = 24 * time.Hour

// Alert is one notification produced by a scan. Tier is the number of
// days left for deadline alerts and 0 for stock alerts.
type Alert struct {
	Kind     string `json:"kind"`
	EntityID string `json:"entity_id"`
	Message  string `json:"message"`
	Tier     int    `json:"tier"`
}

// AlertService runs the read-only stock and deadline scans. Scans are
// idempotent; the background ticker uses redis keys to avoid repeating
// the same alert within a day, while direct reads always return the full
// current set.
type AlertService struct {
	materials *repository.MaterialRepository
	orders    *repository.OrderRepository
	tasks     *repository.TaskRepository
	users     *repository.UserRepository
	rdb       *redis.Client
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

func NewAlertService(materials *repository.MaterialRepository, orders *repository.OrderRepository, tasks *repository.TaskRepository, users *repository.UserRepository, rdb *redis.Client, timezone string, logger *zap.Logger) *AlertService {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("unknown alerts timezone, falling back to UTC", zap.String("timezone", timezone))
		loc = time.UTC
	}
	return &AlertService{
		materials: materials,
		orders:    orders,
		tasks:     tasks,
		users:     users,
		rdb:       rdb,
		loc:       loc,
		now:       time.Now,
		logger:    logger,
	}
}

// SetClock replaces the time source, for tests.
func (s *AlertService) SetClock(now func() time.Time) {
	s.now = now
}

// today returns midnight of the current day in the configured timezone.
func (s *AlertService) today() time.Time {
	t := s.now().In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// daysUntil counts whole calendar days from today to d.
func (s *AlertService) daysUntil(today time.Time, d time.Time) int {
	d = d.In(s.loc)
	dd := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc)
	return int(dd.Sub(today).Hours() / 24)
}

// ScanLowStock reports non-archived materials under the stock threshold.
// Empty materials (remaining at zero) are not reported; they show up in
// purchase planning instead.
func (s *AlertService) ScanLowStock(userID string) ([]Alert, error) {
	archived := false
	materials, err := s.materials.List(userID, repository.MaterialListParams{Archived: &archived})
	if err != nil {
		return nil, err
	}
	var alerts []Alert
	for _, m := range materials {
		pct := m.StockPercentage()
		if pct <= 0 || pct >= lowStockThreshold {
			continue
		}
		alerts = append(alerts, Alert{
			Kind:     AlertKindLowStock,
			EntityID: m.ID,
			Message:  fmt.Sprintf("Материал «%s» заканчивается: осталось %.0f%%", m.Name, pct),
		})
	}
	return alerts, nil
}

// ScanOrderDeadlines reports active orders due within two days.
func (s *AlertService) ScanOrderDeadlines(userID string) ([]Alert, error) {
	today := s.today()
	orders, err := s.orders.ListActiveWithDeadline(userID, today, today.AddDate(0, 0, 2))
	if err != nil {
		return nil, err
	}
	var alerts []Alert
	for _, o := range orders {
		if o.Deadline == nil {
			continue
		}
		days := s.daysUntil(today, *o.Deadline)
		if days < 0 || days > 2 {
			continue
		}
		var msg string
		switch days {
		case 0:
			msg = fmt.Sprintf("Заказ №%d: срок истекает сегодня!", o.OrderNumber)
		case 1:
			msg = fmt.Sprintf("Заказ №%d: остался 1 день", o.OrderNumber)
		default:
			msg = fmt.Sprintf("Заказ №%d: осталось 2 дня", o.OrderNumber)
		}
		alerts = append(alerts, Alert{
			Kind:     AlertKindOrderDeadline,
			EntityID: o.ID,
			Message:  msg,
			Tier:     days,
		})
	}
	return alerts, nil
}

// ScanTaskDeadlines reports incomplete tasks ending today or tomorrow.
func (s *AlertService) ScanTaskDeadlines(userID string) ([]Alert, error) {
	today := s.today()
	tasks, err := s.tasks.ListIncompleteEndingBy(userID, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	var alerts []Alert
	for _, t := range tasks {
		days := s.daysUntil(today, t.EndDate)
		if days < 0 || days > 1 {
			continue
		}
		var msg string
		if days == 0 {
			msg = fmt.Sprintf("Задача «%s» истекает сегодня", t.Title)
		} else {
			msg = fmt.Sprintf("Задача «%s» истекает завтра", t.Title)
		}
		alerts = append(alerts, Alert{
			Kind:     AlertKindTaskDeadline,
			EntityID: t.ID,
			Message:  msg,
			Tier:     days,
		})
	}
	return alerts, nil
}

// Scan runs all three scans for one owner.
func (s *AlertService) Scan(userID string) ([]Alert, error) {
	var all []Alert
	low, err := s.ScanLowStock(userID)
	if err != nil {
		return nil, err
	}
	all = append(all, low...)
	orders, err := s.ScanOrderDeadlines(userID)
	if err != nil {
		return nil, err
	}
	all = append(all, orders...)
	tasks, err := s.ScanTaskDeadlines(userID)
	if err != nil {
		return nil, err
	}
	return append(all, tasks...), nil
}

// dedupKey mirrors the browser Notification tag of the original UI, so
// one alert fires once per day per entity and tier.
func dedupKey(userID string, a Alert) string {
	return fmt.Sprintf("alert:%s:%s:%s:%d", userID, a.Kind, a.EntityID, a.Tier)
}

// RunScans walks every account, logs fresh alerts and suppresses ones
// already fired within the dedup window. With no redis client every
// alert is logged on every run.
func (s *AlertService) RunScans(ctx context.Context) {
	userIDs, err := s.users.ListIDs()
	if err != nil {
		s.logger.Error("alert scan: list users", zap.Error(err))
		return
	}
	for _, userID := range userIDs {
		alerts, err := s.Scan(userID)
		if err != nil {
			s.logger.Error("alert scan failed", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		for _, a := range alerts {
			if s.rdb != nil {
				set, err := s.rdb.SetNX(ctx, dedupKey(userID, a), 1, alertDedupTTL).Result()
				if err == nil && !set {
					continue
				}
			}
			s.logger.Info("alert",
				zap.String("user_id", userID),
				zap.String("kind", a.Kind),
				zap.String("entity_id", a.EntityID),
				zap.Int("tier", a.Tier),
				zap.String("message", a.Message))
		}
	}
}
