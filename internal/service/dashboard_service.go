package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Grouping granularities for dashboard series.
const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
	GroupByYear  = "year"
)

const dashboardCacheTTL = 5 * time.Minute

// DashboardService aggregates sales, expenses and profit over time.
// Aggregates are cached in redis for a few minutes when a client is
// configured; a nil client disables caching.
type DashboardService struct {
	orders    *repository.OrderRepository
	materials *repository.MaterialRepository
	inventory *repository.InventoryRepository
	rdb       *redis.Client
	logger    *zap.Logger
}

func NewDashboardService(orders *repository.OrderRepository, materials *repository.MaterialRepository, inventory *repository.InventoryRepository, rdb *redis.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{orders: orders, materials: materials, inventory: inventory, rdb: rdb, logger: logger}
}

// PeriodParams selects the date range and grouping of a series.
type PeriodParams struct {
	From    *time.Time
	To      *time.Time
	GroupBy string
}

func (p *PeriodParams) normalize() error {
	if p.GroupBy == "" {
		p.GroupBy = GroupByMonth
	}
	switch p.GroupBy {
	case GroupByDay, GroupByWeek, GroupByMonth, GroupByYear:
	default:
		return apperr.Validation("group_by", "неизвестная группировка периода")
	}
	if p.From != nil && p.To != nil && p.To.Before(*p.From) {
		return apperr.Validation("to", "конец периода раньше начала")
	}
	return nil
}

// bucket formats t into the series key for the grouping.
func bucket(t time.Time, groupBy string) string {
	switch groupBy {
	case GroupByDay:
		return t.Format("2006-01-02")
	case GroupByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case GroupByYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01")
	}
}

// SeriesPoint is one dashboard bucket.
type SeriesPoint struct {
	Period string  `json:"period"`
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
}

func sortedSeries(totals map[string]float64, counts map[string]int) []SeriesPoint {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]SeriesPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, SeriesPoint{Period: k, Total: totals[k], Count: counts[k]})
	}
	return out
}

func (s *DashboardService) cacheKey(userID, kind string, p PeriodParams) string {
	from, to := "", ""
	if p.From != nil {
		from = p.From.Format("2006-01-02")
	}
	if p.To != nil {
		to = p.To.Format("2006-01-02")
	}
	return fmt.Sprintf("dash:%s:%s:%s:%s:%s", userID, kind, p.GroupBy, from, to)
}

func (s *DashboardService) fromCache(ctx context.Context, key string, dst interface{}) bool {
	if s.rdb == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (s *DashboardService) toCache(ctx context.Context, key string, v interface{}) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, dashboardCacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

// Sales sums order totals per bucket. Cancelled orders are excluded.
func (s *DashboardService) Sales(ctx context.Context, userID string, p PeriodParams) ([]SeriesPoint, error) {
	if err := p.normalize(); err != nil {
		return nil, err
	}
	key := s.cacheKey(userID, "sales", p)
	var cached []SeriesPoint
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	orders, err := s.orders.ListForSales(userID, p.From, p.To)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, o := range orders {
		b := bucket(o.OrderDate, p.GroupBy)
		totals[b] += o.TotalPrice
		counts[b]++
	}
	series := sortedSeries(totals, counts)
	s.toCache(ctx, key, series)
	return series, nil
}

// Expenses sums material and inventory purchase prices per bucket, keyed
// by purchase date. Rows without a purchase date are skipped.
func (s *DashboardService) Expenses(ctx context.Context, userID string, p PeriodParams) ([]SeriesPoint, error) {
	if err := p.normalize(); err != nil {
		return nil, err
	}
	key := s.cacheKey(userID, "expenses", p)
	var cached []SeriesPoint
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	materials, err := s.materials.ListPurchases(userID, p.From, p.To)
	if err != nil {
		return nil, err
	}
	tools, err := s.inventory.ListPurchases(userID, p.From, p.To)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, m := range materials {
		if m.PurchaseDate == nil {
			continue
		}
		b := bucket(*m.PurchaseDate, p.GroupBy)
		totals[b] += m.PurchasePrice
		counts[b]++
	}
	for _, item := range tools {
		if item.PurchaseDate == nil {
			continue
		}
		b := bucket(*item.PurchaseDate, p.GroupBy)
		totals[b] += item.PurchasePrice
		counts[b]++
	}
	series := sortedSeries(totals, counts)
	s.toCache(ctx, key, series)
	return series, nil
}

// CategoryExpense is the material spend attributed to one category.
type CategoryExpense struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Total        float64 `json:"total"`
}

// MaterialExpenses breaks material purchases down by category.
// Uncategorized materials land in a bucket with an empty category id.
func (s *DashboardService) MaterialExpenses(ctx context.Context, userID string, p PeriodParams) ([]CategoryExpense, error) {
	if err := p.normalize(); err != nil {
		return nil, err
	}
	key := s.cacheKey(userID, "material-expenses", p)
	var cached []CategoryExpense
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	materials, err := s.materials.ListPurchases(userID, p.From, p.To)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]*CategoryExpense)
	for _, m := range materials {
		id, name := "", "Без категории"
		if m.CategoryID != nil {
			id = *m.CategoryID
			if m.Category != nil {
				name = m.Category.Name
			}
		}
		e, ok := totals[id]
		if !ok {
			e = &CategoryExpense{CategoryID: id, CategoryName: name}
			totals[id] = e
		}
		e.Total += m.PurchasePrice
	}
	out := make([]CategoryExpense, 0, len(totals))
	for _, e := range totals {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	s.toCache(ctx, key, out)
	return out, nil
}

// ProfitPoint is sales minus expenses for one bucket.
type ProfitPoint struct {
	Period   string  `json:"period"`
	Sales    float64 `json:"sales"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// Profit merges the sales and expenses series bucket by bucket.
func (s *DashboardService) Profit(ctx context.Context, userID string, p PeriodParams) ([]ProfitPoint, error) {
	if err := p.normalize(); err != nil {
		return nil, err
	}
	sales, err := s.Sales(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	expenses, err := s.Expenses(ctx, userID, p)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]*ProfitPoint)
	point := func(period string) *ProfitPoint {
		if pt, ok := merged[period]; ok {
			return pt
		}
		pt := &ProfitPoint{Period: period}
		merged[period] = pt
		return pt
	}
	for _, sp := range sales {
		point(sp.Period).Sales = sp.Total
	}
	for _, ep := range expenses {
		point(ep.Period).Expenses = ep.Total
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]ProfitPoint, 0, len(keys))
	for _, k := range keys {
		pt := merged[k]
		pt.Profit = pt.Sales - pt.Expenses
		out = append(out, *pt)
	}
	return out, nil
}
