package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oskarn/go-storefront/internal/cache"
	"github.com/oskarn/go-storefront/internal/dto"
	"github.com/oskarn/go-storefront/internal/repository"
)

// StatsService serves the admin dashboard. Each view is cached whole under
// its own admin-* key; any product, order, review, or user mutation purges
// all of them via the Admin invalidation flag.
type StatsService struct {
	statsRepo repository.StatsRepository
	cache     *cache.Store
}

func NewStatsService(statsRepo repository.StatsRepository, store *cache.Store) *StatsService {
	return &StatsService{statsRepo: statsRepo, cache: store}
}

func (s *StatsService) Dashboard(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	if cached, ok := s.cache.Get(cache.KeyAdminStats); ok {
		resp := &dto.DashboardStatsResponse{}
		if json.Unmarshal(cached, resp) == nil {
			return resp, nil
		}
	}

	counts, err := s.statsRepo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	categories, err := s.statsRepo.CategoryCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard categories: %w", err)
	}
	monthly, err := s.statsRepo.Monthly(ctx, 6)
	if err != nil {
		return nil, fmt.Errorf("dashboard monthly: %w", err)
	}

	resp := &dto.DashboardStatsResponse{
		Users:      counts.Users,
		Products:   counts.Products,
		Orders:     counts.Orders,
		Revenue:    counts.Revenue,
		Categories: toCategoryShares(categories, counts.Products),
		Monthly:    toMonthlyPoints(monthly),
	}
	s.fill(cache.KeyAdminStats, resp)
	return resp, nil
}

func (s *StatsService) Pie(ctx context.Context) (*dto.PieChartsResponse, error) {
	if cached, ok := s.cache.Get(cache.KeyAdminPieCharts); ok {
		resp := &dto.PieChartsResponse{}
		if json.Unmarshal(cached, resp) == nil {
			return resp, nil
		}
	}

	statuses, err := s.statsRepo.OrderStatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("pie statuses: %w", err)
	}
	counts, err := s.statsRepo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("pie counts: %w", err)
	}
	outOfStock, err := s.statsRepo.OutOfStockCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("pie stock: %w", err)
	}

	resp := &dto.PieChartsResponse{
		OrderFulfillment: make(map[string]int, len(statuses)),
		StockAvailability: dto.StockAvailability{
			InStock:    counts.Products - outOfStock,
			OutOfStock: outOfStock,
		},
	}
	for _, st := range statuses {
		resp.OrderFulfillment[st.Status] = st.Total
	}
	s.fill(cache.KeyAdminPieCharts, resp)
	return resp, nil
}

func (s *StatsService) Bar(ctx context.Context) (*dto.BarChartsResponse, error) {
	if cached, ok := s.cache.Get(cache.KeyAdminBarCharts); ok {
		resp := &dto.BarChartsResponse{}
		if json.Unmarshal(cached, resp) == nil {
			return resp, nil
		}
	}

	monthly, err := s.statsRepo.Monthly(ctx, 12)
	if err != nil {
		return nil, fmt.Errorf("bar monthly: %w", err)
	}

	resp := &dto.BarChartsResponse{Orders: toMonthlyPoints(monthly)}
	s.fill(cache.KeyAdminBarCharts, resp)
	return resp, nil
}

func (s *StatsService) Line(ctx context.Context) (*dto.LineChartsResponse, error) {
	if cached, ok := s.cache.Get(cache.KeyAdminLineCharts); ok {
		resp := &dto.LineChartsResponse{}
		if json.Unmarshal(cached, resp) == nil {
			return resp, nil
		}
	}

	monthly, err := s.statsRepo.Monthly(ctx, 12)
	if err != nil {
		return nil, fmt.Errorf("line monthly: %w", err)
	}

	resp := &dto.LineChartsResponse{Revenue: toMonthlyPoints(monthly)}
	s.fill(cache.KeyAdminLineCharts, resp)
	return resp, nil
}

func (s *StatsService) fill(key string, v any) {
	if data, err := json.Marshal(v); err == nil {
		s.cache.Set(key, data)
	}
}

func toCategoryShares(counts []repository.CategoryCount, total int) []dto.CategoryShare {
	var shares []dto.CategoryShare
	for _, c := range counts {
		share := dto.CategoryShare{Category: c.Category, Count: c.Total}
		if total > 0 {
			share.Percent = float64(c.Total) * 100 / float64(total)
		}
		shares = append(shares, share)
	}
	return shares
}

func toMonthlyPoints(stats []repository.MonthlyStat) []dto.MonthlyPoint {
	var points []dto.MonthlyPoint
	for _, m := range stats {
		points = append(points, dto.MonthlyPoint{
			Month:   m.Month.Format("2006-01"),
			Orders:  m.Orders,
			Revenue: m.Revenue,
		})
	}
	return points
}
