package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskarn/go-storefront/internal/cache"
	"github.com/oskarn/go-storefront/internal/repository"
)

type mockStatsRepo struct {
	counts   repository.Counts
	statuses []repository.StatusCount
	calls    int
}

func (m *mockStatsRepo) Counts(_ context.Context) (repository.Counts, error) {
	m.calls++
	return m.counts, nil
}

func (m *mockStatsRepo) CategoryCounts(_ context.Context) ([]repository.CategoryCount, error) {
	return []repository.CategoryCount{{Category: "laptop", Total: 3}, {Category: "phone", Total: 1}}, nil
}

func (m *mockStatsRepo) OrderStatusCounts(_ context.Context) ([]repository.StatusCount, error) {
	return m.statuses, nil
}

func (m *mockStatsRepo) Monthly(_ context.Context, _ int) ([]repository.MonthlyStat, error) {
	return []repository.MonthlyStat{{Month: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Orders: 2, Revenue: 5000}}, nil
}

func (m *mockStatsRepo) OutOfStockCount(_ context.Context) (int, error) { return 1, nil }

func TestStatsService_Dashboard_CachedUnderAdminKey(t *testing.T) {
	repo := &mockStatsRepo{counts: repository.Counts{Users: 2, Products: 4, Orders: 3, Revenue: 12000}}
	store := cache.NewStore()
	svc := NewStatsService(repo, store)

	resp, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Products)
	assert.Equal(t, int64(12000), resp.Revenue)
	assert.True(t, store.Has(cache.KeyAdminStats))

	// served from cache, no second repo hit
	calls := repo.calls
	_, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, calls, repo.calls)
}

func TestStatsService_Pie(t *testing.T) {
	repo := &mockStatsRepo{
		counts:   repository.Counts{Products: 4},
		statuses: []repository.StatusCount{{Status: "Processing", Total: 2}, {Status: "Delivered", Total: 1}},
	}
	store := cache.NewStore()
	svc := NewStatsService(repo, store)

	resp, err := svc.Pie(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.OrderFulfillment["Processing"])
	assert.Equal(t, 3, resp.StockAvailability.InStock)
	assert.Equal(t, 1, resp.StockAvailability.OutOfStock)
	assert.True(t, store.Has(cache.KeyAdminPieCharts))
}

func TestStatsService_RecomputesAfterInvalidation(t *testing.T) {
	repo := &mockStatsRepo{counts: repository.Counts{Orders: 1}}
	store := cache.NewStore()
	svc := NewStatsService(repo, store)

	_, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	store.Invalidate(cache.Invalidation{Admin: true})
	assert.False(t, store.Has(cache.KeyAdminStats))

	repo.counts.Orders = 2
	resp, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Orders)
}
