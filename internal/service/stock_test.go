package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskarn/go-storefront/internal/model"
)

func TestStockLedger_Reduce(t *testing.T) {
	repo := newMockProductRepo()
	p1, p2 := uuid.New(), uuid.New()
	repo.products[p1] = &model.Product{ID: p1, Stock: 10}
	repo.products[p2] = &model.Product{ID: p2, Stock: 5}

	ledger := NewStockLedger(repo)
	err := ledger.Reduce(context.Background(), []model.OrderItem{
		{ProductID: p1, Quantity: 3},
		{ProductID: p2, Quantity: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, repo.products[p1].Stock)
	assert.Equal(t, 0, repo.products[p2].Stock)
}

func TestStockLedger_InsufficientStock(t *testing.T) {
	repo := newMockProductRepo()
	p := uuid.New()
	repo.products[p] = &model.Product{ID: p, Stock: 2}

	ledger := NewStockLedger(repo)
	err := ledger.Reduce(context.Background(), []model.OrderItem{{ProductID: p, Quantity: 3}})
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 2, repo.products[p].Stock)
}

func TestStockLedger_MissingProduct(t *testing.T) {
	ledger := NewStockLedger(newMockProductRepo())
	err := ledger.Reduce(context.Background(), []model.OrderItem{{ProductID: uuid.New(), Quantity: 1}})
	assert.ErrorIs(t, err, ErrOutOfStock)
}

// Items are applied independently: a later failure does not roll back
// earlier decrements, it only fails the call.
func TestStockLedger_PartialFailureKeepsEarlierDecrements(t *testing.T) {
	repo := newMockProductRepo()
	p1, p2 := uuid.New(), uuid.New()
	repo.products[p1] = &model.Product{ID: p1, Stock: 10}
	repo.products[p2] = &model.Product{ID: p2, Stock: 1}

	ledger := NewStockLedger(repo)
	err := ledger.Reduce(context.Background(), []model.OrderItem{
		{ProductID: p1, Quantity: 4},
		{ProductID: p2, Quantity: 2},
	})
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 6, repo.products[p1].Stock)
	assert.Equal(t, 1, repo.products[p2].Stock)
}
