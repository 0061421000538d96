package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/oskarn/go-storefront/internal/model"
	"github.com/oskarn/go-storefront/internal/repository"
)

var ErrOutOfStock = errors.New("out of stock")

// StockLedger applies inventory decrements for an order's line items. Each
// item is a conditional single-row update at the store; a product that is
// missing or short on stock fails the item with ErrOutOfStock. Items are
// processed independently, not as one multi-document transaction, so a
// failure partway through leaves earlier decrements applied. The caller
// must treat any error as fatal for the whole order.
type StockLedger struct {
	productRepo repository.ProductRepository
}

func NewStockLedger(productRepo repository.ProductRepository) *StockLedger {
	return &StockLedger{productRepo: productRepo}
}

func (l *StockLedger) Reduce(ctx context.Context, items []model.OrderItem) error {
	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("product %s: quantity must be positive", item.ProductID)
		}
		err := l.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return fmt.Errorf("product %s: %w", item.ProductID, ErrOutOfStock)
			}
			return fmt.Errorf("reduce stock: %w", err)
		}
	}
	return nil
}
