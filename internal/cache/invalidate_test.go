package cache

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func seedStore() *Store {
	s := NewStore()
	for _, k := range []string{KeyLatestProducts, KeyCategories, KeyAllProducts, KeyAllOrders} {
		s.Set(k, []byte("cached"))
	}
	for _, k := range AdminKeys() {
		s.Set(k, []byte("cached"))
	}
	return s
}

func TestInvalidate_ProductCompleteness(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	s := seedStore()
	s.Set(ProductKey(p1), []byte("cached"))
	s.Set(ProductKey(p2), []byte("cached"))

	s.Invalidate(Invalidation{Product: true, ProductIDs: []uuid.UUID{p1, p2}})

	assert.False(t, s.Has(ProductKey(p1)))
	assert.False(t, s.Has(ProductKey(p2)))
	assert.False(t, s.Has(KeyLatestProducts))
	assert.False(t, s.Has(KeyCategories))
	assert.False(t, s.Has(KeyAllProducts))
}

func TestInvalidate_ReviewKeysOnlyWithReviewFlag(t *testing.T) {
	p := uuid.New()
	s := seedStore()
	s.Set(ReviewsKey(p), []byte("cached"))

	s.Invalidate(Invalidation{Product: true, ProductIDs: []uuid.UUID{p}})
	assert.True(t, s.Has(ReviewsKey(p)))

	s.Set(ReviewsKey(p), []byte("cached"))
	s.Invalidate(Invalidation{Product: true, Review: true, ProductIDs: []uuid.UUID{p}})
	assert.False(t, s.Has(ReviewsKey(p)))
}

func TestInvalidate_OrderLocality(t *testing.T) {
	orderID, userID, productID := uuid.New(), uuid.New(), uuid.New()
	s := seedStore()
	s.Set(ProductKey(productID), []byte("cached"))
	s.Set(OrderKey(orderID), []byte("cached"))
	s.Set(MyOrdersKey(userID), []byte("cached"))

	s.Invalidate(Invalidation{Order: true, OrderID: orderID, UserID: userID})

	assert.False(t, s.Has(KeyAllOrders))
	assert.False(t, s.Has(OrderKey(orderID)))
	assert.False(t, s.Has(MyOrdersKey(userID)))

	// product family must survive an order-only invalidation
	assert.True(t, s.Has(ProductKey(productID)))
	assert.True(t, s.Has(KeyCategories))
	assert.True(t, s.Has(KeyLatestProducts))
}

func TestInvalidate_OrderWithoutIDs(t *testing.T) {
	s := seedStore()
	s.Invalidate(Invalidation{Order: true})
	assert.False(t, s.Has(KeyAllOrders))
}

func TestInvalidate_AdminKeys(t *testing.T) {
	s := seedStore()
	s.Invalidate(Invalidation{Admin: true})
	for _, k := range AdminKeys() {
		assert.False(t, s.Has(k))
	}
	assert.True(t, s.Has(KeyAllOrders))
}

func TestInvalidate_EmptyDescriptorPurgesNothing(t *testing.T) {
	s := seedStore()
	before := s.Len()
	s.Invalidate(Invalidation{})
	assert.Equal(t, before, s.Len())
}
