package cache

import "github.com/google/uuid"

// Invalidation describes which key families a mutation could have made
// stale. ProductIDs is a slice because one order can touch many products.
type Invalidation struct {
	Product bool
	Order   bool
	Admin   bool
	Review  bool

	UserID     uuid.UUID
	OrderID    uuid.UUID
	ProductIDs []uuid.UUID
}

// Invalidate purges every key that could now serve stale data and nothing
// else. Each flag maps to an independent key family, so the pass runs
// unconditionally in one sweep. Deleting an absent key is a no-op; after
// Invalidate returns, a read of any affected key is a guaranteed miss.
func (s *Store) Invalidate(ev Invalidation) {
	if ev.Product {
		keys := []string{KeyLatestProducts, KeyCategories, KeyAllProducts}
		for _, id := range ev.ProductIDs {
			keys = append(keys, ProductKey(id))
			if ev.Review {
				keys = append(keys, ReviewsKey(id))
			}
		}
		s.Delete(keys...)
	}

	if ev.Order {
		keys := []string{KeyAllOrders}
		if ev.OrderID != uuid.Nil {
			keys = append(keys, OrderKey(ev.OrderID))
		}
		if ev.UserID != uuid.Nil {
			keys = append(keys, MyOrdersKey(ev.UserID))
		}
		s.Delete(keys...)
	}

	if ev.Admin {
		s.Delete(AdminKeys()...)
	}
}
