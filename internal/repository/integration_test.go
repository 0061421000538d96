package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskarn/go-storefront/internal/model"
)

func TestProductRepo_CRUD(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "reviews", "products")

	repo := NewProductRepository(testPool)
	ctx := context.Background()

	product := &model.Product{
		Name: "Mechanical Keyboard", Description: "Tenkeyless",
		Price: 450000, Stock: 100, Category: "keyboard",
		Photos: []string{"uploads/kb.jpg"},
	}
	require.NoError(t, repo.Create(ctx, product))
	assert.NotEqual(t, uuid.Nil, product.ID)

	found, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mechanical Keyboard", found.Name)
	assert.Equal(t, int64(450000), found.Price)

	product.Name = "Updated"
	require.NoError(t, repo.Update(ctx, product))

	found, _ = repo.GetByID(ctx, product.ID)
	assert.Equal(t, "Updated", found.Name)

	require.NoError(t, repo.Delete(ctx, product.ID))
	found, _ = repo.GetByID(ctx, product.ID)
	assert.Nil(t, found)
}

func TestProductRepo_DecrementStock(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "reviews", "products")

	repo := NewProductRepository(testPool)
	ctx := context.Background()

	product := &model.Product{Name: "P", Description: "D", Price: 100, Stock: 10, Category: "misc"}
	require.NoError(t, repo.Create(ctx, product))

	require.NoError(t, repo.DecrementStock(ctx, product.ID, 3))
	found, _ := repo.GetByID(ctx, product.ID)
	assert.Equal(t, 7, found.Stock)

	// requesting more than remains must not touch the row
	err := repo.DecrementStock(ctx, product.ID, 8)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	found, _ = repo.GetByID(ctx, product.ID)
	assert.Equal(t, 7, found.Stock)

	err = repo.DecrementStock(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestProductRepo_LatestAndCategories(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "reviews", "products")

	repo := NewProductRepository(testPool)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		category := "laptop"
		if i%2 == 0 {
			category = "phone"
		}
		require.NoError(t, repo.Create(ctx, &model.Product{
			Name: "P", Description: "D", Price: 100, Stock: 1, Category: category,
		}))
	}

	latest, err := repo.Latest(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, latest, 5)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"laptop", "phone"}, categories)
}

func TestReviewRepo_UpsertLookupAndAggregate(t *testing.T) {
	cleanupTable(t, "reviews", "products", "users")

	userRepo := NewUserRepository(testPool)
	productRepo := NewProductRepository(testPool)
	reviewRepo := NewReviewRepository(testPool)
	ctx := context.Background()

	user := &model.User{Email: "rev@example.com", Password: "h", Name: "R", Role: "customer"}
	require.NoError(t, userRepo.Create(ctx, user))
	product := &model.Product{Name: "P", Description: "D", Price: 100, Stock: 1, Category: "misc"}
	require.NoError(t, productRepo.Create(ctx, product))

	missing, err := reviewRepo.GetByUserAndProduct(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	review := &model.Review{UserID: user.ID, ProductID: product.ID, Rating: 4, Comment: "good"}
	require.NoError(t, reviewRepo.Create(ctx, review))

	existing, err := reviewRepo.GetByUserAndProduct(ctx, user.ID, product.ID)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, review.ID, existing.ID)

	sum, count, err := reviewRepo.Aggregate(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), sum)
	assert.Equal(t, 1, count)

	require.NoError(t, reviewRepo.Delete(ctx, review.ID))
	sum, count, err = reviewRepo.Aggregate(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum)
	assert.Equal(t, 0, count)
}

func TestOrderRepo_CreateGetAndStatus(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "products", "users")

	userRepo := NewUserRepository(testPool)
	productRepo := NewProductRepository(testPool)
	orderRepo := NewOrderRepository(testPool)
	ctx := context.Background()

	user := &model.User{Email: "order@example.com", Password: "h", Name: "O", Role: "customer"}
	require.NoError(t, userRepo.Create(ctx, user))
	product := &model.Product{Name: "P", Description: "D", Price: 2500, Stock: 10, Category: "misc"}
	require.NoError(t, productRepo.Create(ctx, product))

	order := &model.Order{
		UserID: user.ID, Status: model.OrderStatusProcessing,
		ShippingInfo: model.ShippingInfo{Address: "1 Main St", City: "Pune", State: "MH", Country: "IN", PinCode: "411001"},
		Subtotal:     5000, Tax: 900, ShippingCharges: 200, Discount: 0, Total: 6100,
		Items: []model.OrderItem{
			{ProductID: product.ID, Name: product.Name, Quantity: 2, Price: product.Price},
		},
	}
	require.NoError(t, orderRepo.Create(ctx, order))
	assert.NotEqual(t, uuid.Nil, order.ID)

	found, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 2, found.Items[0].Quantity)

	require.NoError(t, orderRepo.UpdateStatus(ctx, order.ID, model.OrderStatusShipped))
	found, _ = orderRepo.GetByID(ctx, order.ID)
	assert.Equal(t, model.OrderStatusShipped, found.Status)

	mine, err := orderRepo.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, orderRepo.Delete(ctx, order.ID))
	assert.ErrorIs(t, orderRepo.Delete(ctx, order.ID), pgx.ErrNoRows)
}

func TestCouponRepo_CreateGetDelete(t *testing.T) {
	cleanupTable(t, "coupons")

	repo := NewCouponRepository(testPool)
	ctx := context.Background()

	coupon := &model.Coupon{Code: "WELCOME50", Amount: 5000}
	require.NoError(t, repo.Create(ctx, coupon))

	found, err := repo.GetByCode(ctx, "WELCOME50")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(5000), found.Amount)

	// codes are case-sensitive
	miss, err := repo.GetByCode(ctx, "welcome50")
	require.NoError(t, err)
	assert.Nil(t, miss)

	byID, err := repo.GetByID(ctx, coupon.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "WELCOME50", byID.Code)

	byID.Amount = 7500
	require.NoError(t, repo.Update(ctx, byID))
	updated, err := repo.GetByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), updated.Amount)

	deleted, err := repo.Delete(ctx, coupon.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, "WELCOME50", deleted.Code)
}
