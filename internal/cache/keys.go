package cache

import "github.com/google/uuid"

// Key names are part of the external contract; clients and the dashboard
// rely on the exact strings.
const (
	KeyLatestProducts = "latest-product"
	KeyCategories     = "categories"
	KeyAllProducts    = "all-products"
	KeyAllOrders      = "all-orders"

	KeyAdminStats      = "admin-stats"
	KeyAdminPieCharts  = "admin-pie-charts"
	KeyAdminBarCharts  = "admin-bar-charts"
	KeyAdminLineCharts = "admin-line-charts"
)

func ProductKey(id uuid.UUID) string { return "product-" + id.String() }

func ReviewsKey(productID uuid.UUID) string { return "reviews-" + productID.String() }

func OrderKey(id uuid.UUID) string { return "order-" + id.String() }

func MyOrdersKey(userID uuid.UUID) string { return "my-orders-" + userID.String() }

// AdminKeys lists the dashboard aggregate keys purged whenever any admin
// view could be stale.
func AdminKeys() []string {
	return []string{KeyAdminStats, KeyAdminPieCharts, KeyAdminBarCharts, KeyAdminLineCharts}
}
