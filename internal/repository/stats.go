package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Counts struct {
	Users    int
	Products int
	Orders   int
	Revenue  int64
}

type CategoryCount struct {
	Category string
	Total    int
}

type StatusCount struct {
	Status string
	Total  int
}

type MonthlyStat struct {
	Month   time.Time
	Orders  int
	Revenue int64
}

// StatsRepository serves the admin dashboard aggregates. Results are cached
// upstream under the admin-* keys and recomputed on invalidation.
type StatsRepository interface {
	Counts(ctx context.Context) (Counts, error)
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
	OrderStatusCounts(ctx context.Context) ([]StatusCount, error)
	Monthly(ctx context.Context, months int) ([]MonthlyStat, error)
	OutOfStockCount(ctx context.Context) (int, error)
}

type pgStatsRepo struct{ pool *pgxpool.Pool }

func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &pgStatsRepo{pool: pool}
}

func (r *pgStatsRepo) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.pool.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM products),
		(SELECT COUNT(*) FROM orders),
		(SELECT COALESCE(SUM(total), 0) FROM orders)`,
	).Scan(&c.Users, &c.Products, &c.Orders, &c.Revenue)
	if err != nil {
		return Counts{}, fmt.Errorf("dashboard counts: %w", err)
	}
	return c, nil
}

func (r *pgStatsRepo) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, COUNT(*) FROM products GROUP BY category ORDER BY COUNT(*) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Total); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, nil
}

func (r *pgStatsRepo) OrderStatusCounts(ctx context.Context) ([]StatusCount, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Total); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, nil
}

func (r *pgStatsRepo) Monthly(ctx context.Context, months int) ([]MonthlyStat, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT date_trunc('month', created_at) AS month, COUNT(*), COALESCE(SUM(total), 0)
		 FROM orders
		 WHERE created_at >= date_trunc('month', NOW()) - make_interval(months => $1 - 1)
		 GROUP BY month ORDER BY month`,
		months,
	)
	if err != nil {
		return nil, fmt.Errorf("monthly stats: %w", err)
	}
	defer rows.Close()

	var stats []MonthlyStat
	for rows.Next() {
		var s MonthlyStat
		if err := rows.Scan(&s.Month, &s.Orders, &s.Revenue); err != nil {
			return nil, fmt.Errorf("scan monthly stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, nil
}

func (r *pgStatsRepo) OutOfStockCount(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE stock = 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("out of stock count: %w", err)
	}
	return n, nil
}
