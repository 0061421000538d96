package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oskarn/go-storefront/internal/model"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	ListAll(ctx context.Context) ([]model.Coupon, error)
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
}

type pgCouponRepo struct{ pool *pgxpool.Pool }

func NewCouponRepository(pool *pgxpool.Pool) CouponRepository {
	return &pgCouponRepo{pool: pool}
}

func (r *pgCouponRepo) Create(ctx context.Context, coupon *model.Coupon) error {
	coupon.ID = uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO coupons (id, code, amount) VALUES ($1, $2, $3)`,
		coupon.ID, coupon.Code, coupon.Amount,
	)
	if err != nil {
		return fmt.Errorf("create coupon: %w", err)
	}
	return nil
}

func (r *pgCouponRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	coupon := &model.Coupon{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, amount FROM coupons WHERE id = $1`, id,
	).Scan(&coupon.ID, &coupon.Code, &coupon.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	return coupon, nil
}

// Codes are case-sensitive on purpose.
func (r *pgCouponRepo) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	coupon := &model.Coupon{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, amount FROM coupons WHERE code = $1`, code,
	).Scan(&coupon.ID, &coupon.Code, &coupon.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	return coupon, nil
}

func (r *pgCouponRepo) ListAll(ctx context.Context) ([]model.Coupon, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, amount FROM coupons ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.Coupon
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.Amount); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	return coupons, nil
}

func (r *pgCouponRepo) Update(ctx context.Context, coupon *model.Coupon) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE coupons SET code = $2, amount = $3 WHERE id = $1`,
		coupon.ID, coupon.Code, coupon.Amount,
	)
	if err != nil {
		return fmt.Errorf("update coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgCouponRepo) Delete(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	coupon := &model.Coupon{}
	err := r.pool.QueryRow(ctx,
		`DELETE FROM coupons WHERE id = $1 RETURNING id, code, amount`, id,
	).Scan(&coupon.ID, &coupon.Code, &coupon.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete coupon: %w", err)
	}
	return coupon, nil
}
