package promocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("promo code not found")
	ErrUsageExceeded = errors.New("promo code usage limit reached")
)

// Repository defines all database operations for promo codes.
type Repository interface {
	Create(ctx context.Context, c *PromoCode) error
	GetByCode(ctx context.Context, code string) (*PromoCode, error)

	// Redeem increments the usage counter, failing when the code has hit
	// its limit. It runs as a single guarded UPDATE so two concurrent
	// commits cannot both take the last use.
	Redeem(ctx context.Context, code string) error
}

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// CREATE
// --------------------------------------------------

func (r *PostgresRepository) Create(ctx context.Context, c *PromoCode) error {
	query := `
		INSERT INTO promo_codes
			(id, code, kind, value, min_order_pence, max_usage, usage_count,
			 start_date, end_date, active)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		c.ID,
		strings.ToUpper(c.Code),
		c.Kind,
		c.Value,
		c.MinOrderPence,
		c.MaxUsage,
		c.StartDate,
		c.EndDate,
		c.Active,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create promo code: %w", err)
	}
	return nil
}

// --------------------------------------------------
// LOOKUP
// --------------------------------------------------

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*PromoCode, error) {
	query := `
		SELECT id, code, kind, value, min_order_pence, max_usage, usage_count,
		       start_date, end_date, active, created_at
		FROM promo_codes
		WHERE code = $1
	`

	var c PromoCode
	err := r.db.QueryRow(ctx, query, strings.ToUpper(code)).Scan(
		&c.ID,
		&c.Code,
		&c.Kind,
		&c.Value,
		&c.MinOrderPence,
		&c.MaxUsage,
		&c.UsageCount,
		&c.StartDate,
		&c.EndDate,
		&c.Active,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}
	return &c, nil
}

// --------------------------------------------------
// REDEEM
// --------------------------------------------------

func (r *PostgresRepository) Redeem(ctx context.Context, code string) error {
	query := `
		UPDATE promo_codes
		SET usage_count = usage_count + 1
		WHERE code = $1
		  AND (max_usage = 0 OR usage_count < max_usage)
	`

	tag, err := r.db.Exec(ctx, query, strings.ToUpper(code))
	if err != nil {
		return fmt.Errorf("failed to redeem promo code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the code does not exist or it is exhausted; tell them apart.
		if _, lookupErr := r.GetByCode(ctx, code); lookupErr != nil {
			return lookupErr
		}
		return ErrUsageExceeded
	}
	return nil
}
