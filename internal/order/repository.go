package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"swiftfood/internal/pricing"
)

var ErrNotFound = errors.New("order not found")

// Repository defines all database operations for orders.
type Repository interface {
	// Create persists the order, its lines and its payout rows in one
	// transaction.
	Create(ctx context.Context, o *Order, items []Item) error

	GetByID(ctx context.Context, id string) (*Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
}

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// CREATE (TRANSACTIONAL)
// --------------------------------------------------

func (r *PostgresRepository) Create(ctx context.Context, o *Order, items []Item) error {
	breakdown, err := json.Marshal(o.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}
	instructions, err := json.Marshal(o.SpecialInstructions)
	if err != nil {
		return fmt.Errorf("failed to marshal special instructions: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO orders
			(id, customer_id, order_context, status, promo_code,
			 subtotal_pence, discount_pence, delivery_fee_pence,
			 service_charge_pence, total_pence, breakdown, special_instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`,
		o.ID,
		o.CustomerID,
		o.Context,
		o.Status,
		o.PromoCode,
		o.SubtotalPence,
		o.DiscountPence,
		o.DeliveryFeePence,
		o.ServiceChargePence,
		o.TotalPence,
		breakdown,
		instructions,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items
				(order_id, session_id, restaurant_id, menu_item_id, name,
				 quantity, unit_pence, addon_pence, total_pence, discount_pence)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			o.ID,
			item.SessionID,
			item.RestaurantID,
			item.MenuItemID,
			item.Name,
			item.Quantity,
			item.UnitPence,
			item.AddonPence,
			item.TotalPence,
			item.DiscountPence,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	for _, p := range o.Payouts {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_payouts
				(order_id, restaurant_id, gross_pence, commission_rate,
				 gross_commission_pence, net_commission_pence,
				 restaurant_absorbed_pence, platform_absorbed_pence, net_pence)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			o.ID,
			p.RestaurantID,
			p.GrossPence,
			p.CommissionRate,
			p.GrossCommissionPence,
			p.NetCommissionPence,
			p.RestaurantAbsorbedPence,
			p.PlatformAbsorbedPence,
			p.NetPence,
		)
		if err != nil {
			return fmt.Errorf("failed to create order payout: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// --------------------------------------------------
// READ
// --------------------------------------------------

const orderColumns = `
	id, customer_id, order_context, status, promo_code,
	subtotal_pence, discount_pence, delivery_fee_pence,
	service_charge_pence, total_pence, breakdown, special_instructions,
	created_at
`

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`,
		customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o            Order
		breakdown    []byte
		instructions []byte
	)
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.Context,
		&o.Status,
		&o.PromoCode,
		&o.SubtotalPence,
		&o.DiscountPence,
		&o.DeliveryFeePence,
		&o.ServiceChargePence,
		&o.TotalPence,
		&breakdown,
		&instructions,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(breakdown) > 0 {
		o.Breakdown = &pricing.PricingBreakdown{}
		if err := json.Unmarshal(breakdown, o.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal breakdown: %w", err)
		}
	}
	if len(instructions) > 0 {
		if err := json.Unmarshal(instructions, &o.SpecialInstructions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal special instructions: %w", err)
		}
	}
	return &o, nil
}
