package payout

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Aggregate sums payout rows per restaurant over [from, to).
func (r *Repository) Aggregate(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]ReportRow, error) {

	rows, err := r.db.Query(ctx, `
		SELECT
			op.restaurant_id,
			rest.name,
			COUNT(DISTINCT op.order_id),
			COALESCE(SUM(op.gross_pence), 0),
			COALESCE(SUM(op.gross_commission_pence), 0),
			COALESCE(SUM(op.net_commission_pence), 0),
			COALESCE(SUM(op.restaurant_absorbed_pence), 0),
			COALESCE(SUM(op.platform_absorbed_pence), 0),
			COALESCE(SUM(op.net_pence), 0)
		FROM order_payouts op
		JOIN restaurants rest
		  ON op.restaurant_id = rest.id
		WHERE op.created_at >= $1
		  AND op.created_at < $2
		GROUP BY op.restaurant_id, rest.name
		ORDER BY rest.name
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var row ReportRow
		err := rows.Scan(
			&row.RestaurantID,
			&row.RestaurantName,
			&row.Orders,
			&row.GrossPence,
			&row.GrossCommissionPence,
			&row.NetCommissionPence,
			&row.RestaurantAbsorbedPence,
			&row.PlatformAbsorbedPence,
			&row.NetPence,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
