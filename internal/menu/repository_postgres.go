package menu

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// LIST MENU (PUBLIC)
// --------------------------------------------------
func (r *PostgresRepository) ListByRestaurant(
	ctx context.Context,
	restaurantID string,
) ([]Item, error) {

	rows, err := r.db.Query(ctx, `
		SELECT
			id, restaurant_id, name, category,
			price_pence, discounted_price_pence, is_discounted,
			catering_unit, feeds_per_unit, addons,
			available, created_at, updated_at
		FROM menu_items
		WHERE restaurant_id = $1 AND available
		ORDER BY category, name
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

// --------------------------------------------------
// LOAD ITEMS FOR A PRICING RUN
// --------------------------------------------------
func (r *PostgresRepository) GetByIDs(
	ctx context.Context,
	ids []string,
) ([]Item, error) {

	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			id, restaurant_id, name, category,
			price_pence, discounted_price_pence, is_discounted,
			catering_unit, feeds_per_unit, addons,
			available, created_at, updated_at
		FROM menu_items
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

// --------------------------------------------------
// VALIDATE PROMOTION TARGETS
// --------------------------------------------------
func (r *PostgresRepository) MissingItems(
	ctx context.Context,
	restaurantID string,
	ids []string,
) ([]string, error) {

	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id FROM menu_items
		WHERE restaurant_id = $1 AND id = ANY($2)
	`, restaurantID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[string]bool, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanItems(rows pgxRows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		var (
			item      Item
			addonsRaw []byte
		)
		if err := rows.Scan(
			&item.ID,
			&item.RestaurantID,
			&item.Name,
			&item.Category,
			&item.PricePence,
			&item.DiscountedPricePence,
			&item.IsDiscounted,
			&item.CateringUnit,
			&item.FeedsPerUnit,
			&addonsRaw,
			&item.Available,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(addonsRaw) > 0 {
			if err := json.Unmarshal(addonsRaw, &item.Addons); err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
