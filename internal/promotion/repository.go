package promotion

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("promotion not found")

// Repository defines all database operations for promotions.
type Repository interface {
	Create(ctx context.Context, p *Promotion) error
	Update(ctx context.Context, p *Promotion) error
	Delete(ctx context.Context, restaurantID, id string) error
	Get(ctx context.Context, restaurantID, id string) (*Promotion, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]Promotion, error)

	// ListActiveForRestaurants loads the promotion snapshot a pricing run
	// reads: every row for the given restaurants, keyed by restaurant.
	// Filtering by status and window is the resolver's job, not SQL's, so
	// the eligibility rules live in exactly one place.
	ListActiveForRestaurants(ctx context.Context, restaurantIDs []string) (map[string][]Promotion, error)
}

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// terms is the jsonb column payload: the variant picks which member is set.
type terms struct {
	Percent *PercentTerms `json:"percent,omitempty"`
	Tiered  *TierTerms    `json:"tiered,omitempty"`
	Bogo    *BogoTerms    `json:"bogo,omitempty"`
}

const promotionColumns = `
	id, restaurant_id, name, variant, applicability, status,
	start_date, end_date, stackable, priority, absorbed_by,
	min_order_pence, terms, created_at, updated_at
`

// --------------------------------------------------
// CREATE
// --------------------------------------------------
func (r *PostgresRepository) Create(ctx context.Context, p *Promotion) error {
	termsJSON, err := marshalTerms(p)
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO promotions (
			id, restaurant_id, name, variant, applicability, status,
			start_date, end_date, stackable, priority, absorbed_by,
			min_order_pence, terms
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at
	`,
		p.ID,
		p.RestaurantID,
		p.Name,
		p.Variant,
		p.Applicability,
		p.Status,
		p.StartDate,
		p.EndDate,
		p.Stackable,
		p.Priority,
		p.AbsorbedBy,
		p.MinOrderPence,
		termsJSON,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// --------------------------------------------------
// UPDATE
// --------------------------------------------------
func (r *PostgresRepository) Update(ctx context.Context, p *Promotion) error {
	termsJSON, err := marshalTerms(p)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE promotions
		SET name = $1, variant = $2, applicability = $3, status = $4,
		    start_date = $5, end_date = $6, stackable = $7, priority = $8,
		    absorbed_by = $9, min_order_pence = $10, terms = $11,
		    updated_at = NOW()
		WHERE id = $12 AND restaurant_id = $13
	`,
		p.Name, p.Variant, p.Applicability, p.Status,
		p.StartDate, p.EndDate, p.Stackable, p.Priority,
		p.AbsorbedBy, p.MinOrderPence, termsJSON,
		p.ID, p.RestaurantID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// DELETE
// --------------------------------------------------
func (r *PostgresRepository) Delete(ctx context.Context, restaurantID, id string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM promotions
		WHERE id = $1 AND restaurant_id = $2
	`, id, restaurantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// GET
// --------------------------------------------------
func (r *PostgresRepository) Get(ctx context.Context, restaurantID, id string) (*Promotion, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+promotionColumns+`
		FROM promotions
		WHERE id = $1 AND restaurant_id = $2
	`, id, restaurantID)

	p, err := scanPromotion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// --------------------------------------------------
// LIST BY RESTAURANT (OPERATOR VIEW)
// --------------------------------------------------
func (r *PostgresRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]Promotion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+promotionColumns+`
		FROM promotions
		WHERE restaurant_id = $1
		ORDER BY created_at DESC
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promos []Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		promos = append(promos, *p)
	}
	return promos, rows.Err()
}

// --------------------------------------------------
// SNAPSHOT FOR A PRICING RUN
// --------------------------------------------------
func (r *PostgresRepository) ListActiveForRestaurants(
	ctx context.Context,
	restaurantIDs []string,
) (map[string][]Promotion, error) {

	byRestaurant := make(map[string][]Promotion, len(restaurantIDs))
	if len(restaurantIDs) == 0 {
		return byRestaurant, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+promotionColumns+`
		FROM promotions
		WHERE restaurant_id = ANY($1)
		ORDER BY restaurant_id, id
	`, restaurantIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		byRestaurant[p.RestaurantID] = append(byRestaurant[p.RestaurantID], *p)
	}
	return byRestaurant, rows.Err()
}

func marshalTerms(p *Promotion) ([]byte, error) {
	return json.Marshal(terms{Percent: p.Percent, Tiered: p.Tiered, Bogo: p.Bogo})
}

func scanPromotion(row pgx.Row) (*Promotion, error) {
	var (
		p        Promotion
		termsRaw []byte
	)
	if err := row.Scan(
		&p.ID,
		&p.RestaurantID,
		&p.Name,
		&p.Variant,
		&p.Applicability,
		&p.Status,
		&p.StartDate,
		&p.EndDate,
		&p.Stackable,
		&p.Priority,
		&p.AbsorbedBy,
		&p.MinOrderPence,
		&termsRaw,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var t terms
	if err := json.Unmarshal(termsRaw, &t); err != nil {
		return nil, err
	}
	p.Percent, p.Tiered, p.Bogo = t.Percent, t.Tiered, t.Bogo
	return &p, nil
}
