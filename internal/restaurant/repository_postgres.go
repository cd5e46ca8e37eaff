package restaurant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("restaurant not found")

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const restaurantColumns = `
	id, owner_id, name, city, cuisine_type,
	commission_rate, approved, created_at, updated_at
`

func scanRestaurant(row pgx.Row) (*Restaurant, error) {
	var r Restaurant
	err := row.Scan(
		&r.ID,
		&r.OwnerID,
		&r.Name,
		&r.City,
		&r.CuisineType,
		&r.CommissionRate,
		&r.Approved,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// --------------------------------------------------
// GET
// --------------------------------------------------
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Restaurant, error) {
	return scanRestaurant(r.db.QueryRow(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		WHERE id = $1
	`, id))
}

// --------------------------------------------------
// LIST APPROVED
// --------------------------------------------------
func (r *PostgresRepository) ListApproved(ctx context.Context) ([]*Restaurant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		WHERE approved
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []*Restaurant
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, rows.Err()
}

// --------------------------------------------------
// OWNERSHIP CHECK
// --------------------------------------------------
func (r *PostgresRepository) IsOwner(
	ctx context.Context,
	restaurantID, userID string,
) (bool, error) {

	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM restaurants
			WHERE id = $1 AND owner_id = $2
		)
	`, restaurantID, userID).Scan(&ok)
	return ok, err
}

// --------------------------------------------------
// COMMISSION RATES (PRICING SNAPSHOT)
// --------------------------------------------------
func (r *PostgresRepository) CommissionRates(
	ctx context.Context,
	ids []string,
) (map[string]float64, error) {

	rates := make(map[string]float64, len(ids))
	if len(ids) == 0 {
		return rates, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, commission_rate
		FROM restaurants
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   string
			rate float64
		)
		if err := rows.Scan(&id, &rate); err != nil {
			return nil, err
		}
		rates[id] = rate
	}
	return rates, rows.Err()
}

// --------------------------------------------------
// NAMES
// --------------------------------------------------
func (r *PostgresRepository) Names(
	ctx context.Context,
	ids []string,
) (map[string]string, error) {

	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, name
		FROM restaurants
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

// --------------------------------------------------
// SET COMMISSION RATE (ADMIN)
// --------------------------------------------------
func (r *PostgresRepository) SetCommissionRate(
	ctx context.Context,
	id string,
	rate float64,
) error {

	tag, err := r.db.Exec(ctx, `
		UPDATE restaurants
		SET commission_rate = $1, updated_at = NOW()
		WHERE id = $2
	`, rate, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
