package restaurant

import "context"

// Repository defines all database operations for restaurants.
type Repository interface {
	Get(ctx context.Context, id string) (*Restaurant, error)

	ListApproved(ctx context.Context) ([]*Restaurant, error)

	// IsOwner answers whether the user manages the restaurant. Promotion
	// routes use it to keep operators inside their own configuration.
	IsOwner(ctx context.Context, restaurantID, userID string) (bool, error)

	// CommissionRates returns the rate for each given restaurant, for the
	// pricing snapshot. A restaurant missing from the result is unknown.
	CommissionRates(ctx context.Context, ids []string) (map[string]float64, error)

	// Names returns display names keyed by restaurant id.
	Names(ctx context.Context, ids []string) (map[string]string, error)

	SetCommissionRate(ctx context.Context, id string, rate float64) error
}
