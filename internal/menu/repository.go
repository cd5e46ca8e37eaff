package menu

import "context"

// Repository defines all database operations for the menu catalog.
type Repository interface {

	// List all available items for a restaurant, for the public menu page.
	ListByRestaurant(ctx context.Context, restaurantID string) ([]Item, error)

	// Load the items a pricing run needs, by id. Items missing from the
	// result simply do not exist; the engine turns that into a rejection.
	GetByIDs(ctx context.Context, ids []string) ([]Item, error)

	// MissingItems returns which of the given ids are NOT sold by the
	// restaurant. Promotion setup uses this to reject configuration that
	// references foreign or deleted items.
	MissingItems(ctx context.Context, restaurantID string, ids []string) ([]string, error)
}
