package core

import "context"

// RestaurantReader is the slice of the restaurant domain other packages are
// allowed to see.
type RestaurantReader interface {
	IsOwner(ctx context.Context, restaurantID, userID string) (bool, error)
}

// MenuReader lets promotion setup verify its targets against the catalog
// without importing the menu package wholesale.
type MenuReader interface {
	MissingItems(ctx context.Context, restaurantID string, ids []string) ([]string, error)
}
