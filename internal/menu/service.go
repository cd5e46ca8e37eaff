package menu

import (
	"context"
	"fmt"

	"swiftfood/internal/pricing"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// --------------------------------------------------
// PUBLIC MENU LISTING
// --------------------------------------------------

// MenuEntry is the customer-facing shape of an item, with display strings
// precomputed so the frontend does no money math.
type MenuEntry struct {
	Item
	DisplayPrice string `json:"display_price"`
	ServesLabel  string `json:"serves_label,omitempty"`
}

func (s *Service) ListMenu(ctx context.Context, restaurantID string) ([]MenuEntry, error) {
	items, err := s.repo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}

	entries := make([]MenuEntry, 0, len(items))
	for _, item := range items {
		price := item.PricePence
		if item.IsDiscounted && item.DiscountedPricePence > 0 {
			price = item.DiscountedPricePence
		}

		entry := MenuEntry{Item: item, DisplayPrice: pricing.FormatGBP(price)}
		if item.FeedsPerUnit > 0 {
			entry.ServesLabel = fmt.Sprintf("serves %d people", item.FeedsPerUnit)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// --------------------------------------------------
// CATALOG SNAPSHOT FOR PRICING
// --------------------------------------------------

// LoadSnapshot freezes the catalog rows a pricing run will read. The engine
// itself never touches the database; this is the caller-side fetch the
// engine's contract requires.
func (s *Service) LoadSnapshot(ctx context.Context, itemIDs []string) (*Snapshot, error) {
	items, err := s.repo.GetByIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("load catalog snapshot: %w", err)
	}
	return NewSnapshot(items), nil
}
