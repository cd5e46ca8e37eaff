package menu

import "time"

// Item is one sellable catering portion. Prices are pence. CateringUnit and
// FeedsPerUnit drive "serves N people" labels only; pricing never multiplies
// by them.
type Item struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`

	Name     string `json:"name"`
	Category string `json:"category"`

	PricePence           int64 `json:"price_pence"`
	DiscountedPricePence int64 `json:"discounted_price_pence,omitempty"`
	IsDiscounted         bool  `json:"is_discounted"`

	CateringUnit int `json:"catering_unit,omitempty"` // items per portion
	FeedsPerUnit int `json:"feeds_per_unit,omitempty"`

	Addons []AddonGroup `json:"addons,omitempty"`

	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddonGroup is one titled set of optional extras for an item.
type AddonGroup struct {
	Title   string        `json:"title"`
	Options []AddonOption `json:"options"`
}

type AddonOption struct {
	Name       string `json:"name"`
	PricePence int64  `json:"price_pence"`
}

// Snapshot is a read-only view of the catalog frozen for one pricing run.
// It satisfies the pricing engine's Catalog interface.
type Snapshot struct {
	items map[string]Item
}

func NewSnapshot(items []Item) *Snapshot {
	m := make(map[string]Item, len(items))
	for _, item := range items {
		m[item.ID] = item
	}
	return &Snapshot{items: m}
}

func (s *Snapshot) HasItem(id string) bool {
	_, ok := s.items[id]
	return ok
}

func (s *Snapshot) Get(id string) (Item, bool) {
	item, ok := s.items[id]
	return item, ok
}
