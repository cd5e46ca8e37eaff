package order

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"swiftfood/internal/menu"
	"swiftfood/internal/messaging"
	"swiftfood/internal/pricing"
	"swiftfood/internal/promotion"
)

// CatalogLoader freezes the menu rows a pricing run reads.
type CatalogLoader interface {
	LoadSnapshot(ctx context.Context, itemIDs []string) (*menu.Snapshot, error)
}

// PromotionSource loads the promotion rows for the restaurants in the cart.
type PromotionSource interface {
	ActiveForRestaurants(ctx context.Context, restaurantIDs []string) (map[string][]promotion.Promotion, error)
}

// RestaurantDirectory supplies rates and display names for the snapshot.
type RestaurantDirectory interface {
	CommissionRates(ctx context.Context, ids []string) (map[string]float64, error)
	Names(ctx context.Context, ids []string) (map[string]string, error)
}

// PromoCodeRedeemer burns one use of a code at commit.
type PromoCodeRedeemer interface {
	Redeem(ctx context.Context, code string) error
}

// EventPublisher announces committed orders.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event messaging.OrderCreatedEvent) error
}

// Service prices quotes and commits orders. Quote and Commit run the same
// pipeline; Commit additionally verifies the customer-accepted total,
// persists, redeems the promo code and publishes the created event.
type Service struct {
	engine      *pricing.Engine
	menus       CatalogLoader
	promotions  PromotionSource
	restaurants RestaurantDirectory
	promoCodes  PromoCodeRedeemer
	repo        Repository
	publisher   EventPublisher
	now         func() time.Time
}

func NewService(
	engine *pricing.Engine,
	menus CatalogLoader,
	promotions PromotionSource,
	restaurants RestaurantDirectory,
	promoCodes PromoCodeRedeemer,
	repo Repository,
	publisher EventPublisher,
) *Service {
	return &Service{
		engine:      engine,
		menus:       menus,
		promotions:  promotions,
		restaurants: restaurants,
		promoCodes:  promoCodes,
		repo:        repo,
		publisher:   publisher,
		now:         time.Now,
	}
}

// Quote prices a cart without committing anything.
func (s *Service) Quote(ctx context.Context, req *QuoteRequest) (*pricing.PricingBreakdown, error) {
	breakdown, _, err := s.price(ctx, req)
	return breakdown, err
}

// Commit re-prices the cart against current data, verifies the total the
// customer accepted and persists the order. A drift beyond the rounding
// tolerance aborts with *pricing.PriceChangedError so the client can
// re-quote.
func (s *Service) Commit(ctx context.Context, customerID string, req *CommitRequest) (*Order, error) {
	if req.QuotedTotalPence < 0 {
		return nil, fmt.Errorf("quoted total cannot be negative")
	}

	breakdown, payouts, err := s.price(ctx, &req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	if err := pricing.VerifyQuotedTotal(breakdown, req.QuotedTotalPence); err != nil {
		return nil, err
	}

	o := &Order{
		ID:                  uuid.New().String(),
		CustomerID:          customerID,
		Context:             req.Context,
		Status:              StatusConfirmed,
		PromoCode:           req.PromoCode,
		SubtotalPence:       breakdown.SubtotalPence,
		DiscountPence:       breakdown.RestaurantDiscountPence,
		DeliveryFeePence:    breakdown.Delivery.TotalPence,
		ServiceChargePence:  breakdown.ServiceChargePence,
		TotalPence:          breakdown.TotalPence,
		Breakdown:           breakdown,
		Payouts:             payouts,
		SpecialInstructions: req.SpecialInstructions,
	}

	if err := s.repo.Create(ctx, o, itemsFromBreakdown(o.ID, breakdown)); err != nil {
		return nil, err
	}

	if s.shouldRedeem(breakdown) {
		if err := s.promoCodes.Redeem(ctx, req.PromoCode); err != nil {
			// The order holds the discount it was quoted with; a lost
			// usage increment is the cheaper failure.
			log.Printf("❌ Failed to redeem promo code %s for order %s: %v", req.PromoCode, o.ID, err)
		}
	}

	s.publishCreated(ctx, o)
	return o, nil
}

func (s *Service) GetForCustomer(ctx context.Context, customerID, orderID string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *Service) ListForCustomer(ctx context.Context, customerID string) ([]Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// --------------------------------------------------
// PRICING PIPELINE
// --------------------------------------------------

func (s *Service) price(ctx context.Context, req *QuoteRequest) (*pricing.PricingBreakdown, []pricing.RestaurantPayout, error) {
	itemIDs := collectItemIDs(req)
	if len(itemIDs) == 0 {
		return nil, nil, pricing.ErrEmptyOrder
	}

	snapshot, err := s.menus.LoadSnapshot(ctx, itemIDs)
	if err != nil {
		return nil, nil, err
	}

	pricingReq, restaurantIDs, err := s.hydrate(req, snapshot)
	if err != nil {
		return nil, nil, err
	}

	names, err := s.restaurants.Names(ctx, restaurantIDs)
	if err != nil {
		return nil, nil, err
	}
	for si := range pricingReq.Sessions {
		for li := range pricingReq.Sessions[si].Selections {
			sel := &pricingReq.Sessions[si].Selections[li]
			sel.RestaurantName = names[sel.RestaurantID]
		}
	}

	promos, err := s.promotions.ActiveForRestaurants(ctx, restaurantIDs)
	if err != nil {
		return nil, nil, err
	}

	rates, err := s.restaurants.CommissionRates(ctx, restaurantIDs)
	if err != nil {
		return nil, nil, err
	}

	snap := &pricing.Snapshot{
		Now:             s.now(),
		Catalog:         snapshot,
		Promotions:      promos,
		CommissionRates: rates,
	}
	return s.engine.Price(ctx, pricingReq, snap)
}

// hydrate turns the id-and-quantity request into fully priced selections.
// Prices, names and categories come from the catalog snapshot; the client
// only ever names things.
func (s *Service) hydrate(req *QuoteRequest, snapshot *menu.Snapshot) (*pricing.PricingRequest, []string, error) {
	restaurants := make(map[string]struct{})

	out := &pricing.PricingRequest{
		Context:             req.Context,
		PromoCode:           req.PromoCode,
		SpecialInstructions: req.SpecialInstructions,
	}

	for _, session := range req.Sessions {
		ms := pricing.MealSession{
			ID:            session.ID,
			Date:          session.Date,
			GuestCount:    session.GuestCount,
			DistanceMiles: session.DistanceMiles,
		}
		if ms.ID == "" {
			ms.ID = uuid.New().String()
		}

		for _, sel := range session.Selections {
			item, ok := snapshot.Get(sel.MenuItemID)
			if !ok {
				return nil, nil, &pricing.LineItemNotFoundError{MenuItemID: sel.MenuItemID}
			}
			if !item.Available {
				return nil, nil, fmt.Errorf("menu item %s is not available", sel.MenuItemID)
			}

			addons, err := resolveAddons(item, sel.Addons)
			if err != nil {
				return nil, nil, err
			}

			ms.Selections = append(ms.Selections, pricing.MenuItemSelection{
				MenuItemID:           item.ID,
				Name:                 item.Name,
				RestaurantID:         item.RestaurantID,
				Category:             item.Category,
				UnitPence:            item.PricePence,
				DiscountedUnitPence:  item.DiscountedPricePence,
				IsDiscounted:         item.IsDiscounted,
				Quantity:             sel.Quantity,
				CateringQuantityUnit: item.CateringUnit,
				FeedsPerUnit:         item.FeedsPerUnit,
				Addons:               addons,
			})
			restaurants[item.RestaurantID] = struct{}{}
		}

		out.Sessions = append(out.Sessions, ms)
	}

	ids := make([]string, 0, len(restaurants))
	for id := range restaurants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return out, ids, nil
}

// resolveAddons matches requested addons against the item's configured
// groups. An addon the item does not offer is a hard error.
func resolveAddons(item menu.Item, inputs []AddonInput) ([]pricing.SelectedAddon, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	priceOf := func(group, name string) (int64, bool) {
		for _, g := range item.Addons {
			if g.Title != group {
				continue
			}
			for _, opt := range g.Options {
				if opt.Name == name {
					return opt.PricePence, true
				}
			}
		}
		return 0, false
	}

	addons := make([]pricing.SelectedAddon, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("addon %q quantity must be positive", in.Name)
		}
		price, ok := priceOf(in.GroupTitle, in.Name)
		if !ok {
			return nil, fmt.Errorf("item %s has no addon %q in group %q", item.ID, in.Name, in.GroupTitle)
		}
		addons = append(addons, pricing.SelectedAddon{
			Name:       in.Name,
			GroupTitle: in.GroupTitle,
			UnitPence:  price,
			Quantity:   in.Quantity,
		})
	}
	return addons, nil
}

// --------------------------------------------------
// COMMIT SIDE EFFECTS
// --------------------------------------------------

// shouldRedeem is true only for a code that was positively validated. An
// unvalidated code granted no discount and must not burn a use.
func (s *Service) shouldRedeem(breakdown *pricing.PricingBreakdown) bool {
	return breakdown.PromoCode != nil &&
		breakdown.PromoCode.Valid &&
		!breakdown.PromoCode.Unvalidated
}

func (s *Service) publishCreated(ctx context.Context, o *Order) {
	if s.publisher == nil {
		return
	}

	seen := make(map[string]struct{})
	var restaurantIDs []string
	for _, g := range o.Breakdown.Groups {
		if _, ok := seen[g.RestaurantID]; ok {
			continue
		}
		seen[g.RestaurantID] = struct{}{}
		restaurantIDs = append(restaurantIDs, g.RestaurantID)
	}

	event := messaging.OrderCreatedEvent{
		OrderID:       o.ID,
		CustomerID:    o.CustomerID,
		RestaurantIDs: restaurantIDs,
		TotalPence:    o.TotalPence,
		PromoCode:     o.PromoCode,
		Breakdown:     o.Breakdown,
		CreatedAt:     o.CreatedAt,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		// The order is committed; the event is best effort.
		log.Printf("❌ Failed to publish order created event for %s: %v", o.ID, err)
	}
}

func itemsFromBreakdown(orderID string, breakdown *pricing.PricingBreakdown) []Item {
	var items []Item
	for _, g := range breakdown.Groups {
		for _, line := range g.Lines {
			items = append(items, Item{
				OrderID:       orderID,
				SessionID:     g.SessionID,
				RestaurantID:  g.RestaurantID,
				MenuItemID:    line.MenuItemID,
				Name:          line.Name,
				Quantity:      line.Quantity,
				UnitPence:     line.UnitPence,
				AddonPence:    line.AddonPence,
				TotalPence:    line.TotalPence,
				DiscountPence: line.DiscountPence,
			})
		}
	}
	return items
}

func collectItemIDs(req *QuoteRequest) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, session := range req.Sessions {
		for _, sel := range session.Selections {
			if _, ok := seen[sel.MenuItemID]; ok {
				continue
			}
			seen[sel.MenuItemID] = struct{}{}
			ids = append(ids, sel.MenuItemID)
		}
	}
	return ids
}
