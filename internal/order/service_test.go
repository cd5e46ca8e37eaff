package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swiftfood/internal/menu"
	"swiftfood/internal/messaging"
	"swiftfood/internal/pricing"
	"swiftfood/internal/promotion"
)

// --------------------------------------------------
// Stubs
// --------------------------------------------------

type stubCatalog struct{ items []menu.Item }

func (s *stubCatalog) LoadSnapshot(_ context.Context, _ []string) (*menu.Snapshot, error) {
	return menu.NewSnapshot(s.items), nil
}

type stubPromotions struct{ promos map[string][]promotion.Promotion }

func (s *stubPromotions) ActiveForRestaurants(_ context.Context, _ []string) (map[string][]promotion.Promotion, error) {
	return s.promos, nil
}

type stubDirectory struct {
	rates map[string]float64
	names map[string]string
}

func (s *stubDirectory) CommissionRates(_ context.Context, _ []string) (map[string]float64, error) {
	return s.rates, nil
}

func (s *stubDirectory) Names(_ context.Context, _ []string) (map[string]string, error) {
	return s.names, nil
}

type stubRedeemer struct{ redeemed []string }

func (s *stubRedeemer) Redeem(_ context.Context, code string) error {
	s.redeemed = append(s.redeemed, code)
	return nil
}

type memoryRepo struct {
	orders map[string]*Order
	items  map[string][]Item
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{orders: make(map[string]*Order), items: make(map[string][]Item)}
}

func (m *memoryRepo) Create(_ context.Context, o *Order, items []Item) error {
	o.CreatedAt = time.Now()
	m.orders[o.ID] = o
	m.items[o.ID] = items
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *memoryRepo) ListByCustomer(_ context.Context, customerID string) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type stubPublisher struct{ events []messaging.OrderCreatedEvent }

func (s *stubPublisher) PublishOrderCreated(_ context.Context, event messaging.OrderCreatedEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubValidator struct{ result pricing.PromoCodeResult }

func (s *stubValidator) Validate(_ context.Context, _ string, _ int64) (pricing.PromoCodeResult, error) {
	return s.result, nil
}

// --------------------------------------------------
// Fixtures
// --------------------------------------------------

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testItems() []menu.Item {
	return []menu.Item{
		{
			ID:           "i1",
			RestaurantID: "r1",
			Name:         "Lamb Biryani Tray",
			Category:     "mains",
			PricePence:   2500,
			FeedsPerUnit: 5,
			Available:    true,
			Addons: []menu.AddonGroup{
				{Title: "Extras", Options: []menu.AddonOption{
					{Name: "Raita", PricePence: 300},
				}},
			},
		},
		{
			ID:           "i2",
			RestaurantID: "r1",
			Name:         "Samosa Platter",
			Category:     "starters",
			PricePence:   1200,
			Available:    true,
		},
	}
}

type fixture struct {
	svc       *Service
	repo      *memoryRepo
	redeemer  *stubRedeemer
	publisher *stubPublisher
}

func newFixture(validator pricing.PromoCodeValidator, promos map[string][]promotion.Promotion) *fixture {
	engine := pricing.NewEngine(
		pricing.NewDeliveryFeeCalculator(nil),
		pricing.NewPricingAggregator(pricing.DefaultServiceChargeRate, validator),
	)

	repo := newMemoryRepo()
	redeemer := &stubRedeemer{}
	publisher := &stubPublisher{}

	svc := NewService(
		engine,
		&stubCatalog{items: testItems()},
		&stubPromotions{promos: promos},
		&stubDirectory{
			rates: map[string]float64{"r1": 10},
			names: map[string]string{"r1": "Spice Garden"},
		},
		redeemer,
		repo,
		publisher,
	)
	svc.now = func() time.Time { return testNow }
	return &fixture{svc: svc, repo: repo, redeemer: redeemer, publisher: publisher}
}

func quoteRequest() *QuoteRequest {
	distance := 3.0
	return &QuoteRequest{
		Context: pricing.ContextCatering,
		Sessions: []SessionInput{{
			ID:            "s1",
			Date:          testNow.Add(72 * time.Hour),
			GuestCount:    20,
			DistanceMiles: &distance,
			Selections: []SelectionInput{
				{MenuItemID: "i1", Quantity: 2, Addons: []AddonInput{
					{GroupTitle: "Extras", Name: "Raita", Quantity: 1},
				}},
				{MenuItemID: "i2", Quantity: 1},
			},
		}},
	}
}

// --------------------------------------------------
// Tests
// --------------------------------------------------

func TestQuoteHydratesPricesFromCatalog(t *testing.T) {
	f := newFixture(nil, nil)

	breakdown, err := f.svc.Quote(context.Background(), quoteRequest())
	require.NoError(t, err)

	// 2×2500 + 300 addon + 1200 = 6500 goods
	assert.Equal(t, int64(6500), breakdown.SubtotalPence)
	// 3.0 miles lands in the 2–4 mile tier
	assert.Equal(t, int64(1500), breakdown.Delivery.TotalPence)
	// 5% service charge on 6500 = 325
	assert.Equal(t, int64(325), breakdown.ServiceChargePence)
	assert.Equal(t, int64(6500+1500+325), breakdown.TotalPence)

	require.Len(t, breakdown.Groups, 1)
	assert.Equal(t, "Spice Garden", breakdown.Groups[0].RestaurantName)
}

func TestQuoteRejectsUnknownItem(t *testing.T) {
	f := newFixture(nil, nil)

	req := quoteRequest()
	req.Sessions[0].Selections[0].MenuItemID = "ghost"

	_, err := f.svc.Quote(context.Background(), req)
	var notFound *pricing.LineItemNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.MenuItemID)
}

func TestQuoteRejectsUnavailableItem(t *testing.T) {
	f := newFixture(nil, nil)
	items := testItems()
	items[1].Available = false
	f.svc.menus = &stubCatalog{items: items}

	_, err := f.svc.Quote(context.Background(), quoteRequest())
	assert.ErrorContains(t, err, "not available")
}

func TestQuoteRejectsUnknownAddon(t *testing.T) {
	f := newFixture(nil, nil)

	req := quoteRequest()
	req.Sessions[0].Selections[0].Addons[0].Name = "Gold Leaf"

	_, err := f.svc.Quote(context.Background(), req)
	assert.ErrorContains(t, err, "no addon")
}

func TestCommitPersistsAndPublishes(t *testing.T) {
	f := newFixture(nil, nil)

	o, err := f.svc.Commit(context.Background(), "cust-1", &CommitRequest{
		QuoteRequest:     *quoteRequest(),
		QuotedTotalPence: 8325,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, o.Status)
	assert.Equal(t, int64(8325), o.TotalPence)
	assert.Contains(t, f.repo.orders, o.ID)
	assert.Len(t, f.repo.items[o.ID], 2)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, o.ID, event.OrderID)
	assert.Equal(t, []string{"r1"}, event.RestaurantIDs)
	assert.Equal(t, int64(8325), event.TotalPence)

	// The event is self-contained: consumers get the committed breakdown.
	require.NotNil(t, event.Breakdown)
	assert.Equal(t, int64(6500), event.Breakdown.SubtotalPence)
	assert.Equal(t, o.TotalPence, event.Breakdown.TotalPence)
}

func TestCommitRejectsStaleQuote(t *testing.T) {
	f := newFixture(nil, nil)

	_, err := f.svc.Commit(context.Background(), "cust-1", &CommitRequest{
		QuoteRequest:     *quoteRequest(),
		QuotedTotalPence: 7000,
	})

	var changed *pricing.PriceChangedError
	require.ErrorAs(t, err, &changed)
	assert.Equal(t, int64(7000), changed.QuotedPence)
	assert.Equal(t, int64(8325), changed.RecomputedPence)
	assert.Empty(t, f.repo.orders)
	assert.Empty(t, f.publisher.events)
}

func TestCommitToleratesOnePennyDrift(t *testing.T) {
	f := newFixture(nil, nil)

	_, err := f.svc.Commit(context.Background(), "cust-1", &CommitRequest{
		QuoteRequest:     *quoteRequest(),
		QuotedTotalPence: 8324,
	})
	assert.NoError(t, err)
}

func TestCommitRedeemsValidatedPromoCode(t *testing.T) {
	f := newFixture(&stubValidator{result: pricing.PromoCodeResult{Valid: true, DiscountPence: 500}}, nil)

	req := quoteRequest()
	req.PromoCode = "SAVE5"

	// goods after code: 6500 − 500 = 6000; service charge 300; delivery 1500
	o, err := f.svc.Commit(context.Background(), "cust-1", &CommitRequest{
		QuoteRequest:     *req,
		QuotedTotalPence: 7800,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7800), o.TotalPence)
	assert.Equal(t, []string{"SAVE5"}, f.redeemer.redeemed)
}

func TestCommitSkipsRedemptionForInvalidCode(t *testing.T) {
	f := newFixture(&stubValidator{result: pricing.PromoCodeResult{Reason: "expired"}}, nil)

	req := quoteRequest()
	req.PromoCode = "OLD"

	_, err := f.svc.Commit(context.Background(), "cust-1", &CommitRequest{
		QuoteRequest:     *req,
		QuotedTotalPence: 8325,
	})
	require.NoError(t, err)
	assert.Empty(t, f.redeemer.redeemed)
}

func TestCommitAppliesActivePromotion(t *testing.T) {
	promos := map[string][]promotion.Promotion{
		"r1": {{
			ID:            "p1",
			RestaurantID:  "r1",
			Name:          "10% off everything",
			Variant:       promotion.RestaurantWide,
			Applicability: promotion.ApplicabilityBoth,
			Status:        promotion.StatusActive,
			StartDate:     testNow.Add(-24 * time.Hour),
			EndDate:       testNow.Add(24 * time.Hour),
			AbsorbedBy:    promotion.AbsorbedByRestaurant,
			Percent:       &promotion.PercentTerms{DiscountPercent: 10},
		}},
	}
	f := newFixture(nil, promos)

	breakdown, err := f.svc.Quote(context.Background(), quoteRequest())
	require.NoError(t, err)

	// 10% of 6500 = 650; service charge on 5850 = 293 (rounded)
	assert.Equal(t, int64(650), breakdown.RestaurantDiscountPence)
	assert.Equal(t, int64(293), breakdown.ServiceChargePence)
	assert.Equal(t, int64(5850+1500+293), breakdown.TotalPence)
}

func fullDiscountPromos() map[string][]promotion.Promotion {
	return map[string][]promotion.Promotion{
		"r1": {{
			ID:            "p-free",
			RestaurantID:  "r1",
			Name:          "everything on the house",
			Variant:       promotion.RestaurantWide,
			Applicability: promotion.ApplicabilityBoth,
			Status:        promotion.StatusActive,
			StartDate:     testNow.Add(-24 * time.Hour),
			EndDate:       testNow.Add(24 * time.Hour),
			AbsorbedBy:    promotion.AbsorbedByRestaurant,
			Percent:       &promotion.PercentTerms{DiscountPercent: 100},
		}},
	}
}

// A fully discounted order has a genuine zero total and must still commit.
func TestCommitFullyDiscountedZeroTotal(t *testing.T) {
	f := newFixture(nil, fullDiscountPromos())

	req := quoteRequest()
	req.Sessions[0].DistanceMiles = nil // no delivery fee priced yet

	o, err := f.svc.Commit(context.Background(), "cust-1", &CommitRequest{
		QuoteRequest:     *req,
		QuotedTotalPence: 0,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), o.TotalPence)
	assert.Equal(t, int64(6500), o.DiscountPence)
	assert.True(t, o.Breakdown.Estimated) // delivery still pending
	assert.Contains(t, f.repo.orders, o.ID)
}

func TestCommitRejectsNegativeQuotedTotal(t *testing.T) {
	f := newFixture(nil, nil)

	_, err := f.svc.Commit(context.Background(), "cust-1", &CommitRequest{
		QuoteRequest:     *quoteRequest(),
		QuotedTotalPence: -1,
	})
	assert.ErrorContains(t, err, "negative")
	assert.Empty(t, f.repo.orders)
}

func TestGetForCustomerScopesOwnership(t *testing.T) {
	f := newFixture(nil, nil)

	o, err := f.svc.Commit(context.Background(), "cust-1", &CommitRequest{
		QuoteRequest:     *quoteRequest(),
		QuotedTotalPence: 8325,
	})
	require.NoError(t, err)

	got, err := f.svc.GetForCustomer(context.Background(), "cust-1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = f.svc.GetForCustomer(context.Background(), "cust-2", o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmptyOrderRejected(t *testing.T) {
	f := newFixture(nil, nil)

	_, err := f.svc.Quote(context.Background(), &QuoteRequest{
		Context:  pricing.ContextCatering,
		Sessions: []SessionInput{{ID: "s1", Date: testNow}},
	})
	assert.ErrorIs(t, err, pricing.ErrEmptyOrder)
}
