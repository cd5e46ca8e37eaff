package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	result       PromoCodeResult
	err          error
	seenSubtotal int64
}

func (s *stubValidator) Validate(_ context.Context, _ string, subtotalPence int64) (PromoCodeResult, error) {
	s.seenSubtotal = subtotalPence
	return s.result, s.err
}

func groupWithDiscount(subtotal, discount int64) ([]RestaurantOrderGroup, []*ResolvedDiscounts) {
	group := RestaurantOrderGroup{
		RestaurantID:  "r1",
		SubtotalPence: subtotal,
		Lines: []ComposedLine{{
			Selection:  MenuItemSelection{MenuItemID: "i1", RestaurantID: "r1", UnitPence: subtotal, Quantity: 1},
			UnitPence:  subtotal,
			TotalPence: subtotal,
		}},
	}
	resolved := &ResolvedDiscounts{TotalPence: discount, LineDiscounts: []int64{discount}}
	return []RestaurantOrderGroup{group}, resolved2slice(resolved)
}

func resolved2slice(r *ResolvedDiscounts) []*ResolvedDiscounts { return []*ResolvedDiscounts{r} }

// A 10%-off code on a £100 cart already reduced to £90 by a restaurant
// promotion yields £9, not £10.
func TestPromoCodeValidatedAgainstPostDiscountSubtotal(t *testing.T) {
	validator := &stubValidator{result: PromoCodeResult{Valid: true, DiscountPence: 900}}
	agg := NewPricingAggregator(0, validator)

	groups, discounts := groupWithDiscount(10000, 1000)
	breakdown := agg.Aggregate(context.Background(), ContextCatering, groups, discounts, DeliveryBreakdown{}, "SAVE10")

	assert.Equal(t, int64(9000), validator.seenSubtotal)
	require.NotNil(t, breakdown.PromoCode)
	assert.True(t, breakdown.PromoCode.Valid)
	assert.Equal(t, int64(900), breakdown.PromoCode.DiscountPence)
	assert.Equal(t, int64(8100), breakdown.TotalPence)
}

func TestPromoCodeServiceUnreachableIsPartialState(t *testing.T) {
	validator := &stubValidator{err: errors.New("connection refused")}
	agg := NewPricingAggregator(0, validator)

	groups, discounts := groupWithDiscount(5000, 0)
	breakdown := agg.Aggregate(context.Background(), ContextCatering, groups, discounts, DeliveryBreakdown{}, "MAYBE")

	require.NotNil(t, breakdown.PromoCode)
	assert.True(t, breakdown.PromoCode.Unvalidated)
	assert.False(t, breakdown.PromoCode.Valid)
	assert.True(t, breakdown.Estimated)
	assert.Equal(t, int64(5000), breakdown.TotalPence, "unvalidated code must not discount anything")
}

func TestInvalidPromoCodeCarriesReason(t *testing.T) {
	validator := &stubValidator{result: PromoCodeResult{Valid: false, Reason: "code expired"}}
	agg := NewPricingAggregator(0, validator)

	groups, discounts := groupWithDiscount(5000, 0)
	breakdown := agg.Aggregate(context.Background(), ContextCatering, groups, discounts, DeliveryBreakdown{}, "OLD")

	require.NotNil(t, breakdown.PromoCode)
	assert.False(t, breakdown.PromoCode.Valid)
	assert.Equal(t, "code expired", breakdown.PromoCode.Reason)
	assert.Equal(t, int64(5000), breakdown.TotalPence)
}

func TestServiceChargeOnPostDiscountGoods(t *testing.T) {
	agg := NewPricingAggregator(5, nil)

	groups, discounts := groupWithDiscount(10000, 2000)
	breakdown := agg.Aggregate(context.Background(), ContextCatering, groups, discounts, DeliveryBreakdown{TotalPence: 1500}, "")

	assert.Equal(t, int64(400), breakdown.ServiceChargePence)
	assert.Equal(t, int64(9900), breakdown.TotalPence)
}

func TestFinalTotalClampedAtZero(t *testing.T) {
	validator := &stubValidator{result: PromoCodeResult{Valid: true, DiscountPence: 99999}}
	agg := NewPricingAggregator(0, validator)

	groups, discounts := groupWithDiscount(1000, 1000)
	breakdown := agg.Aggregate(context.Background(), ContextCatering, groups, discounts, DeliveryBreakdown{}, "HUGE")

	assert.GreaterOrEqual(t, breakdown.TotalPence, int64(0))
	assert.Equal(t, int64(0), breakdown.TotalPence)
}

// Conservation: restaurant customer totals always sum to the order subtotal.
func TestGroupSubtotalsSumToOrderSubtotal(t *testing.T) {
	agg := NewPricingAggregator(5, nil)

	groups := []RestaurantOrderGroup{
		{RestaurantID: "r1", SubtotalPence: 3725},
		{RestaurantID: "r2", SubtotalPence: 6180},
		{RestaurantID: "r3", SubtotalPence: 99},
	}
	discounts := []*ResolvedDiscounts{{}, {}, {}}

	breakdown := agg.Aggregate(context.Background(), ContextCatering, groups, discounts, DeliveryBreakdown{}, "")

	var sum int64
	for _, g := range breakdown.Groups {
		sum += g.SubtotalPence
	}
	assert.Equal(t, breakdown.SubtotalPence, sum)
	assert.Equal(t, int64(10004), sum)
}
