package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func miles(m float64) *float64 { return &m }

func TestSessionFeeTiers(t *testing.T) {
	calc := NewDeliveryFeeCalculator(nil)

	cases := []struct {
		distance float64
		fee      int64
		custom   bool
	}{
		{0.5, 1000, false},
		{2.0, 1000, false},
		{2.1, 1500, false},
		{4.0, 1500, false},
		{5.9, 2000, false},
		{6.0, 2000, false}, // ceiling is inclusive
		{6.1, 2000, true},  // one step beyond needs a manual quote
		{15.0, 2000, true},
	}
	for _, tc := range cases {
		fee := calc.SessionFee("s1", miles(tc.distance))
		assert.Equalf(t, tc.fee, fee.FeePence, "distance %.1f", tc.distance)
		assert.Equalf(t, tc.custom, fee.RequiresCustomQuote, "distance %.1f", tc.distance)
		assert.False(t, fee.Pending)
	}
}

func TestSessionFeePendingWithoutDistance(t *testing.T) {
	calc := NewDeliveryFeeCalculator(nil)
	fee := calc.SessionFee("s1", nil)

	assert.True(t, fee.Pending)
	assert.Equal(t, int64(0), fee.FeePence)
	assert.False(t, fee.RequiresCustomQuote)
}

func TestOrderFeeSumsSessions(t *testing.T) {
	calc := NewDeliveryFeeCalculator(nil)
	breakdown := calc.OrderFee([]MealSession{
		{ID: "s1", DistanceMiles: miles(1)},
		{ID: "s2", DistanceMiles: miles(3)},
		{ID: "s3", DistanceMiles: miles(7)},
	})

	assert.Equal(t, int64(4500), breakdown.TotalPence)
	assert.True(t, breakdown.RequiresCustomQuote)
	assert.False(t, breakdown.Pending)
	assert.Len(t, breakdown.Sessions, 3)
}

func TestOrderFeePendingPropagates(t *testing.T) {
	calc := NewDeliveryFeeCalculator(nil)
	breakdown := calc.OrderFee([]MealSession{
		{ID: "s1", DistanceMiles: miles(1)},
		{ID: "s2"},
	})

	assert.True(t, breakdown.Pending)
	assert.Equal(t, int64(1000), breakdown.TotalPence)
}
