package pricing

import (
	"fmt"

	"swiftfood/internal/promotion"
)

// PayoutSplitter derives each restaurant's share of an order: gross,
// commission, who absorbed which discount, and the net amount owed.
type PayoutSplitter struct{}

func NewPayoutSplitter() *PayoutSplitter {
	return &PayoutSplitter{}
}

// Split computes the payout for one restaurant group.
//
// Commission is charged on the base unit price of each item (never the
// customer's discounted price, never addons). A RESTAURANT-absorbed discount
// comes straight out of the restaurant's net; a PLATFORM-absorbed discount
// leaves the restaurant paid as if no discount existed and reduces the
// platform's own commission take instead.
func (ps *PayoutSplitter) Split(
	group *RestaurantOrderGroup,
	resolved *ResolvedDiscounts,
	commissionRate float64,
) RestaurantPayout {

	payout := RestaurantPayout{
		RestaurantID:   group.RestaurantID,
		RestaurantName: group.RestaurantName,
		GrossPence:     group.SubtotalPence,
		CommissionRate: commissionRate,
	}

	for _, line := range group.Lines {
		base := line.Selection.UnitPence
		commission := PercentOf(base*int64(line.Selection.Quantity), commissionRate)
		payout.GrossCommissionPence += commission
		payout.Lines = append(payout.Lines, PayoutLine{
			MenuItemID:      line.Selection.MenuItemID,
			Quantity:        line.Selection.Quantity,
			BaseUnitPence:   base,
			CommissionPence: commission,
		})
	}

	for _, d := range resolved.Applied {
		switch d.AbsorbedBy {
		case promotion.AbsorbedByRestaurant:
			payout.RestaurantAbsorbedPence += d.AmountPence
		default:
			payout.PlatformAbsorbedPence += d.AmountPence
		}
	}

	payout.NetCommissionPence = payout.GrossCommissionPence - payout.PlatformAbsorbedPence
	payout.NetPence = payout.GrossPence - payout.GrossCommissionPence - payout.RestaurantAbsorbedPence

	return payout
}

// CheckPayoutInvariant verifies the conservation identity that must hold for
// every restaurant on every order:
//
//	net + netCommission + platformAbsorbed == gross − restaurantAbsorbed
//
// A violation means the split lost or invented money and the order must not
// be persisted.
func CheckPayoutInvariant(p *RestaurantPayout) error {
	left := p.NetPence + p.NetCommissionPence + p.PlatformAbsorbedPence
	right := p.GrossPence - p.RestaurantAbsorbedPence
	if left != right {
		return fmt.Errorf("payout invariant broken for restaurant %s: %d != %d",
			p.RestaurantID, left, right)
	}
	return nil
}
