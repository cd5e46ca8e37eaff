package pricing

import "context"

// PromoCodeResult is the answer from the promo-code collaborator.
type PromoCodeResult struct {
	Valid         bool
	DiscountPence int64
	Reason        string
}

// PromoCodeValidator is the consumed interface to the promo-code service.
// The subtotal passed in is the post-restaurant-discount amount: a code
// discounts what the customer actually still pays, not the raw subtotal.
type PromoCodeValidator interface {
	Validate(ctx context.Context, code string, subtotalPence int64) (PromoCodeResult, error)
}

// PricingAggregator combines composed groups, resolved discounts, delivery
// fees, the service charge and an optional promo code into the final
// customer-facing totals.
type PricingAggregator struct {
	serviceChargeRate float64
	promoCodes        PromoCodeValidator
}

// DefaultServiceChargeRate is the platform service charge, as a percentage
// of the post-discount goods amount.
const DefaultServiceChargeRate = 5.0

func NewPricingAggregator(serviceChargeRate float64, promoCodes PromoCodeValidator) *PricingAggregator {
	if serviceChargeRate < 0 {
		serviceChargeRate = 0
	}
	return &PricingAggregator{
		serviceChargeRate: serviceChargeRate,
		promoCodes:        promoCodes,
	}
}

// Aggregate produces the order-level breakdown. groups and discounts are
// parallel slices from the composer and resolver.
func (a *PricingAggregator) Aggregate(
	ctx context.Context,
	orderCtx OrderContext,
	groups []RestaurantOrderGroup,
	discounts []*ResolvedDiscounts,
	delivery DeliveryBreakdown,
	promoCode string,
) *PricingBreakdown {

	breakdown := &PricingBreakdown{
		Context:  orderCtx,
		Delivery: delivery,
	}

	for i, group := range groups {
		resolved := discounts[i]
		breakdown.SubtotalPence += group.SubtotalPence
		breakdown.RestaurantDiscountPence += resolved.TotalPence
		breakdown.Groups = append(breakdown.Groups, restaurantBreakdown(&group, resolved))
	}

	afterRestaurantDiscount := breakdown.SubtotalPence - breakdown.RestaurantDiscountPence

	var promoDiscount int64
	if promoCode != "" {
		pc := a.validateCode(ctx, promoCode, afterRestaurantDiscount)
		if pc.Valid {
			promoDiscount = pc.DiscountPence
			if promoDiscount > afterRestaurantDiscount {
				promoDiscount = afterRestaurantDiscount
				pc.DiscountPence = promoDiscount
			}
		}
		breakdown.PromoCode = pc
	}

	goods := afterRestaurantDiscount - promoDiscount
	if goods < 0 {
		goods = 0
	}
	breakdown.ServiceChargePence = PercentOf(goods, a.serviceChargeRate)

	total := goods + breakdown.ServiceChargePence + breakdown.Delivery.TotalPence
	if total < 0 {
		total = 0
	}
	breakdown.TotalPence = total

	breakdown.Estimated = breakdown.Delivery.Pending ||
		breakdown.Delivery.RequiresCustomQuote ||
		(breakdown.PromoCode != nil && breakdown.PromoCode.Unvalidated)

	return breakdown
}

// validateCode consults the promo-code collaborator. An unreachable service
// is a partial state, not a failure: the quote proceeds with the code marked
// unvalidated.
func (a *PricingAggregator) validateCode(ctx context.Context, code string, subtotalPence int64) *PromoCodeBreakdown {
	if a.promoCodes == nil {
		return &PromoCodeBreakdown{Code: code, Unvalidated: true, Reason: "promo code service unavailable"}
	}

	result, err := a.promoCodes.Validate(ctx, code, subtotalPence)
	if err != nil {
		return &PromoCodeBreakdown{Code: code, Unvalidated: true, Reason: "promo code service unavailable"}
	}
	return &PromoCodeBreakdown{
		Code:          code,
		Valid:         result.Valid,
		DiscountPence: result.DiscountPence,
		Reason:        result.Reason,
	}
}

func restaurantBreakdown(group *RestaurantOrderGroup, resolved *ResolvedDiscounts) RestaurantBreakdown {
	rb := RestaurantBreakdown{
		SessionID:      group.SessionID,
		RestaurantID:   group.RestaurantID,
		RestaurantName: group.RestaurantName,
		SubtotalPence:  group.SubtotalPence,
		DiscountPence:  resolved.TotalPence,
		Discounts:      resolved.Applied,
	}
	for i, line := range group.Lines {
		rb.Lines = append(rb.Lines, LineBreakdown{
			MenuItemID:    line.Selection.MenuItemID,
			Name:          line.Selection.Name,
			Quantity:      line.Selection.Quantity,
			UnitPence:     line.UnitPence,
			AddonPence:    line.AddonPence,
			TotalPence:    line.TotalPence,
			DiscountPence: resolved.LineDiscounts[i],
			ServesLabel:   ServesLabel(line.Selection),
		})
	}
	return rb
}
