package pricing

import (
	"context"
	"time"

	"swiftfood/internal/promotion"
)

// Snapshot carries every piece of data a pricing run reads: the menu
// catalog, each restaurant's promotions and commission rate, and the instant
// the run is evaluated at. The caller loads it before invoking the engine;
// the engine itself performs no data fetches and holds no state between
// runs, so concurrent requests need no coordination.
type Snapshot struct {
	Now             time.Time
	Catalog         Catalog
	Promotions      map[string][]promotion.Promotion // keyed by restaurant id
	CommissionRates map[string]float64               // keyed by restaurant id, percent
}

// Engine runs the full pipeline: compose → resolve promotions per
// restaurant → price delivery per session → aggregate → split payouts.
//
// The same pipeline produces both the provisional customer quote and the
// authoritative commit-time numbers; the commit path recomputes from current
// promotion state and rejects a stale client total via VerifyQuotedTotal.
type Engine struct {
	composer   *OrderComposer
	resolver   *PromotionResolver
	delivery   *DeliveryFeeCalculator
	aggregator *PricingAggregator
	splitter   *PayoutSplitter
}

func NewEngine(delivery *DeliveryFeeCalculator, aggregator *PricingAggregator) *Engine {
	return &Engine{
		composer:   NewOrderComposer(),
		resolver:   NewPromotionResolver(),
		delivery:   delivery,
		aggregator: aggregator,
		splitter:   NewPayoutSplitter(),
	}
}

// Price runs the pipeline once. Identical inputs yield identical output;
// there is nothing nondeterministic anywhere downstream of the snapshot.
func (e *Engine) Price(ctx context.Context, req *PricingRequest, snap *Snapshot) (*PricingBreakdown, []RestaurantPayout, error) {
	groups, err := e.composer.Compose(req, snap.Catalog)
	if err != nil {
		return nil, nil, err
	}

	discounts := make([]*ResolvedDiscounts, len(groups))
	for i := range groups {
		resolved, err := e.resolver.Resolve(&groups[i], snap.Promotions[groups[i].RestaurantID], req.Context, snap.Now)
		if err != nil {
			return nil, nil, err
		}
		discounts[i] = resolved
	}

	delivery := e.delivery.OrderFee(req.Sessions)

	breakdown := e.aggregator.Aggregate(ctx, req.Context, groups, discounts, delivery, req.PromoCode)

	payouts := make([]RestaurantPayout, 0, len(groups))
	for i := range groups {
		payout := e.splitter.Split(&groups[i], discounts[i], snap.CommissionRates[groups[i].RestaurantID])
		if err := CheckPayoutInvariant(&payout); err != nil {
			return nil, nil, err
		}
		payouts = append(payouts, payout)
	}

	return breakdown, payouts, nil
}

// CommitTolerancePence is how far a client-quoted total may drift from the
// authoritative recomputation before the commit is rejected. One penny
// covers rounding differences and nothing else.
const CommitTolerancePence = 1

// VerifyQuotedTotal compares a client-supplied total against the
// authoritative breakdown. A mismatch beyond the rounding tolerance is a
// *PriceChangedError: never silently resolved in either direction.
func VerifyQuotedTotal(authoritative *PricingBreakdown, quotedPence int64) error {
	diff := authoritative.TotalPence - quotedPence
	if diff < 0 {
		diff = -diff
	}
	if diff > CommitTolerancePence {
		return &PriceChangedError{
			QuotedPence:     quotedPence,
			RecomputedPence: authoritative.TotalPence,
		}
	}
	return nil
}
