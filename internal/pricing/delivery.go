package pricing

// DistanceTier prices deliveries up to MaxMiles (inclusive).
type DistanceTier struct {
	MaxMiles float64
	FeePence int64
}

// DeliveryFeeCalculator computes per-session delivery fees from a
// distance-tiered schedule. Beyond the final tier the fee becomes a
// provisional estimate flagged for manual operator pricing; an unresolved
// distance yields an explicit pending state, never a silent zero.
type DeliveryFeeCalculator struct {
	tiers []DistanceTier
}

// defaultTiers is the standard schedule: the 6-mile ceiling is the automatic
// pricing limit, inclusive.
var defaultTiers = []DistanceTier{
	{MaxMiles: 2, FeePence: 1000},
	{MaxMiles: 4, FeePence: 1500},
	{MaxMiles: 6, FeePence: 2000},
}

func NewDeliveryFeeCalculator(tiers []DistanceTier) *DeliveryFeeCalculator {
	if len(tiers) == 0 {
		tiers = defaultTiers
	}
	return &DeliveryFeeCalculator{tiers: tiers}
}

// SessionFee prices one session. A nil distance means the address is not
// resolved yet.
func (d *DeliveryFeeCalculator) SessionFee(sessionID string, distanceMiles *float64) SessionDeliveryFee {
	if distanceMiles == nil {
		return SessionDeliveryFee{SessionID: sessionID, Pending: true}
	}

	miles := *distanceMiles
	for _, tier := range d.tiers {
		if miles <= tier.MaxMiles {
			return SessionDeliveryFee{
				SessionID:     sessionID,
				DistanceMiles: miles,
				FeePence:      tier.FeePence,
			}
		}
	}

	// Past the ceiling: return the top tier as a provisional estimate and
	// flag the session for a manual quote.
	last := d.tiers[len(d.tiers)-1]
	return SessionDeliveryFee{
		SessionID:           sessionID,
		DistanceMiles:       miles,
		FeePence:            last.FeePence,
		RequiresCustomQuote: true,
	}
}

// OrderFee prices every session independently and sums them. Pending and
// custom-quote flags propagate to the order level so the caller can render
// an honest estimate.
func (d *DeliveryFeeCalculator) OrderFee(sessions []MealSession) DeliveryBreakdown {
	breakdown := DeliveryBreakdown{}
	for _, s := range sessions {
		fee := d.SessionFee(s.ID, s.DistanceMiles)
		breakdown.Sessions = append(breakdown.Sessions, fee)
		breakdown.TotalPence += fee.FeePence
		breakdown.RequiresCustomQuote = breakdown.RequiresCustomQuote || fee.RequiresCustomQuote
		breakdown.Pending = breakdown.Pending || fee.Pending
	}
	return breakdown
}
