package pricing

import (
	"sort"
	"time"

	"swiftfood/internal/promotion"
)

// PromotionResolver decides, for one restaurant order group, which of the
// restaurant's promotions apply and how much each one takes off every line.
//
// Resolution order: at most one exclusive promotion (highest priority wins)
// is applied against the full line totals, then every stackable candidate is
// applied in ascending priority against whatever each line still costs after
// the previous discounts. The group-level discount can never exceed the
// group's pre-discount subtotal.
type PromotionResolver struct{}

func NewPromotionResolver() *PromotionResolver {
	return &PromotionResolver{}
}

// lineState tracks how much of a line's total is still discountable while
// promotions are applied one after another.
type lineState struct {
	itemID    string
	category  string
	quantity  int
	unitPence int64
	remaining int64
}

// Resolve returns the discounts for one group. A misconfigured promotion
// aborts the whole resolution with a *promotion.ConfigError rather than
// being skipped: broken configuration is a setup bug, not a runtime state.
func (r *PromotionResolver) Resolve(
	group *RestaurantOrderGroup,
	promos []promotion.Promotion,
	orderCtx OrderContext,
	now time.Time,
) (*ResolvedDiscounts, error) {

	resolved := &ResolvedDiscounts{
		LineDiscounts: make([]int64, len(group.Lines)),
	}

	var candidates []promotion.Promotion
	for _, p := range promos {
		if !p.EligibleAt(now, promotion.Applicability(orderCtx)) {
			continue
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if p.MinOrderPence != nil && group.SubtotalPence < *p.MinOrderPence {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return resolved, nil
	}

	var exclusive, stackable []promotion.Promotion
	for _, p := range candidates {
		if p.Stackable {
			stackable = append(stackable, p)
		} else {
			exclusive = append(exclusive, p)
		}
	}

	states := make([]*lineState, len(group.Lines))
	for i, line := range group.Lines {
		states[i] = &lineState{
			itemID:    line.Selection.MenuItemID,
			category:  line.Selection.Category,
			quantity:  line.Selection.Quantity,
			unitPence: line.UnitPence,
			remaining: line.TotalPence,
		}
	}

	apply := func(p promotion.Promotion) {
		perLine := computeDiscount(&p, states)
		var total int64
		for i, d := range perLine {
			states[i].remaining -= d
			resolved.LineDiscounts[i] += d
			total += d
		}
		if total == 0 {
			return
		}
		resolved.TotalPence += total
		resolved.Applied = append(resolved.Applied, AppliedDiscount{
			PromotionID: p.ID,
			Name:        p.Name,
			Variant:     p.Variant,
			AmountPence: total,
			Stackable:   p.Stackable,
			AbsorbedBy:  p.AbsorbedBy,
		})
	}

	if len(exclusive) > 0 {
		apply(pickExclusive(exclusive))
	}

	// Ascending priority, id as the final tie-break for determinism.
	sort.SliceStable(stackable, func(i, j int) bool {
		if stackable[i].Priority != stackable[j].Priority {
			return stackable[i].Priority < stackable[j].Priority
		}
		return stackable[i].ID < stackable[j].ID
	})
	for _, p := range stackable {
		apply(p)
	}

	if resolved.TotalPence > group.SubtotalPence {
		// remaining floors at zero per line, so this cannot trip; kept as a
		// hard guarantee for the subtotal invariant.
		resolved.TotalPence = group.SubtotalPence
	}
	return resolved, nil
}

// pickExclusive selects the single exclusive promotion to apply: highest
// priority, then earliest start date, then lowest id.
func pickExclusive(promos []promotion.Promotion) promotion.Promotion {
	best := promos[0]
	for _, p := range promos[1:] {
		switch {
		case p.Priority != best.Priority:
			if p.Priority > best.Priority {
				best = p
			}
		case !p.StartDate.Equal(best.StartDate):
			if p.StartDate.Before(best.StartDate) {
				best = p
			}
		case p.ID < best.ID:
			best = p
		}
	}
	return best
}

// computeDiscount returns the per-line discount a single promotion takes,
// measured against each line's remaining (post-previous-discount) amount.
// The promotion has already passed Validate.
func computeDiscount(p *promotion.Promotion, states []*lineState) []int64 {
	switch p.Variant {
	case promotion.RestaurantWide, promotion.CategorySpecific, promotion.ItemSpecific:
		return percentDiscount(p, states)
	case promotion.BuyMoreSaveMore:
		return tierDiscount(p.Tiered, states)
	case promotion.Bogo:
		return bogoDiscount(p.Bogo, states)
	}
	return make([]int64, len(states))
}

func percentDiscount(p *promotion.Promotion, states []*lineState) []int64 {
	terms := p.Percent
	eligible := func(s *lineState) bool { return true }
	switch p.Variant {
	case promotion.CategorySpecific:
		set := stringSet(terms.Categories)
		eligible = func(s *lineState) bool { return set[s.category] }
	case promotion.ItemSpecific:
		set := stringSet(terms.ItemIDs)
		eligible = func(s *lineState) bool { return set[s.itemID] }
	}

	raw := make([]int64, len(states))
	for i, s := range states {
		if eligible(s) {
			raw[i] = PercentOf(s.remaining, terms.DiscountPercent)
		}
	}

	if terms.MaxDiscountPence != nil {
		// The cap clamps the group-level sum; the line detail is scaled back
		// proportionally so it still adds up exactly.
		raw = capProportionally(raw, *terms.MaxDiscountPence)
	}
	return clampToRemaining(raw, states)
}

func tierDiscount(terms *promotion.TierTerms, states []*lineState) []int64 {
	eligible := func(s *lineState) bool { return true }
	if !terms.ApplyToAll {
		set := stringSet(terms.Categories)
		eligible = func(s *lineState) bool { return set[s.category] }
	}

	qty := 0
	for _, s := range states {
		if eligible(s) {
			qty += s.quantity
		}
	}

	// Tiers are validated ascending; take the largest threshold the eligible
	// quantity meets. A quantity below every threshold earns nothing.
	pct := 0.0
	for _, tier := range terms.Tiers {
		if qty >= tier.MinQuantity {
			pct = tier.DiscountPercent
		}
	}

	raw := make([]int64, len(states))
	if pct == 0 {
		return raw
	}
	for i, s := range states {
		if eligible(s) {
			raw[i] = PercentOf(s.remaining, pct)
		}
	}
	return clampToRemaining(raw, states)
}

// bogoDiscount frees getQuantity units for every buyQuantity+getQuantity
// eligible units in the cart, valuing free units cheapest-first so the
// outcome is deterministic and the discount is never the most expensive
// eligible item.
func bogoDiscount(terms *promotion.BogoTerms, states []*lineState) []int64 {
	raw := make([]int64, len(states))
	set := stringSet(terms.ItemIDs)

	type slot struct {
		idx   int
		units int
	}
	var slots []slot
	total := 0
	for i, s := range states {
		if set[s.itemID] {
			slots = append(slots, slot{idx: i, units: s.quantity})
			total += s.quantity
		}
	}

	groupSize := terms.BuyQuantity + terms.GetQuantity
	free := total / groupSize * terms.GetQuantity
	if free == 0 {
		return raw
	}

	sort.SliceStable(slots, func(i, j int) bool {
		a, b := states[slots[i].idx], states[slots[j].idx]
		if a.unitPence != b.unitPence {
			return a.unitPence < b.unitPence
		}
		return a.itemID < b.itemID
	})

	for _, sl := range slots {
		if free == 0 {
			break
		}
		n := sl.units
		if n > free {
			n = free
		}
		raw[sl.idx] = int64(n) * states[sl.idx].unitPence
		free -= n
	}
	return clampToRemaining(raw, states)
}

// clampToRemaining floors every line at zero so stacked promotions can never
// push a line's running total negative.
func clampToRemaining(raw []int64, states []*lineState) []int64 {
	for i, s := range states {
		if raw[i] > s.remaining {
			raw[i] = s.remaining
		}
	}
	return raw
}

func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
