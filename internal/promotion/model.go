package promotion

import (
	"fmt"
	"time"
)

// --------------------------------------------------
// PROMOTION VARIANTS
// --------------------------------------------------

type Variant string

const (
	RestaurantWide   Variant = "RESTAURANT_WIDE"
	CategorySpecific Variant = "CATEGORY_SPECIFIC"
	ItemSpecific     Variant = "ITEM_SPECIFIC"
	BuyMoreSaveMore  Variant = "BUY_MORE_SAVE_MORE"
	Bogo             Variant = "BOGO"
)

type Applicability string

const (
	ApplicabilityCatering  Applicability = "CATERING"
	ApplicabilityCorporate Applicability = "CORPORATE"
	ApplicabilityBoth      Applicability = "BOTH"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusScheduled Status = "SCHEDULED"
	StatusExpired   Status = "EXPIRED"
)

// AbsorbedBy names the party that economically bears a discount.
type AbsorbedBy string

const (
	AbsorbedByPlatform   AbsorbedBy = "PLATFORM"
	AbsorbedByRestaurant AbsorbedBy = "RESTAURANT"
)

// --------------------------------------------------
// VARIANT TERMS (exactly one set per promotion)
// --------------------------------------------------

// PercentTerms backs RESTAURANT_WIDE, CATEGORY_SPECIFIC and ITEM_SPECIFIC.
// Categories is read only for CATEGORY_SPECIFIC, ItemIDs only for ITEM_SPECIFIC.
type PercentTerms struct {
	DiscountPercent  float64  `json:"discount_percent"`
	MaxDiscountPence *int64   `json:"max_discount_pence,omitempty"`
	Categories       []string `json:"categories,omitempty"`
	ItemIDs          []string `json:"item_ids,omitempty"`
}

// DiscountTier is one step of a BUY_MORE_SAVE_MORE ladder.
type DiscountTier struct {
	MinQuantity     int     `json:"min_quantity"`
	DiscountPercent float64 `json:"discount_percent"`
}

// TierTerms backs BUY_MORE_SAVE_MORE. When ApplyToAll is false the eligible
// quantity is restricted to lines whose category is in Categories.
type TierTerms struct {
	Tiers      []DiscountTier `json:"tiers"`
	Categories []string       `json:"categories,omitempty"`
	ApplyToAll bool           `json:"apply_to_all"`
}

// BogoTerms backs BOGO. BuyQuantity = GetQuantity = 1 is the classic
// buy-one-get-one-free.
type BogoTerms struct {
	ItemIDs     []string `json:"item_ids"`
	BuyQuantity int      `json:"buy_quantity"`
	GetQuantity int      `json:"get_quantity"`
}

// --------------------------------------------------
// PROMOTION (PERSISTED ENTITY)
// --------------------------------------------------

// Promotion is restaurant-operator configuration. The pricing engine only
// ever reads a snapshot of these; it never mutates or persists them.
type Promotion struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`

	Variant       Variant       `json:"variant"`
	Applicability Applicability `json:"applicability"`
	Status        Status        `json:"status"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	Stackable  bool       `json:"stackable"`
	Priority   int        `json:"priority"`
	AbsorbedBy AbsorbedBy `json:"absorbed_by"`

	MinOrderPence *int64 `json:"min_order_pence,omitempty"`

	// Exactly one of the following is set, matching Variant.
	Percent *PercentTerms `json:"percent_terms,omitempty"`
	Tiered  *TierTerms    `json:"tier_terms,omitempty"`
	Bogo    *BogoTerms    `json:"bogo_terms,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConfigError reports a promotion whose configuration cannot be priced.
// Configuration errors are setup-time bugs and are never absorbed at
// resolution time.
type ConfigError struct {
	PromotionID string
	Reason      string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("promotion %s misconfigured: %s", e.PromotionID, e.Reason)
}

// Validate checks the variant/terms pairing and the terms themselves.
// Both the operator-facing service and the pricing resolver call this, so a
// bad row can never be silently misapplied.
func (p *Promotion) Validate() error {
	fail := func(reason string) error {
		return &ConfigError{PromotionID: p.ID, Reason: reason}
	}

	switch p.Variant {
	case RestaurantWide, CategorySpecific, ItemSpecific:
		if p.Percent == nil || p.Tiered != nil || p.Bogo != nil {
			return fail("percent terms required for variant " + string(p.Variant))
		}
		if p.Percent.DiscountPercent <= 0 || p.Percent.DiscountPercent > 100 {
			return fail("discount percent must be in (0, 100]")
		}
		if p.Percent.MaxDiscountPence != nil && *p.Percent.MaxDiscountPence <= 0 {
			return fail("max discount must be positive when set")
		}
		if p.Variant == CategorySpecific && len(p.Percent.Categories) == 0 {
			return fail("category-specific promotion lists no categories")
		}
		if p.Variant == ItemSpecific && len(p.Percent.ItemIDs) == 0 {
			return fail("item-specific promotion lists no items")
		}

	case BuyMoreSaveMore:
		if p.Tiered == nil || p.Percent != nil || p.Bogo != nil {
			return fail("tier terms required for BUY_MORE_SAVE_MORE")
		}
		if len(p.Tiered.Tiers) == 0 {
			return fail("no discount tiers configured")
		}
		prev := 0
		for i, t := range p.Tiered.Tiers {
			if t.MinQuantity <= 0 {
				return fail("tier min quantity must be positive")
			}
			if i > 0 && t.MinQuantity <= prev {
				return fail(fmt.Sprintf("tiers not monotonic: min quantity %d follows %d", t.MinQuantity, prev))
			}
			if t.DiscountPercent <= 0 || t.DiscountPercent > 100 {
				return fail("tier discount percent must be in (0, 100]")
			}
			prev = t.MinQuantity
		}
		if !p.Tiered.ApplyToAll && len(p.Tiered.Categories) == 0 {
			return fail("tiered promotion targets no categories and does not apply to all")
		}

	case Bogo:
		if p.Bogo == nil || p.Percent != nil || p.Tiered != nil {
			return fail("bogo terms required for BOGO")
		}
		if len(p.Bogo.ItemIDs) == 0 {
			return fail("bogo promotion lists no items")
		}
		if p.Bogo.BuyQuantity <= 0 || p.Bogo.GetQuantity <= 0 {
			return fail("bogo buy and get quantities must be positive")
		}

	default:
		return fail("unknown variant " + string(p.Variant))
	}

	if !p.EndDate.After(p.StartDate) {
		return fail("end date must be after start date")
	}
	if p.AbsorbedBy != AbsorbedByPlatform && p.AbsorbedBy != AbsorbedByRestaurant {
		return fail("absorbed_by must be PLATFORM or RESTAURANT")
	}
	if p.MinOrderPence != nil && *p.MinOrderPence < 0 {
		return fail("min order amount cannot be negative")
	}
	return nil
}

// --------------------------------------------------
// CANDIDATE FILTER
// --------------------------------------------------

// EligibleAt reports whether the promotion is a candidate at the given
// instant for the given order context. Status is authoritative: a SCHEDULED
// or EXPIRED row is never a candidate regardless of its dates.
func (p *Promotion) EligibleAt(now time.Time, ctx Applicability) bool {
	if p.Status != StatusActive {
		return false
	}
	if now.Before(p.StartDate) || now.After(p.EndDate) {
		return false
	}
	if p.Applicability == ApplicabilityBoth {
		return true
	}
	return p.Applicability == ctx
}
