package pricing

import (
	"time"

	"swiftfood/internal/promotion"
)

// OrderContext selects which promotions can apply to an order.
type OrderContext string

const (
	ContextCatering  OrderContext = "CATERING"
	ContextCorporate OrderContext = "CORPORATE"
)

// --------------------------------------------------
// CART INPUT
// --------------------------------------------------

// SelectedAddon is always tied to one MenuItemSelection and is never priced
// on its own.
type SelectedAddon struct {
	Name       string `json:"name"`
	GroupTitle string `json:"group_title"`
	UnitPence  int64  `json:"unit_pence"`
	Quantity   int    `json:"quantity"`
}

// MenuItemSelection is one cart line as submitted to the engine. It is
// immutable once a pricing request starts. CateringQuantityUnit and
// FeedsPerUnit exist for "serves N people" labels only and must never
// multiply into a price.
type MenuItemSelection struct {
	MenuItemID     string `json:"menu_item_id"`
	Name           string `json:"name"`
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name,omitempty"`
	Category       string `json:"category"`

	UnitPence           int64 `json:"unit_pence"`
	DiscountedUnitPence int64 `json:"discounted_unit_pence,omitempty"`
	IsDiscounted        bool  `json:"is_discounted"`

	Quantity             int `json:"quantity"`
	CateringQuantityUnit int `json:"catering_quantity_unit,omitempty"`
	FeedsPerUnit         int `json:"feeds_per_unit,omitempty"`

	Addons []SelectedAddon `json:"addons,omitempty"`
}

// EffectiveUnitPence is the customer-facing unit price: the discounted price
// when the item is flagged discounted and the discounted price is positive,
// otherwise the base price.
func (s *MenuItemSelection) EffectiveUnitPence() int64 {
	if s.IsDiscounted && s.DiscountedUnitPence > 0 {
		return s.DiscountedUnitPence
	}
	return s.UnitPence
}

// MealSession is one delivery occasion: a date, a guest count, the
// selections for that occasion and a resolved distance. A legacy
// single-session order is the degenerate case of exactly one session.
type MealSession struct {
	ID            string              `json:"id"`
	Date          time.Time           `json:"date"`
	GuestCount    int                 `json:"guest_count"`
	DistanceMiles *float64            `json:"distance_miles,omitempty"`
	Selections    []MenuItemSelection `json:"selections"`
}

// PricingRequest is the engine's sole input besides the data snapshot.
type PricingRequest struct {
	Context   OrderContext  `json:"context"`
	Sessions  []MealSession `json:"sessions"`
	PromoCode string        `json:"promo_code,omitempty"`

	SpecialInstructions map[string]string `json:"special_instructions,omitempty"` // keyed by restaurant id
}

// --------------------------------------------------
// COMPOSED LINES (composer output)
// --------------------------------------------------

// ComposedLine is one priced cart line.
type ComposedLine struct {
	Selection  MenuItemSelection
	UnitPence  int64 // effective unit price
	AddonPence int64 // Σ addon.unit × addon.quantity, never scaled by display multipliers
	TotalPence int64 // UnitPence × quantity + AddonPence
}

// RestaurantOrderGroup holds every composed line for one restaurant within
// one session. Every selection belongs to exactly one group.
type RestaurantOrderGroup struct {
	SessionID           string
	RestaurantID        string
	RestaurantName      string
	SpecialInstructions string
	Lines               []ComposedLine
	SubtotalPence       int64
}

// --------------------------------------------------
// RESOLVED DISCOUNTS (resolver output)
// --------------------------------------------------

// AppliedDiscount records one promotion's contribution to a group.
type AppliedDiscount struct {
	PromotionID string               `json:"promotion_id"`
	Name        string               `json:"name"`
	Variant     promotion.Variant    `json:"variant"`
	AmountPence int64                `json:"amount_pence"`
	Stackable   bool                 `json:"stackable"`
	AbsorbedBy  promotion.AbsorbedBy `json:"absorbed_by"`
}

// ResolvedDiscounts is the resolver's answer for one group.
type ResolvedDiscounts struct {
	Applied       []AppliedDiscount
	LineDiscounts []int64 // aligned with the group's Lines
	TotalPence    int64
}

// --------------------------------------------------
// DELIVERY
// --------------------------------------------------

// SessionDeliveryFee is the fee decision for one session.
type SessionDeliveryFee struct {
	SessionID           string  `json:"session_id"`
	DistanceMiles       float64 `json:"distance_miles"`
	FeePence            int64   `json:"fee_pence"`
	RequiresCustomQuote bool    `json:"requires_custom_quote"`
	Pending             bool    `json:"pending"`
}

// DeliveryBreakdown sums session fees for the order. Pending means at least
// one session has no resolved distance yet, so the total is not a quote of
// zero but an explicit "not priced yet".
type DeliveryBreakdown struct {
	TotalPence          int64                `json:"total_pence"`
	RequiresCustomQuote bool                 `json:"requires_custom_quote"`
	Pending             bool                 `json:"pending"`
	Sessions            []SessionDeliveryFee `json:"sessions"`
}

// --------------------------------------------------
// BREAKDOWN (engine output)
// --------------------------------------------------

// LineBreakdown is the externally visible detail for one cart line.
type LineBreakdown struct {
	MenuItemID    string `json:"menu_item_id"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	UnitPence     int64  `json:"unit_pence"`
	AddonPence    int64  `json:"addon_pence,omitempty"`
	TotalPence    int64  `json:"total_pence"`
	DiscountPence int64  `json:"discount_pence,omitempty"`
	ServesLabel   string `json:"serves_label,omitempty"`
}

// RestaurantBreakdown reconstructs every number for one restaurant group.
type RestaurantBreakdown struct {
	SessionID      string            `json:"session_id"`
	RestaurantID   string            `json:"restaurant_id"`
	RestaurantName string            `json:"restaurant_name"`
	SubtotalPence  int64             `json:"subtotal_pence"` // customer total before discounts
	DiscountPence  int64             `json:"discount_pence"`
	Discounts      []AppliedDiscount `json:"discounts,omitempty"`
	Lines          []LineBreakdown   `json:"lines"`
}

// PromoCodeBreakdown is the order-level promo code outcome. Unvalidated is
// the partial state for an unreachable code service: the quote stays usable
// but the caller must present the discount as unconfirmed.
type PromoCodeBreakdown struct {
	Code          string `json:"code"`
	Valid         bool   `json:"valid"`
	Unvalidated   bool   `json:"unvalidated,omitempty"`
	DiscountPence int64  `json:"discount_pence"`
	Reason        string `json:"reason,omitempty"`
}

// PricingBreakdown is the engine's output: every customer-facing total plus
// the per-restaurant detail needed to reconstruct each one.
type PricingBreakdown struct {
	Context OrderContext `json:"context"`

	SubtotalPence           int64 `json:"subtotal_pence"`
	RestaurantDiscountPence int64 `json:"restaurant_discount_pence"`
	ServiceChargePence      int64 `json:"service_charge_pence"`
	TotalPence              int64 `json:"total_pence"`

	Delivery  DeliveryBreakdown     `json:"delivery"`
	PromoCode *PromoCodeBreakdown   `json:"promo_code,omitempty"`
	Estimated bool                  `json:"estimated"` // any component still provisional
	Groups    []RestaurantBreakdown `json:"groups"`
}

// --------------------------------------------------
// PAYOUT (splitter output)
// --------------------------------------------------

// PayoutLine itemizes the commission base for one cart line. Commission is
// charged on the restaurant's base unit price, never on the customer's
// discounted price, and never on addon amounts.
type PayoutLine struct {
	MenuItemID      string `json:"menu_item_id"`
	Quantity        int    `json:"quantity"`
	BaseUnitPence   int64  `json:"base_unit_pence"`
	CommissionPence int64  `json:"commission_pence"`
}

// RestaurantPayout is the per-restaurant split for one order. Derived on
// every pricing run; never persisted apart from the order it belongs to.
//
// GrossCommissionPence is the raw commission charge; NetCommissionPence is
// the platform's actual take after it has absorbed its share of discounts.
type RestaurantPayout struct {
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`

	GrossPence     int64   `json:"gross_pence"`
	CommissionRate float64 `json:"commission_rate"`

	GrossCommissionPence int64 `json:"gross_commission_pence"`
	NetCommissionPence   int64 `json:"net_commission_pence"`

	RestaurantAbsorbedPence int64 `json:"restaurant_absorbed_pence"`
	PlatformAbsorbedPence   int64 `json:"platform_absorbed_pence"`

	NetPence int64 `json:"net_pence"`

	Lines []PayoutLine `json:"lines"`
}
