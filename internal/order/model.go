package order

import (
	"time"

	"swiftfood/internal/pricing"
)

// Status of a committed order.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Order is a committed, priced order. The full breakdown is stored as it
// was at commit time: later menu or promotion edits never change it.
type Order struct {
	ID         string               `json:"id"`
	CustomerID string               `json:"customer_id"`
	Context    pricing.OrderContext `json:"context"`
	Status     Status               `json:"status"`

	PromoCode string `json:"promo_code,omitempty"`

	SubtotalPence      int64 `json:"subtotal_pence"`
	DiscountPence      int64 `json:"discount_pence"`
	DeliveryFeePence   int64 `json:"delivery_fee_pence"`
	ServiceChargePence int64 `json:"service_charge_pence"`
	TotalPence         int64 `json:"total_pence"`

	Breakdown *pricing.PricingBreakdown `json:"breakdown"`
	Payouts   []pricing.RestaurantPayout `json:"payouts"`

	SpecialInstructions map[string]string `json:"special_instructions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Item is one persisted cart line, denormalized for reporting.
type Item struct {
	OrderID      string `json:"order_id"`
	SessionID    string `json:"session_id"`
	RestaurantID string `json:"restaurant_id"`
	MenuItemID   string `json:"menu_item_id"`
	Name         string `json:"name"`

	Quantity      int   `json:"quantity"`
	UnitPence     int64 `json:"unit_pence"`
	AddonPence    int64 `json:"addon_pence"`
	TotalPence    int64 `json:"total_pence"`
	DiscountPence int64 `json:"discount_pence"`
}

// --------------------------------------------------
// REQUEST DTOS
// --------------------------------------------------

// AddonInput names an addon option by group and name; prices come from the
// catalog, never from the client.
type AddonInput struct {
	GroupTitle string `json:"group_title"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

type SelectionInput struct {
	MenuItemID string       `json:"menu_item_id" binding:"required"`
	Quantity   int          `json:"quantity" binding:"required"`
	Addons     []AddonInput `json:"addons,omitempty"`
}

type SessionInput struct {
	ID            string           `json:"id"`
	Date          time.Time        `json:"date" binding:"required"`
	GuestCount    int              `json:"guest_count"`
	DistanceMiles *float64         `json:"distance_miles,omitempty"`
	Selections    []SelectionInput `json:"selections" binding:"required"`
}

// QuoteRequest is the customer-facing pricing input. Every price is looked
// up server-side from the ids.
type QuoteRequest struct {
	Context             pricing.OrderContext `json:"context" binding:"required"`
	Sessions            []SessionInput       `json:"sessions" binding:"required"`
	PromoCode           string               `json:"promo_code,omitempty"`
	SpecialInstructions map[string]string    `json:"special_instructions,omitempty"`
}

// CommitRequest commits a previously quoted order. QuotedTotalPence is what
// the customer saw and accepted; it is re-verified against a fresh pricing
// run before anything is persisted. No `required` binding: zero is a
// legitimate quoted total for a fully discounted order.
type CommitRequest struct {
	QuoteRequest
	QuotedTotalPence int64 `json:"quoted_total_pence"`
}
