package promocode

import "time"

// DiscountKind says how a code's value is interpreted.
type DiscountKind string

const (
	// Percentage of the post-restaurant-discount subtotal.
	KindPercent DiscountKind = "PERCENT"
	// Flat amount in pence.
	KindFixed DiscountKind = "FIXED"
)

// PromoCode is a platform-level code applied at the order level, after
// restaurant promotions have already been resolved.
type PromoCode struct {
	ID            string       `json:"id"`
	Code          string       `json:"code"`
	Kind          DiscountKind `json:"kind"`
	Value         float64      `json:"value"` // percent for PERCENT, pence for FIXED
	MinOrderPence int64        `json:"min_order_pence"`
	MaxUsage      int          `json:"max_usage"` // 0 = unlimited
	UsageCount    int          `json:"usage_count"`
	StartDate     time.Time    `json:"start_date"`
	EndDate       time.Time    `json:"end_date"`
	Active        bool         `json:"active"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Usable reports whether the code can be redeemed at the given instant,
// ignoring the order subtotal. The reason is customer-facing.
func (c *PromoCode) Usable(now time.Time) (bool, string) {
	if !c.Active {
		return false, "code is no longer active"
	}
	if now.Before(c.StartDate) {
		return false, "code is not valid yet"
	}
	if now.After(c.EndDate) {
		return false, "code has expired"
	}
	if c.MaxUsage > 0 && c.UsageCount >= c.MaxUsage {
		return false, "code usage limit reached"
	}
	return true, ""
}
