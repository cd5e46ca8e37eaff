package restaurant

import "time"

// Restaurant is a catering partner. CommissionRate is the platform's
// percentage cut of the partner's gross order value, charged on base prices.
type Restaurant struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`

	Name        string `json:"name"`
	City        string `json:"city"`
	CuisineType string `json:"cuisine_type"`

	CommissionRate float64 `json:"commission_rate"`

	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
