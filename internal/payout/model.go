package payout

import "time"

// ReportRow aggregates one restaurant's payouts over a reporting period.
// Commission splits into gross (the raw charge on base prices) and net (the
// platform's take after absorbing its share of discounts).
type ReportRow struct {
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`

	Orders int `json:"orders"`

	GrossPence              int64 `json:"gross_pence"`
	GrossCommissionPence    int64 `json:"gross_commission_pence"`
	NetCommissionPence      int64 `json:"net_commission_pence"`
	RestaurantAbsorbedPence int64 `json:"restaurant_absorbed_pence"`
	PlatformAbsorbedPence   int64 `json:"platform_absorbed_pence"`
	NetPence                int64 `json:"net_pence"`
}

// Report is the admin payout report for one period.
type Report struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	Rows   []ReportRow `json:"rows"`
	Totals ReportRow   `json:"totals"`

	// ReportURL is set when a CSV export was requested.
	ReportURL string `json:"report_url,omitempty"`
}
