package domain

import "github.com/shopspring/decimal"

// Totals are the numeric fields a booking is persisted with.
type Totals struct {
	TotalPrice    decimal.Decimal `json:"total_price"`
	TotalDuration int             `json:"total_duration"`
}

// Aggregate sums price and duration (seconds) over the selected offers.
func Aggregate(offers []Offer) Totals {
	t := Totals{TotalPrice: decimal.Zero}
	for _, o := range offers {
		t.TotalPrice = t.TotalPrice.Add(o.Price)
		t.TotalDuration += o.Duration
	}
	return t
}
