package domain

import "github.com/shopspring/decimal"

// Offer is a sellable service of a business. Duration is stored in seconds.
type Offer struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Duration   int             `json:"duration"`
	AllowPhoto bool            `json:"allow_photo"`
}

func (o *Offer) EntityID() int64 { return o.ID }

// MinutesToSeconds converts a duration typed into a form (minutes) to its stored unit.
func MinutesToSeconds(minutes int) int {
	return minutes * 60
}

// SecondsToMinutes converts a stored duration to the minutes shown to the owner.
func SecondsToMinutes(seconds int) int {
	return seconds / 60
}
