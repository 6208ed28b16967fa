package cache

import "fmt"

// Key identifies a cached read. Equal scopes always produce equal keys.
type Key string

func BookingsKey(businessID int64) Key {
	return Key(fmt.Sprintf("bookings/business/%d", businessID))
}

// BookingKey scopes a single booking to the business it was read for.
func BookingKey(businessID, bookingID int64) Key {
	return Key(fmt.Sprintf("bookings/business/%d/%d", businessID, bookingID))
}

func OffersKey(businessID int64) Key {
	return Key(fmt.Sprintf("offers?business_id=%d", businessID))
}

func WorkingHoursKey(businessID int64) Key {
	return Key(fmt.Sprintf("working-hours/%d", businessID))
}

func BusinessKey(businessID int64) Key {
	return Key(fmt.Sprintf("business/%d", businessID))
}
