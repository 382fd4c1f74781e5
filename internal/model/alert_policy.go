package model

import "time"

// AlertPolicy decides which medicines deserve a stock alert.
type AlertPolicy struct {
	// LowStockThreshold is exclusive: quantity < threshold is low.
	LowStockThreshold int32
	// NearExpiryDays is inclusive: expiry <= today+days is near expiry,
	// already expired medicines included.
	NearExpiryDays int
}

// Today truncates now to a UTC calendar date.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ExpiryCutoff returns the last expiry date still considered near expiry.
func (p AlertPolicy) ExpiryCutoff(now time.Time) time.Time {
	return Today(now).AddDate(0, 0, p.NearExpiryDays)
}

func (p AlertPolicy) IsLowStock(quantity int32) bool {
	return quantity < p.LowStockThreshold
}

func (p AlertPolicy) IsNearExpiry(expiry, now time.Time) bool {
	return !Today(expiry).After(p.ExpiryCutoff(now))
}
