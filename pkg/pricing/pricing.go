// Package pricing holds the margin and zone price rules shared by the store
// and order services.
package pricing

import "math"

// MinMarginRatio is the platform floor: a listing's retail price must be at
// least 5% above wholesale, or the store configuration save is rejected.
const MinMarginRatio = 1.05

// Margin returns the gestor's profit per unit.
func Margin(retail, wholesale float64) float64 {
	return retail - wholesale
}

// IsMarginSafe reports whether retail clears the minimum-margin floor over
// wholesale. Exactly 5% passes.
func IsMarginSafe(retail, wholesale float64) bool {
	return retail >= wholesale*MinMarginRatio
}

// SuggestZonePrice returns the advisory price for a delivery zone, rounded
// to 2 decimals. It is never applied without explicit gestor confirmation.
func SuggestZonePrice(basePrice float64, zone string) float64 {
	return round2(basePrice * ZoneMultiplier(zone))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
