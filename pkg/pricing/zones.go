package pricing

import "strings"

// DefaultZoneMultiplier applies to municipalities not in the table.
const DefaultZoneMultiplier = 1.0

// zoneMultipliers adjusts suggested prices by delivery zone. Central Havana
// municipalities carry a premium for demand, outer ones a discount for
// delivery cost sensitivity.
var zoneMultipliers = map[string]float64{
	"habana vieja":    1.10,
	"centro habana":   1.08,
	"plaza":           1.12, // Vedado
	"playa":           1.15,
	"cerro":           1.00,
	"diez de octubre": 0.98,
	"marianao":        0.95,
	"boyeros":         0.95,
	"la lisa":         0.93,
	"guanabacoa":      0.92,
	"cotorro":         0.90,
	"arroyo naranjo":  0.92,
	"san miguel del padrón": 0.93,
	"regla":           0.95,
	"habana del este": 1.02,
}

// ZoneMultiplier returns the multiplier for a municipality, falling back to
// the default for unknown zones.
func ZoneMultiplier(zone string) float64 {
	if m, ok := zoneMultipliers[strings.ToLower(strings.TrimSpace(zone))]; ok {
		return m
	}
	return DefaultZoneMultiplier
}

// Zones lists the municipalities with explicit multipliers.
func Zones() []string {
	zones := make([]string, 0, len(zoneMultipliers))
	for z := range zoneMultipliers {
		zones = append(zones, z)
	}
	return zones
}
