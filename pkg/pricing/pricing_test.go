package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMargin(t *testing.T) {
	assert.Equal(t, 3.0, Margin(13, 10))
	assert.Equal(t, 0.0, Margin(10, 10))
	assert.Equal(t, -2.5, Margin(7.5, 10))
}

func TestIsMarginSafe(t *testing.T) {
	tests := []struct {
		name      string
		retail    float64
		wholesale float64
		want      bool
	}{
		{name: "Zero margin is unsafe", retail: 10, wholesale: 10, want: false},
		{name: "Exactly five percent is safe", retail: 10.5, wholesale: 10, want: true},
		{name: "Below floor", retail: 10.4, wholesale: 10, want: false},
		{name: "Comfortable margin", retail: 13, wholesale: 10, want: true},
		{name: "Selling below cost", retail: 8, wholesale: 10, want: false},
		{name: "Free wholesale", retail: 0, wholesale: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMarginSafe(tt.retail, tt.wholesale))
		})
	}
}

func TestSuggestZonePrice(t *testing.T) {
	tests := []struct {
		name      string
		basePrice float64
		zone      string
		want      float64
	}{
		{name: "Premium zone", basePrice: 100, zone: "Playa", want: 115},
		{name: "Case insensitive lookup", basePrice: 100, zone: "HABANA VIEJA", want: 110},
		{name: "Discount zone", basePrice: 100, zone: "Cotorro", want: 90},
		{name: "Unknown zone falls back", basePrice: 100, zone: "Varadero", want: 100},
		{name: "Rounded to two decimals", basePrice: 9.99, zone: "Centro Habana", want: 10.79},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SuggestZonePrice(tt.basePrice, tt.zone), 0.0001)
		})
	}
}

func TestZoneMultiplier_Default(t *testing.T) {
	assert.Equal(t, DefaultZoneMultiplier, ZoneMultiplier("municipio inexistente"))
	assert.Equal(t, DefaultZoneMultiplier, ZoneMultiplier(""))
}
