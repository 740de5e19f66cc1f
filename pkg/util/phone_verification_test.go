package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{name: "Spaces stripped", phone: "+53 55123456", want: "+5355123456"},
		{name: "Dashes stripped", phone: "+53-5512-3456", want: "+5355123456"},
		{name: "Plus only kept at start", phone: "53+55123456", want: "5355123456"},
		{name: "Already normalized", phone: "+5355123456", want: "+5355123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.phone))
		})
	}
}

func TestValidateCubanPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{name: "Valid with space", phone: "+53 55123456", want: true},
		{name: "Valid leading 6", phone: "+53 61234567", want: true},
		{name: "Invalid leading digit", phone: "+53 4512345", want: false},
		{name: "Missing plus", phone: "53551234567", want: false},
		{name: "Too short", phone: "+53 5512345", want: false},
		{name: "Too long", phone: "+53 551234567", want: false},
		{name: "Landline prefix", phone: "+53 71234567", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCubanPhone(tt.phone))
		})
	}
}
