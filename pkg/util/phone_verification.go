package util

import (
	"regexp"
	"strings"
)

// Cuban mobile numbers: +53 followed by 5 or 6, then 7 more digits.
var cubanMobilePattern = regexp.MustCompile(`^\+53[56][0-9]{7}$`)

// NormalizePhone strips every character except digits and a leading plus
// sign. "+53 5512-3456" becomes "+5355123456".
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCubanPhone reports whether phone normalizes to a valid national
// mobile number. Numbers without the +53 prefix are rejected.
func ValidateCubanPhone(phone string) bool {
	return cubanMobilePattern.MatchString(NormalizePhone(phone))
}
