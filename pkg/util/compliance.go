package util

import "strings"

// Terms that block product publication: controlled substances, weapons,
// foreign-currency trading and regulated medicines. Matching is a plain
// case-insensitive substring scan, so spelling variants slip through and
// innocent words containing a term as infix are rejected; listings flagged
// here always go through supplier-facing review messaging, never silent
// drops.
var complianceDenylist = []string{
	"droga",
	"marihuana",
	"cocaína",
	"cocaina",
	"arma",
	"pistola",
	"munición",
	"municion",
	"explosivo",
	"divisa",
	"cambio de dólares",
	"cambio de dolares",
	"azitromicina",
	"amoxicilina",
	"antibiótico",
	"antibiotico",
	"clonazepam",
	"tramadol",
}

// ComplianceResult is the outcome of a product publication pre-check.
type ComplianceResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"` // first matched denylist term
}

// CheckProductCompliance scans the product name and description against the
// denylist. The first matching term becomes the rejection reason.
func CheckProductCompliance(name, description string) ComplianceResult {
	haystack := strings.ToLower(name + " " + description)
	for _, term := range complianceDenylist {
		if strings.Contains(haystack, term) {
			return ComplianceResult{Allowed: false, Reason: term}
		}
	}
	return ComplianceResult{Allowed: true}
}
