package util

import "regexp"

// Cuban carné de identidad: exactly 11 decimal digits. Format check only;
// the embedded birth-date digits are not validated.
var identityDocumentPattern = regexp.MustCompile(`^[0-9]{11}$`)

// ValidateIdentityDocument reports whether doc is a well-formed national
// identity document number.
func ValidateIdentityDocument(doc string) bool {
	return identityDocumentPattern.MatchString(doc)
}
