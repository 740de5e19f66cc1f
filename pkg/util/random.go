package util

import (
	"github.com/google/uuid"
)

// NewOrderReference returns the public reference number stamped on an order
// at submission. Opaque on purpose: sequential IDs would leak order volume
// to customers.
func NewOrderReference() string {
	return uuid.New().String()
}
