// Package id generates the identifiers of products, partners, receipts and
// debt records.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// ID is a UUID. Every stored entity uses it as primary key.
type ID = uuid.UUID

// New returns a UUIDv7, so ids sort in creation order.
func New() ID {
	if v, err := uuid.NewV7(); err == nil {
		return v
	}
	return uuid.New()
}

// Parse reads an id from path or query text. Surrounding spaces are ignored.
func Parse(s string) (ID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// Nil is the unassigned id.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether v was never assigned.
func IsNil(v ID) bool {
	return v == uuid.Nil
}
