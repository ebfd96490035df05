package shared

import (
	"context"
	"fmt"
)

// NumberKind identifies a document numbering sequence
type NumberKind string

const (
	NumberKindInvoice  NumberKind = "INV"
	NumberKindPrintJob NumberKind = "PJ"
)

// IsValid checks if the number kind is valid
func (k NumberKind) IsValid() bool {
	return k == NumberKindInvoice || k == NumberKindPrintJob
}

// String returns the string representation of NumberKind
func (k NumberKind) String() string {
	return string(k)
}

// MaxSequencePerYear is the highest sequence value a 4-digit document
// number can carry within one (kind, year) scope.
const MaxSequencePerYear = 9999

// NumberAllocator hands out unique, monotonically increasing document
// numbers scoped by (kind, year). Implementations must increment atomically:
// two concurrent callers must never observe the same sequence value, and an
// allocated number is never returned to the pool even if the document it was
// issued for fails to be created.
type NumberAllocator interface {
	// Next allocates the next document number for the given kind and year,
	// e.g. "INV20250001". Returns ErrSequenceExhausted once the 4-digit
	// sequence for that scope would overflow.
	Next(ctx context.Context, kind NumberKind, year int) (string, error)
}

// FormatDocumentNumber renders a document number from its parts.
// The sequence is zero-padded to 4 digits: INV20250001, PJ20250042.
func FormatDocumentNumber(kind NumberKind, year, sequence int) string {
	return fmt.Sprintf("%s%d%04d", kind, year, sequence)
}
