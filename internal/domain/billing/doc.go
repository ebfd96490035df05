// Package billing provides the invoicing bounded context.
//
// An Invoice is the aggregate root: it owns its line items and its payment
// ledger. Totals (subtotal, discount, tax, total) are recomputed whenever
// items change, and payment status transitions (sent, viewed, partially
// paid, paid, overdue, cancelled) are derived from the ledger against the
// due date rather than set directly.
//
// Invoice numbers come from the shared document number allocator and are
// unique per year. Gateway payment notifications are deduplicated by
// reference before they reach the ledger.
package billing
