package billing

// InvoiceStatus represents the lifecycle status of an invoice.
// OVERDUE is never stored: it is derived from the due date on read and
// reported through EffectiveStatus.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusViewed    InvoiceStatus = "VIEWED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the InvoiceStatus is a valid stored value
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusViewed,
		InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// InvoiceType represents the commercial kind of an invoice
type InvoiceType string

const (
	InvoiceTypeProforma InvoiceType = "PROFORMA"
	InvoiceTypeFinal    InvoiceType = "FINAL"
	InvoiceTypeDeposit  InvoiceType = "DEPOSIT"
	InvoiceTypePartial  InvoiceType = "PARTIAL"
)

// IsValid checks if the InvoiceType is a valid value
func (t InvoiceType) IsValid() bool {
	switch t {
	case InvoiceTypeProforma, InvoiceTypeFinal, InvoiceTypeDeposit, InvoiceTypePartial:
		return true
	}
	return false
}

// String returns the string representation of InvoiceType
func (t InvoiceType) String() string {
	return string(t)
}

// PaymentMethod represents how a payment was settled
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodOnline       PaymentMethod = "ONLINE"
)

// IsValid checks if the PaymentMethod is a valid value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodCard,
		PaymentMethodCheque, PaymentMethodOnline:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}
