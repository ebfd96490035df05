package billing

import (
	"github.com/printflow/backend/internal/domain/shared"
)

// Event types for the billing domain
const (
	EventTypeInvoiceCreated   = "invoice.created"
	EventTypeInvoiceSent      = "invoice.sent"
	EventTypeInvoicePaid      = "invoice.paid"
	EventTypeInvoiceOverdue   = "invoice.overdue"
	EventTypeInvoiceCancelled = "invoice.cancelled"
	EventTypePaymentRecorded  = "invoice.payment_recorded"
)

// InvoiceCreatedEvent is emitted when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	ProjectID     string `json:"project_id"`
	ClientID      string `json:"client_id"`
}

func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, "Invoice", inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		ProjectID:       inv.ProjectID.String(),
		ClientID:        inv.ClientID.String(),
	}
}

// InvoiceSentEvent is emitted when an invoice is sent to the client
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	ClientID      string `json:"client_id"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
}

func NewInvoiceSentEvent(inv *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSent, "Invoice", inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		ClientID:        inv.ClientID.String(),
		Total:           inv.Total.String(),
		Currency:        inv.Currency.String(),
	}
}

// InvoicePaidEvent is emitted when payments cover the invoice total
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	ClientID      string `json:"client_id"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
}

func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, "Invoice", inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		ClientID:        inv.ClientID.String(),
		Total:           inv.Total.String(),
		Currency:        inv.Currency.String(),
	}
}

// InvoiceOverdueEvent is emitted by the overdue sweep when an open invoice
// passes its due date
type InvoiceOverdueEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	ClientID      string `json:"client_id"`
	Balance       string `json:"balance"`
	Currency      string `json:"currency"`
}

func NewInvoiceOverdueEvent(inv *Invoice) *InvoiceOverdueEvent {
	return &InvoiceOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceOverdue, "Invoice", inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		ClientID:        inv.ClientID.String(),
		Balance:         inv.Balance().String(),
		Currency:        inv.Currency.String(),
	}
}

// InvoiceCancelledEvent is emitted when an invoice is voided
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	Reason        string `json:"reason,omitempty"`
}

func NewInvoiceCancelledEvent(inv *Invoice, reason string) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, "Invoice", inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		Reason:          reason,
	}
}

// PaymentRecordedEvent is emitted for every appended payment entry
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string        `json:"invoice_number"`
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	Method        PaymentMethod `json:"method"`
	Balance       string        `json:"balance"`
}

func NewPaymentRecordedEvent(inv *Invoice, payment *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, "Invoice", inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		Amount:          payment.Amount.String(),
		Currency:        inv.Currency.String(),
		Method:          payment.Method,
		Balance:         inv.Total.Sub(inv.paidAmount()).String(),
	}
}
