package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/domain/shared/valueobject"
)

// A payment that would push the paid amount past the invoice total is
// refused outright rather than recorded as a credit.
const CodeOverPayment = "OVER_PAYMENT"

var hundred = decimal.NewFromInt(100)

// InvoiceItem is one billable line on an invoice. Total is recomputed from
// the other fields whenever the item list changes; it is never set directly.
type InvoiceItem struct {
	ID              uuid.UUID       `json:"id"`
	Description     string          `json:"description"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
}

// InvoiceItems is a slice of InvoiceItem that implements GORM Scanner/Valuer for JSONB storage
type InvoiceItems []InvoiceItem

// Value implements driver.Valuer interface for GORM to store as JSONB
func (i InvoiceItems) Value() (driver.Value, error) {
	if i == nil {
		return "[]", nil
	}
	return json.Marshal(i)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (i *InvoiceItems) Scan(value interface{}) error {
	if value == nil {
		*i = InvoiceItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan InvoiceItems: unsupported type")
	}

	if len(bytes) == 0 {
		*i = InvoiceItems{}
		return nil
	}

	return json.Unmarshal(bytes, i)
}

// Payment is one settlement entry appended to the invoice ledger
type Payment struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Method     PaymentMethod   `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	RecordedBy uuid.UUID       `json:"recorded_by"`
}

// Payments is a slice of Payment that implements GORM Scanner/Valuer for JSONB storage
type Payments []Payment

// Value implements driver.Valuer interface for GORM to store as JSONB
func (p Payments) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (p *Payments) Scan(value interface{}) error {
	if value == nil {
		*p = Payments{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Payments: unsupported type")
	}

	if len(bytes) == 0 {
		*p = Payments{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Invoice carries the billing ledger for a project. All monetary totals are
// recomputed from the item list on every change; paid amount and balance are
// derived from the payments list on read and never stored.
type Invoice struct {
	shared.AuditedAggregateRoot
	InvoiceNumber  string
	ProjectID      uuid.UUID
	ClientID       uuid.UUID
	Status         InvoiceStatus
	Type           InvoiceType
	Items          InvoiceItems
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
	Currency       valueobject.Currency
	IssuedDate     time.Time
	DueDate        time.Time
	SentAt         *time.Time
	ViewedAt       *time.Time
	PaidAt         *time.Time
	PaymentTerms   string
	PaymentMethod  PaymentMethod
	Notes          string
	AttachmentIDs  shared.UUIDList
	Payments       Payments
}

// NewInvoice creates a new invoice in DRAFT status. The invoice number comes
// from the number allocator and is recorded exactly once here.
func NewInvoice(invoiceNumber string, projectID, clientID uuid.UUID, currency valueobject.Currency, dueDate time.Time, createdBy uuid.UUID) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invoice number cannot be empty")
	}
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Project ID cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Client ID cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidCurrency, "Invalid currency: "+string(currency))
	}

	inv := &Invoice{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		InvoiceNumber:        invoiceNumber,
		ProjectID:            projectID,
		ClientID:             clientID,
		Status:               InvoiceStatusDraft,
		Type:                 InvoiceTypeFinal,
		Items:                InvoiceItems{},
		Currency:             currency,
		IssuedDate:           time.Now(),
		DueDate:              dueDate,
		PaymentTerms:         "Net 30",
		PaymentMethod:        PaymentMethodBankTransfer,
		AttachmentIDs:        shared.UUIDList{},
		Payments:             Payments{},
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// AddItem appends a line item and recomputes all ledger totals
func (inv *Invoice) AddItem(description string, quantity int, unitPrice valueobject.Money, discountPercent, tax decimal.Decimal) (*InvoiceItem, error) {
	if inv.Status != InvoiceStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Items can only be changed on a draft invoice")
	}
	if description == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Item description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Item description cannot exceed 500 characters")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Item quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unit price cannot be negative")
	}
	if unitPrice.Currency() != inv.Currency {
		return nil, shared.NewDomainError(shared.CodeInvalidCurrency,
			"Item currency does not match invoice currency")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Discount must be between 0 and 100 percent")
	}
	if tax.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Item tax cannot be negative")
	}

	item := InvoiceItem{
		ID:              uuid.New(),
		Description:     description,
		Quantity:        quantity,
		UnitPrice:       unitPrice.Amount(),
		DiscountPercent: discountPercent,
		Tax:             tax,
	}
	inv.Items = append(inv.Items, item)
	inv.recalculateTotals()
	inv.Touch()
	inv.IncrementVersion()

	return &inv.Items[len(inv.Items)-1], nil
}

// RemoveItem deletes a line item and recomputes all ledger totals
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Items can only be changed on a draft invoice")
	}

	for i := range inv.Items {
		if inv.Items[i].ID == itemID {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			inv.recalculateTotals()
			inv.Touch()
			inv.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// recalculateTotals rebuilds every derived monetary field from the item
// list. Per line: total = qty*unitPrice*(1 - discount/100) + tax. The
// invoice-level discount and tax amounts are the sums of the per-line
// contributions, so subtotal - discountAmount + taxAmount == total holds
// by construction.
func (inv *Invoice) recalculateTotals() {
	subtotal := decimal.Zero
	discountAmount := decimal.Zero
	taxAmount := decimal.Zero

	for i := range inv.Items {
		item := &inv.Items[i]
		gross := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		discount := gross.Mul(item.DiscountPercent).Div(hundred)
		item.Total = gross.Sub(discount).Add(item.Tax)

		subtotal = subtotal.Add(gross)
		discountAmount = discountAmount.Add(discount)
		taxAmount = taxAmount.Add(item.Tax)
	}

	inv.Subtotal = subtotal
	inv.DiscountAmount = discountAmount
	inv.TaxAmount = taxAmount
	inv.Total = subtotal.Sub(discountAmount).Add(taxAmount)
}

// RecordPayment appends a settlement entry. Overpayment is refused with the
// ledger untouched; once the paid amount covers the total the invoice
// transitions to PAID automatically.
func (inv *Invoice) RecordPayment(amount valueobject.Money, date time.Time, method PaymentMethod, reference string, recordedBy uuid.UUID) error {
	if inv.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot record a payment on a cancelled invoice")
	}
	if inv.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already fully paid")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.CodeValidation, "Payment amount must be positive")
	}
	if amount.Currency() != inv.Currency {
		return shared.NewDomainError(shared.CodeInvalidCurrency,
			"Payment currency does not match invoice currency")
	}
	if !method.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid payment method")
	}
	if recordedBy == uuid.Nil {
		return shared.NewDomainError(shared.CodeValidation, "Payment must record the acting user")
	}

	if inv.paidAmount().Add(amount.Amount()).GreaterThan(inv.Total) {
		return shared.NewDomainError(CodeOverPayment,
			"Payment would exceed the invoice total")
	}

	payment := Payment{
		ID:         uuid.New(),
		Amount:     amount.Amount(),
		Date:       date,
		Method:     method,
		Reference:  reference,
		RecordedBy: recordedBy,
	}
	inv.Payments = append(inv.Payments, payment)
	inv.Touch()
	inv.IncrementVersion()
	inv.AddDomainEvent(NewPaymentRecordedEvent(inv, &payment))

	if inv.paidAmount().GreaterThanOrEqual(inv.Total) {
		now := time.Now()
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	}

	return nil
}

func (inv *Invoice) paidAmount() decimal.Decimal {
	sum := decimal.Zero
	for i := range inv.Payments {
		sum = sum.Add(inv.Payments[i].Amount)
	}
	return sum
}

// PaidAmount returns the sum of all recorded payments
func (inv *Invoice) PaidAmount() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.paidAmount(), inv.Currency)
	return m
}

// Balance returns the outstanding amount: total minus paid
func (inv *Invoice) Balance() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.Total.Sub(inv.paidAmount()), inv.Currency)
	return m
}

// IsOverdue is computed on read: unpaid and past the due date. It flips
// false the instant the invoice is paid, regardless of dates.
func (inv *Invoice) IsOverdue() bool {
	return inv.Status != InvoiceStatusPaid && time.Now().After(inv.DueDate)
}

// EffectiveStatus returns the stored status, or OVERDUE when the derived
// overdue condition holds for an open invoice
func (inv *Invoice) EffectiveStatus() InvoiceStatus {
	if inv.Status != InvoiceStatusCancelled && inv.IsOverdue() {
		return InvoiceStatusOverdue
	}
	return inv.Status
}

// MarkSent transitions the invoice from DRAFT to SENT
func (inv *Invoice) MarkSent() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError(shared.CodeIllegalTransition,
			"Only a draft invoice can be sent, current status is "+inv.Status.String())
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError(shared.CodeValidation, "Cannot send an invoice with no items")
	}

	now := time.Now()
	inv.Status = InvoiceStatusSent
	inv.SentAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceSentEvent(inv))

	return nil
}

// MarkViewed records that the client opened the invoice
func (inv *Invoice) MarkViewed() error {
	if inv.Status != InvoiceStatusSent {
		return shared.NewDomainError(shared.CodeIllegalTransition,
			"Only a sent invoice can be marked viewed, current status is "+inv.Status.String())
	}

	now := time.Now()
	inv.Status = InvoiceStatusViewed
	inv.ViewedAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	return nil
}

// Cancel voids the invoice. Paid invoices cannot be cancelled; the status
// is terminal.
func (inv *Invoice) Cancel(reason string) error {
	if inv.Status == InvoiceStatusPaid {
		return shared.NewDomainError(shared.CodeIllegalTransition, "Cannot cancel a paid invoice")
	}
	if inv.Status == InvoiceStatusCancelled {
		return shared.NewDomainError(shared.CodeIllegalTransition, "Invoice is already cancelled")
	}

	inv.Status = InvoiceStatusCancelled
	if reason != "" {
		inv.Notes = reason
	}
	inv.Touch()
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv, reason))

	return nil
}

// SetType changes the commercial kind of a draft invoice
func (inv *Invoice) SetType(t InvoiceType) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Invoice type can only be changed on a draft invoice")
	}
	if !t.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid invoice type")
	}
	inv.Type = t
	inv.Touch()
	inv.IncrementVersion()
	return nil
}

// AttachFile links a supporting file to the invoice
func (inv *Invoice) AttachFile(fileID uuid.UUID) {
	if inv.AttachmentIDs.Contains(fileID) {
		return
	}
	inv.AttachmentIDs = append(inv.AttachmentIDs, fileID)
	inv.Touch()
	inv.IncrementVersion()
}
