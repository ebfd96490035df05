package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printflow/backend/internal/domain/billing"
	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/domain/shared/valueobject"
)

// InvoiceModel is the GORM model for the invoices table
type InvoiceModel struct {
	AuditedAggregateModel
	InvoiceNumber  string               `gorm:"column:invoice_number;type:varchar(20);not null;uniqueIndex"`
	ProjectID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	ClientID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	Status         string               `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Type           string               `gorm:"type:varchar(20);not null;default:'STANDARD'"`
	Items          billing.InvoiceItems `gorm:"type:jsonb;not null;default:'[]'"`
	Subtotal       decimal.Decimal      `gorm:"type:numeric(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal      `gorm:"column:discount_amount;type:numeric(18,4);not null;default:0"`
	TaxAmount      decimal.Decimal      `gorm:"column:tax_amount;type:numeric(18,4);not null;default:0"`
	Total          decimal.Decimal      `gorm:"type:numeric(18,4);not null;default:0"`
	Currency       string               `gorm:"type:varchar(3);not null"`
	IssuedDate     time.Time            `gorm:"column:issued_date;not null"`
	DueDate        time.Time            `gorm:"column:due_date;not null;index"`
	SentAt         *time.Time           `gorm:"column:sent_at"`
	ViewedAt       *time.Time           `gorm:"column:viewed_at"`
	PaidAt         *time.Time           `gorm:"column:paid_at"`
	PaymentTerms   string               `gorm:"column:payment_terms;type:varchar(100)"`
	PaymentMethod  string               `gorm:"column:payment_method;type:varchar(20)"`
	Notes          string               `gorm:"type:text"`
	AttachmentIDs  shared.UUIDList      `gorm:"column:attachment_ids;type:jsonb;not null;default:'[]'"`
	Payments       billing.Payments     `gorm:"type:jsonb;not null;default:'[]'"`
}

// TableName returns the table name for InvoiceModel
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts InvoiceModel to domain Invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		InvoiceNumber:  m.InvoiceNumber,
		ProjectID:      m.ProjectID,
		ClientID:       m.ClientID,
		Status:         billing.InvoiceStatus(m.Status),
		Type:           billing.InvoiceType(m.Type),
		Items:          m.Items,
		Subtotal:       m.Subtotal,
		DiscountAmount: m.DiscountAmount,
		TaxAmount:      m.TaxAmount,
		Total:          m.Total,
		Currency:       valueobject.Currency(m.Currency),
		IssuedDate:     m.IssuedDate,
		DueDate:        m.DueDate,
		SentAt:         m.SentAt,
		ViewedAt:       m.ViewedAt,
		PaidAt:         m.PaidAt,
		PaymentTerms:   m.PaymentTerms,
		PaymentMethod:  billing.PaymentMethod(m.PaymentMethod),
		Notes:          m.Notes,
		AttachmentIDs:  m.AttachmentIDs,
		Payments:       m.Payments,
	}
	m.PopulateAuditedAggregateRoot(&inv.AuditedAggregateRoot)
	return inv
}

// InvoiceModelFromDomain creates an InvoiceModel from domain Invoice
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	return &InvoiceModel{
		AuditedAggregateModel: auditedFromDomain(inv.AuditedAggregateRoot),
		InvoiceNumber:         inv.InvoiceNumber,
		ProjectID:             inv.ProjectID,
		ClientID:              inv.ClientID,
		Status:                inv.Status.String(),
		Type:                  string(inv.Type),
		Items:                 inv.Items,
		Subtotal:              inv.Subtotal,
		DiscountAmount:        inv.DiscountAmount,
		TaxAmount:             inv.TaxAmount,
		Total:                 inv.Total,
		Currency:              inv.Currency.String(),
		IssuedDate:            inv.IssuedDate,
		DueDate:               inv.DueDate,
		SentAt:                inv.SentAt,
		ViewedAt:              inv.ViewedAt,
		PaidAt:                inv.PaidAt,
		PaymentTerms:          inv.PaymentTerms,
		PaymentMethod:         string(inv.PaymentMethod),
		Notes:                 inv.Notes,
		AttachmentIDs:         inv.AttachmentIDs,
		Payments:              inv.Payments,
	}
}
