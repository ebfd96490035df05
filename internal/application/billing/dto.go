package billing

import (
	"time"

	"github.com/printflow/backend/internal/domain/billing"
)

// =============================================================================
// Invoice DTOs
// =============================================================================

// InvoiceItemRequest represents one billable line in a create or add request
type InvoiceItemRequest struct {
	Description     string  `json:"description" binding:"required,min=1,max=500"`
	Quantity        int     `json:"quantity" binding:"required,min=1"`
	UnitPrice       float64 `json:"unit_price" binding:"min=0"`
	DiscountPercent float64 `json:"discount_percent" binding:"min=0,max=100"`
	Tax             float64 `json:"tax" binding:"min=0"`
}

// CreateInvoiceRequest represents a request to open a new draft invoice
type CreateInvoiceRequest struct {
	ProjectID    string               `json:"project_id" binding:"required,uuid"`
	ClientID     string               `json:"client_id" binding:"required,uuid"`
	Currency     string               `json:"currency" binding:"required,currency"`
	DueDate      time.Time            `json:"due_date" binding:"required"`
	Type         string               `json:"type"`
	PaymentTerms string               `json:"payment_terms" binding:"max=100"`
	Items        []InvoiceItemRequest `json:"items" binding:"max=100,dive"`
}

// RecordPaymentRequest represents a manually recorded settlement
type RecordPaymentRequest struct {
	Amount    float64    `json:"amount" binding:"required,gt=0"`
	Date      *time.Time `json:"date"`
	Method    string     `json:"method" binding:"required"`
	Reference string     `json:"reference" binding:"max=200"`
}

// GatewayPaymentNotice is the payload a payment gateway webhook delivers.
// ExternalReference is the gateway's transaction ID and doubles as the
// idempotency key: a redelivered notice is applied at most once.
type GatewayPaymentNotice struct {
	InvoiceNumber     string    `json:"invoice_number" binding:"required"`
	Amount            float64   `json:"amount" binding:"required,gt=0"`
	Currency          string    `json:"currency" binding:"required,currency"`
	ExternalReference string    `json:"external_reference" binding:"required,max=200"`
	ReceivedAt        time.Time `json:"received_at"`
}

// CancelInvoiceRequest represents cancelling an invoice with a reason
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ListInvoicesRequest represents a request to list invoices
type ListInvoicesRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}

// InvoiceItemResponse represents one line item in API responses
type InvoiceItemResponse struct {
	ID              string `json:"id"`
	Description     string `json:"description"`
	Quantity        int    `json:"quantity"`
	UnitPrice       string `json:"unit_price"`
	DiscountPercent string `json:"discount_percent"`
	Tax             string `json:"tax"`
	Total           string `json:"total"`
}

// PaymentResponse represents one settlement entry in API responses
type PaymentResponse struct {
	ID        string    `json:"id"`
	Amount    string    `json:"amount"`
	Date      time.Time `json:"date"`
	Method    string    `json:"method"`
	Reference string    `json:"reference,omitempty"`
}

// InvoiceResponse represents an invoice in API responses. Status is the
// effective status: an open invoice past its due date reads OVERDUE here
// even though OVERDUE is never stored.
type InvoiceResponse struct {
	ID             string                `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	ProjectID      string                `json:"project_id"`
	ClientID       string                `json:"client_id"`
	Status         string                `json:"status"`
	Type           string                `json:"type"`
	Items          []InvoiceItemResponse `json:"items"`
	Subtotal       string                `json:"subtotal"`
	DiscountAmount string                `json:"discount_amount"`
	TaxAmount      string                `json:"tax_amount"`
	Total          string                `json:"total"`
	PaidAmount     string                `json:"paid_amount"`
	Balance        string                `json:"balance"`
	Currency       string                `json:"currency"`
	Overdue        bool                  `json:"overdue"`
	IssuedDate     time.Time             `json:"issued_date"`
	DueDate        time.Time             `json:"due_date"`
	SentAt         *time.Time            `json:"sent_at,omitempty"`
	ViewedAt       *time.Time            `json:"viewed_at,omitempty"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	PaymentTerms   string                `json:"payment_terms"`
	Payments       []PaymentResponse     `json:"payments"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ToInvoiceResponse maps an invoice aggregate to its response DTO
func ToInvoiceResponse(inv *billing.Invoice) *InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, InvoiceItemResponse{
			ID:              it.ID.String(),
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice.StringFixed(2),
			DiscountPercent: it.DiscountPercent.StringFixed(2),
			Tax:             it.Tax.StringFixed(2),
			Total:           it.Total.StringFixed(2),
		})
	}

	payments := make([]PaymentResponse, 0, len(inv.Payments))
	for _, p := range inv.Payments {
		payments = append(payments, PaymentResponse{
			ID:        p.ID.String(),
			Amount:    p.Amount.StringFixed(2),
			Date:      p.Date,
			Method:    p.Method.String(),
			Reference: p.Reference,
		})
	}

	return &InvoiceResponse{
		ID:             inv.ID.String(),
		InvoiceNumber:  inv.InvoiceNumber,
		ProjectID:      inv.ProjectID.String(),
		ClientID:       inv.ClientID.String(),
		Status:         inv.EffectiveStatus().String(),
		Type:           inv.Type.String(),
		Items:          items,
		Subtotal:       inv.Subtotal.StringFixed(2),
		DiscountAmount: inv.DiscountAmount.StringFixed(2),
		TaxAmount:      inv.TaxAmount.StringFixed(2),
		Total:          inv.Total.StringFixed(2),
		PaidAmount:     inv.PaidAmount().StringFixed(2),
		Balance:        inv.Balance().StringFixed(2),
		Currency:       inv.Currency.String(),
		Overdue:        inv.IsOverdue(),
		IssuedDate:     inv.IssuedDate,
		DueDate:        inv.DueDate,
		SentAt:         inv.SentAt,
		ViewedAt:       inv.ViewedAt,
		PaidAt:         inv.PaidAt,
		PaymentTerms:   inv.PaymentTerms,
		Payments:       payments,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}
