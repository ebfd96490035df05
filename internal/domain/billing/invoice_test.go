package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/domain/shared/valueobject"
)

func createTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice("INV20260001", uuid.New(), uuid.New(), valueobject.AED,
		time.Now().Add(30*24*time.Hour), uuid.New())
	require.NoError(t, err)
	inv.ClearDomainEvents()
	return inv
}

func aed(t *testing.T, amount float64) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyFromFloat(amount, valueobject.AED)
	require.NoError(t, err)
	return m
}

func addItem(t *testing.T, inv *Invoice, qty int, unitPrice, discount, tax float64) *InvoiceItem {
	t.Helper()
	item, err := inv.AddItem("Full color brochures", qty, aed(t, unitPrice),
		decimal.NewFromFloat(discount), decimal.NewFromFloat(tax))
	require.NoError(t, err)
	return item
}

func TestNewInvoice(t *testing.T) {
	inv := createTestInvoice(t)

	assert.Equal(t, "INV20260001", inv.InvoiceNumber)
	assert.Equal(t, InvoiceStatusDraft, inv.Status)
	assert.Equal(t, InvoiceTypeFinal, inv.Type)
	assert.True(t, inv.Total.IsZero())
	assert.True(t, inv.Balance().IsZero())
}

func TestInvoice_ItemTotals(t *testing.T) {
	inv := createTestInvoice(t)

	// 2 * 100 * 0.9 + 5 = 185
	item := addItem(t, inv, 2, 100, 10, 5)
	assert.Equal(t, "185", item.Total.String())
	assert.Equal(t, "200", inv.Subtotal.String())
	assert.Equal(t, "20", inv.DiscountAmount.String())
	assert.Equal(t, "5", inv.TaxAmount.String())
	assert.Equal(t, "185", inv.Total.String())
}

func TestInvoice_LedgerIdentity(t *testing.T) {
	inv := createTestInvoice(t)
	addItem(t, inv, 2, 100, 10, 5)
	addItem(t, inv, 7, 33.33, 0, 12.50)
	addItem(t, inv, 1, 999.99, 50, 0)

	expected := inv.Subtotal.Sub(inv.DiscountAmount).Add(inv.TaxAmount)
	assert.True(t, inv.Total.Equal(expected),
		"total %s != subtotal - discount + tax %s", inv.Total, expected)
}

func TestInvoice_RemoveItem_Recomputes(t *testing.T) {
	inv := createTestInvoice(t)
	first := addItem(t, inv, 2, 100, 10, 5)
	addItem(t, inv, 1, 50, 0, 0)
	firstID := first.ID

	require.NoError(t, inv.RemoveItem(firstID))
	assert.Equal(t, "50", inv.Total.String())

	assert.ErrorIs(t, inv.RemoveItem(firstID), shared.ErrNotFound)
}

func TestInvoice_AddItem_Validation(t *testing.T) {
	inv := createTestInvoice(t)

	_, err := inv.AddItem("", 1, aed(t, 10), decimal.Zero, decimal.Zero)
	assert.Error(t, err)

	_, err = inv.AddItem("x", 0, aed(t, 10), decimal.Zero, decimal.Zero)
	assert.Error(t, err)

	_, err = inv.AddItem("x", 1, aed(t, 10), decimal.NewFromInt(101), decimal.Zero)
	assert.Error(t, err)

	usd, _ := valueobject.NewMoneyFromFloat(10, valueobject.USD)
	_, err = inv.AddItem("x", 1, usd, decimal.Zero, decimal.Zero)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidCurrency, domainErr.Code)
}

func TestInvoice_RecordPayment(t *testing.T) {
	inv := createTestInvoice(t)
	addItem(t, inv, 2, 100, 10, 5) // total 185
	require.NoError(t, inv.MarkSent())
	inv.ClearDomainEvents()

	// partial payment leaves the status alone
	require.NoError(t, inv.RecordPayment(aed(t, 100), time.Now(), PaymentMethodBankTransfer, "TRX-1", uuid.New()))
	assert.Equal(t, "85", inv.Balance().Amount().String())
	assert.Equal(t, InvoiceStatusSent, inv.Status)

	events := inv.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypePaymentRecorded, events[0].EventType())
	inv.ClearDomainEvents()

	// covering the balance flips to PAID automatically
	require.NoError(t, inv.RecordPayment(aed(t, 85), time.Now(), PaymentMethodCash, "", uuid.New()))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.Balance().IsZero())
	require.NotNil(t, inv.PaidAt)

	var sawPaid bool
	for _, ev := range inv.GetDomainEvents() {
		if ev.EventType() == EventTypeInvoicePaid {
			sawPaid = true
		}
	}
	assert.True(t, sawPaid)
}

func TestInvoice_RecordPayment_OverPayment(t *testing.T) {
	inv := createTestInvoice(t)
	addItem(t, inv, 2, 100, 10, 5) // total 185
	require.NoError(t, inv.MarkSent())

	err := inv.RecordPayment(aed(t, 200), time.Now(), PaymentMethodCard, "", uuid.New())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeOverPayment, domainErr.Code)
	assert.Empty(t, inv.Payments)
	assert.Equal(t, "185", inv.Balance().Amount().String())
}

func TestInvoice_RecordPayment_Validation(t *testing.T) {
	inv := createTestInvoice(t)
	addItem(t, inv, 1, 100, 0, 0)
	require.NoError(t, inv.MarkSent())

	assert.Error(t, inv.RecordPayment(aed(t, 0), time.Now(), PaymentMethodCash, "", uuid.New()))

	usd, _ := valueobject.NewMoneyFromFloat(10, valueobject.USD)
	assert.Error(t, inv.RecordPayment(usd, time.Now(), PaymentMethodCash, "", uuid.New()))

	assert.Error(t, inv.RecordPayment(aed(t, 10), time.Now(), PaymentMethod("BARTER"), "", uuid.New()))
	assert.Error(t, inv.RecordPayment(aed(t, 10), time.Now(), PaymentMethodCash, "", uuid.Nil))
}

func TestInvoice_IsOverdue(t *testing.T) {
	inv := createTestInvoice(t)
	addItem(t, inv, 1, 100, 0, 0)
	require.NoError(t, inv.MarkSent())

	assert.False(t, inv.IsOverdue())

	inv.DueDate = time.Now().Add(-24 * time.Hour)
	assert.True(t, inv.IsOverdue())
	assert.Equal(t, InvoiceStatusOverdue, inv.EffectiveStatus())

	// paying flips overdue off immediately, independent of the date
	require.NoError(t, inv.RecordPayment(aed(t, 100), time.Now(), PaymentMethodCash, "", uuid.New()))
	assert.False(t, inv.IsOverdue())
	assert.Equal(t, InvoiceStatusPaid, inv.EffectiveStatus())
}

func TestInvoice_StatusTransitions(t *testing.T) {
	inv := createTestInvoice(t)

	// cannot send an empty invoice
	assert.Error(t, inv.MarkSent())

	addItem(t, inv, 1, 100, 0, 0)
	require.NoError(t, inv.MarkSent())
	require.NotNil(t, inv.SentAt)

	assert.Error(t, inv.MarkSent())

	require.NoError(t, inv.MarkViewed())
	require.NotNil(t, inv.ViewedAt)

	// items are frozen once the invoice leaves draft
	_, err := inv.AddItem("late addition", 1, aed(t, 10), decimal.Zero, decimal.Zero)
	assert.Error(t, err)
}

func TestInvoice_Cancel(t *testing.T) {
	inv := createTestInvoice(t)
	addItem(t, inv, 1, 100, 0, 0)
	require.NoError(t, inv.MarkSent())

	require.NoError(t, inv.Cancel("client withdrew the order"))
	assert.Equal(t, InvoiceStatusCancelled, inv.Status)

	assert.Error(t, inv.Cancel("again"))
	assert.Error(t, inv.RecordPayment(aed(t, 10), time.Now(), PaymentMethodCash, "", uuid.New()))
}

func TestInvoice_CancelPaidRefused(t *testing.T) {
	inv := createTestInvoice(t)
	addItem(t, inv, 1, 100, 0, 0)
	require.NoError(t, inv.MarkSent())
	require.NoError(t, inv.RecordPayment(aed(t, 100), time.Now(), PaymentMethodCash, "", uuid.New()))

	assert.Error(t, inv.Cancel("too late"))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
}
