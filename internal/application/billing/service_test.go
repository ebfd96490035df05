package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/printflow/backend/internal/domain/billing"
	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/domain/shared/valueobject"
)

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, clientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOverdue(ctx context.Context, cutoff time.Time, limit int) ([]billing.Invoice, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) CountByStatus(ctx context.Context, status billing.InvoiceStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockNumberAllocator is a mock implementation of shared.NumberAllocator
type MockNumberAllocator struct {
	mock.Mock
}

func (m *MockNumberAllocator) Next(ctx context.Context, kind shared.NumberKind, year int) (string, error) {
	args := m.Called(ctx, kind, year)
	return args.String(0), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Forget(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newTestService(t *testing.T) (*BillingService, *MockInvoiceRepository, *MockNumberAllocator, *MockIdempotencyStore) {
	t.Helper()
	invoiceRepo := new(MockInvoiceRepository)
	numbers := new(MockNumberAllocator)
	idempotency := new(MockIdempotencyStore)
	return NewBillingService(invoiceRepo, numbers, idempotency, nil, nil), invoiceRepo, numbers, idempotency
}

func newStoredInvoice(t *testing.T, items ...InvoiceItemRequest) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice("INV20260011", uuid.New(), uuid.New(), valueobject.AED, time.Now().Add(30*24*time.Hour), uuid.New())
	require.NoError(t, err)
	for _, it := range items {
		unitPrice, err := valueobject.NewMoneyFromFloat(it.UnitPrice, valueobject.AED)
		require.NoError(t, err)
		_, err = inv.AddItem(it.Description, it.Quantity, unitPrice,
			decimal.NewFromFloat(it.DiscountPercent), decimal.NewFromFloat(it.Tax))
		require.NoError(t, err)
	}
	inv.ClearDomainEvents()
	return inv
}

func TestCreateInvoice_WithItems(t *testing.T) {
	svc, invoiceRepo, numbers, _ := newTestService(t)

	numbers.On("Next", mock.Anything, shared.NumberKindInvoice, time.Now().Year()).
		Return("INV20260042", nil)
	invoiceRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	resp, err := svc.CreateInvoice(context.Background(), uuid.New(), CreateInvoiceRequest{
		ProjectID: uuid.New().String(),
		ClientID:  uuid.New().String(),
		Currency:  "AED",
		DueDate:   time.Now().Add(30 * 24 * time.Hour),
		Items: []InvoiceItemRequest{
			{Description: "Banner printing", Quantity: 2, UnitPrice: 100, DiscountPercent: 10, Tax: 5},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV20260042", resp.InvoiceNumber)
	assert.Equal(t, "DRAFT", resp.Status)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "185.00", resp.Items[0].Total)
	assert.Equal(t, "185.00", resp.Total)
	assert.Equal(t, "0.00", resp.PaidAmount)
	assert.Equal(t, "185.00", resp.Balance)
	numbers.AssertExpectations(t)
	invoiceRepo.AssertExpectations(t)
}

func TestCreateInvoice_AllocatorFailure(t *testing.T) {
	svc, invoiceRepo, numbers, _ := newTestService(t)

	numbers.On("Next", mock.Anything, shared.NumberKindInvoice, mock.Anything).
		Return("", shared.ErrSequenceExhausted)

	_, err := svc.CreateInvoice(context.Background(), uuid.New(), CreateInvoiceRequest{
		ProjectID: uuid.New().String(),
		ClientID:  uuid.New().String(),
		Currency:  "AED",
		DueDate:   time.Now().Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, shared.ErrSequenceExhausted)
	invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRecordPayment_PartialThenPaid(t *testing.T) {
	svc, invoiceRepo, _, _ := newTestService(t)

	inv := newStoredInvoice(t, InvoiceItemRequest{Description: "Posters", Quantity: 1, UnitPrice: 200})
	require.NoError(t, inv.MarkSent())
	inv.ClearDomainEvents()

	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", mock.Anything, inv).Return(nil)

	resp, err := svc.RecordPayment(context.Background(), inv.ID, uuid.New(), RecordPaymentRequest{
		Amount: 50,
		Method: "CASH",
	})
	require.NoError(t, err)
	assert.Equal(t, "50.00", resp.PaidAmount)
	assert.Equal(t, "150.00", resp.Balance)
	assert.Equal(t, "SENT", resp.Status)

	resp, err = svc.RecordPayment(context.Background(), inv.ID, uuid.New(), RecordPaymentRequest{
		Amount: 150,
		Method: "BANK_TRANSFER",
	})
	require.NoError(t, err)
	assert.Equal(t, "PAID", resp.Status)
	assert.Equal(t, "0.00", resp.Balance)
	assert.NotNil(t, resp.PaidAt)
}

func TestRecordPayment_Overpayment(t *testing.T) {
	svc, invoiceRepo, _, _ := newTestService(t)

	inv := newStoredInvoice(t, InvoiceItemRequest{Description: "Posters", Quantity: 1, UnitPrice: 100})
	require.NoError(t, inv.MarkSent())
	inv.ClearDomainEvents()

	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	_, err := svc.RecordPayment(context.Background(), inv.ID, uuid.New(), RecordPaymentRequest{
		Amount: 150,
		Method: "CASH",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, billing.CodeOverPayment, domainErr.Code)
	assert.Empty(t, inv.Payments)
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestHandleGatewayPayment(t *testing.T) {
	svc, invoiceRepo, _, idempotency := newTestService(t)

	inv := newStoredInvoice(t, InvoiceItemRequest{Description: "Posters", Quantity: 1, UnitPrice: 100})
	require.NoError(t, inv.MarkSent())
	inv.ClearDomainEvents()

	invoiceRepo.On("FindByInvoiceNumber", mock.Anything, inv.InvoiceNumber).Return(inv, nil)
	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", mock.Anything, inv).Return(nil)
	idempotency.On("MarkProcessed", mock.Anything, "payment:gateway:txn_789", gatewayKeyTTL).
		Return(true, nil)

	resp, err := svc.HandleGatewayPayment(context.Background(), uuid.New(), GatewayPaymentNotice{
		InvoiceNumber:     inv.InvoiceNumber,
		Amount:            100,
		Currency:          "AED",
		ExternalReference: "txn_789",
	})
	require.NoError(t, err)

	assert.Equal(t, "PAID", resp.Status)
	require.Len(t, inv.Payments, 1)
	assert.Equal(t, "txn_789", inv.Payments[0].Reference)
	assert.Equal(t, billing.PaymentMethodOnline, inv.Payments[0].Method)
	idempotency.AssertExpectations(t)
}

func TestHandleGatewayPayment_DuplicateIgnored(t *testing.T) {
	svc, invoiceRepo, _, idempotency := newTestService(t)

	inv := newStoredInvoice(t, InvoiceItemRequest{Description: "Posters", Quantity: 1, UnitPrice: 100})
	require.NoError(t, inv.MarkSent())
	inv.ClearDomainEvents()

	invoiceRepo.On("FindByInvoiceNumber", mock.Anything, inv.InvoiceNumber).Return(inv, nil)
	idempotency.On("MarkProcessed", mock.Anything, "payment:gateway:txn_789", gatewayKeyTTL).
		Return(false, nil)

	resp, err := svc.HandleGatewayPayment(context.Background(), uuid.New(), GatewayPaymentNotice{
		InvoiceNumber:     inv.InvoiceNumber,
		Amount:            100,
		Currency:          "AED",
		ExternalReference: "txn_789",
	})
	require.NoError(t, err)

	assert.Empty(t, inv.Payments)
	assert.Equal(t, "SENT", resp.Status)
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestHandleGatewayPayment_FailedApplyReleasesReference(t *testing.T) {
	svc, invoiceRepo, _, idempotency := newTestService(t)

	inv := newStoredInvoice(t, InvoiceItemRequest{Description: "Posters", Quantity: 1, UnitPrice: 100})
	require.NoError(t, inv.MarkSent())
	inv.ClearDomainEvents()

	invoiceRepo.On("FindByInvoiceNumber", mock.Anything, inv.InvoiceNumber).Return(inv, nil)
	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", mock.Anything, inv).Return(shared.ErrConcurrencyConflict)
	idempotency.On("MarkProcessed", mock.Anything, "payment:gateway:txn_791", gatewayKeyTTL).
		Return(true, nil)
	idempotency.On("Forget", mock.Anything, "payment:gateway:txn_791").Return(nil)

	_, err := svc.HandleGatewayPayment(context.Background(), uuid.New(), GatewayPaymentNotice{
		InvoiceNumber:     inv.InvoiceNumber,
		Amount:            100,
		Currency:          "AED",
		ExternalReference: "txn_791",
	})
	require.Error(t, err)

	// the reference must be released so the gateway's redelivery can
	// still apply the payment
	idempotency.AssertCalled(t, "Forget", mock.Anything, "payment:gateway:txn_791")
}

func TestHandleGatewayPayment_UnknownInvoiceAcknowledged(t *testing.T) {
	svc, invoiceRepo, _, idempotency := newTestService(t)

	invoiceRepo.On("FindByInvoiceNumber", mock.Anything, "INV20269999").Return(nil, shared.ErrNotFound)
	idempotency.On("MarkProcessed", mock.Anything, "payment:gateway:txn_792", gatewayKeyTTL).
		Return(true, nil)

	resp, err := svc.HandleGatewayPayment(context.Background(), uuid.New(), GatewayPaymentNotice{
		InvoiceNumber:     "INV20269999",
		Amount:            100,
		Currency:          "AED",
		ExternalReference: "txn_792",
	})

	// the notice is swallowed but the reference stays marked so the
	// gateway stops redelivering it
	require.NoError(t, err)
	assert.Nil(t, resp)
	idempotency.AssertExpectations(t)
	idempotency.AssertNotCalled(t, "Forget", mock.Anything, mock.Anything)
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestHandleGatewayPayment_CurrencyMismatch(t *testing.T) {
	svc, invoiceRepo, _, idempotency := newTestService(t)

	inv := newStoredInvoice(t, InvoiceItemRequest{Description: "Posters", Quantity: 1, UnitPrice: 100})
	invoiceRepo.On("FindByInvoiceNumber", mock.Anything, inv.InvoiceNumber).Return(inv, nil)

	_, err := svc.HandleGatewayPayment(context.Background(), uuid.New(), GatewayPaymentNotice{
		InvoiceNumber:     inv.InvoiceNumber,
		Amount:            100,
		Currency:          "USD",
		ExternalReference: "txn_790",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidCurrency, domainErr.Code)
	idempotency.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendInvoice_EmptyRefused(t *testing.T) {
	svc, invoiceRepo, _, _ := newTestService(t)

	inv := newStoredInvoice(t)
	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	_, err := svc.SendInvoice(context.Background(), inv.ID)
	assert.Error(t, err)
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestAddInvoiceItem_RecomputesLedger(t *testing.T) {
	svc, invoiceRepo, _, _ := newTestService(t)

	inv := newStoredInvoice(t, InvoiceItemRequest{Description: "Flyers", Quantity: 10, UnitPrice: 5})
	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", mock.Anything, inv).Return(nil)

	resp, err := svc.AddInvoiceItem(context.Background(), inv.ID, InvoiceItemRequest{
		Description:     "Banner printing",
		Quantity:        2,
		UnitPrice:       100,
		DiscountPercent: 10,
		Tax:             5,
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "235.00", resp.Total)
}

func TestSweepOverdue(t *testing.T) {
	svc, invoiceRepo, _, _ := newTestService(t)

	past := newStoredInvoice(t, InvoiceItemRequest{Description: "Posters", Quantity: 1, UnitPrice: 100})
	past.DueDate = time.Now().Add(-48 * time.Hour)

	invoiceRepo.On("FindOverdue", mock.Anything, mock.AnythingOfType("time.Time"), 100).
		Return([]billing.Invoice{*past}, nil)

	flagged, err := svc.SweepOverdue(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 1, flagged)
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestRetriesOnConflict(t *testing.T) {
	svc, invoiceRepo, _, _ := newTestService(t)

	inv := newStoredInvoice(t)
	invoiceRepo.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	invoiceRepo.On("SaveWithLock", mock.Anything, inv).Return(shared.ErrConcurrencyConflict).Times(maxConflictRetries)

	_, err := svc.AddInvoiceItem(context.Background(), inv.ID, InvoiceItemRequest{
		Description: "Posters",
		Quantity:    1,
		UnitPrice:   100,
	})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	invoiceRepo.AssertNumberOfCalls(t, "SaveWithLock", maxConflictRetries)
}
