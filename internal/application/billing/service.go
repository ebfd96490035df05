package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/printflow/backend/internal/domain/billing"
	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/domain/shared/valueobject"
)

const (
	maxConflictRetries = 3

	// gatewayKeyTTL bounds how long a processed gateway reference is
	// remembered. Gateways retry webhooks for days, not months.
	gatewayKeyTTL = 30 * 24 * time.Hour
)

// IdempotencyStore remembers externally supplied payment references so a
// redelivered gateway notice is applied at most once.
type IdempotencyStore interface {
	// MarkProcessed records the key and reports whether this call was the
	// first to do so. A false return means the key was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Forget removes a previously marked key so a redelivery can retry.
	Forget(ctx context.Context, key string) error
}

// BillingService implements invoice and payment use cases
type BillingService struct {
	invoiceRepo billing.InvoiceRepository
	numbers     shared.NumberAllocator
	idempotency IdempotencyStore
	eventBus    shared.EventBus
	logger      *zap.Logger
}

// NewBillingService creates a new billing service
func NewBillingService(
	invoiceRepo billing.InvoiceRepository,
	numbers shared.NumberAllocator,
	idempotency IdempotencyStore,
	eventBus shared.EventBus,
	logger *zap.Logger,
) *BillingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingService{
		invoiceRepo: invoiceRepo,
		numbers:     numbers,
		idempotency: idempotency,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// CreateInvoice opens a new draft invoice. The invoice number is allocated
// before the aggregate is built; an allocated number is not reused if the
// save fails.
func (s *BillingService) CreateInvoice(ctx context.Context, actorID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid project ID")
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid client ID")
	}

	invoiceNumber, err := s.numbers.Next(ctx, shared.NumberKindInvoice, time.Now().Year())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
	}

	inv, err := billing.NewInvoice(invoiceNumber, projectID, clientID, valueobject.Currency(req.Currency), req.DueDate, actorID)
	if err != nil {
		return nil, err
	}

	if req.Type != "" {
		if err := inv.SetType(billing.InvoiceType(req.Type)); err != nil {
			return nil, err
		}
	}
	if req.PaymentTerms != "" {
		inv.PaymentTerms = req.PaymentTerms
	}

	for _, it := range req.Items {
		unitPrice, err := valueobject.NewMoneyFromFloat(it.UnitPrice, inv.Currency)
		if err != nil {
			return nil, err
		}
		if _, err := inv.AddItem(it.Description, it.Quantity, unitPrice,
			decimal.NewFromFloat(it.DiscountPercent), decimal.NewFromFloat(it.Tax)); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	s.publishEvents(ctx, inv.GetDomainEvents())
	inv.ClearDomainEvents()

	s.logger.Info("invoice created",
		zap.String("id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("total", inv.Total.StringFixed(2)))

	return ToInvoiceResponse(inv), nil
}

// GetInvoice returns a single invoice
func (s *BillingService) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// GetInvoiceByNumber returns a single invoice by its document number
func (s *BillingService) GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// ListInvoices returns invoices matching the filter
func (s *BillingService) ListInvoices(ctx context.Context, req ListInvoicesRequest) (*shared.Paginated[*InvoiceResponse], error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	total, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	items := make([]*InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, ToInvoiceResponse(&invoices[i]))
	}

	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// AddInvoiceItem appends a line item to a draft invoice
func (s *BillingService) AddInvoiceItem(ctx context.Context, id uuid.UUID, req InvoiceItemRequest) (*InvoiceResponse, error) {
	return s.mutateInvoice(ctx, id, func(inv *billing.Invoice) error {
		unitPrice, err := valueobject.NewMoneyFromFloat(req.UnitPrice, inv.Currency)
		if err != nil {
			return err
		}
		_, err = inv.AddItem(req.Description, req.Quantity, unitPrice,
			decimal.NewFromFloat(req.DiscountPercent), decimal.NewFromFloat(req.Tax))
		return err
	})
}

// RemoveInvoiceItem removes a line item from a draft invoice
func (s *BillingService) RemoveInvoiceItem(ctx context.Context, id, itemID uuid.UUID) (*InvoiceResponse, error) {
	return s.mutateInvoice(ctx, id, func(inv *billing.Invoice) error {
		return inv.RemoveItem(itemID)
	})
}

// SendInvoice issues a draft invoice to the client
func (s *BillingService) SendInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	return s.mutateInvoice(ctx, id, func(inv *billing.Invoice) error {
		return inv.MarkSent()
	})
}

// MarkInvoiceViewed records that the client opened the invoice
func (s *BillingService) MarkInvoiceViewed(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	return s.mutateInvoice(ctx, id, func(inv *billing.Invoice) error {
		return inv.MarkViewed()
	})
}

// CancelInvoice voids an unpaid invoice
func (s *BillingService) CancelInvoice(ctx context.Context, id uuid.UUID, req CancelInvoiceRequest) (*InvoiceResponse, error) {
	return s.mutateInvoice(ctx, id, func(inv *billing.Invoice) error {
		return inv.Cancel(req.Reason)
	})
}

// RecordPayment appends a manually recorded settlement to the invoice ledger
func (s *BillingService) RecordPayment(ctx context.Context, id, actorID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	return s.mutateInvoice(ctx, id, func(inv *billing.Invoice) error {
		amount, err := valueobject.NewMoneyFromFloat(req.Amount, inv.Currency)
		if err != nil {
			return err
		}
		return inv.RecordPayment(amount, date, billing.PaymentMethod(req.Method), req.Reference, actorID)
	})
}

// HandleGatewayPayment applies a payment gateway notice to its invoice.
// The gateway's external reference is the idempotency key: the first
// delivery is applied, every redelivery is acknowledged without effect.
// A notice for an unknown invoice is acknowledged too, so the gateway
// stops redelivering something we can never apply.
func (s *BillingService) HandleGatewayPayment(ctx context.Context, actorID uuid.UUID, notice GatewayPaymentNotice) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByInvoiceNumber(ctx, notice.InvoiceNumber)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if inv != nil && inv.Currency != valueobject.Currency(notice.Currency) {
		return nil, shared.NewDomainError(shared.CodeInvalidCurrency,
			"Gateway payment currency does not match the invoice")
	}

	key := "payment:gateway:" + notice.ExternalReference
	first, err := s.idempotency.MarkProcessed(ctx, key, gatewayKeyTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to check gateway reference: %w", err)
	}
	if !first {
		s.logger.Info("gateway payment already processed",
			zap.String("invoice_number", notice.InvoiceNumber),
			zap.String("reference", notice.ExternalReference))
		if inv == nil {
			return nil, nil
		}
		return ToInvoiceResponse(inv), nil
	}

	if inv == nil {
		s.logger.Warn("gateway payment references unknown invoice",
			zap.String("invoice_number", notice.InvoiceNumber),
			zap.String("reference", notice.ExternalReference))
		return nil, nil
	}

	date := notice.ReceivedAt
	if date.IsZero() {
		date = time.Now()
	}

	resp, err := s.mutateInvoice(ctx, inv.ID, func(inv *billing.Invoice) error {
		amount, err := valueobject.NewMoneyFromFloat(notice.Amount, inv.Currency)
		if err != nil {
			return err
		}
		return inv.RecordPayment(amount, date, billing.PaymentMethodOnline, notice.ExternalReference, actorID)
	})
	if err != nil {
		// release the mark so a redelivery can apply the payment
		if ferr := s.idempotency.Forget(ctx, key); ferr != nil {
			s.logger.Error("failed to release gateway reference",
				zap.String("reference", notice.ExternalReference), zap.Error(ferr))
		}
		return nil, err
	}
	return resp, nil
}

// SweepOverdue emits an overdue event for every open invoice past its due
// date. Statuses are never rewritten: OVERDUE is derived on read, so the
// sweep only drives notifications. Returns the number of invoices flagged.
func (s *BillingService) SweepOverdue(ctx context.Context, limit int) (int, error) {
	invoices, err := s.invoiceRepo.FindOverdue(ctx, time.Now(), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to find overdue invoices: %w", err)
	}

	for i := range invoices {
		s.publishEvents(ctx, []shared.DomainEvent{billing.NewInvoiceOverdueEvent(&invoices[i])})
	}

	if len(invoices) > 0 {
		s.logger.Info("overdue sweep completed", zap.Int("flagged", len(invoices)))
	}
	return len(invoices), nil
}

// mutateInvoice loads, mutates and saves an invoice with conflict retry,
// then publishes any events the mutation raised.
func (s *BillingService) mutateInvoice(ctx context.Context, id uuid.UUID, mutate func(*billing.Invoice) error) (*InvoiceResponse, error) {
	var result *billing.Invoice

	err := s.retryOnConflict(func() error {
		inv, err := s.invoiceRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := mutate(inv); err != nil {
			return err
		}
		if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
			return err
		}
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, result.GetDomainEvents())
	result.ClearDomainEvents()

	return ToInvoiceResponse(result), nil
}

func (s *BillingService) retryOnConflict(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

func (s *BillingService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventBus == nil {
		return
	}
	for _, ev := range events {
		if err := s.eventBus.Publish(ctx, ev); err != nil {
			s.logger.Error("failed to publish event",
				zap.String("type", ev.EventType()),
				zap.Error(err))
		}
	}
}
