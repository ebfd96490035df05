package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printflow/backend/internal/domain/billing"
	"github.com/printflow/backend/internal/domain/document"
	"github.com/printflow/backend/internal/domain/production"
	"github.com/printflow/backend/internal/domain/project"
	"github.com/printflow/backend/internal/domain/shared"
)

// Notification is one rendered message bound for an external channel
type Notification struct {
	Topic       string
	Subject     string
	Body        string
	AggregateID uuid.UUID
}

// Notifier delivers notifications to an external channel (email, chat, SMS).
// Delivery is best effort; a failed delivery must not fail the operation
// that raised the event.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Dispatcher routes workflow events from the event bus to the notifier.
// It implements shared.EventHandler.
type Dispatcher struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(notifier Notifier, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{notifier: notifier, logger: logger}
}

// Register subscribes the dispatcher on the event bus
func (d *Dispatcher) Register(bus shared.EventSubscriber) {
	bus.Subscribe(d, d.EventTypes()...)
}

// EventTypes returns the workflow events that produce notifications
func (d *Dispatcher) EventTypes() []string {
	return []string{
		project.EventTypeProjectCompleted,
		project.EventTypeTaskCompleted,
		production.EventTypePrintJobStatusChanged,
		production.EventTypePrintJobFailed,
		billing.EventTypeInvoiceSent,
		billing.EventTypeInvoicePaid,
		billing.EventTypeInvoiceOverdue,
		document.EventTypeFileApprovalChanged,
	}
}

// Handle renders the event into a notification and delivers it
func (d *Dispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	n, ok := d.render(event)
	if !ok {
		return nil
	}
	n.AggregateID = event.AggregateID()

	if err := d.notifier.Notify(ctx, n); err != nil {
		d.logger.Warn("notification delivery failed",
			zap.String("topic", n.Topic),
			zap.String("event", event.EventType()),
			zap.Error(err))
	}
	return nil
}

func (d *Dispatcher) render(event shared.DomainEvent) (Notification, bool) {
	switch ev := event.(type) {
	case *project.ProjectCompletedEvent:
		return Notification{
			Topic:   "projects",
			Subject: "Project completed",
			Body:    fmt.Sprintf("Project %q has been completed.", ev.Name),
		}, true
	case *project.TaskCompletedEvent:
		return Notification{
			Topic:   "projects",
			Subject: "Task completed",
			Body:    fmt.Sprintf("Task %q is done.", ev.Title),
		}, true
	case *production.PrintJobStatusChangedEvent:
		return Notification{
			Topic:   "production",
			Subject: "Print job " + ev.JobNumber,
			Body:    fmt.Sprintf("Job %s moved from %s to %s.", ev.JobNumber, ev.OldStatus, ev.NewStatus),
		}, true
	case *production.PrintJobFailedEvent:
		return Notification{
			Topic:   "production",
			Subject: "Print job failed",
			Body:    fmt.Sprintf("Job %s failed while in %s.", ev.JobNumber, ev.FromStatus),
		}, true
	case *billing.InvoiceSentEvent:
		return Notification{
			Topic:   "billing",
			Subject: "Invoice " + ev.InvoiceNumber + " issued",
			Body:    fmt.Sprintf("Invoice %s for %s %s has been sent.", ev.InvoiceNumber, ev.Total, ev.Currency),
		}, true
	case *billing.InvoicePaidEvent:
		return Notification{
			Topic:   "billing",
			Subject: "Invoice " + ev.InvoiceNumber + " paid",
			Body:    fmt.Sprintf("Invoice %s has been settled in full (%s %s).", ev.InvoiceNumber, ev.Total, ev.Currency),
		}, true
	case *billing.InvoiceOverdueEvent:
		return Notification{
			Topic:   "billing",
			Subject: "Invoice " + ev.InvoiceNumber + " overdue",
			Body:    fmt.Sprintf("Invoice %s is past due with %s %s outstanding.", ev.InvoiceNumber, ev.Balance, ev.Currency),
		}, true
	case *document.FileApprovalChangedEvent:
		return Notification{
			Topic:   "documents",
			Subject: "File review updated",
			Body:    fmt.Sprintf("File %q v%d is now %s.", ev.OriginalName, ev.VersionNumber, ev.Status),
		}, true
	}
	return Notification{}, false
}
