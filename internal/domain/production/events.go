package production

import (
	"github.com/printflow/backend/internal/domain/shared"
)

// Event types for the production domain
const (
	EventTypePrintJobCreated       = "print_job.created"
	EventTypePrintJobStatusChanged = "print_job.status_changed"
	EventTypePrintJobCompleted     = "print_job.completed"
	EventTypePrintJobFailed        = "print_job.failed"
	EventTypeQualityCheckRecorded  = "quality_check.recorded"
)

// PrintJobCreatedEvent is emitted when a new print job is created
type PrintJobCreatedEvent struct {
	shared.BaseDomainEvent
	JobNumber string      `json:"job_number"`
	ProjectID string      `json:"project_id"`
	Machine   MachineType `json:"machine"`
	Ordered   int         `json:"ordered"`
}

func NewPrintJobCreatedEvent(j *PrintJob) *PrintJobCreatedEvent {
	return &PrintJobCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePrintJobCreated, "PrintJob", j.ID),
		JobNumber:       j.JobNumber,
		ProjectID:       j.ProjectID.String(),
		Machine:         j.Machine,
		Ordered:         j.Quantity.Ordered,
	}
}

// PrintJobStatusChangedEvent is emitted on every production status transition
type PrintJobStatusChangedEvent struct {
	shared.BaseDomainEvent
	JobNumber string    `json:"job_number"`
	OldStatus JobStatus `json:"old_status"`
	NewStatus JobStatus `json:"new_status"`
}

func NewPrintJobStatusChangedEvent(j *PrintJob, oldStatus, newStatus JobStatus) *PrintJobStatusChangedEvent {
	return &PrintJobStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePrintJobStatusChanged, "PrintJob", j.ID),
		JobNumber:       j.JobNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// PrintJobCompletedEvent is emitted when a job passes the quality gate and completes
type PrintJobCompletedEvent struct {
	shared.BaseDomainEvent
	JobNumber string `json:"job_number"`
	ProjectID string `json:"project_id"`
	TotalCost string `json:"total_cost"`
}

func NewPrintJobCompletedEvent(j *PrintJob) *PrintJobCompletedEvent {
	return &PrintJobCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePrintJobCompleted, "PrintJob", j.ID),
		JobNumber:       j.JobNumber,
		ProjectID:       j.ProjectID.String(),
		TotalCost:       j.Cost.Total.String(),
	}
}

// PrintJobFailedEvent is emitted when a job is routed to FAILED
type PrintJobFailedEvent struct {
	shared.BaseDomainEvent
	JobNumber  string    `json:"job_number"`
	FromStatus JobStatus `json:"from_status"`
}

func NewPrintJobFailedEvent(j *PrintJob, fromStatus JobStatus) *PrintJobFailedEvent {
	return &PrintJobFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePrintJobFailed, "PrintJob", j.ID),
		JobNumber:       j.JobNumber,
		FromStatus:      fromStatus,
	}
}

// QualityCheckRecordedEvent is emitted when an inspection is recorded
type QualityCheckRecordedEvent struct {
	shared.BaseDomainEvent
	PrintJobID    string  `json:"print_job_id"`
	InspectorID   string  `json:"inspector_id"`
	OverallStatus Verdict `json:"overall_status"`
	PassRate      int     `json:"pass_rate"`
	DefectCount   int     `json:"defect_count"`
}

func NewQualityCheckRecordedEvent(qc *QualityCheck) *QualityCheckRecordedEvent {
	return &QualityCheckRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQualityCheckRecorded, "QualityCheck", qc.ID),
		PrintJobID:      qc.PrintJobID.String(),
		InspectorID:     qc.InspectorID.String(),
		OverallStatus:   qc.OverallStatus,
		PassRate:        qc.PassRate,
		DefectCount:     qc.DefectCount,
	}
}
