package production

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/domain/shared/valueobject"
)

// Quality gate refusal; distinct from ILLEGAL_TRANSITION so callers can
// offer the override path.
const CodeQualityGateBlocked = "QUALITY_GATE_BLOCKED"

// Quantities tracks the unit counts of a production run
type Quantities struct {
	Ordered  int `json:"ordered"`
	Printed  int `json:"printed"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (q Quantities) Value() (driver.Value, error) {
	return json.Marshal(q)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (q *Quantities) Scan(value interface{}) error {
	if value == nil {
		*q = Quantities{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Quantities: unsupported type")
	}

	if len(bytes) == 0 {
		*q = Quantities{}
		return nil
	}

	return json.Unmarshal(bytes, q)
}

// Cost is the cost breakdown of a production run. Total is always the sum
// of the three components; it is recomputed inside every mutation and never
// written directly.
type Cost struct {
	Materials valueobject.Money
	Labor     valueobject.Money
	Overhead  valueobject.Money
	Total     valueobject.Money
}

// Note is an operator annotation on a print job
type Note struct {
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	Type      NoteType  `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Notes is a slice of Note that implements GORM Scanner/Valuer for JSONB storage
type Notes []Note

// Value implements driver.Valuer interface for GORM to store as JSONB
func (n Notes) Value() (driver.Value, error) {
	if n == nil {
		return "[]", nil
	}
	return json.Marshal(n)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (n *Notes) Scan(value interface{}) error {
	if value == nil {
		*n = Notes{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Notes: unsupported type")
	}

	if len(bytes) == 0 {
		*n = Notes{}
		return nil
	}

	return json.Unmarshal(bytes, n)
}

// Timeline tracks the scheduled and actual run times of a job
type Timeline struct {
	ScheduledStart      *time.Time
	ActualStart         *time.Time
	EstimatedCompletion *time.Time
	ActualCompletion    *time.Time
}

// PrintJob is a production run of printed material for a project. Its job
// number is allocated once at creation and never changes; its lifecycle is
// the pending → in-queue → printing → quality-check → completed machine,
// with the completion transition gated by the latest quality verdict.
type PrintJob struct {
	shared.AuditedAggregateRoot
	JobNumber       string
	ProjectID       uuid.UUID
	Title           string
	Description     string
	Status          JobStatus
	Priority        Priority
	Machine         MachineType
	OperatorID      *uuid.UUID
	FileIDs         shared.UUIDList
	QualityCheckIDs shared.UUIDList
	Spec            *Spec
	Quantity        Quantities
	Cost            Cost
	Timeline        Timeline
	Notes           Notes
	Progress        int
}

// NewPrintJob creates a new job in PENDING status. The job number comes
// from the number allocator and is recorded exactly once here.
func NewPrintJob(jobNumber string, projectID uuid.UUID, title string, machine MachineType, orderedQty int, currency valueobject.Currency, createdBy uuid.UUID) (*PrintJob, error) {
	if jobNumber == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Job number cannot be empty")
	}
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Project ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Job title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Job title cannot exceed 200 characters")
	}
	if !machine.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid machine type")
	}
	if orderedQty < 1 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Ordered quantity must be at least 1")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidCurrency, "Invalid currency: "+string(currency))
	}

	zero := valueobject.Zero(currency)
	job := &PrintJob{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		JobNumber:            jobNumber,
		ProjectID:            projectID,
		Title:                title,
		Status:               JobStatusPending,
		Priority:             PriorityMedium,
		Machine:              machine,
		FileIDs:              shared.UUIDList{},
		QualityCheckIDs:      shared.UUIDList{},
		Quantity:             Quantities{Ordered: orderedQty},
		Cost:                 Cost{Materials: zero, Labor: zero, Overhead: zero, Total: zero},
		Notes:                Notes{},
	}

	job.AddDomainEvent(NewPrintJobCreatedEvent(job))

	return job, nil
}

// TransitionTo moves the job through the production state machine. The
// completion transition additionally consults the quality gate: approved
// passes, conditional passes only with the override flag, rejected blocks
// and the caller must route the job back to PRINTING or to FAILED instead.
func (j *PrintJob) TransitionTo(target JobStatus, gate *GateResult, override bool) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid job status")
	}
	if target == j.Status {
		return nil
	}
	if !j.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeIllegalTransition,
			"Cannot transition print job from "+j.Status.String()+" to "+target.String())
	}

	if target == JobStatusCompleted {
		if err := j.checkQualityGate(gate, override); err != nil {
			return err
		}
	}

	old := j.Status
	j.Status = target
	now := time.Now()

	switch target {
	case JobStatusPrinting:
		if j.Timeline.ActualStart == nil {
			j.Timeline.ActualStart = &now
		}
	case JobStatusCompleted:
		j.Timeline.ActualCompletion = &now
		j.Progress = 100
		j.AddDomainEvent(NewPrintJobCompletedEvent(j))
	case JobStatusFailed:
		j.AddDomainEvent(NewPrintJobFailedEvent(j, old))
	}

	j.UpdatedAt = now
	j.IncrementVersion()
	j.AddDomainEvent(NewPrintJobStatusChangedEvent(j, old, target))

	return nil
}

func (j *PrintJob) checkQualityGate(gate *GateResult, override bool) error {
	if gate == nil {
		return shared.NewDomainError(CodeQualityGateBlocked,
			"Cannot complete print job without a quality check")
	}
	switch gate.Verdict {
	case VerdictApproved:
		return nil
	case VerdictConditional:
		if override {
			return nil
		}
		return shared.NewDomainError(CodeQualityGateBlocked,
			"Latest quality verdict is conditional; completion requires an explicit override")
	default:
		return shared.NewDomainError(CodeQualityGateBlocked,
			"Latest quality verdict is rejected; reprint or fail the job")
	}
}

// SetCosts replaces the cost components and recomputes the total
func (j *PrintJob) SetCosts(materials, labor, overhead valueobject.Money) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change costs of a job in terminal state")
	}

	currency := j.Cost.Total.Currency()
	for _, m := range []valueobject.Money{materials, labor, overhead} {
		if m.IsNegative() {
			return shared.NewDomainError(shared.CodeValidation, "Cost components cannot be negative")
		}
		if m.Currency() != currency {
			return shared.NewDomainError(shared.CodeInvalidCurrency,
				"Cost component currency does not match job currency")
		}
	}

	total, err := materials.Add(labor)
	if err != nil {
		return err
	}
	total, err = total.Add(overhead)
	if err != nil {
		return err
	}

	j.Cost = Cost{Materials: materials, Labor: labor, Overhead: overhead, Total: total}
	j.Touch()
	j.IncrementVersion()

	return nil
}

// RecordQuantities updates the produced unit counts and derives progress
// from printed over ordered, capped at 100.
func (j *PrintJob) RecordQuantities(printed, approved, rejected int) error {
	if printed < 0 || approved < 0 || rejected < 0 {
		return shared.NewDomainError(shared.CodeValidation, "Quantities cannot be negative")
	}
	if approved+rejected > printed {
		return shared.NewDomainError(shared.CodeValidation,
			"Approved plus rejected units cannot exceed printed units")
	}

	j.Quantity.Printed = printed
	j.Quantity.Approved = approved
	j.Quantity.Rejected = rejected

	if j.Status != JobStatusCompleted {
		progress := roundPercent(printed, j.Quantity.Ordered)
		if progress > 100 {
			progress = 100
		}
		j.Progress = progress
	}

	j.Touch()
	j.IncrementVersion()

	return nil
}

// AttachFile links an artwork file to the job
func (j *PrintJob) AttachFile(fileID uuid.UUID) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot attach files to a job in terminal state")
	}
	if j.FileIDs.Contains(fileID) {
		return nil
	}
	j.FileIDs = append(j.FileIDs, fileID)
	j.Touch()
	j.IncrementVersion()
	return nil
}

// RecordQualityCheck links a recorded quality check to the job
func (j *PrintJob) RecordQualityCheck(checkID uuid.UUID) {
	if j.QualityCheckIDs.Contains(checkID) {
		return
	}
	j.QualityCheckIDs = append(j.QualityCheckIDs, checkID)
	j.Touch()
	j.IncrementVersion()
}

// AssignOperator sets the machine operator for this job
func (j *PrintJob) AssignOperator(userID uuid.UUID) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign an operator to a job in terminal state")
	}
	j.OperatorID = &userID
	j.Touch()
	j.IncrementVersion()
	return nil
}

// SetSpec records how the job is to be printed. The specification is frozen
// once the run leaves the queue.
func (j *PrintJob) SetSpec(spec Spec) error {
	if j.Status != JobStatusPending && j.Status != JobStatusInQueue {
		return shared.NewDomainError("INVALID_STATE",
			"Specification can only change before printing starts")
	}

	spec.applyDefaults()
	if err := spec.Validate(); err != nil {
		return err
	}

	j.Spec = &spec
	j.Touch()
	j.IncrementVersion()
	return nil
}

// Schedule sets the planned start and estimated completion times
func (j *PrintJob) Schedule(start, estimatedCompletion time.Time) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot schedule a job in terminal state")
	}
	if estimatedCompletion.Before(start) {
		return shared.NewDomainError(shared.CodeValidation, "Estimated completion cannot be before scheduled start")
	}
	j.Timeline.ScheduledStart = &start
	j.Timeline.EstimatedCompletion = &estimatedCompletion
	j.Touch()
	j.IncrementVersion()
	return nil
}

// AddNote appends an operator note
func (j *PrintJob) AddNote(authorID uuid.UUID, content string, noteType NoteType) error {
	if authorID == uuid.Nil {
		return shared.NewDomainError(shared.CodeValidation, "Note author cannot be empty")
	}
	if content == "" {
		return shared.NewDomainError(shared.CodeValidation, "Note content cannot be empty")
	}
	if len(content) > 1000 {
		return shared.NewDomainError(shared.CodeValidation, "Note content cannot exceed 1000 characters")
	}
	if !noteType.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid note type")
	}

	j.Notes = append(j.Notes, Note{
		AuthorID:  authorID,
		Content:   content,
		Type:      noteType,
		CreatedAt: time.Now(),
	})
	j.Touch()
	j.IncrementVersion()

	return nil
}

// SetPriority updates the job priority
func (j *PrintJob) SetPriority(p Priority) error {
	if !p.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid priority")
	}
	j.Priority = p
	j.Touch()
	j.IncrementVersion()
	return nil
}

// YieldRate returns approved units over printed units as a percentage,
// or 0 when nothing has been printed yet
func (j *PrintJob) YieldRate() int {
	if j.Quantity.Printed == 0 {
		return 0
	}
	return roundPercent(j.Quantity.Approved, j.Quantity.Printed)
}

// roundPercent computes round-half-up(100 * part / total)
func roundPercent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}
