package production

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/printflow/backend/internal/domain/shared"
)

// Criterion is a single inspected aspect of a production run
type Criterion struct {
	Parameter CriterionParameter `json:"parameter"`
	Status    CriterionStatus    `json:"status"`
	Notes     string             `json:"notes,omitempty"`
	Evidence  []string           `json:"evidence,omitempty"`
}

// Criteria is a slice of Criterion that implements GORM Scanner/Valuer for JSONB storage
type Criteria []Criterion

// Value implements driver.Valuer interface for GORM to store as JSONB
func (c Criteria) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (c *Criteria) Scan(value interface{}) error {
	if value == nil {
		*c = Criteria{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Criteria: unsupported type")
	}

	if len(bytes) == 0 {
		*c = Criteria{}
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// QualityCheck records one inspection of a print job's output.
// PassRate is supplied by the inspector and validated for range only; it is
// never recomputed from criteria, since sample size may exceed the number of
// recorded criteria.
type QualityCheck struct {
	shared.AuditedAggregateRoot
	PrintJobID       uuid.UUID
	InspectorID      uuid.UUID
	CheckType        CheckType
	SampleSize       int
	Criteria         Criteria
	OverallStatus    Verdict
	DefectCount      int
	PassRate         int
	Notes            string
	Recommendations  string
	FollowUpRequired bool
	FollowUpDate     *time.Time
}

// NewQualityCheck records a completed inspection
func NewQualityCheck(printJobID, inspectorID uuid.UUID, checkType CheckType, sampleSize int, criteria []Criterion, overallStatus Verdict, defectCount, passRate int) (*QualityCheck, error) {
	if printJobID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Print job ID cannot be empty")
	}
	if inspectorID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Inspector ID cannot be empty")
	}
	if !checkType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid check type")
	}
	if sampleSize < 1 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Sample size must be at least 1")
	}
	if !overallStatus.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid overall status")
	}
	if defectCount < 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Defect count cannot be negative")
	}
	if passRate < 0 || passRate > 100 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Pass rate must be between 0 and 100")
	}
	for _, cr := range criteria {
		if !cr.Parameter.IsValid() {
			return nil, shared.NewDomainError(shared.CodeValidation, "Invalid criterion parameter: "+string(cr.Parameter))
		}
		if !cr.Status.IsValid() {
			return nil, shared.NewDomainError(shared.CodeValidation, "Invalid criterion status: "+string(cr.Status))
		}
	}

	qc := &QualityCheck{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(inspectorID),
		PrintJobID:           printJobID,
		InspectorID:          inspectorID,
		CheckType:            checkType,
		SampleSize:           sampleSize,
		Criteria:             criteria,
		OverallStatus:        overallStatus,
		DefectCount:          defectCount,
		PassRate:             passRate,
	}

	qc.AddDomainEvent(NewQualityCheckRecordedEvent(qc))

	return qc, nil
}

// RequireFollowUp flags the check for a follow-up inspection
func (qc *QualityCheck) RequireFollowUp(date time.Time) {
	qc.FollowUpRequired = true
	qc.FollowUpDate = &date
	qc.Touch()
	qc.IncrementVersion()
}

// FailedCriteria returns the criteria that did not pass
func (qc *QualityCheck) FailedCriteria() []Criterion {
	var failed []Criterion
	for _, cr := range qc.Criteria {
		if cr.Status == CriterionFail {
			failed = append(failed, cr)
		}
	}
	return failed
}

// GateResult is the quality gate's aggregate outcome for a print job
type GateResult struct {
	Verdict  Verdict
	PassRate int
	CheckID  uuid.UUID
}

// AggregateVerdict reduces a job's quality checks to the gate verdict:
// the most recently recorded check decides. The second return is false when
// no checks exist, in which case completion must be refused.
func AggregateVerdict(checks []*QualityCheck) (GateResult, bool) {
	if len(checks) == 0 {
		return GateResult{}, false
	}

	latest := checks[0]
	for _, qc := range checks[1:] {
		if qc.CreatedAt.After(latest.CreatedAt) {
			latest = qc
		}
	}

	return GateResult{
		Verdict:  latest.OverallStatus,
		PassRate: latest.PassRate,
		CheckID:  latest.ID,
	}, true
}
