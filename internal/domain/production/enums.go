package production

// JobStatus represents the production status of a print job
type JobStatus string

const (
	JobStatusPending      JobStatus = "PENDING"
	JobStatusInQueue      JobStatus = "IN_QUEUE"
	JobStatusPrinting     JobStatus = "PRINTING"
	JobStatusQualityCheck JobStatus = "QUALITY_CHECK"
	JobStatusCompleted    JobStatus = "COMPLETED"
	JobStatusFailed       JobStatus = "FAILED"
)

// IsValid checks if the JobStatus is a valid value
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusInQueue, JobStatusPrinting,
		JobStatusQualityCheck, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo checks if the status can transition to the target status.
// QUALITY_CHECK may loop back to PRINTING when a check rejects the run.
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobStatusPending:
		return target == JobStatusInQueue
	case JobStatusInQueue:
		return target == JobStatusPrinting || target == JobStatusFailed
	case JobStatusPrinting:
		return target == JobStatusQualityCheck || target == JobStatusFailed
	case JobStatusQualityCheck:
		return target == JobStatusCompleted || target == JobStatusPrinting || target == JobStatusFailed
	case JobStatusCompleted, JobStatusFailed:
		return false
	}
	return false
}

// AllJobStatuses returns all valid JobStatus values
func AllJobStatuses() []JobStatus {
	return []JobStatus{
		JobStatusPending, JobStatusInQueue, JobStatusPrinting,
		JobStatusQualityCheck, JobStatusCompleted, JobStatusFailed,
	}
}

// Priority represents how urgently a job should be run
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// IsValid checks if the Priority is a valid value
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// String returns the string representation of Priority
func (p Priority) String() string {
	return string(p)
}

// MachineType represents the press or finishing machine a job runs on
type MachineType string

const (
	MachineOffsetPress    MachineType = "OFFSET_PRESS"
	MachineDigitalPress   MachineType = "DIGITAL_PRESS"
	MachineLargeFormat    MachineType = "LARGE_FORMAT"
	MachineCuttingMachine MachineType = "CUTTING_MACHINE"
	MachineBindingMachine MachineType = "BINDING_MACHINE"
)

// IsValid checks if the MachineType is a valid value
func (m MachineType) IsValid() bool {
	switch m {
	case MachineOffsetPress, MachineDigitalPress, MachineLargeFormat,
		MachineCuttingMachine, MachineBindingMachine:
		return true
	}
	return false
}

// String returns the string representation of MachineType
func (m MachineType) String() string {
	return string(m)
}

// CheckType represents when in the production run a quality check is taken
type CheckType string

const (
	CheckTypePreProduction CheckType = "PRE_PRODUCTION"
	CheckTypeMidProduction CheckType = "MID_PRODUCTION"
	CheckTypeFinal         CheckType = "FINAL"
	CheckTypeRandom        CheckType = "RANDOM"
)

// IsValid checks if the CheckType is a valid value
func (c CheckType) IsValid() bool {
	switch c {
	case CheckTypePreProduction, CheckTypeMidProduction, CheckTypeFinal, CheckTypeRandom:
		return true
	}
	return false
}

// String returns the string representation of CheckType
func (c CheckType) String() string {
	return string(c)
}

// Verdict represents the overall outcome of a quality check
type Verdict string

const (
	VerdictApproved    Verdict = "APPROVED"
	VerdictRejected    Verdict = "REJECTED"
	VerdictConditional Verdict = "CONDITIONAL"
)

// IsValid checks if the Verdict is a valid value
func (v Verdict) IsValid() bool {
	switch v {
	case VerdictApproved, VerdictRejected, VerdictConditional:
		return true
	}
	return false
}

// String returns the string representation of Verdict
func (v Verdict) String() string {
	return string(v)
}

// CriterionStatus represents the outcome of a single inspected criterion
type CriterionStatus string

const (
	CriterionPass    CriterionStatus = "PASS"
	CriterionFail    CriterionStatus = "FAIL"
	CriterionWarning CriterionStatus = "WARNING"
)

// IsValid checks if the CriterionStatus is a valid value
func (s CriterionStatus) IsValid() bool {
	switch s {
	case CriterionPass, CriterionFail, CriterionWarning:
		return true
	}
	return false
}

// String returns the string representation of CriterionStatus
func (s CriterionStatus) String() string {
	return string(s)
}

// CriterionParameter represents the inspected aspect of the printed output
type CriterionParameter string

const (
	ParameterColorAccuracy CriterionParameter = "COLOR_ACCURACY"
	ParameterAlignment     CriterionParameter = "ALIGNMENT"
	ParameterCutting       CriterionParameter = "CUTTING"
	ParameterFinishing     CriterionParameter = "FINISHING"
	ParameterTextClarity   CriterionParameter = "TEXT_CLARITY"
	ParameterImageQuality  CriterionParameter = "IMAGE_QUALITY"
	ParameterOverall       CriterionParameter = "OVERALL"
)

// IsValid checks if the CriterionParameter is a valid value
func (p CriterionParameter) IsValid() bool {
	switch p {
	case ParameterColorAccuracy, ParameterAlignment, ParameterCutting,
		ParameterFinishing, ParameterTextClarity, ParameterImageQuality,
		ParameterOverall:
		return true
	}
	return false
}

// String returns the string representation of CriterionParameter
func (p CriterionParameter) String() string {
	return string(p)
}

// NoteType classifies an operator note on a print job
type NoteType string

const (
	NoteGeneral NoteType = "GENERAL"
	NoteQuality NoteType = "QUALITY"
	NoteIssue   NoteType = "ISSUE"
	NoteWarning NoteType = "WARNING"
)

// IsValid checks if the NoteType is a valid value
func (n NoteType) IsValid() bool {
	switch n {
	case NoteGeneral, NoteQuality, NoteIssue, NoteWarning:
		return true
	}
	return false
}

// String returns the string representation of NoteType
func (n NoteType) String() string {
	return string(n)
}
