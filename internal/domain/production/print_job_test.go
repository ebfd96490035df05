package production

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/domain/shared/valueobject"
)

func createTestJob(t *testing.T) *PrintJob {
	t.Helper()
	job, err := NewPrintJob("PJ20260001", uuid.New(), "Business cards 500x", MachineDigitalPress, 500, valueobject.AED, uuid.New())
	require.NoError(t, err)
	job.ClearDomainEvents()
	return job
}

func advanceTo(t *testing.T, job *PrintJob, target JobStatus) {
	t.Helper()
	path := map[JobStatus][]JobStatus{
		JobStatusInQueue:      {JobStatusInQueue},
		JobStatusPrinting:     {JobStatusInQueue, JobStatusPrinting},
		JobStatusQualityCheck: {JobStatusInQueue, JobStatusPrinting, JobStatusQualityCheck},
	}
	for _, s := range path[target] {
		require.NoError(t, job.TransitionTo(s, nil, false))
	}
}

func approvedGate() *GateResult {
	return &GateResult{Verdict: VerdictApproved, PassRate: 98, CheckID: uuid.New()}
}

func TestNewPrintJob(t *testing.T) {
	projectID := uuid.New()
	job, err := NewPrintJob("PJ20260042", projectID, "Poster run", MachineLargeFormat, 50, valueobject.USD, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "PJ20260042", job.JobNumber)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 50, job.Quantity.Ordered)
	assert.Equal(t, 0, job.Quantity.Printed)
	assert.True(t, job.Cost.Total.IsZero())
	assert.Equal(t, valueobject.USD, job.Cost.Total.Currency())

	events := job.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypePrintJobCreated, events[0].EventType())
}

func TestNewPrintJob_Validation(t *testing.T) {
	tests := []struct {
		name      string
		jobNumber string
		title     string
		machine   MachineType
		qty       int
		currency  valueobject.Currency
	}{
		{"empty job number", "", "Title", MachineDigitalPress, 10, valueobject.AED},
		{"empty title", "PJ20260001", "", MachineDigitalPress, 10, valueobject.AED},
		{"invalid machine", "PJ20260001", "Title", MachineType("INKJET"), 10, valueobject.AED},
		{"zero quantity", "PJ20260001", "Title", MachineDigitalPress, 0, valueobject.AED},
		{"invalid currency", "PJ20260001", "Title", MachineDigitalPress, 10, valueobject.Currency("BTC")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPrintJob(tt.jobNumber, uuid.New(), tt.title, tt.machine, tt.qty, tt.currency, uuid.New())
			assert.Error(t, err)
		})
	}
}

func TestPrintJob_HappyPath(t *testing.T) {
	job := createTestJob(t)

	require.NoError(t, job.TransitionTo(JobStatusInQueue, nil, false))
	require.NoError(t, job.TransitionTo(JobStatusPrinting, nil, false))
	assert.NotNil(t, job.Timeline.ActualStart)
	require.NoError(t, job.TransitionTo(JobStatusQualityCheck, nil, false))
	require.NoError(t, job.TransitionTo(JobStatusCompleted, approvedGate(), false))

	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.NotNil(t, job.Timeline.ActualCompletion)
}

func TestPrintJob_IllegalTransitions(t *testing.T) {
	tests := []struct {
		name   string
		from   JobStatus
		target JobStatus
	}{
		{"pending to printing", JobStatusPending, JobStatusPrinting},
		{"pending to completed", JobStatusPending, JobStatusCompleted},
		{"pending to failed", JobStatusPending, JobStatusFailed},
		{"in-queue to quality-check", JobStatusInQueue, JobStatusQualityCheck},
		{"printing to completed", JobStatusPrinting, JobStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := createTestJob(t)
			if tt.from != JobStatusPending {
				advanceTo(t, job, tt.from)
			}

			err := job.TransitionTo(tt.target, approvedGate(), false)
			require.Error(t, err)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, shared.CodeIllegalTransition, domainErr.Code)
		})
	}
}

func TestPrintJob_TerminalStatesFrozen(t *testing.T) {
	job := createTestJob(t)
	advanceTo(t, job, JobStatusQualityCheck)
	require.NoError(t, job.TransitionTo(JobStatusCompleted, approvedGate(), false))

	for _, target := range AllJobStatuses() {
		if target == JobStatusCompleted {
			continue
		}
		assert.Error(t, job.TransitionTo(target, nil, false), "to %s", target)
	}

	failed := createTestJob(t)
	advanceTo(t, failed, JobStatusInQueue)
	require.NoError(t, failed.TransitionTo(JobStatusFailed, nil, false))
	assert.Error(t, failed.TransitionTo(JobStatusPrinting, nil, false))
}

func TestPrintJob_QualityGate(t *testing.T) {
	tests := []struct {
		name     string
		gate     *GateResult
		override bool
		wantErr  bool
	}{
		{"approved passes", &GateResult{Verdict: VerdictApproved}, false, false},
		{"no check recorded", nil, false, true},
		{"rejected blocks", &GateResult{Verdict: VerdictRejected}, false, true},
		{"rejected blocks even with override", &GateResult{Verdict: VerdictRejected}, true, true},
		{"conditional blocks without override", &GateResult{Verdict: VerdictConditional}, false, true},
		{"conditional passes with override", &GateResult{Verdict: VerdictConditional}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := createTestJob(t)
			advanceTo(t, job, JobStatusQualityCheck)

			err := job.TransitionTo(JobStatusCompleted, tt.gate, tt.override)
			if tt.wantErr {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, CodeQualityGateBlocked, domainErr.Code)
				assert.Equal(t, JobStatusQualityCheck, job.Status)
			} else {
				require.NoError(t, err)
				assert.Equal(t, JobStatusCompleted, job.Status)
			}
		})
	}
}

func TestPrintJob_RejectedRoutesBackToPrinting(t *testing.T) {
	job := createTestJob(t)
	advanceTo(t, job, JobStatusQualityCheck)

	err := job.TransitionTo(JobStatusCompleted, &GateResult{Verdict: VerdictRejected}, false)
	require.Error(t, err)

	require.NoError(t, job.TransitionTo(JobStatusPrinting, nil, false))
	assert.Equal(t, JobStatusPrinting, job.Status)
}

func TestPrintJob_SetCosts(t *testing.T) {
	job := createTestJob(t)

	materials, _ := valueobject.NewMoneyFromFloat(120.50, valueobject.AED)
	labor, _ := valueobject.NewMoneyFromFloat(80, valueobject.AED)
	overhead, _ := valueobject.NewMoneyFromFloat(19.50, valueobject.AED)

	require.NoError(t, job.SetCosts(materials, labor, overhead))
	assert.Equal(t, "220.00", job.Cost.Total.StringFixed(2))

	// every mutation recomputes the total, never a stale cache
	labor2, _ := valueobject.NewMoneyFromFloat(100, valueobject.AED)
	require.NoError(t, job.SetCosts(materials, labor2, overhead))
	assert.Equal(t, "240.00", job.Cost.Total.StringFixed(2))
}

func TestPrintJob_SetCosts_Validation(t *testing.T) {
	job := createTestJob(t)
	aed, _ := valueobject.NewMoneyFromFloat(10, valueobject.AED)

	negative, _ := valueobject.NewMoney(aed.Amount().Neg(), valueobject.AED)
	assert.Error(t, job.SetCosts(negative, aed, aed))

	usd, _ := valueobject.NewMoneyFromFloat(10, valueobject.USD)
	err := job.SetCosts(aed, usd, aed)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidCurrency, domainErr.Code)
}

func TestPrintJob_RecordQuantities(t *testing.T) {
	job := createTestJob(t)

	require.NoError(t, job.RecordQuantities(250, 200, 30))
	assert.Equal(t, 50, job.Progress)
	assert.Equal(t, 80, job.YieldRate())

	// overs do not push progress past 100
	require.NoError(t, job.RecordQuantities(520, 500, 20))
	assert.Equal(t, 100, job.Progress)

	assert.Error(t, job.RecordQuantities(-1, 0, 0))
	assert.Error(t, job.RecordQuantities(100, 80, 30))
}

func TestPrintJob_StatusChangeEmitsEvents(t *testing.T) {
	job := createTestJob(t)

	require.NoError(t, job.TransitionTo(JobStatusInQueue, nil, false))
	events := job.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypePrintJobStatusChanged, events[0].EventType())

	job.ClearDomainEvents()
	require.NoError(t, job.TransitionTo(JobStatusFailed, nil, false))

	types := make([]string, 0)
	for _, ev := range job.GetDomainEvents() {
		types = append(types, ev.EventType())
	}
	assert.Contains(t, types, EventTypePrintJobFailed)
	assert.Contains(t, types, EventTypePrintJobStatusChanged)
}

func TestPrintJob_Notes(t *testing.T) {
	job := createTestJob(t)

	require.NoError(t, job.AddNote(uuid.New(), "Color shift on sheet 3", NoteQuality))
	require.Len(t, job.Notes, 1)
	assert.Equal(t, NoteQuality, job.Notes[0].Type)

	assert.Error(t, job.AddNote(uuid.Nil, "x", NoteGeneral))
	assert.Error(t, job.AddNote(uuid.New(), "", NoteGeneral))
	assert.Error(t, job.AddNote(uuid.New(), "x", NoteType("RANT")))
}
