package production

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/printflow/backend/internal/domain/production"
	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/domain/shared/valueobject"
)

// MockPrintJobRepository is a mock implementation of production.PrintJobRepository
type MockPrintJobRepository struct {
	mock.Mock
}

func (m *MockPrintJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.PrintJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.PrintJob), args.Error(1)
}

func (m *MockPrintJobRepository) FindByJobNumber(ctx context.Context, jobNumber string) (*production.PrintJob, error) {
	args := m.Called(ctx, jobNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.PrintJob), args.Error(1)
}

func (m *MockPrintJobRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.PrintJob, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]production.PrintJob), args.Error(1)
}

func (m *MockPrintJobRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]production.PrintJob, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]production.PrintJob), args.Error(1)
}

func (m *MockPrintJobRepository) FindByStatus(ctx context.Context, status production.JobStatus, filter shared.Filter) ([]production.PrintJob, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]production.PrintJob), args.Error(1)
}

func (m *MockPrintJobRepository) Save(ctx context.Context, job *production.PrintJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockPrintJobRepository) SaveWithLock(ctx context.Context, job *production.PrintJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockPrintJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPrintJobRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPrintJobRepository) CountByStatus(ctx context.Context, status production.JobStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockQualityCheckRepository is a mock implementation of production.QualityCheckRepository
type MockQualityCheckRepository struct {
	mock.Mock
}

func (m *MockQualityCheckRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.QualityCheck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.QualityCheck), args.Error(1)
}

func (m *MockQualityCheckRepository) FindByPrintJob(ctx context.Context, printJobID uuid.UUID) ([]*production.QualityCheck, error) {
	args := m.Called(ctx, printJobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*production.QualityCheck), args.Error(1)
}

func (m *MockQualityCheckRepository) FindByInspector(ctx context.Context, inspectorID uuid.UUID, filter shared.Filter) ([]production.QualityCheck, error) {
	args := m.Called(ctx, inspectorID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]production.QualityCheck), args.Error(1)
}

func (m *MockQualityCheckRepository) Save(ctx context.Context, check *production.QualityCheck) error {
	args := m.Called(ctx, check)
	return args.Error(0)
}

func (m *MockQualityCheckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQualityCheckRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
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

func newTestService(t *testing.T) (*ProductionService, *MockPrintJobRepository, *MockQualityCheckRepository, *MockNumberAllocator) {
	t.Helper()
	jobRepo := new(MockPrintJobRepository)
	checkRepo := new(MockQualityCheckRepository)
	numbers := new(MockNumberAllocator)
	return NewProductionService(jobRepo, checkRepo, numbers, nil, nil), jobRepo, checkRepo, numbers
}

func newStoredJob(t *testing.T, status production.JobStatus) *production.PrintJob {
	t.Helper()
	job, err := production.NewPrintJob("PJ20260007", uuid.New(), "Banner run", production.MachineLargeFormat, 500, valueobject.AED, uuid.New())
	require.NoError(t, err)

	paths := map[production.JobStatus][]production.JobStatus{
		production.JobStatusInQueue:      {production.JobStatusInQueue},
		production.JobStatusPrinting:     {production.JobStatusInQueue, production.JobStatusPrinting},
		production.JobStatusQualityCheck: {production.JobStatusInQueue, production.JobStatusPrinting, production.JobStatusQualityCheck},
	}
	for _, step := range paths[status] {
		require.NoError(t, job.TransitionTo(step, nil, false))
	}
	job.ClearDomainEvents()
	return job
}

func newStoredCheck(t *testing.T, jobID uuid.UUID, verdict production.Verdict) *production.QualityCheck {
	t.Helper()
	qc, err := production.NewQualityCheck(jobID, uuid.New(), production.CheckTypeFinal, 50, nil, verdict, 0, 98)
	require.NoError(t, err)
	qc.ClearDomainEvents()
	return qc
}

func TestCreatePrintJob(t *testing.T) {
	svc, jobRepo, _, numbers := newTestService(t)

	numbers.On("Next", mock.Anything, shared.NumberKindPrintJob, time.Now().Year()).
		Return("PJ20260042", nil)
	jobRepo.On("Save", mock.Anything, mock.AnythingOfType("*production.PrintJob")).Return(nil)

	resp, err := svc.CreatePrintJob(context.Background(), uuid.New(), CreatePrintJobRequest{
		ProjectID:       uuid.New().String(),
		Title:           "Poster run",
		Machine:         "DIGITAL_PRESS",
		OrderedQuantity: 1000,
		Currency:        "AED",
		Priority:        "URGENT",
	})
	require.NoError(t, err)

	assert.Equal(t, "PJ20260042", resp.JobNumber)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "URGENT", resp.Priority)
	assert.Equal(t, 1000, resp.Quantities.Ordered)
	numbers.AssertExpectations(t)
	jobRepo.AssertExpectations(t)
}

func TestCreatePrintJob_AllocatorExhausted(t *testing.T) {
	svc, jobRepo, _, numbers := newTestService(t)

	numbers.On("Next", mock.Anything, shared.NumberKindPrintJob, mock.Anything).
		Return("", shared.ErrSequenceExhausted)

	_, err := svc.CreatePrintJob(context.Background(), uuid.New(), CreatePrintJobRequest{
		ProjectID:       uuid.New().String(),
		Title:           "Poster run",
		Machine:         "DIGITAL_PRESS",
		OrderedQuantity: 10,
		Currency:        "AED",
	})
	assert.ErrorIs(t, err, shared.ErrSequenceExhausted)
	jobRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTransitionPrintJob_CompletionConsultsGate(t *testing.T) {
	svc, jobRepo, checkRepo, _ := newTestService(t)

	job := newStoredJob(t, production.JobStatusQualityCheck)
	check := newStoredCheck(t, job.ID, production.VerdictApproved)

	jobRepo.On("FindByID", mock.Anything, job.ID).Return(job, nil)
	checkRepo.On("FindByPrintJob", mock.Anything, job.ID).
		Return([]*production.QualityCheck{check}, nil)
	jobRepo.On("SaveWithLock", mock.Anything, job).Return(nil)

	resp, err := svc.TransitionPrintJob(context.Background(), job.ID, TransitionPrintJobRequest{Status: "COMPLETED"})
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", resp.Status)
	assert.Equal(t, 100, resp.Progress)
	checkRepo.AssertExpectations(t)
}

func TestTransitionPrintJob_CompletionWithoutChecksRefused(t *testing.T) {
	svc, jobRepo, checkRepo, _ := newTestService(t)

	job := newStoredJob(t, production.JobStatusQualityCheck)

	jobRepo.On("FindByID", mock.Anything, job.ID).Return(job, nil)
	checkRepo.On("FindByPrintJob", mock.Anything, job.ID).
		Return([]*production.QualityCheck{}, nil)

	_, err := svc.TransitionPrintJob(context.Background(), job.ID, TransitionPrintJobRequest{Status: "COMPLETED"})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, production.CodeQualityGateBlocked, domainErr.Code)
	jobRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestTransitionPrintJob_ConditionalNeedsOverride(t *testing.T) {
	svc, jobRepo, checkRepo, _ := newTestService(t)

	job := newStoredJob(t, production.JobStatusQualityCheck)
	check := newStoredCheck(t, job.ID, production.VerdictConditional)

	jobRepo.On("FindByID", mock.Anything, job.ID).Return(job, nil)
	checkRepo.On("FindByPrintJob", mock.Anything, job.ID).
		Return([]*production.QualityCheck{check}, nil)

	_, err := svc.TransitionPrintJob(context.Background(), job.ID, TransitionPrintJobRequest{Status: "COMPLETED"})
	require.Error(t, err)

	jobRepo.On("SaveWithLock", mock.Anything, job).Return(nil)

	resp, err := svc.TransitionPrintJob(context.Background(), job.ID, TransitionPrintJobRequest{Status: "COMPLETED", Override: true})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)
}

func TestTransitionPrintJob_NonCompletionSkipsGate(t *testing.T) {
	svc, jobRepo, checkRepo, _ := newTestService(t)

	job := newStoredJob(t, production.JobStatusInQueue)

	jobRepo.On("FindByID", mock.Anything, job.ID).Return(job, nil)
	jobRepo.On("SaveWithLock", mock.Anything, job).Return(nil)

	resp, err := svc.TransitionPrintJob(context.Background(), job.ID, TransitionPrintJobRequest{Status: "PRINTING"})
	require.NoError(t, err)

	assert.Equal(t, "PRINTING", resp.Status)
	checkRepo.AssertNotCalled(t, "FindByPrintJob", mock.Anything, mock.Anything)
}

func TestSetJobCosts_RetriesOnConflict(t *testing.T) {
	svc, jobRepo, _, _ := newTestService(t)

	job := newStoredJob(t, production.JobStatusPrinting)

	jobRepo.On("FindByID", mock.Anything, job.ID).Return(job, nil)
	jobRepo.On("SaveWithLock", mock.Anything, job).Return(shared.ErrConcurrencyConflict).Once()
	jobRepo.On("SaveWithLock", mock.Anything, job).Return(nil).Once()

	resp, err := svc.SetJobCosts(context.Background(), job.ID, SetJobCostsRequest{Materials: 100, Labor: 50, Overhead: 10})
	require.NoError(t, err)
	assert.Equal(t, "160.00", resp.Cost.Total)
	jobRepo.AssertExpectations(t)
}

func TestRecordQualityCheck(t *testing.T) {
	svc, jobRepo, checkRepo, _ := newTestService(t)

	job := newStoredJob(t, production.JobStatusQualityCheck)
	inspector := uuid.New()

	jobRepo.On("FindByID", mock.Anything, job.ID).Return(job, nil)
	checkRepo.On("Save", mock.Anything, mock.AnythingOfType("*production.QualityCheck")).Return(nil)
	jobRepo.On("SaveWithLock", mock.Anything, job).Return(nil)

	resp, err := svc.RecordQualityCheck(context.Background(), job.ID, inspector, RecordQualityCheckRequest{
		CheckType:  "FINAL",
		SampleSize: 25,
		Criteria: []CriterionRequest{
			{Parameter: "COLOR_ACCURACY", Status: "PASS"},
			{Parameter: "CUTTING", Status: "FAIL", Notes: "edge bleed on 2 sheets"},
		},
		OverallStatus: "CONDITIONAL",
		DefectCount:   2,
		PassRate:      92,
	})
	require.NoError(t, err)

	assert.Equal(t, "CONDITIONAL", resp.OverallStatus)
	assert.Equal(t, 92, resp.PassRate)
	assert.Len(t, resp.Criteria, 2)
	assert.Len(t, job.QualityCheckIDs, 1)
	assert.Equal(t, resp.ID, job.QualityCheckIDs[0].String())
	checkRepo.AssertExpectations(t)
}

func TestRecordQualityCheck_InvalidCriterion(t *testing.T) {
	svc, jobRepo, checkRepo, _ := newTestService(t)

	job := newStoredJob(t, production.JobStatusQualityCheck)
	jobRepo.On("FindByID", mock.Anything, job.ID).Return(job, nil)

	_, err := svc.RecordQualityCheck(context.Background(), job.ID, uuid.New(), RecordQualityCheckRequest{
		CheckType:     "FINAL",
		SampleSize:    10,
		Criteria:      []CriterionRequest{{Parameter: "SPARKLE", Status: "PASS"}},
		OverallStatus: "APPROVED",
	})
	assert.Error(t, err)
	checkRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSetJobCosts(t *testing.T) {
	svc, jobRepo, _, _ := newTestService(t)

	job := newStoredJob(t, production.JobStatusPrinting)
	jobRepo.On("FindByID", mock.Anything, job.ID).Return(job, nil)
	jobRepo.On("SaveWithLock", mock.Anything, job).Return(nil)

	resp, err := svc.SetJobCosts(context.Background(), job.ID, SetJobCostsRequest{
		Materials: 120.50,
		Labor:     80,
		Overhead:  19.50,
	})
	require.NoError(t, err)

	assert.Equal(t, "220.00", resp.Cost.Total)
	assert.Equal(t, "AED", resp.Cost.Currency)
}

func TestSetJobSpec(t *testing.T) {
	svc, jobRepo, _, _ := newTestService(t)

	job := newStoredJob(t, production.JobStatusPending)
	jobRepo.On("FindByID", mock.Anything, job.ID).Return(job, nil)
	jobRepo.On("SaveWithLock", mock.Anything, job).Return(nil)

	resp, err := svc.SetJobSpec(context.Background(), job.ID, SpecRequest{
		Width:     85,
		Height:    55,
		PaperType: "ART_PAPER",
		Finishing: []string{"LAMINATION"},
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Spec)
	assert.Equal(t, 85.0, resp.Spec.Width)
	assert.Equal(t, "MM", resp.Spec.Unit)
	assert.Equal(t, "CMYK", resp.Spec.ColorMode)
	assert.Equal(t, "SINGLE", resp.Spec.Sides)
	assert.Equal(t, []string{"LAMINATION"}, resp.Spec.Finishing)
	assert.Equal(t, 300, resp.Spec.ResolutionDPI)
}

func TestSetJobSpec_FrozenOnceRunning(t *testing.T) {
	svc, jobRepo, _, _ := newTestService(t)

	job := newStoredJob(t, production.JobStatusPrinting)
	jobRepo.On("FindByID", mock.Anything, job.ID).Return(job, nil)

	_, err := svc.SetJobSpec(context.Background(), job.ID, SpecRequest{
		Width:     85,
		Height:    55,
		PaperType: "ART_PAPER",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	jobRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestRecordJobQuantities(t *testing.T) {
	svc, jobRepo, _, _ := newTestService(t)

	job := newStoredJob(t, production.JobStatusPrinting)
	jobRepo.On("FindByID", mock.Anything, job.ID).Return(job, nil)
	jobRepo.On("SaveWithLock", mock.Anything, job).Return(nil)

	resp, err := svc.RecordJobQuantities(context.Background(), job.ID, RecordQuantitiesRequest{
		Printed:  250,
		Approved: 200,
		Rejected: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, 50, resp.Progress)
	assert.Equal(t, 80, resp.YieldRate)
}

func TestRecordJobQuantities_Invalid(t *testing.T) {
	svc, jobRepo, _, _ := newTestService(t)

	job := newStoredJob(t, production.JobStatusPrinting)
	jobRepo.On("FindByID", mock.Anything, job.ID).Return(job, nil)

	_, err := svc.RecordJobQuantities(context.Background(), job.ID, RecordQuantitiesRequest{
		Printed:  100,
		Approved: 80,
		Rejected: 30,
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
}

func TestGetPrintJob_NotFound(t *testing.T) {
	svc, jobRepo, _, _ := newTestService(t)
	id := uuid.New()
	jobRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := svc.GetPrintJob(context.Background(), id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
