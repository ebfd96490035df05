package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printflow/backend/internal/domain/production"
	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/domain/shared/valueobject"
)

const maxConflictRetries = 3

// ProductionService implements print job and quality check use cases
type ProductionService struct {
	jobRepo   production.PrintJobRepository
	checkRepo production.QualityCheckRepository
	numbers   shared.NumberAllocator
	eventBus  shared.EventBus
	logger    *zap.Logger
}

// NewProductionService creates a new production service
func NewProductionService(
	jobRepo production.PrintJobRepository,
	checkRepo production.QualityCheckRepository,
	numbers shared.NumberAllocator,
	eventBus shared.EventBus,
	logger *zap.Logger,
) *ProductionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionService{
		jobRepo:   jobRepo,
		checkRepo: checkRepo,
		numbers:   numbers,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// CreatePrintJob queues a new production run. The job number is allocated
// before the aggregate is built; an allocated number is not reused if the
// save fails.
func (s *ProductionService) CreatePrintJob(ctx context.Context, actorID uuid.UUID, req CreatePrintJobRequest) (*PrintJobResponse, error) {
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid project ID")
	}

	jobNumber, err := s.numbers.Next(ctx, shared.NumberKindPrintJob, time.Now().Year())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate job number: %w", err)
	}

	job, err := production.NewPrintJob(
		jobNumber,
		projectID,
		req.Title,
		production.MachineType(req.Machine),
		req.OrderedQuantity,
		valueobject.Currency(req.Currency),
		actorID,
	)
	if err != nil {
		return nil, err
	}
	job.Description = req.Description

	if req.Priority != "" {
		if err := job.SetPriority(production.Priority(req.Priority)); err != nil {
			return nil, err
		}
	}
	if req.Spec != nil {
		if err := job.SetSpec(req.Spec.toDomain()); err != nil {
			return nil, err
		}
	}

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save print job: %w", err)
	}
	s.publishEvents(ctx, job.GetDomainEvents())
	job.ClearDomainEvents()

	s.logger.Info("print job created",
		zap.String("id", job.ID.String()),
		zap.String("job_number", job.JobNumber),
		zap.String("project", projectID.String()))

	return ToPrintJobResponse(job), nil
}

// GetPrintJob returns a single print job
func (s *ProductionService) GetPrintJob(ctx context.Context, id uuid.UUID) (*PrintJobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPrintJobResponse(job), nil
}

// GetPrintJobByNumber returns a single print job by its document number
func (s *ProductionService) GetPrintJobByNumber(ctx context.Context, jobNumber string) (*PrintJobResponse, error) {
	job, err := s.jobRepo.FindByJobNumber(ctx, jobNumber)
	if err != nil {
		return nil, err
	}
	return ToPrintJobResponse(job), nil
}

// ListPrintJobs returns print jobs matching the filter
func (s *ProductionService) ListPrintJobs(ctx context.Context, req ListPrintJobsRequest) (*shared.Paginated[*PrintJobResponse], error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	var (
		jobs []production.PrintJob
		err  error
	)
	if req.Status != "" {
		status := production.JobStatus(req.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError(shared.CodeValidation, "Invalid job status")
		}
		jobs, err = s.jobRepo.FindByStatus(ctx, status, filter)
	} else {
		jobs, err = s.jobRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list print jobs: %w", err)
	}

	total, err := s.jobRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count print jobs: %w", err)
	}

	items := make([]*PrintJobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, ToPrintJobResponse(&jobs[i]))
	}

	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// TransitionPrintJob applies a production state transition. For the
// completion transition, the job's recorded quality checks are reduced to a
// gate verdict first; a job with no checks at all cannot complete.
func (s *ProductionService) TransitionPrintJob(ctx context.Context, id uuid.UUID, req TransitionPrintJobRequest) (*PrintJobResponse, error) {
	target := production.JobStatus(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid job status")
	}

	var result *production.PrintJob

	err := s.retryOnConflict(func() error {
		job, err := s.jobRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		var gate *production.GateResult
		if target == production.JobStatusCompleted {
			checks, err := s.checkRepo.FindByPrintJob(ctx, job.ID)
			if err != nil {
				return fmt.Errorf("failed to load quality checks: %w", err)
			}
			if verdict, ok := production.AggregateVerdict(checks); ok {
				gate = &verdict
			}
		}

		if err := job.TransitionTo(target, gate, req.Override); err != nil {
			return err
		}
		if err := s.jobRepo.SaveWithLock(ctx, job); err != nil {
			return err
		}
		result = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, result.GetDomainEvents())
	result.ClearDomainEvents()

	s.logger.Info("print job transitioned",
		zap.String("id", result.ID.String()),
		zap.String("status", result.Status.String()))

	return ToPrintJobResponse(result), nil
}

// RecordQualityCheck persists an inspection and links it to its job. The
// check is saved first; linking it to the job retries on version conflicts.
func (s *ProductionService) RecordQualityCheck(ctx context.Context, jobID, inspectorID uuid.UUID, req RecordQualityCheckRequest) (*QualityCheckResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	criteria := make([]production.Criterion, 0, len(req.Criteria))
	for _, cr := range req.Criteria {
		criteria = append(criteria, production.Criterion{
			Parameter: production.CriterionParameter(cr.Parameter),
			Status:    production.CriterionStatus(cr.Status),
			Notes:     cr.Notes,
			Evidence:  cr.Evidence,
		})
	}

	check, err := production.NewQualityCheck(
		job.ID,
		inspectorID,
		production.CheckType(req.CheckType),
		req.SampleSize,
		criteria,
		production.Verdict(req.OverallStatus),
		req.DefectCount,
		req.PassRate,
	)
	if err != nil {
		return nil, err
	}
	check.Notes = req.Notes
	check.Recommendations = req.Recommendations
	if req.FollowUpDate != nil {
		check.RequireFollowUp(*req.FollowUpDate)
	}

	if err := s.checkRepo.Save(ctx, check); err != nil {
		return nil, fmt.Errorf("failed to save quality check: %w", err)
	}

	err = s.retryOnConflict(func() error {
		j, err := s.jobRepo.FindByID(ctx, jobID)
		if err != nil {
			return err
		}
		j.RecordQualityCheck(check.ID)
		return s.jobRepo.SaveWithLock(ctx, j)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to link quality check to job: %w", err)
	}

	s.publishEvents(ctx, check.GetDomainEvents())
	check.ClearDomainEvents()

	s.logger.Info("quality check recorded",
		zap.String("id", check.ID.String()),
		zap.String("job", jobID.String()),
		zap.String("verdict", check.OverallStatus.String()))

	return ToQualityCheckResponse(check), nil
}

// ListQualityChecks returns all checks recorded for a job, newest first
func (s *ProductionService) ListQualityChecks(ctx context.Context, jobID uuid.UUID) ([]*QualityCheckResponse, error) {
	checks, err := s.checkRepo.FindByPrintJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quality checks: %w", err)
	}

	items := make([]*QualityCheckResponse, 0, len(checks))
	for _, qc := range checks {
		items = append(items, ToQualityCheckResponse(qc))
	}
	return items, nil
}

// SetJobCosts updates a job's cost breakdown in the job's currency
func (s *ProductionService) SetJobCosts(ctx context.Context, id uuid.UUID, req SetJobCostsRequest) (*PrintJobResponse, error) {
	var result *production.PrintJob

	err := s.retryOnConflict(func() error {
		job, err := s.jobRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		currency := job.Cost.Total.Currency()
		materials, err := valueobject.NewMoneyFromFloat(req.Materials, currency)
		if err != nil {
			return err
		}
		labor, err := valueobject.NewMoneyFromFloat(req.Labor, currency)
		if err != nil {
			return err
		}
		overhead, err := valueobject.NewMoneyFromFloat(req.Overhead, currency)
		if err != nil {
			return err
		}

		if err := job.SetCosts(materials, labor, overhead); err != nil {
			return err
		}
		if err := s.jobRepo.SaveWithLock(ctx, job); err != nil {
			return err
		}
		result = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToPrintJobResponse(result), nil
}

// SetJobSpec records how a job is to be printed. Refused once the run has
// left the queue.
func (s *ProductionService) SetJobSpec(ctx context.Context, id uuid.UUID, req SpecRequest) (*PrintJobResponse, error) {
	var result *production.PrintJob

	err := s.retryOnConflict(func() error {
		job, err := s.jobRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := job.SetSpec(req.toDomain()); err != nil {
			return err
		}
		if err := s.jobRepo.SaveWithLock(ctx, job); err != nil {
			return err
		}
		result = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToPrintJobResponse(result), nil
}

// RecordJobQuantities records production counts and refreshes derived progress
func (s *ProductionService) RecordJobQuantities(ctx context.Context, id uuid.UUID, req RecordQuantitiesRequest) (*PrintJobResponse, error) {
	var result *production.PrintJob

	err := s.retryOnConflict(func() error {
		job, err := s.jobRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := job.RecordQuantities(req.Printed, req.Approved, req.Rejected); err != nil {
			return err
		}
		if err := s.jobRepo.SaveWithLock(ctx, job); err != nil {
			return err
		}
		result = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToPrintJobResponse(result), nil
}

// ScheduleJob sets the planned run window for a job
func (s *ProductionService) ScheduleJob(ctx context.Context, id uuid.UUID, req ScheduleJobRequest) (*PrintJobResponse, error) {
	var result *production.PrintJob

	err := s.retryOnConflict(func() error {
		job, err := s.jobRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := job.Schedule(req.ScheduledStart, req.EstimatedCompletion); err != nil {
			return err
		}
		if err := s.jobRepo.SaveWithLock(ctx, job); err != nil {
			return err
		}
		result = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToPrintJobResponse(result), nil
}

// AssignOperator assigns a machine operator to a job
func (s *ProductionService) AssignOperator(ctx context.Context, id uuid.UUID, req AssignOperatorRequest) (*PrintJobResponse, error) {
	operatorID, err := uuid.Parse(req.OperatorID)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid operator ID")
	}

	var result *production.PrintJob

	err = s.retryOnConflict(func() error {
		job, err := s.jobRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := job.AssignOperator(operatorID); err != nil {
			return err
		}
		if err := s.jobRepo.SaveWithLock(ctx, job); err != nil {
			return err
		}
		result = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToPrintJobResponse(result), nil
}

// AddJobNote attaches a note to a job
func (s *ProductionService) AddJobNote(ctx context.Context, id, authorID uuid.UUID, req AddJobNoteRequest) (*PrintJobResponse, error) {
	var result *production.PrintJob

	err := s.retryOnConflict(func() error {
		job, err := s.jobRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := job.AddNote(authorID, req.Content, production.NoteType(req.Type)); err != nil {
			return err
		}
		if err := s.jobRepo.SaveWithLock(ctx, job); err != nil {
			return err
		}
		result = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToPrintJobResponse(result), nil
}

func (s *ProductionService) retryOnConflict(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

func (s *ProductionService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
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
