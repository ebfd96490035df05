package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printflow/backend/internal/domain/project"
	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/domain/shared/valueobject"
)

// Conflicting writers retry the pure recomputation against fresh state this
// many times before surfacing the conflict to the caller.
const maxConflictRetries = 3

// ProjectService handles project and task workflow operations
type ProjectService struct {
	projectRepo project.ProjectRepository
	taskRepo    project.TaskRepository
	eventBus    shared.EventBus
	logger      *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo project.ProjectRepository,
	taskRepo project.TaskRepository,
	eventBus shared.EventBus,
	logger *zap.Logger,
) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// CreateProject creates a new project for a client
func (s *ProjectService) CreateProject(ctx context.Context, actorID uuid.UUID, req CreateProjectRequest) (*ProjectResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid client ID")
	}

	budget, err := valueobject.NewMoneyFromFloat(req.Budget, valueobject.Currency(req.Currency))
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidCurrency, err.Error())
	}

	p, err := project.NewProject(req.Name, clientID, project.ProjectCategory(req.Category), budget, actorID)
	if err != nil {
		return nil, err
	}
	p.Description = req.Description

	if req.Priority != "" {
		if err := p.SetPriority(project.Priority(req.Priority)); err != nil {
			return nil, err
		}
	}
	if req.StartDate != nil || req.DueDate != nil {
		if err := p.SetDates(req.StartDate, req.DueDate); err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	s.publishEvents(ctx, p.GetDomainEvents())
	p.ClearDomainEvents()

	s.logger.Info("project created",
		zap.String("id", p.ID.String()),
		zap.String("name", p.Name),
		zap.String("client", clientID.String()))

	return ToProjectResponse(p), nil
}

// GetProject returns a single project
func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProjectResponse(p), nil
}

// ListProjects returns projects matching the filter
func (s *ProjectService) ListProjects(ctx context.Context, req ListProjectsRequest) (*shared.Paginated[*ProjectResponse], error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	var (
		projects []project.Project
		err      error
	)
	if req.Status != "" {
		status := project.ProjectStatus(req.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError(shared.CodeValidation, "Invalid project status")
		}
		projects, err = s.projectRepo.FindByStatus(ctx, status, filter)
	} else {
		projects, err = s.projectRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	total, err := s.projectRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	items := make([]*ProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, ToProjectResponse(&projects[i]))
	}

	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ChangeProjectStatus applies a lifecycle transition to a project
func (s *ProjectService) ChangeProjectStatus(ctx context.Context, id uuid.UUID, req ChangeProjectStatusRequest) (*ProjectResponse, error) {
	var result *project.Project

	err := s.retryOnConflict(func() error {
		p, err := s.projectRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := p.ChangeStatus(project.ProjectStatus(req.Status)); err != nil {
			return err
		}
		if err := s.projectRepo.SaveWithLock(ctx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, result.GetDomainEvents())
	result.ClearDomainEvents()

	return ToProjectResponse(result), nil
}

// CreateTask creates a task within a project and refreshes the project's
// derived progress
func (s *ProjectService) CreateTask(ctx context.Context, projectID, actorID uuid.UUID, req CreateTaskRequest) (*TaskResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	t, err := project.NewTask(p.ID, req.Title, project.TaskCategory(req.Category), actorID)
	if err != nil {
		return nil, err
	}
	t.Description = req.Description
	t.DueDate = req.DueDate

	if req.Priority != "" {
		if err := t.SetPriority(project.Priority(req.Priority)); err != nil {
			return nil, err
		}
	}
	if req.AssignedTo != nil {
		assignee, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			return nil, shared.NewDomainError(shared.CodeValidation, "Invalid assignee ID")
		}
		if err := t.Assign(assignee); err != nil {
			return nil, err
		}
	}
	for _, title := range req.Subtasks {
		if _, err := t.AddSubtask(title); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	s.publishEvents(ctx, t.GetDomainEvents())
	t.ClearDomainEvents()

	if err := s.recalculateProject(ctx, p.ID); err != nil {
		return nil, err
	}

	return ToTaskResponse(t), nil
}

// ApplySubtaskChange checks or unchecks one subtask, letting task progress
// and the completion ratchet follow, then rolls the change up into the
// project's progress.
func (s *ProjectService) ApplySubtaskChange(ctx context.Context, taskID, subtaskID uuid.UUID, completed bool, by uuid.UUID) (*TaskResponse, error) {
	var result *project.Task

	err := s.retryOnConflict(func() error {
		t, err := s.taskRepo.FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := t.SetSubtaskCompleted(subtaskID, completed, by); err != nil {
			return err
		}
		if err := s.taskRepo.SaveWithLock(ctx, t); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, result.GetDomainEvents())
	result.ClearDomainEvents()

	if err := s.recalculateProject(ctx, result.ProjectID); err != nil {
		return nil, err
	}

	return ToTaskResponse(result), nil
}

// ApplyTaskChange applies a manual task status transition and rolls it up
// into the project's progress
func (s *ProjectService) ApplyTaskChange(ctx context.Context, taskID uuid.UUID, req TaskStatusChangeRequest) (*TaskResponse, error) {
	var result *project.Task

	err := s.retryOnConflict(func() error {
		t, err := s.taskRepo.FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := t.ChangeStatus(project.TaskStatus(req.Status)); err != nil {
			return err
		}
		if err := s.taskRepo.SaveWithLock(ctx, t); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, result.GetDomainEvents())
	result.ClearDomainEvents()

	if err := s.recalculateProject(ctx, result.ProjectID); err != nil {
		return nil, err
	}

	return ToTaskResponse(result), nil
}

// AddSubtask appends a subtask to a task
func (s *ProjectService) AddSubtask(ctx context.Context, taskID uuid.UUID, title string) (*TaskResponse, error) {
	var result *project.Task

	err := s.retryOnConflict(func() error {
		t, err := s.taskRepo.FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if _, err := t.AddSubtask(title); err != nil {
			return err
		}
		if err := s.taskRepo.SaveWithLock(ctx, t); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.recalculateProject(ctx, result.ProjectID); err != nil {
		return nil, err
	}

	return ToTaskResponse(result), nil
}

// GetTask returns a single task
func (s *ProjectService) GetTask(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToTaskResponse(t), nil
}

// recalculateProject re-derives project progress from the current task set.
// Runs under its own conflict loop: the project row is written independently
// of the task mutation that triggered it.
func (s *ProjectService) recalculateProject(ctx context.Context, projectID uuid.UUID) error {
	return s.retryOnConflict(func() error {
		p, err := s.projectRepo.FindByID(ctx, projectID)
		if err != nil {
			return err
		}
		tasks, err := s.taskRepo.FindByProject(ctx, projectID)
		if err != nil {
			return err
		}

		refs := make([]*project.Task, 0, len(tasks))
		for i := range tasks {
			refs = append(refs, &tasks[i])
		}

		before := p.Progress
		p.RecalculateProgress(refs)
		if p.Progress == before && len(p.GetDomainEvents()) == 0 {
			return nil
		}

		if err := s.projectRepo.SaveWithLock(ctx, p); err != nil {
			return err
		}
		s.publishEvents(ctx, p.GetDomainEvents())
		p.ClearDomainEvents()
		return nil
	})
}

// retryOnConflict re-runs fn against fresh state while the optimistic
// version check fails, then surfaces the conflict
func (s *ProjectService) retryOnConflict(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		s.logger.Debug("optimistic lock conflict, retrying", zap.Int("attempt", attempt+1))
	}
	return err
}

func (s *ProjectService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
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
