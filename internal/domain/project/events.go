package project

import (
	"github.com/printflow/backend/internal/domain/shared"
)

// Event types for the project domain
const (
	EventTypeProjectCreated         = "project.created"
	EventTypeProjectStatusChanged   = "project.status_changed"
	EventTypeProjectProgressChanged = "project.progress_changed"
	EventTypeProjectCompleted       = "project.completed"
	EventTypeTaskCreated            = "task.created"
	EventTypeTaskStatusChanged      = "task.status_changed"
	EventTypeTaskCompleted          = "task.completed"
)

// ProjectCreatedEvent is emitted when a new project is created
type ProjectCreatedEvent struct {
	shared.BaseDomainEvent
	Name     string          `json:"name"`
	ClientID string          `json:"client_id"`
	Category ProjectCategory `json:"category"`
}

func NewProjectCreatedEvent(p *Project) *ProjectCreatedEvent {
	return &ProjectCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectCreated, "Project", p.ID),
		Name:            p.Name,
		ClientID:        p.ClientID.String(),
		Category:        p.Category,
	}
}

// ProjectStatusChangedEvent is emitted when a project transitions status
type ProjectStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus ProjectStatus `json:"old_status"`
	NewStatus ProjectStatus `json:"new_status"`
}

func NewProjectStatusChangedEvent(p *Project, oldStatus, newStatus ProjectStatus) *ProjectStatusChangedEvent {
	return &ProjectStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectStatusChanged, "Project", p.ID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// ProjectProgressChangedEvent is emitted when derived project progress moves
type ProjectProgressChangedEvent struct {
	shared.BaseDomainEvent
	OldProgress int `json:"old_progress"`
	NewProgress int `json:"new_progress"`
}

func NewProjectProgressChangedEvent(p *Project, oldProgress, newProgress int) *ProjectProgressChangedEvent {
	return &ProjectProgressChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectProgressChanged, "Project", p.ID),
		OldProgress:     oldProgress,
		NewProgress:     newProgress,
	}
}

// ProjectCompletedEvent is emitted when a project reaches COMPLETED
type ProjectCompletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

func NewProjectCompletedEvent(p *Project) *ProjectCompletedEvent {
	return &ProjectCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectCompleted, "Project", p.ID),
		Name:            p.Name,
	}
}

// TaskCreatedEvent is emitted when a new task is created
type TaskCreatedEvent struct {
	shared.BaseDomainEvent
	Title     string       `json:"title"`
	ProjectID string       `json:"project_id"`
	Category  TaskCategory `json:"category"`
}

func NewTaskCreatedEvent(t *Task) *TaskCreatedEvent {
	return &TaskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCreated, "Task", t.ID),
		Title:           t.Title,
		ProjectID:       t.ProjectID.String(),
		Category:        t.Category,
	}
}

// TaskStatusChangedEvent is emitted when a task transitions status
type TaskStatusChangedEvent struct {
	shared.BaseDomainEvent
	ProjectID string     `json:"project_id"`
	OldStatus TaskStatus `json:"old_status"`
	NewStatus TaskStatus `json:"new_status"`
}

func NewTaskStatusChangedEvent(t *Task, oldStatus, newStatus TaskStatus) *TaskStatusChangedEvent {
	return &TaskStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskStatusChanged, "Task", t.ID),
		ProjectID:       t.ProjectID.String(),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// TaskCompletedEvent is emitted when a task reaches COMPLETED, whether
// through the subtask ratchet or a manual transition
type TaskCompletedEvent struct {
	shared.BaseDomainEvent
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	Progress  int    `json:"progress"`
}

func NewTaskCompletedEvent(t *Task) *TaskCompletedEvent {
	return &TaskCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCompleted, "Task", t.ID),
		ProjectID:       t.ProjectID.String(),
		Title:           t.Title,
		Progress:        t.Progress,
	}
}
