package project

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/printflow/backend/internal/domain/shared"
)

// Subtask is a checklist entry owned exclusively by its Task.
// Stored as JSONB within the task row.
type Subtask struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *uuid.UUID `json:"completed_by,omitempty"`
}

// Subtasks is a slice of Subtask that implements GORM Scanner/Valuer for JSONB storage
type Subtasks []Subtask

// Value implements driver.Valuer interface for GORM to store as JSONB
func (s Subtasks) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (s *Subtasks) Scan(value interface{}) error {
	if value == nil {
		*s = Subtasks{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Subtasks: unsupported type")
	}

	if len(bytes) == 0 {
		*s = Subtasks{}
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// Task represents a unit of work within a project.
// Progress is derived bottom-up from subtasks; once it reaches 100 the task
// completes and stays completed (the completion ratchet).
type Task struct {
	shared.AuditedAggregateRoot
	Title         string
	Description   string
	ProjectID     uuid.UUID
	AssignedTo    *uuid.UUID
	Status        TaskStatus
	Priority      Priority
	Category      TaskCategory
	DueDate       *time.Time
	StartDate     *time.Time
	CompletedDate *time.Time
	Subtasks      Subtasks
	Dependencies  shared.UUIDList
	Progress      int
}

// NewTask creates a new task in TODO status
func NewTask(projectID uuid.UUID, title string, category TaskCategory, createdBy uuid.UUID) (*Task, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Project ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Task title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Task title cannot exceed 200 characters")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid task category")
	}

	t := &Task{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Title:                title,
		ProjectID:            projectID,
		Status:               TaskStatusTodo,
		Priority:             PriorityMedium,
		Category:             category,
		Subtasks:             Subtasks{},
		Dependencies:         shared.UUIDList{},
	}

	t.AddDomainEvent(NewTaskCreatedEvent(t))

	return t, nil
}

// AddSubtask appends a subtask and recomputes progress
func (t *Task) AddSubtask(title string) (*Subtask, error) {
	if t.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add subtasks to a task in terminal state")
	}
	if title == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Subtask title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Subtask title cannot exceed 200 characters")
	}

	st := Subtask{
		ID:    uuid.New(),
		Title: title,
	}
	t.Subtasks = append(t.Subtasks, st)
	t.recalculateProgress()
	t.Touch()
	t.IncrementVersion()

	return &st, nil
}

// SetSubtaskCompleted marks a subtask complete or incomplete and recomputes
// progress. When progress reaches 100 the task auto-completes, records
// completedBy on the final subtask, and emits TaskCompleted. Unchecking a
// subtask afterwards lowers progress but never reopens the task.
func (t *Task) SetSubtaskCompleted(subtaskID uuid.UUID, completed bool, by uuid.UUID) error {
	if t.Status == TaskStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify subtasks of a cancelled task")
	}

	idx := -1
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}

	st := &t.Subtasks[idx]
	if st.Completed == completed {
		return nil
	}

	st.Completed = completed
	if completed {
		now := time.Now()
		st.CompletedAt = &now
		st.CompletedBy = &by
	} else {
		st.CompletedAt = nil
		st.CompletedBy = nil
	}

	t.recalculateProgress()
	t.Touch()
	t.IncrementVersion()

	return nil
}

// RemoveSubtask deletes a subtask and recomputes progress
func (t *Task) RemoveSubtask(subtaskID uuid.UUID) error {
	if t.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove subtasks from a task in terminal state")
	}

	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
			t.recalculateProgress()
			t.Touch()
			t.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// recalculateProgress derives progress from subtask completion and applies
// the completion ratchet. With no subtasks, progress follows status alone.
func (t *Task) recalculateProgress() {
	if len(t.Subtasks) == 0 {
		if t.Status == TaskStatusCompleted {
			t.Progress = 100
		} else {
			t.Progress = 0
		}
		return
	}

	completed := 0
	for i := range t.Subtasks {
		if t.Subtasks[i].Completed {
			completed++
		}
	}
	t.Progress = roundPercent(completed, len(t.Subtasks))

	if t.Progress == 100 && t.Status != TaskStatusCompleted {
		old := t.Status
		now := time.Now()
		t.Status = TaskStatusCompleted
		t.CompletedDate = &now
		t.AddDomainEvent(NewTaskStatusChangedEvent(t, old, TaskStatusCompleted))
		t.AddDomainEvent(NewTaskCompletedEvent(t))
	}
}

// ChangeStatus applies a manual status transition.
// Completion through this path stamps the completed date and, for tasks
// without subtasks, raises progress to 100.
func (t *Task) ChangeStatus(target TaskStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid task status")
	}
	if t.Status.IsTerminal() {
		return shared.NewDomainError(shared.CodeIllegalTransition,
			"Cannot change status of a task in terminal state: "+t.Status.String())
	}
	if target == t.Status {
		return nil
	}

	old := t.Status
	t.Status = target

	if target == TaskStatusCompleted {
		now := time.Now()
		t.CompletedDate = &now
		if len(t.Subtasks) == 0 {
			t.Progress = 100
		}
		t.AddDomainEvent(NewTaskCompletedEvent(t))
	}

	t.Touch()
	t.IncrementVersion()
	t.AddDomainEvent(NewTaskStatusChangedEvent(t, old, target))

	return nil
}

// Assign sets the assignee for this task
func (t *Task) Assign(userID uuid.UUID) error {
	if t.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign a task in terminal state")
	}
	t.AssignedTo = &userID
	t.Touch()
	t.IncrementVersion()
	return nil
}

// SetPriority updates the task priority
func (t *Task) SetPriority(p Priority) error {
	if !p.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid priority")
	}
	t.Priority = p
	t.Touch()
	t.IncrementVersion()
	return nil
}

// AddDependency records another task this one depends on
func (t *Task) AddDependency(taskID uuid.UUID) error {
	if taskID == t.ID {
		return shared.NewDomainError(shared.CodeValidation, "Task cannot depend on itself")
	}
	for _, dep := range t.Dependencies {
		if dep == taskID {
			return nil
		}
	}
	t.Dependencies = append(t.Dependencies, taskID)
	t.Touch()
	t.IncrementVersion()
	return nil
}

// SubtaskCount returns the number of subtasks
func (t *Task) SubtaskCount() int {
	return len(t.Subtasks)
}

// CompletedSubtaskCount returns the number of completed subtasks
func (t *Task) CompletedSubtaskCount() int {
	n := 0
	for i := range t.Subtasks {
		if t.Subtasks[i].Completed {
			n++
		}
	}
	return n
}

// IsCompleted returns true if the task is completed
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// IsOverdue returns true if the task is past its due date and not completed
func (t *Task) IsOverdue() bool {
	if t.DueDate == nil || t.Status.IsTerminal() {
		return false
	}
	return time.Now().After(*t.DueDate)
}

// roundPercent computes round-half-up(100 * part / total).
// Truncation would under-report near-complete work (2 of 3 done shows 67,
// not 66).
func roundPercent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}
