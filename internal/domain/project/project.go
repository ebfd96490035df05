package project

import (
	"time"

	"github.com/google/uuid"

	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/domain/shared/valueobject"
)

// Project is the root of the planning hierarchy. Its progress is the rounded
// share of its completed tasks and is only ever updated through
// RecalculateProgress; it is never written directly.
type Project struct {
	shared.AuditedAggregateRoot
	Name        string
	Description string
	ClientID    uuid.UUID
	Status      ProjectStatus
	Priority    Priority
	Category    ProjectCategory
	StartDate   *time.Time
	DueDate     *time.Time
	CompletedAt *time.Time
	Budget      valueobject.Money
	ActualCost  valueobject.Money
	Assignees   shared.UUIDList
	Progress    int
}

// NewProject creates a new project in DRAFT status
func NewProject(name string, clientID uuid.UUID, category ProjectCategory, budget valueobject.Money, createdBy uuid.UUID) (*Project, error) {
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Project name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Project name cannot exceed 200 characters")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Client ID cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid project category")
	}
	if budget.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Project budget cannot be negative")
	}

	p := &Project{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Name:                 name,
		ClientID:             clientID,
		Status:               ProjectStatusDraft,
		Priority:             PriorityMedium,
		Category:             category,
		Budget:               budget,
		ActualCost:           valueobject.Zero(budget.Currency()),
		Assignees:            shared.UUIDList{},
	}

	p.AddDomainEvent(NewProjectCreatedEvent(p))

	return p, nil
}

// ChangeStatus transitions the project through its lifecycle
func (p *Project) ChangeStatus(target ProjectStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid project status")
	}
	if target == p.Status {
		return nil
	}
	if !p.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeIllegalTransition,
			"Cannot transition project from "+p.Status.String()+" to "+target.String())
	}

	old := p.Status
	p.Status = target

	if target == ProjectStatusCompleted {
		now := time.Now()
		p.CompletedAt = &now
		p.AddDomainEvent(NewProjectCompletedEvent(p))
	}

	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewProjectStatusChangedEvent(p, old, target))

	return nil
}

// RecalculateProgress derives project progress as the rounded share of
// completed tasks. Progress of a terminal project is frozen; a project with
// no tasks reports 0.
func (p *Project) RecalculateProgress(tasks []*Task) {
	if p.Status.IsTerminal() {
		return
	}

	completed := 0
	for _, t := range tasks {
		if t.Status == TaskStatusCompleted {
			completed++
		}
	}

	progress := 0
	if len(tasks) > 0 {
		progress = roundPercent(completed, len(tasks))
	}

	if progress != p.Progress {
		old := p.Progress
		p.Progress = progress
		p.Touch()
		p.IncrementVersion()
		p.AddDomainEvent(NewProjectProgressChangedEvent(p, old, progress))
	}
}

// AddCost accumulates an expense into the project's actual cost
func (p *Project) AddCost(amount valueobject.Money) error {
	if amount.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Cost amount cannot be negative")
	}
	newCost, err := p.ActualCost.Add(amount)
	if err != nil {
		return err
	}
	p.ActualCost = newCost
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetBudget replaces the project budget
func (p *Project) SetBudget(budget valueobject.Money) error {
	if budget.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Project budget cannot be negative")
	}
	if budget.Currency() != p.ActualCost.Currency() {
		return shared.NewDomainError(shared.CodeInvalidCurrency, "Budget currency must match project currency")
	}
	p.Budget = budget
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetPriority updates the project priority
func (p *Project) SetPriority(priority Priority) error {
	if !priority.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid priority")
	}
	p.Priority = priority
	p.Touch()
	p.IncrementVersion()
	return nil
}

// AddAssignee adds a team member to the project
func (p *Project) AddAssignee(userID uuid.UUID) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign members to a project in terminal state")
	}
	for _, a := range p.Assignees {
		if a == userID {
			return nil
		}
	}
	p.Assignees = append(p.Assignees, userID)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// RemoveAssignee removes a team member from the project
func (p *Project) RemoveAssignee(userID uuid.UUID) error {
	for i, a := range p.Assignees {
		if a == userID {
			p.Assignees = append(p.Assignees[:i], p.Assignees[i+1:]...)
			p.Touch()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetDates sets the planned start and due dates
func (p *Project) SetDates(start, due *time.Time) error {
	if start != nil && due != nil && due.Before(*start) {
		return shared.NewDomainError(shared.CodeValidation, "Due date cannot be before start date")
	}
	p.StartDate = start
	p.DueDate = due
	p.Touch()
	p.IncrementVersion()
	return nil
}

// IsOverBudget returns true if actual cost exceeds budget
func (p *Project) IsOverBudget() bool {
	over, err := p.ActualCost.GreaterThan(p.Budget)
	if err != nil {
		return false
	}
	return over
}

// IsOverdue returns true if the project is past its due date and not terminal
func (p *Project) IsOverdue() bool {
	if p.DueDate == nil || p.Status.IsTerminal() {
		return false
	}
	return time.Now().After(*p.DueDate)
}

// IsActive returns true if work on the project may proceed
func (p *Project) IsActive() bool {
	return p.Status == ProjectStatusActive
}
