package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printflow/backend/internal/domain/project"
	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/domain/shared/valueobject"
)

// ProjectModel is the GORM model for the projects table
type ProjectModel struct {
	AuditedAggregateModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status      string          `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Priority    string          `gorm:"type:varchar(10);not null;default:'MEDIUM'"`
	Category    string          `gorm:"type:varchar(30);not null"`
	StartDate   *time.Time      `gorm:"column:start_date"`
	DueDate     *time.Time      `gorm:"column:due_date"`
	CompletedAt *time.Time      `gorm:"column:completed_at"`
	Budget      decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	ActualCost  decimal.Decimal `gorm:"column:actual_cost;type:numeric(18,4);not null;default:0"`
	Currency    string          `gorm:"type:varchar(3);not null"`
	Assignees   shared.UUIDList `gorm:"type:jsonb;not null;default:'[]'"`
	Progress    int             `gorm:"not null;default:0"`
}

// TableName returns the table name for ProjectModel
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts ProjectModel to domain Project
func (m *ProjectModel) ToDomain() *project.Project {
	currency := valueobject.Currency(m.Currency)
	p := &project.Project{
		Name:        m.Name,
		Description: m.Description,
		ClientID:    m.ClientID,
		Status:      project.ProjectStatus(m.Status),
		Priority:    project.Priority(m.Priority),
		Category:    project.ProjectCategory(m.Category),
		StartDate:   m.StartDate,
		DueDate:     m.DueDate,
		CompletedAt: m.CompletedAt,
		Budget:      moneyFrom(m.Budget, currency),
		ActualCost:  moneyFrom(m.ActualCost, currency),
		Assignees:   m.Assignees,
		Progress:    m.Progress,
	}
	m.PopulateAuditedAggregateRoot(&p.AuditedAggregateRoot)
	return p
}

// ProjectModelFromDomain creates a ProjectModel from domain Project
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	return &ProjectModel{
		AuditedAggregateModel: auditedFromDomain(p.AuditedAggregateRoot),
		Name:                  p.Name,
		Description:           p.Description,
		ClientID:              p.ClientID,
		Status:                p.Status.String(),
		Priority:              string(p.Priority),
		Category:              string(p.Category),
		StartDate:             p.StartDate,
		DueDate:               p.DueDate,
		CompletedAt:           p.CompletedAt,
		Budget:                p.Budget.Amount(),
		ActualCost:            p.ActualCost.Amount(),
		Currency:              p.Budget.Currency().String(),
		Assignees:             p.Assignees,
		Progress:              p.Progress,
	}
}

// TaskModel is the GORM model for the tasks table
type TaskModel struct {
	AuditedAggregateModel
	Title         string           `gorm:"type:varchar(200);not null"`
	Description   string           `gorm:"type:text"`
	ProjectID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	AssignedTo    *uuid.UUID       `gorm:"column:assigned_to;type:uuid;index"`
	Status        string           `gorm:"type:varchar(20);not null;default:'TODO';index"`
	Priority      string           `gorm:"type:varchar(10);not null;default:'MEDIUM'"`
	Category      string           `gorm:"type:varchar(30);not null"`
	DueDate       *time.Time       `gorm:"column:due_date"`
	StartDate     *time.Time       `gorm:"column:start_date"`
	CompletedDate *time.Time       `gorm:"column:completed_date"`
	Subtasks      project.Subtasks `gorm:"type:jsonb;not null;default:'[]'"`
	Dependencies  shared.UUIDList  `gorm:"type:jsonb;not null;default:'[]'"`
	Progress      int              `gorm:"not null;default:0"`
}

// TableName returns the table name for TaskModel
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts TaskModel to domain Task
func (m *TaskModel) ToDomain() *project.Task {
	t := &project.Task{
		Title:         m.Title,
		Description:   m.Description,
		ProjectID:     m.ProjectID,
		AssignedTo:    m.AssignedTo,
		Status:        project.TaskStatus(m.Status),
		Priority:      project.Priority(m.Priority),
		Category:      project.TaskCategory(m.Category),
		DueDate:       m.DueDate,
		StartDate:     m.StartDate,
		CompletedDate: m.CompletedDate,
		Subtasks:      m.Subtasks,
		Dependencies:  m.Dependencies,
		Progress:      m.Progress,
	}
	m.PopulateAuditedAggregateRoot(&t.AuditedAggregateRoot)
	return t
}

// TaskModelFromDomain creates a TaskModel from domain Task
func TaskModelFromDomain(t *project.Task) *TaskModel {
	return &TaskModel{
		AuditedAggregateModel: auditedFromDomain(t.AuditedAggregateRoot),
		Title:                 t.Title,
		Description:           t.Description,
		ProjectID:             t.ProjectID,
		AssignedTo:            t.AssignedTo,
		Status:                t.Status.String(),
		Priority:              string(t.Priority),
		Category:              string(t.Category),
		DueDate:               t.DueDate,
		StartDate:             t.StartDate,
		CompletedDate:         t.CompletedDate,
		Subtasks:              t.Subtasks,
		Dependencies:          t.Dependencies,
		Progress:              t.Progress,
	}
}

// moneyFrom rebuilds a Money value from its stored amount and currency.
// The database is the authority here; an unknown currency code falls back
// to the zero value rather than failing the read.
func moneyFrom(amount decimal.Decimal, currency valueobject.Currency) valueobject.Money {
	m, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return valueobject.Zero(valueobject.DefaultCurrency)
	}
	return m
}
