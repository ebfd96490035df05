package project

import (
	"time"

	"github.com/printflow/backend/internal/domain/project"
)

// =============================================================================
// Project DTOs
// =============================================================================

// CreateProjectRequest represents a request to create a new project
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	Description string  `json:"description" binding:"max=2000"`
	ClientID    string  `json:"client_id" binding:"required,uuid"`
	Category    string  `json:"category" binding:"required"`
	Budget      float64 `json:"budget" binding:"min=0"`
	Currency    string  `json:"currency" binding:"required,currency"`
	Priority    string  `json:"priority"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
}

// ChangeProjectStatusRequest represents a lifecycle transition request
type ChangeProjectStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListProjectsRequest represents a request to list projects
type ListProjectsRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ClientID    string     `json:"client_id"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Progress    int        `json:"progress"`
	Budget      string     `json:"budget"`
	ActualCost  string     `json:"actual_cost"`
	Currency    string     `json:"currency"`
	OverBudget  bool       `json:"over_budget"`
	Overdue     bool       `json:"overdue"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Assignees   []string   `json:"assignees"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToProjectResponse maps a project aggregate to its response DTO
func ToProjectResponse(p *project.Project) *ProjectResponse {
	assignees := make([]string, 0, len(p.Assignees))
	for _, a := range p.Assignees {
		assignees = append(assignees, a.String())
	}

	return &ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		ClientID:    p.ClientID.String(),
		Status:      p.Status.String(),
		Priority:    p.Priority.String(),
		Category:    p.Category.String(),
		Progress:    p.Progress,
		Budget:      p.Budget.StringFixed(2),
		ActualCost:  p.ActualCost.StringFixed(2),
		Currency:    p.Budget.Currency().String(),
		OverBudget:  p.IsOverBudget(),
		Overdue:     p.IsOverdue(),
		StartDate:   p.StartDate,
		DueDate:     p.DueDate,
		CompletedAt: p.CompletedAt,
		Assignees:   assignees,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// =============================================================================
// Task DTOs
// =============================================================================

// CreateTaskRequest represents a request to create a task within a project
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	Category    string     `json:"category" binding:"required"`
	Priority    string     `json:"priority"`
	AssignedTo  *string    `json:"assigned_to" binding:"omitempty,uuid"`
	DueDate     *time.Time `json:"due_date"`
	Subtasks    []string   `json:"subtasks" binding:"max=50,dive,min=1,max=200"`
}

// SubtaskChangeRequest represents checking or unchecking one subtask
type SubtaskChangeRequest struct {
	Completed bool `json:"completed"`
}

// TaskStatusChangeRequest represents a manual task transition
type TaskStatusChangeRequest struct {
	Status string `json:"status" binding:"required"`
}

// SubtaskResponse represents a subtask in API responses
type SubtaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	ProjectID     string            `json:"project_id"`
	Status        string            `json:"status"`
	Priority      string            `json:"priority"`
	Category      string            `json:"category"`
	Progress      int               `json:"progress"`
	AssignedTo    *string           `json:"assigned_to,omitempty"`
	DueDate       *time.Time        `json:"due_date,omitempty"`
	CompletedDate *time.Time        `json:"completed_date,omitempty"`
	Subtasks      []SubtaskResponse `json:"subtasks"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ToTaskResponse maps a task aggregate to its response DTO
func ToTaskResponse(t *project.Task) *TaskResponse {
	subtasks := make([]SubtaskResponse, 0, len(t.Subtasks))
	for _, st := range t.Subtasks {
		subtasks = append(subtasks, SubtaskResponse{
			ID:          st.ID.String(),
			Title:       st.Title,
			Completed:   st.Completed,
			CompletedAt: st.CompletedAt,
		})
	}

	resp := &TaskResponse{
		ID:            t.ID.String(),
		Title:         t.Title,
		Description:   t.Description,
		ProjectID:     t.ProjectID.String(),
		Status:        t.Status.String(),
		Priority:      t.Priority.String(),
		Category:      t.Category.String(),
		Progress:      t.Progress,
		DueDate:       t.DueDate,
		CompletedDate: t.CompletedDate,
		Subtasks:      subtasks,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.AssignedTo != nil {
		s := t.AssignedTo.String()
		resp.AssignedTo = &s
	}
	return resp
}
