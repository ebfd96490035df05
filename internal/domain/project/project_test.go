package project

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printflow/backend/internal/domain/shared"
	"github.com/printflow/backend/internal/domain/shared/valueobject"
)

func createTestProject(t *testing.T) *Project {
	t.Helper()
	budget, err := valueobject.NewMoneyFromFloat(5000, valueobject.AED)
	require.NoError(t, err)
	p, err := NewProject("Ramadan campaign banners", uuid.New(), CategoryBanner, budget, uuid.New())
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func taskWithStatus(t *testing.T, p *Project, status TaskStatus) *Task {
	t.Helper()
	task, err := NewTask(p.ID, "task", TaskCategoryPrinting, uuid.New())
	require.NoError(t, err)
	task.Status = status
	if status == TaskStatusCompleted {
		task.Progress = 100
	}
	return task
}

func TestNewProject(t *testing.T) {
	budget, err := valueobject.NewMoneyFromFloat(1200.50, valueobject.USD)
	require.NoError(t, err)
	clientID := uuid.New()

	p, err := NewProject("Corporate brochure reprint", clientID, CategoryBrochure, budget, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, ProjectStatusDraft, p.Status)
	assert.Equal(t, clientID, p.ClientID)
	assert.Equal(t, 0, p.Progress)
	assert.True(t, p.ActualCost.IsZero())
	assert.Equal(t, valueobject.USD, p.ActualCost.Currency())

	events := p.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeProjectCreated, events[0].EventType())
}

func TestNewProject_Validation(t *testing.T) {
	budget, _ := valueobject.NewMoneyFromFloat(100, valueobject.AED)
	negative, _ := valueobject.NewMoney(budget.Amount().Neg(), valueobject.AED)

	tests := []struct {
		name     string
		pname    string
		clientID uuid.UUID
		category ProjectCategory
		budget   valueobject.Money
	}{
		{"empty name", "", uuid.New(), CategoryBanner, budget},
		{"empty client", "Name", uuid.Nil, CategoryBanner, budget},
		{"invalid category", "Name", uuid.New(), ProjectCategory("FLYER"), budget},
		{"negative budget", "Name", uuid.New(), CategoryBanner, negative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProject(tt.pname, tt.clientID, tt.category, tt.budget, uuid.New())
			assert.Error(t, err)
		})
	}
}

func TestProject_StatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		path    []ProjectStatus
		wantErr bool
	}{
		{"draft to active", []ProjectStatus{ProjectStatusActive}, false},
		{"full lifecycle", []ProjectStatus{ProjectStatusActive, ProjectStatusOnHold, ProjectStatusActive, ProjectStatusCompleted}, false},
		{"draft straight to completed", []ProjectStatus{ProjectStatusCompleted}, true},
		{"on hold to completed", []ProjectStatus{ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted}, true},
		{"cancel from draft", []ProjectStatus{ProjectStatusCancelled}, false},
		{"reopen cancelled", []ProjectStatus{ProjectStatusCancelled, ProjectStatusActive}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := createTestProject(t)
			var err error
			for _, target := range tt.path {
				err = p.ChangeStatus(target)
				if err != nil {
					break
				}
			}
			if tt.wantErr {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, shared.CodeIllegalTransition, domainErr.Code)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestProject_Complete_StampsDateAndEvent(t *testing.T) {
	p := createTestProject(t)
	require.NoError(t, p.ChangeStatus(ProjectStatusActive))
	p.ClearDomainEvents()

	require.NoError(t, p.ChangeStatus(ProjectStatusCompleted))
	require.NotNil(t, p.CompletedAt)

	var sawCompleted bool
	for _, ev := range p.GetDomainEvents() {
		if ev.EventType() == EventTypeProjectCompleted {
			sawCompleted = true
		}
	}
	assert.True(t, sawCompleted)
}

func TestProject_RecalculateProgress(t *testing.T) {
	p := createTestProject(t)
	require.NoError(t, p.ChangeStatus(ProjectStatusActive))

	// 1 of 3 completed rounds half-up to 33
	tasks := []*Task{
		taskWithStatus(t, p, TaskStatusCompleted),
		taskWithStatus(t, p, TaskStatusInProgress),
		taskWithStatus(t, p, TaskStatusTodo),
	}
	p.RecalculateProgress(tasks)
	assert.Equal(t, 33, p.Progress)

	tasks[1].Status = TaskStatusCompleted
	p.RecalculateProgress(tasks)
	assert.Equal(t, 67, p.Progress)

	tasks[2].Status = TaskStatusCompleted
	p.RecalculateProgress(tasks)
	assert.Equal(t, 100, p.Progress)
}

func TestProject_RecalculateProgress_NoTasks(t *testing.T) {
	p := createTestProject(t)
	p.RecalculateProgress(nil)
	assert.Equal(t, 0, p.Progress)

	p.RecalculateProgress([]*Task{})
	assert.Equal(t, 0, p.Progress)
}

func TestProject_RecalculateProgress_TerminalFrozen(t *testing.T) {
	p := createTestProject(t)
	require.NoError(t, p.ChangeStatus(ProjectStatusActive))

	p.RecalculateProgress([]*Task{taskWithStatus(t, p, TaskStatusCompleted)})
	assert.Equal(t, 100, p.Progress)

	require.NoError(t, p.ChangeStatus(ProjectStatusCancelled))
	p.RecalculateProgress([]*Task{
		taskWithStatus(t, p, TaskStatusCompleted),
		taskWithStatus(t, p, TaskStatusTodo),
	})
	assert.Equal(t, 100, p.Progress)
}

func TestProject_RecalculateProgress_EmitsEventOnChange(t *testing.T) {
	p := createTestProject(t)
	require.NoError(t, p.ChangeStatus(ProjectStatusActive))
	p.ClearDomainEvents()

	tasks := []*Task{
		taskWithStatus(t, p, TaskStatusCompleted),
		taskWithStatus(t, p, TaskStatusTodo),
	}
	p.RecalculateProgress(tasks)
	require.Len(t, p.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeProjectProgressChanged, p.GetDomainEvents()[0].EventType())

	// unchanged progress publishes nothing
	p.ClearDomainEvents()
	p.RecalculateProgress(tasks)
	assert.Empty(t, p.GetDomainEvents())
}

func TestProject_AddCost(t *testing.T) {
	p := createTestProject(t)

	cost, _ := valueobject.NewMoneyFromFloat(3000, valueobject.AED)
	require.NoError(t, p.AddCost(cost))
	assert.False(t, p.IsOverBudget())

	require.NoError(t, p.AddCost(cost))
	assert.True(t, p.IsOverBudget())

	wrongCurrency, _ := valueobject.NewMoneyFromFloat(10, valueobject.USD)
	assert.Error(t, p.AddCost(wrongCurrency))
}

func TestProject_Assignees(t *testing.T) {
	p := createTestProject(t)
	userID := uuid.New()

	require.NoError(t, p.AddAssignee(userID))
	require.NoError(t, p.AddAssignee(userID))
	assert.Len(t, p.Assignees, 1)

	require.NoError(t, p.RemoveAssignee(userID))
	assert.Empty(t, p.Assignees)

	assert.ErrorIs(t, p.RemoveAssignee(userID), shared.ErrNotFound)
}
