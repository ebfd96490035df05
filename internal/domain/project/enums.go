package project

// ProjectStatus represents the lifecycle status of a project
type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "DRAFT"
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusOnHold    ProjectStatus = "ON_HOLD"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusCancelled ProjectStatus = "CANCELLED"
)

// IsValid checks if the ProjectStatus is a valid value
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusActive, ProjectStatusOnHold,
		ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ProjectStatus
func (s ProjectStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status.
// Terminal projects freeze their progress value.
func (s ProjectStatus) IsTerminal() bool {
	return s == ProjectStatusCompleted || s == ProjectStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s ProjectStatus) CanTransitionTo(target ProjectStatus) bool {
	switch s {
	case ProjectStatusDraft:
		return target == ProjectStatusActive || target == ProjectStatusCancelled
	case ProjectStatusActive:
		return target == ProjectStatusOnHold || target == ProjectStatusCompleted || target == ProjectStatusCancelled
	case ProjectStatusOnHold:
		return target == ProjectStatusActive || target == ProjectStatusCancelled
	case ProjectStatusCompleted, ProjectStatusCancelled:
		return false
	}
	return false
}

// AllProjectStatuses returns all valid ProjectStatus values
func AllProjectStatuses() []ProjectStatus {
	return []ProjectStatus{
		ProjectStatusDraft, ProjectStatusActive, ProjectStatusOnHold,
		ProjectStatusCompleted, ProjectStatusCancelled,
	}
}

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusReview     TaskStatus = "REVIEW"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// IsValid checks if the TaskStatus is a valid value
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview,
		TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TaskStatus
func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// Priority represents the urgency of a project or task
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// IsValid checks if the Priority is a valid value
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// String returns the string representation of Priority
func (p Priority) String() string {
	return string(p)
}

// ProjectCategory represents the kind of print product a project delivers
type ProjectCategory string

const (
	CategoryBrochure     ProjectCategory = "BROCHURE"
	CategoryBusinessCard ProjectCategory = "BUSINESS_CARD"
	CategoryBanner       ProjectCategory = "BANNER"
	CategoryPoster       ProjectCategory = "POSTER"
	CategoryBook         ProjectCategory = "BOOK"
	CategoryPackaging    ProjectCategory = "PACKAGING"
	CategoryOther        ProjectCategory = "OTHER"
)

// IsValid checks if the ProjectCategory is a valid value
func (c ProjectCategory) IsValid() bool {
	switch c {
	case CategoryBrochure, CategoryBusinessCard, CategoryBanner,
		CategoryPoster, CategoryBook, CategoryPackaging, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of ProjectCategory
func (c ProjectCategory) String() string {
	return string(c)
}

// TaskCategory represents the production stage a task belongs to
type TaskCategory string

const (
	TaskCategoryDesign       TaskCategory = "DESIGN"
	TaskCategoryReview       TaskCategory = "REVIEW"
	TaskCategoryPrinting     TaskCategory = "PRINTING"
	TaskCategoryQualityCheck TaskCategory = "QUALITY_CHECK"
	TaskCategoryDelivery     TaskCategory = "DELIVERY"
	TaskCategoryOther        TaskCategory = "OTHER"
)

// IsValid checks if the TaskCategory is a valid value
func (c TaskCategory) IsValid() bool {
	switch c {
	case TaskCategoryDesign, TaskCategoryReview, TaskCategoryPrinting,
		TaskCategoryQualityCheck, TaskCategoryDelivery, TaskCategoryOther:
		return true
	}
	return false
}

// String returns the string representation of TaskCategory
func (c TaskCategory) String() string {
	return string(c)
}
