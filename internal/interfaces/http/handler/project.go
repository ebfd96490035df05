package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	projectapp "github.com/printflow/backend/internal/application/project"
)

// ProjectHandler handles project and task API endpoints
type ProjectHandler struct {
	BaseHandler
	projectService *projectapp.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *projectapp.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create handles POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	var req projectapp.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, project)
}

// GetByID handles GET /projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, project)
}

// List handles GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	req := projectapp.ListProjectsRequest{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.projectService.ListProjects(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ChangeStatus handles POST /projects/:id/status
func (h *ProjectHandler) ChangeStatus(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	var req projectapp.ChangeProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.ChangeProjectStatus(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, project)
}

// CreateTask handles POST /projects/:id/tasks
func (h *ProjectHandler) CreateTask(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	var req projectapp.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.projectService.CreateTask(c.Request.Context(), projectID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, task)
}

// GetTask handles GET /tasks/:id
func (h *ProjectHandler) GetTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	task, err := h.projectService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// ChangeTaskStatus handles POST /tasks/:id/status
func (h *ProjectHandler) ChangeTaskStatus(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	var req projectapp.TaskStatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.projectService.ApplyTaskChange(c.Request.Context(), taskID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// AddSubtask handles POST /tasks/:id/subtasks
func (h *ProjectHandler) AddSubtask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	var req struct {
		Title string `json:"title" binding:"required,min=1,max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.projectService.AddSubtask(c.Request.Context(), taskID, req.Title)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// ToggleSubtask handles PUT /tasks/:id/subtasks/:subtaskId
func (h *ProjectHandler) ToggleSubtask(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}
	subtaskID, err := uuid.Parse(c.Param("subtaskId"))
	if err != nil {
		h.BadRequest(c, "Invalid subtask ID format")
		return
	}

	var req projectapp.SubtaskChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.projectService.ApplySubtaskChange(c.Request.Context(), taskID, subtaskID, req.Completed, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// RegisterRoutes registers all project and task routes
func (h *ProjectHandler) RegisterRoutes(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	{
		projects.POST("", h.Create)
		projects.GET("", h.List)
		projects.GET("/:id", h.GetByID)
		projects.POST("/:id/status", h.ChangeStatus)
		projects.POST("/:id/tasks", h.CreateTask)
	}

	tasks := rg.Group("/tasks")
	{
		tasks.GET("/:id", h.GetTask)
		tasks.POST("/:id/status", h.ChangeTaskStatus)
		tasks.POST("/:id/subtasks", h.AddSubtask)
		tasks.PUT("/:id/subtasks/:subtaskId", h.ToggleSubtask)
	}
}
