package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	productionapp "github.com/printflow/backend/internal/application/production"
)

// ProductionHandler handles print job and quality check API endpoints
type ProductionHandler struct {
	BaseHandler
	productionService *productionapp.ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(productionService *productionapp.ProductionService) *ProductionHandler {
	return &ProductionHandler{productionService: productionService}
}

// Create handles POST /print-jobs
func (h *ProductionHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	var req productionapp.CreatePrintJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	job, err := h.productionService.CreatePrintJob(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, job)
}

// GetByID handles GET /print-jobs/:id
func (h *ProductionHandler) GetByID(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid print job ID format")
		return
	}

	job, err := h.productionService.GetPrintJob(c.Request.Context(), jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// GetByNumber handles GET /print-jobs/number/:number
func (h *ProductionHandler) GetByNumber(c *gin.Context) {
	jobNumber := c.Param("number")
	if jobNumber == "" {
		h.BadRequest(c, "Job number is required")
		return
	}

	job, err := h.productionService.GetPrintJobByNumber(c.Request.Context(), jobNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// List handles GET /print-jobs
func (h *ProductionHandler) List(c *gin.Context) {
	req := productionapp.ListPrintJobsRequest{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.productionService.ListPrintJobs(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Transition handles POST /print-jobs/:id/transition
func (h *ProductionHandler) Transition(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid print job ID format")
		return
	}

	var req productionapp.TransitionPrintJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	job, err := h.productionService.TransitionPrintJob(c.Request.Context(), jobID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// SetCosts handles PUT /print-jobs/:id/costs
func (h *ProductionHandler) SetCosts(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid print job ID format")
		return
	}

	var req productionapp.SetJobCostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	job, err := h.productionService.SetJobCosts(c.Request.Context(), jobID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// SetSpec handles PUT /print-jobs/:id/spec
func (h *ProductionHandler) SetSpec(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid print job ID format")
		return
	}

	var req productionapp.SpecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	job, err := h.productionService.SetJobSpec(c.Request.Context(), jobID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// RecordQuantities handles PUT /print-jobs/:id/quantities
func (h *ProductionHandler) RecordQuantities(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid print job ID format")
		return
	}

	var req productionapp.RecordQuantitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	job, err := h.productionService.RecordJobQuantities(c.Request.Context(), jobID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// Schedule handles PUT /print-jobs/:id/schedule
func (h *ProductionHandler) Schedule(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid print job ID format")
		return
	}

	var req productionapp.ScheduleJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	job, err := h.productionService.ScheduleJob(c.Request.Context(), jobID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// AssignOperator handles PUT /print-jobs/:id/operator
func (h *ProductionHandler) AssignOperator(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid print job ID format")
		return
	}

	var req productionapp.AssignOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	job, err := h.productionService.AssignOperator(c.Request.Context(), jobID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// AddNote handles POST /print-jobs/:id/notes
func (h *ProductionHandler) AddNote(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid print job ID format")
		return
	}

	var req productionapp.AddJobNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	job, err := h.productionService.AddJobNote(c.Request.Context(), jobID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// RecordQualityCheck handles POST /print-jobs/:id/quality-checks
func (h *ProductionHandler) RecordQualityCheck(c *gin.Context) {
	inspectorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid print job ID format")
		return
	}

	var req productionapp.RecordQualityCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	check, err := h.productionService.RecordQualityCheck(c.Request.Context(), jobID, inspectorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, check)
}

// ListQualityChecks handles GET /print-jobs/:id/quality-checks
func (h *ProductionHandler) ListQualityChecks(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid print job ID format")
		return
	}

	checks, err := h.productionService.ListQualityChecks(c.Request.Context(), jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, checks)
}

// RegisterRoutes registers all production routes
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/print-jobs")
	{
		jobs.POST("", h.Create)
		jobs.GET("", h.List)
		jobs.GET("/:id", h.GetByID)
		jobs.GET("/number/:number", h.GetByNumber)
		jobs.POST("/:id/transition", h.Transition)
		jobs.PUT("/:id/costs", h.SetCosts)
		jobs.PUT("/:id/spec", h.SetSpec)
		jobs.PUT("/:id/quantities", h.RecordQuantities)
		jobs.PUT("/:id/schedule", h.Schedule)
		jobs.PUT("/:id/operator", h.AssignOperator)
		jobs.POST("/:id/notes", h.AddNote)
		jobs.POST("/:id/quality-checks", h.RecordQualityCheck)
		jobs.GET("/:id/quality-checks", h.ListQualityChecks)
	}
}
