package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	documentapp "github.com/printflow/backend/internal/application/document"
)

// DocumentHandler handles file upload and versioning API endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *documentapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *documentapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload handles POST /files. The request is multipart form data with a
// "file" part and metadata fields.
func (h *DocumentHandler) Upload(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file part")
		return
	}

	category := c.PostForm("category")
	if category == "" {
		h.BadRequest(c, "Category is required")
		return
	}

	req := documentapp.UploadFileRequest{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Category:    category,
		AccessLevel: c.PostForm("access_level"),
	}
	if projectID := c.PostForm("project_id"); projectID != "" {
		req.ProjectID = &projectID
	}
	if taskID := c.PostForm("task_id"); taskID != "" {
		req.TaskID = &taskID
	}

	body, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer body.Close()

	file, err := h.documentService.UploadFile(c.Request.Context(), actorID, req, body)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, file)
}

// UploadVersion handles POST /files/:id/versions
func (h *DocumentHandler) UploadVersion(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid file ID format")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file part")
		return
	}

	req := documentapp.NewVersionRequest{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
	}

	body, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer body.Close()

	file, err := h.documentService.CreateFileVersion(c.Request.Context(), fileID, actorID, req, body)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, file)
}

// GetByID handles GET /files/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid file ID format")
		return
	}

	file, err := h.documentService.GetFile(c.Request.Context(), fileID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, file)
}

// GetChain handles GET /files/:id/versions
func (h *DocumentHandler) GetChain(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid file ID format")
		return
	}

	chain, err := h.documentService.GetFileChain(c.Request.Context(), fileID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, chain)
}

// SetApproval handles PUT /files/:id/approval
func (h *DocumentHandler) SetApproval(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid file ID format")
		return
	}

	var req documentapp.SetApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	file, err := h.documentService.SetFileApproval(c.Request.Context(), fileID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, file)
}

// DownloadURL handles GET /files/:id/download-url
func (h *DocumentHandler) DownloadURL(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid file ID format")
		return
	}

	expiry := 15 * time.Minute
	if raw := c.Query("expiry_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 || minutes > 1440 {
			h.BadRequest(c, "expiry_minutes must be between 1 and 1440")
			return
		}
		expiry = time.Duration(minutes) * time.Minute
	}

	url, err := h.documentService.DownloadURL(c.Request.Context(), fileID, expiry)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"url": url, "expires_in": expiry.String()})
}

// ListProjectFiles handles GET /projects/:id/files
func (h *DocumentHandler) ListProjectFiles(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	files, err := h.documentService.ListProjectFiles(c.Request.Context(), projectID, c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, files)
}

// RegisterRoutes registers all document routes
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	files := rg.Group("/files")
	{
		files.POST("", h.Upload)
		files.GET("/:id", h.GetByID)
		files.POST("/:id/versions", h.UploadVersion)
		files.GET("/:id/versions", h.GetChain)
		files.PUT("/:id/approval", h.SetApproval)
		files.GET("/:id/download-url", h.DownloadURL)
	}

	rg.GET("/projects/:id/files", h.ListProjectFiles)
}
