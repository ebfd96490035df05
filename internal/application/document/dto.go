package document

import (
	"time"

	"github.com/printflow/backend/internal/domain/document"
)

// UploadFileRequest represents the metadata accompanying an upload stream
type UploadFileRequest struct {
	FileName    string  `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string  `json:"content_type" binding:"required,max=100"`
	SizeBytes   int64   `json:"size_bytes" binding:"min=0"`
	Category    string  `json:"category" binding:"required"`
	ProjectID   *string `json:"project_id" binding:"omitempty,uuid"`
	TaskID      *string `json:"task_id" binding:"omitempty,uuid"`
	AccessLevel string  `json:"access_level"`
}

// NewVersionRequest represents re-uploading a file as a new version
type NewVersionRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
	SizeBytes   int64  `json:"size_bytes" binding:"min=0"`
}

// SetApprovalRequest represents a review decision on a file version
type SetApprovalRequest struct {
	Status   string `json:"status" binding:"required"`
	Comments string `json:"comments" binding:"max=1000"`
}

// ApprovalResponse represents a file's review sub-state in API responses
type ApprovalResponse struct {
	Status     string     `json:"status"`
	ApprovedBy *string    `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	Comments   string     `json:"comments,omitempty"`
}

// FileResponse represents a file version in API responses
type FileResponse struct {
	ID              string           `json:"id"`
	OriginalName    string           `json:"original_name"`
	URL             string           `json:"url"`
	MimeType        string           `json:"mime_type"`
	SizeBytes       int64            `json:"size_bytes"`
	Category        string           `json:"category"`
	ProjectID       *string          `json:"project_id,omitempty"`
	TaskID          *string          `json:"task_id,omitempty"`
	UploadedBy      string           `json:"uploaded_by"`
	Version         int              `json:"version"`
	ParentFileID    *string          `json:"parent_file_id,omitempty"`
	IsLatestVersion bool             `json:"is_latest_version"`
	Approval        ApprovalResponse `json:"approval"`
	Tags            []string         `json:"tags"`
	AccessLevel     string           `json:"access_level"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ToFileResponse maps a file aggregate to its response DTO
func ToFileResponse(f *document.File) *FileResponse {
	resp := &FileResponse{
		ID:              f.ID.String(),
		OriginalName:    f.OriginalName,
		URL:             f.Storage.URL,
		MimeType:        f.Storage.MimeType,
		SizeBytes:       f.Storage.SizeBytes,
		Category:        f.Category.String(),
		UploadedBy:      f.UploadedBy.String(),
		Version:         f.VersionNumber,
		IsLatestVersion: f.IsLatestVersion,
		Approval: ApprovalResponse{
			Status:     f.Approval.Status.String(),
			ApprovedAt: f.Approval.ApprovedAt,
			Comments:   f.Approval.Comments,
		},
		Tags:        f.Tags,
		AccessLevel: f.AccessLevel.String(),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
	if f.ProjectID != nil {
		s := f.ProjectID.String()
		resp.ProjectID = &s
	}
	if f.TaskID != nil {
		s := f.TaskID.String()
		resp.TaskID = &s
	}
	if f.ParentFileID != nil {
		s := f.ParentFileID.String()
		resp.ParentFileID = &s
	}
	if f.Approval.ApprovedBy != nil {
		s := f.Approval.ApprovedBy.String()
		resp.Approval.ApprovedBy = &s
	}
	return resp
}
