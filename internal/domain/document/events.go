package document

import (
	"github.com/printflow/backend/internal/domain/shared"
)

// Event types for the document domain
const (
	EventTypeFileUploaded        = "file.uploaded"
	EventTypeFileVersionCreated  = "file.version_created"
	EventTypeFileApprovalChanged = "file.approval_changed"
)

// FileUploadedEvent is emitted when a new file chain starts
type FileUploadedEvent struct {
	shared.BaseDomainEvent
	OriginalName string       `json:"original_name"`
	Category     FileCategory `json:"category"`
	UploadedBy   string       `json:"uploaded_by"`
	SizeBytes    int64        `json:"size_bytes"`
}

func NewFileUploadedEvent(f *File) *FileUploadedEvent {
	return &FileUploadedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFileUploaded, "File", f.ID),
		OriginalName:    f.OriginalName,
		Category:        f.Category,
		UploadedBy:      f.UploadedBy.String(),
		SizeBytes:       f.Storage.SizeBytes,
	}
}

// FileVersionCreatedEvent is emitted when a re-upload extends a chain
type FileVersionCreatedEvent struct {
	shared.BaseDomainEvent
	OriginalName  string `json:"original_name"`
	VersionNumber int    `json:"version_number"`
	ParentFileID  string `json:"parent_file_id"`
}

func NewFileVersionCreatedEvent(child, parent *File) *FileVersionCreatedEvent {
	return &FileVersionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFileVersionCreated, "File", child.ID),
		OriginalName:    child.OriginalName,
		VersionNumber:   child.VersionNumber,
		ParentFileID:    parent.ID.String(),
	}
}

// FileApprovalChangedEvent is emitted on every review decision
type FileApprovalChangedEvent struct {
	shared.BaseDomainEvent
	OriginalName  string        `json:"original_name"`
	VersionNumber int           `json:"version_number"`
	Status        ApprovalState `json:"status"`
	ApprovedBy    string        `json:"approved_by,omitempty"`
}

func NewFileApprovalChangedEvent(f *File) *FileApprovalChangedEvent {
	ev := &FileApprovalChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFileApprovalChanged, "File", f.ID),
		OriginalName:    f.OriginalName,
		VersionNumber:   f.VersionNumber,
		Status:          f.Approval.Status,
	}
	if f.Approval.ApprovedBy != nil {
		ev.ApprovedBy = f.Approval.ApprovedBy.String()
	}
	return ev
}
