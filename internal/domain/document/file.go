package document

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/printflow/backend/internal/domain/shared"
)

// StorageRef is the opaque location tuple handed over by the storage
// collaborator. The domain stores it verbatim and never interprets it.
type StorageRef struct {
	URL       string `json:"url"`
	ObjectID  string `json:"object_id"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// Approval is the review sub-state of a file version. It is independent of
// versioning: creating a new version resets it to pending, and setting it
// never touches the version fields.
type Approval struct {
	Status     ApprovalState `json:"status"`
	ApprovedBy *uuid.UUID    `json:"approved_by,omitempty"`
	ApprovedAt *time.Time    `json:"approved_at,omitempty"`
	Comments   string        `json:"comments,omitempty"`
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (a Approval) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (a *Approval) Scan(value interface{}) error {
	if value == nil {
		*a = Approval{Status: ApprovalPending}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Approval: unsupported type")
	}

	if len(bytes) == 0 {
		*a = Approval{Status: ApprovalPending}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Metadata holds optional prepress attributes extracted at upload time
type Metadata struct {
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Resolution int    `json:"resolution,omitempty"`
	ColorMode  string `json:"color_mode,omitempty"`
	Pages      int    `json:"pages,omitempty"`
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Metadata: unsupported type")
	}

	if len(bytes) == 0 {
		*m = Metadata{}
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// StringList is a slice of strings stored as JSONB (file tags)
type StringList []string

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan StringList: unsupported type")
	}

	if len(bytes) == 0 {
		*l = StringList{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// File is one version in an artwork's version chain. Within a chain exactly
// one record carries IsLatestVersion=true and its version number is the
// chain's maximum; that invariant is maintained transactionally by the
// repository when a new version is created.
type File struct {
	shared.AuditedAggregateRoot
	OriginalName    string
	Storage         StorageRef
	Category        FileCategory
	ProjectID       *uuid.UUID
	TaskID          *uuid.UUID
	UploadedBy      uuid.UUID
	VersionNumber   int
	ParentFileID    *uuid.UUID
	IsLatestVersion bool
	Approval        Approval
	Metadata        Metadata
	Tags            StringList
	AccessLevel     AccessLevel
}

// NewFile registers a first upload as version 1 of a new chain
func NewFile(originalName string, storage StorageRef, category FileCategory, projectID *uuid.UUID, uploadedBy uuid.UUID) (*File, error) {
	if originalName == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "File name cannot be empty")
	}
	if len(originalName) > 255 {
		return nil, shared.NewDomainError(shared.CodeValidation, "File name cannot exceed 255 characters")
	}
	if storage.URL == "" || storage.ObjectID == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Storage reference is incomplete")
	}
	if storage.SizeBytes < 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "File size cannot be negative")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid file category")
	}
	if uploadedBy == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Uploader cannot be empty")
	}

	f := &File{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(uploadedBy),
		OriginalName:         originalName,
		Storage:              storage,
		Category:             category,
		ProjectID:            projectID,
		UploadedBy:           uploadedBy,
		VersionNumber:        1,
		IsLatestVersion:      true,
		Approval:             Approval{Status: ApprovalPending},
		Tags:                 StringList{},
		AccessLevel:          AccessClient,
	}

	f.AddDomainEvent(NewFileUploadedEvent(f))

	return f, nil
}

// NewVersion registers a re-upload as the parent's successor: version is
// parent.version+1, the chain link points at the parent, and approval starts
// over at pending regardless of the parent's outcome. The caller must flip
// the parent's latest flag in the same transaction.
func (f *File) NewVersion(originalName string, storage StorageRef, uploadedBy uuid.UUID) (*File, error) {
	if !f.IsLatestVersion {
		return nil, shared.NewDomainError(shared.CodeValidation,
			"New versions can only be created from the latest version")
	}

	child, err := NewFile(originalName, storage, f.Category, f.ProjectID, uploadedBy)
	if err != nil {
		return nil, err
	}

	child.ClearDomainEvents()
	child.VersionNumber = f.VersionNumber + 1
	child.ParentFileID = &f.ID
	child.TaskID = f.TaskID
	child.AccessLevel = f.AccessLevel
	child.AddDomainEvent(NewFileVersionCreatedEvent(child, f))

	return child, nil
}

// MarkSuperseded clears the latest flag when a successor version is created
func (f *File) MarkSuperseded() {
	if !f.IsLatestVersion {
		return
	}
	f.IsLatestVersion = false
	f.Touch()
	f.IncrementVersion()
}

// SetApproval records a review decision. Only the latest version of a chain
// accepts one; superseded versions keep the outcome they had. Version fields
// are never affected.
func (f *File) SetApproval(status ApprovalState, approver uuid.UUID, comments string) error {
	if !f.IsLatestVersion {
		return shared.NewDomainError("INVALID_STATE",
			"Approval can only change on the latest version of a file")
	}
	if !status.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid approval status")
	}
	if approver == uuid.Nil {
		return shared.NewDomainError(shared.CodeValidation, "Approver cannot be empty")
	}

	now := time.Now()
	f.Approval = Approval{
		Status:     status,
		ApprovedBy: &approver,
		ApprovedAt: &now,
		Comments:   comments,
	}
	f.UpdatedAt = now
	f.IncrementVersion()
	f.AddDomainEvent(NewFileApprovalChangedEvent(f))

	return nil
}

// SetAccessLevel changes who may see the file
func (f *File) SetAccessLevel(level AccessLevel) error {
	if !level.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid access level")
	}
	f.AccessLevel = level
	f.Touch()
	f.IncrementVersion()
	return nil
}

// AddTag attaches a label used for search
func (f *File) AddTag(tag string) {
	tag = strings.TrimSpace(strings.ToLower(tag))
	if tag == "" {
		return
	}
	for _, existing := range f.Tags {
		if existing == tag {
			return
		}
	}
	f.Tags = append(f.Tags, tag)
	f.Touch()
	f.IncrementVersion()
}

// Extension returns the lowercase file extension without the dot
func (f *File) Extension() string {
	idx := strings.LastIndex(f.OriginalName, ".")
	if idx < 0 || idx == len(f.OriginalName)-1 {
		return ""
	}
	return strings.ToLower(f.OriginalName[idx+1:])
}

// IsImage reports whether the file is a raster or vector image
func (f *File) IsImage() bool {
	switch f.Extension() {
	case "jpg", "jpeg", "png", "gif", "bmp", "webp", "svg":
		return true
	}
	return false
}
