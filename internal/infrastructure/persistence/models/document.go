package models

import (
	"github.com/google/uuid"

	"github.com/printflow/backend/internal/domain/document"
)

// FileModel is the GORM model for the files table
type FileModel struct {
	AuditedAggregateModel
	OriginalName    string              `gorm:"column:original_name;type:varchar(255);not null"`
	StorageURL      string              `gorm:"column:storage_url;type:text;not null"`
	StorageObjectID string              `gorm:"column:storage_object_id;type:varchar(255);not null"`
	MimeType        string              `gorm:"column:mime_type;type:varchar(100)"`
	SizeBytes       int64               `gorm:"column:size_bytes;not null;default:0"`
	Category        string              `gorm:"type:varchar(30);not null;index"`
	ProjectID       *uuid.UUID          `gorm:"type:uuid;index"`
	TaskID          *uuid.UUID          `gorm:"type:uuid;index"`
	UploadedBy      uuid.UUID           `gorm:"column:uploaded_by;type:uuid;not null"`
	VersionNumber   int                 `gorm:"column:version_number;not null;default:1"`
	ParentFileID    *uuid.UUID          `gorm:"column:parent_file_id;type:uuid;index"`
	IsLatestVersion bool                `gorm:"column:is_latest_version;not null;default:true;index"`
	Approval        document.Approval   `gorm:"type:jsonb;not null;default:'{}'"`
	Metadata        document.Metadata   `gorm:"type:jsonb;not null;default:'{}'"`
	Tags            document.StringList `gorm:"type:jsonb;not null;default:'[]'"`
	AccessLevel     string              `gorm:"column:access_level;type:varchar(20);not null;default:'INTERNAL'"`
}

// TableName returns the table name for FileModel
func (FileModel) TableName() string {
	return "files"
}

// ToDomain converts FileModel to domain File
func (m *FileModel) ToDomain() *document.File {
	f := &document.File{
		OriginalName: m.OriginalName,
		Storage: document.StorageRef{
			URL:       m.StorageURL,
			ObjectID:  m.StorageObjectID,
			MimeType:  m.MimeType,
			SizeBytes: m.SizeBytes,
		},
		Category:        document.FileCategory(m.Category),
		ProjectID:       m.ProjectID,
		TaskID:          m.TaskID,
		UploadedBy:      m.UploadedBy,
		VersionNumber:   m.VersionNumber,
		ParentFileID:    m.ParentFileID,
		IsLatestVersion: m.IsLatestVersion,
		Approval:        m.Approval,
		Metadata:        m.Metadata,
		Tags:            m.Tags,
		AccessLevel:     document.AccessLevel(m.AccessLevel),
	}
	m.PopulateAuditedAggregateRoot(&f.AuditedAggregateRoot)
	return f
}

// FileModelFromDomain creates a FileModel from domain File
func FileModelFromDomain(f *document.File) *FileModel {
	return &FileModel{
		AuditedAggregateModel: auditedFromDomain(f.AuditedAggregateRoot),
		OriginalName:          f.OriginalName,
		StorageURL:            f.Storage.URL,
		StorageObjectID:       f.Storage.ObjectID,
		MimeType:              f.Storage.MimeType,
		SizeBytes:             f.Storage.SizeBytes,
		Category:              string(f.Category),
		ProjectID:             f.ProjectID,
		TaskID:                f.TaskID,
		UploadedBy:            f.UploadedBy,
		VersionNumber:         f.VersionNumber,
		ParentFileID:          f.ParentFileID,
		IsLatestVersion:       f.IsLatestVersion,
		Approval:              f.Approval,
		Metadata:              f.Metadata,
		Tags:                  f.Tags,
		AccessLevel:           string(f.AccessLevel),
	}
}
