package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printflow/backend/internal/domain/document"
	"github.com/printflow/backend/internal/domain/shared"
)

const maxConflictRetries = 3

// ObjectStorage stores uploaded content and hands back the opaque location
// tuple the domain records. Implementations must not mutate stored objects:
// a re-upload always produces a new object under a new key.
type ObjectStorage interface {
	// Store writes the content under the given key and returns its location
	Store(ctx context.Context, key, contentType string, body io.Reader, size int64) (document.StorageRef, error)

	// PresignGet returns a time-limited download URL for the object
	PresignGet(ctx context.Context, objectID string, expiry time.Duration) (string, error)

	// Delete removes the object
	Delete(ctx context.Context, objectID string) error
}

// DocumentService implements file upload, versioning and approval use cases
type DocumentService struct {
	fileRepo document.FileRepository
	storage  ObjectStorage
	eventBus shared.EventBus
	logger   *zap.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	fileRepo document.FileRepository,
	storage ObjectStorage,
	eventBus shared.EventBus,
	logger *zap.Logger,
) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		fileRepo: fileRepo,
		storage:  storage,
		eventBus: eventBus,
		logger:   logger,
	}
}

// UploadFile stores the content and registers it as version 1 of a new chain
func (s *DocumentService) UploadFile(ctx context.Context, actorID uuid.UUID, req UploadFileRequest, body io.Reader) (*FileResponse, error) {
	var projectID *uuid.UUID
	if req.ProjectID != nil {
		id, err := uuid.Parse(*req.ProjectID)
		if err != nil {
			return nil, shared.NewDomainError(shared.CodeValidation, "Invalid project ID")
		}
		projectID = &id
	}

	ref, err := s.storage.Store(ctx, objectKey(req.FileName), req.ContentType, body, req.SizeBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to store file content: %w", err)
	}

	f, err := document.NewFile(req.FileName, ref, document.FileCategory(req.Category), projectID, actorID)
	if err != nil {
		return nil, err
	}

	if req.TaskID != nil {
		taskID, err := uuid.Parse(*req.TaskID)
		if err != nil {
			return nil, shared.NewDomainError(shared.CodeValidation, "Invalid task ID")
		}
		f.TaskID = &taskID
	}
	if req.AccessLevel != "" {
		if err := f.SetAccessLevel(document.AccessLevel(req.AccessLevel)); err != nil {
			return nil, err
		}
	}

	if err := s.fileRepo.Save(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	s.publishEvents(ctx, f.GetDomainEvents())
	f.ClearDomainEvents()

	s.logger.Info("file uploaded",
		zap.String("id", f.ID.String()),
		zap.String("name", f.OriginalName),
		zap.Int64("size", ref.SizeBytes))

	return ToFileResponse(f), nil
}

// CreateFileVersion stores the content and registers it as the successor of
// the chain containing the given file. The parent's latest flag is cleared in
// the same transaction that inserts the child; losing that race to a
// concurrent re-upload retries against the fresh chain head.
func (s *DocumentService) CreateFileVersion(ctx context.Context, fileID, actorID uuid.UUID, req NewVersionRequest, body io.Reader) (*FileResponse, error) {
	ref, err := s.storage.Store(ctx, objectKey(req.FileName), req.ContentType, body, req.SizeBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to store file content: %w", err)
	}

	var child *document.File

	err = s.retryOnConflict(func() error {
		parent, err := s.chainHead(ctx, fileID)
		if err != nil {
			return err
		}

		c, err := parent.NewVersion(req.FileName, ref, actorID)
		if err != nil {
			return err
		}
		parent.MarkSuperseded()

		if err := s.fileRepo.SaveVersion(ctx, parent, c); err != nil {
			return err
		}
		child = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, child.GetDomainEvents())
	child.ClearDomainEvents()

	s.logger.Info("file version created",
		zap.String("id", child.ID.String()),
		zap.String("parent", fileID.String()),
		zap.Int("version", child.VersionNumber))

	return ToFileResponse(child), nil
}

// SetFileApproval records a review decision on a file version
func (s *DocumentService) SetFileApproval(ctx context.Context, fileID, actorID uuid.UUID, req SetApprovalRequest) (*FileResponse, error) {
	var result *document.File

	err := s.retryOnConflict(func() error {
		f, err := s.fileRepo.FindByID(ctx, fileID)
		if err != nil {
			return err
		}
		if err := f.SetApproval(document.ApprovalState(req.Status), actorID, req.Comments); err != nil {
			return err
		}
		if err := s.fileRepo.Save(ctx, f); err != nil {
			return err
		}
		result = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, result.GetDomainEvents())
	result.ClearDomainEvents()

	return ToFileResponse(result), nil
}

// GetFile returns a single file version
func (s *DocumentService) GetFile(ctx context.Context, id uuid.UUID) (*FileResponse, error) {
	f, err := s.fileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToFileResponse(f), nil
}

// GetFileChain returns every version in the chain containing the given file,
// oldest first
func (s *DocumentService) GetFileChain(ctx context.Context, id uuid.UUID) ([]*FileResponse, error) {
	chain, err := s.fileRepo.FindChain(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load file chain: %w", err)
	}

	items := make([]*FileResponse, 0, len(chain))
	for i := range chain {
		items = append(items, ToFileResponse(&chain[i]))
	}
	return items, nil
}

// ListProjectFiles returns the latest versions of a project's files,
// optionally filtered by category
func (s *DocumentService) ListProjectFiles(ctx context.Context, projectID uuid.UUID, category string) ([]*FileResponse, error) {
	var cat *document.FileCategory
	if category != "" {
		c := document.FileCategory(category)
		if !c.IsValid() {
			return nil, shared.NewDomainError(shared.CodeValidation, "Invalid file category")
		}
		cat = &c
	}

	files, err := s.fileRepo.FindLatestByProject(ctx, projectID, cat)
	if err != nil {
		return nil, fmt.Errorf("failed to list project files: %w", err)
	}

	items := make([]*FileResponse, 0, len(files))
	for i := range files {
		items = append(items, ToFileResponse(&files[i]))
	}
	return items, nil
}

// DownloadURL returns a time-limited URL for the file's stored content
func (s *DocumentService) DownloadURL(ctx context.Context, id uuid.UUID, expiry time.Duration) (string, error) {
	f, err := s.fileRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := s.storage.PresignGet(ctx, f.Storage.ObjectID, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return url, nil
}

// chainHead resolves the latest version of the chain containing the file.
// A head that was superseded between the chain read and its use shows up as
// a conflict on the subsequent write and is retried.
func (s *DocumentService) chainHead(ctx context.Context, fileID uuid.UUID) (*document.File, error) {
	chain, err := s.fileRepo.FindChain(ctx, fileID)
	if err != nil {
		return nil, err
	}
	head := &chain[len(chain)-1]
	if !head.IsLatestVersion {
		return nil, shared.ErrConcurrencyConflict
	}
	return head, nil
}

// objectKey namespaces stored objects so re-uploads of the same name never
// collide
func objectKey(fileName string) string {
	return "files/" + uuid.NewString() + "/" + fileName
}

func (s *DocumentService) retryOnConflict(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

func (s *DocumentService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventBus == nil {
		return
	}
	for _, ev := range events {
		if err := s.eventBus.Publish(ctx, ev); err != nil {
			s.logger.Error("failed to publish event",
				zap.String("type", ev.EventType()),
				zap.Error(err))
		}
	}
}
