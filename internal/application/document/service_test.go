package document

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/printflow/backend/internal/domain/document"
	"github.com/printflow/backend/internal/domain/shared"
)

// MockFileRepository is a mock implementation of document.FileRepository
type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.File), args.Error(1)
}

func (m *MockFileRepository) FindAll(ctx context.Context, filter shared.Filter) ([]document.File, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.File), args.Error(1)
}

func (m *MockFileRepository) FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]document.File, error) {
	args := m.Called(ctx, projectID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.File), args.Error(1)
}

func (m *MockFileRepository) FindChain(ctx context.Context, id uuid.UUID) ([]document.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.File), args.Error(1)
}

func (m *MockFileRepository) FindLatestByProject(ctx context.Context, projectID uuid.UUID, category *document.FileCategory) ([]document.File, error) {
	args := m.Called(ctx, projectID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.File), args.Error(1)
}

func (m *MockFileRepository) Save(ctx context.Context, file *document.File) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockFileRepository) SaveVersion(ctx context.Context, parent, child *document.File) error {
	args := m.Called(ctx, parent, child)
	return args.Error(0)
}

func (m *MockFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFileRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockObjectStorage is a mock implementation of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Store(ctx context.Context, key, contentType string, body io.Reader, size int64) (document.StorageRef, error) {
	args := m.Called(ctx, key, contentType, body, size)
	return args.Get(0).(document.StorageRef), args.Error(1)
}

func (m *MockObjectStorage) PresignGet(ctx context.Context, objectID string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectID, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, objectID string) error {
	args := m.Called(ctx, objectID)
	return args.Error(0)
}

func newTestService(t *testing.T) (*DocumentService, *MockFileRepository, *MockObjectStorage) {
	t.Helper()
	fileRepo := new(MockFileRepository)
	storage := new(MockObjectStorage)
	return NewDocumentService(fileRepo, storage, nil, nil), fileRepo, storage
}

func testStorageRef(name string) document.StorageRef {
	return document.StorageRef{
		URL:       "https://cdn.example.com/" + name,
		ObjectID:  "obj-" + name,
		MimeType:  "application/pdf",
		SizeBytes: 2048,
	}
}

func newStoredFile(t *testing.T) *document.File {
	t.Helper()
	projectID := uuid.New()
	f, err := document.NewFile("artwork.pdf", testStorageRef("artwork.pdf"), document.CategoryDesign, &projectID, uuid.New())
	require.NoError(t, err)
	f.ClearDomainEvents()
	return f
}

func TestUploadFile(t *testing.T) {
	svc, fileRepo, storage := newTestService(t)

	projectID := uuid.New().String()
	body := strings.NewReader("pdf bytes")

	storage.On("Store", mock.Anything, mock.AnythingOfType("string"), "application/pdf", body, int64(2048)).
		Return(testStorageRef("proof.pdf"), nil)
	fileRepo.On("Save", mock.Anything, mock.AnythingOfType("*document.File")).Return(nil)

	resp, err := svc.UploadFile(context.Background(), uuid.New(), UploadFileRequest{
		FileName:    "proof.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
		Category:    "PROOF",
		ProjectID:   &projectID,
	}, body)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Version)
	assert.True(t, resp.IsLatestVersion)
	assert.Equal(t, "PENDING", resp.Approval.Status)
	assert.Equal(t, "CLIENT", resp.AccessLevel)
	storage.AssertExpectations(t)
	fileRepo.AssertExpectations(t)
}

func TestUploadFile_StorageFailureNothingSaved(t *testing.T) {
	svc, fileRepo, storage := newTestService(t)

	storage.On("Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(document.StorageRef{}, assert.AnError)

	_, err := svc.UploadFile(context.Background(), uuid.New(), UploadFileRequest{
		FileName:    "proof.pdf",
		ContentType: "application/pdf",
		Category:    "PROOF",
	}, strings.NewReader(""))
	assert.ErrorIs(t, err, assert.AnError)
	fileRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreateFileVersion(t *testing.T) {
	svc, fileRepo, storage := newTestService(t)

	parent := newStoredFile(t)
	body := strings.NewReader("revised pdf")

	var superseded *document.File
	storage.On("Store", mock.Anything, mock.AnythingOfType("string"), "application/pdf", body, int64(4096)).
		Return(testStorageRef("artwork-v2.pdf"), nil)
	fileRepo.On("FindChain", mock.Anything, parent.ID).Return([]document.File{*parent}, nil)
	fileRepo.On("SaveVersion", mock.Anything, mock.AnythingOfType("*document.File"), mock.AnythingOfType("*document.File")).
		Run(func(args mock.Arguments) { superseded = args.Get(1).(*document.File) }).
		Return(nil)

	resp, err := svc.CreateFileVersion(context.Background(), parent.ID, uuid.New(), NewVersionRequest{
		FileName:    "artwork-v2.pdf",
		ContentType: "application/pdf",
		SizeBytes:   4096,
	}, body)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Version)
	assert.True(t, resp.IsLatestVersion)
	require.NotNil(t, resp.ParentFileID)
	assert.Equal(t, parent.ID.String(), *resp.ParentFileID)
	assert.Equal(t, "PENDING", resp.Approval.Status)
	require.NotNil(t, superseded)
	assert.False(t, superseded.IsLatestVersion)
}

func TestCreateFileVersion_TargetsChainHead(t *testing.T) {
	svc, fileRepo, storage := newTestService(t)

	v1 := newStoredFile(t)
	head, err := v1.NewVersion("artwork-v2.pdf", testStorageRef("artwork-v2.pdf"), uuid.New())
	require.NoError(t, err)
	v1.MarkSuperseded()
	head.ClearDomainEvents()

	storage.On("Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(testStorageRef("artwork-v3.pdf"), nil)
	// the caller holds a stale version id; the new version still lands on
	// the chain head
	fileRepo.On("FindChain", mock.Anything, v1.ID).Return([]document.File{*v1, *head}, nil)
	fileRepo.On("SaveVersion", mock.Anything, mock.AnythingOfType("*document.File"), mock.AnythingOfType("*document.File")).
		Return(nil)

	resp, err := svc.CreateFileVersion(context.Background(), v1.ID, uuid.New(), NewVersionRequest{
		FileName:    "artwork-v3.pdf",
		ContentType: "application/pdf",
	}, strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Version)
	require.NotNil(t, resp.ParentFileID)
	assert.Equal(t, head.ID.String(), *resp.ParentFileID)
}

func TestCreateFileVersion_LostRaceRetriesAgainstNewHead(t *testing.T) {
	svc, fileRepo, storage := newTestService(t)

	v1 := newStoredFile(t)
	rival, err := v1.NewVersion("rival.pdf", testStorageRef("rival.pdf"), uuid.New())
	require.NoError(t, err)
	rival.ClearDomainEvents()

	storage.On("Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(testStorageRef("mine.pdf"), nil)

	// the first read sees v1 as head but the insert loses to a concurrent
	// re-upload
	fileRepo.On("FindChain", mock.Anything, v1.ID).Return([]document.File{*v1}, nil).Once()
	fileRepo.On("SaveVersion", mock.Anything, mock.AnythingOfType("*document.File"), mock.AnythingOfType("*document.File")).
		Return(shared.ErrConcurrencyConflict).Once()

	// the retry reloads the chain and targets the rival's version instead
	superseded := *v1
	superseded.MarkSuperseded()
	fileRepo.On("FindChain", mock.Anything, v1.ID).Return([]document.File{superseded, *rival}, nil).Once()
	fileRepo.On("SaveVersion", mock.Anything, mock.AnythingOfType("*document.File"), mock.AnythingOfType("*document.File")).
		Return(nil).Once()

	resp, err := svc.CreateFileVersion(context.Background(), v1.ID, uuid.New(), NewVersionRequest{
		FileName:    "mine.pdf",
		ContentType: "application/pdf",
	}, strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Version)
	require.NotNil(t, resp.ParentFileID)
	assert.Equal(t, rival.ID.String(), *resp.ParentFileID)
	fileRepo.AssertNumberOfCalls(t, "FindChain", 2)
}

func TestSetFileApproval(t *testing.T) {
	svc, fileRepo, _ := newTestService(t)

	f := newStoredFile(t)
	approver := uuid.New()

	fileRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
	fileRepo.On("Save", mock.Anything, f).Return(nil)

	resp, err := svc.SetFileApproval(context.Background(), f.ID, approver, SetApprovalRequest{
		Status:   "APPROVED",
		Comments: "colors match the proof",
	})
	require.NoError(t, err)

	assert.Equal(t, "APPROVED", resp.Approval.Status)
	require.NotNil(t, resp.Approval.ApprovedBy)
	assert.Equal(t, approver.String(), *resp.Approval.ApprovedBy)
	// approval never touches version fields
	assert.Equal(t, 1, resp.Version)
	assert.True(t, resp.IsLatestVersion)
}

func TestSetFileApproval_SupersededRefused(t *testing.T) {
	svc, fileRepo, _ := newTestService(t)

	f := newStoredFile(t)
	f.MarkSuperseded()

	fileRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)

	_, err := svc.SetFileApproval(context.Background(), f.ID, uuid.New(), SetApprovalRequest{
		Status: "APPROVED",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	fileRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDownloadURL(t *testing.T) {
	svc, fileRepo, storage := newTestService(t)

	f := newStoredFile(t)
	fileRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
	storage.On("PresignGet", mock.Anything, f.Storage.ObjectID, 15*time.Minute).
		Return("https://cdn.example.com/signed", nil)

	url, err := svc.DownloadURL(context.Background(), f.ID, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/signed", url)
}

func TestListProjectFiles_InvalidCategory(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ListProjectFiles(context.Background(), uuid.New(), "SCRIBBLES")
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
}
