package command_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/service"
	"github.com/123ang/iso-document/internal/usecase/versioning/command"
	"github.com/123ang/iso-document/pkg/apperror"
	"github.com/123ang/iso-document/tests/testutil/mocks"
)

type uploadVersionTestDeps struct {
	documentRepo *mocks.MockDocumentRepository
	versionRepo  *mocks.MockDocumentVersionRepository
	txManager    *mocks.MockTransactionManager
	storage      *mocks.MockBlobStorage
	audit        *mocks.MockAuditService
	policy       service.VersionNumberingPolicy
	config       command.UploadVersionConfig
}

func newUploadVersionTestDeps(t *testing.T) *uploadVersionTestDeps {
	t.Helper()
	return &uploadVersionTestDeps{
		documentRepo: mocks.NewMockDocumentRepository(t),
		versionRepo:  mocks.NewMockDocumentVersionRepository(t),
		txManager:    mocks.NewMockTransactionManager(t),
		storage:      mocks.NewMockBlobStorage(t),
		audit:        mocks.NewMockAuditService(t),
		policy:       service.NewMajorOnlyPolicy(),
		config:       command.UploadVersionConfig{MaxFileSize: 1 << 20},
	}
}

func (d *uploadVersionTestDeps) newCommand() *command.UploadVersionCommand {
	coordinator := command.NewCurrentVersionCoordinator(d.versionRepo, d.documentRepo, d.txManager)
	return command.NewUploadVersionCommand(
		d.documentRepo,
		d.versionRepo,
		d.txManager,
		d.storage,
		service.NewChecksumService(),
		d.policy,
		coordinator,
		d.audit,
		service.NoopVersionMetrics{},
		d.config,
	)
}

// expectPersist は採番からカレント化までの呼び出しを設定します
func (d *uploadVersionTestDeps) expectPersist(doc *entity.Document, existing []*entity.DocumentVersion) {
	d.documentRepo.On("LockForUpdate", mock.Anything, doc.ID).Return(doc, nil)
	d.versionRepo.On("FindByDocumentID", mock.Anything, doc.ID).Return(existing, nil)
	d.versionRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.DocumentVersion")).Return(nil)
	d.versionRepo.On("ClearCurrent", mock.Anything, doc.ID, mock.AnythingOfType("uuid.UUID")).Return(nil)
	d.versionRepo.On("MarkCurrent", mock.Anything, doc.ID, mock.AnythingOfType("uuid.UUID"), true).Return(nil)
	d.documentRepo.On("SetCurrentVersion", mock.Anything, doc.ID, mock.AnythingOfType("uuid.UUID")).Return(nil)
}

func newUploadInput(documentID uuid.UUID, content string) command.UploadVersionInput {
	return command.UploadVersionInput{
		DocumentID: documentID,
		File:       strings.NewReader(content),
		FileName:   "manual.pdf",
		MimeType:   "application/pdf",
		Size:       int64(len(content)),
		Caller:     newAdminCaller(),
		Meta:       command.RequestMeta{IPAddress: "10.0.0.1", UserAgent: "test"},
	}
}

func TestUploadVersionCommand_Execute_FirstVersion_IsOneZeroAndCurrent(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	doc := newDocument(uuid.New())
	input := newUploadInput(doc.ID, "hello world")

	deps.documentRepo.On("Exists", mock.Anything, doc.ID).Return(true, nil)
	deps.storage.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, fmt.Sprintf("documents/%s/", doc.ID)) && strings.HasSuffix(key, ".pdf")
	}), int64(11), "application/pdf").Return(&service.PutResult{Size: 11}, nil)
	deps.expectPersist(doc, nil)
	deps.audit.On("Log", mock.Anything, mock.MatchedBy(func(e service.AuditEntry) bool {
		return e.Action == entity.AuditActionVersionUpload &&
			e.ResourceType == entity.AuditResourceDocumentVersion &&
			*e.UserID == input.Caller.UserID &&
			e.IPAddress == "10.0.0.1" &&
			e.Details["versionLabel"] == "1.0"
	}))

	output, err := deps.newCommand().Execute(ctx, input)

	require.NoError(t, err)
	v := output.Version
	assert.Equal(t, 1, v.Number.Major())
	assert.Equal(t, 0, v.Number.Minor())
	assert.Equal(t, "1.0", v.Label())
	assert.True(t, v.IsCurrent)
	assert.Equal(t, int64(11), v.SizeBytes)
	assert.Equal(t, helloWorldSHA256, v.Checksum.Value())
	assert.Equal(t, "manual.pdf", v.OriginalFilename.Value())
	assert.Equal(t, fmt.Sprintf("documents/%s/%s.pdf", doc.ID, v.ID), v.FilePath.Value())
	assert.Equal(t, input.Caller.UserID, v.CreatedByID)
}

func TestUploadVersionCommand_Execute_NextMajorFromLatest(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	doc := newDocument(uuid.New())
	existing := []*entity.DocumentVersion{
		newStoredVersion(doc.ID, 1, 0, false),
		newStoredVersion(doc.ID, 2, 0, true),
	}

	deps.documentRepo.On("Exists", mock.Anything, doc.ID).Return(true, nil)
	deps.storage.On("Put", mock.Anything, mock.Anything, int64(4), "application/pdf").Return(&service.PutResult{Size: 4}, nil)
	deps.expectPersist(doc, existing)
	deps.audit.On("Log", mock.Anything, mock.Anything)

	output, err := deps.newCommand().Execute(ctx, newUploadInput(doc.ID, "data"))

	require.NoError(t, err)
	assert.Equal(t, "3.0", output.Version.Label())
}

func TestUploadVersionCommand_Execute_MajorOnlyRejectsMinorBump(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	input := newUploadInput(uuid.New(), "data")
	input.VersionType = "minor"

	output, err := deps.newCommand().Execute(ctx, input)

	assert.Nil(t, output)
	assert.True(t, apperror.IsValidation(err))
}

func TestUploadVersionCommand_Execute_MajorMinorPolicy_MinorBump(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	deps.policy = service.NewMajorMinorPolicy()
	doc := newDocument(uuid.New())
	existing := []*entity.DocumentVersion{newStoredVersion(doc.ID, 1, 2, true)}

	deps.documentRepo.On("Exists", mock.Anything, doc.ID).Return(true, nil)
	deps.storage.On("Put", mock.Anything, mock.Anything, int64(4), "application/pdf").Return(&service.PutResult{Size: 4}, nil)
	deps.expectPersist(doc, existing)
	deps.audit.On("Log", mock.Anything, mock.Anything)

	input := newUploadInput(doc.ID, "data")
	input.VersionType = "minor"
	output, err := deps.newCommand().Execute(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "1.3", output.Version.Label())
}

func TestUploadVersionCommand_Execute_InvalidVersionType(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	input := newUploadInput(uuid.New(), "data")
	input.VersionType = "patch"

	_, err := deps.newCommand().Execute(ctx, input)

	assert.True(t, apperror.IsValidation(err))
}

func TestUploadVersionCommand_Execute_NonAdminForbidden(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	input := newUploadInput(uuid.New(), "data")
	input.Caller = newUserCaller(uuid.New())

	_, err := deps.newCommand().Execute(ctx, input)

	assert.True(t, apperror.IsForbidden(err))
}

func TestUploadVersionCommand_Execute_DocumentMissing_NoFileWritten(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	input := newUploadInput(uuid.New(), "data")

	deps.documentRepo.On("Exists", mock.Anything, input.DocumentID).Return(false, nil)

	_, err := deps.newCommand().Execute(ctx, input)

	assert.True(t, apperror.IsValidation(err))
	deps.storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadVersionCommand_Execute_EmptyFile_DeletesBlob(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	input := newUploadInput(uuid.New(), "")
	input.Size = -1

	deps.documentRepo.On("Exists", mock.Anything, input.DocumentID).Return(true, nil)
	deps.storage.On("Put", mock.Anything, mock.Anything, int64(-1), "application/pdf").Return(&service.PutResult{Size: 0}, nil)
	deps.storage.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := deps.newCommand().Execute(ctx, input)

	assert.True(t, apperror.IsValidation(err))
	deps.versionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("client disconnected")
}

func TestUploadVersionCommand_Execute_ReadFailure_IsIOError(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	input := newUploadInput(uuid.New(), "")
	input.File = brokenReader{}
	input.Size = -1

	deps.documentRepo.On("Exists", mock.Anything, input.DocumentID).Return(true, nil)
	deps.storage.On("Put", mock.Anything, mock.Anything, int64(-1), "application/pdf").Return(nil, nil)
	deps.storage.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := deps.newCommand().Execute(ctx, input)

	assert.True(t, apperror.IsIOError(err))
	deps.versionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadVersionCommand_Execute_DeclaredSizeTooLarge(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	deps.config.MaxFileSize = 4
	input := newUploadInput(uuid.New(), "too large")

	_, err := deps.newCommand().Execute(ctx, input)

	code, ok := apperror.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodePayloadTooLarge, code)
}

func TestUploadVersionCommand_Execute_StreamTooLarge(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	deps.config.MaxFileSize = 4
	input := newUploadInput(uuid.New(), "too large")
	input.Size = -1

	deps.documentRepo.On("Exists", mock.Anything, input.DocumentID).Return(true, nil)
	deps.storage.On("Put", mock.Anything, mock.Anything, int64(-1), "application/pdf").Return(nil, nil)
	deps.storage.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := deps.newCommand().Execute(ctx, input)

	code, ok := apperror.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodePayloadTooLarge, code)
}

func TestUploadVersionCommand_Execute_ExactlyMaxSizeAccepted(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	deps.config.MaxFileSize = 4
	doc := newDocument(uuid.New())
	input := newUploadInput(doc.ID, "data")
	input.Size = -1

	deps.documentRepo.On("Exists", mock.Anything, doc.ID).Return(true, nil)
	deps.storage.On("Put", mock.Anything, mock.Anything, int64(-1), "application/pdf").Return(&service.PutResult{Size: 4}, nil)
	deps.expectPersist(doc, nil)
	deps.audit.On("Log", mock.Anything, mock.Anything)

	output, err := deps.newCommand().Execute(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, int64(4), output.Version.SizeBytes)
}

func TestUploadVersionCommand_Execute_CreateFailure_DeletesBlobAndSkipsAudit(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	doc := newDocument(uuid.New())
	input := newUploadInput(doc.ID, "data")
	conflict := apperror.NewConflictError("version number already exists")

	deps.documentRepo.On("Exists", mock.Anything, doc.ID).Return(true, nil)
	deps.storage.On("Put", mock.Anything, mock.Anything, int64(4), "application/pdf").Return(&service.PutResult{Size: 4}, nil)
	deps.documentRepo.On("LockForUpdate", mock.Anything, doc.ID).Return(doc, nil)
	deps.versionRepo.On("FindByDocumentID", mock.Anything, doc.ID).Return(nil, nil)
	deps.versionRepo.On("Create", mock.Anything, mock.Anything).Return(conflict)
	deps.storage.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := deps.newCommand().Execute(ctx, input)

	assert.ErrorIs(t, err, conflict)
	deps.audit.AssertNotCalled(t, "Log", mock.Anything, mock.Anything)
}

func TestUploadVersionCommand_Execute_CommitFailure_DeletesBlob(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	doc := newDocument(uuid.New())
	commitErr := errors.New("commit failed")

	deps.documentRepo.On("Exists", mock.Anything, doc.ID).Return(true, nil)
	deps.storage.On("Put", mock.Anything, mock.Anything, int64(4), "application/pdf").Return(&service.PutResult{Size: 4}, nil)
	deps.expectPersist(doc, nil)
	deps.storage.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()
	deps.txManager.FailCommit(commitErr)

	_, err := deps.newCommand().Execute(ctx, newUploadInput(doc.ID, "data"))

	assert.ErrorIs(t, err, commitErr)
	assert.Equal(t, 1, deps.txManager.Calls())
	deps.audit.AssertNotCalled(t, "Log", mock.Anything, mock.Anything)
}

func TestUploadVersionCommand_Execute_DocumentRemovedBeforeLock_IsValidationError(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	input := newUploadInput(uuid.New(), "data")

	deps.documentRepo.On("Exists", mock.Anything, input.DocumentID).Return(true, nil)
	deps.storage.On("Put", mock.Anything, mock.Anything, int64(4), "application/pdf").Return(&service.PutResult{Size: 4}, nil)
	deps.documentRepo.On("LockForUpdate", mock.Anything, input.DocumentID).Return(nil, apperror.NewNotFoundError("document"))
	deps.storage.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := deps.newCommand().Execute(ctx, input)

	assert.True(t, apperror.IsValidation(err))
	assert.False(t, apperror.IsNotFound(err))
	deps.versionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadVersionCommand_Execute_StorageFailure_IsIOError(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	input := newUploadInput(uuid.New(), "data")

	deps.documentRepo.On("Exists", mock.Anything, input.DocumentID).Return(true, nil)
	deps.storage.On("Put", mock.Anything, mock.Anything, int64(4), "application/pdf").Return(nil, io.ErrShortWrite)
	deps.storage.On("Delete", mock.Anything, mock.Anything).Return(errors.New("delete failed")).Once()

	_, err := deps.newCommand().Execute(ctx, input)

	assert.True(t, apperror.IsIOError(err))
}

func TestUploadVersionCommand_Execute_TruncatedContent_IsIOError(t *testing.T) {
	ctx := context.Background()
	deps := newUploadVersionTestDeps(t)
	input := newUploadInput(uuid.New(), "data")
	input.Size = 10

	deps.documentRepo.On("Exists", mock.Anything, input.DocumentID).Return(true, nil)
	deps.storage.On("Put", mock.Anything, mock.Anything, int64(10), "application/pdf").Return(&service.PutResult{Size: 4}, nil)
	deps.storage.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := deps.newCommand().Execute(ctx, input)

	assert.True(t, apperror.IsIOError(err))
}
