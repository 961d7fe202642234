package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/internal/domain/valueobject"
	"github.com/123ang/iso-document/internal/infrastructure/access"
	"github.com/123ang/iso-document/internal/infrastructure/database"
	infraRepo "github.com/123ang/iso-document/internal/infrastructure/repository"
	"github.com/123ang/iso-document/pkg/apperror"
	"github.com/123ang/iso-document/tests/testutil"
)

func newVersion(documentID uuid.UUID, major int) *entity.DocumentVersion {
	id := entity.NewDocumentVersionID()
	return entity.ReconstructDocumentVersion(
		id,
		documentID,
		valueobject.ReconstructVersionNumber(major, 0),
		nil,
		valueobject.NewStorageKey(documentID, id, ".pdf"),
		valueobject.ReconstructFileName("manual.pdf"),
		valueobject.ReconstructMimeType("application/pdf"),
		1024,
		valueobject.ReconstructChecksum("b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"),
		false,
		uuid.New(),
		time.Now().UTC().Truncate(time.Microsecond),
	)
}

func setupRepos(t *testing.T) (*database.TxManager, *infraRepo.DocumentRepository, *infraRepo.DocumentVersionRepository, testutil.DocumentFixture) {
	t.Helper()
	pool := testutil.SetupTestEnvironment(t)
	testutil.ResetTables(t, pool)
	t.Cleanup(func() { testutil.ResetTables(t, pool) })

	txManager := database.NewTxManager(pool)
	return txManager,
		infraRepo.NewDocumentRepository(txManager),
		infraRepo.NewDocumentVersionRepository(txManager),
		testutil.SeedDocument(t, pool)
}

func TestDocumentVersionRepository_CreateAndFind(t *testing.T) {
	_, _, versionRepo, doc := setupRepos(t)
	ctx := context.Background()

	v1 := newVersion(doc.DocumentID, 1)
	v2 := newVersion(doc.DocumentID, 2)
	require.NoError(t, versionRepo.Create(ctx, v1))
	require.NoError(t, versionRepo.Create(ctx, v2))

	found, err := versionRepo.FindByID(ctx, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, v1.ID, found.ID)
	assert.Equal(t, "1.0", found.Label())
	assert.Equal(t, v1.FilePath, found.FilePath)
	assert.Equal(t, v1.Checksum, found.Checksum)
	assert.False(t, found.IsCurrent)

	list, err := versionRepo.FindByDocumentID(ctx, doc.DocumentID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, v2.ID, list[0].ID)
	assert.Equal(t, v1.ID, list[1].ID)

	total, err := versionRepo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	page, err := versionRepo.FindAll(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, v2.ID, page[0].ID)

	head, err := versionRepo.FindBefore(ctx, nil, 1)
	require.NoError(t, err)
	require.Len(t, head, 1)
	assert.Equal(t, v2.ID, head[0].ID)

	cursor := repository.CursorOf(head[0])
	rest, err := versionRepo.FindBefore(ctx, &cursor, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, v1.ID, rest[0].ID)
}

func TestDocumentVersionRepository_FindByID_NotFound(t *testing.T) {
	_, _, versionRepo, _ := setupRepos(t)

	_, err := versionRepo.FindByID(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestDocumentVersionRepository_DuplicateNumberConflicts(t *testing.T) {
	_, _, versionRepo, doc := setupRepos(t)
	ctx := context.Background()

	require.NoError(t, versionRepo.Create(ctx, newVersion(doc.DocumentID, 1)))
	err := versionRepo.Create(ctx, newVersion(doc.DocumentID, 1))

	code, ok := apperror.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, code)
}

func TestDocumentVersionRepository_SingleCurrentEnforced(t *testing.T) {
	txManager, documentRepo, versionRepo, doc := setupRepos(t)
	ctx := context.Background()

	v1 := newVersion(doc.DocumentID, 1)
	v2 := newVersion(doc.DocumentID, 2)
	require.NoError(t, versionRepo.Create(ctx, v1))
	require.NoError(t, versionRepo.Create(ctx, v2))

	require.NoError(t, versionRepo.MarkCurrent(ctx, doc.DocumentID, v1.ID, true))
	assert.Error(t, versionRepo.MarkCurrent(ctx, doc.DocumentID, v2.ID, true))

	err := txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := documentRepo.LockForUpdate(ctx, doc.DocumentID); err != nil {
			return err
		}
		if err := versionRepo.ClearCurrent(ctx, doc.DocumentID, v2.ID); err != nil {
			return err
		}
		if err := versionRepo.MarkCurrent(ctx, doc.DocumentID, v2.ID, true); err != nil {
			return err
		}
		return documentRepo.SetCurrentVersion(ctx, doc.DocumentID, v2.ID)
	})
	require.NoError(t, err)

	got, err := documentRepo.FindByID(ctx, doc.DocumentID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentVersionID)
	assert.Equal(t, v2.ID, *got.CurrentVersionID)

	list, err := versionRepo.FindByDocumentID(ctx, doc.DocumentID)
	require.NoError(t, err)
	var current []uuid.UUID
	for _, v := range list {
		if v.IsCurrent {
			current = append(current, v.ID)
		}
	}
	assert.Equal(t, []uuid.UUID{v2.ID}, current)
}

func TestDocumentRepository_ExistsAndLock(t *testing.T) {
	_, documentRepo, _, doc := setupRepos(t)
	ctx := context.Background()

	exists, err := documentRepo.Exists(ctx, doc.DocumentID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = documentRepo.Exists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = documentRepo.LockForUpdate(ctx, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestPostgresChecker_HasAccess(t *testing.T) {
	txManager, _, _, doc := setupRepos(t)
	checker := access.NewPostgresChecker(txManager)
	ctx := context.Background()

	ok, err := checker.HasAccess(ctx, doc.DocumentSetID, []uuid.UUID{uuid.New(), doc.GroupID})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = checker.HasAccess(ctx, doc.DocumentSetID, []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = checker.HasAccess(ctx, doc.DocumentSetID, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuditLogRepository_CreateAndList(t *testing.T) {
	txManager, _, versionRepo, doc := setupRepos(t)
	ctx := context.Background()
	auditRepo := infraRepo.NewAuditLogRepository(txManager)

	v := newVersion(doc.DocumentID, 1)
	require.NoError(t, versionRepo.Create(ctx, v))

	userID := uuid.New()
	log := &entity.AuditLog{
		UserID:       &userID,
		Action:       entity.AuditActionVersionUpload,
		ResourceType: entity.AuditResourceDocumentVersion,
		ResourceID:   &v.ID,
		Details:      map[string]interface{}{"documentId": doc.DocumentID.String(), "versionLabel": "1.0"},
		IPAddress:    "192.0.2.1",
		UserAgent:    "integration-test",
		RequestID:    "req-1",
	}
	require.NoError(t, auditRepo.Create(ctx, log))
	assert.NotEqual(t, uuid.Nil, log.ID)

	logs, err := auditRepo.ListByResource(ctx, entity.AuditResourceDocumentVersion, v.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionVersionUpload, logs[0].Action)
	assert.Equal(t, "1.0", logs[0].Details["versionLabel"])

	byDocument, err := auditRepo.ListByDocument(ctx, doc.DocumentID, 10, 0)
	require.NoError(t, err)
	require.Len(t, byDocument, 1)
	assert.Equal(t, log.ID, byDocument[0].ID)
	assert.Equal(t, "req-1", byDocument[0].RequestID)

	none, err := auditRepo.ListByDocument(ctx, uuid.New(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
