package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/internal/usecase/versioning/query"
	"github.com/123ang/iso-document/tests/testutil/mocks"
)

func TestScanMissingFilesQuery_Execute_CountsMissing(t *testing.T) {
	ctx := context.Background()
	versionRepo := mocks.NewMockDocumentVersionRepository(t)
	storage := mocks.NewMockBlobStorage(t)

	present := newStoredVersion(uuid.New(), 1, true)
	missing := newStoredVersion(uuid.New(), 1, true)

	versionRepo.On("FindBefore", mock.Anything, (*repository.VersionCursor)(nil), 500).Return([]*entity.DocumentVersion{present, missing}, nil)
	storage.On("Exists", mock.Anything, present.FilePath.Value()).Return(true, nil)
	storage.On("Exists", mock.Anything, missing.FilePath.Value()).Return(false, nil)

	output, err := query.NewScanMissingFilesQuery(versionRepo, storage).Execute(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, output.Checked)
	assert.Equal(t, 1, output.Missing)
	assert.Equal(t, []uuid.UUID{missing.ID}, output.MissingIDs)
}

func TestScanMissingFilesQuery_Execute_StorageError(t *testing.T) {
	ctx := context.Background()
	versionRepo := mocks.NewMockDocumentVersionRepository(t)
	storage := mocks.NewMockBlobStorage(t)
	v := newStoredVersion(uuid.New(), 1, true)

	versionRepo.On("FindBefore", mock.Anything, (*repository.VersionCursor)(nil), 500).Return([]*entity.DocumentVersion{v}, nil)
	storage.On("Exists", mock.Anything, v.FilePath.Value()).Return(false, errors.New("unreachable"))

	_, err := query.NewScanMissingFilesQuery(versionRepo, storage).Execute(ctx)

	assert.Error(t, err)
}

func TestScanMissingFilesQuery_Execute_PagesByCursor(t *testing.T) {
	ctx := context.Background()
	versionRepo := mocks.NewMockDocumentVersionRepository(t)
	storage := mocks.NewMockBlobStorage(t)

	firstPage := make([]*entity.DocumentVersion, 500)
	for i := range firstPage {
		firstPage[i] = newStoredVersion(uuid.New(), 1, true)
	}
	last := repository.CursorOf(firstPage[len(firstPage)-1])
	tail := newStoredVersion(uuid.New(), 1, true)

	versionRepo.On("FindBefore", mock.Anything, (*repository.VersionCursor)(nil), 500).Return(firstPage, nil).Once()
	versionRepo.On("FindBefore", mock.Anything, &last, 500).Return([]*entity.DocumentVersion{tail}, nil).Once()
	storage.On("Exists", mock.Anything, tail.FilePath.Value()).Return(false, nil)
	storage.On("Exists", mock.Anything, mock.Anything).Return(true, nil)

	output, err := query.NewScanMissingFilesQuery(versionRepo, storage).Execute(ctx)

	require.NoError(t, err)
	assert.Equal(t, 501, output.Checked)
	assert.Equal(t, 1, output.Missing)
	assert.Equal(t, []uuid.UUID{tail.ID}, output.MissingIDs)
	versionRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything, mock.Anything)
}
