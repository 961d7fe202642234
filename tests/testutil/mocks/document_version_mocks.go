package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
)

// MockDocumentVersionRepository is a mock of repository.DocumentVersionRepository
type MockDocumentVersionRepository struct {
	mock.Mock
}

func NewMockDocumentVersionRepository(t *testing.T) *MockDocumentVersionRepository {
	m := &MockDocumentVersionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockDocumentVersionRepository) Create(ctx context.Context, version *entity.DocumentVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockDocumentVersionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.DocumentVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DocumentVersion), args.Error(1)
}

func (m *MockDocumentVersionRepository) FindByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*entity.DocumentVersion, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.DocumentVersion), args.Error(1)
}

func (m *MockDocumentVersionRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.DocumentVersion, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.DocumentVersion), args.Error(1)
}

func (m *MockDocumentVersionRepository) FindBefore(ctx context.Context, after *repository.VersionCursor, limit int) ([]*entity.DocumentVersion, error) {
	args := m.Called(ctx, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.DocumentVersion), args.Error(1)
}

func (m *MockDocumentVersionRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentVersionRepository) ClearCurrent(ctx context.Context, documentID, exceptVersionID uuid.UUID) error {
	args := m.Called(ctx, documentID, exceptVersionID)
	return args.Error(0)
}

func (m *MockDocumentVersionRepository) MarkCurrent(ctx context.Context, documentID, versionID uuid.UUID, current bool) error {
	args := m.Called(ctx, documentID, versionID, current)
	return args.Error(0)
}
