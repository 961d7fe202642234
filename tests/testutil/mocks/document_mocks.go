package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/123ang/iso-document/internal/domain/entity"
)

// MockDocumentRepository is a mock of repository.DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func NewMockDocumentRepository(t *testing.T) *MockDocumentRepository {
	m := &MockDocumentRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockDocumentRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Document), args.Error(1)
}

func (m *MockDocumentRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Document), args.Error(1)
}

func (m *MockDocumentRepository) SetCurrentVersion(ctx context.Context, documentID, versionID uuid.UUID) error {
	args := m.Called(ctx, documentID, versionID)
	return args.Error(0)
}
