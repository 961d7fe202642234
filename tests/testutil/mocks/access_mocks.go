package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccessChecker is a mock of service.AccessChecker
type MockAccessChecker struct {
	mock.Mock
}

func NewMockAccessChecker(t *testing.T) *MockAccessChecker {
	m := &MockAccessChecker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAccessChecker) HasAccess(ctx context.Context, documentSetID uuid.UUID, groupIDs []uuid.UUID) (bool, error) {
	args := m.Called(ctx, documentSetID, groupIDs)
	return args.Bool(0), args.Error(1)
}
