package mocks

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/123ang/iso-document/internal/domain/service"
)

// MockBlobStorage is a mock of service.BlobStorage
type MockBlobStorage struct {
	mock.Mock
}

func NewMockBlobStorage(t *testing.T) *MockBlobStorage {
	m := &MockBlobStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Put drains the reader before recording the call so that digest readers see the content
func (m *MockBlobStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*service.PutResult, error) {
	_, readErr := io.Copy(io.Discard, r)
	args := m.Called(ctx, key, size, contentType)
	if readErr != nil {
		return nil, readErr
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PutResult), args.Error(1)
}

func (m *MockBlobStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockBlobStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlobStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
