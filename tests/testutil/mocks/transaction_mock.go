package mocks

import (
	"context"
	"sync"
	"testing"
)

// mockTxKey はトランザクション中であることを示すコンテキストキーです
type mockTxKey struct{}

// MockTransactionManager は repository.TransactionManager のテスト用実装です
// database.TxManager と同じく、入れ子の呼び出しは外側のトランザクションを再利用します
// 回数とコミット失敗は最も外側の呼び出しにだけ適用されます
type MockTransactionManager struct {
	mu        sync.Mutex
	calls     int
	commitErr error
}

func NewMockTransactionManager(t *testing.T) *MockTransactionManager {
	t.Helper()
	return &MockTransactionManager{}
}

// FailCommit は以降の最も外側のトランザクションで fn 成功後に err を返すようにします
func (m *MockTransactionManager) FailCommit(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commitErr = err
}

// Calls は開始されたトランザクションの数を返します（入れ子は数えません）
func (m *MockTransactionManager) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(mockTxKey{}).(bool); ok {
		return fn(ctx)
	}

	m.mu.Lock()
	m.calls++
	commitErr := m.commitErr
	m.mu.Unlock()

	if err := fn(context.WithValue(ctx, mockTxKey{}, true)); err != nil {
		return err
	}
	return commitErr
}
