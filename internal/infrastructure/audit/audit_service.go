package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/internal/domain/service"
)

const (
	writeTimeout      = 5 * time.Second
	defaultBufferSize = 1000
)

// 書き込み結果のラベル
const (
	ResultWritten = "written"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

// Observer は監査ログ1件ごとの書き込み結果を受け取ります
type Observer interface {
	AuditRecorded(result string)
}

// Service はバージョン操作の監査ログをバッファ経由で1件ずつ書き込みます
// Logはリクエストをブロックせず、バッファが満杯なら破棄します
type Service struct {
	repo     repository.AuditLogRepository
	observer Observer
	entries  chan service.AuditEntry
	done     chan struct{}

	mu     sync.RWMutex
	closed bool
}

// Option はServiceのオプションです
type Option func(*Service)

// WithObserver は書き込み結果の通知先を設定します
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// NewService はServiceを作成し、書き込みループを開始します
func NewService(repo repository.AuditLogRepository, bufferSize int, opts ...Option) *Service {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	s := &Service{
		repo:    repo,
		entries: make(chan service.AuditEntry, bufferSize),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

func (s *Service) Log(ctx context.Context, entry service.AuditEntry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}

	select {
	case s.entries <- entry:
	default:
		slog.WarnContext(ctx, "audit log buffer full, dropping entry",
			"action", string(entry.Action),
			"resource_id", entry.ResourceID,
		)
		s.observe(ResultDropped)
	}
}

func (s *Service) run() {
	defer close(s.done)
	for entry := range s.entries {
		s.write(entry)
	}
}

func (s *Service) write(entry service.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	err := s.repo.Create(ctx, &entity.AuditLog{
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Details:      entry.Details,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		RequestID:    entry.RequestID,
	})
	if err != nil {
		slog.Error("failed to write audit log",
			"error", err,
			"action", string(entry.Action),
			"resource_id", entry.ResourceID,
			"request_id", entry.RequestID,
		)
		s.observe(ResultFailed)
		return
	}
	s.observe(ResultWritten)
}

func (s *Service) observe(result string) {
	if s.observer != nil {
		s.observer.AuditRecorded(result)
	}
}

// Shutdown は受付を止め、バッファに残ったエントリを書き切ってから戻ります
// 2回目以降の呼び出しは最初の停止完了を待つだけです
func (s *Service) Shutdown() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	s.mu.Unlock()
	<-s.done
}

// NoopService は監査ログが無効な場合に使うAuditServiceです
type NoopService struct{}

func (NoopService) Log(context.Context, service.AuditEntry) {}

var (
	_ service.AuditService = (*Service)(nil)
	_ service.AuditService = NoopService{}
)
