package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Job は定期実行ジョブを定義します
type Job struct {
	Name     string
	Interval time.Duration
	// Timeout は1回の実行に許す時間です。0以下なら無制限
	Timeout time.Duration
	Fn      func(ctx context.Context) error
}

// RunObserver はジョブ実行結果の通知先です
type RunObserver interface {
	JobRun(job string, err error, duration time.Duration)
}

// Manager は整合性スキャンなどの定期ジョブを管理します
type Manager struct {
	jobs     []Job
	observer RunObserver
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// Option はManagerのオプションです
type Option func(*Manager)

// WithObserver はジョブ実行結果の通知先を設定します
func WithObserver(o RunObserver) Option {
	return func(m *Manager) {
		m.observer = o
	}
}

// NewManager は新しいManagerを作成します
func NewManager(opts ...Option) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register はジョブを登録します。Start後の登録は無視されます
func (m *Manager) Register(job Job) {
	m.jobs = append(m.jobs, job)
}

// Start は登録済みジョブごとにループを開始します
func (m *Manager) Start() {
	for _, job := range m.jobs {
		m.wg.Add(1)
		go m.loop(job)
	}
	slog.Info("worker manager started", "jobs", len(m.jobs))
}

func (m *Manager) loop(job Job) {
	defer m.wg.Done()

	slog.Info("worker started", "job", job.Name, "interval", job.Interval)

	// 起動直後に1回実行する
	m.runLogged(job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			slog.Info("worker stopping", "job", job.Name)
			return
		case <-ticker.C:
			m.runLogged(job)
		}
	}
}

func (m *Manager) runLogged(job Job) {
	if err := m.execute(m.ctx, job); err != nil {
		slog.Error("worker job failed", "job", job.Name, "error", err)
	}
}

// execute はタイムアウトとpanic回復を付けてジョブを実行します
func (m *Manager) execute(ctx context.Context, job Job) (err error) {
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker: job %s panicked: %v", job.Name, r)
		}
		if m.observer != nil {
			m.observer.JobRun(job.Name, err, time.Since(start))
		}
	}()

	return job.Fn(ctx)
}

// Shutdown は全ループを停止し、timeoutまで終了を待ちます
func (m *Manager) Shutdown(timeout time.Duration) {
	slog.Info("shutting down worker manager...")
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("worker manager stopped gracefully")
	case <-time.After(timeout):
		slog.Warn("worker manager shutdown timed out")
	}
}
