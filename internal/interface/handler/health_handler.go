package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// defaultCheckTimeout は依存サービス1件あたりの確認時間の上限です
const defaultCheckTimeout = 3 * time.Second

// HealthChecker は依存サービスの疎通確認を行うインターフェースです
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler は /health と /ready を提供します
type HealthHandler struct {
	checkers map[string]HealthChecker
	timeout  time.Duration
	info     map[string]string
}

// HealthOption はHealthHandlerのオプションです
type HealthOption func(*HealthHandler)

// WithCheckTimeout は依存サービス1件あたりの確認時間を設定します
func WithCheckTimeout(d time.Duration) HealthOption {
	return func(h *HealthHandler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithInfo はレディネス応答に含める構成情報を設定します
// 採番ポリシーやストレージ種別などの確認に使います
func WithInfo(info map[string]string) HealthOption {
	return func(h *HealthHandler) {
		h.info = info
	}
}

// NewHealthHandler は新しいHealthHandlerを作成します
func NewHealthHandler(opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		checkers: make(map[string]HealthChecker),
		timeout:  defaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterChecker は依存サービスを登録します
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ReadyResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services,omitempty"`
	Info     map[string]string        `json:"info,omitempty"`
}

type ServiceStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// Check はプロセスの生存のみを返します
// GET /health
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready は登録済みの依存サービスを並行に確認します
// 1件でも失敗すれば503を返します
// GET /ready
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	services := make(map[string]ServiceStatus, len(h.checkers))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for name, checker := range h.checkers {
		wg.Add(1)
		go func(name string, checker HealthChecker) {
			defer wg.Done()
			st := h.probe(ctx, checker)

			mu.Lock()
			services[name] = st
			mu.Unlock()
		}(name, checker)
	}
	wg.Wait()

	status, code := "ready", http.StatusOK
	for _, st := range services {
		if st.Status != "healthy" {
			status, code = "not_ready", http.StatusServiceUnavailable
			break
		}
	}

	return c.JSON(code, ReadyResponse{
		Status:   status,
		Services: services,
		Info:     h.info,
	})
}

func (h *HealthHandler) probe(ctx context.Context, checker HealthChecker) ServiceStatus {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := checker.Health(ctx)
	st := ServiceStatus{Status: "healthy", LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		st.Status = "unhealthy"
		st.Message = err.Error()
	}
	return st
}
