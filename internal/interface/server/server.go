package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Config はサーバー設定を定義します
// アップロードとダウンロードは大きなファイルを扱うため、ReadTimeoutとWriteTimeoutの既定値は0(無制限)です
type Config struct {
	Host              string
	Port              int
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	Debug             bool
}

// DefaultConfig はデフォルト設定を返します
func DefaultConfig() Config {
	return Config{
		Port:              8080,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

// Server はEchoをラップしたHTTPサーバーです
type Server struct {
	echo   *echo.Echo
	config Config
}

// NewServer は新しいServerを作成します
// バリデーターとエラーハンドラーは呼び出し側で設定します
func NewServer(cfg Config) *Server {
	e := echo.New()
	e.Debug = cfg.Debug
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadHeaderTimeout = cfg.ReadHeaderTimeout
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout
	e.Server.IdleTimeout = cfg.IdleTimeout

	return &Server{echo: e, config: cfg}
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Config() Config {
	return s.config
}

// Address はlistenするアドレスを返します
func (s *Server) Address() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Run はctxがキャンセルされるまでサーバーを動かし、その後グレースフルに停止します
// 配信中のダウンロードはShutdownTimeoutまで待ちます
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.Address())
		if err := s.echo.Start(s.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return s.Shutdown(context.WithoutCancel(ctx))
}

// Shutdown は新規接続の受付を止め、処理中のリクエストの完了を待ちます
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}
