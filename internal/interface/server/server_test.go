package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_AppliesTimeouts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 18080
	srv := NewServer(cfg)

	assert.Equal(t, "127.0.0.1:18080", srv.Address())
	assert.Equal(t, 10*time.Second, srv.Echo().Server.ReadHeaderTimeout)
	assert.Zero(t, srv.Echo().Server.ReadTimeout)
	assert.Zero(t, srv.Echo().Server.WriteTimeout)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownTimeout = time.Second
	srv := NewServer(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
