package di

import (
	"github.com/123ang/iso-document/internal/interface/handler"
)

// Handlers はアプリケーションのハンドラーを保持します
type Handlers struct {
	Health  *handler.HealthHandler
	Version *handler.VersionHandler
}

// NewHandlers はContainerから全てのハンドラーを初期化します
func NewHandlers(c *Container) *Handlers {
	healthHandler := handler.NewHealthHandler(handler.WithInfo(map[string]string{
		"storage":        string(c.config.Storage.Backend),
		"version_policy": string(c.Policy.Name()),
	}))
	for name, checker := range c.HealthCheckers {
		healthHandler.RegisterChecker(name, checker)
	}

	return &Handlers{
		Health:  healthHandler,
		Version: newVersionHandler(c),
	}
}

// NewHandlersForTest はテスト用にハンドラーを初期化します（HealthHandlerなし）
func NewHandlersForTest(c *Container) *Handlers {
	return &Handlers{
		Health:  nil,
		Version: newVersionHandler(c),
	}
}

func newVersionHandler(c *Container) *handler.VersionHandler {
	if c.Versioning == nil {
		c.InitVersioningUseCases()
	}
	v := c.Versioning
	return handler.NewVersionHandler(
		v.UploadVersion,
		v.SetCurrentVersion,
		v.GetVersion,
		v.ListVersions,
		v.ListAllVersions,
		v.GetFileStream,
		v.MaxFileSize,
	)
}
