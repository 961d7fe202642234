package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/123ang/iso-document/internal/infrastructure/di"
	"github.com/123ang/iso-document/internal/interface/middleware"
	"github.com/123ang/iso-document/internal/interface/presenter"
)

// Router はルート定義を管理します
type Router struct {
	echo        *echo.Echo
	handlers    *di.Handlers
	middlewares *di.Middlewares
}

// NewRouter は新しいRouterを作成します
func NewRouter(e *echo.Echo, handlers *di.Handlers, middlewares *di.Middlewares) *Router {
	return &Router{
		echo:        e,
		handlers:    handlers,
		middlewares: middlewares,
	}
}

// Setup は全てのルートを設定します
func (r *Router) Setup() {
	r.setupHealthRoutes()
	r.setupAPIRoutes()
}

// setupHealthRoutes はヘルスチェック・メトリクスのルートを設定します
func (r *Router) setupHealthRoutes() {
	r.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if r.handlers.Health == nil {
		return
	}
	r.echo.GET("/health", r.handlers.Health.Check)
	r.echo.GET("/ready", r.handlers.Health.Ready)
}

// setupAPIRoutes はAPIルートを設定します
func (r *Router) setupAPIRoutes() {
	api := r.echo.Group("/api/v1")

	api.GET("/", func(c echo.Context) error {
		return presenter.OK(c, map[string]string{
			"message": "ISO Document API v1",
		})
	})

	r.setupVersionRoutes(api)
}

// setupVersionRoutes はドキュメントバージョン関連ルートを設定します
func (r *Router) setupVersionRoutes(api *echo.Group) {
	if r.handlers.Version == nil {
		return
	}

	adminOnly := middleware.RequireAdmin()

	versions := api.Group("/versions", r.middlewares.JWTAuth.Authenticate())

	// Admin routes
	versions.POST("/upload", r.handlers.Version.Upload, adminOnly)
	versions.GET("", r.handlers.Version.ListAll, adminOnly)
	versions.GET("/document/:documentId", r.handlers.Version.ListByDocument, adminOnly)
	versions.POST("/:id/set-current", r.handlers.Version.SetCurrent, adminOnly)

	// Access-checked routes
	versions.GET("/:id", r.handlers.Version.Get)
	versions.GET("/:id/download", r.handlers.Version.Download)
	versions.GET("/:id/view", r.handlers.Version.View)
}
