package di

import (
	"github.com/123ang/iso-document/internal/interface/middleware"
)

// Middlewares はアプリケーションのミドルウェアを保持します
type Middlewares struct {
	JWTAuth *middleware.JWTAuthMiddleware
}

// NewMiddlewares はContainerから全てのミドルウェアを初期化します
func NewMiddlewares(c *Container) *Middlewares {
	return &Middlewares{
		JWTAuth: middleware.NewJWTAuthMiddleware(c.JWTService),
	}
}
