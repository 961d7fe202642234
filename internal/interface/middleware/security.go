package middleware

import (
	"github.com/labstack/echo/v4"
)

// SecurityHeaders はセキュリティヘッダーを設定するミドルウェアを返します
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// インライン表示されるファイルのMIMEスニッフィング対策
			c.Response().Header().Set("X-Content-Type-Options", "nosniff")

			// クリックジャッキング対策
			c.Response().Header().Set("X-Frame-Options", "DENY")

			// CSP
			c.Response().Header().Set("Content-Security-Policy", "default-src 'none'; sandbox")

			// Referrer Policy
			c.Response().Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			return next(c)
		}
	}
}
