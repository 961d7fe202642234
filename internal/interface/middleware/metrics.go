package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/123ang/iso-document/internal/infrastructure/metrics"
)

// Metrics はHTTPリクエストをPrometheusに記録するミドルウェアを返します
// ラベルにはルートのテンプレートを使い、IDごとに系列が増えないようにします
func Metrics(recorder *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			recorder.ObserveHTTP(c.Request().Method, path, c.Response().Status, time.Since(start))

			return nil
		}
	}
}
