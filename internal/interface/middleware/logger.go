package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// probePaths はアクセスログをDEBUGに落とすパスです
var probePaths = map[string]struct{}{
	"/health":  {},
	"/ready":   {},
	"/metrics": {},
}

// Logger はリクエストごとのアクセスログを出力するミドルウェアを返します
// request_id と user_id はリクエストのctxからロガーが付与します
func Logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				// ステータスを確定させるためエラーハンドラーを先に呼ぶ
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			slog.Log(req.Context(), accessLogLevel(c.Path(), res.Status), "request",
				"method", req.Method,
				"uri", req.RequestURI,
				"route", c.Path(),
				"status", res.Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"ip", c.RealIP(),
				"user_agent", req.UserAgent(),
				"bytes_in", req.ContentLength,
				"bytes_out", res.Size,
			)

			return nil
		}
	}
}

func accessLogLevel(route string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status == http.StatusRequestEntityTooLarge:
		return slog.LevelWarn
	}
	if _, ok := probePaths[route]; ok {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
