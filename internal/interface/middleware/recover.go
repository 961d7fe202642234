package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"

	"github.com/123ang/iso-document/pkg/apperror"
)

const panicStackSize = 8 << 10

// Recover はハンドラーのpanicをINTERNAL_ERRORとして返すミドルウェアを返します
// ストリーミング開始後のpanicではレスポンスを書き換えません
func Recover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				buf := make([]byte, panicStackSize)
				buf = buf[:runtime.Stack(buf, false)]

				slog.Error("panic recovered",
					"request_id", GetRequestID(c),
					"method", c.Request().Method,
					"path", c.Path(),
					"committed", c.Response().Committed,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(buf),
				)

				err = apperror.NewInternalError(fmt.Errorf("panic: %v", r))
			}()

			return next(c)
		}
	}
}
