package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/123ang/iso-document/internal/domain/entity"
)

const ContextKeyCaller = "caller"

// SetCaller はコンテキストに認証済みの呼び出し元を設定します
func SetCaller(c echo.Context, caller entity.Caller) {
	c.Set(ContextKeyCaller, caller)
}

// GetCaller はコンテキストから呼び出し元を取得します
func GetCaller(c echo.Context) (entity.Caller, bool) {
	caller, ok := c.Get(ContextKeyCaller).(entity.Caller)
	return caller, ok
}
