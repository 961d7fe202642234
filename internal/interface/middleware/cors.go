package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HeaderChecksum はダウンロード時にファイルのSHA-256を返すヘッダーです
const HeaderChecksum = "X-Checksum-SHA256"

// CORSConfig はCORS設定を定義します
type CORSConfig struct {
	AllowOrigins     []string
	AllowCredentials bool
	MaxAge           int
}

// versionAPIMethods はバージョンAPIが受け付けるメソッドです
var versionAPIMethods = []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions}

// versionAPIExposeHeaders はブラウザのダウンロード処理が参照するヘッダーです
var versionAPIExposeHeaders = []string{
	echo.HeaderContentDisposition,
	echo.HeaderContentLength,
	HeaderChecksum,
	HeaderRequestID,
}

// NewCORSConfig は許可オリジンからCORS設定を作成します
// 空の場合はローカル開発用のオリジンのみ許可します
func NewCORSConfig(origins []string) CORSConfig {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return CORSConfig{
		AllowOrigins:     origins,
		AllowCredentials: true,
		MaxAge:           86400,
	}
}

// CORSWithConfig はバージョンAPI用のCORSミドルウェアを返します
func CORSWithConfig(cfg CORSConfig) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     versionAPIMethods,
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, HeaderRequestID},
		ExposeHeaders:    versionAPIExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
