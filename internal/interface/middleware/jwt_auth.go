package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/valueobject"
	"github.com/123ang/iso-document/pkg/apperror"
	"github.com/123ang/iso-document/pkg/jwt"
	"github.com/123ang/iso-document/pkg/logger"
)

// JWTAuthMiddleware はJWT認証ミドルウェアを提供します
type JWTAuthMiddleware struct {
	jwtService *jwt.JWTService
}

// NewJWTAuthMiddleware は新しいJWTAuthMiddlewareを作成します
func NewJWTAuthMiddleware(jwtService *jwt.JWTService) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate は認証ミドルウェアを返します
// トークンのクレームからユーザーID・ロール・所属グループを取り出して呼び出し元を設定します
func (m *JWTAuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Authorizationヘッダーを取得
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperror.NewUnauthorizedError("authorization header required")
			}

			// Bearer トークンを抽出
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return apperror.NewUnauthorizedError("invalid authorization header format")
			}

			// トークンを検証
			claims, err := m.jwtService.ValidateAccessToken(parts[1])
			if err != nil {
				return apperror.NewUnauthorizedError("invalid or expired token")
			}

			role, err := valueobject.NewUserRole(claims.Role)
			if err != nil {
				return apperror.NewUnauthorizedError("invalid token role")
			}

			SetCaller(c, entity.Caller{
				UserID:   claims.UserID,
				Role:     role,
				GroupIDs: claims.GroupIDs,
			})

			// リクエストコンテキストにも設定（ログ出力で使用）
			ctx := logger.ContextWithUserID(c.Request().Context(), claims.UserID.String())
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireAdmin は管理者ロール以外を拒否するミドルウェアを返します
// Authenticateの後に適用すること
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := GetCaller(c)
			if !ok {
				return apperror.NewUnauthorizedError("authentication required")
			}
			if !caller.IsAdmin() {
				return apperror.NewForbiddenError("admin role required")
			}
			return next(c)
		}
	}
}
