package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/123ang/iso-document/pkg/apperror"
)

// statusClientClosedRequest はクライアントが応答前に切断したことを示します
const statusClientClosedRequest = 499

// ErrorResponse はエラー時のレスポンスエンベロープです
type ErrorResponse struct {
	Error ErrorBody  `json:"error"`
	Meta  *ErrorMeta `json:"meta,omitempty"`
}

// ErrorBody はエラー本体です
type ErrorBody struct {
	Code    string                `json:"code"`
	Message string                `json:"message"`
	Details []apperror.FieldError `json:"details,omitempty"`
}

// ErrorMeta は問い合わせ用の付随情報です
type ErrorMeta struct {
	RequestID string `json:"request_id,omitempty"`
}

// echoStatusCodes はEchoが返すHTTPErrorをアプリケーションのコードに揃えます
var echoStatusCodes = map[int]apperror.ErrorCode{
	http.StatusBadRequest:            apperror.CodeValidationError,
	http.StatusUnauthorized:          apperror.CodeUnauthorized,
	http.StatusForbidden:             apperror.CodeForbidden,
	http.StatusNotFound:              apperror.CodeNotFound,
	http.StatusRequestEntityTooLarge: apperror.CodePayloadTooLarge,
}

// CustomHTTPErrorHandler はエラーを統一エンベロープに変換します
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	requestID := GetRequestID(c)

	if errors.Is(err, context.Canceled) {
		slog.Debug("client closed request", "request_id", requestID, "path", c.Path())
		_ = c.NoContent(statusClientClosedRequest)
		return
	}

	status, body := toErrorBody(err)
	logError(c, status, body.Code, err)

	response := ErrorResponse{Error: body}
	if requestID != "" {
		response.Meta = &ErrorMeta{RequestID: requestID}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, response)
}

func toErrorBody(err error) (int, ErrorBody) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus, ErrorBody{
			Code:    string(appErr.Code),
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code, ok := echoStatusCodes[he.Code]
		if !ok {
			code = apperror.ErrorCode(http.StatusText(he.Code))
		}
		return he.Code, ErrorBody{
			Code:    string(code),
			Message: fmt.Sprintf("%v", he.Message),
		}
	}

	return http.StatusInternalServerError, ErrorBody{
		Code:    string(apperror.CodeInternalError),
		Message: "internal server error",
	}
}

// logError はレコードとファイル実体の不整合を警告、サーバーエラーをエラーとして記録します
func logError(c echo.Context, status int, code string, err error) {
	attrs := []any{
		"request_id", GetRequestID(c),
		"method", c.Request().Method,
		"path", c.Path(),
		"code", code,
		"error", err.Error(),
	}

	switch {
	case code == string(apperror.CodeFileMissing):
		slog.Warn("version file missing on storage", attrs...)
	case status >= http.StatusInternalServerError:
		slog.Error("request failed", attrs...)
	}
}
