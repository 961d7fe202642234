package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode はエラーコードを表します
type ErrorCode string

const (
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeFileMissing     ErrorCode = "FILE_MISSING"
	CodeConflict        ErrorCode = "CONFLICT"
	CodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	CodeIOError         ErrorCode = "IO_ERROR"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// AppError はアプリケーションエラーを表します
type AppError struct {
	Code       ErrorCode    `json:"code"`
	Message    string       `json:"message"`
	Details    []FieldError `json:"details,omitempty"`
	HTTPStatus int          `json:"-"`
	Err        error        `json:"-"`
}

// FieldError はフィールドエラーを表します
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error はerrorインターフェースを実装します
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap は元のエラーを返します
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError はバリデーションエラーを作成します
func NewValidationError(message string, details []FieldError) *AppError {
	return &AppError{
		Code:       CodeValidationError,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewUnauthorizedError は認証エラーを作成します
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbiddenError は権限エラーを作成します
// メッセージにはリソースの存在有無を含めないこと
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewNotFoundError はリソース不在エラーを作成します
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewFileMissingError はレコードは存在するがストレージ上に実体がない場合のエラーを作成します
func NewFileMissingError(path string) *AppError {
	return &AppError{
		Code:       CodeFileMissing,
		Message:    "file missing on disk",
		HTTPStatus: http.StatusNotFound,
		Err:        fmt.Errorf("storage object %q does not exist", path),
	}
}

// NewConflictError は競合エラーを作成します
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewPayloadTooLargeError はアップロードサイズ超過エラーを作成します
func NewPayloadTooLargeError(limit int64) *AppError {
	return &AppError{
		Code:       CodePayloadTooLarge,
		Message:    fmt.Sprintf("file exceeds maximum size of %d bytes", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
}

// NewIOError はストレージ読み書き・チェックサム計算の失敗を表すエラーを作成します
func NewIOError(message string, err error) *AppError {
	return &AppError{
		Code:       CodeIOError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInternalError は内部エラーを作成します
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode はエラーが特定のコードかどうかを判定します
func (e *AppError) HasCode(code ErrorCode) bool {
	return e.Code == code
}

// CodeOf はエラーチェーンからエラーコードを取り出します
func CodeOf(err error) (ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

func hasCode(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// IsNotFound はリソース不在エラーかどうかを判定します
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsFileMissing はストレージ上のファイル欠落エラーかどうかを判定します
func IsFileMissing(err error) bool {
	return hasCode(err, CodeFileMissing)
}

// IsForbidden は権限エラーかどうかを判定します
func IsForbidden(err error) bool {
	return hasCode(err, CodeForbidden)
}

// IsValidation はバリデーションエラーかどうかを判定します
func IsValidation(err error) bool {
	return hasCode(err, CodeValidationError)
}

// IsIOError はI/Oエラーかどうかを判定します
func IsIOError(err error) bool {
	return hasCode(err, CodeIOError)
}
