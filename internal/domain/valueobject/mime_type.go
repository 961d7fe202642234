package valueobject

import (
	"errors"
	"mime"
	"strings"
)

var (
	ErrInvalidMimeType = errors.New("invalid MIME type")
)

// MimeType はMIMEタイプを表す値オブジェクト
type MimeType struct {
	value string
}

// MimeTypeOctetStream は種別不明時のMIMEタイプ
var MimeTypeOctetStream = MimeType{value: "application/octet-stream"}

// NewMimeType は文字列からMimeTypeを生成します
func NewMimeType(mimeType string) (MimeType, error) {
	trimmed := strings.TrimSpace(mimeType)
	if trimmed == "" {
		return MimeType{}, ErrInvalidMimeType
	}

	mediaType, params, err := mime.ParseMediaType(trimmed)
	if err != nil {
		return MimeType{}, ErrInvalidMimeType
	}
	parts := strings.Split(mediaType, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return MimeType{}, ErrInvalidMimeType
	}

	return MimeType{value: mime.FormatMediaType(mediaType, params)}, nil
}

// MimeTypeOrDefault はMimeTypeを生成し、不正な場合はapplication/octet-streamを返します
func MimeTypeOrDefault(mimeType string) MimeType {
	m, err := NewMimeType(mimeType)
	if err != nil {
		return MimeTypeOctetStream
	}
	return m
}

// ReconstructMimeType はDBからMimeTypeを復元します
func ReconstructMimeType(value string) MimeType {
	return MimeType{value: value}
}

// Value は値を返します
func (m MimeType) Value() string {
	return m.value
}

// String は文字列を返します（Stringerインターフェース）
func (m MimeType) String() string {
	return m.value
}

// Equals は等価性を判定します
func (m MimeType) Equals(other MimeType) bool {
	return m.value == other.value
}
