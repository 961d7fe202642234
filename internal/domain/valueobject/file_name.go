package valueobject

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	FileNameMaxLength = 255
)

var (
	ErrFileNameEmpty   = errors.New("file name cannot be empty")
	ErrFileNameTooLong = errors.New("file name too long")
)

// FileName はアップロード時の元ファイル名を表す値オブジェクト
type FileName struct {
	value string
}

// NewFileName は文字列からFileNameを生成します
// クライアントが送ったパス部分は取り除き、末尾要素のみを保持します
func NewFileName(name string) (FileName, error) {
	normalized := strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(normalized, "/"); idx != -1 {
		normalized = normalized[idx+1:]
	}
	// 制御文字はヘッダー出力時に問題になるため、検証より先に除去
	trimmed := strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, normalized))

	if trimmed == "" || trimmed == "." || trimmed == ".." {
		return FileName{}, ErrFileNameEmpty
	}

	if utf8.RuneCountInString(trimmed) > FileNameMaxLength {
		return FileName{}, ErrFileNameTooLong
	}

	return FileName{value: trimmed}, nil
}

// ReconstructFileName はDBからFileNameを復元します
func ReconstructFileName(value string) FileName {
	return FileName{value: value}
}

// Value は値を返します
func (fn FileName) Value() string {
	return fn.value
}

// String は文字列を返します（Stringerインターフェース）
func (fn FileName) String() string {
	return fn.value
}

// Extension は拡張子を返します（ドット付き）
func (fn FileName) Extension() string {
	return filepath.Ext(fn.value)
}
