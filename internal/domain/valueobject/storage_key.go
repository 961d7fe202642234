package valueobject

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	StorageKeyMaxBytes = 1024
	storageKeyPrefix   = "documents"
)

var (
	ErrInvalidStorageKey = errors.New("invalid storage key")
)

// StorageKey はファイル実体の保存先キーを表す値オブジェクト
// 形式: documents/{document_id}/{version_id}{ext}
type StorageKey struct {
	value string
}

// NewStorageKey はドキュメントID・バージョンID・拡張子からStorageKeyを生成します
func NewStorageKey(documentID, versionID uuid.UUID, ext string) StorageKey {
	ext = sanitizeExtension(ext)
	return StorageKey{
		value: path.Join(storageKeyPrefix, documentID.String(), versionID.String()+ext),
	}
}

// NewStorageKeyFromString は文字列からStorageKeyを生成します
func NewStorageKeyFromString(key string) (StorageKey, error) {
	if key == "" {
		return StorageKey{}, fmt.Errorf("%w: empty", ErrInvalidStorageKey)
	}
	if len(key) > StorageKeyMaxBytes {
		return StorageKey{}, fmt.Errorf("%w: key too long", ErrInvalidStorageKey)
	}
	if strings.HasPrefix(key, "/") || path.Clean(key) != key || strings.HasPrefix(key, "..") {
		return StorageKey{}, fmt.Errorf("%w: %q is not a clean relative key", ErrInvalidStorageKey, key)
	}
	return StorageKey{value: key}, nil
}

// ReconstructStorageKey はDBからStorageKeyを復元します
func ReconstructStorageKey(value string) StorageKey {
	return StorageKey{value: value}
}

// sanitizeExtension は拡張子を小文字の英数字のみに制限します
func sanitizeExtension(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	var b strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 || b.Len() > 16 {
		return ""
	}
	return "." + b.String()
}

// Value はキー文字列を返します
func (k StorageKey) Value() string {
	return k.value
}

// String はキー文字列を返します（Stringerインターフェース）
func (k StorageKey) String() string {
	return k.value
}

// IsEmpty はキーが空かどうかを判定します
func (k StorageKey) IsEmpty() bool {
	return k.value == ""
}
