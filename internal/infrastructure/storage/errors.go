package storage

import (
	"errors"

	"github.com/123ang/iso-document/internal/domain/service"
)

var (
	// ErrObjectNotFound はオブジェクトが存在しないことを表します
	ErrObjectNotFound = service.ErrBlobNotFound
	// ErrInvalidKey はキーが保存先ルートの外を指していることを表します
	ErrInvalidKey = errors.New("invalid storage key")
)
