package service

import (
	"context"
	"errors"
	"io"
)

// ErrBlobNotFound はオブジェクトが存在しないことを表します
// 実装はこのエラーをラップして返します
var ErrBlobNotFound = errors.New("blob not found")

// PutResult は書き込み結果を表します
type PutResult struct {
	Key  string
	Size int64
}

// BlobStorage はドキュメントファイル実体の保存先を抽象化するインターフェースです
type BlobStorage interface {
	// Put はストリームを読み切ってオブジェクトとして保存します
	// size が不明な場合は -1 を渡します
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*PutResult, error)

	// Open はオブジェクトを読み出し用に開きます
	// 存在しない場合は ErrBlobNotFound をラップしたエラーを返します
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists はオブジェクトが存在するかを返します
	Exists(ctx context.Context, key string) (bool, error)

	// Delete はオブジェクトを削除します（存在しない場合はエラーにしない）
	Delete(ctx context.Context, key string) error
}
