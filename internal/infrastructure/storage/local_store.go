package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/service"
	"github.com/123ang/iso-document/internal/domain/valueobject"
)

// LocalStore はローカルディスクにファイル実体を保存するBlobStorageの実装です
// 書き込みは 一時ファイル → fsync → rename の順で行い、途中状態のファイルを残しません
type LocalStore struct {
	root string
}

// NewLocalStore は新しいLocalStoreを作成します。ルートディレクトリがなければ作成します
func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage path %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", abs, err)
	}
	return &LocalStore{root: abs}, nil
}

// Root はルートディレクトリを返します
func (s *LocalStore) Root() string {
	return s.root
}

// Put はストリームを読み切ってファイルとして保存します
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) (*service.PutResult, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	tmpPath := fmt.Sprintf("%s.%s.tmp", fullPath, uuid.NewString()[:8])
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	size, err := io.Copy(f, &contextReader{ctx: ctx, r: r})
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write %s: %w", key, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to fsync %s: %w", key, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to close %s: %w", key, err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to rename %s: %w", key, err)
	}

	return &service.PutResult{Key: key, Size: size}, nil
}

// Open はファイルを読み出し用に開きます
func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	return f, nil
}

// Exists はファイルが存在するかを返します
func (s *LocalStore) Exists(_ context.Context, key string) (bool, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return info.Mode().IsRegular(), nil
}

// Delete はファイルを削除します。存在しない場合はnilを返します
func (s *LocalStore) Delete(_ context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Health はルートディレクトリが利用可能かを確認します
func (s *LocalStore) Health(_ context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("storage directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage path %s is not a directory", s.root)
	}
	return nil
}

// resolve はキーをルート配下の絶対パスに変換します
func (s *LocalStore) resolve(key string) (string, error) {
	if _, err := valueobject.NewStorageKeyFromString(key); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	fullPath := filepath.Join(s.root, filepath.FromSlash(key))
	if fullPath != s.root && !strings.HasPrefix(fullPath, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	return fullPath, nil
}

// contextReader はコンテキストのキャンセルで読み込みを打ち切るReaderです
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

var _ service.BlobStorage = (*LocalStore)(nil)
