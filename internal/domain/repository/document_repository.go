package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
)

// DocumentRepository はバージョン管理に必要な範囲のドキュメント操作インターフェースです
type DocumentRepository interface {
	// Exists はドキュメントが存在するかを返します
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// FindByID はIDでドキュメントを取得します
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)

	// LockForUpdate はトランザクション内でドキュメント行をロックします
	LockForUpdate(ctx context.Context, id uuid.UUID) (*entity.Document, error)

	// SetCurrentVersion はドキュメントのカレントバージョン参照を更新します
	SetCurrentVersion(ctx context.Context, documentID, versionID uuid.UUID) error
}
