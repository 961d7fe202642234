package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
)

// VersionCursor は (created_at, id) の降順で走査する際の位置です
type VersionCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// CursorOf はバージョンの位置を返します
func CursorOf(v *entity.DocumentVersion) VersionCursor {
	return VersionCursor{CreatedAt: v.CreatedAt, ID: v.ID}
}

// DocumentVersionRepository はドキュメントバージョンの永続化インターフェースです
type DocumentVersionRepository interface {
	// Create はバージョンを作成します
	Create(ctx context.Context, version *entity.DocumentVersion) error

	// FindByID はIDでバージョンを取得します
	FindByID(ctx context.Context, id uuid.UUID) (*entity.DocumentVersion, error)

	// FindByDocumentID はドキュメントの全バージョンを (major desc, minor desc, id desc) で取得します
	FindByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*entity.DocumentVersion, error)

	// FindAll は全バージョンを新しい順でページング取得します
	FindAll(ctx context.Context, limit, offset int) ([]*entity.DocumentVersion, error)

	// FindBefore は after より古いバージョンを新しい順に最大limit件取得します
	// after が nil の場合は先頭から取得します。走査中に追加された行は返りません
	FindBefore(ctx context.Context, after *VersionCursor, limit int) ([]*entity.DocumentVersion, error)

	// CountAll は全バージョン数を返します
	CountAll(ctx context.Context) (int, error)

	// ClearCurrent はドキュメントの exceptVersionID 以外のバージョンのカレントフラグを外します
	ClearCurrent(ctx context.Context, documentID, exceptVersionID uuid.UUID) error

	// MarkCurrent は対象バージョンのカレントフラグを設定します
	MarkCurrent(ctx context.Context, documentID, versionID uuid.UUID, current bool) error
}
