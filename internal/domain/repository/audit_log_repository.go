package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
)

// AuditLogRepository はバージョン操作の監査ログを永続化します
// 監査ログは追記のみで、更新と削除は提供しません
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error

	// ListByResource は1つのバージョンに対する操作履歴を新しい順に返します
	ListByResource(ctx context.Context, resourceType entity.AuditResourceType, resourceID uuid.UUID, limit, offset int) ([]*entity.AuditLog, error)

	// ListByDocument はドキュメント配下の全バージョンに対する操作履歴を新しい順に返します
	ListByDocument(ctx context.Context, documentID uuid.UUID, limit, offset int) ([]*entity.AuditLog, error)
}
