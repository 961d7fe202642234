package service

import (
	"context"

	"github.com/google/uuid"
)

// AccessChecker はドキュメントセットへのアクセス可否を判定するインターフェースです
type AccessChecker interface {
	// HasAccess はいずれかのグループがドキュメントセットに紐付いているかを返します
	// グループが空の場合は常に false です
	HasAccess(ctx context.Context, documentSetID uuid.UUID, groupIDs []uuid.UUID) (bool, error)
}
