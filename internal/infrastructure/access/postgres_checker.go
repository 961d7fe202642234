package access

import (
	"context"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/service"
	"github.com/123ang/iso-document/internal/infrastructure/database"
	"github.com/123ang/iso-document/internal/infrastructure/database/sqlcgen"
)

// PostgresChecker はdocument_set_groupsの紐付けでアクセス可否を判定します
type PostgresChecker struct {
	*database.BaseRepository
}

// NewPostgresChecker は新しいPostgresCheckerを作成します
func NewPostgresChecker(txManager *database.TxManager) *PostgresChecker {
	return &PostgresChecker{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// HasAccess はいずれかのグループがドキュメントセットに紐付いているかを返します
func (c *PostgresChecker) HasAccess(ctx context.Context, documentSetID uuid.UUID, groupIDs []uuid.UUID) (bool, error) {
	if len(groupIDs) == 0 {
		return false, nil
	}

	queries := sqlcgen.New(c.Querier(ctx))
	ok, err := queries.HasDocumentSetGroupAccess(ctx, sqlcgen.HasDocumentSetGroupAccessParams{
		DocumentSetID: documentSetID,
		GroupIds:      groupIDs,
	})
	if err != nil {
		return false, c.HandleError(err)
	}
	return ok, nil
}

var _ service.AccessChecker = (*PostgresChecker)(nil)
