package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/internal/infrastructure/database"
	"github.com/123ang/iso-document/internal/infrastructure/database/sqlcgen"
	"github.com/123ang/iso-document/pkg/apperror"
)

// DocumentRepository はドキュメントリポジトリの実装です
type DocumentRepository struct {
	*database.BaseRepository
}

// NewDocumentRepository は新しいDocumentRepositoryを作成します
func NewDocumentRepository(txManager *database.TxManager) *DocumentRepository {
	return &DocumentRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// Exists はドキュメントが存在するかを返します
func (r *DocumentRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	queries := sqlcgen.New(r.Querier(ctx))

	exists, err := queries.DocumentExists(ctx, id)
	if err != nil {
		return false, r.HandleError(err)
	}
	return exists, nil
}

// FindByID はIDでドキュメントを検索します
func (r *DocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	queries := sqlcgen.New(r.Querier(ctx))

	row, err := queries.GetDocumentByID(ctx, id)
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, apperror.NewNotFoundError("document")
		}
		return nil, r.HandleError(err)
	}

	return r.toEntity(row), nil
}

// LockForUpdate はドキュメント行を SELECT ... FOR UPDATE でロックします
// トランザクション外で呼ばれた場合、ロックは文の終了とともに解放されます
func (r *DocumentRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	queries := sqlcgen.New(r.Querier(ctx))

	row, err := queries.LockDocumentForUpdate(ctx, id)
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, apperror.NewNotFoundError("document")
		}
		return nil, r.HandleError(err)
	}

	return r.toEntity(row), nil
}

// SetCurrentVersion はドキュメントのカレントバージョン参照を更新します
func (r *DocumentRepository) SetCurrentVersion(ctx context.Context, documentID, versionID uuid.UUID) error {
	queries := sqlcgen.New(r.Querier(ctx))

	affected, err := queries.SetDocumentCurrentVersion(ctx, sqlcgen.SetDocumentCurrentVersionParams{
		ID:               documentID,
		CurrentVersionID: pgtype.UUID{Bytes: versionID, Valid: true},
	})
	if err != nil {
		return r.HandleError(err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError("document")
	}

	return nil
}

// toEntity はsqlcgen.Documentをentity.Documentに変換します
func (r *DocumentRepository) toEntity(row sqlcgen.Document) *entity.Document {
	doc := &entity.Document{
		ID:            row.ID,
		DocumentSetID: row.DocumentSetID,
		Title:         row.Title,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.DocCode != nil {
		doc.DocCode = *row.DocCode
	}
	if row.CurrentVersionID.Valid {
		id := uuid.UUID(row.CurrentVersionID.Bytes)
		doc.CurrentVersionID = &id
	}
	return doc
}

// インターフェースの実装を保証
var _ repository.DocumentRepository = (*DocumentRepository)(nil)
