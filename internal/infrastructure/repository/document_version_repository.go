package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/internal/domain/valueobject"
	"github.com/123ang/iso-document/internal/infrastructure/database"
	"github.com/123ang/iso-document/internal/infrastructure/database/sqlcgen"
	"github.com/123ang/iso-document/pkg/apperror"
)

// DocumentVersionRepository はドキュメントバージョンリポジトリの実装です
type DocumentVersionRepository struct {
	*database.BaseRepository
}

// NewDocumentVersionRepository は新しいDocumentVersionRepositoryを作成します
func NewDocumentVersionRepository(txManager *database.TxManager) *DocumentVersionRepository {
	return &DocumentVersionRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// Create はドキュメントバージョンを作成します
func (r *DocumentVersionRepository) Create(ctx context.Context, version *entity.DocumentVersion) error {
	queries := sqlcgen.New(r.Querier(ctx))

	_, err := queries.CreateDocumentVersion(ctx, sqlcgen.CreateDocumentVersionParams{
		ID:               version.ID,
		DocumentID:       version.DocumentID,
		VersionMajor:     int32(version.Number.Major()),
		VersionMinor:     int32(version.Number.Minor()),
		VersionLabel:     version.Label(),
		ChangeNotes:      version.ChangeNotes,
		FilePath:         version.FilePath.Value(),
		OriginalFilename: version.OriginalFilename.Value(),
		MimeType:         version.MimeType.Value(),
		SizeBytes:        version.SizeBytes,
		ChecksumSha256:   version.Checksum.Value(),
		IsCurrent:        version.IsCurrent,
		CreatedBy:        version.CreatedByID,
		CreatedAt:        version.CreatedAt,
	})

	return r.HandleError(err)
}

// FindByID はIDでドキュメントバージョンを検索します
func (r *DocumentVersionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.DocumentVersion, error) {
	queries := sqlcgen.New(r.Querier(ctx))

	row, err := queries.GetDocumentVersionByID(ctx, id)
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, apperror.NewNotFoundError("document version")
		}
		return nil, r.HandleError(err)
	}

	return r.toEntity(row), nil
}

// FindByDocumentID はドキュメントの全バージョンを新しい番号順に検索します
func (r *DocumentVersionRepository) FindByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*entity.DocumentVersion, error) {
	queries := sqlcgen.New(r.Querier(ctx))

	rows, err := queries.ListDocumentVersionsByDocumentID(ctx, documentID)
	if err != nil {
		return nil, r.HandleError(err)
	}

	return r.toEntities(rows), nil
}

// FindAll は全バージョンを作成日時の新しい順に検索します
func (r *DocumentVersionRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.DocumentVersion, error) {
	queries := sqlcgen.New(r.Querier(ctx))

	rows, err := queries.ListDocumentVersions(ctx, sqlcgen.ListDocumentVersionsParams{
		LimitVal:  int32(limit),
		OffsetVal: int32(offset),
	})
	if err != nil {
		return nil, r.HandleError(err)
	}

	return r.toEntities(rows), nil
}

// FindBefore はカーソルより古いバージョンを (created_at, id) の降順でキーセット検索します
func (r *DocumentVersionRepository) FindBefore(ctx context.Context, after *repository.VersionCursor, limit int) ([]*entity.DocumentVersion, error) {
	if after == nil {
		return r.FindAll(ctx, limit, 0)
	}

	queries := sqlcgen.New(r.Querier(ctx))

	rows, err := queries.ListDocumentVersionsBefore(ctx, sqlcgen.ListDocumentVersionsBeforeParams{
		BeforeCreatedAt: after.CreatedAt,
		BeforeID:        after.ID,
		LimitVal:        int32(limit),
	})
	if err != nil {
		return nil, r.HandleError(err)
	}

	return r.toEntities(rows), nil
}

// CountAll は全バージョン数をカウントします
func (r *DocumentVersionRepository) CountAll(ctx context.Context) (int, error) {
	queries := sqlcgen.New(r.Querier(ctx))

	count, err := queries.CountDocumentVersions(ctx)
	if err != nil {
		return 0, r.HandleError(err)
	}

	return int(count), nil
}

// ClearCurrent は対象以外のバージョンのカレントフラグを外します
func (r *DocumentVersionRepository) ClearCurrent(ctx context.Context, documentID, exceptVersionID uuid.UUID) error {
	queries := sqlcgen.New(r.Querier(ctx))

	err := queries.ClearCurrentDocumentVersions(ctx, sqlcgen.ClearCurrentDocumentVersionsParams{
		DocumentID: documentID,
		ID:         exceptVersionID,
	})
	return r.HandleError(err)
}

// MarkCurrent は対象バージョンのカレントフラグを設定します
func (r *DocumentVersionRepository) MarkCurrent(ctx context.Context, documentID, versionID uuid.UUID, current bool) error {
	queries := sqlcgen.New(r.Querier(ctx))

	affected, err := queries.SetDocumentVersionCurrent(ctx, sqlcgen.SetDocumentVersionCurrentParams{
		DocumentID: documentID,
		ID:         versionID,
		IsCurrent:  current,
	})
	if err != nil {
		return r.HandleError(err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError("document version")
	}

	return nil
}

// toEntity はsqlcgen.DocumentVersionをentity.DocumentVersionに変換します
func (r *DocumentVersionRepository) toEntity(row sqlcgen.DocumentVersion) *entity.DocumentVersion {
	return entity.ReconstructDocumentVersion(
		row.ID,
		row.DocumentID,
		valueobject.ReconstructVersionNumber(int(row.VersionMajor), int(row.VersionMinor)),
		row.ChangeNotes,
		valueobject.ReconstructStorageKey(row.FilePath),
		valueobject.ReconstructFileName(row.OriginalFilename),
		valueobject.ReconstructMimeType(row.MimeType),
		row.SizeBytes,
		valueobject.ReconstructChecksum(row.ChecksumSha256),
		row.IsCurrent,
		row.CreatedBy,
		row.CreatedAt,
	)
}

// toEntities は複数のsqlcgen.DocumentVersionをentity.DocumentVersionに変換します
func (r *DocumentVersionRepository) toEntities(rows []sqlcgen.DocumentVersion) []*entity.DocumentVersion {
	versions := make([]*entity.DocumentVersion, len(rows))
	for i, row := range rows {
		versions[i] = r.toEntity(row)
	}
	return versions
}

// インターフェースの実装を保証
var _ repository.DocumentVersionRepository = (*DocumentVersionRepository)(nil)
