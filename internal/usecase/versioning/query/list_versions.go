package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/internal/domain/service"
	"github.com/123ang/iso-document/pkg/apperror"
)

// ListVersionsInput はドキュメントのバージョン一覧取得の入力を定義します
type ListVersionsInput struct {
	DocumentID uuid.UUID
	Caller     entity.Caller
}

// ListVersionsOutput はドキュメントのバージョン一覧取得の出力を定義します
type ListVersionsOutput struct {
	Versions []*entity.DocumentVersion
	Current  *entity.DocumentVersion
}

// ListVersionsQuery はドキュメントの全バージョンを新しい順で取得するクエリです
type ListVersionsQuery struct {
	versionRepo  repository.DocumentVersionRepository
	documentRepo repository.DocumentRepository
	access       *versionAccess
}

// NewListVersionsQuery は新しいListVersionsQueryを作成します
func NewListVersionsQuery(
	versionRepo repository.DocumentVersionRepository,
	documentRepo repository.DocumentRepository,
	accessChecker service.AccessChecker,
) *ListVersionsQuery {
	return &ListVersionsQuery{
		versionRepo:  versionRepo,
		documentRepo: documentRepo,
		access: &versionAccess{
			versionRepo:   versionRepo,
			documentRepo:  documentRepo,
			accessChecker: accessChecker,
		},
	}
}

// Execute はバージョン一覧を取得します
func (q *ListVersionsQuery) Execute(ctx context.Context, input ListVersionsInput) (*ListVersionsOutput, error) {
	if input.Caller.UserID == uuid.Nil {
		return nil, apperror.NewUnauthorizedError("authentication required")
	}

	if input.Caller.IsAdmin() {
		exists, err := q.documentRepo.Exists(ctx, input.DocumentID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperror.NewNotFoundError("document")
		}
	} else if err := q.access.authorizeDocument(ctx, input.Caller, input.DocumentID); err != nil {
		return nil, err
	}

	versions, err := q.versionRepo.FindByDocumentID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}

	var current *entity.DocumentVersion
	for _, v := range versions {
		if v.IsCurrent {
			current = v
			break
		}
	}

	return &ListVersionsOutput{Versions: versions, Current: current}, nil
}
