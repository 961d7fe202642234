package query

import (
	"context"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/pkg/apperror"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ListAllVersionsInput は全バージョン一覧取得の入力を定義します
type ListAllVersionsInput struct {
	Caller entity.Caller
	Limit  int
	Offset int
}

// ListAllVersionsOutput は全バージョン一覧取得の出力を定義します
type ListAllVersionsOutput struct {
	Versions []*entity.DocumentVersion
	Total    int
	Limit    int
	Offset   int
}

// ListAllVersionsQuery は管理者向けに全ドキュメントのバージョンを新しい順で取得するクエリです
type ListAllVersionsQuery struct {
	versionRepo repository.DocumentVersionRepository
}

// NewListAllVersionsQuery は新しいListAllVersionsQueryを作成します
func NewListAllVersionsQuery(versionRepo repository.DocumentVersionRepository) *ListAllVersionsQuery {
	return &ListAllVersionsQuery{versionRepo: versionRepo}
}

// Execute は全バージョン一覧を取得します
func (q *ListAllVersionsQuery) Execute(ctx context.Context, input ListAllVersionsInput) (*ListAllVersionsOutput, error) {
	if !input.Caller.IsAdmin() {
		return nil, apperror.NewForbiddenError("access denied")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	versions, err := q.versionRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := q.versionRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	return &ListAllVersionsOutput{
		Versions: versions,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}
