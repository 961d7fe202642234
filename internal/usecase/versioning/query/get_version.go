package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/internal/domain/service"
)

// GetVersionInput はバージョン取得の入力を定義します
type GetVersionInput struct {
	VersionID uuid.UUID
	Caller    entity.Caller
}

// GetVersionOutput はバージョン取得の出力を定義します
type GetVersionOutput struct {
	Version *entity.DocumentVersion
}

// GetVersionQuery はバージョンのメタデータを取得するクエリです
type GetVersionQuery struct {
	access *versionAccess
}

// NewGetVersionQuery は新しいGetVersionQueryを作成します
func NewGetVersionQuery(
	versionRepo repository.DocumentVersionRepository,
	documentRepo repository.DocumentRepository,
	accessChecker service.AccessChecker,
) *GetVersionQuery {
	return &GetVersionQuery{
		access: &versionAccess{
			versionRepo:   versionRepo,
			documentRepo:  documentRepo,
			accessChecker: accessChecker,
		},
	}
}

// Execute はバージョンを取得します
func (q *GetVersionQuery) Execute(ctx context.Context, input GetVersionInput) (*GetVersionOutput, error) {
	version, err := q.access.authorizeVersion(ctx, input.Caller, input.VersionID)
	if err != nil {
		return nil, err
	}
	return &GetVersionOutput{Version: version}, nil
}
