package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/internal/domain/service"
)

const (
	scanPageSize       = 500
	maxReportedMissing = 100
)

// ScanMissingFilesOutput は整合性スキャンの結果を定義します
type ScanMissingFilesOutput struct {
	Checked    int
	Missing    int
	MissingIDs []uuid.UUID // 先頭maxReportedMissing件まで
}

// ScanMissingFilesQuery はレコードはあるがストレージ上に実体がないバージョンを数えるクエリです
type ScanMissingFilesQuery struct {
	versionRepo repository.DocumentVersionRepository
	storage     service.BlobStorage
}

// NewScanMissingFilesQuery は新しいScanMissingFilesQueryを作成します
func NewScanMissingFilesQuery(versionRepo repository.DocumentVersionRepository, storage service.BlobStorage) *ScanMissingFilesQuery {
	return &ScanMissingFilesQuery{
		versionRepo: versionRepo,
		storage:     storage,
	}
}

// Execute は全バージョンを走査します
// キーセットで進むため、走査中のアップロードで同じ行を二度数えることはありません
func (q *ScanMissingFilesQuery) Execute(ctx context.Context) (*ScanMissingFilesOutput, error) {
	output := &ScanMissingFilesOutput{}

	var cursor *repository.VersionCursor
	for {
		versions, err := q.versionRepo.FindBefore(ctx, cursor, scanPageSize)
		if err != nil {
			return nil, err
		}

		for _, v := range versions {
			exists, err := q.storage.Exists(ctx, v.FilePath.Value())
			if err != nil {
				return nil, err
			}
			output.Checked++
			if !exists {
				output.Missing++
				if len(output.MissingIDs) < maxReportedMissing {
					output.MissingIDs = append(output.MissingIDs, v.ID)
				}
			}
		}

		if len(versions) < scanPageSize {
			return output, nil
		}
		last := repository.CursorOf(versions[len(versions)-1])
		cursor = &last
	}
}
