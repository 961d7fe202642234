package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
)

// CurrentVersionCoordinator はドキュメントのカレントバージョンを切り替える唯一の書き込み手です
// バージョンのカレントフラグとドキュメントの参照を同一トランザクション内でドキュメント行をロックして更新します
type CurrentVersionCoordinator struct {
	versionRepo  repository.DocumentVersionRepository
	documentRepo repository.DocumentRepository
	txManager    repository.TransactionManager
}

// NewCurrentVersionCoordinator は新しいCurrentVersionCoordinatorを作成します
func NewCurrentVersionCoordinator(
	versionRepo repository.DocumentVersionRepository,
	documentRepo repository.DocumentRepository,
	txManager repository.TransactionManager,
) *CurrentVersionCoordinator {
	return &CurrentVersionCoordinator{
		versionRepo:  versionRepo,
		documentRepo: documentRepo,
		txManager:    txManager,
	}
}

// Activate は作成直後のバージョンをカレントにします
// アップロードのトランザクション内から呼ばれた場合はそのトランザクションを共有します
func (c *CurrentVersionCoordinator) Activate(ctx context.Context, version *entity.DocumentVersion) error {
	return c.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := c.documentRepo.LockForUpdate(ctx, version.DocumentID); err != nil {
			return err
		}
		return c.switchCurrent(ctx, version)
	})
}

// SetAsCurrent は既存のバージョンをカレントにします
func (c *CurrentVersionCoordinator) SetAsCurrent(ctx context.Context, versionID uuid.UUID) (*entity.DocumentVersion, error) {
	var version *entity.DocumentVersion

	err := c.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		v, err := c.versionRepo.FindByID(ctx, versionID)
		if err != nil {
			return err
		}

		if _, err := c.documentRepo.LockForUpdate(ctx, v.DocumentID); err != nil {
			return err
		}

		if err := c.switchCurrent(ctx, v); err != nil {
			return err
		}
		version = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	return version, nil
}

// switchCurrent はドキュメント行のロック取得後に呼び出すこと
func (c *CurrentVersionCoordinator) switchCurrent(ctx context.Context, version *entity.DocumentVersion) error {
	// 部分ユニークインデックスに違反しないよう、先に他のバージョンを外す
	if err := c.versionRepo.ClearCurrent(ctx, version.DocumentID, version.ID); err != nil {
		return err
	}
	if err := c.versionRepo.MarkCurrent(ctx, version.DocumentID, version.ID, true); err != nil {
		return err
	}
	if err := c.documentRepo.SetCurrentVersion(ctx, version.DocumentID, version.ID); err != nil {
		return err
	}

	version.MarkCurrent(true)
	return nil
}
