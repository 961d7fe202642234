package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/internal/domain/service"
	"github.com/123ang/iso-document/pkg/apperror"
)

// versionAccess はバージョン単位の閲覧可否を判定します
// 非管理者には存在しない場合も権限がない場合も同じForbiddenを返します
type versionAccess struct {
	versionRepo   repository.DocumentVersionRepository
	documentRepo  repository.DocumentRepository
	accessChecker service.AccessChecker
}

func (a *versionAccess) authorizeVersion(ctx context.Context, caller entity.Caller, versionID uuid.UUID) (*entity.DocumentVersion, error) {
	if caller.UserID == uuid.Nil {
		return nil, apperror.NewUnauthorizedError("authentication required")
	}

	version, err := a.versionRepo.FindByID(ctx, versionID)
	if err != nil {
		if apperror.IsNotFound(err) && !caller.IsAdmin() {
			return nil, apperror.NewForbiddenError("access denied")
		}
		return nil, err
	}

	if err := a.authorizeDocument(ctx, caller, version.DocumentID); err != nil {
		return nil, err
	}
	return version, nil
}

func (a *versionAccess) authorizeDocument(ctx context.Context, caller entity.Caller, documentID uuid.UUID) error {
	if caller.IsAdmin() {
		return nil
	}

	doc, err := a.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewForbiddenError("access denied")
		}
		return err
	}

	ok, err := a.accessChecker.HasAccess(ctx, doc.DocumentSetID, caller.GroupIDs)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewForbiddenError("access denied")
	}
	return nil
}
