package command

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/service"
	"github.com/123ang/iso-document/pkg/apperror"
	"github.com/123ang/iso-document/pkg/logger"
)

// RequestMeta は監査ログに残すリクエスト元の情報です
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

func newVersionAuditEntry(
	ctx context.Context,
	caller entity.Caller,
	action entity.AuditAction,
	version *entity.DocumentVersion,
	meta RequestMeta,
) service.AuditEntry {
	return service.NewVersionAuditEntry(caller.UserID, action, version).
		WithRequest(meta.IPAddress, meta.UserAgent, logger.RequestIDFromContext(ctx))
}

// failureReason はメトリクスのラベルに使うエラー分類を返します
func failureReason(err error) string {
	if code, ok := apperror.CodeOf(err); ok {
		return strings.ToLower(string(code))
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "internal_error"
}

func requireAdmin(caller entity.Caller) error {
	if caller.UserID == uuid.Nil {
		return apperror.NewUnauthorizedError("authentication required")
	}
	if !caller.IsAdmin() {
		return apperror.NewForbiddenError("access denied")
	}
	return nil
}
