package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/service"
	"github.com/123ang/iso-document/pkg/apperror"
)

// SetCurrentVersionInput はカレントバージョン切り替えの入力を定義します
type SetCurrentVersionInput struct {
	VersionID uuid.UUID
	Caller    entity.Caller
	Meta      RequestMeta
}

// SetCurrentVersionOutput はカレントバージョン切り替えの出力を定義します
type SetCurrentVersionOutput struct {
	Version *entity.DocumentVersion
}

// SetCurrentVersionCommand は既存バージョンをカレントに戻す/進めるコマンドです
type SetCurrentVersionCommand struct {
	coordinator  *CurrentVersionCoordinator
	auditService service.AuditService
	metrics      service.VersionMetrics
}

// NewSetCurrentVersionCommand は新しいSetCurrentVersionCommandを作成します
func NewSetCurrentVersionCommand(
	coordinator *CurrentVersionCoordinator,
	auditService service.AuditService,
	metrics service.VersionMetrics,
) *SetCurrentVersionCommand {
	return &SetCurrentVersionCommand{
		coordinator:  coordinator,
		auditService: auditService,
		metrics:      metrics,
	}
}

// Execute はカレントバージョンを切り替えます
// 既にカレントのバージョンを指定した場合も成功します
func (c *SetCurrentVersionCommand) Execute(ctx context.Context, input SetCurrentVersionInput) (*SetCurrentVersionOutput, error) {
	if err := requireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if input.VersionID == uuid.Nil {
		return nil, apperror.NewValidationError("version id is required", nil)
	}

	version, err := c.coordinator.SetAsCurrent(ctx, input.VersionID)
	if err != nil {
		return nil, err
	}

	c.metrics.CurrentChanged()
	c.auditService.Log(ctx, newVersionAuditEntry(ctx, input.Caller, entity.AuditActionVersionSetCurrent, version, input.Meta))

	return &SetCurrentVersionOutput{Version: version}, nil
}
