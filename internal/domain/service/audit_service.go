package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
)

// AuditService はバージョン操作の監査ログを記録します
// 記録の失敗は呼び出し元に伝播しません
type AuditService interface {
	Log(ctx context.Context, entry AuditEntry)
}

// AuditEntry は監査ログ1件分の情報です
type AuditEntry struct {
	UserID       *uuid.UUID
	Action       entity.AuditAction
	ResourceType entity.AuditResourceType
	ResourceID   *uuid.UUID
	Details      map[string]interface{}
	IPAddress    string
	UserAgent    string
	RequestID    string
}

// NewVersionAuditEntry はバージョンを対象とする監査エントリを作成します
// details にはドキュメントID、バージョンラベル、元ファイル名、サイズを残します
func NewVersionAuditEntry(actorID uuid.UUID, action entity.AuditAction, version *entity.DocumentVersion) AuditEntry {
	versionID := version.ID
	return AuditEntry{
		UserID:       &actorID,
		Action:       action,
		ResourceType: entity.AuditResourceDocumentVersion,
		ResourceID:   &versionID,
		Details: map[string]interface{}{
			"documentId":   version.DocumentID.String(),
			"versionLabel": version.Label(),
			"filename":     version.OriginalFilename.Value(),
			"size":         version.SizeBytes,
		},
	}
}

// WithRequest はリクエスト元の情報を付与したコピーを返します
func (e AuditEntry) WithRequest(ipAddress, userAgent, requestID string) AuditEntry {
	e.IPAddress = ipAddress
	e.UserAgent = userAgent
	e.RequestID = requestID
	return e
}
