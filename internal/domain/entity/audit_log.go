package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction は監査ログのアクション種別を定義します
type AuditAction string

const (
	AuditActionVersionUpload     AuditAction = "version.upload"
	AuditActionVersionSetCurrent AuditAction = "version.set_current"
	AuditActionVersionDownload   AuditAction = "version.download"
	AuditActionVersionView       AuditAction = "version.view"
)

// AuditResourceType はリソースの種類を定義します
type AuditResourceType string

const (
	AuditResourceDocumentVersion AuditResourceType = "document_version"
)

// AuditLog は監査ログエントリを表します
type AuditLog struct {
	ID           uuid.UUID
	UserID       *uuid.UUID
	Action       AuditAction
	ResourceType AuditResourceType
	ResourceID   *uuid.UUID
	Details      map[string]interface{}
	IPAddress    string
	UserAgent    string
	RequestID    string
	CreatedAt    time.Time
}
