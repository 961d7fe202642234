package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document はバージョン管理対象のドキュメントを表します
// ドキュメントそのものの管理は別サービスの責務で、ここではカレントバージョンの参照のみを更新します
type Document struct {
	ID               uuid.UUID
	DocumentSetID    uuid.UUID
	Title            string
	DocCode          string
	CurrentVersionID *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasCurrentVersion はカレントバージョンが設定されているかを判定します
func (d *Document) HasCurrentVersion() bool {
	return d.CurrentVersionID != nil
}

// SetCurrentVersion はカレントバージョンの参照を更新します
func (d *Document) SetCurrentVersion(versionID uuid.UUID) {
	d.CurrentVersionID = &versionID
	d.UpdatedAt = time.Now()
}
