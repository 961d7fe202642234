package entity

import (
	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/valueobject"
)

// Caller は認証済みリクエストの呼び出し元を表します
type Caller struct {
	UserID   uuid.UUID
	Role     valueobject.UserRole
	GroupIDs []uuid.UUID
}

// IsAdmin は管理者かどうかを判定します
func (c Caller) IsAdmin() bool {
	return c.Role.IsAdmin()
}
