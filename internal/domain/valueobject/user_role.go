package valueobject

import "errors"

var ErrInvalidUserRole = errors.New("invalid user role")

// UserRole はユーザーのロールを表す値オブジェクト
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

// NewUserRole は文字列からUserRoleを生成します
func NewUserRole(s string) (UserRole, error) {
	r := UserRole(s)
	if !r.IsValid() {
		return "", ErrInvalidUserRole
	}
	return r, nil
}

// IsValid はロールが有効かどうかを判定します
func (r UserRole) IsValid() bool {
	return r == UserRoleAdmin || r == UserRoleUser
}

// IsAdmin は管理者ロールかどうかを判定します
func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}

// String は文字列を返します
func (r UserRole) String() string {
	return string(r)
}
