package jwt

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims はアクセストークンのクレームを定義します
// トークンは外部の認証基盤が発行し、本サービスは検証のみを行います
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID   `json:"uid"`
	Role     string      `json:"role"`
	GroupIDs []uuid.UUID `json:"groups,omitempty"`
}
