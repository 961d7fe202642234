package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiry time.Duration) *JWTService {
	cfg := DefaultConfig()
	cfg.SecretKey = "test-secret-key-which-is-long-enough-32"
	cfg.AccessTokenExpiry = expiry
	cfg.Leeway = 0
	return NewJWTService(cfg)
}

func TestJWTService_ValidateAccessToken_RoundTrip(t *testing.T) {
	svc := newTestService(time.Minute)
	userID := uuid.New()
	groups := []uuid.UUID{uuid.New(), uuid.New()}

	token, err := svc.GenerateAccessToken(userID, "user", groups)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, groups, claims.GroupIDs)
}

func TestJWTService_ValidateAccessToken_Expired(t *testing.T) {
	svc := newTestService(-time.Minute)

	token, err := svc.GenerateAccessToken(uuid.New(), "admin", nil)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTService_ValidateAccessToken_WrongSecret(t *testing.T) {
	token, err := newTestService(time.Minute).GenerateAccessToken(uuid.New(), "admin", nil)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.SecretKey = "another-secret-key-which-is-long-enough"
	_, err = NewJWTService(cfg).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, Config{}.Validate(), ErrSecretKeyRequired)
	assert.ErrorIs(t, Config{SecretKey: "short"}.Validate(), ErrSecretKeyTooShort)
	assert.NoError(t, Config{SecretKey: "0123456789abcdef0123456789abcdef"}.Validate())
}
