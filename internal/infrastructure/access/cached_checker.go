package access

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/service"
	"github.com/123ang/iso-document/internal/infrastructure/cache"
)

// CachedChecker はアクセス判定結果をキャッシュするAccessCheckerのデコレータです
// キャッシュ障害時は委譲先の判定結果をそのまま使います
type CachedChecker struct {
	next  service.AccessChecker
	store cache.Store
}

// NewCachedChecker は新しいCachedCheckerを作成します
func NewCachedChecker(next service.AccessChecker, store cache.Store) *CachedChecker {
	return &CachedChecker{next: next, store: store}
}

// HasAccess はキャッシュを参照し、なければ委譲先で判定して結果を保存します
func (c *CachedChecker) HasAccess(ctx context.Context, documentSetID uuid.UUID, groupIDs []uuid.UUID) (bool, error) {
	if len(groupIDs) == 0 {
		return false, nil
	}

	key := cache.AccessKey(documentSetID, groupIDs)

	var cached bool
	err := c.store.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		slog.Warn("access cache lookup failed", "error", err)
	}

	ok, err := c.next.HasAccess(ctx, documentSetID, groupIDs)
	if err != nil {
		return false, err
	}

	if err := c.store.Set(ctx, key, ok); err != nil {
		slog.Warn("access cache store failed", "error", err)
	}
	return ok, nil
}

var _ service.AccessChecker = (*CachedChecker)(nil)
