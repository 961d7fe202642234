package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// KeyPrefix はRedisキーのプレフィックスを定義します
type KeyPrefix string

const (
	PrefixCache KeyPrefix = "cache" // cache:{namespace}:{key}
)

// キャッシュの名前空間
const (
	NamespaceAccess = "access" // cache:access:{document_set_id}:{groups_hash}
)

// CacheKey は汎用キャッシュキーを生成します
func CacheKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", PrefixCache, namespace, key)
}

// AccessKey はドキュメントセットとグループ集合に対するアクセス判定のキーを生成します
// グループの順序に依存しないよう、ソートしてからハッシュ化します
func AccessKey(documentSetID uuid.UUID, groupIDs []uuid.UUID) string {
	ids := make([]string, len(groupIDs))
	for i, id := range groupIDs {
		ids[i] = id.String()
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	sum := sha256.Sum256([]byte(strings.Join(ids, ",")))
	return fmt.Sprintf("%s:%s", documentSetID.String(), hex.EncodeToString(sum[:16]))
}
