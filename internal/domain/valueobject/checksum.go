package valueobject

import (
	"encoding/hex"
	"errors"
	"strings"
)

// ChecksumHexLength はSHA-256ダイジェストの16進表現の長さ
const ChecksumHexLength = 64

var ErrInvalidChecksum = errors.New("checksum must be 64 lowercase hex characters")

// Checksum はSHA-256ダイジェストの小文字16進表現を表す値オブジェクト
type Checksum struct {
	value string
}

// NewChecksum は16進文字列を検証してChecksumを生成します
func NewChecksum(s string) (Checksum, error) {
	if len(s) != ChecksumHexLength || strings.ToLower(s) != s {
		return Checksum{}, ErrInvalidChecksum
	}
	if _, err := hex.DecodeString(s); err != nil {
		return Checksum{}, ErrInvalidChecksum
	}
	return Checksum{value: s}, nil
}

// ChecksumFromDigest は生のダイジェストからChecksumを生成します
func ChecksumFromDigest(sum []byte) Checksum {
	return Checksum{value: hex.EncodeToString(sum)}
}

// ReconstructChecksum はDBからChecksumを復元します
func ReconstructChecksum(value string) Checksum {
	return Checksum{value: value}
}

// Value は値を返します
func (c Checksum) Value() string {
	return c.value
}

// String は文字列を返します
func (c Checksum) String() string {
	return c.value
}

// Equals は等価性を判定します
func (c Checksum) Equals(other Checksum) bool {
	return c.value == other.value
}
