package valueobject

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidVersionNumber = errors.New("version numbers must be a positive major and non-negative minor")
	ErrInvalidVersionBump   = errors.New("invalid version bump")
)

// VersionNumber はドキュメントバージョンの番号 (major, minor) を表す値オブジェクト
type VersionNumber struct {
	major int
	minor int
}

// NewVersionNumber は番号を検証してVersionNumberを生成します
func NewVersionNumber(major, minor int) (VersionNumber, error) {
	if major < 1 || minor < 0 {
		return VersionNumber{}, ErrInvalidVersionNumber
	}
	return VersionNumber{major: major, minor: minor}, nil
}

// InitialVersionNumber は最初のバージョン番号 1.0 を返します
func InitialVersionNumber() VersionNumber {
	return VersionNumber{major: 1, minor: 0}
}

// ReconstructVersionNumber はDBからVersionNumberを復元します
func ReconstructVersionNumber(major, minor int) VersionNumber {
	return VersionNumber{major: major, minor: minor}
}

// Major はメジャー番号を返します
func (v VersionNumber) Major() int {
	return v.major
}

// Minor はマイナー番号を返します
func (v VersionNumber) Minor() int {
	return v.minor
}

// Label は表示用ラベル "{major}.{minor}" を返します
func (v VersionNumber) Label() string {
	return fmt.Sprintf("%d.%d", v.major, v.minor)
}

// String は文字列を返します（Stringerインターフェース）
func (v VersionNumber) String() string {
	return v.Label()
}

// NextMajor は次のメジャーバージョン (major+1, 0) を返します
func (v VersionNumber) NextMajor() VersionNumber {
	return VersionNumber{major: v.major + 1, minor: 0}
}

// NextMinor は次のマイナーバージョン (major, minor+1) を返します
func (v VersionNumber) NextMinor() VersionNumber {
	return VersionNumber{major: v.major, minor: v.minor + 1}
}

// Compare は番号を比較し、v < other なら負、等しければ0、v > other なら正を返します
func (v VersionNumber) Compare(other VersionNumber) int {
	if v.major != other.major {
		return v.major - other.major
	}
	return v.minor - other.minor
}

// Equals は等価性を判定します
func (v VersionNumber) Equals(other VersionNumber) bool {
	return v.Compare(other) == 0
}

// VersionBump はアップロード時に要求される番号の上げ方です
type VersionBump string

const (
	VersionBumpDefault VersionBump = ""
	VersionBumpMajor   VersionBump = "major"
	VersionBumpMinor   VersionBump = "minor"
)

// NewVersionBump は文字列からVersionBumpを生成します
func NewVersionBump(s string) (VersionBump, error) {
	b := VersionBump(s)
	switch b {
	case VersionBumpDefault, VersionBumpMajor, VersionBumpMinor:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVersionBump, s)
	}
}
