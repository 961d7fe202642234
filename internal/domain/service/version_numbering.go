package service

import (
	"fmt"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/valueobject"
	"github.com/123ang/iso-document/pkg/apperror"
)

// VersionPolicyName は採番ポリシーの識別子です
type VersionPolicyName string

const (
	VersionPolicyMajorOnly  VersionPolicyName = "major_only"
	VersionPolicyMajorMinor VersionPolicyName = "major_minor"
)

// VersionNumberingPolicy は既存バージョンから次のバージョン番号を決定するドメインサービス
type VersionNumberingPolicy interface {
	// Next は既存バージョン集合と要求された上げ方から次の番号を返します
	Next(existing []*entity.DocumentVersion, bump valueobject.VersionBump) (valueobject.VersionNumber, error)

	// Name はポリシー名を返します
	Name() VersionPolicyName
}

// NewVersionNumberingPolicy は名前に対応するポリシーを返します
func NewVersionNumberingPolicy(name VersionPolicyName) (VersionNumberingPolicy, error) {
	switch name {
	case VersionPolicyMajorOnly, "":
		return NewMajorOnlyPolicy(), nil
	case VersionPolicyMajorMinor:
		return NewMajorMinorPolicy(), nil
	default:
		return nil, fmt.Errorf("unknown version policy: %s", name)
	}
}

// majorOnlyPolicy はアップロードごとにメジャー番号を1つ上げるポリシー
// 最初のバージョンは 1.0、以降は (最新major+1).0 になります
type majorOnlyPolicy struct{}

// NewMajorOnlyPolicy は新しいメジャー番号のみのポリシーを作成します
func NewMajorOnlyPolicy() VersionNumberingPolicy {
	return &majorOnlyPolicy{}
}

func (p *majorOnlyPolicy) Name() VersionPolicyName {
	return VersionPolicyMajorOnly
}

func (p *majorOnlyPolicy) Next(existing []*entity.DocumentVersion, bump valueobject.VersionBump) (valueobject.VersionNumber, error) {
	if bump == valueobject.VersionBumpMinor {
		return valueobject.VersionNumber{}, apperror.NewValidationError("minor versions are not enabled", []apperror.FieldError{
			{Field: "versionType", Message: "only major versions are supported"},
		})
	}

	latest := entity.LatestVersion(existing)
	if latest == nil {
		return valueobject.InitialVersionNumber(), nil
	}
	return latest.Number.NextMajor(), nil
}

// majorMinorPolicy はmajor指定時のみメジャーを上げ、それ以外はマイナーを上げるポリシー
type majorMinorPolicy struct{}

// NewMajorMinorPolicy は新しいメジャー/マイナーポリシーを作成します
func NewMajorMinorPolicy() VersionNumberingPolicy {
	return &majorMinorPolicy{}
}

func (p *majorMinorPolicy) Name() VersionPolicyName {
	return VersionPolicyMajorMinor
}

func (p *majorMinorPolicy) Next(existing []*entity.DocumentVersion, bump valueobject.VersionBump) (valueobject.VersionNumber, error) {
	latest := entity.LatestVersion(existing)
	if latest == nil {
		return valueobject.InitialVersionNumber(), nil
	}
	if bump == valueobject.VersionBumpMajor {
		return latest.Number.NextMajor(), nil
	}
	return latest.Number.NextMinor(), nil
}
