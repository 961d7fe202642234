package entity

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/valueobject"
)

var (
	ErrVersionDocumentRequired = errors.New("document id is required")
	ErrVersionCreatorRequired  = errors.New("creator id is required")
	ErrVersionFilePathRequired = errors.New("file path is required")
	ErrVersionEmptyFile        = errors.New("file size must be greater than zero")
)

// DocumentVersion はドキュメントの1つのリビジョンを表すエンティティ
// is_current 以外のフィールドは作成後に変更されない
type DocumentVersion struct {
	ID               uuid.UUID
	DocumentID       uuid.UUID
	Number           valueobject.VersionNumber
	ChangeNotes      *string
	FilePath         valueobject.StorageKey
	OriginalFilename valueobject.FileName
	MimeType         valueobject.MimeType
	SizeBytes        int64
	Checksum         valueobject.Checksum
	IsCurrent        bool
	CreatedByID      uuid.UUID
	CreatedAt        time.Time
}

// NewDocumentVersionParams はバージョン作成時のパラメータです
type NewDocumentVersionParams struct {
	ID               uuid.UUID
	DocumentID       uuid.UUID
	Number           valueobject.VersionNumber
	ChangeNotes      *string
	FilePath         valueobject.StorageKey
	OriginalFilename valueobject.FileName
	MimeType         valueobject.MimeType
	SizeBytes        int64
	Checksum         valueobject.Checksum
	CreatedByID      uuid.UUID
}

// NewDocumentVersionID は時刻順に並ぶバージョンIDを生成します
func NewDocumentVersionID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// NewDocumentVersion は新しいドキュメントバージョンを作成します
// 作成直後は非カレントで、カレント化はコーディネーターが行います
func NewDocumentVersion(p NewDocumentVersionParams) (*DocumentVersion, error) {
	if p.DocumentID == uuid.Nil {
		return nil, ErrVersionDocumentRequired
	}
	if p.CreatedByID == uuid.Nil {
		return nil, ErrVersionCreatorRequired
	}
	if p.FilePath.IsEmpty() {
		return nil, ErrVersionFilePathRequired
	}
	if p.SizeBytes <= 0 {
		return nil, ErrVersionEmptyFile
	}
	if p.Number.Major() < 1 {
		return nil, fmt.Errorf("%w: %s", valueobject.ErrInvalidVersionNumber, p.Number)
	}

	id := p.ID
	if id == uuid.Nil {
		id = NewDocumentVersionID()
	}
	mimeType := p.MimeType
	if mimeType.Value() == "" {
		mimeType = valueobject.MimeTypeOctetStream
	}

	return &DocumentVersion{
		ID:               id,
		DocumentID:       p.DocumentID,
		Number:           p.Number,
		ChangeNotes:      p.ChangeNotes,
		FilePath:         p.FilePath,
		OriginalFilename: p.OriginalFilename,
		MimeType:         mimeType,
		SizeBytes:        p.SizeBytes,
		Checksum:         p.Checksum,
		IsCurrent:        false,
		CreatedByID:      p.CreatedByID,
		CreatedAt:        time.Now(),
	}, nil
}

// ReconstructDocumentVersion はDBからドキュメントバージョンを復元します
func ReconstructDocumentVersion(
	id uuid.UUID,
	documentID uuid.UUID,
	number valueobject.VersionNumber,
	changeNotes *string,
	filePath valueobject.StorageKey,
	originalFilename valueobject.FileName,
	mimeType valueobject.MimeType,
	sizeBytes int64,
	checksum valueobject.Checksum,
	isCurrent bool,
	createdByID uuid.UUID,
	createdAt time.Time,
) *DocumentVersion {
	return &DocumentVersion{
		ID:               id,
		DocumentID:       documentID,
		Number:           number,
		ChangeNotes:      changeNotes,
		FilePath:         filePath,
		OriginalFilename: originalFilename,
		MimeType:         mimeType,
		SizeBytes:        sizeBytes,
		Checksum:         checksum,
		IsCurrent:        isCurrent,
		CreatedByID:      createdByID,
		CreatedAt:        createdAt,
	}
}

// Label は表示用のバージョンラベルを返します
func (v *DocumentVersion) Label() string {
	return v.Number.Label()
}

// MarkCurrent はカレントフラグを設定します
func (v *DocumentVersion) MarkCurrent(current bool) {
	v.IsCurrent = current
}

// IsNewerThan は (major, minor, id) の順でvがotherより新しいかを判定します
// 同一番号の場合はIDのバイト順（UUIDv7では作成順）で比較します
func (v *DocumentVersion) IsNewerThan(other *DocumentVersion) bool {
	if c := v.Number.Compare(other.Number); c != 0 {
		return c > 0
	}
	return bytes.Compare(v.ID[:], other.ID[:]) > 0
}

// LatestVersion はバージョン集合から最新のものを返します（空の場合はnil）
func LatestVersion(versions []*DocumentVersion) *DocumentVersion {
	var latest *DocumentVersion
	for _, v := range versions {
		if v == nil {
			continue
		}
		if latest == nil || v.IsNewerThan(latest) {
			latest = v
		}
	}
	return latest
}
