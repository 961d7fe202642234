package response

import (
	"time"

	"github.com/123ang/iso-document/internal/domain/entity"
	versioningqry "github.com/123ang/iso-document/internal/usecase/versioning/query"
)

// VersionResponse はドキュメントバージョンのレスポンスです
type VersionResponse struct {
	ID               string    `json:"id"`
	DocumentID       string    `json:"documentId"`
	VersionMajor     int       `json:"versionMajor"`
	VersionMinor     int       `json:"versionMinor"`
	VersionLabel     string    `json:"versionLabel"`
	ChangeNotes      *string   `json:"changeNotes"`
	OriginalFilename string    `json:"originalFilename"`
	MimeType         string    `json:"mimeType"`
	SizeBytes        int64     `json:"sizeBytes"`
	Checksum         string    `json:"checksumSha256"`
	IsCurrent        bool      `json:"isCurrent"`
	CreatedByID      string    `json:"createdById"`
	CreatedAt        time.Time `json:"createdAt"`
}

// DocumentVersionsResponse はドキュメント単位のバージョン一覧レスポンスです
type DocumentVersionsResponse struct {
	DocumentID       string            `json:"documentId"`
	CurrentVersionID *string           `json:"currentVersionId"`
	Versions         []VersionResponse `json:"versions"`
}

// ToVersionResponse はエンティティからレスポンスに変換します
func ToVersionResponse(v *entity.DocumentVersion) VersionResponse {
	return VersionResponse{
		ID:               v.ID.String(),
		DocumentID:       v.DocumentID.String(),
		VersionMajor:     v.Number.Major(),
		VersionMinor:     v.Number.Minor(),
		VersionLabel:     v.Label(),
		ChangeNotes:      v.ChangeNotes,
		OriginalFilename: v.OriginalFilename.Value(),
		MimeType:         v.MimeType.Value(),
		SizeBytes:        v.SizeBytes,
		Checksum:         v.Checksum.Value(),
		IsCurrent:        v.IsCurrent,
		CreatedByID:      v.CreatedByID.String(),
		CreatedAt:        v.CreatedAt,
	}
}

// ToVersionResponses はエンティティのスライスをレスポンスに変換します
func ToVersionResponses(versions []*entity.DocumentVersion) []VersionResponse {
	result := make([]VersionResponse, len(versions))
	for i, v := range versions {
		result[i] = ToVersionResponse(v)
	}
	return result
}

// ToDocumentVersionsResponse はドキュメントのバージョン一覧をレスポンスに変換します
func ToDocumentVersionsResponse(documentID string, output *versioningqry.ListVersionsOutput) DocumentVersionsResponse {
	resp := DocumentVersionsResponse{
		DocumentID: documentID,
		Versions:   ToVersionResponses(output.Versions),
	}
	if output.Current != nil {
		id := output.Current.ID.String()
		resp.CurrentVersionID = &id
	}
	return resp
}
