package request

// UploadVersionRequest はバージョンアップロードのフォーム項目です（fileは別途multipartで受け取る）
type UploadVersionRequest struct {
	DocumentID  string `form:"documentId" validate:"required,uuid"`
	ChangeNotes string `form:"changeNotes" validate:"max=2000"`
	VersionType string `form:"versionType" validate:"omitempty,oneof=major minor"`
}

// ListVersionsRequest は全バージョン一覧のクエリパラメータです
type ListVersionsRequest struct {
	Page    int `query:"page" validate:"gte=0"`
	PerPage int `query:"per_page" validate:"gte=0"`
}
