package valueobject

// Disposition はファイル配信時のContent-Disposition種別です
type Disposition string

const (
	DispositionAttachment Disposition = "attachment"
	DispositionInline     Disposition = "inline"
)

// IsValid は有効な種別かどうかを判定します
func (d Disposition) IsValid() bool {
	return d == DispositionAttachment || d == DispositionInline
}
