package service

import "time"

// VersionMetrics はバージョン操作の計測を記録するインターフェースです
type VersionMetrics interface {
	// UploadCompleted は成功したアップロードを記録します
	UploadCompleted(sizeBytes int64, duration time.Duration)
	// UploadFailed は失敗したアップロードを理由コード付きで記録します
	UploadFailed(reason string)
	// CurrentChanged はカレントバージョンの切り替えを記録します
	CurrentChanged()
	// FileServed はファイル配信の開始を記録します
	FileServed(disposition string)
	// FileMissing はレコードはあるが実体がないファイルの検出を記録します
	FileMissing()
}

// NoopVersionMetrics は何も記録しないVersionMetricsです
type NoopVersionMetrics struct{}

func (NoopVersionMetrics) UploadCompleted(int64, time.Duration) {}
func (NoopVersionMetrics) UploadFailed(string) {}
func (NoopVersionMetrics) CurrentChanged() {}
func (NoopVersionMetrics) FileServed(string) {}
func (NoopVersionMetrics) FileMissing() {}

var _ VersionMetrics = NoopVersionMetrics{}
