package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/123ang/iso-document/internal/domain/service"
)

const namespace = "iso_document"

// Recorder はPrometheusにバージョン操作とHTTPのメトリクスを記録します
type Recorder struct {
	uploadsTotal     *prometheus.CounterVec
	uploadBytesTotal prometheus.Counter
	uploadDuration   prometheus.Histogram
	currentChanges   prometheus.Counter
	filesServed      *prometheus.CounterVec
	filesMissing     prometheus.Counter

	missingOnStorage prometheus.Gauge

	auditEntriesTotal *prometheus.CounterVec

	jobRunsTotal   *prometheus.CounterVec
	jobRunDuration *prometheus.HistogramVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewRecorder は新しいRecorderを作成し、regに登録します
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		uploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_uploads_total",
			Help:      "Total number of version uploads by result",
		}, []string{"result"}),
		uploadBytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_upload_bytes_total",
			Help:      "Total bytes stored by successful uploads",
		}),
		uploadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "version_upload_duration_seconds",
			Help:      "Duration of successful uploads",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		currentChanges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_current_changes_total",
			Help:      "Total number of explicit current-version changes",
		}),
		filesServed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_files_served_total",
			Help:      "Total number of file streams opened by disposition",
		}, []string{"disposition"}),
		filesMissing: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_files_missing_total",
			Help:      "Total number of retrievals that found no file on storage",
		}),
		missingOnStorage: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "version_files_missing_on_storage",
			Help:      "Number of version records without a stored file at the last integrity scan",
		}),
		auditEntriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_entries_total",
			Help:      "Total number of audit entries by write result",
		}, []string{"result"}),
		jobRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_job_runs_total",
			Help:      "Total number of background job runs by result",
		}, []string{"job", "result"}),
		jobRunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worker_job_run_duration_seconds",
			Help:      "Duration of background job runs",
			Buckets:   []float64{0.01, 0.1, 1, 10, 60, 300},
		}, []string{"job"}),
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// UploadCompleted は成功したアップロードを記録します
func (r *Recorder) UploadCompleted(sizeBytes int64, duration time.Duration) {
	r.uploadsTotal.WithLabelValues("success").Inc()
	r.uploadBytesTotal.Add(float64(sizeBytes))
	r.uploadDuration.Observe(duration.Seconds())
}

// UploadFailed は失敗したアップロードを記録します
func (r *Recorder) UploadFailed(reason string) {
	r.uploadsTotal.WithLabelValues(reason).Inc()
}

// CurrentChanged はカレントバージョンの切り替えを記録します
func (r *Recorder) CurrentChanged() {
	r.currentChanges.Inc()
}

// FileServed はファイル配信の開始を記録します
func (r *Recorder) FileServed(disposition string) {
	r.filesServed.WithLabelValues(disposition).Inc()
}

// FileMissing は実体のないファイルの検出を記録します
func (r *Recorder) FileMissing() {
	r.filesMissing.Inc()
}

// SetMissingOnStorage は整合性スキャンで見つかった欠落ファイル数を設定します
func (r *Recorder) SetMissingOnStorage(n int) {
	r.missingOnStorage.Set(float64(n))
}

// AuditRecorded は監査ログ1件の書き込み結果を記録します
func (r *Recorder) AuditRecorded(result string) {
	r.auditEntriesTotal.WithLabelValues(result).Inc()
}

// JobRun はバックグラウンドジョブの実行結果を記録します
func (r *Recorder) JobRun(job string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	r.jobRunsTotal.WithLabelValues(job, result).Inc()
	r.jobRunDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// ObserveHTTP はHTTPリクエストを記録します
// pathにはルートのテンプレート (/api/v1/versions/:id など) を渡すこと
func (r *Recorder) ObserveHTTP(method, path string, status int, duration time.Duration) {
	r.httpRequestsTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

var _ service.VersionMetrics = (*Recorder)(nil)
