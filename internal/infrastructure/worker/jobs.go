package worker

import (
	"context"
	"log/slog"
	"time"
)

// StorageIntegrityJobConfig はストレージ整合性スキャンジョブの設定です
type StorageIntegrityJobConfig struct {
	// Interval はスキャン間隔です
	Interval time.Duration
	// Timeout は1回のスキャンに許す時間です
	Timeout time.Duration
}

// NewStorageIntegrityJob はバージョンレコードに対応するファイル実体の欠落を検出するジョブを作成します
// scanFn は欠落件数を返し、reportFn はその件数をメトリクス等に反映します
func NewStorageIntegrityJob(scanFn func(ctx context.Context) (int, error), reportFn func(missing int), cfg StorageIntegrityJobConfig) Job {
	if cfg.Interval <= 0 {
		cfg.Interval = 1 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}

	return Job{
		Name:     "storage_integrity",
		Interval: cfg.Interval,
		Timeout:  cfg.Timeout,
		Fn: func(ctx context.Context) error {
			missing, err := scanFn(ctx)
			if err != nil {
				return err
			}
			if reportFn != nil {
				reportFn(missing)
			}
			if missing > 0 {
				slog.Warn("version files missing on storage", "count", missing)
			}
			return nil
		},
	}
}

// NewHealthCheckJob はヘルスチェックジョブを作成します（データベース接続確認など）
func NewHealthCheckJob(checkFn func(ctx context.Context) error) Job {
	return Job{
		Name:     "health_check",
		Interval: 5 * time.Minute,
		Timeout:  5 * time.Second,
		Fn: func(ctx context.Context) error {
			if err := checkFn(ctx); err != nil {
				slog.Warn("health check failed", "error", err)
				return err
			}
			return nil
		},
	}
}
