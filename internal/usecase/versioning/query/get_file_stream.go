package query

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/internal/domain/service"
	"github.com/123ang/iso-document/internal/domain/valueobject"
	"github.com/123ang/iso-document/pkg/apperror"
	"github.com/123ang/iso-document/pkg/logger"
)

// GetFileStreamInput はファイル取得の入力を定義します
type GetFileStreamInput struct {
	VersionID   uuid.UUID
	Caller      entity.Caller
	Disposition valueobject.Disposition
	IPAddress   string
	UserAgent   string
}

// GetFileStreamOutput はファイル取得の出力を定義します
// Streamのクローズは呼び出し元の責務です
type GetFileStreamOutput struct {
	Stream      io.ReadCloser
	Filename    string
	MimeType    string
	Size        int64
	Checksum    string
	Disposition valueobject.Disposition
	Version     *entity.DocumentVersion
}

// GetFileStreamQuery はアクセス制御付きでバージョンのファイル実体を取得するクエリです
type GetFileStreamQuery struct {
	access       *versionAccess
	storage      service.BlobStorage
	auditService service.AuditService
	metrics      service.VersionMetrics
}

// NewGetFileStreamQuery は新しいGetFileStreamQueryを作成します
func NewGetFileStreamQuery(
	versionRepo repository.DocumentVersionRepository,
	documentRepo repository.DocumentRepository,
	accessChecker service.AccessChecker,
	storage service.BlobStorage,
	auditService service.AuditService,
	metrics service.VersionMetrics,
) *GetFileStreamQuery {
	return &GetFileStreamQuery{
		access: &versionAccess{
			versionRepo:   versionRepo,
			documentRepo:  documentRepo,
			accessChecker: accessChecker,
		},
		storage:      storage,
		auditService: auditService,
		metrics:      metrics,
	}
}

// Execute はファイルストリームを開きます
func (q *GetFileStreamQuery) Execute(ctx context.Context, input GetFileStreamInput) (*GetFileStreamOutput, error) {
	disposition := input.Disposition
	if disposition == "" {
		disposition = valueobject.DispositionAttachment
	}
	if !disposition.IsValid() {
		return nil, apperror.NewValidationError("invalid disposition", nil)
	}

	// 1. バージョン解決とアクセス判定
	version, err := q.access.authorizeVersion(ctx, input.Caller, input.VersionID)
	if err != nil {
		return nil, err
	}

	// 2. ストレージ上の存在確認
	key := version.FilePath.Value()
	exists, err := q.storage.Exists(ctx, key)
	if err != nil {
		return nil, apperror.NewIOError("failed to check file", err)
	}
	if !exists {
		return nil, q.fileMissing(version, key)
	}

	// 3. ストリームを開く（確認後に削除された場合も FILE_MISSING とする）
	stream, err := q.storage.Open(ctx, key)
	if errors.Is(err, service.ErrBlobNotFound) {
		return nil, q.fileMissing(version, key)
	}
	if err != nil {
		return nil, apperror.NewIOError("failed to open file", err)
	}

	q.metrics.FileServed(string(disposition))
	q.auditService.Log(ctx, q.auditEntry(ctx, input, version, disposition))

	return &GetFileStreamOutput{
		Stream:      stream,
		Filename:    version.OriginalFilename.Value(),
		MimeType:    version.MimeType.Value(),
		Size:        version.SizeBytes,
		Checksum:    version.Checksum.Value(),
		Disposition: disposition,
		Version:     version,
	}, nil
}

func (q *GetFileStreamQuery) fileMissing(version *entity.DocumentVersion, key string) error {
	q.metrics.FileMissing()
	slog.Warn("version file missing on storage",
		"version_id", version.ID,
		"storage_key", key,
	)
	return apperror.NewFileMissingError(key)
}

func (q *GetFileStreamQuery) auditEntry(ctx context.Context, input GetFileStreamInput, version *entity.DocumentVersion, disposition valueobject.Disposition) service.AuditEntry {
	action := entity.AuditActionVersionDownload
	if disposition == valueobject.DispositionInline {
		action = entity.AuditActionVersionView
	}

	return service.NewVersionAuditEntry(input.Caller.UserID, action, version).
		WithRequest(input.IPAddress, input.UserAgent, logger.RequestIDFromContext(ctx))
}
