package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/internal/domain/service"
	"github.com/123ang/iso-document/internal/domain/valueobject"
	"github.com/123ang/iso-document/pkg/apperror"
)

const blobCleanupTimeout = 30 * time.Second

var errFileTooLarge = errors.New("file exceeds maximum size")

// UploadVersionInput はバージョンアップロードの入力を定義します
type UploadVersionInput struct {
	DocumentID  uuid.UUID
	File        io.Reader
	FileName    string
	MimeType    string
	Size        int64 // 不明な場合は -1
	ChangeNotes *string
	VersionType string // "" | "major" | "minor"
	Caller      entity.Caller
	Meta        RequestMeta
}

// UploadVersionOutput はバージョンアップロードの出力を定義します
type UploadVersionOutput struct {
	Version *entity.DocumentVersion
}

// UploadVersionConfig はアップロードの設定です
type UploadVersionConfig struct {
	// MaxFileSize は受け付ける最大バイト数です（0以下で無制限）
	MaxFileSize int64
}

// UploadVersionCommand はドキュメントに新しいバージョンを追加し、カレントにするコマンドです
type UploadVersionCommand struct {
	documentRepo repository.DocumentRepository
	versionRepo  repository.DocumentVersionRepository
	txManager    repository.TransactionManager
	storage      service.BlobStorage
	checksum     service.ChecksumService
	policy       service.VersionNumberingPolicy
	coordinator  *CurrentVersionCoordinator
	auditService service.AuditService
	metrics      service.VersionMetrics
	config       UploadVersionConfig
}

// NewUploadVersionCommand は新しいUploadVersionCommandを作成します
func NewUploadVersionCommand(
	documentRepo repository.DocumentRepository,
	versionRepo repository.DocumentVersionRepository,
	txManager repository.TransactionManager,
	storage service.BlobStorage,
	checksum service.ChecksumService,
	policy service.VersionNumberingPolicy,
	coordinator *CurrentVersionCoordinator,
	auditService service.AuditService,
	metrics service.VersionMetrics,
	config UploadVersionConfig,
) *UploadVersionCommand {
	return &UploadVersionCommand{
		documentRepo: documentRepo,
		versionRepo:  versionRepo,
		txManager:    txManager,
		storage:      storage,
		checksum:     checksum,
		policy:       policy,
		coordinator:  coordinator,
		auditService: auditService,
		metrics:      metrics,
		config:       config,
	}
}

// Execute はアップロードを実行します
// ファイル実体の保存に成功した後でDBへの登録に失敗した場合、保存した実体は削除されます
func (c *UploadVersionCommand) Execute(ctx context.Context, input UploadVersionInput) (*UploadVersionOutput, error) {
	start := time.Now()

	version, err := c.execute(ctx, input)
	if err != nil {
		c.metrics.UploadFailed(failureReason(err))
		return nil, err
	}

	c.metrics.UploadCompleted(version.SizeBytes, time.Since(start))
	c.auditService.Log(ctx, newVersionAuditEntry(ctx, input.Caller, entity.AuditActionVersionUpload, version, input.Meta))

	return &UploadVersionOutput{Version: version}, nil
}

func (c *UploadVersionCommand) execute(ctx context.Context, input UploadVersionInput) (*entity.DocumentVersion, error) {
	// 1. 入力検証
	if err := requireAdmin(input.Caller); err != nil {
		return nil, err
	}
	if input.DocumentID == uuid.Nil {
		return nil, apperror.NewValidationError("documentId is required", []apperror.FieldError{
			{Field: "documentId", Message: "required"},
		})
	}
	if input.File == nil {
		return nil, apperror.NewValidationError("file is required", []apperror.FieldError{
			{Field: "file", Message: "required"},
		})
	}
	if c.config.MaxFileSize > 0 && input.Size > c.config.MaxFileSize {
		return nil, apperror.NewPayloadTooLargeError(c.config.MaxFileSize)
	}

	fileName, err := valueobject.NewFileName(input.FileName)
	if err != nil {
		return nil, apperror.NewValidationError(err.Error(), []apperror.FieldError{
			{Field: "file", Message: "invalid file name"},
		})
	}

	bump, err := valueobject.NewVersionBump(input.VersionType)
	if err != nil {
		return nil, apperror.NewValidationError(err.Error(), []apperror.FieldError{
			{Field: "versionType", Message: "must be major or minor"},
		})
	}
	// 番号決定前に上げ方の妥当性だけを確認
	if _, err := c.policy.Next(nil, bump); err != nil {
		return nil, err
	}

	// 2. ドキュメントの存在確認
	exists, err := c.documentRepo.Exists(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errDocumentNotExist()
	}

	// 3. ファイル実体の保存（チェックサムは書き込みと同時に計算）
	versionID := entity.NewDocumentVersionID()
	storageKey := valueobject.NewStorageKey(input.DocumentID, versionID, fileName.Extension())
	mimeType := valueobject.MimeTypeOrDefault(input.MimeType)

	digest := c.checksum.NewDigestReader(c.limit(input.File))
	if _, err := c.storage.Put(ctx, storageKey.Value(), digest, input.Size, mimeType.Value()); err != nil {
		c.cleanup(ctx, storageKey)
		return nil, c.classifyPutError(digest, err)
	}

	if digest.BytesRead() == 0 {
		c.cleanup(ctx, storageKey)
		return nil, apperror.NewValidationError("file is empty", []apperror.FieldError{
			{Field: "file", Message: "must not be empty"},
		})
	}
	if input.Size >= 0 && digest.BytesRead() != input.Size {
		c.cleanup(ctx, storageKey)
		return nil, apperror.NewIOError("file content was truncated", nil)
	}

	// 4. 採番・登録・カレント化（ドキュメント単位で直列化）
	var version *entity.DocumentVersion
	err = c.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := c.documentRepo.LockForUpdate(ctx, input.DocumentID); err != nil {
			// 存在確認の後に削除された場合
			if apperror.IsNotFound(err) {
				return errDocumentNotExist()
			}
			return err
		}

		existing, err := c.versionRepo.FindByDocumentID(ctx, input.DocumentID)
		if err != nil {
			return err
		}

		number, err := c.policy.Next(existing, bump)
		if err != nil {
			return err
		}

		v, err := entity.NewDocumentVersion(entity.NewDocumentVersionParams{
			ID:               versionID,
			DocumentID:       input.DocumentID,
			Number:           number,
			ChangeNotes:      input.ChangeNotes,
			FilePath:         storageKey,
			OriginalFilename: fileName,
			MimeType:         mimeType,
			SizeBytes:        digest.BytesRead(),
			Checksum:         digest.Checksum(),
			CreatedByID:      input.Caller.UserID,
		})
		if err != nil {
			return apperror.NewValidationError(err.Error(), nil)
		}

		if err := c.versionRepo.Create(ctx, v); err != nil {
			return err
		}

		if err := c.coordinator.Activate(ctx, v); err != nil {
			return err
		}
		version = v
		return nil
	})
	if err != nil {
		c.cleanup(ctx, storageKey)
		return nil, err
	}

	return version, nil
}

func errDocumentNotExist() error {
	return apperror.NewValidationError("document does not exist", []apperror.FieldError{
		{Field: "documentId", Message: "document does not exist"},
	})
}

func (c *UploadVersionCommand) limit(r io.Reader) io.Reader {
	if c.config.MaxFileSize <= 0 {
		return r
	}
	return &maxBytesReader{r: r, remaining: c.config.MaxFileSize}
}

func (c *UploadVersionCommand) classifyPutError(digest *service.DigestReader, err error) error {
	if errors.Is(digest.Err(), errFileTooLarge) {
		return apperror.NewPayloadTooLargeError(c.config.MaxFileSize)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if digest.Err() != nil {
		return apperror.NewIOError("failed to read uploaded file", digest.Err())
	}
	return apperror.NewIOError("failed to store file", err)
}

// cleanup は保存済みの実体をベストエフォートで削除します
func (c *UploadVersionCommand) cleanup(ctx context.Context, key valueobject.StorageKey) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), blobCleanupTimeout)
	defer cancel()

	if err := c.storage.Delete(ctx, key.Value()); err != nil {
		slog.Error("failed to delete orphaned version file",
			"storage_key", key.Value(),
			"error", err,
		)
	}
}

// maxBytesReader は上限を超えて読み込もうとした時点でerrFileTooLargeを返します
type maxBytesReader struct {
	r         io.Reader
	remaining int64
}

func (m *maxBytesReader) Read(p []byte) (int, error) {
	if m.remaining < 0 {
		return 0, errFileTooLarge
	}
	// 上限ちょうどのファイルを許容するため1バイト多く読む
	if int64(len(p)) > m.remaining+1 {
		p = p[:m.remaining+1]
	}
	n, err := m.r.Read(p)
	m.remaining -= int64(n)
	if m.remaining < 0 {
		return n, errFileTooLarge
	}
	return n, err
}
