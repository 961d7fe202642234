package di

import (
	"github.com/123ang/iso-document/internal/domain/service"
	versioningcmd "github.com/123ang/iso-document/internal/usecase/versioning/command"
	versioningqry "github.com/123ang/iso-document/internal/usecase/versioning/query"
)

// VersioningUseCases はドキュメントバージョン関連のUseCaseを保持します
type VersioningUseCases struct {
	// Commands
	UploadVersion     *versioningcmd.UploadVersionCommand
	SetCurrentVersion *versioningcmd.SetCurrentVersionCommand

	// Queries
	GetVersion       *versioningqry.GetVersionQuery
	ListVersions     *versioningqry.ListVersionsQuery
	ListAllVersions  *versioningqry.ListAllVersionsQuery
	GetFileStream    *versioningqry.GetFileStreamQuery
	ScanMissingFiles *versioningqry.ScanMissingFilesQuery

	MaxFileSize int64
}

// NewVersioningUseCases は新しいVersioningUseCasesを作成します
func NewVersioningUseCases(c *Container, maxFileSize int64) *VersioningUseCases {
	coordinator := versioningcmd.NewCurrentVersionCoordinator(c.VersionRepo, c.DocumentRepo, c.TxManager)

	return &VersioningUseCases{
		UploadVersion: versioningcmd.NewUploadVersionCommand(
			c.DocumentRepo,
			c.VersionRepo,
			c.TxManager,
			c.BlobStorage,
			service.NewChecksumService(),
			c.Policy,
			coordinator,
			c.AuditService,
			c.Metrics,
			versioningcmd.UploadVersionConfig{MaxFileSize: maxFileSize},
		),
		SetCurrentVersion: versioningcmd.NewSetCurrentVersionCommand(coordinator, c.AuditService, c.Metrics),

		GetVersion:       versioningqry.NewGetVersionQuery(c.VersionRepo, c.DocumentRepo, c.AccessChecker),
		ListVersions:     versioningqry.NewListVersionsQuery(c.VersionRepo, c.DocumentRepo, c.AccessChecker),
		ListAllVersions:  versioningqry.NewListAllVersionsQuery(c.VersionRepo),
		GetFileStream:    versioningqry.NewGetFileStreamQuery(c.VersionRepo, c.DocumentRepo, c.AccessChecker, c.BlobStorage, c.AuditService, c.Metrics),
		ScanMissingFiles: versioningqry.NewScanMissingFilesQuery(c.VersionRepo, c.BlobStorage),

		MaxFileSize: maxFileSize,
	}
}
