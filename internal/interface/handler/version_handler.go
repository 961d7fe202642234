package handler

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/valueobject"
	"github.com/123ang/iso-document/internal/interface/dto/request"
	"github.com/123ang/iso-document/internal/interface/dto/response"
	"github.com/123ang/iso-document/internal/interface/middleware"
	"github.com/123ang/iso-document/internal/interface/presenter"
	versioningcmd "github.com/123ang/iso-document/internal/usecase/versioning/command"
	versioningqry "github.com/123ang/iso-document/internal/usecase/versioning/query"
	"github.com/123ang/iso-document/pkg/apperror"
)

// multipartOverhead はファイル本体以外のフォーム項目・境界文字列の許容量です
const multipartOverhead = 1 << 20

// VersionHandler はドキュメントバージョン関連のHTTPハンドラーです
type VersionHandler struct {
	uploadVersionCommand     *versioningcmd.UploadVersionCommand
	setCurrentVersionCommand *versioningcmd.SetCurrentVersionCommand
	getVersionQuery          *versioningqry.GetVersionQuery
	listVersionsQuery        *versioningqry.ListVersionsQuery
	listAllVersionsQuery     *versioningqry.ListAllVersionsQuery
	getFileStreamQuery       *versioningqry.GetFileStreamQuery
	maxFileSize              int64
}

// NewVersionHandler は新しいVersionHandlerを作成します
func NewVersionHandler(
	uploadVersionCommand *versioningcmd.UploadVersionCommand,
	setCurrentVersionCommand *versioningcmd.SetCurrentVersionCommand,
	getVersionQuery *versioningqry.GetVersionQuery,
	listVersionsQuery *versioningqry.ListVersionsQuery,
	listAllVersionsQuery *versioningqry.ListAllVersionsQuery,
	getFileStreamQuery *versioningqry.GetFileStreamQuery,
	maxFileSize int64,
) *VersionHandler {
	return &VersionHandler{
		uploadVersionCommand:     uploadVersionCommand,
		setCurrentVersionCommand: setCurrentVersionCommand,
		getVersionQuery:          getVersionQuery,
		listVersionsQuery:        listVersionsQuery,
		listAllVersionsQuery:     listAllVersionsQuery,
		getFileStreamQuery:       getFileStreamQuery,
		maxFileSize:              maxFileSize,
	}
}

// Upload は新しいバージョンをアップロードし、カレントにします
// @Summary バージョンアップロード
// @Tags Versions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Router /versions/upload [post]
func (h *VersionHandler) Upload(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	if h.maxFileSize > 0 {
		c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, h.maxFileSize+multipartOverhead)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperror.NewPayloadTooLargeError(h.maxFileSize)
		case errors.Is(err, http.ErrMissingFile):
			return apperror.NewValidationError("file is required", []apperror.FieldError{
				{Field: "file", Message: "this field is required"},
			})
		default:
			return apperror.NewValidationError("invalid multipart form", nil)
		}
	}

	var req request.UploadVersionRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidationError("invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	documentID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		return apperror.NewValidationError("invalid document ID", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperror.NewIOError("failed to read uploaded file", err)
	}
	defer file.Close()

	var changeNotes *string
	if req.ChangeNotes != "" {
		changeNotes = &req.ChangeNotes
	}

	output, err := h.uploadVersionCommand.Execute(c.Request().Context(), versioningcmd.UploadVersionInput{
		DocumentID:  documentID,
		File:        file,
		FileName:    fileHeader.Filename,
		MimeType:    fileHeader.Header.Get(echo.HeaderContentType),
		Size:        fileHeader.Size,
		ChangeNotes: changeNotes,
		VersionType: req.VersionType,
		Caller:      caller,
		Meta:        requestMeta(c),
	})
	if err != nil {
		return err
	}

	return presenter.Created(c, response.ToVersionResponse(output.Version))
}

// ListAll は全ドキュメントのバージョンを新しい順に取得します
// @Summary 全バージョン一覧
// @Tags Versions
// @Produce json
// @Security BearerAuth
// @Param page query int false "ページ番号"
// @Param per_page query int false "1ページあたりの件数"
// @Router /versions [get]
func (h *VersionHandler) ListAll(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	var req request.ListVersionsRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidationError("invalid query parameters", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	page := presenter.NewPageRequest(req.Page, req.PerPage)

	output, err := h.listAllVersionsQuery.Execute(c.Request().Context(), versioningqry.ListAllVersionsInput{
		Caller: caller,
		Limit:  page.Limit(),
		Offset: page.Offset(),
	})
	if err != nil {
		return err
	}

	return presenter.List(c, response.ToVersionResponses(output.Versions), page, output.Total)
}

// ListByDocument はドキュメントのバージョン一覧を取得します
// @Summary ドキュメントのバージョン一覧
// @Tags Versions
// @Produce json
// @Security BearerAuth
// @Param documentId path string true "ドキュメントID"
// @Router /versions/document/{documentId} [get]
func (h *VersionHandler) ListByDocument(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	documentID, err := uuid.Parse(c.Param("documentId"))
	if err != nil {
		return apperror.NewValidationError("invalid document ID", nil)
	}

	output, err := h.listVersionsQuery.Execute(c.Request().Context(), versioningqry.ListVersionsInput{
		DocumentID: documentID,
		Caller:     caller,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToDocumentVersionsResponse(documentID.String(), output))
}

// Get はバージョンのメタデータを取得します
// @Summary バージョン取得
// @Tags Versions
// @Produce json
// @Security BearerAuth
// @Param id path string true "バージョンID"
// @Router /versions/{id} [get]
func (h *VersionHandler) Get(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	versionID, err := parseVersionID(c)
	if err != nil {
		return err
	}

	output, err := h.getVersionQuery.Execute(c.Request().Context(), versioningqry.GetVersionInput{
		VersionID: versionID,
		Caller:    caller,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToVersionResponse(output.Version))
}

// SetCurrent は既存バージョンをカレントに切り替えます
// @Summary カレントバージョン切り替え
// @Tags Versions
// @Produce json
// @Security BearerAuth
// @Param id path string true "バージョンID"
// @Router /versions/{id}/set-current [post]
func (h *VersionHandler) SetCurrent(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	versionID, err := parseVersionID(c)
	if err != nil {
		return err
	}

	output, err := h.setCurrentVersionCommand.Execute(c.Request().Context(), versioningcmd.SetCurrentVersionInput{
		VersionID: versionID,
		Caller:    caller,
		Meta:      requestMeta(c),
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToVersionResponse(output.Version))
}

// Download はファイルを添付ファイルとして配信します
// @Summary バージョンのダウンロード
// @Tags Versions
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "バージョンID"
// @Router /versions/{id}/download [get]
func (h *VersionHandler) Download(c echo.Context) error {
	return h.serveFile(c, valueobject.DispositionAttachment)
}

// View はファイルをブラウザ表示用に配信します
// @Summary バージョンのインライン表示
// @Tags Versions
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "バージョンID"
// @Router /versions/{id}/view [get]
func (h *VersionHandler) View(c echo.Context) error {
	return h.serveFile(c, valueobject.DispositionInline)
}

func (h *VersionHandler) serveFile(c echo.Context, disposition valueobject.Disposition) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	versionID, err := parseVersionID(c)
	if err != nil {
		return err
	}

	meta := requestMeta(c)
	output, err := h.getFileStreamQuery.Execute(c.Request().Context(), versioningqry.GetFileStreamInput{
		VersionID:   versionID,
		Caller:      caller,
		Disposition: disposition,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
	})
	if err != nil {
		return err
	}
	defer output.Stream.Close()

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, contentDisposition(output.Disposition, output.Filename))
	header.Set(echo.HeaderContentLength, strconv.FormatInt(output.Size, 10))
	header.Set(middleware.HeaderChecksum, output.Checksum)

	return c.Stream(http.StatusOK, output.MimeType, output.Stream)
}

// contentDisposition は非ASCIIのファイル名も扱えるContent-Dispositionを組み立てます
func contentDisposition(disposition valueobject.Disposition, filename string) string {
	value := mime.FormatMediaType(string(disposition), map[string]string{"filename": filename})
	if value == "" {
		return string(disposition)
	}
	return value
}

func requireCaller(c echo.Context) (entity.Caller, error) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		return entity.Caller{}, apperror.NewUnauthorizedError("authentication required")
	}
	return caller, nil
}

func parseVersionID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.NewValidationError("invalid version ID", nil)
	}
	return id, nil
}

func requestMeta(c echo.Context) versioningcmd.RequestMeta {
	return versioningcmd.RequestMeta{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
