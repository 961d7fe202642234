package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/service"
	"github.com/123ang/iso-document/internal/domain/valueobject"
	"github.com/123ang/iso-document/internal/infrastructure/audit"
	"github.com/123ang/iso-document/internal/interface/handler"
	"github.com/123ang/iso-document/internal/interface/middleware"
	"github.com/123ang/iso-document/internal/interface/validator"
	versioningcmd "github.com/123ang/iso-document/internal/usecase/versioning/command"
	versioningqry "github.com/123ang/iso-document/internal/usecase/versioning/query"
	"github.com/123ang/iso-document/tests/testutil/memstore"
)

const helloWorldSHA256 = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

type testEnv struct {
	echo     *echo.Echo
	store    *memstore.Store
	blobs    *memstore.BlobStorage
	document *entity.Document
	groupID  uuid.UUID
	admin    entity.Caller
	member   entity.Caller
	outsider entity.Caller
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	} `json:"error"`
}

type versionJSON struct {
	ID               string `json:"id"`
	DocumentID       string `json:"documentId"`
	VersionLabel     string `json:"versionLabel"`
	VersionMajor     int    `json:"versionMajor"`
	OriginalFilename string `json:"originalFilename"`
	MimeType         string `json:"mimeType"`
	SizeBytes        int64  `json:"sizeBytes"`
	Checksum         string `json:"checksumSha256"`
	IsCurrent        bool   `json:"isCurrent"`
}

const callerHeader = "X-Test-Caller"

func newTestEnv(t *testing.T, maxFileSize int64) *testEnv {
	t.Helper()

	store := memstore.New()
	blobs := memstore.NewBlobStorage()
	metrics := service.NoopVersionMetrics{}
	auditService := audit.NoopService{}
	coordinator := versioningcmd.NewCurrentVersionCoordinator(store.Versions(), store.Documents(), store)

	h := handler.NewVersionHandler(
		versioningcmd.NewUploadVersionCommand(
			store.Documents(), store.Versions(), store, blobs, service.NewChecksumService(),
			service.NewMajorOnlyPolicy(), coordinator, auditService, metrics,
			versioningcmd.UploadVersionConfig{MaxFileSize: maxFileSize},
		),
		versioningcmd.NewSetCurrentVersionCommand(coordinator, auditService, metrics),
		versioningqry.NewGetVersionQuery(store.Versions(), store.Documents(), store.AccessChecker()),
		versioningqry.NewListVersionsQuery(store.Versions(), store.Documents(), store.AccessChecker()),
		versioningqry.NewListAllVersionsQuery(store.Versions()),
		versioningqry.NewGetFileStreamQuery(store.Versions(), store.Documents(), store.AccessChecker(), blobs, auditService, metrics),
		maxFileSize,
	)

	groupID := uuid.New()
	doc := &entity.Document{
		ID:            uuid.New(),
		DocumentSetID: uuid.New(),
		Title:         "Quality Manual",
		DocCode:       "QM-001",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	store.AddDocument(doc)
	store.GrantGroup(doc.DocumentSetID, groupID)

	env := &testEnv{
		store:    store,
		blobs:    blobs,
		document: doc,
		groupID:  groupID,
		admin:    entity.Caller{UserID: uuid.New(), Role: valueobject.UserRoleAdmin},
		member:   entity.Caller{UserID: uuid.New(), Role: valueobject.UserRoleUser, GroupIDs: []uuid.UUID{groupID}},
		outsider: entity.Caller{UserID: uuid.New(), Role: valueobject.UserRoleUser},
	}

	callers := map[string]entity.Caller{
		"admin":    env.admin,
		"member":   env.member,
		"outsider": env.outsider,
	}

	e := echo.New()
	e.Validator = validator.NewCustomValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	versions := e.Group("/api/v1/versions", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if caller, ok := callers[c.Request().Header.Get(callerHeader)]; ok {
				middleware.SetCaller(c, caller)
			}
			return next(c)
		}
	})
	versions.POST("/upload", h.Upload)
	versions.GET("", h.ListAll)
	versions.GET("/document/:documentId", h.ListByDocument)
	versions.POST("/:id/set-current", h.SetCurrent)
	versions.GET("/:id", h.Get)
	versions.GET("/:id/download", h.Download)
	versions.GET("/:id/view", h.View)

	env.echo = e
	return env
}

func (env *testEnv) do(req *http.Request, caller string) *httptest.ResponseRecorder {
	if caller != "" {
		req.Header.Set(callerHeader, caller)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, fields map[string]string, fileName, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
		header.Set("Content-Type", "application/pdf")
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/versions/upload", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func (env *testEnv) upload(t *testing.T, fileName, content string) versionJSON {
	t.Helper()
	rec := env.do(uploadRequest(t, map[string]string{
		"documentId":  env.document.ID.String(),
		"changeNotes": "initial release",
	}, fileName, content), "admin")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var v versionJSON
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &v))
	return v
}

func TestVersionHandler_Upload_Success(t *testing.T) {
	env := newTestEnv(t, 1<<20)

	v := env.upload(t, "manual.pdf", "hello world")

	assert.Equal(t, env.document.ID.String(), v.DocumentID)
	assert.Equal(t, "1.0", v.VersionLabel)
	assert.Equal(t, "manual.pdf", v.OriginalFilename)
	assert.Equal(t, "application/pdf", v.MimeType)
	assert.Equal(t, int64(11), v.SizeBytes)
	assert.Equal(t, helloWorldSHA256, v.Checksum)
	assert.True(t, v.IsCurrent)
	assert.Equal(t, 1, env.blobs.Len())
}

func TestVersionHandler_Upload_MissingFile(t *testing.T) {
	env := newTestEnv(t, 1<<20)

	rec := env.do(uploadRequest(t, map[string]string{"documentId": env.document.ID.String()}, "", ""), "admin")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec).Error.Code)
}

func TestVersionHandler_Upload_InvalidForm(t *testing.T) {
	env := newTestEnv(t, 1<<20)

	rec := env.do(uploadRequest(t, map[string]string{
		"documentId":  "not-a-uuid",
		"versionType": "patch",
	}, "manual.pdf", "hello world"), "admin")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	fields := make([]string, 0, len(body.Error.Details))
	for _, d := range body.Error.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"documentId", "versionType"}, fields)
	assert.Equal(t, 0, env.blobs.Len())
}

func TestVersionHandler_Upload_TooLarge(t *testing.T) {
	env := newTestEnv(t, 8)

	rec := env.do(uploadRequest(t, map[string]string{"documentId": env.document.ID.String()}, "manual.pdf", "hello world"), "admin")

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", decode(t, rec).Error.Code)
	assert.Equal(t, 0, env.blobs.Len())
	assert.Equal(t, 0, env.store.CurrentCount(env.document.ID))
}

func TestVersionHandler_Upload_Unauthenticated(t *testing.T) {
	env := newTestEnv(t, 1<<20)

	rec := env.do(uploadRequest(t, map[string]string{"documentId": env.document.ID.String()}, "manual.pdf", "hello world"), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVersionHandler_Download(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	v := env.upload(t, "manual.pdf", "hello world")

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/versions/"+v.ID+"/download", nil), "member")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello world", rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "attachment; filename=manual.pdf", rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "11", rec.Header().Get(echo.HeaderContentLength))
	assert.Equal(t, helloWorldSHA256, rec.Header().Get(middleware.HeaderChecksum))
}

func TestVersionHandler_View_EncodesNonASCIIFilename(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	v := env.upload(t, "手順書.pdf", "hello world")

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/versions/"+v.ID+"/view", nil), "member")

	require.Equal(t, http.StatusOK, rec.Code)
	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	assert.True(t, strings.HasPrefix(disposition, "inline; filename*=utf-8''"), disposition)
}

func TestVersionHandler_Download_Forbidden(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	v := env.upload(t, "manual.pdf", "hello world")

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/versions/"+v.ID+"/download", nil), "outsider")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderContentDisposition))
}

func TestVersionHandler_Download_UnknownVersionIsForbiddenForUsers(t *testing.T) {
	env := newTestEnv(t, 1<<20)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/versions/"+uuid.NewString()+"/download", nil), "member")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVersionHandler_Download_FileMissing(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	v := env.upload(t, "manual.pdf", "hello world")

	versionID := uuid.MustParse(v.ID)
	stored, err := env.store.Versions().FindByID(context.Background(), versionID)
	require.NoError(t, err)
	require.NoError(t, env.blobs.Delete(context.Background(), stored.FilePath.Value()))

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/versions/"+v.ID+"/download", nil), "admin")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "FILE_MISSING", decode(t, rec).Error.Code)
}

func TestVersionHandler_SetCurrent(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	first := env.upload(t, "manual.pdf", "first")
	second := env.upload(t, "manual.pdf", "second")
	require.Equal(t, "2.0", second.VersionLabel)

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/v1/versions/"+first.ID+"/set-current", nil), "admin")

	require.Equal(t, http.StatusOK, rec.Code)
	var v versionJSON
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &v))
	assert.Equal(t, first.ID, v.ID)
	assert.True(t, v.IsCurrent)
	assert.Equal(t, 1, env.store.CurrentCount(env.document.ID))
	assert.Equal(t, first.ID, env.store.Document(env.document.ID).CurrentVersionID.String())
}

func TestVersionHandler_ListByDocument(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	env.upload(t, "manual.pdf", "first")
	second := env.upload(t, "manual.pdf", "second")

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/versions/document/"+env.document.ID.String(), nil), "admin")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		CurrentVersionID *string       `json:"currentVersionId"`
		Versions         []versionJSON `json:"versions"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &resp))
	require.Len(t, resp.Versions, 2)
	assert.Equal(t, "2.0", resp.Versions[0].VersionLabel)
	assert.Equal(t, "1.0", resp.Versions[1].VersionLabel)
	require.NotNil(t, resp.CurrentVersionID)
	assert.Equal(t, second.ID, *resp.CurrentVersionID)
}

func TestVersionHandler_ListAll_Pagination(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	for i := 0; i < 3; i++ {
		env.upload(t, "manual.pdf", fmt.Sprintf("content-%d", i))
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/versions?page=2&per_page=2", nil), "admin")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	var versions []versionJSON
	require.NoError(t, json.Unmarshal(body.Data, &versions))
	assert.Len(t, versions, 1)

	var meta struct {
		Pagination struct {
			Page       int  `json:"page"`
			TotalItems int  `json:"total_items"`
			HasPrev    bool `json:"has_prev"`
			HasNext    bool `json:"has_next"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(body.Meta, &meta))
	assert.Equal(t, 2, meta.Pagination.Page)
	assert.Equal(t, 3, meta.Pagination.TotalItems)
	assert.True(t, meta.Pagination.HasPrev)
	assert.False(t, meta.Pagination.HasNext)
}

func TestVersionHandler_Get_InvalidID(t *testing.T) {
	env := newTestEnv(t, 1<<20)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/versions/not-a-uuid", nil), "member")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVersionHandler_Get_Member(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	v := env.upload(t, "manual.pdf", "hello world")

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/versions/"+v.ID, nil), "member")

	require.Equal(t, http.StatusOK, rec.Code)
	var got versionJSON
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
	assert.Equal(t, v.ID, got.ID)
}
