package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPRequest はテストサーバーに送るリクエストです
// Multipart と Body の両方を指定した場合は Multipart が優先されます
type HTTPRequest struct {
	Method      string
	Path        string
	Body        interface{}
	Multipart   *MultipartBody
	Headers     map[string]string
	AccessToken string
}

// MultipartBody はアップロード用の multipart/form-data 本文です
type MultipartBody struct {
	Fields map[string]string
	Files  []MultipartFile
}

// MultipartFile は multipart 本文のファイルパートです
type MultipartFile struct {
	Field       string
	FileName    string
	ContentType string
	Content     []byte
}

func (m *MultipartBody) encode(t *testing.T) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range m.Fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range m.Files {
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header := textproto.MIMEHeader{}
		header.Set(echo.HeaderContentDisposition, mime.FormatMediaType("form-data", map[string]string{
			"name":     f.Field,
			"filename": f.FileName,
		}))
		header.Set(echo.HeaderContentType, contentType)

		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.Content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

// HTTPResponse はレスポンスとアサーションをまとめたものです
type HTTPResponse struct {
	*httptest.ResponseRecorder
	t      *testing.T
	parsed map[string]interface{}
}

// DoRequest はテストサーバーにリクエストを送ります
func DoRequest(t *testing.T, e *echo.Echo, req HTTPRequest) *HTTPResponse {
	t.Helper()

	var body io.Reader
	contentType := echo.MIMEApplicationJSON
	switch {
	case req.Multipart != nil:
		body, contentType = req.Multipart.encode(t)
	case req.Body != nil:
		raw, err := json.Marshal(req.Body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, body)
	httpReq.Header.Set(echo.HeaderContentType, contentType)
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if req.AccessToken != "" {
		httpReq.Header.Set(echo.HeaderAuthorization, "Bearer "+req.AccessToken)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httpReq)

	return &HTTPResponse{ResponseRecorder: rec, t: t}
}

func (r *HTTPResponse) AssertStatus(expected int) *HTTPResponse {
	r.t.Helper()
	assert.Equal(r.t, expected, r.Code, "unexpected status code, body: %s", r.Body.String())
	return r
}

func (r *HTTPResponse) AssertHeader(name, expected string) *HTTPResponse {
	r.t.Helper()
	assert.Equal(r.t, expected, r.Header().Get(name), "header %s mismatch", name)
	return r
}

// AssertJSONPath はドット区切りのパスの値を比較します
// 配列は添字で指定できます (例: data.versions.0.versionLabel)
func (r *HTTPResponse) AssertJSONPath(path string, expected interface{}) *HTTPResponse {
	r.t.Helper()
	assert.Equal(r.t, expected, lookupJSONPath(r.GetJSON(), path), "JSON path %s mismatch", path)
	return r
}

// AssertJSONError はエラーエンベロープのコードを比較します。message が空なら比較しません
func (r *HTTPResponse) AssertJSONError(code string, message string) *HTTPResponse {
	r.t.Helper()
	errorObj, ok := r.GetJSON()["error"].(map[string]interface{})
	require.True(r.t, ok, "response does not contain error object: %s", r.Body.String())

	assert.Equal(r.t, code, errorObj["code"], "error code mismatch")
	if message != "" {
		assert.Equal(r.t, message, errorObj["message"], "error message mismatch")
	}
	return r
}

// GetJSON はレスポンス本文をJSONとして返します
func (r *HTTPResponse) GetJSON() map[string]interface{} {
	r.t.Helper()
	if r.parsed == nil {
		require.NoError(r.t, json.Unmarshal(r.Body.Bytes(), &r.parsed))
	}
	return r.parsed
}

// GetJSONData は成功エンベロープの data を返します
func (r *HTTPResponse) GetJSONData() map[string]interface{} {
	data, _ := r.GetJSON()["data"].(map[string]interface{})
	return data
}

func lookupJSONPath(root interface{}, path string) interface{} {
	current := root
	for _, key := range strings.Split(path, ".") {
		if key == "" {
			continue
		}
		switch v := current.(type) {
		case map[string]interface{}:
			current = v[key]
		case []interface{}:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(v) {
				return nil
			}
			current = v[i]
		default:
			return nil
		}
	}
	return current
}
