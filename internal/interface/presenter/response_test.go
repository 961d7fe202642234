package presenter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageRequest(t *testing.T) {
	tests := []struct {
		name             string
		page, perPage    int
		wantPage, wantPP int
		wantOffset       int
	}{
		{"defaults", 0, 0, DefaultPage, DefaultPerPage, 0},
		{"second page", 2, 10, 2, 10, 10},
		{"capped per page", 1, 500, 1, MaxPerPage, 0},
		{"negative", -3, -1, DefaultPage, DefaultPerPage, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPageRequest(tt.page, tt.perPage)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPP, p.Limit())
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}

func TestPageRequest_Paginate(t *testing.T) {
	p := NewPageRequest(2, 2).Paginate(5)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)

	empty := NewPageRequest(1, 20).Paginate(0)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func TestList_IncludesRequestID(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Response().Header().Set(headerRequestID, "req-42")

	require.NoError(t, List(c, []string{"a"}, NewPageRequest(1, 10), 1))

	var body struct {
		Meta Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "req-42", body.Meta.RequestID)
	require.NotNil(t, body.Meta.Pagination)
	assert.Equal(t, 1, body.Meta.Pagination.TotalItems)
}

func TestOK_WithoutRequestIDHasNullMeta(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, OK(c, map[string]string{"k": "v"}))

	assert.JSONEq(t, `{"data":{"k":"v"},"meta":null}`, rec.Body.String())
}
