package presenter

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// headerRequestID はRequestIDミドルウェアが設定するレスポンスヘッダーです
const headerRequestID = "X-Request-ID"

// Response は成功時のレスポンスエンベロープです
type Response struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta"`
}

// Meta はレスポンスに付随する情報です
type Meta struct {
	RequestID  string      `json:"request_id,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination は一覧レスポンスのページ情報です
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// PageRequest は正規化済みのページ指定です
type PageRequest struct {
	Page    int
	PerPage int
}

// NewPageRequest はクエリの値を正規化します
// 0以下はデフォルト値、PerPageはMaxPerPageで頭打ちになります
func NewPageRequest(page, perPage int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return PageRequest{Page: page, PerPage: perPage}
}

// Limit はリポジトリに渡す件数です
func (p PageRequest) Limit() int {
	return p.PerPage
}

// Offset はリポジトリに渡す読み飛ばし件数です
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Paginate は総件数からページ情報を組み立てます
func (p PageRequest) Paginate(totalItems int) *Pagination {
	totalPages := (totalItems + p.PerPage - 1) / p.PerPage
	if totalPages == 0 {
		totalPages = 1
	}

	return &Pagination{
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

// OK は200レスポンスを返します
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Data: data, Meta: meta(c)})
}

// Created は201レスポンスを返します
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Data: data, Meta: meta(c)})
}

// List はページ情報付きの一覧レスポンスを返します
func List(c echo.Context, data interface{}, page PageRequest, totalItems int) error {
	m := meta(c)
	if m == nil {
		m = &Meta{}
	}
	m.Pagination = page.Paginate(totalItems)
	return c.JSON(http.StatusOK, Response{Data: data, Meta: m})
}

func meta(c echo.Context) *Meta {
	id := c.Response().Header().Get(headerRequestID)
	if id == "" {
		return nil
	}
	return &Meta{RequestID: id}
}
