package handler

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Paginated 分页响应体
type Paginated struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

type pager struct {
	page int
	size int
}

// pageParams 解析 ?page=N，非法值按第一页处理
func (h *Handler) pageParams(c *gin.Context) pager {
	size := 10
	if h.Config != nil && h.Config.PageSize > 0 {
		size = h.Config.PageSize
	}
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return pager{page: page, size: size}
}

func (p pager) limit() int  { return p.size }
func (p pager) offset() int { return (p.page - 1) * p.size }

// paginate 组装分页响应，next/previous 保留原有查询参数
func paginate(c *gin.Context, p pager, count int64, results interface{}) Paginated {
	out := Paginated{Count: count, Results: results}
	if int64(p.page*p.size) < count {
		out.Next = pageURL(c, p.page+1)
	}
	if p.page > 1 {
		out.Previous = pageURL(c, p.page-1)
	}
	return out
}

func pageURL(c *gin.Context, page int) *string {
	u := url.URL{Scheme: "http", Host: c.Request.Host, Path: c.Request.URL.Path}
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	q := c.Request.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}
