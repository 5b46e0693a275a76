package http

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 1000
)

// pagination holds validated limit/offset query values.
type pagination struct {
	Limit  int
	Offset int
}

// parsePagination reads limit/offset from the query string. A missing
// or null-ish limit falls back to the default; a malformed or
// non-positive one is rejected. Limits above the maximum are capped.
// A malformed offset silently becomes zero.
func parsePagination(c *gin.Context) (pagination, error) {
	p := pagination{Limit: defaultPageLimit}

	raw := c.Query("limit")
	switch raw {
	case "", "null", "None":
	default:
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return p, fmt.Errorf("Invalid limit value: '%s'", raw)
		}
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
		p.Limit = limit
	}

	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset > 0 {
		p.Offset = offset
	}

	return p, nil
}

// pageLink rebuilds the request URL as an absolute URI with the given
// offset, for the next/previous fields of the pagination envelope.
func pageLink(c *gin.Context, limit, offset int) *string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	u.RawQuery = q.Encode()

	u.Host = c.Request.Host
	u.Scheme = "http"
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		u.Scheme = proto
	}

	link := u.String()
	return &link
}

// paginatedResponse is the list envelope.
type paginatedResponse struct {
	Total    int64   `json:"total"`
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// newPaginatedResponse assembles the envelope around one page of
// results. results must already be the requested page.
func newPaginatedResponse(c *gin.Context, p pagination, total int64, count int, results any) paginatedResponse {
	resp := paginatedResponse{
		Total:   total,
		Count:   count,
		Results: results,
	}
	if int64(p.Offset+p.Limit) < total {
		resp.Next = pageLink(c, p.Limit, p.Offset+p.Limit)
	}
	if p.Offset > 0 {
		prev := p.Offset - p.Limit
		if prev < 0 {
			prev = 0
		}
		resp.Previous = pageLink(c, p.Limit, prev)
	}
	return resp
}
