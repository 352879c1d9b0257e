package api

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Paging holds the page size settings of list endpoints.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

type pageParams struct {
	number int
	limit  int
}

func (p pageParams) request() service.PageRequest {
	return service.PageRequest{Limit: p.limit, Offset: (p.number - 1) * p.limit}
}

// parsePage reads ?page= and ?limit=. An unusable page number is a 404,
// an unusable limit falls back to the default.
func (pg Paging) parsePage(c *gin.Context) (pageParams, bool) {
	p := pageParams{number: 1, limit: pg.DefaultLimit}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusNotFound, gin.H{"error": "invalid page"})
			return p, false
		}
		p.number = n
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.limit = n
		}
	}
	if p.limit > pg.MaxLimit {
		p.limit = pg.MaxLimit
	}
	// The offset must fit in an int.
	if p.limit > 0 && p.number-1 > math.MaxInt/p.limit {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid page"})
		return p, false
	}
	return p, true
}

// writePage answers with the page envelope, or 404 for a page past the end.
func writePage(c *gin.Context, p pageParams, count int64, results interface{}) {
	offset := int64((p.number - 1) * p.limit)
	if p.number > 1 && offset >= count {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid page"})
		return
	}

	page := types.Page{Count: count, Results: results}
	if offset+int64(p.limit) < count {
		page.Next = pageLink(c, p.number+1)
	}
	if p.number > 1 {
		page.Previous = pageLink(c, p.number-1)
	}
	c.JSON(http.StatusOK, page)
}

// pageLink rebuilds the request URL pointing at another page. The first
// page is addressed without a page parameter.
func pageLink(c *gin.Context, number int) *string {
	u := url.URL{
		Scheme: "http",
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}

	q := c.Request.URL.Query()
	if number <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(number))
	}
	u.RawQuery = q.Encode()

	link := u.String()
	return &link
}
