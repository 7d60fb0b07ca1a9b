package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// PagedResult is the listing envelope: total count before pagination plus
// absolute next/previous page URLs (null at either end).
type PagedResult struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// parsePagination reads the limit/offset query params, applying the default
// page size and the hard cap. Non-numeric or negative values are a 400.
func parsePagination(c echo.Context) (offset, limit int, err error) {
	limit = defaultPageLimit
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid limit parameter")
		}
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid offset parameter")
		}
	}
	return offset, limit, nil
}

// newPagedResult assembles the envelope for one page of results.
func newPagedResult(c echo.Context, count int64, offset, limit int, results interface{}) PagedResult {
	page := PagedResult{Count: count, Results: results}
	if int64(offset+limit) < count {
		page.Next = pageURL(c, offset+limit, limit)
	}
	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		page.Previous = pageURL(c, prev, limit)
	}
	return page
}

func pageURL(c echo.Context, offset, limit int) *string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	u := c.Scheme() + "://" + c.Request().Host + c.Request().URL.Path + "?" + q.Encode()
	return &u
}
