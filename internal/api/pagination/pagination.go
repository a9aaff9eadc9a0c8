// Package pagination implements page-number pagination envelopes.
package pagination

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	pageParam  = "page"
	limitParam = "limit"

	maxLimit = 100
)

// Params is a parsed page request. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int64 {
	return int64((p.Page - 1) * p.Limit)
}

// Parse reads page and limit from the query string. Absent or invalid
// values fall back to page 1 and defaultLimit; limit is clamped.
func Parse(r *http.Request, defaultLimit int) Params {
	params := Params{Page: 1, Limit: defaultLimit}

	if raw := r.URL.Query().Get(pageParam); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			params.Page = page
		}
	}
	if raw := r.URL.Query().Get(limitParam); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			params.Limit = limit
		}
	}
	if params.Limit > maxLimit {
		params.Limit = maxLimit
	}
	return params
}

// Envelope is the list response shape shared by every paginated endpoint.
type Envelope[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Paginate wraps results in an envelope with absolute next/previous
// links built from the request URL. results must already be the page
// slice; count is the total across all pages.
func Paginate[T any](r *http.Request, hostOrigin string, params Params, count int64, results []T) Envelope[T] {
	if results == nil {
		results = []T{}
	}
	env := Envelope[T]{Count: count, Results: results}

	lastPage := int((count + int64(params.Limit) - 1) / int64(params.Limit))
	if params.Page < lastPage {
		next := pageURL(r, hostOrigin, params, params.Page+1)
		env.Next = &next
	}
	if params.Page > 1 {
		prev := pageURL(r, hostOrigin, params, params.Page-1)
		env.Previous = &prev
	}
	return env
}

func pageURL(r *http.Request, hostOrigin string, params Params, page int) string {
	u := url.URL{Path: r.URL.Path}
	if base, err := url.Parse(hostOrigin); err == nil && base.Host != "" {
		u.Scheme = base.Scheme
		u.Host = base.Host
	}
	q := r.URL.Query()
	q.Set(pageParam, fmt.Sprintf("%d", page))
	q.Set(limitParam, fmt.Sprintf("%d", params.Limit))
	u.RawQuery = q.Encode()
	return u.String()
}
