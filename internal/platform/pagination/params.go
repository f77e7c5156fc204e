// Package pagination parses offset paging inputs from the query string and
// writes the list-total response header consumed by admin tables.
package pagination

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultLimit defines the fallback number of items returned when the client omits limit.
	DefaultLimit = 10
	// DefaultMaxLimit caps the supported limit to prevent unbounded queries.
	DefaultMaxLimit = 100

	// TotalCountHeader carries the total number of records matching the filter.
	TotalCountHeader = "X-Total-Count"
)

// Params bundles the offset paging values extracted from a request.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the number of records to skip for this page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Options control how Parse behaves for a given handler layer.
type Options struct {
	DefaultLimit int
	MaxLimit     int
}

// FromRequest extracts paging parameters from the request query string.
func FromRequest(r *http.Request, opts Options) (Params, error) {
	if r == nil {
		return Params{}, fmt.Errorf("pagination: request is required")
	}
	return Parse(r.URL.Query(), opts)
}

// Parse extracts paging parameters from raw query values. Missing values
// fall back to page 1 and the configured default limit.
func Parse(values url.Values, opts Options) (Params, error) {
	defaultLimit := opts.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	maxLimit := opts.MaxLimit
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}

	params := Params{Page: 1, Limit: defaultLimit}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return Params{}, fmt.Errorf("pagination: page must be a positive integer")
		}
		params.Page = page
	}

	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return Params{}, fmt.Errorf("pagination: limit must be a positive integer")
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		params.Limit = limit
	}

	return params, nil
}

// WriteTotalCount sets the list-total header. Call before writing the body.
func WriteTotalCount(w http.ResponseWriter, total int64) {
	if w == nil {
		return
	}
	w.Header().Set(TotalCountHeader, strconv.FormatInt(total, 10))
}
