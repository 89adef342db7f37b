package shared

import (
	"net/url"
	"strconv"
)

// ListFilters represents standard list filters for reference data.
type ListFilters struct {
	Search string
	Limit  int
	Offset int
}

// ParseListFilters reads the q, limit and offset query parameters.
func ParseListFilters(q url.Values) ListFilters {
	f := ListFilters{Search: q.Get("q")}
	if raw := q.Get("limit"); raw != "" {
		f.Limit, _ = strconv.Atoi(raw)
	}
	if raw := q.Get("offset"); raw != "" {
		f.Offset, _ = strconv.Atoi(raw)
	}
	return f
}

// Window normalizes Limit and Offset into a usable SQL window.
func (f ListFilters) Window() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	offset = f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
