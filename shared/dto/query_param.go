package dto

import (
	"net/http"
	"net/url"
	"stayfinder/shared/constant"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams carries paging and ordering taken from the query string.
// SortBy holds the public key on the way in and a column once OrderBy has run.
type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit, sort_by and sort_dir. Invalid values are ignored.
// With withDefaults, a missing page or limit falls back to the configured defaults;
// without it, zero page and limit mean "no paging".
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	if page, ok := positiveInt(values, constant.RequestParamPage); ok {
		q.Page = page
	}

	if limit, ok := positiveInt(values, constant.RequestParamLimit); ok {
		q.Limit = limit
	}

	if sortBy := values.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	switch dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// Paged reports whether the caller asked for a single page rather than the full set.
func (q QueryParams) Paged() bool {
	return q.Page > 0 && q.Limit > 0
}

// OrderBy resolves SortBy against the allowed public keys. An unknown key sorts by
// fallback descending; a known key without a direction sorts ascending.
func (q QueryParams) OrderBy(columns map[string]string, fallback string) QueryParams {
	column, ok := columns[q.SortBy]
	if !ok {
		q.SortBy = columns[fallback]
		q.SortDir = SortDirDesc

		return q
	}

	q.SortBy = column
	if q.SortDir == "" {
		q.SortDir = SortDirAsc
	}

	return q
}

func positiveInt(values url.Values, key string) (int, bool) {
	raw := values.Get(key)
	if raw == "" {
		return 0, false
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}
