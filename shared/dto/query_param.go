package dto

import (
	"net/http"
	"roombook/shared/constant"
	"slices"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit, sort_by and sort_dir from the query string.
// Malformed or non-positive numbers are ignored and limit is capped at MaxValueLimit.
// With defaultRequest set, a missing page or limit falls back to the defaults.
func (q *QueryParams) FromRequest(r *http.Request, defaultRequest bool) {
	values := r.URL.Query()

	if page, ok := positiveInt(values.Get(constant.RequestParamPage)); ok {
		q.Page = page
	}

	if limit, ok := positiveInt(values.Get(constant.RequestParamLimit)); ok {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	if sortBy := values.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	switch dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if !defaultRequest {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// Offset is the number of rows before the first row of Page. Pages start at 1.
func (q QueryParams) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}

func positiveInt(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)

	return n, err == nil && n > 0
}

// RestrictSort clears SortBy unless it names one of the given columns, and
// falls back to the given default ordering. SortBy ends up in ORDER BY verbatim.
func (q *QueryParams) RestrictSort(defaultBy, defaultDir string, columns ...string) {
	if !slices.Contains(columns, q.SortBy) {
		q.SortBy = defaultBy
	}

	if q.SortDir == "" {
		q.SortDir = defaultDir
	}
}
