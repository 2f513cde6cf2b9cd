// Package listing filters, sorts and paginates slices that were already
// fetched from the API, the way every admin table does.
package listing

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const DefaultPageSize = 10

type Query struct {
	Search   string
	SortBy   string
	Desc     bool
	Page     int
	PageSize int
}

type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

func (p Page[T]) HasPrev() bool { return p.Page > 1 }
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }
func (p Page[T]) PrevPage() int { return p.Page - 1 }
func (p Page[T]) NextPage() int { return p.Page + 1 }

// Less reports whether a sorts before b in ascending order.
type Less[T any] func(a, b T) bool

// Apply keeps the items matching the search term, sorts them by the
// named sorter and cuts out the requested page. match receives the
// lower-cased, trimmed search term and is skipped when the term is empty.
// An unknown sort key keeps the original order. The input slice is not modified.
func Apply[T any](items []T, q Query, match func(item T, term string) bool, sorters map[string]Less[T]) Page[T] {
	filtered := Filter(items, q.Search, match)

	if less, ok := sorters[q.SortBy]; ok && less != nil {
		sort.SliceStable(filtered, func(i, j int) bool {
			if q.Desc {
				return less(filtered[j], filtered[i])
			}
			return less(filtered[i], filtered[j])
		})
	}

	return Paginate(filtered, q.Page, q.PageSize)
}

// Filter returns a new slice with the items matching term.
func Filter[T any](items []T, search string, match func(item T, term string) bool) []T {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if term == "" || match == nil || match(item, term) {
			out = append(out, item)
		}
	}
	return out
}

// Paginate clamps page into [1, TotalPages]; TotalPages is at least 1.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Contains reports whether any field contains term, case-insensitively.
// term is expected to be lower-cased already.
func Contains(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// ParseQuery reads q, sort, order, page and size. Invalid numbers fall back to defaults.
func ParseQuery(values url.Values, defaultPageSize int) Query {
	q := Query{
		Search:   strings.TrimSpace(values.Get("q")),
		SortBy:   values.Get("sort"),
		Desc:     strings.EqualFold(values.Get("order"), "desc"),
		Page:     1,
		PageSize: defaultPageSize,
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if size, err := strconv.Atoi(values.Get("size")); err == nil && size > 0 {
		if size > 100 {
			size = 100
		}
		q.PageSize = size
	}
	return q
}

// Values is the inverse of ParseQuery, used to build pagination links.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.SortBy != "" {
		v.Set("sort", q.SortBy)
	}
	if q.Desc {
		v.Set("order", "desc")
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("size", strconv.Itoa(q.PageSize))
	}
	return v
}

// WithPage returns a copy of q pointing at page.
func (q Query) WithPage(page int) Query {
	q.Page = page
	return q
}
