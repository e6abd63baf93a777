package query

import (
	"cmp"
	"sort"
	"strings"
	"time"
)

const (
	DefaultRowCount  = 15
	DefaultSortField = "name"
)

// Record is a row the pipeline can search, sort and page.
type Record interface {
	IsDirectory() bool
	// SearchFields returns the text searched by a phrase.
	SearchFields() []string
	// SortValue returns the value of a named field; ok is false for unknown fields.
	SortValue(field string) (value any, ok bool)
}

// SortKey orders rows by one field
type SortKey struct {
	Field string
	Desc  bool
}

// Query holds the search, sort and paging parameters of a listing request
type Query struct {
	Search   string
	Sort     []SortKey
	Page     int
	RowCount int
}

// Page is one page of filtered, sorted rows. Total counts rows after search and
// before paging.
type Page[T any] struct {
	Current  int `json:"current"`
	RowCount int `json:"rowCount"`
	Total    int `json:"total"`
	Rows     []T `json:"rows"`
}

// Apply filters, sorts and pages rows without modifying the input slice.
// Directories always sort before files. A negative RowCount returns every row.
func Apply[T Record](rows []T, q Query) Page[T] {
	filtered := Search(rows, q.Search)
	Sort(filtered, q.Sort)

	page := q.Page
	if page < 1 {
		page = 1
	}
	rowCount := q.RowCount
	if rowCount == 0 {
		rowCount = DefaultRowCount
	}

	result := Page[T]{
		Current:  page,
		RowCount: rowCount,
		Total:    len(filtered),
		Rows:     []T{},
	}

	if rowCount < 0 {
		result.Rows = filtered
		return result
	}

	// Compare before multiplying so huge page numbers cannot overflow
	if page-1 > (len(filtered)-1)/rowCount || len(filtered) == 0 {
		return result
	}
	offset := (page - 1) * rowCount
	end := len(filtered)
	if rowCount < end-offset {
		end = offset + rowCount
	}
	result.Rows = filtered[offset:end]
	return result
}

// Search returns a copy of rows keeping those whose search fields contain phrase,
// case-insensitively. A blank phrase keeps everything.
func Search[T Record](rows []T, phrase string) []T {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if phrase == "" || matches(row, phrase) {
			out = append(out, row)
		}
	}
	return out
}

func matches(row Record, phrase string) bool {
	for _, field := range row.SearchFields() {
		if strings.Contains(strings.ToLower(field), phrase) {
			return true
		}
	}
	return false
}

// Sort orders rows in place: directories first, then keys in order. With no keys
// rows sort ascending by name. The sort is stable.
func Sort[T Record](rows []T, keys []SortKey) {
	if len(keys) == 0 {
		keys = []SortKey{{Field: DefaultSortField}}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.IsDirectory() != b.IsDirectory() {
			return a.IsDirectory()
		}
		for _, key := range keys {
			av, aok := a.SortValue(key.Field)
			bv, bok := b.SortValue(key.Field)
			if !aok || !bok {
				continue
			}
			c := compare(av, bv)
			if c == 0 {
				continue
			}
			if key.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compare(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return cmp.Compare(av, bv)
		}
	case int:
		if bv, ok := b.(int); ok {
			return cmp.Compare(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmp.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok && av != bv {
			if av {
				return 1
			}
			return -1
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}
	return 0
}
