package query

import (
	"fmt"
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	name  string
	size  int64
	dir   bool
	label string
}

func (r row) IsDirectory() bool      { return r.dir }
func (r row) SearchFields() []string { return []string{r.label, r.name} }

func (r row) SortValue(field string) (any, bool) {
	switch field {
	case "name":
		return r.name, true
	case "size":
		return r.size, true
	}
	return nil, false
}

func names(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.name
	}
	return out
}

func mixedRows() []row {
	return []row{
		{name: "b.mp3", size: 10},
		{name: "zeta", dir: true, size: 4096},
		{name: "a.mp3", size: 30},
		{name: "alpha", dir: true, size: 4096},
		{name: "c.mp3", size: 20},
	}
}

func TestDirectoriesFirstByDefault(t *testing.T) {
	page := Apply(mixedRows(), Query{})
	assert.Equal(t, []string{"alpha", "zeta", "a.mp3", "b.mp3", "c.mp3"}, names(page.Rows))
	assert.Equal(t, 1, page.Current)
	assert.Equal(t, DefaultRowCount, page.RowCount)
	assert.Equal(t, 5, page.Total)
}

func TestExplicitSortKeepsDirectoriesFirst(t *testing.T) {
	page := Apply(mixedRows(), Query{Sort: []SortKey{{Field: "size", Desc: true}}})
	// Equal directory sizes keep input order
	assert.Equal(t, []string{"zeta", "alpha", "a.mp3", "c.mp3", "b.mp3"}, names(page.Rows))
}

func TestUnknownSortFieldIsStable(t *testing.T) {
	rows := []row{{name: "b"}, {name: "a"}}
	page := Apply(rows, Query{Sort: []SortKey{{Field: "bogus"}}})
	assert.Equal(t, []string{"b", "a"}, names(page.Rows))
}

func TestPagination(t *testing.T) {
	var rows []row
	for i := 1; i <= 25; i++ {
		rows = append(rows, row{name: fmt.Sprintf("file%02d", i)})
	}

	page := Apply(rows, Query{Page: 2, RowCount: 10})
	require.Len(t, page.Rows, 10)
	assert.Equal(t, "file11", page.Rows[0].name)
	assert.Equal(t, "file20", page.Rows[9].name)
	assert.Equal(t, 25, page.Total)

	page = Apply(rows, Query{Page: 3, RowCount: 10})
	assert.Len(t, page.Rows, 5)

	page = Apply(rows, Query{Page: 9, RowCount: 10})
	assert.NotNil(t, page.Rows)
	assert.Empty(t, page.Rows)

	page = Apply(rows, Query{RowCount: -1})
	assert.Len(t, page.Rows, 25)
}

func TestPaginationHugeValues(t *testing.T) {
	var rows []row
	for i := 1; i <= 25; i++ {
		rows = append(rows, row{name: fmt.Sprintf("file%02d", i)})
	}

	tests := []struct {
		name     string
		query    Query
		wantRows int
	}{
		{"huge row count past first page", Query{Page: 3, RowCount: 1 << 62}, 0},
		{"huge row count first page", Query{Page: 1, RowCount: math.MaxInt}, 25},
		{"max page", Query{Page: math.MaxInt, RowCount: 10}, 0},
		{"max page and row count", Query{Page: math.MaxInt, RowCount: math.MaxInt}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var page Page[row]
			require.NotPanics(t, func() { page = Apply(rows, tt.query) })
			assert.Len(t, page.Rows, tt.wantRows)
			assert.Equal(t, 25, page.Total)
		})
	}

	page := Apply([]row{}, Query{Page: 1})
	assert.NotNil(t, page.Rows)
	assert.Empty(t, page.Rows)
}

func TestSearchCountsBeforePaging(t *testing.T) {
	rows := []row{
		{name: "one.mp3", label: "Nina - Sinnerman"},
		{name: "two.mp3", label: "File Not Processed"},
		{name: "SINNER.mp3", label: "File Not Processed"},
	}

	page := Apply(rows, Query{Search: "  sinner ", RowCount: 1})
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Rows, 1)

	page = Apply(rows, Query{Search: "   "})
	assert.Equal(t, 3, page.Total)
}

func TestApplyDoesNotReorderInput(t *testing.T) {
	rows := mixedRows()
	Apply(rows, Query{})
	assert.Equal(t, "b.mp3", rows[0].name)
}

func TestSortKeys(t *testing.T) {
	keys := SortKeys("sort%5Bsize%5D=DESC&current=2&sort[name]=asc", "sort[size]=asc&sort[mtime]=desc&sort[]=desc")
	assert.Equal(t, []SortKey{
		{Field: "size", Desc: false},
		{Field: "name", Desc: false},
		{Field: "mtime", Desc: true},
	}, keys)

	assert.Empty(t, SortKeys(""))
}

func TestFromValues(t *testing.T) {
	raw := "current=3&rowCount=abc&searchPhrase=jazz&sort%5Bname%5D=desc"
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)

	q := FromValues(values, raw)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 0, q.RowCount)
	assert.Equal(t, "jazz", q.Search)
	assert.Equal(t, []SortKey{{Field: "name", Desc: true}}, q.Sort)
}
