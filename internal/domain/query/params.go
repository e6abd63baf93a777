package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Wire parameter names used by the listing grid
const (
	ParamSearch   = "searchPhrase"
	ParamCurrent  = "current"
	ParamRowCount = "rowCount"
	sortPrefix    = "sort["
)

// FromValues builds a Query from decoded request values. Sort keys are read from
// the raw encoded sources in order, since url.Values does not keep key order.
func FromValues(values url.Values, raw ...string) Query {
	return Query{
		Search:   values.Get(ParamSearch),
		Sort:     SortKeys(raw...),
		Page:     atoi(values.Get(ParamCurrent)),
		RowCount: atoi(values.Get(ParamRowCount)),
	}
}

// SortKeys extracts sort[<field>]=<dir> pairs from urlencoded strings. A field
// keeps the position of its first occurrence and the direction of its last.
func SortKeys(raw ...string) []SortKey {
	var keys []SortKey
	index := make(map[string]int)

	for _, encoded := range raw {
		for _, pair := range strings.Split(encoded, "&") {
			if pair == "" {
				continue
			}
			k, v, _ := strings.Cut(pair, "=")
			key, err := url.QueryUnescape(k)
			if err != nil || !strings.HasPrefix(key, sortPrefix) || !strings.HasSuffix(key, "]") {
				continue
			}
			field := key[len(sortPrefix) : len(key)-1]
			if field == "" {
				continue
			}
			dir, err := url.QueryUnescape(v)
			if err != nil {
				continue
			}

			desc := strings.EqualFold(strings.TrimSpace(dir), "desc")
			if i, ok := index[field]; ok {
				keys[i].Desc = desc
				continue
			}
			index[field] = len(keys)
			keys = append(keys, SortKey{Field: field, Desc: desc})
		}
	}
	return keys
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
