package app

import (
	"net/url"
	"strings"
)

// orderedQuery appends parameters to a raw query string without reordering or
// re-encoding what the caller sent.
type orderedQuery struct {
	raw   string
	names map[string]struct{}
}

func newOrderedQuery(raw string) *orderedQuery {
	q := &orderedQuery{raw: raw, names: make(map[string]struct{})}
	for pair := range strings.SplitSeq(raw, "&") {
		if pair == "" {
			continue
		}
		name, _, _ := strings.Cut(pair, "=")
		if decoded, err := url.QueryUnescape(name); err == nil {
			name = decoded
		}
		q.names[name] = struct{}{}
	}
	return q
}

func (q *orderedQuery) Has(name string) bool {
	_, ok := q.names[name]
	return ok
}

// SetDefault appends name=value unless name is already present.
func (q *orderedQuery) SetDefault(name, value string) {
	if q.Has(name) {
		return
	}
	if q.raw != "" && !strings.HasSuffix(q.raw, "&") {
		q.raw += "&"
	}
	q.raw += url.QueryEscape(name) + "=" + url.QueryEscape(value)
	q.names[name] = struct{}{}
}

func (q *orderedQuery) Encode() string {
	return q.raw
}
