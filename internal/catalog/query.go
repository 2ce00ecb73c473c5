package catalog

import "strings"

// SearchQuery assembles an archive search expression from a base filter, a
// primary filter, and appended facet filters. The fragments are opaque to
// this type; no syntax validation happens here.
type SearchQuery struct {
	Base    string
	Primary string
	Facets  []string
}

// FullQuery joins all non-empty parts with AND, base first, then the
// primary filter, then the facets in applied order. Empty when all parts
// are absent.
func (q *SearchQuery) FullQuery() string {
	parts := make([]string, 0, 2+len(q.Facets))
	for _, p := range append([]string{q.Base, q.Primary}, q.Facets...) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " AND ")
}

// RemoveBaseQuery clears the base filter. Used when an applied facet's
// section declares itself incompatible with the default scope filter.
func (q *SearchQuery) RemoveBaseQuery() {
	q.Base = ""
}
