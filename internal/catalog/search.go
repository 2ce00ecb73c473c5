package catalog

import (
	"context"
	"fmt"
	"strings"

	"opdsapi/internal/opds"
	"opdsapi/internal/taxonomy"
)

// Free-text search targets a reserved section/item pair in the taxonomy
// instead of the request's own section and item.
const (
	searchSection = "search"
	searchItemKey = "user-search"
)

// quoteReplacer folds the typographic quote variants clients send into the
// plain ASCII double quote the archive search engine understands.
var quoteReplacer = strings.NewReplacer(
	"“", `"`, // left double quotation mark
	"‘", `"`, // left single quotation mark
	"`", `"`,
	"'", `"`,
	"’", `"`, // right single quotation mark
)

// searchBuilder specializes browseBuilder for free-text search: it swaps in
// its own query construction and embeds the result count in the title, and
// reuses everything else.
type searchBuilder struct {
	*browseBuilder
}

func newSearchBuilder(store *taxonomy.Store, provider Provider, req *Request) (*searchBuilder, error) {
	b := &browseBuilder{
		baseBuilder: baseBuilder{store: store, provider: provider, req: req},
	}

	var ok bool
	if b.section, ok = store.Section(searchSection); !ok {
		return nil, &NotFoundError{Kind: "section", Key: searchSection}
	}
	if b.item, ok = store.Item(searchSection, searchItemKey); !ok {
		return nil, &NotFoundError{Kind: "item", Key: searchItemKey}
	}

	s := &searchBuilder{browseBuilder: b}
	b.buildQuery = s.searchQuery
	return s, nil
}

// searchQuery always starts from the base filter; only a facet that opts
// out of it can clear it. The primary filter is the user's normalized text.
func (s *searchBuilder) searchQuery() *SearchQuery {
	query := &SearchQuery{Base: s.store.BaseQuery}
	query.Primary = quoteReplacer.Replace(s.req.Query)
	s.applyFacetFilters(query)
	return query
}

func (s *searchBuilder) buildMetadata(context.Context) (opds.Metadata, error) {
	return opds.Metadata{
		Title:         fmt.Sprintf("%s '%d'", s.item.Title, s.total),
		NumberOfItems: min(s.total, searchEngineWindow),
		ItemsPerPage:  ItemsPerPage,
		CurrentPage:   s.req.Page,
	}, nil
}
