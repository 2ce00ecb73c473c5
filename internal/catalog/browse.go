package catalog

import (
	"context"
	"fmt"

	"opdsapi/internal/opds"
	"opdsapi/internal/taxonomy"
)

// browseBuilder builds catalogs of paginated, facet-filterable publications
// for one section item: a category, a language collection, and so on.
//
// The query construction step is held as a function value so the search
// variant can swap in its own without reimplementing the publications step.
type browseBuilder struct {
	baseBuilder
	section taxonomy.Section
	item    taxonomy.Item
	total   int

	buildQuery func() *SearchQuery
}

func newBrowseBuilder(store *taxonomy.Store, provider Provider, req *Request) (*browseBuilder, error) {
	b := &browseBuilder{
		baseBuilder: baseBuilder{store: store, provider: provider, req: req},
	}
	b.buildQuery = b.browseQuery

	var ok bool
	if b.section, ok = store.Section(req.Section); !ok {
		return nil, &NotFoundError{Kind: "section", Key: req.Section}
	}
	if b.item, ok = store.Item(req.Section, req.Item); !ok {
		return nil, &NotFoundError{Kind: "item", Key: req.Item}
	}
	return b, nil
}

// buildPublications executes the search for the requested page and records
// the authoritative total for the later metadata and pagination steps.
func (b *browseBuilder) buildPublications(ctx context.Context) ([]*opds.Publication, error) {
	query := b.buildQuery()

	publications, total, err := b.provider.Search(ctx, SearchParams{
		Query:      query.FullQuery(),
		Page:       b.req.Page,
		Rows:       ItemsPerPage,
		Sort:       b.item.Sort,
		ClientHint: b.req.ClientHint,
	})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query.FullQuery(), err)
	}
	b.total = total
	return publications, nil
}

// browseQuery combines the section's base filter, the item's own query, and
// the applied facet filters.
func (b *browseBuilder) browseQuery() *SearchQuery {
	query := &SearchQuery{}
	if b.section.NeedsBaseQuery && b.store.BaseQuery != "" {
		query.Base = b.store.BaseQuery
	}
	query.Primary = b.item.Query
	b.applyFacetFilters(query)
	return query
}

// applyFacetFilters appends the query fragment of every applied facet, in
// applied order. A facet whose section opts out of the base query clears it.
// Facets that do not resolve to an item with a query contribute nothing.
func (b *browseBuilder) applyFacetFilters(query *SearchQuery) {
	for _, pair := range b.req.Facets {
		facetItem, ok := b.store.Item(pair.Section, pair.Item)
		if !ok || facetItem.Query == "" {
			continue
		}
		if facetSection, ok := b.store.Section(pair.Section); ok && !facetSection.NeedsBaseQuery {
			query.RemoveBaseQuery()
		}
		query.Facets = append(query.Facets, "("+facetItem.Query+")")
	}
}

func (b *browseBuilder) buildMetadata(context.Context) (opds.Metadata, error) {
	return opds.Metadata{
		Title:         b.item.Title,
		NumberOfItems: min(b.total, searchEngineWindow),
		ItemsPerPage:  ItemsPerPage,
		CurrentPage:   b.req.Page,
	}, nil
}

// buildPaginationLinks emits first/previous/next/last. Previous clamps to
// page 1 and next to the last reachable page, so out-of-range requests
// degrade to the nearest boundary instead of erroring.
func (b *browseBuilder) buildPaginationLinks() []opds.Link {
	if b.total == 0 {
		return nil
	}

	maxPage := min(b.total, searchEngineWindow) / ItemsPerPage
	page := b.req.Page
	facetQuery := b.req.facetQueryString()

	pageLink := func(rel string, page int) opds.Link {
		return opds.Link{
			Rel:  rel,
			Href: "/catalog?" + encodeParams(b.req.urlParamsWithPage(page)) + facetQuery,
			Type: opds.TypeCatalog,
		}
	}

	return []opds.Link{
		pageLink("first", 1),
		pageLink("previous", max(1, page-1)),
		pageLink("next", min(maxPage, page+1)),
		pageLink("last", maxPage),
	}
}

// buildFacets emits one facet group per facet section the resolved section
// declares, excluding sections already applied by the request. Each link
// re-encodes the current request without its page, the applied facets, and
// the new pair appended last.
func (b *browseBuilder) buildFacets(context.Context) ([]opds.Facet, error) {
	if len(b.section.Facets) == 0 {
		return nil, nil
	}

	var facets []opds.Facet
	for _, sectionKey := range b.section.Facets {
		if b.req.facetApplied(sectionKey) {
			continue
		}
		facetSection, ok := b.store.Section(sectionKey)
		if !ok {
			continue
		}

		baseParams := b.req.urlParams()
		trimmed := baseParams[:0]
		for _, p := range baseParams {
			if p.key != "page" {
				trimmed = append(trimmed, p)
			}
		}
		baseQuery := encodeParams(trimmed)

		links := make([]opds.Link, 0, len(facetSection.ItemKeys))
		for _, itemKey := range facetSection.ItemKeys {
			pairs := append(append([]FacetPair{}, b.req.Facets...), FacetPair{Section: sectionKey, Item: itemKey})
			links = append(links, opds.Link{
				Title: facetSection.Items[itemKey].Title,
				Href:  "/catalog?" + baseQuery + facetPairsQuery(pairs),
				Type:  opds.TypeCatalog,
			})
		}

		facets = append(facets, opds.Facet{
			Metadata: opds.FacetMetadata{Title: facetSection.Title},
			Links:    links,
		})
	}
	return facets, nil
}
