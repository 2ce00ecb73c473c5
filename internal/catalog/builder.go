// Package catalog assembles OPDS catalog documents from a typed request:
// navigation menus, browsable collections, and search results. Builders
// orchestrate the taxonomy store, the query builder, and the remote search
// provider into one output document.
package catalog

import (
	"context"

	"opdsapi/internal/opds"
	"opdsapi/internal/taxonomy"
)

const (
	// ItemsPerPage is the fixed page size for browse and search results.
	ItemsPerPage = 25
	// ItemsPerGroup bounds featured-group previews on navigation pages.
	ItemsPerGroup = 10
	// searchEngineWindow is the archive search engine's maximum indexable
	// page window; totals and pagination are capped against it.
	searchEngineWindow = 10000

	shelfLink       = "https://archive.org/services/loans/loan/?action=user_bookshelf"
	userProfileLink = "https://archive.org/services/loans/loan/?action=user_profile"
)

// SearchParams are the arguments of one remote search call.
type SearchParams struct {
	Query      string
	Page       int
	Rows       int
	Sort       string
	ClientHint string
}

// RemoteFile describes one file hosted under an archive item.
type RemoteFile struct {
	URL    string
	Title  string
	Format string
	// Length is the duration in seconds for audio files, zero when unknown.
	Length float64
}

// Provider is the remote search collaborator. Search returns the adapted
// publications for one result page together with the authoritative total
// count. Files lists the item's hosted files matching a glob; a miss yields
// an empty slice, not an error.
type Provider interface {
	Search(ctx context.Context, params SearchParams) ([]*opds.Publication, int, error)
	Files(ctx context.Context, identifier, glob string) ([]RemoteFile, error)
}

// builder is the capability set a catalog variant implements. Every step
// except metadata may yield nothing; empty sections are omitted from the
// assembled document.
type builder interface {
	request() *Request
	buildMetadata(ctx context.Context) (opds.Metadata, error)
	buildPublications(ctx context.Context) ([]*opds.Publication, error)
	buildNavigation(ctx context.Context) ([]opds.Navigation, error)
	buildGroups(ctx context.Context) ([]*opds.Catalog, error)
	buildFacets(ctx context.Context) ([]opds.Facet, error)
	buildPaginationLinks() []opds.Link
}

// build runs the shared assembly pipeline. Publications come first: that
// search is the only source of the authoritative total count, which the
// metadata and pagination steps depend on.
func build(ctx context.Context, b builder) (*opds.Catalog, error) {
	req := b.request()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	publications, err := b.buildPublications(ctx)
	if err != nil {
		return nil, err
	}
	navigation, err := b.buildNavigation(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := b.buildGroups(ctx)
	if err != nil {
		return nil, err
	}
	facets, err := b.buildFacets(ctx)
	if err != nil {
		return nil, err
	}
	metadata, err := b.buildMetadata(ctx)
	if err != nil {
		return nil, err
	}

	links := commonLinks(req)
	links = append(links, b.buildPaginationLinks()...)

	return &opds.Catalog{
		Metadata:     metadata,
		Links:        links,
		Navigation:   navigation,
		Groups:       groups,
		Publications: publications,
		Facets:       facets,
	}, nil
}

// commonLinks are present in every catalog: the search template, the user
// shelf and profile on the archive, and the self reference.
func commonLinks(req *Request) []opds.Link {
	return []opds.Link{
		{
			Rel:       "search",
			Href:      "/catalog{?query}&type=search",
			Type:      opds.TypeCatalog,
			Templated: true,
		},
		{
			Rel:  "http://opds-spec.org/shelf",
			Href: shelfLink,
			Type: opds.TypeCatalog,
		},
		{
			Rel:  "profile",
			Href: userProfileLink,
			Type: opds.TypeProfile,
		},
		{
			Rel:  "self",
			Href: selfURL(req),
			Type: opds.TypeCatalog,
		},
	}
}

func selfURL(req *Request) string {
	return "/catalog?" + encodeParams(req.urlParams()) + req.facetQueryString()
}

// baseBuilder carries the shared dependencies and the default no-op steps.
type baseBuilder struct {
	store    *taxonomy.Store
	provider Provider
	req      *Request
}

func (b *baseBuilder) request() *Request { return b.req }

func (b *baseBuilder) buildPublications(context.Context) ([]*opds.Publication, error) {
	return nil, nil
}

func (b *baseBuilder) buildNavigation(context.Context) ([]opds.Navigation, error) {
	return nil, nil
}

func (b *baseBuilder) buildGroups(context.Context) ([]*opds.Catalog, error) {
	return nil, nil
}

func (b *baseBuilder) buildFacets(context.Context) ([]opds.Facet, error) {
	return nil, nil
}

func (b *baseBuilder) buildPaginationLinks() []opds.Link { return nil }
