package catalog

import (
	"context"
	"fmt"

	"opdsapi/internal/opds"
	"opdsapi/internal/taxonomy"
)

// Factory selects and runs the catalog builder matching a request's type
// tag. It holds the shared taxonomy store and search provider.
type Factory struct {
	store    *taxonomy.Store
	provider Provider
}

func NewFactory(store *taxonomy.Store, provider Provider) *Factory {
	return &Factory{store: store, provider: provider}
}

// BuildCatalog validates the request, constructs the matching builder
// variant, and runs the shared assembly pipeline.
func (f *Factory) BuildCatalog(ctx context.Context, req *Request) (*opds.Catalog, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		b   builder
		err error
	)
	switch req.Type {
	case TypeNavigation:
		b, err = newNavigationBuilder(f.store, f.provider, req)
	case TypeBrowse:
		b, err = newBrowseBuilder(f.store, f.provider, req)
	case TypeSearch:
		b, err = newSearchBuilder(f.store, f.provider, req)
	default:
		return nil, &BadRequestError{Message: fmt.Sprintf("unknown catalog type: %q", req.Type)}
	}
	if err != nil {
		return nil, err
	}

	return build(ctx, b)
}
