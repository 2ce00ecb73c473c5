package catalog

import (
	"context"
	"fmt"

	"opdsapi/internal/opds"
	"opdsapi/internal/taxonomy"
)

// navigationBuilder builds hierarchical menu catalogs: entries for browse
// sections and nested navigation pages, plus featured preview groups.
type navigationBuilder struct {
	baseBuilder
	page taxonomy.NavigationPage
}

func newNavigationBuilder(store *taxonomy.Store, provider Provider, req *Request) (*navigationBuilder, error) {
	page, ok := store.NavigationPage(req.NavKey)
	if !ok {
		return nil, &NotFoundError{Kind: "navigation", Key: req.NavKey}
	}
	return &navigationBuilder{
		baseBuilder: baseBuilder{store: store, provider: provider, req: req},
		page:        page,
	}, nil
}

func (b *navigationBuilder) buildMetadata(context.Context) (opds.Metadata, error) {
	return opds.Metadata{Title: b.page.Title}, nil
}

// buildNavigation emits one entry per item of every child section, then one
// entry per child navigation page. Dangling keys yield no entry.
func (b *navigationBuilder) buildNavigation(context.Context) ([]opds.Navigation, error) {
	var navigation []opds.Navigation

	for _, sectionKey := range b.page.ShowSections {
		section, ok := b.store.Section(sectionKey)
		if !ok {
			continue
		}
		for _, itemKey := range section.ItemKeys {
			navigation = append(navigation, opds.Navigation{
				Title: section.Items[itemKey].Title,
				Href:  fmt.Sprintf("/catalog?type=browse&section=%s&item=%s", sectionKey, itemKey),
				Rel:   "collection",
				Type:  opds.TypeCatalog,
			})
		}
	}

	for _, pageKey := range b.page.ShowNavigationPages {
		childPage, ok := b.store.NavigationPage(pageKey)
		if !ok {
			continue
		}
		navigation = append(navigation, opds.Navigation{
			Title: childPage.Title,
			Href:  "/catalog?type=navigation&nav_key=" + pageKey,
			Rel:   "collection",
			Type:  opds.TypeCatalog,
		})
	}

	return navigation, nil
}

// buildGroups runs one bounded search per featured group and wraps each
// result set into a nested catalog with a "see more" self link. A group
// whose section or item does not resolve is silently omitted.
func (b *navigationBuilder) buildGroups(ctx context.Context) ([]*opds.Catalog, error) {
	if b.page.FeaturedGroups == nil {
		return nil, nil
	}

	var groups []*opds.Catalog
	sectionKey := b.page.FeaturedGroups.Section
	for _, groupKey := range b.page.FeaturedGroups.Groups {
		group, err := b.buildFeaturedGroup(ctx, sectionKey, groupKey)
		if err != nil {
			return nil, err
		}
		if group != nil {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

func (b *navigationBuilder) buildFeaturedGroup(ctx context.Context, sectionKey, groupKey string) (*opds.Catalog, error) {
	section, ok := b.store.Section(sectionKey)
	if !ok {
		return nil, nil
	}
	item, ok := b.store.Item(sectionKey, groupKey)
	if !ok {
		return nil, nil
	}

	query := item.Query
	if section.NeedsBaseQuery && b.store.BaseQuery != "" {
		query = fmt.Sprintf("(%s) AND (%s)", b.store.BaseQuery, query)
	}

	publications, total, err := b.provider.Search(ctx, SearchParams{
		Query:      query,
		Page:       1,
		Rows:       ItemsPerGroup,
		Sort:       item.Sort,
		ClientHint: b.req.ClientHint,
	})
	if err != nil {
		return nil, fmt.Errorf("featured group %q: %w", groupKey, err)
	}

	return &opds.Catalog{
		Metadata: opds.Metadata{
			Title:         item.Title,
			NumberOfItems: total,
		},
		Links: []opds.Link{{
			Rel:  "self",
			Href: fmt.Sprintf("/catalog?type=browse&section=%s&item=%s", sectionKey, groupKey),
			Type: opds.TypeCatalog,
		}},
		Publications: publications,
	}, nil
}
