package catalog

import (
	"context"
	"fmt"

	"opdsapi/internal/opds"
)

// audioFormat selects one consistent encoding out of the several the
// archive hosts per audiobook, so the reading order has no duplicates.
const audioFormat = "64Kbps MP3"

// ManifestBuilder assembles W3C audiobook manifests for single archive
// items: publication metadata, cover links, and an ordered list of audio
// files as the reading order.
type ManifestBuilder struct {
	provider Provider
}

func NewManifestBuilder(provider Provider) *ManifestBuilder {
	return &ManifestBuilder{provider: provider}
}

// Build fetches the item's publication record and its MP3 files. An unknown
// identifier is a not-found condition.
func (m *ManifestBuilder) Build(ctx context.Context, identifier, clientHint string) (*opds.Catalog, error) {
	publications, total, err := m.provider.Search(ctx, SearchParams{
		Query:      fmt.Sprintf("(identifier:%s)", identifier),
		Page:       1,
		Rows:       ItemsPerPage,
		ClientHint: clientHint,
	})
	if err != nil {
		return nil, fmt.Errorf("audiobook lookup %q: %w", identifier, err)
	}
	if total < 1 || len(publications) == 0 {
		return nil, &NotFoundError{Kind: "audiobook", Key: identifier}
	}
	publication := publications[0]

	readingOrder, err := m.readingOrder(ctx, identifier)
	if err != nil {
		return nil, err
	}

	return &opds.Catalog{
		Metadata:     publication.Metadata,
		Links:        publication.Images,
		ReadingOrder: readingOrder,
	}, nil
}

func (m *ManifestBuilder) readingOrder(ctx context.Context, identifier string) ([]opds.Link, error) {
	files, err := m.provider.Files(ctx, identifier, "*mp3")
	if err != nil {
		return nil, fmt.Errorf("audiobook files %q: %w", identifier, err)
	}

	var order []opds.Link
	for _, f := range files {
		if f.Format != audioFormat {
			continue
		}
		order = append(order, opds.Link{
			Href:     f.URL,
			Type:     "audio/mpeg",
			Title:    f.Title,
			Duration: f.Length,
		})
	}
	return order, nil
}
