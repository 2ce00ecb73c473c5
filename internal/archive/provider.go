package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"opdsapi/internal/catalog"
	"opdsapi/internal/opds"
)

const maxAdaptWorkers = 50

// Provider adapts the archive client to the catalog's search provider
// interface. Raw records are decoded and converted on a bounded worker pool.
type Provider struct {
	client *Client
	log    *zap.Logger
}

func NewProvider(client *Client, log *zap.Logger) *Provider {
	return &Provider{client: client, log: log}
}

// Search runs the query and converts every result record into a publication,
// preserving the engine's result order. A record that fails to decode is
// dropped from the page rather than failing the whole request.
func (p *Provider) Search(ctx context.Context, params catalog.SearchParams) ([]*opds.Publication, int, error) {
	docs, total, err := p.client.Search(ctx, params.Query, params.Page, params.Rows, params.Sort, params.ClientHint)
	if err != nil {
		return nil, 0, err
	}

	slots := make([]*opds.Publication, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount())
	for i, raw := range docs {
		i, raw := i, raw
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			var doc Doc
			if err := json.Unmarshal(raw, &doc); err != nil {
				p.log.Warn("skipping undecodable search record", zap.Error(err))
				return nil
			}
			slots[i] = doc.Publication()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	publications := make([]*opds.Publication, 0, len(slots))
	for _, pub := range slots {
		if pub != nil {
			publications = append(publications, pub)
		}
	}
	return publications, total, nil
}

// Files lists the item's files matching the glob pattern, with download URLs
// resolved. An empty pattern matches every file.
func (p *Provider) Files(ctx context.Context, identifier, glob string) ([]catalog.RemoteFile, error) {
	files, err := p.client.Files(ctx, identifier)
	if err != nil {
		return nil, err
	}

	var remote []catalog.RemoteFile
	for _, f := range files {
		if !f.MatchesGlob(glob) {
			continue
		}
		title := f.Title
		if title == "" {
			title = f.Name
		}
		remote = append(remote, catalog.RemoteFile{
			URL:    fmt.Sprintf("%s/%s/%s", downloadURL, identifier, f.Name),
			Title:  title,
			Format: f.Format,
			Length: f.Seconds(),
		})
	}
	return remote, nil
}

func workerCount() int {
	n := runtime.NumCPU() * 5
	if n > maxAdaptWorkers {
		return maxAdaptWorkers
	}
	return n
}
