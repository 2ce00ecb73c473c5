package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"opdsapi/internal/opds"
	"opdsapi/internal/taxonomy"
)

const testTaxonomy = `{
  "base_query": "mediatype:texts",
  "sections": {
    "categories": {
      "title": "Categories",
      "facets": ["languages", "formats"],
      "items": {
        "adventure": {"title": "Adventure", "query": "subject:adventure", "sort": "week desc"},
        "romance": {"title": "Romance", "query": "subject:romance", "sort": "week desc"}
      }
    },
    "languages": {
      "title": "Languages",
      "items": {
        "english": {"title": "English", "query": "(language:eng)", "sort": ""},
        "french": {"title": "French", "query": "(language:fre)", "sort": ""}
      }
    },
    "formats": {
      "title": "Formats",
      "needs_base_query": false,
      "items": {
        "audiobooks": {"title": "Audiobooks", "query": "(mediatype:audio)", "sort": ""}
      }
    },
    "search": {
      "title": "Search",
      "items": {
        "user-search": {"title": "Search results for:", "query": "", "sort": ""}
      }
    }
  },
  "navigation": {
    "main": {
      "title": "Archive.org",
      "show_sections": ["languages"],
      "show_navigation_pages": ["genres"],
      "featured_groups": {
        "section": "categories",
        "groups": ["adventure", "missing-key"]
      }
    },
    "genres": {
      "title": "Genres",
      "show_sections": ["categories"]
    }
  }
}`

func newTestStore(t *testing.T) *taxonomy.Store {
	t.Helper()
	store, err := taxonomy.Parse([]byte(testTaxonomy))
	require.NoError(t, err)
	return store
}

func makePublications(n int) []*opds.Publication {
	pubs := make([]*opds.Publication, n)
	for i := range pubs {
		pubs[i] = &opds.Publication{
			Metadata: opds.Metadata{Title: fmt.Sprintf("Publication %d", i+1)},
		}
	}
	return pubs
}

func linkByRel(links []opds.Link, rel string) (opds.Link, bool) {
	for _, l := range links {
		if l.Rel == rel {
			return l, true
		}
	}
	return opds.Link{}, false
}
