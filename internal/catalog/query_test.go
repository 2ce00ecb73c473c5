package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchQuery_FullQuery(t *testing.T) {
	t.Run("joins base, primary and facets in order", func(t *testing.T) {
		q := &SearchQuery{
			Base:    "mediatype:texts",
			Primary: "subject:adventure",
			Facets:  []string{"(language:eng)"},
		}
		assert.Equal(t, "mediatype:texts AND subject:adventure AND (language:eng)", q.FullQuery())
	})

	t.Run("omits empty parts", func(t *testing.T) {
		q := &SearchQuery{Primary: "subject:romance"}
		assert.Equal(t, "subject:romance", q.FullQuery())
	})

	t.Run("empty when all parts absent", func(t *testing.T) {
		q := &SearchQuery{}
		assert.Equal(t, "", q.FullQuery())
	})

	t.Run("multiple facets keep applied order", func(t *testing.T) {
		q := &SearchQuery{
			Base:    "mediatype:texts",
			Primary: "subject:history",
			Facets:  []string{"(language:eng)", "(collection:printdisabled)"},
		}
		assert.Equal(t,
			"mediatype:texts AND subject:history AND (language:eng) AND (collection:printdisabled)",
			q.FullQuery())
	})
}

func TestSearchQuery_RemoveBaseQuery(t *testing.T) {
	q := &SearchQuery{
		Base:    "mediatype:texts",
		Primary: "subject:adventure",
	}
	q.RemoveBaseQuery()
	assert.Equal(t, "subject:adventure", q.FullQuery())

	// Idempotent.
	q.RemoveBaseQuery()
	assert.Equal(t, "subject:adventure", q.FullQuery())
}
