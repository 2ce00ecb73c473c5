package archive

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opdsapi/internal/opds"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		runtime string
		want    float64
	}{
		{"1:48:13", 6493},
		{"1:33:33", 5613},
		{"33:33", 2013},
		{"45", 45},
		{"", 0},
		{"abc", 0},
		{"1:xx:00", 0},
	}
	for _, tt := range tests {
		t.Run(tt.runtime, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDuration(tt.runtime))
		})
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"English", "en", true},
		{"French", "fr", true},
		{"eng", "en", true},
		{"fre", "fr", true},
		{"en", "en", true},
		{"", "", false},
		{"Klingonish", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := normalizeLanguage(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestJoinDescription(t *testing.T) {
	t.Run("scalar passes through", func(t *testing.T) {
		d := StringOrStrings{Values: []string{"plain text\nwith newline"}}
		assert.Equal(t, "plain text\nwith newline", joinDescription(d))
	})

	t.Run("list merges with breaks", func(t *testing.T) {
		d := StringOrStrings{
			Values:   []string{"Line 1\ndescription", "Line 2"},
			FromList: true,
		}
		assert.Equal(t, "Line 1<br />description<br><br>Line 2", joinDescription(d))
	})

	t.Run("absent is empty", func(t *testing.T) {
		assert.Equal(t, "", joinDescription(StringOrStrings{}))
	})
}

func TestDocPublication_Book(t *testing.T) {
	raw := []byte(`{
		"identifier": "test_book_123",
		"mediatype": "texts",
		"title": "Test Book Title",
		"publicdate": "2024-01-15",
		"imagecount": 250,
		"creator": ["Author One", "Author Two"],
		"description": "A test book.",
		"language": ["eng", "fre"],
		"format": ["Text PDF", "Remediated EPUB"]
	}`)

	var doc Doc
	require.NoError(t, json.Unmarshal(raw, &doc))
	pub := doc.Publication()

	assert.Equal(t, "http://schema.org/Book", pub.Metadata.Type)
	assert.Equal(t, "https://archive.org/details/test_book_123", pub.Metadata.Identifier)
	assert.Equal(t, "Test Book Title", pub.Metadata.Title)
	assert.Equal(t, []opds.Contributor{{Name: "Author One"}, {Name: "Author Two"}}, pub.Metadata.Author)
	assert.Equal(t, []string{"en", "fr"}, pub.Metadata.Language)
	assert.Equal(t, 250, pub.Metadata.NumberOfPages)
	assert.Equal(t, "A test book.", pub.Metadata.Description)

	require.NotEmpty(t, pub.Links)
	sample := pub.Links[0]
	assert.Equal(t, relSample, sample.Rel)
	assert.Equal(t, "https://archive.org/details/test_book_123&view=theater", sample.Href)

	require.Len(t, pub.Images, 2)
	assert.Equal(t, "https://archive.org/download/test_book_123/__ia_thumb.jpg", pub.Images[0].Href)
	assert.Equal(t, "cover", pub.Images[0].Rel)
	assert.Equal(t, 1400, pub.Images[0].Height)
	assert.Equal(t, 800, pub.Images[0].Width)
	assert.Equal(t, 700, pub.Images[1].Height)
	assert.Equal(t, 400, pub.Images[1].Width)
}

func TestDocPublication_Audiobook(t *testing.T) {
	raw := []byte(`{
		"identifier": "audio_book_456",
		"mediatype": "audio",
		"title": "Test Audiobook",
		"publicdate": "2024-03-20",
		"creator": "Single Author",
		"description": ["Line 1 description", "Line 2 description"],
		"runtime": "2:15:30",
		"language": "English",
		"format": ["VBR MP3"]
	}`)

	var doc Doc
	require.NoError(t, json.Unmarshal(raw, &doc))
	pub := doc.Publication()

	assert.Equal(t, "http://schema.org/Audiobook", pub.Metadata.Type)
	assert.Equal(t, []opds.Contributor{{Name: "Single Author"}}, pub.Metadata.Author)
	assert.Equal(t, []string{"en"}, pub.Metadata.Language)
	assert.Equal(t, 8130.0, pub.Metadata.Duration)
	assert.Equal(t, "Line 1 description<br><br>Line 2 description", pub.Metadata.Description)
}

func TestDocPublication_Restricted(t *testing.T) {
	raw := []byte(`{
		"identifier": "restricted_book",
		"mediatype": "texts",
		"title": "Restricted",
		"access-restricted-item": "true",
		"external-identifier": ["urn:lcp:restricted_book:epub:uuid-123"],
		"lending___available_to_borrow": true
	}`)

	var doc Doc
	require.NoError(t, json.Unmarshal(raw, &doc))
	pub := doc.Publication()

	var borrow *opds.Link
	for i := range pub.Links {
		if pub.Links[i].Rel == "http://opds-spec.org/acquisition/borrow" {
			borrow = &pub.Links[i]
		}
	}
	require.NotNil(t, borrow)
	require.NotNil(t, borrow.Properties)
	assert.Equal(t, opds.StateAvailable, borrow.Properties.Availability.State)
	require.Len(t, borrow.Properties.IndirectAcquisition, 1)
}

func TestFlexibleDecoding(t *testing.T) {
	t.Run("string or list", func(t *testing.T) {
		var s StringOrStrings
		require.NoError(t, json.Unmarshal([]byte(`"single"`), &s))
		assert.Equal(t, []string{"single"}, s.Values)
		assert.False(t, s.FromList)

		require.NoError(t, json.Unmarshal([]byte(`["a", "b"]`), &s))
		assert.Equal(t, []string{"a", "b"}, s.Values)
		assert.True(t, s.FromList)

		require.NoError(t, json.Unmarshal([]byte(`null`), &s))
		assert.Empty(t, s.Values)
	})

	t.Run("numbers become strings", func(t *testing.T) {
		var s StringOrStrings
		require.NoError(t, json.Unmarshal([]byte(`[12, "x"]`), &s))
		assert.Equal(t, []string{"12", "x"}, s.Values)
	})

	t.Run("flex string accepts scalars", func(t *testing.T) {
		var f FlexString
		require.NoError(t, json.Unmarshal([]byte(`"true"`), &f))
		assert.Equal(t, FlexString("true"), f)

		require.NoError(t, json.Unmarshal([]byte(`1`), &f))
		assert.Equal(t, FlexString("1"), f)

		require.NoError(t, json.Unmarshal([]byte(`null`), &f))
		assert.Equal(t, FlexString(""), f)
	})
}
