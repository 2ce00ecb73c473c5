package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"opdsapi/internal/catalog"
	"opdsapi/internal/opds"
)

func newBookHandler(ctrl *gomock.Controller) (*BookHandler, *catalog.MockProvider) {
	provider := catalog.NewMockProvider(ctrl)
	manifests := catalog.NewManifestBuilder(provider)
	return NewBookHandler(manifests, provider, zap.NewNop()), provider
}

func TestBookHandler_BookRedirect(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	handler, provider := newBookHandler(ctrl)

	t.Run("redirects to the first matching file", func(t *testing.T) {
		provider.EXPECT().Files(gomock.Any(), "moby-dick-1851", "*pdf").Return([]catalog.RemoteFile{
			{URL: "https://archive.org/download/moby-dick-1851/book.pdf"},
			{URL: "https://archive.org/download/moby-dick-1851/other.pdf"},
		}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/book/moby-dick-1851?glob_pattern=*pdf", nil)

		handler.BookRedirect(w, r)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://archive.org/download/moby-dick-1851/book.pdf", w.Header().Get("Location"))
	})

	t.Run("no match is 404", func(t *testing.T) {
		provider.EXPECT().Files(gomock.Any(), "moby-dick-1851", "*epub").Return(nil, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/book/moby-dick-1851?glob_pattern=*epub", nil)

		handler.BookRedirect(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing identifier is 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/book/", nil)

		handler.BookRedirect(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("provider failure is 500", func(t *testing.T) {
		provider.EXPECT().Files(gomock.Any(), "moby-dick-1851", "").Return(nil, assert.AnError)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/book/moby-dick-1851", nil)

		handler.BookRedirect(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestBookHandler_AudiobookManifest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	handler, provider := newBookHandler(ctrl)

	t.Run("success", func(t *testing.T) {
		provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]*opds.Publication{{
			Metadata: opds.Metadata{Title: "Pride and Prejudice"},
		}}, 1, nil)
		provider.EXPECT().Files(gomock.Any(), "pride", "*mp3").Return([]catalog.RemoteFile{
			{URL: "https://archive.org/download/pride/ch01.mp3", Title: "Chapter 01", Format: "64Kbps MP3", Length: 648.13},
		}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/audiobooks/pride", nil)

		handler.AudiobookManifest(w, r)

		assert.Equal(t, http.StatusOK, w.Code)

		var manifest opds.Catalog
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &manifest))
		assert.Equal(t, "Pride and Prejudice", manifest.Metadata.Title)
		require.Len(t, manifest.ReadingOrder, 1)
	})

	t.Run("unknown identifier is 404", func(t *testing.T) {
		provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, 0, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/audiobooks/nope", nil)

		handler.AudiobookManifest(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing identifier is 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/audiobooks/", nil)

		handler.AudiobookManifest(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthenticationDocument(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/authentication_document", nil)

	AuthenticationDocument(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, opds.TypeAuthDoc, w.Header().Get("Content-Type"))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Log in", doc["title"])
	assert.NotEmpty(t, doc["authentication"])
}

func TestHealthcheck(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)

	Healthcheck(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}
