package http

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"opdsapi/internal/catalog"
	"opdsapi/internal/httpx"
)

type BookHandler struct {
	manifests *catalog.ManifestBuilder
	provider  catalog.Provider
	log       *zap.Logger
}

func NewBookHandler(manifests *catalog.ManifestBuilder, provider catalog.Provider, log *zap.Logger) *BookHandler {
	return &BookHandler{manifests: manifests, provider: provider, log: log}
}

// AudiobookManifest handles GET /audiobooks/{identifier} and serves the
// item's audiobook manifest.
func (h *BookHandler) AudiobookManifest(w http.ResponseWriter, r *http.Request) {
	identifier := strings.TrimPrefix(r.URL.Path, "/audiobooks/")
	if identifier == "" || strings.Contains(identifier, "/") {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "bad_request", "audiobook identifier is required")
		return
	}

	manifest, err := h.manifests.Build(r.Context(), identifier, r.Header.Get("X-Forwarded-For"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONDocument(w, "application/json", manifest)
}

// BookRedirect handles GET /book/{identifier} and redirects to the download
// URL of the first file matching glob_pattern.
func (h *BookHandler) BookRedirect(w http.ResponseWriter, r *http.Request) {
	identifier := strings.TrimPrefix(r.URL.Path, "/book/")
	if identifier == "" || strings.Contains(identifier, "/") {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "bad_request", "book identifier is required")
		return
	}
	glob := r.URL.Query().Get("glob_pattern")

	files, err := h.provider.Files(r.Context(), identifier, glob)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(files) == 0 {
		httpx.JSONErrorWithRequest(r, w, http.StatusNotFound, "not_found",
			"no file matching the requested pattern")
		return
	}

	http.Redirect(w, r, files[0].URL, http.StatusFound)
}

func (h *BookHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *catalog.NotFoundError
	if errors.As(err, &notFound) {
		httpx.JSONErrorWithRequest(r, w, http.StatusNotFound, "not_found", notFound.Error())
		return
	}
	h.log.Error("book request failed",
		zap.String("request_id", httpx.RequestIDFrom(r)),
		zap.Error(err))
	httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, "internal_error", "Internal server error")
}
