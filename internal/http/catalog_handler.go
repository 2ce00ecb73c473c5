// Package http exposes the catalog over plain HTTP: the navigation root,
// the universal catalog endpoint, audiobook manifests, free-book redirects,
// and the static authentication document.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"opdsapi/internal/catalog"
	"opdsapi/internal/httpx"
	"opdsapi/internal/opds"
)

type CatalogHandler struct {
	factory *catalog.Factory
	log     *zap.Logger
}

func NewCatalogHandler(factory *catalog.Factory, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{factory: factory, log: log}
}

// Root handles GET / and serves the main navigation catalog.
func (h *CatalogHandler) Root(w http.ResponseWriter, r *http.Request) {
	req := &catalog.Request{
		Type:       catalog.TypeNavigation,
		NavKey:     "main",
		ClientHint: r.Header.Get("X-Real-Ip"),
	}

	doc, err := h.factory.BuildCatalog(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONDocument(w, opds.TypeCatalog, doc)
}

// Catalog handles GET /catalog, the universal catalog endpoint. The catalog
// type tag selects navigation, browse, or search; facet filters arrive as
// paired facet_section/facet_item lists matched by index.
func (h *CatalogHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	catalogType := query.Get("type")
	if catalogType == "" {
		catalogType = catalog.TypeNavigation
	}

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}

	facets, err := zipFacets(query["facet_section"], query["facet_item"])
	if err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	req := &catalog.Request{
		Type:       catalogType,
		NavKey:     query.Get("nav_key"),
		Section:    query.Get("section"),
		Item:       query.Get("item"),
		Query:      query.Get("query"),
		Page:       page,
		Facets:     facets,
		ClientHint: r.Header.Get("X-Real-Ip"),
	}

	doc, err := h.factory.BuildCatalog(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONDocument(w, opds.TypeCatalog, doc)
}

func zipFacets(sections, items []string) ([]catalog.FacetPair, error) {
	if len(sections) != len(items) {
		return nil, errors.New("facet_section and facet_item must be paired")
	}
	var facets []catalog.FacetPair
	for i, section := range sections {
		facets = append(facets, catalog.FacetPair{Section: section, Item: items[i]})
	}
	return facets, nil
}

func (h *CatalogHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *catalog.NotFoundError
	var badRequest *catalog.BadRequestError
	switch {
	case errors.As(err, &notFound):
		httpx.JSONErrorWithRequest(r, w, http.StatusNotFound, "not_found", notFound.Error())
	case errors.As(err, &badRequest):
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "bad_request", badRequest.Error())
	default:
		h.log.Error("catalog build failed",
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.Error(err))
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
