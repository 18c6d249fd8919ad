package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/VAlejandro22/ecommerce-iq/internal/cart"
	"github.com/VAlejandro22/ecommerce-iq/internal/catalog"
	"github.com/VAlejandro22/ecommerce-iq/internal/platform/httpx"
)

// CatalogReader is the read surface of the catalog gateway.
type CatalogReader interface {
	Collections(ctx context.Context) []catalog.Collection
	CollectionsPage(ctx context.Context, page, pageSize int) catalog.CollectionPage
	Collection(ctx context.Context, id string) (catalog.CollectionWithDesigns, error)
	Designs(ctx context.Context) []catalog.Design
	DesignsPage(ctx context.Context, page, pageSize int) catalog.DesignPage
	Design(ctx context.Context, id string) (catalog.Design, error)
	Home(ctx context.Context) catalog.HomeFeed
}

// CatalogHandlers exposes the public browsing endpoints.
type CatalogHandlers struct {
	catalog CatalogReader
	phones  *cart.PhoneModels
}

// NewCatalogHandlers constructs catalog handlers.
func NewCatalogHandlers(reader CatalogReader, phones *cart.PhoneModels) *CatalogHandlers {
	return &CatalogHandlers{catalog: reader, phones: phones}
}

// Routes wires the browsing endpoints onto r.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/home", h.getHome)
	r.Get("/collections", h.listCollections)
	r.Get("/collections/{id}", h.getCollection)
	r.Get("/designs", h.listDesigns)
	r.Get("/designs/{id}", h.getDesign)
	r.Get("/phone-models", h.listPhoneModels)
}

type collectionsResponse struct {
	Collections []catalog.Collection `json:"collections"`
	Pagination  *catalog.Pagination  `json:"pagination,omitempty"`
}

type designsResponse struct {
	Designs    []catalog.Design    `json:"designs"`
	Pagination *catalog.Pagination `json:"pagination,omitempty"`
}

type phoneModelsResponse struct {
	Brands []cart.Brand `json:"brands"`
}

func (h *CatalogHandlers) unavailable(w http.ResponseWriter, r *http.Request) bool {
	if h.catalog != nil {
		return false
	}
	httpx.WriteError(r.Context(), w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
	return true
}

func (h *CatalogHandlers) getHome(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w, r) {
		return
	}
	writeCachedJSON(w, r, h.catalog.Home(r.Context()))
}

func (h *CatalogHandlers) listCollections(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w, r) {
		return
	}
	page, pageSize, paged, err := pageParams(r)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_pagination", err.Error(), http.StatusBadRequest))
		return
	}
	if !paged {
		writeCachedJSON(w, r, collectionsResponse{Collections: nonNil(h.catalog.Collections(r.Context()))})
		return
	}
	result := h.catalog.CollectionsPage(r.Context(), page, pageSize)
	writeCachedJSON(w, r, collectionsResponse{Collections: nonNil(result.Collections), Pagination: &result.Pagination})
}

func (h *CatalogHandlers) getCollection(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w, r) {
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	result, err := h.catalog.Collection(r.Context(), id)
	if err != nil {
		writeCatalogError(r.Context(), w, "collection", err)
		return
	}
	result.Designs = nonNil(result.Designs)
	writeCachedJSON(w, r, result)
}

func (h *CatalogHandlers) listDesigns(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w, r) {
		return
	}
	page, pageSize, paged, err := pageParams(r)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_pagination", err.Error(), http.StatusBadRequest))
		return
	}
	if !paged {
		writeCachedJSON(w, r, designsResponse{Designs: nonNil(h.catalog.Designs(r.Context()))})
		return
	}
	result := h.catalog.DesignsPage(r.Context(), page, pageSize)
	writeCachedJSON(w, r, designsResponse{Designs: nonNil(result.Designs), Pagination: &result.Pagination})
}

func (h *CatalogHandlers) getDesign(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w, r) {
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	design, err := h.catalog.Design(r.Context(), id)
	if err != nil {
		writeCatalogError(r.Context(), w, "design", err)
		return
	}
	writeCachedJSON(w, r, design)
}

func (h *CatalogHandlers) listPhoneModels(w http.ResponseWriter, r *http.Request) {
	resp := phoneModelsResponse{Brands: []cart.Brand{}}
	if h.phones != nil {
		resp.Brands = nonNil(h.phones.Brands)
	}
	writeCachedJSON(w, r, resp)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
