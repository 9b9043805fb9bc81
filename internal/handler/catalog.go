package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"

	"github.com/udsehati/sehati-web/internal/domain/catalog"
)

// maxFeaturedLimit bounds the featured products a client may request.
const maxFeaturedLimit = 20

// parseQuery reads a catalog query from the URL: page (zero-based), sort,
// q and repeated category parameters.
func parseQuery(r *http.Request) (catalog.Query, bool) {
	v := r.URL.Query()
	q := catalog.Query{
		Sort:        catalog.SortKey(v.Get("sort")),
		Search:      v.Get("q"),
		CategoryIDs: v["category"],
	}
	if raw := v.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return q, false
		}
		q.Page = page
	}
	return q, true
}

// ListProducts returns one page of the catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, ok := parseQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "page must be an integer")
		return
	}
	page, err := h.catalog.FetchPage(r.Context(), q)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodePage(e, page)
	})
}

// FeaturedProducts returns the newest products for the home page.
func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	limit := catalog.DefaultFeaturedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxFeaturedLimit)
	}
	items, err := h.catalog.Featured(r.Context(), limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeProducts(e, items)
	})
}

// GetProduct returns a single active product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeProduct(e, *p)
	})
}

// ListCategories returns every category ordered by name.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.Categories(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeArr(e, cats, encodeCategory)
	})
}
