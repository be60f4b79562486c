package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sahelassur/courtage/internal/core"
	"github.com/sahelassur/courtage/pkg/problem"
)

type ProductHandler struct {
	Repo core.ProductRepo
	Log  *slog.Logger
}

func NewProductHandler(repo core.ProductRepo, log *slog.Logger) *ProductHandler {
	return &ProductHandler{Repo: repo, Log: log}
}

func (h *ProductHandler) Mount(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{product_code}", h.Get)
	})
}

// List returns the product catalog.
// 200: JSON array; 500: internal error.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list products")
		return
	}

	if err := json.NewEncoder(w).Encode(products); err != nil {
		h.Log.Error("failed to encode products", "err", err)
	}
}

// Get retrieves a catalog entry by code.
// 200: JSON; 400: missing code; 404: not found; 500: internal error.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "product_code")
	if code == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Product Code", "Path parameter product_code is required.")
		return
	}

	product, err := h.Repo.GetByCode(r.Context(), core.ProductCode(code))
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get product")
		return
	}

	if err := json.NewEncoder(w).Encode(product); err != nil {
		h.Log.Error("failed to encode product", "product_code", code, "err", err)
	}
}
