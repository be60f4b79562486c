package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sahelassur/courtage/internal/core"
	"github.com/sahelassur/courtage/pkg/problem"
)

type QuoteHandler struct {
	Svc core.QuoteService
	Log *slog.Logger
}

func NewQuoteHandler(svc core.QuoteService, log *slog.Logger) *QuoteHandler {
	return &QuoteHandler{Svc: svc, Log: log}
}

func (h *QuoteHandler) Mount(r chi.Router) {
	r.Route("/quotes", func(r chi.Router) {
		r.Post("/", h.Save)
		r.Get("/", h.List)
		r.Get("/{quote_id}", h.Get)
		r.Post("/{quote_id}:sign", h.Sign)
	})
}

type saveQuoteRequest struct {
	SessionID string `json:"session_id"`
}

// Save snapshots a wizard session into a durable draft quote.
// 201: JSON; 400: bad JSON/no product selected; 404: session not found; 500: internal error.
func (h *QuoteHandler) Save(w http.ResponseWriter, r *http.Request) {
	var in saveQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}
	if in.SessionID == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Session ID", "Field session_id is required.")
		return
	}

	q, err := h.Svc.SaveFromSession(r.Context(), in.SessionID)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(q); err != nil {
		h.Log.Error("failed to encode quote", "err", err)
	}
}

// Get retrieves a quote by ID.
// 200: JSON; 400: missing ID; 404: not found; 500: internal error.
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "quote_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Quote ID", "Path parameter quote_id is required.")
		return
	}

	q, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get quote")
		return
	}

	if err := json.NewEncoder(w).Encode(q); err != nil {
		h.Log.Error("failed to encode quote", "quote_id", id, "err", err)
	}
}

// List returns quotes, optionally filtered by contact and status.
// 200: JSON array; 500: internal error.
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := core.QuoteFilter{
		ContactID: r.URL.Query().Get("contact_id"),
		Status:    core.QuoteStatus(r.URL.Query().Get("status")),
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	quotes, err := h.Svc.List(r.Context(), filter, limit)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list quotes")
		return
	}

	if err := json.NewEncoder(w).Encode(quotes); err != nil {
		h.Log.Error("failed to encode quotes", "err", err)
	}
}

// Sign moves a draft quote to signed after the underwriting gate passes.
// 200: JSON; 400: missing ID; 404: not found; 409: wrong status, expired, or blocked verdict; 500: internal error.
func (h *QuoteHandler) Sign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "quote_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Quote ID", "Path parameter quote_id is required.")
		return
	}

	q, err := h.Svc.Sign(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	if err := json.NewEncoder(w).Encode(q); err != nil {
		h.Log.Error("failed to encode quote", "quote_id", id, "err", err)
	}
}
