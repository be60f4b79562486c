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

type PolicyHandler struct {
	Svc core.PolicyService
	Log *slog.Logger
}

func NewPolicyHandler(svc core.PolicyService, log *slog.Logger) *PolicyHandler {
	return &PolicyHandler{Svc: svc, Log: log}
}

func (h *PolicyHandler) Mount(r chi.Router) {
	r.Route("/policies", func(r chi.Router) {
		r.Post("/", h.Emit)
		r.Get("/", h.List)
		r.Get("/{policy_id}", h.Get)
		r.Get("/number/{policy_number}", h.GetByNumber)
	})
}

type emitRequest struct {
	QuoteID string `json:"quote_id"`
}

// Emit issues a policy from a signed quote.
// 201: JSON; 400: bad JSON; 404: quote not found; 409: wrong quote status or already emitted; 500: internal error.
func (h *PolicyHandler) Emit(w http.ResponseWriter, r *http.Request) {
	var in emitRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}
	if in.QuoteID == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Quote ID", "Field quote_id is required.")
		return
	}

	policy, err := h.Svc.EmitFromQuote(r.Context(), in.QuoteID)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(policy); err != nil {
		h.Log.Error("failed to encode policy", "err", err)
	}
}

// Get retrieves a policy by ID.
// 200: JSON; 400: missing ID; 404: not found; 500: internal error.
func (h *PolicyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "policy_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Policy ID", "Path parameter policy_id is required.")
		return
	}

	policy, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get policy")
		return
	}

	if err := json.NewEncoder(w).Encode(policy); err != nil {
		h.Log.Error("failed to encode policy", "policy_id", id, "err", err)
	}
}

// GetByNumber retrieves a policy by its contract number.
// 200: JSON; 400: missing number; 404: not found; 500: internal error.
func (h *PolicyHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "policy_number")
	if number == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Policy Number", "Path parameter policy_number is required.")
		return
	}

	policy, err := h.Svc.GetByNumber(r.Context(), number)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get policy")
		return
	}

	if err := json.NewEncoder(w).Encode(policy); err != nil {
		h.Log.Error("failed to encode policy", "policy_number", number, "err", err)
	}
}

type policyListResponse struct {
	Policies []core.Policy `json:"policies"`
	Total    int64         `json:"total"`
}

// List returns policies with pagination.
// 200: JSON; 500: internal error.
func (h *PolicyHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := core.PolicyFilter{
		ContactID: r.URL.Query().Get("contact_id"),
		Status:    core.PolicyStatus(r.URL.Query().Get("status")),
	}
	limit, offset := 0, 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			offset = n
		}
	}

	policies, total, err := h.Svc.List(r.Context(), filter, limit, offset)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list policies")
		return
	}

	resp := policyListResponse{Policies: policies, Total: total}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Log.Error("failed to encode policies", "err", err)
	}
}
