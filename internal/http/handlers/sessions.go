package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sahelassur/courtage/internal/core"
	"github.com/sahelassur/courtage/pkg/problem"
)

type SessionHandler struct {
	Svc core.SessionService
	Log *slog.Logger

	// PhoneRegion is the default region for phone fields in client patches.
	PhoneRegion string
}

func NewSessionHandler(svc core.SessionService, log *slog.Logger, phoneRegion string) *SessionHandler {
	return &SessionHandler{Svc: svc, Log: log, PhoneRegion: phoneRegion}
}

func (h *SessionHandler) Mount(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{session_id}", h.Get)
		r.Delete("/{session_id}", h.Delete)
		r.Post("/{session_id}/actions", h.Dispatch)
		r.Post("/{session_id}/seed", h.Seed)
		r.Get("/{session_id}/underwriting", h.Underwriting)
	})
}

// Create opens a new guided-sales session at the product step.
// 201: JSON; 500: internal error.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Svc.Create(r.Context())
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to create session")
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(sess); err != nil {
		h.Log.Error("failed to encode session", "err", err)
	}
}

// Get retrieves a session with its full wizard state.
// 200: JSON; 400: missing ID; 404: not found; 500: internal error.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Session ID", "Path parameter session_id is required.")
		return
	}

	sess, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get session")
		return
	}

	if err := json.NewEncoder(w).Encode(sess); err != nil {
		h.Log.Error("failed to encode session", "session_id", id, "err", err)
	}
}

// Dispatch applies a batch of wizard actions in order and returns the
// resulting session. An unknown action type rejects the whole batch.
// 200: JSON; 400: bad JSON/unknown action; 404: not found; 500: internal error.
func (h *SessionHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Session ID", "Path parameter session_id is required.")
		return
	}

	var envelopes []actionEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelopes); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}
	if len(envelopes) == 0 {
		problem.Write(w, http.StatusBadRequest, "Empty Batch", "At least one action is required.")
		return
	}

	actions := make([]core.Action, 0, len(envelopes))
	for _, env := range envelopes {
		act, err := decodeAction(env, h.PhoneRegion)
		if err != nil {
			writeError(r.Context(), h.Log, w, err, err.Error())
			return
		}
		actions = append(actions, act)
	}

	sess, err := h.Svc.Dispatch(r.Context(), id, actions...)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	if err := json.NewEncoder(w).Encode(sess); err != nil {
		h.Log.Error("failed to encode session", "session_id", id, "err", err)
	}
}

type seedRequest struct {
	ContactID   string           `json:"contact_id"`
	ContactType core.ContactType `json:"contact_type"`
}

// Seed patches client identification from a contact record.
// 200: JSON; 400: bad JSON; 404: session or contact not found; 500: internal error.
func (h *SessionHandler) Seed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Session ID", "Path parameter session_id is required.")
		return
	}

	var in seedRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}
	if in.ContactID == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Contact ID", "Field contact_id is required.")
		return
	}

	sess, err := h.Svc.SeedFromContact(r.Context(), id, in.ContactID, in.ContactType)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	if err := json.NewEncoder(w).Encode(sess); err != nil {
		h.Log.Error("failed to encode session", "session_id", id, "err", err)
	}
}

type underwritingResponse struct {
	Rules       []core.UnderwritingRule `json:"rules"`
	Status      core.RuleStatus         `json:"status"`
	CanValidate bool                    `json:"canValidate"`
}

// Underwriting evaluates the rule verdicts over the session's current state.
// 200: JSON; 400: missing ID; 404: not found; 500: internal error.
func (h *SessionHandler) Underwriting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Session ID", "Path parameter session_id is required.")
		return
	}

	sess, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get session")
		return
	}

	rules := core.EvaluateUnderwritingRules(sess.State)
	resp := underwritingResponse{
		Rules:       rules,
		Status:      core.AggregateStatus(rules),
		CanValidate: core.CanValidate(rules, sess.State.Underwriting.DocumentsProvided),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Log.Error("failed to encode underwriting verdict", "session_id", id, "err", err)
	}
}

// Delete discards an in-progress session. Saved quotes survive.
// 204: empty; 400: missing ID; 404: not found; 500: internal error.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Session ID", "Path parameter session_id is required.")
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
