package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sahelassur/courtage/internal/core"
	"github.com/sahelassur/courtage/internal/platform/ids"
	"github.com/sahelassur/courtage/internal/platform/phone"
	"github.com/sahelassur/courtage/pkg/problem"
)

type ContactHandler struct {
	Repo core.ContactRepo
	Log  *slog.Logger

	// PhoneRegion is the default region for national-format numbers.
	PhoneRegion string

	validate *validator.Validate
	clock    clockFunc
}

func NewContactHandler(repo core.ContactRepo, log *slog.Logger, phoneRegion string) *ContactHandler {
	return &ContactHandler{
		Repo:        repo,
		Log:         log,
		PhoneRegion: phoneRegion,
		validate:    validator.New(),
		clock:       defaultClock,
	}
}

func (h *ContactHandler) Mount(r chi.Router) {
	r.Route("/contacts", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.Search)
		r.Get("/{contact_id}", h.Get)
		r.Put("/{contact_id}", h.Update)
	})
}

type contactInput struct {
	Type      string `json:"type" validate:"required,oneof=prospect client"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	City      string `json:"city"`
	Source    string `json:"source"`
}

// Create registers a prospect or client. The phone number is normalized to
// E.164 before storage; an unparseable number is rejected.
// 201: JSON; 400: bad JSON/validation; 409: duplicate; 500: internal error.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in contactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}
	if err := h.validate.Struct(in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}

	normalized, err := phone.Normalize(in.Phone, h.PhoneRegion)
	if err != nil {
		writeError(r.Context(), h.Log, w, fmt.Errorf("%w: invalid phone number", core.ErrValidation), "Phone number could not be parsed.")
		return
	}

	now := h.clock()
	contact := core.ContactRecord{
		ID:        ids.New(),
		Type:      core.ContactType(in.Type),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     normalized,
		Email:     in.Email,
		City:      in.City,
		Source:    in.Source,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Repo.Create(r.Context(), contact); err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to create contact")
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(contact); err != nil {
		h.Log.Error("failed to encode contact", "err", err)
	}
}

// Get retrieves a contact. The optional type query narrows to prospect or
// client.
// 200: JSON; 400: missing ID; 404: not found; 500: internal error.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contact_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Contact ID", "Path parameter contact_id is required.")
		return
	}

	typ := core.ContactType(r.URL.Query().Get("type"))
	contact, err := h.Repo.Get(r.Context(), id, typ)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get contact")
		return
	}

	if err := json.NewEncoder(w).Encode(contact); err != nil {
		h.Log.Error("failed to encode contact", "contact_id", id, "err", err)
	}
}

// Search runs a lead-inbox search over names, phone and email.
// 200: JSON array; 500: internal error.
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	summaries, err := h.Repo.Search(r.Context(), query, limit)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to search contacts")
		return
	}

	if err := json.NewEncoder(w).Encode(summaries); err != nil {
		h.Log.Error("failed to encode contact summaries", "err", err)
	}
}

// Update replaces a contact's editable fields.
// 200: JSON; 400: bad JSON/validation; 404: not found; 500: internal error.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contact_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Contact ID", "Path parameter contact_id is required.")
		return
	}

	var in contactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}
	if err := h.validate.Struct(in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}

	existing, err := h.Repo.Get(r.Context(), id, "")
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get contact")
		return
	}

	normalized, err := phone.Normalize(in.Phone, h.PhoneRegion)
	if err != nil {
		writeError(r.Context(), h.Log, w, fmt.Errorf("%w: invalid phone number", core.ErrValidation), "Phone number could not be parsed.")
		return
	}

	existing.Type = core.ContactType(in.Type)
	existing.FirstName = in.FirstName
	existing.LastName = in.LastName
	existing.Phone = normalized
	existing.Email = in.Email
	existing.City = in.City
	existing.Source = in.Source
	existing.UpdatedAt = h.clock()

	if err := h.Repo.Update(r.Context(), existing); err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to update contact")
		return
	}

	if err := json.NewEncoder(w).Encode(existing); err != nil {
		h.Log.Error("failed to encode contact", "contact_id", id, "err", err)
	}
}
