package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sahelassur/courtage/internal/core"
	"github.com/sahelassur/courtage/pkg/problem"
)

// PricingHandler exposes the calculators for stateless simulation: a broker
// can price a risk without opening a session. Same entry points as the
// wizard's recalculation, so a simulation and a session always agree.
type PricingHandler struct {
	Log *slog.Logger
}

func NewPricingHandler(log *slog.Logger) *PricingHandler {
	return &PricingHandler{Log: log}
}

func (h *PricingHandler) Mount(r chi.Router) {
	r.Route("/pricing", func(r chi.Router) {
		r.Post("/auto", h.Auto)
		r.Post("/obseques", h.Obseques)
	})
}

type autoPricingRequest struct {
	Risk     core.AutoRiskProfile `json:"risk"`
	Coverage core.Coverage        `json:"coverage"`
}

// Auto prices an auto risk.
// 200: JSON breakdown; 400: bad JSON; 500: internal error.
func (h *PricingHandler) Auto(w http.ResponseWriter, r *http.Request) {
	var in autoPricingRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}

	breakdown := core.CalculateAutoPremium(in.Risk, in.Coverage)
	if err := json.NewEncoder(w).Encode(breakdown); err != nil {
		h.Log.Error("failed to encode premium breakdown", "err", err)
	}
}

// Obseques prices a pack obsèques adhesion.
// 200: JSON breakdown; 400: bad JSON; 500: internal error.
func (h *PricingHandler) Obseques(w http.ResponseWriter, r *http.Request) {
	var in core.PackObsequesData
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}

	breakdown := core.CalculatePackObsequesPremium(in)
	if err := json.NewEncoder(w).Encode(breakdown); err != nil {
		h.Log.Error("failed to encode premium breakdown", "err", err)
	}
}
