package simulation

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/domain"
	"github.com/wealthlens/wealthlens/internal/events"
	"github.com/wealthlens/wealthlens/internal/identity"
)

// Handler handles simulation HTTP requests
type Handler struct {
	repo   *Repository
	events *events.Manager
	log    zerolog.Logger
}

// NewHandler creates a new simulation handler
func NewHandler(repo *Repository, eventBus *events.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		events: eventBus,
		log:    log.With().Str("handler", "simulations").Logger(),
	}
}

// Routes mounts the simulation routes
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGet)
	r.Delete("/{id}", h.HandleDelete)
}

// HandleCreate validates, runs and stores a new scenario
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.ScenarioName) == "" {
		h.writeValidationError(w, domain.Invalid("scenario_name", "is required"))
		return
	}

	assumptions := Assumptions{
		InitialAmount:       req.InitialAmount,
		MonthlyContribution: req.MonthlyContribution,
		TimeHorizonYears:    req.TimeHorizonYears,
		ExpectedReturnRate:  req.ExpectedReturnRate,
		InflationRate:       req.InflationRate,
	}

	results, err := Run(assumptions)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}

	scenario := &Scenario{
		UserID:       userID,
		ScenarioName: strings.TrimSpace(req.ScenarioName),
		Assumptions:  assumptions,
		Results:      results,
	}

	if err := h.repo.Create(scenario); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.events.Emit(events.SimulationRun, "simulations", map[string]interface{}{
		"simulation_id": scenario.ID,
		"scenario_name": scenario.ScenarioName,
		"years":         scenario.Assumptions.TimeHorizonYears,
	})

	h.writeJSON(w, http.StatusCreated, scenario)
}

// HandleList returns the user's scenarios. With ?resolution=annual the
// stored monthly trajectories are down-sampled to yearly points for
// display; the stored data keeps full monthly resolution.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	scenarios, err := h.repo.ListByUser(userID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if scenarios == nil {
		scenarios = []*Scenario{}
	}

	if r.URL.Query().Get("resolution") == "annual" {
		for _, s := range scenarios {
			s.Results.ChartData = DownsampleAnnual(s.Results.ChartData)
		}
	}

	h.writeJSON(w, http.StatusOK, scenarios)
}

// HandleGet returns one scenario
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid simulation id")
		return
	}

	scenario, err := h.repo.GetByID(userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		h.writeError(w, http.StatusNotFound, "Simulation not found")
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if r.URL.Query().Get("resolution") == "annual" {
		scenario.Results.ChartData = DownsampleAnnual(scenario.Results.ChartData)
	}

	h.writeJSON(w, http.StatusOK, scenario)
}

// HandleDelete removes a scenario
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid simulation id")
		return
	}

	if err := h.repo.Delete(userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.writeError(w, http.StatusNotFound, "Simulation not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Simulation deleted"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) writeValidationError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": vErr.Reason,
			"field": vErr.Field,
		})
		return
	}
	h.writeError(w, http.StatusBadRequest, err.Error())
}
