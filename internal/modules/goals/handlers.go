package goals

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/domain"
	"github.com/wealthlens/wealthlens/internal/events"
	"github.com/wealthlens/wealthlens/internal/identity"
)

// Handler handles goal HTTP requests
type Handler struct {
	repo   *Repository
	events *events.Manager
	log    zerolog.Logger
}

// NewHandler creates a new goal handler
func NewHandler(repo *Repository, eventBus *events.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		events: eventBus,
		log:    log.With().Str("handler", "goals").Logger(),
	}
}

// Routes mounts the goal routes
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}

// HandleList returns all goals for the current user
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	goals, err := h.repo.ListByUser(userID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if goals == nil {
		goals = []domain.Goal{}
	}

	h.writeJSON(w, http.StatusOK, goals)
}

// HandleGet returns one goal, regardless of status
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	goalID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	goal, err := h.repo.GetByID(userID, goalID)
	if errors.Is(err, sql.ErrNoRows) {
		h.writeError(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, goal)
}

// HandleCreate creates a new goal
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	goal, err := h.decodeGoal(r)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}
	goal.UserID = userID

	if err := h.repo.Create(goal); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.events.Emit(events.GoalCreated, "goals", map[string]interface{}{
		"goal_id":       goal.ID,
		"goal_type":     goal.GoalType,
		"target_amount": goal.TargetAmount,
	})

	h.writeJSON(w, http.StatusCreated, goal)
}

// HandleUpdate updates an existing goal
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	goalID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	goal, err := h.decodeGoal(r)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}
	goal.ID = goalID
	goal.UserID = userID

	if err := h.repo.Update(goal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.writeError(w, http.StatusNotFound, "Goal not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.events.Emit(events.GoalUpdated, "goals", map[string]interface{}{
		"goal_id": goal.ID,
		"status":  string(goal.Status),
	})

	h.writeJSON(w, http.StatusOK, goal)
}

// HandleDelete removes a goal
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	goalID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	if err := h.repo.Delete(userID, goalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.writeError(w, http.StatusNotFound, "Goal not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.events.Emit(events.GoalDeleted, "goals", map[string]interface{}{
		"goal_id": goalID,
	})

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted"})
}

// decodeGoal parses and validates the upsert payload
func (h *Handler) decodeGoal(r *http.Request) (*domain.Goal, error) {
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, domain.Invalid("body", "invalid JSON")
	}

	if req.GoalType == "" {
		return nil, domain.Invalid("goal_type", "is required")
	}
	if req.TargetAmount <= 0 {
		return nil, domain.Invalid("target_amount", "must be greater than zero")
	}
	if req.MonthlyContribution < 0 {
		return nil, domain.Invalid("monthly_contribution", "must not be negative")
	}

	targetDate, err := time.Parse("2006-01-02", req.TargetDate)
	if err != nil {
		return nil, domain.Invalid("target_date", "must be YYYY-MM-DD")
	}

	status := domain.GoalStatus(req.Status)
	if status == "" {
		status = domain.GoalActive
	}
	switch status {
	case domain.GoalActive, domain.GoalPaused, domain.GoalCompleted:
	default:
		return nil, domain.Invalid("status", "must be active, paused or completed")
	}

	return &domain.Goal{
		GoalType:            req.GoalType,
		TargetAmount:        req.TargetAmount,
		TargetDate:          targetDate,
		MonthlyContribution: req.MonthlyContribution,
		Status:              status,
	}, nil
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
