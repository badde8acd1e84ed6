package risk

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/domain"
	"github.com/wealthlens/wealthlens/internal/identity"
)

// Handler handles risk questionnaire HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new risk handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "risk").Logger(),
	}
}

// Routes mounts the risk routes
func (h *Handler) Routes(r chi.Router) {
	r.Get("/questions", h.HandleQuestions)
	r.Post("/assessment", h.HandleAssessment)
}

// HandleQuestions returns the questionnaire without revealing scores
func (h *Handler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.ListQuestions()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if questions == nil {
		questions = []Question{}
	}

	h.writeJSON(w, http.StatusOK, questions)
}

// HandleAssessment scores a submitted questionnaire
func (h *Handler) HandleAssessment(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	var req AssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.Answers) == 0 {
		h.writeError(w, http.StatusBadRequest, "answers are required")
		return
	}

	assessment, err := h.service.Assess(userID, req.Answers)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": vErr.Reason,
				"field": vErr.Field,
			})
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, assessment)
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
