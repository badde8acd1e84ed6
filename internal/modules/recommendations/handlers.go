package recommendations

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/identity"
)

// Handler handles recommendation HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new recommendation handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "recommendations").Logger(),
	}
}

// HandleGet returns rebalancing suggestions for the current user
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	rec, err := h.service.ForUser(userID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, rec)
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
