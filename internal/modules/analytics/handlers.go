package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/identity"
	"github.com/wealthlens/wealthlens/internal/modules/history"
)

const defaultTrendWindow = 7

// Handler handles analytics HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "analytics").Logger(),
	}
}

// Routes mounts the dashboard surface: the aggregate payload at the
// root and one route per section.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.HandleDashboard)
	r.Get("/history", h.HandleHistory)
	r.Get("/history/trend", h.HandleTrend)
	r.Get("/summary", h.HandleSummary)
	r.Get("/allocation", h.HandleAllocation)
	r.Get("/goals-progress", h.HandleGoalsProgress)
	r.Get("/metrics", h.HandleMetrics)
}

// HandleDashboard returns the aggregate landing-view payload
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())
	period := history.ParsePeriod(r.URL.Query().Get("period"))

	h.writeJSON(w, http.StatusOK, h.service.Dashboard(userID, period, time.Now().UTC()))
}

// HandleHistory returns growth-chart points for a period
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())
	period := history.ParsePeriod(r.URL.Query().Get("period"))

	points, err := h.service.Chart(userID, period, time.Now().UTC())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if points == nil {
		points = []history.Point{}
	}

	h.writeJSON(w, http.StatusOK, points)
}

// HandleTrend returns the chart with a moving-average overlay
func (h *Handler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	window := defaultTrendWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 2 {
			window = v
		}
	}

	points, err := h.service.Trend(userID, window, time.Now().UTC())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if points == nil {
		points = []history.TrendPoint{}
	}

	h.writeJSON(w, http.StatusOK, points)
}

// HandleSummary returns the period-scoped invested/current pair
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())
	period := history.ParsePeriod(r.URL.Query().Get("period"))

	summary, err := h.service.Summary(userID, period, time.Now().UTC())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

// HandleAllocation returns the pie chart slices per asset type
func (h *Handler) HandleAllocation(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	alloc, err := h.service.Allocation(userID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, alloc)
}

// HandleGoalsProgress returns progress for every active goal
func (h *Handler) HandleGoalsProgress(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	progress, err := h.service.GoalsProgress(userID, time.Now().UTC())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, progress)
}

// HandleMetrics returns risk and performance statistics
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	metrics, err := h.service.Metrics(userID, time.Now().UTC())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, metrics)
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
