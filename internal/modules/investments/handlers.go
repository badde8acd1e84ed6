package investments

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
	"github.com/wealthlens/wealthlens/internal/identity"
)

// Handler handles investment HTTP requests
type Handler struct {
	repo    *Repository
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new investment handler
func NewHandler(repo *Repository, service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		repo:    repo,
		service: service,
		log:     log.With().Str("handler", "investments").Logger(),
	}
}

// Routes mounts the investment routes
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/summary", h.HandleSummary)
	r.Post("/refresh-prices", h.HandleRefreshPrices)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}

// HandleList returns all holdings for the current user
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	holdings, err := h.repo.ListByUser(userID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if holdings == nil {
		holdings = []domain.Investment{}
	}

	h.writeJSON(w, http.StatusOK, holdings)
}

// HandleSummary returns aggregated portfolio totals
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	summary, err := h.service.Summarize(userID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

// HandleRefreshPrices re-quotes every non-cash holding
func (h *Handler) HandleRefreshPrices(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	result, err := h.service.RefreshPrices(r.Context(), userID)
	if err != nil {
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleGet returns one holding
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	investmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid investment id")
		return
	}

	inv, err := h.repo.GetByID(userID, investmentID)
	if errors.Is(err, sql.ErrNoRows) {
		h.writeError(w, http.StatusNotFound, "Investment not found")
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, inv)
}

// HandleCreate creates a new holding
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	inv, err := h.decodeInvestment(r)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}
	inv.UserID = userID

	if err := h.repo.Create(inv); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, inv)
}

// HandleUpdate updates an existing holding
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	investmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid investment id")
		return
	}

	inv, err := h.decodeInvestment(r)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}
	inv.ID = investmentID
	inv.UserID = userID

	if err := h.repo.Update(inv); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.writeError(w, http.StatusNotFound, "Investment not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, inv)
}

// HandleDelete removes a holding
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	investmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid investment id")
		return
	}

	if err := h.repo.Delete(userID, investmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.writeError(w, http.StatusNotFound, "Investment not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Investment deleted"})
}

// decodeInvestment parses and validates the upsert payload
func (h *Handler) decodeInvestment(r *http.Request) (*domain.Investment, error) {
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, domain.Invalid("body", "invalid JSON")
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		return nil, domain.Invalid("symbol", "is required")
	}

	assetType := domain.AssetType(req.AssetType)
	switch assetType {
	case domain.AssetStock, domain.AssetETF, domain.AssetMutualFund, domain.AssetBond, domain.AssetCash:
	default:
		return nil, domain.Invalid("asset_type", "must be stock, etf, mutual_fund, bond or cash")
	}

	if req.Units <= 0 {
		return nil, domain.Invalid("units", "must be greater than zero")
	}
	if req.AvgBuyPrice < 0 {
		return nil, domain.Invalid("avg_buy_price", "must not be negative")
	}
	if req.CurrentValue < 0 {
		return nil, domain.Invalid("current_value", "must not be negative")
	}

	costBasis := valueAt(req.Units, req.AvgBuyPrice)
	currentValue := req.CurrentValue
	if currentValue == 0 {
		currentValue = costBasis
	}

	return &domain.Investment{
		GoalID:       req.GoalID,
		Symbol:       req.Symbol,
		AssetType:    assetType,
		Units:        req.Units,
		AvgBuyPrice:  req.AvgBuyPrice,
		CostBasis:    costBasis,
		CurrentValue: currentValue,
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
