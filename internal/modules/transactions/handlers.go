package transactions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/domain"
	"github.com/wealthlens/wealthlens/internal/identity"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Handler handles transaction HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new transaction handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "transactions").Logger(),
	}
}

// Routes mounts the transaction routes
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
}

// HandleList returns one page of the ledger, newest first
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	limit := queryInt(r, "limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	page, err := h.service.ListByUser(userID, limit, offset)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, page)
}

// HandleCreate records a trade and applies it to the position
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := identity.FromContext(r.Context())

	tx, err := h.decodeTransaction(r)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}

	result, err := h.service.Apply(userID, tx)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			h.writeValidationError(w, err)
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, result)
}

// decodeTransaction parses and validates the trade payload
func (h *Handler) decodeTransaction(r *http.Request) (domain.Transaction, error) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return domain.Transaction{}, domain.Invalid("body", "invalid JSON")
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		return domain.Transaction{}, domain.Invalid("symbol", "is required")
	}

	txType := domain.TransactionType(req.Type)
	if txType != domain.TxBuy && txType != domain.TxSell {
		return domain.Transaction{}, domain.Invalid("type", "must be buy or sell")
	}

	assetType := domain.AssetType(req.AssetType)
	if assetType == "" {
		assetType = domain.AssetStock
	}
	switch assetType {
	case domain.AssetStock, domain.AssetETF, domain.AssetMutualFund, domain.AssetBond, domain.AssetCash:
	default:
		return domain.Transaction{}, domain.Invalid("asset_type", "must be stock, etf, mutual_fund, bond or cash")
	}

	if req.Quantity <= 0 {
		return domain.Transaction{}, domain.Invalid("quantity", "must be greater than zero")
	}
	if req.Price < 0 {
		return domain.Transaction{}, domain.Invalid("price", "must not be negative")
	}
	if req.Fees < 0 {
		return domain.Transaction{}, domain.Invalid("fees", "must not be negative")
	}

	var executedAt time.Time
	if req.ExecutedAt != "" {
		var err error
		executedAt, err = time.Parse(time.RFC3339, req.ExecutedAt)
		if err != nil {
			return domain.Transaction{}, domain.Invalid("executed_at", "must be RFC 3339")
		}
	}

	return domain.Transaction{
		Symbol:     req.Symbol,
		AssetType:  assetType,
		Type:       txType,
		Quantity:   req.Quantity,
		Price:      req.Price,
		Fees:       req.Fees,
		ExecutedAt: executedAt,
	}, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
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
