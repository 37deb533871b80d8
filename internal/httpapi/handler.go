package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/cartstore-demo/internal/domain"
	"github.com/nikolayk812/cartstore-demo/internal/notify"
	"github.com/nikolayk812/cartstore-demo/internal/port"
	"github.com/nikolayk812/cartstore-demo/internal/service"
	"github.com/nikolayk812/cartstore-demo/internal/view"
	"go.uber.org/zap"
)

type CartStore interface {
	Cart() domain.Cart
	AddProduct(ctx context.Context, productID int64) service.Outcome
	RemoveProduct(ctx context.Context, productID int64) service.Outcome
	UpdateProductAmount(ctx context.Context, productID int64, amount int) service.Outcome
	StepProductAmount(ctx context.Context, productID int64, delta int) service.Outcome
}

type Notifications interface {
	Drain() []notify.Notification
}

type Handler struct {
	store         CartStore
	catalog       port.Catalog
	notifications Notifications
	formatter     view.Formatter
	logger        *zap.Logger
}

func NewHandler(store CartStore, catalog port.Catalog, notifications Notifications, formatter view.Formatter, logger *zap.Logger) *Handler {
	return &Handler{
		store:         store,
		catalog:       catalog,
		notifications: notifications,
		formatter:     formatter,
		logger:        logger,
	}
}

func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.logger.Warn("catalog unavailable", zap.Error(err))
		respondError(w, h.logger, http.StatusBadGateway, "catalog_unavailable", "could not load products")
		return
	}

	entries := view.Catalog(products, h.store.Cart(), h.formatter)
	respondJSON(w, h.logger, http.StatusOK, mapCatalogToDTO(entries))
}

func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	page := view.Cart(h.store.Cart(), h.formatter)
	respondJSON(w, h.logger, http.StatusOK, mapCartPageToDTO(page))
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	h.respondOutcome(w, h.store.AddProduct(r.Context(), productID))
}

func (h *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	h.respondOutcome(w, h.store.RemoveProduct(r.Context(), productID))
}

func (h *Handler) UpdateProductAmount(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req updateAmountRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount == nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "body must be {\"amount\": <int>}")
		return
	}

	h.respondOutcome(w, h.store.UpdateProductAmount(r.Context(), productID, *req.Amount))
}

func (h *Handler) Increment(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, 1)
}

// Decrement never removes: at amount 1 it hits the amount guard and is a no-op.
func (h *Handler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, -1)
}

func (h *Handler) step(w http.ResponseWriter, r *http.Request, delta int) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	h.respondOutcome(w, h.store.StepProductAmount(r.Context(), productID, delta))
}

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, mapNotificationsToDTO(h.notifications.Drain()))
}

func (h *Handler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return 0, false
	}

	return productID, true
}

// respondOutcome always answers 200: cart failures terminate in the store
// and are reported through notifications.
func (h *Handler) respondOutcome(w http.ResponseWriter, outcome service.Outcome) {
	respondJSON(w, h.logger, http.StatusOK, mapOutcomeToDTO(outcome, h.formatter))
}

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, logger *zap.Logger, status int, code, details string) {
	respondJSON(w, logger, status, errorResponseDTO{Error: code, Details: details})
}
