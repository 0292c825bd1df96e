package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/skald/internal/domain"
)

// PurchaseHandler handles checkout and the purchase query routes.
type PurchaseHandler struct {
	checkout  domain.CheckoutService
	purchases domain.PurchaseService
	logger    *slog.Logger
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(checkout domain.CheckoutService, purchases domain.PurchaseService, logger *slog.Logger) *PurchaseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PurchaseHandler{checkout: checkout, purchases: purchases, logger: logger}
}

// Checkout handles POST /api/purchases
//
// The whole cart is purchased in one transaction; on success the response is
// 201 with one purchase record per cart line.
func (h *PurchaseHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserIDFromContext(r.Context())

	purchases, err := h.checkout.Checkout(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.logger.Info("checkout completed",
		slog.String("user_id", userID.String()),
		slog.Int("purchases", len(purchases)),
	)

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":   "Purchase successful",
		"purchases": purchases,
	})
}

// ListMine handles GET /api/purchases
func (h *PurchaseHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.purchases.ListMine(r.Context(), domain.UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"purchases": purchases})
}

// ListAll handles GET /api/admin/purchases?limit=50&offset=0
func (h *PurchaseHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	params, err := parseListAllParams(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	purchases, err := h.purchases.ListAll(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"purchases": purchases})
}

func parseListAllParams(r *http.Request) (domain.ListAllParams, error) {
	var params domain.ListAllParams

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return params, domain.Invalid("purchase.list_all", "Invalid limit")
		}
		params.Limit = int32(limit)
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return params, domain.Invalid("purchase.list_all", "Invalid offset")
		}
		params.Offset = int32(offset)
	}
	return params, nil
}
