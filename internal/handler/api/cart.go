package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/skald/internal/domain"
)

// CartHandler handles the authenticated user's shopping cart routes.
type CartHandler struct {
	carts  domain.CartService
	logger *slog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts domain.CartService, logger *slog.Logger) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{carts: carts, logger: logger}
}

type addCartItemRequest struct {
	BookID   uuid.UUID `json:"bookId" validate:"required"`
	Quantity int32     `json:"quantity" validate:"required,gt=0"`
}

type updateCartItemRequest struct {
	Quantity int32 `json:"quantity" validate:"gte=0"`
}

// Get handles GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.GetCart(r.Context(), domain.UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	cart, err := h.carts.AddItem(r.Context(), domain.UserIDFromContext(r.Context()), req.BookID, req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// UpdateItem handles PUT /api/cart/items/{bookId}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathUUID(r, "bookId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	cart, err := h.carts.UpdateItem(r.Context(), domain.UserIDFromContext(r.Context()), bookID, req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/{bookId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathUUID(r, "bookId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), domain.UserIDFromContext(r.Context()), bookID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}
