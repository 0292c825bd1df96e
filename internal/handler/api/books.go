package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/skald/internal/domain"
)

// BookHandler handles catalog routes.
type BookHandler struct {
	books  domain.BookService
	logger *slog.Logger
}

// NewBookHandler creates a new catalog handler.
func NewBookHandler(books domain.BookService, logger *slog.Logger) *BookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookHandler{books: books, logger: logger}
}

type createBookRequest struct {
	Title         string     `json:"title" validate:"required"`
	Author        string     `json:"author" validate:"required"`
	Description   string     `json:"description"`
	PriceCents    int32      `json:"priceCents" validate:"gte=0"`
	Stock         int32      `json:"stock" validate:"gte=0"`
	PublishedDate *time.Time `json:"publishedDate"`
	Category      string     `json:"category"`
}

type updateBookRequest struct {
	Title         *string    `json:"title"`
	Author        *string    `json:"author"`
	Description   *string    `json:"description"`
	PriceCents    *int32     `json:"priceCents" validate:"omitempty,gte=0"`
	Stock         *int32     `json:"stock" validate:"omitempty,gte=0"`
	PublishedDate *time.Time `json:"publishedDate"`
	Category      *string    `json:"category"`
}

// List handles GET /api/books
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.ListBooks(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"books": books})
}

// Get handles GET /api/books/{id}
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	book, err := h.books.GetBook(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, book)
}

// Create handles POST /api/admin/books
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	book, err := h.books.CreateBook(r.Context(), domain.CreateBookParams{
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		PriceCents:    req.PriceCents,
		Stock:         req.Stock,
		PublishedDate: req.PublishedDate,
		Category:      req.Category,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, book)
}

// Update handles PATCH /api/admin/books/{id}
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	book, err := h.books.UpdateBook(r.Context(), id, domain.UpdateBookParams{
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		PriceCents:    req.PriceCents,
		Stock:         req.Stock,
		PublishedDate: req.PublishedDate,
		Category:      req.Category,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, book)
}

// Delete handles DELETE /api/admin/books/{id}
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.books.DeleteBook(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Book deleted"})
}
