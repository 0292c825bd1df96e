package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Book-related domain errors.
var (
	ErrBookNotFound = &Error{Code: ENOTFOUND, Message: "Book not found"}
)

// Book represents a catalog entry.
//
// Stock is decremented only by the stock ledger's conditional reservation at
// checkout time; catalog updates may restock it but checkout never sets it
// directly.
type Book struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Description   string     `json:"description,omitempty"`
	PriceCents    int32      `json:"priceCents"`
	Stock         int32      `json:"stock"`
	PublishedDate *time.Time `json:"publishedDate,omitempty"`
	Category      string     `json:"category,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CreateBookParams contains the fields accepted when creating a book.
type CreateBookParams struct {
	Title         string
	Author        string
	Description   string
	PriceCents    int32
	Stock         int32
	PublishedDate *time.Time
	Category      string
}

// UpdateBookParams contains optional fields for a book update.
// Nil pointers mean "leave unchanged".
type UpdateBookParams struct {
	Title         *string
	Author        *string
	Description   *string
	PriceCents    *int32
	Stock         *int32
	PublishedDate *time.Time
	Category      *string
}

// BookService provides business logic for catalog operations.
type BookService interface {
	ListBooks(ctx context.Context) ([]Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*Book, error)
	CreateBook(ctx context.Context, params CreateBookParams) (*Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, params UpdateBookParams) (*Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
}
