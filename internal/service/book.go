package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukerupert/skald/internal/domain"
)

// BookStore is the persistence surface the catalog service needs.
// *postgres.Store satisfies it.
type BookStore interface {
	CreateBook(ctx context.Context, params domain.CreateBookParams) (*domain.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, params domain.UpdateBookParams) (*domain.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
}

// bookService implements domain.BookService.
type bookService struct {
	store BookStore
}

// NewBookService creates a catalog service backed by the given store.
func NewBookService(store BookStore) domain.BookService {
	return &bookService{store: store}
}

func (s *bookService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "book.list", "failed to list books")
	}
	return books, nil
}

func (s *bookService) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	return s.store.GetBook(ctx, id)
}

func (s *bookService) CreateBook(ctx context.Context, params domain.CreateBookParams) (*domain.Book, error) {
	const op = "book.create"

	if params.Title == "" {
		return nil, domain.Invalid(op, "Title is required")
	}
	if params.Author == "" {
		return nil, domain.Invalid(op, "Author is required")
	}
	if params.PriceCents < 0 {
		return nil, domain.Invalid(op, "Price cannot be negative")
	}
	if params.Stock < 0 {
		return nil, domain.Invalid(op, "Stock cannot be negative")
	}

	book, err := s.store.CreateBook(ctx, params)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to create book")
	}
	return book, nil
}

func (s *bookService) UpdateBook(ctx context.Context, id uuid.UUID, params domain.UpdateBookParams) (*domain.Book, error) {
	const op = "book.update"

	if params.PriceCents != nil && *params.PriceCents < 0 {
		return nil, domain.Invalid(op, "Price cannot be negative")
	}
	if params.Stock != nil && *params.Stock < 0 {
		return nil, domain.Invalid(op, "Stock cannot be negative")
	}

	return s.store.UpdateBook(ctx, id, params)
}

// DeleteBook removes a catalog entry. Cart lines and purchase records keep
// their book IDs; the reference simply stops resolving.
func (s *bookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteBook(ctx, id)
}
