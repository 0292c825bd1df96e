package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/skald/internal/domain"
)

const bookColumns = `id, title, author, description, price_cents, stock, published_date, category, created_at, updated_at`

// CreateBook inserts a catalog entry.
func (s *Store) CreateBook(ctx context.Context, params domain.CreateBookParams) (*domain.Book, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO books (title, author, description, price_cents, stock, published_date, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+bookColumns,
		params.Title, params.Author, params.Description, params.PriceCents,
		params.Stock, params.PublishedDate, params.Category,
	)

	book, err := scanBook(row)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return book, nil
}

// GetBook retrieves a single book by ID.
func (s *Store) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	row := s.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)

	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("select book: %w", err)
	}
	return book, nil
}

// ListBooks returns the whole catalog, newest first.
func (s *Store) ListBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := s.db.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("select books: %w", err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *book)
	}
	return books, rows.Err()
}

// UpdateBook applies a partial update; nil fields are left unchanged.
func (s *Store) UpdateBook(ctx context.Context, id uuid.UUID, params domain.UpdateBookParams) (*domain.Book, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE books SET
			title          = COALESCE($2, title),
			author         = COALESCE($3, author),
			description    = COALESCE($4, description),
			price_cents    = COALESCE($5, price_cents),
			stock          = COALESCE($6, stock),
			published_date = COALESCE($7, published_date),
			category       = COALESCE($8, category),
			updated_at     = now()
		WHERE id = $1
		RETURNING `+bookColumns,
		id, params.Title, params.Author, params.Description, params.PriceCents,
		params.Stock, params.PublishedDate, params.Category,
	)

	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("update book: %w", err)
	}
	return book, nil
}

// DeleteBook removes a book from the catalog. Existing cart lines and purchase
// records keep their book_id; listings resolve it to a missing reference.
func (s *Store) DeleteBook(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// ReserveStock atomically decrements a book's stock by quantity if at least
// that much is available, returning the new stock level. The check and the
// decrement are one conditional UPDATE so concurrent reservations can never
// jointly oversell.
//
// When the update matches no row the failure is classified: a missing book
// returns domain.ErrBookNotFound, otherwise a *domain.InsufficientStockError
// carrying the quantity available at the time of the attempt.
func (s *Store) ReserveStock(ctx context.Context, bookID uuid.UUID, quantity int32) (int32, error) {
	var newStock int32
	err := s.db.QueryRow(ctx, `
		UPDATE books
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
		RETURNING stock`,
		bookID, quantity,
	).Scan(&newStock)
	if err == nil {
		return newStock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("reserve stock: %w", err)
	}

	var (
		title     string
		available int32
	)
	err = s.db.QueryRow(ctx, `SELECT title, stock FROM books WHERE id = $1`, bookID).Scan(&title, &available)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrBookNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("select stock after failed reservation: %w", err)
	}

	return 0, &domain.InsufficientStockError{BookID: bookID, Title: title, Available: available}
}

// scanBook reads one book row in bookColumns order.
func scanBook(row pgx.Row) (*domain.Book, error) {
	var b domain.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Description, &b.PriceCents, &b.Stock,
		&b.PublishedDate, &b.Category, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
