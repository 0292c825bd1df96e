package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/skald/internal/domain"
)

// InsertPurchase appends one purchase record. Purchases are immutable: there
// is no update or delete counterpart.
func (s *Store) InsertPurchase(ctx context.Context, userID, bookID uuid.UUID, quantity int32) (*domain.Purchase, error) {
	var p domain.Purchase
	err := s.db.QueryRow(ctx, `
		INSERT INTO purchases (user_id, book_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, book_id, quantity, purchase_date`,
		userID, bookID, quantity,
	).Scan(&p.ID, &p.UserID, &p.BookID, &p.Quantity, &p.PurchaseDate)
	if err != nil {
		return nil, fmt.Errorf("insert purchase: %w", err)
	}
	return &p, nil
}

// ListPurchasesByUser returns a user's purchases with book references
// resolved, most recent first.
func (s *Store) ListPurchasesByUser(ctx context.Context, userID uuid.UUID) ([]domain.PurchaseDetail, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.user_id, p.book_id, p.quantity, p.purchase_date,
		       b.id, b.title, b.author, b.price_cents, b.category
		FROM purchases p
		LEFT JOIN books b ON b.id = p.book_id
		WHERE p.user_id = $1
		ORDER BY p.purchase_date DESC, p.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select purchases: %w", err)
	}
	defer rows.Close()

	var details []domain.PurchaseDetail
	for rows.Next() {
		detail, err := scanPurchaseDetail(rows, false)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, rows.Err()
}

// ListAllPurchases returns purchases across all users with book and user
// references resolved, most recent first, bounded by limit/offset.
func (s *Store) ListAllPurchases(ctx context.Context, limit, offset int32) ([]domain.PurchaseDetail, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.user_id, p.book_id, p.quantity, p.purchase_date,
		       b.id, b.title, b.author, b.price_cents, b.category,
		       u.id, u.name, u.email, u.role
		FROM purchases p
		LEFT JOIN books b ON b.id = p.book_id
		LEFT JOIN users u ON u.id = p.user_id
		ORDER BY p.purchase_date DESC, p.id DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("select all purchases: %w", err)
	}
	defer rows.Close()

	var details []domain.PurchaseDetail
	for rows.Next() {
		detail, err := scanPurchaseDetail(rows, true)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, rows.Err()
}

// scanPurchaseDetail reads one joined purchase row. The book (and user, when
// withUser is set) columns are nullable through the LEFT JOINs; a deleted
// reference leaves the pointer nil.
func scanPurchaseDetail(rows pgx.Rows, withUser bool) (*domain.PurchaseDetail, error) {
	var (
		detail domain.PurchaseDetail

		bookID     *uuid.UUID
		bookTitle  *string
		bookAuthor *string
		bookPrice  *int32
		bookCat    *string

		userID    *uuid.UUID
		userName  *string
		userEmail *string
		userRole  *string
	)

	targets := []any{
		&detail.ID, &detail.UserID, &detail.BookID, &detail.Quantity, &detail.PurchaseDate,
		&bookID, &bookTitle, &bookAuthor, &bookPrice, &bookCat,
	}
	if withUser {
		targets = append(targets, &userID, &userName, &userEmail, &userRole)
	}

	if err := rows.Scan(targets...); err != nil {
		return nil, fmt.Errorf("scan purchase: %w", err)
	}

	if bookID != nil {
		detail.Book = &domain.Book{
			ID:         *bookID,
			Title:      deref(bookTitle),
			Author:     deref(bookAuthor),
			PriceCents: derefInt32(bookPrice),
			Category:   deref(bookCat),
		}
	}
	if withUser && userID != nil {
		detail.User = &domain.User{
			ID:    *userID,
			Name:  deref(userName),
			Email: deref(userEmail),
			Role:  domain.Role(deref(userRole)),
		}
	}
	return &detail, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt32(i *int32) int32 {
	if i == nil {
		return 0
	}
	return *i
}
