package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/skald/internal/domain"
)

// GetCartByUserID loads a user's cart with each line's book reference
// resolved. Lines come back in insertion order. A missing book leaves the
// line's Book nil.
func (s *Store) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	var cart domain.Cart
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`,
		userID,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select cart: %w", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT ci.book_id, ci.quantity, ci.created_at,
		       b.id, b.title, b.author, b.price_cents, b.stock, b.category
		FROM cart_items ci
		LEFT JOIN books b ON b.id = ci.book_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at, ci.id`,
		cart.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var (
			item domain.CartItem

			// book columns are nullable through the LEFT JOIN
			bookID     *uuid.UUID
			bookTitle  *string
			bookAuthor *string
			bookPrice  *int32
			bookStock  *int32
			bookCat    *string
		)
		err := rows.Scan(
			&item.BookID, &item.Quantity, &item.AddedAt,
			&bookID, &bookTitle, &bookAuthor, &bookPrice, &bookStock, &bookCat,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		if bookID != nil {
			item.Book = &domain.Book{
				ID:         *bookID,
				Title:      deref(bookTitle),
				Author:     deref(bookAuthor),
				PriceCents: derefInt32(bookPrice),
				Stock:      derefInt32(bookStock),
				Category:   deref(bookCat),
			}
		}
		cart.Items = append(cart.Items, item)
	}
	return &cart, rows.Err()
}

// GetOrCreateCart returns the ID of the user's cart, creating the cart row if
// it does not exist yet. The upsert makes lazy creation safe under concurrent
// first adds.
func (s *Store) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var cartID uuid.UUID
	err := s.db.QueryRow(ctx, `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id`,
		userID,
	).Scan(&cartID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert cart: %w", err)
	}
	return cartID, nil
}

// SetCartItem sets the quantity of a cart line, inserting the line if the book
// is not in the cart yet. The unique (cart_id, book_id) constraint keeps one
// line per book.
func (s *Store) SetCartItem(ctx context.Context, cartID, bookID uuid.UUID, quantity int32) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO cart_items (cart_id, book_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, book_id) DO UPDATE SET quantity = EXCLUDED.quantity`,
		cartID, bookID, quantity,
	)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

// RemoveCartItem deletes a cart line, reporting whether a line existed.
func (s *Store) RemoveCartItem(ctx context.Context, cartID, bookID uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND book_id = $2`,
		cartID, bookID,
	)
	if err != nil {
		return false, fmt.Errorf("delete cart item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ClearCartItems empties a cart without deleting the cart itself.
func (s *Store) ClearCartItems(ctx context.Context, cartID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	_, err = s.db.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}

// GetCartForCheckout takes a read-only snapshot of the user's cart with book
// title and stock resolved for error messaging. A user without a cart gets an
// empty snapshot; the stock values are advisory only, the conditional
// reservation decides availability.
func (s *Store) GetCartForCheckout(ctx context.Context, userID uuid.UUID) (*domain.CartSnapshot, error) {
	snapshot := &domain.CartSnapshot{UserID: userID}

	err := s.db.QueryRow(ctx, `SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&snapshot.CartID)
	if errors.Is(err, pgx.ErrNoRows) {
		return snapshot, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select cart: %w", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT ci.book_id, ci.quantity, b.title, b.stock
		FROM cart_items ci
		LEFT JOIN books b ON b.id = ci.book_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at, ci.id`,
		snapshot.CartID,
	)
	if err != nil {
		return nil, fmt.Errorf("select cart lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line  domain.SnapshotLine
			title *string
			stock *int32
		)
		if err := rows.Scan(&line.BookID, &line.Quantity, &title, &stock); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		if title == nil {
			line.Missing = true
		} else {
			line.BookTitle = *title
			line.BookStock = *stock
		}
		snapshot.Lines = append(snapshot.Lines, line)
	}
	return snapshot, rows.Err()
}
