package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Cart-related domain errors.
var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Book not in cart"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
)

// Cart represents a user's shopping cart with its line items.
// One cart per user, created lazily on first add; emptied (not deleted) on
// successful checkout.
type Cart struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem is a cart line with its book reference resolved.
// A book appears at most once per cart; adding an existing book merges into the
// line's quantity.
type CartItem struct {
	BookID   uuid.UUID `json:"bookId"`
	Quantity int32     `json:"quantity"`
	Book     *Book     `json:"book,omitempty"` // nil if the book was deleted
	AddedAt  time.Time `json:"addedAt"`
}

// CartSnapshot is a read-only view of a cart taken at checkout time. Book
// references are resolved for error messaging only; the checkout-time stock
// reservation is the sole authority on availability.
type CartSnapshot struct {
	CartID uuid.UUID
	UserID uuid.UUID
	Lines  []SnapshotLine
}

// SnapshotLine is one cart line in a checkout snapshot, in the cart's stored
// insertion order.
type SnapshotLine struct {
	BookID   uuid.UUID
	Quantity int32

	// Resolved book fields at read time. BookTitle and BookStock feed failure
	// messages; Missing marks a line whose book no longer exists.
	BookTitle string
	BookStock int32
	Missing   bool
}

// Empty reports whether the snapshot has nothing to purchase.
func (s *CartSnapshot) Empty() bool {
	return s == nil || len(s.Lines) == 0
}

// TotalQuantity sums all line quantities.
func (s *CartSnapshot) TotalQuantity() int32 {
	var total int32
	for _, line := range s.Lines {
		total += line.Quantity
	}
	return total
}

// CartService provides business logic for shopping cart operations.
//
// The stock checks performed here are optimistic: they compare the requested
// quantity against the stock visible at call time and can go stale before
// checkout. The checkout-time reservation is authoritative.
type CartService interface {
	// GetCart retrieves the user's cart. A user without a cart gets an empty
	// view rather than an error.
	GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// AddItem adds a book to the cart, creating the cart if needed. Adding a
	// book already in the cart increases that line's quantity.
	AddItem(ctx context.Context, userID, bookID uuid.UUID, quantity int32) (*Cart, error)

	// UpdateItem sets the quantity of an existing line. A quantity of zero or
	// less removes the line.
	UpdateItem(ctx context.Context, userID, bookID uuid.UUID, quantity int32) (*Cart, error)

	// RemoveItem removes a book from the cart.
	RemoveItem(ctx context.Context, userID, bookID uuid.UUID) (*Cart, error)
}
