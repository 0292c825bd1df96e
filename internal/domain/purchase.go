package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Purchase-related domain errors.
var (
	ErrEmptyCart = &Error{Code: EINVALID, Message: "Cart is empty"}
)

// Purchase is an immutable record of one checkout line: a single checkout with
// N distinct books yields N purchase records.
type Purchase struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	BookID       uuid.UUID `json:"bookId"`
	Quantity     int32     `json:"quantity"`
	PurchaseDate time.Time `json:"purchaseDate"`
}

// PurchaseDetail is a purchase with its references resolved for listing.
// Book or User may be nil when the referenced record was deleted after the
// purchase was made.
type PurchaseDetail struct {
	Purchase
	Book *Book `json:"book,omitempty"`
	User *User `json:"user,omitempty"`
}

// InsufficientStockError reports a failed stock reservation, naming the first
// offending book and the quantity that was available at the time of the
// attempt.
type InsufficientStockError struct {
	BookID    uuid.UUID
	Title     string
	Available int32
}

// Error implements the error interface.
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for %q. Available: %d", e.Title, e.Available)
}

// DomainError converts the stock failure into a client-correctable domain
// error so the HTTP layer maps it to a 400.
func (e *InsufficientStockError) DomainError(op string) error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: e.Error(),
		Err:     e,
	}
}

// CheckoutService converts a cart into purchase records.
type CheckoutService interface {
	// Checkout purchases every line of the user's cart in one all-or-nothing
	// transaction: each line's stock is reserved atomically, one purchase
	// record is created per line, the user's booksBoughtAmount is incremented
	// by the total quantity, and the cart is emptied. On any failure nothing
	// is committed.
	Checkout(ctx context.Context, userID uuid.UUID) ([]Purchase, error)
}

// ListAllParams controls pagination of the privileged purchase listing.
type ListAllParams struct {
	Limit  int32
	Offset int32
}

// PurchaseService provides the purchase query surface.
type PurchaseService interface {
	// ListMine returns the user's own purchases with book references resolved,
	// most recent first.
	ListMine(ctx context.Context, userID uuid.UUID) ([]PurchaseDetail, error)

	// ListAll returns all purchases with book and user references resolved,
	// most recent first. Privileged operation.
	ListAll(ctx context.Context, params ListAllParams) ([]PurchaseDetail, error)
}
