package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dukerupert/skald/internal/domain"
)

// CartStore is the persistence surface the cart service needs.
// *postgres.Store satisfies it.
type CartStore interface {
	GetCartByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	SetCartItem(ctx context.Context, cartID, bookID uuid.UUID, quantity int32) error
	RemoveCartItem(ctx context.Context, cartID, bookID uuid.UUID) (bool, error)
	GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error)
}

// cartService implements domain.CartService.
type cartService struct {
	store CartStore
}

// NewCartService creates a cart service backed by the given store.
func NewCartService(store CartStore) domain.CartService {
	return &cartService{store: store}
}

// GetCart returns the user's cart. A user who never added anything gets an
// empty cart view instead of an error.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
	}
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "cart.get", "failed to load cart")
	}
	return cart, nil
}

// AddItem puts a book in the cart, merging into the existing line when the
// book is already there. The stock check here compares against stock visible
// now and can go stale; checkout re-validates atomically.
func (s *cartService) AddItem(ctx context.Context, userID, bookID uuid.UUID, quantity int32) (*domain.Cart, error) {
	const op = "cart.add"

	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	cartID, err := s.store.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to create cart")
	}

	newQuantity := quantity
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrCartNotFound) {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to load cart")
	}
	if cart != nil {
		for _, item := range cart.Items {
			if item.BookID == bookID {
				newQuantity += item.Quantity
				break
			}
		}
	}

	if newQuantity > book.Stock {
		return nil, (&domain.InsufficientStockError{
			BookID:    book.ID,
			Title:     book.Title,
			Available: book.Stock,
		}).DomainError(op)
	}

	if err := s.store.SetCartItem(ctx, cartID, bookID, newQuantity); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to add item")
	}
	return s.GetCart(ctx, userID)
}

// UpdateItem sets the quantity of an existing line. Zero or negative removes
// the line, mirroring RemoveItem.
func (s *cartService) UpdateItem(ctx context.Context, userID, bookID uuid.UUID, quantity int32) (*domain.Cart, error) {
	const op = "cart.update"

	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, bookID)
	}

	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var found bool
	for _, item := range cart.Items {
		if item.BookID == bookID {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrCartItemNotFound
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if quantity > book.Stock {
		return nil, (&domain.InsufficientStockError{
			BookID:    book.ID,
			Title:     book.Title,
			Available: book.Stock,
		}).DomainError(op)
	}

	if err := s.store.SetCartItem(ctx, cart.ID, bookID, quantity); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to update item")
	}
	return s.GetCart(ctx, userID)
}

// RemoveItem drops a book from the cart.
func (s *cartService) RemoveItem(ctx context.Context, userID, bookID uuid.UUID) (*domain.Cart, error) {
	const op = "cart.remove"

	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	removed, err := s.store.RemoveCartItem(ctx, cart.ID, bookID)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to remove item")
	}
	if !removed {
		return nil, domain.ErrCartItemNotFound
	}
	return s.GetCart(ctx, userID)
}
