package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/skald/internal/domain"
	"github.com/dukerupert/skald/internal/events"
	"github.com/dukerupert/skald/internal/postgres"
)

// CheckoutTx is the set of writes executed inside a single checkout
// transaction. *postgres.Store satisfies it both pool-backed and tx-scoped.
type CheckoutTx interface {
	ReserveStock(ctx context.Context, bookID uuid.UUID, quantity int32) (int32, error)
	InsertPurchase(ctx context.Context, userID, bookID uuid.UUID, quantity int32) (*domain.Purchase, error)
	IncrementBooksBought(ctx context.Context, userID uuid.UUID, delta int32) error
	ClearCartItems(ctx context.Context, cartID uuid.UUID) error
}

// CheckoutStore provides the cart snapshot read and the transaction boundary
// the coordinator runs inside.
type CheckoutStore interface {
	GetCartForCheckout(ctx context.Context, userID uuid.UUID) (*domain.CartSnapshot, error)
	InTx(ctx context.Context, fn func(tx CheckoutTx) error) error
}

// checkoutStore adapts *postgres.Store to CheckoutStore.
type checkoutStore struct {
	*postgres.Store
}

// NewCheckoutStore wraps a postgres store for use by the checkout service.
func NewCheckoutStore(store *postgres.Store) CheckoutStore {
	return checkoutStore{store}
}

func (s checkoutStore) InTx(ctx context.Context, fn func(tx CheckoutTx) error) error {
	return s.WithTx(ctx, func(tx *postgres.Store) error {
		return fn(tx)
	})
}

// checkoutService implements domain.CheckoutService.
type checkoutService struct {
	store     CheckoutStore
	publisher events.Publisher
	logger    *slog.Logger
}

// NewCheckoutService creates the checkout coordinator. The publisher is best
// effort; pass events.NoopPublisher when no broker is configured.
func NewCheckoutService(store CheckoutStore, publisher events.Publisher, logger *slog.Logger) domain.CheckoutService {
	return &checkoutService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Checkout purchases the whole cart or nothing.
//
// The snapshot read before the transaction is advisory only: its stock values
// feed error messages, while the conditional reservation inside the
// transaction is the sole authority on availability. Lines are processed in
// the cart's insertion order, so the first line that cannot be reserved names
// the failure.
func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID) ([]domain.Purchase, error) {
	const op = "checkout"

	snapshot, err := s.store.GetCartForCheckout(ctx, userID)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to load cart")
	}
	if snapshot.Empty() {
		return nil, domain.ErrEmptyCart
	}

	var purchases []domain.Purchase
	err = s.store.InTx(ctx, func(tx CheckoutTx) error {
		purchases = purchases[:0]
		for _, line := range snapshot.Lines {
			if _, err := tx.ReserveStock(ctx, line.BookID, line.Quantity); err != nil {
				var stockErr *domain.InsufficientStockError
				if errors.As(err, &stockErr) {
					return stockErr.DomainError(op)
				}
				if errors.Is(err, domain.ErrBookNotFound) {
					return domain.Errorf(domain.EINVALID, op,
						"Book %s is no longer available", line.BookID)
				}
				return err
			}

			purchase, err := tx.InsertPurchase(ctx, userID, line.BookID, line.Quantity)
			if err != nil {
				return err
			}
			purchases = append(purchases, *purchase)
		}

		if err := tx.IncrementBooksBought(ctx, userID, snapshot.TotalQuantity()); err != nil {
			return err
		}
		return tx.ClearCartItems(ctx, snapshot.CartID)
	})
	if err != nil {
		var domainErr *domain.Error
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "transaction failed")
	}

	event := events.PurchaseCompleted{
		UserID:        userID,
		Purchases:     purchases,
		TotalQuantity: snapshot.TotalQuantity(),
		CompletedAt:   time.Now().UTC(),
	}
	if err := s.publisher.PublishPurchaseCompleted(ctx, event); err != nil {
		s.logger.Warn("failed to publish purchase event",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
	}

	return purchases, nil
}
