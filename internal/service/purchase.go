package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukerupert/skald/internal/domain"
)

// Pagination bounds for the privileged purchase listing.
const (
	defaultPurchaseLimit = 50
	maxPurchaseLimit     = 200
)

// PurchaseStore is the persistence surface the purchase query service needs.
// *postgres.Store satisfies it.
type PurchaseStore interface {
	ListPurchasesByUser(ctx context.Context, userID uuid.UUID) ([]domain.PurchaseDetail, error)
	ListAllPurchases(ctx context.Context, limit, offset int32) ([]domain.PurchaseDetail, error)
}

// purchaseService implements domain.PurchaseService.
type purchaseService struct {
	store PurchaseStore
}

// NewPurchaseService creates the purchase query service.
func NewPurchaseService(store PurchaseStore) domain.PurchaseService {
	return &purchaseService{store: store}
}

// ListMine returns the caller's purchase history, most recent first.
func (s *purchaseService) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.PurchaseDetail, error) {
	purchases, err := s.store.ListPurchasesByUser(ctx, userID)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "purchase.list_mine", "failed to list purchases")
	}
	return purchases, nil
}

// ListAll returns every purchase with book and user references resolved.
// Limits outside [1, maxPurchaseLimit] fall back to the defaults.
func (s *purchaseService) ListAll(ctx context.Context, params domain.ListAllParams) ([]domain.PurchaseDetail, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPurchaseLimit
	}
	if limit > maxPurchaseLimit {
		limit = maxPurchaseLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	purchases, err := s.store.ListAllPurchases(ctx, limit, offset)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "purchase.list_all", "failed to list purchases")
	}
	return purchases, nil
}
