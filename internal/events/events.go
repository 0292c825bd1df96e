// Package events publishes domain events to NATS. Publishing is best effort:
// checkout and the other write paths never fail because a broker is down.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/skald/internal/domain"
)

// Subjects published by the store.
const (
	SubjectPurchaseCompleted = "skald.purchase.completed"
)

// PurchaseCompleted is emitted after a checkout transaction commits.
type PurchaseCompleted struct {
	UserID        uuid.UUID         `json:"userId"`
	Purchases     []domain.Purchase `json:"purchases"`
	TotalQuantity int32             `json:"totalQuantity"`
	CompletedAt   time.Time         `json:"completedAt"`
}

// Publisher broadcasts domain events.
type Publisher interface {
	PublishPurchaseCompleted(ctx context.Context, event PurchaseCompleted) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPurchaseCompleted(context.Context, PurchaseCompleted) error {
	return nil
}
