package repository

import (
	"context"
	"time"

	"member-grants-platform/internal/domain/model"
)

type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, sub *model.Subscription) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Subscription, error)
	// FindByPaymentID backs the activation idempotency check: a payment that
	// already funded a subscription must not fund another.
	FindByPaymentID(ctx context.Context, tx Tx, paymentID string) ([]*model.Subscription, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Subscription, error)
	// ListActiveDue returns active subscriptions whose EndDate is at or before
	// the given instant, for the expiry/renewal worker.
	ListActiveDue(ctx context.Context, tx Tx, now time.Time, limit int) ([]*model.Subscription, error)
	CountActiveByPlan(ctx context.Context, tx Tx) (map[string]int, error)
}
