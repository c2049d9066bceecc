package repository

import (
	"context"
	"time"

	"member-grants-platform/internal/domain/model"
)

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)
	// FindByTransactionRef is the idempotency lookup for gateway callbacks;
	// implementations lock the row when called inside a tx.
	FindByTransactionRef(ctx context.Context, tx Tx, ref string) (*model.Payment, error)
	// FindPendingRenewal returns the open renewal charge for a subscription,
	// or ErrNotFound.
	FindPendingRenewal(ctx context.Context, tx Tx, subscriptionID string) (*model.Payment, error)
	ListPendingOlderThan(ctx context.Context, tx Tx, cutoff time.Time, limit int) ([]*model.Payment, error)
	SumCompletedByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
}
