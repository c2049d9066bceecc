package repository

import (
	"context"

	"member-grants-platform/internal/domain/model"
)

type SubscriptionPlanRepository interface {
	Save(ctx context.Context, tx Tx, plan *model.SubscriptionPlan) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.SubscriptionPlan, error)
	ListActive(ctx context.Context, tx Tx) ([]*model.SubscriptionPlan, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
