// File: internal/usecase/plan_uc.go
package usecase

import (
	"context"

	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

type PlanUseCase interface {
	Create(ctx context.Context, name string, priceCents int64, currency string, interval model.BillingInterval, features []string) (*model.SubscriptionPlan, error)
	Get(ctx context.Context, id string) (*model.SubscriptionPlan, error)
	List(ctx context.Context) ([]*model.SubscriptionPlan, error)
	Delete(ctx context.Context, id string) error
}

type planUC struct {
	plans repository.SubscriptionPlanRepository
}

func NewPlanUseCase(plans repository.SubscriptionPlanRepository) *planUC {
	return &planUC{plans: plans}
}

func (u *planUC) Create(ctx context.Context, name string, priceCents int64, currency string, interval model.BillingInterval, features []string) (*model.SubscriptionPlan, error) {
	p, err := model.NewSubscriptionPlan("", name, priceCents, currency, interval, features)
	if err != nil {
		return nil, err
	}
	if err := u.plans.Save(ctx, nil, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *planUC) Get(ctx context.Context, id string) (*model.SubscriptionPlan, error) {
	return u.plans.FindByID(ctx, nil, id)
}

func (u *planUC) List(ctx context.Context) ([]*model.SubscriptionPlan, error) {
	return u.plans.ListActive(ctx, nil)
}

func (u *planUC) Delete(ctx context.Context, id string) error {
	return u.plans.Delete(ctx, nil, id)
}
