package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"member-grants-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	Totals(ctx context.Context) (users int, activeByPlan map[string]int, applicationsByStatus map[string]int, err error)
	Revenue(ctx context.Context) (week int64, month int64, year int64, err error)
}

type statsUC struct {
	users    repository.UserRepository
	subs     repository.SubscriptionRepository
	payments repository.PaymentRepository
	apps     repository.GrantApplicationRepository

	log *zerolog.Logger
}

func NewStatsUseCase(
	users repository.UserRepository,
	subs repository.SubscriptionRepository,
	payments repository.PaymentRepository,
	apps repository.GrantApplicationRepository,
	logger *zerolog.Logger,
) *statsUC {
	return &statsUC{users: users, subs: subs, payments: payments, apps: apps, log: logger}
}

func (s *statsUC) Totals(ctx context.Context) (int, map[string]int, map[string]int, error) {
	users, err := s.users.CountUsers(ctx, nil)
	if err != nil {
		return 0, nil, nil, err
	}
	active, err := s.subs.CountActiveByPlan(ctx, nil)
	if err != nil {
		return 0, nil, nil, err
	}
	apps, err := s.apps.CountByStatus(ctx, nil)
	if err != nil {
		return 0, nil, nil, err
	}
	return users, active, apps, nil
}

func (s *statsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	w, err := s.payments.SumCompletedByPeriod(ctx, nil, "week")
	if err != nil {
		return 0, 0, 0, err
	}
	m, err := s.payments.SumCompletedByPeriod(ctx, nil, "month")
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := s.payments.SumCompletedByPeriod(ctx, nil, "year")
	if err != nil {
		return 0, 0, 0, err
	}
	return w, m, y, nil
}
