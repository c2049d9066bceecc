package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"member-grants-platform/internal/infra/metrics"
	"member-grants-platform/internal/usecase"
)

// ExpiryWorker periodically finishes lapsed subscriptions and raises renewal
// charges for auto-renewing ones, via the billing use case.
type ExpiryWorker struct {
	interval time.Duration
	billing  usecase.BillingUseCase
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, billing usecase.BillingUseCase, logger *zerolog.Logger) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	l := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{interval: interval, billing: billing, log: &l}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			expired, err := w.billing.ExpireDue(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("expiry pass error")
			}
			if expired > 0 {
				metrics.AddSubscriptionEvents("expired", expired)
				w.log.Info().Int("count", expired).Msg("expired subscriptions finished")
			}

			renewed, err := w.billing.RenewDue(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("renewal pass error")
			}
			if renewed > 0 {
				metrics.AddSubscriptionEvents("renewal_raised", renewed)
				w.log.Info().Int("count", renewed).Msg("renewal charges raised")
			}
		}
	}
}
