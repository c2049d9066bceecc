package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"member-grants-platform/internal/domain/ports/repository"
	"member-grants-platform/internal/usecase"
)

// PaymentReconciler periodically scans for stale pending payments and tries to
// finalize them by re-verifying the transaction against the gateway. This
// covers cases where the callback never arrived or the process crashed
// mid-settlement.
type PaymentReconciler struct {
	billing    usecase.BillingUseCase
	payments   repository.PaymentRepository
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending payment must be to retry
	log        *zerolog.Logger
}

func NewPaymentReconciler(billing usecase.BillingUseCase, payments repository.PaymentRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	l := logger.With().Str("component", "PaymentReconciler").Logger()
	return &PaymentReconciler{billing: billing, payments: payments, interval: interval, staleAfter: staleAfter, log: &l}
}

func (w *PaymentReconciler) Run(ctx context.Context) error {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	pending, err := w.payments.ListPendingOlderThan(ctx, nil, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("list stale pending payments")
		return
	}
	for _, p := range pending {
		if p.TransactionRef == nil {
			continue
		}
		if _, err := w.billing.Reconcile(ctx, *p.TransactionRef); err != nil {
			w.log.Warn().Err(err).Str("payment_id", p.ID).Str("ref", *p.TransactionRef).Msg("reconcile failed")
			continue
		}
		w.log.Info().Str("payment_id", p.ID).Msg("payment reconciled")
	}
}
