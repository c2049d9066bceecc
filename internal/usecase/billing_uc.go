// File: internal/usecase/billing_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"member-grants-platform/internal/domain"
	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/adapter"
	"member-grants-platform/internal/domain/ports/repository"
	"member-grants-platform/internal/infra/metrics"
)

// Compile-time check
var _ BillingUseCase = (*billingUC)(nil)

// Locker narrows the duplicate-callback window before the serializable
// transaction re-checks. Satisfied by the redis SetNX locker.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

type BillingUseCase interface {
	// InitiatePayment opens a pending payment priced from the plan and returns
	// it with the gateway redirect URL. userID may be nil for guest payments.
	InitiatePayment(ctx context.Context, userID *string, planID, method, callbackURL string) (*model.Payment, string, error)
	// HandleGatewayCallback applies a gateway outcome exactly once per
	// transaction reference. A repeat delivery for a resolved payment returns
	// ErrDuplicateCallback and changes nothing.
	HandleGatewayCallback(ctx context.Context, n adapter.CallbackNotification) (*model.Payment, error)
	// CreateSubscription activates a subscription funded by a completed
	// payment. The payment row is read inside the same transaction.
	CreateSubscription(ctx context.Context, userID, planID, paymentID string, autoRenew bool) (*model.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*model.Subscription, error)
	// RenewSubscription raises a pending renewal charge for an auto-renewing
	// subscription whose period has ended.
	RenewSubscription(ctx context.Context, subscriptionID string) (*model.Payment, string, error)
	RefundPayment(ctx context.Context, paymentID string) (*model.Payment, error)
	ListSubscriptions(ctx context.Context, userID string) ([]*model.Subscription, error)
	// ExpireDue finishes active non-renewing subscriptions past EndDate.
	ExpireDue(ctx context.Context) (int, error)
	// RenewDue raises renewal charges for auto-renewing subscriptions due.
	RenewDue(ctx context.Context) (int, error)
	// Reconcile re-verifies a stale pending payment against the gateway.
	Reconcile(ctx context.Context, transactionRef string) (*model.Payment, error)
}

type billingUC struct {
	payments repository.PaymentRepository
	plans    repository.SubscriptionPlanRepository
	subs     repository.SubscriptionRepository
	users    repository.UserRepository
	gateway  adapter.PaymentGateway
	tm       repository.TransactionManager
	locker   Locker
	log      *zerolog.Logger
}

func NewBillingUseCase(
	payments repository.PaymentRepository,
	plans repository.SubscriptionPlanRepository,
	subs repository.SubscriptionRepository,
	users repository.UserRepository,
	gateway adapter.PaymentGateway,
	tm repository.TransactionManager,
	locker Locker,
	logger *zerolog.Logger,
) *billingUC {
	l := logger.With().Str("component", "BillingUC").Logger()
	return &billingUC{
		payments: payments,
		plans:    plans,
		subs:     subs,
		users:    users,
		gateway:  gateway,
		tm:       tm,
		locker:   locker,
		log:      &l,
	}
}

// serializable is used wherever a payment outcome is applied or consumed.
var serializable = pgx.TxOptions{IsoLevel: pgx.Serializable}

// mapGatewayStatus converts the gateway's status vocabulary to payment states.
func mapGatewayStatus(s string) (model.PaymentStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OK", "SUCCESS", "PAID", "COMPLETED":
		return model.PaymentStatusCompleted, nil
	case "NOK", "FAILED", "EXPIRED", "CANCELLED":
		return model.PaymentStatusFailed, nil
	case "REFUNDED":
		return model.PaymentStatusRefunded, nil
	default:
		return "", domain.NewValidationError("status", fmt.Sprintf("unknown gateway status %q", s))
	}
}

func (u *billingUC) InitiatePayment(ctx context.Context, userID *string, planID, method, callbackURL string) (*model.Payment, string, error) {
	plan, err := u.plans.FindByID(ctx, nil, planID)
	if err != nil {
		return nil, "", err
	}
	if userID != nil {
		if _, err := u.users.FindByID(ctx, nil, *userID); err != nil {
			return nil, "", err
		}
	}

	p, err := model.NewPayment(userID, &plan.ID, plan.PriceCents, plan.Currency, method)
	if err != nil {
		return nil, "", err
	}

	desc := fmt.Sprintf("subscription: %s", plan.Name)
	ref, payURL, err := u.gateway.RequestPayment(ctx, p.AmountCents, p.Currency, desc, callbackURL)
	if err != nil {
		return nil, "", err
	}
	p.TransactionRef = &ref

	if err := u.payments.Save(ctx, nil, p); err != nil {
		return nil, "", err
	}
	metrics.IncPayment(string(p.Status))
	u.log.Info().Str("payment_id", p.ID).Str("plan_id", plan.ID).Int64("amount", p.AmountCents).Msg("payment initiated")
	return p, payURL, nil
}

func (u *billingUC) HandleGatewayCallback(ctx context.Context, n adapter.CallbackNotification) (*model.Payment, error) {
	if n.TransactionRef == "" {
		return nil, domain.NewValidationError("transactionReference", "must not be empty")
	}
	target, err := mapGatewayStatus(n.Status)
	if err != nil {
		return nil, err
	}

	// Fast-path dedup: concurrent deliveries of the same reference queue up on
	// the lock; the transaction below remains the authoritative check.
	if u.locker != nil {
		key := "billing:cb:" + n.TransactionRef
		token, err := u.locker.TryLock(ctx, key, 30*time.Second)
		if err != nil {
			return nil, domain.ErrDuplicateCallback
		}
		defer func() { _ = u.locker.Unlock(ctx, key, token) }()
	}

	var out *model.Payment
	err = u.tm.WithTx(ctx, serializable, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.payments.FindByTransactionRef(ctx, tx, n.TransactionRef)
		if err != nil {
			return err
		}
		if p.Status != model.PaymentStatusPending {
			// Already resolved. A refund notice for a completed payment is the
			// one legal late arrival; everything else is a duplicate.
			if !(target == model.PaymentStatusRefunded && p.Status == model.PaymentStatusCompleted) {
				return domain.ErrDuplicateCallback
			}
		}
		if target == model.PaymentStatusCompleted && n.AmountCents > 0 && n.AmountCents != p.AmountCents {
			return domain.NewValidationError("amount", "does not match the payment record")
		}
		if err := p.Transition(target); err != nil {
			return err
		}
		if err := u.payments.Save(ctx, tx, p); err != nil {
			return err
		}

		switch target {
		case model.PaymentStatusCompleted:
			if err := u.settleCompleted(ctx, tx, p); err != nil {
				return err
			}
		case model.PaymentStatusFailed:
			if err := u.expireRenewalTarget(ctx, tx, p); err != nil {
				return err
			}
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncPayment(string(out.Status))
	if out.Status == model.PaymentStatusCompleted {
		metrics.AddPaymentRevenue(out.Currency, out.AmountCents)
	}
	u.log.Info().Str("payment_id", out.ID).Str("ref", n.TransactionRef).Str("status", string(out.Status)).Msg("gateway callback applied")
	return out, nil
}

// settleCompleted turns a freshly completed payment into entitlement: a new
// contiguous period for renewals, a fresh subscription for plan purchases.
// Guest payments without a user or plan fund nothing.
func (u *billingUC) settleCompleted(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if p.RenewsSubscriptionID != nil {
		old, err := u.subs.FindByID(ctx, tx, *p.RenewsSubscriptionID)
		if err != nil {
			return err
		}
		_, err = u.activate(ctx, tx, p, old.UserID, old.PlanID, old.AutoRenew, old.EndDate)
		if err != nil {
			return err
		}
		// The old period has ended; retire it once its successor exists.
		if old.Status == model.SubscriptionStatusActive {
			if err := old.Transition(model.SubscriptionStatusExpired); err != nil {
				return err
			}
			if err := u.subs.Save(ctx, tx, old); err != nil {
				return err
			}
		}
		metrics.IncSubscriptionEvent("renewed")
		return nil
	}
	if p.UserID == nil || p.PlanID == nil {
		return nil
	}
	_, err := u.activate(ctx, tx, p, *p.UserID, *p.PlanID, false, time.Now())
	return err
}

// activate creates the subscription a completed payment funds. Idempotent per
// (payment, plan): replays find the existing row and return it.
func (u *billingUC) activate(ctx context.Context, tx repository.Tx, p *model.Payment, userID, planID string, autoRenew bool, start time.Time) (*model.Subscription, error) {
	if p.Status != model.PaymentStatusCompleted {
		return nil, domain.ErrPaymentNotSettled
	}
	existing, err := u.subs.FindByPaymentID(ctx, tx, p.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	for _, s := range existing {
		if s.PlanID == planID {
			return s, nil
		}
	}
	plan, err := u.plans.FindByID(ctx, tx, planID)
	if err != nil {
		return nil, err
	}
	sub, err := model.NewSubscription(userID, planID, p.ID, plan, start, autoRenew)
	if err != nil {
		return nil, err
	}
	if err := u.subs.Save(ctx, tx, sub); err != nil {
		return nil, err
	}
	p.SubscriptionID = &sub.ID
	if err := u.payments.Save(ctx, tx, p); err != nil {
		return nil, err
	}
	metrics.IncSubscriptionEvent("activated")
	return sub, nil
}

// expireRenewalTarget finishes the subscription whose renewal charge failed.
func (u *billingUC) expireRenewalTarget(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if p.RenewsSubscriptionID == nil {
		return nil
	}
	sub, err := u.subs.FindByID(ctx, tx, *p.RenewsSubscriptionID)
	if err != nil {
		return err
	}
	if sub.Status != model.SubscriptionStatusActive {
		return nil
	}
	if err := sub.Transition(model.SubscriptionStatusExpired); err != nil {
		return err
	}
	if err := u.subs.Save(ctx, tx, sub); err != nil {
		return err
	}
	metrics.IncSubscriptionEvent("expired")
	return nil
}

func (u *billingUC) CreateSubscription(ctx context.Context, userID, planID, paymentID string, autoRenew bool) (*model.Subscription, error) {
	if userID == "" || planID == "" || paymentID == "" {
		return nil, domain.ErrInvalidArgument
	}
	var out *model.Subscription
	err := u.tm.WithTx(ctx, serializable, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.payments.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if p.UserID != nil && *p.UserID != userID {
			return domain.NewValidationError("userId", "does not own the payment")
		}
		out, err = u.activate(ctx, tx, p, userID, planID, autoRenew, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *billingUC) CancelSubscription(ctx context.Context, subscriptionID string) (*model.Subscription, error) {
	var out *model.Subscription
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		sub, err := u.subs.FindByID(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}
		if err := sub.Transition(model.SubscriptionStatusCancelled); err != nil {
			return err
		}
		if err := u.subs.Save(ctx, tx, sub); err != nil {
			return err
		}
		out = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.IncSubscriptionEvent("cancelled")
	u.log.Info().Str("subscription_id", subscriptionID).Msg("subscription cancelled")
	return out, nil
}

func (u *billingUC) RenewSubscription(ctx context.Context, subscriptionID string) (*model.Payment, string, error) {
	sub, err := u.subs.FindByID(ctx, nil, subscriptionID)
	if err != nil {
		return nil, "", err
	}
	if !sub.RenewalDue(time.Now()) {
		return nil, "", domain.ErrNotRenewable
	}
	// A renewal charge already in flight is reused, never doubled.
	if open, err := u.payments.FindPendingRenewal(ctx, nil, sub.ID); err == nil {
		return open, "", nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	plan, err := u.plans.FindByID(ctx, nil, sub.PlanID)
	if err != nil {
		return nil, "", err
	}
	p, err := model.NewPayment(&sub.UserID, &sub.PlanID, plan.PriceCents, plan.Currency, "renewal")
	if err != nil {
		return nil, "", err
	}
	p.RenewsSubscriptionID = &sub.ID

	desc := fmt.Sprintf("renewal: %s", plan.Name)
	ref, payURL, err := u.gateway.RequestPayment(ctx, p.AmountCents, p.Currency, desc, "")
	if err != nil {
		return nil, "", err
	}
	p.TransactionRef = &ref

	if err := u.payments.Save(ctx, nil, p); err != nil {
		return nil, "", err
	}
	metrics.IncPayment(string(p.Status))
	u.log.Info().Str("payment_id", p.ID).Str("subscription_id", sub.ID).Msg("renewal payment raised")
	return p, payURL, nil
}

func (u *billingUC) RefundPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	var out *model.Payment
	err := u.tm.WithTx(ctx, serializable, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.payments.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if err := p.Transition(model.PaymentStatusRefunded); err != nil {
			return err
		}
		if err := u.payments.Save(ctx, tx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.IncPayment(string(out.Status))
	return out, nil
}

func (u *billingUC) ListSubscriptions(ctx context.Context, userID string) ([]*model.Subscription, error) {
	return u.subs.ListByUser(ctx, nil, userID)
}

func (u *billingUC) ExpireDue(ctx context.Context) (int, error) {
	finished := 0
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		due, err := u.subs.ListActiveDue(ctx, tx, time.Now(), 500)
		if err != nil {
			return err
		}
		for _, sub := range due {
			if sub.AutoRenew {
				continue // renewal flow owns these
			}
			if err := sub.Transition(model.SubscriptionStatusExpired); err != nil {
				return err
			}
			if err := u.subs.Save(ctx, tx, sub); err != nil {
				return err
			}
			finished++
		}
		return nil
	})
	if err != nil {
		return finished, err
	}
	if finished > 0 {
		metrics.AddSubscriptionEvents("expired", finished)
	}
	return finished, nil
}

func (u *billingUC) RenewDue(ctx context.Context) (int, error) {
	due, err := u.subs.ListActiveDue(ctx, nil, time.Now(), 500)
	if err != nil {
		return 0, err
	}
	raised := 0
	for _, sub := range due {
		if !sub.AutoRenew {
			continue
		}
		if _, _, err := u.RenewSubscription(ctx, sub.ID); err != nil {
			if errors.Is(err, domain.ErrNotRenewable) {
				continue
			}
			u.log.Error().Err(err).Str("subscription_id", sub.ID).Msg("renewal failed")
			continue
		}
		raised++
	}
	return raised, nil
}

func (u *billingUC) Reconcile(ctx context.Context, transactionRef string) (*model.Payment, error) {
	p, err := u.payments.FindByTransactionRef(ctx, nil, transactionRef)
	if err != nil {
		return nil, err
	}
	if p.Status != model.PaymentStatusPending {
		return nil, domain.ErrDuplicateCallback
	}
	status, err := u.gateway.VerifyPayment(ctx, transactionRef, p.AmountCents)
	if err != nil {
		// Gateway unreachable or undecided: the payment stays pending.
		return nil, err
	}
	return u.HandleGatewayCallback(ctx, adapter.CallbackNotification{
		TransactionRef: transactionRef,
		Status:         status,
		AmountCents:    p.AmountCents,
	})
}
