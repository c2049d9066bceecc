package model

import (
	"time"

	"member-grants-platform/internal/domain"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // awaiting gateway outcome
	PaymentStatusCompleted PaymentStatus = "completed" // gateway confirmed the charge
	PaymentStatusFailed    PaymentStatus = "failed"    // gateway reported failure
	PaymentStatusRefunded  PaymentStatus = "refunded"  // money returned; terminal
)

// paymentTransitions is the allowed-transition table. A pending payment with a
// gateway timeout simply stays pending; expiring it is the caller's job.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted: {PaymentStatusRefunded},
}

func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) IsTerminal() bool {
	return len(paymentTransitions[s]) == 0
}

// Payment records one charge attempt. UserID and PlanID are nullable: guest
// payments carry no user, and ad-hoc charges carry no plan.
type Payment struct {
	ID          string
	UserID      *string
	PlanID      *string
	AmountCents int64
	Currency    string
	Status      PaymentStatus
	Method      string // payment method label, e.g. "card"

	// TransactionRef is the gateway's reference, unique when set. It is the
	// idempotency key for callback delivery.
	TransactionRef *string

	// SubscriptionID links to the subscription this payment funded (set after
	// activation). RenewsSubscriptionID marks a renewal charge for an existing
	// subscription and drives the expired-on-failure rule.
	SubscriptionID       *string
	RenewsSubscriptionID *string

	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPayment constructs a pending payment.
func NewPayment(userID, planID *string, amountCents int64, currency, method string) (*Payment, error) {
	if amountCents <= 0 {
		return nil, domain.NewValidationError("amount", "must be positive")
	}
	if currency == "" {
		return nil, domain.NewValidationError("currency", "must not be empty")
	}
	now := time.Now()
	return &Payment{
		ID:          uuid.NewString(),
		UserID:      userID,
		PlanID:      planID,
		AmountCents: amountCents,
		Currency:    currency,
		Status:      PaymentStatusPending,
		Method:      method,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Transition validates against the table and applies the status change.
func (p *Payment) Transition(next PaymentStatus) error {
	if !p.Status.CanTransition(next) {
		return domain.NewStateTransitionError("payment", string(p.Status), string(next))
	}
	p.Status = next
	p.UpdatedAt = time.Now()
	if next == PaymentStatusCompleted {
		paid := p.UpdatedAt
		p.PaidAt = &paid
	}
	return nil
}
